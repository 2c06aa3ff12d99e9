// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package state

import (
	"fmt"

	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
)

// GetConnection returns the connection end stored under connectionID
func (s *State) GetConnection(
	connectionID host.ConnectionID,
) (common.ConnectionEnd, bool, error) {
	data := s.getRaw(host.ConnectionPath(connectionID))
	if data == nil {
		return common.ConnectionEnd{}, false, nil
	}
	end, err := common.DecodeConnectionEnd(data)
	if err != nil {
		return common.ConnectionEnd{}, false, fmt.Errorf(
			"decode connection %s: %w",
			connectionID,
			err,
		)
	}
	return end, true, nil
}

func (s *State) SetConnection(
	connectionID host.ConnectionID,
	end common.ConnectionEnd,
) error {
	data, err := end.Encode()
	if err != nil {
		return fmt.Errorf("encode connection %s: %w", connectionID, err)
	}
	s.setRaw(host.ConnectionPath(connectionID), data)
	return nil
}

// GetChannel returns the channel end stored under (portID, channelID)
func (s *State) GetChannel(
	portID host.PortID,
	channelID host.ChannelID,
) (common.ChannelEnd, bool, error) {
	data := s.getRaw(host.ChannelPath(portID, channelID))
	if data == nil {
		return common.ChannelEnd{}, false, nil
	}
	end, err := common.DecodeChannelEnd(data)
	if err != nil {
		return common.ChannelEnd{}, false, fmt.Errorf(
			"decode channel %s/%s: %w",
			portID,
			channelID,
			err,
		)
	}
	return end, true, nil
}

func (s *State) SetChannel(
	portID host.PortID,
	channelID host.ChannelID,
	end common.ChannelEnd,
) error {
	data, err := end.Encode()
	if err != nil {
		return fmt.Errorf("encode channel %s/%s: %w", portID, channelID, err)
	}
	s.setRaw(host.ChannelPath(portID, channelID), data)
	return nil
}

// GetClientState returns the stored state of a light client
func (s *State) GetClientState(clientID host.ClientID) (common.ClientState, bool, error) {
	data := s.getRaw(host.ClientStatePath(clientID))
	if data == nil {
		return common.ClientState{}, false, nil
	}
	clientState, err := common.DecodeClientState(data)
	if err != nil {
		return common.ClientState{}, false, fmt.Errorf("decode client %s: %w", clientID, err)
	}
	return clientState, true, nil
}

func (s *State) SetClientState(clientID host.ClientID, clientState common.ClientState) error {
	data, err := clientState.Encode()
	if err != nil {
		return fmt.Errorf("encode client %s: %w", clientID, err)
	}
	s.setRaw(host.ClientStatePath(clientID), data)
	return nil
}

// GetConsensusState returns the trusted counterparty state at a height
func (s *State) GetConsensusState(
	clientID host.ClientID,
	height common.Height,
) (common.ConsensusState, bool, error) {
	data := s.getRaw(
		host.ConsensusStatePath(clientID, height.RevisionNumber, height.RevisionHeight),
	)
	if data == nil {
		return common.ConsensusState{}, false, nil
	}
	consensusState, err := common.DecodeConsensusState(data)
	if err != nil {
		return common.ConsensusState{}, false, fmt.Errorf(
			"decode consensus state %s@%s: %w",
			clientID,
			height,
			err,
		)
	}
	return consensusState, true, nil
}

func (s *State) SetConsensusState(
	clientID host.ClientID,
	height common.Height,
	consensusState common.ConsensusState,
) error {
	data, err := consensusState.Encode()
	if err != nil {
		return fmt.Errorf("encode consensus state %s@%s: %w", clientID, height, err)
	}
	s.setRaw(
		host.ConsensusStatePath(clientID, height.RevisionNumber, height.RevisionHeight),
		data,
	)
	return nil
}

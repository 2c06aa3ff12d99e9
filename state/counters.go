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
	"github.com/blinklabs-io/goibc/host"
)

// GetChannelCounter returns the number of channels created so far
func (s *State) GetChannelCounter() (uint64, error) {
	return s.getUint64(host.ChannelCounterPath())
}

// NextChannelID returns a fresh channel identifier and advances the counter
func (s *State) NextChannelID() (host.ChannelID, error) {
	ctr, err := s.GetChannelCounter()
	if err != nil {
		return "", err
	}
	if err := s.setUint64(host.ChannelCounterPath(), ctr+1); err != nil {
		return "", err
	}
	return host.FormatChannelID(ctr), nil
}

// GetConnectionCounter returns the number of connections created so far
func (s *State) GetConnectionCounter() (uint64, error) {
	return s.getUint64(host.ConnectionCounterPath())
}

// NextConnectionID returns a fresh connection identifier and advances the counter
func (s *State) NextConnectionID() (host.ConnectionID, error) {
	ctr, err := s.GetConnectionCounter()
	if err != nil {
		return "", err
	}
	if err := s.setUint64(host.ConnectionCounterPath(), ctr+1); err != nil {
		return "", err
	}
	return host.FormatConnectionID(ctr), nil
}

// GetClientCounter returns the number of clients created so far
func (s *State) GetClientCounter() (uint64, error) {
	return s.getUint64(host.ClientCounterPath())
}

// NextClientID returns a fresh client identifier of the given client type
// and advances the counter
func (s *State) NextClientID(clientType string) (host.ClientID, error) {
	ctr, err := s.GetClientCounter()
	if err != nil {
		return "", err
	}
	if err := s.setUint64(host.ClientCounterPath(), ctr+1); err != nil {
		return "", err
	}
	return host.FormatClientID(clientType, ctr), nil
}

func (s *State) GetNextSequenceSend(portID host.PortID, channelID host.ChannelID) (uint64, error) {
	return s.getUint64(host.NextSequenceSendPath(portID, channelID))
}

func (s *State) SetNextSequenceSend(portID host.PortID, channelID host.ChannelID, sequence uint64) error {
	return s.setUint64(host.NextSequenceSendPath(portID, channelID), sequence)
}

func (s *State) GetNextSequenceRecv(portID host.PortID, channelID host.ChannelID) (uint64, error) {
	return s.getUint64(host.NextSequenceRecvPath(portID, channelID))
}

func (s *State) SetNextSequenceRecv(portID host.PortID, channelID host.ChannelID, sequence uint64) error {
	return s.setUint64(host.NextSequenceRecvPath(portID, channelID), sequence)
}

func (s *State) GetNextSequenceAck(portID host.PortID, channelID host.ChannelID) (uint64, error) {
	return s.getUint64(host.NextSequenceAckPath(portID, channelID))
}

func (s *State) SetNextSequenceAck(portID host.PortID, channelID host.ChannelID, sequence uint64) error {
	return s.setUint64(host.NextSequenceAckPath(portID, channelID), sequence)
}

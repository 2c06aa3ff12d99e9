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

package channel

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/connection"
	"github.com/blinklabs-io/goibc/host"
)

// Message types. Packet actions are listed here since they are part of the
// channel state machine
const (
	MessageTypeChannelOpenInit      = 1
	MessageTypeChannelOpenTry       = 2
	MessageTypeChannelOpenAck       = 3
	MessageTypeChannelOpenConfirm   = 4
	MessageTypeChannelCloseInit     = 5
	MessageTypeChannelCloseConfirm  = 6
	MessageTypeSendPacket           = 7
	MessageTypeRecvPacket           = 8
	MessageTypeWriteAcknowledgement = 9
	MessageTypeAcknowledgePacket    = 10
	MessageTypeTimeoutPacket        = 11
	MessageTypeTimeoutOnClose       = 12
	MessageTypeCloseOnTimeout       = 13
)

// MsgChannelOpenInit starts a channel handshake on a bound port
type MsgChannelOpenInit struct {
	PortID             host.PortID
	Ordering           common.Order
	ConnectionHops     []host.ConnectionID
	CounterpartyPortID host.PortID
	Version            string
}

func (MsgChannelOpenInit) Type() uint8 {
	return MessageTypeChannelOpenInit
}

func (m MsgChannelOpenInit) ValidateBasic() error {
	if err := m.PortID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidMessage, err.Error())
	}
	return m.end().ValidateBasic()
}

func (m MsgChannelOpenInit) end() common.ChannelEnd {
	return common.NewChannelEnd(
		common.ChannelStateInit,
		m.Ordering,
		common.ChannelCounterparty{PortID: m.CounterpartyPortID},
		m.ConnectionHops,
		m.Version,
	)
}

// MsgChannelOpenTry answers a counterparty's INIT with a proof of its
// channel end. Version defaults to CounterpartyVersion when blank
type MsgChannelOpenTry struct {
	PortID              host.PortID
	Ordering            common.Order
	ConnectionHops      []host.ConnectionID
	Counterparty        common.ChannelCounterparty
	Version             string
	CounterpartyVersion string
	ProofInit           []byte
	ProofHeight         common.Height
}

func (MsgChannelOpenTry) Type() uint8 {
	return MessageTypeChannelOpenTry
}

func (m MsgChannelOpenTry) ValidateBasic() error {
	if err := m.PortID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidMessage, err.Error())
	}
	if err := m.Counterparty.ChannelID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidCounterparty, err.Error())
	}
	if err := m.end().ValidateBasic(); err != nil {
		return err
	}
	return connection.ValidateProof(m.ProofInit, m.ProofHeight)
}

func (m MsgChannelOpenTry) Proofs() [][]byte {
	return [][]byte{m.ProofInit}
}

func (m MsgChannelOpenTry) version() string {
	if m.Version == "" {
		return m.CounterpartyVersion
	}
	return m.Version
}

func (m MsgChannelOpenTry) end() common.ChannelEnd {
	return common.NewChannelEnd(
		common.ChannelStateTryOpen,
		m.Ordering,
		m.Counterparty,
		m.ConnectionHops,
		m.version(),
	)
}

// MsgChannelOpenAck opens an INIT channel end
type MsgChannelOpenAck struct {
	PortID                host.PortID
	ChannelID             host.ChannelID
	CounterpartyChannelID host.ChannelID
	CounterpartyVersion   string
	ProofTry              []byte
	ProofHeight           common.Height
}

func (MsgChannelOpenAck) Type() uint8 {
	return MessageTypeChannelOpenAck
}

func (m MsgChannelOpenAck) ValidateBasic() error {
	if err := validateChannel(m.PortID, m.ChannelID); err != nil {
		return err
	}
	if err := m.CounterpartyChannelID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidCounterparty, err.Error())
	}
	return connection.ValidateProof(m.ProofTry, m.ProofHeight)
}

func (m MsgChannelOpenAck) Proofs() [][]byte {
	return [][]byte{m.ProofTry}
}

// MsgChannelOpenConfirm opens a TRYOPEN channel end
type MsgChannelOpenConfirm struct {
	PortID      host.PortID
	ChannelID   host.ChannelID
	ProofAck    []byte
	ProofHeight common.Height
}

func (MsgChannelOpenConfirm) Type() uint8 {
	return MessageTypeChannelOpenConfirm
}

func (m MsgChannelOpenConfirm) ValidateBasic() error {
	if err := validateChannel(m.PortID, m.ChannelID); err != nil {
		return err
	}
	return connection.ValidateProof(m.ProofAck, m.ProofHeight)
}

func (m MsgChannelOpenConfirm) Proofs() [][]byte {
	return [][]byte{m.ProofAck}
}

// MsgChannelCloseInit closes an OPEN channel unilaterally
type MsgChannelCloseInit struct {
	PortID    host.PortID
	ChannelID host.ChannelID
}

func (MsgChannelCloseInit) Type() uint8 {
	return MessageTypeChannelCloseInit
}

func (m MsgChannelCloseInit) ValidateBasic() error {
	return validateChannel(m.PortID, m.ChannelID)
}

// MsgChannelCloseConfirm closes a channel whose counterparty end is CLOSED
type MsgChannelCloseConfirm struct {
	PortID      host.PortID
	ChannelID   host.ChannelID
	ProofInit   []byte
	ProofHeight common.Height
}

func (MsgChannelCloseConfirm) Type() uint8 {
	return MessageTypeChannelCloseConfirm
}

func (m MsgChannelCloseConfirm) ValidateBasic() error {
	if err := validateChannel(m.PortID, m.ChannelID); err != nil {
		return err
	}
	return connection.ValidateProof(m.ProofInit, m.ProofHeight)
}

func (m MsgChannelCloseConfirm) Proofs() [][]byte {
	return [][]byte{m.ProofInit}
}

func validateChannel(portID host.PortID, channelID host.ChannelID) error {
	if err := portID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidMessage, err.Error())
	}
	if err := channelID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidMessage, err.Error())
	}
	return nil
}

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

package packet

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/channel"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/connection"
)

// MsgSendPacket sends a packet whose sequence is assigned on send
type MsgSendPacket struct {
	Packet common.Packet
}

func (MsgSendPacket) Type() uint8 {
	return channel.MessageTypeSendPacket
}

func (m MsgSendPacket) ValidateBasic() error {
	return m.Packet.ValidateSend()
}

// MsgRecvPacket delivers a packet with a proof of its commitment on the
// sending chain
type MsgRecvPacket struct {
	Packet          common.Packet
	ProofCommitment []byte
	ProofHeight     common.Height
}

func (MsgRecvPacket) Type() uint8 {
	return channel.MessageTypeRecvPacket
}

func (m MsgRecvPacket) ValidateBasic() error {
	if err := m.Packet.ValidateBasic(); err != nil {
		return err
	}
	return connection.ValidateProof(m.ProofCommitment, m.ProofHeight)
}

func (m MsgRecvPacket) Proofs() [][]byte {
	return [][]byte{m.ProofCommitment}
}

// MsgWriteAcknowledgement writes an acknowledgement that the application
// deferred when it received the packet
type MsgWriteAcknowledgement struct {
	Packet          common.Packet
	Acknowledgement []byte
}

func (MsgWriteAcknowledgement) Type() uint8 {
	return channel.MessageTypeWriteAcknowledgement
}

func (m MsgWriteAcknowledgement) ValidateBasic() error {
	if err := m.Packet.ValidateBasic(); err != nil {
		return err
	}
	return validateAck(m.Acknowledgement)
}

// MsgAcknowledgement returns an acknowledgement to the sending chain with a
// proof that the receiving chain committed to it
type MsgAcknowledgement struct {
	Packet          common.Packet
	Acknowledgement []byte
	ProofAcked      []byte
	ProofHeight     common.Height
}

func (MsgAcknowledgement) Type() uint8 {
	return channel.MessageTypeAcknowledgePacket
}

func (m MsgAcknowledgement) ValidateBasic() error {
	if err := m.Packet.ValidateBasic(); err != nil {
		return err
	}
	if err := validateAck(m.Acknowledgement); err != nil {
		return err
	}
	return connection.ValidateProof(m.ProofAcked, m.ProofHeight)
}

func (m MsgAcknowledgement) Proofs() [][]byte {
	return [][]byte{m.ProofAcked}
}

// MsgTimeout times out a packet that the receiving chain can no longer
// accept. On an UNORDERED channel ProofUnreceived shows the receipt is
// absent. On an ORDERED channel it shows the receive counter equals
// NextSequenceRecv
type MsgTimeout struct {
	Packet           common.Packet
	ProofUnreceived  []byte
	ProofHeight      common.Height
	NextSequenceRecv uint64
}

func (MsgTimeout) Type() uint8 {
	return channel.MessageTypeTimeoutPacket
}

func (m MsgTimeout) ValidateBasic() error {
	if err := m.Packet.ValidateBasic(); err != nil {
		return err
	}
	return connection.ValidateProof(m.ProofUnreceived, m.ProofHeight)
}

func (m MsgTimeout) Proofs() [][]byte {
	return [][]byte{m.ProofUnreceived}
}

// MsgTimeoutOnClose times out a packet because the counterparty channel was
// closed, whether or not its timeout has passed
type MsgTimeoutOnClose struct {
	Packet           common.Packet
	ProofUnreceived  []byte
	ProofClose       []byte
	ProofHeight      common.Height
	NextSequenceRecv uint64
}

func (MsgTimeoutOnClose) Type() uint8 {
	return channel.MessageTypeTimeoutOnClose
}

func (m MsgTimeoutOnClose) ValidateBasic() error {
	if err := m.Packet.ValidateBasic(); err != nil {
		return err
	}
	if err := connection.ValidateProof(m.ProofClose, m.ProofHeight); err != nil {
		return err
	}
	return connection.ValidateProof(m.ProofUnreceived, m.ProofHeight)
}

func (m MsgTimeoutOnClose) Proofs() [][]byte {
	return [][]byte{m.ProofUnreceived, m.ProofClose}
}

func validateAck(ack []byte) error {
	if len(ack) == 0 {
		return errorsmod.Wrap(common.ErrInvalidAcknowledgement, "acknowledgement cannot be empty")
	}
	return nil
}

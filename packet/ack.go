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
	"encoding/hex"

	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/channel"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/connection"
	"github.com/blinklabs-io/goibc/state"
)

// AcknowledgePacket consumes the acknowledgement of a sent packet and clears
// its commitment. A packet can be acknowledged once
func (h *Handler) AcknowledgePacket(ctx *common.Context, msg MsgAcknowledgement) error {
	packet := msg.Packet
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	end, conn, err := openChannel(
		ctx,
		packet.SourcePort,
		packet.SourceChannel,
		channel.MessageTypeAcknowledgePacket,
	)
	if err != nil {
		return err
	}
	if err := checkCounterparty(end, packet.DestinationPort, packet.DestinationChannel); err != nil {
		return err
	}
	s := state.New(ctx.Store())
	if err := checkCommitment(s, packet); err != nil {
		return err
	}
	ackSequence, err := s.GetNextSequenceAck(packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return err
	}
	if end.Ordering == common.OrderOrdered && packet.Sequence != ackSequence+1 {
		return common.SequenceViolationError{
			PortID:    packet.SourcePort,
			ChannelID: packet.SourceChannel,
			Expected:  ackSequence + 1,
			Got:       packet.Sequence,
		}
	}
	if err := connection.VerifyPacketAcknowledgement(
		ctx,
		h.config.Verifier,
		conn,
		msg.ProofHeight,
		msg.ProofAcked,
		packet.DestinationPort,
		packet.DestinationChannel,
		packet.Sequence,
		msg.Acknowledgement,
	); err != nil {
		return err
	}
	s.DeletePacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence)
	if end.Ordering == common.OrderOrdered {
		ackSequence = packet.Sequence
	} else {
		ackSequence++
	}
	if err := s.SetNextSequenceAck(packet.SourcePort, packet.SourceChannel, ackSequence); err != nil {
		return err
	}
	app, err := channel.Route(h.config.Router, packet.SourcePort)
	if err != nil {
		return err
	}
	if err := app.OnAcknowledgementPacket(ctx, packet, msg.Acknowledgement); err != nil {
		return errorsmod.Wrapf(common.ErrApplicationCallback, "acknowledge packet: %s", err)
	}
	h.emit(
		ctx,
		common.EventTypeAcknowledgePacket,
		packet,
		end,
		common.NewAttribute(common.AttributeKeyAckHex, hex.EncodeToString(msg.Acknowledgement)),
	)
	return nil
}

// checkCommitment requires the packet to be in flight with exactly these
// contents
func checkCommitment(s *state.State, packet common.Packet) error {
	stored, found, err := s.GetPacketCommitment(
		packet.SourcePort,
		packet.SourceChannel,
		packet.Sequence,
	)
	if err != nil {
		return err
	}
	if !found {
		return errorsmod.Wrapf(
			common.ErrNotFound,
			"no commitment for packet %d on %s/%s",
			packet.Sequence,
			packet.SourcePort,
			packet.SourceChannel,
		)
	}
	if stored != packet.Commitment() {
		return errorsmod.Wrapf(
			common.ErrInvalidPacket,
			"commitment %s does not match packet %d",
			stored,
			packet.Sequence,
		)
	}
	return nil
}

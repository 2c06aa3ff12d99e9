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

// RecvPacket delivers a packet to the application bound to its destination
// port. The acknowledgement returned by the application is committed right
// away, unless the application defers it
func (h *Handler) RecvPacket(ctx *common.Context, msg MsgRecvPacket) error {
	packet := msg.Packet
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	end, conn, err := openChannel(
		ctx,
		packet.DestinationPort,
		packet.DestinationChannel,
		channel.MessageTypeRecvPacket,
	)
	if err != nil {
		return err
	}
	if err := checkCounterparty(end, packet.SourcePort, packet.SourceChannel); err != nil {
		return err
	}
	if packet.TimedOutAt(ctx.Height(), ctx.Timestamp()) {
		return errorsmod.Wrapf(
			common.ErrAlreadyTimedOut,
			"height %s and time %d reached timeout height %s or time %d",
			ctx.Height(),
			ctx.Timestamp(),
			packet.TimeoutHeight,
			packet.TimeoutTimestamp,
		)
	}
	s := state.New(ctx.Store())
	recvSequence, err := s.GetNextSequenceRecv(packet.DestinationPort, packet.DestinationChannel)
	if err != nil {
		return err
	}
	switch end.Ordering {
	case common.OrderUnordered:
		if s.HasPacketReceipt(packet.DestinationPort, packet.DestinationChannel, packet.Sequence) {
			return common.SequenceViolationError{
				PortID:    packet.DestinationPort,
				ChannelID: packet.DestinationChannel,
				Got:       packet.Sequence,
				Duplicate: true,
			}
		}
	case common.OrderOrdered:
		if packet.Sequence != recvSequence+1 {
			return common.SequenceViolationError{
				PortID:    packet.DestinationPort,
				ChannelID: packet.DestinationChannel,
				Expected:  recvSequence + 1,
				Got:       packet.Sequence,
				Duplicate: packet.Sequence <= recvSequence,
			}
		}
	default:
		return errorsmod.Wrapf(common.ErrInvalidOrdering, "channel ordering %s", end.Ordering)
	}
	if err := connection.VerifyPacketCommitment(
		ctx,
		h.config.Verifier,
		conn,
		msg.ProofHeight,
		msg.ProofCommitment,
		packet.SourcePort,
		packet.SourceChannel,
		packet.Sequence,
		packet.Commitment(),
	); err != nil {
		return err
	}
	if end.Ordering == common.OrderUnordered {
		s.SetPacketReceipt(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
		recvSequence++
	} else {
		recvSequence = packet.Sequence
	}
	if err := s.SetNextSequenceRecv(
		packet.DestinationPort,
		packet.DestinationChannel,
		recvSequence,
	); err != nil {
		return err
	}
	app, err := channel.Route(h.config.Router, packet.DestinationPort)
	if err != nil {
		return err
	}
	ack, err := app.OnRecvPacket(ctx, packet)
	if err != nil {
		return errorsmod.Wrapf(common.ErrApplicationCallback, "receive packet: %s", err)
	}
	h.emit(ctx, common.EventTypeRecvPacket, packet, end)
	if len(ack) == 0 {
		// The application writes the acknowledgement later
		return nil
	}
	return h.writeAck(ctx, s, packet, end, ack)
}

// WriteAcknowledgement commits an acknowledgement that the application
// deferred when the packet was received
func (h *Handler) WriteAcknowledgement(ctx *common.Context, msg MsgWriteAcknowledgement) error {
	packet := msg.Packet
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	end, _, err := openChannel(
		ctx,
		packet.DestinationPort,
		packet.DestinationChannel,
		channel.MessageTypeWriteAcknowledgement,
	)
	if err != nil {
		return err
	}
	if err := checkCounterparty(end, packet.SourcePort, packet.SourceChannel); err != nil {
		return err
	}
	s := state.New(ctx.Store())
	var received bool
	if end.Ordering == common.OrderOrdered {
		recvSequence, err := s.GetNextSequenceRecv(packet.DestinationPort, packet.DestinationChannel)
		if err != nil {
			return err
		}
		received = packet.Sequence <= recvSequence
	} else {
		received = s.HasPacketReceipt(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
	}
	if !received {
		return errorsmod.Wrapf(
			common.ErrNotFound,
			"packet %d was not received on %s/%s",
			packet.Sequence,
			packet.DestinationPort,
			packet.DestinationChannel,
		)
	}
	return h.writeAck(ctx, s, packet, end, msg.Acknowledgement)
}

func (h *Handler) writeAck(
	ctx *common.Context,
	s *state.State,
	packet common.Packet,
	end common.ChannelEnd,
	ack []byte,
) error {
	_, found, err := s.GetPacketAcknowledgement(
		packet.DestinationPort,
		packet.DestinationChannel,
		packet.Sequence,
	)
	if err != nil {
		return err
	}
	if found {
		return errorsmod.Wrapf(
			common.ErrAckExists,
			"packet %d on %s/%s",
			packet.Sequence,
			packet.DestinationPort,
			packet.DestinationChannel,
		)
	}
	s.SetPacketAcknowledgement(packet.DestinationPort, packet.DestinationChannel, packet.Sequence, ack)
	h.emit(
		ctx,
		common.EventTypeWriteAck,
		packet,
		end,
		common.NewAttribute(common.AttributeKeyAckHex, hex.EncodeToString(ack)),
	)
	return nil
}

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
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/protocol"
	"github.com/blinklabs-io/goibc/state"
)

// TimeoutPacket clears the commitment of a packet that was not received
// before its timeout, as seen by the counterparty at the proof height. A
// timeout closes an ORDERED channel
func (h *Handler) TimeoutPacket(ctx *common.Context, msg MsgTimeout) error {
	packet := msg.Packet
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	end, conn, err := openChannel(
		ctx,
		packet.SourcePort,
		packet.SourceChannel,
		channel.MessageTypeTimeoutPacket,
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
	proofTimestamp, err := connection.ConsensusTimestamp(
		ctx,
		h.config.Verifier,
		conn,
		msg.ProofHeight,
	)
	if err != nil {
		return err
	}
	if !packet.TimedOutAt(msg.ProofHeight, proofTimestamp) {
		return errorsmod.Wrapf(
			common.ErrTimeoutNotElapsed,
			"proof height %s and time %d are before timeout height %s and time %d",
			msg.ProofHeight,
			proofTimestamp,
			packet.TimeoutHeight,
			packet.TimeoutTimestamp,
		)
	}
	if err := h.verifyUnreceived(
		ctx,
		conn,
		end,
		packet,
		msg.ProofHeight,
		msg.ProofUnreceived,
		msg.NextSequenceRecv,
	); err != nil {
		return err
	}
	return h.timeoutExecuted(ctx, s, packet, end, common.EventTypeTimeoutPacket)
}

// TimeoutOnClose clears the commitment of a packet whose counterparty
// channel is CLOSED and never received it. The timeout need not have passed,
// and the local channel end may itself be CLOSED already
func (h *Handler) TimeoutOnClose(ctx *common.Context, msg MsgTimeoutOnClose) error {
	packet := msg.Packet
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	end, conn, err := openChannel(
		ctx,
		packet.SourcePort,
		packet.SourceChannel,
		channel.MessageTypeTimeoutOnClose,
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
	closed := common.NewChannelEnd(
		common.ChannelStateClosed,
		end.Ordering,
		common.ChannelCounterparty{
			PortID:    packet.SourcePort,
			ChannelID: packet.SourceChannel,
		},
		[]host.ConnectionID{conn.Counterparty.ConnectionID},
		end.Version,
	)
	if err := connection.VerifyChannelState(
		ctx,
		h.config.Verifier,
		conn,
		msg.ProofHeight,
		msg.ProofClose,
		packet.DestinationPort,
		packet.DestinationChannel,
		closed,
	); err != nil {
		return err
	}
	if err := h.verifyUnreceived(
		ctx,
		conn,
		end,
		packet,
		msg.ProofHeight,
		msg.ProofUnreceived,
		msg.NextSequenceRecv,
	); err != nil {
		return err
	}
	return h.timeoutExecuted(ctx, s, packet, end, common.EventTypeTimeoutOnClose)
}

// verifyUnreceived proves that the counterparty never received the packet
func (h *Handler) verifyUnreceived(
	ctx *common.Context,
	conn common.ConnectionEnd,
	end common.ChannelEnd,
	packet common.Packet,
	proofHeight common.Height,
	proof []byte,
	nextSequenceRecv uint64,
) error {
	if end.Ordering != common.OrderOrdered {
		return connection.VerifyPacketReceiptAbsence(
			ctx,
			h.config.Verifier,
			conn,
			proofHeight,
			proof,
			packet.DestinationPort,
			packet.DestinationChannel,
			packet.Sequence,
		)
	}
	if nextSequenceRecv >= packet.Sequence {
		return errorsmod.Wrapf(
			common.ErrInvalidPacket,
			"packet %d was received, counterparty receive sequence is %d",
			packet.Sequence,
			nextSequenceRecv,
		)
	}
	return connection.VerifyNextSequenceRecv(
		ctx,
		h.config.Verifier,
		conn,
		proofHeight,
		proof,
		packet.DestinationPort,
		packet.DestinationChannel,
		nextSequenceRecv,
	)
}

// timeoutExecuted clears the commitment, advances the ack counter, closes an
// ORDERED channel that is still open and notifies the application
func (h *Handler) timeoutExecuted(
	ctx *common.Context,
	s *state.State,
	packet common.Packet,
	end common.ChannelEnd,
	eventType string,
) error {
	s.DeletePacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence)
	ackSequence, err := s.GetNextSequenceAck(packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return err
	}
	if err := s.SetNextSequenceAck(
		packet.SourcePort,
		packet.SourceChannel,
		ackSequence+1,
	); err != nil {
		return err
	}
	if end.Ordering == common.OrderOrdered && end.State != common.ChannelStateClosed {
		closed := end.Clone()
		closed.State, err = channel.Transition(
			end.State,
			protocol.MessageType(channel.MessageTypeCloseOnTimeout),
		)
		if err != nil {
			return err
		}
		if err := s.SetChannel(packet.SourcePort, packet.SourceChannel, closed); err != nil {
			return err
		}
		ctx.EventManager().Emit(channel.ChannelEvent(
			common.EventTypeChannelClosed,
			packet.SourcePort,
			packet.SourceChannel,
			closed,
		))
		ctx.Logger().Info(
			"ordered channel closed by timeout",
			"component", componentName,
			"port_id", packet.SourcePort,
			"channel_id", packet.SourceChannel,
			"sequence", packet.Sequence,
		)
	}
	app, err := channel.Route(h.config.Router, packet.SourcePort)
	if err != nil {
		return err
	}
	if err := app.OnTimeoutPacket(ctx, packet); err != nil {
		return errorsmod.Wrapf(common.ErrApplicationCallback, "timeout packet: %s", err)
	}
	h.emit(ctx, eventType, packet, end)
	return nil
}

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
	"github.com/blinklabs-io/goibc/client"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/connection"
	"github.com/blinklabs-io/goibc/state"
)

// SendPacket assigns the next send sequence to packet, commits to it, and
// returns the sequence
func (h *Handler) SendPacket(ctx *common.Context, packet common.Packet) (uint64, error) {
	if err := packet.ValidateSend(); err != nil {
		return 0, err
	}
	end, conn, err := openChannel(
		ctx,
		packet.SourcePort,
		packet.SourceChannel,
		channel.MessageTypeSendPacket,
	)
	if err != nil {
		return 0, err
	}
	if err := checkCounterparty(end, packet.DestinationPort, packet.DestinationChannel); err != nil {
		return 0, err
	}
	if _, err := channel.Route(h.config.Router, packet.SourcePort); err != nil {
		return 0, err
	}
	if err := h.checkNotTimedOut(ctx, conn, packet); err != nil {
		return 0, err
	}
	s := state.New(ctx.Store())
	sequence, err := s.GetNextSequenceSend(packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return 0, err
	}
	sequence++
	packet.Sequence = sequence
	s.SetPacketCommitment(packet.SourcePort, packet.SourceChannel, sequence, packet.Commitment())
	if err := s.SetNextSequenceSend(packet.SourcePort, packet.SourceChannel, sequence); err != nil {
		return 0, err
	}
	h.emit(ctx, common.EventTypeSendPacket, packet, end)
	return sequence, nil
}

// checkNotTimedOut rejects a packet that the counterparty, as far as this
// chain's client knows, has already passed the timeout of
func (h *Handler) checkNotTimedOut(
	ctx *common.Context,
	conn common.ConnectionEnd,
	packet common.Packet,
) error {
	latestHeight, err := client.LatestHeight(ctx, conn.ClientID)
	if err != nil {
		return err
	}
	var latestTimestamp uint64
	if packet.TimeoutTimestamp != 0 {
		latestTimestamp, err = connection.ConsensusTimestamp(
			ctx,
			h.config.Verifier,
			conn,
			latestHeight,
		)
		if err != nil {
			return err
		}
	}
	if packet.TimedOutAt(latestHeight, latestTimestamp) {
		return errorsmod.Wrapf(
			common.ErrAlreadyTimedOut,
			"counterparty is at height %s and time %d, packet times out at height %s or time %d",
			latestHeight,
			latestTimestamp,
			packet.TimeoutHeight,
			packet.TimeoutTimestamp,
		)
	}
	return nil
}

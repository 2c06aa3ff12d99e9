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

package main

import (
	"context"
	"fmt"
	"log/slog"

	ibc "github.com/blinklabs-io/goibc"
	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/internal/relay"
)

type summary struct {
	Sent          int
	Received      int
	Acknowledged  int
	TimedOut      int
	ChannelClosed bool
	HeaderA       ibc.Header
	HeaderB       ibc.Header
}

func newChain(cfg ChainConfig, logger *slog.Logger, app *echoApp) (*ibc.Chain, error) {
	c, err := ibc.New(
		ibc.WithChainID(cfg.ChainID),
		ibc.WithRevisionNumber(cfg.Revision),
		ibc.WithCommitmentPrefix(commitment.NewPrefix(cfg.Prefix)),
		ibc.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	if err := c.BindPort(host.PortID(cfg.Port), app); err != nil {
		return nil, err
	}
	return c, nil
}

// run opens a channel from chain A to chain B and pushes packets across it.
// Dropped packets are left to time out
func run(ctx context.Context, cfg Config, logger *slog.Logger) (summary, error) {
	var sum summary
	order, err := cfg.Ordering()
	if err != nil {
		return sum, err
	}
	appA := newEchoApp(logger.With("chain", cfg.ChainA.ChainID))
	appB := newEchoApp(logger.With("chain", cfg.ChainB.ChainID))
	a, err := newChain(cfg.ChainA, logger, appA)
	if err != nil {
		return sum, fmt.Errorf("chain %s: %w", cfg.ChainA.ChainID, err)
	}
	b, err := newChain(cfg.ChainB, logger, appB)
	if err != nil {
		return sum, fmt.Errorf("chain %s: %w", cfg.ChainB.ChainID, err)
	}
	path := relay.NewPath(
		a,
		b,
		host.PortID(cfg.ChainA.Port),
		host.PortID(cfg.ChainB.Port),
		relay.WithBlockInterval(cfg.BlockInterval),
		relay.WithDelayPeriod(cfg.DelayPeriod),
	)
	if err := path.Setup(ctx, order, cfg.Channel.Version); err != nil {
		return sum, fmt.Errorf("setup path: %w", err)
	}
	logger.Info(
		"channel open",
		"chain_a", cfg.ChainA.ChainID,
		"channel_a", path.A.ChannelID,
		"chain_b", cfg.ChainB.ChainID,
		"channel_b", path.B.ChannelID,
		"ordering", order.String(),
	)

	var dropped []common.Packet
	for i := 1; i <= cfg.Packets.Count; i++ {
		// Nothing after a gap can be received on an ORDERED channel
		if order == common.OrderOrdered && len(dropped) > 0 {
			break
		}
		latest := b.LastHeader().Height
		timeout := common.NewHeight(
			latest.RevisionNumber,
			latest.RevisionHeight+cfg.Packets.TimeoutBlocks,
		)
		p, err := path.A.SendPacket(ctx, fmt.Appendf(nil, "packet-%d", i), timeout, 0)
		if err != nil {
			return sum, fmt.Errorf("send packet %d: %w", i, err)
		}
		sum.Sent++
		if cfg.Packets.DropEvery > 0 && i%cfg.Packets.DropEvery == 0 {
			logger.Info("dropping packet", "sequence", p.Sequence, "timeout_height", timeout.String())
			dropped = append(dropped, p)
			continue
		}
		ack, err := path.B.RecvPacket(ctx, p)
		if err != nil {
			return sum, fmt.Errorf("receive packet %d: %w", p.Sequence, err)
		}
		if err := path.A.AcknowledgePacket(ctx, p, ack); err != nil {
			return sum, fmt.Errorf("acknowledge packet %d: %w", p.Sequence, err)
		}
	}

	for _, p := range dropped {
		for b.LastHeader().Height.LT(p.TimeoutHeight) {
			if _, err := path.B.Commit(ctx); err != nil {
				return sum, err
			}
		}
		if err := path.A.TimeoutPacket(ctx, p); err != nil {
			return sum, fmt.Errorf("time out packet %d: %w", p.Sequence, err)
		}
		logger.Info("timed out packet", "sequence", p.Sequence)
	}

	endA, err := path.A.Channel()
	if err != nil {
		return sum, err
	}
	if endA.State == common.ChannelStateOpen && cfg.Packets.CloseAfter {
		if err := path.B.CloseChannel(ctx); err != nil {
			return sum, err
		}
		endA, err = path.A.Channel()
		if err != nil {
			return sum, err
		}
	}
	sum.Received = appB.received
	sum.Acknowledged = appA.acked
	sum.TimedOut = appA.timedOut
	sum.ChannelClosed = endA.State == common.ChannelStateClosed
	sum.HeaderA = a.LastHeader()
	sum.HeaderB = b.LastHeader()
	return sum, nil
}

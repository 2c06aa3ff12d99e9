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

package ibc

import (
	"context"
	"fmt"
	"runtime"

	errorsmod "cosmossdk.io/errors"
	"golang.org/x/sync/errgroup"

	"github.com/blinklabs-io/goibc/channel"
	"github.com/blinklabs-io/goibc/client"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/connection"
	"github.com/blinklabs-io/goibc/packet"
)

// Msg is any message a Chain can deliver
type Msg interface {
	ValidateBasic() error
}

// proofCarrier is implemented by messages that carry counterparty proofs
type proofCarrier interface {
	Proofs() [][]byte
}

// proofValidator is implemented by verifiers that can check proof encoding
// without access to state
type proofValidator interface {
	ValidateProof(proof []byte) error
}

// Result is the outcome of delivering one message
type Result struct {
	// ID is the identifier created by a client create or a handshake Init or
	// Try message
	ID string
	// Sequence is the sequence assigned to a sent packet
	Sequence uint64
	Events   []common.Event
	Err      error
}

// Deliver applies a single message in the block in progress. The message's
// writes are kept only if it succeeds
func (c *Chain) Deliver(msg Msg) (Result, error) {
	if err := c.prepare(msg); err != nil {
		return Result{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inBlock {
		return Result{}, ErrNoBlock
	}
	res := c.apply(msg)
	return res, res.Err
}

// DeliverBlock delivers msgs in order within the block in progress. The
// stateless checks of all messages run in parallel first. A failed message
// does not stop later ones, and its error is reported in its Result. The
// returned error is only set when ctx ends or no block is in progress
func (c *Chain) DeliverBlock(ctx context.Context, msgs []Msg) ([]Result, error) {
	results := make([]Result, len(msgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, msg := range msgs {
		i, msg := i, msg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].Err = c.prepare(msg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inBlock {
		return nil, ErrNoBlock
	}
	for i, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if results[i].Err != nil {
			c.logger.Debug(
				"rejected message",
				"index", i,
				"type", fmt.Sprintf("%T", msg),
				"error", results[i].Err,
			)
			continue
		}
		results[i] = c.apply(msg)
	}
	return results, nil
}

// prepare runs the checks that need no state
func (c *Chain) prepare(msg Msg) error {
	if msg == nil {
		return errorsmod.Wrap(common.ErrInvalidMessage, "nil message")
	}
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	pc, ok := msg.(proofCarrier)
	if !ok {
		return nil
	}
	pv, ok := c.verifier.(proofValidator)
	if !ok {
		return nil
	}
	for _, proof := range pc.Proofs() {
		if err := pv.ValidateProof(proof); err != nil {
			return err
		}
	}
	return nil
}

// apply runs msg against its own cache of the block state. The caller must
// hold c.mu
func (c *Chain) apply(msg Msg) Result {
	return c.run(msg, func(ctx *common.Context) (Result, error) {
		return c.dispatch(ctx, msg)
	})
}

// run executes fn against a fresh cache layer, which is written into the
// block state only when fn succeeds. The caller must hold c.mu
func (c *Chain) run(msg Msg, fn func(ctx *common.Context) (Result, error)) Result {
	txn := c.store.CacheWrap()
	ctx := c.newContext(txn)
	res, err := fn(ctx)
	if err != nil {
		c.logger.Debug(
			"rejected message",
			"type", fmt.Sprintf("%T", msg),
			"height", c.height.String(),
			"error", err,
		)
		return Result{Err: err}
	}
	txn.Write()
	res.Events = ctx.EventManager().Events()
	return res
}

// dispatch routes the messages any submitter may deliver. Closing a channel
// and writing a deferred acknowledgement are left to the bound application
// through CloseChannel and WriteAcknowledgement
func (c *Chain) dispatch(ctx *common.Context, msg Msg) (Result, error) {
	var res Result
	var err error
	switch m := msg.(type) {
	// Clients
	case client.MsgCreateClient:
		id, cerr := client.CreateClient(ctx, m)
		res.ID, err = id.String(), cerr
	case client.MsgUpdateClient:
		err = client.UpdateClient(ctx, m)
	// Connection handshake
	case connection.MsgConnectionOpenInit:
		id, cerr := c.connections.OpenInit(ctx, m)
		res.ID, err = id.String(), cerr
	case connection.MsgConnectionOpenTry:
		id, cerr := c.connections.OpenTry(ctx, m)
		res.ID, err = id.String(), cerr
	case connection.MsgConnectionOpenAck:
		err = c.connections.OpenAck(ctx, m)
	case connection.MsgConnectionOpenConfirm:
		err = c.connections.OpenConfirm(ctx, m)
	// Channel handshake
	case channel.MsgChannelOpenInit:
		id, cerr := c.channels.OpenInit(ctx, m)
		res.ID, err = id.String(), cerr
	case channel.MsgChannelOpenTry:
		id, cerr := c.channels.OpenTry(ctx, m)
		res.ID, err = id.String(), cerr
	case channel.MsgChannelOpenAck:
		err = c.channels.OpenAck(ctx, m)
	case channel.MsgChannelOpenConfirm:
		err = c.channels.OpenConfirm(ctx, m)
	case channel.MsgChannelCloseConfirm:
		err = c.channels.CloseConfirm(ctx, m)
	// Packets
	case packet.MsgSendPacket:
		res.Sequence, err = c.packets.SendPacket(ctx, m.Packet)
	case packet.MsgRecvPacket:
		err = c.packets.RecvPacket(ctx, m)
	case packet.MsgAcknowledgement:
		err = c.packets.AcknowledgePacket(ctx, m)
	case packet.MsgTimeout:
		err = c.packets.TimeoutPacket(ctx, m)
	case packet.MsgTimeoutOnClose:
		err = c.packets.TimeoutOnClose(ctx, m)
	default:
		err = errorsmod.Wrapf(common.ErrInvalidMessage, "unknown message type %T", msg)
	}
	return res, err
}

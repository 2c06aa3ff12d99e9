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
	"reflect"

	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/channel"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/packet"
)

// WriteAcknowledgement writes the acknowledgement of a received packet
// whose application deferred it. Only the application bound to the
// packet's destination port may write it, inside a block in progress. It
// must not be called from within an application callback
func (c *Chain) WriteAcknowledgement(
	app common.Application,
	p common.Packet,
	ack []byte,
) (Result, error) {
	msg := packet.MsgWriteAcknowledgement{Packet: p, Acknowledgement: ack}
	return c.runAs(app, p.DestinationPort, msg, func(ctx *common.Context) error {
		return c.packets.WriteAcknowledgement(ctx, msg)
	})
}

// CloseChannel closes a channel end on behalf of the application bound to
// its port, inside a block in progress
func (c *Chain) CloseChannel(
	app common.Application,
	portID host.PortID,
	channelID host.ChannelID,
) (Result, error) {
	msg := channel.MsgChannelCloseInit{PortID: portID, ChannelID: channelID}
	return c.runAs(app, portID, msg, func(ctx *common.Context) error {
		return c.channels.CloseInit(ctx, msg)
	})
}

func (c *Chain) runAs(
	app common.Application,
	portID host.PortID,
	msg Msg,
	fn func(ctx *common.Context) error,
) (Result, error) {
	if err := msg.ValidateBasic(); err != nil {
		return Result{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inBlock {
		return Result{}, ErrNoBlock
	}
	if err := c.authorize(portID, app); err != nil {
		return Result{}, err
	}
	res := c.run(msg, func(ctx *common.Context) (Result, error) {
		return Result{}, fn(ctx)
	})
	return res, res.Err
}

// authorize checks that app is the application bound to portID
func (c *Chain) authorize(portID host.PortID, app common.Application) error {
	bound, ok := c.router.Route(portID)
	if !ok {
		return errorsmod.Wrap(common.ErrPortNotBound, portID.String())
	}
	if !sameApplication(bound, app) {
		return errorsmod.Wrapf(common.ErrUnauthorized, "port %s", portID)
	}
	return nil
}

func sameApplication(a, b common.Application) bool {
	if a == nil || b == nil {
		return false
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) || !t.Comparable() {
		return false
	}
	return a == b
}

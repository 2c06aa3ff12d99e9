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

// Package packet implements the packet lifecycle: send, receive,
// acknowledgement and timeout.
//
// Every action runs against an action-scoped store. A failed action leaves
// no trace, since the caller discards its writes
package packet

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/channel"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/connection"
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/protocol"
)

const componentName = "packet"

// Config is used to configure the packet handler
type Config struct {
	Verifier common.ProofVerifier
	Router   common.Router
}

// PacketOptionFunc represents a function used to modify the packet config
type PacketOptionFunc func(*Config)

// NewConfig returns a new packet config object with the provided options
func NewConfig(options ...PacketOptionFunc) Config {
	c := Config{}
	for _, option := range options {
		option(&c)
	}
	return c
}

// WithProofVerifier specifies the verifier used for counterparty proofs
func WithProofVerifier(verifier common.ProofVerifier) PacketOptionFunc {
	return func(c *Config) {
		c.Verifier = verifier
	}
}

// WithRouter specifies the router that resolves applications by port
func WithRouter(router common.Router) PacketOptionFunc {
	return func(c *Config) {
		c.Router = router
	}
}

// Handler applies packet actions
type Handler struct {
	config Config
}

func New(cfg Config) *Handler {
	return &Handler{
		config: cfg,
	}
}

// openChannel loads a channel that accepts the packet action msgType,
// along with its connection
func openChannel(
	ctx *common.Context,
	portID host.PortID,
	channelID host.ChannelID,
	msgType uint8,
) (common.ChannelEnd, common.ConnectionEnd, error) {
	end, err := channel.Get(ctx, portID, channelID)
	if err != nil {
		return common.ChannelEnd{}, common.ConnectionEnd{}, err
	}
	if _, err := channel.Transition(end.State, protocol.MessageType(msgType)); err != nil {
		return common.ChannelEnd{}, common.ConnectionEnd{}, errorsmod.Wrapf(
			err,
			"channel %s/%s",
			portID,
			channelID,
		)
	}
	conn, err := connection.GetOpen(ctx, end.ConnectionID())
	if err != nil {
		return common.ChannelEnd{}, common.ConnectionEnd{}, err
	}
	return end, conn, nil
}

// checkCounterparty checks that the remote end of a packet is the
// counterparty of the local channel
func checkCounterparty(
	end common.ChannelEnd,
	portID host.PortID,
	channelID host.ChannelID,
) error {
	if portID != end.Counterparty.PortID {
		return errorsmod.Wrapf(
			common.ErrInvalidPacket,
			"packet counterparty port %s does not match channel counterparty port %s",
			portID,
			end.Counterparty.PortID,
		)
	}
	if channelID != end.Counterparty.ChannelID {
		return errorsmod.Wrapf(
			common.ErrInvalidPacket,
			"packet counterparty channel %s does not match channel counterparty channel %s",
			channelID,
			end.Counterparty.ChannelID,
		)
	}
	return nil
}

func (h *Handler) emit(
	ctx *common.Context,
	eventType string,
	packet common.Packet,
	end common.ChannelEnd,
	extra ...common.Attribute,
) {
	attrs := append(common.PacketAttributes(packet, end), extra...)
	ctx.EventManager().Emit(common.NewEvent(eventType, attrs...))
	ctx.Logger().Debug(
		eventType,
		"component", componentName,
		"src_port", packet.SourcePort,
		"src_channel", packet.SourceChannel,
		"dst_port", packet.DestinationPort,
		"dst_channel", packet.DestinationChannel,
		"sequence", packet.Sequence,
	)
}

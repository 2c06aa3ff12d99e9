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

// Package channel implements the channel handshake, channel close, and the
// table of packet actions a channel accepts in each state
package channel

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/protocol"
	"github.com/blinklabs-io/goibc/state"
)

const componentName = "channel"

var (
	stateUninitialized = newState(common.ChannelStateUninitialized)
	stateInit          = newState(common.ChannelStateInit)
	stateTryOpen       = newState(common.ChannelStateTryOpen)
	stateOpen          = newState(common.ChannelStateOpen)
	stateClosed        = newState(common.ChannelStateClosed)
)

// StateMap is the channel state machine. Packet actions are only accepted
// on an OPEN channel and leave it OPEN, except for a timeout on an ORDERED
// channel, which closes it. CLOSED is terminal: it only accepts a timeout on
// close, so that packets still in flight when the channel closed can be
// recovered
var StateMap = protocol.StateMap{
	stateUninitialized: protocol.StateMapEntry{
		Transitions: []protocol.StateTransition{
			{
				MsgType:  MessageTypeChannelOpenInit,
				NewState: stateInit,
			},
			{
				MsgType:  MessageTypeChannelOpenTry,
				NewState: stateTryOpen,
			},
		},
	},
	stateInit: protocol.StateMapEntry{
		Transitions: []protocol.StateTransition{
			{
				MsgType:  MessageTypeChannelOpenAck,
				NewState: stateOpen,
			},
		},
	},
	stateTryOpen: protocol.StateMapEntry{
		Transitions: []protocol.StateTransition{
			{
				MsgType:  MessageTypeChannelOpenConfirm,
				NewState: stateOpen,
			},
		},
	},
	stateOpen: protocol.StateMapEntry{
		Transitions: []protocol.StateTransition{
			{
				MsgType:  MessageTypeChannelCloseInit,
				NewState: stateClosed,
			},
			{
				MsgType:  MessageTypeChannelCloseConfirm,
				NewState: stateClosed,
			},
			{
				MsgType:  MessageTypeCloseOnTimeout,
				NewState: stateClosed,
			},
			{
				MsgType:  MessageTypeSendPacket,
				NewState: stateOpen,
			},
			{
				MsgType:  MessageTypeRecvPacket,
				NewState: stateOpen,
			},
			{
				MsgType:  MessageTypeWriteAcknowledgement,
				NewState: stateOpen,
			},
			{
				MsgType:  MessageTypeAcknowledgePacket,
				NewState: stateOpen,
			},
			{
				MsgType:  MessageTypeTimeoutPacket,
				NewState: stateOpen,
			},
			{
				MsgType:  MessageTypeTimeoutOnClose,
				NewState: stateOpen,
			},
		},
	},
	stateClosed: protocol.StateMapEntry{
		Transitions: []protocol.StateTransition{
			{
				MsgType:  MessageTypeTimeoutOnClose,
				NewState: stateClosed,
			},
		},
	},
}

func newState(s common.ChannelState) protocol.State {
	return protocol.NewState(uint(s), s.String())
}

// Transition returns the state a channel end in the current state moves to
// when msg is applied to it
func Transition(
	current common.ChannelState,
	msg protocol.Message,
) (common.ChannelState, error) {
	next, err := StateMap.Transition(newState(current), msg)
	if err != nil {
		return current, errorsmod.Wrap(common.ErrInvalidState, err.Error())
	}
	return common.ChannelState(next.Id), nil
}

// Config is used to configure the channel handler
type Config struct {
	Verifier common.ProofVerifier
	Router   common.Router
}

// ChannelOptionFunc represents a function used to modify the channel config
type ChannelOptionFunc func(*Config)

// NewConfig returns a new channel config object with the provided options
func NewConfig(options ...ChannelOptionFunc) Config {
	c := Config{}
	for _, option := range options {
		option(&c)
	}
	return c
}

// WithProofVerifier specifies the verifier used for counterparty proofs
func WithProofVerifier(verifier common.ProofVerifier) ChannelOptionFunc {
	return func(c *Config) {
		c.Verifier = verifier
	}
}

// WithRouter specifies the router used to check that ports are bound
func WithRouter(router common.Router) ChannelOptionFunc {
	return func(c *Config) {
		c.Router = router
	}
}

// Handler applies channel handshake and close messages
type Handler struct {
	config Config
}

func New(cfg Config) *Handler {
	return &Handler{
		config: cfg,
	}
}

// Get returns a stored channel end
func Get(
	ctx *common.Context,
	portID host.PortID,
	channelID host.ChannelID,
) (common.ChannelEnd, error) {
	end, found, err := state.New(ctx.Store()).GetChannel(portID, channelID)
	if err != nil {
		return common.ChannelEnd{}, err
	}
	if !found {
		return common.ChannelEnd{}, errorsmod.Wrapf(
			common.ErrNotFound,
			"channel %s/%s",
			portID,
			channelID,
		)
	}
	return end, nil
}

// Route returns the application bound to portID
func Route(router common.Router, portID host.PortID) (common.Application, error) {
	if router == nil {
		return nil, errorsmod.Wrapf(common.ErrPortNotBound, "port %s", portID)
	}
	app, ok := router.Route(portID)
	if !ok {
		return nil, errorsmod.Wrapf(common.ErrPortNotBound, "port %s", portID)
	}
	return app, nil
}

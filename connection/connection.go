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

// Package connection implements the four-step connection handshake and the
// proof checks that channels and packets perform over an open connection
package connection

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/protocol"
	"github.com/blinklabs-io/goibc/state"
)

const componentName = "connection"

var (
	stateUninitialized = newState(common.ConnectionStateUninitialized)
	stateInit          = newState(common.ConnectionStateInit)
	stateTryOpen       = newState(common.ConnectionStateTryOpen)
	stateOpen          = newState(common.ConnectionStateOpen)
)

// StateMap is the connection handshake state machine. An end that does not
// exist yet is in the uninitialized state
var StateMap = protocol.StateMap{
	stateUninitialized: protocol.StateMapEntry{
		Transitions: []protocol.StateTransition{
			{
				MsgType:  MessageTypeConnectionOpenInit,
				NewState: stateInit,
			},
			{
				MsgType:  MessageTypeConnectionOpenTry,
				NewState: stateTryOpen,
			},
		},
	},
	stateInit: protocol.StateMapEntry{
		Transitions: []protocol.StateTransition{
			{
				MsgType:  MessageTypeConnectionOpenAck,
				NewState: stateOpen,
			},
		},
	},
	stateTryOpen: protocol.StateMapEntry{
		Transitions: []protocol.StateTransition{
			{
				MsgType:  MessageTypeConnectionOpenConfirm,
				NewState: stateOpen,
			},
		},
	},
	stateOpen: protocol.StateMapEntry{},
}

func newState(s common.ConnectionState) protocol.State {
	return protocol.NewState(uint(s), s.String())
}

// Transition returns the state a connection end in the current state moves
// to when msg is applied to it
func Transition(
	current common.ConnectionState,
	msg protocol.Message,
) (common.ConnectionState, error) {
	next, err := StateMap.Transition(newState(current), msg)
	if err != nil {
		return current, errorsmod.Wrap(common.ErrInvalidState, err.Error())
	}
	return common.ConnectionState(next.Id), nil
}

// Config is used to configure the connection handler
type Config struct {
	SupportedVersions []common.Version
	// Prefix is the commitment prefix of this chain's own store
	Prefix   commitment.Prefix
	Verifier common.ProofVerifier
}

// ConnectionOptionFunc represents a function used to modify the connection config
type ConnectionOptionFunc func(*Config)

// NewConfig returns a new connection config object with the provided options
func NewConfig(options ...ConnectionOptionFunc) Config {
	c := Config{
		SupportedVersions: []common.Version{common.DefaultVersion},
		Prefix:            commitment.NewPrefix(commitment.DefaultPrefix),
	}
	for _, option := range options {
		option(&c)
	}
	return c
}

// WithSupportedVersions specifies the connection versions this chain accepts
func WithSupportedVersions(versions []common.Version) ConnectionOptionFunc {
	return func(c *Config) {
		c.SupportedVersions = versions
	}
}

// WithCommitmentPrefix specifies the commitment prefix of this chain's store
func WithCommitmentPrefix(prefix commitment.Prefix) ConnectionOptionFunc {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

// WithProofVerifier specifies the verifier used for counterparty proofs
func WithProofVerifier(verifier common.ProofVerifier) ConnectionOptionFunc {
	return func(c *Config) {
		c.Verifier = verifier
	}
}

// Handler applies connection handshake messages
type Handler struct {
	config Config
}

func New(cfg Config) *Handler {
	return &Handler{
		config: cfg,
	}
}

// Verifier returns the proof verifier used by the handler
func (h *Handler) Verifier() common.ProofVerifier {
	return h.config.Verifier
}

// Prefix returns this chain's own commitment prefix
func (h *Handler) Prefix() commitment.Prefix {
	return h.config.Prefix
}

// Get returns a stored connection end
func Get(ctx *common.Context, connectionID host.ConnectionID) (common.ConnectionEnd, error) {
	end, found, err := state.New(ctx.Store()).GetConnection(connectionID)
	if err != nil {
		return common.ConnectionEnd{}, err
	}
	if !found {
		return common.ConnectionEnd{}, errorsmod.Wrapf(
			common.ErrNotFound,
			"connection %s",
			connectionID,
		)
	}
	return end, nil
}

// GetOpen returns a stored connection end that has completed its handshake
func GetOpen(ctx *common.Context, connectionID host.ConnectionID) (common.ConnectionEnd, error) {
	end, err := Get(ctx, connectionID)
	if err != nil {
		return common.ConnectionEnd{}, err
	}
	if end.State != common.ConnectionStateOpen {
		return common.ConnectionEnd{}, errorsmod.Wrapf(
			common.ErrInvalidState,
			"connection %s is %s, expected OPEN",
			connectionID,
			end.State,
		)
	}
	return end, nil
}

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

// Package client keeps the trusted counterparty state roots that proofs are
// checked against. Header verification is out of scope: updates are trusted
// as submitted, and an update that conflicts with a stored root is rejected.
package client

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/state"
)

// TrustedClientType is the type of client created by this package
const TrustedClientType = "09-trusted"

// CreateClient registers a new client with its first trusted root and
// returns the generated client identifier
func CreateClient(ctx *common.Context, msg MsgCreateClient) (host.ClientID, error) {
	s := state.New(ctx.Store())
	clientID, err := s.NextClientID(msg.ClientType)
	if err != nil {
		return "", err
	}
	clientState := common.ClientState{
		ClientType:   msg.ClientType,
		ChainID:      msg.ChainID,
		LatestHeight: msg.Height,
	}
	if err := s.SetClientState(clientID, clientState); err != nil {
		return "", err
	}
	if err := s.SetConsensusState(
		clientID,
		msg.Height,
		newConsensusState(ctx, msg.Root, msg.Timestamp),
	); err != nil {
		return "", err
	}
	ctx.EventManager().Emit(common.NewEvent(
		common.EventTypeCreateClient,
		common.NewAttribute(common.AttributeKeyClientID, clientID.String()),
		common.NewAttribute(common.AttributeKeyClientType, msg.ClientType),
		common.NewAttribute(common.AttributeKeyConsensusHeight, msg.Height.String()),
	))
	ctx.Logger().Info(
		"created client",
		"component", "client",
		"client_id", clientID,
		"chain_id", msg.ChainID,
		"height", msg.Height.String(),
	)
	return clientID, nil
}

// UpdateClient adds a trusted root at a new height. Resubmitting the same
// root is a no-op, while a different root at an already trusted height is
// rejected and leaves the stored root in place
func UpdateClient(ctx *common.Context, msg MsgUpdateClient) error {
	s := state.New(ctx.Store())
	clientState, found, err := s.GetClientState(msg.ClientID)
	if err != nil {
		return err
	}
	if !found {
		return errorsmod.Wrapf(common.ErrNotFound, "client %s", msg.ClientID)
	}
	existing, found, err := s.GetConsensusState(msg.ClientID, msg.Height)
	if err != nil {
		return err
	}
	if found {
		if bytes.Equal(existing.Root, msg.Root) && existing.Timestamp == msg.Timestamp {
			return nil
		}
		return errorsmod.Wrapf(
			common.ErrInvalidMessage,
			"conflicting consensus state for client %s at height %s",
			msg.ClientID,
			msg.Height,
		)
	}
	if err := s.SetConsensusState(
		msg.ClientID,
		msg.Height,
		newConsensusState(ctx, msg.Root, msg.Timestamp),
	); err != nil {
		return err
	}
	if msg.Height.GT(clientState.LatestHeight) {
		clientState.LatestHeight = msg.Height
		if err := s.SetClientState(msg.ClientID, clientState); err != nil {
			return err
		}
	}
	ctx.EventManager().Emit(common.NewEvent(
		common.EventTypeUpdateClient,
		common.NewAttribute(common.AttributeKeyClientID, msg.ClientID.String()),
		common.NewAttribute(common.AttributeKeyConsensusHeight, msg.Height.String()),
	))
	ctx.Logger().Debug(
		"updated client",
		"component", "client",
		"client_id", msg.ClientID,
		"height", msg.Height.String(),
	)
	return nil
}

// LatestHeight returns the latest counterparty height trusted by a client
func LatestHeight(ctx *common.Context, clientID host.ClientID) (common.Height, error) {
	clientState, found, err := state.New(ctx.Store()).GetClientState(clientID)
	if err != nil {
		return common.Height{}, err
	}
	if !found {
		return common.Height{}, errorsmod.Wrapf(common.ErrNotFound, "client %s", clientID)
	}
	return clientState.LatestHeight, nil
}

func newConsensusState(
	ctx *common.Context,
	root []byte,
	timestamp uint64,
) common.ConsensusState {
	return common.ConsensusState{
		Root:            root,
		Timestamp:       timestamp,
		ProcessedTime:   ctx.Timestamp(),
		ProcessedHeight: ctx.Height(),
	}
}

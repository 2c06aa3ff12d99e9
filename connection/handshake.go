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

package connection

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/state"
)

// OpenInit creates a connection end in INIT. No proof is needed
func (h *Handler) OpenInit(
	ctx *common.Context,
	msg MsgConnectionOpenInit,
) (host.ConnectionID, error) {
	newState, err := Transition(common.ConnectionStateUninitialized, msg)
	if err != nil {
		return "", err
	}
	versions := h.config.SupportedVersions
	if msg.Version != nil {
		if !common.IsSupportedVersion(h.config.SupportedVersions, *msg.Version) {
			return "", errorsmod.Wrapf(
				common.ErrInvalidVersion,
				"version %v is not supported",
				*msg.Version,
			)
		}
		versions = []common.Version{*msg.Version}
	}
	if err := h.checkClient(ctx, msg.ClientID); err != nil {
		return "", err
	}
	s := state.New(ctx.Store())
	connectionID, err := s.NextConnectionID()
	if err != nil {
		return "", err
	}
	end := common.NewConnectionEnd(
		newState,
		msg.ClientID,
		msg.Counterparty,
		versions,
		msg.DelayPeriod,
	)
	if err := s.SetConnection(connectionID, end); err != nil {
		return "", err
	}
	h.emit(ctx, common.EventTypeConnectionOpenInit, connectionID, end)
	return connectionID, nil
}

// OpenTry creates a connection end in TRYOPEN after proving that the
// counterparty holds a matching end in INIT
func (h *Handler) OpenTry(
	ctx *common.Context,
	msg MsgConnectionOpenTry,
) (host.ConnectionID, error) {
	newState, err := Transition(common.ConnectionStateUninitialized, msg)
	if err != nil {
		return "", err
	}
	version, err := common.PickVersion(h.config.SupportedVersions, msg.CounterpartyVersions)
	if err != nil {
		return "", err
	}
	if err := h.checkClient(ctx, msg.ClientID); err != nil {
		return "", err
	}
	end := common.NewConnectionEnd(
		newState,
		msg.ClientID,
		msg.Counterparty,
		[]common.Version{version},
		msg.DelayPeriod,
	)
	expected := common.NewConnectionEnd(
		common.ConnectionStateInit,
		msg.Counterparty.ClientID,
		common.ConnectionCounterparty{
			ClientID: msg.ClientID,
			Prefix:   h.config.Prefix,
		},
		msg.CounterpartyVersions,
		msg.DelayPeriod,
	)
	if err := VerifyConnectionState(
		ctx,
		h.config.Verifier,
		end,
		msg.ProofHeight,
		msg.ProofInit,
		msg.Counterparty.ConnectionID,
		expected,
	); err != nil {
		return "", err
	}
	s := state.New(ctx.Store())
	connectionID, err := s.NextConnectionID()
	if err != nil {
		return "", err
	}
	if err := s.SetConnection(connectionID, end); err != nil {
		return "", err
	}
	h.emit(ctx, common.EventTypeConnectionOpenTry, connectionID, end)
	return connectionID, nil
}

// OpenAck opens an INIT end after proving that the counterparty holds a
// matching end in TRYOPEN
func (h *Handler) OpenAck(ctx *common.Context, msg MsgConnectionOpenAck) error {
	end, err := Get(ctx, msg.ConnectionID)
	if err != nil {
		return err
	}
	newState, err := Transition(end.State, msg)
	if err != nil {
		return errorsmod.Wrapf(err, "connection %s", msg.ConnectionID)
	}
	if !common.IsSupportedVersion(end.Versions, msg.Version) {
		return errorsmod.Wrapf(
			common.ErrInvalidVersion,
			"version %v was not proposed by connection %s",
			msg.Version,
			msg.ConnectionID,
		)
	}
	expected := common.NewConnectionEnd(
		common.ConnectionStateTryOpen,
		end.Counterparty.ClientID,
		common.ConnectionCounterparty{
			ClientID:     end.ClientID,
			ConnectionID: msg.ConnectionID,
			Prefix:       h.config.Prefix,
		},
		[]common.Version{msg.Version},
		end.GetDelayPeriod(),
	)
	if err := VerifyConnectionState(
		ctx,
		h.config.Verifier,
		end,
		msg.ProofHeight,
		msg.ProofTry,
		msg.CounterpartyConnectionID,
		expected,
	); err != nil {
		return err
	}
	updated := end.Clone()
	updated.State = newState
	updated.Versions = []common.Version{msg.Version}
	updated.Counterparty.ConnectionID = msg.CounterpartyConnectionID
	if err := state.New(ctx.Store()).SetConnection(msg.ConnectionID, updated); err != nil {
		return err
	}
	h.emit(ctx, common.EventTypeConnectionOpenAck, msg.ConnectionID, updated)
	return nil
}

// OpenConfirm opens a TRYOPEN end after proving that the counterparty end
// is OPEN
func (h *Handler) OpenConfirm(ctx *common.Context, msg MsgConnectionOpenConfirm) error {
	end, err := Get(ctx, msg.ConnectionID)
	if err != nil {
		return err
	}
	newState, err := Transition(end.State, msg)
	if err != nil {
		return errorsmod.Wrapf(err, "connection %s", msg.ConnectionID)
	}
	expected := common.NewConnectionEnd(
		common.ConnectionStateOpen,
		end.Counterparty.ClientID,
		common.ConnectionCounterparty{
			ClientID:     end.ClientID,
			ConnectionID: msg.ConnectionID,
			Prefix:       h.config.Prefix,
		},
		end.Versions,
		end.GetDelayPeriod(),
	)
	if err := VerifyConnectionState(
		ctx,
		h.config.Verifier,
		end,
		msg.ProofHeight,
		msg.ProofAck,
		end.Counterparty.ConnectionID,
		expected,
	); err != nil {
		return err
	}
	updated := end.Clone()
	updated.State = newState
	if err := state.New(ctx.Store()).SetConnection(msg.ConnectionID, updated); err != nil {
		return err
	}
	h.emit(ctx, common.EventTypeConnectionOpenConfirm, msg.ConnectionID, updated)
	return nil
}

func (h *Handler) checkClient(ctx *common.Context, clientID host.ClientID) error {
	_, found, err := state.New(ctx.Store()).GetClientState(clientID)
	if err != nil {
		return err
	}
	if !found {
		return errorsmod.Wrapf(common.ErrNotFound, "client %s", clientID)
	}
	return nil
}

func (h *Handler) emit(
	ctx *common.Context,
	eventType string,
	connectionID host.ConnectionID,
	end common.ConnectionEnd,
) {
	ctx.EventManager().Emit(common.NewEvent(
		eventType,
		common.NewAttribute(common.AttributeKeyConnectionID, connectionID.String()),
		common.NewAttribute(common.AttributeKeyClientID, end.ClientID.String()),
		common.NewAttribute(
			common.AttributeKeyCounterpartyClientID,
			end.Counterparty.ClientID.String(),
		),
		common.NewAttribute(
			common.AttributeKeyCounterpartyConnectionID,
			end.Counterparty.ConnectionID.String(),
		),
	))
	ctx.Logger().Info(
		"connection state changed",
		"component", componentName,
		"event", eventType,
		"connection_id", connectionID,
		"state", end.State.String(),
	)
}

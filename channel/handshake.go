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

package channel

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/connection"
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/protocol"
	"github.com/blinklabs-io/goibc/state"
)

// OpenInit creates a channel end in INIT over an OPEN connection
func (h *Handler) OpenInit(
	ctx *common.Context,
	msg MsgChannelOpenInit,
) (host.ChannelID, error) {
	end := msg.end()
	if _, err := h.checkNewEnd(ctx, msg.PortID, end, msg); err != nil {
		return "", err
	}
	s := state.New(ctx.Store())
	channelID, err := s.NextChannelID()
	if err != nil {
		return "", err
	}
	if err := s.SetChannel(msg.PortID, channelID, end); err != nil {
		return "", err
	}
	h.emit(ctx, common.EventTypeChannelOpenInit, msg.PortID, channelID, end)
	return channelID, nil
}

// OpenTry creates a channel end in TRYOPEN after proving that the
// counterparty holds a matching end in INIT
func (h *Handler) OpenTry(
	ctx *common.Context,
	msg MsgChannelOpenTry,
) (host.ChannelID, error) {
	end := msg.end()
	conn, err := h.checkNewEnd(ctx, msg.PortID, end, msg)
	if err != nil {
		return "", err
	}
	expected := common.NewChannelEnd(
		common.ChannelStateInit,
		end.Ordering,
		common.ChannelCounterparty{PortID: msg.PortID},
		[]host.ConnectionID{conn.Counterparty.ConnectionID},
		msg.CounterpartyVersion,
	)
	if err := connection.VerifyChannelState(
		ctx,
		h.config.Verifier,
		conn,
		msg.ProofHeight,
		msg.ProofInit,
		msg.Counterparty.PortID,
		msg.Counterparty.ChannelID,
		expected,
	); err != nil {
		return "", err
	}
	s := state.New(ctx.Store())
	channelID, err := s.NextChannelID()
	if err != nil {
		return "", err
	}
	if err := s.SetChannel(msg.PortID, channelID, end); err != nil {
		return "", err
	}
	h.emit(ctx, common.EventTypeChannelOpenTry, msg.PortID, channelID, end)
	return channelID, nil
}

// OpenAck opens an INIT channel end after proving that the counterparty end
// is TRYOPEN
func (h *Handler) OpenAck(ctx *common.Context, msg MsgChannelOpenAck) error {
	end, newState, conn, err := h.load(ctx, msg.PortID, msg.ChannelID, msg)
	if err != nil {
		return err
	}
	expected := common.NewChannelEnd(
		common.ChannelStateTryOpen,
		end.Ordering,
		common.ChannelCounterparty{PortID: msg.PortID, ChannelID: msg.ChannelID},
		[]host.ConnectionID{conn.Counterparty.ConnectionID},
		msg.CounterpartyVersion,
	)
	if err := connection.VerifyChannelState(
		ctx,
		h.config.Verifier,
		conn,
		msg.ProofHeight,
		msg.ProofTry,
		end.Counterparty.PortID,
		msg.CounterpartyChannelID,
		expected,
	); err != nil {
		return err
	}
	updated := end.Clone()
	updated.State = newState
	updated.Version = msg.CounterpartyVersion
	updated.Counterparty.ChannelID = msg.CounterpartyChannelID
	return h.store(ctx, common.EventTypeChannelOpenAck, msg.PortID, msg.ChannelID, updated)
}

// OpenConfirm opens a TRYOPEN channel end after proving that the
// counterparty end is OPEN
func (h *Handler) OpenConfirm(ctx *common.Context, msg MsgChannelOpenConfirm) error {
	end, newState, conn, err := h.load(ctx, msg.PortID, msg.ChannelID, msg)
	if err != nil {
		return err
	}
	if err := h.verifyCounterpartyState(
		ctx,
		conn,
		end,
		common.ChannelStateOpen,
		msg.PortID,
		msg.ChannelID,
		msg.ProofHeight,
		msg.ProofAck,
	); err != nil {
		return err
	}
	updated := end.Clone()
	updated.State = newState
	return h.store(ctx, common.EventTypeChannelOpenConfirm, msg.PortID, msg.ChannelID, updated)
}

// CloseInit closes an OPEN channel. No proof is needed
func (h *Handler) CloseInit(ctx *common.Context, msg MsgChannelCloseInit) error {
	end, newState, _, err := h.load(ctx, msg.PortID, msg.ChannelID, msg)
	if err != nil {
		return err
	}
	updated := end.Clone()
	updated.State = newState
	return h.store(ctx, common.EventTypeChannelCloseInit, msg.PortID, msg.ChannelID, updated)
}

// CloseConfirm closes an OPEN channel after proving that the counterparty
// end is CLOSED
func (h *Handler) CloseConfirm(ctx *common.Context, msg MsgChannelCloseConfirm) error {
	end, newState, conn, err := h.load(ctx, msg.PortID, msg.ChannelID, msg)
	if err != nil {
		return err
	}
	if err := h.verifyCounterpartyState(
		ctx,
		conn,
		end,
		common.ChannelStateClosed,
		msg.PortID,
		msg.ChannelID,
		msg.ProofHeight,
		msg.ProofInit,
	); err != nil {
		return err
	}
	updated := end.Clone()
	updated.State = newState
	return h.store(ctx, common.EventTypeChannelCloseConfirm, msg.PortID, msg.ChannelID, updated)
}

// checkNewEnd validates a channel end about to be created and returns its
// connection
func (h *Handler) checkNewEnd(
	ctx *common.Context,
	portID host.PortID,
	end common.ChannelEnd,
	msg protocol.Message,
) (common.ConnectionEnd, error) {
	if _, err := Transition(common.ChannelStateUninitialized, msg); err != nil {
		return common.ConnectionEnd{}, err
	}
	if err := end.ValidateBasic(); err != nil {
		return common.ConnectionEnd{}, err
	}
	if _, err := Route(h.config.Router, portID); err != nil {
		return common.ConnectionEnd{}, err
	}
	conn, err := connection.GetOpen(ctx, end.ConnectionID())
	if err != nil {
		return common.ConnectionEnd{}, err
	}
	if len(conn.Versions) != 1 {
		return common.ConnectionEnd{}, errorsmod.Wrapf(
			common.ErrInvalidVersion,
			"connection %s has %d versions, expected exactly one",
			end.ConnectionID(),
			len(conn.Versions),
		)
	}
	if !conn.Versions[0].AllowsOrdering(end.Ordering) {
		return common.ConnectionEnd{}, errorsmod.Wrapf(
			common.ErrInvalidOrdering,
			"connection %s does not allow %s channels",
			end.ConnectionID(),
			end.Ordering,
		)
	}
	return conn, nil
}

// load returns a stored channel end, the state msg moves it to, and its OPEN
// connection
func (h *Handler) load(
	ctx *common.Context,
	portID host.PortID,
	channelID host.ChannelID,
	msg protocol.Message,
) (common.ChannelEnd, common.ChannelState, common.ConnectionEnd, error) {
	end, err := Get(ctx, portID, channelID)
	if err != nil {
		return common.ChannelEnd{}, 0, common.ConnectionEnd{}, err
	}
	newState, err := Transition(end.State, msg)
	if err != nil {
		return common.ChannelEnd{}, 0, common.ConnectionEnd{}, errorsmod.Wrapf(
			err,
			"channel %s/%s",
			portID,
			channelID,
		)
	}
	conn, err := connection.GetOpen(ctx, end.ConnectionID())
	if err != nil {
		return common.ChannelEnd{}, 0, common.ConnectionEnd{}, err
	}
	return end, newState, conn, nil
}

// verifyCounterpartyState checks that the counterparty end of a channel has
// reached counterpartyState with everything else unchanged
func (h *Handler) verifyCounterpartyState(
	ctx *common.Context,
	conn common.ConnectionEnd,
	end common.ChannelEnd,
	counterpartyState common.ChannelState,
	portID host.PortID,
	channelID host.ChannelID,
	height common.Height,
	proof []byte,
) error {
	expected := common.NewChannelEnd(
		counterpartyState,
		end.Ordering,
		common.ChannelCounterparty{PortID: portID, ChannelID: channelID},
		[]host.ConnectionID{conn.Counterparty.ConnectionID},
		end.Version,
	)
	return connection.VerifyChannelState(
		ctx,
		h.config.Verifier,
		conn,
		height,
		proof,
		end.Counterparty.PortID,
		end.Counterparty.ChannelID,
		expected,
	)
}

func (h *Handler) store(
	ctx *common.Context,
	eventType string,
	portID host.PortID,
	channelID host.ChannelID,
	end common.ChannelEnd,
) error {
	if err := state.New(ctx.Store()).SetChannel(portID, channelID, end); err != nil {
		return err
	}
	h.emit(ctx, eventType, portID, channelID, end)
	return nil
}

func (h *Handler) emit(
	ctx *common.Context,
	eventType string,
	portID host.PortID,
	channelID host.ChannelID,
	end common.ChannelEnd,
) {
	ctx.EventManager().Emit(ChannelEvent(eventType, portID, channelID, end))
	ctx.Logger().Info(
		"channel state changed",
		"component", componentName,
		"event", eventType,
		"port_id", portID,
		"channel_id", channelID,
		"state", end.State.String(),
	)
}

// ChannelEvent returns a channel lifecycle event
func ChannelEvent(
	eventType string,
	portID host.PortID,
	channelID host.ChannelID,
	end common.ChannelEnd,
) common.Event {
	return common.NewEvent(
		eventType,
		common.NewAttribute(common.AttributeKeyPortID, portID.String()),
		common.NewAttribute(common.AttributeKeyChannelID, channelID.String()),
		common.NewAttribute(common.AttributeKeyCounterpartyPortID, end.Counterparty.PortID.String()),
		common.NewAttribute(
			common.AttributeKeyCounterpartyChannelID,
			end.Counterparty.ChannelID.String(),
		),
		common.NewAttribute(common.AttributeKeyConnectionID, end.ConnectionID().String()),
		common.NewAttribute(common.AttributeKeyVersion, end.Version),
	)
}

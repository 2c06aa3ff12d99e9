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

package channel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/goibc/channel"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
	test_mock "github.com/blinklabs-io/goibc/internal/test/mock"
	"github.com/blinklabs-io/goibc/protocol"
)

var (
	testHeight      = common.NewHeight(0, 20)
	testProofHeight = common.NewHeight(0, 10)
	testTime        = time.Unix(1700000000, 0)
	testVersion     = "ics20-1"
)

func newHandler(verifier common.ProofVerifier) *channel.Handler {
	return channel.New(channel.NewConfig(
		channel.WithProofVerifier(verifier),
		channel.WithRouter(test_mock.MockRouter{
			test_mock.PortID: &test_mock.MockApplication{},
		}),
	))
}

func newContext() *common.Context {
	ctx := test_mock.NewContext(testHeight, testTime)
	test_mock.SetClient(ctx, test_mock.ClientID, testProofHeight)
	test_mock.SetOpenConnection(ctx, 0)
	return ctx
}

func initMsg(ordering common.Order) channel.MsgChannelOpenInit {
	return channel.MsgChannelOpenInit{
		PortID:             test_mock.PortID,
		Ordering:           ordering,
		ConnectionHops:     []host.ConnectionID{test_mock.ConnectionID},
		CounterpartyPortID: test_mock.CounterpartyPortID,
		Version:            testVersion,
	}
}

func tryMsg() channel.MsgChannelOpenTry {
	return channel.MsgChannelOpenTry{
		PortID:         test_mock.PortID,
		Ordering:       common.OrderUnordered,
		ConnectionHops: []host.ConnectionID{test_mock.ConnectionID},
		Counterparty: common.ChannelCounterparty{
			PortID:    test_mock.CounterpartyPortID,
			ChannelID: test_mock.CounterpartyChannelID,
		},
		CounterpartyVersion: testVersion,
		ProofInit:           []byte("proof"),
		ProofHeight:         testProofHeight,
	}
}

func TestOpenInit(t *testing.T) {
	ctx := newContext()
	h := newHandler(&test_mock.MockVerifier{})

	channelID, err := h.OpenInit(ctx, initMsg(common.OrderOrdered))
	require.NoError(t, err)
	assert.Equal(t, host.ChannelID("channel-0"), channelID)
	end, err := channel.Get(ctx, test_mock.PortID, channelID)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateInit, end.State)
	assert.Equal(t, common.OrderOrdered, end.Ordering)
	assert.Equal(t, test_mock.CounterpartyPortID, end.Counterparty.PortID)
	assert.Equal(t, host.ChannelID(""), end.Counterparty.ChannelID)

	channelID, err = h.OpenInit(ctx, initMsg(common.OrderUnordered))
	require.NoError(t, err)
	assert.Equal(t, host.ChannelID("channel-1"), channelID)

	events := ctx.EventManager().Events()
	require.Len(t, events, 2)
	assert.Equal(t, common.EventTypeChannelOpenInit, events[1].Type)
	value, ok := events[1].Attribute(common.AttributeKeyChannelID)
	require.True(t, ok)
	assert.Equal(t, "channel-1", value)
}

func TestOpenInitRejects(t *testing.T) {
	ctx := newContext()
	h := newHandler(&test_mock.MockVerifier{})

	msg := initMsg(common.OrderOrdered)
	msg.PortID = "unbound"
	_, err := h.OpenInit(ctx, msg)
	assert.ErrorIs(t, err, common.ErrPortNotBound)

	msg = initMsg(common.OrderOrdered)
	msg.ConnectionHops = []host.ConnectionID{"connection-3"}
	_, err = h.OpenInit(ctx, msg)
	assert.ErrorIs(t, err, common.ErrNotFound)

	msg = initMsg(common.OrderOrdered)
	msg.ConnectionHops = []host.ConnectionID{test_mock.ConnectionID, "connection-3"}
	_, err = h.OpenInit(ctx, msg)
	assert.ErrorIs(t, err, common.ErrInvalidConnectionHops)

	// A connection that has not finished its handshake cannot carry channels
	pending := common.NewConnectionEnd(
		common.ConnectionStateInit,
		test_mock.ClientID,
		common.ConnectionCounterparty{
			ClientID: test_mock.CounterpartyClientID,
			Prefix:   test_mock.CounterpartyPrefix,
		},
		[]common.Version{common.DefaultVersion},
		0,
	)
	test_mock.SetConnection(ctx, "connection-1", pending)
	msg = initMsg(common.OrderOrdered)
	msg.ConnectionHops = []host.ConnectionID{"connection-1"}
	_, err = h.OpenInit(ctx, msg)
	assert.ErrorIs(t, err, common.ErrInvalidState)

	unorderedOnly := pending.Clone()
	unorderedOnly.State = common.ConnectionStateOpen
	unorderedOnly.Versions = []common.Version{
		common.NewVersion("1", []string{common.FeatureOrderUnordered}),
	}
	test_mock.SetConnection(ctx, "connection-2", unorderedOnly)
	msg = initMsg(common.OrderOrdered)
	msg.ConnectionHops = []host.ConnectionID{"connection-2"}
	_, err = h.OpenInit(ctx, msg)
	assert.ErrorIs(t, err, common.ErrInvalidOrdering)

	_, err = h.OpenInit(ctx, initMsg(common.OrderNone))
	assert.ErrorIs(t, err, common.ErrInvalidOrdering)

	assert.Empty(t, ctx.EventManager().Events())
}

func TestOpenTry(t *testing.T) {
	ctx := newContext()
	verifier := &test_mock.MockVerifier{Accept: true}
	h := newHandler(verifier)

	channelID, err := h.OpenTry(ctx, tryMsg())
	require.NoError(t, err)
	assert.Equal(t, host.ChannelID("channel-0"), channelID)
	end, err := channel.Get(ctx, test_mock.PortID, channelID)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateTryOpen, end.State)
	assert.Equal(t, testVersion, end.Version)

	call, ok := verifier.LastMembership()
	require.True(t, ok)
	assert.Equal(t, []byte("ibc/channelEnds/ports/port-2/channels/channel-9"), call.Key)
	counterpartyEnd, err := common.DecodeChannelEnd(call.Value)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateInit, counterpartyEnd.State)
	assert.Equal(t, []host.ConnectionID{test_mock.CounterpartyConnectionID}, counterpartyEnd.ConnectionHops)
	assert.Equal(
		t,
		common.ChannelCounterparty{PortID: test_mock.PortID},
		counterpartyEnd.Counterparty,
	)
}

func TestOpenTryProofFailure(t *testing.T) {
	ctx := newContext()
	h := newHandler(&test_mock.MockVerifier{})
	_, err := h.OpenTry(ctx, tryMsg())
	assert.ErrorIs(t, err, common.ErrProofVerificationFailed)
	_, err = channel.Get(ctx, test_mock.PortID, "channel-0")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestOpenAck(t *testing.T) {
	ctx := newContext()
	verifier := &test_mock.MockVerifier{Accept: true}
	h := newHandler(verifier)
	channelID, err := h.OpenInit(ctx, initMsg(common.OrderUnordered))
	require.NoError(t, err)

	ack := channel.MsgChannelOpenAck{
		PortID:                test_mock.PortID,
		ChannelID:             channelID,
		CounterpartyChannelID: test_mock.CounterpartyChannelID,
		CounterpartyVersion:   "ics20-2",
		ProofTry:              []byte("proof"),
		ProofHeight:           testProofHeight,
	}
	require.NoError(t, h.OpenAck(ctx, ack))
	end, err := channel.Get(ctx, test_mock.PortID, channelID)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateOpen, end.State)
	assert.Equal(t, "ics20-2", end.Version)
	assert.Equal(t, test_mock.CounterpartyChannelID, end.Counterparty.ChannelID)

	call, ok := verifier.LastMembership()
	require.True(t, ok)
	counterpartyEnd, err := common.DecodeChannelEnd(call.Value)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateTryOpen, counterpartyEnd.State)
	assert.Equal(t, channelID, counterpartyEnd.Counterparty.ChannelID)

	assert.ErrorIs(t, h.OpenAck(ctx, ack), common.ErrInvalidState)
}

func TestOpenConfirm(t *testing.T) {
	ctx := newContext()
	verifier := &test_mock.MockVerifier{Accept: true}
	h := newHandler(verifier)
	channelID, err := h.OpenTry(ctx, tryMsg())
	require.NoError(t, err)

	confirm := channel.MsgChannelOpenConfirm{
		PortID:      test_mock.PortID,
		ChannelID:   channelID,
		ProofAck:    []byte("proof"),
		ProofHeight: testProofHeight,
	}
	require.NoError(t, h.OpenConfirm(ctx, confirm))
	end, err := channel.Get(ctx, test_mock.PortID, channelID)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateOpen, end.State)

	call, ok := verifier.LastMembership()
	require.True(t, ok)
	counterpartyEnd, err := common.DecodeChannelEnd(call.Value)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateOpen, counterpartyEnd.State)
	assert.Equal(t, channelID, counterpartyEnd.Counterparty.ChannelID)

	assert.ErrorIs(t, h.OpenConfirm(ctx, confirm), common.ErrInvalidState)
}

func TestCloseInit(t *testing.T) {
	ctx := newContext()
	h := newHandler(&test_mock.MockVerifier{})
	test_mock.SetOpenChannel(ctx, common.OrderOrdered)

	msg := channel.MsgChannelCloseInit{PortID: test_mock.PortID, ChannelID: test_mock.ChannelID}
	require.NoError(t, h.CloseInit(ctx, msg))
	end, err := channel.Get(ctx, test_mock.PortID, test_mock.ChannelID)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateClosed, end.State)

	// CLOSED is terminal
	assert.ErrorIs(t, h.CloseInit(ctx, msg), common.ErrInvalidState)

	channelID, err := h.OpenInit(ctx, initMsg(common.OrderOrdered))
	require.NoError(t, err)
	err = h.CloseInit(ctx, channel.MsgChannelCloseInit{PortID: test_mock.PortID, ChannelID: channelID})
	assert.ErrorIs(t, err, common.ErrInvalidState)
}

func TestCloseConfirm(t *testing.T) {
	ctx := newContext()
	verifier := &test_mock.MockVerifier{}
	h := newHandler(verifier)
	test_mock.SetOpenChannel(ctx, common.OrderUnordered)

	msg := channel.MsgChannelCloseConfirm{
		PortID:      test_mock.PortID,
		ChannelID:   test_mock.ChannelID,
		ProofInit:   []byte("proof"),
		ProofHeight: testProofHeight,
	}
	assert.ErrorIs(t, h.CloseConfirm(ctx, msg), common.ErrProofVerificationFailed)
	end, err := channel.Get(ctx, test_mock.PortID, test_mock.ChannelID)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateOpen, end.State)

	verifier.Accept = true
	require.NoError(t, h.CloseConfirm(ctx, msg))
	end, err = channel.Get(ctx, test_mock.PortID, test_mock.ChannelID)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateClosed, end.State)

	call, ok := verifier.LastMembership()
	require.True(t, ok)
	assert.Equal(t, []byte("ibc/channelEnds/ports/port-2/channels/channel-9"), call.Key)
	counterpartyEnd, err := common.DecodeChannelEnd(call.Value)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateClosed, counterpartyEnd.State)
}

func TestPacketActionsRequireOpen(t *testing.T) {
	packetTypes := []uint8{
		channel.MessageTypeSendPacket,
		channel.MessageTypeRecvPacket,
		channel.MessageTypeWriteAcknowledgement,
		channel.MessageTypeAcknowledgePacket,
		channel.MessageTypeTimeoutPacket,
		channel.MessageTypeTimeoutOnClose,
	}
	for _, msgType := range packetTypes {
		next, err := channel.Transition(common.ChannelStateOpen, protocol.MessageType(msgType))
		require.NoError(t, err)
		assert.Equal(t, common.ChannelStateOpen, next)
		for _, current := range []common.ChannelState{
			common.ChannelStateInit,
			common.ChannelStateTryOpen,
			common.ChannelStateClosed,
		} {
			if current == common.ChannelStateClosed && msgType == channel.MessageTypeTimeoutOnClose {
				continue
			}
			_, err := channel.Transition(current, protocol.MessageType(msgType))
			assert.ErrorIs(t, err, common.ErrInvalidState)
		}
	}
	// Packets in flight can still be recovered from a closed end
	next, err := channel.Transition(
		common.ChannelStateClosed,
		protocol.MessageType(channel.MessageTypeTimeoutOnClose),
	)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateClosed, next)
	_, err = channel.Transition(
		common.ChannelStateClosed,
		protocol.MessageType(channel.MessageTypeCloseOnTimeout),
	)
	assert.ErrorIs(t, err, common.ErrInvalidState)
	next, err = channel.Transition(
		common.ChannelStateOpen,
		protocol.MessageType(channel.MessageTypeCloseOnTimeout),
	)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateClosed, next)
}

func TestMsgValidateBasic(t *testing.T) {
	require.NoError(t, initMsg(common.OrderOrdered).ValidateBasic())
	require.NoError(t, tryMsg().ValidateBasic())

	msg := initMsg(common.OrderOrdered)
	msg.ConnectionHops = nil
	assert.ErrorIs(t, msg.ValidateBasic(), common.ErrInvalidConnectionHops)

	try := tryMsg()
	try.Counterparty.ChannelID = ""
	assert.ErrorIs(t, try.ValidateBasic(), common.ErrInvalidCounterparty)

	try = tryMsg()
	try.ProofInit = nil
	assert.ErrorIs(t, try.ValidateBasic(), common.ErrInvalidProof)

	closeInit := channel.MsgChannelCloseInit{PortID: test_mock.PortID, ChannelID: "chan"}
	assert.ErrorIs(t, closeInit.ValidateBasic(), common.ErrInvalidMessage)
}

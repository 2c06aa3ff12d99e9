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

package packet_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/goibc/channel"
	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	test_mock "github.com/blinklabs-io/goibc/internal/test/mock"
	"github.com/blinklabs-io/goibc/packet"
	"github.com/blinklabs-io/goibc/state"
)

var (
	testHeight       = common.NewHeight(0, 20)
	testClientHeight = common.NewHeight(0, 10)
	testTimeout      = common.NewHeight(0, 100)
	testTime         = time.Unix(1700000000, 0)
	testProof        = []byte("proof")
	testAck          = []byte(`{"result":"AQ=="}`)
)

type testEnv struct {
	ctx      *common.Context
	handler  *packet.Handler
	verifier *test_mock.MockVerifier
	app      *test_mock.MockApplication
	state    *state.State
}

func newTestEnv(ordering common.Order) *testEnv {
	ctx := test_mock.NewContext(testHeight, testTime)
	test_mock.SetupOpenChannel(ctx, ordering, testClientHeight)
	return newTestEnvWithContext(ctx)
}

func newTestEnvWithContext(ctx *common.Context) *testEnv {
	verifier := &test_mock.MockVerifier{Accept: true}
	app := &test_mock.MockApplication{AckVal: testAck}
	handler := packet.New(packet.NewConfig(
		packet.WithProofVerifier(verifier),
		packet.WithRouter(test_mock.MockRouter{test_mock.PortID: app}),
	))
	return &testEnv{
		ctx:      ctx,
		handler:  handler,
		verifier: verifier,
		app:      app,
		state:    state.New(ctx.Store()),
	}
}

// outgoing returns a packet sent from the fixture channel
func outgoing(data string) common.Packet {
	return common.NewPacket(
		[]byte(data),
		0,
		test_mock.PortID,
		test_mock.ChannelID,
		test_mock.CounterpartyPortID,
		test_mock.CounterpartyChannelID,
		testTimeout,
		0,
	)
}

// incoming returns a packet sent to the fixture channel by the counterparty
func incoming(sequence uint64) common.Packet {
	return common.NewPacket(
		[]byte("data"),
		sequence,
		test_mock.CounterpartyPortID,
		test_mock.CounterpartyChannelID,
		test_mock.PortID,
		test_mock.ChannelID,
		testTimeout,
		0,
	)
}

func (e *testEnv) send(t *testing.T, p common.Packet) common.Packet {
	t.Helper()
	sequence, err := e.handler.SendPacket(e.ctx, p)
	require.NoError(t, err)
	p.Sequence = sequence
	return p
}

func (e *testEnv) recv(p common.Packet) error {
	return e.handler.RecvPacket(e.ctx, packet.MsgRecvPacket{
		Packet:          p,
		ProofCommitment: testProof,
		ProofHeight:     testClientHeight,
	})
}

func (e *testEnv) acknowledge(p common.Packet) error {
	return e.handler.AcknowledgePacket(e.ctx, packet.MsgAcknowledgement{
		Packet:          p,
		Acknowledgement: testAck,
		ProofAcked:      testProof,
		ProofHeight:     testClientHeight,
	})
}

func (e *testEnv) timeout(p common.Packet, proofHeight common.Height, nextSequenceRecv uint64) error {
	return e.handler.TimeoutPacket(e.ctx, packet.MsgTimeout{
		Packet:           p,
		ProofUnreceived:  testProof,
		ProofHeight:      proofHeight,
		NextSequenceRecv: nextSequenceRecv,
	})
}

func (e *testEnv) counters(t *testing.T) (uint64, uint64, uint64) {
	t.Helper()
	send, err := e.state.GetNextSequenceSend(test_mock.PortID, test_mock.ChannelID)
	require.NoError(t, err)
	recv, err := e.state.GetNextSequenceRecv(test_mock.PortID, test_mock.ChannelID)
	require.NoError(t, err)
	ack, err := e.state.GetNextSequenceAck(test_mock.PortID, test_mock.ChannelID)
	require.NoError(t, err)
	return send, recv, ack
}

func (e *testEnv) channelState(t *testing.T) common.ChannelState {
	t.Helper()
	end, err := channel.Get(e.ctx, test_mock.PortID, test_mock.ChannelID)
	require.NoError(t, err)
	return end.State
}

func TestSendPacket(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)

	p := env.send(t, outgoing("hello"))
	assert.Equal(t, uint64(1), p.Sequence)
	stored := env.ctx.Store().Get([]byte("commitments/ports/port-1/channels/channel-0/sequences/1"))
	assert.Equal(t, commitment.CommitPacket(p).Bytes(), stored)
	send, _, _ := env.counters(t)
	assert.Equal(t, uint64(1), send)

	p2 := env.send(t, outgoing("world"))
	assert.Equal(t, uint64(2), p2.Sequence)

	events := env.ctx.EventManager().Events()
	require.Len(t, events, 2)
	assert.Equal(t, common.EventTypeSendPacket, events[0].Type)
	sequence, ok := events[1].Attribute(common.AttributeKeySequence)
	require.True(t, ok)
	assert.Equal(t, "2", sequence)
}

func TestSendPacketRejects(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)

	noTimeout := outgoing("x")
	noTimeout.TimeoutHeight = common.Height{}
	_, err := env.handler.SendPacket(env.ctx, noTimeout)
	assert.ErrorIs(t, err, common.ErrInvalidPacket)

	withSequence := outgoing("x")
	withSequence.Sequence = 4
	_, err = env.handler.SendPacket(env.ctx, withSequence)
	assert.ErrorIs(t, err, common.ErrInvalidPacket)

	unknown := outgoing("x")
	unknown.SourceChannel = "channel-4"
	_, err = env.handler.SendPacket(env.ctx, unknown)
	assert.ErrorIs(t, err, common.ErrNotFound)

	wrongDestination := outgoing("x")
	wrongDestination.DestinationChannel = "channel-4"
	_, err = env.handler.SendPacket(env.ctx, wrongDestination)
	assert.ErrorIs(t, err, common.ErrInvalidPacket)

	// The counterparty is already at the timeout height
	expired := outgoing("x")
	expired.TimeoutHeight = testClientHeight
	_, err = env.handler.SendPacket(env.ctx, expired)
	assert.ErrorIs(t, err, common.ErrAlreadyTimedOut)

	env.verifier.TimestampVal = 5000
	expired = outgoing("x")
	expired.TimeoutHeight = common.Height{}
	expired.TimeoutTimestamp = 5000
	_, err = env.handler.SendPacket(env.ctx, expired)
	assert.ErrorIs(t, err, common.ErrAlreadyTimedOut)
	expired.TimeoutTimestamp = 5001
	_, err = env.handler.SendPacket(env.ctx, expired)
	require.NoError(t, err)

	send, _, _ := env.counters(t)
	assert.Equal(t, uint64(1), send)
}

func TestSendPacketClosedChannel(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)
	end, err := channel.Get(env.ctx, test_mock.PortID, test_mock.ChannelID)
	require.NoError(t, err)
	end.State = common.ChannelStateClosed
	test_mock.SetChannel(env.ctx, test_mock.PortID, test_mock.ChannelID, end)

	_, err = env.handler.SendPacket(env.ctx, outgoing("x"))
	assert.ErrorIs(t, err, common.ErrInvalidState)
	send, _, _ := env.counters(t)
	assert.Equal(t, uint64(0), send)
}

func TestRecvPacketUnordered(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)

	p := incoming(1)
	require.NoError(t, env.recv(p))
	assert.True(t, env.state.HasPacketReceipt(test_mock.PortID, test_mock.ChannelID, 1))
	_, recv, _ := env.counters(t)
	assert.Equal(t, uint64(1), recv)
	ack, found, err := env.state.GetPacketAcknowledgement(test_mock.PortID, test_mock.ChannelID, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, commitment.CommitAcknowledgement(testAck), ack)
	require.Len(t, env.app.Received, 1)

	call, ok := env.verifier.LastMembership()
	require.True(t, ok)
	assert.Equal(t, []byte("ibc/commitments/ports/port-2/channels/channel-9/sequences/1"), call.Key)
	assert.Equal(t, p.Commitment().Bytes(), call.Value)

	// Replaying the same packet is rejected
	err = env.recv(p)
	assert.ErrorIs(t, err, common.ErrSequenceViolation)
	var violation common.SequenceViolationError
	require.True(t, errors.As(err, &violation))
	assert.True(t, violation.Duplicate)
	require.Len(t, env.app.Received, 1)

	// Gaps are fine on an UNORDERED channel
	require.NoError(t, env.recv(incoming(3)))
	_, recv, _ = env.counters(t)
	assert.Equal(t, uint64(2), recv)

	types := []string{}
	for _, event := range env.ctx.EventManager().Events() {
		types = append(types, event.Type)
	}
	assert.Equal(
		t,
		[]string{
			common.EventTypeRecvPacket,
			common.EventTypeWriteAck,
			common.EventTypeRecvPacket,
			common.EventTypeWriteAck,
		},
		types,
	)
}

func TestRecvPacketOrdered(t *testing.T) {
	env := newTestEnv(common.OrderOrdered)

	err := env.recv(incoming(2))
	assert.ErrorIs(t, err, common.ErrSequenceViolation)
	var violation common.SequenceViolationError
	require.True(t, errors.As(err, &violation))
	assert.Equal(t, uint64(1), violation.Expected)
	assert.Equal(t, uint64(2), violation.Got)

	require.NoError(t, env.recv(incoming(1)))
	assert.ErrorIs(t, env.recv(incoming(1)), common.ErrSequenceViolation)
	require.NoError(t, env.recv(incoming(2)))
	_, recv, _ := env.counters(t)
	assert.Equal(t, uint64(2), recv)
	// ORDERED channels do not write receipts
	assert.False(t, env.state.HasPacketReceipt(test_mock.PortID, test_mock.ChannelID, 1))
}

func TestRecvPacketRejects(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)

	env.verifier.Accept = false
	assert.ErrorIs(t, env.recv(incoming(1)), common.ErrProofVerificationFailed)
	assert.False(t, env.state.HasPacketReceipt(test_mock.PortID, test_mock.ChannelID, 1))
	env.verifier.Accept = true

	// This chain is at the packet's timeout height
	expired := incoming(1)
	expired.TimeoutHeight = testHeight
	assert.ErrorIs(t, env.recv(expired), common.ErrAlreadyTimedOut)

	expired = incoming(1)
	expired.TimeoutTimestamp = uint64(testTime.UnixNano())
	assert.ErrorIs(t, env.recv(expired), common.ErrAlreadyTimedOut)

	wrongSource := incoming(1)
	wrongSource.SourcePort = "port-3"
	assert.ErrorIs(t, env.recv(wrongSource), common.ErrInvalidPacket)

	zeroSequence := incoming(0)
	assert.ErrorIs(t, env.recv(zeroSequence), common.ErrInvalidPacket)

	env.app.RecvErr = errors.New("boom")
	assert.ErrorIs(t, env.recv(incoming(1)), common.ErrApplicationCallback)
}

func TestAsyncAcknowledgement(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)
	env.app.AckVal = nil

	p := incoming(1)
	require.NoError(t, env.recv(p))
	_, found, err := env.state.GetPacketAcknowledgement(test_mock.PortID, test_mock.ChannelID, 1)
	require.NoError(t, err)
	assert.False(t, found)

	write := packet.MsgWriteAcknowledgement{Packet: p, Acknowledgement: testAck}
	require.NoError(t, env.handler.WriteAcknowledgement(env.ctx, write))
	ack, found, err := env.state.GetPacketAcknowledgement(test_mock.PortID, test_mock.ChannelID, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, commitment.CommitAcknowledgement(testAck), ack)

	assert.ErrorIs(t, env.handler.WriteAcknowledgement(env.ctx, write), common.ErrAckExists)

	unreceived := packet.MsgWriteAcknowledgement{Packet: incoming(2), Acknowledgement: testAck}
	assert.ErrorIs(t, env.handler.WriteAcknowledgement(env.ctx, unreceived), common.ErrNotFound)

	empty := packet.MsgWriteAcknowledgement{Packet: p}
	assert.ErrorIs(t, env.handler.WriteAcknowledgement(env.ctx, empty), common.ErrInvalidAcknowledgement)
}

func TestAcknowledgePacket(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)
	p := env.send(t, outgoing("hello"))

	require.NoError(t, env.acknowledge(p))
	_, found, err := env.state.GetPacketCommitment(test_mock.PortID, test_mock.ChannelID, 1)
	require.NoError(t, err)
	assert.False(t, found)
	// The key is kept with an empty value
	assert.Equal(
		t,
		[]byte{},
		env.ctx.Store().Get([]byte("commitments/ports/port-1/channels/channel-0/sequences/1")),
	)
	send, _, ack := env.counters(t)
	assert.Equal(t, uint64(1), ack)
	assert.LessOrEqual(t, ack, send)

	call, ok := env.verifier.LastMembership()
	require.True(t, ok)
	assert.Equal(t, []byte("ibc/acks/ports/port-2/channels/channel-9/sequences/1"), call.Key)
	assert.Equal(t, commitment.CommitAcknowledgement(testAck).Bytes(), call.Value)
	require.Len(t, env.app.Acks, 1)
	assert.Equal(t, testAck, env.app.Acks[0])

	// A second acknowledgement finds no commitment
	assert.ErrorIs(t, env.acknowledge(p), common.ErrNotFound)
	_, _, ack = env.counters(t)
	assert.Equal(t, uint64(1), ack)
	require.Len(t, env.app.Acks, 1)
}

func TestAcknowledgePacketRejects(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)
	p := env.send(t, outgoing("hello"))

	forged := p
	forged.Data = []byte("forged")
	assert.ErrorIs(t, env.acknowledge(forged), common.ErrInvalidPacket)

	env.verifier.Accept = false
	assert.ErrorIs(t, env.acknowledge(p), common.ErrProofVerificationFailed)
	_, found, err := env.state.GetPacketCommitment(test_mock.PortID, test_mock.ChannelID, 1)
	require.NoError(t, err)
	assert.True(t, found)

	never := p
	never.Sequence = 7
	assert.ErrorIs(t, env.acknowledge(never), common.ErrNotFound)
}

func TestAcknowledgePacketOrdered(t *testing.T) {
	env := newTestEnv(common.OrderOrdered)
	p1 := env.send(t, outgoing("one"))
	p2 := env.send(t, outgoing("two"))

	assert.ErrorIs(t, env.acknowledge(p2), common.ErrSequenceViolation)
	require.NoError(t, env.acknowledge(p1))
	require.NoError(t, env.acknowledge(p2))
	send, _, ack := env.counters(t)
	assert.Equal(t, uint64(2), ack)
	assert.Equal(t, send, ack)
}

func TestTimeoutPacketUnordered(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)
	sent := outgoing("hello")
	sent.TimeoutHeight = common.NewHeight(0, 15)
	p := env.send(t, sent)

	err := env.timeout(p, common.NewHeight(0, 12), 0)
	assert.ErrorIs(t, err, common.ErrTimeoutNotElapsed)
	_, found, err := env.state.GetPacketCommitment(test_mock.PortID, test_mock.ChannelID, 1)
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, env.timeout(p, common.NewHeight(0, 15), 0))
	_, found, err = env.state.GetPacketCommitment(test_mock.PortID, test_mock.ChannelID, 1)
	require.NoError(t, err)
	assert.False(t, found)
	require.Len(t, env.verifier.NonMemberships, 1)
	assert.Equal(
		t,
		[]byte("ibc/receipts/ports/port-2/channels/channel-9/sequences/1"),
		env.verifier.NonMemberships[0].Key,
	)
	assert.Equal(t, common.ChannelStateOpen, env.channelState(t))
	send, _, ack := env.counters(t)
	assert.Equal(t, uint64(1), ack)
	assert.LessOrEqual(t, ack, send)
	require.Len(t, env.app.TimedOut, 1)

	assert.ErrorIs(t, env.timeout(p, common.NewHeight(0, 15), 0), common.ErrNotFound)
}

func TestTimeoutPacketOrderedClosesChannel(t *testing.T) {
	env := newTestEnv(common.OrderOrdered)
	p1 := env.send(t, outgoing("one"))
	p2 := env.send(t, outgoing("two"))

	// The counterparty claims to have received the packet
	err := env.timeout(p2, testTimeout, 2)
	assert.ErrorIs(t, err, common.ErrInvalidPacket)

	require.NoError(t, env.timeout(p2, testTimeout, 1))
	call, ok := env.verifier.LastMembership()
	require.True(t, ok)
	assert.Equal(t, []byte("ibc/nextSequenceRecv/ports/port-2/channels/channel-9"), call.Key)
	assert.Equal(t, []byte{0x01}, call.Value)
	assert.Equal(t, common.ChannelStateClosed, env.channelState(t))

	found := false
	for _, event := range env.ctx.EventManager().Events() {
		if event.Type == common.EventTypeChannelClosed {
			found = true
		}
	}
	assert.True(t, found)

	// Nothing else happens on the closed channel
	_, err = env.handler.SendPacket(env.ctx, outgoing("three"))
	assert.ErrorIs(t, err, common.ErrInvalidState)
	assert.ErrorIs(t, env.acknowledge(p1), common.ErrInvalidState)
	assert.ErrorIs(t, env.timeout(p1, testTimeout, 0), common.ErrInvalidState)
}

func TestTimeoutPacketOrderedNothingReceived(t *testing.T) {
	env := newTestEnv(common.OrderOrdered)
	p := env.send(t, outgoing("one"))

	require.NoError(t, env.timeout(p, testTimeout, 0))
	require.Len(t, env.verifier.NonMemberships, 1)
	assert.Equal(
		t,
		[]byte("ibc/nextSequenceRecv/ports/port-2/channels/channel-9"),
		env.verifier.NonMemberships[0].Key,
	)
	assert.Equal(t, common.ChannelStateClosed, env.channelState(t))
}

func TestTimeoutPacketByTimestamp(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)
	sent := outgoing("hello")
	sent.TimeoutHeight = common.Height{}
	sent.TimeoutTimestamp = 9000
	env.verifier.TimestampVal = 8000
	p := env.send(t, sent)

	assert.ErrorIs(t, env.timeout(p, testClientHeight, 0), common.ErrTimeoutNotElapsed)
	env.verifier.TimestampVal = 9000
	require.NoError(t, env.timeout(p, testClientHeight, 0))
}

func TestTimeoutPacketProofFailure(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)
	p := env.send(t, outgoing("hello"))
	env.verifier.Accept = false
	assert.ErrorIs(t, env.timeout(p, testTimeout, 0), common.ErrProofVerificationFailed)
	assert.Empty(t, env.app.TimedOut)
}

func TestTimeoutOnClose(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)
	p := env.send(t, outgoing("hello"))

	// The timeout has not passed but the counterparty channel is closed
	err := env.handler.TimeoutOnClose(env.ctx, packet.MsgTimeoutOnClose{
		Packet:          p,
		ProofUnreceived: testProof,
		ProofClose:      testProof,
		ProofHeight:     testClientHeight,
	})
	require.NoError(t, err)
	_, found, err := env.state.GetPacketCommitment(test_mock.PortID, test_mock.ChannelID, 1)
	require.NoError(t, err)
	assert.False(t, found)

	require.Len(t, env.verifier.Memberships, 1)
	call := env.verifier.Memberships[0]
	assert.Equal(t, []byte("ibc/channelEnds/ports/port-2/channels/channel-9"), call.Key)
	closed, err := common.DecodeChannelEnd(call.Value)
	require.NoError(t, err)
	assert.Equal(t, common.ChannelStateClosed, closed.State)
	assert.Equal(t, test_mock.ChannelID, closed.Counterparty.ChannelID)
	require.Len(t, env.verifier.NonMemberships, 1)
	assert.Equal(t, common.ChannelStateOpen, env.channelState(t))
}

func TestTimeoutOnCloseFromClosedEnd(t *testing.T) {
	env := newTestEnv(common.OrderOrdered)
	p := env.send(t, outgoing("hello"))
	end, err := channel.Get(env.ctx, test_mock.PortID, test_mock.ChannelID)
	require.NoError(t, err)
	end.State = common.ChannelStateClosed
	test_mock.SetChannel(env.ctx, test_mock.PortID, test_mock.ChannelID, end)

	// A regular timeout needs an open channel
	assert.ErrorIs(t, env.timeout(p, testTimeout, 0), common.ErrInvalidState)

	msg := packet.MsgTimeoutOnClose{
		Packet:          p,
		ProofUnreceived: testProof,
		ProofClose:      testProof,
		ProofHeight:     testClientHeight,
	}
	require.NoError(t, env.handler.TimeoutOnClose(env.ctx, msg))
	_, found, err := env.state.GetPacketCommitment(test_mock.PortID, test_mock.ChannelID, 1)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, common.ChannelStateClosed, env.channelState(t))
	require.Len(t, env.app.TimedOut, 1)
	_, _, ack := env.counters(t)
	assert.Equal(t, uint64(1), ack)
	for _, event := range env.ctx.EventManager().Events() {
		assert.NotEqual(t, common.EventTypeChannelClosed, event.Type)
	}

	assert.ErrorIs(t, env.handler.TimeoutOnClose(env.ctx, msg), common.ErrNotFound)
}

func TestDelayPeriod(t *testing.T) {
	ctx := test_mock.NewContext(testHeight, testTime)
	test_mock.SetClient(ctx, test_mock.ClientID, testClientHeight)
	test_mock.SetOpenConnection(ctx, time.Hour)
	test_mock.SetOpenChannel(ctx, common.OrderUnordered)
	env := newTestEnvWithContext(ctx)

	// The root was trusted just now
	env.verifier.ProcessedTimeVal = uint64(testTime.UnixNano())
	assert.ErrorIs(t, env.recv(incoming(1)), common.ErrDelayPeriodNotPassed)

	env.verifier.ProcessedTimeVal = uint64(testTime.Add(-time.Hour).UnixNano())
	require.NoError(t, env.recv(incoming(1)))
}

func TestAckNeverExceedsSend(t *testing.T) {
	env := newTestEnv(common.OrderUnordered)
	check := func() {
		send, _, ack := env.counters(t)
		assert.LessOrEqual(t, ack, send)
	}
	var sent []common.Packet
	for _, data := range []string{"a", "b", "c", "d"} {
		sent = append(sent, env.send(t, outgoing(data)))
		check()
	}
	require.NoError(t, env.acknowledge(sent[2]))
	check()
	require.NoError(t, env.timeout(sent[0], testTimeout, 0))
	check()
	assert.Error(t, env.acknowledge(sent[2]))
	assert.Error(t, env.timeout(sent[0], testTimeout, 0))
	require.NoError(t, env.acknowledge(sent[1]))
	require.NoError(t, env.acknowledge(sent[3]))
	check()
	send, _, ack := env.counters(t)
	assert.Equal(t, send, ack)
}

func TestMissingVerifier(t *testing.T) {
	ctx := test_mock.NewContext(testHeight, testTime)
	test_mock.SetupOpenChannel(ctx, common.OrderUnordered, testClientHeight)
	handler := packet.New(packet.NewConfig())

	withTimestamp := outgoing("hello")
	withTimestamp.TimeoutTimestamp = uint64(testTime.Add(time.Hour).UnixNano())
	_, err := handler.SendPacket(ctx, withTimestamp)
	assert.ErrorIs(t, err, common.ErrProofVerificationFailed)

	sequence, err := handler.SendPacket(ctx, outgoing("hello"))
	require.NoError(t, err)
	p := outgoing("hello")
	p.Sequence = sequence
	err = handler.TimeoutPacket(ctx, packet.MsgTimeout{
		Packet:          p,
		ProofUnreceived: testProof,
		ProofHeight:     testTimeout,
	})
	assert.ErrorIs(t, err, common.ErrProofVerificationFailed)
	_, found, err := state.New(ctx.Store()).GetPacketCommitment(
		test_mock.PortID,
		test_mock.ChannelID,
		sequence,
	)
	require.NoError(t, err)
	assert.True(t, found)
}

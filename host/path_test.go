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

package host_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blinklabs-io/goibc/host"
)

func TestPaths(t *testing.T) {
	port := host.PortID("port-1")
	channel := host.ChannelID("channel-0")
	testDefs := []struct {
		name     string
		path     string
		expected string
	}{
		{"channel counter", host.ChannelCounterPath(), "ibc_channel_counter"},
		{"connection counter", host.ConnectionCounterPath(), "ibc_connection_counter"},
		{"client counter", host.ClientCounterPath(), "ibc_client_counter"},
		{
			"channel end",
			host.ChannelPath(port, channel),
			"channelEnds/ports/port-1/channels/channel-0",
		},
		{
			"send sequence",
			host.NextSequenceSendPath(port, channel),
			"nextSequenceSend/ports/port-1/channels/channel-0",
		},
		{
			"recv sequence",
			host.NextSequenceRecvPath(port, channel),
			"nextSequenceRecv/ports/port-1/channels/channel-0",
		},
		{
			"ack sequence",
			host.NextSequenceAckPath(port, channel),
			"nextSequenceAck/ports/port-1/channels/channel-0",
		},
		{
			"packet commitment",
			host.PacketCommitmentPath(port, channel, 1),
			"commitments/ports/port-1/channels/channel-0/sequences/1",
		},
		{
			"packet receipt",
			host.PacketReceiptPath(port, channel, 18446744073709551615),
			"receipts/ports/port-1/channels/channel-0/sequences/18446744073709551615",
		},
		{
			"packet ack",
			host.PacketAcknowledgementPath(port, channel, 42),
			"acks/ports/port-1/channels/channel-0/sequences/42",
		},
		{
			"connection end",
			host.ConnectionPath("connection-3"),
			"connections/connection-3",
		},
		{
			"client state",
			host.ClientStatePath("09-trusted-0"),
			"clients/09-trusted-0/clientState",
		},
		{
			"consensus state",
			host.ConsensusStatePath("09-trusted-0", 1, 100),
			"clients/09-trusted-0/consensusStates/1-100",
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			assert.Equal(t, testDef.expected, testDef.path)
		})
	}
}

func TestFormatAndParseIDs(t *testing.T) {
	assert.Equal(t, host.ConnectionID("connection-0"), host.FormatConnectionID(0))
	assert.Equal(t, host.ChannelID("channel-12"), host.FormatChannelID(12))
	assert.Equal(t, host.ClientID("09-trusted-7"), host.FormatClientID("09-trusted", 7))

	seq, err := host.ParseChannelID("channel-12")
	assert.NoError(t, err)
	assert.Equal(t, uint64(12), seq)

	seq, err = host.ParseConnectionID("connection-1")
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	_, err = host.ParseChannelID("connection-1")
	assert.ErrorIs(t, err, host.ErrInvalidID)
	_, err = host.ParseChannelID("channel-x")
	assert.ErrorIs(t, err, host.ErrInvalidID)
}

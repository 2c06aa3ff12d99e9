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

package commitment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/goibc/commitment"
)

type testPacket struct {
	revisionNumber   uint64
	revisionHeight   uint64
	timeoutTimestamp uint64
	data             []byte
}

func (p testPacket) GetTimeoutRevisionNumber() uint64 { return p.revisionNumber }
func (p testPacket) GetTimeoutRevisionHeight() uint64 { return p.revisionHeight }
func (p testPacket) GetTimeoutTimestamp() uint64      { return p.timeoutTimestamp }
func (p testPacket) GetData() []byte                  { return p.data }

func TestCommitPacket(t *testing.T) {
	testDefs := []struct {
		name     string
		packet   testPacket
		expected string
	}{
		{
			name: "height and timestamp",
			packet: testPacket{
				revisionNumber:   1,
				revisionHeight:   100,
				timeoutTimestamp: 1000,
				data:             []byte("hello"),
			},
			expected: "1aed3bbc49adbc9ccfa26860599619da1b20e850298801e09b5452fb57ab037c",
		},
		{
			name: "height only with empty data",
			packet: testPacket{
				revisionHeight: 10,
			},
			expected: "d7a325df9e691162602b7cc67f80d5f5a3bc49cf0de9cbb768de60e528af1c2d",
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			digest := commitment.CommitPacket(testDef.packet)
			assert.Equal(t, testDef.expected, digest.String())
			// Deterministic
			assert.Equal(t, digest, commitment.CommitPacket(testDef.packet))
		})
	}
}

func TestCommitPacketDataSensitivity(t *testing.T) {
	a := testPacket{revisionHeight: 10, data: []byte("a")}
	b := testPacket{revisionHeight: 10, data: []byte("b")}
	assert.NotEqual(t, commitment.CommitPacket(a), commitment.CommitPacket(b))
	c := testPacket{revisionHeight: 11, data: []byte("a")}
	assert.NotEqual(t, commitment.CommitPacket(a), commitment.CommitPacket(c))
}

func TestCommitAcknowledgement(t *testing.T) {
	digest := commitment.CommitAcknowledgement([]byte(`{"result":"AQ=="}`))
	assert.Equal(
		t,
		"08f7557ed51826fe18d84512bf24ec75001edbaf2123a477df72a0a9f3640a7c",
		digest.String(),
	)
	assert.True(t, digest.Equal(digest.Bytes()))
}

func TestNewDigest(t *testing.T) {
	digest := commitment.CommitAcknowledgement([]byte("ack"))
	parsed, ok := commitment.NewDigest(digest.Bytes())
	require.True(t, ok)
	assert.Equal(t, digest, parsed)
	_, ok = commitment.NewDigest([]byte{})
	assert.False(t, ok)
	_, ok = commitment.NewDigest(make([]byte, 31))
	assert.False(t, ok)
}

func TestPrefixApply(t *testing.T) {
	prefix := commitment.NewPrefix("ibc/")
	assert.Equal(
		t,
		[]byte("ibc/connections/connection-0"),
		prefix.Apply("connections/connection-0"),
	)
	assert.Equal(t, []byte("acks"), commitment.Prefix(nil).Apply("acks"))
	assert.True(t, commitment.Prefix(nil).Empty())
	assert.True(t, prefix.Equal(commitment.Prefix("ibc/")))
}

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

package client_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/goibc/client"
	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
	test_mock "github.com/blinklabs-io/goibc/internal/test/mock"
	"github.com/blinklabs-io/goibc/state"
)

var testTime = time.Unix(1700000000, 0)

func newTestContext() *common.Context {
	return common.NewContext(
		test_mock.NewStore().CacheWrap(),
		common.NewHeight(0, 10),
		testTime,
		nil,
	)
}

func createTestClient(t *testing.T, ctx *common.Context) host.ClientID {
	t.Helper()
	clientID, err := client.CreateClient(ctx, client.MsgCreateClient{
		ClientType: client.TrustedClientType,
		ChainID:    "chain-b",
		Height:     common.NewHeight(0, 5),
		Root:       commitment.Root{0xaa},
		Timestamp:  1000,
	})
	require.NoError(t, err)
	return clientID
}

func TestCreateClient(t *testing.T) {
	ctx := newTestContext()
	clientID := createTestClient(t, ctx)
	assert.Equal(t, host.ClientID("09-trusted-0"), clientID)

	height, err := client.LatestHeight(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, common.NewHeight(0, 5), height)

	cs, found, err := state.New(ctx.Store()).GetConsensusState(clientID, common.NewHeight(0, 5))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, commitment.Root{0xaa}, cs.Root)
	assert.Equal(t, uint64(testTime.UnixNano()), cs.ProcessedTime)
	assert.Equal(t, common.NewHeight(0, 10), cs.ProcessedHeight)

	events := ctx.EventManager().Events()
	require.Len(t, events, 1)
	assert.Equal(t, common.EventTypeCreateClient, events[0].Type)

	second := createTestClient(t, ctx)
	assert.Equal(t, host.ClientID("09-trusted-1"), second)
}

func TestUpdateClient(t *testing.T) {
	ctx := newTestContext()
	clientID := createTestClient(t, ctx)

	update := client.MsgUpdateClient{
		ClientID:  clientID,
		Height:    common.NewHeight(0, 8),
		Root:      commitment.Root{0xbb},
		Timestamp: 2000,
	}
	require.NoError(t, client.UpdateClient(ctx, update))
	height, err := client.LatestHeight(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, common.NewHeight(0, 8), height)

	// An older height does not move the latest height back
	require.NoError(t, client.UpdateClient(ctx, client.MsgUpdateClient{
		ClientID:  clientID,
		Height:    common.NewHeight(0, 6),
		Root:      commitment.Root{0xcc},
		Timestamp: 1500,
	}))
	height, err = client.LatestHeight(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, common.NewHeight(0, 8), height)

	// Same root again is accepted
	require.NoError(t, client.UpdateClient(ctx, update))

	err = client.UpdateClient(ctx, client.MsgUpdateClient{
		ClientID:  "09-trusted-9",
		Height:    common.NewHeight(0, 8),
		Root:      commitment.Root{0xbb},
		Timestamp: 2000,
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateClientConflictRejected(t *testing.T) {
	ctx := newTestContext()
	clientID := createTestClient(t, ctx)
	verifier := client.NewVerifier()

	before, err := verifier.TrustedRoot(ctx, clientID, common.NewHeight(0, 5))
	require.NoError(t, err)

	events := len(ctx.EventManager().Events())
	err = client.UpdateClient(ctx, client.MsgUpdateClient{
		ClientID:  clientID,
		Height:    common.NewHeight(0, 5),
		Root:      commitment.Root{0xff},
		Timestamp: 1000,
	})
	assert.ErrorIs(t, err, common.ErrInvalidMessage)
	assert.Len(t, ctx.EventManager().Events(), events)

	// The stored root is untouched and the client keeps working
	after, err := verifier.TrustedRoot(ctx, clientID, common.NewHeight(0, 5))
	require.NoError(t, err)
	assert.Equal(t, before, after)
	require.NoError(t, client.UpdateClient(ctx, client.MsgUpdateClient{
		ClientID:  clientID,
		Height:    common.NewHeight(0, 6),
		Root:      commitment.Root{0x01},
		Timestamp: 2000,
	}))
	height, err := client.LatestHeight(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, common.NewHeight(0, 6), height)
}

func TestTrustedRoot(t *testing.T) {
	ctx := newTestContext()
	clientID := createTestClient(t, ctx)
	verifier := client.NewVerifier()

	cs, err := verifier.TrustedRoot(ctx, clientID, common.NewHeight(0, 5))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), cs.Timestamp)

	_, err = verifier.TrustedRoot(ctx, clientID, common.NewHeight(0, 6))
	assert.ErrorIs(t, err, common.ErrInvalidHeight)

	_, err = verifier.TrustedRoot(ctx, clientID, common.NewHeight(0, 4))
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = verifier.TrustedRoot(ctx, "09-trusted-7", common.NewHeight(0, 4))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMsgValidateBasic(t *testing.T) {
	valid := client.MsgCreateClient{
		ClientType: client.TrustedClientType,
		ChainID:    "chain-b",
		Height:     common.NewHeight(0, 1),
		Root:       commitment.Root{1},
	}
	require.NoError(t, valid.ValidateBasic())

	noType := valid
	noType.ClientType = ""
	assert.ErrorIs(t, noType.ValidateBasic(), common.ErrInvalidMessage)

	zeroHeight := valid
	zeroHeight.Height = common.Height{}
	assert.ErrorIs(t, zeroHeight.ValidateBasic(), common.ErrInvalidHeight)

	noRoot := client.MsgUpdateClient{
		ClientID: "09-trusted-0",
		Height:   common.NewHeight(0, 1),
	}
	assert.ErrorIs(t, noRoot.ValidateBasic(), common.ErrInvalidMessage)
}

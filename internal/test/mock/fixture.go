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

package test_mock

import (
	"fmt"
	"time"

	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/state"
	"github.com/blinklabs-io/goibc/store"
)

// Identifiers used by the fixtures
const (
	ClientID                 = host.ClientID("09-trusted-0")
	CounterpartyClientID     = host.ClientID("09-trusted-7")
	ConnectionID             = host.ConnectionID("connection-0")
	CounterpartyConnectionID = host.ConnectionID("connection-5")
	PortID                   = host.PortID("port-1")
	ChannelID                = host.ChannelID("channel-0")
	CounterpartyPortID       = host.PortID("port-2")
	CounterpartyChannelID    = host.ChannelID("channel-9")
)

// CounterpartyPrefix is the commitment prefix of the counterparty chain
var CounterpartyPrefix = commitment.NewPrefix("ibc/")

// NewStore returns an in-memory store. It panics if the store cannot be
// created
func NewStore() *store.Store {
	s, err := store.NewStore()
	if err != nil {
		panic(fmt.Sprintf("error creating store: %s", err))
	}
	return s
}

// NewContext returns an action context over a fresh store
func NewContext(height common.Height, blockTime time.Time) *common.Context {
	return common.NewContext(NewStore().CacheWrap(), height, blockTime, nil)
}

// SetClient stores a client trusting the counterparty up to latestHeight.
// Fixtures panic on failure, since they only ever run against a fresh store
func SetClient(ctx *common.Context, clientID host.ClientID, latestHeight common.Height) {
	err := state.New(ctx.Store()).SetClientState(clientID, common.ClientState{
		ClientType:   "09-trusted",
		ChainID:      "counterparty",
		LatestHeight: latestHeight,
	})
	if err != nil {
		panic(fmt.Sprintf("set client: %s", err))
	}
}

// SetOpenConnection stores an OPEN connection to the counterparty using the
// default version
func SetOpenConnection(ctx *common.Context, delayPeriod time.Duration) common.ConnectionEnd {
	end := common.NewConnectionEnd(
		common.ConnectionStateOpen,
		ClientID,
		common.ConnectionCounterparty{
			ClientID:     CounterpartyClientID,
			ConnectionID: CounterpartyConnectionID,
			Prefix:       CounterpartyPrefix,
		},
		[]common.Version{common.DefaultVersion},
		delayPeriod,
	)
	SetConnection(ctx, ConnectionID, end)
	return end
}

func SetConnection(ctx *common.Context, connectionID host.ConnectionID, end common.ConnectionEnd) {
	if err := state.New(ctx.Store()).SetConnection(connectionID, end); err != nil {
		panic(fmt.Sprintf("set connection: %s", err))
	}
}

// SetOpenChannel stores an OPEN channel over the fixture connection
func SetOpenChannel(ctx *common.Context, ordering common.Order) common.ChannelEnd {
	end := common.NewChannelEnd(
		common.ChannelStateOpen,
		ordering,
		common.ChannelCounterparty{
			PortID:    CounterpartyPortID,
			ChannelID: CounterpartyChannelID,
		},
		[]host.ConnectionID{ConnectionID},
		"ics20-1",
	)
	SetChannel(ctx, PortID, ChannelID, end)
	return end
}

func SetChannel(
	ctx *common.Context,
	portID host.PortID,
	channelID host.ChannelID,
	end common.ChannelEnd,
) {
	if err := state.New(ctx.Store()).SetChannel(portID, channelID, end); err != nil {
		panic(fmt.Sprintf("set channel: %s", err))
	}
}

// SetupOpenChannel stores a client, an OPEN connection and an OPEN channel
func SetupOpenChannel(
	ctx *common.Context,
	ordering common.Order,
	latestHeight common.Height,
) common.ChannelEnd {
	SetClient(ctx, ClientID, latestHeight)
	SetOpenConnection(ctx, 0)
	return SetOpenChannel(ctx, ordering)
}

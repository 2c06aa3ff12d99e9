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

// Package ibc implements the core of the Inter-Blockchain Communication
// protocol for a single chain.
//
// A Chain owns the chain's IBC store, the light client registry, the
// connection and channel handshakes and the packet lifecycle. Messages are
// delivered inside blocks: each message runs against its own cache of the
// store and either commits all of its writes or none of them. Committing a
// block produces the state root that a counterparty chain's light client
// trusts, and QueryProof produces the proofs that counterparty checks.
//
// This package is the main entry point into this library. The other
// packages can be used outside of this one, but it's not a primary design
// goal.
package ibc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/channel"
	"github.com/blinklabs-io/goibc/client"
	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/connection"
	"github.com/blinklabs-io/goibc/packet"
	"github.com/blinklabs-io/goibc/store"
)

const DefaultChainID = "goibc-0"

var (
	ErrBlockInProgress = errors.New("a block is already in progress")
	ErrNoBlock         = errors.New("no block in progress")
)

// The Chain type is the IBC host of one chain
type Chain struct {
	mu         sync.Mutex
	chainID    string
	revision   uint64
	logger     *slog.Logger
	store      *store.Store
	prefix     commitment.Prefix
	verifier   common.ProofVerifier
	router     common.Router
	versions   []common.Version
	height     common.Height
	blockTime  time.Time
	inBlock    bool
	lastHeader Header
	headers    map[uint64]Header
	// Handlers
	connections *connection.Handler
	channels    *channel.Handler
	packets     *packet.Handler
}

// NewChain returns a new Chain object with the specified options
func NewChain(options ...ChainOptionFunc) (*Chain, error) {
	c := &Chain{
		chainID: DefaultChainID,
		prefix:  commitment.NewPrefix(commitment.DefaultPrefix),
		headers: make(map[uint64]Header),
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if c.chainID == "" {
		return nil, errors.New("chain ID cannot be empty")
	}
	if c.prefix.Empty() {
		return nil, errors.New("commitment prefix cannot be empty")
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.logger = c.logger.With("component", "ibc", "chain_id", c.chainID)
	if c.store == nil {
		s, err := store.NewStore()
		if err != nil {
			return nil, err
		}
		c.store = s
	}
	if c.verifier == nil {
		c.verifier = client.NewVerifier()
	}
	if c.router == nil {
		c.router = NewRouter()
	}
	connOpts := []connection.ConnectionOptionFunc{
		connection.WithCommitmentPrefix(c.prefix),
		connection.WithProofVerifier(c.verifier),
	}
	if len(c.versions) > 0 {
		connOpts = append(connOpts, connection.WithSupportedVersions(c.versions))
	}
	c.connections = connection.New(connection.NewConfig(connOpts...))
	c.channels = channel.New(
		channel.NewConfig(
			channel.WithProofVerifier(c.verifier),
			channel.WithRouter(c.router),
		),
	)
	c.packets = packet.New(
		packet.NewConfig(
			packet.WithProofVerifier(c.verifier),
			packet.WithRouter(c.router),
		),
	)
	c.height = common.NewHeight(c.revision, uint64(c.store.LastCommitID().Version))
	return c, nil
}

// New is an alias to NewChain
func New(options ...ChainOptionFunc) (*Chain, error) {
	return NewChain(options...)
}

// ChainID returns the chain identifier
func (c *Chain) ChainID() string {
	return c.chainID
}

// Prefix returns the commitment prefix under which all IBC state is stored
func (c *Chain) Prefix() commitment.Prefix {
	return c.prefix
}

// Router returns the port router used to reach applications
func (c *Chain) Router() common.Router {
	return c.router
}

// Height returns the height of the block in progress, or of the last
// committed block between blocks
func (c *Chain) Height() common.Height {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// LastHeader returns the header of the last committed block
func (c *Chain) LastHeader() Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastHeader
}

// Header returns the committed header at height
func (c *Chain) Header(height common.Height) (Header, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if height.RevisionNumber != c.revision {
		return Header{}, false
	}
	h, ok := c.headers[height.RevisionHeight]
	return h, ok
}

// BeginBlock starts the next block. The block time may not go backwards
func (c *Chain) BeginBlock(blockTime time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inBlock {
		return ErrBlockInProgress
	}
	if blockTime.Before(c.blockTime) {
		return fmt.Errorf(
			"block time %s is before previous block time %s",
			blockTime.UTC(),
			c.blockTime.UTC(),
		)
	}
	c.height = common.NewHeight(c.revision, uint64(c.store.LastCommitID().Version)+1)
	c.blockTime = blockTime
	c.inBlock = true
	c.logger.Debug(
		"began block",
		"height", c.height.String(),
		"time", blockTime.UTC(),
	)
	return nil
}

// Commit ends the block in progress. It flushes the block's writes, computes
// the new state root and returns the block header
func (c *Chain) Commit() (Header, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inBlock {
		return Header{}, ErrNoBlock
	}
	commitID, err := c.store.Commit()
	if err != nil {
		return Header{}, fmt.Errorf("commit store: %w", err)
	}
	if uint64(commitID.Version) != c.height.RevisionHeight {
		return Header{}, fmt.Errorf(
			"store version %d does not match block height %s",
			commitID.Version,
			c.height,
		)
	}
	header := Header{
		ChainID: c.chainID,
		Height:  c.height,
		Time:    uint64(c.blockTime.UnixNano()),
		AppHash: commitment.Root(commitID.Hash),
	}
	if !c.lastHeader.Height.IsZero() {
		lastHash, err := c.lastHeader.Hash()
		if err != nil {
			return Header{}, err
		}
		header.LastHeaderHash = lastHash
	}
	c.lastHeader = header
	c.headers[c.height.RevisionHeight] = header
	c.inBlock = false
	c.logger.Info(
		"committed block",
		"height", c.height.String(),
		"app_hash", header.AppHash.String(),
	)
	return header, nil
}

// QueryProof returns the value committed under path at height along with
// the encoded ICS-23 proof of it. An absent path returns a nil value and a
// proof of absence
func (c *Chain) QueryProof(path string, height common.Height) ([]byte, []byte, error) {
	if height.RevisionNumber != c.revision {
		return nil, nil, errorsmod.Wrapf(
			common.ErrInvalidHeight,
			"height %s is not in revision %d",
			height,
			c.revision,
		)
	}
	value, proof, err := c.store.QueryProof(
		c.prefix.Apply(path),
		int64(height.RevisionHeight),
	)
	if err != nil {
		return nil, nil, err
	}
	proofBytes, err := client.EncodeProof(proof)
	if err != nil {
		return nil, nil, err
	}
	return value, proofBytes, nil
}

// View runs fn against the current block state. Anything fn writes is
// discarded
func (c *Chain) View(fn func(ctx *common.Context) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	txn := c.store.CacheWrap()
	return fn(c.newContext(txn))
}

func (c *Chain) newContext(txn *store.Txn) *common.Context {
	return common.NewContext(
		txn.Prefixed(c.prefix),
		c.height,
		c.blockTime,
		c.logger,
	)
}

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

// Package store provides the versioned key/value state of one chain.
//
// Writes go through two cache layers: every action gets its own Txn which
// is written into the block layer only if the action succeeds, and the
// block layer is flushed by Commit. Flushed writes land in the state
// database and in an IAVL tree. The tree's root is what a counterparty light
// client trusts, and its ICS-23 proofs back cross-chain verification.
package store

import (
	"errors"
	"fmt"
	"sync"

	"cosmossdk.io/log"
	"cosmossdk.io/store/cachekv"
	"cosmossdk.io/store/dbadapter"
	"cosmossdk.io/store/iavl"
	"cosmossdk.io/store/metrics"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"
	ics23 "github.com/cosmos/ics23/go"
)

const (
	DefaultKeepRecent = 100
	DefaultCacheSize  = 10000
)

var (
	ErrVersionNotFound = errors.New("version not available")
	ErrEmptyKey        = errors.New("key cannot be empty")
)

var (
	stateDBPrefix = []byte("s/")
	treeDBPrefix  = []byte("t/")
)

// ProofSpec is the ICS-23 layout of proofs produced by the store
var ProofSpec = ics23.IavlSpec

// KVStore is the subset of store operations the IBC state machine uses
type KVStore interface {
	Get(key []byte) []byte
	Has(key []byte) bool
	Set(key, value []byte)
	Delete(key []byte)
}

// CommitID identifies a committed version of the store
type CommitID struct {
	Version int64
	Hash    []byte
}

func (c CommitID) IsZero() bool {
	return c.Version == 0 && len(c.Hash) == 0
}

func (c CommitID) String() string {
	return fmt.Sprintf("CommitID{%d:%X}", c.Version, c.Hash)
}

// Store is the committed, versioned store of a single chain
type Store struct {
	mu         sync.Mutex
	db         dbm.DB
	logger     log.Logger
	state      *committer
	tree       *iavl.Store
	working    *cachekv.Store
	lastCommit CommitID
	keepRecent int64
	cacheSize  int
}

// StoreOptionFunc is a type that represents functions that modify the Store config
type StoreOptionFunc func(*Store)

// WithDB specifies the backing database. An in-memory database is used by default
func WithDB(db dbm.DB) StoreOptionFunc {
	return func(s *Store) {
		s.db = db
	}
}

// WithKeepRecent specifies how many committed versions remain available for
// proofs. Zero keeps every version
func WithKeepRecent(keepRecent int64) StoreOptionFunc {
	return func(s *Store) {
		s.keepRecent = keepRecent
	}
}

// WithCacheSize specifies the IAVL node cache size
func WithCacheSize(cacheSize int) StoreOptionFunc {
	return func(s *Store) {
		s.cacheSize = cacheSize
	}
}

// WithLogger specifies the logger handed to the IAVL tree
func WithLogger(logger log.Logger) StoreOptionFunc {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore returns a new Store with the provided options. An existing
// database is loaded at its latest version
func NewStore(options ...StoreOptionFunc) (*Store, error) {
	s := &Store{
		keepRecent: DefaultKeepRecent,
		cacheSize:  DefaultCacheSize,
	}
	for _, option := range options {
		option(s)
	}
	if s.db == nil {
		s.db = dbm.NewMemDB()
	}
	if s.logger == nil {
		s.logger = log.NewNopLogger()
	}
	// Pruning runs inline in Commit so that no goroutine outlives the store
	tree, err := iavl.LoadStoreWithInitialVersion(
		dbm.NewPrefixDB(s.db, treeDBPrefix),
		s.logger,
		storetypes.NewKVStoreKey("ibc"),
		storetypes.CommitID{},
		0,
		s.cacheSize,
		false,
		metrics.NewNoOpMetrics(),
	)
	if err != nil {
		return nil, fmt.Errorf("load tree: %w", err)
	}
	iavlStore, ok := tree.(*iavl.Store)
	if !ok {
		return nil, fmt.Errorf("unexpected tree store type %T", tree)
	}
	s.tree = iavlStore
	last := iavlStore.LastCommitID()
	s.lastCommit = CommitID{Version: last.Version}
	if last.Version > 0 {
		s.lastCommit.Hash = last.Hash
	}
	s.state = &committer{
		Store: dbadapter.Store{DB: dbm.NewPrefixDB(s.db, stateDBPrefix)},
		tree:  iavlStore,
	}
	s.working = cachekv.NewStore(s.state)
	return s, nil
}

// CacheWrap returns a transaction over the current block state. Its writes
// are only visible to others after Write is called
func (s *Store) CacheWrap() *Txn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Txn{
		store: s,
		cache: cachekv.NewStore(s.working),
	}
}

// Get returns the value of a key in the current (uncommitted) block state
func (s *Store) Get(key []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Get(key)
}

// Has reports whether a key is present in the current block state
func (s *Store) Has(key []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Has(key)
}

// Commit flushes the block state, commits the tree and returns the new
// version and root. Versions older than the keep-recent window are pruned
func (s *Store) Commit() (CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.working.Write()
	id := s.tree.Commit()
	if s.keepRecent > 0 && id.Version > s.keepRecent {
		if err := s.tree.DeleteVersionsTo(id.Version - s.keepRecent); err != nil {
			return CommitID{}, fmt.Errorf("prune versions: %w", err)
		}
	}
	s.lastCommit = CommitID{
		Version: id.Version,
		Hash:    id.Hash,
	}
	s.working = cachekv.NewStore(s.state)
	return s.lastCommit, nil
}

// LastCommitID returns the most recent commit
func (s *Store) LastCommitID() CommitID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCommit
}

// QueryProof returns the committed value of key at the given version along
// with an ICS-23 proof against that version's root. An absent key yields a
// nil value and a non-existence proof
func (s *Store) QueryProof(
	key []byte,
	version int64,
) ([]byte, *ics23.CommitmentProof, error) {
	if len(key) == 0 {
		return nil, nil, ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if version <= 0 || !s.tree.VersionExists(version) {
		return nil, nil, fmt.Errorf("%w: %d", ErrVersionNotFound, version)
	}
	res, err := s.tree.Query(&storetypes.RequestQuery{
		Path:   "/key",
		Data:   key,
		Height: version,
		Prove:  true,
	})
	if err != nil {
		return nil, nil, err
	}
	if res.ProofOps == nil || len(res.ProofOps.Ops) != 1 {
		return nil, nil, fmt.Errorf("no proof for key %X at version %d", key, version)
	}
	proof := &ics23.CommitmentProof{}
	if err := proof.Unmarshal(res.ProofOps.Ops[0].Data); err != nil {
		return nil, nil, fmt.Errorf("decode proof: %w", err)
	}
	if len(res.Value) == 0 {
		return nil, proof, nil
	}
	return res.Value, proof, nil
}

// committer is the layer block writes are flushed into. The state database
// keeps every key, including those holding an empty value, while the tree
// only holds non-empty values so that an emptied key can be proven absent
type committer struct {
	dbadapter.Store
	tree storetypes.KVStore
}

func (c *committer) Set(key, value []byte) {
	c.Store.Set(key, value)
	if len(value) == 0 {
		c.tree.Delete(key)
		return
	}
	c.tree.Set(key, value)
}

func (c *committer) Delete(key []byte) {
	c.Store.Delete(key)
	c.tree.Delete(key)
}

// Txn is the write set of a single action
type Txn struct {
	store *Store
	cache *cachekv.Store
}

func (t *Txn) Get(key []byte) []byte {
	return t.cache.Get(key)
}

func (t *Txn) Has(key []byte) bool {
	return t.cache.Has(key)
}

func (t *Txn) Set(key, value []byte) {
	t.cache.Set(key, value)
}

func (t *Txn) Delete(key []byte) {
	t.cache.Delete(key)
}

// Prefixed returns a view of the transaction with every key under pfx
func (t *Txn) Prefixed(pfx []byte) KVStore {
	if len(pfx) == 0 {
		return t
	}
	return prefix.NewStore(t.cache, pfx)
}

// Write makes the transaction's writes visible in the block state. A Txn
// that is never written is simply discarded
func (t *Txn) Write() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.cache.Write()
}

var _ KVStore = (*Txn)(nil)

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

package ibc

import (
	"log/slog"

	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/store"
)

// ChainOptionFunc is a type that represents functions that modify the Chain config
type ChainOptionFunc func(*Chain)

// WithLogger specifies the logger. Logging is discarded by default
func WithLogger(logger *slog.Logger) ChainOptionFunc {
	return func(c *Chain) {
		c.logger = logger
	}
}

// WithChainID specifies the chain identifier reported in block headers
func WithChainID(chainID string) ChainOptionFunc {
	return func(c *Chain) {
		c.chainID = chainID
	}
}

// WithRevisionNumber specifies the revision number of every height this
// chain produces
func WithRevisionNumber(revision uint64) ChainOptionFunc {
	return func(c *Chain) {
		c.revision = revision
	}
}

// WithCommitmentPrefix specifies the store prefix for all IBC state. The
// default is "ibc/"
func WithCommitmentPrefix(prefix commitment.Prefix) ChainOptionFunc {
	return func(c *Chain) {
		c.prefix = prefix
	}
}

// WithProofVerifier specifies how counterparty proofs are checked. The
// default verifies ICS-23 proofs against the roots held by the chain's own
// light clients
func WithProofVerifier(verifier common.ProofVerifier) ChainOptionFunc {
	return func(c *Chain) {
		c.verifier = verifier
	}
}

// WithStore specifies an existing store to use. If none is provided, a new
// in-memory store is created
func WithStore(s *store.Store) ChainOptionFunc {
	return func(c *Chain) {
		c.store = s
	}
}

// WithRouter specifies the port router. If none is provided, an empty
// Router is created and can be reached with Chain.Router()
func WithRouter(router common.Router) ChainOptionFunc {
	return func(c *Chain) {
		c.router = router
	}
}

// WithSupportedVersions specifies the connection versions this chain
// offers and accepts, in order of preference
func WithSupportedVersions(versions []common.Version) ChainOptionFunc {
	return func(c *Chain) {
		c.versions = versions
	}
}

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

// Package state is the typed read/write layer over the IBC store: sequence
// and identifier counters, connection and channel ends, packet commitments,
// receipts and acknowledgements.
package state

import (
	"fmt"

	"github.com/blinklabs-io/goibc/cbor"
	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/store"
)

// receiptValue marks a delivered packet
var receiptValue = []byte("1")

// State wraps an action-scoped store
type State struct {
	kv store.KVStore
}

func New(kv store.KVStore) *State {
	return &State{kv: kv}
}

// Store returns the underlying store
func (s *State) Store() store.KVStore {
	return s.kv
}

// getUint64 returns a counter, with an absent key meaning zero
func (s *State) getUint64(path string) (uint64, error) {
	data := s.kv.Get([]byte(path))
	if data == nil {
		return 0, nil
	}
	var ret uint64
	if err := cbor.DecodeExact(data, &ret); err != nil {
		return 0, fmt.Errorf("decode counter at %s: %w", path, err)
	}
	return ret, nil
}

func (s *State) setUint64(path string, value uint64) error {
	data, err := cbor.Encode(value)
	if err != nil {
		return fmt.Errorf("encode counter at %s: %w", path, err)
	}
	s.kv.Set([]byte(path), data)
	return nil
}

// getDigest is the only place where a stored empty value is turned into an
// absent commitment. Commitments are cleared by overwriting them with the
// empty byte string, never by deleting the key
func (s *State) getDigest(path string) (commitment.Digest, bool, error) {
	data := s.kv.Get([]byte(path))
	if len(data) == 0 {
		return commitment.Digest{}, false, nil
	}
	digest, ok := commitment.NewDigest(data)
	if !ok {
		return commitment.Digest{}, false, fmt.Errorf(
			"invalid commitment length %d at %s",
			len(data),
			path,
		)
	}
	return digest, true, nil
}

func (s *State) setDigest(path string, digest commitment.Digest) {
	s.kv.Set([]byte(path), digest.Bytes())
}

func (s *State) clearDigest(path string) {
	s.kv.Set([]byte(path), []byte{})
}

func (s *State) getRaw(path string) []byte {
	return s.kv.Get([]byte(path))
}

func (s *State) setRaw(path string, value []byte) {
	s.kv.Set([]byte(path), value)
}

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

package commitment

import (
	"bytes"
	"encoding/hex"
)

// DefaultPrefix is the store prefix used when none is configured
const DefaultPrefix = "ibc/"

// Prefix is the key prefix under which a chain stores its IBC state. A
// counterparty records it in its connection end and prepends it to every
// path it asks a proof for
type Prefix []byte

// NewPrefix returns a Prefix from a string
func NewPrefix(prefix string) Prefix {
	return Prefix(prefix)
}

// Apply returns the full store key for a path under this prefix
func (p Prefix) Apply(path string) []byte {
	key := make([]byte, 0, len(p)+len(path))
	key = append(key, p...)
	key = append(key, path...)
	return key
}

func (p Prefix) Empty() bool {
	return len(p) == 0
}

func (p Prefix) Equal(other Prefix) bool {
	return bytes.Equal(p, other)
}

func (p Prefix) String() string {
	return string(p)
}

// Root is a committed state root of a chain, as trusted by a light client
type Root []byte

func (r Root) Empty() bool {
	return len(r) == 0
}

func (r Root) Equal(other Root) bool {
	return bytes.Equal(r, other)
}

func (r Root) String() string {
	return hex.EncodeToString(r)
}

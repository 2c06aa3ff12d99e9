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
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/blinklabs-io/goibc/cbor"
	"github.com/blinklabs-io/goibc/client"
	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
)

// Header describes a committed block. It carries everything a counterparty
// light client needs to trust the block's state root
type Header struct {
	cbor.StructAsArray
	ChainID string
	Height  common.Height
	// Time is the block time in unix nanoseconds
	Time           uint64
	AppHash        commitment.Root
	LastHeaderHash []byte
}

// Hash returns the blake2b-256 hash of the CBOR encoded header
func (h Header) Hash() ([]byte, error) {
	data, err := cbor.Encode(h)
	if err != nil {
		return nil, err
	}
	hash := blake2b.Sum256(data)
	return hash[:], nil
}

// HashHex returns the header hash as a hex string, or an empty string if the
// header cannot be encoded
func (h Header) HashHex() string {
	hash, err := h.Hash()
	if err != nil {
		return ""
	}
	return hex.EncodeToString(hash)
}

// MsgCreateClient returns the message that creates a client of clientType
// trusting this header on a counterparty chain
func (h Header) MsgCreateClient(clientType string) client.MsgCreateClient {
	return client.MsgCreateClient{
		ClientType: clientType,
		ChainID:    h.ChainID,
		Height:     h.Height,
		Root:       h.AppHash,
		Timestamp:  h.Time,
	}
}

// MsgUpdateClient returns the message that makes an existing client on a
// counterparty chain trust this header
func (h Header) MsgUpdateClient(clientID host.ClientID) client.MsgUpdateClient {
	return client.MsgUpdateClient{
		ClientID:  clientID,
		Height:    h.Height,
		Root:      h.AppHash,
		Timestamp: h.Time,
	}
}

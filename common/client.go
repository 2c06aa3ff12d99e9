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

package common

import (
	"github.com/blinklabs-io/goibc/cbor"
	"github.com/blinklabs-io/goibc/commitment"
)

// ClientState is the stored state of a counterparty light client. Header
// verification is out of scope here; only the trusted heights are tracked
type ClientState struct {
	cbor.StructAsArray
	ClientType   string
	ChainID      string
	LatestHeight Height
}

// ConsensusState is a trusted counterparty state root at some height
type ConsensusState struct {
	cbor.StructAsArray
	Root commitment.Root
	// Timestamp is the counterparty block time in unix nanoseconds
	Timestamp uint64
	// ProcessedTime and ProcessedHeight record when this chain first trusted
	// the root, for connection delay periods
	ProcessedTime   uint64
	ProcessedHeight Height
}

func (c ClientState) Encode() ([]byte, error) {
	return cbor.Encode(c)
}

func DecodeClientState(data []byte) (ClientState, error) {
	var ret ClientState
	if err := cbor.DecodeExact(data, &ret); err != nil {
		return ClientState{}, err
	}
	return ret, nil
}

func (c ConsensusState) Encode() ([]byte, error) {
	return cbor.Encode(c)
}

func DecodeConsensusState(data []byte) (ConsensusState, error) {
	var ret ConsensusState
	if err := cbor.DecodeExact(data, &ret); err != nil {
		return ConsensusState{}, err
	}
	return ret, nil
}

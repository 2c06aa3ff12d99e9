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

// Package cbor provides the deterministic CBOR encoding used for values kept
// in the IBC store.
//
// This package wraps github.com/fxamacker/cbor/v2 with core deterministic
// encoding options. Connection ends, channel ends, sequence counters and
// consensus states are all stored in this form, and a counterparty chain
// rebuilds the same bytes independently when it checks a membership proof.
//
// # Key Types
//
//   - StructAsArray: Embed to encode struct fields as a CBOR array instead of a map
package cbor

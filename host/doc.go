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

// Package host maps IBC entities to their canonical store paths and
// validates the identifiers that appear in those paths.
//
// The path layout is shared with every counterparty implementation: a
// membership proof is only checkable when both chains agree byte-for-byte
// on the key an entity lives under.
package host

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

package protocol

// Provide a common interface for handshake and packet messages
type Message interface {
	Type() uint8
}

// MessageType is a bare Message, useful when only the kind of an action is
// known (e.g. checking whether a channel accepts packet traffic)
type MessageType uint8

func (m MessageType) Type() uint8 {
	return uint8(m)
}

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
	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/host"
)

// ProofVerifier checks facts about a counterparty chain's store against a
// state root trusted by a light client
type ProofVerifier interface {
	// TrustedRoot returns the consensus state a client trusts at height
	TrustedRoot(ctx *Context, clientID host.ClientID, height Height) (ConsensusState, error)
	// VerifyMembership reports whether proof shows key holding value under root
	VerifyMembership(root commitment.Root, key, value, proof []byte) bool
	// VerifyNonMembership reports whether proof shows key absent under root
	VerifyNonMembership(root commitment.Root, key, proof []byte) bool
}

// Application is the module bound to a port. It gives packet data meaning
type Application interface {
	// OnRecvPacket returns the acknowledgement for a received packet. A nil
	// acknowledgement defers it to a later WriteAcknowledgement. An error
	// aborts the whole receive
	OnRecvPacket(ctx *Context, packet Packet) ([]byte, error)
	OnAcknowledgementPacket(ctx *Context, packet Packet, ack []byte) error
	OnTimeoutPacket(ctx *Context, packet Packet) error
}

// Router resolves the application bound to a port
type Router interface {
	Route(portID host.PortID) (Application, bool)
}

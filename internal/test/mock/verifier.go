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

package test_mock

import (
	"bytes"
	"sync"

	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
)

// Compile-time check that MockVerifier implements ProofVerifier
var _ common.ProofVerifier = (*MockVerifier)(nil)

// VerifyCall records a single proof check
type VerifyCall struct {
	Root  commitment.Root
	Key   []byte
	Value []byte
	Proof []byte
}

// MockVerifier accepts or rejects every proof deterministically. Tests
// construct &test_mock.MockVerifier{} and configure fields to control
// behavior. By default every proof is rejected
type MockVerifier struct {
	mu sync.Mutex
	// Accept makes every membership and non-membership check succeed
	Accept bool
	// RootVal, TimestampVal and ProcessedTimeVal make up the consensus state
	// returned by TrustedRoot at any height
	RootVal          commitment.Root
	TimestampVal     uint64
	ProcessedTimeVal uint64
	// TrustedRootFunc optionally overrides TrustedRoot
	TrustedRootFunc func(host.ClientID, common.Height) (common.ConsensusState, error)
	// MembershipFunc optionally overrides Accept for membership checks
	MembershipFunc func(key, value []byte) bool

	Memberships    []VerifyCall
	NonMemberships []VerifyCall
}

func (m *MockVerifier) TrustedRoot(
	_ *common.Context,
	clientID host.ClientID,
	height common.Height,
) (common.ConsensusState, error) {
	if m.TrustedRootFunc != nil {
		return m.TrustedRootFunc(clientID, height)
	}
	root := m.RootVal
	if root.Empty() {
		root = commitment.Root{0x01}
	}
	return common.ConsensusState{
		Root:          root,
		Timestamp:     m.TimestampVal,
		ProcessedTime: m.ProcessedTimeVal,
	}, nil
}

func (m *MockVerifier) VerifyMembership(root commitment.Root, key, value, proof []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Memberships = append(m.Memberships, VerifyCall{
		Root:  root,
		Key:   bytes.Clone(key),
		Value: bytes.Clone(value),
		Proof: bytes.Clone(proof),
	})
	if m.MembershipFunc != nil {
		return m.MembershipFunc(key, value)
	}
	return m.Accept
}

func (m *MockVerifier) VerifyNonMembership(root commitment.Root, key, proof []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NonMemberships = append(m.NonMemberships, VerifyCall{
		Root:  root,
		Key:   bytes.Clone(key),
		Proof: bytes.Clone(proof),
	})
	return m.Accept
}

// LastMembership returns the most recent membership check
func (m *MockVerifier) LastMembership() (VerifyCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Memberships) == 0 {
		return VerifyCall{}, false
	}
	return m.Memberships[len(m.Memberships)-1], true
}

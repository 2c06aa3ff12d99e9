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

package client

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"

	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
	"github.com/blinklabs-io/goibc/state"
	"github.com/blinklabs-io/goibc/store"
)

// Verifier checks ICS-23 proofs produced by a counterparty store against the
// roots kept by this package
type Verifier struct {
	spec *ics23.ProofSpec
}

var _ common.ProofVerifier = (*Verifier)(nil)

type VerifierOptionFunc func(*Verifier)

// WithProofSpec overrides the proof layout expected from the counterparty
func WithProofSpec(spec *ics23.ProofSpec) VerifierOptionFunc {
	return func(v *Verifier) {
		v.spec = spec
	}
}

func NewVerifier(options ...VerifierOptionFunc) *Verifier {
	v := &Verifier{
		spec: store.ProofSpec,
	}
	for _, option := range options {
		option(v)
	}
	return v
}

// TrustedRoot returns the consensus state stored for the client at height.
// The client must have reached height
func (v *Verifier) TrustedRoot(
	ctx *common.Context,
	clientID host.ClientID,
	height common.Height,
) (common.ConsensusState, error) {
	s := state.New(ctx.Store())
	clientState, found, err := s.GetClientState(clientID)
	if err != nil {
		return common.ConsensusState{}, err
	}
	if !found {
		return common.ConsensusState{}, errorsmod.Wrapf(common.ErrNotFound, "client %s", clientID)
	}
	if height.GT(clientState.LatestHeight) {
		return common.ConsensusState{}, errorsmod.Wrapf(
			common.ErrInvalidHeight,
			"proof height %s is above latest client height %s",
			height,
			clientState.LatestHeight,
		)
	}
	consensusState, found, err := s.GetConsensusState(clientID, height)
	if err != nil {
		return common.ConsensusState{}, err
	}
	if !found {
		return common.ConsensusState{}, errorsmod.Wrapf(
			common.ErrNotFound,
			"consensus state for client %s at height %s",
			clientID,
			height,
		)
	}
	return consensusState, nil
}

func (v *Verifier) VerifyMembership(root commitment.Root, key, value, proof []byte) bool {
	p, err := DecodeProof(proof)
	if err != nil {
		return false
	}
	return ics23.VerifyMembership(v.spec, ics23.CommitmentRoot(root), p, key, value)
}

func (v *Verifier) VerifyNonMembership(root commitment.Root, key, proof []byte) bool {
	p, err := DecodeProof(proof)
	if err != nil {
		return false
	}
	return ics23.VerifyNonMembership(v.spec, ics23.CommitmentRoot(root), p, key)
}

// ValidateProof checks that proof bytes decode to a commitment proof. It
// has no access to state and may run ahead of the action that uses the proof
func (v *Verifier) ValidateProof(proof []byte) error {
	_, err := DecodeProof(proof)
	return err
}

// DecodeProof decodes the protobuf form of an ICS-23 commitment proof
func DecodeProof(proof []byte) (*ics23.CommitmentProof, error) {
	if len(proof) == 0 {
		return nil, errorsmod.Wrap(common.ErrInvalidProof, "proof cannot be empty")
	}
	var ret ics23.CommitmentProof
	if err := ret.Unmarshal(proof); err != nil {
		return nil, errorsmod.Wrap(common.ErrInvalidProof, err.Error())
	}
	if ret.GetProof() == nil {
		return nil, errorsmod.Wrap(common.ErrInvalidProof, "proof has no content")
	}
	return &ret, nil
}

// EncodeProof returns the protobuf form of an ICS-23 commitment proof
func EncodeProof(proof *ics23.CommitmentProof) ([]byte, error) {
	if proof == nil {
		return nil, errors.New("nil proof")
	}
	return proof.Marshal()
}

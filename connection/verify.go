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

package connection

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/cbor"
	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
)

// Every check below resolves the root trusted by the connection's client at
// the proof height and looks up the path under the counterparty's prefix.
// Packet checks additionally wait out the connection delay period

// VerifyConnectionState checks that the counterparty stores end under connectionID
func VerifyConnectionState(
	ctx *common.Context,
	verifier common.ProofVerifier,
	conn common.ConnectionEnd,
	height common.Height,
	proof []byte,
	connectionID host.ConnectionID,
	end common.ConnectionEnd,
) error {
	value, err := end.Encode()
	if err != nil {
		return err
	}
	return verifyMembership(
		ctx, verifier, conn, height, false, proof,
		host.ConnectionPath(connectionID), value,
	)
}

// VerifyChannelState checks that the counterparty stores end under (portID, channelID)
func VerifyChannelState(
	ctx *common.Context,
	verifier common.ProofVerifier,
	conn common.ConnectionEnd,
	height common.Height,
	proof []byte,
	portID host.PortID,
	channelID host.ChannelID,
	end common.ChannelEnd,
) error {
	value, err := end.Encode()
	if err != nil {
		return err
	}
	return verifyMembership(
		ctx, verifier, conn, height, false, proof,
		host.ChannelPath(portID, channelID), value,
	)
}

// VerifyPacketCommitment checks that the sending chain holds the commitment
// of an in-flight packet
func VerifyPacketCommitment(
	ctx *common.Context,
	verifier common.ProofVerifier,
	conn common.ConnectionEnd,
	height common.Height,
	proof []byte,
	portID host.PortID,
	channelID host.ChannelID,
	sequence uint64,
	digest commitment.Digest,
) error {
	return verifyMembership(
		ctx, verifier, conn, height, true, proof,
		host.PacketCommitmentPath(portID, channelID, sequence), digest.Bytes(),
	)
}

// VerifyPacketAcknowledgement checks that the receiving chain holds the
// commitment of ack
func VerifyPacketAcknowledgement(
	ctx *common.Context,
	verifier common.ProofVerifier,
	conn common.ConnectionEnd,
	height common.Height,
	proof []byte,
	portID host.PortID,
	channelID host.ChannelID,
	sequence uint64,
	ack []byte,
) error {
	return verifyMembership(
		ctx, verifier, conn, height, true, proof,
		host.PacketAcknowledgementPath(portID, channelID, sequence),
		commitment.CommitAcknowledgement(ack).Bytes(),
	)
}

// VerifyPacketReceiptAbsence checks that the receiving chain has no receipt
// for the sequence
func VerifyPacketReceiptAbsence(
	ctx *common.Context,
	verifier common.ProofVerifier,
	conn common.ConnectionEnd,
	height common.Height,
	proof []byte,
	portID host.PortID,
	channelID host.ChannelID,
	sequence uint64,
) error {
	return verifyNonMembership(
		ctx, verifier, conn, height, true, proof,
		host.PacketReceiptPath(portID, channelID, sequence),
	)
}

// VerifyNextSequenceRecv checks the receive counter of the counterparty
// channel. A counter that was never advanced is absent from the store, so
// zero is checked as a non-membership
func VerifyNextSequenceRecv(
	ctx *common.Context,
	verifier common.ProofVerifier,
	conn common.ConnectionEnd,
	height common.Height,
	proof []byte,
	portID host.PortID,
	channelID host.ChannelID,
	recvSequence uint64,
) error {
	path := host.NextSequenceRecvPath(portID, channelID)
	if recvSequence == 0 {
		return verifyNonMembership(ctx, verifier, conn, height, true, proof, path)
	}
	value, err := cbor.Encode(recvSequence)
	if err != nil {
		return err
	}
	return verifyMembership(ctx, verifier, conn, height, true, proof, path, value)
}

// ConsensusTimestamp returns the counterparty block time at height, as
// trusted by the connection's client
func ConsensusTimestamp(
	ctx *common.Context,
	verifier common.ProofVerifier,
	conn common.ConnectionEnd,
	height common.Height,
) (uint64, error) {
	consensusState, err := trustedRoot(ctx, verifier, conn, height, false)
	if err != nil {
		return 0, err
	}
	return consensusState.Timestamp, nil
}

func verifyMembership(
	ctx *common.Context,
	verifier common.ProofVerifier,
	conn common.ConnectionEnd,
	height common.Height,
	delayed bool,
	proof []byte,
	path string,
	value []byte,
) error {
	consensusState, err := trustedRoot(ctx, verifier, conn, height, delayed)
	if err != nil {
		return err
	}
	key := conn.Counterparty.Prefix.Apply(path)
	if !verifier.VerifyMembership(consensusState.Root, key, value, proof) {
		return errorsmod.Wrapf(
			common.ErrProofVerificationFailed,
			"membership of %s at height %s",
			key,
			height,
		)
	}
	return nil
}

func verifyNonMembership(
	ctx *common.Context,
	verifier common.ProofVerifier,
	conn common.ConnectionEnd,
	height common.Height,
	delayed bool,
	proof []byte,
	path string,
) error {
	consensusState, err := trustedRoot(ctx, verifier, conn, height, delayed)
	if err != nil {
		return err
	}
	key := conn.Counterparty.Prefix.Apply(path)
	if !verifier.VerifyNonMembership(consensusState.Root, key, proof) {
		return errorsmod.Wrapf(
			common.ErrProofVerificationFailed,
			"non-membership of %s at height %s",
			key,
			height,
		)
	}
	return nil
}

func trustedRoot(
	ctx *common.Context,
	verifier common.ProofVerifier,
	conn common.ConnectionEnd,
	height common.Height,
	delayed bool,
) (common.ConsensusState, error) {
	if verifier == nil {
		return common.ConsensusState{}, errorsmod.Wrap(
			common.ErrProofVerificationFailed,
			"no proof verifier configured",
		)
	}
	consensusState, err := verifier.TrustedRoot(ctx, conn.ClientID, height)
	if err != nil {
		return common.ConsensusState{}, err
	}
	if delayed && conn.DelayPeriod > 0 {
		validAfter := consensusState.ProcessedTime + conn.DelayPeriod
		if ctx.Timestamp() < validAfter {
			return common.ConsensusState{}, errorsmod.Wrapf(
				common.ErrDelayPeriodNotPassed,
				"root at height %s usable after %d, now %d",
				height,
				validAfter,
				ctx.Timestamp(),
			)
		}
	}
	return consensusState, nil
}

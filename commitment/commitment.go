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

// Package commitment implements the digests that two chains recompute
// independently to check each other's packets and acknowledgements, along
// with the commitment prefix and root types used in proof verification.
package commitment

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

const DigestSize = sha256.Size

// Digest is a packet or acknowledgement commitment
type Digest [DigestSize]byte

// NewDigest returns a Digest from the provided bytes. Input that is not
// exactly DigestSize bytes long yields the zero digest and false
func NewDigest(data []byte) (Digest, bool) {
	d := Digest{}
	if len(data) != DigestSize {
		return d, false
	}
	copy(d[:], data)
	return d, true
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) Bytes() []byte {
	return d[:]
}

// Equal reports whether the digest matches the provided raw bytes
func (d Digest) Equal(data []byte) bool {
	return bytes.Equal(d[:], data)
}

// PacketFields is the part of a packet that contributes to its commitment.
// Sequence and port/channel identifiers are not part of the digest since
// they are already encoded in the commitment path
type PacketFields interface {
	GetTimeoutRevisionNumber() uint64
	GetTimeoutRevisionHeight() uint64
	GetTimeoutTimestamp() uint64
	GetData() []byte
}

// CommitPacket returns the commitment of a packet:
//
//	sha256(timeout_timestamp || timeout_revision_number || timeout_revision_height || sha256(data))
//
// with every integer encoded as 8 bytes big-endian
func CommitPacket(packet PacketFields) Digest {
	buf := make([]byte, 0, 24+DigestSize)
	buf = binary.BigEndian.AppendUint64(buf, packet.GetTimeoutTimestamp())
	buf = binary.BigEndian.AppendUint64(buf, packet.GetTimeoutRevisionNumber())
	buf = binary.BigEndian.AppendUint64(buf, packet.GetTimeoutRevisionHeight())
	dataHash := sha256.Sum256(packet.GetData())
	buf = append(buf, dataHash[:]...)
	return Digest(sha256.Sum256(buf))
}

// CommitAcknowledgement returns the commitment of raw acknowledgement bytes
func CommitAcknowledgement(ack []byte) Digest {
	return Digest(sha256.Sum256(ack))
}

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

package state

import (
	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/host"
)

// GetPacketCommitment returns the commitment of an in-flight packet. A
// cleared commitment is reported as absent
func (s *State) GetPacketCommitment(
	portID host.PortID,
	channelID host.ChannelID,
	sequence uint64,
) (commitment.Digest, bool, error) {
	return s.getDigest(host.PacketCommitmentPath(portID, channelID, sequence))
}

func (s *State) SetPacketCommitment(
	portID host.PortID,
	channelID host.ChannelID,
	sequence uint64,
	digest commitment.Digest,
) {
	s.setDigest(host.PacketCommitmentPath(portID, channelID, sequence), digest)
}

// DeletePacketCommitment clears a packet commitment. The key is kept with an
// empty value
func (s *State) DeletePacketCommitment(
	portID host.PortID,
	channelID host.ChannelID,
	sequence uint64,
) {
	s.clearDigest(host.PacketCommitmentPath(portID, channelID, sequence))
}

// HasPacketReceipt reports whether a packet with this sequence was already
// delivered on the channel
func (s *State) HasPacketReceipt(
	portID host.PortID,
	channelID host.ChannelID,
	sequence uint64,
) bool {
	return len(s.getRaw(host.PacketReceiptPath(portID, channelID, sequence))) > 0
}

func (s *State) SetPacketReceipt(
	portID host.PortID,
	channelID host.ChannelID,
	sequence uint64,
) {
	s.setRaw(host.PacketReceiptPath(portID, channelID, sequence), receiptValue)
}

// GetPacketAcknowledgement returns the acknowledgement commitment of a
// received packet
func (s *State) GetPacketAcknowledgement(
	portID host.PortID,
	channelID host.ChannelID,
	sequence uint64,
) (commitment.Digest, bool, error) {
	return s.getDigest(host.PacketAcknowledgementPath(portID, channelID, sequence))
}

// SetPacketAcknowledgement stores the commitment of raw acknowledgement bytes
func (s *State) SetPacketAcknowledgement(
	portID host.PortID,
	channelID host.ChannelID,
	sequence uint64,
	ack []byte,
) {
	s.setDigest(
		host.PacketAcknowledgementPath(portID, channelID, sequence),
		commitment.CommitAcknowledgement(ack),
	)
}

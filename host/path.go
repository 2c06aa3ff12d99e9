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

package host

import (
	"fmt"
	"strconv"
)

const (
	KeyChannelCounter    = "ibc_channel_counter"
	KeyConnectionCounter = "ibc_connection_counter"
	KeyClientCounter     = "ibc_client_counter"

	KeyChannelEndPrefix    = "channelEnds"
	KeyConnectionPrefix    = "connections"
	KeyClientStorePrefix   = "clients"
	KeyClientState         = "clientState"
	KeyConsensusStates     = "consensusStates"
	KeyPortPrefix          = "ports"
	KeyChannelPrefix       = "channels"
	KeySequencePrefix      = "sequences"
	KeyNextSeqSendPrefix   = "nextSequenceSend"
	KeyNextSeqRecvPrefix   = "nextSequenceRecv"
	KeyNextSeqAckPrefix    = "nextSequenceAck"
	KeyPacketCommitPrefix  = "commitments"
	KeyPacketReceiptPrefix = "receipts"
	KeyPacketAckPrefix     = "acks"
)

// ChannelCounterPath returns the path of the channel identifier counter
func ChannelCounterPath() string {
	return KeyChannelCounter
}

// ConnectionCounterPath returns the path of the connection identifier counter
func ConnectionCounterPath() string {
	return KeyConnectionCounter
}

// ClientCounterPath returns the path of the client identifier counter
func ClientCounterPath() string {
	return KeyClientCounter
}

// ConnectionPath returns the path under which a connection end is stored
func ConnectionPath(connectionID ConnectionID) string {
	return fmt.Sprintf("%s/%s", KeyConnectionPrefix, connectionID)
}

// ClientStatePath returns the path under which a client state is stored
func ClientStatePath(clientID ClientID) string {
	return fmt.Sprintf("%s/%s/%s", KeyClientStorePrefix, clientID, KeyClientState)
}

// ConsensusStatePath returns the path under which the consensus state of a
// client at the given revision number and height is stored
func ConsensusStatePath(
	clientID ClientID,
	revisionNumber, revisionHeight uint64,
) string {
	return fmt.Sprintf(
		"%s/%s/%s/%d-%d",
		KeyClientStorePrefix,
		clientID,
		KeyConsensusStates,
		revisionNumber,
		revisionHeight,
	)
}

// ChannelPath returns the path under which a channel end is stored
func ChannelPath(portID PortID, channelID ChannelID) string {
	return fmt.Sprintf("%s/%s", KeyChannelEndPrefix, channelPath(portID, channelID))
}

// NextSequenceSendPath returns the path of the send sequence counter
func NextSequenceSendPath(portID PortID, channelID ChannelID) string {
	return fmt.Sprintf("%s/%s", KeyNextSeqSendPrefix, channelPath(portID, channelID))
}

// NextSequenceRecvPath returns the path of the receive sequence counter
func NextSequenceRecvPath(portID PortID, channelID ChannelID) string {
	return fmt.Sprintf("%s/%s", KeyNextSeqRecvPrefix, channelPath(portID, channelID))
}

// NextSequenceAckPath returns the path of the acknowledgement sequence counter
func NextSequenceAckPath(portID PortID, channelID ChannelID) string {
	return fmt.Sprintf("%s/%s", KeyNextSeqAckPrefix, channelPath(portID, channelID))
}

// PacketCommitmentPath returns the path under which a packet commitment is stored
func PacketCommitmentPath(
	portID PortID,
	channelID ChannelID,
	sequence uint64,
) string {
	return fmt.Sprintf(
		"%s/%s",
		PacketCommitmentPrefixPath(portID, channelID),
		strconv.FormatUint(sequence, 10),
	)
}

// PacketCommitmentPrefixPath returns the prefix shared by all packet
// commitments of a channel
func PacketCommitmentPrefixPath(portID PortID, channelID ChannelID) string {
	return fmt.Sprintf(
		"%s/%s/%s",
		KeyPacketCommitPrefix,
		channelPath(portID, channelID),
		KeySequencePrefix,
	)
}

// PacketReceiptPath returns the path under which a packet receipt is stored
func PacketReceiptPath(portID PortID, channelID ChannelID, sequence uint64) string {
	return fmt.Sprintf(
		"%s/%s",
		PacketReceiptPrefixPath(portID, channelID),
		strconv.FormatUint(sequence, 10),
	)
}

// PacketReceiptPrefixPath returns the prefix shared by all packet receipts
// of a channel
func PacketReceiptPrefixPath(portID PortID, channelID ChannelID) string {
	return fmt.Sprintf(
		"%s/%s/%s",
		KeyPacketReceiptPrefix,
		channelPath(portID, channelID),
		KeySequencePrefix,
	)
}

// PacketAcknowledgementPath returns the path under which a packet
// acknowledgement commitment is stored
func PacketAcknowledgementPath(
	portID PortID,
	channelID ChannelID,
	sequence uint64,
) string {
	return fmt.Sprintf(
		"%s/%s",
		PacketAcknowledgementPrefixPath(portID, channelID),
		strconv.FormatUint(sequence, 10),
	)
}

// PacketAcknowledgementPrefixPath returns the prefix shared by all packet
// acknowledgements of a channel
func PacketAcknowledgementPrefixPath(portID PortID, channelID ChannelID) string {
	return fmt.Sprintf(
		"%s/%s/%s",
		KeyPacketAckPrefix,
		channelPath(portID, channelID),
		KeySequencePrefix,
	)
}

func channelPath(portID PortID, channelID ChannelID) string {
	return fmt.Sprintf(
		"%s/%s/%s/%s",
		KeyPortPrefix,
		portID,
		KeyChannelPrefix,
		channelID,
	)
}

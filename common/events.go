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
	"encoding/hex"
	"strconv"
)

const (
	EventTypeConnectionOpenInit    = "connection_open_init"
	EventTypeConnectionOpenTry     = "connection_open_try"
	EventTypeConnectionOpenAck     = "connection_open_ack"
	EventTypeConnectionOpenConfirm = "connection_open_confirm"

	EventTypeChannelOpenInit     = "channel_open_init"
	EventTypeChannelOpenTry      = "channel_open_try"
	EventTypeChannelOpenAck      = "channel_open_ack"
	EventTypeChannelOpenConfirm  = "channel_open_confirm"
	EventTypeChannelCloseInit    = "channel_close_init"
	EventTypeChannelCloseConfirm = "channel_close_confirm"
	EventTypeChannelClosed       = "channel_close"

	EventTypeSendPacket        = "send_packet"
	EventTypeRecvPacket        = "recv_packet"
	EventTypeWriteAck          = "write_acknowledgement"
	EventTypeAcknowledgePacket = "acknowledge_packet"
	EventTypeTimeoutPacket     = "timeout_packet"
	EventTypeTimeoutOnClose    = "timeout_on_close_packet"

	EventTypeCreateClient = "create_client"
	EventTypeUpdateClient = "update_client"

	AttributeKeyClientID                 = "client_id"
	AttributeKeyClientType               = "client_type"
	AttributeKeyConsensusHeight          = "consensus_height"
	AttributeKeyConnectionID             = "connection_id"
	AttributeKeyCounterpartyClientID     = "counterparty_client_id"
	AttributeKeyCounterpartyConnectionID = "counterparty_connection_id"
	AttributeKeyPortID                   = "port_id"
	AttributeKeyChannelID                = "channel_id"
	AttributeKeyCounterpartyPortID       = "counterparty_port_id"
	AttributeKeyCounterpartyChannelID    = "counterparty_channel_id"
	AttributeKeyVersion                  = "version"

	AttributeKeyDataHex          = "packet_data_hex"
	AttributeKeyAckHex           = "packet_ack_hex"
	AttributeKeyTimeoutHeight    = "packet_timeout_height"
	AttributeKeyTimeoutTimestamp = "packet_timeout_timestamp"
	AttributeKeySequence         = "packet_sequence"
	AttributeKeySrcPort          = "packet_src_port"
	AttributeKeySrcChannel       = "packet_src_channel"
	AttributeKeyDstPort          = "packet_dst_port"
	AttributeKeyDstChannel       = "packet_dst_channel"
	AttributeKeyChannelOrdering  = "packet_channel_ordering"
	AttributeKeyConnection       = "packet_connection"
)

type Attribute struct {
	Key   string
	Value string
}

type Event struct {
	Type       string
	Attributes []Attribute
}

func NewEvent(eventType string, attrs ...Attribute) Event {
	return Event{
		Type:       eventType,
		Attributes: attrs,
	}
}

func NewAttribute(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Attribute returns the value of the first attribute with the given key
func (e Event) Attribute(key string) (string, bool) {
	for _, attr := range e.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// EventManager collects the events emitted by a single action
type EventManager struct {
	events []Event
}

func NewEventManager() *EventManager {
	return &EventManager{}
}

func (em *EventManager) Emit(event Event) {
	em.events = append(em.events, event)
}

func (em *EventManager) Events() []Event {
	return em.events
}

// PacketAttributes returns the attributes shared by all packet events
func PacketAttributes(packet Packet, channel ChannelEnd) []Attribute {
	return []Attribute{
		NewAttribute(AttributeKeyDataHex, hex.EncodeToString(packet.Data)),
		NewAttribute(AttributeKeyTimeoutHeight, packet.TimeoutHeight.String()),
		NewAttribute(
			AttributeKeyTimeoutTimestamp,
			strconv.FormatUint(packet.TimeoutTimestamp, 10),
		),
		NewAttribute(AttributeKeySequence, strconv.FormatUint(packet.Sequence, 10)),
		NewAttribute(AttributeKeySrcPort, packet.SourcePort.String()),
		NewAttribute(AttributeKeySrcChannel, packet.SourceChannel.String()),
		NewAttribute(AttributeKeyDstPort, packet.DestinationPort.String()),
		NewAttribute(AttributeKeyDstChannel, packet.DestinationChannel.String()),
		NewAttribute(AttributeKeyChannelOrdering, channel.Ordering.String()),
		NewAttribute(AttributeKeyConnection, channel.ConnectionID().String()),
	}
}

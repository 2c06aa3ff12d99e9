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
	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/host"
)

// Packet is one application message travelling over a channel. Only its
// commitment, receipt and acknowledgement are ever stored
type Packet struct {
	Sequence           uint64
	SourcePort         host.PortID
	SourceChannel      host.ChannelID
	DestinationPort    host.PortID
	DestinationChannel host.ChannelID
	Data               []byte
	TimeoutHeight      Height
	// TimeoutTimestamp is in nanoseconds since the unix epoch
	TimeoutTimestamp uint64
}

func NewPacket(
	data []byte,
	sequence uint64,
	sourcePort host.PortID,
	sourceChannel host.ChannelID,
	destinationPort host.PortID,
	destinationChannel host.ChannelID,
	timeoutHeight Height,
	timeoutTimestamp uint64,
) Packet {
	return Packet{
		Data:               data,
		Sequence:           sequence,
		SourcePort:         sourcePort,
		SourceChannel:      sourceChannel,
		DestinationPort:    destinationPort,
		DestinationChannel: destinationChannel,
		TimeoutHeight:      timeoutHeight,
		TimeoutTimestamp:   timeoutTimestamp,
	}
}

func (p Packet) GetTimeoutRevisionNumber() uint64 { return p.TimeoutHeight.RevisionNumber }
func (p Packet) GetTimeoutRevisionHeight() uint64 { return p.TimeoutHeight.RevisionHeight }
func (p Packet) GetTimeoutTimestamp() uint64      { return p.TimeoutTimestamp }
func (p Packet) GetData() []byte                  { return p.Data }

// Commitment returns the packet commitment
func (p Packet) Commitment() commitment.Digest {
	return commitment.CommitPacket(p)
}

// HasTimeout reports whether at least one timeout bound is set
func (p Packet) HasTimeout() bool {
	return !p.TimeoutHeight.IsZero() || p.TimeoutTimestamp != 0
}

// TimedOutAt reports whether the packet can no longer be received on a
// chain at the given height and time
func (p Packet) TimedOutAt(height Height, timestamp uint64) bool {
	if !p.TimeoutHeight.IsZero() && height.GTE(p.TimeoutHeight) {
		return true
	}
	if p.TimeoutTimestamp != 0 && timestamp >= p.TimeoutTimestamp {
		return true
	}
	return false
}

// ValidateBasic checks the static properties of a packet that is being
// received, acknowledged or timed out. A packet that is about to be sent
// has no sequence yet and is checked with ValidateSend instead
func (p Packet) ValidateBasic() error {
	if p.Sequence == 0 {
		return errorsmod.Wrap(ErrInvalidPacket, "packet sequence cannot be 0")
	}
	return p.validate()
}

// ValidateSend checks a packet before it is assigned a sequence
func (p Packet) ValidateSend() error {
	if p.Sequence != 0 {
		return errorsmod.Wrap(ErrInvalidPacket, "packet sequence is assigned on send")
	}
	return p.validate()
}

func (p Packet) validate() error {
	if err := p.SourcePort.Validate(); err != nil {
		return errorsmod.Wrapf(ErrInvalidPacket, "invalid source port: %s", err)
	}
	if err := p.SourceChannel.Validate(); err != nil {
		return errorsmod.Wrapf(ErrInvalidPacket, "invalid source channel: %s", err)
	}
	if err := p.DestinationPort.Validate(); err != nil {
		return errorsmod.Wrapf(ErrInvalidPacket, "invalid destination port: %s", err)
	}
	if err := p.DestinationChannel.Validate(); err != nil {
		return errorsmod.Wrapf(ErrInvalidPacket, "invalid destination channel: %s", err)
	}
	if !p.HasTimeout() {
		return errorsmod.Wrap(
			ErrInvalidPacket,
			"packet timeout height and timeout timestamp cannot both be 0",
		)
	}
	return nil
}

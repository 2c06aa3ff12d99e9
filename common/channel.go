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
	"github.com/jinzhu/copier"

	"github.com/blinklabs-io/goibc/cbor"
	"github.com/blinklabs-io/goibc/host"
)

// ChannelState is the handshake state of a channel end
type ChannelState uint8

const (
	ChannelStateUninitialized ChannelState = 0
	ChannelStateInit          ChannelState = 1
	ChannelStateTryOpen       ChannelState = 2
	ChannelStateOpen          ChannelState = 3
	ChannelStateClosed        ChannelState = 4
)

func (s ChannelState) String() string {
	switch s {
	case ChannelStateInit:
		return "INIT"
	case ChannelStateTryOpen:
		return "TRYOPEN"
	case ChannelStateOpen:
		return "OPEN"
	case ChannelStateClosed:
		return "CLOSED"
	default:
		return "UNINITIALIZED"
	}
}

// Order is the delivery ordering of a channel
type Order uint8

const (
	OrderNone      Order = 0
	OrderUnordered Order = 1
	OrderOrdered   Order = 2
)

func (o Order) String() string {
	switch o {
	case OrderUnordered:
		return "UNORDERED"
	case OrderOrdered:
		return "ORDERED"
	default:
		return "NONE"
	}
}

// Feature returns the connection version feature that allows this ordering
func (o Order) Feature() string {
	switch o {
	case OrderUnordered:
		return FeatureOrderUnordered
	case OrderOrdered:
		return FeatureOrderOrdered
	default:
		return ""
	}
}

// ParseOrder parses an ordering name as returned by Order.String
func ParseOrder(order string) (Order, error) {
	switch order {
	case "UNORDERED", "unordered":
		return OrderUnordered, nil
	case "ORDERED", "ordered":
		return OrderOrdered, nil
	default:
		return OrderNone, errorsmod.Wrapf(ErrInvalidOrdering, "unknown ordering %q", order)
	}
}

// ChannelCounterparty identifies the other end of a channel
type ChannelCounterparty struct {
	cbor.StructAsArray
	PortID    host.PortID
	ChannelID host.ChannelID
}

// ChannelEnd is one chain's half of a channel
type ChannelEnd struct {
	cbor.StructAsArray
	State          ChannelState
	Ordering       Order
	Counterparty   ChannelCounterparty
	ConnectionHops []host.ConnectionID
	Version        string
}

func NewChannelEnd(
	state ChannelState,
	ordering Order,
	counterparty ChannelCounterparty,
	hops []host.ConnectionID,
	version string,
) ChannelEnd {
	return ChannelEnd{
		State:          state,
		Ordering:       ordering,
		Counterparty:   counterparty,
		ConnectionHops: hops,
		Version:        version,
	}
}

// ConnectionID returns the first connection hop
func (c ChannelEnd) ConnectionID() host.ConnectionID {
	if len(c.ConnectionHops) == 0 {
		return ""
	}
	return c.ConnectionHops[0]
}

// ValidateBasic checks the static properties of a channel end
func (c ChannelEnd) ValidateBasic() error {
	if c.Ordering != OrderOrdered && c.Ordering != OrderUnordered {
		return errorsmod.Wrapf(ErrInvalidOrdering, "invalid channel ordering %d", c.Ordering)
	}
	if len(c.ConnectionHops) != 1 {
		return errorsmod.Wrapf(
			ErrInvalidConnectionHops,
			"exactly one connection hop is supported, got %d",
			len(c.ConnectionHops),
		)
	}
	if err := c.ConnectionHops[0].Validate(); err != nil {
		return err
	}
	if err := c.Counterparty.PortID.Validate(); err != nil {
		return errorsmod.Wrap(ErrInvalidCounterparty, err.Error())
	}
	if c.Counterparty.ChannelID != "" {
		if err := c.Counterparty.ChannelID.Validate(); err != nil {
			return errorsmod.Wrap(ErrInvalidCounterparty, err.Error())
		}
	}
	return nil
}

// Clone returns a deep copy of the channel end
func (c ChannelEnd) Clone() ChannelEnd {
	var ret ChannelEnd
	if err := copier.CopyWithOption(&ret, &c, copier.Option{DeepCopy: true}); err != nil {
		// Copying between identical struct types cannot fail
		panic(err)
	}
	return ret
}

// Encode returns the deterministic CBOR form of the channel end
func (c ChannelEnd) Encode() ([]byte, error) {
	return cbor.Encode(c)
}

// DecodeChannelEnd decodes a stored channel end
func DecodeChannelEnd(data []byte) (ChannelEnd, error) {
	var ret ChannelEnd
	if err := cbor.DecodeExact(data, &ret); err != nil {
		return ChannelEnd{}, err
	}
	return ret, nil
}

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
	"slices"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/jinzhu/copier"

	"github.com/blinklabs-io/goibc/cbor"
	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/host"
)

// ConnectionState is the handshake state of a connection end
type ConnectionState uint8

const (
	ConnectionStateUninitialized ConnectionState = 0
	ConnectionStateInit          ConnectionState = 1
	ConnectionStateTryOpen       ConnectionState = 2
	ConnectionStateOpen          ConnectionState = 3
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionStateInit:
		return "INIT"
	case ConnectionStateTryOpen:
		return "TRYOPEN"
	case ConnectionStateOpen:
		return "OPEN"
	default:
		return "UNINITIALIZED"
	}
}

// Channel ordering features advertised in connection versions
const (
	FeatureOrderOrdered   = "ORDER_ORDERED"
	FeatureOrderUnordered = "ORDER_UNORDERED"

	DefaultVersionIdentifier = "1"
)

// Version is a connection version with the set of features it allows
type Version struct {
	cbor.StructAsArray
	Identifier string
	Features   []string
}

// DefaultVersion is the only connection version supported out of the box
var DefaultVersion = NewVersion(
	DefaultVersionIdentifier,
	[]string{FeatureOrderOrdered, FeatureOrderUnordered},
)

func NewVersion(identifier string, features []string) Version {
	return Version{
		Identifier: identifier,
		Features:   features,
	}
}

// ValidateBasic checks that the version has an identifier and no blank features
func (v Version) ValidateBasic() error {
	if v.Identifier == "" {
		return errorsmod.Wrap(ErrInvalidVersion, "version identifier cannot be blank")
	}
	for i, feature := range v.Features {
		if feature == "" {
			return errorsmod.Wrapf(ErrInvalidVersion, "feature %d cannot be blank", i)
		}
	}
	return nil
}

// HasFeature reports whether the version allows the given feature
func (v Version) HasFeature(feature string) bool {
	return slices.Contains(v.Features, feature)
}

// AllowsOrdering reports whether channels with the given ordering can be
// opened over a connection using this version
func (v Version) AllowsOrdering(order Order) bool {
	return v.HasFeature(order.Feature())
}

// Equal compares identifier and features (order-sensitive)
func (v Version) Equal(other Version) bool {
	return v.Identifier == other.Identifier &&
		slices.Equal(v.Features, other.Features)
}

// PickVersion returns the first of the supported versions that is also
// proposed by the counterparty, restricted to the features both sides
// support
func PickVersion(supported, proposed []Version) (Version, error) {
	for _, s := range supported {
		for _, p := range proposed {
			if s.Identifier != p.Identifier {
				continue
			}
			features := []string{}
			for _, feature := range s.Features {
				if p.HasFeature(feature) {
					features = append(features, feature)
				}
			}
			if len(features) == 0 {
				continue
			}
			return NewVersion(s.Identifier, features), nil
		}
	}
	return Version{}, errorsmod.Wrapf(
		ErrInvalidVersion,
		"no compatible version between supported %v and proposed %v",
		supported,
		proposed,
	)
}

// IsSupportedVersion reports whether version is a subset of one of the
// supported versions
func IsSupportedVersion(supported []Version, version Version) bool {
	for _, s := range supported {
		if s.Identifier != version.Identifier {
			continue
		}
		for _, feature := range version.Features {
			if !s.HasFeature(feature) {
				return false
			}
		}
		return true
	}
	return false
}

// ConnectionCounterparty identifies the other end of a connection
type ConnectionCounterparty struct {
	cbor.StructAsArray
	ClientID     host.ClientID
	ConnectionID host.ConnectionID
	Prefix       commitment.Prefix
}

// ConnectionEnd is one chain's half of a connection
type ConnectionEnd struct {
	cbor.StructAsArray
	ClientID     host.ClientID
	Versions     []Version
	State        ConnectionState
	Counterparty ConnectionCounterparty
	// DelayPeriod is stored in nanoseconds
	DelayPeriod uint64
}

func NewConnectionEnd(
	state ConnectionState,
	clientID host.ClientID,
	counterparty ConnectionCounterparty,
	versions []Version,
	delayPeriod time.Duration,
) ConnectionEnd {
	return ConnectionEnd{
		ClientID:     clientID,
		Versions:     versions,
		State:        state,
		Counterparty: counterparty,
		DelayPeriod:  uint64(delayPeriod),
	}
}

// GetDelayPeriod returns the delay period as a duration
func (c ConnectionEnd) GetDelayPeriod() time.Duration {
	return time.Duration(c.DelayPeriod)
}

// Clone returns a deep copy of the connection end
func (c ConnectionEnd) Clone() ConnectionEnd {
	var ret ConnectionEnd
	if err := copier.CopyWithOption(&ret, &c, copier.Option{DeepCopy: true}); err != nil {
		// Copying between identical struct types cannot fail
		panic(err)
	}
	return ret
}

// Encode returns the deterministic CBOR form of the connection end, which is
// both the stored value and the value checked by a counterparty proof
func (c ConnectionEnd) Encode() ([]byte, error) {
	return cbor.Encode(c)
}

// DecodeConnectionEnd decodes a stored connection end
func DecodeConnectionEnd(data []byte) (ConnectionEnd, error) {
	var ret ConnectionEnd
	if err := cbor.DecodeExact(data, &ret); err != nil {
		return ConnectionEnd{}, err
	}
	return ret, nil
}

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
	"regexp"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

const (
	ConnectionPrefix = "connection"
	ChannelPrefix    = "channel"

	// Identifier length bounds (inclusive)
	DefaultMaxIDLength    = 64
	PortMaxIDLength       = 128
	PortMinIDLength       = 2
	ChannelMinIDLength    = 8
	ConnectionMinIDLength = 10
	ClientMinIDLength     = 9
)

type (
	ClientID     string
	ConnectionID string
	PortID       string
	ChannelID    string
)

func (id ClientID) String() string     { return string(id) }
func (id ConnectionID) String() string { return string(id) }
func (id PortID) String() string       { return string(id) }
func (id ChannelID) String() string    { return string(id) }

// IsValidID reports whether an identifier only uses the ICS-24 charset:
// alphanumerics and . _ + - # [ ] < >
var IsValidID = regexp.MustCompile(`^[a-zA-Z0-9\.\_\+\-\#\[\]\<\>]+$`).MatchString

// FormatConnectionID returns the identifier of the connection with the given
// counter value
func FormatConnectionID(sequence uint64) ConnectionID {
	return ConnectionID(fmt.Sprintf("%s-%d", ConnectionPrefix, sequence))
}

// FormatChannelID returns the identifier of the channel with the given counter value
func FormatChannelID(sequence uint64) ChannelID {
	return ChannelID(fmt.Sprintf("%s-%d", ChannelPrefix, sequence))
}

// FormatClientID returns the identifier of a client of the given type with
// the given counter value
func FormatClientID(clientType string, sequence uint64) ClientID {
	return ClientID(fmt.Sprintf("%s-%d", clientType, sequence))
}

// ParseChannelID returns the counter value encoded in a generated channel identifier
func ParseChannelID(channelID ChannelID) (uint64, error) {
	return parseIdentifier(string(channelID), ChannelPrefix)
}

// ParseConnectionID returns the counter value encoded in a generated
// connection identifier
func ParseConnectionID(connectionID ConnectionID) (uint64, error) {
	return parseIdentifier(string(connectionID), ConnectionPrefix)
}

func parseIdentifier(identifier, prefix string) (uint64, error) {
	if !strings.HasPrefix(identifier, prefix+"-") {
		return 0, errorsmod.Wrapf(
			ErrInvalidID,
			"identifier %s does not start with %s-",
			identifier,
			prefix,
		)
	}
	sequence, err := strconv.ParseUint(
		strings.TrimPrefix(identifier, prefix+"-"),
		10,
		64,
	)
	if err != nil {
		return 0, errorsmod.Wrapf(
			ErrInvalidID,
			"identifier %s has no valid sequence: %s",
			identifier,
			err,
		)
	}
	return sequence, nil
}

func defaultIdentifierValidator(id string, minLength, maxLength int) error {
	if strings.TrimSpace(id) == "" {
		return errorsmod.Wrap(ErrInvalidID, "identifier cannot be blank")
	}
	if strings.Contains(id, "/") {
		return errorsmod.Wrapf(ErrInvalidID, "identifier %s cannot contain separator '/'", id)
	}
	if len(id) < minLength || len(id) > maxLength {
		return errorsmod.Wrapf(
			ErrInvalidID,
			"identifier %s has invalid length: %d, must be between %d-%d characters",
			id,
			len(id),
			minLength,
			maxLength,
		)
	}
	if !IsValidID(id) {
		return errorsmod.Wrapf(
			ErrInvalidID,
			"identifier %s must contain only alphanumeric or the following characters: '.', '_', '+', '-', '#', '[', ']', '<', '>'",
			id,
		)
	}
	return nil
}

// Validate checks the client identifier format
func (id ClientID) Validate() error {
	return defaultIdentifierValidator(string(id), ClientMinIDLength, DefaultMaxIDLength)
}

// Validate checks the connection identifier format
func (id ConnectionID) Validate() error {
	return defaultIdentifierValidator(string(id), ConnectionMinIDLength, DefaultMaxIDLength)
}

// Validate checks the port identifier format
func (id PortID) Validate() error {
	return defaultIdentifierValidator(string(id), PortMinIDLength, PortMaxIDLength)
}

// Validate checks the channel identifier format
func (id ChannelID) Validate() error {
	return defaultIdentifierValidator(string(id), ChannelMinIDLength, DefaultMaxIDLength)
}

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
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/host"
)

// ModuleName defines the IBC core codespace
const ModuleName = "ibc"

// Every error is local to the action that produced it: the action's writes
// are discarded and the error is reported to the caller
var (
	ErrNotFound                = errorsmod.Register(ModuleName, 2, "not found")
	ErrInvalidState            = errorsmod.Register(ModuleName, 3, "invalid state")
	ErrProofVerificationFailed = errorsmod.Register(ModuleName, 4, "proof verification failed")
	ErrSequenceViolation       = errorsmod.Register(ModuleName, 5, "sequence violation")
	ErrTimeoutNotElapsed       = errorsmod.Register(ModuleName, 6, "timeout not elapsed")
	ErrAlreadyTimedOut         = errorsmod.Register(ModuleName, 7, "packet already timed out")
	ErrInvalidPacket           = errorsmod.Register(ModuleName, 8, "invalid packet")
	ErrInvalidVersion          = errorsmod.Register(ModuleName, 9, "invalid version")
	ErrInvalidCounterparty     = errorsmod.Register(ModuleName, 10, "invalid counterparty")
	ErrInvalidProof            = errorsmod.Register(ModuleName, 11, "invalid proof")
	ErrPortNotBound            = errorsmod.Register(ModuleName, 12, "port is not bound to an application")
	ErrAckExists               = errorsmod.Register(ModuleName, 13, "acknowledgement already exists")
	ErrInvalidHeight           = errorsmod.Register(ModuleName, 14, "invalid height")
	ErrInvalidConnectionHops   = errorsmod.Register(ModuleName, 15, "invalid connection hops")
	ErrInvalidOrdering         = errorsmod.Register(ModuleName, 16, "invalid channel ordering")
	ErrDelayPeriodNotPassed    = errorsmod.Register(ModuleName, 17, "connection delay period has not passed")
	ErrInvalidAcknowledgement  = errorsmod.Register(ModuleName, 18, "invalid acknowledgement")
	ErrApplicationCallback     = errorsmod.Register(ModuleName, 19, "application callback failed")
	ErrInvalidMessage          = errorsmod.Register(ModuleName, 20, "invalid message")
	ErrPortAlreadyBound        = errorsmod.Register(ModuleName, 21, "port is already bound")
	ErrUnauthorized            = errorsmod.Register(ModuleName, 22, "caller is not the application bound to the port")
)

// SequenceViolationError describes an out-of-order or duplicate packet
// delivery on a channel
type SequenceViolationError struct {
	PortID    host.PortID
	ChannelID host.ChannelID
	Expected  uint64
	Got       uint64
	Duplicate bool
}

func (e SequenceViolationError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf(
			"sequence violation: packet %d already received on %s/%s",
			e.Got,
			e.PortID,
			e.ChannelID,
		)
	}
	return fmt.Sprintf(
		"sequence violation: expected packet %d on %s/%s, got %d",
		e.Expected,
		e.PortID,
		e.ChannelID,
		e.Got,
	)
}

func (SequenceViolationError) Is(target error) bool {
	return target == ErrSequenceViolation
}

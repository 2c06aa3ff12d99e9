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
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
)

// Message types
const (
	MessageTypeConnectionOpenInit    = 1
	MessageTypeConnectionOpenTry     = 2
	MessageTypeConnectionOpenAck     = 3
	MessageTypeConnectionOpenConfirm = 4
)

// MsgConnectionOpenInit starts a handshake with the chain tracked by
// ClientID. Version optionally restricts the versions offered
type MsgConnectionOpenInit struct {
	ClientID     host.ClientID
	Counterparty common.ConnectionCounterparty
	Version      *common.Version
	DelayPeriod  time.Duration
}

func (MsgConnectionOpenInit) Type() uint8 {
	return MessageTypeConnectionOpenInit
}

func (m MsgConnectionOpenInit) ValidateBasic() error {
	if err := m.ClientID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidMessage, err.Error())
	}
	if m.Counterparty.ConnectionID != "" {
		return errorsmod.Wrap(
			common.ErrInvalidCounterparty,
			"counterparty connection identifier must be empty",
		)
	}
	if err := validateCounterparty(m.Counterparty); err != nil {
		return err
	}
	if m.Version != nil {
		if err := m.Version.ValidateBasic(); err != nil {
			return err
		}
	}
	if m.DelayPeriod < 0 {
		return errorsmod.Wrap(common.ErrInvalidMessage, "delay period cannot be negative")
	}
	return nil
}

// MsgConnectionOpenTry answers a counterparty's INIT with a proof of its
// connection end
type MsgConnectionOpenTry struct {
	ClientID             host.ClientID
	Counterparty         common.ConnectionCounterparty
	CounterpartyVersions []common.Version
	DelayPeriod          time.Duration
	ProofInit            []byte
	ProofHeight          common.Height
}

func (MsgConnectionOpenTry) Type() uint8 {
	return MessageTypeConnectionOpenTry
}

func (m MsgConnectionOpenTry) ValidateBasic() error {
	if err := m.ClientID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidMessage, err.Error())
	}
	if err := m.Counterparty.ConnectionID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidCounterparty, err.Error())
	}
	if err := validateCounterparty(m.Counterparty); err != nil {
		return err
	}
	if len(m.CounterpartyVersions) == 0 {
		return errorsmod.Wrap(common.ErrInvalidVersion, "counterparty versions cannot be empty")
	}
	for _, version := range m.CounterpartyVersions {
		if err := version.ValidateBasic(); err != nil {
			return err
		}
	}
	if m.DelayPeriod < 0 {
		return errorsmod.Wrap(common.ErrInvalidMessage, "delay period cannot be negative")
	}
	return ValidateProof(m.ProofInit, m.ProofHeight)
}

func (m MsgConnectionOpenTry) Proofs() [][]byte {
	return [][]byte{m.ProofInit}
}

// MsgConnectionOpenAck completes the handshake on the initiating chain
type MsgConnectionOpenAck struct {
	ConnectionID             host.ConnectionID
	CounterpartyConnectionID host.ConnectionID
	Version                  common.Version
	ProofTry                 []byte
	ProofHeight              common.Height
}

func (MsgConnectionOpenAck) Type() uint8 {
	return MessageTypeConnectionOpenAck
}

func (m MsgConnectionOpenAck) ValidateBasic() error {
	if err := m.ConnectionID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidMessage, err.Error())
	}
	if err := m.CounterpartyConnectionID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidCounterparty, err.Error())
	}
	if err := m.Version.ValidateBasic(); err != nil {
		return err
	}
	return ValidateProof(m.ProofTry, m.ProofHeight)
}

func (m MsgConnectionOpenAck) Proofs() [][]byte {
	return [][]byte{m.ProofTry}
}

// MsgConnectionOpenConfirm completes the handshake on the responding chain
type MsgConnectionOpenConfirm struct {
	ConnectionID host.ConnectionID
	ProofAck     []byte
	ProofHeight  common.Height
}

func (MsgConnectionOpenConfirm) Type() uint8 {
	return MessageTypeConnectionOpenConfirm
}

func (m MsgConnectionOpenConfirm) ValidateBasic() error {
	if err := m.ConnectionID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidMessage, err.Error())
	}
	return ValidateProof(m.ProofAck, m.ProofHeight)
}

func (m MsgConnectionOpenConfirm) Proofs() [][]byte {
	return [][]byte{m.ProofAck}
}

func validateCounterparty(counterparty common.ConnectionCounterparty) error {
	if err := counterparty.ClientID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidCounterparty, err.Error())
	}
	if counterparty.Prefix.Empty() {
		return errorsmod.Wrap(common.ErrInvalidCounterparty, "counterparty prefix cannot be empty")
	}
	return nil
}

// ValidateProof checks that a proof is present and carries a height
func ValidateProof(proof []byte, height common.Height) error {
	if len(proof) == 0 {
		return errorsmod.Wrap(common.ErrInvalidProof, "proof cannot be empty")
	}
	if height.IsZero() {
		return errorsmod.Wrap(common.ErrInvalidHeight, "proof height cannot be zero")
	}
	return nil
}

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

package client

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/commitment"
	"github.com/blinklabs-io/goibc/common"
	"github.com/blinklabs-io/goibc/host"
)

// MsgCreateClient creates a client trusting Root at Height
type MsgCreateClient struct {
	ClientType string
	ChainID    string
	Height     common.Height
	Root       commitment.Root
	// Timestamp is the counterparty block time in unix nanoseconds
	Timestamp uint64
}

func (m MsgCreateClient) ValidateBasic() error {
	if m.ClientType == "" {
		return errorsmod.Wrap(common.ErrInvalidMessage, "client type cannot be blank")
	}
	if err := host.FormatClientID(m.ClientType, 0).Validate(); err != nil {
		return errorsmod.Wrapf(common.ErrInvalidMessage, "invalid client type: %s", err)
	}
	if m.ChainID == "" {
		return errorsmod.Wrap(common.ErrInvalidMessage, "chain id cannot be blank")
	}
	return validateRoot(m.Height, m.Root)
}

// MsgUpdateClient adds a trusted root to an existing client
type MsgUpdateClient struct {
	ClientID  host.ClientID
	Height    common.Height
	Root      commitment.Root
	Timestamp uint64
}

func (m MsgUpdateClient) ValidateBasic() error {
	if err := m.ClientID.Validate(); err != nil {
		return errorsmod.Wrap(common.ErrInvalidMessage, err.Error())
	}
	return validateRoot(m.Height, m.Root)
}

func validateRoot(height common.Height, root commitment.Root) error {
	if height.IsZero() {
		return errorsmod.Wrap(common.ErrInvalidHeight, "height cannot be zero")
	}
	if root.Empty() {
		return errorsmod.Wrap(common.ErrInvalidMessage, "root cannot be empty")
	}
	return nil
}

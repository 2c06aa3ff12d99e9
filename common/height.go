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
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/blinklabs-io/goibc/cbor"
)

// Height is a block height qualified by a revision number, so that it keeps
// increasing across chain upgrades that reset the block height
type Height struct {
	cbor.StructAsArray
	RevisionNumber uint64
	RevisionHeight uint64
}

// ZeroHeight is used for an unset timeout height
var ZeroHeight = Height{}

func NewHeight(revisionNumber, revisionHeight uint64) Height {
	return Height{
		RevisionNumber: revisionNumber,
		RevisionHeight: revisionHeight,
	}
}

// ParseHeight parses a height in the {revision_number}-{revision_height} form
func ParseHeight(heightStr string) (Height, error) {
	parts := strings.Split(heightStr, "-")
	if len(parts) != 2 {
		return Height{}, errorsmod.Wrapf(
			ErrInvalidHeight,
			"expected height in {revision}-{height} form, got %q",
			heightStr,
		)
	}
	revisionNumber, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Height{}, errorsmod.Wrapf(ErrInvalidHeight, "invalid revision number: %s", err)
	}
	revisionHeight, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return Height{}, errorsmod.Wrapf(ErrInvalidHeight, "invalid revision height: %s", err)
	}
	return NewHeight(revisionNumber, revisionHeight), nil
}

func (h Height) IsZero() bool {
	return h.RevisionNumber == 0 && h.RevisionHeight == 0
}

// Compare returns -1, 0 or 1 depending on whether h is lower than, equal to
// or greater than other. Revision numbers are compared first
func (h Height) Compare(other Height) int {
	switch {
	case h.RevisionNumber < other.RevisionNumber:
		return -1
	case h.RevisionNumber > other.RevisionNumber:
		return 1
	case h.RevisionHeight < other.RevisionHeight:
		return -1
	case h.RevisionHeight > other.RevisionHeight:
		return 1
	}
	return 0
}

func (h Height) LT(other Height) bool  { return h.Compare(other) < 0 }
func (h Height) LTE(other Height) bool { return h.Compare(other) <= 0 }
func (h Height) GT(other Height) bool  { return h.Compare(other) > 0 }
func (h Height) GTE(other Height) bool { return h.Compare(other) >= 0 }

func (h Height) EQ(other Height) bool {
	return h.RevisionNumber == other.RevisionNumber &&
		h.RevisionHeight == other.RevisionHeight
}

// Increment returns the next height within the same revision
func (h Height) Increment() Height {
	return NewHeight(h.RevisionNumber, h.RevisionHeight+1)
}

func (h Height) String() string {
	return fmt.Sprintf("%d-%d", h.RevisionNumber, h.RevisionHeight)
}

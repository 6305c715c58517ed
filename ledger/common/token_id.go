// Copyright 2026 Blink Labs Software
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
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/goxrpl/cbor"
)

const TokenIDSize = 24

// TokenID identifies a token issuance: the big-endian issuer sequence
// followed by the issuer account
type TokenID [TokenIDSize]byte

func NewTokenID(sequence uint32, issuer AccountID) TokenID {
	t := TokenID{}
	binary.BigEndian.PutUint32(t[:4], sequence)
	copy(t[4:], issuer[:])
	return t
}

// ParseTokenID decodes the 48-character hex form of a token issuance ID
func ParseTokenID(s string) (TokenID, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return TokenID{}, fmt.Errorf("invalid token ID %q: %w", s, err)
	}
	if len(data) != TokenIDSize {
		return TokenID{}, fmt.Errorf(
			"invalid token ID length: expected %d bytes, got %d",
			TokenIDSize,
			len(data),
		)
	}
	return TokenID(data), nil
}

func (t TokenID) Sequence() uint32 {
	return binary.BigEndian.Uint32(t[:4])
}

func (t TokenID) Issuer() AccountID {
	return NewAccountID(t[4:])
}

func (t TokenID) Bytes() []byte {
	return t[:]
}

// Compare orders token IDs by issuer, then by sequence
func (t TokenID) Compare(other TokenID) int {
	if c := t.Issuer().Compare(other.Issuer()); c != 0 {
		return c
	}
	switch a, b := t.Sequence(), other.Sequence(); {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (t TokenID) String() string {
	return hex.EncodeToString(t[:])
}

func (t TokenID) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TokenID) UnmarshalText(data []byte) error {
	tmp, err := ParseTokenID(string(data))
	if err != nil {
		return err
	}
	*t = tmp
	return nil
}

func (t TokenID) MarshalCBOR() ([]byte, error) {
	tmp := make([]byte, TokenIDSize)
	copy(tmp, t[:])
	return cbor.Encode(tmp)
}

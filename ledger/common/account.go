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
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/blinklabs-io/goxrpl/cbor"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	AccountIDSize = 20

	// AccountIDPrefix is the bech32 human-readable part for account addresses
	AccountIDPrefix = "xrpl"
)

// AccountID is the 160-bit identifier of a ledger account
type AccountID [AccountIDSize]byte

var (
	// NativeAccount is the issuer sentinel paired with the native currency
	NativeAccount = AccountID{}

	// NoAccount is the issuer placed on trust line balances, which belong to
	// neither side of the line
	NoAccount = AccountID{AccountIDSize - 1: 1}
)

var ErrInvalidAccountID = errors.New("invalid account ID")

func NewAccountID(data []byte) AccountID {
	a := AccountID{}
	copy(a[:], data)
	return a
}

// AccountIDFromPublicKey derives an account ID from a public key
func AccountIDFromPublicKey(pubKey []byte) AccountID {
	return AccountID(Blake2b160Hash(pubKey))
}

// ParseAccountID accepts a bech32 address with the account prefix or a
// 40-character hex string
func ParseAccountID(s string) (AccountID, error) {
	if len(s) == AccountIDSize*2 {
		if data, err := hex.DecodeString(s); err == nil {
			return NewAccountID(data), nil
		}
	}
	hrp, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("%w: %q: %w", ErrInvalidAccountID, s, err)
	}
	if hrp != AccountIDPrefix {
		return AccountID{}, fmt.Errorf(
			"%w: unexpected prefix %q",
			ErrInvalidAccountID,
			hrp,
		)
	}
	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return AccountID{}, fmt.Errorf("%w: %w", ErrInvalidAccountID, err)
	}
	if len(decoded) != AccountIDSize {
		return AccountID{}, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidAccountID,
			AccountIDSize,
			len(decoded),
		)
	}
	return NewAccountID(decoded), nil
}

func (a AccountID) Bytes() []byte {
	return a[:]
}

func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

func (a AccountID) Compare(other AccountID) int {
	return bytes.Compare(a[:], other[:])
}

func (a AccountID) Less(other AccountID) bool {
	return a.Compare(other) < 0
}

// String returns the bech32 address
func (a AccountID) String() string {
	// Convert data to base32 and encode as bech32
	convData, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error converting data to base32: %s", err),
		)
	}
	encoded, err := bech32.Encode(AccountIDPrefix, convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}

func (a AccountID) Hex() string {
	return hex.EncodeToString(a[:])
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(data []byte) error {
	tmp, err := ParseAccountID(string(data))
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}

func (a AccountID) MarshalCBOR() ([]byte, error) {
	tmp := make([]byte, AccountIDSize)
	copy(tmp, a[:])
	return cbor.Encode(tmp)
}

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
	"fmt"

	"github.com/blinklabs-io/goxrpl/cbor"
)

type TxType uint16

const (
	TxTypePayment                TxType = 0
	TxTypeAccountSet             TxType = 3
	TxTypeDepositPreauth         TxType = 19
	TxTypeTrustSet               TxType = 20
	TxTypeClawback               TxType = 30
	TxTypeMPTokenIssuanceCreate  TxType = 54
	TxTypeMPTokenIssuanceDestroy TxType = 55
	TxTypeMPTokenIssuanceSet     TxType = 56
	TxTypeMPTokenAuthorize       TxType = 57
)

var txTypeNames = map[TxType]string{
	TxTypePayment:                "Payment",
	TxTypeAccountSet:             "AccountSet",
	TxTypeDepositPreauth:         "DepositPreauth",
	TxTypeTrustSet:               "TrustSet",
	TxTypeClawback:               "Clawback",
	TxTypeMPTokenIssuanceCreate:  "MPTokenIssuanceCreate",
	TxTypeMPTokenIssuanceDestroy: "MPTokenIssuanceDestroy",
	TxTypeMPTokenIssuanceSet:     "MPTokenIssuanceSet",
	TxTypeMPTokenAuthorize:       "MPTokenAuthorize",
}

func (t TxType) String() string {
	if name, ok := txTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TxType(%d)", uint16(t))
}

func ParseTxType(name string) (TxType, error) {
	for t, n := range txTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown transaction type %q", name)
}

func (t TxType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TxType) UnmarshalText(data []byte) error {
	ret, err := ParseTxType(string(data))
	if err != nil {
		return err
	}
	*t = ret
	return nil
}

// TxCommon holds the fields shared by every transaction
type TxCommon struct {
	Account  AccountID `json:"Account"`
	Fee      Amount    `json:"Fee"`
	Sequence uint32    `json:"Sequence"`
	Flags    uint32    `json:"Flags,omitempty"`
}

func (c *TxCommon) Common() *TxCommon {
	return c
}

func (c *TxCommon) HasFlag(flag uint32) bool {
	return c.Flags&flag != 0
}

type Transaction interface {
	Type() TxType
	Common() *TxCommon
}

// TxHash identifies a transaction by the hash of its canonical encoding
func TxHash(tx Transaction) (Hash256, error) {
	data, err := cbor.Encode([]any{tx.Type(), tx})
	if err != nil {
		return Hash256{}, err
	}
	return Blake2b256Hash(data), nil
}

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
	"strings"

	"github.com/blinklabs-io/goxrpl/cbor"
)

const CurrencySize = 20

// Currency is a 160-bit currency code. Standard three-letter codes occupy
// bytes 12-14 with every other byte zero.
type Currency [CurrencySize]byte

var (
	// NativeCurrency is the all-zero code of the native asset
	NativeCurrency = Currency{}

	// BadCurrency is the ISO-style encoding of the native asset's ticker,
	// which is never a valid issued currency
	BadCurrency = isoCurrency("XRP")

	ErrInvalidCurrency = errors.New("invalid currency code")
)

const isoCurrencyOffset = 12

func isoCurrency(code string) Currency {
	c := Currency{}
	copy(c[isoCurrencyOffset:], code)
	return c
}

// ParseCurrency accepts "XRP", a three-character code or a 40-character hex
// code
func ParseCurrency(s string) (Currency, error) {
	switch {
	case s == "XRP":
		return NativeCurrency, nil
	case len(s) == 3:
		for _, r := range s {
			if !isISOCurrencyChar(r) {
				return Currency{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
			}
		}
		return isoCurrency(s), nil
	case len(s) == CurrencySize*2:
		data, err := hex.DecodeString(s)
		if err != nil {
			return Currency{}, fmt.Errorf("%w: %q: %w", ErrInvalidCurrency, s, err)
		}
		return Currency(data), nil
	}
	return Currency{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
}

func isISOCurrencyChar(r rune) bool {
	const extra = "?!@#$%^&*<>(){}[]|"
	return (r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') ||
		strings.ContainsRune(extra, r)
}

func (c Currency) IsNative() bool {
	return c == NativeCurrency
}

func (c Currency) isISO() bool {
	for i, b := range c {
		if i >= isoCurrencyOffset && i < isoCurrencyOffset+3 {
			if !isISOCurrencyChar(rune(b)) {
				return false
			}
			continue
		}
		if b != 0 {
			return false
		}
	}
	return true
}

func (c Currency) Bytes() []byte {
	return c[:]
}

func (c Currency) Compare(other Currency) int {
	return bytes.Compare(c[:], other[:])
}

func (c Currency) String() string {
	if c.IsNative() {
		return "XRP"
	}
	if c.isISO() && c != BadCurrency {
		return string(c[isoCurrencyOffset : isoCurrencyOffset+3])
	}
	return hex.EncodeToString(c[:])
}

func (c Currency) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Currency) UnmarshalText(data []byte) error {
	tmp, err := ParseCurrency(string(data))
	if err != nil {
		return err
	}
	*c = tmp
	return nil
}

func (c Currency) MarshalCBOR() ([]byte, error) {
	tmp := make([]byte, CurrencySize)
	copy(tmp, c[:])
	return cbor.Encode(tmp)
}

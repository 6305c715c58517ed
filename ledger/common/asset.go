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

import "fmt"

type AssetKind uint8

const (
	AssetKindCurrency AssetKind = iota
	AssetKindToken
)

func (k AssetKind) String() string {
	switch k {
	case AssetKindCurrency:
		return "currency"
	case AssetKindToken:
		return "token"
	}
	return fmt.Sprintf("AssetKind(%d)", uint8(k))
}

// Asset names a fungible asset: either a currency code or a token issuance.
// The zero value is the native currency.
type Asset struct {
	kind     AssetKind
	currency Currency
	token    TokenID
}

// NativeAsset is the native currency
var NativeAsset = Asset{}

func CurrencyAsset(c Currency) Asset {
	return Asset{kind: AssetKindCurrency, currency: c}
}

func TokenAsset(id TokenID) Asset {
	return Asset{kind: AssetKindToken, token: id}
}

func (a Asset) Kind() AssetKind {
	return a.kind
}

func (a Asset) IsCurrency() bool {
	return a.kind == AssetKindCurrency
}

func (a Asset) IsToken() bool {
	return a.kind == AssetKindToken
}

// IsNative may be called on any asset
func (a Asset) IsNative() bool {
	return a.kind == AssetKindCurrency && a.currency.IsNative()
}

func (a Asset) Currency() Currency {
	if a.kind != AssetKindCurrency {
		panic(fmt.Sprintf("asset %s is not a currency", a))
	}
	return a.currency
}

func (a Asset) TokenID() TokenID {
	if a.kind != AssetKindToken {
		panic(fmt.Sprintf("asset %s is not a token", a))
	}
	return a.token
}

// Comparable reports whether Compare and Equal are defined for the pair
func (a Asset) Comparable(other Asset) bool {
	return a.kind == other.kind
}

// Compare orders assets of the same kind. It panics with an
// AssetKindMismatchError when the kinds differ.
func (a Asset) Compare(other Asset) int {
	if a.kind != other.kind {
		panic(AssetKindMismatchError{Left: a, Right: other})
	}
	if a.kind == AssetKindToken {
		return a.token.Compare(other.token)
	}
	return a.currency.Compare(other.currency)
}

// Equal panics like Compare when the kinds differ
func (a Asset) Equal(other Asset) bool {
	return a.Compare(other) == 0
}

func (a Asset) String() string {
	if a.kind == AssetKindToken {
		return a.token.String()
	}
	return a.currency.String()
}

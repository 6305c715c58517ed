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

// Issue is an asset together with the account that issues it. Native issues
// always carry NativeAccount and token issues always carry the account
// embedded in the token ID.
type Issue struct {
	asset  Asset
	issuer AccountID
}

// NativeIssue is the issue of the native currency
var NativeIssue = Issue{}

func NewIssue(currency Currency, issuer AccountID) Issue {
	return Issue{asset: CurrencyAsset(currency), issuer: issuer}
}

func TokenIssue(id TokenID) Issue {
	return Issue{asset: TokenAsset(id), issuer: id.Issuer()}
}

func (i Issue) Asset() Asset {
	return i.asset
}

func (i Issue) Issuer() AccountID {
	return i.issuer
}

func (i Issue) Currency() Currency {
	return i.asset.Currency()
}

func (i Issue) TokenID() TokenID {
	return i.asset.TokenID()
}

func (i Issue) IsNative() bool {
	return i.asset.IsNative()
}

func (i Issue) IsToken() bool {
	return i.asset.IsToken()
}

// WithIssuer returns the issue with its issuer replaced. The native issue is
// returned unchanged. Token issues derive their issuer from the token ID, so
// calling this on one panics with ErrTokenIssuerImmutable.
func (i Issue) WithIssuer(issuer AccountID) Issue {
	if i.asset.IsToken() {
		panic(ErrTokenIssuerImmutable)
	}
	if i.asset.IsNative() {
		return i
	}
	i.issuer = issuer
	return i
}

// IsConsistent reports whether a native asset is paired with the native
// issuer sentinel and a non-native asset with a real account
func (i Issue) IsConsistent() bool {
	return i.asset.IsNative() == (i.issuer == NativeAccount)
}

// Equal compares asset and, for non-native issues, issuer. Issues of different
// asset kinds are never equal.
func (i Issue) Equal(other Issue) bool {
	if !i.asset.Comparable(other.asset) || !i.asset.Equal(other.asset) {
		return false
	}
	return i.asset.IsNative() || i.issuer == other.issuer
}

func (i Issue) String() string {
	if i.asset.IsCurrency() && !i.asset.IsNative() {
		return i.asset.String() + "/" + i.issuer.String()
	}
	return i.asset.String()
}

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

package common_test

import (
	"encoding/json"
	"testing"

	"github.com/blinklabs-io/goxrpl/internal/test"
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountIDRoundTrip(t *testing.T) {
	acct := test.Account("alice")
	encoded := acct.String()
	assert.Contains(t, encoded, common.AccountIDPrefix+"1")
	parsed, err := common.ParseAccountID(encoded)
	require.NoError(t, err)
	assert.Equal(t, acct, parsed)
	parsed, err = common.ParseAccountID(acct.Hex())
	require.NoError(t, err)
	assert.Equal(t, acct, parsed)
	_, err = common.ParseAccountID("nope")
	assert.ErrorIs(t, err, common.ErrInvalidAccountID)
}

func TestCurrency(t *testing.T) {
	usd, err := common.ParseCurrency("USD")
	require.NoError(t, err)
	assert.Equal(t, "USD", usd.String())
	assert.False(t, usd.IsNative())
	native, err := common.ParseCurrency("XRP")
	require.NoError(t, err)
	assert.True(t, native.IsNative())
	assert.Equal(t, "XRP", native.String())
	assert.NotEqual(t, "XRP", common.BadCurrency.String())
	hexCode := "0158415500000000c1f76ff6ecb0bac600000000"
	custom, err := common.ParseCurrency(hexCode)
	require.NoError(t, err)
	assert.Equal(t, hexCode, custom.String())
	_, err = common.ParseCurrency("US")
	assert.ErrorIs(t, err, common.ErrInvalidCurrency)
}

func TestTokenIDPacking(t *testing.T) {
	issuer := test.Account("issuer")
	id := common.NewTokenID(0x01020304, issuer)
	assert.Equal(t, []byte{1, 2, 3, 4}, id.Bytes()[:4])
	assert.Equal(t, issuer.Bytes(), id.Bytes()[4:])
	assert.Equal(t, uint32(0x01020304), id.Sequence())
	assert.Equal(t, issuer, id.Issuer())
	assert.Len(t, id.String(), common.TokenIDSize*2)

	parsed, err := common.ParseTokenID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	data, err := json.Marshal(id)
	require.NoError(t, err)
	var decoded common.TokenID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)

	_, err = common.ParseTokenID("0102")
	assert.Error(t, err)
}

func TestTokenIDOrdering(t *testing.T) {
	a := test.Account("a")
	b := test.Account("b")
	low, high := a, b
	if high.Less(low) {
		low, high = high, low
	}
	// Account dominates sequence
	assert.Equal(t, -1, common.NewTokenID(99, low).Compare(common.NewTokenID(1, high)))
	assert.Equal(t, -1, common.NewTokenID(1, low).Compare(common.NewTokenID(2, low)))
	assert.Equal(t, 0, common.NewTokenID(5, high).Compare(common.NewTokenID(5, high)))
}

func TestAssetComparison(t *testing.T) {
	usd := common.CurrencyAsset(test.Currency("USD"))
	eur := common.CurrencyAsset(test.Currency("EUR"))
	token := common.TokenAsset(common.NewTokenID(1, test.Account("issuer")))

	assert.True(t, common.NativeAsset.IsNative())
	assert.False(t, usd.IsNative())
	assert.False(t, token.IsNative())
	assert.True(t, usd.Comparable(eur))
	assert.False(t, usd.Comparable(token))
	assert.Equal(t, 1, usd.Compare(eur))
	assert.True(t, token.Equal(token))

	assert.PanicsWithValue(
		t,
		common.AssetKindMismatchError{Left: usd, Right: token},
		func() { usd.Compare(token) },
	)
	assert.Panics(t, func() { token.Equal(common.NativeAsset) })
	assert.Panics(t, func() { usd.TokenID() })
	assert.Panics(t, func() { token.Currency() })
}

func TestIssue(t *testing.T) {
	issuer := test.Account("issuer")
	other := test.Account("other")
	usd := common.NewIssue(test.Currency("USD"), issuer)
	id := common.NewTokenID(3, issuer)
	token := common.TokenIssue(id)

	t.Run("consistency", func(t *testing.T) {
		assert.True(t, common.NativeIssue.IsConsistent())
		assert.True(t, usd.IsConsistent())
		assert.True(t, token.IsConsistent())
		assert.False(t, common.NewIssue(test.Currency("USD"), common.NativeAccount).IsConsistent())
		assert.False(t, common.NewIssue(common.NativeCurrency, issuer).IsConsistent())
	})
	t.Run("token issuer is derived", func(t *testing.T) {
		assert.Equal(t, issuer, token.Issuer())
		assert.PanicsWithValue(t, common.ErrTokenIssuerImmutable, func() {
			token.WithIssuer(other)
		})
	})
	t.Run("native issuer never changes", func(t *testing.T) {
		assert.Equal(t, common.NativeIssue, common.NativeIssue.WithIssuer(other))
	})
	t.Run("equality", func(t *testing.T) {
		assert.True(t, usd.Equal(common.NewIssue(test.Currency("USD"), issuer)))
		assert.False(t, usd.Equal(usd.WithIssuer(other)))
		assert.False(t, usd.Equal(token))
		assert.True(t, token.Equal(common.TokenIssue(id)))
	})
}

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

	"github.com/blinklabs-io/goxrpl/cbor"
	"github.com/blinklabs-io/goxrpl/internal/test"
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testIssuer = test.Account("gateway")
	testUSD    = common.NewIssue(test.Currency("USD"), testIssuer)
	testToken  = common.NewTokenID(7, testIssuer)
)

func TestIssuedAmountNormalization(t *testing.T) {
	testDefs := []struct {
		name     string
		mantissa int64
		exponent int32
		text     string
	}{
		{name: "integer", mantissa: 10, exponent: 0, text: "10"},
		{name: "fraction", mantissa: 125, exponent: -2, text: "1.25"},
		{name: "negative", mantissa: -5, exponent: -1, text: "-0.5"},
		{name: "large", mantissa: 1, exponent: 20, text: "100000000000000000000"},
		{name: "zero", mantissa: 0, exponent: 5, text: "0"},
		{name: "underflow", mantissa: 1, exponent: -200, text: "0"},
	}
	for _, td := range testDefs {
		t.Run(td.name, func(t *testing.T) {
			amt := common.IssuedAmount(td.mantissa, td.exponent, testUSD)
			assert.Equal(t, td.text, amt.ValueText())
			if !amt.IsZero() {
				m := amt.Mantissa()
				if m < 0 {
					m = -m
				}
				assert.GreaterOrEqual(t, m, int64(1_000_000_000_000_000))
				assert.LessOrEqual(t, m, int64(9_999_999_999_999_999))
			}
		})
	}
}

func TestIssuedAmountOverflowPanics(t *testing.T) {
	assert.PanicsWithValue(t, common.ErrAmountOverflow, func() {
		common.IssuedAmount(1, 200, testUSD)
	})
}

func TestParseIssuedAmount(t *testing.T) {
	testDefs := []struct {
		input string
		text  string
		err   bool
	}{
		{input: "1000", text: "1000"},
		{input: "-12.50", text: "-12.5"},
		{input: "0.001", text: "0.001"},
		{input: "1e3", text: "1000"},
		{input: "2.5E-2", text: "0.025"},
		{input: "", err: true},
		{input: "1.2.3", err: true},
		{input: "abc", err: true},
		{input: "1e999999", err: true},
	}
	for _, td := range testDefs {
		amt, err := common.ParseIssuedAmount(td.input, testUSD)
		if td.err {
			assert.Error(t, err, "input %q", td.input)
			continue
		}
		require.NoError(t, err, "input %q", td.input)
		assert.Equal(t, td.text, amt.ValueText(), "input %q", td.input)
	}
}

func TestAmountArithmetic(t *testing.T) {
	t.Run("native", func(t *testing.T) {
		a := common.NativeAmount(1500)
		b := common.NativeAmount(500)
		assert.Equal(t, int64(2000), a.Add(b).Drops())
		assert.Equal(t, int64(1000), a.Sub(b).Drops())
		assert.Equal(t, 1, a.Compare(b))
		assert.True(t, b.Less(a))
		assert.Equal(t, -1, b.Sub(a).Signum())
	})
	t.Run("issued", func(t *testing.T) {
		a := test.IOU(1000, "USD", testIssuer)
		b := common.IssuedAmount(25, -1, testUSD)
		assert.Equal(t, "1002.5", a.Add(b).ValueText())
		assert.Equal(t, "997.5", a.Sub(b).ValueText())
		assert.True(t, a.Sub(a).IsZero())
		assert.Equal(t, 1, a.Compare(b))
		assert.Equal(t, -1, b.Negate().Compare(b))
		assert.Equal(t, 0, a.Compare(test.IOU(1000, "USD", testIssuer)))
	})
	t.Run("token", func(t *testing.T) {
		a := common.TokenAmount(300, testToken)
		b := common.TokenAmount(100, testToken)
		assert.Equal(t, int64(200), a.Sub(b).TokenValue())
		assert.True(t, common.MinAmount(a, b).Equal(b))
	})
	t.Run("native overflow", func(t *testing.T) {
		assert.PanicsWithValue(t, common.ErrAmountOverflow, func() {
			common.NativeAmount(1<<62).Add(common.NativeAmount(1 << 62))
		})
	})
}

func TestAmountMixedIssuePanics(t *testing.T) {
	usd := test.IOU(10, "USD", testIssuer)
	eur := test.IOU(10, "EUR", testIssuer)
	token := common.TokenAmount(10, testToken)
	native := common.NativeAmount(10)
	testDefs := []struct {
		name string
		fn   func()
	}{
		{name: "add currencies", fn: func() { usd.Add(eur) }},
		{name: "subtract token from issued", fn: func() { usd.Sub(token) }},
		{name: "compare native with token", fn: func() { native.Compare(token) }},
		{name: "compare issuers", fn: func() { usd.Compare(test.IOU(10, "USD", test.Account("other"))) }},
	}
	for _, td := range testDefs {
		t.Run(td.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				_, ok := r.(common.MixedIssueError)
				assert.True(t, ok, "unexpected panic value %v", r)
			}()
			td.fn()
		})
	}
	// Equality never panics
	assert.False(t, usd.Equal(token))
	assert.False(t, usd.Equal(eur))
}

func TestAmountWithIssuer(t *testing.T) {
	usd := test.IOU(10, "USD", testIssuer)
	holder := test.Account("holder")
	assert.Equal(t, holder, usd.WithIssuer(holder).Issuer())
	native := common.NativeAmount(5)
	assert.Equal(t, common.NativeAccount, native.WithIssuer(holder).Issuer())
	assert.PanicsWithValue(t, common.ErrTokenIssuerImmutable, func() {
		common.TokenAmount(5, testToken).WithIssuer(holder)
	})
}

func TestAmountIsLegalNet(t *testing.T) {
	assert.True(t, common.NativeAmount(common.MaxNativeDrops).IsLegalNet())
	assert.False(t, common.NativeAmount(common.MaxNativeDrops+1).IsLegalNet())
	assert.True(t, common.TokenAmount(1<<62, testToken).IsLegalNet())
	assert.True(t, test.IOU(1, "USD", testIssuer).IsLegalNet())
}

func TestAmountJSON(t *testing.T) {
	testDefs := []struct {
		name   string
		amount common.Amount
	}{
		{name: "native", amount: common.NativeAmount(123456)},
		{name: "issued", amount: common.IssuedAmount(-15, -1, testUSD)},
		{name: "token", amount: common.TokenAmount(42, testToken)},
	}
	for _, td := range testDefs {
		t.Run(td.name, func(t *testing.T) {
			data, err := json.Marshal(td.amount)
			require.NoError(t, err)
			var decoded common.Amount
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.True(t, td.amount.Equal(decoded), "got %s, wanted %s", decoded, td.amount)
		})
	}
	data, err := json.Marshal(common.NativeAmount(10))
	require.NoError(t, err)
	assert.JSONEq(t, `"10"`, string(data))

	var bad common.Amount
	assert.Error(t, json.Unmarshal([]byte(`{"value":"1","currency":"XRP","issuer":"`+testIssuer.String()+`"}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"value":"1","currency":"USD"}`), &bad))
}

func TestAmountCBOR(t *testing.T) {
	for _, amt := range []common.Amount{
		common.NativeAmount(-77),
		common.IssuedAmount(3333, -3, testUSD),
		common.IssuedAmount(0, 0, testUSD),
		common.TokenAmount(1, testToken),
	} {
		data, err := cbor.Encode(amt)
		require.NoError(t, err)
		var decoded common.Amount
		_, err = cbor.Decode(data, &decoded)
		require.NoError(t, err)
		assert.True(t, amt.Equal(decoded), "got %s, wanted %s", decoded, amt)
		assert.Equal(t, amt.Kind(), decoded.Kind())
	}
}

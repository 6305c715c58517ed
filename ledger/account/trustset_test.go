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

package account_test

import (
	"testing"

	"github.com/blinklabs-io/goxrpl/internal/test"
	"github.com/blinklabs-io/goxrpl/internal/test/env"
	"github.com/blinklabs-io/goxrpl/ledger/account"
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usd = test.Currency("USD")

func trustSet(acct common.AccountID, limit common.Amount, flags uint32) *account.TrustSet {
	return &account.TrustSet{
		TxCommon:    common.TxCommon{Account: acct, Flags: flags},
		LimitAmount: limit,
	}
}

func TestTrustSetPreflight(t *testing.T) {
	testDefs := []struct {
		name     string
		limit    common.Amount
		flags    uint32
		expected common.Result
	}{
		{name: "unknown flag", limit: test.IOU(10, "USD", gw), flags: 0x1, expected: common.TemInvalidFlag},
		{name: "native limit", limit: common.XRP(10), expected: common.TemBadLimit},
		{name: "token limit", limit: common.TokenAmount(10, common.NewTokenID(1, gw)), expected: common.TemBadLimit},
		{name: "bad currency", limit: common.IssuedAmount(10, 0, common.NewIssue(common.BadCurrency, gw)), expected: common.TemBadCurrency},
		{name: "negative", limit: test.IOU(-10, "USD", gw), expected: common.TemBadLimit},
		{name: "no issuer", limit: test.IOU(10, "USD", common.AccountID{}), expected: common.TemDstNeeded},
		{name: "self", limit: test.IOU(10, "USD", alice), expected: common.TemDstIsSrc},
		{name: "valid", limit: test.IOU(10, "USD", gw), expected: common.TesSuccess},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			tx := trustSet(alice, testDef.limit, testDef.flags)
			assert.Equal(t, testDef.expected, tx.Preflight(common.PreflightContext{Rules: common.AllRules()}))
		})
	}
}

func TestTrustSetLifecycle(t *testing.T) {
	e := env.New(t)
	e.Fund(common.XRP(1000), gw, alice)

	e.Apply(trustSet(alice, test.IOU(0, "USD", gw), 0), common.TecNoLineRedundant)
	e.Apply(trustSet(alice, test.IOU(100, "USD", gw), 0), common.TesSuccess)
	line := e.Line(alice, gw, usd)
	require.NotNil(t, line)
	assert.Equal(t, test.IOU(100, "USD", alice), line.LimitFor(alice))
	reserve, _ := line.SideFlags(alice)
	assert.True(t, line.HasFlag(reserve))
	assert.Equal(t, uint32(1), e.OwnerCount(alice))
	assert.Equal(t, uint32(0), e.OwnerCount(gw))

	e.Apply(trustSet(alice, test.IOU(50, "USD", gw), 0), common.TesSuccess)
	assert.Equal(t, test.IOU(50, "USD", alice), e.Line(alice, gw, usd).LimitFor(alice))

	e.Apply(trustSet(alice, test.IOU(0, "USD", gw), 0), common.TesSuccess)
	assert.Nil(t, e.Line(alice, gw, usd))
	assert.Equal(t, uint32(0), e.OwnerCount(alice))
}

func TestTrustSetKeepsLineWithBalance(t *testing.T) {
	e := env.New(t)
	e.Fund(common.XRP(1000), gw, alice)
	e.Trust(alice, test.IOU(100, "USD", gw))
	e.Pay(gw, alice, test.IOU(10, "USD", gw))

	e.Apply(trustSet(alice, test.IOU(0, "USD", gw), 0), common.TesSuccess)
	line := e.Line(alice, gw, usd)
	require.NotNil(t, line)
	assert.True(t, line.LimitFor(alice).IsZero())
	assert.Equal(t, uint32(1), e.OwnerCount(alice))

	// Paying the balance back leaves the line in its default state
	res := e.Pay(alice, gw, test.IOU(10, "USD", gw))
	assert.Equal(t, common.TesSuccess, res.Result)
	assert.Nil(t, e.Line(alice, gw, usd))
	assert.Equal(t, uint32(0), e.OwnerCount(alice))
}

func TestTrustSetReserve(t *testing.T) {
	e := env.New(t)
	poor := test.Account("poor")
	e.Fund(common.XRP(1000), gw)
	e.Fund(common.XRP(15), poor)

	// Two lines are free of reserve
	e.Apply(trustSet(poor, test.IOU(10, "USD", gw), 0), common.TesSuccess)
	e.Apply(trustSet(poor, test.IOU(10, "EUR", gw), 0), common.TesSuccess)
	e.Apply(trustSet(poor, test.IOU(10, "GBP", gw), 0), common.TecNoLineInsufReserve)
	assert.Nil(t, e.Line(poor, gw, test.Currency("GBP")))
	assert.Equal(t, uint32(2), e.OwnerCount(poor))
}

func TestTrustSetMissingPeer(t *testing.T) {
	e := env.New(t)
	e.Fund(common.XRP(1000), alice)
	e.Apply(trustSet(alice, test.IOU(10, "USD", gw), 0), common.TecNoDst)
}

func TestTrustSetFreeze(t *testing.T) {
	e := env.New(t)
	e.Fund(common.XRP(1000), gw, alice)
	e.Trust(alice, test.IOU(100, "USD", gw))

	e.Apply(trustSet(gw, test.IOU(0, "USD", alice), common.TfSetFreeze), common.TesSuccess)
	line := e.Line(alice, gw, usd)
	require.NotNil(t, line)
	_, freeze := line.SideFlags(gw)
	assert.True(t, line.HasFlag(freeze))
	// The freeze keeps the issuer side reserved
	assert.Equal(t, uint32(1), e.OwnerCount(gw))

	e.Apply(trustSet(gw, test.IOU(0, "USD", alice), common.TfClearFreeze), common.TesSuccess)
	line = e.Line(alice, gw, usd)
	require.NotNil(t, line)
	assert.False(t, line.HasFlag(freeze))
	assert.Equal(t, uint32(0), e.OwnerCount(gw))
}

func TestTrustSetFreezeUnderNoFreeze(t *testing.T) {
	e := env.New(t)
	e.Fund(common.XRP(1000), gw, alice)
	e.Trust(alice, test.IOU(100, "USD", gw))
	e.SetFlag(gw, common.AsfNoFreeze)
	e.Apply(trustSet(gw, test.IOU(0, "USD", alice), common.TfSetFreeze), common.TecNoPermission)
	// Setting and clearing together is not a freeze
	e.Apply(trustSet(gw, test.IOU(0, "USD", alice), common.TfSetFreeze|common.TfClearFreeze), common.TesSuccess)
}

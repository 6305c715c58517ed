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

package clawback_test

import (
	"testing"

	"github.com/blinklabs-io/goxrpl/internal/test"
	"github.com/blinklabs-io/goxrpl/internal/test/env"
	"github.com/blinklabs-io/goxrpl/ledger/account"
	"github.com/blinklabs-io/goxrpl/ledger/clawback"
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	gw     = test.Account("gateway")
	holder = test.Account("holder")
	usd    = test.Currency("USD")
)

// newFundedLine returns an env where holder trusts gw for limit USD and holds
// balance of it
func newFundedLine(t *testing.T, limit, balance int64) *env.Env {
	e := env.New(t)
	e.Fund(common.XRP(1000), gw, holder)
	e.SetFlag(gw, common.AsfAllowTrustLineClawback)
	e.Trust(holder, test.IOU(limit, "USD", gw))
	if balance > 0 {
		require.Equal(t, common.TesSuccess, e.Pay(gw, holder, test.IOU(balance, "USD", gw)).Result)
	}
	return e
}

func claw(issuer, from common.AccountID, value int64, flags uint32) *clawback.Clawback {
	return &clawback.Clawback{
		TxCommon: common.TxCommon{Account: issuer, Flags: flags},
		Amount:   test.IOU(value, "USD", from),
	}
}

func TestClawbackPartial(t *testing.T) {
	e := newFundedLine(t, 5000, 1000)
	e.Apply(claw(gw, holder, 400, 0), common.TesSuccess)
	assert.Equal(t, test.IOU(600, "USD", gw), e.IOUBalance(holder, gw, usd))
}

func TestClawbackOvershoot(t *testing.T) {
	e := newFundedLine(t, 5000, 1000)
	e.Apply(claw(gw, holder, 2000, 0), common.TesSuccess)
	bal := e.IOUBalance(holder, gw, usd)
	assert.True(t, bal.IsZero(), "balance %s", bal)
	// The holder's limit keeps the line alive
	require.NotNil(t, e.Line(holder, gw, usd))
	assert.Equal(t, uint32(1), e.OwnerCount(holder))

	// Nothing left to claw back
	e.Apply(claw(gw, holder, 1, 0), common.TecNoLine)

	e.Trust(holder, test.IOU(0, "USD", gw))
	assert.Nil(t, e.Line(holder, gw, usd))
	assert.Equal(t, uint32(0), e.OwnerCount(holder))
	assert.True(t, view.DirIsEmpty(e.Store(), common.OwnerDirKeylet(holder)))
	assert.True(t, view.DirIsEmpty(e.Store(), common.OwnerDirKeylet(gw)))
}

func TestClawbackDeletesDefaultLine(t *testing.T) {
	e := newFundedLine(t, 5000, 1000)
	// Dropping the limit leaves the line held open by the balance alone
	e.Trust(holder, test.IOU(0, "USD", gw))
	require.NotNil(t, e.Line(holder, gw, usd))
	require.Equal(t, uint32(1), e.OwnerCount(holder))

	e.Apply(claw(gw, holder, 1000, 0), common.TesSuccess)
	assert.Nil(t, e.Line(holder, gw, usd))
	assert.Equal(t, uint32(0), e.OwnerCount(holder))
	assert.Equal(t, uint32(0), e.OwnerCount(gw))
}

func TestClawbackSideCorrectness(t *testing.T) {
	a := test.Account("a")
	b := test.Account("b")
	e := env.New(t)
	e.Fund(common.XRP(1000), a, b)
	e.SetFlag(a, common.AsfAllowTrustLineClawback)
	e.SetFlag(b, common.AsfAllowTrustLineClawback)
	e.Trust(a, test.IOU(500, "USD", b))
	e.Trust(b, test.IOU(500, "USD", a))
	// b issues to a, so a is owed on the line
	require.Equal(t, common.TesSuccess, e.Pay(b, a, test.IOU(100, "USD", b)).Result)

	e.Apply(claw(a, b, 10, 0), common.TecNoPermission)
	e.Apply(claw(b, a, 10, 0), common.TesSuccess)
	assert.Equal(t, test.IOU(90, "USD", b), e.IOUBalance(a, b, usd))

	// Once a is in debt instead the roles swap
	require.Equal(t, common.TesSuccess, e.Pay(a, b, test.IOU(90, "USD", a)).Result)
	require.Equal(t, common.TesSuccess, e.Pay(a, b, test.IOU(50, "USD", a)).Result)
	assert.Equal(t, test.IOU(50, "USD", a), e.IOUBalance(b, a, usd))
	e.Apply(claw(b, a, 10, 0), common.TecNoPermission)
	e.Apply(claw(a, b, 10, 0), common.TesSuccess)
	assert.Equal(t, test.IOU(40, "USD", a), e.IOUBalance(b, a, usd))
}

func TestClawbackFreeze(t *testing.T) {
	e := newFundedLine(t, 5000, 1000)
	e.Apply(claw(gw, holder, 300, common.TfSetFreeze), common.TesSuccess)
	assert.Equal(t, test.IOU(700, "USD", gw), e.IOUBalance(holder, gw, usd))
	assert.True(t, view.IsFrozen(e.Store(), holder, usd, gw))

	// A frozen balance can still be clawed back and stays frozen
	e.Apply(claw(gw, holder, 100, 0), common.TesSuccess)
	assert.Equal(t, test.IOU(600, "USD", gw), e.IOUBalance(holder, gw, usd))
	assert.True(t, view.IsFrozen(e.Store(), holder, usd, gw))

	e.Apply(claw(gw, holder, 100, common.TfClearFreeze), common.TesSuccess)
	assert.False(t, view.IsFrozen(e.Store(), holder, usd, gw))
}

func TestClawbackPreflight(t *testing.T) {
	testDefs := []struct {
		name     string
		flags    uint32
		amount   common.Amount
		disabled bool
		expected common.Result
	}{
		{name: "disabled", amount: test.IOU(1, "USD", holder), disabled: true, expected: common.TemDisabled},
		{name: "bad flag", flags: common.TfPartialPayment, amount: test.IOU(1, "USD", holder), expected: common.TemInvalidFlag},
		{name: "native", amount: common.XRP(1), expected: common.TemBadAmount},
		{name: "token", amount: common.TokenAmount(1, common.NewTokenID(1, gw)), expected: common.TemBadAmount},
		{name: "zero", amount: test.IOU(0, "USD", holder), expected: common.TemBadAmount},
		{name: "negative", amount: test.IOU(-5, "USD", holder), expected: common.TemBadAmount},
		{name: "holder is issuer", amount: test.IOU(1, "USD", gw), expected: common.TemBadAmount},
		{name: "valid", flags: common.TfSetFreeze, amount: test.IOU(1, "USD", holder), expected: common.TesSuccess},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			rules := common.AllRules()
			if testDef.disabled {
				rules = rules.Without(common.FeatureClawback)
			}
			tx := &clawback.Clawback{
				TxCommon: common.TxCommon{Account: gw, Flags: testDef.flags},
				Amount:   testDef.amount,
			}
			assert.Equal(t, testDef.expected, tx.Preflight(common.PreflightContext{Rules: rules}))
		})
	}
}

func TestClawbackPreclaim(t *testing.T) {
	e := env.New(t)
	e.Fund(common.XRP(1000), gw, holder)
	stranger := test.Account("stranger")

	e.Trust(holder, test.IOU(100, "USD", gw))
	require.Equal(t, common.TesSuccess, e.Pay(gw, holder, test.IOU(10, "USD", gw)).Result)
	// Issuers that never opted in cannot claw back
	e.Apply(claw(gw, holder, 5, 0), common.TecNoPermission)

	other := test.Account("other-gateway")
	e.Fund(common.XRP(1000), other)
	e.SetFlag(other, common.AsfAllowTrustLineClawback)
	e.Apply(claw(other, stranger, 5, 0), common.TerNoAccount)
	e.Apply(claw(other, holder, 5, 0), common.TecNoLine)
	// An empty line has nothing to recover
	e.Trust(holder, test.IOU(100, "USD", other))
	e.Apply(claw(other, holder, 5, 0), common.TecNoLine)
}

func TestClawbackFlagNeedsEmptyOwnerDirectory(t *testing.T) {
	e := env.New(t)
	e.Fund(common.XRP(1000), gw, holder)
	e.Trust(gw, test.IOU(100, "USD", holder))
	e.Apply(&account.Set{
		TxCommon: common.TxCommon{Account: gw},
		SetFlag:  common.AsfAllowTrustLineClawback,
	}, common.TecOwners)
}

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

package view_test

import (
	"math"
	"testing"

	"github.com/blinklabs-io/goxrpl/internal/test"
	test_ledger "github.com/blinklabs-io/goxrpl/internal/test/ledger"
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenFixture struct {
	sb                *view.Sandbox
	id                common.TokenID
	issuer, bob, carl common.AccountID
}

func newTokenFixture(flags uint32, fee uint16, maxAmount *uint64) tokenFixture {
	issuer := test.Account("issuer")
	bob := test.Account("bob")
	carl := test.Account("carl")
	issuance := common.NewMPTokenIssuance(issuer, 7)
	issuance.Flags = flags
	if fee > 0 {
		issuance.TransferFee = &fee
	}
	issuance.MaximumAmount = maxAmount
	id := issuance.TokenID()
	base := test_ledger.NewMockView(
		common.NewAccountRoot(issuer, common.XRP(100), 8),
		common.NewAccountRoot(bob, common.XRP(100), 1),
		common.NewAccountRoot(carl, common.XRP(100), 1),
		issuance,
		common.NewMPToken(id, bob),
		common.NewMPToken(id, carl),
	)
	return tokenFixture{
		sb:     view.NewSandbox(base),
		id:     id,
		issuer: issuer,
		bob:    bob,
		carl:   carl,
	}
}

func (f tokenFixture) outstanding() uint64 {
	return common.ReadAs[*common.MPTokenIssuance](f.sb, common.IssuanceKeylet(f.id)).OutstandingAmount
}

func (f tokenFixture) holds(account common.AccountID) int64 {
	return view.TokenHolds(f.sb, f.id, account, true).TokenValue()
}

func TestTransferFee(t *testing.T) {
	testDefs := []struct {
		value    uint64
		fee      uint16
		expected uint64
	}{
		{value: 100, fee: 0, expected: 0},
		{value: 100, fee: 1000, expected: 1},
		{value: 150, fee: 1000, expected: 2},
		{value: 1, fee: 1, expected: 1},
		{value: 0, fee: 50000, expected: 0},
		{value: 1000, fee: 50000, expected: 500},
		{value: math.MaxInt64, fee: 50000, expected: math.MaxInt64/2 + 1},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.expected, view.TransferFee(testDef.value, testDef.fee), "value %d fee %d", testDef.value, testDef.fee)
	}
}

func TestTokenCreditMintAndBurn(t *testing.T) {
	f := newTokenFixture(common.LsfMPTCanTransfer, 0, nil)
	require.Equal(t, common.TesSuccess, view.TokenCredit(f.sb, f.issuer, f.bob, common.TokenAmount(100, f.id)))
	assert.Equal(t, int64(100), f.holds(f.bob))
	assert.Equal(t, uint64(100), f.outstanding())

	require.Equal(t, common.TesSuccess, view.TokenCredit(f.sb, f.bob, f.issuer, common.TokenAmount(40, f.id)))
	assert.Equal(t, int64(60), f.holds(f.bob))
	assert.Equal(t, uint64(60), f.outstanding())

	assert.Equal(t, common.TecInsufficientFunds, view.TokenCredit(f.sb, f.bob, f.issuer, common.TokenAmount(61, f.id)))
	assert.Equal(t, common.TefInternal, view.TokenCredit(f.sb, f.bob, f.issuer, common.TokenAmount(0, f.id)))
}

func TestTokenCreditMaximum(t *testing.T) {
	maxAmount := uint64(100)
	f := newTokenFixture(0, 0, &maxAmount)
	require.Equal(t, common.TesSuccess, view.TokenCredit(f.sb, f.issuer, f.bob, common.TokenAmount(100, f.id)))
	assert.Equal(t, common.TecPathPartial, view.TokenCredit(f.sb, f.issuer, f.carl, common.TokenAmount(1, f.id)))
	assert.Equal(t, uint64(100), f.outstanding())
}

func TestTokenCreditBetweenHolders(t *testing.T) {
	f := newTokenFixture(common.LsfMPTCanTransfer, 10000, nil)
	require.Equal(t, common.TesSuccess, view.TokenCredit(f.sb, f.issuer, f.bob, common.TokenAmount(1000, f.id)))

	require.Equal(t, common.TesSuccess, view.TokenCredit(f.sb, f.bob, f.carl, common.TokenAmount(100, f.id)))
	// Ten percent fee burned from the sender
	assert.Equal(t, int64(890), f.holds(f.bob))
	assert.Equal(t, int64(100), f.holds(f.carl))
	assert.Equal(t, uint64(990), f.outstanding())

	assert.Equal(t, common.TecInsufficientFunds, view.TokenCredit(f.sb, f.bob, f.carl, common.TokenAmount(810, f.id)))
}

func TestTokenAuthChecks(t *testing.T) {
	f := newTokenFixture(common.LsfMPTRequireAuth, 0, nil)
	dave := test.Account("dave")
	assert.Equal(t, common.TesSuccess, view.RequireAuth(f.sb, f.id, f.issuer))
	assert.Equal(t, common.TecNoAuth, view.RequireAuth(f.sb, f.id, f.bob))
	assert.Equal(t, common.TecNoAuth, view.RequireAuth(f.sb, f.id, dave))

	token := common.PeekAs[*common.MPToken](f.sb, common.MPTokenKeylet(f.id, f.bob))
	token.Flags |= common.LsfMPTAuthorized
	f.sb.Update(token)
	assert.Equal(t, common.TesSuccess, view.RequireAuth(f.sb, f.id, f.bob))

	missing := common.NewTokenID(99, f.issuer)
	assert.Equal(t, common.TecObjectNotFound, view.RequireAuth(f.sb, missing, f.bob))
	assert.Equal(t, common.TecObjectNotFound, view.CanTransfer(f.sb, missing, f.bob, f.carl))

	// Without the transfer flag only the issuer may be a party
	assert.Equal(t, common.TecNoAuth, view.CanTransfer(f.sb, f.id, f.bob, f.carl))
	assert.Equal(t, common.TesSuccess, view.CanTransfer(f.sb, f.id, f.bob, f.issuer))
	assert.Equal(t, common.TesSuccess, view.CanTransfer(f.sb, f.id, f.issuer, f.carl))
}

func TestTokenLocked(t *testing.T) {
	f := newTokenFixture(common.LsfMPTCanLock, 0, nil)
	require.Equal(t, common.TesSuccess, view.TokenCredit(f.sb, f.issuer, f.bob, common.TokenAmount(5, f.id)))
	assert.False(t, view.IsTokenLocked(f.sb, f.id, f.bob))

	token := common.PeekAs[*common.MPToken](f.sb, common.MPTokenKeylet(f.id, f.bob))
	token.Flags |= common.LsfMPTLocked
	f.sb.Update(token)
	assert.True(t, view.IsTokenLocked(f.sb, f.id, f.bob))
	assert.False(t, view.IsTokenLocked(f.sb, f.id, f.carl))
	assert.Equal(t, int64(0), view.TokenHolds(f.sb, f.id, f.bob, false).TokenValue())
	assert.Equal(t, int64(5), view.TokenHolds(f.sb, f.id, f.bob, true).TokenValue())

	issuance := common.PeekAs[*common.MPTokenIssuance](f.sb, common.IssuanceKeylet(f.id))
	issuance.Flags |= common.LsfMPTLocked
	f.sb.Update(issuance)
	assert.True(t, view.IsTokenLocked(f.sb, f.id, f.carl))
}

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

package env

import (
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/goxrpl/ledger/account"
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/engine"
	"github.com/blinklabs-io/goxrpl/ledger/mptoken"
	"github.com/blinklabs-io/goxrpl/ledger/payment"
)

// CreateIssuance creates an issuance owned by issuer and returns its ID
func (e *Env) CreateIssuance(issuer common.AccountID, flags uint32, maximum *uint64) common.TokenID {
	e.t.Helper()
	tx := &mptoken.IssuanceCreate{
		TxCommon:      common.TxCommon{Account: issuer, Flags: flags},
		MaximumAmount: maximum,
	}
	res := e.Apply(tx, common.TesSuccess)
	require.NotNil(e.t, res.IssuanceID)
	return *res.IssuanceID
}

// Authorize opts holder in to an issuance
func (e *Env) Authorize(holder common.AccountID, id common.TokenID) {
	e.t.Helper()
	e.Apply(&mptoken.Authorize{
		TxCommon:   common.TxCommon{Account: holder},
		IssuanceID: id,
	}, common.TesSuccess)
}

// Trust sets holder's limit on a line to the issuer of limit
func (e *Env) Trust(holder common.AccountID, limit common.Amount) {
	e.t.Helper()
	e.Apply(&account.TrustSet{
		TxCommon:    common.TxCommon{Account: holder},
		LimitAmount: limit,
	}, common.TesSuccess)
}

// Pay submits a plain payment and returns its result
func (e *Env) Pay(from, to common.AccountID, amount common.Amount) *engine.TxResult {
	e.t.Helper()
	return e.Submit(&payment.Payment{
		TxCommon:    common.TxCommon{Account: from},
		Amount:      amount,
		Destination: to,
	})
}

// SetFlag sets an account flag
func (e *Env) SetFlag(acct common.AccountID, asf uint32) {
	e.t.Helper()
	e.Apply(&account.Set{
		TxCommon: common.TxCommon{Account: acct},
		SetFlag:  asf,
	}, common.TesSuccess)
}

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

// Package clawback implements the issuer-initiated recovery of issued
// currency from a trust line.
package clawback

import (
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
)

// Compile-time check that Clawback implements Transactor
var _ common.Transactor = (*Clawback)(nil)

// Clawback recovers up to Amount from a holder. The issuer field of Amount
// names the holder, not the issuer; the issuer is the submitting account.
type Clawback struct {
	common.TxCommon
	Amount common.Amount `json:"Amount"`
}

func (tx *Clawback) Type() common.TxType {
	return common.TxTypeClawback
}

// Holder returns the account being clawed back from
func (tx *Clawback) Holder() common.AccountID {
	return tx.Amount.Issuer()
}

func (tx *Clawback) Preflight(ctx common.PreflightContext) common.Result {
	if !ctx.Rules.Enabled(common.FeatureClawback) {
		return common.TemDisabled
	}
	if tx.Flags&common.TfClawbackMask != 0 {
		return common.TemInvalidFlag
	}
	if !tx.Amount.IsIssued() || tx.Amount.Signum() <= 0 {
		return common.TemBadAmount
	}
	if tx.Holder() == tx.Account {
		return common.TemBadAmount
	}
	return common.TesSuccess
}

func (tx *Clawback) Preclaim(ctx common.PreclaimContext) common.Result {
	holder := tx.Holder()
	issuerRoot := common.ReadAccount(ctx.View, tx.Account)
	if issuerRoot == nil || !ctx.View.Exists(common.AccountKeylet(holder)) {
		return common.TerNoAccount
	}
	if !issuerRoot.HasFlag(common.LsfAllowTrustLineClawback) || issuerRoot.HasFlag(common.LsfNoFreeze) {
		return common.TecNoPermission
	}
	line := common.ReadAs[*common.TrustLine](ctx.View, common.TrustLineKeylet(holder, tx.Account, tx.Amount.Currency()))
	if line == nil || line.Balance.IsZero() {
		return common.TecNoLine
	}
	// Both sides of a line can issue to each other. Only the side whose
	// IOUs the holder currently holds may claw back.
	if line.BalanceFor(holder).Signum() <= 0 {
		return common.TecNoPermission
	}
	return common.TesSuccess
}

func (tx *Clawback) DoApply(ctx *common.ApplyContext) common.Result {
	holder := tx.Holder()
	issuerRoot := common.ReadAccount(ctx.View, tx.Account)
	line := common.PeekAs[*common.TrustLine](ctx.View, common.TrustLineKeylet(holder, tx.Account, tx.Amount.Currency()))
	if issuerRoot == nil || line == nil {
		return common.TecInternal
	}
	if line.BalanceFor(holder).Signum() <= 0 {
		return common.TecNoPermission
	}

	// The freeze change stands whatever amount is recovered
	setFreeze := tx.HasFlag(common.TfSetFreeze)
	clearFreeze := tx.HasFlag(common.TfClearFreeze)
	_, freeze := line.SideFlags(tx.Account)
	flags := line.Flags
	switch {
	case setFreeze && !clearFreeze && !issuerRoot.HasFlag(common.LsfNoFreeze):
		flags |= freeze
	case clearFreeze && !setFreeze:
		flags &^= freeze
	}
	if flags != line.Flags {
		line.Flags = flags
		ctx.View.Update(line)
	}

	spendable := view.AccountHolds(ctx.View, holder, tx.Amount.Currency(), tx.Account, true)
	amount := common.MinAmount(tx.Amount.WithIssuer(tx.Account), spendable)
	if amount.IsZero() {
		return common.TesSuccess
	}
	return view.AccountSend(ctx.View, holder, tx.Account, amount, ctx.Logger)
}

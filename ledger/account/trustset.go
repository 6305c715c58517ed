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

package account

import (
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
)

// TrustSet creates or changes the account's side of a trust line. The issuer
// of LimitAmount names the peer.
type TrustSet struct {
	common.TxCommon
	LimitAmount common.Amount `json:"LimitAmount"`
}

func (tx *TrustSet) Type() common.TxType {
	return common.TxTypeTrustSet
}

func (tx *TrustSet) Preflight(ctx common.PreflightContext) common.Result {
	if tx.Flags&common.TfTrustSetMask != 0 {
		return common.TemInvalidFlag
	}
	limit := tx.LimitAmount
	if !limit.IsIssued() || !limit.IsLegalNet() {
		return common.TemBadLimit
	}
	if limit.Currency() == common.BadCurrency {
		return common.TemBadCurrency
	}
	if limit.Signum() < 0 {
		return common.TemBadLimit
	}
	if limit.Issuer().IsZero() {
		return common.TemDstNeeded
	}
	if limit.Issuer() == tx.Account {
		return common.TemDstIsSrc
	}
	return common.TesSuccess
}

func (tx *TrustSet) Preclaim(ctx common.PreclaimContext) common.Result {
	acct := common.ReadAccount(ctx.View, tx.Account)
	if acct == nil {
		return common.TerNoAccount
	}
	if tx.HasFlag(common.TfSetFreeze) && !tx.HasFlag(common.TfClearFreeze) && acct.HasFlag(common.LsfNoFreeze) {
		return common.TecNoPermission
	}
	return common.TesSuccess
}

func (tx *TrustSet) DoApply(ctx *common.ApplyContext) common.Result {
	peer := tx.LimitAmount.Issuer()
	if !ctx.View.Exists(common.AccountKeylet(peer)) {
		return common.TecNoDst
	}
	acct := common.PeekAccount(ctx.View, tx.Account)
	if acct == nil {
		return common.TefInternal
	}
	// The first few owned objects are free so a new account can hold a line
	reserveCreate := common.NativeAmount(0)
	if !view.ReserveFree(acct.OwnerCount) {
		reserveCreate = ctx.View.Fees().AccountReserve(acct.OwnerCount + 1)
	}
	setFreeze := tx.HasFlag(common.TfSetFreeze) && !tx.HasFlag(common.TfClearFreeze)
	clearFreeze := tx.HasFlag(common.TfClearFreeze) && !tx.HasFlag(common.TfSetFreeze)

	line := common.PeekAs[*common.TrustLine](ctx.View, common.TrustLineKeylet(tx.Account, peer, tx.LimitAmount.Currency()))
	if line == nil {
		if tx.LimitAmount.IsZero() && !setFreeze {
			return common.TecNoLineRedundant
		}
		if ctx.PriorBalance.Less(reserveCreate) {
			return common.TecNoLineInsufReserve
		}
		var flags uint32
		if setFreeze {
			flags = freezeFlagFor(tx.Account, peer)
		}
		return view.TrustCreate(ctx.View, tx.Account, peer, tx.LimitAmount, flags, ctx.Logger)
	}

	if tx.Account == line.Low() {
		line.LowLimit = tx.LimitAmount.WithIssuer(tx.Account)
	} else {
		line.HighLimit = tx.LimitAmount.WithIssuer(tx.Account)
	}
	reserve, freeze := line.SideFlags(tx.Account)
	if setFreeze {
		line.Flags |= freeze
	} else if clearFreeze {
		line.Flags &^= freeze
	}
	needsReserve := !line.LimitFor(tx.Account).IsZero() || line.HasFlag(freeze) ||
		line.BalanceFor(tx.Account).Signum() > 0
	switch {
	case needsReserve && !line.HasFlag(reserve):
		if ctx.PriorBalance.Less(reserveCreate) {
			return common.TecInsufficientReserve
		}
		line.Flags |= reserve
		view.AdjustOwnerCount(ctx.View, acct, 1, ctx.Logger)
	case !needsReserve && line.HasFlag(reserve):
		line.Flags &^= reserve
		view.AdjustOwnerCount(ctx.View, acct, -1, ctx.Logger)
	}
	peerReserve, _ := line.SideFlags(peer)
	if !line.HasFlag(reserve) && !line.HasFlag(peerReserve) && line.Balance.IsZero() {
		return view.TrustDelete(ctx.View, line, ctx.Logger)
	}
	ctx.View.Update(line)
	return common.TesSuccess
}

// freezeFlagFor returns the freeze flag for account's side of a line with peer
func freezeFlagFor(account, peer common.AccountID) uint32 {
	if peer.Less(account) {
		return common.LsfHighFreeze
	}
	return common.LsfLowFreeze
}

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

// DepositPreauth lets Authorize send to the account while it requires deposit
// authorization, or withdraws that permission from Unauthorize. Exactly one
// of the two is set.
type DepositPreauth struct {
	common.TxCommon
	Authorize   *common.AccountID `json:"Authorize,omitempty"`
	Unauthorize *common.AccountID `json:"Unauthorize,omitempty"`
}

func (tx *DepositPreauth) Type() common.TxType {
	return common.TxTypeDepositPreauth
}

func (tx *DepositPreauth) target() common.AccountID {
	if tx.Authorize != nil {
		return *tx.Authorize
	}
	return *tx.Unauthorize
}

func (tx *DepositPreauth) Preflight(ctx common.PreflightContext) common.Result {
	if !ctx.Rules.Enabled(common.FeatureDepositPreauth) {
		return common.TemDisabled
	}
	if tx.Flags&common.TfUniversalMask != 0 {
		return common.TemInvalidFlag
	}
	if (tx.Authorize == nil) == (tx.Unauthorize == nil) {
		return common.TemMalformed
	}
	target := tx.target()
	if target.IsZero() {
		return common.TemMalformed
	}
	if target == tx.Account {
		return common.TemCannotPreauthSelf
	}
	return common.TesSuccess
}

func (tx *DepositPreauth) Preclaim(ctx common.PreclaimContext) common.Result {
	k := common.DepositPreauthKeylet(tx.Account, tx.target())
	if tx.Authorize != nil {
		if !ctx.View.Exists(common.AccountKeylet(*tx.Authorize)) {
			return common.TecNoTarget
		}
		if ctx.View.Exists(k) {
			return common.TecDuplicate
		}
		return common.TesSuccess
	}
	if !ctx.View.Exists(k) {
		return common.TecNoEntry
	}
	return common.TesSuccess
}

func (tx *DepositPreauth) DoApply(ctx *common.ApplyContext) common.Result {
	acct := common.PeekAccount(ctx.View, tx.Account)
	if acct == nil {
		return common.TefInternal
	}
	if tx.Unauthorize != nil {
		entry := common.PeekAs[*common.DepositPreauth](ctx.View, common.DepositPreauthKeylet(tx.Account, *tx.Unauthorize))
		if entry == nil {
			return common.TecNoEntry
		}
		if !ctx.View.DirRemove(common.OwnerDirKeylet(tx.Account), entry.OwnerNode, entry.Key(), false) {
			return common.TefInternal
		}
		ctx.View.Erase(entry)
		view.AdjustOwnerCount(ctx.View, acct, -1, ctx.Logger)
		return common.TesSuccess
	}
	if ctx.PriorBalance.Less(ctx.View.Fees().AccountReserve(acct.OwnerCount + 1)) {
		return common.TecInsufficientReserve
	}
	entry := common.NewDepositPreauth(tx.Account, *tx.Authorize)
	page, ok := ctx.View.DirInsert(common.OwnerDirKeylet(tx.Account), entry.Key(), view.OwnerDirDescriber(tx.Account))
	if !ok {
		return common.TecDirFull
	}
	entry.OwnerNode = page
	ctx.View.Insert(entry)
	view.AdjustOwnerCount(ctx.View, acct, 1, ctx.Logger)
	return common.TesSuccess
}

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

package mptoken

import (
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
)

func (tx *Authorize) Preflight(ctx common.PreflightContext) common.Result {
	if !ctx.Rules.Enabled(common.FeatureMPTokensV1) {
		return common.TemDisabled
	}
	if tx.Flags&common.TfMPTokenAuthorizeMask != 0 {
		return common.TemInvalidFlag
	}
	if tx.Holder != nil && *tx.Holder == tx.Account {
		return common.TemMalformed
	}
	return common.TesSuccess
}

func (tx *Authorize) Preclaim(ctx common.PreclaimContext) common.Result {
	issuance := readIssuance(ctx.View, tx.IssuanceID)
	if issuance == nil {
		return common.TecObjectNotFound
	}
	if tx.Holder != nil && !ctx.View.Exists(common.AccountKeylet(*tx.Holder)) {
		return common.TecNoDst
	}
	unauthorize := tx.HasFlag(common.TfMPTUnauthorize)
	if tx.Account == issuance.Issuer {
		// The issuer only manages an allow-list
		if !issuance.HasFlag(common.LsfMPTRequireAuth) {
			return common.TecNoAuth
		}
		if tx.Holder == nil {
			return common.TemMalformed
		}
		token := common.ReadAs[*common.MPToken](ctx.View, common.MPTokenKeylet(tx.IssuanceID, *tx.Holder))
		if token == nil {
			return common.TecNoEntry
		}
		authorized := token.HasFlag(common.LsfMPTAuthorized)
		if unauthorize && !authorized {
			return common.TecMPTNotAuthorized
		}
		if !unauthorize && authorized {
			return common.TecMPTAlreadyAuthorized
		}
		return common.TesSuccess
	}
	if tx.Holder != nil {
		return common.TemMalformed
	}
	token := common.ReadAs[*common.MPToken](ctx.View, common.MPTokenKeylet(tx.IssuanceID, tx.Account))
	if unauthorize {
		if token == nil {
			return common.TecNoEntry
		}
		if token.Amount != 0 {
			return common.TecHasObligations
		}
		return common.TesSuccess
	}
	if token != nil {
		return common.TecMPTokenExists
	}
	return common.TesSuccess
}

func (tx *Authorize) DoApply(ctx *common.ApplyContext) common.Result {
	issuance := readIssuance(ctx.View, tx.IssuanceID)
	if issuance == nil {
		return common.TecInternal
	}
	root := common.PeekAccount(ctx.View, tx.Account)
	if root == nil {
		return common.TecInternal
	}
	unauthorize := tx.HasFlag(common.TfMPTUnauthorize)
	if tx.Account == issuance.Issuer {
		if tx.Holder == nil {
			return common.TecInternal
		}
		return tx.setAuthorized(ctx, *tx.Holder, !unauthorize)
	}
	if tx.Holder != nil {
		return common.TecInternal
	}
	if unauthorize {
		return tx.removeToken(ctx, root)
	}
	return tx.createToken(ctx, root)
}

func (tx *Authorize) setAuthorized(ctx *common.ApplyContext, holder common.AccountID, authorized bool) common.Result {
	token := common.PeekAs[*common.MPToken](ctx.View, common.MPTokenKeylet(tx.IssuanceID, holder))
	if token == nil {
		return common.TecInternal
	}
	flags := token.Flags &^ common.LsfMPTAuthorized
	if authorized {
		flags |= common.LsfMPTAuthorized
	}
	if flags != token.Flags {
		token.Flags = flags
		ctx.View.Update(token)
	}
	return common.TesSuccess
}

// removeToken unlists the holder entry from both directories and erases it
func (tx *Authorize) removeToken(ctx *common.ApplyContext, root *common.AccountRoot) common.Result {
	token := common.PeekAs[*common.MPToken](ctx.View, common.MPTokenKeylet(tx.IssuanceID, tx.Account))
	if token == nil {
		return common.TecInternal
	}
	if !ctx.View.DirRemove(common.OwnerDirKeylet(tx.Account), token.OwnerNode, token.Key(), false) {
		return common.TecInternal
	}
	if !ctx.View.DirRemove(common.HolderDirKeylet(tx.IssuanceID), token.HolderNode, token.Key(), false) {
		return common.TecInternal
	}
	view.AdjustOwnerCount(ctx.View, root, -1, ctx.Logger)
	ctx.View.Erase(token)
	return common.TesSuccess
}

// createToken adds a holder entry listed in both the holder's owner
// directory and the issuance holder directory
func (tx *Authorize) createToken(ctx *common.ApplyContext, root *common.AccountRoot) common.Result {
	if !view.ReserveFree(root.OwnerCount) &&
		ctx.PriorBalance.Less(ctx.View.Fees().AccountReserve(root.OwnerCount+1)) {
		return common.TecInsufficientReserve
	}
	token := common.NewMPToken(tx.IssuanceID, tx.Account)
	ownerPage, ok := ctx.View.DirInsert(common.OwnerDirKeylet(tx.Account), token.Key(), view.OwnerDirDescriber(tx.Account))
	if !ok {
		return common.TecDirFull
	}
	holderPage, ok := ctx.View.DirInsert(common.HolderDirKeylet(tx.IssuanceID), token.Key(), view.HolderDirDescriber(tx.IssuanceID))
	if !ok {
		return common.TecDirFull
	}
	token.OwnerNode = ownerPage
	token.HolderNode = holderPage
	ctx.View.Insert(token)
	view.AdjustOwnerCount(ctx.View, root, 1, ctx.Logger)
	return common.TesSuccess
}

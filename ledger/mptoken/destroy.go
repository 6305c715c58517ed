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

func (tx *IssuanceDestroy) Preflight(ctx common.PreflightContext) common.Result {
	if !ctx.Rules.Enabled(common.FeatureMPTokensV1) {
		return common.TemDisabled
	}
	if tx.Flags&common.TfMPTokenIssuanceDestroyMask != 0 {
		return common.TemInvalidFlag
	}
	return common.TesSuccess
}

func (tx *IssuanceDestroy) Preclaim(ctx common.PreclaimContext) common.Result {
	issuance := readIssuance(ctx.View, tx.IssuanceID)
	if issuance == nil {
		return common.TecObjectNotFound
	}
	if issuance.Issuer != tx.Account {
		return common.TecNoPermission
	}
	if issuance.OutstandingAmount != 0 {
		return common.TecHasObligations
	}
	// Holder entries still point at the issuance even with no balance
	if !view.DirIsEmpty(ctx.View, common.HolderDirKeylet(tx.IssuanceID)) {
		return common.TecHasObligations
	}
	return common.TesSuccess
}

func (tx *IssuanceDestroy) DoApply(ctx *common.ApplyContext) common.Result {
	issuance := common.PeekAs[*common.MPTokenIssuance](ctx.View, common.IssuanceKeylet(tx.IssuanceID))
	root := common.PeekAccount(ctx.View, tx.Account)
	if issuance == nil || root == nil {
		return common.TecInternal
	}
	if !ctx.View.DirRemove(common.OwnerDirKeylet(tx.Account), issuance.OwnerNode, issuance.Key(), false) {
		return common.TecInternal
	}
	ctx.View.Erase(issuance)
	view.AdjustOwnerCount(ctx.View, root, -1, ctx.Logger)
	return common.TesSuccess
}

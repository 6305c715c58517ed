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

func (tx *IssuanceCreate) Preflight(ctx common.PreflightContext) common.Result {
	if !ctx.Rules.Enabled(common.FeatureMPTokensV1) {
		return common.TemDisabled
	}
	if tx.Flags&common.TfMPTokenIssuanceCreateMask != 0 {
		return common.TemInvalidFlag
	}
	if tx.TransferFee != nil {
		if *tx.TransferFee > view.MaxTransferFee {
			return common.TemBadMPTokenTransferFee
		}
		if *tx.TransferFee > 0 && !tx.HasFlag(common.TfMPTCanTransfer) {
			return common.TemMalformed
		}
	}
	if tx.Metadata != nil && (len(*tx.Metadata) == 0 || len(*tx.Metadata) > MaxMetadataLength) {
		return common.TemMalformed
	}
	if tx.MaximumAmount != nil && (*tx.MaximumAmount == 0 || *tx.MaximumAmount > common.MaxTokenAmount) {
		return common.TemMalformed
	}
	return common.TesSuccess
}

func (tx *IssuanceCreate) Preclaim(ctx common.PreclaimContext) common.Result {
	return common.TesSuccess
}

func (tx *IssuanceCreate) DoApply(ctx *common.ApplyContext) common.Result {
	root := common.PeekAccount(ctx.View, tx.Account)
	if root == nil {
		return common.TecInternal
	}
	if ctx.PriorBalance.Less(ctx.View.Fees().AccountReserve(root.OwnerCount + 1)) {
		return common.TecInsufficientReserve
	}
	issuance := common.NewMPTokenIssuance(tx.Account, tx.Sequence)
	if ctx.View.Exists(common.IssuanceKeylet(issuance.TokenID())) {
		return common.TecDuplicate
	}
	page, ok := ctx.View.DirInsert(common.OwnerDirKeylet(tx.Account), issuance.Key(), view.OwnerDirDescriber(tx.Account))
	if !ok {
		return common.TecDirFull
	}
	// Creation flags share their bit positions with the ledger flags
	issuance.Flags = tx.Flags &^ common.TfUniversal
	issuance.OwnerNode = page
	issuance.MaximumAmount = tx.MaximumAmount
	issuance.AssetScale = tx.AssetScale
	issuance.TransferFee = tx.TransferFee
	if tx.Metadata != nil {
		issuance.Metadata = *tx.Metadata
	}
	ctx.View.Insert(issuance)
	view.AdjustOwnerCount(ctx.View, root, 1, ctx.Logger)
	return common.TesSuccess
}

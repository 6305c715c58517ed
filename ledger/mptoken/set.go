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
)

func (tx *IssuanceSet) Preflight(ctx common.PreflightContext) common.Result {
	if !ctx.Rules.Enabled(common.FeatureMPTokensV1) {
		return common.TemDisabled
	}
	if tx.Flags&common.TfMPTokenIssuanceSetMask != 0 {
		return common.TemInvalidFlag
	}
	// Exactly one of lock and unlock
	if tx.HasFlag(common.TfMPTLock) == tx.HasFlag(common.TfMPTUnlock) {
		return common.TemInvalidFlag
	}
	if tx.Holder != nil && *tx.Holder == tx.Account {
		return common.TemMalformed
	}
	return common.TesSuccess
}

func (tx *IssuanceSet) Preclaim(ctx common.PreclaimContext) common.Result {
	issuance := readIssuance(ctx.View, tx.IssuanceID)
	if issuance == nil {
		return common.TecObjectNotFound
	}
	if issuance.Issuer != tx.Account {
		return common.TecNoPermission
	}
	if !issuance.HasFlag(common.LsfMPTCanLock) {
		return common.TecNoPermission
	}
	if tx.Holder != nil && !ctx.View.Exists(common.MPTokenKeylet(tx.IssuanceID, *tx.Holder)) {
		return common.TecObjectNotFound
	}
	return common.TesSuccess
}

func lockFlags(flags uint32, lock bool) uint32 {
	if lock {
		return flags | common.LsfMPTLocked
	}
	return flags &^ common.LsfMPTLocked
}

func (tx *IssuanceSet) DoApply(ctx *common.ApplyContext) common.Result {
	lock := tx.HasFlag(common.TfMPTLock)
	if tx.Holder == nil {
		issuance := common.PeekAs[*common.MPTokenIssuance](ctx.View, common.IssuanceKeylet(tx.IssuanceID))
		if issuance == nil {
			return common.TecInternal
		}
		if flags := lockFlags(issuance.Flags, lock); flags != issuance.Flags {
			issuance.Flags = flags
			ctx.View.Update(issuance)
		}
		return common.TesSuccess
	}
	token := common.PeekAs[*common.MPToken](ctx.View, common.MPTokenKeylet(tx.IssuanceID, *tx.Holder))
	if token == nil {
		return common.TecInternal
	}
	if flags := lockFlags(token.Flags, lock); flags != token.Flags {
		token.Flags = flags
		ctx.View.Update(token)
	}
	return common.TesSuccess
}

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

// Package account implements the transactions an account uses to manage its
// own settings: account flags, trust lines and deposit preauthorization.
package account

import (
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
)

// Compile-time checks
var (
	_ common.Transactor = (*Set)(nil)
	_ common.Transactor = (*TrustSet)(nil)
	_ common.Transactor = (*DepositPreauth)(nil)
)

// Set is an AccountSet transaction. SetFlag and ClearFlag hold one of the
// Asf flag numbers, or zero.
type Set struct {
	common.TxCommon
	SetFlag   uint32 `json:"SetFlag,omitempty"`
	ClearFlag uint32 `json:"ClearFlag,omitempty"`
}

func (tx *Set) Type() common.TxType {
	return common.TxTypeAccountSet
}

func (tx *Set) Preflight(ctx common.PreflightContext) common.Result {
	if tx.Flags&common.TfUniversalMask != 0 {
		return common.TemInvalidFlag
	}
	if tx.SetFlag != 0 && tx.SetFlag == tx.ClearFlag {
		return common.TemInvalidFlag
	}
	if tx.SetFlag == common.AsfAllowTrustLineClawback && !ctx.Rules.Enabled(common.FeatureClawback) {
		return common.TemDisabled
	}
	return common.TesSuccess
}

func (tx *Set) Preclaim(ctx common.PreclaimContext) common.Result {
	acct := common.ReadAccount(ctx.View, tx.Account)
	if acct == nil {
		return common.TerNoAccount
	}
	switch tx.SetFlag {
	case common.AsfAllowTrustLineClawback:
		// Holders must know the issuer could claw back before they trust it
		if acct.HasFlag(common.LsfNoFreeze) {
			return common.TecNoPermission
		}
		if !view.DirIsEmpty(ctx.View, common.OwnerDirKeylet(tx.Account)) {
			return common.TecOwners
		}
	case common.AsfNoFreeze:
		if acct.HasFlag(common.LsfAllowTrustLineClawback) {
			return common.TecNoPermission
		}
	}
	return common.TesSuccess
}

func (tx *Set) DoApply(ctx *common.ApplyContext) common.Result {
	acct := common.PeekAccount(ctx.View, tx.Account)
	if acct == nil {
		return common.TefInternal
	}
	flags := acct.Flags
	set := func(asf, lsf uint32) {
		if tx.SetFlag == asf {
			flags |= lsf
		} else if tx.ClearFlag == asf {
			flags &^= lsf
		}
	}
	set(common.AsfRequireDest, common.LsfRequireDestTag)
	if ctx.View.Rules().Enabled(common.FeatureDepositAuth) {
		set(common.AsfDepositAuth, common.LsfDepositAuth)
	}
	// NoFreeze and AllowTrustLineClawback are permanent once set
	if tx.SetFlag == common.AsfNoFreeze {
		flags |= common.LsfNoFreeze
	}
	if tx.SetFlag == common.AsfAllowTrustLineClawback {
		flags |= common.LsfAllowTrustLineClawback
	}
	// An account that gave up freezing cannot lift a global freeze either
	if tx.SetFlag == common.AsfGlobalFreeze {
		flags |= common.LsfGlobalFreeze
	} else if tx.ClearFlag == common.AsfGlobalFreeze && flags&common.LsfNoFreeze == 0 {
		flags &^= common.LsfGlobalFreeze
	}
	if flags != acct.Flags {
		acct.Flags = flags
		ctx.View.Update(acct)
	}
	return common.TesSuccess
}

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

package payment

import (
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
)

func (tx *Payment) preflightToken(ctx common.PreflightContext) common.Result {
	if !ctx.Rules.Enabled(common.FeatureMPTokensV1) {
		return common.TemDisabled
	}
	// Token payments are always direct
	if tx.DeliverMin != nil || tx.SendMax != nil || len(tx.Paths) > 0 {
		return common.TemMalformed
	}
	if tx.Flags&common.TfPaymentMask != 0 {
		return common.TemInvalidFlag
	}
	if tx.Destination.IsZero() {
		return common.TemDstNeeded
	}
	if tx.Account == tx.Destination {
		return common.TemRedundant
	}
	if tx.Amount.Signum() <= 0 {
		return common.TemBadAmount
	}
	if tx.Flags&(common.TfPartialPayment|common.TfLimitQuality|common.TfNoRippleDirect) != 0 {
		return common.TemMalformed
	}
	return common.TesSuccess
}

func (tx *Payment) preclaimToken(ctx common.PreclaimContext) common.Result {
	dst := common.ReadAccount(ctx.View, tx.Destination)
	if dst == nil {
		return common.TecNoDst
	}
	return tx.checkDestinationTag(dst)
}

func (tx *Payment) applyToken(ctx *common.ApplyContext) common.Result {
	id := tx.Amount.TokenID()
	if res := view.RequireAuth(ctx.View, id, tx.Account); !res.IsSuccess() {
		return res
	}
	if res := view.RequireAuth(ctx.View, id, tx.Destination); !res.IsSuccess() {
		return res
	}
	if res := view.CanTransfer(ctx.View, id, tx.Account, tx.Destination); !res.IsSuccess() {
		return res
	}
	// Locked tokens can still go to or come from the issuer
	issuer := id.Issuer()
	if tx.Account != issuer && tx.Destination != issuer &&
		(view.IsTokenLocked(ctx.View, id, tx.Account) || view.IsTokenLocked(ctx.View, id, tx.Destination)) {
		return common.TecMPTLocked
	}
	if ctx.RawView == nil {
		return common.TefInternal
	}
	sb := view.NewSandbox(ctx.View)
	if res := view.AccountSend(sb, tx.Account, tx.Destination, tx.Amount, ctx.Logger); !res.IsSuccess() {
		sb.Discard()
		return res
	}
	sb.Apply(ctx.RawView)
	ctx.Deliver(tx.Amount)
	return common.TesSuccess
}

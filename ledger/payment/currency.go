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

// maxSource is the most the source may spend. Without SendMax an issued
// amount may be paid in the same currency from any issuer the source trusts.
func (tx *Payment) maxSource() common.Amount {
	if tx.SendMax != nil {
		return *tx.SendMax
	}
	if tx.Amount.IsNative() {
		return tx.Amount
	}
	return tx.Amount.WithIssuer(tx.Account)
}

// ripples reports whether the payment goes through the path finder
func (tx *Payment) ripples() bool {
	return len(tx.Paths) > 0 || tx.SendMax != nil || !tx.Amount.IsNative()
}

func (tx *Payment) preflightCurrency(ctx common.PreflightContext) common.Result {
	if tx.Flags&common.TfPaymentMask != 0 {
		return common.TemInvalidFlag
	}
	if tx.SendMax != nil && tx.SendMax.IsToken() {
		return common.TemMalformed
	}
	partial := tx.HasFlag(common.TfPartialPayment)
	limitQuality := tx.HasFlag(common.TfLimitQuality)
	defaultPaths := !tx.HasFlag(common.TfNoRippleDirect)
	hasPaths := len(tx.Paths) > 0
	maxSource := tx.maxSource()
	srcCurrency := maxSource.Currency()
	dstCurrency := tx.Amount.Currency()
	xrpDirect := srcCurrency.IsNative() && dstCurrency.IsNative()

	if !tx.Amount.IsLegalNet() || !maxSource.IsLegalNet() {
		return common.TemBadAmount
	}
	if tx.Destination.IsZero() {
		return common.TemDstNeeded
	}
	if tx.SendMax != nil && maxSource.Signum() <= 0 {
		return common.TemBadAmount
	}
	if tx.Amount.Signum() <= 0 {
		return common.TemBadAmount
	}
	if srcCurrency == common.BadCurrency || dstCurrency == common.BadCurrency {
		return common.TemBadCurrency
	}
	if tx.Account == tx.Destination && srcCurrency == dstCurrency && !hasPaths {
		return common.TemRedundant
	}
	if xrpDirect {
		switch {
		case tx.SendMax != nil:
			return common.TemBadSendXRPMax
		case hasPaths:
			return common.TemBadSendXRPPaths
		case partial:
			return common.TemBadSendXRPPartial
		case limitQuality:
			return common.TemBadSendXRPLimit
		case !defaultPaths:
			return common.TemBadSendXRPNoDirect
		}
	}
	if tx.DeliverMin != nil {
		deliverMin := *tx.DeliverMin
		if !partial {
			return common.TemBadAmount
		}
		if !deliverMin.IsLegalNet() || deliverMin.Signum() <= 0 {
			return common.TemBadAmount
		}
		if deliverMin.Kind() != tx.Amount.Kind() || !deliverMin.Issue().Equal(tx.Amount.Issue()) {
			return common.TemBadAmount
		}
		if tx.Amount.Less(deliverMin) {
			return common.TemBadAmount
		}
	}
	return common.TesSuccess
}

func (tx *Payment) preclaimCurrency(ctx common.PreclaimContext) common.Result {
	dst := common.ReadAccount(ctx.View, tx.Destination)
	if dst == nil {
		switch {
		case !tx.Amount.IsNative():
			// Another transaction could create the account first
			return common.TecNoDst
		case ctx.View.Open() && tx.HasFlag(common.TfPartialPayment):
			return common.TelNoDstPartial
		case tx.Amount.Less(ctx.View.Fees().AccountReserve(0)):
			return common.TecNoDstInsufXRP
		}
	} else if res := tx.checkDestinationTag(dst); !res.IsSuccess() {
		return res
	}
	if tx.ripples() && ctx.View.Open() {
		if len(tx.Paths) > ctx.Limits.MaxPaths {
			return common.TelBadPathCount
		}
		for _, path := range tx.Paths {
			if len(path) > ctx.Limits.MaxPathLength {
				return common.TelBadPathCount
			}
		}
	}
	return common.TesSuccess
}

func (tx *Payment) applyCurrency(ctx *common.ApplyContext) common.Result {
	rules := ctx.View.Rules()
	dst := common.PeekAccount(ctx.View, tx.Destination)
	if dst == nil {
		seq := uint32(1)
		if rules.Enabled(common.FeatureDeletableAccounts) {
			seq = ctx.View.Seq()
		}
		dst = common.NewAccountRoot(tx.Destination, common.NativeAmount(0), seq)
		ctx.View.Insert(dst)
	}
	depositAuth := dst.HasFlag(common.LsfDepositAuth) && rules.Enabled(common.FeatureDepositAuth)
	depositPreauth := rules.Enabled(common.FeatureDepositPreauth)
	preauthorized := tx.Account == tx.Destination ||
		ctx.View.Exists(common.DepositPreauthKeylet(tx.Destination, tx.Account))

	if tx.ripples() {
		if depositAuth && (!depositPreauth || !preauthorized) {
			return common.TecNoPermission
		}
		return tx.applyFlow(ctx)
	}

	// Direct native payment
	src := common.PeekAccount(ctx.View, tx.Account)
	if src == nil {
		return common.TefInternal
	}
	reserve := ctx.View.Fees().AccountReserve(src.OwnerCount)
	// The reserve may pay for the fee of the final spend
	if ctx.PriorBalance.Less(tx.Amount.Add(maxAmount(reserve, tx.Fee))) {
		return common.TecUnfundedPayment
	}
	if dst.AMMID != nil {
		return common.TecNoPermission
	}
	if depositAuth && !preauthorized {
		// A small deposit may still reach a drained account so that it is
		// never stuck without funds for fees
		baseReserve := ctx.View.Fees().AccountReserve(0)
		if baseReserve.Less(tx.Amount) || baseReserve.Less(dst.Balance) {
			return common.TecNoPermission
		}
	}
	src.Balance = src.Balance.Sub(tx.Amount)
	dst.Balance = dst.Balance.Add(tx.Amount)
	ctx.View.Update(src)
	ctx.View.Update(dst)
	ctx.Deliver(tx.Amount)
	return common.TesSuccess
}

func maxAmount(a, b common.Amount) common.Amount {
	if a.Less(b) {
		return b
	}
	return a
}

// applyFlow runs the path finder in a nested sandbox and keeps its changes
// only when it succeeds
func (tx *Payment) applyFlow(ctx *common.ApplyContext) common.Result {
	if ctx.PathFinder == nil || ctx.RawView == nil {
		return common.TefInternal
	}
	sb := view.NewSandbox(ctx.View)
	res := ctx.PathFinder.Flow(sb, common.FlowRequest{
		MaxSource:      tx.maxSource(),
		Deliver:        tx.Amount,
		Destination:    tx.Destination,
		Source:         tx.Account,
		Paths:          tx.Paths,
		PartialPayment: tx.HasFlag(common.TfPartialPayment),
		DefaultPaths:   !tx.HasFlag(common.TfNoRippleDirect),
		LimitQuality:   tx.HasFlag(common.TfLimitQuality),
		LedgerOpen:     ctx.View.Open(),
	})
	result := res.Result
	if result.IsSuccess() && tx.DeliverMin != nil && res.Delivered.Less(*tx.DeliverMin) {
		result = common.TecPathPartial
	}
	// A retry from the path finder still claims the fee
	if result.IsRetry() {
		result = common.TecPathDry
	}
	if !result.IsSuccess() {
		sb.Discard()
		return result
	}
	sb.Apply(ctx.RawView)
	ctx.Deliver(res.Delivered)
	return common.TesSuccess
}

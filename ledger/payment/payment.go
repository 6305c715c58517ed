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

// Package payment implements the Payment transaction. Token amounts move
// directly between accounts. Native and issued currency amounts move
// directly when both sides are native and otherwise through the path finder.
package payment

import (
	"github.com/blinklabs-io/goxrpl/ledger/common"
)

// Compile-time check that Payment implements Transactor
var _ common.Transactor = (*Payment)(nil)

type Payment struct {
	common.TxCommon
	Amount         common.Amount    `json:"Amount"`
	Destination    common.AccountID `json:"Destination"`
	DestinationTag *uint32          `json:"DestinationTag,omitempty"`
	SendMax        *common.Amount   `json:"SendMax,omitempty"`
	DeliverMin     *common.Amount   `json:"DeliverMin,omitempty"`
	Paths          []common.Path    `json:"Paths,omitempty"`
}

func (tx *Payment) Type() common.TxType {
	return common.TxTypePayment
}

// The amount kind is fixed by the transaction, so each phase picks one of
// two independent implementations up front

func (tx *Payment) Preflight(ctx common.PreflightContext) common.Result {
	if tx.Amount.IsToken() {
		return tx.preflightToken(ctx)
	}
	return tx.preflightCurrency(ctx)
}

func (tx *Payment) Preclaim(ctx common.PreclaimContext) common.Result {
	if tx.Amount.IsToken() {
		return tx.preclaimToken(ctx)
	}
	return tx.preclaimCurrency(ctx)
}

func (tx *Payment) DoApply(ctx *common.ApplyContext) common.Result {
	if tx.Amount.IsToken() {
		return tx.applyToken(ctx)
	}
	return tx.applyCurrency(ctx)
}

// checkDestinationTag enforces the destination's require-tag flag
func (tx *Payment) checkDestinationTag(dst *common.AccountRoot) common.Result {
	if dst.HasFlag(common.LsfRequireDestTag) && tx.DestinationTag == nil {
		return common.TecDstTagNeeded
	}
	return common.TesSuccess
}

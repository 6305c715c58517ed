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

package view

import (
	"log/slog"

	"github.com/blinklabs-io/goxrpl/ledger/common"
)

// AccountSend moves amount from one account to another without paths or
// transfer rates. Issued currencies move through their issuer when neither
// party is the issuer.
func AccountSend(v common.ApplyView, from, to common.AccountID, amount common.Amount, logger *slog.Logger) common.Result {
	if from == to || amount.IsZero() {
		return common.TesSuccess
	}
	if amount.Signum() < 0 {
		loggerOrDefault(logger).Error(
			"negative amount sent",
			"from", from.String(),
			"to", to.String(),
			"amount", amount.String(),
		)
		return common.TefInternal
	}
	switch amount.Kind() {
	case common.AmountKindNative:
		src := common.PeekAccount(v, from)
		dst := common.PeekAccount(v, to)
		if src == nil || dst == nil {
			return common.TecNoDst
		}
		if src.Balance.Less(amount) {
			return common.TecUnfundedPayment
		}
		src.Balance = src.Balance.Sub(amount)
		dst.Balance = dst.Balance.Add(amount)
		v.Update(src)
		v.Update(dst)
	case common.AmountKindIssued:
		issuer := amount.Issuer()
		if from == issuer || to == issuer {
			return RippleCredit(v, from, to, amount, logger)
		}
		if res := RippleCredit(v, issuer, to, amount, logger); !res.IsSuccess() {
			return res
		}
		return RippleCredit(v, from, issuer, amount, logger)
	case common.AmountKindToken:
		return TokenCredit(v, from, to, amount)
	}
	return common.TesSuccess
}

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
	"math/bits"

	"github.com/blinklabs-io/goxrpl/ledger/common"
)

// TransferFeeDenominator is the unit of an issuance transfer fee, so a fee of
// 1000 is one percent
const TransferFeeDenominator = 100_000

// MaxTransferFee is the largest transfer fee an issuance may carry
const MaxTransferFee = 50_000

// TransferFee returns the fee charged on top of value when it moves between
// two holders, rounded up
func TransferFee(value uint64, fee uint16) uint64 {
	if fee == 0 || value == 0 {
		return 0
	}
	hi, lo := bits.Mul64(value, uint64(fee))
	// fee is below the denominator, so hi is too
	q, r := bits.Div64(hi, lo, TransferFeeDenominator)
	if r != 0 {
		q++
	}
	return q
}

// RequireAuth checks that account may hold the token. The issuer always may.
// Anyone else needs a holding entry, authorized by the issuer when the
// issuance requires it.
func RequireAuth(v common.ReadView, id common.TokenID, account common.AccountID) common.Result {
	issuance := common.ReadAs[*common.MPTokenIssuance](v, common.IssuanceKeylet(id))
	if issuance == nil {
		return common.TecObjectNotFound
	}
	if account == issuance.Issuer {
		return common.TesSuccess
	}
	token := common.ReadAs[*common.MPToken](v, common.MPTokenKeylet(id, account))
	if token == nil {
		return common.TecNoAuth
	}
	if issuance.HasFlag(common.LsfMPTRequireAuth) && !token.HasFlag(common.LsfMPTAuthorized) {
		return common.TecNoAuth
	}
	return common.TesSuccess
}

// CanTransfer checks that the token may move from one account to another.
// Without the transfer flag only the issuer may send or receive.
func CanTransfer(v common.ReadView, id common.TokenID, from, to common.AccountID) common.Result {
	issuance := common.ReadAs[*common.MPTokenIssuance](v, common.IssuanceKeylet(id))
	if issuance == nil {
		return common.TecObjectNotFound
	}
	if !issuance.HasFlag(common.LsfMPTCanTransfer) && from != issuance.Issuer && to != issuance.Issuer {
		return common.TecNoAuth
	}
	return common.TesSuccess
}

// IsTokenLocked reports whether the issuance as a whole or account's holding
// of it is locked
func IsTokenLocked(v common.ReadView, id common.TokenID, account common.AccountID) bool {
	issuance := common.ReadAs[*common.MPTokenIssuance](v, common.IssuanceKeylet(id))
	if issuance == nil {
		return false
	}
	if issuance.HasFlag(common.LsfMPTLocked) {
		return true
	}
	token := common.ReadAs[*common.MPToken](v, common.MPTokenKeylet(id, account))
	return token != nil && token.HasFlag(common.LsfMPTLocked)
}

// TokenHolds returns the token balance of account. Locked balances count as
// nothing unless ignoreLock is set. The issuer holds nothing.
func TokenHolds(v common.ReadView, id common.TokenID, account common.AccountID, ignoreLock bool) common.Amount {
	zero := common.TokenAmount(0, id)
	token := common.ReadAs[*common.MPToken](v, common.MPTokenKeylet(id, account))
	if token == nil {
		return zero
	}
	if !ignoreLock && IsTokenLocked(v, id, account) {
		return zero
	}
	return common.TokenAmount(int64(token.Amount), id)
}

// TokenCredit moves a positive token amount between two accounts. Moving
// from the issuer mints and is bounded by the maximum amount. Moving to the
// issuer burns. Between holders the sender also pays the transfer fee, which
// is burned.
func TokenCredit(v common.ApplyView, sender, receiver common.AccountID, amount common.Amount) common.Result {
	id := amount.TokenID()
	issuance := common.PeekAs[*common.MPTokenIssuance](v, common.IssuanceKeylet(id))
	if issuance == nil {
		return common.TecObjectNotFound
	}
	if amount.Signum() <= 0 {
		return common.TefInternal
	}
	value := uint64(amount.TokenValue())
	switch {
	case sender == issuance.Issuer:
		if value > issuance.MaxAmount()-min(issuance.OutstandingAmount, issuance.MaxAmount()) {
			return common.TecPathPartial
		}
		holder := common.PeekAs[*common.MPToken](v, common.MPTokenKeylet(id, receiver))
		if holder == nil {
			return common.TecNoAuth
		}
		holder.Amount += value
		issuance.OutstandingAmount += value
		v.Update(holder)
		v.Update(issuance)
	case receiver == issuance.Issuer:
		holder := common.PeekAs[*common.MPToken](v, common.MPTokenKeylet(id, sender))
		if holder == nil {
			return common.TecNoAuth
		}
		if holder.Amount < value {
			return common.TecInsufficientFunds
		}
		if issuance.OutstandingAmount < value {
			return common.TefInternal
		}
		holder.Amount -= value
		issuance.OutstandingAmount -= value
		v.Update(holder)
		v.Update(issuance)
	default:
		var fee uint64
		if issuance.TransferFee != nil {
			fee = TransferFee(value, *issuance.TransferFee)
		}
		src := common.PeekAs[*common.MPToken](v, common.MPTokenKeylet(id, sender))
		dst := common.PeekAs[*common.MPToken](v, common.MPTokenKeylet(id, receiver))
		if src == nil || dst == nil {
			return common.TecNoAuth
		}
		// value and fee are both at most MaxInt64, so the sum fits
		if src.Amount < value+fee {
			return common.TecInsufficientFunds
		}
		if issuance.OutstandingAmount < fee {
			return common.TefInternal
		}
		src.Amount -= value + fee
		dst.Amount += value
		v.Update(src)
		v.Update(dst)
		if fee > 0 {
			issuance.OutstandingAmount -= fee
			v.Update(issuance)
		}
	}
	return common.TesSuccess
}

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

// IsGlobalFrozen reports whether issuer has frozen every line it issues on
func IsGlobalFrozen(v common.ReadView, issuer common.AccountID) bool {
	if issuer.IsZero() {
		return false
	}
	root := common.ReadAccount(v, issuer)
	return root != nil && root.HasFlag(common.LsfGlobalFreeze)
}

// IsFrozen reports whether account's holding of currency from issuer is
// frozen, either globally or by the issuer's side of the trust line
func IsFrozen(v common.ReadView, account common.AccountID, currency common.Currency, issuer common.AccountID) bool {
	if currency.IsNative() {
		return false
	}
	if IsGlobalFrozen(v, issuer) {
		return true
	}
	if account == issuer {
		return false
	}
	line := common.ReadAs[*common.TrustLine](v, common.TrustLineKeylet(account, issuer, currency))
	if line == nil {
		return false
	}
	_, freeze := line.SideFlags(issuer)
	return line.HasFlag(freeze)
}

// AccountHolds returns how much of currency issued by issuer the account
// holds. Debts and frozen balances count as nothing unless ignoreFreeze is
// set.
func AccountHolds(v common.ReadView, account common.AccountID, currency common.Currency, issuer common.AccountID, ignoreFreeze bool) common.Amount {
	zero := common.IssuedAmount(0, 0, common.NewIssue(currency, issuer))
	line := common.ReadAs[*common.TrustLine](v, common.TrustLineKeylet(account, issuer, currency))
	if line == nil {
		return zero
	}
	if !ignoreFreeze && IsFrozen(v, account, currency, issuer) {
		return zero
	}
	bal := line.BalanceFor(account)
	if bal.Signum() < 0 {
		return zero
	}
	return bal
}

// sideIsDefault reports whether account's side of the line is in its default
// state, which is what lets the line drop the account's reserve
func sideIsDefault(line *common.TrustLine, account common.AccountID) bool {
	_, freeze := line.SideFlags(account)
	return line.LimitFor(account).IsZero() && !line.HasFlag(freeze)
}

// RippleCredit moves amount across the trust line between sender and
// receiver. One of them must be the issuer of amount. When the sender's side
// returns to its default state the sender's reserve is released, and a line
// where neither side holds a reserve any more is deleted.
func RippleCredit(v common.ApplyView, sender, receiver common.AccountID, amount common.Amount, logger *slog.Logger) common.Result {
	line := common.PeekAs[*common.TrustLine](v, common.TrustLineKeylet(sender, receiver, amount.Currency()))
	if line == nil {
		return common.TecNoLine
	}
	before := line.BalanceFor(sender)
	after := before.Sub(amount.WithIssuer(receiver))
	deleteLine := false
	senderReserve, _ := line.SideFlags(sender)
	if before.Signum() > 0 && after.Signum() <= 0 &&
		line.HasFlag(senderReserve) && sideIsDefault(line, sender) {
		line.Flags &^= senderReserve
		root := common.PeekAccount(v, sender)
		if root == nil {
			return common.TefInternal
		}
		AdjustOwnerCount(v, root, -1, logger)
		receiverReserve, _ := line.SideFlags(receiver)
		deleteLine = after.IsZero() && !line.HasFlag(receiverReserve)
	}
	if sender == line.High() {
		after = after.Negate()
	}
	line.Balance = after.WithIssuer(common.NoAccount)
	if deleteLine {
		return TrustDelete(v, line, logger)
	}
	v.Update(line)
	return common.TesSuccess
}

// TrustCreate adds a trust line between account and peer. The account side
// takes the limit and the reserve; the line is listed in both owner
// directories.
func TrustCreate(v common.ApplyView, account, peer common.AccountID, limit common.Amount, flags uint32, logger *slog.Logger) common.Result {
	line := common.NewTrustLine(account, peer, limit.Currency())
	low := line.Low()
	lowNode, ok := v.DirInsert(common.OwnerDirKeylet(low), line.Key(), OwnerDirDescriber(low))
	if !ok {
		return common.TecDirFull
	}
	high := line.High()
	highNode, ok := v.DirInsert(common.OwnerDirKeylet(high), line.Key(), OwnerDirDescriber(high))
	if !ok {
		return common.TecDirFull
	}
	line.LowNode = lowNode
	line.HighNode = highNode
	reserve, _ := line.SideFlags(account)
	line.Flags = flags | reserve
	if account == low {
		line.LowLimit = limit.WithIssuer(low)
	} else {
		line.HighLimit = limit.WithIssuer(high)
	}
	v.Insert(line)
	root := common.PeekAccount(v, account)
	if root == nil {
		return common.TefInternal
	}
	AdjustOwnerCount(v, root, 1, logger)
	return common.TesSuccess
}

// TrustDelete unlists a trust line from both owner directories and erases it.
// Owner counts are the caller's concern.
func TrustDelete(v common.ApplyView, line *common.TrustLine, logger *slog.Logger) common.Result {
	if !v.DirRemove(common.OwnerDirKeylet(line.Low()), line.LowNode, line.Key(), false) ||
		!v.DirRemove(common.OwnerDirKeylet(line.High()), line.HighNode, line.Key(), false) {
		loggerOrDefault(logger).Error(
			"trust line missing from owner directory",
			"line", line.Key().String(),
		)
		return common.TefInternal
	}
	v.Erase(line)
	return common.TesSuccess
}

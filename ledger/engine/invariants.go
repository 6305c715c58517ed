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

package engine

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
)

// Invariant is a property every applied transaction must preserve. Check is
// given the changes of the transaction, including the fee charge, and the
// ledger as it was before them.
type Invariant interface {
	Name() string
	Check(tx common.Transactor, result common.Result, changes []view.Change, before common.ReadView) error
}

type invariantFunc struct {
	name  string
	check func(common.Transactor, common.Result, []view.Change, common.ReadView) error
}

func (i invariantFunc) Name() string { return i.name }

func (i invariantFunc) Check(tx common.Transactor, result common.Result, changes []view.Change, before common.ReadView) error {
	return i.check(tx, result, changes, before)
}

// NewInvariant wraps a check function as an Invariant
func NewInvariant(
	name string,
	check func(tx common.Transactor, result common.Result, changes []view.Change, before common.ReadView) error,
) Invariant {
	return invariantFunc{name: name, check: check}
}

func DefaultInvariants() []Invariant {
	return []Invariant{
		NewInvariant("EntryTypesMatch", checkEntryTypesMatch),
		NewInvariant("AccountRootsNotDeleted", checkAccountRootsNotDeleted),
		NewInvariant("NativeBalances", checkNativeBalances),
		NewInvariant("NativeNotCreated", checkNativeNotCreated),
		NewInvariant("NoNativeTrustLines", checkNoNativeTrustLines),
		NewInvariant("ValidNewAccountRoot", checkValidNewAccountRoot),
		NewInvariant("ValidClawback", checkValidClawback),
		NewInvariant("ValidTokenIssuance", checkValidTokenIssuance),
		NewInvariant("TokenOutstanding", checkTokenOutstanding),
	}
}

var (
	errTypeMismatch = errors.New("ledger entry changed type")
	errTooMany      = errors.New("too many entries changed")
)

func checkEntryTypesMatch(_ common.Transactor, _ common.Result, changes []view.Change, _ common.ReadView) error {
	for _, c := range changes {
		if c.Before != nil && c.After != nil && c.Before.EntryType() != c.After.EntryType() {
			return fmt.Errorf("%w: %s", errTypeMismatch, c.Key)
		}
	}
	return nil
}

func checkAccountRootsNotDeleted(_ common.Transactor, _ common.Result, changes []view.Change, _ common.ReadView) error {
	for _, c := range changes {
		if c.Kind == view.ChangeDeleted && c.EntryType() == common.EntryTypeAccountRoot {
			return fmt.Errorf("account root %s deleted", c.Key)
		}
	}
	return nil
}

func checkNativeBalances(_ common.Transactor, _ common.Result, changes []view.Change, _ common.ReadView) error {
	for _, c := range changes {
		acct, ok := c.After.(*common.AccountRoot)
		if !ok {
			continue
		}
		if !acct.Balance.IsNative() || acct.Balance.Signum() < 0 || acct.Balance.Drops() > common.MaxNativeDrops {
			return fmt.Errorf("account %s has bad balance %s", acct.Account, acct.Balance)
		}
	}
	return nil
}

// checkNativeNotCreated requires native balances to drop by exactly the fee
func checkNativeNotCreated(tx common.Transactor, _ common.Result, changes []view.Change, _ common.ReadView) error {
	var drops int64
	for _, c := range changes {
		if acct, ok := c.Before.(*common.AccountRoot); ok {
			drops -= acct.Balance.Drops()
		}
		if acct, ok := c.After.(*common.AccountRoot); ok {
			drops += acct.Balance.Drops()
		}
	}
	if fee := tx.Common().Fee.Drops(); drops != -fee {
		return fmt.Errorf("native balances changed by %d drops with a fee of %d", drops, fee)
	}
	return nil
}

func checkNoNativeTrustLines(_ common.Transactor, _ common.Result, changes []view.Change, _ common.ReadView) error {
	for _, c := range changes {
		if line, ok := c.After.(*common.TrustLine); ok && !line.Balance.IsIssued() {
			return fmt.Errorf("trust line %s holds a %s balance", c.Key, line.Balance.Kind())
		}
	}
	return nil
}

func checkValidNewAccountRoot(tx common.Transactor, result common.Result, changes []view.Change, before common.ReadView) error {
	var created []*common.AccountRoot
	for _, c := range changes {
		if acct, ok := c.After.(*common.AccountRoot); ok && c.Kind == view.ChangeCreated {
			created = append(created, acct)
		}
	}
	if len(created) == 0 {
		return nil
	}
	if len(created) > 1 {
		return fmt.Errorf("%w: %d account roots created", errTooMany, len(created))
	}
	if tx.Type() != common.TxTypePayment || !result.IsSuccess() {
		return fmt.Errorf("account root created by %s with %s", tx.Type(), result)
	}
	want := uint32(1)
	if before.Rules().Enabled(common.FeatureDeletableAccounts) {
		want = before.Seq()
	}
	if created[0].Sequence != want {
		return fmt.Errorf("new account root has sequence %d, expected %d", created[0].Sequence, want)
	}
	return nil
}

func checkValidClawback(tx common.Transactor, result common.Result, changes []view.Change, _ common.ReadView) error {
	if tx.Type() != common.TxTypeClawback || !result.IsSuccess() {
		return nil
	}
	var lines []*common.TrustLine
	for _, c := range changes {
		if line, ok := c.After.(*common.TrustLine); ok {
			lines = append(lines, line)
		}
	}
	if len(lines) > 1 {
		return fmt.Errorf("%w: %d trust lines changed by clawback", errTooMany, len(lines))
	}
	if len(lines) == 1 {
		line := lines[0]
		holder := line.Low()
		if holder == tx.Common().Account {
			holder = line.High()
		}
		if line.BalanceFor(holder).Signum() < 0 {
			return fmt.Errorf("clawback left holder %s with a negative balance", holder)
		}
	}
	return nil
}

func checkValidTokenIssuance(tx common.Transactor, result common.Result, changes []view.Change, _ common.ReadView) error {
	var issuancesCreated, issuancesDeleted, tokensCreated, tokensDeleted int
	for _, c := range changes {
		switch c.EntryType() {
		case common.EntryTypeMPTokenIssuance:
			switch c.Kind {
			case view.ChangeCreated:
				issuancesCreated++
			case view.ChangeDeleted:
				issuancesDeleted++
			}
		case common.EntryTypeMPToken:
			switch c.Kind {
			case view.ChangeCreated:
				tokensCreated++
			case view.ChangeDeleted:
				tokensDeleted++
			}
		}
	}
	success := result.IsSuccess()
	switch tx.Type() {
	case common.TxTypeMPTokenIssuanceCreate:
		if success && issuancesCreated != 1 || !success && issuancesCreated != 0 {
			return fmt.Errorf("issuance create with %s created %d issuances", result, issuancesCreated)
		}
		if issuancesDeleted != 0 {
			return errors.New("issuance create deleted an issuance")
		}
	case common.TxTypeMPTokenIssuanceDestroy:
		if success && issuancesDeleted != 1 || !success && issuancesDeleted != 0 {
			return fmt.Errorf("issuance destroy with %s deleted %d issuances", result, issuancesDeleted)
		}
		if issuancesCreated != 0 {
			return errors.New("issuance destroy created an issuance")
		}
	default:
		if issuancesCreated != 0 || issuancesDeleted != 0 {
			return fmt.Errorf("%s created or deleted an issuance", tx.Type())
		}
	}
	if tx.Type() == common.TxTypeMPTokenAuthorize {
		if tokensCreated+tokensDeleted > 1 {
			return fmt.Errorf("%w: authorize created %d and deleted %d tokens", errTooMany, tokensCreated, tokensDeleted)
		}
	} else if tokensCreated != 0 || tokensDeleted != 0 {
		return fmt.Errorf("%s created or deleted a token", tx.Type())
	}
	return nil
}

// checkTokenOutstanding requires the outstanding amount of every touched
// issuance to move with the balances of its holders and stay within its
// maximum
func checkTokenOutstanding(_ common.Transactor, _ common.Result, changes []view.Change, _ common.ReadView) error {
	touched := mapset.NewSet()
	holderDelta := make(map[common.TokenID]int64)
	outstandingDelta := make(map[common.TokenID]int64)
	for _, c := range changes {
		if tok, ok := c.Before.(*common.MPToken); ok {
			touched.Add(tok.IssuanceID)
			holderDelta[tok.IssuanceID] -= int64(tok.Amount)
		}
		if tok, ok := c.After.(*common.MPToken); ok {
			touched.Add(tok.IssuanceID)
			holderDelta[tok.IssuanceID] += int64(tok.Amount)
		}
		if iss, ok := c.Before.(*common.MPTokenIssuance); ok {
			touched.Add(iss.TokenID())
			outstandingDelta[iss.TokenID()] -= int64(iss.OutstandingAmount)
		}
		if iss, ok := c.After.(*common.MPTokenIssuance); ok {
			touched.Add(iss.TokenID())
			outstandingDelta[iss.TokenID()] += int64(iss.OutstandingAmount)
			if iss.OutstandingAmount > iss.MaxAmount() {
				return fmt.Errorf("issuance %s outstanding %d above maximum %d", iss.TokenID(), iss.OutstandingAmount, iss.MaxAmount())
			}
		}
	}
	for _, item := range touched.ToSlice() {
		id := item.(common.TokenID)
		if holderDelta[id] != outstandingDelta[id] {
			return fmt.Errorf(
				"issuance %s holders changed by %d but outstanding by %d",
				id, holderDelta[id], outstandingDelta[id],
			)
		}
	}
	return nil
}

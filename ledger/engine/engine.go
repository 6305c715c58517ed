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

// Package engine applies transactions to a ledger. Each transaction runs
// through preflight, preclaim and apply; the changes of a successful or
// fee-claiming transaction are committed to the ledger together with the
// fee and sequence charge.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/paths"
	"github.com/blinklabs-io/goxrpl/ledger/view"
)

// Ledger is the state an Engine applies transactions to
type Ledger interface {
	common.RawView
	// Commit makes the changes received since the last Commit durable
	Commit() error
	// Rollback drops the changes received since the last Commit
	Rollback()
}

type Engine struct {
	ledger       Ledger
	logger       *slog.Logger
	pathFinder   common.PathFinder
	pathLimits   common.PathLimits
	dirPageLimit uint64
	invariants   []Invariant
}

type EngineOptionFunc func(*Engine)

// WithLogger specifies the logger to use. Defaults to slog.Default()
func WithLogger(logger *slog.Logger) EngineOptionFunc {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithPathFinder specifies how native and issued-currency payments are
// routed. Defaults to a paths.DirectFlow
func WithPathFinder(pathFinder common.PathFinder) EngineOptionFunc {
	return func(e *Engine) {
		e.pathFinder = pathFinder
	}
}

// WithPathLimits bounds the paths a payment may carry on an open ledger
func WithPathLimits(limits common.PathLimits) EngineOptionFunc {
	return func(e *Engine) {
		e.pathLimits = limits
	}
}

// WithDirectoryPageLimit caps the number of pages in any directory
func WithDirectoryPageLimit(limit uint64) EngineOptionFunc {
	return func(e *Engine) {
		e.dirPageLimit = limit
	}
}

// WithInvariants replaces the invariant checks run after every transaction.
// Passing none disables them.
func WithInvariants(invariants ...Invariant) EngineOptionFunc {
	return func(e *Engine) {
		e.invariants = invariants
	}
}

// New returns an Engine applying transactions to ledger
func New(ledger Ledger, opts ...EngineOptionFunc) *Engine {
	e := &Engine{
		ledger:       ledger,
		pathLimits:   common.DefaultPathLimits(),
		dirPageLimit: view.DefaultDirectoryPageLimit,
		invariants:   DefaultInvariants(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.pathFinder == nil {
		e.pathFinder = paths.NewDirectFlow(paths.WithLogger(e.logger))
	}
	return e
}

// Ledger returns the ledger the engine applies to
func (e *Engine) Ledger() Ledger {
	return e.ledger
}

// Apply runs tx against the ledger and commits its effects. The returned
// error is only set when the ledger itself fails; the transaction outcome is
// in TxResult.Result.
func (e *Engine) Apply(tx common.Transactor) (*TxResult, error) {
	res, logger, err := e.begin(tx)
	if err != nil {
		return nil, err
	}
	err = e.apply(tx, res, logger)
	if err != nil {
		e.ledger.Rollback()
		return nil, err
	}
	logger.Debug(
		"applied transaction",
		"result", res.Result.String(),
		"applied", res.Applied,
	)
	return res, nil
}

// Check runs the checks that need no ledger state. The result is never
// applied. Check only reads the ledger rules, so it may run concurrently with
// Apply.
func (e *Engine) Check(tx common.Transactor) (res *TxResult, err error) {
	res, logger, err := e.begin(tx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("transaction check panicked", "panic", fmt.Sprint(r))
			res.Result = common.TefException
		}
	}()
	res.phase = common.ValidationErrorTypePreflight
	res.Result = e.preflight(tx, logger)
	if !res.Result.IsSuccess() {
		logger.Debug("preflight failed", "result", res.Result.String())
	}
	return res, nil
}

func (e *Engine) begin(tx common.Transactor) (*TxResult, *slog.Logger, error) {
	hash, err := common.TxHash(tx)
	if err != nil {
		return nil, nil, fmt.Errorf("hash transaction: %w", err)
	}
	res := &TxResult{
		Hash:   hash,
		Type:   tx.Type(),
		Result: common.TefInternal,
	}
	logger := e.logger.With(
		"hash", hash.String(),
		"tx_type", tx.Type().String(),
		"account", tx.Common().Account.String(),
	)
	return res, logger, nil
}

func (e *Engine) apply(tx common.Transactor, res *TxResult, logger *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("transaction apply panicked", "panic", fmt.Sprint(r))
			e.ledger.Rollback()
			*res = TxResult{Hash: res.Hash, Type: res.Type, Result: common.TefException, phase: common.ValidationErrorTypeApply}
			err = nil
		}
	}()

	if r := e.preflight(tx, logger); !r.IsSuccess() {
		logger.Debug("preflight failed", "result", r.String())
		res.Result = r
		res.phase = common.ValidationErrorTypePreflight
		return nil
	}
	claimed := e.preclaim(tx, logger)
	res.phase = common.ValidationErrorTypeApply
	if !claimed.IsSuccess() {
		logger.Debug("preclaim failed", "result", claimed.String())
		res.phase = common.ValidationErrorTypePreclaim
		// Only a claimed failure goes on to charge the fee
		if !claimed.IsClaimed() {
			res.Result = claimed
			return nil
		}
	}
	if err := storeErr(e.ledger); err != nil {
		return err
	}
	e.doApply(tx, claimed, res, logger)
	if err := storeErr(e.ledger); err != nil {
		return err
	}
	if !res.Applied {
		e.ledger.Rollback()
		return nil
	}
	if err := e.ledger.Commit(); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}
	return nil
}

// storeErr returns a storage failure recorded by the ledger, if it records
// them
func storeErr(ledger Ledger) error {
	if l, ok := ledger.(interface{ Err() error }); ok && l.Err() != nil {
		return fmt.Errorf("ledger read failed: %w", l.Err())
	}
	return nil
}

func (e *Engine) preflight(tx common.Transactor, logger *slog.Logger) common.Result {
	c := tx.Common()
	if c.Account.IsZero() {
		return common.TemBadSrcAccount
	}
	if !c.Fee.IsNative() || c.Fee.Signum() < 0 || !c.Fee.IsLegalNet() {
		return common.TemBadFee
	}
	return tx.Preflight(common.PreflightContext{
		Rules:  e.ledger.Rules(),
		Logger: logger,
	})
}

func (e *Engine) preclaim(tx common.Transactor, logger *slog.Logger) common.Result {
	c := tx.Common()
	acct := common.ReadAccount(e.ledger, c.Account)
	if acct == nil {
		return common.TerNoAccount
	}
	switch {
	case c.Sequence < acct.Sequence:
		return common.TefPastSeq
	case c.Sequence > acct.Sequence:
		return common.TerPreSeq
	}
	if e.ledger.Open() && c.Fee.Less(common.NativeAmount(int64(e.ledger.Fees().Base))) {
		return common.TelInsufFeeP
	}
	if acct.Balance.Less(c.Fee) {
		return common.TerInsufFeeB
	}
	return tx.Preclaim(common.PreclaimContext{
		View:   e.ledger,
		Limits: e.pathLimits,
		Logger: logger,
	})
}

// chargeFee takes the fee and consumes the sequence number on a fresh
// sandbox. It returns the balance before the fee.
func (e *Engine) chargeFee(tx common.Transactor) (*view.Sandbox, common.Amount, error) {
	c := tx.Common()
	sb := view.NewSandbox(e.ledger, view.WithDirectoryPageLimit(e.dirPageLimit))
	acct := common.PeekAccount(sb, c.Account)
	if acct == nil {
		return nil, common.Amount{}, errors.New("source account vanished")
	}
	prior := acct.Balance
	acct.Balance = acct.Balance.Sub(c.Fee)
	acct.Sequence++
	sb.Update(acct)
	return sb, prior, nil
}

// doApply charges the fee and, unless preclaim already failed with a claimed
// result, runs the transactor
func (e *Engine) doApply(tx common.Transactor, preclaimed common.Result, res *TxResult, logger *slog.Logger) {
	outer, prior, err := e.chargeFee(tx)
	if err != nil {
		logger.Error("failed to charge fee", "error", err)
		res.Result = common.TefInternal
		return
	}
	inner := view.NewSandbox(outer)
	ctx := &common.ApplyContext{
		View:          inner,
		RawView:       inner,
		PriorBalance:  prior,
		SourceBalance: prior.Sub(tx.Common().Fee),
		PathFinder:    e.pathFinder,
		Logger:        logger,
	}
	r := preclaimed
	if r.IsSuccess() {
		r = tx.DoApply(ctx)
	}
	if r == common.TecInternal || r == common.TefInternal {
		logger.Error("transaction failed internally", "result", r.String())
	}
	switch {
	case r.IsSuccess():
		inner.Apply(outer)
	case r.IsClaimed():
		// Only the fee and sequence survive
		inner.Discard()
	default:
		res.Result = r
		return
	}

	changes := outer.Changes()
	if err := e.checkInvariants(tx, r, changes); err != nil {
		logger.Error("invariant check failed", "error", err, "result", r.String())
		r = common.TecInvariantFailed
		res.phase = common.ValidationErrorTypeInvariant
		outer, _, err = e.chargeFee(tx)
		if err != nil {
			res.Result = common.TefInternal
			return
		}
		changes = outer.Changes()
		if err := e.checkInvariants(tx, r, changes); err != nil {
			logger.Error("invariant check failed on fee charge", "error", err)
			res.Result = common.TefInvariantFailed
			return
		}
	}

	res.Result = r
	res.Applied = true
	res.Affected = affectedNodes(changes)
	if r.IsSuccess() {
		if delivered, ok := ctx.Delivered(); ok {
			res.DeliveredAmount = &delivered
		}
		if creator, ok := tx.(issuanceCreator); ok {
			id := creator.IssuanceID()
			res.IssuanceID = &id
		}
	}
	outer.Apply(e.ledger)
}

// issuanceCreator is implemented by transactions that create a token
// issuance
type issuanceCreator interface {
	IssuanceID() common.TokenID
}

func (e *Engine) checkInvariants(tx common.Transactor, r common.Result, changes []view.Change) error {
	var errs []error
	for _, inv := range e.invariants {
		if err := inv.Check(tx, r, changes, e.ledger); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", inv.Name(), err))
		}
	}
	return errors.Join(errs...)
}

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

// Package env runs transactions against an in-memory ledger for tests
package env

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/engine"
	"github.com/blinklabs-io/goxrpl/ledger/store"
)

type Env struct {
	t      testing.TB
	store  *store.Store
	engine *engine.Engine
}

type config struct {
	storeOpts  []store.StoreOptionFunc
	engineOpts []engine.EngineOptionFunc
}

type EnvOptionFunc func(*config)

// WithRules specifies the enabled features. Defaults to all of them
func WithRules(rules common.Rules) EnvOptionFunc {
	return func(c *config) {
		c.storeOpts = append(c.storeOpts, store.WithRules(rules))
	}
}

func WithFees(fees common.Fees) EnvOptionFunc {
	return func(c *config) {
		c.storeOpts = append(c.storeOpts, store.WithFees(fees))
	}
}

// WithOpenLedger makes the ledger behave as an open ledger
func WithOpenLedger() EnvOptionFunc {
	return func(c *config) {
		c.storeOpts = append(c.storeOpts, store.WithOpenLedger(true))
	}
}

func WithEngineOptions(opts ...engine.EngineOptionFunc) EnvOptionFunc {
	return func(c *config) {
		c.engineOpts = append(c.engineOpts, opts...)
	}
}

// New returns an Env over a fresh in-memory ledger that is closed when the
// test ends
func New(t testing.TB, opts ...EnvOptionFunc) *Env {
	t.Helper()
	cfg := &config{
		storeOpts: []store.StoreOptionFunc{
			store.WithRules(common.AllRules()),
			store.WithLedgerSeq(10),
		},
	}
	for _, o := range opts {
		o(cfg)
	}
	s, err := store.New("", cfg.storeOpts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return &Env{
		t:      t,
		store:  s,
		engine: engine.New(s, cfg.engineOpts...),
	}
}

func (e *Env) Store() *store.Store {
	return e.store
}

func (e *Env) Engine() *engine.Engine {
	return e.engine
}

// Fund creates accounts holding a native balance without going through a
// transaction
func (e *Env) Fund(balance common.Amount, accounts ...common.AccountID) {
	e.t.Helper()
	for _, acct := range accounts {
		e.store.RawInsert(common.NewAccountRoot(acct, balance, 1))
	}
	require.NoError(e.t, e.store.Commit())
}

// Submit fills in a missing fee and sequence, applies tx and returns the
// result
func (e *Env) Submit(tx common.Transactor) *engine.TxResult {
	e.t.Helper()
	c := tx.Common()
	if c.Fee.IsZero() && c.Fee.IsNative() {
		c.Fee = common.NativeAmount(int64(e.store.Fees().Base))
	}
	if c.Sequence == 0 {
		if acct := e.Account(c.Account); acct != nil {
			c.Sequence = acct.Sequence
		}
	}
	res, err := e.engine.Apply(tx)
	require.NoError(e.t, err)
	return res
}

// Apply submits tx and requires the given result
func (e *Env) Apply(tx common.Transactor, want common.Result) *engine.TxResult {
	e.t.Helper()
	res := e.Submit(tx)
	require.Equal(e.t, want, res.Result, "applying %s", tx.Type())
	return res
}

func (e *Env) Account(acct common.AccountID) *common.AccountRoot {
	return common.ReadAccount(e.store, acct)
}

// Balance returns the native balance of acct, zero if it does not exist
func (e *Env) Balance(acct common.AccountID) common.Amount {
	if root := e.Account(acct); root != nil {
		return root.Balance
	}
	return common.NativeAmount(0)
}

func (e *Env) OwnerCount(acct common.AccountID) uint32 {
	e.t.Helper()
	root := e.Account(acct)
	require.NotNil(e.t, root, "account %s", acct)
	return root.OwnerCount
}

func (e *Env) Line(a, b common.AccountID, currency common.Currency) *common.TrustLine {
	return common.ReadAs[*common.TrustLine](e.store, common.TrustLineKeylet(a, b, currency))
}

// IOUBalance returns what issuer owes holder in currency
func (e *Env) IOUBalance(holder, issuer common.AccountID, currency common.Currency) common.Amount {
	if line := e.Line(holder, issuer, currency); line != nil {
		return line.BalanceFor(holder)
	}
	return common.IssuedAmount(0, 0, common.NewIssue(currency, issuer))
}

func (e *Env) Issuance(id common.TokenID) *common.MPTokenIssuance {
	return common.ReadAs[*common.MPTokenIssuance](e.store, common.IssuanceKeylet(id))
}

func (e *Env) Token(id common.TokenID, holder common.AccountID) *common.MPToken {
	return common.ReadAs[*common.MPToken](e.store, common.MPTokenKeylet(id, holder))
}

// TokenBalance returns the token balance of holder, zero without a token
// entry
func (e *Env) TokenBalance(id common.TokenID, holder common.AccountID) uint64 {
	if tok := e.Token(id, holder); tok != nil {
		return tok.Amount
	}
	return 0
}

// Outstanding returns the outstanding amount of an issuance
func (e *Env) Outstanding(id common.TokenID) uint64 {
	e.t.Helper()
	iss := e.Issuance(id)
	require.NotNil(e.t, iss, "issuance %s", id)
	return iss.OutstandingAmount
}

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

package common

import "log/slog"

// PreflightContext carries what stateless checks may consult
type PreflightContext struct {
	Rules  Rules
	Logger *slog.Logger
}

// PreclaimContext carries a read-only view of the ledger
type PreclaimContext struct {
	View   ReadView
	Limits PathLimits
	Logger *slog.Logger
}

// ApplyContext carries the view a transaction modifies. The fee has already
// been charged to the view.
type ApplyContext struct {
	View ApplyView
	// RawView is View seen as the target of a nested sandbox
	RawView RawView
	// PriorBalance is the source balance before the fee was charged
	PriorBalance Amount
	// SourceBalance is the source balance after the fee was charged
	SourceBalance Amount
	PathFinder    PathFinder
	Logger        *slog.Logger

	delivered *Amount
}

// Deliver records the amount that actually reached the destination
func (c *ApplyContext) Deliver(amount Amount) {
	c.delivered = &amount
}

func (c *ApplyContext) Delivered() (Amount, bool) {
	if c.delivered == nil {
		return Amount{}, false
	}
	return *c.delivered, true
}

// Transactor is a transaction that knows how to validate and apply itself.
// The engine calls Preflight, Preclaim and DoApply in that order and stops at
// the first result that is not a success.
type Transactor interface {
	Transaction
	// Preflight checks the transaction on its own
	Preflight(ctx PreflightContext) Result
	// Preclaim checks the transaction against ledger state without changing it
	Preclaim(ctx PreclaimContext) Result
	// DoApply changes ledger state
	DoApply(ctx *ApplyContext) Result
}

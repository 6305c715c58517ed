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

// Package paths provides the default PathFinder. It moves a single issued
// currency along its default path, through the issuer when neither party is
// the issuer. Cross-currency routing is not supported and reports a dry path.
package paths

import (
	"log/slog"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
)

// Compile-time check that DirectFlow implements PathFinder
var _ common.PathFinder = (*DirectFlow)(nil)

type DirectFlow struct {
	logger *slog.Logger
}

type DirectFlowOptionFunc func(*DirectFlow)

func WithLogger(logger *slog.Logger) DirectFlowOptionFunc {
	return func(d *DirectFlow) {
		d.logger = logger
	}
}

func NewDirectFlow(opts ...DirectFlowOptionFunc) *DirectFlow {
	d := &DirectFlow{}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

func (d *DirectFlow) dry(req common.FlowRequest, reason string) common.FlowResult {
	d.logger.Debug(
		"payment path dry",
		"source", req.Source.String(),
		"destination", req.Destination.String(),
		"deliver", req.Deliver.String(),
		"reason", reason,
	)
	return common.FlowResult{
		Result:    common.TecPathDry,
		Delivered: req.Deliver.Zero(),
		Spent:     req.MaxSource.Zero(),
	}
}

// Flow delivers up to req.Deliver along the default path. The amount is
// limited by what the source can spend, what the destination line can take
// and by MaxSource.
func (d *DirectFlow) Flow(v common.ApplyView, req common.FlowRequest) common.FlowResult {
	deliver := req.Deliver
	if !deliver.IsIssued() || !req.MaxSource.IsIssued() {
		return d.dry(req, "cross-currency")
	}
	if req.MaxSource.Currency() != deliver.Currency() {
		return d.dry(req, "cross-currency")
	}
	if !req.DefaultPaths {
		return d.dry(req, "no default path")
	}
	currency := deliver.Currency()
	issuer := deliver.Issuer()
	// A source amount issued by the source itself means any issuer will do
	maxIssuer := req.MaxSource.Issuer()
	if maxIssuer != req.Source && maxIssuer != issuer {
		return d.dry(req, "cross-issuer")
	}
	amount := deliver
	if limit := req.MaxSource.WithIssuer(issuer); limit.Less(amount) {
		amount = limit
	}
	if req.Source != issuer {
		if !v.Exists(common.TrustLineKeylet(req.Source, issuer, currency)) {
			return d.dry(req, "source has no line")
		}
		// A frozen balance may still go back to its issuer
		held := view.AccountHolds(v, req.Source, currency, issuer, req.Destination == issuer)
		amount = common.MinAmount(amount, held)
	}
	if req.Destination != issuer {
		line := common.ReadAs[*common.TrustLine](v, common.TrustLineKeylet(req.Destination, issuer, currency))
		if line == nil {
			return d.dry(req, "destination has no line")
		}
		capacity := line.LimitFor(req.Destination).WithIssuer(issuer).Sub(line.BalanceFor(req.Destination))
		if capacity.Signum() < 0 {
			capacity = capacity.Zero()
		}
		amount = common.MinAmount(amount, capacity)
	}
	if amount.Signum() <= 0 {
		return d.dry(req, "no liquidity")
	}
	if amount.Less(deliver) && !req.PartialPayment {
		return common.FlowResult{
			Result:    common.TecPathPartial,
			Delivered: deliver.Zero(),
			Spent:     req.MaxSource.Zero(),
		}
	}
	if res := view.AccountSend(v, req.Source, req.Destination, amount, d.logger); !res.IsSuccess() {
		return common.FlowResult{
			Result:    res,
			Delivered: deliver.Zero(),
			Spent:     req.MaxSource.Zero(),
		}
	}
	return common.FlowResult{
		Result:    common.TesSuccess,
		Delivered: amount,
		Spent:     amount.WithIssuer(maxIssuer),
	}
}

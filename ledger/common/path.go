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

// PathStep is one hop of a payment path
type PathStep struct {
	Account  *AccountID `json:"account,omitempty"`
	Currency *Currency  `json:"currency,omitempty"`
	Issuer   *AccountID `json:"issuer,omitempty"`
}

type Path []PathStep

// PathLimits bound the paths a payment may carry when checked against an open
// ledger
type PathLimits struct {
	MaxPaths      int
	MaxPathLength int
}

func DefaultPathLimits() PathLimits {
	return PathLimits{
		MaxPaths:      6,
		MaxPathLength: 8,
	}
}

// FlowRequest describes a payment to route through a PathFinder
type FlowRequest struct {
	MaxSource      Amount
	Deliver        Amount
	Destination    AccountID
	Source         AccountID
	Paths          []Path
	PartialPayment bool
	DefaultPaths   bool
	LimitQuality   bool
	LedgerOpen     bool
}

type FlowResult struct {
	Result Result
	// Delivered is what actually reached the destination
	Delivered Amount
	// Spent is what the source paid
	Spent Amount
}

// PathFinder moves value for native and issued-currency payments. Flow is
// always called on a sandbox that is discarded unless the result is a
// success.
type PathFinder interface {
	Flow(view ApplyView, req FlowRequest) FlowResult
}

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

// Package pipeline runs transactions through concurrent decode and validate
// stages and applies them to the ledger in submission order.
package pipeline

import (
	"context"
	"time"

	"github.com/blinklabs-io/goxrpl/ledger/common"
)

// Stage does one step of work on an item. Process may run on several
// goroutines at once.
type Stage interface {
	Name() string
	Process(ctx context.Context, item *TxItem) error
}

// StageFunc adapts a function to Stage
type StageFunc struct {
	name string
	fn   func(ctx context.Context, item *TxItem) error
}

func NewStageFunc(name string, fn func(ctx context.Context, item *TxItem) error) *StageFunc {
	return &StageFunc{name: name, fn: fn}
}

func (s *StageFunc) Name() string {
	return s.name
}

func (s *StageFunc) Process(ctx context.Context, item *TxItem) error {
	return s.fn(ctx, item)
}

// Pipeline is implemented by TxPipeline
type Pipeline interface {
	Start(ctx context.Context) error
	// Submit and SubmitTx block while the pipeline is full until ctx ends
	Submit(ctx context.Context, raw []byte) error
	SubmitTx(ctx context.Context, tx common.Transactor) error
	// Results yields every item in submission order
	Results() <-chan *TxItem
	Errors() <-chan error
	Stop() error
	WaitForDrain(ctx context.Context) error
	Stats() PipelineStats
}

// PipelineStats is a snapshot of PipelineMetrics
type PipelineStats struct {
	TxsSubmitted uint64
	TxsDecoded   uint64
	TxsValidated uint64
	// TxsApplied counts transactions the engine processed, whatever their
	// result
	TxsApplied       uint64
	DecodeErrors     uint64
	ValidationErrors uint64
	ApplyErrors      uint64
	// TxsSkipped counts transactions left unapplied after the pipeline halted
	TxsSkipped uint64
	// Time spent in each stage, summed over its workers
	DecodeTime   time.Duration
	ValidateTime time.Duration
	ApplyTime    time.Duration

	// Items waiting between stages, sampled every 100ms
	CurrentQueueDepth int
	PeakQueueDepth    int

	LastTxTime time.Time
	StartTime  time.Time
}

var _ Pipeline = (*TxPipeline)(nil)

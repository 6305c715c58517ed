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

package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blinklabs-io/goxrpl/ledger/engine"
)

var (
	// ErrPendingLimitExceeded is returned when the apply stage's pending buffer is full.
	ErrPendingLimitExceeded = errors.New("pipeline: pending transaction limit exceeded")
	// ErrHalted is the apply error of transactions left unapplied after the
	// pipeline halted
	ErrHalted = errors.New("pipeline: halted by an earlier transaction")
)

// ApplyFunc applies the decoded transaction of an item to the ledger.
// It is called in sequence order (by SequenceNumber) from a single goroutine.
type ApplyFunc func(*TxItem) (*engine.TxResult, error)

// EngineApplyFunc returns an ApplyFunc that applies transactions with e
func EngineApplyFunc(e *engine.Engine) ApplyFunc {
	return func(item *TxItem) (*engine.TxResult, error) {
		return e.Apply(item.Tx())
	}
}

// HaltFunc reports whether an item, once processed, should stop every later
// transaction from being applied
type HaltFunc func(*TxItem) bool

// HaltOnError halts after a transaction that could not be decoded or applied
func HaltOnError(item *TxItem) bool {
	return item.DecodeError() != nil || item.ApplyError() != nil
}

// HaltOnFailure halts after any transaction that did not succeed
func HaltOnFailure(item *TxItem) bool {
	return item.Err() != nil
}

// ApplyStage buffers validated transactions and applies them in sequence
// order.
//
// ProcessWithStatus must be called from a single goroutine to guarantee
// ordered execution of ApplyFunc. The ApplyStageRunner provides this
// guarantee.
type ApplyStage struct {
	applyFunc  ApplyFunc
	haltFunc   HaltFunc
	maxPending int
	mu         sync.Mutex
	// pending holds out-of-order items waiting to be applied
	pending map[uint64]*TxItem
	// nextSequence is the next sequence number to apply
	nextSequence uint64
	halted       bool
	logger       *slog.Logger
}

// NewApplyStage creates an ApplyStage expecting sequence zero first.
// maxPending bounds the out-of-order buffer, zero meaning no bound. A nil
// haltFunc never halts.
func NewApplyStage(applyFunc ApplyFunc, haltFunc HaltFunc, maxPending int) *ApplyStage {
	return &ApplyStage{
		applyFunc:  applyFunc,
		haltFunc:   haltFunc,
		maxPending: maxPending,
		pending:    make(map[uint64]*TxItem),
		logger:     slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger that reports a halt
func (s *ApplyStage) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *ApplyStage) Name() string {
	return "apply"
}

func (s *ApplyStage) Process(ctx context.Context, item *TxItem) error {
	_, err := s.ProcessWithStatus(ctx, item)
	return err
}

// ProcessWithStatus takes the next item off the wire. When it is the one
// expected, it is applied together with every buffered item that follows it
// and all of them are returned in order. Otherwise it is buffered and nothing
// is returned.
func (s *ApplyStage) ProcessWithStatus(ctx context.Context, item *TxItem) ([]*TxItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if item.SequenceNumber() == s.nextSequence {
		s.nextSequence++
		s.mu.Unlock()
		s.processItem(ctx, item)
		return append([]*TxItem{item}, s.applyPending(ctx)...), nil
	}

	// Buffer even past the limit so no sequence gap forms
	s.pending[item.SequenceNumber()] = item
	pendingCount := len(s.pending)
	s.mu.Unlock()

	if s.maxPending > 0 && pendingCount > s.maxPending {
		return nil, ErrPendingLimitExceeded
	}
	return nil, nil
}

// processItem applies an item that is next in order, unless it failed an
// earlier stage or the stage has halted.
func (s *ApplyStage) processItem(ctx context.Context, item *TxItem) {
	if s.Halted() {
		item.SetApplied(nil, ErrHalted, 0)
		return
	}
	if item.DecodeError() == nil && item.ValidationError() == nil {
		s.applyItem(ctx, item)
	}
	if s.haltFunc != nil && s.haltFunc(item) {
		s.mu.Lock()
		s.halted = true
		s.mu.Unlock()
		s.logger.Warn(
			"halting transaction pipeline",
			"sequence", item.SequenceNumber(),
			"error", item.Err(),
		)
	}
}

// applyItem runs the ApplyFunc outside the lock. A panicking ApplyFunc fails
// the item instead of the pipeline.
func (s *ApplyStage) applyItem(ctx context.Context, item *TxItem) {
	if err := ctx.Err(); err != nil {
		item.SetApplied(nil, err, 0)
		return
	}
	if s.applyFunc == nil {
		item.SetApplied(nil, nil, 0)
		return
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			item.SetApplied(nil, &StagePanicError{Stage: s.Name(), Value: r}, time.Since(start))
		}
	}()
	res, err := s.applyFunc(item)
	item.SetApplied(res, err, time.Since(start))
}

// applyPending drains the buffered items that have become next in order
func (s *ApplyStage) applyPending(ctx context.Context) []*TxItem {
	var ret []*TxItem
	for ctx.Err() == nil {
		s.mu.Lock()
		item, ok := s.pending[s.nextSequence]
		if ok {
			delete(s.pending, s.nextSequence)
			s.nextSequence++
		}
		s.mu.Unlock()
		if !ok {
			break
		}
		s.processItem(ctx, item)
		ret = append(ret, item)
	}
	return ret
}

func (s *ApplyStage) Halted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.halted
}

// Reset forgets buffered items and any halt, and expects sequence zero next
func (s *ApplyStage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.pending)
	s.nextSequence = 0
	s.halted = false
}

// PendingCount returns how many out-of-order items are buffered
func (s *ApplyStage) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// ApplyStageRunner feeds an ApplyStage from one goroutine, which keeps the
// ApplyFunc calls in order, and forwards what it processed.
type ApplyStageRunner struct {
	stage   *ApplyStage
	input   <-chan *TxItem
	output  chan<- *TxItem
	errors  chan<- error
	metrics *PipelineMetrics
	started atomic.Bool
	wg      sync.WaitGroup
}

func NewApplyStageRunner(
	stage *ApplyStage,
	input <-chan *TxItem,
	output chan<- *TxItem,
	errors chan<- error,
) *ApplyStageRunner {
	return &ApplyStageRunner{
		stage:  stage,
		input:  input,
		output: output,
		errors: errors,
	}
}

// SetMetrics must be called before Start
func (r *ApplyStageRunner) SetMetrics(metrics *PipelineMetrics) {
	r.metrics = metrics
}

// Start launches the runner once. It runs until the input closes or ctx ends.
func (r *ApplyStageRunner) Start(ctx context.Context) {
	if r.started.Swap(true) {
		return
	}
	r.wg.Add(1)
	go r.run(ctx)
}

// Stop waits for the runner to exit
func (r *ApplyStageRunner) Stop() {
	r.wg.Wait()
}

func (r *ApplyStageRunner) run(ctx context.Context) {
	defer r.wg.Done()
	for {
		var item *TxItem
		select {
		case <-ctx.Done():
			return
		case next, ok := <-r.input:
			if !ok {
				return
			}
			item = next
		}
		processed, err := r.stage.ProcessWithStatus(ctx, item)
		if err != nil {
			if !r.report(ctx, err) {
				return
			}
			continue
		}
		for _, p := range processed {
			if !r.forward(ctx, p) {
				return
			}
		}
	}
}

// forward sends item to the output and reports its apply error. Items skipped
// after a halt are only counted.
func (r *ApplyStageRunner) forward(ctx context.Context, item *TxItem) bool {
	applyErr := item.ApplyError()
	skipped := errors.Is(applyErr, ErrHalted)
	if r.metrics != nil {
		switch {
		case skipped:
			r.metrics.RecordSkip()
		case item.DecodeError() == nil && item.ValidationError() == nil:
			r.metrics.RecordApply(item.ApplyDuration(), applyErr)
		}
	}
	select {
	case r.output <- item:
	case <-ctx.Done():
		return false
	}
	if applyErr != nil && !skipped {
		return r.report(ctx, applyErr)
	}
	return true
}

func (r *ApplyStageRunner) report(ctx context.Context, err error) bool {
	if r.errors == nil {
		return true
	}
	select {
	case r.errors <- err:
		return true
	case <-ctx.Done():
		return false
	}
}

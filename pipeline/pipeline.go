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
	"sync"
	"sync/atomic"
	"time"

	"github.com/blinklabs-io/goxrpl/ledger/common"
)

var (
	ErrPipelineStopped    = errors.New("pipeline: stopped")
	ErrPipelineNotStarted = errors.New("pipeline: not started")
	// ErrMissingChecker is returned by Start when validate workers are
	// configured without a Checker
	ErrMissingChecker = errors.New("pipeline: validation enabled but Checker not configured")
)

// Results before Start never blocks
var closedResults = func() <-chan *TxItem {
	ch := make(chan *TxItem)
	close(ch)
	return ch
}()

func notStartedErrors() <-chan error {
	ch := make(chan error, 1)
	ch <- ErrPipelineNotStarted
	close(ch)
	return ch
}

// TxPipeline decodes and validates submitted transactions on worker pools
// and applies them one at a time in the order they were submitted.
//
//	p := NewTxPipeline(WithEngine(eng), WithHaltFunc(HaltOnError))
//	if err := p.Start(ctx); err != nil { ... }
//	for _, raw := range txs { p.Submit(ctx, raw) }
//	for range txs { item := <-p.Results() ... }
//	p.Stop()
type TxPipeline struct {
	config  PipelineConfig
	metrics *PipelineMetrics

	applyStage   *ApplyStage
	decodePool   *StageWorkerPool
	validatePool *StageWorkerPool
	applyRunner  *ApplyStageRunner

	submitCh    chan *TxItem
	decodedCh   chan *TxItem
	validatedCh chan *TxItem
	resultsCh   chan *TxItem
	errorsCh    chan error

	nextSeq  atomic.Uint64
	ctx      context.Context
	cancel   context.CancelFunc
	started  atomic.Bool
	stopped  atomic.Bool
	wg       sync.WaitGroup
	mu       sync.Mutex
	submitMu sync.RWMutex // held for reading by Submit so Stop can close submitCh
}

// NewTxPipeline creates a TxPipeline from DefaultPipelineConfig and opts
func NewTxPipeline(opts ...PipelineOption) *TxPipeline {
	config := DefaultPipelineConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &TxPipeline{
		config:  config,
		metrics: NewPipelineMetrics(),
	}
}

// Start wires the stages together and launches their workers. Starting a
// running pipeline does nothing, and a stopped pipeline cannot restart.
func (p *TxPipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped.Load() {
		return ErrPipelineStopped
	}
	if p.started.Load() {
		return nil
	}
	validate := p.config.ValidateWorkers > 0
	if validate && p.config.Checker == nil {
		return ErrMissingChecker
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	size := p.config.PrefetchBufferSize
	p.submitCh = make(chan *TxItem, size)
	p.decodedCh = make(chan *TxItem, size)
	p.resultsCh = make(chan *TxItem, size)
	p.errorsCh = make(chan error, size)

	p.decodePool = NewStageWorkerPool(StageWorkerPoolConfig{
		Stage:         NewDecodeStage(),
		NumWorkers:    p.config.DecodeWorkers,
		Input:         p.submitCh,
		Output:        p.decodedCh,
		Errors:        p.errorsCh,
		RecordMetrics: DecodeMetricsRecorder(p.metrics),
	})
	applyInput := p.decodedCh
	if validate {
		p.validatedCh = make(chan *TxItem, size)
		p.validatePool = NewStageWorkerPool(StageWorkerPoolConfig{
			Stage:         NewValidateStage(p.config.Checker),
			NumWorkers:    p.config.ValidateWorkers,
			Input:         p.decodedCh,
			Output:        p.validatedCh,
			Errors:        p.errorsCh,
			RecordMetrics: ValidateMetricsRecorder(p.metrics),
			ShouldRecord:  RecordIfDecoded,
		})
		applyInput = p.validatedCh
	}
	p.applyStage = NewApplyStage(p.config.ApplyFunc, p.config.HaltFunc, p.config.MaxPendingTxs)
	p.applyStage.SetLogger(p.config.Logger)
	p.applyRunner = NewApplyStageRunner(p.applyStage, applyInput, p.resultsCh, p.errorsCh)
	p.applyRunner.SetMetrics(p.metrics)

	p.decodePool.Start(p.ctx) //nolint:contextcheck
	if validate {
		p.validatePool.Start(p.ctx) //nolint:contextcheck
	}
	p.applyRunner.Start(p.ctx) //nolint:contextcheck
	p.wg.Add(1)
	go p.sampleQueueDepth()

	p.started.Store(true)
	return nil
}

// Submit queues an encoded transaction in the configured Format. It blocks
// while the pipeline is full until ctx ends.
func (p *TxPipeline) Submit(ctx context.Context, raw []byte) error {
	return p.submit(ctx, func(seq uint64) *TxItem {
		return NewTxItem(p.config.Format, raw, seq)
	})
}

// SubmitTx queues a transaction that is already decoded. It takes its place
// in the same order as encoded submissions.
func (p *TxPipeline) SubmitTx(ctx context.Context, tx common.Transactor) error {
	if tx == nil {
		return errors.New("pipeline: nil transaction")
	}
	return p.submit(ctx, func(seq uint64) *TxItem {
		item := NewTxItem(p.config.Format, nil, seq)
		item.SetTx(tx, 0)
		return item
	})
}

func (p *TxPipeline) submit(ctx context.Context, newItem func(uint64) *TxItem) error {
	if !p.started.Load() {
		return ErrPipelineNotStarted
	}
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()
	if p.stopped.Load() {
		return ErrPipelineStopped
	}
	// A sequence number abandoned by a cancelled send leaves a gap that
	// stalls the apply stage, which only matters while shutting down.
	item := newItem(p.nextSeq.Add(1) - 1)
	select {
	case p.submitCh <- item:
		p.metrics.RecordSubmit()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPipelineStopped
	}
}

// Results returns every processed item in submission order, successful or
// not. Before Start it returns a closed channel.
func (p *TxPipeline) Results() <-chan *TxItem {
	if !p.started.Load() {
		return closedResults
	}
	return p.resultsCh
}

// Errors returns stage errors as they happen. Before Start it yields
// ErrPipelineNotStarted and closes.
func (p *TxPipeline) Errors() <-chan error {
	if !p.started.Load() {
		return notStartedErrors()
	}
	return p.errorsCh
}

// Stop cancels in-flight work, waits for every stage to exit and closes the
// Results and Errors channels. Items not yet read from Results when Stop is
// called may be dropped.
func (p *TxPipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started.Load() || p.stopped.Load() {
		return nil
	}

	// Cancel before taking submitMu so a Submit blocked on a full channel
	// releases its read lock.
	p.cancel()
	p.submitMu.Lock()
	p.stopped.Store(true)
	close(p.submitCh)
	p.submitMu.Unlock()

	p.decodePool.Stop()
	close(p.decodedCh)
	if p.validatePool != nil {
		p.validatePool.Stop()
		close(p.validatedCh)
	}
	p.applyRunner.Stop()
	close(p.resultsCh)
	close(p.errorsCh)
	p.wg.Wait()
	return nil
}

func (p *TxPipeline) Stats() PipelineStats {
	return p.metrics.Stats()
}

// PendingCount returns roughly how many submitted items have not reached
// Results yet.
func (p *TxPipeline) PendingCount() int {
	if !p.started.Load() {
		return 0
	}
	return p.queueDepth() + p.applyStage.PendingCount()
}

// Halted reports whether the HaltFunc has stopped later transactions from
// being applied
func (p *TxPipeline) Halted() bool {
	if !p.started.Load() {
		return false
	}
	return p.applyStage.Halted()
}

// WaitForDrain blocks until PendingCount reaches zero or ctx ends.
func (p *TxPipeline) WaitForDrain(ctx context.Context) error {
	if !p.started.Load() {
		return ErrPipelineNotStarted
	}
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if p.PendingCount() == 0 {
				return nil
			}
		}
	}
}

func (p *TxPipeline) queueDepth() int {
	return len(p.submitCh) + len(p.decodedCh) + len(p.validatedCh)
}

func (p *TxPipeline) sampleQueueDepth() {
	defer p.wg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.metrics.UpdateQueueDepth(p.queueDepth())
		}
	}
}

// DrainResults returns the results ready now without waiting for more
func (p *TxPipeline) DrainResults() []*TxItem {
	var items []*TxItem
	for {
		select {
		case item, ok := <-p.resultsCh:
			if !ok {
				return items
			}
			items = append(items, item)
		default:
			return items
		}
	}
}

// DrainErrors returns the errors ready now without waiting for more
func (p *TxPipeline) DrainErrors() []error {
	var errs []error
	for {
		select {
		case err, ok := <-p.errorsCh:
			if !ok {
				return errs
			}
			errs = append(errs, err)
		default:
			return errs
		}
	}
}

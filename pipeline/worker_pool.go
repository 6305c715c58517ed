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
	"fmt"
	"sync"
	"sync/atomic"
)

// MetricsRecorder records the outcome of one item in a stage. It reads the
// stage's duration from the item.
type MetricsRecorder func(item *TxItem, err error)

// ShouldRecordMetrics filters the items a MetricsRecorder sees, such as items
// a stage passed over
type ShouldRecordMetrics func(item *TxItem) bool

// StagePanicError is the error a worker reports when its stage panics
type StagePanicError struct {
	Stage string
	Value any
}

func (e *StagePanicError) Error() string {
	return fmt.Sprintf("pipeline: %s stage panicked: %v", e.Stage, e.Value)
}

// failer is implemented by stages that can mark an item failed after a panic
type failer interface {
	Fail(item *TxItem, err error)
}

// StageWorkerPool runs a stage on several workers. Items keep flowing to the
// output whatever their outcome, so later stages see every sequence number.
type StageWorkerPool struct {
	stage         Stage
	numWorkers    int
	input         <-chan *TxItem
	output        chan<- *TxItem
	errors        chan<- error
	recordMetrics MetricsRecorder
	shouldRecord  ShouldRecordMetrics
	wg            sync.WaitGroup
	started       atomic.Bool
}

// StageWorkerPoolConfig holds configuration for creating a StageWorkerPool.
type StageWorkerPoolConfig struct {
	// Stage is required
	Stage Stage
	// NumWorkers defaults to 1
	NumWorkers int
	Input      <-chan *TxItem
	Output     chan<- *TxItem
	// Errors may be nil, which drops errors
	Errors        chan<- error
	RecordMetrics MetricsRecorder
	// ShouldRecord defaults to recording every item
	ShouldRecord ShouldRecordMetrics
}

// NewStageWorkerPool creates a worker pool for config.Stage. It panics with
// ErrNilStage when no stage is given.
func NewStageWorkerPool(config StageWorkerPoolConfig) *StageWorkerPool {
	if config.Stage == nil {
		panic(ErrNilStage)
	}
	return &StageWorkerPool{
		stage:         config.Stage,
		numWorkers:    max(config.NumWorkers, 1),
		input:         config.Input,
		output:        config.Output,
		errors:        config.Errors,
		recordMetrics: config.RecordMetrics,
		shouldRecord:  config.ShouldRecord,
	}
}

// Start launches the workers once. They run until the input closes or ctx
// ends.
func (p *StageWorkerPool) Start(ctx context.Context) {
	if p.started.Swap(true) {
		return
	}
	p.wg.Add(p.numWorkers)
	for range p.numWorkers {
		go p.worker(ctx)
	}
}

// Stop waits for all workers to complete.
func (p *StageWorkerPool) Stop() {
	p.wg.Wait()
}

func (p *StageWorkerPool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		var item *TxItem
		select {
		case <-ctx.Done():
			return
		case next, ok := <-p.input:
			if !ok {
				return
			}
			item = next
		}

		err := p.process(ctx, item)
		if p.recordMetrics != nil && !isCancel(err) &&
			(p.shouldRecord == nil || p.shouldRecord(item)) {
			p.recordMetrics(item, err)
		}
		if err != nil && p.errors != nil {
			select {
			case p.errors <- err:
			case <-ctx.Done():
				return
			}
		}
		select {
		case p.output <- item:
		case <-ctx.Done():
			return
		}
	}
}

// process runs the stage on item and turns a panic into a failure of that
// item alone
func (p *StageWorkerPool) process(ctx context.Context, item *TxItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StagePanicError{Stage: p.stage.Name(), Value: r}
			if f, ok := p.stage.(failer); ok {
				f.Fail(item, err)
			}
		}
	}()
	return p.stage.Process(ctx, item)
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// DecodeMetricsRecorder returns a MetricsRecorder for the decode stage.
func DecodeMetricsRecorder(metrics *PipelineMetrics) MetricsRecorder {
	if metrics == nil {
		return nil
	}
	return func(item *TxItem, err error) {
		metrics.RecordDecode(item.DecodeDuration(), err)
	}
}

// ValidateMetricsRecorder returns a MetricsRecorder for the validate stage.
func ValidateMetricsRecorder(metrics *PipelineMetrics) MetricsRecorder {
	if metrics == nil {
		return nil
	}
	return func(item *TxItem, err error) {
		metrics.RecordValidate(item.ValidateDuration(), err)
	}
}

// RecordIfDecoded records only items that decoded, since the validate stage
// passes over the rest
func RecordIfDecoded(item *TxItem) bool {
	return item.IsDecoded()
}

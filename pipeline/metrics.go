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
	"sync"
	"sync/atomic"
	"time"
)

// PipelineMetrics counts what each stage did. Counters are atomic; queue
// depth and timestamps sit behind mu.
type PipelineMetrics struct {
	txsSubmitted     atomic.Uint64
	txsDecoded       atomic.Uint64
	txsValidated     atomic.Uint64
	txsApplied       atomic.Uint64
	txsSkipped       atomic.Uint64
	decodeErrors     atomic.Uint64
	validationErrors atomic.Uint64
	applyErrors      atomic.Uint64
	// Cumulative time spent in each stage, in nanoseconds
	decodeTime   atomic.Int64
	validateTime atomic.Int64
	applyTime    atomic.Int64

	mu                sync.RWMutex
	currentQueueDepth int
	peakQueueDepth    int
	lastTxTime        time.Time
	startTime         time.Time
}

func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{startTime: time.Now()}
}

func (m *PipelineMetrics) RecordSubmit() {
	m.txsSubmitted.Add(1)
}

func (m *PipelineMetrics) RecordDecode(duration time.Duration, err error) {
	m.decodeTime.Add(int64(duration))
	count(err, &m.txsDecoded, &m.decodeErrors)
}

func (m *PipelineMetrics) RecordValidate(duration time.Duration, err error) {
	m.validateTime.Add(int64(duration))
	count(err, &m.txsValidated, &m.validationErrors)
}

// RecordApply counts a transaction handed to the ApplyFunc. err is a failure
// to apply, not a failed transaction result.
func (m *PipelineMetrics) RecordApply(duration time.Duration, err error) {
	m.applyTime.Add(int64(duration))
	if count(err, &m.txsApplied, &m.applyErrors) {
		m.mu.Lock()
		m.lastTxTime = time.Now()
		m.mu.Unlock()
	}
}

// RecordSkip counts a transaction left unapplied after a halt
func (m *PipelineMetrics) RecordSkip() {
	m.txsSkipped.Add(1)
}

func count(err error, ok, failed *atomic.Uint64) bool {
	if err != nil {
		failed.Add(1)
		return false
	}
	ok.Add(1)
	return true
}

func (m *PipelineMetrics) UpdateQueueDepth(depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentQueueDepth = depth
	m.peakQueueDepth = max(m.peakQueueDepth, depth)
}

func (m *PipelineMetrics) Stats() PipelineStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return PipelineStats{
		TxsSubmitted:      m.txsSubmitted.Load(),
		TxsDecoded:        m.txsDecoded.Load(),
		TxsValidated:      m.txsValidated.Load(),
		TxsApplied:        m.txsApplied.Load(),
		TxsSkipped:        m.txsSkipped.Load(),
		DecodeErrors:      m.decodeErrors.Load(),
		ValidationErrors:  m.validationErrors.Load(),
		ApplyErrors:       m.applyErrors.Load(),
		DecodeTime:        time.Duration(m.decodeTime.Load()),
		ValidateTime:      time.Duration(m.validateTime.Load()),
		ApplyTime:         time.Duration(m.applyTime.Load()),
		CurrentQueueDepth: m.currentQueueDepth,
		PeakQueueDepth:    m.peakQueueDepth,
		LastTxTime:        m.lastTxTime,
		StartTime:         m.startTime,
	}
}

// Reset zeroes every counter and restarts the clock
func (m *PipelineMetrics) Reset() {
	for _, c := range []*atomic.Uint64{
		&m.txsSubmitted, &m.txsDecoded, &m.txsValidated, &m.txsApplied,
		&m.txsSkipped, &m.decodeErrors, &m.validationErrors, &m.applyErrors,
	} {
		c.Store(0)
	}
	m.decodeTime.Store(0)
	m.validateTime.Store(0)
	m.applyTime.Store(0)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentQueueDepth = 0
	m.peakQueueDepth = 0
	m.lastTxTime = time.Time{}
	m.startTime = time.Now()
}

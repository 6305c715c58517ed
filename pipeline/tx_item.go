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
	"time"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/engine"
)

// TxItem represents a transaction as it moves through the pipeline.
// It is thread-safe and tracks the processing state at each stage.
type TxItem struct {
	// Immutable fields (set at construction, never modified)
	raw            []byte
	format         Format
	sequenceNumber uint64
	receivedAt     time.Time

	mu sync.RWMutex

	// Decode stage results
	tx             common.Transactor
	decodeError    error
	decodeDuration time.Duration

	// Validate stage results
	validationError  error
	validateDuration time.Duration

	// Apply stage results
	result        *engine.TxResult
	applied       bool
	applyError    error
	applyDuration time.Duration
}

// NewTxItem creates a new TxItem. The raw slice is copied so the item owns
// its data.
func NewTxItem(format Format, raw []byte, seq uint64) *TxItem {
	data := make([]byte, len(raw))
	copy(data, raw)
	return &TxItem{
		raw:            data,
		format:         format,
		sequenceNumber: seq,
		receivedAt:     time.Now(),
	}
}

// Raw returns the encoded transaction. The returned slice should not be
// modified.
func (i *TxItem) Raw() []byte {
	return i.raw
}

// Format returns the encoding of Raw
func (i *TxItem) Format() Format {
	return i.format
}

// SequenceNumber returns the submission order of the item
func (i *TxItem) SequenceNumber() uint64 {
	return i.sequenceNumber
}

func (i *TxItem) ReceivedAt() time.Time {
	return i.receivedAt
}

// Tx returns the decoded transaction, or nil if not yet decoded or decode
// failed.
func (i *TxItem) Tx() common.Transactor {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.tx
}

// SetTx sets the decoded transaction and clears any decode error
func (i *TxItem) SetTx(tx common.Transactor, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.tx = tx
	i.decodeError = nil
	i.decodeDuration = duration
}

func (i *TxItem) DecodeError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeError
}

// SetDecodeError sets the decode error and clears any decoded transaction
func (i *TxItem) SetDecodeError(err error, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.tx = nil
	i.decodeError = err
	i.decodeDuration = duration
}

func (i *TxItem) DecodeDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeDuration
}

// IsDecoded returns true if the transaction has been successfully decoded
func (i *TxItem) IsDecoded() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.tx != nil
}

// SetValidation records the outcome of the stateless checks. A rejected
// transaction carries its unapplied result.
func (i *TxItem) SetValidation(res *engine.TxResult, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.validateDuration = duration
	i.validationError = nil
	if res != nil && !res.Result.IsSuccess() {
		i.validationError = res.Err()
		i.result = res
	}
}

// SetValidationError records a failure to run the stateless checks
func (i *TxItem) SetValidationError(err error, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.validationError = err
	i.validateDuration = duration
}

// ValidationError returns the error that kept the transaction out of the
// apply stage, if any
func (i *TxItem) ValidationError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.validationError
}

func (i *TxItem) ValidateDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.validateDuration
}

// SetApplied records the apply outcome. A nil result keeps a result set by
// validation.
func (i *TxItem) SetApplied(res *engine.TxResult, err error, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if res != nil {
		i.result = res
	}
	i.applied = res != nil && res.Applied
	i.applyError = err
	i.applyDuration = duration
}

// Result returns the transaction outcome. It is nil when the transaction
// never reached the engine.
func (i *TxItem) Result() *engine.TxResult {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.result
}

// IsApplied returns true if the transaction changed the ledger
func (i *TxItem) IsApplied() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.applied
}

func (i *TxItem) ApplyError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.applyError
}

func (i *TxItem) ApplyDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.applyDuration
}

// Err returns the first failure the item met: a decode error, a validation
// error, an apply error or a failed result.
func (i *TxItem) Err() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	switch {
	case i.decodeError != nil:
		return i.decodeError
	case i.validationError != nil:
		return i.validationError
	case i.applyError != nil:
		return i.applyError
	case i.result != nil:
		return i.result.Err()
	}
	return nil
}

// TotalDuration returns the time from receipt until now
func (i *TxItem) TotalDuration() time.Duration {
	return time.Since(i.receivedAt)
}

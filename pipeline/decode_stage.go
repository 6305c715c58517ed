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
	"time"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/engine"
)

// ErrNilStage is returned when a nil stage is passed to a worker pool.
var ErrNilStage = errors.New("pipeline: nil stage")

// Format is the encoding of submitted transactions
type Format uint8

const (
	FormatJSON Format = iota
	FormatCBOR
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCBOR:
		return "cbor"
	}
	return fmt.Sprintf("Format(%d)", f)
}

// ParseFormat returns the format with the given name
func ParseFormat(name string) (Format, error) {
	switch name {
	case "json":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	}
	return 0, fmt.Errorf("unknown transaction format: %q", name)
}

// DecodeStage decodes raw transactions
type DecodeStage struct{}

func NewDecodeStage() *DecodeStage {
	return &DecodeStage{}
}

func (s *DecodeStage) Name() string {
	return "decode"
}

// Process decodes the raw transaction in the item. Items submitted already
// decoded pass through.
func (s *DecodeStage) Process(ctx context.Context, item *TxItem) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if item.IsDecoded() {
		return nil
	}

	start := time.Now()
	var tx common.Transactor
	var err error
	switch item.Format() {
	case FormatJSON:
		tx, err = engine.DecodeTransactionJSON(item.Raw())
	case FormatCBOR:
		tx, err = engine.DecodeTransaction(item.Raw())
	default:
		err = fmt.Errorf("unknown transaction format: %s", item.Format())
	}
	duration := time.Since(start)

	if err != nil {
		err = fmt.Errorf("transaction %d: %w", item.SequenceNumber(), err)
		item.SetDecodeError(err, duration)
		return err
	}

	item.SetTx(tx, duration)
	return nil
}

// Fail marks item undecodable
func (s *DecodeStage) Fail(item *TxItem, err error) {
	item.SetDecodeError(err, 0)
}

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
	"fmt"
	"time"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/engine"
)

// Checker runs the stateless checks of a transaction. It must be safe for
// concurrent use. *engine.Engine satisfies it.
type Checker interface {
	Check(tx common.Transactor) (*engine.TxResult, error)
}

// ValidateStage runs the stateless checks on decoded transactions, so that
// malformed ones never reach the apply stage.
type ValidateStage struct {
	checker Checker
}

func NewValidateStage(checker Checker) *ValidateStage {
	return &ValidateStage{
		checker: checker,
	}
}

func (s *ValidateStage) Name() string {
	return "validate"
}

// Process checks the transaction in the item.
func (s *ValidateStage) Process(ctx context.Context, item *TxItem) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// The decode stage already reported the error
	if !item.IsDecoded() {
		return nil
	}

	start := time.Now()
	if s.checker == nil {
		err := fmt.Errorf("transaction %d: checker not configured", item.SequenceNumber())
		item.SetValidationError(err, time.Since(start))
		return err
	}
	res, err := s.checker.Check(item.Tx())
	duration := time.Since(start)
	if err != nil {
		err = fmt.Errorf("transaction %d: %w", item.SequenceNumber(), err)
		item.SetValidationError(err, duration)
		return err
	}
	item.SetValidation(res, duration)
	return item.ValidationError()
}

// Fail keeps item out of the apply stage
func (s *ValidateStage) Fail(item *TxItem, err error) {
	item.SetValidationError(err, 0)
}

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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/engine"
	"github.com/blinklabs-io/goxrpl/ledger/store"
	"github.com/blinklabs-io/goxrpl/pipeline"
)

var errTransactionFailed = errors.New("transaction failed")

func newApplyCmd(c *cli) *cobra.Command {
	var autofill, stopOnFailure bool
	var workers int
	cmd := &cobra.Command{
		Use:   "apply [file...]",
		Short: "Apply JSON transactions read from files or stdin",
		Long: `Apply JSON transactions in order. Each input holds a single transaction
object, a JSON array of them or a stream of objects. Transactions are decoded
and checked concurrently and applied in input order. A result is printed for
every transaction that reached the engine.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			var txs []json.RawMessage
			var labels []string
			for _, name := range args {
				raw, err := readInput(name)
				if err != nil {
					return err
				}
				for i := range raw {
					labels = append(labels, fmt.Sprintf("%s: transaction %d", name, i))
				}
				txs = append(txs, raw...)
			}
			s, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()
			return applyAll(cmd.OutOrStdout(), c.newPipeline(s, workers, autofill, stopOnFailure), txs, labels, stopOnFailure)
		},
	}
	cmd.Flags().BoolVar(&autofill, "autofill", false, "fill in a missing fee and sequence")
	cmd.Flags().BoolVar(&stopOnFailure, "stop-on-failure", false, "stop at the first transaction that does not succeed")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "number of decode and check workers")
	return cmd
}

func (c *cli) newPipeline(s *store.Store, workers int, autofill, stopOnFailure bool) *pipeline.TxPipeline {
	eng := engine.New(s, engine.WithLogger(c.logger))
	apply := pipeline.EngineApplyFunc(eng)
	if autofill {
		apply = func(item *pipeline.TxItem) (*engine.TxResult, error) {
			fill(s, item.Tx())
			return eng.Apply(item.Tx())
		}
	}
	halt := pipeline.HaltOnError
	if stopOnFailure {
		halt = pipeline.HaltOnFailure
	}
	return pipeline.NewTxPipeline(
		pipeline.WithDecodeWorkers(workers),
		pipeline.WithEngine(eng),
		pipeline.WithValidateWorkers(workers),
		pipeline.WithApplyFunc(apply),
		pipeline.WithHaltFunc(halt),
		pipeline.WithLogger(c.logger),
	)
}

// applyAll runs txs through p and prints each result in order. It stops at
// the first transaction that could not be decoded or applied, or with
// stopOnFailure at the first that did not succeed.
func applyAll(w io.Writer, p *pipeline.TxPipeline, txs []json.RawMessage, labels []string, stopOnFailure bool) (err error) {
	if len(txs) == 0 {
		return nil
	}
	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if stopErr := p.Stop(); err == nil {
			err = stopErr
		}
	}()
	// Failures are reported through the items
	go func() {
		for range p.Errors() { //nolint:revive
		}
	}()
	submitErr := make(chan error, 1)
	go func() {
		for _, raw := range txs {
			if err := p.Submit(ctx, raw); err != nil {
				submitErr <- err
				return
			}
		}
	}()

	out := json.NewEncoder(w)
	var failure error
	for range txs {
		var item *pipeline.TxItem
		select {
		case item = <-p.Results():
		case err := <-submitErr:
			return err
		}
		label := labels[item.SequenceNumber()]
		switch {
		case failure != nil:
			// Skipped after a halt
		case item.DecodeError() != nil:
			failure = fmt.Errorf("%s: %w", label, item.DecodeError())
		case item.ApplyError() != nil:
			failure = fmt.Errorf("%s: %w", label, item.ApplyError())
		case item.Result() == nil:
			failure = fmt.Errorf("%s: %w", label, item.ValidationError())
		default:
			if err := out.Encode(item.Result()); err != nil {
				return err
			}
			if stopOnFailure && item.Err() != nil {
				failure = fmt.Errorf("%s: %w: %w", label, errTransactionFailed, item.Err())
			}
		}
	}
	return failure
}

// fill sets a zero fee to the base fee and a zero sequence to the next
// sequence of the sending account
func fill(s *store.Store, tx common.Transactor) {
	c := tx.Common()
	if c.Fee.IsNative() && c.Fee.IsZero() {
		c.Fee = common.NativeAmount(int64(s.Fees().Base))
	}
	if c.Sequence == 0 {
		if acct := common.ReadAccount(s, c.Account); acct != nil {
			c.Sequence = acct.Sequence
		}
	}
}

func readInput(name string) ([]json.RawMessage, error) {
	if name == "-" {
		return readTransactions(os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	txs, err := readTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return txs, nil
}

// readTransactions splits its input into transaction objects. The input is
// either a JSON array or a sequence of objects.
func readTransactions(r io.Reader) ([]json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var ret []json.RawMessage
		if err := json.Unmarshal(data, &ret); err != nil {
			return nil, fmt.Errorf("decode transaction list: %w", err)
		}
		return ret, nil
	}
	var ret []json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return ret, nil
			}
			return nil, fmt.Errorf("decode transaction %d: %w", len(ret), err)
		}
		ret = append(ret, raw)
	}
}

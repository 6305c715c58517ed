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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/blinklabs-io/goxrpl/internal/test"
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/engine"
	"github.com/blinklabs-io/goxrpl/ledger/payment"
)

func run(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOutput(&out)
	cmd.SetArgs(append([]string{"--db", dbPath, "--log-level", "error"}, args...))
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestReadTransactions(t *testing.T) {
	defer goleak.VerifyNone(t, test.LeakOptions()...)
	testDefs := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "  ", expected: 0},
		{name: "object", input: `{"TransactionType":"Payment"}`, expected: 1},
		{name: "array", input: `[{"a":1},{"b":2}]`, expected: 2},
		{name: "stream", input: "{\"a\":1}\n{\"b\":2}\n{\"c\":3}\n", expected: 3},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			txs, err := readTransactions(strings.NewReader(testDef.input))
			require.NoError(t, err)
			assert.Len(t, txs, testDef.expected)
		})
	}
	_, err := readTransactions(strings.NewReader(`{"a":`))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	defer goleak.VerifyNone(t, test.LeakOptions()...)
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn", "json")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])

	_, err = newLogger(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = newLogger(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestApplyCommand(t *testing.T) {
	defer goleak.VerifyNone(t, test.LeakOptions()...)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ledger")
	alice := test.Account("alice")
	bob := test.Account("bob")
	run(t, dbPath, "fund", alice.String(), "1000000000")
	run(t, dbPath, "fund", bob.String(), "1000000000")

	data, err := engine.EncodeTransactionJSON(&payment.Payment{
		TxCommon:    common.TxCommon{Account: alice},
		Amount:      common.XRP(100),
		Destination: bob,
	})
	require.NoError(t, err)
	txFile := filepath.Join(dir, "tx.json")
	require.NoError(t, os.WriteFile(txFile, data, 0o600))

	out := run(t, dbPath, "apply", "--autofill", "--stop-on-failure", txFile)
	var res struct {
		Result  common.Result `json:"engine_result"`
		Applied bool          `json:"applied"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, common.TesSuccess, res.Result)
	assert.True(t, res.Applied)

	out = run(t, dbPath, "account", bob.String())
	var root struct {
		Balance common.Amount
	}
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, common.XRP(1100), root.Balance)

	out = run(t, dbPath, "dump")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestApplyCommandStopsOnFailure(t *testing.T) {
	defer goleak.VerifyNone(t, test.LeakOptions()...)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ledger")
	alice := test.Account("alice")
	run(t, dbPath, "fund", alice.String(), "1000000000")

	data, err := engine.EncodeTransactionJSON(&payment.Payment{
		TxCommon:    common.TxCommon{Account: alice},
		Amount:      common.XRP(5000),
		Destination: test.Account("bob"),
	})
	require.NoError(t, err)
	txFile := filepath.Join(dir, "tx.json")
	require.NoError(t, os.WriteFile(txFile, data, 0o600))

	cmd := newRootCmd()
	cmd.SetOutput(&bytes.Buffer{})
	cmd.SetArgs([]string{"--db", dbPath, "--log-level", "error", "apply", "--autofill", "--stop-on-failure", txFile})
	assert.ErrorIs(t, cmd.Execute(), errTransactionFailed)
}

func TestApplyCommandOrdersTransactions(t *testing.T) {
	defer goleak.VerifyNone(t, test.LeakOptions()...)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ledger")
	alice := test.Account("alice")
	bob := test.Account("bob")
	run(t, dbPath, "fund", alice.String(), "1000000000")
	run(t, dbPath, "fund", bob.String(), "1000000000")

	// Explicit sequences only succeed when applied in input order
	var txs []json.RawMessage
	for seq := uint32(1); seq <= 5; seq++ {
		data, err := engine.EncodeTransactionJSON(&payment.Payment{
			TxCommon:    common.TxCommon{Account: alice, Fee: common.NativeAmount(10), Sequence: seq},
			Amount:      common.XRP(10),
			Destination: bob,
		})
		require.NoError(t, err)
		txs = append(txs, data)
	}
	data, err := json.Marshal(txs)
	require.NoError(t, err)
	txFile := filepath.Join(dir, "txs.json")
	require.NoError(t, os.WriteFile(txFile, data, 0o600))

	out := run(t, dbPath, "apply", "--workers", "4", "--stop-on-failure", txFile)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 5)

	out = run(t, dbPath, "account", bob.String())
	var root struct {
		Balance common.Amount
	}
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, common.XRP(1050), root.Balance)
}

func TestApplyCommandStopsOnBadInput(t *testing.T) {
	defer goleak.VerifyNone(t, test.LeakOptions()...)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ledger")
	alice := test.Account("alice")
	bob := test.Account("bob")
	run(t, dbPath, "fund", alice.String(), "1000000000")
	run(t, dbPath, "fund", bob.String(), "1000000000")

	data, err := engine.EncodeTransactionJSON(&payment.Payment{
		TxCommon:    common.TxCommon{Account: alice},
		Amount:      common.XRP(10),
		Destination: bob,
	})
	require.NoError(t, err)
	stream := string(data) + "\n" + `{"TransactionType":"Teleport"}` + "\n" + string(data) + "\n"
	txFile := filepath.Join(dir, "txs.json")
	require.NoError(t, os.WriteFile(txFile, []byte(stream), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOutput(&out)
	cmd.SetArgs([]string{"--db", dbPath, "--log-level", "error", "apply", "--autofill", txFile})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction 1")

	// Only the first payment went through
	var root struct {
		Sequence uint32
	}
	require.NoError(t, json.Unmarshal([]byte(run(t, dbPath, "account", alice.String())), &root))
	assert.Equal(t, uint32(2), root.Sequence)
}

func TestConfigFile(t *testing.T) {
	defer goleak.VerifyNone(t, test.LeakOptions()...)
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
leveldb:
  path: `+filepath.Join(dir, "ledger")+`
fees:
  reserve: 20000000
features:
  disabled: [Clawback]
`), 0o600))
	c := newCLI()
	c.cfgFile = cfgFile
	require.NoError(t, c.init())
	rules, err := c.rules()
	require.NoError(t, err)
	assert.False(t, rules.Enabled(common.FeatureClawback))
	assert.True(t, rules.Enabled(common.FeatureMPTokensV1))
	assert.Equal(t, uint64(20000000), c.v.GetUint64("fees.reserve"))
	assert.Equal(t, filepath.Join(dir, "ledger"), c.v.GetString("leveldb.path"))
}

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

package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/blinklabs-io/goxrpl/internal/test"
	"github.com/blinklabs-io/goxrpl/ledger/account"
	"github.com/blinklabs-io/goxrpl/ledger/clawback"
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/engine"
	"github.com/blinklabs-io/goxrpl/ledger/mptoken"
	"github.com/blinklabs-io/goxrpl/ledger/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registryTransactions() []common.Transactor {
	tag := uint32(9)
	maximum := uint64(1000)
	id := common.NewTokenID(4, alice)
	return []common.Transactor{
		&payment.Payment{
			TxCommon:       common.TxCommon{Account: alice, Fee: common.NativeAmount(12), Sequence: 3},
			Amount:         common.XRP(25),
			Destination:    bob,
			DestinationTag: &tag,
		},
		&payment.Payment{
			TxCommon:    common.TxCommon{Account: alice, Fee: common.NativeAmount(10), Sequence: 4},
			Amount:      common.TokenAmount(7, id),
			Destination: bob,
		},
		&account.Set{TxCommon: common.TxCommon{Account: alice, Fee: common.NativeAmount(10), Sequence: 5}, SetFlag: common.AsfNoFreeze},
		&account.DepositPreauth{TxCommon: common.TxCommon{Account: alice, Fee: common.NativeAmount(10), Sequence: 6}, Authorize: &bob},
		&clawback.Clawback{TxCommon: common.TxCommon{Account: alice, Fee: common.NativeAmount(10), Sequence: 7}, Amount: test.IOU(5, "USD", bob)},
		&mptoken.IssuanceCreate{TxCommon: common.TxCommon{Account: alice, Fee: common.NativeAmount(10), Sequence: 8, Flags: common.TfMPTCanLock}, MaximumAmount: &maximum},
		&mptoken.IssuanceDestroy{TxCommon: common.TxCommon{Account: alice, Fee: common.NativeAmount(10), Sequence: 9}, IssuanceID: id},
		&mptoken.IssuanceSet{TxCommon: common.TxCommon{Account: alice, Fee: common.NativeAmount(10), Sequence: 10, Flags: common.TfMPTLock}, IssuanceID: id, Holder: &bob},
		&mptoken.Authorize{TxCommon: common.TxCommon{Account: bob, Fee: common.NativeAmount(10), Sequence: 11}, IssuanceID: id},
	}
}

func TestTransactionJSON(t *testing.T) {
	for _, tx := range registryTransactions() {
		t.Run(tx.Type().String(), func(t *testing.T) {
			data, err := engine.EncodeTransactionJSON(tx)
			require.NoError(t, err)
			var fields map[string]any
			require.NoError(t, json.Unmarshal(data, &fields))
			assert.Equal(t, tx.Type().String(), fields["TransactionType"])

			decoded, err := engine.DecodeTransactionJSON(data)
			require.NoError(t, err)
			assert.Equal(t, tx, decoded)
		})
	}
}

func TestTransactionCBOR(t *testing.T) {
	for _, tx := range registryTransactions() {
		t.Run(tx.Type().String(), func(t *testing.T) {
			data, err := engine.EncodeTransaction(tx)
			require.NoError(t, err)
			decoded, err := engine.DecodeTransaction(data)
			require.NoError(t, err)
			assert.Equal(t, tx, decoded)

			want, err := common.TxHash(tx)
			require.NoError(t, err)
			got, err := common.TxHash(decoded)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestEmptyMetadataRoundTrip(t *testing.T) {
	newCreate := func(metadata *common.Blob) *mptoken.IssuanceCreate {
		return &mptoken.IssuanceCreate{
			TxCommon: common.TxCommon{Account: alice, Fee: common.NativeAmount(10), Sequence: 2},
			Metadata: metadata,
		}
	}
	empty := common.Blob{}
	withEmpty := newCreate(&empty)
	preflight := func(tx common.Transactor) common.Result {
		return tx.Preflight(common.PreflightContext{Rules: common.AllRules()})
	}

	raw, err := engine.DecodeTransactionJSON([]byte(
		`{"TransactionType":"MPTokenIssuanceCreate","Account":"` + alice.String() + `","MPTokenMetadata":""}`,
	))
	require.NoError(t, err)
	assert.Equal(t, common.TemMalformed, preflight(raw))

	jsonData, err := engine.EncodeTransactionJSON(withEmpty)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"MPTokenMetadata":""`)
	cborData, err := engine.EncodeTransaction(withEmpty)
	require.NoError(t, err)
	fromJSON, err := engine.DecodeTransactionJSON(jsonData)
	require.NoError(t, err)
	fromCBOR, err := engine.DecodeTransaction(cborData)
	require.NoError(t, err)
	for _, decoded := range []common.Transactor{fromJSON, fromCBOR} {
		create, ok := decoded.(*mptoken.IssuanceCreate)
		require.True(t, ok)
		require.NotNil(t, create.Metadata)
		assert.Empty(t, *create.Metadata)
		assert.Equal(t, common.TemMalformed, preflight(decoded))
	}

	emptyHash, err := common.TxHash(withEmpty)
	require.NoError(t, err)
	absentHash, err := common.TxHash(newCreate(nil))
	require.NoError(t, err)
	assert.NotEqual(t, absentHash, emptyHash)
}

func TestDecodeTransactionJSONErrors(t *testing.T) {
	testDefs := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{`},
		{name: "missing type", data: `{"Account":"x"}`},
		{name: "unknown type", data: `{"TransactionType":"OfferCreate"}`},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := engine.DecodeTransactionJSON([]byte(testDef.data))
			assert.Error(t, err)
		})
	}
}

func TestNewTransaction(t *testing.T) {
	tx, err := engine.NewTransaction(common.TxTypeClawback)
	require.NoError(t, err)
	assert.IsType(t, &clawback.Clawback{}, tx)
	_, err = engine.NewTransaction(common.TxType(0xffff))
	assert.ErrorIs(t, err, engine.ErrUnknownTransactionType)
}

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

package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blinklabs-io/goxrpl/cbor"
	"github.com/blinklabs-io/goxrpl/ledger/account"
	"github.com/blinklabs-io/goxrpl/ledger/clawback"
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/mptoken"
	"github.com/blinklabs-io/goxrpl/ledger/payment"
)

// ErrUnknownTransactionType is returned for a transaction type with no
// registered transactor
var ErrUnknownTransactionType = errors.New("unknown transaction type")

var txConstructors = map[common.TxType]func() common.Transactor{
	common.TxTypePayment:                func() common.Transactor { return &payment.Payment{} },
	common.TxTypeAccountSet:             func() common.Transactor { return &account.Set{} },
	common.TxTypeDepositPreauth:         func() common.Transactor { return &account.DepositPreauth{} },
	common.TxTypeTrustSet:               func() common.Transactor { return &account.TrustSet{} },
	common.TxTypeClawback:               func() common.Transactor { return &clawback.Clawback{} },
	common.TxTypeMPTokenIssuanceCreate:  func() common.Transactor { return &mptoken.IssuanceCreate{} },
	common.TxTypeMPTokenIssuanceDestroy: func() common.Transactor { return &mptoken.IssuanceDestroy{} },
	common.TxTypeMPTokenIssuanceSet:     func() common.Transactor { return &mptoken.IssuanceSet{} },
	common.TxTypeMPTokenAuthorize:       func() common.Transactor { return &mptoken.Authorize{} },
}

// NewTransaction returns an empty transaction of the given type
func NewTransaction(txType common.TxType) (common.Transactor, error) {
	newFunc, ok := txConstructors[txType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransactionType, txType)
	}
	return newFunc(), nil
}

// DecodeTransactionJSON decodes a transaction object whose TransactionType
// field names its type
func DecodeTransactionJSON(data []byte) (common.Transactor, error) {
	var head struct {
		TransactionType *common.TxType
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if head.TransactionType == nil {
		return nil, errors.New("decode transaction: missing TransactionType")
	}
	tx, err := NewTransaction(*head.TransactionType)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, tx); err != nil {
		return nil, fmt.Errorf("decode %s: %w", *head.TransactionType, err)
	}
	return tx, nil
}

// EncodeTransactionJSON is the inverse of DecodeTransactionJSON
func EncodeTransactionJSON(tx common.Transactor) ([]byte, error) {
	data, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	txType, err := json.Marshal(tx.Type())
	if err != nil {
		return nil, err
	}
	fields["TransactionType"] = txType
	return json.Marshal(fields)
}

// EncodeTransaction returns the canonical binary encoding of tx, a CBOR list
// of its type and its fields. Transaction hashes are taken over it.
func EncodeTransaction(tx common.Transactor) ([]byte, error) {
	return cbor.Encode([]any{tx.Type(), tx})
}

// DecodeTransaction is the inverse of EncodeTransaction
func DecodeTransaction(data []byte) (common.Transactor, error) {
	id, err := cbor.DecodeIdFromList(data)
	if err != nil {
		return nil, fmt.Errorf("decode transaction type: %w", err)
	}
	tx, err := NewTransaction(common.TxType(id))
	if err != nil {
		return nil, err
	}
	var parts []cbor.RawMessage
	if _, err := cbor.Decode(data, &parts); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("decode transaction: expected 2 items, found %d", len(parts))
	}
	if _, err := cbor.Decode(parts[1], tx); err != nil {
		return nil, fmt.Errorf("decode %s: %w", tx.Type(), err)
	}
	return tx, nil
}

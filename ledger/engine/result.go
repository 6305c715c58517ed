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
	"github.com/blinklabs-io/goxrpl/ledger/common"
	"github.com/blinklabs-io/goxrpl/ledger/view"
)

// TxResult is the outcome of applying one transaction
type TxResult struct {
	Hash   common.Hash256 `json:"hash"`
	Type   common.TxType  `json:"TransactionType"`
	Result common.Result  `json:"engine_result"`
	// Applied reports whether the transaction changed the ledger. A
	// transaction that claims a fee is applied even though it failed.
	Applied bool `json:"applied"`
	// DeliveredAmount is what a successful payment delivered
	DeliveredAmount *common.Amount `json:"delivered_amount,omitempty"`
	// IssuanceID identifies the issuance a successful issuance create made
	IssuanceID *common.TokenID `json:"mpt_issuance_id,omitempty"`
	Affected   []AffectedNode  `json:"affected_nodes,omitempty"`

	phase common.ValidationErrorType
}

// AffectedNode names one ledger entry a transaction changed
type AffectedNode struct {
	Kind      string           `json:"kind"`
	EntryType common.EntryType `json:"ledger_entry_type"`
	Key       common.Hash256   `json:"ledger_index"`
}

func affectedNodes(changes []view.Change) []AffectedNode {
	ret := make([]AffectedNode, 0, len(changes))
	for _, c := range changes {
		ret = append(ret, AffectedNode{
			Kind:      c.Kind.String(),
			EntryType: c.EntryType(),
			Key:       c.Key,
		})
	}
	return ret
}

// Err returns nil on success. Otherwise it returns a *common.ValidationError
// naming the phase that produced the result; errors.Is matches it against the
// Result.
func (r *TxResult) Err() error {
	if r.Result.IsSuccess() {
		return nil
	}
	return common.NewValidationError(
		r.phase,
		r.Result,
		map[string]any{
			"hash":    r.Hash.String(),
			"tx_type": r.Type.String(),
			"applied": r.Applied,
		},
		nil,
	)
}

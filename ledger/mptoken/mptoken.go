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

// Package mptoken implements the token issuance transactions: creating,
// destroying and locking an issuance, and authorizing its holders. It also
// enumerates the holders of an issuance.
package mptoken

import (
	"github.com/blinklabs-io/goxrpl/ledger/common"
)

// MaxMetadataLength is the largest metadata blob an issuance may carry
const MaxMetadataLength = 1024

// Compile-time checks that the transactions implement Transactor
var (
	_ common.Transactor = (*IssuanceCreate)(nil)
	_ common.Transactor = (*IssuanceDestroy)(nil)
	_ common.Transactor = (*IssuanceSet)(nil)
	_ common.Transactor = (*Authorize)(nil)
)

// IssuanceCreate creates a token issuance owned by the submitting account.
// The issuance is keyed by the account and the transaction sequence.
type IssuanceCreate struct {
	common.TxCommon
	AssetScale    *uint8  `json:"AssetScale,omitempty"`
	TransferFee   *uint16 `json:"TransferFee,omitempty"`
	MaximumAmount *uint64 `json:"MaximumAmount,omitempty,string"`

	// Metadata is a pointer so an empty blob stays distinct from none
	Metadata *common.Blob `json:"MPTokenMetadata,omitempty"`
}

func (tx *IssuanceCreate) Type() common.TxType {
	return common.TxTypeMPTokenIssuanceCreate
}

// IssuanceID returns the ID of the issuance the transaction creates
func (tx *IssuanceCreate) IssuanceID() common.TokenID {
	return common.NewTokenID(tx.Sequence, tx.Account)
}

type IssuanceDestroy struct {
	common.TxCommon
	IssuanceID common.TokenID `json:"MPTokenIssuanceID"`
}

func (tx *IssuanceDestroy) Type() common.TxType {
	return common.TxTypeMPTokenIssuanceDestroy
}

// IssuanceSet locks or unlocks an issuance, or one holder of it when Holder
// is set
type IssuanceSet struct {
	common.TxCommon
	IssuanceID common.TokenID    `json:"MPTokenIssuanceID"`
	Holder     *common.AccountID `json:"MPTokenHolder,omitempty"`
}

func (tx *IssuanceSet) Type() common.TxType {
	return common.TxTypeMPTokenIssuanceSet
}

// Authorize is submitted by a holder to opt in to or out of an issuance, or
// by the issuer to grant or revoke Holder's authorization
type Authorize struct {
	common.TxCommon
	IssuanceID common.TokenID    `json:"MPTokenIssuanceID"`
	Holder     *common.AccountID `json:"MPTokenHolder,omitempty"`
}

func (tx *Authorize) Type() common.TxType {
	return common.TxTypeMPTokenAuthorize
}

func readIssuance(v common.ReadView, id common.TokenID) *common.MPTokenIssuance {
	return common.ReadAs[*common.MPTokenIssuance](v, common.IssuanceKeylet(id))
}

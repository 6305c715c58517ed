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

package common

// Transaction flags
const (
	TfFullyCanonicalSig uint32 = 0x80000000
	TfUniversal                = TfFullyCanonicalSig
	TfUniversalMask            = ^TfUniversal

	// Payment
	TfNoRippleDirect uint32 = 0x00010000
	TfPartialPayment uint32 = 0x00020000
	TfLimitQuality   uint32 = 0x00040000
	TfPaymentMask           = ^(TfUniversal | TfPartialPayment | TfLimitQuality | TfNoRippleDirect)
	TfMPTPaymentMask        = ^TfUniversal

	// TrustSet and Clawback
	TfSetFreeze    uint32 = 0x00100000
	TfClearFreeze  uint32 = 0x00200000
	TfTrustSetMask        = ^(TfUniversal | TfSetFreeze | TfClearFreeze)
	TfClawbackMask        = ^(TfUniversal | TfSetFreeze | TfClearFreeze)

	// MPTokenIssuanceCreate
	TfMPTCanLock                uint32 = 0x00000002
	TfMPTRequireAuth            uint32 = 0x00000004
	TfMPTCanEscrow              uint32 = 0x00000008
	TfMPTCanTrade               uint32 = 0x00000010
	TfMPTCanTransfer            uint32 = 0x00000020
	TfMPTCanClawback            uint32 = 0x00000040
	TfMPTokenIssuanceCreateMask        = ^(TfUniversal | TfMPTCanLock | TfMPTRequireAuth | TfMPTCanEscrow | TfMPTCanTrade | TfMPTCanTransfer | TfMPTCanClawback)

	// MPTokenIssuanceDestroy
	TfMPTokenIssuanceDestroyMask = ^TfUniversal

	// MPTokenAuthorize
	TfMPTUnauthorize       uint32 = 0x00000001
	TfMPTokenAuthorizeMask        = ^(TfUniversal | TfMPTUnauthorize)

	// MPTokenIssuanceSet
	TfMPTLock                uint32 = 0x00000001
	TfMPTUnlock              uint32 = 0x00000002
	TfMPTokenIssuanceSetMask        = ^(TfUniversal | TfMPTLock | TfMPTUnlock)
)

// AccountSet flag numbers, used in the SetFlag and ClearFlag fields
const (
	AsfRequireDest            uint32 = 1
	AsfNoFreeze               uint32 = 6
	AsfGlobalFreeze           uint32 = 7
	AsfDepositAuth            uint32 = 9
	AsfAllowTrustLineClawback uint32 = 16
)

// AccountRoot ledger flags
const (
	LsfRequireDestTag         uint32 = 0x00020000
	LsfNoFreeze               uint32 = 0x00200000
	LsfGlobalFreeze           uint32 = 0x00400000
	LsfDepositAuth            uint32 = 0x01000000
	LsfAllowTrustLineClawback uint32 = 0x80000000
)

// TrustLine ledger flags
const (
	LsfLowReserve  uint32 = 0x00010000
	LsfHighReserve uint32 = 0x00020000
	LsfLowFreeze   uint32 = 0x00400000
	LsfHighFreeze  uint32 = 0x00800000
)

// MPTokenIssuance and MPToken ledger flags. LsfMPTLocked is shared by both;
// LsfMPTAuthorized only appears on MPToken entries.
const (
	LsfMPTLocked      uint32 = 0x00000001
	LsfMPTCanLock     uint32 = 0x00000002
	LsfMPTRequireAuth uint32 = 0x00000004
	LsfMPTCanEscrow   uint32 = 0x00000008
	LsfMPTCanTrade    uint32 = 0x00000010
	LsfMPTCanTransfer uint32 = 0x00000020
	LsfMPTCanClawback uint32 = 0x00000040

	LsfMPTAuthorized uint32 = 0x00000002
)

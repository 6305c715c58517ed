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

import "fmt"

// Result is a transaction engine result code. The numeric ranges identify the
// class of the result:
//
//	tel [-399, -300]  local failure, not forwarded
//	tem [-299, -200]  malformed, never valid
//	tef [-199, -100]  failure, cannot succeed against this ledger
//	ter [ -99,   -1]  retry, may succeed later
//	tes   0           success
//	tec [ 100,  255]  claimed, fee charged but nothing else applied
type Result int32

const (
	TelLocalError            Result = -399
	TelBadPathCount          Result = -397
	TelInsufFeeP             Result = -394
	TelNoDstPartial          Result = -393
	TelCanNotQueue           Result = -392
	TemMalformed             Result = -299
	TemBadAmount             Result = -298
	TemBadCurrency           Result = -297
	TemBadFee                Result = -295
	TemBadIssuer             Result = -294
	TemBadLimit              Result = -293
	TemBadSendXRPLimit       Result = -288
	TemBadSendXRPMax         Result = -287
	TemBadSendXRPNoDirect    Result = -286
	TemBadSendXRPPartial     Result = -285
	TemBadSendXRPPaths       Result = -284
	TemBadSrcAccount         Result = -281
	TemDstIsSrc              Result = -279
	TemDstNeeded             Result = -278
	TemInvalidFlag           Result = -276
	TemRedundant             Result = -275
	TemDisabled              Result = -273
	TemCannotPreauthSelf     Result = -267
	TemBadMPTokenTransferFee Result = -250
	TefFailure               Result = -199
	TefException             Result = -193
	TefInternal              Result = -192
	TefPastSeq               Result = -190
	TefInvariantFailed       Result = -182
	TerRetry                 Result = -99
	TerInsufFeeB             Result = -97
	TerNoAccount             Result = -96
	TerPreSeq                Result = -92
	TesSuccess               Result = 0
	TecPathPartial           Result = 101
	TecUnfundedPayment       Result = 104
	TecDirFull               Result = 121
	TecNoDst                 Result = 124
	TecNoDstInsufXRP         Result = 125
	TecNoLineInsufReserve    Result = 126
	TecNoLineRedundant       Result = 127
	TecPathDry               Result = 128
	TecOwners                Result = 132
	TecNoAuth                Result = 134
	TecNoLine                Result = 135
	TecNoTarget              Result = 138
	TecNoPermission          Result = 139
	TecNoEntry               Result = 140
	TecInsufficientReserve   Result = 141
	TecDstTagNeeded          Result = 143
	TecInternal              Result = 144
	TecInvariantFailed       Result = 147
	TecDuplicate             Result = 149
	TecHasObligations        Result = 151
	TecInsufficientFunds     Result = 159
	TecObjectNotFound        Result = 160
	TecMPTokenExists         Result = 182
	TecMPTLocked             Result = 184
	TecMPTAlreadyAuthorized  Result = 190
	TecMPTNotAuthorized      Result = 191
)

type resultInfo struct {
	token   string
	message string
}

var resultInfos = map[Result]resultInfo{
	TelLocalError:            {"telLOCAL_ERROR", "Local failure."},
	TelBadPathCount:          {"telBAD_PATH_COUNT", "Malformed: Too many paths."},
	TelInsufFeeP:             {"telINSUF_FEE_P", "Fee insufficient."},
	TelNoDstPartial:          {"telNO_DST_PARTIAL", "Partial payment to create account not allowed."},
	TelCanNotQueue:           {"telCAN_NOT_QUEUE", "Can not queue at this time."},
	TemMalformed:             {"temMALFORMED", "Malformed transaction."},
	TemBadAmount:             {"temBAD_AMOUNT", "Malformed: Bad amount."},
	TemBadCurrency:           {"temBAD_CURRENCY", "Malformed: Bad currency."},
	TemBadFee:                {"temBAD_FEE", "Invalid fee, negative or not XRP."},
	TemBadIssuer:             {"temBAD_ISSUER", "Malformed: Bad issuer."},
	TemBadLimit:              {"temBAD_LIMIT", "Limits must be non-negative."},
	TemBadSendXRPLimit:       {"temBAD_SEND_XRP_LIMIT", "Malformed: Limit quality is not allowed for XRP to XRP."},
	TemBadSendXRPMax:         {"temBAD_SEND_XRP_MAX", "Malformed: Send max is not allowed for XRP to XRP."},
	TemBadSendXRPNoDirect:    {"temBAD_SEND_XRP_NO_DIRECT", "Malformed: No Ripple direct is not allowed for XRP to XRP."},
	TemBadSendXRPPartial:     {"temBAD_SEND_XRP_PARTIAL", "Malformed: Partial payment is not allowed for XRP to XRP."},
	TemBadSendXRPPaths:       {"temBAD_SEND_XRP_PATHS", "Malformed: Paths are not allowed for XRP to XRP."},
	TemBadSrcAccount:         {"temBAD_SRC_ACCOUNT", "Malformed: Bad source account."},
	TemDstIsSrc:              {"temDST_IS_SRC", "Destination may not be source."},
	TemDstNeeded:             {"temDST_NEEDED", "Destination not specified."},
	TemInvalidFlag:           {"temINVALID_FLAG", "The transaction has an invalid flag."},
	TemRedundant:             {"temREDUNDANT", "The transaction is redundant."},
	TemDisabled:              {"temDISABLED", "The transaction requires logic that is currently disabled."},
	TemCannotPreauthSelf:     {"temCANNOT_PREAUTH_SELF", "An account cannot preauthorize itself."},
	TemBadMPTokenTransferFee: {"temBAD_MPTOKEN_TRANSFER_FEE", "Transfer fee is outside valid range."},
	TefFailure:               {"tefFAILURE", "Failed to apply."},
	TefException:             {"tefEXCEPTION", "Unexpected program state."},
	TefInternal:              {"tefINTERNAL", "Internal error."},
	TefPastSeq:               {"tefPAST_SEQ", "This sequence number has already passed."},
	TefInvariantFailed:       {"tefINVARIANT_FAILED", "Fee claim violated invariants for the transaction."},
	TerRetry:                 {"terRETRY", "Retry transaction."},
	TerInsufFeeB:             {"terINSUF_FEE_B", "Account balance can't pay fee."},
	TerNoAccount:             {"terNO_ACCOUNT", "The source account does not exist."},
	TerPreSeq:                {"terPRE_SEQ", "Missing/inapplicable prior transaction."},
	TesSuccess:               {"tesSUCCESS", "The transaction was applied."},
	TecPathPartial:           {"tecPATH_PARTIAL", "Path could not send full amount."},
	TecUnfundedPayment:       {"tecUNFUNDED_PAYMENT", "Insufficient XRP balance to send."},
	TecDirFull:               {"tecDIR_FULL", "Can not add entry to full directory."},
	TecNoDst:                 {"tecNO_DST", "Destination does not exist. Send XRP to create it."},
	TecNoDstInsufXRP:         {"tecNO_DST_INSUF_XRP", "Destination does not exist. Too little XRP sent to create it."},
	TecNoLineInsufReserve:    {"tecNO_LINE_INSUF_RESERVE", "No such line. Too little reserve to create it."},
	TecNoLineRedundant:       {"tecNO_LINE_REDUNDANT", "Can't set non-existent line to default."},
	TecPathDry:               {"tecPATH_DRY", "Path could not send partial amount."},
	TecOwners:                {"tecOWNERS", "Non-zero owner count."},
	TecNoAuth:                {"tecNO_AUTH", "Not authorized to hold asset."},
	TecNoLine:                {"tecNO_LINE", "No such line."},
	TecNoTarget:              {"tecNO_TARGET", "Target account does not exist."},
	TecNoPermission:          {"tecNO_PERMISSION", "No permission to perform requested operation."},
	TecNoEntry:               {"tecNO_ENTRY", "No matching entry found."},
	TecInsufficientReserve:   {"tecINSUFFICIENT_RESERVE", "Insufficient reserve to complete requested operation."},
	TecDstTagNeeded:          {"tecDST_TAG_NEEDED", "A destination tag is required."},
	TecInternal:              {"tecINTERNAL", "An internal error has occurred during processing."},
	TecInvariantFailed:       {"tecINVARIANT_FAILED", "One or more invariants for the transaction were not satisfied."},
	TecDuplicate:             {"tecDUPLICATE", "Ledger object already exists."},
	TecHasObligations:        {"tecHAS_OBLIGATIONS", "The account cannot be deleted since it has obligations."},
	TecInsufficientFunds:     {"tecINSUFFICIENT_FUNDS", "Not enough funds available to complete requested transaction."},
	TecObjectNotFound:        {"tecOBJECT_NOT_FOUND", "A requested object could not be located."},
	TecMPTokenExists:         {"tecMPTOKEN_EXISTS", "The account already owns the MPToken object."},
	TecMPTLocked:             {"tecMPT_LOCKED", "MPT is locked by the issuer."},
	TecMPTAlreadyAuthorized:  {"tecMPT_ALREADY_AUTHORIZED", "The holder is already authorized."},
	TecMPTNotAuthorized:      {"tecMPT_NOT_AUTHORIZED", "The holder is not authorized, nothing to unauthorize."},
}

var resultsByToken = func() map[string]Result {
	ret := make(map[string]Result, len(resultInfos))
	for r, info := range resultInfos {
		ret[info.token] = r
	}
	return ret
}()

// ParseResult returns the result for a token such as "tecNO_PERMISSION"
func ParseResult(token string) (Result, bool) {
	r, ok := resultsByToken[token]
	return r, ok
}

func (r Result) IsLocal() bool {
	return r >= -399 && r <= -300
}

func (r Result) IsMalformed() bool {
	return r >= -299 && r <= -200
}

func (r Result) IsFailure() bool {
	return r >= -199 && r <= -100
}

func (r Result) IsRetry() bool {
	return r >= -99 && r <= -1
}

func (r Result) IsSuccess() bool {
	return r == TesSuccess
}

func (r Result) IsClaimed() bool {
	return r >= 100 && r <= 255
}

// String returns the result token, e.g. "tecNO_PERMISSION"
func (r Result) String() string {
	if info, ok := resultInfos[r]; ok {
		return info.token
	}
	return fmt.Sprintf("Result(%d)", int32(r))
}

// Message returns a human readable description of the result
func (r Result) Message() string {
	if info, ok := resultInfos[r]; ok {
		return info.message
	}
	return "Unknown result."
}

// Error lets a Result be used as an errors.Is target
func (r Result) Error() string {
	return r.String() + ": " + r.Message()
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Result) UnmarshalText(data []byte) error {
	ret, ok := ParseResult(string(data))
	if !ok {
		return fmt.Errorf("unknown result %q", string(data))
	}
	*r = ret
	return nil
}

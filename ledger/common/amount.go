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

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/blinklabs-io/goxrpl/cbor"
)

type AmountKind uint8

const (
	AmountKindNative AmountKind = iota
	AmountKindIssued
	AmountKindToken
)

func (k AmountKind) String() string {
	switch k {
	case AmountKindNative:
		return "native"
	case AmountKindIssued:
		return "issued"
	case AmountKindToken:
		return "token"
	}
	return fmt.Sprintf("AmountKind(%d)", uint8(k))
}

const (
	DropsPerXRP int64 = 1_000_000

	// MaxNativeDrops is the total native supply
	MaxNativeDrops int64 = 100_000_000_000 * DropsPerXRP

	// MaxTokenAmount is the largest token quantity, the sign bit is reserved
	MaxTokenAmount uint64 = math.MaxInt64
)

// Amount is a quantity of one issue. The kind tag is authoritative: native
// amounts count drops, token amounts count indivisible units and issued
// amounts hold a normalized decimal mantissa and exponent.
//
// The zero value is zero drops.
type Amount struct {
	kind     AmountKind
	issue    Issue
	value    int64
	exponent int32
}

func NativeAmount(drops int64) Amount {
	return Amount{kind: AmountKindNative, value: drops}
}

// XRP returns a native amount of whole units
func XRP(units int64) Amount {
	return NativeAmount(units * DropsPerXRP)
}

// IssuedAmount returns mantissa*10^exponent of an issued currency. It panics
// with ErrAmountOverflow when the value cannot be represented.
func IssuedAmount(mantissa int64, exponent int32, issue Issue) Amount {
	if issue.IsNative() || issue.IsToken() {
		panic(fmt.Sprintf("issue %s cannot carry an issued amount", issue))
	}
	neg := mantissa < 0
	m := uint64(mantissa)
	if neg {
		m = uint64(-mantissa)
	}
	v, e, ok := normalizeIssued(neg, m, exponent)
	if !ok {
		panic(ErrAmountOverflow)
	}
	return Amount{kind: AmountKindIssued, issue: issue, value: v, exponent: e}
}

func TokenAmount(value int64, id TokenID) Amount {
	return Amount{kind: AmountKindToken, issue: TokenIssue(id), value: value}
}

// NewAmount returns an integral amount of any issue
func NewAmount(value int64, issue Issue) Amount {
	switch {
	case issue.IsNative():
		return NativeAmount(value)
	case issue.IsToken():
		return TokenAmount(value, issue.TokenID())
	}
	return IssuedAmount(value, 0, issue)
}

func (a Amount) Kind() AmountKind {
	return a.kind
}

func (a Amount) IsNative() bool {
	return a.kind == AmountKindNative
}

func (a Amount) IsIssued() bool {
	return a.kind == AmountKindIssued
}

func (a Amount) IsToken() bool {
	return a.kind == AmountKindToken
}

func (a Amount) Issue() Issue {
	return a.issue
}

func (a Amount) Asset() Asset {
	return a.issue.Asset()
}

func (a Amount) Issuer() AccountID {
	return a.issue.Issuer()
}

func (a Amount) Currency() Currency {
	return a.issue.Currency()
}

func (a Amount) TokenID() TokenID {
	return a.issue.TokenID()
}

func (a Amount) mustKind(kind AmountKind) {
	if a.kind != kind {
		panic(fmt.Sprintf("%s amount used as %s", a.kind, kind))
	}
}

// Drops returns the value of a native amount
func (a Amount) Drops() int64 {
	a.mustKind(AmountKindNative)
	return a.value
}

// TokenValue returns the value of a token amount
func (a Amount) TokenValue() int64 {
	a.mustKind(AmountKindToken)
	return a.value
}

func (a Amount) Mantissa() int64 {
	a.mustKind(AmountKindIssued)
	return a.value
}

func (a Amount) Exponent() int32 {
	a.mustKind(AmountKindIssued)
	return a.exponent
}

func (a Amount) Signum() int {
	switch {
	case a.value < 0:
		return -1
	case a.value > 0:
		return 1
	}
	return 0
}

func (a Amount) IsZero() bool {
	return a.value == 0
}

// Zero returns a zero amount of the same issue
func (a Amount) Zero() Amount {
	a.value = 0
	if a.kind == AmountKindIssued {
		a.exponent = issuedZeroExponent
	}
	return a
}

func (a Amount) Negate() Amount {
	a.value = -a.value
	return a
}

func (a Amount) Abs() Amount {
	if a.value < 0 {
		return a.Negate()
	}
	return a
}

// WithIssuer re-issues the amount. See Issue.WithIssuer.
func (a Amount) WithIssuer(issuer AccountID) Amount {
	a.issue = a.issue.WithIssuer(issuer)
	return a
}

func (a Amount) mustMatch(op string, b Amount) {
	if a.kind != b.kind || !a.issue.Equal(b.issue) {
		panic(MixedIssueError{Op: op, Left: a.issue, Right: b.issue})
	}
}

// Add panics with a MixedIssueError unless both amounts share an issue
func (a Amount) Add(b Amount) Amount {
	a.mustMatch("add", b)
	return a.add(b)
}

// Sub panics with a MixedIssueError unless both amounts share an issue
func (a Amount) Sub(b Amount) Amount {
	a.mustMatch("subtract", b)
	return a.add(b.Negate())
}

func (a Amount) add(b Amount) Amount {
	if a.kind != AmountKindIssued {
		a.value = addInt64(a.value, b.value)
		return a
	}
	if b.value == 0 {
		return a
	}
	if a.value == 0 {
		return b
	}
	av, ae := a.value, a.exponent
	bv, be := b.value, b.exponent
	for ae < be {
		av /= 10
		ae++
	}
	for be < ae {
		bv /= 10
		be++
	}
	// Mantissas are below 10^16, so the sum cannot overflow
	sum := av + bv
	if sum >= -10 && sum <= 10 {
		return a.Zero()
	}
	neg := sum < 0
	if neg {
		sum = -sum
	}
	v, e, ok := normalizeIssued(neg, uint64(sum), ae)
	if !ok {
		panic(ErrAmountOverflow)
	}
	a.value, a.exponent = v, e
	return a
}

func addInt64(x, y int64) int64 {
	s := x + y
	if (s > x) != (y > 0) {
		panic(ErrAmountOverflow)
	}
	return s
}

// Compare panics with a MixedIssueError unless both amounts share an issue
func (a Amount) Compare(b Amount) int {
	a.mustMatch("compare", b)
	if a.kind != AmountKindIssued || a.exponent == b.exponent {
		return cmpInt64(a.value, b.value)
	}
	sa, sb := a.Signum(), b.Signum()
	if sa != sb {
		return cmpInt64(int64(sa), int64(sb))
	}
	// Same sign, both nonzero, different exponents: normalized mantissas make
	// the larger exponent the larger magnitude
	mag := cmpInt64(int64(a.exponent), int64(b.exponent))
	return sa * mag
}

func cmpInt64(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func (a Amount) Less(b Amount) bool {
	return a.Compare(b) < 0
}

// Equal reports whether both amounts have the same issue and value
func (a Amount) Equal(b Amount) bool {
	if a.kind != b.kind || !a.issue.Equal(b.issue) {
		return false
	}
	return a.value == b.value && a.exponent == b.exponent
}

// IsLegalNet reports whether the amount is within the range the network
// accepts in a transaction
func (a Amount) IsLegalNet() bool {
	switch a.kind {
	case AmountKindNative:
		return a.value >= -MaxNativeDrops && a.value <= MaxNativeDrops
	case AmountKindToken:
		return a.value != math.MinInt64
	}
	return true
}

// MinAmount returns the smaller of two amounts of the same issue
func MinAmount(a, b Amount) Amount {
	if b.Less(a) {
		return b
	}
	return a
}

// ValueText returns the decimal value without the issue
func (a Amount) ValueText() string {
	if a.kind == AmountKindIssued {
		return issuedText(a.value, a.exponent)
	}
	return strconv.FormatInt(a.value, 10)
}

func (a Amount) String() string {
	return a.ValueText() + "/" + a.issue.String()
}

type amountJSON struct {
	Value    string     `json:"value"`
	Currency *Currency  `json:"currency,omitempty"`
	Issuer   *AccountID `json:"issuer,omitempty"`
	TokenID  *TokenID   `json:"mpt_issuance_id,omitempty"`
}

func (a Amount) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AmountKindNative:
		return json.Marshal(a.ValueText())
	case AmountKindToken:
		id := a.TokenID()
		return json.Marshal(amountJSON{Value: a.ValueText(), TokenID: &id})
	}
	currency := a.Currency()
	issuer := a.Issuer()
	return json.Marshal(
		amountJSON{Value: a.ValueText(), Currency: &currency, Issuer: &issuer},
	)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var drops string
	if err := json.Unmarshal(data, &drops); err == nil {
		v, err := strconv.ParseInt(drops, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid native amount %q: %w", drops, err)
		}
		*a = NativeAmount(v)
		return nil
	}
	var tmp amountJSON
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.TokenID != nil {
		v, err := strconv.ParseInt(tmp.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid token amount %q: %w", tmp.Value, err)
		}
		*a = TokenAmount(v, *tmp.TokenID)
		return nil
	}
	if tmp.Currency == nil || tmp.Issuer == nil {
		return errors.New("issued amount requires currency and issuer")
	}
	if tmp.Currency.IsNative() {
		return errors.New("issued amount cannot use the native currency")
	}
	ret, err := ParseIssuedAmount(tmp.Value, NewIssue(*tmp.Currency, *tmp.Issuer))
	if err != nil {
		return err
	}
	*a = ret
	return nil
}

type amountCbor struct {
	cbor.StructAsArray
	Kind     AmountKind
	Value    int64
	Exponent int32
	Asset    []byte
	Issuer   AccountID
}

func (a Amount) MarshalCBOR() ([]byte, error) {
	tmp := amountCbor{
		Kind:     a.kind,
		Value:    a.value,
		Exponent: a.exponent,
		Issuer:   a.issue.Issuer(),
	}
	switch a.kind {
	case AmountKindIssued:
		tmp.Asset = a.Currency().Bytes()
	case AmountKindToken:
		tmp.Asset = a.TokenID().Bytes()
	}
	return cbor.Encode(&tmp)
}

func (a *Amount) UnmarshalCBOR(data []byte) error {
	var tmp amountCbor
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	switch tmp.Kind {
	case AmountKindNative:
		*a = NativeAmount(tmp.Value)
	case AmountKindToken:
		if len(tmp.Asset) != TokenIDSize {
			return fmt.Errorf("invalid token ID length %d", len(tmp.Asset))
		}
		*a = TokenAmount(tmp.Value, TokenID(tmp.Asset))
	case AmountKindIssued:
		if len(tmp.Asset) != CurrencySize {
			return fmt.Errorf("invalid currency length %d", len(tmp.Asset))
		}
		issue := NewIssue(Currency(tmp.Asset), tmp.Issuer)
		if tmp.Value == 0 {
			*a = IssuedAmount(0, 0, issue)
			return nil
		}
		neg := tmp.Value < 0
		m := uint64(tmp.Value)
		if neg {
			m = uint64(-tmp.Value)
		}
		v, e, ok := normalizeIssued(neg, m, tmp.Exponent)
		if !ok {
			return ErrAmountOverflow
		}
		*a = Amount{kind: AmountKindIssued, issue: issue, value: v, exponent: e}
	default:
		return fmt.Errorf("unknown amount kind %d", tmp.Kind)
	}
	return nil
}

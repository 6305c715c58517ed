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
	"fmt"
	"strconv"
	"strings"
)

// Issued amounts keep a mantissa in [10^15, 10^16) and an exponent in
// [-96, 80]. Zero is stored with mantissa 0 and exponent -100.
const (
	issuedMinMantissa  uint64 = 1_000_000_000_000_000
	issuedMaxMantissa  uint64 = 9_999_999_999_999_999
	issuedMinExponent  int32  = -96
	issuedMaxExponent  int32  = 80
	issuedZeroExponent int32  = -100
)

// normalizeIssued returns the canonical signed mantissa and exponent. Values
// too small to represent become zero; ok is false on overflow.
func normalizeIssued(neg bool, m uint64, e int32) (int64, int32, bool) {
	if m == 0 {
		return 0, issuedZeroExponent, true
	}
	for m < issuedMinMantissa && e > issuedMinExponent {
		m *= 10
		e--
	}
	for m > issuedMaxMantissa {
		if e >= issuedMaxExponent {
			return 0, 0, false
		}
		m /= 10
		e++
	}
	if e < issuedMinExponent || m < issuedMinMantissa {
		return 0, issuedZeroExponent, true
	}
	if e > issuedMaxExponent {
		return 0, 0, false
	}
	v := int64(m)
	if neg {
		v = -v
	}
	return v, e, true
}

// ParseIssuedAmount parses a decimal string such as "-12.5" or "1e-3" into an
// amount of the given issue
func ParseIssuedAmount(s string, issue Issue) (Amount, error) {
	if issue.IsNative() || issue.IsToken() {
		return Amount{}, fmt.Errorf("issue %s cannot carry an issued amount", issue)
	}
	neg, m, e, err := parseDecimal(s)
	if err != nil {
		return Amount{}, err
	}
	v, e, ok := normalizeIssued(neg, m, e)
	if !ok {
		return Amount{}, fmt.Errorf("%w: %q", ErrAmountOverflow, s)
	}
	return Amount{kind: AmountKindIssued, issue: issue, value: v, exponent: e}, nil
}

func parseDecimal(s string) (bool, uint64, int32, error) {
	invalid := fmt.Errorf("invalid decimal value %q", s)
	body := s
	var exp int64
	if idx := strings.IndexAny(body, "eE"); idx >= 0 {
		var err error
		exp, err = strconv.ParseInt(body[idx+1:], 10, 16)
		if err != nil {
			return false, 0, 0, invalid
		}
		body = body[:idx]
	}
	neg := false
	if body != "" && (body[0] == '-' || body[0] == '+') {
		neg = body[0] == '-'
		body = body[1:]
	}
	var m uint64
	digits := 0
	seenPoint := false
	for _, r := range body {
		switch {
		case r == '.':
			if seenPoint {
				return false, 0, 0, invalid
			}
			seenPoint = true
		case r >= '0' && r <= '9':
			digits++
			// Digits beyond 18 significant places are truncated
			if m >= 100_000_000_000_000_000 {
				if !seenPoint {
					exp++
				}
				continue
			}
			m = m*10 + uint64(r-'0')
			if seenPoint {
				exp--
			}
		default:
			return false, 0, 0, invalid
		}
	}
	if digits == 0 {
		return false, 0, 0, invalid
	}
	if exp < -1000 || exp > 1000 {
		return false, 0, 0, invalid
	}
	return neg, m, int32(exp), nil
}

func issuedText(v int64, e int32) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var ret string
	if e >= 0 {
		ret = digits + strings.Repeat("0", int(e))
	} else {
		point := len(digits) + int(e)
		var intPart, frac string
		if point > 0 {
			intPart, frac = digits[:point], digits[point:]
		} else {
			intPart, frac = "0", strings.Repeat("0", -point)+digits
		}
		ret = intPart
		if frac = strings.TrimRight(frac, "0"); frac != "" {
			ret += "." + frac
		}
	}
	if neg {
		ret = "-" + ret
	}
	return ret
}

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
	"errors"
	"fmt"
)

var (
	// ErrAmountOverflow indicates arithmetic left the representable range
	ErrAmountOverflow = errors.New("amount overflow")

	// ErrTokenIssuerImmutable is raised when code tries to replace the issuer
	// of a token issue
	ErrTokenIssuerImmutable = errors.New("cannot set issuer on a token issue")

	// ErrObjectNotFound is returned by queries for ledger objects that do
	// not exist
	ErrObjectNotFound = errors.New("ledger object not found")
)

// MixedIssueError is the panic value for arithmetic or comparison between
// amounts of different issues
type MixedIssueError struct {
	Op    string
	Left  Issue
	Right Issue
}

func (e MixedIssueError) Error() string {
	return fmt.Sprintf(
		"amount %s between different issues: %s and %s",
		e.Op,
		e.Left,
		e.Right,
	)
}

// AssetKindMismatchError is the panic value for comparing a currency asset
// with a token asset
type AssetKindMismatchError struct {
	Left  Asset
	Right Asset
}

func (e AssetKindMismatchError) Error() string {
	return fmt.Sprintf(
		"cannot compare %s asset %s with %s asset %s",
		e.Left.Kind(),
		e.Left,
		e.Right.Kind(),
		e.Right,
	)
}

// ValidationError represents a structured validation error with additional context
type ValidationError struct {
	Type    ValidationErrorType
	Result  Result
	Message string
	Details map[string]any
	Cause   error
}

type ValidationErrorType string

const (
	ValidationErrorTypePreflight ValidationErrorType = "preflight"
	ValidationErrorTypePreclaim  ValidationErrorType = "preclaim"
	ValidationErrorTypeApply     ValidationErrorType = "apply"
	ValidationErrorTypeInvariant ValidationErrorType = "invariant"
)

func (e ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Type, e.Result, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Result, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Cause
}

// Is matches a Result target, so errors.Is(err, TecNoPermission) works
func (e ValidationError) Is(target error) bool {
	r, ok := target.(Result)
	return ok && r == e.Result
}

// NewValidationError creates a new structured validation error
func NewValidationError(
	errType ValidationErrorType,
	result Result,
	details map[string]any,
	cause error,
) *ValidationError {
	return &ValidationError{
		Type:    errType,
		Result:  result,
		Message: result.Message(),
		Details: details,
		Cause:   cause,
	}
}

// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaindata carries the consensus-rule error taxonomy shared by the
// proof-of-work core and the difficulty retargeter.
package chaindata

import "fmt"

// ErrorCode identifies a kind of consensus rule violation.
type ErrorCode int

const (
	// ErrUnexpectedDifficulty indicates specified bits do not align with
	// the value computed by the retargeter, or fall outside the valid
	// (0, PowLimit] range.
	ErrUnexpectedDifficulty ErrorCode = iota

	// ErrHighHash indicates the block hash is not less than or equal to
	// the claimed target difficulty.
	ErrHighHash

	// ErrInvalidCuckooProof indicates a Cuckoo Cycle proof failed
	// verification; the specific VerifyCode is embedded in the
	// description.
	ErrInvalidCuckooProof
)

var errorCodeStrings = map[ErrorCode]string{
	ErrUnexpectedDifficulty: "ErrUnexpectedDifficulty",
	ErrHighHash:             "ErrHighHash",
	ErrInvalidCuckooProof:   "ErrInvalidCuckooProof",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a consensus rule violation. The caller can use type
// assertions to determine if a failure was specifically due to a rule
// violation and access the ErrorCode field to ascertain the specific
// reason. It is deliberately distinct from a plain wrapped error: a
// RuleError means "this proof/header is invalid," never "something went
// wrong evaluating it" — the latter is a caller precondition violation and
// is reported with github.com/pkg/errors instead (see
// Retargeter.NextRequiredBits in node/blockchain).
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints a human-readable message.
func (e RuleError) Error() string {
	return e.Description
}

// NewRuleError creates a RuleError given a set of arguments.
func NewRuleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

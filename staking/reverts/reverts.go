// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the typed errors raised when an operation's
// preconditions are violated. A revert always means the operation aborted
// with zero state mutation.
package reverts

import (
	"errors"
	"fmt"
)

// Code classifies a precondition violation.
type Code string

const (
	CodeUnauthorized           Code = "unauthorized"
	CodeInvalidAmount          Code = "invalid amount"
	CodeUnknownEntity          Code = "unknown entity"
	CodeAlreadyExists          Code = "already exists"
	CodeDuplicateVote          Code = "duplicate vote"
	CodeBelowMinimumValidators Code = "below minimum validators"
	CodeProposalAlreadyDecided Code = "proposal already decided"
	CodeInsufficientDelegation Code = "insufficient delegation"
)

// ErrRevert is a precondition violation. Callers must correct inputs and
// resubmit; there is no retry policy.
type ErrRevert struct {
	code    Code
	message string
}

func New(code Code, format string, args ...any) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: fmt.Sprintf(format, args...),
	}
}

func (e *ErrRevert) Error() string {
	return string(e.code) + ": " + e.message
}

func (e *ErrRevert) Code() Code {
	return e.code
}

// IsRevert reports whether err (or anything it wraps) is a revert.
func IsRevert(err any) bool {
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Is reports whether err is a revert carrying the given code.
func Is(err error, code Code) bool {
	var ve *ErrRevert
	if !errors.As(err, &ve) {
		return false
	}
	return ve.code == code
}

// CodeOf extracts the revert code of err, or empty string for non-reverts.
func CodeOf(err error) Code {
	var ve *ErrRevert
	if !errors.As(err, &ve) {
		return ""
	}
	return ve.code
}

func Unauthorized(format string, args ...any) *ErrRevert {
	return New(CodeUnauthorized, format, args...)
}

func InvalidAmount(format string, args ...any) *ErrRevert {
	return New(CodeInvalidAmount, format, args...)
}

func UnknownEntity(format string, args ...any) *ErrRevert {
	return New(CodeUnknownEntity, format, args...)
}

func AlreadyExists(format string, args ...any) *ErrRevert {
	return New(CodeAlreadyExists, format, args...)
}

func DuplicateVote(format string, args ...any) *ErrRevert {
	return New(CodeDuplicateVote, format, args...)
}

func BelowMinimumValidators(format string, args ...any) *ErrRevert {
	return New(CodeBelowMinimumValidators, format, args...)
}

func ProposalAlreadyDecided(format string, args ...any) *ErrRevert {
	return New(CodeProposalAlreadyDecided, format, args...)
}

func InsufficientDelegation(format string, args ...any) *ErrRevert {
	return New(CodeInsufficientDelegation, format, args...)
}

// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
)

// ErrorCode identifies a kind of script error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInternal is returned if internal consistency checks fail.  In
	// practice this error should never be seen as it would mean there is an
	// error in the engine logic.
	ErrInternal ErrorCode = iota

	// ErrInvalidIndex is returned when an out-of-bounds index was passed to
	// a function.
	ErrInvalidIndex

	// ErrUnsupportedScript is returned when an unparsable locking script is
	// passed to a function which requires a known script template.
	ErrUnsupportedScript

	// ErrMalformedPush is returned when a data push opcode claims more
	// bytes than are available in the script being parsed.
	ErrMalformedPush

	// ErrScriptSizeMismatch is returned when the number of bytes consumed
	// while parsing a script does not match its declared length.
	ErrScriptSizeMismatch

	// ErrElementTooBig is returned when the size of a data push exceeds the
	// maximum allowed script element size.
	ErrElementTooBig

	// ErrUnbalancedConditional is returned when an OP_IF or OP_NOTIF is
	// not terminated by a matching OP_ENDIF before the command stream is
	// exhausted, or when an OP_ELSE or OP_ENDIF is encountered with no
	// preceding OP_IF or OP_NOTIF.
	ErrUnbalancedConditional

	// ErrInvalidStackOperation is returned when a stack operation is
	// attempted with a number of arguments available on the stack which is
	// fewer than required, or an argument which is out of range.
	ErrInvalidStackOperation

	// ErrMinimalData is returned when the minimal data verification is
	// active and the script contains a value which is not encoded with the
	// minimum possible number of bytes.
	ErrMinimalData

	// ErrNumberTooBig is returned when the value popped for an arithmetic
	// operation is encoded with more bytes than the maximum allowed.
	ErrNumberTooBig

	// ErrDisabledOpcode is returned when a disabled opcode is encountered
	// in a script.
	ErrDisabledOpcode

	// ErrReservedOpcode is returned when an opcode marked as reserved is
	// executed.
	ErrReservedOpcode

	// ErrEarlyReturn is returned when an OP_RETURN is executed.
	ErrEarlyReturn

	// ErrVerify is returned when an OP_VERIFY is encountered in a script
	// and the top item on the data stack does not evaluate to true.
	ErrVerify

	// ErrEqualVerify is returned when an OP_EQUALVERIFY is encountered in
	// a script and the top item on the data stack does not evaluate to
	// true.
	ErrEqualVerify

	// ErrNumEqualVerify is returned when an OP_NUMEQUALVERIFY is
	// encountered in a script and the top item on the data stack does not
	// evaluate to true.
	ErrNumEqualVerify

	// ErrCheckSigVerify is returned when an OP_CHECKSIGVERIFY is
	// encountered in a script and the top item on the data stack does not
	// evaluate to true.
	ErrCheckSigVerify

	// ErrCheckMultiSigVerify is returned when an OP_CHECKMULTISIGVERIFY is
	// encountered in a script and the top item on the data stack does not
	// evaluate to true.
	ErrCheckMultiSigVerify

	// ErrInvalidSignatureCount is returned when an OP_CHECKMULTISIG
	// encounters a signature count which is negative or greater than the
	// provided number of public keys.
	ErrInvalidSignatureCount

	// ErrInvalidPubKeyCount is returned when an OP_CHECKMULTISIG
	// encounters a public key count which is negative or greater than the
	// maximum allowed.
	ErrInvalidPubKeyCount

	// ErrNegativeLockTime is returned when a script containing
	// OP_CHECKLOCKTIMEVERIFY or OP_CHECKSEQUENCEVERIFY pops a negative
	// value.
	ErrNegativeLockTime

	// ErrUnsatisfiedLockTime is returned when a script containing
	// OP_CHECKLOCKTIMEVERIFY or OP_CHECKSEQUENCEVERIFY fails the required
	// lock time or sequence comparison.
	ErrUnsatisfiedLockTime

	// ErrWitnessProgramMismatch is returned when the witness script
	// supplied for a pay-to-witness-script-hash spend does not hash to the
	// committed script hash.
	ErrWitnessProgramMismatch

	// ErrScriptHashMismatch is returned when the redeem script supplied
	// for a pay-to-script-hash spend does not hash to the committed script
	// hash.
	ErrScriptHashMismatch

	// ErrTooManyOperations is returned when the number of operations
	// executed during a single evaluation exceeds the maximum allowed.
	ErrTooManyOperations

	// ErrEmptyStack is returned when the script evaluated without error
	// but terminated with an empty data stack.
	ErrEmptyStack

	// ErrEvalFalse is returned when the script evaluated without error but
	// terminated with a false top stack element.
	ErrEvalFalse

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInternal:              "ErrInternal",
	ErrInvalidIndex:          "ErrInvalidIndex",
	ErrUnsupportedScript:     "ErrUnsupportedScript",
	ErrMalformedPush:         "ErrMalformedPush",
	ErrScriptSizeMismatch:    "ErrScriptSizeMismatch",
	ErrElementTooBig:         "ErrElementTooBig",
	ErrUnbalancedConditional: "ErrUnbalancedConditional",
	ErrInvalidStackOperation: "ErrInvalidStackOperation",
	ErrMinimalData:           "ErrMinimalData",
	ErrNumberTooBig:          "ErrNumberTooBig",
	ErrDisabledOpcode:        "ErrDisabledOpcode",
	ErrReservedOpcode:        "ErrReservedOpcode",
	ErrEarlyReturn:           "ErrEarlyReturn",
	ErrVerify:                "ErrVerify",
	ErrEqualVerify:           "ErrEqualVerify",
	ErrNumEqualVerify:        "ErrNumEqualVerify",
	ErrCheckSigVerify:        "ErrCheckSigVerify",
	ErrCheckMultiSigVerify:   "ErrCheckMultiSigVerify",
	ErrInvalidSignatureCount: "ErrInvalidSignatureCount",
	ErrInvalidPubKeyCount:    "ErrInvalidPubKeyCount",
	ErrNegativeLockTime:      "ErrNegativeLockTime",
	ErrUnsatisfiedLockTime:   "ErrUnsatisfiedLockTime",
	ErrWitnessProgramMismatch: "ErrWitnessProgramMismatch",
	ErrScriptHashMismatch:     "ErrScriptHashMismatch",
	ErrTooManyOperations:      "ErrTooManyOperations",
	ErrEmptyStack:             "ErrEmptyStack",
	ErrEvalFalse:              "ErrEvalFalse",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a script-related error.  It is used to indicate three
// classes of errors:
//  1. Script format errors such as malformed data pushes and unbalanced
//     conditionals
//  2. Evaluation failures such as unmet opcode preconditions and a falsy
//     final stack
//  3. Internal consistency check failures
//
// The caller can use type assertions to determine if an error is an Error and
// access the ErrorCode field to ascertain the specific reason for the failure.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// scriptError creates an Error given a set of arguments.
func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a script error with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	serr, ok := err.(Error)
	return ok && serr.ErrorCode == c
}

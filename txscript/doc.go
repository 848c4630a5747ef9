// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements the bitcoin transaction script language.

A complete engine for processing the scripts carried by transaction inputs
and outputs is provided, along with the signature hashing algorithms the
signature checking opcodes verify against and helpers for signing and
verifying transactions built from the standard script templates.

# Script Overview

The bitcoin script language is a stack-based, FORTH-like language with a
deliberately small instruction set.  A spend is valid when the combination of
the signature script of the spending input and the public key script of the
output being spent executes to completion and leaves a true value on the top
of the stack.

Spends of pay-to-script-hash outputs and version 0 witness programs reveal
additional script at execution time.  The engine detects these templates
while it runs and splices the revealed script into the command stream, so
callers only ever deal with the combined script of an input and the output it
spends.

# Errors

Errors returned by this package are of type txscript.Error.  This allows the
caller to programmatically determine the specific error by examining the
ErrorCode field of the type asserted txscript.Error while still providing
rich error messages with contextual information.  A convenience function
named IsErrorCode is also provided to allow callers to easily check for a
specific error code.
*/
package txscript

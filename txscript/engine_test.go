// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btclog"
)

// mustEval executes the passed script with no witness or signature hash and
// fails the test on error.
func mustEval(t *testing.T, script *Script) {
	t.Helper()

	vm := NewEngine(script, nil, nil, 0, 0)
	if err := vm.Execute(); err != nil {
		t.Fatalf("Execute(%v): %v", script, err)
	}
}

// TestEngineArithmetic runs a few simple scripts through the engine and
// checks the final result.
func TestEngineArithmetic(t *testing.T) {
	t.Parallel()

	tests := []*Script{
		// 2 + 3 == 5
		NewScript(
			OpcodeCommand(OP_2),
			OpcodeCommand(OP_3),
			OpcodeCommand(OP_ADD),
			OpcodeCommand(OP_5),
			OpcodeCommand(OP_NUMEQUAL),
		),
		// 7 - 3 == 4
		NewScript(
			OpcodeCommand(OP_7),
			OpcodeCommand(OP_3),
			OpcodeCommand(OP_SUB),
			OpcodeCommand(OP_4),
			OpcodeCommand(OP_NUMEQUAL),
		),
		// min(4, 9) within [3, 5)
		NewScript(
			OpcodeCommand(OP_4),
			OpcodeCommand(OP_9),
			OpcodeCommand(OP_MIN),
			OpcodeCommand(OP_3),
			OpcodeCommand(OP_5),
			OpcodeCommand(OP_WITHIN),
		),
		// hash160 of an empty push matches a direct hash.
		NewScript(
			OpcodeCommand(OP_0),
			OpcodeCommand(OP_HASH160),
			DataCommand(btcutil.Hash160(nil)),
			OpcodeCommand(OP_EQUAL),
		),
	}

	for _, script := range tests {
		mustEval(t, script)
	}
}

// TestEngineNestedConditionals ensures nested conditionals execute the
// correct branch and leave only its result on the stack.
func TestEngineNestedConditionals(t *testing.T) {
	t.Parallel()

	// OP_1 OP_IF OP_1 OP_IF OP_2 OP_ELSE OP_3 OP_ENDIF
	// OP_ELSE OP_4 OP_ENDIF
	script := NewScript(
		OpcodeCommand(OP_1),
		OpcodeCommand(OP_IF),
		OpcodeCommand(OP_1),
		OpcodeCommand(OP_IF),
		OpcodeCommand(OP_2),
		OpcodeCommand(OP_ELSE),
		OpcodeCommand(OP_3),
		OpcodeCommand(OP_ENDIF),
		OpcodeCommand(OP_ELSE),
		OpcodeCommand(OP_4),
		OpcodeCommand(OP_ENDIF),
	)

	vm := NewEngine(script, nil, nil, 0, 0)
	if err := vm.run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if vm.dstack.Depth() != 1 {
		t.Fatalf("wrong stack depth %d", vm.dstack.Depth())
	}
	top, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		t.Fatalf("PeekByteArray: %v", err)
	}
	if !bytes.Equal(top, []byte{0x02}) {
		t.Fatalf("wrong branch taken - top of stack is %x", top)
	}
}

// TestEngineConditionalBranches checks OP_IF against both condition values
// and OP_NOTIF against the inverse.
func TestEngineConditionalBranches(t *testing.T) {
	t.Parallel()

	// condition OP_IF OP_2 OP_ELSE OP_3 OP_ENDIF <want> OP_NUMEQUAL
	branchScript := func(cond, ifOp, want byte) *Script {
		return NewScript(
			OpcodeCommand(cond),
			OpcodeCommand(ifOp),
			OpcodeCommand(OP_2),
			OpcodeCommand(OP_ELSE),
			OpcodeCommand(OP_3),
			OpcodeCommand(OP_ENDIF),
			OpcodeCommand(want),
			OpcodeCommand(OP_NUMEQUAL),
		)
	}

	mustEval(t, branchScript(OP_1, OP_IF, OP_2))
	mustEval(t, branchScript(OP_0, OP_IF, OP_3))
	mustEval(t, branchScript(OP_1, OP_NOTIF, OP_3))
	mustEval(t, branchScript(OP_0, OP_NOTIF, OP_2))
}

// TestEngineUnbalancedConditional ensures a conditional with no terminating
// OP_ENDIF fails with the expected error.
func TestEngineUnbalancedConditional(t *testing.T) {
	t.Parallel()

	tests := []*Script{
		// Missing OP_ENDIF.
		NewScript(
			OpcodeCommand(OP_1),
			OpcodeCommand(OP_IF),
			OpcodeCommand(OP_1),
		),
		// Nested conditional is not terminated either.
		NewScript(
			OpcodeCommand(OP_1),
			OpcodeCommand(OP_IF),
			OpcodeCommand(OP_1),
			OpcodeCommand(OP_IF),
			OpcodeCommand(OP_1),
			OpcodeCommand(OP_ENDIF),
		),
		// OP_ENDIF with no conditional at all.
		NewScript(
			OpcodeCommand(OP_1),
			OpcodeCommand(OP_ENDIF),
		),
		// OP_ELSE with no conditional at all.
		NewScript(
			OpcodeCommand(OP_1),
			OpcodeCommand(OP_ELSE),
		),
	}

	for i, script := range tests {
		vm := NewEngine(script, nil, nil, 0, 0)
		err := vm.Execute()
		if !IsErrorCode(err, ErrUnbalancedConditional) {
			t.Errorf("test #%d: expected ErrUnbalancedConditional, "+
				"got %v", i, err)
		}
	}
}

// TestEnginePayToScriptHash ensures a pay-to-script-hash spend reveals and
// executes the redeem script and that a redeem script which does not hash to
// the committed value is rejected.
func TestEnginePayToScriptHash(t *testing.T) {
	t.Parallel()

	redeemBytes := []byte{OP_2, OP_2, OP_NUMEQUAL}
	scriptHash := btcutil.Hash160(redeemBytes)

	sigScript := NewScript(DataCommand(redeemBytes))
	combined := sigScript.Concat(PayToScriptHashScript(scriptHash))
	mustEval(t, combined)

	// The same spend against a different committed hash must fail.
	wrongHash := btcutil.Hash160([]byte{OP_1})
	combined = sigScript.Concat(PayToScriptHashScript(wrongHash))
	vm := NewEngine(combined, nil, nil, 0, 0)
	if err := vm.Execute(); !IsErrorCode(err, ErrScriptHashMismatch) {
		t.Errorf("expected ErrScriptHashMismatch, got %v", err)
	}
}

// TestEnginePayToWitnessPubKeyHash ensures a version 0 witness pubkey hash
// program pulls the signature and public key from the witness.
func TestEnginePayToWitnessPubKeyHash(t *testing.T) {
	t.Parallel()

	privKey, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x2a}, 32))
	pubKeyBytes := privKey.PubKey().SerializeCompressed()
	pubKeyHash := btcutil.Hash160(pubKeyBytes)

	sigHash := chainhash.DoubleHashB([]byte("witness spend digest"))
	sig := ecdsa.Sign(privKey, sigHash)
	sigBytes := append(sig.Serialize(), byte(SigHashAll))

	witness := [][]byte{sigBytes, pubKeyBytes}
	pkScript := PayToWitnessPubKeyHashScript(pubKeyHash)

	if !pkScript.Evaluate(sigHash, witness, 0, 0) {
		t.Fatal("valid witness spend rejected")
	}

	// A witness carrying the wrong public key must fail.
	otherKey, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x2b}, 32))
	badWitness := [][]byte{sigBytes, otherKey.PubKey().SerializeCompressed()}
	if pkScript.Evaluate(sigHash, badWitness, 0, 0) {
		t.Fatal("witness spend with wrong pubkey accepted")
	}
}

// TestEnginePayToWitnessScriptHash ensures a version 0 witness script hash
// program verifies the witness script against the committed hash before
// executing it.
func TestEnginePayToWitnessScriptHash(t *testing.T) {
	t.Parallel()

	witnessScript := []byte{OP_3, OP_NUMEQUAL}
	scriptHash := sha256.Sum256(witnessScript)

	pkScript := PayToWitnessScriptHashScript(scriptHash[:])
	witness := [][]byte{{0x03}, witnessScript}
	if !pkScript.Evaluate(nil, witness, 0, 0) {
		t.Fatal("valid witness script spend rejected")
	}

	// A witness script which does not hash to the committed value must be
	// rejected before execution.
	vm := NewEngine(pkScript, nil,
		[][]byte{{0x03}, {OP_3, OP_NUMEQUAL, OP_NOP}}, 0, 0)
	if err := vm.Execute(); !IsErrorCode(err, ErrWitnessProgramMismatch) {
		t.Errorf("expected ErrWitnessProgramMismatch, got %v", err)
	}
}

// TestEngineFinalStack ensures the engine result reflects the final stack
// state.
func TestEngineFinalStack(t *testing.T) {
	t.Parallel()

	// Empty final stack.
	vm := NewEngine(NewScript(
		OpcodeCommand(OP_1),
		OpcodeCommand(OP_DROP),
	), nil, nil, 0, 0)
	if err := vm.Execute(); !IsErrorCode(err, ErrEmptyStack) {
		t.Errorf("expected ErrEmptyStack, got %v", err)
	}

	// False final stack entry.
	vm = NewEngine(NewScript(OpcodeCommand(OP_0)), nil, nil, 0, 0)
	if err := vm.Execute(); !IsErrorCode(err, ErrEvalFalse) {
		t.Errorf("expected ErrEvalFalse, got %v", err)
	}
}

// TestEngineOpcodeLimit ensures evaluations which execute too many commands
// are aborted.
func TestEngineOpcodeLimit(t *testing.T) {
	t.Parallel()

	cmds := make([]Command, 0, maxOpsPerEval+2)
	cmds = append(cmds, OpcodeCommand(OP_1))
	for i := 0; i <= maxOpsPerEval; i++ {
		cmds = append(cmds, OpcodeCommand(OP_NOP))
	}

	vm := NewEngine(NewScript(cmds...), nil, nil, 0, 0)
	if err := vm.Execute(); !IsErrorCode(err, ErrTooManyOperations) {
		t.Errorf("expected ErrTooManyOperations, got %v", err)
	}
}

// TestEngineDisabledAndReserved ensures disabled and reserved opcodes fail
// with their dedicated error codes.
func TestEngineDisabledAndReserved(t *testing.T) {
	t.Parallel()

	vm := NewEngine(NewScript(
		OpcodeCommand(OP_1),
		OpcodeCommand(OP_1),
		OpcodeCommand(OP_CAT),
	), nil, nil, 0, 0)
	if err := vm.Execute(); !IsErrorCode(err, ErrDisabledOpcode) {
		t.Errorf("expected ErrDisabledOpcode, got %v", err)
	}

	vm = NewEngine(NewScript(OpcodeCommand(OP_RESERVED)), nil, nil, 0, 0)
	if err := vm.Execute(); !IsErrorCode(err, ErrReservedOpcode) {
		t.Errorf("expected ErrReservedOpcode, got %v", err)
	}

	vm = NewEngine(NewScript(OpcodeCommand(OP_RETURN)), nil, nil, 0, 0)
	if err := vm.Execute(); !IsErrorCode(err, ErrEarlyReturn) {
		t.Errorf("expected ErrEarlyReturn, got %v", err)
	}
}

// TestEngineTraceLogging ensures the engine emits execution traces through
// the package logger once trace logging is enabled.
func TestEngineTraceLogging(t *testing.T) {
	var buf bytes.Buffer
	backend := btclog.NewBackend(&buf)
	logger := backend.Logger("SCRP")
	logger.SetLevel(btclog.LevelTrace)
	UseLogger(logger)
	defer DisableLog()

	script := NewScript(
		OpcodeCommand(OP_1),
		OpcodeCommand(OP_2),
		OpcodeCommand(OP_ADD),
	)
	mustEval(t, script)

	out := buf.String()
	if !strings.Contains(out, "OP_ADD") {
		t.Errorf("trace output missing executed opcode: %q", out)
	}
	if !strings.Contains(out, "Stack:") {
		t.Errorf("trace output missing stack state: %q", out)
	}
}

// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
)

// maxOpsPerEval is the maximum number of commands a single evaluation may
// execute before it is aborted.  Since scripts revealed by script hash and
// witness spends are spliced into the command stream at runtime, the bound is
// on executed commands rather than on the length of any one script.
const maxOpsPerEval = 10000

// Engine is the virtual machine that executes scripts.
//
// The engine operates on a queue of commands which is consumed from the
// front.  Script hash and witness spends reveal additional script during
// execution, which is appended to the queue, so the queue may grow while the
// engine runs.
type Engine struct {
	queue    []Command
	dstack   stack
	astack   stack
	witness  [][]byte
	sigHash  []byte
	lockTime uint32
	sequence uint32
	numOps   int
}

// NewEngine returns a new script engine for the provided script.  The
// signature hash is the digest any signature checking opcodes verify against.
// The witness is consulted when the executed script turns out to be a witness
// program, and the lock time and sequence are those of the spending input for
// the lock time checking opcodes.
func NewEngine(script *Script, sigHash []byte, witness [][]byte, lockTime, sequence uint32) *Engine {
	cmds := script.Commands()
	queue := make([]Command, len(cmds))
	copy(queue, cmds)

	return &Engine{
		queue:    queue,
		witness:  witness,
		sigHash:  sigHash,
		lockTime: lockTime,
		sequence: sequence,
	}
}

// branchConditional implements the conditional opcodes.  It scans the command
// queue for the branch executed when the condition is true and the branch
// executed when it is false, consuming the scanned commands, the OP_ELSE
// separator, and the matching OP_ENDIF.  It then pops the condition from the
// data stack and splices the chosen branch back onto the front of the queue.
//
// Nested conditionals within either branch are left intact along with their
// OP_ELSE and OP_ENDIF opcodes, so they are resolved by later executions of
// this function.
func (vm *Engine) branchConditional(invert bool) error {
	var trueCmds, falseCmds []Command
	current := &trueCmds
	numEndIfs := 1
	found := false

scan:
	for len(vm.queue) > 0 {
		cmd := vm.queue[0]
		vm.queue = vm.queue[1:]

		if cmd.IsData() {
			*current = append(*current, cmd)
			continue
		}

		switch op := cmd.Opcode(); {
		case op == OP_IF || op == OP_NOTIF:
			numEndIfs++
			*current = append(*current, cmd)

		case op == OP_ELSE && numEndIfs == 1:
			current = &falseCmds

		case op == OP_ENDIF:
			if numEndIfs == 1 {
				found = true
				break scan
			}
			numEndIfs--
			*current = append(*current, cmd)

		default:
			*current = append(*current, cmd)
		}
	}

	if !found {
		str := "conditional is missing a matching OP_ENDIF"
		return scriptError(ErrUnbalancedConditional, str)
	}

	cond, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if invert {
		cond = !cond
	}

	branch := trueCmds
	if !cond {
		branch = falseCmds
	}
	vm.queue = append(branch, vm.queue...)
	return nil
}

// checkScriptTemplates inspects the machine state after a data push and
// rewrites the command queue when the push completes one of the special
// script templates.
//
// A pay-to-script-hash spend is detected from the remaining commands: the
// redeem script push followed by exactly OP_HASH160 <20-byte hash> OP_EQUAL.
// The hash check is performed immediately and the revealed redeem script is
// parsed and appended to the queue.
//
// A witness program is detected from the data stack: once the script has
// left exactly a version byte of zero and a 20 or 32 byte program on the
// stack, the witness items take over.  For a 20-byte program the witness is
// executed against the equivalent pay-to-pubkey-hash script, while for a
// 32-byte program the final witness item is the witness script whose sha256
// must match the program before it is parsed and appended to the queue.
func (vm *Engine) checkScriptTemplates() error {
	// Pay-to-script-hash.
	if len(vm.queue) == 3 &&
		!vm.queue[0].IsData() && vm.queue[0].Opcode() == OP_HASH160 &&
		vm.queue[1].IsData() && len(vm.queue[1].Data()) == 20 &&
		!vm.queue[2].IsData() && vm.queue[2].Opcode() == OP_EQUAL {

		scriptHash := vm.queue[1].Data()
		vm.queue = vm.queue[:0]

		// The redeem script was the push which triggered detection, so
		// take it back off the stack and verify it against the
		// committed hash.
		redeemBytes, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		if !bytesEqual(btcutil.Hash160(redeemBytes), scriptHash) {
			str := fmt.Sprintf("redeem script hash does not match "+
				"committed hash %x", scriptHash)
			return scriptError(ErrScriptHashMismatch, str)
		}

		redeemScript, err := NewScriptFromBytes(redeemBytes)
		if err != nil {
			return err
		}
		vm.queue = append(vm.queue, redeemScript.Commands()...)
		return nil
	}

	// Pay-to-witness-pubkey-hash.  The stack holds the zero witness
	// version encoded as an empty element with the 20-byte program above
	// it.
	if vm.dstack.Depth() == 2 {
		bottom, err := vm.dstack.PeekByteArray(1)
		if err != nil {
			return err
		}
		top, err := vm.dstack.PeekByteArray(0)
		if err != nil {
			return err
		}

		if len(bottom) == 0 && len(top) == 20 {
			pkHash, err := vm.dstack.PopByteArray()
			if err != nil {
				return err
			}
			if _, err := vm.dstack.PopByteArray(); err != nil {
				return err
			}

			for _, item := range vm.witness {
				vm.queue = append(vm.queue, DataCommand(item))
			}
			vm.queue = append(vm.queue,
				OpcodeCommand(OP_DUP),
				OpcodeCommand(OP_HASH160),
				DataCommand(pkHash),
				OpcodeCommand(OP_EQUALVERIFY),
				OpcodeCommand(OP_CHECKSIG),
			)
			return nil
		}

		// Pay-to-witness-script-hash.  Same shape with a 32-byte
		// program committing to the sha256 of the witness script.
		if len(bottom) == 0 && len(top) == 32 {
			scriptHash, err := vm.dstack.PopByteArray()
			if err != nil {
				return err
			}
			if _, err := vm.dstack.PopByteArray(); err != nil {
				return err
			}

			if len(vm.witness) == 0 {
				str := "witness program spend with empty witness"
				return scriptError(ErrWitnessProgramMismatch, str)
			}
			witnessScriptBytes := vm.witness[len(vm.witness)-1]
			witnessHash := sha256.Sum256(witnessScriptBytes)
			if !bytesEqual(witnessHash[:], scriptHash) {
				str := fmt.Sprintf("witness script hash %x does "+
					"not match committed hash %x",
					witnessHash[:], scriptHash)
				return scriptError(ErrWitnessProgramMismatch, str)
			}

			for _, item := range vm.witness[:len(vm.witness)-1] {
				vm.queue = append(vm.queue, DataCommand(item))
			}
			witnessScript, err := NewScriptFromBytes(witnessScriptBytes)
			if err != nil {
				return err
			}
			vm.queue = append(vm.queue, witnessScript.Commands()...)
			return nil
		}
	}

	return nil
}

// run executes the command queue until it is exhausted or an error occurs.
func (vm *Engine) run() error {
	for len(vm.queue) > 0 {
		vm.numOps++
		if vm.numOps > maxOpsPerEval {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				maxOpsPerEval)
			return scriptError(ErrTooManyOperations, str)
		}

		cmd := vm.queue[0]
		vm.queue = vm.queue[1:]

		log.Tracef("%v", newLogClosure(func() string {
			dstr := "Stack: " + vm.dstack.String()
			astr := "AltStack: " + vm.astack.String()
			return fmt.Sprintf("executing %v\n", cmd) + dstr + astr
		}))

		if cmd.IsData() {
			data := cmd.Data()
			if len(data) > MaxScriptElementSize {
				str := fmt.Sprintf("element size %d exceeds "+
					"max allowed size %d", len(data),
					MaxScriptElementSize)
				return scriptError(ErrElementTooBig, str)
			}
			vm.dstack.PushByteArray(data)

			if err := vm.checkScriptTemplates(); err != nil {
				return err
			}
			continue
		}

		op := &opcodeArray[cmd.Opcode()]
		if err := op.opfn(op, vm); err != nil {
			return err
		}
	}

	return nil
}

// checkErrorCondition returns nil if the script has executed to completion
// with a true result.  An ErrEmptyStack is returned when the data stack is
// empty and an ErrEvalFalse is returned when the final top stack element is
// falsy.
func (vm *Engine) checkErrorCondition() error {
	if vm.dstack.Depth() < 1 {
		return scriptError(ErrEmptyStack,
			"stack empty at end of script execution")
	}

	v, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !v {
		return scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}
	return nil
}

// Execute runs the script and returns nil if it executed to completion and
// left a true value on the top of the data stack.
func (vm *Engine) Execute() error {
	if err := vm.run(); err != nil {
		return err
	}
	return vm.checkErrorCondition()
}

// Evaluate executes the script against the passed signature hash, witness,
// lock time, and sequence, and reports whether it completed successfully with
// a true result.  The script itself is not modified.
func (s *Script) Evaluate(sigHash []byte, witness [][]byte, lockTime, sequence uint32) bool {
	vm := NewEngine(s, sigHash, witness, lockTime, sequence)
	return vm.Execute() == nil
}

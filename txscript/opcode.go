// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/spvkit/spvkit/wire"
	"golang.org/x/crypto/ripemd160"
)

// An opcode defines the information related to a txscript opcode.  opfn is
// the function to call to perform the opcode on the script.  The current
// engine is passed in as its argument.
type opcode struct {
	value byte
	name  string
	opfn  func(*opcode, *Engine) error
}

// These constants are the values of the official opcodes used on the btc wiki,
// in bitcoin core and in most if not all other references and software related
// to handling BTC scripts.
const (
	OP_0                   = 0x00 // 0
	OP_FALSE               = 0x00 // 0 - AKA OP_0
	OP_DATA_1              = 0x01 // 1
	OP_DATA_2              = 0x02 // 2
	OP_DATA_3              = 0x03 // 3
	OP_DATA_4              = 0x04 // 4
	OP_DATA_5              = 0x05 // 5
	OP_DATA_6              = 0x06 // 6
	OP_DATA_7              = 0x07 // 7
	OP_DATA_8              = 0x08 // 8
	OP_DATA_9              = 0x09 // 9
	OP_DATA_10             = 0x0a // 10
	OP_DATA_11             = 0x0b // 11
	OP_DATA_12             = 0x0c // 12
	OP_DATA_13             = 0x0d // 13
	OP_DATA_14             = 0x0e // 14
	OP_DATA_15             = 0x0f // 15
	OP_DATA_16             = 0x10 // 16
	OP_DATA_17             = 0x11 // 17
	OP_DATA_18             = 0x12 // 18
	OP_DATA_19             = 0x13 // 19
	OP_DATA_20             = 0x14 // 20
	OP_DATA_21             = 0x15 // 21
	OP_DATA_22             = 0x16 // 22
	OP_DATA_23             = 0x17 // 23
	OP_DATA_24             = 0x18 // 24
	OP_DATA_25             = 0x19 // 25
	OP_DATA_26             = 0x1a // 26
	OP_DATA_27             = 0x1b // 27
	OP_DATA_28             = 0x1c // 28
	OP_DATA_29             = 0x1d // 29
	OP_DATA_30             = 0x1e // 30
	OP_DATA_31             = 0x1f // 31
	OP_DATA_32             = 0x20 // 32
	OP_DATA_33             = 0x21 // 33
	OP_DATA_34             = 0x22 // 34
	OP_DATA_35             = 0x23 // 35
	OP_DATA_36             = 0x24 // 36
	OP_DATA_37             = 0x25 // 37
	OP_DATA_38             = 0x26 // 38
	OP_DATA_39             = 0x27 // 39
	OP_DATA_40             = 0x28 // 40
	OP_DATA_41             = 0x29 // 41
	OP_DATA_42             = 0x2a // 42
	OP_DATA_43             = 0x2b // 43
	OP_DATA_44             = 0x2c // 44
	OP_DATA_45             = 0x2d // 45
	OP_DATA_46             = 0x2e // 46
	OP_DATA_47             = 0x2f // 47
	OP_DATA_48             = 0x30 // 48
	OP_DATA_49             = 0x31 // 49
	OP_DATA_50             = 0x32 // 50
	OP_DATA_51             = 0x33 // 51
	OP_DATA_52             = 0x34 // 52
	OP_DATA_53             = 0x35 // 53
	OP_DATA_54             = 0x36 // 54
	OP_DATA_55             = 0x37 // 55
	OP_DATA_56             = 0x38 // 56
	OP_DATA_57             = 0x39 // 57
	OP_DATA_58             = 0x3a // 58
	OP_DATA_59             = 0x3b // 59
	OP_DATA_60             = 0x3c // 60
	OP_DATA_61             = 0x3d // 61
	OP_DATA_62             = 0x3e // 62
	OP_DATA_63             = 0x3f // 63
	OP_DATA_64             = 0x40 // 64
	OP_DATA_65             = 0x41 // 65
	OP_DATA_66             = 0x42 // 66
	OP_DATA_67             = 0x43 // 67
	OP_DATA_68             = 0x44 // 68
	OP_DATA_69             = 0x45 // 69
	OP_DATA_70             = 0x46 // 70
	OP_DATA_71             = 0x47 // 71
	OP_DATA_72             = 0x48 // 72
	OP_DATA_73             = 0x49 // 73
	OP_DATA_74             = 0x4a // 74
	OP_DATA_75             = 0x4b // 75
	OP_PUSHDATA1           = 0x4c // 76
	OP_PUSHDATA2           = 0x4d // 77
	OP_PUSHDATA4           = 0x4e // 78
	OP_1NEGATE             = 0x4f // 79
	OP_RESERVED            = 0x50 // 80
	OP_1                   = 0x51 // 81 - AKA OP_TRUE
	OP_TRUE                = 0x51 // 81
	OP_2                   = 0x52 // 82
	OP_3                   = 0x53 // 83
	OP_4                   = 0x54 // 84
	OP_5                   = 0x55 // 85
	OP_6                   = 0x56 // 86
	OP_7                   = 0x57 // 87
	OP_8                   = 0x58 // 88
	OP_9                   = 0x59 // 89
	OP_10                  = 0x5a // 90
	OP_11                  = 0x5b // 91
	OP_12                  = 0x5c // 92
	OP_13                  = 0x5d // 93
	OP_14                  = 0x5e // 94
	OP_15                  = 0x5f // 95
	OP_16                  = 0x60 // 96
	OP_NOP                 = 0x61 // 97
	OP_VER                 = 0x62 // 98
	OP_IF                  = 0x63 // 99
	OP_NOTIF               = 0x64 // 100
	OP_VERIF               = 0x65 // 101
	OP_VERNOTIF            = 0x66 // 102
	OP_ELSE                = 0x67 // 103
	OP_ENDIF               = 0x68 // 104
	OP_VERIFY              = 0x69 // 105
	OP_RETURN              = 0x6a // 106
	OP_TOALTSTACK          = 0x6b // 107
	OP_FROMALTSTACK        = 0x6c // 108
	OP_2DROP               = 0x6d // 109
	OP_2DUP                = 0x6e // 110
	OP_3DUP                = 0x6f // 111
	OP_2OVER               = 0x70 // 112
	OP_2ROT                = 0x71 // 113
	OP_2SWAP               = 0x72 // 114
	OP_IFDUP               = 0x73 // 115
	OP_DEPTH               = 0x74 // 116
	OP_DROP                = 0x75 // 117
	OP_DUP                 = 0x76 // 118
	OP_NIP                 = 0x77 // 119
	OP_OVER                = 0x78 // 120
	OP_PICK                = 0x79 // 121
	OP_ROLL                = 0x7a // 122
	OP_ROT                 = 0x7b // 123
	OP_SWAP                = 0x7c // 124
	OP_TUCK                = 0x7d // 125
	OP_CAT                 = 0x7e // 126
	OP_SUBSTR              = 0x7f // 127
	OP_LEFT                = 0x80 // 128
	OP_RIGHT               = 0x81 // 129
	OP_SIZE                = 0x82 // 130
	OP_INVERT              = 0x83 // 131
	OP_AND                 = 0x84 // 132
	OP_OR                  = 0x85 // 133
	OP_XOR                 = 0x86 // 134
	OP_EQUAL               = 0x87 // 135
	OP_EQUALVERIFY         = 0x88 // 136
	OP_RESERVED1           = 0x89 // 137
	OP_RESERVED2           = 0x8a // 138
	OP_1ADD                = 0x8b // 139
	OP_1SUB                = 0x8c // 140
	OP_2MUL                = 0x8d // 141
	OP_2DIV                = 0x8e // 142
	OP_NEGATE              = 0x8f // 143
	OP_ABS                 = 0x90 // 144
	OP_NOT                 = 0x91 // 145
	OP_0NOTEQUAL           = 0x92 // 146
	OP_ADD                 = 0x93 // 147
	OP_SUB                 = 0x94 // 148
	OP_MUL                 = 0x95 // 149
	OP_DIV                 = 0x96 // 150
	OP_MOD                 = 0x97 // 151
	OP_LSHIFT              = 0x98 // 152
	OP_RSHIFT              = 0x99 // 153
	OP_BOOLAND             = 0x9a // 154
	OP_BOOLOR              = 0x9b // 155
	OP_NUMEQUAL            = 0x9c // 156
	OP_NUMEQUALVERIFY      = 0x9d // 157
	OP_NUMNOTEQUAL         = 0x9e // 158
	OP_LESSTHAN            = 0x9f // 159
	OP_GREATERTHAN         = 0xa0 // 160
	OP_LESSTHANOREQUAL     = 0xa1 // 161
	OP_GREATERTHANOREQUAL  = 0xa2 // 162
	OP_MIN                 = 0xa3 // 163
	OP_MAX                 = 0xa4 // 164
	OP_WITHIN              = 0xa5 // 165
	OP_RIPEMD160           = 0xa6 // 166
	OP_SHA1                = 0xa7 // 167
	OP_SHA256              = 0xa8 // 168
	OP_HASH160             = 0xa9 // 169
	OP_HASH256             = 0xaa // 170
	OP_CODESEPARATOR       = 0xab // 171
	OP_CHECKSIG            = 0xac // 172
	OP_CHECKSIGVERIFY      = 0xad // 173
	OP_CHECKMULTISIG       = 0xae // 174
	OP_CHECKMULTISIGVERIFY = 0xaf // 175
	OP_NOP1                = 0xb0 // 176
	OP_CHECKLOCKTIMEVERIFY = 0xb1 // 177 - AKA OP_NOP2
	OP_NOP2                = 0xb1 // 177
	OP_CHECKSEQUENCEVERIFY = 0xb2 // 178 - AKA OP_NOP3
	OP_NOP3                = 0xb2 // 178
	OP_NOP4                = 0xb3 // 179
	OP_NOP5                = 0xb4 // 180
	OP_NOP6                = 0xb5 // 181
	OP_NOP7                = 0xb6 // 182
	OP_NOP8                = 0xb7 // 183
	OP_NOP9                = 0xb8 // 184
	OP_NOP10               = 0xb9 // 185
)

// opcodeByName is a map which provides O(1) lookups of opcodes by name.  It
// is built from the opcode array in init.
var opcodeByName = make(map[string]byte)

func init() {
	for _, op := range opcodeArray {
		if op.name == "" {
			continue
		}
		if _, ok := opcodeByName[op.name]; !ok {
			opcodeByName[op.name] = op.value
		}
	}
	opcodeByName["OP_FALSE"] = OP_FALSE
	opcodeByName["OP_TRUE"] = OP_TRUE
	opcodeByName["OP_NOP2"] = OP_NOP2
	opcodeByName["OP_NOP3"] = OP_NOP3
}

// opcodeName returns the human-readable name of the passed opcode.
func opcodeName(op byte) string {
	if name := opcodeArray[op].name; name != "" {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN%d", int(op))
}

// *******************************************
// Opcode implementation functions start here.
// *******************************************

// opcodeInvalid is used for opcode values which are not valid in an executed
// script, including the unassigned range above OP_NOP10.
func opcodeInvalid(op *opcode, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute invalid opcode %s", op.name)
	return scriptError(ErrReservedOpcode, str)
}

// opcodeDisabled is a common handler for disabled opcodes.  It returns an
// appropriate error indicating the opcode is disabled.  Disabled opcodes fail
// the script whether or not they would have been executed.
func opcodeDisabled(op *opcode, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute disabled opcode %s", op.name)
	return scriptError(ErrDisabledOpcode, str)
}

// opcodeReserved is a common handler for all reserved opcodes.
func opcodeReserved(op *opcode, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute reserved opcode %s", op.name)
	return scriptError(ErrReservedOpcode, str)
}

// opcodeNop is a common handler for the NOP family of opcodes.
func opcodeNop(op *opcode, vm *Engine) error {
	return nil
}

// opcodeFalse pushes an empty array to the data stack to represent false.
// Note that 0, when encoded as a number according to the numeric encoding
// consensus rules, is an empty array.
func opcodeFalse(op *opcode, vm *Engine) error {
	vm.dstack.PushByteArray(nil)
	return nil
}

// opcode1Negate pushes -1, encoded as a number, to the data stack.
func opcode1Negate(op *opcode, vm *Engine) error {
	vm.dstack.PushInt(scriptNum(-1))
	return nil
}

// opcodeN is a common handler for the small integer data push opcodes.  It
// pushes the numeric value the opcode represents (which will be from 1 to 16)
// onto the data stack.
func opcodeN(op *opcode, vm *Engine) error {
	// The opcodes are all defined consecutively, so the numeric value is
	// the difference.
	vm.dstack.PushInt(scriptNum((op.value - (OP_1 - 1))))
	return nil
}

// opcodeIf scans the remainder of the command stream for the branch taken
// when the popped condition is true and the branch taken when it is false,
// then resumes execution at the head of the chosen branch.
//
// Conditional stream transformation:
// [OP_IF branch1 OP_ELSE branch2 OP_ENDIF rest] with [... true]  -> [branch1 rest]
// [OP_IF branch1 OP_ELSE branch2 OP_ENDIF rest] with [... false] -> [branch2 rest]
func opcodeIf(op *opcode, vm *Engine) error {
	return vm.branchConditional(false)
}

// opcodeNotIf is the same as opcodeIf with the meaning of the popped
// condition inverted.
func opcodeNotIf(op *opcode, vm *Engine) error {
	return vm.branchConditional(true)
}

// opcodeElse and opcodeEndif are consumed while scanning the branches of an
// OP_IF or OP_NOTIF, so executing one directly means the script has no
// matching conditional opcode.
func opcodeElse(op *opcode, vm *Engine) error {
	str := fmt.Sprintf("encountered %s with no matching conditional",
		op.name)
	return scriptError(ErrUnbalancedConditional, str)
}

func opcodeEndif(op *opcode, vm *Engine) error {
	str := fmt.Sprintf("encountered %s with no matching conditional",
		op.name)
	return scriptError(ErrUnbalancedConditional, str)
}

// abstractVerify examines the top item on the data stack as a boolean value
// and verifies it evaluates to true.  An error is returned either when there
// is no item on the stack or when that item evaluates to false.  In the latter
// case where the verification fails specifically due to the top item
// evaluating to false, the returned error will use the passed error code.
func abstractVerify(op *opcode, vm *Engine, c ErrorCode) error {
	verified, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}

	if !verified {
		str := fmt.Sprintf("%s failed", op.name)
		return scriptError(c, str)
	}
	return nil
}

// opcodeVerify examines the top item on the data stack as a boolean value and
// verifies it evaluates to true.  An error is returned if it does not.
func opcodeVerify(op *opcode, vm *Engine) error {
	return abstractVerify(op, vm, ErrVerify)
}

// opcodeReturn returns an appropriate error since it is always an error to
// return early from a script.
func opcodeReturn(op *opcode, vm *Engine) error {
	return scriptError(ErrEarlyReturn, "script returned early")
}

// opcodeToAltStack removes the top item from the main data stack and pushes it
// onto the alternate data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2 y3 x3]
func opcodeToAltStack(op *opcode, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.astack.PushByteArray(so)

	return nil
}

// opcodeFromAltStack removes the top item from the alternate data stack and
// pushes it onto the main data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 y3]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2]
func opcodeFromAltStack(op *opcode, vm *Engine) error {
	so, err := vm.astack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(so)

	return nil
}

// opcode2Drop removes the top 2 items from the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1]
func opcode2Drop(op *opcode, vm *Engine) error {
	return vm.dstack.DropN(2)
}

// opcode2Dup duplicates the top 2 items on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2 x3]
func opcode2Dup(op *opcode, vm *Engine) error {
	return vm.dstack.DupN(2)
}

// opcode3Dup duplicates the top 3 items on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x1 x2 x3]
func opcode3Dup(op *opcode, vm *Engine) error {
	return vm.dstack.DupN(3)
}

// opcode2Over duplicates the 2 items before the top 2 items on the data stack.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x1 x2 x3 x4 x1 x2]
func opcode2Over(op *opcode, vm *Engine) error {
	return vm.dstack.OverN(2)
}

// opcode2Rot rotates the top 6 items on the data stack to the left twice.
//
// Stack transformation: [... x1 x2 x3 x4 x5 x6] -> [... x3 x4 x5 x6 x1 x2]
func opcode2Rot(op *opcode, vm *Engine) error {
	return vm.dstack.RotN(2)
}

// opcode2Swap swaps the top 2 items on the data stack with the 2 that come
// before them.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x3 x4 x1 x2]
func opcode2Swap(op *opcode, vm *Engine) error {
	return vm.dstack.SwapN(2)
}

// opcodeIfDup duplicates the item on the top of the data stack if it is not
// zero.
//
// Stack transformation (x1==0): [... x1] -> [... x1]
// Stack transformation (x1!=0): [... x1] -> [... x1 x1]
func opcodeIfDup(op *opcode, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	// Push copy of data iff it isn't zero
	if asBool(so) {
		vm.dstack.PushByteArray(so)
	}

	return nil
}

// opcodeDepth pushes the depth of the data stack prior to executing this
// opcode, encoded as a number, onto the data stack.
//
// Stack transformation: [...] -> [... <num of items on the stack>]
// Example with 2 items: [x1 x2] -> [x1 x2 2]
func opcodeDepth(op *opcode, vm *Engine) error {
	vm.dstack.PushInt(scriptNum(vm.dstack.Depth()))
	return nil
}

// opcodeDrop removes the top item from the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2]
func opcodeDrop(op *opcode, vm *Engine) error {
	return vm.dstack.DropN(1)
}

// opcodeDup duplicates the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x3]
func opcodeDup(op *opcode, vm *Engine) error {
	return vm.dstack.DupN(1)
}

// opcodeNip removes the item before the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x3]
func opcodeNip(op *opcode, vm *Engine) error {
	return vm.dstack.NipN(1)
}

// opcodeOver duplicates the item before the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2]
func opcodeOver(op *opcode, vm *Engine) error {
	return vm.dstack.OverN(1)
}

// opcodePick treats the top item on the data stack as an integer and duplicates
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [xn ... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x1 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x2 x1 x0 x2]
func opcodePick(op *opcode, vm *Engine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.PickN(val.Int32())
}

// opcodeRoll treats the top item on the data stack as an integer and moves
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x1 x0 x2]
func opcodeRoll(op *opcode, vm *Engine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.RollN(val.Int32())
}

// opcodeRot rotates the top 3 items on the data stack to the left.
//
// Stack transformation: [... x1 x2 x3] -> [... x2 x3 x1]
func opcodeRot(op *opcode, vm *Engine) error {
	return vm.dstack.RotN(1)
}

// opcodeSwap swaps the top two items on the stack.
//
// Stack transformation: [... x1 x2] -> [... x2 x1]
func opcodeSwap(op *opcode, vm *Engine) error {
	return vm.dstack.SwapN(1)
}

// opcodeTuck inserts a duplicate of the top item of the data stack before the
// second-to-top item.
//
// Stack transformation: [... x1 x2] -> [... x2 x1 x2]
func opcodeTuck(op *opcode, vm *Engine) error {
	return vm.dstack.Tuck()
}

// opcodeSize pushes the size of the top item of the data stack onto the data
// stack.
//
// Stack transformation: [... x1] -> [... x1 len(x1)]
func opcodeSize(op *opcode, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(len(so)))
	return nil
}

// opcodeEqual removes the top 2 items of the data stack, compares them as raw
// bytes, and pushes the result, encoded as a boolean, back to the stack.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeEqual(op *opcode, vm *Engine) error {
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushBool(bytesEqual(a, b))
	return nil
}

// bytesEqual reports whether the two byte slices have the same contents.
// Empty and nil slices compare equal.
func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// opcodeEqualVerify is a combination of opcodeEqual and opcodeVerify.
// Specifically, it removes the top 2 items of the data stack, compares them,
// and pushes the result, encoded as a boolean, back to the stack.  Then, it
// examines the top item on the data stack as a boolean value and verifies it
// evaluates to true.  An error is returned if it does not.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeEqualVerify(op *opcode, vm *Engine) error {
	err := opcodeEqual(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrEqualVerify)
	}
	return err
}

// opcode1Add treats the top item on the data stack as an integer and replaces
// it with its incremented value (plus 1).
//
// Stack transformation: [... x1 x2] -> [... x1 x2+1]
func opcode1Add(op *opcode, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(m + 1)
	return nil
}

// opcode1Sub treats the top item on the data stack as an integer and replaces
// it with its decremented value (minus 1).
//
// Stack transformation: [... x1 x2] -> [... x1 x2-1]
func opcode1Sub(op *opcode, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	vm.dstack.PushInt(m - 1)

	return nil
}

// opcodeNegate treats the top item on the data stack as an integer and
// replaces it with its negation.
//
// Stack transformation: [... x1 x2] -> [... x1 -x2]
func opcodeNegate(op *opcode, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(-m)
	return nil
}

// opcodeAbs treats the top item on the data stack as an integer and replaces
// it with its absolute value.
//
// Stack transformation: [... x1 x2] -> [... x1 abs(x2)]
func opcodeAbs(op *opcode, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if m < 0 {
		m = -m
	}
	vm.dstack.PushInt(m)
	return nil
}

// opcodeNot treats the top item on the data stack as an integer and replaces
// it with its "inverted" value (0 becomes 1, non-zero becomes 0).
//
// NOTE: While it would probably make more sense to treat the top item as a
// boolean, and push the opposite, which is really what the intention of this
// opcode is, it is extremely important that is not done because integers are
// interpreted differently than booleans and the consensus rules for this
// opcode dictate the item is interpreted as an integer.
//
// Stack transformation (x2==0): [... x1 0] -> [... x1 1]
// Stack transformation (x2!=0): [... x1 1] -> [... x1 0]
// Stack transformation (x2!=0): [... x1 17] -> [... x1 0]
func opcodeNot(op *opcode, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if m == 0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}
	return nil
}

// opcode0NotEqual treats the top item on the data stack as an integer and
// replaces it with either a 0 if it is zero, or a 1 if it is not zero.
//
// Stack transformation (x2==0): [... x1 0] -> [... x1 0]
// Stack transformation (x2!=0): [... x1 1] -> [... x1 1]
// Stack transformation (x2!=0): [... x1 17] -> [... x1 1]
func opcode0NotEqual(op *opcode, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if m != 0 {
		m = 1
	}
	vm.dstack.PushInt(m)
	return nil
}

// opcodeAdd treats the top two items on the data stack as integers and
// replaces them with their sum.
//
// Stack transformation: [... x1 x2] -> [... x1+x2]
func opcodeAdd(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(v0 + v1)
	return nil
}

// opcodeSub treats the top two items on the data stack as integers and
// replaces them with the result of subtracting the top entry from the
// second-to-top entry.
//
// Stack transformation: [... x1 x2] -> [... x1-x2]
func opcodeSub(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(v1 - v0)
	return nil
}

// opcodeBoolAnd treats the top two items on the data stack as integers.  When
// both of them are not zero, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==0, x2==0): [... 0 0] -> [... 0]
// Stack transformation (x1!=0, x2==0): [... 5 0] -> [... 0]
// Stack transformation (x1==0, x2!=0): [... 0 7] -> [... 0]
// Stack transformation (x1!=0, x2!=0): [... 4 8] -> [... 1]
func opcodeBoolAnd(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 != 0 && v1 != 0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeBoolOr treats the top two items on the data stack as integers.  When
// either of them are not zero, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==0, x2==0): [... 0 0] -> [... 0]
// Stack transformation (x1!=0, x2==0): [... 5 0] -> [... 1]
// Stack transformation (x1==0, x2!=0): [... 0 7] -> [... 1]
// Stack transformation (x1!=0, x2!=0): [... 4 8] -> [... 1]
func opcodeBoolOr(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 != 0 || v1 != 0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeNumEqual treats the top two items on the data stack as integers.  When
// they are equal, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==x2): [... 5 5] -> [... 1]
// Stack transformation (x1!=x2): [... 5 7] -> [... 0]
func opcodeNumEqual(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 == v1 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeNumEqualVerify is a combination of opcodeNumEqual and opcodeVerify.
//
// Specifically, treats the top two items on the data stack as integers.  When
// they are equal, they are replaced with a 1, otherwise a 0.  Then, it examines
// the top item on the data stack as a boolean value and verifies it evaluates
// to true.  An error is returned if it does not.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeNumEqualVerify(op *opcode, vm *Engine) error {
	err := opcodeNumEqual(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrNumEqualVerify)
	}
	return err
}

// opcodeNumNotEqual treats the top two items on the data stack as integers.
// When they are NOT equal, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==x2): [... 5 5] -> [... 0]
// Stack transformation (x1!=x2): [... 5 7] -> [... 1]
func opcodeNumNotEqual(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 != v1 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeLessThan treats the top two items on the data stack as integers.  When
// the second-to-top item is less than the top item, they are replaced with a 1,
// otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeLessThan(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 < v0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeGreaterThan treats the top two items on the data stack as integers.
// When the second-to-top item is greater than the top item, they are replaced
// with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeGreaterThan(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 > v0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}
	return nil
}

// opcodeLessThanOrEqual treats the top two items on the data stack as integers.
// When the second-to-top item is less than or equal to the top item, they are
// replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeLessThanOrEqual(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 <= v0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}
	return nil
}

// opcodeGreaterThanOrEqual treats the top two items on the data stack as
// integers.  When the second-to-top item is greater than or equal to the top
// item, they are replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeGreaterThanOrEqual(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 >= v0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeMin treats the top two items on the data stack as integers and replaces
// them with the minimum of the two.
//
// Stack transformation: [... x1 x2] -> [... min(x1, x2)]
func opcodeMin(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 < v0 {
		vm.dstack.PushInt(v1)
	} else {
		vm.dstack.PushInt(v0)
	}

	return nil
}

// opcodeMax treats the top two items on the data stack as integers and replaces
// them with the maximum of the two.
//
// Stack transformation: [... x1 x2] -> [... max(x1, x2)]
func opcodeMax(op *opcode, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 > v0 {
		vm.dstack.PushInt(v1)
	} else {
		vm.dstack.PushInt(v0)
	}

	return nil
}

// opcodeWithin treats the top 3 items on the data stack as integers.  When the
// value to test is within the specified range (left inclusive), they are
// replaced with a 1, otherwise a 0.
//
// The top item is the max value, the second-top-item is the minimum value, and
// the third-to-top item is the value to test.
//
// Stack transformation: [... x1 min max] -> [... bool]
func opcodeWithin(op *opcode, vm *Engine) error {
	maxVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	minVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	x, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if x >= minVal && x < maxVal {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}
	return nil
}

// opcodeRipemd160 treats the top item of the data stack as raw bytes and
// replaces it with ripemd160(data).
//
// Stack transformation: [... x1] -> [... ripemd160(x1)]
func opcodeRipemd160(op *opcode, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	h := ripemd160.New()
	h.Write(buf)
	vm.dstack.PushByteArray(h.Sum(nil))
	return nil
}

// opcodeSha1 treats the top item of the data stack as raw bytes and replaces
// it with sha1(data).
//
// Stack transformation: [... x1] -> [... sha1(x1)]
func opcodeSha1(op *opcode, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hash := sha1.Sum(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeSha256 treats the top item of the data stack as raw bytes and replaces
// it with sha256(data).
//
// Stack transformation: [... x1] -> [... sha256(x1)]
func opcodeSha256(op *opcode, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hash := sha256.Sum256(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeHash160 treats the top item of the data stack as raw bytes and
// replaces it with ripemd160(sha256(data)).
//
// Stack transformation: [... x1] -> [... ripemd160(sha256(x1))]
func opcodeHash160(op *opcode, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushByteArray(btcutil.Hash160(buf))
	return nil
}

// opcodeHash256 treats the top item of the data stack as raw bytes and
// replaces it with sha256(sha256(data)).
//
// Stack transformation: [... x1] -> [... sha256(sha256(x1))]
func opcodeHash256(op *opcode, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushByteArray(chainhash.DoubleHashB(buf))
	return nil
}

// checkSignature verifies the passed DER signature with a trailing hash type
// byte against the signature hash the engine was constructed with using the
// passed serialized public key.  Malformed signatures and public keys are
// treated as verification failures rather than errors so scripts can branch
// on the result.
func (vm *Engine) checkSignature(fullSigBytes, pkBytes []byte) bool {
	// The hash type is the final byte of the signature and is not part of
	// the DER encoding.
	if len(fullSigBytes) < 1 {
		return false
	}
	sigBytes := fullSigBytes[:len(fullSigBytes)-1]

	pubKey, err := btcec.ParsePubKey(pkBytes)
	if err != nil {
		return false
	}

	signature, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false
	}

	if len(vm.sigHash) != chainhash.HashSize {
		return false
	}

	return signature.Verify(vm.sigHash, pubKey)
}

// opcodeCheckSig treats the top 2 items on the stack as a public key and a
// signature and replaces them with a bool based on whether the signature
// verifies against the signature hash the engine was constructed with.
//
// Stack transformation: [... signature pubkey] -> [... bool]
func opcodeCheckSig(op *opcode, vm *Engine) error {
	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	fullSigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushBool(vm.checkSignature(fullSigBytes, pkBytes))
	return nil
}

// opcodeCheckSigVerify is a combination of opcodeCheckSig and opcodeVerify.
// The opcodeCheckSig function is invoked followed by opcodeVerify.  See the
// documentation for each of those opcodes for more details.
//
// Stack transformation: [... signature pubkey] -> [... bool] -> [...]
func opcodeCheckSigVerify(op *opcode, vm *Engine) error {
	err := opcodeCheckSig(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckSigVerify)
	}
	return err
}

// MaxPubKeysPerMultiSig is the maximum number of public keys allowed in a
// multisig check.
const MaxPubKeysPerMultiSig = 20

// opcodeCheckMultiSig treats the top item on the stack as an integer number of
// public keys, followed by that many entries as raw data representing the
// public keys, followed by the integer number of signatures, followed by that
// many entries as raw data representing the signatures.
//
// Due to a bug in the original Satoshi client implementation, an additional
// dummy argument is also required by the consensus rules, although it is not
// used.
//
// All of the aforementioned stack items are replaced with a bool which
// indicates if the requisite number of signatures were successfully verified.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool]
func opcodeCheckMultiSig(op *opcode, vm *Engine) error {
	numKeys, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	numPubKeys := int(numKeys.Int32())
	if numPubKeys < 0 || numPubKeys > MaxPubKeysPerMultiSig {
		str := fmt.Sprintf("number of pubkeys %d is invalid", numPubKeys)
		return scriptError(ErrInvalidPubKeyCount, str)
	}
	vm.numOps += numPubKeys
	if vm.numOps > maxOpsPerEval {
		str := fmt.Sprintf("exceeded max operation limit of %d",
			maxOpsPerEval)
		return scriptError(ErrTooManyOperations, str)
	}

	pubKeys := make([][]byte, 0, numPubKeys)
	for i := 0; i < numPubKeys; i++ {
		pubKey, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		pubKeys = append(pubKeys, pubKey)
	}

	numSigs, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	numSignatures := int(numSigs.Int32())
	if numSignatures < 0 {
		str := fmt.Sprintf("number of signatures %d is negative",
			numSignatures)
		return scriptError(ErrInvalidSignatureCount, str)
	}
	if numSignatures > numPubKeys {
		str := fmt.Sprintf("more signatures than pubkeys: %d > %d",
			numSignatures, numPubKeys)
		return scriptError(ErrInvalidSignatureCount, str)
	}

	signatures := make([][]byte, 0, numSignatures)
	for i := 0; i < numSignatures; i++ {
		signature, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		signatures = append(signatures, signature)
	}

	// A bug in the original Satoshi client implementation means one more
	// stack value than should be used must be popped.  Unfortunately, this
	// buggy behavior is now part of the consensus and a hard fork would be
	// required to fix it.
	if _, err := vm.dstack.PopByteArray(); err != nil {
		return err
	}

	success := true
	numPubKeys++
	pubKeyIdx := -1
	signatureIdx := 0
	for numSignatures > 0 {
		// When there are more signatures than public keys remaining,
		// there is no way to succeed since too many signatures are
		// invalid, so exit early.
		pubKeyIdx++
		numPubKeys--
		if numSignatures > numPubKeys {
			success = false
			break
		}

		signature := signatures[signatureIdx]
		pubKey := pubKeys[pubKeyIdx]

		if vm.checkSignature(signature, pubKey) {
			signatureIdx++
			numSignatures--
		}
	}

	vm.dstack.PushBool(success)
	return nil
}

// opcodeCheckMultiSigVerify is a combination of opcodeCheckMultiSig and
// opcodeVerify.  The opcodeCheckMultiSig is invoked followed by opcodeVerify.
// See the documentation for each of those opcodes for more details.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool] -> [...]
func opcodeCheckMultiSigVerify(op *opcode, vm *Engine) error {
	err := opcodeCheckMultiSig(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckMultiSigVerify)
	}
	return err
}

// opcodeCheckLockTimeVerify compares the top item on the data stack to the
// lock time of the transaction containing the script being executed.  The
// stack itself is unmodified.
func opcodeCheckLockTimeVerify(op *opcode, vm *Engine) error {
	// The current transaction input must not be finalized, otherwise the
	// lock time is not enforced.
	if vm.sequence == wire.MaxTxInSequenceNum {
		str := "transaction input is finalized"
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	// The lock time field of a transaction is either a block height at
	// which the transaction is finalized or a timestamp depending on if the
	// value is before the lockTimeThreshold.  When it is under the
	// threshold it is a block height.  Up to 5 bytes are allowed here since
	// it is possible for the lock time to exceed a 4-byte number.
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	lockTime, err := makeScriptNum(so, vm.dstack.verifyMinimalData, 5)
	if err != nil {
		return err
	}

	// In the rare event that the argument needs to be < 0 due to some
	// arithmetic being done first, you can always use
	// 0 OP_MAX OP_CHECKLOCKTIMEVERIFY.
	if lockTime < 0 {
		str := fmt.Sprintf("negative lock time: %d", lockTime)
		return scriptError(ErrNegativeLockTime, str)
	}

	err = verifyLockTime(int64(vm.lockTime), lockTimeThreshold,
		int64(lockTime))
	if err != nil {
		return err
	}

	return nil
}

// opcodeCheckSequenceVerify compares the top item on the data stack to the
// sequence of the transaction input containing the script being executed.
// The stack itself is unmodified.
func opcodeCheckSequenceVerify(op *opcode, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	// Up to 5 bytes are allowed here since it is possible for the
	// sequence value to exceed a 4-byte number.
	stackSequence, err := makeScriptNum(so, vm.dstack.verifyMinimalData, 5)
	if err != nil {
		return err
	}

	// In the rare event that the argument needs to be < 0 due to some
	// arithmetic being done first, you can always use
	// 0 OP_MAX OP_CHECKSEQUENCEVERIFY.
	if stackSequence < 0 {
		str := fmt.Sprintf("negative sequence: %d", stackSequence)
		return scriptError(ErrNegativeLockTime, str)
	}

	sequence := int64(stackSequence)

	// To provide for future soft-fork extensibility, if the operand has
	// the disabled lock-time flag set, CHECKSEQUENCEVERIFY behaves as a
	// NOP.
	if sequence&int64(wire.SequenceLockTimeDisabled) != 0 {
		return nil
	}

	// Sequence numbers with their most significant bit set are not
	// consensus constrained.  Testing that the transaction's sequence
	// number does not have this bit set prevents using this property to
	// get around a CHECKSEQUENCEVERIFY check.
	txSequence := int64(vm.sequence)
	if txSequence&int64(wire.SequenceLockTimeDisabled) != 0 {
		str := fmt.Sprintf("transaction sequence has sequence "+
			"locktime disabled bit set: 0x%x", txSequence)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	// Mask off non-consensus bits before doing comparisons.
	lockTimeMask := int64(wire.SequenceLockTimeIsSeconds |
		wire.SequenceLockTimeMask)
	return verifyLockTime(txSequence&lockTimeMask,
		wire.SequenceLockTimeIsSeconds, sequence&lockTimeMask)
}

// lockTimeThreshold is the number below which a transaction lock time is
// interpreted as a block height, and at or above which it is interpreted as a
// unix timestamp.
const lockTimeThreshold = 500000000

// verifyLockTime is a helper function used to validate lock times.
func verifyLockTime(txLockTime, threshold, lockTime int64) error {
	// The lock times must be of the same type, either both block heights
	// or both timestamps.
	if !((txLockTime < threshold && lockTime < threshold) ||
		(txLockTime >= threshold && lockTime >= threshold)) {

		str := fmt.Sprintf("mismatched locktime types -- tx locktime "+
			"%d, stack locktime %d", txLockTime, lockTime)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	if lockTime > txLockTime {
		str := fmt.Sprintf("locktime requirement not satisfied -- "+
			"locktime is greater than the transaction locktime: "+
			"%d > %d", lockTime, txLockTime)
		return scriptError(ErrUnsatisfiedLockTime, str)
	}

	return nil
}

// opcodeArray holds details about all possible opcodes.
var opcodeArray = [256]opcode{
	// Data push opcodes.  These are handled during parsing and never
	// executed directly.
	OP_FALSE:     {OP_FALSE, "OP_0", opcodeFalse},
	OP_DATA_1:    {OP_DATA_1, "OP_DATA_1", opcodeInvalid},
	OP_DATA_2:    {OP_DATA_2, "OP_DATA_2", opcodeInvalid},
	OP_DATA_3:    {OP_DATA_3, "OP_DATA_3", opcodeInvalid},
	OP_DATA_4:    {OP_DATA_4, "OP_DATA_4", opcodeInvalid},
	OP_DATA_5:    {OP_DATA_5, "OP_DATA_5", opcodeInvalid},
	OP_DATA_6:    {OP_DATA_6, "OP_DATA_6", opcodeInvalid},
	OP_DATA_7:    {OP_DATA_7, "OP_DATA_7", opcodeInvalid},
	OP_DATA_8:    {OP_DATA_8, "OP_DATA_8", opcodeInvalid},
	OP_DATA_9:    {OP_DATA_9, "OP_DATA_9", opcodeInvalid},
	OP_DATA_10:   {OP_DATA_10, "OP_DATA_10", opcodeInvalid},
	OP_DATA_11:   {OP_DATA_11, "OP_DATA_11", opcodeInvalid},
	OP_DATA_12:   {OP_DATA_12, "OP_DATA_12", opcodeInvalid},
	OP_DATA_13:   {OP_DATA_13, "OP_DATA_13", opcodeInvalid},
	OP_DATA_14:   {OP_DATA_14, "OP_DATA_14", opcodeInvalid},
	OP_DATA_15:   {OP_DATA_15, "OP_DATA_15", opcodeInvalid},
	OP_DATA_16:   {OP_DATA_16, "OP_DATA_16", opcodeInvalid},
	OP_DATA_17:   {OP_DATA_17, "OP_DATA_17", opcodeInvalid},
	OP_DATA_18:   {OP_DATA_18, "OP_DATA_18", opcodeInvalid},
	OP_DATA_19:   {OP_DATA_19, "OP_DATA_19", opcodeInvalid},
	OP_DATA_20:   {OP_DATA_20, "OP_DATA_20", opcodeInvalid},
	OP_DATA_21:   {OP_DATA_21, "OP_DATA_21", opcodeInvalid},
	OP_DATA_22:   {OP_DATA_22, "OP_DATA_22", opcodeInvalid},
	OP_DATA_23:   {OP_DATA_23, "OP_DATA_23", opcodeInvalid},
	OP_DATA_24:   {OP_DATA_24, "OP_DATA_24", opcodeInvalid},
	OP_DATA_25:   {OP_DATA_25, "OP_DATA_25", opcodeInvalid},
	OP_DATA_26:   {OP_DATA_26, "OP_DATA_26", opcodeInvalid},
	OP_DATA_27:   {OP_DATA_27, "OP_DATA_27", opcodeInvalid},
	OP_DATA_28:   {OP_DATA_28, "OP_DATA_28", opcodeInvalid},
	OP_DATA_29:   {OP_DATA_29, "OP_DATA_29", opcodeInvalid},
	OP_DATA_30:   {OP_DATA_30, "OP_DATA_30", opcodeInvalid},
	OP_DATA_31:   {OP_DATA_31, "OP_DATA_31", opcodeInvalid},
	OP_DATA_32:   {OP_DATA_32, "OP_DATA_32", opcodeInvalid},
	OP_DATA_33:   {OP_DATA_33, "OP_DATA_33", opcodeInvalid},
	OP_DATA_34:   {OP_DATA_34, "OP_DATA_34", opcodeInvalid},
	OP_DATA_35:   {OP_DATA_35, "OP_DATA_35", opcodeInvalid},
	OP_DATA_36:   {OP_DATA_36, "OP_DATA_36", opcodeInvalid},
	OP_DATA_37:   {OP_DATA_37, "OP_DATA_37", opcodeInvalid},
	OP_DATA_38:   {OP_DATA_38, "OP_DATA_38", opcodeInvalid},
	OP_DATA_39:   {OP_DATA_39, "OP_DATA_39", opcodeInvalid},
	OP_DATA_40:   {OP_DATA_40, "OP_DATA_40", opcodeInvalid},
	OP_DATA_41:   {OP_DATA_41, "OP_DATA_41", opcodeInvalid},
	OP_DATA_42:   {OP_DATA_42, "OP_DATA_42", opcodeInvalid},
	OP_DATA_43:   {OP_DATA_43, "OP_DATA_43", opcodeInvalid},
	OP_DATA_44:   {OP_DATA_44, "OP_DATA_44", opcodeInvalid},
	OP_DATA_45:   {OP_DATA_45, "OP_DATA_45", opcodeInvalid},
	OP_DATA_46:   {OP_DATA_46, "OP_DATA_46", opcodeInvalid},
	OP_DATA_47:   {OP_DATA_47, "OP_DATA_47", opcodeInvalid},
	OP_DATA_48:   {OP_DATA_48, "OP_DATA_48", opcodeInvalid},
	OP_DATA_49:   {OP_DATA_49, "OP_DATA_49", opcodeInvalid},
	OP_DATA_50:   {OP_DATA_50, "OP_DATA_50", opcodeInvalid},
	OP_DATA_51:   {OP_DATA_51, "OP_DATA_51", opcodeInvalid},
	OP_DATA_52:   {OP_DATA_52, "OP_DATA_52", opcodeInvalid},
	OP_DATA_53:   {OP_DATA_53, "OP_DATA_53", opcodeInvalid},
	OP_DATA_54:   {OP_DATA_54, "OP_DATA_54", opcodeInvalid},
	OP_DATA_55:   {OP_DATA_55, "OP_DATA_55", opcodeInvalid},
	OP_DATA_56:   {OP_DATA_56, "OP_DATA_56", opcodeInvalid},
	OP_DATA_57:   {OP_DATA_57, "OP_DATA_57", opcodeInvalid},
	OP_DATA_58:   {OP_DATA_58, "OP_DATA_58", opcodeInvalid},
	OP_DATA_59:   {OP_DATA_59, "OP_DATA_59", opcodeInvalid},
	OP_DATA_60:   {OP_DATA_60, "OP_DATA_60", opcodeInvalid},
	OP_DATA_61:   {OP_DATA_61, "OP_DATA_61", opcodeInvalid},
	OP_DATA_62:   {OP_DATA_62, "OP_DATA_62", opcodeInvalid},
	OP_DATA_63:   {OP_DATA_63, "OP_DATA_63", opcodeInvalid},
	OP_DATA_64:   {OP_DATA_64, "OP_DATA_64", opcodeInvalid},
	OP_DATA_65:   {OP_DATA_65, "OP_DATA_65", opcodeInvalid},
	OP_DATA_66:   {OP_DATA_66, "OP_DATA_66", opcodeInvalid},
	OP_DATA_67:   {OP_DATA_67, "OP_DATA_67", opcodeInvalid},
	OP_DATA_68:   {OP_DATA_68, "OP_DATA_68", opcodeInvalid},
	OP_DATA_69:   {OP_DATA_69, "OP_DATA_69", opcodeInvalid},
	OP_DATA_70:   {OP_DATA_70, "OP_DATA_70", opcodeInvalid},
	OP_DATA_71:   {OP_DATA_71, "OP_DATA_71", opcodeInvalid},
	OP_DATA_72:   {OP_DATA_72, "OP_DATA_72", opcodeInvalid},
	OP_DATA_73:   {OP_DATA_73, "OP_DATA_73", opcodeInvalid},
	OP_DATA_74:   {OP_DATA_74, "OP_DATA_74", opcodeInvalid},
	OP_DATA_75:   {OP_DATA_75, "OP_DATA_75", opcodeInvalid},
	OP_PUSHDATA1: {OP_PUSHDATA1, "OP_PUSHDATA1", opcodeInvalid},
	OP_PUSHDATA2: {OP_PUSHDATA2, "OP_PUSHDATA2", opcodeInvalid},
	OP_PUSHDATA4: {OP_PUSHDATA4, "OP_PUSHDATA4", opcodeInvalid},
	OP_1NEGATE:   {OP_1NEGATE, "OP_1NEGATE", opcode1Negate},
	OP_RESERVED:  {OP_RESERVED, "OP_RESERVED", opcodeReserved},
	OP_TRUE:      {OP_TRUE, "OP_1", opcodeN},
	OP_2:         {OP_2, "OP_2", opcodeN},
	OP_3:         {OP_3, "OP_3", opcodeN},
	OP_4:         {OP_4, "OP_4", opcodeN},
	OP_5:         {OP_5, "OP_5", opcodeN},
	OP_6:         {OP_6, "OP_6", opcodeN},
	OP_7:         {OP_7, "OP_7", opcodeN},
	OP_8:         {OP_8, "OP_8", opcodeN},
	OP_9:         {OP_9, "OP_9", opcodeN},
	OP_10:        {OP_10, "OP_10", opcodeN},
	OP_11:        {OP_11, "OP_11", opcodeN},
	OP_12:        {OP_12, "OP_12", opcodeN},
	OP_13:        {OP_13, "OP_13", opcodeN},
	OP_14:        {OP_14, "OP_14", opcodeN},
	OP_15:        {OP_15, "OP_15", opcodeN},
	OP_16:        {OP_16, "OP_16", opcodeN},

	// Control opcodes.
	OP_NOP:      {OP_NOP, "OP_NOP", opcodeNop},
	OP_VER:      {OP_VER, "OP_VER", opcodeReserved},
	OP_IF:       {OP_IF, "OP_IF", opcodeIf},
	OP_NOTIF:    {OP_NOTIF, "OP_NOTIF", opcodeNotIf},
	OP_VERIF:    {OP_VERIF, "OP_VERIF", opcodeReserved},
	OP_VERNOTIF: {OP_VERNOTIF, "OP_VERNOTIF", opcodeReserved},
	OP_ELSE:     {OP_ELSE, "OP_ELSE", opcodeElse},
	OP_ENDIF:    {OP_ENDIF, "OP_ENDIF", opcodeEndif},
	OP_VERIFY:   {OP_VERIFY, "OP_VERIFY", opcodeVerify},
	OP_RETURN:   {OP_RETURN, "OP_RETURN", opcodeReturn},

	// Stack opcodes.
	OP_TOALTSTACK:   {OP_TOALTSTACK, "OP_TOALTSTACK", opcodeToAltStack},
	OP_FROMALTSTACK: {OP_FROMALTSTACK, "OP_FROMALTSTACK", opcodeFromAltStack},
	OP_2DROP:        {OP_2DROP, "OP_2DROP", opcode2Drop},
	OP_2DUP:         {OP_2DUP, "OP_2DUP", opcode2Dup},
	OP_3DUP:         {OP_3DUP, "OP_3DUP", opcode3Dup},
	OP_2OVER:        {OP_2OVER, "OP_2OVER", opcode2Over},
	OP_2ROT:         {OP_2ROT, "OP_2ROT", opcode2Rot},
	OP_2SWAP:        {OP_2SWAP, "OP_2SWAP", opcode2Swap},
	OP_IFDUP:        {OP_IFDUP, "OP_IFDUP", opcodeIfDup},
	OP_DEPTH:        {OP_DEPTH, "OP_DEPTH", opcodeDepth},
	OP_DROP:         {OP_DROP, "OP_DROP", opcodeDrop},
	OP_DUP:          {OP_DUP, "OP_DUP", opcodeDup},
	OP_NIP:          {OP_NIP, "OP_NIP", opcodeNip},
	OP_OVER:         {OP_OVER, "OP_OVER", opcodeOver},
	OP_PICK:         {OP_PICK, "OP_PICK", opcodePick},
	OP_ROLL:         {OP_ROLL, "OP_ROLL", opcodeRoll},
	OP_ROT:          {OP_ROT, "OP_ROT", opcodeRot},
	OP_SWAP:         {OP_SWAP, "OP_SWAP", opcodeSwap},
	OP_TUCK:         {OP_TUCK, "OP_TUCK", opcodeTuck},

	// Splice opcodes.
	OP_CAT:    {OP_CAT, "OP_CAT", opcodeDisabled},
	OP_SUBSTR: {OP_SUBSTR, "OP_SUBSTR", opcodeDisabled},
	OP_LEFT:   {OP_LEFT, "OP_LEFT", opcodeDisabled},
	OP_RIGHT:  {OP_RIGHT, "OP_RIGHT", opcodeDisabled},
	OP_SIZE:   {OP_SIZE, "OP_SIZE", opcodeSize},

	// Bitwise logic opcodes.
	OP_INVERT:      {OP_INVERT, "OP_INVERT", opcodeDisabled},
	OP_AND:         {OP_AND, "OP_AND", opcodeDisabled},
	OP_OR:          {OP_OR, "OP_OR", opcodeDisabled},
	OP_XOR:         {OP_XOR, "OP_XOR", opcodeDisabled},
	OP_EQUAL:       {OP_EQUAL, "OP_EQUAL", opcodeEqual},
	OP_EQUALVERIFY: {OP_EQUALVERIFY, "OP_EQUALVERIFY", opcodeEqualVerify},
	OP_RESERVED1:   {OP_RESERVED1, "OP_RESERVED1", opcodeReserved},
	OP_RESERVED2:   {OP_RESERVED2, "OP_RESERVED2", opcodeReserved},

	// Numeric related opcodes.
	OP_1ADD:               {OP_1ADD, "OP_1ADD", opcode1Add},
	OP_1SUB:               {OP_1SUB, "OP_1SUB", opcode1Sub},
	OP_2MUL:               {OP_2MUL, "OP_2MUL", opcodeDisabled},
	OP_2DIV:               {OP_2DIV, "OP_2DIV", opcodeDisabled},
	OP_NEGATE:             {OP_NEGATE, "OP_NEGATE", opcodeNegate},
	OP_ABS:                {OP_ABS, "OP_ABS", opcodeAbs},
	OP_NOT:                {OP_NOT, "OP_NOT", opcodeNot},
	OP_0NOTEQUAL:          {OP_0NOTEQUAL, "OP_0NOTEQUAL", opcode0NotEqual},
	OP_ADD:                {OP_ADD, "OP_ADD", opcodeAdd},
	OP_SUB:                {OP_SUB, "OP_SUB", opcodeSub},
	OP_MUL:                {OP_MUL, "OP_MUL", opcodeDisabled},
	OP_DIV:                {OP_DIV, "OP_DIV", opcodeDisabled},
	OP_MOD:                {OP_MOD, "OP_MOD", opcodeDisabled},
	OP_LSHIFT:             {OP_LSHIFT, "OP_LSHIFT", opcodeDisabled},
	OP_RSHIFT:             {OP_RSHIFT, "OP_RSHIFT", opcodeDisabled},
	OP_BOOLAND:            {OP_BOOLAND, "OP_BOOLAND", opcodeBoolAnd},
	OP_BOOLOR:             {OP_BOOLOR, "OP_BOOLOR", opcodeBoolOr},
	OP_NUMEQUAL:           {OP_NUMEQUAL, "OP_NUMEQUAL", opcodeNumEqual},
	OP_NUMEQUALVERIFY:     {OP_NUMEQUALVERIFY, "OP_NUMEQUALVERIFY", opcodeNumEqualVerify},
	OP_NUMNOTEQUAL:        {OP_NUMNOTEQUAL, "OP_NUMNOTEQUAL", opcodeNumNotEqual},
	OP_LESSTHAN:           {OP_LESSTHAN, "OP_LESSTHAN", opcodeLessThan},
	OP_GREATERTHAN:        {OP_GREATERTHAN, "OP_GREATERTHAN", opcodeGreaterThan},
	OP_LESSTHANOREQUAL:    {OP_LESSTHANOREQUAL, "OP_LESSTHANOREQUAL", opcodeLessThanOrEqual},
	OP_GREATERTHANOREQUAL: {OP_GREATERTHANOREQUAL, "OP_GREATERTHANOREQUAL", opcodeGreaterThanOrEqual},
	OP_MIN:                {OP_MIN, "OP_MIN", opcodeMin},
	OP_MAX:                {OP_MAX, "OP_MAX", opcodeMax},
	OP_WITHIN:             {OP_WITHIN, "OP_WITHIN", opcodeWithin},

	// Crypto opcodes.
	OP_RIPEMD160:           {OP_RIPEMD160, "OP_RIPEMD160", opcodeRipemd160},
	OP_SHA1:                {OP_SHA1, "OP_SHA1", opcodeSha1},
	OP_SHA256:              {OP_SHA256, "OP_SHA256", opcodeSha256},
	OP_HASH160:             {OP_HASH160, "OP_HASH160", opcodeHash160},
	OP_HASH256:             {OP_HASH256, "OP_HASH256", opcodeHash256},
	OP_CODESEPARATOR:       {OP_CODESEPARATOR, "OP_CODESEPARATOR", opcodeNop},
	OP_CHECKSIG:            {OP_CHECKSIG, "OP_CHECKSIG", opcodeCheckSig},
	OP_CHECKSIGVERIFY:      {OP_CHECKSIGVERIFY, "OP_CHECKSIGVERIFY", opcodeCheckSigVerify},
	OP_CHECKMULTISIG:       {OP_CHECKMULTISIG, "OP_CHECKMULTISIG", opcodeCheckMultiSig},
	OP_CHECKMULTISIGVERIFY: {OP_CHECKMULTISIGVERIFY, "OP_CHECKMULTISIGVERIFY", opcodeCheckMultiSigVerify},

	// Reserved opcodes.
	OP_NOP1:                {OP_NOP1, "OP_NOP1", opcodeNop},
	OP_CHECKLOCKTIMEVERIFY: {OP_CHECKLOCKTIMEVERIFY, "OP_CHECKLOCKTIMEVERIFY", opcodeCheckLockTimeVerify},
	OP_CHECKSEQUENCEVERIFY: {OP_CHECKSEQUENCEVERIFY, "OP_CHECKSEQUENCEVERIFY", opcodeCheckSequenceVerify},
	OP_NOP4:                {OP_NOP4, "OP_NOP4", opcodeNop},
	OP_NOP5:                {OP_NOP5, "OP_NOP5", opcodeNop},
	OP_NOP6:                {OP_NOP6, "OP_NOP6", opcodeNop},
	OP_NOP7:                {OP_NOP7, "OP_NOP7", opcodeNop},
	OP_NOP8:                {OP_NOP8, "OP_NOP8", opcodeNop},
	OP_NOP9:                {OP_NOP9, "OP_NOP9", opcodeNop},
	OP_NOP10:               {OP_NOP10, "OP_NOP10", opcodeNop},

	// Undefined opcodes.
	0xba: {0xba, "OP_UNKNOWN186", opcodeInvalid},
	0xbb: {0xbb, "OP_UNKNOWN187", opcodeInvalid},
	0xbc: {0xbc, "OP_UNKNOWN188", opcodeInvalid},
	0xbd: {0xbd, "OP_UNKNOWN189", opcodeInvalid},
	0xbe: {0xbe, "OP_UNKNOWN190", opcodeInvalid},
	0xbf: {0xbf, "OP_UNKNOWN191", opcodeInvalid},
	0xc0: {0xc0, "OP_UNKNOWN192", opcodeInvalid},
	0xc1: {0xc1, "OP_UNKNOWN193", opcodeInvalid},
	0xc2: {0xc2, "OP_UNKNOWN194", opcodeInvalid},
	0xc3: {0xc3, "OP_UNKNOWN195", opcodeInvalid},
	0xc4: {0xc4, "OP_UNKNOWN196", opcodeInvalid},
	0xc5: {0xc5, "OP_UNKNOWN197", opcodeInvalid},
	0xc6: {0xc6, "OP_UNKNOWN198", opcodeInvalid},
	0xc7: {0xc7, "OP_UNKNOWN199", opcodeInvalid},
	0xc8: {0xc8, "OP_UNKNOWN200", opcodeInvalid},
	0xc9: {0xc9, "OP_UNKNOWN201", opcodeInvalid},
	0xca: {0xca, "OP_UNKNOWN202", opcodeInvalid},
	0xcb: {0xcb, "OP_UNKNOWN203", opcodeInvalid},
	0xcc: {0xcc, "OP_UNKNOWN204", opcodeInvalid},
	0xcd: {0xcd, "OP_UNKNOWN205", opcodeInvalid},
	0xce: {0xce, "OP_UNKNOWN206", opcodeInvalid},
	0xcf: {0xcf, "OP_UNKNOWN207", opcodeInvalid},
	0xd0: {0xd0, "OP_UNKNOWN208", opcodeInvalid},
	0xd1: {0xd1, "OP_UNKNOWN209", opcodeInvalid},
	0xd2: {0xd2, "OP_UNKNOWN210", opcodeInvalid},
	0xd3: {0xd3, "OP_UNKNOWN211", opcodeInvalid},
	0xd4: {0xd4, "OP_UNKNOWN212", opcodeInvalid},
	0xd5: {0xd5, "OP_UNKNOWN213", opcodeInvalid},
	0xd6: {0xd6, "OP_UNKNOWN214", opcodeInvalid},
	0xd7: {0xd7, "OP_UNKNOWN215", opcodeInvalid},
	0xd8: {0xd8, "OP_UNKNOWN216", opcodeInvalid},
	0xd9: {0xd9, "OP_UNKNOWN217", opcodeInvalid},
	0xda: {0xda, "OP_UNKNOWN218", opcodeInvalid},
	0xdb: {0xdb, "OP_UNKNOWN219", opcodeInvalid},
	0xdc: {0xdc, "OP_UNKNOWN220", opcodeInvalid},
	0xdd: {0xdd, "OP_UNKNOWN221", opcodeInvalid},
	0xde: {0xde, "OP_UNKNOWN222", opcodeInvalid},
	0xdf: {0xdf, "OP_UNKNOWN223", opcodeInvalid},
	0xe0: {0xe0, "OP_UNKNOWN224", opcodeInvalid},
	0xe1: {0xe1, "OP_UNKNOWN225", opcodeInvalid},
	0xe2: {0xe2, "OP_UNKNOWN226", opcodeInvalid},
	0xe3: {0xe3, "OP_UNKNOWN227", opcodeInvalid},
	0xe4: {0xe4, "OP_UNKNOWN228", opcodeInvalid},
	0xe5: {0xe5, "OP_UNKNOWN229", opcodeInvalid},
	0xe6: {0xe6, "OP_UNKNOWN230", opcodeInvalid},
	0xe7: {0xe7, "OP_UNKNOWN231", opcodeInvalid},
	0xe8: {0xe8, "OP_UNKNOWN232", opcodeInvalid},
	0xe9: {0xe9, "OP_UNKNOWN233", opcodeInvalid},
	0xea: {0xea, "OP_UNKNOWN234", opcodeInvalid},
	0xeb: {0xeb, "OP_UNKNOWN235", opcodeInvalid},
	0xec: {0xec, "OP_UNKNOWN236", opcodeInvalid},
	0xed: {0xed, "OP_UNKNOWN237", opcodeInvalid},
	0xee: {0xee, "OP_UNKNOWN238", opcodeInvalid},
	0xef: {0xef, "OP_UNKNOWN239", opcodeInvalid},
	0xf0: {0xf0, "OP_UNKNOWN240", opcodeInvalid},
	0xf1: {0xf1, "OP_UNKNOWN241", opcodeInvalid},
	0xf2: {0xf2, "OP_UNKNOWN242", opcodeInvalid},
	0xf3: {0xf3, "OP_UNKNOWN243", opcodeInvalid},
	0xf4: {0xf4, "OP_UNKNOWN244", opcodeInvalid},
	0xf5: {0xf5, "OP_UNKNOWN245", opcodeInvalid},
	0xf6: {0xf6, "OP_UNKNOWN246", opcodeInvalid},
	0xf7: {0xf7, "OP_UNKNOWN247", opcodeInvalid},
	0xf8: {0xf8, "OP_UNKNOWN248", opcodeInvalid},
	0xf9: {0xf9, "OP_UNKNOWN249", opcodeInvalid},
	0xfa: {0xfa, "OP_UNKNOWN250", opcodeInvalid},
	0xfb: {0xfb, "OP_UNKNOWN251", opcodeInvalid},
	0xfc: {0xfc, "OP_UNKNOWN252", opcodeInvalid},
	0xfd: {0xfd, "OP_UNKNOWN253", opcodeInvalid},
	0xfe: {0xfe, "OP_UNKNOWN254", opcodeInvalid},
	0xff: {0xff, "OP_UNKNOWN255", opcodeInvalid},
}

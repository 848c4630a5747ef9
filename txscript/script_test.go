// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors
// in the source code can be detected.  It will only (and must only) be called
// with hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// TestScriptParseRoundTrip ensures a parsed script reserializes to its
// original raw bytes for each of the standard templates.
func TestScriptParseRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []string{
		// p2pkh pkScript.
		"76a914a802fc56c704ce87c42d7c92eb75e7896bdc41ae88ac",
		// p2sh pkScript.
		"a91474d691da1574e6b3c192ecfb52cc8984ee7b6c5687",
		// p2wpkh pkScript.
		"00141d0f172a0ecb48aee1be1f2687d2963ae33f71a1",
		// p2wsh pkScript.
		"0020701a8d401c84fb13e6baf169d59684e17abd9fa216c8cc5b9fc63d622ff8c58d",
		// 2-of-2 multisig.
		"52210349fc4e631e3624a545de3f89f5d8684c7b8138bd94bdd531d2e21" +
			"3bf016b278a2103a2d8a0b103a4e0a4a2ff4af43f11a1c0a1b531b9" +
			"33f8b5b03c3b9f4e4b8a97e452ae",
	}

	for i, test := range tests {
		raw := hexToBytes(test)
		script, err := NewScriptFromBytes(raw)
		if err != nil {
			t.Errorf("test #%d: parse error: %v", i, err)
			continue
		}

		got, err := script.RawSerialize()
		if err != nil {
			t.Errorf("test #%d: serialize error: %v", i, err)
			continue
		}
		if !bytes.Equal(got, raw) {
			t.Errorf("test #%d: round trip mismatch - got %x, "+
				"want %x", i, got, raw)
		}
	}
}

// TestScriptSerializePushForms ensures data pushes are serialized with the
// smallest possible push opcode for their length and that pushes beyond the
// maximum element size are rejected.
func TestScriptSerializePushForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dataLen int
		prefix  []byte
		err     error
	}{
		{1, []byte{0x01}, nil},
		{75, []byte{0x4b}, nil},
		{76, []byte{OP_PUSHDATA1, 76}, nil},
		{255, []byte{OP_PUSHDATA1, 255}, nil},
		{256, []byte{OP_PUSHDATA2, 0x00, 0x01}, nil},
		{520, []byte{OP_PUSHDATA2, 0x08, 0x02}, nil},
		{521, nil, scriptError(ErrElementTooBig, "")},
	}

	for _, test := range tests {
		data := bytes.Repeat([]byte{0xaa}, test.dataLen)
		script := NewScript(DataCommand(data))

		raw, err := script.RawSerialize()
		if test.err != nil {
			wantCode := test.err.(Error).ErrorCode
			if !IsErrorCode(err, wantCode) {
				t.Errorf("push of %d bytes: wrong error - got "+
					"%v, want code %v", test.dataLen, err,
					wantCode)
			}
			continue
		}
		if err != nil {
			t.Errorf("push of %d bytes: unexpected error %v",
				test.dataLen, err)
			continue
		}

		want := append(append([]byte{}, test.prefix...), data...)
		if !bytes.Equal(raw, want) {
			t.Errorf("push of %d bytes: wrong serialization "+
				"prefix - got %x", test.dataLen, raw)
			continue
		}

		// The serialized form must parse back to a single push of the
		// original data.
		reparsed, err := NewScriptFromBytes(raw)
		if err != nil {
			t.Errorf("push of %d bytes: reparse error: %v",
				test.dataLen, err)
			continue
		}
		cmds := reparsed.Commands()
		if len(cmds) != 1 || !cmds[0].IsData() ||
			!bytes.Equal(cmds[0].Data(), data) {

			t.Errorf("push of %d bytes: reparse mismatch",
				test.dataLen)
		}
	}
}

// TestScriptParsePrefixed ensures the length-prefixed serialization round
// trips and that a length prefix which disagrees with the encoded commands is
// rejected.
func TestScriptParsePrefixed(t *testing.T) {
	t.Parallel()

	script := PayToPubKeyHashScript(bytes.Repeat([]byte{0x01}, 20))
	var buf bytes.Buffer
	if err := script.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	reparsed, err := Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	raw, err := reparsed.RawSerialize()
	if err != nil {
		t.Fatalf("RawSerialize: %v", err)
	}
	wantRaw, err := script.RawSerialize()
	if err != nil {
		t.Fatalf("RawSerialize: %v", err)
	}
	if !bytes.Equal(raw, wantRaw) {
		t.Errorf("round trip mismatch - got %x, want %x", raw, wantRaw)
	}

	// A declared length of 2 with a data push which claims 2 bytes but
	// only has 1 available.
	malformed := []byte{0x02, 0x02, 0xaa}
	_, err = Parse(bytes.NewReader(malformed))
	if !IsErrorCode(err, ErrScriptSizeMismatch) {
		t.Errorf("Parse: expected ErrScriptSizeMismatch, got %v", err)
	}

	// The same body with no length prefix fails as a malformed push.
	_, err = NewScriptFromBytes([]byte{0x02, 0xaa})
	if !IsErrorCode(err, ErrMalformedPush) {
		t.Errorf("NewScriptFromBytes: expected ErrMalformedPush, "+
			"got %v", err)
	}
}

// TestScriptConcat ensures concatenation preserves command order and does not
// modify either input script.
func TestScriptConcat(t *testing.T) {
	t.Parallel()

	sigScript := NewScript(DataCommand([]byte{0x01, 0x02}))
	pkScript := PayToPubKeyHashScript(bytes.Repeat([]byte{0x02}, 20))

	combined := sigScript.Concat(pkScript)
	if len(combined.Commands()) !=
		len(sigScript.Commands())+len(pkScript.Commands()) {

		t.Fatalf("Concat: wrong command count %d",
			len(combined.Commands()))
	}
	if len(sigScript.Commands()) != 1 {
		t.Errorf("Concat: modified receiver")
	}

	wantFirst := combined.Commands()[0]
	if !wantFirst.IsData() || !bytes.Equal(wantFirst.Data(), []byte{0x01, 0x02}) {
		t.Errorf("Concat: wrong first command %v", wantFirst)
	}
}

// TestScriptString ensures the human-readable form names opcodes and hex
// encodes data pushes.
func TestScriptString(t *testing.T) {
	t.Parallel()

	script := NewScript(
		OpcodeCommand(OP_DUP),
		OpcodeCommand(OP_HASH160),
		DataCommand([]byte{0xab, 0xcd}),
		OpcodeCommand(OP_EQUALVERIFY),
		OpcodeCommand(OP_CHECKSIG),
	)
	want := "OP_DUP OP_HASH160 abcd OP_EQUALVERIFY OP_CHECKSIG"
	if got := script.String(); got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
}

// TestPushedData ensures only data pushes are extracted from a script.
func TestPushedData(t *testing.T) {
	t.Parallel()

	script := NewScript(
		OpcodeCommand(OP_0),
		DataCommand([]byte{0x01}),
		OpcodeCommand(OP_DUP),
		DataCommand([]byte{0x02, 0x03}),
	)
	pushes := script.PushedData()
	if len(pushes) != 2 {
		t.Fatalf("PushedData: got %d pushes, want 2", len(pushes))
	}
	if !bytes.Equal(pushes[1], []byte{0x02, 0x03}) {
		t.Errorf("PushedData: wrong final push %x", pushes[1])
	}
}

// TestScriptBuilder exercises the canonical push selection of the script
// builder against the direct serialization of the equivalent script.
func TestScriptBuilder(t *testing.T) {
	t.Parallel()

	for _, dataLen := range []int{1, 75, 76, 255, 256, 520} {
		data := bytes.Repeat([]byte{0x55}, dataLen)

		built, err := NewScriptBuilder().AddData(data).Script()
		if err != nil {
			t.Fatalf("builder error for %d bytes: %v", dataLen, err)
		}
		direct, err := NewScript(DataCommand(data)).RawSerialize()
		if err != nil {
			t.Fatalf("serialize error for %d bytes: %v", dataLen, err)
		}
		if !bytes.Equal(built, direct) {
			t.Errorf("builder mismatch for %d bytes", dataLen)
		}
	}

	// Oversized pushes poison the builder.
	_, err := NewScriptBuilder().
		AddData(bytes.Repeat([]byte{0x55}, MaxScriptElementSize+1)).
		Script()
	if err == nil {
		t.Error("builder accepted an oversized push")
	}

	// Small ints serialize as the corresponding small int opcode.
	script, err := NewScriptBuilder().AddInt64(0).AddInt64(16).
		AddInt64(-1).Script()
	if err != nil {
		t.Fatalf("builder error: %v", err)
	}
	want := []byte{OP_0, OP_16, OP_1NEGATE}
	if !bytes.Equal(script, want) {
		t.Errorf("small int pushes: got %x, want %x", script, want)
	}
}

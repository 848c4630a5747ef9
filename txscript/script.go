// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spvkit/spvkit/wire"
)

const (
	// MaxScriptSize is the maximum allowed length in bytes of a raw script.
	MaxScriptSize = 10000

	// MaxScriptElementSize is the maximum allowed length in bytes of a
	// single data push.
	MaxScriptElementSize = 520
)

// Command is a single element of a parsed script.  It is either an opcode or
// a raw data push.  The zero value is OP_0.
type Command struct {
	opcode byte
	data   []byte
	isData bool
}

// OpcodeCommand returns a command for the passed opcode.
func OpcodeCommand(op byte) Command {
	return Command{opcode: op}
}

// DataCommand returns a command which pushes the passed bytes.  The data is
// not copied, so it must not be modified after the call.
func DataCommand(data []byte) Command {
	return Command{data: data, isData: true}
}

// IsData returns whether the command is a data push as opposed to an opcode.
func (c Command) IsData() bool {
	return c.isData
}

// Opcode returns the opcode for the command.  It is only valid when IsData
// returns false.
func (c Command) Opcode() byte {
	return c.opcode
}

// Data returns the bytes pushed by the command.  It is only valid when IsData
// returns true.
func (c Command) Data() []byte {
	return c.data
}

// String returns a human-readable rendition of the command.
func (c Command) String() string {
	if c.isData {
		return hex.EncodeToString(c.data)
	}
	return opcodeName(c.opcode)
}

// Script is a parsed bitcoin script.  The command sequence is ordered from
// first executed to last.
type Script struct {
	cmds []Command
}

// NewScript returns a script composed of the passed commands.  The slice is
// not copied.
func NewScript(cmds ...Command) *Script {
	return &Script{cmds: cmds}
}

// Commands returns the command sequence of the script.  The returned slice
// must not be modified.
func (s *Script) Commands() []Command {
	return s.cmds
}

// Concat returns a new script consisting of the receiver's commands followed
// by the commands of other.  Neither input script is modified.
func (s *Script) Concat(other *Script) *Script {
	cmds := make([]Command, 0, len(s.cmds)+len(other.cmds))
	cmds = append(cmds, s.cmds...)
	cmds = append(cmds, other.cmds...)
	return &Script{cmds: cmds}
}

// String returns a human-readable rendition of the script with one command
// per space-separated token.
func (s *Script) String() string {
	var buf bytes.Buffer
	for i, cmd := range s.cmds {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(cmd.String())
	}
	return buf.String()
}

// parseScriptBytes parses the passed raw script bytes into a command
// sequence.  Opcodes 0x01 through OP_PUSHDATA2 are interpreted as data
// pushes per their encoding while all remaining bytes are opcodes.
func parseScriptBytes(buf []byte) ([]Command, error) {
	var cmds []Command
	for i := 0; i < len(buf); {
		op := buf[i]
		i++
		switch {
		case op >= 1 && op <= 75:
			// The opcode itself is the number of bytes to push.
			n := int(op)
			if i+n > len(buf) {
				str := fmt.Sprintf("opcode %d pushes %d bytes, "+
					"but script only has %d remaining", op, n,
					len(buf)-i)
				return nil, scriptError(ErrMalformedPush, str)
			}
			cmds = append(cmds, DataCommand(buf[i:i+n]))
			i += n

		case op == OP_PUSHDATA1:
			if i+1 > len(buf) {
				str := "OP_PUSHDATA1 with no length byte"
				return nil, scriptError(ErrMalformedPush, str)
			}
			n := int(buf[i])
			i++
			if i+n > len(buf) {
				str := fmt.Sprintf("OP_PUSHDATA1 pushes %d "+
					"bytes, but script only has %d remaining",
					n, len(buf)-i)
				return nil, scriptError(ErrMalformedPush, str)
			}
			cmds = append(cmds, DataCommand(buf[i:i+n]))
			i += n

		case op == OP_PUSHDATA2:
			if i+2 > len(buf) {
				str := "OP_PUSHDATA2 with no length bytes"
				return nil, scriptError(ErrMalformedPush, str)
			}
			n := int(buf[i]) | int(buf[i+1])<<8
			i += 2
			if i+n > len(buf) {
				str := fmt.Sprintf("OP_PUSHDATA2 pushes %d "+
					"bytes, but script only has %d remaining",
					n, len(buf)-i)
				return nil, scriptError(ErrMalformedPush, str)
			}
			cmds = append(cmds, DataCommand(buf[i:i+n]))
			i += n

		default:
			cmds = append(cmds, OpcodeCommand(op))
		}
	}

	return cmds, nil
}

// NewScriptFromBytes parses the passed raw script bytes, with no leading
// length prefix, into a script.  This is the form scripts take inside
// transaction inputs and outputs on the wire.
func NewScriptFromBytes(buf []byte) (*Script, error) {
	if len(buf) > MaxScriptSize {
		str := fmt.Sprintf("script of size %d exceeds max allowed "+
			"size %d", len(buf), MaxScriptSize)
		return nil, scriptError(ErrUnsupportedScript, str)
	}

	cmds, err := parseScriptBytes(buf)
	if err != nil {
		return nil, err
	}
	return &Script{cmds: cmds}, nil
}

// Parse parses a script from the passed reader.  The serialization consists
// of a varint length followed by exactly that many raw script bytes.  An
// error with code ErrScriptSizeMismatch is returned when the declared length
// does not agree with the encoded commands.
func Parse(r io.Reader) (*Script, error) {
	count, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, err
	}
	if count > MaxScriptSize {
		str := fmt.Sprintf("script of size %d exceeds max allowed "+
			"size %d", count, MaxScriptSize)
		return nil, scriptError(ErrUnsupportedScript, str)
	}

	buf := make([]byte, count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	cmds, err := parseScriptBytes(buf)
	if err != nil {
		// A data push which overruns the declared script length means
		// the length prefix and the script body disagree.
		if IsErrorCode(err, ErrMalformedPush) {
			str := fmt.Sprintf("declared script length %d does "+
				"not match the encoded commands: %v", count, err)
			return nil, scriptError(ErrScriptSizeMismatch, str)
		}
		return nil, err
	}

	return &Script{cmds: cmds}, nil
}

// writeCommand appends the canonical serialization of the passed command to
// the buffer.  Data pushes use the smallest possible push opcode for their
// length.
func writeCommand(buf *bytes.Buffer, cmd Command) error {
	if !cmd.isData {
		buf.WriteByte(cmd.opcode)
		return nil
	}

	n := len(cmd.data)
	switch {
	case n < int(OP_PUSHDATA1):
		buf.WriteByte(byte(n))

	case n <= 0xff:
		buf.WriteByte(OP_PUSHDATA1)
		buf.WriteByte(byte(n))

	case n <= MaxScriptElementSize:
		buf.WriteByte(OP_PUSHDATA2)
		buf.WriteByte(byte(n))
		buf.WriteByte(byte(n >> 8))

	default:
		str := fmt.Sprintf("data push of %d bytes exceeds max "+
			"allowed element size %d", n, MaxScriptElementSize)
		return scriptError(ErrElementTooBig, str)
	}
	buf.Write(cmd.data)
	return nil
}

// RawSerialize returns the raw script bytes with no length prefix.  This is
// the form scripts take inside transaction inputs and outputs.
func (s *Script) RawSerialize() ([]byte, error) {
	var buf bytes.Buffer
	for _, cmd := range s.cmds {
		if err := writeCommand(&buf, cmd); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Serialize writes the script to w prefixed with its length as a varint.
func (s *Script) Serialize(w io.Writer) error {
	raw, err := s.RawSerialize()
	if err != nil {
		return err
	}
	if err := wire.WriteVarInt(w, 0, uint64(len(raw))); err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

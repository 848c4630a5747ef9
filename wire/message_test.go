// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// TestMessage tests the Read/WriteMessage API against all supported messages.
func TestMessage(t *testing.T) {
	pver := ProtocolVersion

	// Create the various types of messages to test.

	// MsgVersion.
	addrYou := &net.TCPAddr{IP: net.ParseIP("192.168.0.1"), Port: 8333}
	you, err := NewNetAddress(addrYou, SFNodeNetwork)
	if err != nil {
		t.Errorf("NewNetAddress: %v", err)
	}
	you.Timestamp = time.Time{} // Version message has zero value timestamp.
	addrMe := &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 8333}
	me, err := NewNetAddress(addrMe, SFNodeNetwork)
	if err != nil {
		t.Errorf("NewNetAddress: %v", err)
	}
	me.Timestamp = time.Time{} // Version message has zero value timestamp.
	msgVersion := NewMsgVersion(me, you, 123123, 0)

	msgVerack := NewMsgVerAck()
	msgPing := NewMsgPing(123123)
	msgPong := NewMsgPong(123123)
	msgGetHeaders := NewMsgGetHeaders()
	msgHeaders := NewMsgHeaders()
	msgInv := NewMsgInv()
	msgGetData := NewMsgGetData()
	msgTx := NewMsgTx(1)
	msgFilterAdd := NewMsgFilterAdd([]byte{0x01})
	msgFilterClear := NewMsgFilterClear()
	msgFilterLoad := NewMsgFilterLoad([]byte{0x01}, 10, 0, BloomUpdateNone)
	bh := NewBlockHeader(1, &msgGetHeaders.HashStop,
		&msgGetHeaders.HashStop, 0x1d00ffff, 1)
	msgMerkleBlock := NewMsgMerkleBlock(bh)

	tests := []struct {
		in     Message    // Value to encode
		out    Message    // Expected decoded value
		pver   uint32     // Protocol version for wire encoding
		btcnet BitcoinNet // Network to use for wire encoding
		bytes  int        // Expected num bytes read/written
	}{
		{msgVersion, msgVersion, pver, MainNet, 124},
		{msgVerack, msgVerack, pver, MainNet, 24},
		{msgPing, msgPing, pver, MainNet, 32},
		{msgPong, msgPong, pver, MainNet, 32},
		{msgGetHeaders, msgGetHeaders, pver, MainNet, 61},
		{msgHeaders, msgHeaders, pver, MainNet, 25},
		{msgInv, msgInv, pver, MainNet, 25},
		{msgGetData, msgGetData, pver, MainNet, 25},
		{msgTx, msgTx, pver, MainNet, 34},
		{msgFilterAdd, msgFilterAdd, pver, MainNet, 26},
		{msgFilterClear, msgFilterClear, pver, MainNet, 24},
		{msgFilterLoad, msgFilterLoad, pver, MainNet, 35},
		{msgMerkleBlock, msgMerkleBlock, pver, MainNet, 110},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		// Encode to wire format.
		var buf bytes.Buffer
		nw, err := WriteMessageN(&buf, test.in, test.pver, test.btcnet)
		if err != nil {
			t.Errorf("WriteMessage #%d error %v", i, err)
			continue
		}

		// Ensure the number of bytes written match the expected value.
		if nw != test.bytes {
			t.Errorf("WriteMessage #%d unexpected num bytes "+
				"written - got %d, want %d", i, nw, test.bytes)
		}

		// Decode from wire format.
		rbuf := bytes.NewReader(buf.Bytes())
		nr, msg, _, err := ReadMessageN(rbuf, test.pver, test.btcnet)
		if err != nil {
			t.Errorf("ReadMessage #%d error %v, msg %v", i, err,
				spew.Sdump(msg))
			continue
		}

		// Ensure the number of bytes read match the expected value.
		if nr != test.bytes {
			t.Errorf("ReadMessage #%d unexpected num bytes read - "+
				"got %d, want %d", i, nr, test.bytes)
		}
	}
}

// TestReadMessageWrongNetwork ensures messages from the wrong network are
// rejected.
func TestReadMessageWrongNetwork(t *testing.T) {
	pver := ProtocolVersion

	var buf bytes.Buffer
	err := WriteMessage(&buf, NewMsgVerAck(), pver, MainNet)
	if err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	_, _, err = ReadMessage(bytes.NewReader(buf.Bytes()), pver, TestNet3)
	if _, ok := err.(*MessageError); !ok {
		t.Errorf("ReadMessage: expected MessageError, got %v", err)
	}
}

// TestReadMessageChecksumMismatch ensures messages with a corrupted payload
// are rejected via the header checksum.
func TestReadMessageChecksumMismatch(t *testing.T) {
	pver := ProtocolVersion

	var buf bytes.Buffer
	err := WriteMessage(&buf, NewMsgPing(123123), pver, MainNet)
	if err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	// Flip a bit in the payload without fixing up the header checksum.
	raw := buf.Bytes()
	raw[MessageHeaderSize] ^= 0x01

	_, _, err = ReadMessage(bytes.NewReader(raw), pver, MainNet)
	if _, ok := err.(*MessageError); !ok {
		t.Errorf("ReadMessage: expected MessageError, got %v", err)
	}
}

// TestReadMessageUnhandledCommand ensures messages with an unknown command
// string are rejected.
func TestReadMessageUnhandledCommand(t *testing.T) {
	pver := ProtocolVersion

	// A well-formed header with a valid checksum over an empty payload,
	// but a bogus command.
	var buf bytes.Buffer
	err := WriteMessage(&buf, NewMsgVerAck(), pver, MainNet)
	if err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	raw := buf.Bytes()
	copy(raw[4:16], append([]byte("bogus"), make([]byte, 7)...))

	_, _, err = ReadMessage(bytes.NewReader(raw), pver, MainNet)
	if _, ok := err.(*MessageError); !ok {
		t.Errorf("ReadMessage: expected MessageError, got %v", err)
	}
}

// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"net"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/spvkit/spvkit/chaincfg"
	"github.com/spvkit/spvkit/wire"
)

// remotePeer drives the far side of an in-memory connection for tests.  Its
// methods fail the test on any protocol error.
type remotePeer struct {
	t    *testing.T
	conn net.Conn
	net  wire.BitcoinNet
}

func (r *remotePeer) read() wire.Message {
	msg, _, err := wire.ReadMessage(r.conn, wire.ProtocolVersion, r.net)
	if err != nil {
		r.t.Errorf("remote read: %v", err)
		return nil
	}
	return msg
}

func (r *remotePeer) write(msg wire.Message) {
	err := wire.WriteMessage(r.conn, msg, wire.ProtocolVersion, r.net)
	if err != nil {
		r.t.Errorf("remote write: %v", err)
	}
}

// handshake performs the remote side of the version exchange and returns the
// version message received from the peer under test.
func (r *remotePeer) handshake(nonce uint64) *wire.MsgVersion {
	msg := r.read()
	verMsg, ok := msg.(*wire.MsgVersion)
	if !ok {
		r.t.Errorf("remote: expected version, got %T", msg)
		return nil
	}

	na := wire.NewNetAddressIPPort(net.IPv4zero, 0, 0)
	r.write(wire.NewMsgVersion(na, na, nonce, 1000))

	if msg := r.read(); msg != nil {
		if _, ok := msg.(*wire.MsgVerAck); !ok {
			r.t.Errorf("remote: expected verack, got %T", msg)
		}
	}
	r.write(wire.NewMsgVerAck())

	return verMsg
}

// newTestPeer returns a peer connected to a remote test driver over an
// in-memory pipe.
func newTestPeer(t *testing.T) (*Peer, *remotePeer) {
	t.Helper()

	local, remote := net.Pipe()
	t.Cleanup(func() {
		local.Close()
		remote.Close()
	})

	p := NewPeer(local, &chaincfg.MainNetParams)
	r := &remotePeer{t: t, conn: remote, net: chaincfg.MainNetParams.Net}
	return p, r
}

// TestHandshake ensures the version handshake completes and negotiates the
// protocol version down to the remote version.
func TestHandshake(t *testing.T) {
	p, r := newTestPeer(t)

	done := make(chan *wire.MsgVersion, 1)
	go func() {
		done <- r.handshake(0x1234)
	}()

	if err := p.Handshake(); err != nil {
		t.Fatalf("Handshake: %v", err)
	}

	verMsg := <-done
	if verMsg == nil {
		t.Fatal("remote did not receive a version message")
	}
	if verMsg.ProtocolVersion != int32(wire.ProtocolVersion) {
		t.Errorf("advertised protocol version %d, want %d",
			verMsg.ProtocolVersion, wire.ProtocolVersion)
	}
	if p.ProtocolVersion() != wire.ProtocolVersion {
		t.Errorf("negotiated version %d, want %d",
			p.ProtocolVersion(), wire.ProtocolVersion)
	}
	if p.RemoteVersion() == nil || p.RemoteVersion().LastBlock != 1000 {
		t.Error("remote version not recorded")
	}

	// A second handshake attempt must fail.
	if err := p.Handshake(); err == nil {
		t.Error("second handshake succeeded")
	}
}

// TestHandshakeVersionNegotiation ensures the peer adopts a lower remote
// protocol version.
func TestHandshakeVersionNegotiation(t *testing.T) {
	p, r := newTestPeer(t)

	go func() {
		msg := r.read()
		if _, ok := msg.(*wire.MsgVersion); !ok {
			r.t.Errorf("remote: expected version, got %T", msg)
			return
		}

		na := wire.NewNetAddressIPPort(net.IPv4zero, 0, 0)
		oldVer := wire.NewMsgVersion(na, na, 0x1234, 0)
		oldVer.ProtocolVersion = 70001
		r.write(oldVer)
		r.read() // verack
		r.write(wire.NewMsgVerAck())
	}()

	if err := p.Handshake(); err != nil {
		t.Fatalf("Handshake: %v", err)
	}
	if p.ProtocolVersion() != 70001 {
		t.Errorf("negotiated version %d, want 70001", p.ProtocolVersion())
	}
}

// TestHandshakeRequired ensures message exchange is rejected before the
// handshake.
func TestHandshakeRequired(t *testing.T) {
	p, _ := newTestPeer(t)

	if err := p.Send(wire.NewMsgPing(1)); err != ErrHandshakeNotDone {
		t.Errorf("Send error %v, want %v", err, ErrHandshakeNotDone)
	}
	if _, err := p.ReadMessage(); err != ErrHandshakeNotDone {
		t.Errorf("ReadMessage error %v, want %v", err, ErrHandshakeNotDone)
	}
	if _, err := p.WaitFor(wire.CmdHeaders); err != ErrHandshakeNotDone {
		t.Errorf("WaitFor error %v, want %v", err, ErrHandshakeNotDone)
	}
}

// TestWaitForRepliesToPing ensures WaitFor answers pings received while
// waiting for the wanted command.
func TestWaitForRepliesToPing(t *testing.T) {
	p, r := newTestPeer(t)

	go func() {
		r.handshake(0x1234)

		// Send a ping before the wanted message and expect the
		// matching pong back.
		r.write(wire.NewMsgPing(0xdead))
		msg := r.read()
		pong, ok := msg.(*wire.MsgPong)
		if !ok {
			r.t.Errorf("remote: expected pong, got %T", msg)
			return
		}
		if pong.Nonce != 0xdead {
			r.t.Errorf("pong nonce %x, want %x", pong.Nonce,
				uint64(0xdead))
		}

		// An unsolicited inv must be discarded by the waiting peer.
		r.write(wire.NewMsgInv())
		r.write(wire.NewMsgHeaders())
	}()

	if err := p.Handshake(); err != nil {
		t.Fatalf("Handshake: %v", err)
	}
	msg, err := p.WaitFor(wire.CmdHeaders)
	if err != nil {
		t.Fatalf("WaitFor: %v", err)
	}
	if _, ok := msg.(*wire.MsgHeaders); !ok {
		t.Fatalf("WaitFor returned %T, want *wire.MsgHeaders", msg)
	}
}

// TestGetHeaders ensures the getheaders request round trip works and carries
// the block locator.
func TestGetHeaders(t *testing.T) {
	p, r := newTestPeer(t)

	var locatorHash chainhash.Hash
	locatorHash[0] = 0x2b
	var stopHash chainhash.Hash
	stopHash[0] = 0x7c

	headers := wire.NewMsgHeaders()
	header := wire.BlockHeader{
		Version:   1,
		Bits:      0x1d00ffff,
		Timestamp: time.Unix(0x495fab29, 0),
	}
	if err := headers.AddBlockHeader(&header); err != nil {
		t.Fatalf("AddBlockHeader: %v", err)
	}

	go func() {
		r.handshake(0x1234)

		msg := r.read()
		getHeaders, ok := msg.(*wire.MsgGetHeaders)
		if !ok {
			r.t.Errorf("remote: expected getheaders, got %T", msg)
			return
		}
		if len(getHeaders.BlockLocatorHashes) != 1 ||
			!getHeaders.BlockLocatorHashes[0].IsEqual(&locatorHash) {

			r.t.Errorf("unexpected locator %v",
				getHeaders.BlockLocatorHashes)
		}
		if !getHeaders.HashStop.IsEqual(&stopHash) {
			r.t.Errorf("hash stop %v, want %v", getHeaders.HashStop,
				stopHash)
		}

		r.write(headers)
	}()

	if err := p.Handshake(); err != nil {
		t.Fatalf("Handshake: %v", err)
	}
	resp, err := p.GetHeaders([]*chainhash.Hash{&locatorHash}, &stopHash)
	if err != nil {
		t.Fatalf("GetHeaders: %v", err)
	}
	if len(resp.Headers) != 1 {
		t.Fatalf("got %d headers, want 1", len(resp.Headers))
	}
	if resp.Headers[0].BlockHash() != header.BlockHash() {
		t.Errorf("header hash mismatch")
	}
}

// TestHandshakeSelfConnection ensures a version message echoing our own nonce
// is rejected.
func TestHandshakeSelfConnection(t *testing.T) {
	p, r := newTestPeer(t)

	go func() {
		msg := r.read()
		verMsg, ok := msg.(*wire.MsgVersion)
		if !ok {
			r.t.Errorf("remote: expected version, got %T", msg)
			return
		}

		// Echo the peer's own nonce back.
		na := wire.NewNetAddressIPPort(net.IPv4zero, 0, 0)
		r.write(wire.NewMsgVersion(na, na, verMsg.Nonce, 0))
	}()

	if err := p.Handshake(); err != ErrSelfConnection {
		t.Fatalf("Handshake error %v, want %v", err, ErrSelfConnection)
	}
}

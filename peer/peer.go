// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/spvkit/spvkit/chaincfg"
	"github.com/spvkit/spvkit/wire"
)

const (
	// defaultDialTimeout is the connection timeout used by Dial.
	defaultDialTimeout = 30 * time.Second

	// defaultHandshakeTimeout is the read deadline applied while waiting
	// for the remote version and verack during the handshake.
	defaultHandshakeTimeout = 30 * time.Second
)

var (
	// ErrHandshakeNotDone is returned when a message exchange is
	// attempted before the version handshake has completed.
	ErrHandshakeNotDone = errors.New("version handshake not complete")

	// ErrSelfConnection is returned when the remote version message
	// carries the nonce this peer sent, meaning the connection loops back
	// to ourselves.
	ErrSelfConnection = errors.New("connected to self")
)

// Peer is a minimal, synchronous outbound bitcoin peer.  It dials a single
// remote node, performs the version handshake, and then exchanges messages
// over the connection one at a time.  It is intended for simple SPV flows
// such as fetching headers and merkle blocks and makes no attempt at
// connection retry or parallel request scheduling.
//
// Peer is not safe for concurrent access.
type Peer struct {
	conn   net.Conn
	params *chaincfg.Params

	// Protocol version negotiated during the handshake.  Until then the
	// package-wide maximum is used.
	pver       uint32
	verAckSent bool
	verAckRecv bool

	// Remote version message received during the handshake.
	remoteVersion *wire.MsgVersion
}

// Dial connects to the passed address using TCP and returns a peer ready to
// perform the version handshake.  When the address has no port, the default
// port for the network is appended.
func Dial(addr string, params *chaincfg.Params) (*Peer, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, params.DefaultPort)
	}

	conn, err := net.DialTimeout("tcp", addr, defaultDialTimeout)
	if err != nil {
		return nil, err
	}
	log.Infof("Connected to %s", conn.RemoteAddr())

	return NewPeer(conn, params), nil
}

// NewPeer returns a peer for an already established connection.  The caller
// remains responsible for the connection until Close is called.
func NewPeer(conn net.Conn, params *chaincfg.Params) *Peer {
	return &Peer{
		conn:   conn,
		params: params,
		pver:   wire.ProtocolVersion,
	}
}

// Addr returns the address of the remote side of the connection.
func (p *Peer) Addr() string {
	return p.conn.RemoteAddr().String()
}

// ProtocolVersion returns the negotiated protocol version.  Before the
// handshake completes this is the maximum version the package supports.
func (p *Peer) ProtocolVersion() uint32 {
	return p.pver
}

// RemoteVersion returns the version message received from the remote peer
// during the handshake, or nil before the handshake.
func (p *Peer) RemoteVersion() *wire.MsgVersion {
	return p.remoteVersion
}

// Close shuts down the underlying connection.
func (p *Peer) Close() error {
	return p.conn.Close()
}

// SetDeadline sets the read and write deadlines on the underlying
// connection.  A zero value disables the deadline.
func (p *Peer) SetDeadline(t time.Time) error {
	return p.conn.SetDeadline(t)
}

// randomNonce returns a cryptographically random nonce for the version
// message.
func randomNonce() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// localVersionMsg builds the version message to advertise to the remote
// peer.
func (p *Peer) localVersionMsg(nonce uint64, lastBlock int32) *wire.MsgVersion {
	// Non-TCP connections (such as in-memory pipes) have no usable
	// address, so fall back to the zero address the protocol reserves for
	// unknown peers.
	theirNA, err := wire.NewNetAddress(p.conn.RemoteAddr(), 0)
	if err != nil {
		theirNA = wire.NewNetAddressIPPort(net.IPv4zero, 0, 0)
	}
	ourNA := wire.NewNetAddressIPPort(net.IPv4zero, 0, 0)

	return wire.NewMsgVersion(ourNA, theirNA, nonce, lastBlock)
}

// Handshake performs the version/verack exchange with the remote peer and
// negotiates the protocol version used for the rest of the connection.  It
// must be called exactly once, before any other message exchange.
func (p *Peer) Handshake() error {
	if p.verAckRecv {
		return errors.New("handshake already performed")
	}

	nonce, err := randomNonce()
	if err != nil {
		return err
	}
	localVer := p.localVersionMsg(nonce, 0)
	if err := p.writeMessage(localVer); err != nil {
		return err
	}

	if err := p.conn.SetReadDeadline(time.Now().Add(defaultHandshakeTimeout)); err != nil {
		return err
	}
	defer p.conn.SetReadDeadline(time.Time{})

	// The remote version must be the first message received.
	msg, err := p.readMessage()
	if err != nil {
		return err
	}
	remoteVer, ok := msg.(*wire.MsgVersion)
	if !ok {
		return fmt.Errorf("expected version message, got %s",
			msg.Command())
	}
	if remoteVer.Nonce == nonce {
		return ErrSelfConnection
	}
	p.remoteVersion = remoteVer

	// Negotiate down to the lesser of the two versions.
	if uint32(remoteVer.ProtocolVersion) < p.pver {
		p.pver = uint32(remoteVer.ProtocolVersion)
	}
	log.Debugf("Negotiated protocol version %d for peer %s",
		p.pver, p.Addr())

	if err := p.writeMessage(wire.NewMsgVerAck()); err != nil {
		return err
	}
	p.verAckSent = true

	// The remote verack must follow before the handshake is complete.
	msg, err = p.readMessage()
	if err != nil {
		return err
	}
	if _, ok := msg.(*wire.MsgVerAck); !ok {
		return fmt.Errorf("expected verack message, got %s",
			msg.Command())
	}
	p.verAckRecv = true

	log.Infof("Completed handshake with %s (%s, last block %d)",
		p.Addr(), remoteVer.UserAgent, remoteVer.LastBlock)
	return nil
}

// writeMessage sends a message over the connection using the current
// protocol version.
func (p *Peer) writeMessage(msg wire.Message) error {
	log.Debugf("Sending %s to %s", msg.Command(), p.Addr())
	return wire.WriteMessage(p.conn, msg, p.pver, p.params.Net)
}

// readMessage reads the next message from the connection using the current
// protocol version.
func (p *Peer) readMessage() (wire.Message, error) {
	msg, _, err := wire.ReadMessage(p.conn, p.pver, p.params.Net)
	if err != nil {
		return nil, err
	}
	log.Debugf("Received %s from %s", msg.Command(), p.Addr())
	return msg, nil
}

// Send sends a message to the remote peer.  The handshake must have
// completed.
func (p *Peer) Send(msg wire.Message) error {
	if !p.verAckRecv {
		return ErrHandshakeNotDone
	}
	return p.writeMessage(msg)
}

// ReadMessage reads the next message from the remote peer.  The handshake
// must have completed.
func (p *Peer) ReadMessage() (wire.Message, error) {
	if !p.verAckRecv {
		return nil, ErrHandshakeNotDone
	}
	return p.readMessage()
}

// WaitFor reads messages until one with a command matching one of the wanted
// commands arrives and returns it.  Pings received while waiting are answered
// with the matching pong.  All other messages are discarded.
func (p *Peer) WaitFor(commands ...string) (wire.Message, error) {
	if !p.verAckRecv {
		return nil, ErrHandshakeNotDone
	}

	wanted := make(map[string]struct{}, len(commands))
	for _, command := range commands {
		wanted[command] = struct{}{}
	}

	for {
		msg, err := p.readMessage()
		if err != nil {
			return nil, err
		}
		if _, ok := wanted[msg.Command()]; ok {
			return msg, nil
		}

		switch m := msg.(type) {
		case *wire.MsgPing:
			if err := p.writeMessage(wire.NewMsgPong(m.Nonce)); err != nil {
				return nil, err
			}
		default:
			log.Debugf("Discarding unsolicited %s from %s",
				msg.Command(), p.Addr())
		}
	}
}

// GetHeaders requests block headers starting after the last known hash in
// the passed block locator and returns the resulting headers message.  A nil
// hashStop requests as many headers as will fit in a single response.
func (p *Peer) GetHeaders(locator []*chainhash.Hash, hashStop *chainhash.Hash) (*wire.MsgHeaders, error) {
	msgGetHeaders := wire.NewMsgGetHeaders()
	msgGetHeaders.ProtocolVersion = p.pver
	for _, hash := range locator {
		if err := msgGetHeaders.AddBlockLocatorHash(hash); err != nil {
			return nil, err
		}
	}
	if hashStop != nil {
		msgGetHeaders.HashStop = *hashStop
	}

	if err := p.Send(msgGetHeaders); err != nil {
		return nil, err
	}
	msg, err := p.WaitFor(wire.CmdHeaders)
	if err != nil {
		return nil, err
	}
	return msg.(*wire.MsgHeaders), nil
}

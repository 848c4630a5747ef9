// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the bitcoin wire protocol.

This package handles the byte-exact encoding and decoding of the protocol
primitives a light client needs: transactions, block headers, and the subset
of peer-to-peer messages required to handshake with a node, request headers,
and receive bloom-filtered blocks.

# Messages

Every message implements the Message interface, which provides encoding and
decoding against a protocol version along with the command string and maximum
payload size used by the message framing.  The ReadMessage and WriteMessage
functions handle the framing itself: a network magic, a fixed-width command,
the payload length, and a double-SHA256 checksum over the payload.

# Errors

Errors returned by decoding are either of type MessageError, indicating a
violation of the protocol encoding rules, or an underlying error from the
reader or writer.
*/
package wire

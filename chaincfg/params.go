// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/spvkit/spvkit/wire"
)

// Params defines a Bitcoin network by its parameters.  These parameters may be
// used by applications to differentiate networks as well as addresses and keys
// for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net wire.BitcoinNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// Address encoding magics.
	PubKeyHashAddrID byte // First byte of a P2PKH address
	ScriptHashAddrID byte // First byte of a P2SH address
	PrivateKeyID     byte // First byte of a WIF private key

	// Human-readable part for Bech32 encoded segwit addresses, as defined
	// in BIP 173.
	Bech32HRPSegwit string
}

// MainNetParams defines the network parameters for the main Bitcoin network.
var MainNetParams = Params{
	Name:         "mainnet",
	Net:          wire.MainNet,
	DefaultPort:  "8333",
	PowLimitBits: 0x1d00ffff,

	PubKeyHashAddrID: 0x00,
	ScriptHashAddrID: 0x05,
	PrivateKeyID:     0x80,

	Bech32HRPSegwit: "bc",
}

// TestNet3Params defines the network parameters for the test Bitcoin network
// (version 3).
var TestNet3Params = Params{
	Name:         "testnet3",
	Net:          wire.TestNet3,
	DefaultPort:  "18333",
	PowLimitBits: 0x1d00ffff,

	PubKeyHashAddrID: 0x6f,
	ScriptHashAddrID: 0xc4,
	PrivateKeyID:     0xef,

	Bech32HRPSegwit: "tb",
}

// RegressionNetParams defines the network parameters for the regression test
// Bitcoin network.
var RegressionNetParams = Params{
	Name:         "regtest",
	Net:          wire.TestNet,
	DefaultPort:  "18444",
	PowLimitBits: 0x207fffff,

	PubKeyHashAddrID: 0x6f,
	ScriptHashAddrID: 0xc4,
	PrivateKeyID:     0xef,

	Bech32HRPSegwit: "bcrt",
}

// IsBech32SegwitPrefix returns whether the prefix is a known prefix for segwit
// addresses on any default network.  This is used when decoding an address
// string into a specific address type.
func IsBech32SegwitPrefix(prefix string) bool {
	switch prefix {
	case "bc1", "tb1", "bcrt1":
		return true
	}
	return false
}

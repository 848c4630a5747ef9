// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/spvkit/spvkit/address"
	"github.com/spvkit/spvkit/chaincfg"
	"github.com/spvkit/spvkit/txscript"
)

func hexToBytes(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid hex in source file: %q", s)
	}
	return b
}

// TestAddresses ensures all supported address types encode and decode to the
// expected string and script forms on the expected networks.
func TestAddresses(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		encoded string
		valid   bool
		hash    string
		net     *chaincfg.Params
		make    func(t *testing.T) (address.Address, error)
	}{
		{
			name:    "mainnet p2pkh",
			addr:    "1MirQ9bwyQcGVJPwKUgapu5ouK2E2Ey4gX",
			encoded: "1MirQ9bwyQcGVJPwKUgapu5ouK2E2Ey4gX",
			valid:   true,
			hash:    "e34cce70c86373273efcc54ce7d2a491bb4a0e84",
			net:     &chaincfg.MainNetParams,
			make: func(t *testing.T) (address.Address, error) {
				pkHash := hexToBytes(t,
					"e34cce70c86373273efcc54ce7d2a491bb4a0e84")
				return address.NewAddressPubKeyHash(pkHash,
					&chaincfg.MainNetParams)
			},
		},
		{
			name:    "mainnet p2pkh 2",
			addr:    "12MzCDwodF9G1e7jfwLXfR164RNtx4BRVG",
			encoded: "12MzCDwodF9G1e7jfwLXfR164RNtx4BRVG",
			valid:   true,
			hash:    "0ef030107fd26e0b6bf40512bca2ceb1dd80adaa",
			net:     &chaincfg.MainNetParams,
			make: func(t *testing.T) (address.Address, error) {
				pkHash := hexToBytes(t,
					"0ef030107fd26e0b6bf40512bca2ceb1dd80adaa")
				return address.NewAddressPubKeyHash(pkHash,
					&chaincfg.MainNetParams)
			},
		},
		{
			name:    "testnet p2pkh",
			addr:    "mrX9vMRYLfVy1BnZbc5gZjuyaqH3ZW2ZHz",
			encoded: "mrX9vMRYLfVy1BnZbc5gZjuyaqH3ZW2ZHz",
			valid:   true,
			hash:    "78b316a08647d5b77283e512d3603f1f1c8de68f",
			net:     &chaincfg.TestNet3Params,
			make: func(t *testing.T) (address.Address, error) {
				pkHash := hexToBytes(t,
					"78b316a08647d5b77283e512d3603f1f1c8de68f")
				return address.NewAddressPubKeyHash(pkHash,
					&chaincfg.TestNet3Params)
			},
		},
		{
			name:    "mainnet p2sh",
			addr:    "3QJmV3qfvL9SuYo34YihAf3sRCW3qSinyC",
			encoded: "3QJmV3qfvL9SuYo34YihAf3sRCW3qSinyC",
			valid:   true,
			hash:    "f815b036d9bbbce5e9f2a00abd1bf3dc91e95510",
			net:     &chaincfg.MainNetParams,
			make: func(t *testing.T) (address.Address, error) {
				scriptHash := hexToBytes(t,
					"f815b036d9bbbce5e9f2a00abd1bf3dc91e95510")
				return address.NewAddressScriptHashFromHash(
					scriptHash, &chaincfg.MainNetParams)
			},
		},
		{
			name:    "segwit mainnet p2wpkh v0",
			addr:    "BC1QW508D6QEJXTDG4Y5R3ZARVARY0C5XW7KV8F3T4",
			encoded: "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
			valid:   true,
			hash:    "751e76e8199196d454941c45d1b3a323f1433bd6",
			net:     &chaincfg.MainNetParams,
			make: func(t *testing.T) (address.Address, error) {
				pkHash := hexToBytes(t,
					"751e76e8199196d454941c45d1b3a323f1433bd6")
				return address.NewAddressWitnessPubKeyHash(
					pkHash, &chaincfg.MainNetParams)
			},
		},
		{
			name: "segwit mainnet p2wsh v0",
			addr: "bc1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcc" +
				"cefvpysxf3qccfmv3",
			encoded: "bc1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcc" +
				"cefvpysxf3qccfmv3",
			valid: true,
			hash: "1863143c14c5166804bd19203356da136c985678cd4d27a1" +
				"b8c6329604903262",
			net: &chaincfg.MainNetParams,
			make: func(t *testing.T) (address.Address, error) {
				scriptHash := hexToBytes(t,
					"1863143c14c5166804bd19203356da136c98"+
						"5678cd4d27a1b8c6329604903262")
				return address.NewAddressWitnessScriptHash(
					scriptHash, &chaincfg.MainNetParams)
			},
		},
		{
			name:    "segwit testnet p2wpkh v0",
			addr:    "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx",
			encoded: "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx",
			valid:   true,
			hash:    "751e76e8199196d454941c45d1b3a323f1433bd6",
			net:     &chaincfg.TestNet3Params,
			make: func(t *testing.T) (address.Address, error) {
				pkHash := hexToBytes(t,
					"751e76e8199196d454941c45d1b3a323f1433bd6")
				return address.NewAddressWitnessPubKeyHash(
					pkHash, &chaincfg.TestNet3Params)
			},
		},
		{
			name: "segwit testnet p2wsh v0",
			addr: "tb1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcc" +
				"cefvpysxf3q0sl5k7",
			encoded: "tb1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcc" +
				"cefvpysxf3q0sl5k7",
			valid: true,
			hash: "1863143c14c5166804bd19203356da136c985678cd4d27a1" +
				"b8c6329604903262",
			net: &chaincfg.TestNet3Params,
			make: func(t *testing.T) (address.Address, error) {
				scriptHash := hexToBytes(t,
					"1863143c14c5166804bd19203356da136c98"+
						"5678cd4d27a1b8c6329604903262")
				return address.NewAddressWitnessScriptHash(
					scriptHash, &chaincfg.TestNet3Params)
			},
		},

		// Negative tests.
		{
			name:  "p2pkh bad checksum",
			addr:  "1MirQ9bwyQcGVJPwKUgapu5ouK2E2Ey4gY",
			valid: false,
			net:   &chaincfg.MainNetParams,
		},
		{
			name:  "p2pkh wrong network",
			addr:  "mrX9vMRYLfVy1BnZbc5gZjuyaqH3ZW2ZHz",
			valid: false,
			net:   &chaincfg.MainNetParams,
		},
		{
			name:  "segwit wrong hrp for network",
			addr:  "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx",
			valid: false,
			net:   &chaincfg.MainNetParams,
		},
		{
			name: "segwit invalid checksum",
			addr: "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5",
			valid: false,
			net:   &chaincfg.MainNetParams,
		},
	}

	for _, test := range tests {
		decoded, err := address.DecodeAddress(test.addr, test.net)
		if (err == nil) != test.valid {
			t.Errorf("%s: decode error mismatch - got %v, valid %v",
				test.name, err, test.valid)
			continue
		}
		if !test.valid {
			continue
		}

		if encoded := decoded.EncodeAddress(); encoded != test.encoded {
			t.Errorf("%s: encoding mismatch - got %s, want %s",
				test.name, encoded, test.encoded)
			continue
		}
		wantHash := hexToBytes(t, test.hash)
		if !bytes.Equal(decoded.ScriptAddress(), wantHash) {
			t.Errorf("%s: script address mismatch - got %x, want %s",
				test.name, decoded.ScriptAddress(), test.hash)
			continue
		}
		if !decoded.IsForNet(test.net) {
			t.Errorf("%s: IsForNet returned false for %s",
				test.name, test.net.Name)
			continue
		}
		if decoded.String() != decoded.EncodeAddress() {
			t.Errorf("%s: String and EncodeAddress differ", test.name)
			continue
		}

		// Creating the address directly must yield the same encoding.
		made, err := test.make(t)
		if err != nil {
			t.Errorf("%s: constructor error: %v", test.name, err)
			continue
		}
		if made.EncodeAddress() != test.encoded {
			t.Errorf("%s: constructed encoding mismatch - got %s, "+
				"want %s", test.name, made.EncodeAddress(),
				test.encoded)
		}
	}
}

// TestNewAddressScriptHash ensures hashing a redeem script produces the same
// address as constructing it from the known script hash.
func TestNewAddressScriptHash(t *testing.T) {
	// 1-of-1 multisig redeem script built from an arbitrary compressed
	// pubkey.
	pubKey := hexToBytes(t,
		"0349fc4e631e3624a545de3f89f5d8684c7b8138bd94bdd531d2e213bf016b278a")
	redeem, err := txscript.MultiSigScript([][]byte{pubKey}, 1)
	if err != nil {
		t.Fatalf("MultiSigScript: %v", err)
	}
	raw, err := redeem.RawSerialize()
	if err != nil {
		t.Fatalf("RawSerialize: %v", err)
	}

	fromScript, err := address.NewAddressScriptHash(raw,
		&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressScriptHash: %v", err)
	}

	fromHash, err := address.NewAddressScriptHashFromHash(
		fromScript.ScriptAddress(), &chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressScriptHashFromHash: %v", err)
	}
	if fromScript.EncodeAddress() != fromHash.EncodeAddress() {
		t.Fatalf("address mismatch: %s != %s",
			fromScript.EncodeAddress(), fromHash.EncodeAddress())
	}

	// Decoding the encoded form must round trip.
	decoded, err := address.DecodeAddress(fromScript.EncodeAddress(),
		&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("DecodeAddress: %v", err)
	}
	if _, ok := decoded.(*address.AddressScriptHash); !ok {
		t.Fatalf("decoded address has type %T, want "+
			"*address.AddressScriptHash", decoded)
	}
}

// TestAddressSizeErrors ensures constructors reject hashes and programs of
// the wrong size.
func TestAddressSizeErrors(t *testing.T) {
	short := bytes.Repeat([]byte{0x01}, 19)

	if _, err := address.NewAddressPubKeyHash(short,
		&chaincfg.MainNetParams); err == nil {
		t.Error("NewAddressPubKeyHash accepted 19-byte hash")
	}
	if _, err := address.NewAddressScriptHashFromHash(short,
		&chaincfg.MainNetParams); err == nil {
		t.Error("NewAddressScriptHashFromHash accepted 19-byte hash")
	}
	if _, err := address.NewAddressWitnessPubKeyHash(short,
		&chaincfg.MainNetParams); err == nil {
		t.Error("NewAddressWitnessPubKeyHash accepted 19-byte program")
	}
	if _, err := address.NewAddressWitnessScriptHash(
		bytes.Repeat([]byte{0x01}, 31),
		&chaincfg.MainNetParams); err == nil {
		t.Error("NewAddressWitnessScriptHash accepted 31-byte program")
	}
}

// TestPayToAddrScript ensures the correct script templates are produced for
// each supported address type.
func TestPayToAddrScript(t *testing.T) {
	pkHash := hexToBytes(t, "e34cce70c86373273efcc54ce7d2a491bb4a0e84")
	scriptHash := hexToBytes(t, "f815b036d9bbbce5e9f2a00abd1bf3dc91e95510")
	witnessScript := hexToBytes(t,
		"1863143c14c5166804bd19203356da136c985678cd4d27a1b8c6329604903262")

	p2pkh, err := address.NewAddressPubKeyHash(pkHash,
		&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressPubKeyHash: %v", err)
	}
	p2sh, err := address.NewAddressScriptHashFromHash(scriptHash,
		&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressScriptHashFromHash: %v", err)
	}
	p2wpkh, err := address.NewAddressWitnessPubKeyHash(pkHash,
		&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressWitnessPubKeyHash: %v", err)
	}
	p2wsh, err := address.NewAddressWitnessScriptHash(witnessScript,
		&chaincfg.MainNetParams)
	if err != nil {
		t.Fatalf("NewAddressWitnessScriptHash: %v", err)
	}

	tests := []struct {
		name string
		addr address.Address
		want string
	}{
		{
			name: "p2pkh",
			addr: p2pkh,
			want: "76a914e34cce70c86373273efcc54ce7d2a491bb4a0e8488ac",
		},
		{
			name: "p2sh",
			addr: p2sh,
			want: "a914f815b036d9bbbce5e9f2a00abd1bf3dc91e9551087",
		},
		{
			name: "p2wpkh",
			addr: p2wpkh,
			want: "0014e34cce70c86373273efcc54ce7d2a491bb4a0e84",
		},
		{
			name: "p2wsh",
			addr: p2wsh,
			want: "00201863143c14c5166804bd19203356da136c985678cd" +
				"4d27a1b8c6329604903262",
		},
	}

	for _, test := range tests {
		script, err := address.PayToAddrScript(test.addr)
		if err != nil {
			t.Errorf("%s: PayToAddrScript: %v", test.name, err)
			continue
		}
		raw, err := script.RawSerialize()
		if err != nil {
			t.Errorf("%s: RawSerialize: %v", test.name, err)
			continue
		}
		if !bytes.Equal(raw, hexToBytes(t, test.want)) {
			t.Errorf("%s: script mismatch - got %x, want %s",
				test.name, raw, test.want)
		}
	}

	if _, err := address.PayToAddrScript(nil); err == nil {
		t.Error("PayToAddrScript accepted nil address")
	}
}

// TestExtractAddress ensures standard scripts map back to the address that
// produced them.
func TestExtractAddress(t *testing.T) {
	addrs := []string{
		"1MirQ9bwyQcGVJPwKUgapu5ouK2E2Ey4gX",
		"3QJmV3qfvL9SuYo34YihAf3sRCW3qSinyC",
		"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4",
		"bc1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3qccfmv3",
	}

	for _, want := range addrs {
		decoded, err := address.DecodeAddress(want,
			&chaincfg.MainNetParams)
		if err != nil {
			t.Fatalf("DecodeAddress(%s): %v", want, err)
		}
		script, err := address.PayToAddrScript(decoded)
		if err != nil {
			t.Fatalf("PayToAddrScript(%s): %v", want, err)
		}
		raw, err := script.RawSerialize()
		if err != nil {
			t.Fatalf("RawSerialize(%s): %v", want, err)
		}

		extracted, err := address.ExtractAddress(raw,
			&chaincfg.MainNetParams)
		if err != nil {
			t.Fatalf("ExtractAddress(%s): %v", want, err)
		}
		if got := extracted.EncodeAddress(); got != want {
			t.Errorf("ExtractAddress(%s) = %s", want, got)
		}
	}

	// Non-standard scripts yield no address.
	if _, err := address.ExtractAddress([]byte{txscript.OP_TRUE},
		&chaincfg.MainNetParams); err == nil {
		t.Error("ExtractAddress accepted non-standard script")
	}
}

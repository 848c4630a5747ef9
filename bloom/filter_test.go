// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/spvkit/spvkit/bloom"
	"github.com/spvkit/spvkit/txscript"
	"github.com/spvkit/spvkit/wire"
)

// TestFilterLarge ensures a maximum sized filter can be created.
func TestFilterLarge(t *testing.T) {
	f := bloom.NewFilter(100000000, 0, 0.01, wire.BloomUpdateNone)
	if len(f.MsgFilterLoad().Filter) > wire.MaxFilterLoadFilterSize {
		t.Errorf("TestFilterLarge test failed: %d > %d",
			len(f.MsgFilterLoad().Filter), wire.MaxFilterLoadFilterSize)
	}
}

// TestFilterLoad ensures loading and unloading of a filter pass.
func TestFilterLoad(t *testing.T) {
	merkle := wire.MsgFilterLoad{}

	f := bloom.LoadFilter(&merkle)
	if !f.IsLoaded() {
		t.Errorf("TestFilterLoad IsLoaded test failed: want %v got %v",
			true, !f.IsLoaded())
		return
	}
	f.Unload()
	if f.IsLoaded() {
		t.Errorf("TestFilterLoad IsLoaded test failed: want %v got %v",
			f.IsLoaded(), false)
		return
	}
}

// TestFilterInsert ensures inserting data into the filter causes that data
// to be matched and the resulting serialized MsgFilterLoad is the expected
// value.
func TestFilterInsert(t *testing.T) {
	var tests = []struct {
		hex    string
		insert bool
	}{
		{"99108ad8ed9bb6274d3980bab5a85c048f0950c8", true},
		{"19108ad8ed9bb6274d3980bab5a85c048f0950c8", false},
		{"b5a2c786d9ef4658287ced5914b37a1b4aa32eee", true},
		{"b9300670b4c5366e95b2699e8b18bc75e5f729c5", true},
	}

	f := bloom.NewFilter(3, 0, 0.01, wire.BloomUpdateAll)

	for i, test := range tests {
		data, err := hex.DecodeString(test.hex)
		if err != nil {
			t.Errorf("TestFilterInsert DecodeString failed: %v\n", err)
			return
		}
		if test.insert {
			f.Add(data)
		}

		result := f.Matches(data)
		if test.insert != result {
			t.Errorf("TestFilterInsert Matches test #%d failure: got %v want %v\n",
				i, result, test.insert)
			return
		}
	}

	want, err := hex.DecodeString("03614e9b050000000000000001")
	if err != nil {
		t.Errorf("TestFilterInsert DecodeString failed: %v\n", err)
		return
	}

	got := bytes.NewBuffer(nil)
	err = f.MsgFilterLoad().BtcEncode(got, wire.ProtocolVersion)
	if err != nil {
		t.Errorf("TestFilterInsert BtcEncode failed: %v\n", err)
		return
	}

	if !bytes.Equal(got.Bytes(), want) {
		t.Errorf("TestFilterInsert failure: got %v want %v\n",
			got.Bytes(), want)
		return
	}
}

// TestFilterInsertWithTweak ensures inserting data into the filter with a
// tweak causes that data to be matched and the resulting serialized
// MsgFilterLoad is the expected value.
func TestFilterInsertWithTweak(t *testing.T) {
	var tests = []struct {
		hex    string
		insert bool
	}{
		{"99108ad8ed9bb6274d3980bab5a85c048f0950c8", true},
		{"19108ad8ed9bb6274d3980bab5a85c048f0950c8", false},
		{"b5a2c786d9ef4658287ced5914b37a1b4aa32eee", true},
		{"b9300670b4c5366e95b2699e8b18bc75e5f729c5", true},
	}

	f := bloom.NewFilter(3, 2147483649, 0.01, wire.BloomUpdateAll)

	for i, test := range tests {
		data, err := hex.DecodeString(test.hex)
		if err != nil {
			t.Errorf("TestFilterInsertWithTweak DecodeString failed: %v\n", err)
			return
		}
		if test.insert {
			f.Add(data)
		}

		result := f.Matches(data)
		if test.insert != result {
			t.Errorf("TestFilterInsertWithTweak Matches test #%d failure: got %v want %v\n",
				i, result, test.insert)
			return
		}
	}

	want, err := hex.DecodeString("03ce4299050000000100008001")
	if err != nil {
		t.Errorf("TestFilterInsertWithTweak DecodeString failed: %v\n", err)
		return
	}
	got := bytes.NewBuffer(nil)
	err = f.MsgFilterLoad().BtcEncode(got, wire.ProtocolVersion)
	if err != nil {
		t.Errorf("TestFilterInsertWithTweak BtcEncode failed: %v\n", err)
		return
	}

	if !bytes.Equal(got.Bytes(), want) {
		t.Errorf("TestFilterInsertWithTweak failure: got %v want %v\n",
			got.Bytes(), want)
		return
	}
}

// spendTxHex is a mainnet transaction spending a single pay-to-pubkey-hash
// output to two pay-to-pubkey-hash outputs.
const spendTxHex = "0100000001813f79011acb80925dfe69b3def355fe914bd1d96a3f5f71" +
	"bf8303c6a989c7d1000000006b483045022100ed81ff192e75a3fd2304004dcadb746f" +
	"a5e24c5031ccfcf21320b0277457c98f02207a986d955c6e0cb35d446a89d3f56100f4" +
	"d7f67801c31967743a9c8e10615bed01210349fc4e631e3624a545de3f89f5d8684c7b" +
	"8138bd94bdd531d2e213bf016b278afeffffff02a135ef01000000001976a914bc3b65" +
	"4dca7e56b04dca18f2566cdaf02e8d9ada88ac99c39800000000001976a9141c4bc762" +
	"dd5423e332166702cb75f40df79fea1288ac19430600"

// decodeSpendTx deserializes the test transaction.
func decodeSpendTx(t *testing.T) *wire.MsgTx {
	t.Helper()

	raw, err := hex.DecodeString(spendTxHex)
	if err != nil {
		t.Fatalf("DecodeString failed: %v", err)
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	return tx
}

// TestFilterBloomMatch ensures MatchTxAndUpdate matches transactions by hash,
// output script data, spent outpoint, and signature script data.
func TestFilterBloomMatch(t *testing.T) {
	tx := decodeSpendTx(t)
	txHash := tx.TxHash()

	// The transaction hash matches.
	f := bloom.NewFilter(10, 0, 0.000001, wire.BloomUpdateAll)
	f.AddHash(&txHash)
	if !f.MatchTxAndUpdate(tx) {
		t.Errorf("TestFilterBloomMatch didn't match tx hash %v", txHash)
	}

	// The pubkey hash of the first output matches and, since the filter
	// was created with the update all flag, the matched outpoint is added
	// to the filter.
	f = bloom.NewFilter(10, 0, 0.000001, wire.BloomUpdateAll)
	inputStr := "bc3b654dca7e56b04dca18f2566cdaf02e8d9ada"
	pkhBytes, err := hex.DecodeString(inputStr)
	if err != nil {
		t.Fatalf("TestFilterBloomMatch DecodeString failed: %v", err)
	}
	f.Add(pkhBytes)
	if !f.MatchTxAndUpdate(tx) {
		t.Errorf("TestFilterBloomMatch didn't match output address %s",
			inputStr)
	}
	matchedOut := wire.NewOutPoint(&txHash, 0)
	if !f.MatchesOutPoint(matchedOut) {
		t.Errorf("TestFilterBloomMatch didn't add matched outpoint %v",
			matchedOut)
	}
	unmatchedOut := wire.NewOutPoint(&txHash, 1)
	if f.MatchesOutPoint(unmatchedOut) {
		t.Errorf("TestFilterBloomMatch added unmatched outpoint %v",
			unmatchedOut)
	}

	// The signature pushed by the input signature script matches.
	f = bloom.NewFilter(10, 0, 0.000001, wire.BloomUpdateAll)
	inputStr = "3045022100ed81ff192e75a3fd2304004dcadb746fa5e24c5031ccfcf2" +
		"1320b0277457c98f02207a986d955c6e0cb35d446a89d3f56100f4d7f678" +
		"01c31967743a9c8e10615bed01"
	sigBytes, err := hex.DecodeString(inputStr)
	if err != nil {
		t.Fatalf("TestFilterBloomMatch DecodeString failed: %v", err)
	}
	f.Add(sigBytes)
	if !f.MatchTxAndUpdate(tx) {
		t.Errorf("TestFilterBloomMatch didn't match input signature %s",
			inputStr)
	}

	// The pubkey pushed by the input signature script matches.
	f = bloom.NewFilter(10, 0, 0.000001, wire.BloomUpdateAll)
	inputStr = "0349fc4e631e3624a545de3f89f5d8684c7b8138bd94bdd531d2e213bf016b278a"
	pubKeyBytes, err := hex.DecodeString(inputStr)
	if err != nil {
		t.Fatalf("TestFilterBloomMatch DecodeString failed: %v", err)
	}
	f.Add(pubKeyBytes)
	if !f.MatchTxAndUpdate(tx) {
		t.Errorf("TestFilterBloomMatch didn't match input pubkey %s",
			inputStr)
	}

	// The outpoint spent by the input matches.
	f = bloom.NewFilter(10, 0, 0.000001, wire.BloomUpdateAll)
	f.AddOutPoint(&tx.TxIn[0].PreviousOutPoint)
	if !f.MatchTxAndUpdate(tx) {
		t.Errorf("TestFilterBloomMatch didn't match spent outpoint %v",
			tx.TxIn[0].PreviousOutPoint)
	}

	// The same previous output hash with a different index does not match.
	f = bloom.NewFilter(10, 0, 0.000001, wire.BloomUpdateAll)
	wrongIdx := wire.NewOutPoint(&tx.TxIn[0].PreviousOutPoint.Hash, 7)
	f.AddOutPoint(wrongIdx)
	if f.MatchTxAndUpdate(tx) {
		t.Errorf("TestFilterBloomMatch matched outpoint %v", wrongIdx)
	}

	// Unrelated data does not match.
	f = bloom.NewFilter(10, 0, 0.000001, wire.BloomUpdateAll)
	inputStr = "0000006d2965547608b9e15d9032a7b9d64fa431"
	unrelated, err := hex.DecodeString(inputStr)
	if err != nil {
		t.Fatalf("TestFilterBloomMatch DecodeString failed: %v", err)
	}
	f.Add(unrelated)
	if f.MatchTxAndUpdate(tx) {
		t.Errorf("TestFilterBloomMatch matched address %s", inputStr)
	}
}

// TestFilterInsertUpdateNone ensures a filter created with the update none
// flag does not add the outpoints of matched outputs.
func TestFilterInsertUpdateNone(t *testing.T) {
	tx := decodeSpendTx(t)
	txHash := tx.TxHash()

	f := bloom.NewFilter(10, 0, 0.000001, wire.BloomUpdateNone)
	pkhBytes, err := hex.DecodeString("bc3b654dca7e56b04dca18f2566cdaf02e8d9ada")
	if err != nil {
		t.Fatalf("TestFilterInsertUpdateNone DecodeString failed: %v", err)
	}
	f.Add(pkhBytes)

	if !f.MatchTxAndUpdate(tx) {
		t.Fatal("TestFilterInsertUpdateNone didn't match output address")
	}
	outpoint := wire.NewOutPoint(&txHash, 0)
	if f.MatchesOutPoint(outpoint) {
		t.Errorf("TestFilterInsertUpdateNone matched outpoint %v",
			outpoint)
	}
}

// TestFilterInsertP2PubKeyOnly ensures a filter created with the pubkey only
// update flag adds outpoints for matched pay-to-pubkey outputs but not for
// matched pay-to-pubkey-hash outputs.
func TestFilterInsertP2PubKeyOnly(t *testing.T) {
	pubKey, err := hex.DecodeString(
		"0349fc4e631e3624a545de3f89f5d8684c7b8138bd94bdd531d2e213bf016b278a")
	if err != nil {
		t.Fatalf("DecodeString failed: %v", err)
	}
	p2pkScript, err := txscript.NewScript(
		txscript.DataCommand(pubKey),
		txscript.OpcodeCommand(txscript.OP_CHECKSIG),
	).RawSerialize()
	if err != nil {
		t.Fatalf("RawSerialize failed: %v", err)
	}
	p2pkhScript, err := txscript.PayToPubKeyHashScript(
		bytes.Repeat([]byte{0x0b}, 20)).RawSerialize()
	if err != nil {
		t.Fatalf("RawSerialize failed: %v", err)
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(&wire.TxIn{Sequence: wire.MaxTxInSequenceNum})
	tx.AddTxOut(wire.NewTxOut(50000, p2pkScript))
	tx.AddTxOut(wire.NewTxOut(60000, p2pkhScript))
	txHash := tx.TxHash()

	f := bloom.NewFilter(10, 0, 0.000001, wire.BloomUpdateP2PubkeyOnly)
	f.Add(pubKey)
	f.Add(bytes.Repeat([]byte{0x0b}, 20))

	if !f.MatchTxAndUpdate(tx) {
		t.Fatal("TestFilterInsertP2PubKeyOnly didn't match tx")
	}

	// The outpoint of the pay-to-pubkey output must have been added while
	// the outpoint of the pay-to-pubkey-hash output must not.
	if !f.MatchesOutPoint(wire.NewOutPoint(&txHash, 0)) {
		t.Error("TestFilterInsertP2PubKeyOnly didn't add p2pk outpoint")
	}
	if f.MatchesOutPoint(wire.NewOutPoint(&txHash, 1)) {
		t.Error("TestFilterInsertP2PubKeyOnly added p2pkh outpoint")
	}
}

// TestFilterReload ensures reloading and unloading a filter behaves.
func TestFilterReload(t *testing.T) {
	f := bloom.NewFilter(10, 0, 0.000001, wire.BloomUpdateAll)

	bFilter := bloom.LoadFilter(f.MsgFilterLoad())
	if bFilter.MsgFilterLoad() == nil {
		t.Errorf("TestFilterReload LoadFilter test failed")
		return
	}
	bFilter.Reload(nil)

	if bFilter.MsgFilterLoad() != nil {
		t.Errorf("TestFilterReload Reload test failed")
	}
}

// TestFilterAddHash ensures a hash added via AddHash is matched the same as
// its raw bytes.
func TestFilterAddHash(t *testing.T) {
	f := bloom.NewFilter(1, 0, 0.01, wire.BloomUpdateNone)

	var hash chainhash.Hash
	hash[0] = 0x2a
	f.AddHash(&hash)
	if !f.Matches(hash[:]) {
		t.Error("TestFilterAddHash hash added via AddHash not matched")
	}
}

// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/spvkit/spvkit/wire"
)

// legacySpendTxHex is a fully signed mainnet transaction spending a single
// pay-to-pubkey-hash output.
const legacySpendTxHex = "0100000001813f79011acb80925dfe69b3def355fe914bd1d96" +
	"a3f5f71bf8303c6a989c7d1000000006b483045022100ed81ff192e75a3fd2304004d" +
	"cadb746fa5e24c5031ccfcf21320b0277457c98f02207a986d955c6e0cb35d446a89d" +
	"3f56100f4d7f67801c31967743a9c8e10615bed01210349fc4e631e3624a545de3f89" +
	"f5d8684c7b8138bd94bdd531d2e213bf016b278afeffffff02a135ef0100000000197" +
	"6a914bc3b654dca7e56b04dca18f2566cdaf02e8d9ada88ac99c39800000000001976" +
	"a9141c4bc762dd5423e332166702cb75f40df79fea1288ac19430600"

// legacySpendPrevPkScriptHex is the pkScript of the output spent by the
// transaction above, and legacySpendPrevValue its value.
const legacySpendPrevPkScriptHex = "76a914a802fc56c704ce87c42d7c92eb75e7896bdc41ae88ac"

const legacySpendPrevValue = 42505594

// bip143SpendTxHex is the unsigned transaction from the BIP0143 native
// pay-to-witness-pubkey-hash example.  Its second input spends a p2wpkh
// output of 600000000 satoshi.
const bip143SpendTxHex = "0100000002fff7f7881a8099afa6940d42d1e7f6362bec38171" +
	"ea3edf433541db4e4ad969f0000000000eeffffffef51e1b804cc89d182d279655c3a" +
	"a89e815b1b309fe287d9b2b55d57b90ec68a0100000000ffffffff02202cb20600000" +
	"0001976a9148280b37df378db99f66f85c95a783a76ac7a6d5988ac9093510d000000" +
	"001976a9143bde42dbee7e4dbe6a21b2d50ce2f0167faa815988ac11000000"

// decodeTx decodes the passed serialized transaction hex and fails the test
// on error.
func decodeTx(t *testing.T, txHex string) *wire.MsgTx {
	t.Helper()

	tx := wire.NewMsgTx(wire.TxVersion)
	err := tx.Deserialize(bytes.NewReader(hexToBytes(txHex)))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	return tx
}

// TestCalcSignatureHashKnownVector checks the legacy sighash computation
// against a digest computed independently for a known mainnet transaction.
func TestCalcSignatureHashKnownVector(t *testing.T) {
	t.Parallel()

	tx := decodeTx(t, legacySpendTxHex)
	fetcher := NewCannedPrevOutputFetcher(
		hexToBytes(legacySpendPrevPkScriptHex), legacySpendPrevValue,
	)

	got, err := CalcSignatureHash(tx, 0, SigHashAll, nil, fetcher)
	if err != nil {
		t.Fatalf("CalcSignatureHash: %v", err)
	}

	want := "27e0c5994dec7824e56dec6b2fcb342eb7cdb0d0957c2fce9882f715e85d81a6"
	if hex.EncodeToString(got) != want {
		t.Errorf("wrong digest - got %x, want %s", got, want)
	}
}

// TestCalcSignatureHashInvalidIndex ensures an out of range input index is
// rejected.
func TestCalcSignatureHashInvalidIndex(t *testing.T) {
	t.Parallel()

	tx := decodeTx(t, legacySpendTxHex)
	fetcher := NewCannedPrevOutputFetcher(
		hexToBytes(legacySpendPrevPkScriptHex), legacySpendPrevValue,
	)

	_, err := CalcSignatureHash(tx, 1, SigHashAll, nil, fetcher)
	if !IsErrorCode(err, ErrInvalidIndex) {
		t.Errorf("expected ErrInvalidIndex, got %v", err)
	}
}

// TestCalcSignatureHashBlanksOtherInputs ensures the signature scripts of
// inputs other than the one being signed do not influence the digest.
func TestCalcSignatureHashBlanksOtherInputs(t *testing.T) {
	t.Parallel()

	prevPkScript := hexToBytes(legacySpendPrevPkScriptHex)

	tx := wire.NewMsgTx(wire.TxVersion)
	opA := wire.OutPoint{Index: 0}
	opA.Hash[0] = 0x01
	opB := wire.OutPoint{Index: 1}
	opB.Hash[0] = 0x02
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: opA, Sequence: wire.MaxTxInSequenceNum})
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: opB, Sequence: wire.MaxTxInSequenceNum})
	tx.AddTxOut(wire.NewTxOut(1000, prevPkScript))

	fetcher := NewCannedPrevOutputFetcher(prevPkScript, 2000)

	// Digest for input 1 with input 0 unsigned.
	before, err := CalcSignatureHash(tx, 1, SigHashAll, nil, fetcher)
	if err != nil {
		t.Fatalf("CalcSignatureHash: %v", err)
	}

	// Installing a signature script on input 0 must not change the digest
	// for input 1 since the script is blanked during hashing.
	tx.TxIn[0].SignatureScript = []byte{OP_1}
	after, err := CalcSignatureHash(tx, 1, SigHashAll, nil, fetcher)
	if err != nil {
		t.Fatalf("CalcSignatureHash: %v", err)
	}

	if !bytes.Equal(before, after) {
		t.Errorf("digest changed with other input's signature "+
			"script - got %x, want %x", after, before)
	}
}

// TestCalcWitnessSigHash checks the BIP0143 sighash computation, including
// the precomputed midstate hashes, against the official test vector.
func TestCalcWitnessSigHash(t *testing.T) {
	t.Parallel()

	tx := decodeTx(t, bip143SpendTxHex)
	sigHashes := NewTxSigHashes(tx)

	wantPrevOuts := "96b827c8483d4e9b96712b6713a7b68d6e8003a781feba36c31143470b4efd37"
	if hex.EncodeToString(sigHashes.HashPrevOuts[:]) != wantPrevOuts {
		t.Errorf("wrong hashPrevOuts - got %x, want %s",
			sigHashes.HashPrevOuts[:], wantPrevOuts)
	}
	wantSequence := "52b0a642eea2fb7ae638c36f6252b6750293dbe574a806984b8e4d8548339a3b"
	if hex.EncodeToString(sigHashes.HashSequence[:]) != wantSequence {
		t.Errorf("wrong hashSequence - got %x, want %s",
			sigHashes.HashSequence[:], wantSequence)
	}
	wantOutputs := "863ef3e1a92afbfdb97f31ad0fc7683ee943e9abcf2501590ff8f6551f47e5e5"
	if hex.EncodeToString(sigHashes.HashOutputs[:]) != wantOutputs {
		t.Errorf("wrong hashOutputs - got %x, want %s",
			sigHashes.HashOutputs[:], wantOutputs)
	}

	scriptCode := hexToBytes("76a9141d0f172a0ecb48aee1be1f2687d2963ae33f71a188ac")
	got, err := CalcWitnessSigHash(scriptCode, sigHashes, SigHashAll, tx, 1,
		600000000)
	if err != nil {
		t.Fatalf("CalcWitnessSigHash: %v", err)
	}

	want := "c37af31116d1b27caf68aae9e3ac82f1477929014d5b917657d0eb49478cb670"
	if hex.EncodeToString(got) != want {
		t.Errorf("wrong digest - got %x, want %s", got, want)
	}
}

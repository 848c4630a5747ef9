// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/spvkit/spvkit/wire"
)

// TestTxFee checks the fee computation against a known mainnet transaction.
func TestTxFee(t *testing.T) {
	t.Parallel()

	tx := decodeTx(t, legacySpendTxHex)
	fetcher := NewCannedPrevOutputFetcher(
		hexToBytes(legacySpendPrevPkScriptHex), legacySpendPrevValue,
	)

	fee, err := TxFee(tx, fetcher)
	if err != nil {
		t.Fatalf("TxFee: %v", err)
	}
	if fee != 40000 {
		t.Errorf("wrong fee - got %d, want 40000", fee)
	}
}

// TestVerifyInputKnownVector ensures a known valid mainnet spend verifies and
// that verification does not modify the transaction.
func TestVerifyInputKnownVector(t *testing.T) {
	t.Parallel()

	tx := decodeTx(t, legacySpendTxHex)
	fetcher := NewCannedPrevOutputFetcher(
		hexToBytes(legacySpendPrevPkScriptHex), legacySpendPrevValue,
	)

	var before bytes.Buffer
	if err := tx.Serialize(&before); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if !VerifyInput(tx, 0, fetcher) {
		t.Fatal("valid input rejected")
	}

	// Verification must be repeatable and side effect free.
	if !VerifyInput(tx, 0, fetcher) {
		t.Fatal("valid input rejected on second verification")
	}
	var after bytes.Buffer
	if err := tx.Serialize(&after); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !bytes.Equal(before.Bytes(), after.Bytes()) {
		t.Fatal("verification modified the transaction")
	}

	if !VerifyTransaction(tx, fetcher) {
		t.Fatal("valid transaction rejected")
	}
}

// TestVerifyInputTamper ensures any change to the signed contents of a
// transaction invalidates its signature.
func TestVerifyInputTamper(t *testing.T) {
	t.Parallel()

	fetcher := NewCannedPrevOutputFetcher(
		hexToBytes(legacySpendPrevPkScriptHex), legacySpendPrevValue,
	)

	// Changing an output value invalidates the signature.
	tx := decodeTx(t, legacySpendTxHex)
	tx.TxOut[0].Value++
	if VerifyInput(tx, 0, fetcher) {
		t.Error("input with tampered output value accepted")
	}

	// Changing the lock time invalidates the signature.
	tx = decodeTx(t, legacySpendTxHex)
	tx.LockTime++
	if VerifyInput(tx, 0, fetcher) {
		t.Error("input with tampered lock time accepted")
	}

	// Verifying against the wrong previous output script fails.
	tx = decodeTx(t, legacySpendTxHex)
	wrongFetcher := NewCannedPrevOutputFetcher(
		PayToPubKeyHashScript(bytes.Repeat([]byte{0x01}, 20)).
			mustRawSerialize(), legacySpendPrevValue,
	)
	if VerifyInput(tx, 0, wrongFetcher) {
		t.Error("input verified against wrong pkScript")
	}
}

// mustRawSerialize returns the raw serialization of the script and panics on
// error.  It is only used in tests with scripts known to serialize.
func (s *Script) mustRawSerialize() []byte {
	raw, err := s.RawSerialize()
	if err != nil {
		panic(err)
	}
	return raw
}

// TestSignInput signs a fresh pay-to-pubkey-hash spend and ensures the
// result verifies, and that it no longer verifies once tampered with.
func TestSignInput(t *testing.T) {
	t.Parallel()

	privKey, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x51}, 32))
	pubKeyHash := btcutil.Hash160(privKey.PubKey().SerializeCompressed())
	prevPkScript := PayToPubKeyHashScript(pubKeyHash).mustRawSerialize()

	fetcher := NewCannedPrevOutputFetcher(prevPkScript, 100000)

	tx := wire.NewMsgTx(wire.TxVersion)
	op := wire.OutPoint{Index: 3}
	op.Hash[0] = 0x7f
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: op,
		Sequence:         wire.MaxTxInSequenceNum,
	})
	destScript := PayToPubKeyHashScript(
		bytes.Repeat([]byte{0x0a}, 20)).mustRawSerialize()
	tx.AddTxOut(wire.NewTxOut(99000, destScript))

	if err := SignInput(tx, 0, privKey, SigHashAll, fetcher); err != nil {
		t.Fatalf("SignInput: %v", err)
	}
	if !VerifyInput(tx, 0, fetcher) {
		t.Fatal("freshly signed input does not verify")
	}
	if !VerifyTransaction(tx, fetcher) {
		t.Fatal("freshly signed transaction does not verify")
	}

	// Signing with the wrong key produces an error from the built-in
	// verification.
	wrongKey, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x52}, 32))
	txBad := tx.Copy()
	if err := SignInput(txBad, 0, wrongKey, SigHashAll, fetcher); err == nil {
		t.Error("SignInput with wrong key succeeded")
	}

	// Tampering with the signed transaction invalidates it.
	tx.TxOut[0].Value += 100
	if VerifyInput(tx, 0, fetcher) {
		t.Error("tampered signed input accepted")
	}
}

// TestVerifyTransactionFee ensures a transaction which creates more value
// than it spends is rejected before any script execution.
func TestVerifyTransactionFee(t *testing.T) {
	t.Parallel()

	tx := decodeTx(t, legacySpendTxHex)
	fetcher := NewCannedPrevOutputFetcher(
		hexToBytes(legacySpendPrevPkScriptHex), legacySpendPrevValue,
	)

	// Raise an output above the total input value.
	tx.TxOut[0].Value = legacySpendPrevValue + 1
	if VerifyTransaction(tx, fetcher) {
		t.Error("transaction creating value accepted")
	}
}

// makeWitnessSpendTx returns a transaction with a single signed
// pay-to-witness-pubkey-hash input along with a fetcher for the output it
// spends.
func makeWitnessSpendTx(t *testing.T) (*wire.MsgTx, PrevOutputFetcher) {
	t.Helper()

	privKey, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x6e}, 32))
	pubKeyBytes := privKey.PubKey().SerializeCompressed()
	pubKeyHash := btcutil.Hash160(pubKeyBytes)
	prevPkScript := PayToWitnessPubKeyHashScript(pubKeyHash).
		mustRawSerialize()

	const prevValue = 250000
	fetcher := NewCannedPrevOutputFetcher(prevPkScript, prevValue)

	tx := wire.NewMsgTx(wire.TxVersion)
	op := wire.OutPoint{Index: 1}
	op.Hash[0] = 0x3c
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: op,
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(wire.NewTxOut(prevValue-1000, prevPkScript))

	scriptCode, err := witnessPubKeyHashScriptCode(pubKeyHash)
	if err != nil {
		t.Fatalf("witnessPubKeyHashScriptCode: %v", err)
	}
	sigHash, err := CalcWitnessSigHash(scriptCode, NewTxSigHashes(tx),
		SigHashAll, tx, 0, prevValue)
	if err != nil {
		t.Fatalf("CalcWitnessSigHash: %v", err)
	}
	sig := ecdsa.Sign(privKey, sigHash)
	tx.TxIn[0].Witness = wire.TxWitness{
		append(sig.Serialize(), byte(SigHashAll)), pubKeyBytes,
	}

	return tx, fetcher
}

// TestVerifyInputSharedSigHashes ensures a caller supplied sighash midstate
// is the one witness verification commits to rather than a freshly computed
// one.
func TestVerifyInputSharedSigHashes(t *testing.T) {
	t.Parallel()

	tx, fetcher := makeWitnessSpendTx(t)

	sigHashes := NewTxSigHashes(tx)
	if !VerifyInputWithSigHashes(tx, 0, sigHashes, fetcher) {
		t.Fatal("valid witness input rejected")
	}

	// A stale midstate changes the committed digest, so verification
	// against it must fail.
	stale := *sigHashes
	stale.HashOutputs[0] ^= 0xff
	if VerifyInputWithSigHashes(tx, 0, &stale, fetcher) {
		t.Fatal("witness input verified against stale midstate")
	}

	// The convenience wrappers compute the midstate themselves.
	if !VerifyInput(tx, 0, fetcher) {
		t.Fatal("valid witness input rejected without shared midstate")
	}
	if !VerifyTransaction(tx, fetcher) {
		t.Fatal("valid witness transaction rejected")
	}
}

// TestVerifyTransactionWithCache ensures verification populates the passed
// hash cache and commits to the midstate the cache holds.
func TestVerifyTransactionWithCache(t *testing.T) {
	t.Parallel()

	tx, fetcher := makeWitnessSpendTx(t)

	cache := NewHashCache(10)
	if !VerifyTransactionWithCache(tx, fetcher, cache) {
		t.Fatal("valid transaction rejected")
	}

	// The midstate computed during verification is retained for reuse.
	txid := tx.TxHash()
	if !cache.ContainsHashes(&txid) {
		t.Fatal("hash cache missing the verified transaction")
	}
	if !VerifyTransactionWithCache(tx, fetcher, cache) {
		t.Fatal("valid transaction rejected with warm cache")
	}

	// Poisoning the cached midstate must fail verification, which proves
	// the cached entry is the one consulted.
	stale := NewTxSigHashes(tx)
	stale.HashOutputs[0] ^= 0xff
	cache.sigHashes[txid] = stale
	if VerifyTransactionWithCache(tx, fetcher, cache) {
		t.Fatal("transaction verified against poisoned cache entry")
	}
}

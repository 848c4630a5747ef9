// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/spvkit/spvkit/wire"
)

// SignInput signs the idx'th input of the passed transaction, which must
// spend a pay-to-pubkey-hash output, with the passed private key and installs
// the resulting signature script on the input.  The previous outputs of the
// transaction are supplied by prevOutFetcher.
//
// The freshly signed input is verified before returning, so a nil error means
// the input now carries a valid spend.
func SignInput(tx *wire.MsgTx, idx int, privKey *btcec.PrivateKey,
	hashType SigHashType, prevOutFetcher PrevOutputFetcher) error {

	if idx < 0 || idx >= len(tx.TxIn) {
		str := fmt.Sprintf("input index %d is out of range for "+
			"transaction with %d inputs", idx, len(tx.TxIn))
		return scriptError(ErrInvalidIndex, str)
	}

	sigHash, err := CalcSignatureHash(tx, idx, hashType, nil,
		prevOutFetcher)
	if err != nil {
		return err
	}

	signature := ecdsa.Sign(privKey, sigHash)
	sigBytes := append(signature.Serialize(), byte(hashType))
	pubKeyBytes := privKey.PubKey().SerializeCompressed()

	sigScript, err := NewScriptBuilder().
		AddData(sigBytes).
		AddData(pubKeyBytes).
		Script()
	if err != nil {
		return err
	}
	tx.TxIn[idx].SignatureScript = sigScript

	if !VerifyInput(tx, idx, prevOutFetcher) {
		str := fmt.Sprintf("signature script for input %d does not "+
			"validate", idx)
		return scriptError(ErrEvalFalse, str)
	}
	return nil
}

// witnessPubKeyHashScriptCode returns the script code a version 0
// pay-to-witness-pubkey-hash spend commits to, which is the equivalent
// pay-to-pubkey-hash script of the program's key hash.
func witnessPubKeyHashScriptCode(pubKeyHash []byte) ([]byte, error) {
	return PayToPubKeyHashScript(pubKeyHash).RawSerialize()
}

// VerifyInput reports whether the idx'th input of the passed transaction is a
// valid spend of the output it references.  The previous outputs of the
// transaction are supplied by prevOutFetcher.
//
// The BIP0143 sighash midstate is computed on demand when the transaction
// carries witness data.  Callers validating more than one input of the same
// transaction should use VerifyInputWithSigHashes with a shared TxSigHashes
// so the midstate is only computed once.
func VerifyInput(tx *wire.MsgTx, idx int, prevOutFetcher PrevOutputFetcher) bool {
	var sigHashes *TxSigHashes
	if tx.HasWitness() {
		sigHashes = NewTxSigHashes(tx)
	}
	return VerifyInputWithSigHashes(tx, idx, sigHashes, prevOutFetcher)
}

// VerifyInputWithSigHashes reports whether the idx'th input of the passed
// transaction is a valid spend of the output it references.  The previous
// outputs of the transaction are supplied by prevOutFetcher, and sigHashes
// holds the precomputed BIP0143 midstate hashes any witness spend commits
// to.  It may be nil, in which case the midstate is computed on demand.
//
// The script of the referenced output determines how the input is validated:
// a pay-to-script-hash output promotes the final signature script push to the
// redeem script, which in turn may be a nested witness program, while plain
// witness programs pull the spending data from the input witness.  Everything
// else validates as a legacy spend.
func VerifyInputWithSigHashes(tx *wire.MsgTx, idx int, sigHashes *TxSigHashes,
	prevOutFetcher PrevOutputFetcher) bool {

	if idx < 0 || idx >= len(tx.TxIn) {
		return false
	}
	txIn := tx.TxIn[idx]

	if sigHashes == nil && tx.HasWitness() {
		sigHashes = NewTxSigHashes(tx)
	}

	prevOut := prevOutFetcher.FetchPrevOutput(txIn.PreviousOutPoint)
	if prevOut == nil {
		return false
	}
	pkScriptBytes := prevOut.PkScript

	sigScript, err := NewScriptFromBytes(txIn.SignatureScript)
	if err != nil {
		return false
	}

	var (
		sigHash []byte
		witness [][]byte
	)
	switch {
	case IsPayToScriptHash(pkScriptBytes):
		// The redeem script is revealed by the final push of the
		// signature script.
		pushes := sigScript.PushedData()
		if len(pushes) == 0 {
			return false
		}
		redeemBytes := pushes[len(pushes)-1]

		switch {
		case IsPayToWitnessPubKeyHash(redeemBytes):
			if len(txIn.Witness) == 0 {
				return false
			}
			scriptCode, serr := witnessPubKeyHashScriptCode(
				redeemBytes[2:22],
			)
			if serr != nil {
				return false
			}
			sigHash, err = CalcWitnessSigHash(scriptCode,
				sigHashes, SigHashAll, tx, idx,
				prevOut.Value)
			witness = txIn.Witness

		case IsPayToWitnessScriptHash(redeemBytes):
			if len(txIn.Witness) == 0 {
				return false
			}
			witnessScript := txIn.Witness[len(txIn.Witness)-1]
			sigHash, err = CalcWitnessSigHash(witnessScript,
				sigHashes, SigHashAll, tx, idx,
				prevOut.Value)
			witness = txIn.Witness

		default:
			sigHash, err = CalcSignatureHash(tx, idx, SigHashAll,
				redeemBytes, prevOutFetcher)
		}

	case IsPayToWitnessPubKeyHash(pkScriptBytes):
		if len(txIn.Witness) == 0 {
			return false
		}
		scriptCode, serr := witnessPubKeyHashScriptCode(
			pkScriptBytes[2:22],
		)
		if serr != nil {
			return false
		}
		sigHash, err = CalcWitnessSigHash(scriptCode, sigHashes,
			SigHashAll, tx, idx, prevOut.Value)
		witness = txIn.Witness

	case IsPayToWitnessScriptHash(pkScriptBytes):
		if len(txIn.Witness) == 0 {
			return false
		}
		witnessScript := txIn.Witness[len(txIn.Witness)-1]
		sigHash, err = CalcWitnessSigHash(witnessScript,
			sigHashes, SigHashAll, tx, idx, prevOut.Value)
		witness = txIn.Witness

	default:
		sigHash, err = CalcSignatureHash(tx, idx, SigHashAll, nil,
			prevOutFetcher)
	}
	if err != nil {
		return false
	}

	pkScript, err := NewScriptFromBytes(pkScriptBytes)
	if err != nil {
		return false
	}

	combined := sigScript.Concat(pkScript)
	return combined.Evaluate(sigHash, witness, tx.LockTime, txIn.Sequence)
}

// TxFee returns the fee paid by the passed transaction, which is the sum of
// the values of the outputs it spends minus the sum of the values of the
// outputs it creates.  An error is returned when a referenced output is not
// known to prevOutFetcher.
func TxFee(tx *wire.MsgTx, prevOutFetcher PrevOutputFetcher) (int64, error) {
	var inputSum int64
	for i, txIn := range tx.TxIn {
		prevOut := prevOutFetcher.FetchPrevOutput(txIn.PreviousOutPoint)
		if prevOut == nil {
			str := fmt.Sprintf("unable to find output %v referenced "+
				"by input %d", txIn.PreviousOutPoint, i)
			return 0, scriptError(ErrUnsupportedScript, str)
		}
		inputSum += prevOut.Value
	}

	var outputSum int64
	for _, txOut := range tx.TxOut {
		outputSum += txOut.Value
	}

	return inputSum - outputSum, nil
}

// VerifyTransaction reports whether the passed transaction does not create
// new value and validly spends each of the outputs it references.  The
// BIP0143 sighash midstate is computed once and shared across all inputs.
func VerifyTransaction(tx *wire.MsgTx, prevOutFetcher PrevOutputFetcher) bool {
	var sigHashes *TxSigHashes
	if tx.HasWitness() {
		sigHashes = NewTxSigHashes(tx)
	}
	return verifyTransaction(tx, prevOutFetcher, sigHashes)
}

// VerifyTransactionWithCache is VerifyTransaction with the sighash midstate
// supplied by the passed HashCache.  The midstate for the transaction is
// computed and added to the cache when not already present, so repeated
// verifications of the same transaction reuse it.
func VerifyTransactionWithCache(tx *wire.MsgTx, prevOutFetcher PrevOutputFetcher,
	hashCache *HashCache) bool {

	var sigHashes *TxSigHashes
	if tx.HasWitness() {
		txid := tx.TxHash()
		var ok bool
		sigHashes, ok = hashCache.GetSigHashes(&txid)
		if !ok {
			hashCache.AddSigHashes(tx)
			sigHashes, _ = hashCache.GetSigHashes(&txid)
		}
	}
	return verifyTransaction(tx, prevOutFetcher, sigHashes)
}

func verifyTransaction(tx *wire.MsgTx, prevOutFetcher PrevOutputFetcher,
	sigHashes *TxSigHashes) bool {

	fee, err := TxFee(tx, prevOutFetcher)
	if err != nil || fee < 0 {
		return false
	}

	for i := range tx.TxIn {
		if !VerifyInputWithSigHashes(tx, i, sigHashes, prevOutFetcher) {
			return false
		}
	}
	return true
}

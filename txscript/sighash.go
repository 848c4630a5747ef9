// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/spvkit/spvkit/wire"
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType uint32

// Hash type bits from the end of a signature.
const (
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80

	// sigHashMask defines which bits of the hash type have an actual hash
	// mode contained in it.
	sigHashMask = 0x1f
)

// CalcSignatureHash computes the legacy signature hash for the idx'th input
// of the passed transaction.
//
// The subScript is the script which is actually being signed.  For a plain
// pay-to-pubkey-hash spend it is the pkScript of the output being spent and
// for a pay-to-script-hash spend it is the redeem script.  When it is nil,
// the pkScript of the referenced output is fetched through prevOutFetcher.
func CalcSignatureHash(tx *wire.MsgTx, idx int, hashType SigHashType,
	subScript []byte, prevOutFetcher PrevOutputFetcher) ([]byte, error) {

	if idx < 0 || idx >= len(tx.TxIn) {
		str := fmt.Sprintf("input index %d is out of range for "+
			"transaction with %d inputs", idx, len(tx.TxIn))
		return nil, scriptError(ErrInvalidIndex, str)
	}

	script := subScript
	if script == nil {
		if prevOutFetcher == nil {
			str := "no script and no previous output source provided"
			return nil, scriptError(ErrUnsupportedScript, str)
		}
		prevOut := prevOutFetcher.FetchPrevOutput(
			tx.TxIn[idx].PreviousOutPoint,
		)
		if prevOut == nil {
			str := fmt.Sprintf("unable to find output %v referenced "+
				"by input %d", tx.TxIn[idx].PreviousOutPoint, idx)
			return nil, scriptError(ErrUnsupportedScript, str)
		}
		script = prevOut.PkScript
	}

	// As a special case, the consensus rules dictate signing a
	// SigHashSingle input which has no corresponding output results in a
	// hash of 1.
	if hashType&sigHashMask == SigHashSingle && idx >= len(tx.TxOut) {
		var hash chainhash.Hash
		hash[0] = 0x01
		return hash[:], nil
	}

	// Make a shallow copy of the transaction, zeroing out the script for
	// all inputs that are not currently being processed.  The input being
	// signed carries the script being signed instead of its signature
	// script, which an empty signature script serialization also covers
	// for unsigned inputs.
	txCopy := tx.Copy()
	for i := range txCopy.TxIn {
		if i == idx {
			txCopy.TxIn[i].SignatureScript = script
		} else {
			txCopy.TxIn[i].SignatureScript = nil
		}
	}

	switch hashType & sigHashMask {
	case SigHashNone:
		txCopy.TxOut = txCopy.TxOut[0:0] // Empty slice.
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}

	case SigHashSingle:
		// Resize output array to up to and including requested index.
		txCopy.TxOut = txCopy.TxOut[:idx+1]

		// All but current output get zeroed out.
		for i := 0; i < idx; i++ {
			txCopy.TxOut[i].Value = -1
			txCopy.TxOut[i].PkScript = nil
		}

		// Sequence on all other inputs is 0, too.
		for i := range txCopy.TxIn {
			if i != idx {
				txCopy.TxIn[i].Sequence = 0
			}
		}

	default:
		// Consensus treats undefined hashtypes like normal SigHashAll
		// for purposes of hash generation.
		fallthrough
	case SigHashAll:
		// Nothing special here.
	}
	if hashType&SigHashAnyOneCanPay != 0 {
		txCopy.TxIn = txCopy.TxIn[idx : idx+1]
	}

	// The final hash is the double sha256 of both the serialized modified
	// transaction and the hash type (encoded as a 4-byte little-endian
	// value) appended.
	wbuf := bytes.NewBuffer(make([]byte, 0,
		txCopy.SerializeSizeStripped()+4))
	txCopy.SerializeNoWitness(wbuf)
	binary.Write(wbuf, binary.LittleEndian, uint32(hashType))
	return chainhash.DoubleHashB(wbuf.Bytes()), nil
}

// CalcWitnessSigHash computes the sighash digest of the transaction's idx'th
// input using the version 0 witness sighash algorithm defined in BIP0143.
// This digest algorithm commits to the amount of the output being spent and
// reuses the precomputed midstate hashes of sigHashes, removing the
// possibility of quadratic hashing.
//
// The passed script is the script code for the input: for a version 0
// pay-to-witness-pubkey-hash spend it is the equivalent pay-to-pubkey-hash
// script of the committed key hash, and for a version 0
// pay-to-witness-script-hash spend it is the revealed witness script.
func CalcWitnessSigHash(script []byte, sigHashes *TxSigHashes,
	hType SigHashType, tx *wire.MsgTx, idx int, amt int64) ([]byte, error) {

	// As a sanity check, ensure the passed input index for the transaction
	// is valid.
	if idx > len(tx.TxIn)-1 || idx < 0 {
		str := fmt.Sprintf("input index %d is out of range for "+
			"transaction with %d inputs", idx, len(tx.TxIn))
		return nil, scriptError(ErrInvalidIndex, str)
	}

	// We'll utilize this buffer throughout to incrementally calculate
	// the signature hash for this transaction.
	var sigHash bytes.Buffer

	// First write out, then encode the transaction's version number.
	var bVersion [4]byte
	binary.LittleEndian.PutUint32(bVersion[:], uint32(tx.Version))
	sigHash.Write(bVersion[:])

	// Next write out the possibly pre-calculated hashes for the sequence
	// numbers of all inputs, and the hashes of the previous outs for all
	// outputs.
	var zeroHash chainhash.Hash

	// If anyone can pay isn't active, then we can use the cached
	// hashPrevOuts, otherwise we just write zeroes for the prev outs.
	if hType&SigHashAnyOneCanPay == 0 {
		sigHash.Write(sigHashes.HashPrevOuts[:])
	} else {
		sigHash.Write(zeroHash[:])
	}

	// If the sighash isn't anyone can pay, single, or none, the use the
	// cached hash sequences, otherwise write all zeroes for the
	// hashSequence.
	if hType&SigHashAnyOneCanPay == 0 &&
		hType&sigHashMask != SigHashSingle &&
		hType&sigHashMask != SigHashNone {

		sigHash.Write(sigHashes.HashSequence[:])
	} else {
		sigHash.Write(zeroHash[:])
	}

	txIn := tx.TxIn[idx]

	// Next, write the outpoint being spent.
	sigHash.Write(txIn.PreviousOutPoint.Hash[:])
	var bIndex [4]byte
	binary.LittleEndian.PutUint32(bIndex[:], txIn.PreviousOutPoint.Index)
	sigHash.Write(bIndex[:])

	// The script code is committed to with a leading varint length prefix.
	if err := wire.WriteVarBytes(&sigHash, 0, script); err != nil {
		return nil, err
	}

	// Next, add the input amount, and sequence number of the input being
	// signed.
	var bAmount [8]byte
	binary.LittleEndian.PutUint64(bAmount[:], uint64(amt))
	sigHash.Write(bAmount[:])
	var bSequence [4]byte
	binary.LittleEndian.PutUint32(bSequence[:], txIn.Sequence)
	sigHash.Write(bSequence[:])

	// If the current signature mode isn't single, or none, then we can
	// re-use the pre-generated hashoutputs sighash fragment.  Otherwise,
	// we'll serialize and add only the target output index to the signature
	// pre-image.
	if hType&sigHashMask != SigHashSingle &&
		hType&sigHashMask != SigHashNone {

		sigHash.Write(sigHashes.HashOutputs[:])
	} else if hType&sigHashMask == SigHashSingle && idx < len(tx.TxOut) {
		var b bytes.Buffer
		wire.WriteTxOut(&b, 0, 0, tx.TxOut[idx])
		sigHash.Write(chainhash.DoubleHashB(b.Bytes()))
	} else {
		sigHash.Write(zeroHash[:])
	}

	// Finally, write out the transaction's locktime, and the sig hash
	// type.
	var bLockTime [4]byte
	binary.LittleEndian.PutUint32(bLockTime[:], tx.LockTime)
	sigHash.Write(bLockTime[:])
	var bHashType [4]byte
	binary.LittleEndian.PutUint32(bHashType[:], uint32(hType))
	sigHash.Write(bHashType[:])

	return chainhash.DoubleHashB(sigHash.Bytes()), nil
}

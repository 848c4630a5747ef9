// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"math/rand"
	"testing"

	"github.com/spvkit/spvkit/wire"
	"github.com/stretchr/testify/require"
)

// genTestTx creates a random transaction for use within test cases in this
// file.
func genTestTx(r *rand.Rand) *wire.MsgTx {
	tx := wire.NewMsgTx(2)
	tx.LockTime = 1943

	numIns := r.Intn(11) + 1
	for i := 0; i < numIns; i++ {
		randTxIn := wire.TxIn{
			PreviousOutPoint: wire.OutPoint{
				Index: uint32(r.Int31()),
			},
			Sequence: uint32(r.Int31()),
		}
		r.Read(randTxIn.PreviousOutPoint.Hash[:])

		tx.AddTxIn(&randTxIn)
	}

	numOuts := r.Intn(11) + 1
	for i := 0; i < numOuts; i++ {
		randTxOut := wire.TxOut{
			Value:    r.Int63(),
			PkScript: make([]byte, r.Intn(30)+1),
		}
		r.Read(randTxOut.PkScript)
		tx.AddTxOut(&randTxOut)
	}

	return tx
}

// TestHashCacheAddContainsHashes tests that after items have been added to
// the hash cache, the ContainsHashes method returns true for all the
// transactions added, and false for any transactions not added.
func TestHashCacheAddContainsHashes(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(1943))

	cache := NewHashCache(10)

	// First, we'll generate 10 random transactions for use within our
	// tests.
	const numTxns = 10
	txns := make([]*wire.MsgTx, numTxns)
	for i := 0; i < numTxns; i++ {
		txns[i] = genTestTx(r)
	}

	// With the transactions generated, we'll add each of them to the hash
	// cache.
	for _, tx := range txns {
		cache.AddSigHashes(tx)
	}

	// Next, we'll ensure that each of the transactions inserted into the
	// cache are properly located by the ContainsHashes method.
	for _, tx := range txns {
		txid := tx.TxHash()
		require.True(t, cache.ContainsHashes(&txid))
	}

	randTx := genTestTx(r)

	// Finally, we'll assert that a transaction that wasn't added to the
	// cache won't be reported as being present by the ContainsHashes
	// method.
	randTxid := randTx.TxHash()
	require.False(t, cache.ContainsHashes(&randTxid))
}

// TestHashCacheAddGet tests that the sighashes for a particular transaction
// are properly retrieved by the GetSigHashes function.
func TestHashCacheAddGet(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(1943))

	cache := NewHashCache(10)

	// To start, we'll generate a random transaction and compute the set of
	// sighashes for the transaction.
	randTx := genTestTx(r)
	sigHashes := NewTxSigHashes(randTx)

	// Next, add the transaction to the hash cache.
	cache.AddSigHashes(randTx)

	// The transaction inserted into the cache above should be found.
	txid := randTx.TxHash()
	cacheHashes, ok := cache.GetSigHashes(&txid)
	require.True(t, ok)

	// Finally, the sighashes retrieved should exactly match the sighash
	// originally inserted into the cache.
	require.Equal(t, sigHashes, cacheHashes)
}

// TestHashCachePurge tests that items are able to be properly removed from
// the hash cache.
func TestHashCachePurge(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(1943))

	cache := NewHashCache(10)

	// First we'll generate numTxns transactions and add them to the cache.
	const numTxns = 10
	txns := make([]*wire.MsgTx, numTxns)
	for i := 0; i < numTxns; i++ {
		txns[i] = genTestTx(r)
	}
	for _, tx := range txns {
		cache.AddSigHashes(tx)
	}

	// Once all the transactions have been inserted, we'll purge them from
	// the cache.
	for _, tx := range txns {
		txid := tx.TxHash()
		cache.PurgeSigHashes(&txid)
	}

	// At this point, none of the transactions inserted should be found in
	// the cache.
	for _, tx := range txns {
		txid := tx.TxHash()
		require.False(t, cache.ContainsHashes(&txid))
	}
}

// TestMultiPrevOutFetcher exercises adding and merging previous output
// sources.
func TestMultiPrevOutFetcher(t *testing.T) {
	t.Parallel()

	var opA, opB wire.OutPoint
	opA.Hash[0] = 0x01
	opB.Hash[0] = 0x02
	opB.Index = 3

	a := NewMultiPrevOutFetcher(nil)
	a.AddPrevOut(opA, &wire.TxOut{Value: 1000})

	b := NewMultiPrevOutFetcher(map[wire.OutPoint]*wire.TxOut{
		opB: {Value: 2000},
	})

	require.NotNil(t, a.FetchPrevOutput(opA))
	require.Nil(t, a.FetchPrevOutput(opB))

	a.Merge(b)
	out := a.FetchPrevOutput(opB)
	require.NotNil(t, out)
	require.Equal(t, int64(2000), out.Value)
}

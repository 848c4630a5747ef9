// Copyright (c) 2024-2026 The spvkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/spvkit/spvkit/wire"
)

// merkleBlock is used to house intermediate information needed to generate a
// wire.MsgMerkleBlock.
type merkleBlock struct {
	numTx       uint32
	allHashes   []*chainhash.Hash
	finalHashes []*chainhash.Hash
	matchedBits []byte
	bits        []byte
}

// calcTreeWidth calculates and returns the the number of nodes (width) or a
// merkle tree at the given depth-first height.
func (m *merkleBlock) calcTreeWidth(height uint32) uint32 {
	return (m.numTx + (1 << height) - 1) >> height
}

// calcHash returns the hash for a sub-tree with a particular height and
// position in the tree.
func (m *merkleBlock) calcHash(height, pos uint32) *chainhash.Hash {
	if height == 0 {
		return m.allHashes[pos]
	}

	var right *chainhash.Hash
	left := m.calcHash(height-1, pos*2)
	if pos*2+1 < m.calcTreeWidth(height-1) {
		right = m.calcHash(height-1, pos*2+1)
	} else {
		right = left
	}
	return hashMerkleBranches(left, right)
}

// hashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation.
func hashMerkleBranches(left, right *chainhash.Hash) *chainhash.Hash {
	// Concatenate the left and right nodes.
	var hash [chainhash.HashSize * 2]byte
	copy(hash[:chainhash.HashSize], left[:])
	copy(hash[chainhash.HashSize:], right[:])

	newHash := chainhash.DoubleHashH(hash[:])
	return &newHash
}

// traverseAndBuild builds a partial merkle tree using a recursive depth-first
// approach.  As it calculates the hashes, it also saves whether or not each
// node is a parent node and a list of final hashes to be included in the
// merkle block.
func (m *merkleBlock) traverseAndBuild(height, pos uint32) {
	// Determine whether this node is a parent of a matched node.
	var isParent byte
	for i := pos << height; i < (pos+1)<<height && i < m.numTx; i++ {
		isParent |= m.matchedBits[i]
	}
	m.bits = append(m.bits, isParent)

	// When the node is a leaf node or not a parent of a matched node,
	// append the hash to the list that will be part of the final merkle
	// block.
	if height == 0 || isParent == 0x00 {
		m.finalHashes = append(m.finalHashes, m.calcHash(height, pos))
		return
	}

	// At this point, the node is an internal node and it is the parent of
	// of an included leaf node.

	// Descend into the left child and process its sub-tree.
	m.traverseAndBuild(height-1, pos*2)

	// Descend into the right child and process its sub-tree if
	// there is one.
	if pos*2+1 < m.calcTreeWidth(height-1) {
		m.traverseAndBuild(height-1, pos*2+1)
	}
}

// NewMerkleBlock returns a new *wire.MsgMerkleBlock containing the transactions
// of the passed block which match the passed filter along with the indices of
// the matching transactions.
func NewMerkleBlock(header *wire.BlockHeader, transactions []*wire.MsgTx, filter *Filter) (*wire.MsgMerkleBlock, []uint32) {
	numTx := uint32(len(transactions))
	mBlock := merkleBlock{
		numTx:       numTx,
		allHashes:   make([]*chainhash.Hash, 0, numTx),
		matchedBits: make([]byte, 0, numTx),
	}

	// Find and keep track of any transactions that match the filter.
	var matchedIndices []uint32
	for i, tx := range transactions {
		if filter.MatchTxAndUpdate(tx) {
			mBlock.matchedBits = append(mBlock.matchedBits, 0x01)
			matchedIndices = append(matchedIndices, uint32(i))
		} else {
			mBlock.matchedBits = append(mBlock.matchedBits, 0x00)
		}
		txHash := tx.TxHash()
		mBlock.allHashes = append(mBlock.allHashes, &txHash)
	}

	// Calculate the number of merkle branches (height) in the tree.
	height := uint32(0)
	for mBlock.calcTreeWidth(height) > 1 {
		height++
	}

	// Build the depth-first partial merkle tree.
	mBlock.traverseAndBuild(height, 0)

	// Create and return the merkle block.
	msgMerkleBlock := wire.MsgMerkleBlock{
		Header:       *header,
		Transactions: mBlock.numTx,
		Hashes:       make([]*chainhash.Hash, 0, len(mBlock.finalHashes)),
		Flags:        make([]byte, (len(mBlock.bits)+7)/8),
	}
	for _, hash := range mBlock.finalHashes {
		msgMerkleBlock.AddTxHash(hash)
	}
	for i := uint32(0); i < uint32(len(mBlock.bits)); i++ {
		msgMerkleBlock.Flags[i/8] |= mBlock.bits[i] << (i % 8)
	}

	return &msgMerkleBlock, matchedIndices
}

// merkleExtractor houses the state used while descending a received partial
// merkle tree.
type merkleExtractor struct {
	msg        *wire.MsgMerkleBlock
	bitsUsed   uint32
	hashesUsed uint32
	matches    []*chainhash.Hash
}

// calcTreeWidth calculates and returns the the number of nodes (width) of the
// merkle tree at the given depth-first height.
func (e *merkleExtractor) calcTreeWidth(height uint32) uint32 {
	return (e.msg.Transactions + (1 << height) - 1) >> height
}

// nextBit consumes and returns the next flag bit of the partial merkle tree.
func (e *merkleExtractor) nextBit() (byte, error) {
	if e.bitsUsed >= uint32(len(e.msg.Flags))*8 {
		return 0, fmt.Errorf("merkle block flag bits exhausted")
	}
	bit := e.msg.Flags[e.bitsUsed>>3] >> (e.bitsUsed & 7) & 0x01
	e.bitsUsed++
	return bit, nil
}

// traverse descends the partial merkle tree in the same depth-first order it
// was built in, consuming flag bits and hashes, collecting matched
// transaction hashes, and returning the hash of the sub-tree at the given
// height and position.
func (e *merkleExtractor) traverse(height, pos uint32) (*chainhash.Hash, error) {
	bit, err := e.nextBit()
	if err != nil {
		return nil, err
	}

	// When the node is a leaf node or not a parent of a matched
	// transaction, its hash is taken directly from the hash list.
	if height == 0 || bit == 0x00 {
		if e.hashesUsed >= uint32(len(e.msg.Hashes)) {
			return nil, fmt.Errorf("merkle block hashes exhausted")
		}
		hash := e.msg.Hashes[e.hashesUsed]
		e.hashesUsed++

		if height == 0 && bit == 0x01 {
			e.matches = append(e.matches, hash)
		}
		return hash, nil
	}

	// Otherwise descend into both children, allowing for the right child
	// to be absent on an uneven tree level.
	left, err := e.traverse(height-1, pos*2)
	if err != nil {
		return nil, err
	}
	right := left
	if pos*2+1 < e.calcTreeWidth(height-1) {
		right, err = e.traverse(height-1, pos*2+1)
		if err != nil {
			return nil, err
		}

		// Identical left and right branches can only be produced by
		// duplicating hashes, which would allow multiple trees with
		// the same root.
		if right.IsEqual(left) {
			return nil, fmt.Errorf("merkle block contains " +
				"duplicate branch hashes")
		}
	}

	return hashMerkleBranches(left, right), nil
}

// ExtractMatches validates the partial merkle tree carried by the passed
// merkle block message against the merkle root committed to by its header and
// returns the hashes of the transactions it proves are part of the block.
func ExtractMatches(msg *wire.MsgMerkleBlock) ([]*chainhash.Hash, error) {
	if msg.Transactions == 0 {
		return nil, fmt.Errorf("merkle block contains no transactions")
	}

	// Calculate the number of merkle branches (height) in the tree.
	e := merkleExtractor{msg: msg}
	height := uint32(0)
	for e.calcTreeWidth(height) > 1 {
		height++
	}

	root, err := e.traverse(height, 0)
	if err != nil {
		return nil, err
	}

	// All hashes must be consumed and any remaining flag bits may only be
	// zero padding within the final byte.
	if e.hashesUsed != uint32(len(msg.Hashes)) {
		return nil, fmt.Errorf("merkle block contains %d unused hashes",
			uint32(len(msg.Hashes))-e.hashesUsed)
	}
	for i := e.bitsUsed; i < uint32(len(msg.Flags))*8; i++ {
		if msg.Flags[i>>3]>>(i&7)&0x01 != 0x00 {
			return nil, fmt.Errorf("merkle block contains unused " +
				"flag bits")
		}
	}

	if !root.IsEqual(&msg.Header.MerkleRoot) {
		return nil, fmt.Errorf("merkle block root %v does not match "+
			"header merkle root %v", root, msg.Header.MerkleRoot)
	}

	return e.matches, nil
}

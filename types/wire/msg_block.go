// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/michaelotis/nheqminer/types/chainhash"
)

const (
	// minTxPayload is the minimum number of bytes any transaction codec
	// can emit.
	minTxPayload = 1

	// maxTxPerBlock is the maximum number of transactions a decoded block
	// is allowed to declare.
	maxTxPerBlock = MaxMessagePayload / minTxPayload

	// maxTxPrealloc bounds the slice capacity reserved up front while
	// decoding a block.  The declared count is attacker-controlled and
	// checked against maxTxPerBlock only; allocating for it before any
	// transaction byte is read would let a few-byte prefix claim hundreds
	// of megabytes.
	maxTxPrealloc = 4096
)

// Tx is the collaborator boundary for transactions.  The block treats them
// as opaque values with a stable encoding and an identity hash; their
// internal structure is defined elsewhere.
type Tx interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
	SerializeSize() int

	// TxHash is the hash of the transaction's canonical encoding and is
	// used as the merkle leaf for the transaction.
	TxHash() chainhash.Hash
}

// TxConstructor produces empty transactions so the block codec can decode a
// transaction sequence without knowing the concrete type.
type TxConstructor interface {
	EmptyTx() Tx
}

// MsgBlock composes a primary header with an ordered transaction sequence.
//
// The merkle tree over the transaction hashes is materialized lazily and
// cached; every mutation of the transaction sequence drops the cache.  The
// cache is a memoization detail only and is never authoritative over the
// transactions themselves.  A MsgBlock must not be shared across goroutines
// while it is being mutated; once the tree is built, concurrent read-only
// use is safe.
type MsgBlock struct {
	Header PrimaryHeader

	vtx []Tx

	// memory only
	merkleTree *chainhash.MerkleTree
}

// NewMsgBlock returns a new block wrapping a copy of the given header and
// no transactions.
func NewMsgBlock(header *PrimaryHeader) *MsgBlock {
	return &MsgBlock{Header: *header.Copy().(*PrimaryHeader)}
}

// Transactions returns the block's transaction sequence.  The returned
// slice must not be mutated by the caller; use the mutator methods so the
// cached merkle tree stays consistent.
func (b *MsgBlock) Transactions() []Tx {
	return b.vtx
}

// TxCount returns the number of transactions in the block.
func (b *MsgBlock) TxCount() int {
	return len(b.vtx)
}

// AddTransaction appends a transaction to the block and drops the cached
// merkle tree.
func (b *MsgBlock) AddTransaction(tx Tx) {
	b.vtx = append(b.vtx, tx)
	b.merkleTree = nil
}

// SetTransactions replaces the block's transaction sequence and drops the
// cached merkle tree.
func (b *MsgBlock) SetTransactions(txs []Tx) {
	b.vtx = txs
	b.merkleTree = nil
}

// ClearTransactions removes all transactions from the block and drops the
// cached merkle tree.
func (b *MsgBlock) ClearTransactions() {
	b.vtx = nil
	b.merkleTree = nil
}

// SetNull restores the freshly constructed state of the header and removes
// all transactions.
func (b *MsgBlock) SetNull() {
	b.Header.SetNull()
	b.vtx = nil
	b.merkleTree = nil
}

// BlockHash returns the identifier hash of the block's header.
func (b *MsgBlock) BlockHash() chainhash.Hash {
	return b.Header.BlockHash()
}

// BuildMerkleTree computes the merkle root over the hashes of the block's
// transactions, caching the tree for branch queries.  If mutated is
// non-nil, it is set to whether a duplicate-leaf mutation was detected; a
// mutated root collides with the root of a different transaction set and
// must not be trusted.
//
// The caller that assembles a block is responsible for storing the result
// in the header's merkle root; the codec does not enforce that equality.
func (b *MsgBlock) BuildMerkleTree(mutated *bool) chainhash.Hash {
	tree := b.merkleTree
	if tree == nil {
		leaves := make([]chainhash.Hash, len(b.vtx))
		for i, tx := range b.vtx {
			leaves[i] = tx.TxHash()
		}
		tree = chainhash.BuildMerkleTree(leaves)
		b.merkleTree = tree
	}

	if mutated != nil {
		*mutated = tree.Mutated()
	}
	return tree.Root()
}

// MerkleBranch returns the inclusion proof for the transaction at the given
// index, building the merkle tree first when the cache is empty.
func (b *MsgBlock) MerkleBranch(index int) ([]chainhash.Hash, error) {
	b.BuildMerkleTree(nil)
	return b.merkleTree.Branch(index)
}

// CheckMerkleRoot rebuilds the merkle root from the block's transactions
// and compares it against the root declared by the header.  It returns
// ErrMutatedTree when the transaction set is ambiguous and
// ErrInconsistentMerkleRoot when the roots differ.
func (b *MsgBlock) CheckMerkleRoot() error {
	var mutated bool
	root := b.BuildMerkleTree(&mutated)
	if mutated {
		return errors.WithStack(ErrMutatedTree)
	}
	if root != b.Header.MerkleRoot() {
		return errors.Wrapf(ErrInconsistentMerkleRoot,
			"declared %v, built %v", b.Header.MerkleRoot(), root)
	}
	return nil
}

// Serialize encodes the block to w: the header followed by a
// varint-prefixed sequence of transaction encodings.
func (b *MsgBlock) Serialize(w io.Writer) error {
	if err := b.Header.Write(w); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(b.vtx))); err != nil {
		return err
	}

	for _, tx := range b.vtx {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes a block from r, using the provided constructor to
// materialize the opaque transactions.  Any cached merkle tree is dropped.
func (b *MsgBlock) Deserialize(r io.Reader, txc TxConstructor) error {
	if err := b.Header.Read(r); err != nil {
		return err
	}

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	if count > maxTxPerBlock {
		str := fmt.Sprintf("too many transactions to fit into a block "+
			"[count %d, max %d]", count, maxTxPerBlock)
		return Error("MsgBlock.Deserialize", str)
	}

	prealloc := count
	if prealloc > maxTxPrealloc {
		prealloc = maxTxPrealloc
	}
	b.vtx = make([]Tx, 0, prealloc)
	b.merkleTree = nil
	for i := uint64(0); i < count; i++ {
		tx := txc.EmptyTx()
		if err := tx.Deserialize(r); err != nil {
			return err
		}
		b.vtx = append(b.vtx, tx)
	}
	return nil
}

// SerializeSize returns the number of bytes it would take to serialize the
// block.
func (b *MsgBlock) SerializeSize() int {
	n := b.Header.SerializeSize() + VarIntSerializeSize(uint64(len(b.vtx)))
	for _, tx := range b.vtx {
		n += tx.SerializeSize()
	}
	return n
}

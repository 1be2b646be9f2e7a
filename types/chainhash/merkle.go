// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"github.com/pkg/errors"
)

// ErrIndexOutOfRange is returned by MerkleTree.Branch when the requested
// leaf index is not within [0, leafCount).
var ErrIndexOutOfRange = errors.New("merkle leaf index out of range")

// HashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation.  This is a helper
// function used to aid in the generation of a merkle tree.
func HashMerkleBranches(left *Hash, right *Hash) *Hash {
	// Concatenate the left and right nodes.
	var hash [HashSize * 2]byte
	copy(hash[:HashSize], left[:])
	copy(hash[HashSize:], right[:])

	newHash := DoubleHashH(hash[:])
	return &newHash
}

// MerkleTree holds the full set of internal nodes produced by a bottom-up
// pairwise reduction of an ordered leaf sequence.  The nodes are stored as
// a flat array: the leaves first, then each successive level, ending with
// the root.  An empty leaf sequence produces an empty tree with a zero root.
//
// The tree also remembers whether a duplicate-leaf mutation was observed
// while building.  Duplicating entries of a level allows two structurally
// different leaf sequences to collide on the same root, so a mutated tree
// must be rejected for consensus purposes rather than trusted.
type MerkleTree struct {
	nodes     []Hash
	leafCount int
	mutated   bool
}

// BuildMerkleTree constructs a merkle tree from an ordered sequence of leaf
// hashes.  The last node of an odd-length level is paired with itself.  The
// resulting root depends only on the order of the leaves; no sorting is
// performed.
//
// While each level is built, byte-identical hashes held at two distinct
// positions of the level mark the tree as mutated.  The expected
// self-pairing of a single odd tail occupies one position and is not
// counted.
func BuildMerkleTree(leaves []Hash) *MerkleTree {
	tree := &MerkleTree{leafCount: len(leaves)}
	if len(leaves) == 0 {
		return tree
	}

	tree.nodes = make([]Hash, 0, merkleNodeCount(len(leaves)))
	tree.nodes = append(tree.nodes, leaves...)

	levelOffset := 0
	for levelSize := len(leaves); levelSize > 1; levelSize = (levelSize + 1) / 2 {
		level := tree.nodes[levelOffset : levelOffset+levelSize]
		if hasDuplicates(level) {
			tree.mutated = true
		}

		for i := 0; i < levelSize; i += 2 {
			i2 := i + 1
			if i2 == levelSize {
				// Odd tail, pair the last node with itself.
				i2 = i
			}
			node := HashMerkleBranches(&level[i], &level[i2])
			tree.nodes = append(tree.nodes, *node)
		}
		levelOffset += levelSize
	}

	return tree
}

// Root returns the root hash of the tree.  The root of an empty tree is the
// zero hash.
func (tree *MerkleTree) Root() Hash {
	if len(tree.nodes) == 0 {
		return ZeroHash
	}
	return tree.nodes[len(tree.nodes)-1]
}

// LeafCount returns the number of leaves the tree was built from.
func (tree *MerkleTree) LeafCount() int {
	return tree.leafCount
}

// Mutated reports whether a duplicate-leaf mutation was detected while the
// tree was built.  A mutated root is ambiguous and must not be accepted.
func (tree *MerkleTree) Mutated() bool {
	return tree.mutated
}

// Branch returns the inclusion proof for the leaf at the given index: the
// sibling hash at every level, ordered from the leaves towards the root.
// The sibling of the self-paired tail of an odd-length level is the node
// itself.
func (tree *MerkleTree) Branch(index int) ([]Hash, error) {
	if index < 0 || index >= tree.leafCount {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d, leaves %d",
			index, tree.leafCount)
	}

	branch := make([]Hash, 0, merkleDepth(tree.leafCount))
	levelOffset := 0
	for levelSize := tree.leafCount; levelSize > 1; levelSize = (levelSize + 1) / 2 {
		sibling := index ^ 1
		if sibling >= levelSize {
			sibling = levelSize - 1
		}
		branch = append(branch, tree.nodes[levelOffset+sibling])

		index >>= 1
		levelOffset += levelSize
	}

	return branch, nil
}

// CheckMerkleBranch folds a leaf hash with an inclusion proof produced by
// Branch and returns the resulting root.  The caller compares the result
// against a known root for a positive proof of inclusion.  No mutation
// detection is possible here since only the proof is available, not the
// full leaf set; detection is the duty of whoever built the original tree.
func CheckMerkleBranch(leaf Hash, branch []Hash, index int) Hash {
	hash := leaf
	for i := range branch {
		if index&1 == 0 {
			hash = *HashMerkleBranches(&hash, &branch[i])
		} else {
			hash = *HashMerkleBranches(&branch[i], &hash)
		}
		index >>= 1
	}
	return hash
}

// merkleNodeCount returns the total number of nodes of a tree with the
// given number of leaves.
func merkleNodeCount(leafCount int) int {
	count := leafCount
	for levelSize := leafCount; levelSize > 1; levelSize = (levelSize + 1) / 2 {
		count += (levelSize + 1) / 2
	}
	return count
}

// merkleDepth returns the number of reduction steps from the leaves to the
// root.
func merkleDepth(leafCount int) int {
	depth := 0
	for levelSize := leafCount; levelSize > 1; levelSize = (levelSize + 1) / 2 {
		depth++
	}
	return depth
}

func hasDuplicates(level []Hash) bool {
	if len(level) < 2 {
		return false
	}
	seen := make(map[Hash]struct{}, len(level))
	for i := range level {
		if _, ok := seen[level[i]]; ok {
			return true
		}
		seen[level[i]] = struct{}{}
	}
	return false
}

// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/michaelotis/nheqminer/types/chainhash"
)

// CodecContext selects the serialization context of entities whose encoding
// differs between wire transmission and identity hashing.
type CodecContext uint32

const (
	// ContextWire is the full encoding used for network transmission and
	// storage.
	ContextWire CodecContext = iota

	// ContextHashing is the reduced encoding used when the bytes feed a
	// hash that identifies the entity.  Fields that only matter in
	// transit, like the locator's version, are suppressed.
	ContextHashing
)

// BlockLocator describes a place in the block chain to another node.  It
// holds the hashes of known blocks, most recent first, so that a peer that
// does not share the same branch can find a recent common trunk.  The
// further back a hash is, the further before the fork it may be.
type BlockLocator struct {
	Version int32
	Hashes  []chainhash.Hash
}

// NewBlockLocator returns a locator over the given hashes with the current
// header version.
func NewBlockLocator(hashes []chainhash.Hash) *BlockLocator {
	return &BlockLocator{Version: CurrentHeaderVersion, Hashes: hashes}
}

// IsNull reports whether the locator describes no position at all.
func (l *BlockLocator) IsNull() bool {
	return len(l.Hashes) == 0
}

// SetNull removes all hashes from the locator.
func (l *BlockLocator) SetNull() {
	l.Hashes = nil
}

// Serialize encodes the locator to w.  The version field is suppressed in
// the hashing context.
func (l *BlockLocator) Serialize(w io.Writer, ctx CodecContext) error {
	if ctx != ContextHashing {
		if err := WriteElement(w, l.Version); err != nil {
			return err
		}
	}
	return WriteHashArray(w, l.Hashes)
}

// Deserialize decodes the locator from r.  The context must match the one
// the bytes were produced with.
func (l *BlockLocator) Deserialize(r io.Reader, ctx CodecContext) error {
	if ctx != ContextHashing {
		if err := ReadElement(r, &l.Version); err != nil {
			return err
		}
	}

	hashes, err := ReadHashArray(r)
	if err != nil {
		return err
	}
	l.Hashes = hashes
	return nil
}

// SerializeSize returns the number of bytes it would take to serialize the
// locator in the given context.
func (l *BlockLocator) SerializeSize(ctx CodecContext) int {
	n := VarIntSerializeSize(uint64(len(l.Hashes))) +
		len(l.Hashes)*chainhash.HashSize
	if ctx != ContextHashing {
		n += 4
	}
	return n
}

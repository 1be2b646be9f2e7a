// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/michaelotis/nheqminer/types/chainhash"
)

const (
	// CurrentHeaderVersion is the version a freshly constructed primary
	// header carries.
	CurrentHeaderVersion int32 = 4

	// PrimaryHeaderFixedPayload is the size of a primary header encoding
	// without the variable-length solution.
	// Version 4 bytes + PrevBlock, MerkleRoot, ReservedRoot hashes +
	// Timestamp 4 bytes + Bits 4 bytes + Nonce hash.
	PrimaryHeaderFixedPayload = 4 + chainhash.HashSize*3 + 4 + 4 + chainhash.HashSize

	// PrimaryEquihashInputSize is the size of the primary header's
	// Equihash input: the fixed payload truncated before the nonce.
	PrimaryEquihashInputSize = PrimaryHeaderFixedPayload - chainhash.HashSize
)

// PrimaryHeader defines information about a block of the primary chain.
// The nonce and the Equihash solution are the proof-of-work search fields;
// everything before them is the stable input the solver iterates over.
type PrimaryHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	version int32

	// Hash of the previous block header in the block chain.
	prevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	merkleRoot chainhash.Hash

	// Chain-reserved field, passed through unconditionally.
	reservedRoot chainhash.Hash

	// Time the block was created.  Encoded as uint32 seconds on the wire
	// and therefore limited to 2106.
	timestamp time.Time

	// Difficulty target for the block in compact form.
	bits uint32

	// Proof-of-work search variable.
	nonce chainhash.Hash

	// Equihash solution payload.  Its size is not fixed by the header
	// format.
	solution []byte
}

// EmptyPrimaryHeader returns a null header with the current version and all
// hashes zeroed.
func EmptyPrimaryHeader() *PrimaryHeader {
	return &PrimaryHeader{
		version:   CurrentHeaderVersion,
		timestamp: time.Unix(0, 0),
	}
}

// NewPrimaryHeader returns a new PrimaryHeader using the provided previous
// block hash, merkle root, reserved root, timestamp and difficulty bits,
// with the proof-of-work fields left for the solver to fill in.
func NewPrimaryHeader(prevBlock, merkleRoot, reservedRoot chainhash.Hash,
	timestamp time.Time, bits uint32) *PrimaryHeader {

	// Limit the timestamp to one second precision since the protocol
	// doesn't support better.
	return &PrimaryHeader{
		version:      CurrentHeaderVersion,
		prevBlock:    prevBlock,
		merkleRoot:   merkleRoot,
		reservedRoot: reservedRoot,
		timestamp:    time.Unix(timestamp.Unix(), 0),
		bits:         bits,
	}
}

func (h *PrimaryHeader) Kind() HeaderKind { return KindPrimary }

func (h *PrimaryHeader) Version() int32     { return h.version }
func (h *PrimaryHeader) SetVersion(v int32) { h.version = v }

func (h *PrimaryHeader) PrevBlock() chainhash.Hash        { return h.prevBlock }
func (h *PrimaryHeader) SetPrevBlock(hash chainhash.Hash) { h.prevBlock = hash }

func (h *PrimaryHeader) MerkleRoot() chainhash.Hash        { return h.merkleRoot }
func (h *PrimaryHeader) SetMerkleRoot(hash chainhash.Hash) { h.merkleRoot = hash }

func (h *PrimaryHeader) ReservedRoot() chainhash.Hash        { return h.reservedRoot }
func (h *PrimaryHeader) SetReservedRoot(hash chainhash.Hash) { h.reservedRoot = hash }

func (h *PrimaryHeader) Timestamp() time.Time     { return h.timestamp }
func (h *PrimaryHeader) SetTimestamp(t time.Time) { h.timestamp = time.Unix(t.Unix(), 0) }

func (h *PrimaryHeader) Bits() uint32        { return h.bits }
func (h *PrimaryHeader) SetBits(bits uint32) { h.bits = bits }

func (h *PrimaryHeader) Nonce() chainhash.Hash     { return h.nonce }
func (h *PrimaryHeader) SetNonce(n chainhash.Hash) { h.nonce = n }

func (h *PrimaryHeader) Solution() []byte {
	return h.solution
}

func (h *PrimaryHeader) SetSolution(solution []byte) {
	h.solution = make([]byte, len(solution))
	copy(h.solution, solution)
}

// IsNull reports whether the header still holds the null construction-time
// state.  A header becomes live once its difficulty bits are set.
func (h *PrimaryHeader) IsNull() bool { return h.bits == 0 }

// SetNull restores the freshly constructed state: the current version, all
// hashes zeroed and no solution.
func (h *PrimaryHeader) SetNull() {
	*h = *EmptyPrimaryHeader()
}

// BlockHash computes the block identifier hash for the given header.
func (h *PrimaryHeader) BlockHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, h.SerializeSize()))
	_ = writePrimaryHeader(buf, h)

	return chainhash.DoubleHashH(buf.Bytes())
}

// EquihashInput returns the canonical encoding of the header truncated
// before the nonce.  Mutating only the nonce or the solution never changes
// the result.
func (h *PrimaryHeader) EquihashInput() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, PrimaryEquihashInputSize))
	_ = h.WriteEquihashInput(buf)
	return buf.Bytes()
}

// WriteEquihashInput writes the Equihash input projection of the header
// to w.
func (h *PrimaryHeader) WriteEquihashInput(w io.Writer) error {
	return WriteElements(w,
		h.version,
		&h.prevBlock,
		&h.merkleRoot,
		&h.reservedRoot,
		Uint32Time(h.timestamp),
		h.bits,
	)
}

// Read decodes a primary header from r.  The same layout is used on the
// wire and on disk.
func (h *PrimaryHeader) Read(r io.Reader) error {
	return readPrimaryHeader(r, h)
}

// Write encodes a primary header to w.  The same layout is used on the
// wire and on disk.
func (h *PrimaryHeader) Write(w io.Writer) error {
	return writePrimaryHeader(w, h)
}

// SerializeSize returns the number of bytes it would take to serialize the
// header.
func (h *PrimaryHeader) SerializeSize() int {
	return PrimaryHeaderFixedPayload +
		VarIntSerializeSize(uint64(len(h.solution))) + len(h.solution)
}

// Copy creates a deep copy of the header so that the original does not get
// modified when the copy is manipulated.
func (h *PrimaryHeader) Copy() BlockHeader {
	clone := *h

	// all fields except this are passed by value
	// so we manually copy the following field to prevent side effects
	clone.solution = make([]byte, len(h.solution))
	copy(clone.solution, h.solution)
	return &clone
}

// readPrimaryHeader reads a primary block header from r.
func readPrimaryHeader(r io.Reader, bh *PrimaryHeader) error {
	var timestamp Uint32Time
	err := ReadElements(r,
		&bh.version,
		&bh.prevBlock,
		&bh.merkleRoot,
		&bh.reservedRoot,
		&timestamp,
		&bh.bits,
		&bh.nonce,
	)
	if err != nil {
		return err
	}
	bh.timestamp = time.Time(timestamp)

	bh.solution, err = ReadVarBytes(r, MaxMessagePayload, "solution")
	return err
}

// writePrimaryHeader writes a primary block header to w.
func writePrimaryHeader(w io.Writer, bh *PrimaryHeader) error {
	err := WriteElements(w,
		bh.version,
		&bh.prevBlock,
		&bh.merkleRoot,
		&bh.reservedRoot,
		Uint32Time(bh.timestamp),
		bh.bits,
		&bh.nonce,
	)
	if err != nil {
		return err
	}

	return WriteVarBytes(w, bh.solution)
}

// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/michaelotis/nheqminer/types/chainhash"
)

const (
	// AlternateHeaderFixedPayload is the size of a reduced alternate
	// header encoding without the variable-length solution.
	// HeaderHash + Nonce hashes.
	AlternateHeaderFixedPayload = chainhash.HashSize * 2

	// AlternateEquihashInputSize is the size of the alternate header's
	// Equihash input: the identity hash alone.
	AlternateEquihashInputSize = chainhash.HashSize
)

// AlternateHeader is the reduced header of the alternate chain family.  The
// chain's rich header (parent hash, state/tx/receipt roots, bloom filter,
// difficulty, timestamp, number, extra data, energy fields) is computed
// externally and stands behind the single identity hash carried here; see
// KindAlternateFull for the reserved full schema.
type AlternateHeader struct {
	// Externally computed identity hash of the full header.
	headerHash chainhash.Hash

	// Proof-of-work search variable.
	nonce chainhash.Hash

	// Equihash solution payload.
	solution []byte
}

// EmptyAlternateHeader returns a null header with all hashes zeroed.
func EmptyAlternateHeader() *AlternateHeader {
	return &AlternateHeader{}
}

// NewAlternateHeader returns a new AlternateHeader carrying the provided
// identity hash, with the proof-of-work fields left for the solver.
func NewAlternateHeader(headerHash chainhash.Hash) *AlternateHeader {
	return &AlternateHeader{headerHash: headerHash}
}

func (h *AlternateHeader) Kind() HeaderKind { return KindAlternateReduced }

func (h *AlternateHeader) HeaderHash() chainhash.Hash        { return h.headerHash }
func (h *AlternateHeader) SetHeaderHash(hash chainhash.Hash) { h.headerHash = hash }

func (h *AlternateHeader) Nonce() chainhash.Hash     { return h.nonce }
func (h *AlternateHeader) SetNonce(n chainhash.Hash) { h.nonce = n }

func (h *AlternateHeader) Solution() []byte {
	return h.solution
}

func (h *AlternateHeader) SetSolution(solution []byte) {
	h.solution = make([]byte, len(solution))
	copy(h.solution, solution)
}

// IsNull reports whether the identity hash still holds the all-zero
// sentinel.  The variant carries no liveness field like the primary
// header's bits; a zero identity hash only means "not yet assigned".
func (h *AlternateHeader) IsNull() bool { return h.headerHash.IsZero() }

// SetNull restores the freshly constructed state.
func (h *AlternateHeader) SetNull() {
	*h = AlternateHeader{}
}

// BlockHash computes the block identifier hash for the given header.
func (h *AlternateHeader) BlockHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, h.SerializeSize()))
	_ = writeAlternateHeader(buf, h)

	return chainhash.DoubleHashH(buf.Bytes())
}

// EquihashInput returns the header's identity hash, the sole input to the
// alternate chain's proof-of-work hashing.
func (h *AlternateHeader) EquihashInput() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, AlternateEquihashInputSize))
	_ = h.WriteEquihashInput(buf)
	return buf.Bytes()
}

// WriteEquihashInput writes the Equihash input projection of the header
// to w.
func (h *AlternateHeader) WriteEquihashInput(w io.Writer) error {
	return WriteElement(w, &h.headerHash)
}

// Read decodes an alternate header from r.
func (h *AlternateHeader) Read(r io.Reader) error {
	return readAlternateHeader(r, h)
}

// Write encodes an alternate header to w.
func (h *AlternateHeader) Write(w io.Writer) error {
	return writeAlternateHeader(w, h)
}

// SerializeSize returns the number of bytes it would take to serialize the
// header.
func (h *AlternateHeader) SerializeSize() int {
	return AlternateHeaderFixedPayload +
		VarIntSerializeSize(uint64(len(h.solution))) + len(h.solution)
}

// Copy creates a deep copy of the header so that the original does not get
// modified when the copy is manipulated.
func (h *AlternateHeader) Copy() BlockHeader {
	clone := *h

	clone.solution = make([]byte, len(h.solution))
	copy(clone.solution, h.solution)
	return &clone
}

// readAlternateHeader reads a reduced alternate block header from r.
func readAlternateHeader(r io.Reader, bh *AlternateHeader) error {
	err := ReadElements(r, &bh.headerHash, &bh.nonce)
	if err != nil {
		return err
	}

	bh.solution, err = ReadVarBytes(r, MaxMessagePayload, "solution")
	return err
}

// writeAlternateHeader writes a reduced alternate block header to w.
func writeAlternateHeader(w io.Writer, bh *AlternateHeader) error {
	err := WriteElements(w, &bh.headerHash, &bh.nonce)
	if err != nil {
		return err
	}

	return WriteVarBytes(w, bh.solution)
}

// AlternateBlock wraps an alternate header.  The chain's transactions live
// entirely outside this representation, so the block carries nothing else.
type AlternateBlock struct {
	Header AlternateHeader
}

// NewAlternateBlock returns a block wrapping a copy of the given header.
func NewAlternateBlock(header *AlternateHeader) *AlternateBlock {
	return &AlternateBlock{Header: *header.Copy().(*AlternateHeader)}
}

// BlockHash returns the identifier hash of the wrapped header.
func (b *AlternateBlock) BlockHash() chainhash.Hash {
	return b.Header.BlockHash()
}

// Serialize encodes the block to w.  The encoding is exactly the header's.
func (b *AlternateBlock) Serialize(w io.Writer) error {
	return b.Header.Write(w)
}

// Deserialize decodes the block from r.
func (b *AlternateBlock) Deserialize(r io.Reader) error {
	return b.Header.Read(r)
}

// SerializeSize returns the number of bytes it would take to serialize the
// block.
func (b *AlternateBlock) SerializeSize() int {
	return b.Header.SerializeSize()
}

// SetNull restores the freshly constructed state.
func (b *AlternateBlock) SetNull() {
	b.Header.SetNull()
}

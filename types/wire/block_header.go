// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/michaelotis/nheqminer/types/chainhash"
)

// HeaderKind tags the header variants of the two chain families.  The wire
// layouts carry no kind marker, so the kind always comes from context.
type HeaderKind uint8

const (
	// KindPrimary is the full proof-of-work header: version, previous
	// block, merkle root, reserved root, time, bits, nonce and solution.
	KindPrimary HeaderKind = iota

	// KindAlternateReduced is the reduced alternate-chain header that
	// carries only a precomputed identity hash plus nonce and solution.
	KindAlternateReduced

	// KindAlternateFull is reserved for the alternate chain's full schema
	// (parent hash, state/tx/receipt roots, bloom, difficulty, timestamp,
	// number, extra data, energy fields).  No codec exists for it yet.
	KindAlternateFull
)

func (k HeaderKind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindAlternateReduced:
		return "alternate-reduced"
	case KindAlternateFull:
		return "alternate-full"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// BlockHeader is the set of operations shared by the header variants.
type BlockHeader interface {
	Kind() HeaderKind

	Nonce() chainhash.Hash
	SetNonce(chainhash.Hash)

	Solution() []byte
	SetSolution([]byte)

	// BlockHash computes the hash of the full canonical encoding of the
	// header.  It is the block's identity, referenced as prevBlock by
	// descendants.
	BlockHash() chainhash.Hash

	// EquihashInput returns the canonical encoding of the header with the
	// proof-of-work search fields (nonce, solution) excluded.  The result
	// is the exact byte sequence fed to the Equihash function and is a
	// strict prefix of the full encoding, so solvers can vary only the
	// excluded fields.
	EquihashInput() []byte
	WriteEquihashInput(w io.Writer) error

	IsNull() bool
	SetNull()

	Read(r io.Reader) error
	Write(w io.Writer) error
	SerializeSize() int

	// Copy creates a deep copy of a BlockHeader so that the original does
	// not get modified when the copy is manipulated.
	Copy() BlockHeader
}

// HeaderConstructor produces empty headers of one kind so generic code can
// decode and assemble headers without knowing the concrete variant.
type HeaderConstructor interface {
	EmptyHeader() BlockHeader
	Kind() HeaderKind

	// FixedPayloadSize is the size of the encoding without the
	// variable-length solution.
	FixedPayloadSize() int
}

// PrimaryHeaderConstructor builds primary-chain headers.
type PrimaryHeaderConstructor struct{}

func (PrimaryHeaderConstructor) EmptyHeader() BlockHeader { return EmptyPrimaryHeader() }
func (PrimaryHeaderConstructor) Kind() HeaderKind         { return KindPrimary }
func (PrimaryHeaderConstructor) FixedPayloadSize() int    { return PrimaryHeaderFixedPayload }

// AlternateHeaderConstructor builds reduced alternate-chain headers.
type AlternateHeaderConstructor struct{}

func (AlternateHeaderConstructor) EmptyHeader() BlockHeader { return EmptyAlternateHeader() }
func (AlternateHeaderConstructor) Kind() HeaderKind         { return KindAlternateReduced }
func (AlternateHeaderConstructor) FixedPayloadSize() int    { return AlternateHeaderFixedPayload }

// HeaderConstructorFor returns the constructor for the given kind.
func HeaderConstructorFor(kind HeaderKind) (HeaderConstructor, error) {
	switch kind {
	case KindPrimary:
		return PrimaryHeaderConstructor{}, nil
	case KindAlternateReduced:
		return AlternateHeaderConstructor{}, nil
	default:
		return nil, Error("HeaderConstructorFor",
			fmt.Sprintf("no constructor for header kind %v", kind))
	}
}

// DecodeHeader decodes a header of the given kind from r.  The kind is
// supplied by the caller; the wire layouts are bit-stable and carry no tag.
func DecodeHeader(kind HeaderKind, r io.Reader) (BlockHeader, error) {
	constructor, err := HeaderConstructorFor(kind)
	if err != nil {
		return nil, err
	}

	h := constructor.EmptyHeader()
	if err := h.Read(r); err != nil {
		return nil, err
	}
	return h, nil
}

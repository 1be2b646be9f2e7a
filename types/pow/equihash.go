// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pow holds the boundary to the external Equihash solver and
// verifier.  The solver itself lives outside this repository; this package
// only assembles the header bytes it consumes and interprets its verdict.
package pow

import (
	"github.com/pkg/errors"

	"github.com/michaelotis/nheqminer/types/chainhash"
	"github.com/michaelotis/nheqminer/types/wire"
)

// ErrInvalidProof is returned when the external verifier rejects a header's
// nonce and solution.
var ErrInvalidProof = errors.New("equihash solution does not satisfy the header")

// Verifier is the opaque external Equihash verification function.  The
// input is a header's Equihash projection; the nonce and the solution are
// the proof-of-work search fields excluded from it.
type Verifier func(input []byte, nonce chainhash.Hash, solution []byte) bool

// CheckProof feeds the header's Equihash input together with its nonce and
// solution to the provided verifier.
func CheckProof(header wire.BlockHeader, verify Verifier) error {
	if verify == nil {
		return errors.New("no equihash verifier provided")
	}

	if !verify(header.EquihashInput(), header.Nonce(), header.Solution()) {
		return errors.Wrapf(ErrInvalidProof, "header %v", header.BlockHash())
	}
	return nil
}

// SolutionLen returns the byte length of a canonical Equihash solution for
// the parameters n and k: 2^k indices of n/(k+1)+1 bits each.  The second
// return is false when the parameters do not produce a whole number of
// bytes.
func SolutionLen(n, k uint32) (int, bool) {
	if k == 0 || k >= 32 || n%(k+1) != 0 {
		return 0, false
	}

	bits := (uint64(1) << k) * uint64(n/(k+1)+1)
	if bits%8 != 0 {
		return 0, false
	}
	return int(bits / 8), true
}

// Solution lengths of the common parameter sets.
const (
	// SolutionLen200x9 is the solution size of Equihash 200,9, the
	// parameter set both chain families mine with.
	SolutionLen200x9 = 1344

	// SolutionLen144x5 is the solution size of Equihash 144,5.
	SolutionLen144x5 = 100
)

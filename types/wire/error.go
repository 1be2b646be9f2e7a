// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrTruncatedInput is returned when a decode runs out of bytes before
	// the fields of the entity being decoded are complete.  The malformed
	// input should be discarded; the error is local and recoverable.
	ErrTruncatedInput = errors.New("unexpected end of encoded data")

	// ErrMutatedTree is returned when a block's transaction sequence
	// produces a merkle tree with a duplicate-leaf ambiguity.  The root of
	// such a tree collides with the root of a structurally different
	// transaction set, so the set must be rejected outright.
	ErrMutatedTree = errors.New("duplicate transactions mutate the merkle tree")

	// ErrInconsistentMerkleRoot is returned when the merkle root declared
	// by a block header does not match the root rebuilt from the block's
	// transaction sequence.
	ErrInconsistentMerkleRoot = errors.New("declared merkle root does not match transactions")
)

// MessageError describes an issue with an encoded entity, such as a
// non-canonical length prefix or a field that exceeds its allowed size.
// Decode errors caused by the input ending early wrap ErrTruncatedInput
// instead.
type MessageError struct {
	Func        string // Function name
	Description string // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e *MessageError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("%v: %v", e.Func, e.Description)
	}
	return e.Description
}

// Error creates an error for the given function and description.
func Error(f string, desc string) *MessageError {
	return &MessageError{Func: f, Description: desc}
}

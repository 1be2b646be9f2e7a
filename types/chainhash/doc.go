// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides abstracted hash functionality.
//
// This package provides a generic hash type and associated functions that
// allows the specific hash algorithm to be abstracted, together with the
// Merkle tree construction and verification built on top of it.
package chainhash

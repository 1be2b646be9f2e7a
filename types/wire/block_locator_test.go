// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"

	"github.com/michaelotis/nheqminer/types/chainhash"
)

func testLocatorHashes(n int) []chainhash.Hash {
	hashes := make([]chainhash.Hash, n)
	for i := range hashes {
		hashes[i] = chainhash.HashH([]byte{byte(n - i)})
	}
	return hashes
}

func TestBlockLocatorWire(t *testing.T) {
	tests := []struct {
		name    string
		locator *BlockLocator
		ctx     CodecContext
	}{
		{"empty wire", NewBlockLocator(nil), ContextWire},
		{"empty hashing", NewBlockLocator(nil), ContextHashing},
		{"single wire", NewBlockLocator(testLocatorHashes(1)), ContextWire},
		{"many wire", NewBlockLocator(testLocatorHashes(7)), ContextWire},
		{"many hashing", NewBlockLocator(testLocatorHashes(7)), ContextHashing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.locator.Serialize(&buf, tt.ctx); err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if buf.Len() != tt.locator.SerializeSize(tt.ctx) {
				t.Fatalf("SerializeSize() = %d, encoded %d",
					tt.locator.SerializeSize(tt.ctx), buf.Len())
			}

			var decoded BlockLocator
			if err := decoded.Deserialize(bytes.NewReader(buf.Bytes()), tt.ctx); err != nil {
				t.Fatalf("Deserialize: %v", err)
			}

			if tt.ctx == ContextWire && decoded.Version != tt.locator.Version {
				t.Errorf("version = %d, want %d", decoded.Version, tt.locator.Version)
			}
			if len(decoded.Hashes) != len(tt.locator.Hashes) {
				t.Fatalf("hash count = %d, want %d",
					len(decoded.Hashes), len(tt.locator.Hashes))
			}
			for i := range decoded.Hashes {
				if decoded.Hashes[i] != tt.locator.Hashes[i] {
					t.Errorf("hash %d mismatch", i)
				}
			}
		})
	}
}

// TestBlockLocatorContexts ensures the version field is carried on the wire
// and suppressed when the bytes feed an identity hash.
func TestBlockLocatorContexts(t *testing.T) {
	locator := NewBlockLocator(testLocatorHashes(3))

	var wireBuf, hashBuf bytes.Buffer
	if err := locator.Serialize(&wireBuf, ContextWire); err != nil {
		t.Fatalf("Serialize(wire): %v", err)
	}
	if err := locator.Serialize(&hashBuf, ContextHashing); err != nil {
		t.Fatalf("Serialize(hashing): %v", err)
	}

	if wireBuf.Len() != hashBuf.Len()+4 {
		t.Fatalf("wire length %d, hashing length %d: want a 4-byte version delta",
			wireBuf.Len(), hashBuf.Len())
	}
	if !bytes.Equal(wireBuf.Bytes()[4:], hashBuf.Bytes()) {
		t.Fatal("encodings differ beyond the version field")
	}
}

func TestBlockLocatorNullState(t *testing.T) {
	locator := NewBlockLocator(nil)
	if !locator.IsNull() {
		t.Error("empty locator is not null")
	}

	locator.Hashes = testLocatorHashes(1)
	if locator.IsNull() {
		t.Error("locator with a hash is still null")
	}

	locator.SetNull()
	if !locator.IsNull() {
		t.Error("SetNull did not empty the locator")
	}
}

func TestBlockLocatorTruncation(t *testing.T) {
	locator := NewBlockLocator(testLocatorHashes(2))

	for _, ctx := range []CodecContext{ContextWire, ContextHashing} {
		var buf bytes.Buffer
		if err := locator.Serialize(&buf, ctx); err != nil {
			t.Fatalf("Serialize: %v", err)
		}

		encoded := buf.Bytes()
		for size := 0; size < len(encoded); size++ {
			var decoded BlockLocator
			err := decoded.Deserialize(bytes.NewReader(encoded[:size]), ctx)
			if !errors.Is(err, ErrTruncatedInput) {
				t.Fatalf("ctx %d size %d: err = %v, want ErrTruncatedInput",
					ctx, size, err)
			}
		}
	}
}

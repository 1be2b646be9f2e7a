// Copyright (c) 2021 The nheqminer developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/michaelotis/nheqminer/types/chainhash"
)

func testAlternateHeader() *AlternateHeader {
	h := NewAlternateHeader(chainhash.HashH([]byte("rich header identity")))
	h.SetNonce(chainhash.HashH([]byte("alt nonce")))
	h.SetSolution([]byte{0x0a, 0x0b, 0x0c})
	return h
}

func TestAlternateHeaderWire(t *testing.T) {
	tests := []struct {
		name   string
		header *AlternateHeader
	}{
		{
			name:   "populated header",
			header: testAlternateHeader(),
		},
		{
			name:   "null header",
			header: EmptyAlternateHeader(),
		},
		{
			name:   "empty solution",
			header: NewAlternateHeader(chainhash.HashH([]byte("id"))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := tt.header.Write(&buf)
			assert.NoError(t, err)
			assert.Equal(t, tt.header.SerializeSize(), buf.Len())

			decoded := EmptyAlternateHeader()
			err = decoded.Read(bytes.NewReader(buf.Bytes()))
			assert.NoError(t, err)

			assert.Equal(t, tt.header.HeaderHash(), decoded.HeaderHash())
			assert.Equal(t, tt.header.Nonce(), decoded.Nonce())
			assert.True(t, bytes.Equal(tt.header.Solution(), decoded.Solution()))
			assert.Equal(t, tt.header.BlockHash(), decoded.BlockHash())
		})
	}
}

func TestAlternateHeaderLayout(t *testing.T) {
	header := testAlternateHeader()

	var buf bytes.Buffer
	if err := header.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	encoded := buf.Bytes()

	wantLen := AlternateHeaderFixedPayload + 1 + len(header.Solution())
	if len(encoded) != wantLen {
		t.Fatalf("encoded length = %d, want %d", len(encoded), wantLen)
	}

	headerHash := header.HeaderHash()
	if !bytes.Equal(encoded[0:32], headerHash[:]) {
		t.Error("headerHash bytes not verbatim")
	}
	nonce := header.Nonce()
	if !bytes.Equal(encoded[32:64], nonce[:]) {
		t.Error("nonce bytes not verbatim")
	}
	if encoded[64] != 0x03 || !bytes.Equal(encoded[65:], header.Solution()) {
		t.Errorf("solution bytes = %x", encoded[64:])
	}
}

func TestAlternateHeaderEquihashInput(t *testing.T) {
	header := testAlternateHeader()

	input := header.EquihashInput()
	if len(input) != AlternateEquihashInputSize {
		t.Fatalf("input length = %d, want %d", len(input), AlternateEquihashInputSize)
	}

	headerHash := header.HeaderHash()
	if !bytes.Equal(input, headerHash[:]) {
		t.Fatal("input is not the identity hash")
	}

	var buf bytes.Buffer
	if err := header.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(input, buf.Bytes()[:AlternateEquihashInputSize]) {
		t.Fatal("input is not a prefix of the full encoding")
	}

	header.SetNonce(chainhash.HashH([]byte("other")))
	header.SetSolution(nil)
	if !bytes.Equal(input, header.EquihashInput()) {
		t.Error("input changed with nonce/solution")
	}
}

func TestAlternateHeaderNullState(t *testing.T) {
	header := EmptyAlternateHeader()
	if !header.IsNull() {
		t.Error("freshly constructed header is not null")
	}

	// The zero identity hash is a construction-time sentinel only; any
	// assigned hash makes the header live.
	header.SetHeaderHash(chainhash.HashH([]byte("assigned")))
	if header.IsNull() {
		t.Error("header with an assigned identity hash is still null")
	}

	header.SetNull()
	if !header.IsNull() {
		t.Error("SetNull did not restore the sentinel")
	}
}

func TestAlternateHeaderTruncation(t *testing.T) {
	var buf bytes.Buffer
	if err := testAlternateHeader().Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	encoded := buf.Bytes()
	for size := 0; size < len(encoded); size++ {
		err := EmptyAlternateHeader().Read(bytes.NewReader(encoded[:size]))
		if !errors.Is(err, ErrTruncatedInput) {
			t.Fatalf("size %d: err = %v, want ErrTruncatedInput", size, err)
		}
	}
}

func TestAlternateBlockWire(t *testing.T) {
	block := NewAlternateBlock(testAlternateHeader())

	var buf bytes.Buffer
	if err := block.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if buf.Len() != block.SerializeSize() {
		t.Fatalf("SerializeSize() = %d, encoded %d", block.SerializeSize(), buf.Len())
	}

	// The block encoding is exactly the header encoding: the alternate
	// chain keeps its transactions outside this representation.
	var headerBuf bytes.Buffer
	if err := block.Header.Write(&headerBuf); err != nil {
		t.Fatalf("header Write: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), headerBuf.Bytes()) {
		t.Fatal("block encoding differs from header encoding")
	}

	var decoded AlternateBlock
	if err := decoded.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if decoded.BlockHash() != block.BlockHash() {
		t.Error("round trip changed the block hash")
	}
}

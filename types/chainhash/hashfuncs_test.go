// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainhash

import (
	"bytes"
	"testing"
)

func TestHashBLength(t *testing.T) {
	out := HashB([]byte("cuckoo"))
	if len(out) != HashSize {
		t.Fatalf("got length %d, want %d", len(out), HashSize)
	}
}

func TestDoubleHashMatchesTwoSingleHashes(t *testing.T) {
	data := []byte("jaxcore pow core")
	want := HashB(HashB(data))
	got := DoubleHashB(data)
	if !bytes.Equal(got, want) {
		t.Fatalf("DoubleHashB = %x, want %x", got, want)
	}
}

func TestDoubleHashHMatchesDoubleHashB(t *testing.T) {
	data := []byte("genesis")
	want := DoubleHashB(data)
	got := DoubleHashH(data)
	if !bytes.Equal(got[:], want) {
		t.Fatalf("DoubleHashH = %x, want %x", got[:], want)
	}
}

func TestHashHDeterministic(t *testing.T) {
	data := []byte("same input")
	if HashH(data) != HashH(data) {
		t.Fatal("HashH should be deterministic for identical input")
	}
}

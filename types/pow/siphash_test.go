// Copyright (c) 2013-2016 John Tromp
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import "testing"

func TestHash24Deterministic(t *testing.T) {
	key := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	keys := NewSipKeys(key)
	a := keys.Hash24(42)
	b := keys.Hash24(42)
	if a != b {
		t.Fatalf("Hash24 not deterministic: %d != %d", a, b)
	}
}

func TestHash24VariesWithNonce(t *testing.T) {
	key := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	keys := NewSipKeys(key)
	seen := make(map[uint64]bool)
	for n := uint64(0); n < 64; n++ {
		h := keys.Hash24(n)
		if seen[h] {
			t.Fatalf("collision at nonce %d: %d repeated", n, h)
		}
		seen[h] = true
	}
}

func TestHash24VariesWithKey(t *testing.T) {
	keyA := NewSipKeys([16]byte{1})
	keyB := NewSipKeys([16]byte{2})
	if keyA.Hash24(0) == keyB.Hash24(0) {
		t.Fatalf("different keys produced the same digest")
	}
}

func TestSipNodePartitionBit(t *testing.T) {
	keys := NewSipKeys([16]byte{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7})
	edgemask := uint64(1<<20 - 1)
	u := sipNode(keys, 5, 0, edgemask)
	v := sipNode(keys, 5, 1, edgemask)
	if u&1 != 0 {
		t.Fatalf("U-partition node id %d has low bit set", u)
	}
	if v&1 != 1 {
		t.Fatalf("V-partition node id %d has low bit clear", v)
	}
	if u == v {
		t.Fatalf("U and V endpoints for the same nonce coincide: %d", u)
	}
}

func TestSipNodeWithinEdgemask(t *testing.T) {
	keys := NewSipKeys([16]byte{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3})
	edgebits := uint(12)
	edgemask := uint64(1<<edgebits) - 1
	for n := uint64(0); n < 256; n++ {
		u := sipNode(keys, n, 0, edgemask)
		if (u>>1) > edgemask {
			t.Fatalf("node id %d exceeds edgemask %d for nonce %d", u, edgemask, n)
		}
	}
}

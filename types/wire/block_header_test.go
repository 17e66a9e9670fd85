// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"testing"
	"time"

	"github.com/cuckoofork/jaxcore/types/chainhash"
)

func sampleHeader() *BlockHeader {
	return &BlockHeader{
		Version:    1,
		PrevBlock:  chainhash.Hash{1, 2, 3},
		MerkleRoot: chainhash.Hash{4, 5, 6},
		Timestamp:  time.Unix(1600000000, 0),
		Bits:       0x1d00ffff,
		Nonce:      12345,
	}
}

func TestIsCuckooPoW(t *testing.T) {
	h := sampleHeader()
	if h.IsCuckooPoW() {
		t.Fatal("plain version should not be cuckoo PoW")
	}
	h.Version |= CuckooHardforkVersionBit
	if !h.IsCuckooPoW() {
		t.Fatal("version with hardfork bit set should be cuckoo PoW")
	}
}

func TestBlockHashDeterministic(t *testing.T) {
	h := sampleHeader()
	a := h.BlockHash()
	b := h.BlockHash()
	if a != b {
		t.Fatalf("BlockHash not deterministic: %s != %s", a, b)
	}
}

func TestBlockHashSensitiveToNonce(t *testing.T) {
	h1 := sampleHeader()
	h2 := sampleHeader()
	h2.Nonce++
	if h1.BlockHash() == h2.BlockHash() {
		t.Fatal("changing the nonce should change the block hash")
	}
}

func TestCuckooKeyExcludesProof(t *testing.T) {
	h1 := sampleHeader()
	h2 := sampleHeader()
	h2.CuckooProof[0] = 7
	if h1.CuckooKey() != h2.CuckooKey() {
		t.Fatal("CuckooKey must not depend on CuckooProof contents")
	}
}

func TestCanonical80Length(t *testing.T) {
	h := sampleHeader()
	buf := h.Canonical80()
	if len(buf) != 80 {
		t.Fatalf("got length %d, want 80", len(buf))
	}
}

// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire defines the block header the proof-of-work core validates.
// It carries only the fields the core needs to hash and check PoW against;
// it is not a full wire protocol package.
package wire

import (
	"encoding/binary"
	"time"

	"github.com/cuckoofork/jaxcore/types/chainhash"
)

// headerPrefixSize is the length, in bytes, of the canonical pre-Cuckoo
// block header: 4 (version) + 32 (prev hash) + 32 (merkle root) + 4 (time)
// + 4 (bits) + 4 (nonce).
const headerPrefixSize = 4 + chainhash.HashSize + chainhash.HashSize + 4 + 4 + 4

// CuckooProofSize is the number of edge nonces in a Cuckoo Cycle proof.
// It must match pow.ProofSize; the two packages each define it locally to
// avoid a dependency cycle between the header type and the algorithm that
// verifies it.
const CuckooProofSize = 42

// CuckooHardforkVersionBit marks a header as carrying a Cuckoo Cycle proof
// rather than a plain nonce-search proof. It is set in the high bit of
// Version once a chain has crossed its CuckooHardforkHeight.
const CuckooHardforkVersionBit = int32(-1) << 31

// BlockHeader is the set of fields validated by the proof-of-work core.
type BlockHeader struct {
	// Version holds the block version plus, once set, the
	// CuckooHardforkVersionBit marking a Cuckoo Cycle proof.
	Version int32

	// PrevBlock is the hash of the previous block header in the chain.
	PrevBlock chainhash.Hash

	// MerkleRoot is the merkle tree reference to the hash of all
	// transactions for the block.
	MerkleRoot chainhash.Hash

	// Timestamp is the time the block was created, encoded on the wire
	// as a uint32 Unix timestamp.
	Timestamp time.Time

	// Bits is the compact-encoded difficulty target for the block.
	Bits uint32

	// Nonce is the value miners increment while searching for a valid
	// pre-fork (non-Cuckoo) proof of work.
	Nonce uint32

	// CuckooProof holds the 42 strictly-ascending edge nonces of a
	// Cuckoo Cycle proof. It is only meaningful when IsCuckooPoW is true.
	CuckooProof [CuckooProofSize]uint32
}

// IsCuckooPoW reports whether this header carries a Cuckoo Cycle proof
// rather than a plain-nonce proof.
func (h *BlockHeader) IsCuckooPoW() bool {
	return h.Version&CuckooHardforkVersionBit != 0
}

// Canonical80 serializes the 80-byte pre-Cuckoo header prefix in Bitcoin's
// little-endian wire order. The Cuckoo proof, when present, is not part of
// this prefix — it is appended separately on the wire and is not part of
// the hash compared against the difficulty target.
func (h *BlockHeader) Canonical80() [headerPrefixSize]byte {
	var buf [headerPrefixSize]byte

	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Version))
	copy(buf[4:4+chainhash.HashSize], h.PrevBlock[:])
	offset := 4 + chainhash.HashSize
	copy(buf[offset:offset+chainhash.HashSize], h.MerkleRoot[:])
	offset += chainhash.HashSize
	binary.LittleEndian.PutUint32(buf[offset:offset+4], uint32(h.Timestamp.Unix()))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:offset+4], h.Bits)
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:offset+4], h.Nonce)

	return buf
}

// BlockHash computes the double-SHA-256 hash of the canonical 80-byte
// header prefix. This is the hash compared against the difficulty target
// for every header, cuckoo or not — the cuckoo proof itself is validated
// separately and is not folded into this hash.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	prefix := h.Canonical80()
	return chainhash.DoubleHashH(prefix[:])
}

// CuckooKey returns the single-SHA-256 digest of the canonical header
// prefix. The first 16 bytes seed the SipHash keystream that derives the
// Cuckoo Cycle graph's edges; the full 32 bytes are retained in case a
// future PoW variant wants more keying material.
func (h *BlockHeader) CuckooKey() [32]byte {
	prefix := h.Canonical80()
	return sha256Array(chainhash.HashB(prefix[:]))
}

func sha256Array(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}

// Copyright (c) 2013-2016 John Tromp
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import "encoding/binary"

// siphash key/finalization constants, identical across every Cuckoo Cycle
// implementation derived from John Tromp's reference miner.
const (
	sipKeyK0Const uint64 = 0x736f6d6570736575
	sipKeyK1Const uint64 = 0x646f72616e646f6d
	sipKeyK2Const uint64 = 0x6c7967656e657261
	sipKeyK3Const uint64 = 0x7465646279746573
)

// SipKeys holds the two 64-bit words derived from the 16-byte key material
// that seeds the per-edge SipHash-2-4 keystream.
type SipKeys struct {
	k0, k1 uint64
}

// NewSipKeys interprets buf as two little-endian 64-bit words k0, k1. buf
// is typically the first 16 bytes of a header's SHA-256 digest.
func NewSipKeys(buf [16]byte) SipKeys {
	return SipKeys{
		k0: binary.LittleEndian.Uint64(buf[0:8]),
		k1: binary.LittleEndian.Uint64(buf[8:16]),
	}
}

func rotl(x uint64, b uint) uint64 {
	return (x << b) | (x >> (64 - b))
}

// sipRound performs one SipHash compression round over the four working
// words, mutating them in place.
func sipRound(v0, v1, v2, v3 *uint64) {
	*v0 += *v1
	*v2 += *v3
	*v1 = rotl(*v1, 13)
	*v3 = rotl(*v3, 16)
	*v1 ^= *v0
	*v3 ^= *v2
	*v0 = rotl(*v0, 32)
	*v2 += *v1
	*v0 += *v3
	*v1 = rotl(*v1, 17)
	*v3 = rotl(*v3, 21)
	*v1 ^= *v2
	*v3 ^= *v0
	*v2 = rotl(*v2, 32)
}

// Hash24 computes SipHash-2-4 over the 8-byte little-endian encoding of
// nonce: 2 compression rounds, then 0xff XORed into v2, then 4 finalization
// rounds. This is the fixed single-block, no-length-suffix construction
// used throughout the Cuckoo Cycle literature to derive graph edges — not
// the variable-length, length-padded construction implemented by generic
// keyed-hash libraries (see DESIGN.md for why this is hand-rolled instead
// of built on a general-purpose SipHash package).
func (k SipKeys) Hash24(nonce uint64) uint64 {
	v0 := k.k0 ^ sipKeyK0Const
	v1 := k.k1 ^ sipKeyK1Const
	v2 := k.k0 ^ sipKeyK2Const
	v3 := k.k1 ^ sipKeyK3Const ^ nonce

	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)

	v0 ^= nonce
	v2 ^= 0xff

	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)

	return (v0 ^ v1) ^ (v2 ^ v3)
}

// sipNode computes the node identifier for one endpoint of the edge
// identified by nonce. uorv selects which of the two bipartite partitions
// (U=0, V=1) the endpoint belongs to; the selector is folded both into the
// siphash input (2*nonce+uorv) and into the low bit of the resulting node
// id, which is how the graph is made implicitly bipartite.
func sipNode(keys SipKeys, nonce uint64, uorv uint64, edgemask uint64) uint64 {
	h := keys.Hash24(2*nonce + uorv)
	return ((h & edgemask) << 1) | uorv
}

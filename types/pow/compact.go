// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pow implements the consensus-critical proof-of-work primitives:
// the compact ("nBits") 256-bit target encoding, the Cuckoo Cycle edge
// derivation and cycle verifier, and the top-level header PoW check.
package pow

import (
	"math/big"

	"github.com/cuckoofork/jaxcore/types/chainhash"
)

var (
	// bigOne is 1 represented as a big.Int. It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// oneLsh256 is 1 shifted left 256 bits, i.e. 2^256. It is the
	// numerator of the work calculation in CalcWork.
	oneLsh256 = new(big.Int).Lsh(bigOne, 256)
)

// HashToBig converts a chainhash.Hash into a big.Int that can be used to
// perform math comparisons.
//
// A Hash is stored internally as a byte array in little-endian order, but
// the big package wants the bytes in big-endian order, so the bytes are
// reversed before use.
func HashToBig(hash *chainhash.Hash) *big.Int {
	buf := *hash
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}

	return new(big.Int).SetBytes(buf[:])
}

// CompactToBig converts the unsigned 32-bit compact representation of a
// whole number N to a big.Int. The representation is similar to IEEE754 floating
// point numbers.
//
// Like IEEE754 floating point, there are three basic components: the sign,
// the exponent, and the mantissa. They are broken out as follows:
//
//	* the most significant 8 bits represent the unsigned base 256 exponent
//	* bit 23 (the 24th bit) represents the sign bit
//	* the least significant 23 bits represent the mantissa
//
//	-------------------------------------------------
//	|   Exponent     |    Sign    |    Mantissa     |
//	-------------------------------------------------
//	| 8 bits [31-24] | 1 bit [23] | 23 bits [22-00] |
//	-------------------------------------------------
//
// The formula to calculate N is:
//
//	N = (-1^sign) * mantissa * 256^(exponent-3)
//
// This compact form is only used to encode unsigned 256-bit numbers which
// represent difficulty targets, thus there really is not a need for a sign
// bit, but it is implemented here to stay consistent with bitcoind.
func CompactToBig(compact uint32) *big.Int {
	n, _, _ := CompactToBigExt(compact)
	return n
}

// CompactToBigExt behaves like CompactToBig but additionally reports
// whether the sign bit was set (negative) and whether the decoded exponent
// pushes the mantissa past the 256-bit range (overflow). These two flags
// are part of the consensus contract: a decoded target that is negative,
// zero, or overflowing must always be rejected by callers, never silently
// clamped.
func CompactToBigExt(compact uint32) (n *big.Int, negative bool, overflow bool) {
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := uint(compact >> 24)

	// Since the base for the exponent is 256, the exponent can be treated
	// as the number of bytes to represent the full 256-bit number. So,
	// treat the exponent as the number of bytes and shift the mantissa
	// right or left accordingly. This is equivalent to:
	// N = mantissa * 256^(exponent-3)
	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, 8*(exponent-3))
	}

	if isNegative {
		bn = bn.Neg(bn)
	}

	overflow = mantissa != 0 &&
		((exponent > 34) ||
			(mantissa > 0xff && exponent > 33) ||
			(mantissa > 0xffff && exponent > 32))

	return bn, isNegative, overflow
}

// BigToCompact converts a whole number N to a compact representation using
// an unsigned 32-bit number. The compact representation only provides 23
// bits of precision, so values larger than (2^23 - 1) only encode the most
// significant digits of the number. See CompactToBig for details.
func BigToCompact(n *big.Int) uint32 {
	// No need to do any work if it's zero.
	if n.Sign() == 0 {
		return 0
	}

	// Since the base for the exponent is 256, the exponent can be treated
	// as the number of bytes. So, shift the number right or left
	// accordingly. This is equivalent to: mantissa = mantissa / 256^(exponent-3)
	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	// When the mantissa already has the sign bit set, the number is too
	// large to fit into the available 23-bits, so divide the number by
	// 256 and increment the exponent accordingly.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	// Pack the exponent, sign bit, and mantissa into an unsigned 32-bit
	// int and return it.
	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// CalcWork calculates a work value from difficulty bits. Bitcoin increases
// the difficulty for generating a block by decreasing the value which the
// generated hash must be less than. This difficulty target is stored in
// each block header using a compact representation as described in the
// documentation for CompactToBig. The main chain is selected by choosing
// the chain that has the most proof of work (PoW) since the genesis block
// and in order to quickly determine which chain is the best chain, each
// block keeps track of its cumulative amount of work in the chain up to and
// including that block.
func CalcWork(bits uint32) *big.Int {
	// Return a work value of zero if the passed difficulty bits represent
	// a negative number. Note this should not happen in practice with
	// valid blocks, but an invalid block could trigger it.
	difficultyNum, negative, _ := CompactToBigExt(bits)
	if difficultyNum.Sign() <= 0 || negative {
		return big.NewInt(0)
	}

	// The workValue is (1 << 256) / (difficultyNum + 1), computed
	// directly with integer division.
	denominator := new(big.Int).Add(difficultyNum, bigOne)
	return new(big.Int).Div(oneLsh256, denominator)
}

// IsValidTarget reports whether the decoded target value honors the
// consensus range constraints: non-negative, non-zero, non-overflowing,
// and no larger than limit.
func IsValidTarget(target *big.Int, negative, overflow bool, limit *big.Int) bool {
	if negative || overflow {
		return false
	}
	if target.Sign() == 0 {
		return false
	}
	return target.Cmp(limit) <= 0
}

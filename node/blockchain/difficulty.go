// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain implements the difficulty retargeting rules that sit
// above the proof-of-work primitives in types/pow: given a chain tip and
// the consensus parameters in effect, it computes the bits the next block
// must satisfy.
package blockchain

import (
	"math/big"
	"time"

	"github.com/pkg/errors"

	"github.com/cuckoofork/jaxcore/types/blocknode"
	"github.com/cuckoofork/jaxcore/types/chaincfg"
	"github.com/cuckoofork/jaxcore/types/pow"
)

// emergencyRetargetLookback is how many blocks back of the tip the
// emergency retarget rule looks to find its comparison ancestor.
const emergencyRetargetLookback = 6

// emergencyRetargetWindow is how many multiples of PowTargetSpacing must
// have elapsed, per median time, before the emergency retarget triggers.
const emergencyRetargetWindow = 36

// Retargeter computes the proof-of-work difficulty required for the next
// block. It holds no state of its own; every decision is a pure function
// of the supplied tip and parameters.
type Retargeter struct{}

// NextRequiredBits calculates the compact difficulty bits required for a
// block built on top of tip, to be timestamped nextHeaderTime. tip may be
// nil to request the genesis block's bits.
func (Retargeter) NextRequiredBits(tip *blocknode.ChainIndexEntry, nextHeaderTime time.Time, params *chaincfg.ConsensusParams) (uint32, error) {
	if tip == nil {
		return params.ActivePowLimitBits(0), nil
	}

	height := tip.Height() + 1
	interval := params.DifficultyAdjustmentInterval()
	activeLimit := params.ActivePowLimit(int64(height))
	activeLimitBits := params.ActivePowLimitBits(int64(height))

	if int64(height)%interval != 0 {
		return nextBitsNonBoundary(tip, nextHeaderTime, height, activeLimitBits, params)
	}

	if int64(height) == params.CuckooHardforkHeight {
		log.Debug().Int32("height", height).Msg("cuckoo hardfork reset to active pow limit")
		return activeLimitBits, nil
	}

	return retargetAtBoundary(tip, interval, activeLimit, params)
}

// nextBitsNonBoundary implements §4.6 Case A: the block is not at a
// difficulty-retarget interval boundary.
func nextBitsNonBoundary(tip *blocknode.ChainIndexEntry, nextHeaderTime time.Time, height int32, activeLimitBits uint32, params *chaincfg.ConsensusParams) (uint32, error) {
	if params.PowAllowMinDifficultyBlocks {
		maxGap := time.Duration(2) * params.PowTargetSpacing
		if nextHeaderTime.After(tip.Timestamp().Add(maxGap)) {
			return activeLimitBits, nil
		}
		return findPrevNonMinDifficultyBits(tip, int32(params.DifficultyAdjustmentInterval()), activeLimitBits), nil
	}

	if int64(height) > params.CuckooHardforkHeight && tip.Bits() != activeLimitBits {
		if bits, ok, err := emergencyRetarget(tip, height, params); err != nil {
			return 0, err
		} else if ok {
			return bits, nil
		}
	}

	return tip.Bits(), nil
}

// findPrevNonMinDifficultyBits walks back from tip looking for the most
// recent ancestor that is either on an interval boundary or did not have
// the minimum-difficulty rule applied, mirroring the testnet rule that a
// min-difficulty block should not itself seed the next non-boundary block.
func findPrevNonMinDifficultyBits(tip *blocknode.ChainIndexEntry, interval int32, minDifficultyBits uint32) uint32 {
	n := tip
	for n != nil && n.Height()%interval != 0 && n.Bits() == minDifficultyBits {
		n = n.Parent()
	}
	if n == nil {
		return minDifficultyBits
	}
	return n.Bits()
}

// emergencyRetarget implements the post-fork emergency retarget: if the
// chain has gone unusually slow (median time gap over 36 block spacings
// against an ancestor 7 blocks back with the same bits), ease the target
// halfway back toward the last block that was actually harder.
func emergencyRetarget(tip *blocknode.ChainIndexEntry, height int32, params *chaincfg.ConsensusParams) (uint32, bool, error) {
	anc := tip.Ancestor(height - 1 - emergencyRetargetLookback)
	if anc == nil {
		return 0, false, nil
	}
	if anc.Bits() != tip.Bits() {
		return 0, false, nil
	}

	gap := tip.CalcPastMedianTime().Sub(anc.CalcPastMedianTime())
	if gap <= params.PowTargetSpacing*emergencyRetargetWindow {
		return 0, false, nil
	}

	tipTarget := pow.CompactToBig(tip.Bits())

	prev := anc
	for prev != nil {
		prevTarget := pow.CompactToBig(prev.Bits())
		if prevTarget.Cmp(tipTarget) > 0 {
			break
		}
		prev = prev.Parent()
	}
	if prev == nil {
		return 0, false, errors.New("emergency retarget: no ancestor with a strictly easier target")
	}

	prevTarget := pow.CompactToBig(prev.Bits())
	halfway := new(big.Int).Add(tipTarget, prevTarget)
	halfway.Div(halfway, big.NewInt(2))

	bits := pow.BigToCompact(halfway)
	log.Debug().Int32("height", height).Str("halfwayTarget", halfway.Text(16)).
		Msg("emergency retarget applied")
	return bits, true, nil
}

// retargetAtBoundary implements §4.6 Case C: an ordinary retarget at an
// interval boundary.
func retargetAtBoundary(tip *blocknode.ChainIndexEntry, interval int64, activeLimit *big.Int, params *chaincfg.ConsensusParams) (uint32, error) {
	if params.PowNoRetargeting {
		return tip.Bits(), nil
	}

	first := tip.Ancestor(tip.Height() - int32(interval-1))
	if first == nil {
		return 0, errors.New("retargetAtBoundary: unable to obtain previous retarget block")
	}

	actual := tip.Timestamp().Sub(first.Timestamp())
	minSpan := params.PowTargetTimespan / 4
	maxSpan := params.PowTargetTimespan * 4
	switch {
	case actual < minSpan:
		actual = minSpan
	case actual > maxSpan:
		actual = maxSpan
	}

	oldTarget := pow.CompactToBig(tip.Bits())
	newTarget := new(big.Int).Mul(oldTarget, big.NewInt(int64(actual)))
	newTarget.Div(newTarget, big.NewInt(int64(params.PowTargetTimespan)))

	if newTarget.Cmp(activeLimit) > 0 {
		newTarget.Set(activeLimit)
	}

	newBits := pow.BigToCompact(newTarget)
	log.Debug().
		Str("oldTarget", oldTarget.Text(16)).
		Str("newTarget", newTarget.Text(16)).
		Dur("actualTimespan", actual).
		Dur("targetTimespan", params.PowTargetTimespan).
		Msg("difficulty retarget")

	return newBits, nil
}

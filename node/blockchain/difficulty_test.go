// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/cuckoofork/jaxcore/types/blocknode"
	"github.com/cuckoofork/jaxcore/types/chaincfg"
	"github.com/cuckoofork/jaxcore/types/pow"
	"github.com/cuckoofork/jaxcore/types/wire"
)

// dumpOnFailure registers a cleanup that spews the tip entry's fields if
// the test has failed by the time it runs, giving a failing retarget test
// a readable fixture dump instead of a bare bits mismatch.
func dumpOnFailure(t *testing.T, tip *blocknode.ChainIndexEntry) {
	t.Helper()
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("tip fixture:\n%s", spew.Sdump(tip))
		}
	})
}

// testParams returns a small, easy-to-reason-about parameter set: a
// 10-block retarget interval (10s spacing, 100s timespan) with the
// Cuckoo hard fork far in the future, so ordinary-retarget tests aren't
// also exercising fork-boundary behavior.
func testParams() chaincfg.ConsensusParams {
	p := chaincfg.ConsensusParams{
		Name:                 "unit-test",
		PowLimitBits:         0x1d00ffff,
		CuckooPowLimitBits:   0x1d00ffff,
		PowTargetTimespan:    100 * time.Second,
		PowTargetSpacing:     10 * time.Second,
		CuckooHardforkHeight: 1_000_000,
	}
	p.PowLimit = pow.CompactToBig(p.PowLimitBits)
	p.CuckooPowLimit = pow.CompactToBig(p.CuckooPowLimitBits)
	return p
}

func buildChain(n int, spacing time.Duration, bits uint32) *blocknode.ChainIndexEntry {
	var parent *blocknode.ChainIndexEntry
	base := time.Unix(1_600_000_000, 0)
	for i := 0; i < n; i++ {
		header := &wire.BlockHeader{
			Bits:      bits,
			Timestamp: base.Add(time.Duration(i) * spacing),
		}
		parent = blocknode.NewChainIndexEntry(header, parent)
	}
	return parent
}

// buildChainSchedule builds a chain whose bits and timestamps are given
// explicitly per height, for tests that need a non-uniform history (a
// bits transition or an irregular block-time gap) rather than a single
// repeated spacing/bits pair.
func buildChainSchedule(bits []uint32, unixTimestamps []int64) *blocknode.ChainIndexEntry {
	var parent *blocknode.ChainIndexEntry
	for i := range bits {
		header := &wire.BlockHeader{
			Bits:      bits[i],
			Timestamp: time.Unix(unixTimestamps[i], 0),
		}
		parent = blocknode.NewChainIndexEntry(header, parent)
	}
	return parent
}

func TestNextRequiredBits_Genesis(t *testing.T) {
	params := testParams()
	bits, err := Retargeter{}.NextRequiredBits(nil, time.Unix(0, 0), &params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bits != params.PowLimitBits {
		t.Fatalf("got %08x, want %08x", bits, params.PowLimitBits)
	}
}

func TestNextRequiredBits_NonBoundaryUnchanged(t *testing.T) {
	params := testParams()
	// 5 blocks (heights 0..4), next height = 5, interval = 10: not a
	// boundary, and PowAllowMinDifficultyBlocks/emergency retarget don't
	// apply, so the bits should simply carry forward.
	tip := buildChain(5, 10*time.Second, 0x1c00ffff)
	bits, err := Retargeter{}.NextRequiredBits(tip, tip.Timestamp().Add(10*time.Second), &params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bits != tip.Bits() {
		t.Fatalf("got %08x, want unchanged %08x", bits, tip.Bits())
	}
}

func TestNextRequiredBits_AllowMinDifficultyAfterGap(t *testing.T) {
	params := testParams()
	params.PowAllowMinDifficultyBlocks = true
	tip := buildChain(5, 10*time.Second, 0x1c00ffff)

	// More than 2*PowTargetSpacing after the tip's time triggers minimum
	// difficulty.
	nextTime := tip.Timestamp().Add(3 * params.PowTargetSpacing)
	bits, err := Retargeter{}.NextRequiredBits(tip, nextTime, &params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bits != params.PowLimitBits {
		t.Fatalf("got %08x, want min-difficulty %08x", bits, params.PowLimitBits)
	}
}

func TestNextRequiredBits_OrdinaryRetarget(t *testing.T) {
	params := testParams()
	// 10 blocks (heights 0..9) spaced exactly at target spacing: next
	// height = 10, which is an interval boundary (10 % 10 == 0).
	tip := buildChain(10, 10*time.Second, 0x1d00ffff)
	dumpOnFailure(t, tip)

	bits, err := Retargeter{}.NextRequiredBits(tip, tip.Timestamp().Add(10*time.Second), &params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// actual = 90s, within [25s, 400s], so no clamping: new = old * 90 / 100.
	oldTarget := pow.CompactToBig(0x1d00ffff)
	expected := new(big.Int).Mul(oldTarget, big.NewInt(90))
	expected.Div(expected, big.NewInt(100))
	wantBits := pow.BigToCompact(expected)

	if bits != wantBits {
		t.Fatalf("got %08x, want %08x", bits, wantBits)
	}
}

func TestNextRequiredBits_ClampsToMinTimespan(t *testing.T) {
	params := testParams()
	// 1-second spacing over 9 gaps = 9s actual, clamped to the 25s floor
	// (PowTargetTimespan/4).
	tip := buildChain(10, 1*time.Second, 0x1d00ffff)

	bits, err := Retargeter{}.NextRequiredBits(tip, tip.Timestamp().Add(10*time.Second), &params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	oldTarget := pow.CompactToBig(0x1d00ffff)
	expected := new(big.Int).Mul(oldTarget, big.NewInt(25))
	expected.Div(expected, big.NewInt(100))
	wantBits := pow.BigToCompact(expected)

	if bits != wantBits {
		t.Fatalf("got %08x, want %08x (clamped to min timespan)", bits, wantBits)
	}
}

func TestNextRequiredBits_NoRetargeting(t *testing.T) {
	params := testParams()
	params.PowNoRetargeting = true
	tip := buildChain(10, 10*time.Second, 0x1d00ffff)

	bits, err := Retargeter{}.NextRequiredBits(tip, tip.Timestamp().Add(10*time.Second), &params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bits != tip.Bits() {
		t.Fatalf("got %08x, want unchanged %08x under PowNoRetargeting", bits, tip.Bits())
	}
}

func TestNextRequiredBits_FindPrevNonMinDifficultyWalksBackToNonMinBlock(t *testing.T) {
	params := testParams()
	params.PowAllowMinDifficultyBlocks = true

	const nonMinBits = 0x1c00ffff
	const minBits = 0x1d00ffff // == params.PowLimitBits, the active limit

	// Heights 0-3 sit at nonMinBits; 4-8 are minimum-difficulty blocks
	// produced under the long-gap rule. Height 8 is not an interval
	// boundary (interval is 10), so the walk-back must skip every
	// min-difficulty block and land on height 3's bits rather than
	// stopping at the first ancestor it sees.
	bits := []uint32{nonMinBits, nonMinBits, nonMinBits, nonMinBits, minBits, minBits, minBits, minBits, minBits}
	timestamps := make([]int64, len(bits))
	for i := range timestamps {
		timestamps[i] = 1_600_000_000 + int64(10*i)
	}
	tip := buildChainSchedule(bits, timestamps)
	dumpOnFailure(t, tip)

	// Within the 2*PowTargetSpacing gap, so the min-difficulty shortcut
	// does not fire and findPrevNonMinDifficultyBits is actually reached.
	nextTime := tip.Timestamp().Add(params.PowTargetSpacing)
	got, err := Retargeter{}.NextRequiredBits(tip, nextTime, &params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nonMinBits {
		t.Fatalf("got %08x, want walk-back result %08x", got, nonMinBits)
	}
}

func TestNextRequiredBits_EmergencyRetarget(t *testing.T) {
	params := testParams()
	params.CuckooHardforkHeight = 5

	const easyBits = 0x1d00ffff // larger target: easier
	const hardBits = 0x1c00ffff // smaller target: harder, tip's bits

	// Heights 0-9 are pre-fork-interesting easy blocks at uniform 10s
	// spacing; heights 10-20 carry the tip's (harder) bits, with the
	// spacing widening sharply from height 15 onward so the tip's past
	// median time drifts far ahead of the ancestor 7 blocks back.
	const n = 21
	bits := make([]uint32, n)
	timestamps := make([]int64, n)
	for i := 0; i < n; i++ {
		if i <= 9 {
			bits[i] = easyBits
		} else {
			bits[i] = hardBits
		}
		switch {
		case i <= 14:
			timestamps[i] = int64(10 * i)
		default:
			timestamps[i] = 140 + int64(400*(i-14))
		}
	}
	tip := buildChainSchedule(bits, timestamps)
	dumpOnFailure(t, tip)

	// height = tip.Height()+1 = 21, not an interval boundary (21%10 !=
	// 0) and past the hard fork, so nextBitsNonBoundary falls through to
	// emergencyRetarget rather than the min-difficulty shortcut.
	got, err := Retargeter{}.NextRequiredBits(tip, tip.Timestamp().Add(params.PowTargetSpacing), &params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tipTarget := pow.CompactToBig(hardBits)
	prevTarget := pow.CompactToBig(easyBits)
	halfway := new(big.Int).Add(tipTarget, prevTarget)
	halfway.Div(halfway, big.NewInt(2))
	want := pow.BigToCompact(halfway)

	if got != want {
		t.Fatalf("got %08x, want halfway-easier %08x", got, want)
	}
	if got == hardBits {
		t.Fatalf("emergency retarget left the target unchanged")
	}
}

func TestNextRequiredBits_ForkReset(t *testing.T) {
	params := testParams()
	params.CuckooHardforkHeight = 10 // matches the boundary reached below
	tip := buildChain(10, 10*time.Second, 0x1d00ffff)

	bits, err := Retargeter{}.NextRequiredBits(tip, tip.Timestamp().Add(10*time.Second), &params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bits != params.ActivePowLimitBits(10) {
		t.Fatalf("got %08x, want fork-reset limit %08x", bits, params.ActivePowLimitBits(10))
	}
}

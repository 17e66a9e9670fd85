// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blocknode provides the chain-index view the difficulty
// retargeter walks: a linked chain of immutable per-block summaries
// carrying only the fields consensus rules need (height, timestamp,
// bits, and a parent link), without the weight of a full block-storage
// node.
package blocknode

import (
	"math/big"
	"sort"
	"time"

	"github.com/cuckoofork/jaxcore/types/pow"
	"github.com/cuckoofork/jaxcore/types/wire"
)

// medianTimeBlocks is the number of previous blocks used to calculate the
// median time used to validate block timestamps and to drive the
// emergency-retarget median-time-past comparison.
const medianTimeBlocks = 11

// ChainIndexEntry is a lightweight, immutable summary of one block's
// position in the chain, sufficient for difficulty retargeting and
// nothing more.
//
// NOTE: Field order is chosen to minimize padding, following the
// convention of the node this package was adapted from — there will be
// hundreds of thousands of these resident in memory on a long-running
// node.
type ChainIndexEntry struct {
	parent  *ChainIndexEntry
	workSum *big.Int

	height    int32
	bits      uint32
	timestamp int64
}

// NewChainIndexEntry builds an entry from a header and its parent entry
// (nil for genesis), computing height and cumulative work from the
// parent's fields.
func NewChainIndexEntry(header *wire.BlockHeader, parent *ChainIndexEntry) *ChainIndexEntry {
	entry := &ChainIndexEntry{
		parent:    parent,
		workSum:   pow.CalcWork(header.Bits),
		bits:      header.Bits,
		timestamp: header.Timestamp.Unix(),
	}
	if parent != nil {
		entry.height = parent.height + 1
		entry.workSum = new(big.Int).Add(parent.workSum, entry.workSum)
	}
	return entry
}

// Height returns the entry's absolute height in the chain.
func (e *ChainIndexEntry) Height() int32 { return e.height }

// Bits returns the entry's compact-encoded difficulty target.
func (e *ChainIndexEntry) Bits() uint32 { return e.bits }

// Timestamp returns the entry's block time.
func (e *ChainIndexEntry) Timestamp() time.Time { return time.Unix(e.timestamp, 0) }

// WorkSum returns the cumulative proof of work up to and including this
// entry.
func (e *ChainIndexEntry) WorkSum() *big.Int { return e.workSum }

// Parent returns the entry's parent, or nil for genesis.
func (e *ChainIndexEntry) Parent() *ChainIndexEntry { return e.parent }

// Ancestor returns the entry at the given absolute height by walking
// backwards from this entry. It returns nil if height is negative or
// greater than this entry's height.
func (e *ChainIndexEntry) Ancestor(height int32) *ChainIndexEntry {
	if height < 0 || height > e.height {
		return nil
	}

	n := e
	for n != nil && n.height != height {
		n = n.parent
	}
	return n
}

// RelativeAncestor returns the entry a relative distance of blocks before
// this entry, equivalent to Ancestor(e.Height() - distance).
func (e *ChainIndexEntry) RelativeAncestor(distance int32) *ChainIndexEntry {
	return e.Ancestor(e.height - distance)
}

// CalcPastMedianTime calculates the median time of the previous
// medianTimeBlocks blocks, including this one.
func (e *ChainIndexEntry) CalcPastMedianTime() time.Time {
	timestamps := make([]int64, 0, medianTimeBlocks)
	n := e
	for i := 0; i < medianTimeBlocks && n != nil; i++ {
		timestamps = append(timestamps, n.timestamp)
		n = n.parent
	}

	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	// NOTE: this intentionally reproduces Bitcoin's median calculation,
	// which takes the single middle element rather than averaging the
	// two middle elements when the count is even — only relevant for the
	// first few blocks of a chain, where medianTimeBlocks has not yet
	// been reached.
	median := timestamps[len(timestamps)/2]
	return time.Unix(median, 0)
}

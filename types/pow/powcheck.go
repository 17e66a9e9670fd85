// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import (
	"fmt"

	"github.com/cuckoofork/jaxcore/node/chaindata"
	"github.com/cuckoofork/jaxcore/types/chaincfg"
	"github.com/cuckoofork/jaxcore/types/wire"
)

// PowCheck validates a block header's proof of work against a set of
// consensus parameters. It holds no state; its zero value is ready to use.
type PowCheck struct{}

// Check ensures a header's difficulty bits are in the valid range for the
// active consensus rules, and that the header's proof of work — a Cuckoo
// Cycle or a plain hash search, depending on IsCuckooPoW — actually meets
// the claimed target. A nil return means the header is accepted.
func (PowCheck) Check(header *wire.BlockHeader, params *chaincfg.ConsensusParams) error {
	target, negative, overflow := CompactToBigExt(header.Bits)
	activeLimit := params.ActivePowLimit(activeHeightHint(header, params))
	if !IsValidTarget(target, negative, overflow, activeLimit) {
		return chaindata.NewRuleError(chaindata.ErrUnexpectedDifficulty,
			fmt.Sprintf("block target difficulty of %064x is not in the valid (0, %064x] range",
				target, activeLimit))
	}

	if header.IsCuckooPoW() {
		code := VerifyCuckoo(header.CuckooProof, header.CuckooKey(), params.CuckooGraphSize-1)
		if code != VerifyOK {
			return chaindata.NewRuleError(chaindata.ErrInvalidCuckooProof,
				fmt.Sprintf("cuckoo cycle proof rejected: %s", code))
		}
	}

	hash := header.BlockHash()
	hashNum := HashToBig(&hash)
	if hashNum.Cmp(target) > 0 {
		return chaindata.NewRuleError(chaindata.ErrHighHash,
			fmt.Sprintf("block hash of %064x is higher than expected max of %064x", hashNum, target))
	}

	return nil
}

// activeHeightHint resolves which limit a standalone header check should
// use when the caller has no chain context to supply a height: it trusts
// the header's own IsCuckooPoW flag, matching the invariant that
// IsCuckooPoW is set iff height >= CuckooHardforkHeight.
func activeHeightHint(header *wire.BlockHeader, params *chaincfg.ConsensusParams) int64 {
	if header.IsCuckooPoW() {
		return params.CuckooHardforkHeight
	}
	return params.CuckooHardforkHeight - 1
}

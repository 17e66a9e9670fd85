// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the consensus parameter sets that parameterize
// the proof-of-work core: target limits, retargeting cadence, and the
// Cuckoo Cycle hard-fork switchover.
package chaincfg

import (
	"io"
	"math/big"
	"time"

	"gopkg.in/yaml.v2"
)

var bigOne = big.NewInt(1)

// ConsensusParams holds the set of consensus rules a chain is validated
// against. It carries only the fields the proof-of-work core needs; it is
// not a full network/address/deployment parameter catalog.
type ConsensusParams struct {
	// Name identifies the parameter set, e.g. "mainnet".
	Name string `yaml:"name"`

	// PowLimit is the highest (easiest) target permitted before the
	// Cuckoo Cycle hard fork.
	PowLimit *big.Int `yaml:"-"`
	// PowLimitBits is PowLimit's compact encoding, stored alongside it
	// since *big.Int does not round-trip through YAML on its own.
	PowLimitBits uint32 `yaml:"pow_limit_bits"`

	// CuckooPowLimit is the highest target permitted after the fork.
	CuckooPowLimit     *big.Int `yaml:"-"`
	CuckooPowLimitBits uint32   `yaml:"cuckoo_pow_limit_bits"`

	// PowTargetTimespan is the length of a retargeting window.
	PowTargetTimespan time.Duration `yaml:"pow_target_timespan"`
	// PowTargetSpacing is the intended spacing between blocks.
	PowTargetSpacing time.Duration `yaml:"pow_target_spacing"`

	// PowAllowMinDifficultyBlocks enables the testnet rule that permits
	// the minimum difficulty after a long gap between blocks.
	PowAllowMinDifficultyBlocks bool `yaml:"pow_allow_min_difficulty_blocks"`
	// PowNoRetargeting disables retargeting entirely (regtest).
	PowNoRetargeting bool `yaml:"pow_no_retargeting"`

	// CuckooHardforkHeight is the height at which Cuckoo Cycle PoW
	// becomes mandatory.
	CuckooHardforkHeight int64 `yaml:"cuckoo_hardfork_height"`
	// CuckooGraphSize is G; the cycle-finding graph has 2^(G-1) edges
	// per bipartite partition.
	CuckooGraphSize uint `yaml:"cuckoo_graph_size"`
}

// DifficultyAdjustmentInterval returns the number of blocks between
// retargets.
func (p *ConsensusParams) DifficultyAdjustmentInterval() int64 {
	return int64(p.PowTargetTimespan / p.PowTargetSpacing)
}

// ActivePowLimit returns the target ceiling in effect at height h.
func (p *ConsensusParams) ActivePowLimit(h int64) *big.Int {
	if h >= p.CuckooHardforkHeight {
		return p.CuckooPowLimit
	}
	return p.PowLimit
}

// ActivePowLimitBits returns the compact encoding of ActivePowLimit(h).
func (p *ConsensusParams) ActivePowLimitBits(h int64) uint32 {
	if h >= p.CuckooHardforkHeight {
		return p.CuckooPowLimitBits
	}
	return p.PowLimitBits
}

func limitFromBits(bits uint32) *big.Int {
	mantissa := bits & 0x007fffff
	exponent := uint(bits >> 24)
	n := big.NewInt(int64(mantissa))
	if exponent <= 3 {
		return n.Rsh(n, 8*(3-exponent))
	}
	return n.Lsh(n, 8*(exponent-3))
}

// MainNetParams defines the consensus rules for the main network.
var MainNetParams = ConsensusParams{
	Name:                        "mainnet",
	PowLimitBits:                0x1d00ffff,
	CuckooPowLimitBits:          0x1e0fffff,
	PowTargetTimespan:           time.Hour * 24 * 14,
	PowTargetSpacing:            time.Minute * 10,
	PowAllowMinDifficultyBlocks: false,
	PowNoRetargeting:            false,
	CuckooHardforkHeight:        700000,
	CuckooGraphSize:             30,
}

// TestNetParams defines the consensus rules for the test network, which
// relaxes retargeting under PowAllowMinDifficultyBlocks and uses a much
// earlier hard-fork height and smaller graph for faster iteration.
var TestNetParams = ConsensusParams{
	Name:                        "testnet",
	PowLimitBits:                0x1d00ffff,
	CuckooPowLimitBits:          0x1e0fffff,
	PowTargetTimespan:           time.Hour * 24 * 14,
	PowTargetSpacing:            time.Minute * 10,
	PowAllowMinDifficultyBlocks: true,
	PowNoRetargeting:            false,
	CuckooHardforkHeight:        2000,
	CuckooGraphSize:             20,
}

// RegressionNetParams defines the consensus rules for the regression test
// network, which disables retargeting entirely so tests can mine blocks
// at a fixed difficulty.
var RegressionNetParams = ConsensusParams{
	Name:                        "regtest",
	PowLimitBits:                0x207fffff,
	CuckooPowLimitBits:          0x207fffff,
	PowTargetTimespan:           time.Hour * 24 * 14,
	PowTargetSpacing:            time.Minute * 10,
	PowAllowMinDifficultyBlocks: true,
	PowNoRetargeting:            true,
	CuckooHardforkHeight:        150,
	CuckooGraphSize:             18,
}

func init() {
	resolveLimits(&MainNetParams)
	resolveLimits(&TestNetParams)
	resolveLimits(&RegressionNetParams)
}

func resolveLimits(p *ConsensusParams) {
	p.PowLimit = limitFromBits(p.PowLimitBits)
	p.CuckooPowLimit = limitFromBits(p.CuckooPowLimitBits)
}

// yamlParams mirrors ConsensusParams' YAML-tagged fields; it exists so
// LoadParams can populate PowLimit/CuckooPowLimit (which are derived, not
// serialized directly) after unmarshaling.
type yamlParams ConsensusParams

// LoadParams parses a YAML consensus parameter override document, such as
// one supplying a custom testnet or a one-off regression configuration for
// a diagnostic tool. Unset fields decode to their Go zero values; callers
// that want the named presets as a base should copy one explicitly before
// overriding fields, rather than relying on LoadParams to merge.
func LoadParams(r io.Reader) (*ConsensusParams, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var y yamlParams
	if err := yaml.Unmarshal(raw, &y); err != nil {
		return nil, err
	}

	params := ConsensusParams(y)
	resolveLimits(&params)
	return &params, nil
}

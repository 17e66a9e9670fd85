// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import (
	"math/big"
	"testing"
)

func TestCompactToBigAndBack(t *testing.T) {
	tests := []struct {
		name    string
		compact uint32
	}{
		{"mainnet pow limit", 0x1d00ffff},
		{"low difficulty", 0x1d00ffff},
		{"small exponent", 0x03123456},
		{"zero", 0x00000000},
	}
	for _, test := range tests {
		n := CompactToBig(test.compact)
		got := BigToCompact(n)
		if test.compact == 0 {
			if got != 0 {
				t.Errorf("%s: round-trip of zero gave %08x", test.name, got)
			}
			continue
		}
		if got != test.compact {
			t.Errorf("%s: round-trip %08x -> %08x, want %08x", test.name, test.compact, got, test.compact)
		}
	}
}

func TestCompactToBigExtFlags(t *testing.T) {
	tests := []struct {
		name         string
		compact      uint32
		wantNegative bool
		wantOverflow bool
	}{
		{"mainnet pow limit", 0x1d00ffff, false, false},
		{"negative sign bit", 0x01800001, true, false},
		{"overflowing exponent", 0xff123456, false, true},
	}
	for _, test := range tests {
		_, negative, overflow := CompactToBigExt(test.compact)
		if negative != test.wantNegative {
			t.Errorf("%s: negative = %v, want %v", test.name, negative, test.wantNegative)
		}
		if overflow != test.wantOverflow {
			t.Errorf("%s: overflow = %v, want %v", test.name, overflow, test.wantOverflow)
		}
	}
}

func TestCalcWorkMonotonic(t *testing.T) {
	easier := CalcWork(0x1d00ffff)
	// A smaller compact target (more leading zero bits) means more work.
	harder := CalcWork(0x1c00ffff)
	if harder.Cmp(easier) <= 0 {
		t.Fatalf("expected a smaller target to require more work: harder=%s easier=%s", harder, easier)
	}
}

func TestCalcWorkRejectsNegative(t *testing.T) {
	w := CalcWork(0x01800001) // sign bit set
	if w.Sign() != 0 {
		t.Fatalf("expected zero work for a negative target, got %s", w)
	}
}

func TestIsValidTarget(t *testing.T) {
	limit := CompactToBig(0x1d00ffff)
	within := big.NewInt(100)
	if !IsValidTarget(within, false, false, limit) {
		t.Fatal("small positive target under limit should be valid")
	}
	if IsValidTarget(big.NewInt(0), false, false, limit) {
		t.Fatal("zero target should be invalid")
	}
	if IsValidTarget(within, true, false, limit) {
		t.Fatal("negative flag should invalidate regardless of value")
	}
	tooLarge := new(big.Int).Add(limit, big.NewInt(1))
	if IsValidTarget(tooLarge, false, false, limit) {
		t.Fatal("target above limit should be invalid")
	}
}

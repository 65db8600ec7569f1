// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xuartps

import (
	"fmt"

	"github.com/u-root/uzynq/pkg/kernel"
)

const (
	MinDivisor   = 4
	MaxDivisor   = 255
	MinGenerator = 1
	MaxGenerator = 0xffff
)

// DivisorResult is a BAUDDIV/BAUDGEN pair and the rate it produces.
//
// The controller divides the reference clock by Generator and then by
// Divisor+1, so baud = clock / (Generator * (Divisor + 1)).
type DivisorResult struct {
	Divisor   uint32
	Generator uint32
	// Achieved is the baud rate the pair actually produces.
	Achieved uint32
	// Error is |Achieved - requested|.
	Error uint32
}

func (d DivisorResult) String() string {
	return fmt.Sprintf("bauddiv=%d baudgen=%d (%d baud, off by %d)", d.Divisor, d.Generator, d.Achieved, d.Error)
}

// Solve returns the divisor pair that best approximates baud from a
// reference clock of clockHz.
//
// Every divisor is tried. Rounding makes a closed form unreliable near the
// ends of the generator range, and this runs once per boot. On equal error
// the lowest divisor wins.
func Solve(baud, clockHz uint32) (DivisorResult, error) {
	if baud == 0 || clockHz == 0 {
		return DivisorResult{}, kernel.Errorf(kernel.OutOfRange, "xuartps",
			fmt.Sprintf("cannot derive %d baud from a %d Hz clock", baud, clockHz))
	}
	ref := uint64(clockHz)
	target := uint64(baud)

	var best DivisorResult
	found := false
	for div := uint64(MinDivisor); div <= MaxDivisor; div++ {
		d := target * (div + 1)
		gen := (ref + d/2) / d
		if gen < MinGenerator || gen > MaxGenerator {
			continue
		}
		out := ref / (gen * (div + 1))
		var e uint64
		if out > target {
			e = out - target
		} else {
			e = target - out
		}
		if !found || e < uint64(best.Error) {
			best = DivisorResult{
				Divisor:   uint32(div),
				Generator: uint32(gen),
				Achieved:  uint32(out),
				Error:     uint32(e),
			}
			found = true
		}
	}
	if !found {
		return DivisorResult{}, kernel.Errorf(kernel.OutOfRange, "xuartps",
			fmt.Sprintf("no divisor pair yields %d baud from a %d Hz clock", baud, clockHz))
	}
	return best, nil
}

package unblock

import "math/bits"

// approxSqrt returns an approximate square root of x using the rounded
// table for the top seven or eight significant bits.
func (t *tables) approxSqrt(x uint32) uint32 {
	width := bits.Len32(x)
	if width < 9 {
		return uint32(t.sqrt[x])
	}
	halve := width - 8
	if width&1 == 1 {
		halve = width - 7
	}
	return uint32(t.sqrt[x>>halve]) << (halve >> 1)
}

// buildTable matches the cumulative distribution of measured boundary
// discrepancies against the reference distribution of internal
// discrepancies. For each measured magnitude m it finds the reference
// magnitude r at the same cumulative frequency and keeps only the excess,
// m+1-r, as the amount to remove at a boundary.
//
// photographic and cartoon shift the measured cumulative frequency by eight
// standard deviations of its sampling noise, down (fewer corrections) or up
// (more). photographic wins when both are set.
func (t *tables) buildTable(ref, meas *Histogram, total uint32, photographic, cartoon bool, out *Table) {
	conservative := photographic || cartoon
	halfTotal := (uint64(total) + 1) >> 1

	var cumMeas, cumRef uint64
	r := 0
	for m := 0; m < 256; m++ {
		cumMeas += uint64(meas[m])

		target := cumMeas
		if conservative {
			side := cumMeas
			if cumMeas > halfTotal {
				side = uint64(total) - cumMeas
			}
			sigma := uint64(t.approxSqrt(uint32(side)))
			if sigma < 2 {
				sigma = 2
			}
			margin := sigma << 3
			if photographic {
				if margin > cumMeas {
					target = 0
				} else {
					target = cumMeas - margin
				}
			} else {
				target = cumMeas + margin
				if target > uint64(total) {
					target = uint64(total)
				}
			}
		}

		for cumRef < target && r < 256 {
			cumRef += uint64(ref[r])
			r++
		}
		if cumRef > target {
			r--
			cumRef -= uint64(ref[r])
		}

		switch {
		case r == 0:
			out[m] = uint8(m)
		case m >= r:
			out[m] = uint8(m + 1 - r)
		default:
			out[m] = 0
		}
	}
}

// adjust builds every adjustment table of the current pass.
func (s *scratch) adjust(t *tables, photographic, cartoon bool) {
	a := &s.analysis
	build := func(c *Channel, total uint32) {
		t.buildTable(&c.InternalU, &c.BoundaryU, total, photographic, cartoon, &c.AdjustU)
		t.buildTable(&c.InternalV, &c.BoundaryV, total, photographic, cartoon, &c.AdjustV)
	}
	build(&a.Y, a.TotalLuma)
	if a.Color {
		build(&a.Cb, a.TotalChroma)
		build(&a.Cr, a.TotalChroma)
	}
}

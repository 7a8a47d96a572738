package unblock

// discrepancy measures the discontinuity across the middle of the six
// samples s[0..5]. u is the step between the two halves beyond what the
// local slope predicts; v is the change in curvature. Trailing samples
// past the end of a line are -1 and select reduced formulas: with s[5]
// missing a five-sample fit is used, with s[4] missing as well only u is
// measured. Both results are clamped to [-255, 255].
func discrepancy(s []int16) (u, v int16) {
	s6, s7, s8, s9 := int32(s[0]), int32(s[1]), int32(s[2]), int32(s[3])
	s10, s11 := int32(s[4]), int32(s[5])

	var U, V int32
	switch {
	case s11 >= 0:
		U = (15*s9 + 4 - 15*s8 - 10*s10 + 10*s7 + 3*s11 - 3*s6) >> 3
		V = 3*s10 + 3*s7 - s11 - s6 - 2*(s9+s8)
	case s10 >= 0:
		U = (-3*s6 + 10*s7 - 15*s8 + 12*s9 + 4 - 4*s10) >> 3
		V = -s6 + 3*s7 - 2*s8 - s9 + s10
	default:
		U = (-3*s6 + 10*s7 - 15*s8 + 8*s9 + 4) >> 3
	}
	return clamp255(U), clamp255(V)
}

func clamp255(x int32) int16 {
	switch {
	case x < -255:
		return -255
	case x > 255:
		return 255
	}
	return int16(x)
}

func abs16(x int16) int16 {
	if x < 0 {
		return -x
	}
	return x
}

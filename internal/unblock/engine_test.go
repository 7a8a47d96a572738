package unblock

import (
	"math/rand"
	"testing"
)

func TestDiscrepancy(t *testing.T) {
	cases := []struct {
		name string
		s    []int16
		u, v int16
	}{
		{"flat", []int16{50, 50, 50, 50, 50, 50}, 0, 0},
		{"ideal step", []int16{10, 10, 10, 200, 200, 200}, 190, 0},
		{"falling step", []int16{200, 200, 200, 10, 10, 10}, -190, 0},
		{"five samples", []int16{10, 10, 10, 200, 200, -1}, 190, 0},
		{"four samples", []int16{10, 10, 10, 200, -1, -1}, 190, 0},
		{"u clamped", []int16{0, 0, 0, 255, 255, 255}, 255, 0},
		{"v clamped high", []int16{0, 255, 0, 0, 255, 0}, 0, 255},
		{"v clamped low", []int16{255, 0, 255, 255, 0, 255}, 0, -255},
	}
	for _, tc := range cases {
		u, v := discrepancy(tc.s)
		if u != tc.u || v != tc.v {
			t.Errorf("%s: got (%d,%d), want (%d,%d)", tc.name, u, v, tc.u, tc.v)
		}
	}
}

func TestApproxSqrt(t *testing.T) {
	tbl := current.Load()
	cases := []struct{ x, want uint32 }{
		{0, 0},
		{1, 1},
		{4, 2},
		{255, 16},
		{256, 16},
		{1 << 20, 1024},
		{1 << 30, 1 << 15},
	}
	for _, tc := range cases {
		if got := tbl.approxSqrt(tc.x); got != tc.want {
			t.Errorf("approxSqrt(%d): got %d, want %d", tc.x, got, tc.want)
		}
	}
}

func TestBuildTable_NeverIncreases(t *testing.T) {
	tbl := current.Load()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		var ref, meas Histogram
		var total uint32
		for i := 0; i < 400; i++ {
			ref[rng.Intn(40)]++
			meas[rng.Intn(120)]++
			total++
		}
		for _, mode := range [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}} {
			var out Table
			tbl.buildTable(&ref, &meas, total, mode[0], mode[1], &out)
			for m, a := range out {
				if int(a) > m {
					t.Fatalf("trial %d mode %v: adj[%d] = %d exceeds input", trial, mode, m, a)
				}
			}
		}
	}
}

func TestBuildTable_Shapes(t *testing.T) {
	tbl := current.Load()

	// All internal discrepancies zero, all boundary discrepancies 50:
	// the whole boundary step is blocking.
	var ref, meas Histogram
	ref[0], meas[50] = 100, 100
	var out Table
	tbl.buildTable(&ref, &meas, 100, false, false, &out)
	if out[50] != 50 {
		t.Errorf("pure blocking: adj[50] = %d, want 50", out[50])
	}

	// Identical distributions: nothing to remove where mass exists.
	for i := range ref {
		ref[i], meas[i] = 0, 0
	}
	ref[3], ref[9], meas[3], meas[9] = 40, 60, 40, 60
	tbl.buildTable(&ref, &meas, 100, false, false, &out)
	if out[3] != 0 || out[9] != 0 {
		t.Errorf("identical: adj[3]=%d adj[9]=%d, want 0", out[3], out[9])
	}

	// Empty reference must not run past the histogram.
	var empty Histogram
	tbl.buildTable(&empty, &meas, 100, false, true, &out)
	if out[255] != 0 {
		t.Errorf("empty reference: adj[255] = %d, want 0", out[255])
	}
}

func TestCorrectBoundary_Clamps(t *testing.T) {
	var w blockPair
	for i := range w {
		if i < 8 {
			w[i] = 255
		}
	}
	// A positive u pushes the left block up and the right block down,
	// both already at the limits.
	w.correctBoundary(255, 0)
	for i, v := range w {
		want := int16(0)
		if i < 8 {
			want = 255
		}
		if v != want {
			t.Errorf("w[%d] = %d, want %d", i, v, want)
		}
	}

	w = blockPair{}
	w.correctBoundary(0, 255)
	for i, v := range w {
		if v < 0 || v > 255 {
			t.Errorf("curvature: w[%d] = %d out of range", i, v)
		}
	}
	if w[7] != 137 || w[8] != 137 {
		t.Errorf("curvature centre: got %d,%d, want 137,137", w[7], w[8])
	}
}

func TestTableApply_PreservesSign(t *testing.T) {
	var tab Table
	tab[5] = 3
	if got := tab.apply(5); got != 3 {
		t.Errorf("apply(5) = %d, want 3", got)
	}
	if got := tab.apply(-5); got != -3 {
		t.Errorf("apply(-5) = %d, want -3", got)
	}
}

package unblock

import "github.com/AnyUserName/unblock-cli/internal/planar"

// blockPair holds two adjacent 8-sample blocks of one line. The boundary
// between them lies between [7] and [8].
type blockPair [16]int16

// correctBoundary spreads an adjusted step u and curvature change v across
// the two blocks. The step profile is antisymmetric and zero at both ends;
// the curvature profile is symmetric.
func (w *blockPair) correctBoundary(u, v int16) {
	var d [16]int32

	if u != 0 {
		U := int32(u)
		d[1] = (U + 32) >> 6
		d[2] = (3*U + 32) >> 6
		d[3] = (3*U + 16) >> 5
		d[4] = (5*U + 16) >> 5
		d[5] = (15*U + 32) >> 6
		d[6] = (21*U + 32) >> 6
		d[7] = (7*U + 8) >> 4
		for i := 1; i < 8; i++ {
			d[15-i] = -d[i]
		}
	}

	if v != 0 {
		V := int32(v)
		dv := [8]int32{
			(-V + 128) >> 8,
			(-11*V + 128) >> 8,
			(-31*V + 128) >> 8,
			(-58*V + 128) >> 8,
			(-57*V + 128) >> 8,
			(-22*V + 128) >> 8,
			(42*V + 128) >> 8,
			(138*V + 128) >> 8,
		}
		for i, x := range dv {
			d[i] += x
			d[15-i] += x
		}
	}

	for i, x := range d {
		if x == 0 {
			continue
		}
		y := int32(w[i]) + x
		switch {
		case y < 0:
			y = 0
		case y > 255:
			y = 255
		}
		w[i] = int16(y)
	}
}

// correctLine reads n samples from src, corrects every boundary at a
// multiple of 8 using the adjustment tables of st and writes the result to
// dst. src and dst may address the same samples. Lines too short to hold a
// boundary with a full left block are copied.
func correctLine(src, dst planar.Cursor, n int, w *blockPair, st *Channel) {
	if n < 9 {
		for i := 0; i < n; i++ {
			dst.Set(src.Get())
			src.Right()
			dst.Right()
		}
		return
	}

	for i := 8; i < 16; i++ {
		w[i] = int16(src.Get())
		src.Right()
	}

	cr := 8
	for ; cr < n; cr += 8 {
		copy(w[:8], w[8:])
		i := 8
		for col := cr; i < 16 && col < n; col, i = col+1, i+1 {
			w[i] = int16(src.Get())
			src.Right()
		}
		for ; i < 16; i++ {
			w[i] = -1
		}

		u, v := discrepancy(w[5:11])
		w.correctBoundary(st.AdjustU.apply(u), st.AdjustV.apply(v))

		for i := 0; i < 8; i++ {
			dst.Set(uint8(w[i]))
			dst.Right()
		}
	}

	// Right block of the last boundary.
	for col, i := cr-8, 8; i < 16 && col < n; col, i = col+1, i+1 {
		dst.Set(uint8(w[i]))
		dst.Right()
	}
}

// correct applies the adjustment tables of the current pass, reading src
// and writing dst. Alpha is copied when the buffers differ.
func (s *scratch) correct(src, dst *planar.Image, progress planar.Progress) error {
	a := &s.analysis
	op := "correct " + a.Orientation.String()
	copyAlpha := src.Alpha && !src.SameBuffer(planar.ChannelAlpha, dst)

	in, lines, n := lineGrid(src, planar.ChannelY, a.Orientation, false)
	out, _, _ := lineGrid(dst, planar.ChannelY, a.Orientation, false)
	for i := 0; i < lines; i++ {
		if err := progress.Tick(op); err != nil {
			return err
		}
		if copyAlpha && a.Orientation == Vertical {
			planar.CopyRow(planar.ChannelAlpha, src, dst, i)
		}
		correctLine(in, out, n, &s.correctY, &a.Y)
		in.Down()
		out.Down()
	}
	if copyAlpha && a.Orientation == Horizontal {
		for y := 0; y < src.Height; y++ {
			planar.CopyRow(planar.ChannelAlpha, src, dst, y)
		}
	}

	if !a.Color {
		return nil
	}

	inCb, lines, n := lineGrid(src, planar.ChannelCb, a.Orientation, true)
	inCr, _, _ := lineGrid(src, planar.ChannelCr, a.Orientation, true)
	outCb, _, _ := lineGrid(dst, planar.ChannelCb, a.Orientation, true)
	outCr, _, _ := lineGrid(dst, planar.ChannelCr, a.Orientation, true)
	for i := 0; i < lines; i++ {
		if err := progress.Tick(op); err != nil {
			return err
		}
		correctLine(inCb, outCb, n, &s.correctCb, &a.Cb)
		correctLine(inCr, outCr, n, &s.correctCr, &a.Cr)
		inCb.Down()
		inCr.Down()
		outCb.Down()
		outCr.Down()
	}
	return nil
}

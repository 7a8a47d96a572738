package unblock

import "github.com/AnyUserName/unblock-cli/internal/planar"

// lineWindow covers samples cR-7..cR+2 around boundary cR. The boundary
// discrepancy is measured on [4:10], the internal one on [0:6].
type lineWindow [10]int16

// lineGrid locates the parallel lines a pass walks through one channel.
// Vertical passes walk rows; horizontal passes walk columns through a
// transposed cursor. Chroma lines visit only the top-left sample of each
// 2x2 block.
func lineGrid(img *planar.Image, c planar.Channel, o Orientation, chromaGrid bool) (start planar.Cursor, lines, n int) {
	start = img.Cursor(c, 0, 0)
	w, h := img.Width, img.Height
	if o == Horizontal {
		start = start.Transposed()
		w, h = h, w
	}
	if chromaGrid {
		start = start.Scaled(2)
		w, h = (w+1)>>1, (h+1)>>1
	}
	return start, h, w
}

// measureLine adds the discrepancies of every boundary on one line of n
// samples to st and returns the number of boundaries measured.
func measureLine(p planar.Cursor, n int, win *lineWindow, st *Channel) uint32 {
	if n <= 8 {
		return 0
	}

	p.Right()
	win[8] = int16(p.Get())
	p.Right()
	win[9] = int16(p.Get())
	p.Right()

	var count uint32
	for cr := 8; cr < n; cr += 8 {
		win[0], win[1] = win[8], win[9]
		i := 2
		for col := cr - 5; i < 10 && col < n; col, i = col+1, i+1 {
			win[i] = int16(p.Get())
			p.Right()
		}
		for ; i < 10; i++ {
			win[i] = -1
		}

		bu, bv := discrepancy(win[4:10])
		iu, iv := discrepancy(win[0:6])
		st.BoundaryU[abs16(bu)]++
		st.BoundaryV[abs16(bv)]++
		st.InternalU[abs16(iu)]++
		st.InternalV[abs16(iv)]++
		count++
	}
	return count
}

// measure fills the histograms and totals of a for one pass over img.
// Progress is ticked once per luma line and once per chroma line.
func (s *scratch) measure(img *planar.Image, progress planar.Progress) error {
	a := &s.analysis
	op := "measure " + a.Orientation.String()

	start, lines, n := lineGrid(img, planar.ChannelY, a.Orientation, false)
	for i := 0; i < lines; i++ {
		if err := progress.Tick(op); err != nil {
			return err
		}
		a.TotalLuma += measureLine(start, n, &s.measureY, &a.Y)
		start.Down()
	}

	if !a.Color {
		return nil
	}

	cb, lines, n := lineGrid(img, planar.ChannelCb, a.Orientation, true)
	cr, _, _ := lineGrid(img, planar.ChannelCr, a.Orientation, true)
	for i := 0; i < lines; i++ {
		if err := progress.Tick(op); err != nil {
			return err
		}
		a.TotalChroma += measureLine(cb, n, &s.measureCb, &a.Cb)
		measureLine(cr, n, &s.measureCr, &a.Cr)
		cb.Down()
		cr.Down()
	}
	return nil
}

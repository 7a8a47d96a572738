package unblock

// Orientation selects which block boundaries a pass works on.
type Orientation int

const (
	// Vertical passes scan rows and smooth the vertical boundaries between
	// horizontally adjacent blocks.
	Vertical Orientation = iota
	// Horizontal passes scan columns and smooth horizontal boundaries.
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Histogram counts discrepancy magnitudes 0..255.
type Histogram [256]uint32

// Sum returns the total count over all buckets.
func (h *Histogram) Sum() uint64 {
	var n uint64
	for _, c := range h {
		n += uint64(c)
	}
	return n
}

// Table maps a measured discrepancy magnitude to the magnitude to remove.
type Table [256]uint8

// apply adjusts a signed discrepancy, preserving its sign.
func (t *Table) apply(d int16) int16 {
	if d < 0 {
		return -int16(t[-d])
	}
	return int16(t[d])
}

// Channel holds the statistics and the derived adjustment tables of one
// channel for one pass. Boundary histograms are measured across block
// edges, internal histograms across the middle of blocks.
type Channel struct {
	BoundaryU, BoundaryV Histogram
	InternalU, InternalV Histogram
	AdjustU, AdjustV     Table
}

// Analysis is the per-pass state of one Unblock call. It is handed to
// Options.Inspect after the adjustment tables of a pass are built; the
// same value is reused for the next pass, so callers must not retain it.
type Analysis struct {
	Orientation Orientation
	Color       bool

	// TotalLuma counts luma boundaries measured; TotalChroma counts chroma
	// boundaries, each of which contributes one entry to Cb and one to Cr.
	TotalLuma   uint32
	TotalChroma uint32

	Y, Cb, Cr Channel
}

func (a *Analysis) reset(o Orientation, color bool) {
	*a = Analysis{Orientation: o, Color: color}
}

package planar

// Layout maps channel coordinates to storage. Operations never assume a
// concrete layout; they address samples through Locate and move by the
// returned deltas.
type Layout interface {
	// Locate returns the samples backing channel c, the index of the sample
	// at (x, y), and the index deltas for one step right and one row down.
	Locate(c Channel, x, y int) (pix []byte, i, dx, dy int)

	// SameBuffer reports whether channel c of this layout and other
	// address the same samples.
	SameBuffer(c Channel, other Layout) bool
}

// Plane is a single 8-bit channel. Origin is the index of the top-left
// sample; Stride may be negative for bottom-up storage.
type Plane struct {
	Pix    []byte
	Origin int
	Stride int
}

func (p Plane) same(q Plane) bool {
	return sameArray(p.Pix, q.Pix) && p.Origin == q.Origin && p.Stride == q.Stride
}

// Planes is the canonical layout: one separate plane per channel. Unused
// planes may be left empty.
type Planes struct {
	Y, Cb, Cr, A Plane
}

func (l *Planes) plane(c Channel) *Plane {
	switch c {
	case ChannelCb:
		return &l.Cb
	case ChannelCr:
		return &l.Cr
	case ChannelAlpha:
		return &l.A
	default:
		return &l.Y
	}
}

func (l *Planes) Locate(c Channel, x, y int) ([]byte, int, int, int) {
	p := l.plane(c)
	return p.Pix, p.Origin + y*p.Stride + x, 1, p.Stride
}

func (l *Planes) SameBuffer(c Channel, other Layout) bool {
	o, ok := other.(*Planes)
	if !ok {
		return false
	}
	return l.plane(c).same(*o.plane(c))
}

// Packed stores all channels interleaved in one buffer, PixelSize bytes per
// pixel. Offsets gives the byte offset of each Channel within a pixel.
// *image.NRGBA pixels map to PixelSize 4 with offsets {0, 1, 2, 3}.
type Packed struct {
	Pix       []byte
	Origin    int
	Stride    int
	PixelSize int
	Offsets   [4]int
}

func (l *Packed) Locate(c Channel, x, y int) ([]byte, int, int, int) {
	return l.Pix, l.Origin + y*l.Stride + x*l.PixelSize + l.Offsets[c], l.PixelSize, l.Stride
}

func (l *Packed) SameBuffer(c Channel, other Layout) bool {
	o, ok := other.(*Packed)
	if !ok {
		return false
	}
	return sameArray(l.Pix, o.Pix) && l.Origin == o.Origin && l.Stride == o.Stride &&
		l.PixelSize == o.PixelSize && l.Offsets[c] == o.Offsets[c]
}

func sameArray(a, b []byte) bool {
	if cap(a) == 0 || cap(b) == 0 {
		return false
	}
	return &a[:1][0] == &b[:1][0]
}

// ─── constructors ────────────────────────────────────────────

func newPlane(w, h int, bottomUp bool) Plane {
	p := Plane{Pix: make([]byte, w*h), Stride: w}
	if bottomUp {
		p.Origin = (h - 1) * w
		p.Stride = -w
	}
	return p
}

// NewGray allocates a top-down grayscale image.
func NewGray(w, h int) *Image {
	return &Image{
		Width:  w,
		Height: h,
		Layout: &Planes{Y: newPlane(w, h, false)},
	}
}

// NewColor allocates a top-down YCbCr image with separate planes and an
// optional alpha plane.
func NewColor(w, h int, alpha bool) *Image {
	return newColor(w, h, alpha, false)
}

// NewColorBottomUp is NewColor with every plane stored bottom-up.
func NewColorBottomUp(w, h int, alpha bool) *Image {
	return newColor(w, h, alpha, true)
}

func newColor(w, h int, alpha, bottomUp bool) *Image {
	l := &Planes{
		Y:  newPlane(w, h, bottomUp),
		Cb: newPlane(w, h, bottomUp),
		Cr: newPlane(w, h, bottomUp),
	}
	if alpha {
		l.A = newPlane(w, h, bottomUp)
	}
	return &Image{
		Width:  w,
		Height: h,
		Alpha:  alpha,
		Color:  true,
		Layout: l,
	}
}

// Like returns a newly allocated image with the same shape and flags as img.
func Like(img *Image) *Image {
	var out *Image
	if img.Color {
		out = NewColor(img.Width, img.Height, img.Alpha)
	} else {
		out = NewGray(img.Width, img.Height)
		if img.Alpha {
			out.Alpha = true
			out.Layout.(*Planes).A = newPlane(img.Width, img.Height, false)
		}
	}
	out.RGB = img.RGB
	out.DownsampledChroma = img.DownsampledChroma
	out.NonReplicatedChroma = img.NonReplicatedChroma
	return out
}

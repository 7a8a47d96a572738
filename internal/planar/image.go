package planar

// Channel selects one sample channel of an image.
type Channel int

const (
	// ChannelY holds gray for grayscale images, Y for YCbCr and R for RGB.
	ChannelY Channel = iota
	// ChannelCb holds Cb for YCbCr images and G for RGB.
	ChannelCb
	// ChannelCr holds Cr for YCbCr images and B for RGB.
	ChannelCr
	// ChannelAlpha holds the optional alpha channel.
	ChannelAlpha
)

func (c Channel) String() string {
	switch c {
	case ChannelY:
		return "Y"
	case ChannelCb:
		return "Cb"
	case ChannelCr:
		return "Cr"
	case ChannelAlpha:
		return "A"
	default:
		return "?"
	}
}

// Image describes an image stored in caller-owned buffers. It owns no
// memory; the same descriptor may be passed as both input and output of an
// operation.
type Image struct {
	Width  int
	Height int

	Alpha bool // alpha channel present
	Color bool // false: only ChannelY is defined
	RGB   bool // color channels hold R,G,B rather than Y,Cb,Cr

	// DownsampledChroma is set when Cb/Cr carry one value per 2x2 block.
	DownsampledChroma bool
	// NonReplicatedChroma is set when that value is stored only in the
	// top-left pixel of each block. Requires DownsampledChroma.
	NonReplicatedChroma bool

	Layout Layout
}

// Cursor returns a cursor on channel c positioned at (x, y), where (0, 0)
// is the top-left pixel regardless of the sign of the row stride.
func (img *Image) Cursor(c Channel, x, y int) Cursor {
	pix, i, dx, dy := img.Layout.Locate(c, x, y)
	return Cursor{pix: pix, i: i, dx: dx, dy: dy}
}

// At returns the channel c sample at (x, y).
func (img *Image) At(c Channel, x, y int) uint8 {
	pix, i, _, _ := img.Layout.Locate(c, x, y)
	return pix[i]
}

// Set stores v as the channel c sample at (x, y).
func (img *Image) Set(c Channel, x, y int, v uint8) {
	pix, i, _, _ := img.Layout.Locate(c, x, y)
	pix[i] = v
}

// SameBuffer reports whether channel c of img and other address exactly the
// same samples, in which case copying that channel between them is a no-op.
func (img *Image) SameBuffer(c Channel, other *Image) bool {
	if img.Layout == nil || other.Layout == nil {
		return false
	}
	return img.Layout.SameBuffer(c, other.Layout)
}

// ChromaSize returns the dimensions of the downsampled chroma grid.
func (img *Image) ChromaSize() (w, h int) {
	return (img.Width + 1) >> 1, (img.Height + 1) >> 1
}

// Validate checks the flag invariants of the descriptor.
func (img *Image) Validate() error {
	switch {
	case img.Layout == nil:
		return newError(KindNotInitialized, "validate", "image has no layout")
	case img.Width <= 0 || img.Height <= 0:
		return newError(KindPrecondition, "validate", "zero width or height")
	case !img.DownsampledChroma && img.NonReplicatedChroma:
		return newError(KindPrecondition, "validate", "non-replicated chroma without downsampling")
	case !img.Color && (img.RGB || img.DownsampledChroma):
		return newError(KindPrecondition, "validate", "color flags set on grayscale image")
	}
	return nil
}

// CheckPair validates in and out and checks that they describe images of
// identical shape. It only runs in debug builds.
func CheckPair(op string, in, out *Image) error {
	if !Debug {
		return nil
	}
	if in == nil || out == nil {
		return newError(KindNullArgument, op, "nil image")
	}
	if err := in.Validate(); err != nil {
		return wrap(op, err)
	}
	if out.Layout == nil {
		return newError(KindNotInitialized, op, "output image has no layout")
	}
	if in.Width != out.Width || in.Height != out.Height {
		return newError(KindPrecondition, op, "dimensions disagree")
	}
	if in.Alpha != out.Alpha {
		return newError(KindPrecondition, op, "alpha flags disagree")
	}
	if in.Color != out.Color {
		return newError(KindPrecondition, op, "color flags disagree")
	}
	return nil
}

// Require returns a precondition error when cond is false. It only checks
// in debug builds.
func Require(cond bool, op, msg string) error {
	if Debug && !cond {
		return newError(KindPrecondition, op, msg)
	}
	return nil
}

// CopyRow copies row y of channel c from in to out.
func CopyRow(c Channel, in, out *Image, y int) {
	src := in.Cursor(c, 0, y)
	dst := out.Cursor(c, 0, y)
	for x := 0; x < in.Width; x++ {
		dst.Set(src.Get())
		src.Right()
		dst.Right()
	}
}

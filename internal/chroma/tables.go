package chroma

import (
	"sync"
	"sync/atomic"

	"github.com/AnyUserName/unblock-cli/internal/planar"
)

// tables holds the magic kernel products: 9a+8 for the own block (rounding
// bias included) and 3a for the two edge neighbours.
type tables struct {
	mult9add8 [256]uint16
	mult3     [256]uint16
}

var (
	mu      sync.Mutex
	current atomic.Pointer[tables]
)

// Initialize builds the resampler tables. Repeated calls are no-ops.
func Initialize() error {
	mu.Lock()
	defer mu.Unlock()
	if current.Load() != nil {
		return nil
	}
	t := new(tables)
	for i := uint16(0); i < 256; i++ {
		t.mult9add8[i] = 9*i + 8
		t.mult3[i] = 3 * i
	}
	current.Store(t)
	return nil
}

// Finalize releases the resampler tables. Repeated calls are no-ops.
func Finalize() error {
	mu.Lock()
	defer mu.Unlock()
	current.Store(nil)
	return nil
}

// Initialized reports whether Initialize has run since the last Finalize.
func Initialized() bool {
	return current.Load() != nil
}

func load(op string) (*tables, error) {
	t := current.Load()
	if t == nil {
		return nil, planar.NewError(planar.KindNotInitialized, op, "chroma tables not built")
	}
	return t, nil
}

// check runs the debug-build preconditions shared by every resampler
// operation. down is the downsampling state the input must be in.
func check(op string, in, out *planar.Image, down bool) error {
	if !planar.Debug {
		return nil
	}
	if err := planar.CheckPair(op, in, out); err != nil {
		return err
	}
	if err := planar.Require(in.Color && out.Color, op, "image not color"); err != nil {
		return err
	}
	if err := planar.Require(!in.RGB, op, "input image not YCbCr"); err != nil {
		return err
	}
	if down {
		return planar.Require(in.DownsampledChroma, op, "input chroma not downsampled")
	}
	return planar.Require(!in.DownsampledChroma, op, "input chroma already downsampled")
}

// copyPassThrough copies row y of luma and alpha from in to out where the
// buffers differ.
func copyPassThrough(in, out *planar.Image, y int, copyY, copyAlpha bool) {
	if copyY {
		planar.CopyRow(planar.ChannelY, in, out, y)
	}
	if copyAlpha {
		planar.CopyRow(planar.ChannelAlpha, in, out, y)
	}
}

//go:build unblock_debug

package unblock

import (
	"testing"

	"github.com/AnyUserName/unblock-cli/internal/chroma"
	"github.com/AnyUserName/unblock-cli/internal/convert"
	"github.com/AnyUserName/unblock-cli/internal/planar"
)

func TestPreconditions(t *testing.T) {
	gray := planar.NewGray(16, 16)
	color := planar.NewColor(16, 16, false)
	small := planar.NewGray(8, 16)
	alpha := planar.NewColor(16, 16, true)

	cases := []struct {
		name string
		err  error
		kind planar.ErrorKind
	}{
		{"nil input", Unblock(nil, gray, false, false, nil), planar.KindNullArgument},
		{"nil output", Unblock(gray, nil, false, false, nil), planar.KindNullArgument},
		{"size mismatch", Unblock(gray, small, false, false, nil), planar.KindPrecondition},
		{"color mismatch", Unblock(gray, color, false, false, nil), planar.KindPrecondition},
		{"alpha mismatch", Unblock(color, alpha, false, false, nil), planar.KindPrecondition},
		{"no layout", Unblock(&planar.Image{Width: 4, Height: 4}, gray, false, false, nil), planar.KindNotInitialized},
		{"convert gray", convert.RgbToYCbCr(gray, gray, nil), planar.KindPrecondition},
		{"convert ycbcr as rgb", convert.RgbToYCbCr(color, color, nil), planar.KindPrecondition},
		{"upsample full chroma", chroma.MagicUpsample(color, color, nil), planar.KindPrecondition},
		{"replicate full chroma", chroma.Replicate(color, nil), planar.KindPrecondition},
	}
	for _, tc := range cases {
		if got := planar.KindOf(tc.err); got != tc.kind {
			t.Errorf("%s: got %v (%v), want %v", tc.name, got, tc.err, tc.kind)
		}
	}

	down := planar.NewColor(16, 16, false)
	if err := chroma.Downsample(down, down, nil); err != nil {
		t.Fatal(err)
	}
	if err := chroma.Downsample(down, down, nil); planar.KindOf(err) != planar.KindPrecondition {
		t.Errorf("downsample twice: got %v", err)
	}
}

package convert

import (
	"errors"
	"os"
	"testing"

	"github.com/AnyUserName/unblock-cli/internal/planar"
)

func TestMain(m *testing.M) {
	if err := Initialize(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func rgbImage(w, h int, alpha bool) *planar.Image {
	img := planar.NewColor(w, h, alpha)
	img.RGB = true
	return img
}

func setRGB(img *planar.Image, x, y int, r, g, b uint8) {
	img.Set(planar.ChannelY, x, y, r)
	img.Set(planar.ChannelCb, x, y, g)
	img.Set(planar.ChannelCr, x, y, b)
}

func getRGB(img *planar.Image, x, y int) (uint8, uint8, uint8) {
	return img.At(planar.ChannelY, x, y), img.At(planar.ChannelCb, x, y), img.At(planar.ChannelCr, x, y)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestRgbToYCbCr_KnownValues(t *testing.T) {
	cases := []struct {
		r, g, b    uint8
		y, cb, cr uint8
	}{
		{0, 0, 0, 0, 128, 128},
		{255, 255, 255, 255, 128, 128},
		{255, 0, 0, 76, 85, 255},
		{128, 128, 128, 128, 128, 128},
	}

	img := rgbImage(len(cases), 1, false)
	for i, tc := range cases {
		setRGB(img, i, 0, tc.r, tc.g, tc.b)
	}
	if err := RgbToYCbCr(img, img, nil); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if img.RGB {
		t.Error("RGB flag still set after forward conversion")
	}
	for i, tc := range cases {
		y, cb, cr := getRGB(img, i, 0)
		if y != tc.y || cb != tc.cb || cr != tc.cr {
			t.Errorf("rgb(%d,%d,%d): got ycbcr(%d,%d,%d), want (%d,%d,%d)",
				tc.r, tc.g, tc.b, y, cb, cr, tc.y, tc.cb, tc.cr)
		}
	}
}

func TestRoundTrip_WithinOne(t *testing.T) {
	// Every combination on a coarse grid plus the extremes.
	levels := []uint8{0, 1, 17, 63, 64, 127, 128, 129, 191, 200, 254, 255}
	n := len(levels)
	img := rgbImage(n*n, n, false)
	for bi, b := range levels {
		for ri, r := range levels {
			for gi, g := range levels {
				setRGB(img, ri*n+gi, bi, r, g, b)
			}
		}
	}
	orig := planar.Like(img)
	for y := 0; y < img.Height; y++ {
		for c := planar.ChannelY; c <= planar.ChannelCr; c++ {
			planar.CopyRow(c, img, orig, y)
		}
	}

	if err := RgbToYCbCr(img, img, nil); err != nil {
		t.Fatalf("forward: %v", err)
	}
	if err := YCbCrToRgb(img, img, nil); err != nil {
		t.Fatalf("inverse: %v", err)
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r0, g0, b0 := getRGB(orig, x, y)
			r1, g1, b1 := getRGB(img, x, y)
			if absDiff(r0, r1) > 1 || absDiff(g0, g1) > 1 || absDiff(b0, b1) > 1 {
				t.Errorf("(%d,%d,%d): round trip gave (%d,%d,%d)", r0, g0, b0, r1, g1, b1)
			}
		}
	}
}

func TestYCbCrToRgb_NonReplicatedFillsGray(t *testing.T) {
	img := planar.NewColor(3, 3, false)
	img.DownsampledChroma = true
	img.NonReplicatedChroma = true
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.Set(planar.ChannelY, x, y, uint8(100+x+y*3))
			img.Set(planar.ChannelCb, x, y, 128)
			img.Set(planar.ChannelCr, x, y, 200)
		}
	}

	out := planar.Like(img)
	if err := YCbCrToRgb(img, out, nil); err != nil {
		t.Fatalf("inverse: %v", err)
	}
	if !out.RGB || !out.DownsampledChroma || !out.NonReplicatedChroma {
		t.Errorf("flags: rgb=%v down=%v nonrep=%v", out.RGB, out.DownsampledChroma, out.NonReplicatedChroma)
	}

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			r, g, b := getRGB(out, x, y)
			yv := img.At(planar.ChannelY, x, y)
			topLeft := x%2 == 0 && y%2 == 0
			if topLeft {
				if r <= g {
					t.Errorf("(%d,%d): block origin should be reddish, got (%d,%d,%d)", x, y, r, g, b)
				}
				continue
			}
			if r != yv || g != yv || b != yv {
				t.Errorf("(%d,%d): got (%d,%d,%d), want gray %d", x, y, r, g, b, yv)
			}
		}
	}
}

func TestConvert_CopiesAlpha(t *testing.T) {
	in := rgbImage(4, 2, true)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			in.Set(planar.ChannelAlpha, x, y, uint8(10*x+y))
		}
	}
	out := planar.NewColorBottomUp(4, 2, true)

	if err := RgbToYCbCr(in, out, nil); err != nil {
		t.Fatalf("forward: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if got, want := out.At(planar.ChannelAlpha, x, y), uint8(10*x+y); got != want {
				t.Errorf("alpha(%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestConvert_ProgressAbort(t *testing.T) {
	img := rgbImage(8, 8, false)
	rows := 0
	err := RgbToYCbCr(img, img, func() bool {
		rows++
		return rows < 4
	})
	if planar.KindOf(err) != planar.KindAborted {
		t.Fatalf("got %v, want aborted", err)
	}
	if rows != 4 {
		t.Errorf("progress calls: got %d, want 4", rows)
	}

	calls := 0
	img = planar.NewColor(5, 7, false)
	if err := YCbCrToRgb(img, img, func() bool { calls++; return true }); err != nil {
		t.Fatalf("inverse: %v", err)
	}
	if calls != 7 {
		t.Errorf("progress per row: got %d calls, want 7", calls)
	}
}

func TestNotInitialized(t *testing.T) {
	if err := Finalize(); err != nil {
		t.Fatal(err)
	}
	if err := Finalize(); err != nil {
		t.Fatalf("second finalize: %v", err)
	}
	defer func() {
		if err := Initialize(); err != nil {
			t.Fatal(err)
		}
	}()

	if Initialized() {
		t.Error("Initialized after Finalize")
	}
	img := rgbImage(2, 2, false)
	err := RgbToYCbCr(img, img, nil)
	if !errors.Is(err, planar.ErrNotInitialized) {
		t.Errorf("got %v, want not initialized", err)
	}
}

func BenchmarkRgbToYCbCr(b *testing.B) {
	img := rgbImage(1024, 768, false)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		img.RGB = true
		_ = RgbToYCbCr(img, img, nil)
	}
}

package chroma

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

func fill(img *planar.Image, c planar.Channel, f func(x, y int) uint8) {
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			img.Set(c, x, y, f(x, y))
		}
	}
}

func clone(img *planar.Image) *planar.Image {
	out := planar.Like(img)
	for y := 0; y < img.Height; y++ {
		for c := planar.ChannelY; c <= planar.ChannelCr; c++ {
			planar.CopyRow(c, img, out, y)
		}
		if img.Alpha {
			planar.CopyRow(planar.ChannelAlpha, img, out, y)
		}
	}
	return out
}

func TestDownsample_OddEdges(t *testing.T) {
	img := planar.NewColor(3, 3, false)
	// Cb:        Cr = 255 - Cb
	//  10 20 30
	//  40 51 60
	//  70 80 91
	vals := [3][3]uint8{{10, 20, 30}, {40, 51, 60}, {70, 80, 91}}
	fill(img, planar.ChannelCb, func(x, y int) uint8 { return vals[y][x] })
	fill(img, planar.ChannelCr, func(x, y int) uint8 { return 255 - vals[y][x] })

	if err := Downsample(img, img, nil); err != nil {
		t.Fatalf("downsample: %v", err)
	}
	if !img.DownsampledChroma || img.NonReplicatedChroma {
		t.Errorf("flags: down=%v nonrep=%v", img.DownsampledChroma, img.NonReplicatedChroma)
	}

	want := [3][3]uint8{
		{30, 30, 45}, // (10+20+40+51+2)>>2, (30+60+1)>>1
		{30, 30, 45},
		{75, 75, 91}, // (70+80+1)>>1, single
	}
	wantCr := [3][3]uint8{
		{225, 225, 210}, // (245+235+215+204+2)>>2, (225+195+1)>>1
		{225, 225, 210},
		{180, 180, 164}, // (185+175+1)>>1, single
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := img.At(planar.ChannelCb, x, y); got != want[y][x] {
				t.Errorf("Cb(%d,%d): got %d, want %d", x, y, got, want[y][x])
			}
			if got := img.At(planar.ChannelCr, x, y); got != wantCr[y][x] {
				t.Errorf("Cr(%d,%d): got %d, want %d", x, y, got, wantCr[y][x])
			}
		}
	}
}

func TestDownsample_CopiesLumaAndAlpha(t *testing.T) {
	in := planar.NewColor(5, 3, true)
	fill(in, planar.ChannelY, func(x, y int) uint8 { return uint8(x + 10*y) })
	fill(in, planar.ChannelAlpha, func(x, y int) uint8 { return uint8(200 - x - y) })
	out := planar.NewColorBottomUp(5, 3, true)

	if err := Downsample(in, out, nil); err != nil {
		t.Fatalf("downsample: %v", err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if out.At(planar.ChannelY, x, y) != in.At(planar.ChannelY, x, y) {
				t.Errorf("Y(%d,%d) not copied", x, y)
			}
			if out.At(planar.ChannelAlpha, x, y) != in.At(planar.ChannelAlpha, x, y) {
				t.Errorf("alpha(%d,%d) not copied", x, y)
			}
		}
	}
}

func TestReplicate_Idempotent(t *testing.T) {
	img := planar.NewColor(7, 5, false)
	fill(img, planar.ChannelCb, func(x, y int) uint8 { return uint8(x*13 + y*29) })
	fill(img, planar.ChannelCr, func(x, y int) uint8 { return uint8(250 - x*7 - y*3) })
	if err := Downsample(img, img, nil); err != nil {
		t.Fatalf("downsample: %v", err)
	}
	before := clone(img)

	if err := Replicate(img, nil); err != nil {
		t.Fatalf("replicate: %v", err)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			for _, c := range []planar.Channel{planar.ChannelCb, planar.ChannelCr} {
				if a, b := before.At(c, x, y), img.At(c, x, y); a != b {
					t.Errorf("%s(%d,%d): replicate changed replicated chroma %d -> %d", c, x, y, a, b)
				}
			}
		}
	}
}

func TestReplicate_FillsBlocks(t *testing.T) {
	img := planar.NewColor(3, 3, false)
	img.DownsampledChroma = true
	img.NonReplicatedChroma = true
	img.Set(planar.ChannelCb, 0, 0, 50)
	img.Set(planar.ChannelCb, 2, 0, 60)
	img.Set(planar.ChannelCb, 0, 2, 70)
	img.Set(planar.ChannelCb, 2, 2, 80)

	calls := 0
	if err := Replicate(img, func() bool { calls++; return true }); err != nil {
		t.Fatalf("replicate: %v", err)
	}
	if calls != 2 {
		t.Errorf("progress per row pair: got %d calls, want 2", calls)
	}
	if img.NonReplicatedChroma {
		t.Error("still marked non-replicated")
	}

	want := [3][3]uint8{{50, 50, 60}, {50, 50, 60}, {70, 70, 80}}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := img.At(planar.ChannelCb, x, y); got != want[y][x] {
				t.Errorf("Cb(%d,%d): got %d, want %d", x, y, got, want[y][x])
			}
		}
	}
}

func TestMagicUpsample_ConstantStable(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {2, 2}, {5, 3}, {16, 9}} {
		img := planar.NewColor(size[0], size[1], false)
		img.DownsampledChroma = true
		img.NonReplicatedChroma = true
		fill(img, planar.ChannelCb, func(x, y int) uint8 { return 77 })
		fill(img, planar.ChannelCr, func(x, y int) uint8 { return 200 })

		if err := MagicUpsample(img, img, nil); err != nil {
			t.Fatalf("%v: upsample: %v", size, err)
		}
		if img.DownsampledChroma || img.NonReplicatedChroma {
			t.Errorf("%v: downsample flags not cleared", size)
		}
		for y := 0; y < size[1]; y++ {
			for x := 0; x < size[0]; x++ {
				if cb, cr := img.At(planar.ChannelCb, x, y), img.At(planar.ChannelCr, x, y); cb != 77 || cr != 200 {
					t.Errorf("%v (%d,%d): got (%d,%d), want (77,200)", size, x, y, cb, cr)
				}
			}
		}
	}
}

func TestMagicUpsample_Kernel(t *testing.T) {
	img := planar.NewColor(4, 2, false)
	img.DownsampledChroma = true
	img.NonReplicatedChroma = true
	img.Set(planar.ChannelCb, 0, 0, 0)
	img.Set(planar.ChannelCb, 2, 0, 160)

	if err := MagicUpsample(img, img, nil); err != nil {
		t.Fatalf("upsample: %v", err)
	}
	// Single block row: vertical and diagonal neighbours fall back to A.
	want := []uint8{0, 30, 130, 160}
	for y := 0; y < 2; y++ {
		for x, w := range want {
			if got := img.At(planar.ChannelCb, x, y); got != w {
				t.Errorf("Cb(%d,%d): got %d, want %d", x, y, got, w)
			}
		}
	}
}

func TestMagicUpsample_InPlaceMatchesCopy(t *testing.T) {
	src := planar.NewColor(11, 9, true)
	fill(src, planar.ChannelY, func(x, y int) uint8 { return uint8(x * y) })
	fill(src, planar.ChannelCb, func(x, y int) uint8 { return uint8((x*37 + y*91) % 256) })
	fill(src, planar.ChannelCr, func(x, y int) uint8 { return uint8((x*x + 3*y) % 256) })
	fill(src, planar.ChannelAlpha, func(x, y int) uint8 { return uint8(x + y) })
	src.DownsampledChroma = true
	src.NonReplicatedChroma = true

	inPlace := clone(src)
	out := planar.NewColorBottomUp(11, 9, true)
	if err := MagicUpsample(inPlace, inPlace, nil); err != nil {
		t.Fatalf("in place: %v", err)
	}
	if err := MagicUpsample(src, out, nil); err != nil {
		t.Fatalf("copy: %v", err)
	}

	for y := 0; y < 9; y++ {
		for x := 0; x < 11; x++ {
			for c := planar.ChannelY; c <= planar.ChannelAlpha; c++ {
				if a, b := inPlace.At(c, x, y), out.At(c, x, y); a != b {
					t.Errorf("%s(%d,%d): in place %d, copy %d", c, x, y, a, b)
				}
			}
		}
	}
}

func TestProgress(t *testing.T) {
	img := planar.NewColor(4, 5, false)
	calls := 0
	count := func() bool { calls++; return true }

	if err := Downsample(img, img, count); err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("downsample: got %d calls, want 3", calls)
	}

	calls = 0
	if err := MagicUpsample(img, img, count); err != nil {
		t.Fatal(err)
	}
	if calls != 5 {
		t.Errorf("upsample: got %d calls, want 5", calls)
	}

	img.DownsampledChroma = true
	err := MagicUpsample(img, img, func() bool { return false })
	if !errors.Is(err, planar.ErrAborted) {
		t.Errorf("abort: got %v", err)
	}
}

func TestNotInitialized(t *testing.T) {
	if err := Finalize(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := Initialize(); err != nil {
			t.Fatal(err)
		}
	}()

	img := planar.NewColor(2, 2, false)
	if err := Downsample(img, img, nil); planar.KindOf(err) != planar.KindNotInitialized {
		t.Errorf("downsample: got %v", err)
	}
	if err := Replicate(img, nil); planar.KindOf(err) != planar.KindNotInitialized {
		t.Errorf("replicate: got %v", err)
	}
	if err := MagicUpsample(img, img, nil); planar.KindOf(err) != planar.KindNotInitialized {
		t.Errorf("upsample: got %v", err)
	}
}

func BenchmarkMagicUpsample(b *testing.B) {
	img := planar.NewColor(1024, 768, false)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		img.DownsampledChroma = true
		_ = MagicUpsample(img, img, nil)
	}
}

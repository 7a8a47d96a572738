// Package convert converts whole images between RGB and YCbCr using
// BT.601 full-range fixed-point arithmetic.
package convert

import "github.com/AnyUserName/unblock-cli/internal/planar"

const (
	opToYCbCr = "convert rgb to ycbcr"
	opToRgb   = "convert ycbcr to rgb"
)

// RgbToYCbCr converts in (RGB) into out (YCbCr). in and out may alias.
// Alpha is copied when the buffers differ; the downsampling flags of in are
// carried over to out.
func RgbToYCbCr(in, out *planar.Image, progress planar.Progress) error {
	t, err := load(opToYCbCr)
	if err != nil {
		return err
	}
	if err := checkPair(opToYCbCr, in, out, true); err != nil {
		return err
	}

	w, h := in.Width, in.Height
	copyAlpha := in.Alpha && !in.SameBuffer(planar.ChannelAlpha, out)
	down, nonrep := in.DownsampledChroma, in.NonReplicatedChroma

	out.RGB = false
	out.DownsampledChroma = down
	out.NonReplicatedChroma = nonrep

	for y := 0; y < h; y++ {
		if err := progress.Tick(opToYCbCr); err != nil {
			return err
		}
		r := in.Cursor(planar.ChannelY, 0, y)
		g := in.Cursor(planar.ChannelCb, 0, y)
		b := in.Cursor(planar.ChannelCr, 0, y)
		oy := out.Cursor(planar.ChannelY, 0, y)
		ocb := out.Cursor(planar.ChannelCb, 0, y)
		ocr := out.Cursor(planar.ChannelCr, 0, y)

		for x := 0; x < w; x++ {
			R, G, B := r.Get(), g.Get(), b.Get()
			oy.Set(uint8((t.yR[R] + t.yG[G] + t.yB[B]) >> 16))
			ocb.Set(uint8((t.cbR[R] + t.cbG[G] + t.cbB[B]) >> 16))
			ocr.Set(uint8((t.crR[R] + t.crG[G] + t.crB[B]) >> 16))

			r.Right()
			g.Right()
			b.Right()
			oy.Right()
			ocb.Right()
			ocr.Right()
		}

		if copyAlpha {
			planar.CopyRow(planar.ChannelAlpha, in, out, y)
		}
	}
	return nil
}

// YCbCrToRgb converts in (YCbCr) into out (RGB), clamping to [0,255]. in
// and out may alias.
//
// If in carries non-replicated downsampled chroma, only the top-left pixel
// of each 2x2 block receives color; the other three become gray (R=G=B=Y).
// Replicate or upsample first when full color is needed.
func YCbCrToRgb(in, out *planar.Image, progress planar.Progress) error {
	t, err := load(opToRgb)
	if err != nil {
		return err
	}
	if err := checkPair(opToRgb, in, out, false); err != nil {
		return err
	}

	w, h := in.Width, in.Height
	copyAlpha := in.Alpha && !in.SameBuffer(planar.ChannelAlpha, out)
	down, nonrep := in.DownsampledChroma, in.NonReplicatedChroma
	sparse := down && nonrep

	out.RGB = true
	out.DownsampledChroma = down
	out.NonReplicatedChroma = nonrep

	for y := 0; y < h; y++ {
		if err := progress.Tick(opToRgb); err != nil {
			return err
		}
		iy := in.Cursor(planar.ChannelY, 0, y)
		icb := in.Cursor(planar.ChannelCb, 0, y)
		icr := in.Cursor(planar.ChannelCr, 0, y)
		r := out.Cursor(planar.ChannelY, 0, y)
		g := out.Cursor(planar.ChannelCb, 0, y)
		b := out.Cursor(planar.ChannelCr, 0, y)
		oddRow := y&1 == 1

		for x := 0; x < w; x++ {
			Y := iy.Get()
			if sparse && (oddRow || x&1 == 1) {
				r.Set(Y)
				g.Set(Y)
				b.Set(Y)
			} else {
				Cb, Cr := icb.Get(), icr.Get()
				yv := int32(Y)
				r.Set(clamp(yv + int32(t.rCr[Cr])))
				g.Set(clamp(yv + (t.gCb[Cb]+t.gCr[Cr])>>16))
				b.Set(clamp(yv + int32(t.bCb[Cb])))
			}

			iy.Right()
			icb.Right()
			icr.Right()
			r.Right()
			g.Right()
			b.Right()
		}

		if copyAlpha {
			planar.CopyRow(planar.ChannelAlpha, in, out, y)
		}
	}
	return nil
}

func checkPair(op string, in, out *planar.Image, wantRGB bool) error {
	if !planar.Debug {
		return nil
	}
	if err := planar.CheckPair(op, in, out); err != nil {
		return err
	}
	if err := planar.Require(in.Color && out.Color, op, "image not color"); err != nil {
		return err
	}
	if wantRGB {
		return planar.Require(in.RGB, op, "input image not RGB")
	}
	return planar.Require(!in.RGB, op, "input image not YCbCr")
}

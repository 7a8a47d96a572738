// Package chroma resamples the Cb and Cr channels of YCbCr images between
// full resolution and one value per 2x2 block.
package chroma

import "github.com/AnyUserName/unblock-cli/internal/planar"

const opDownsample = "downsample chroma"

// Downsample averages Cb and Cr over each 2x2 block of in and writes the
// rounded average into every pixel of the block in out. Partial blocks on
// the right and bottom edges average only the pixels they contain. in and
// out may alias.
func Downsample(in, out *planar.Image, progress planar.Progress) error {
	if _, err := load(opDownsample); err != nil {
		return err
	}
	if err := check(opDownsample, in, out, false); err != nil {
		return err
	}

	w, h := in.Width, in.Height
	copyY := !in.SameBuffer(planar.ChannelY, out)
	copyAlpha := in.Alpha && !in.SameBuffer(planar.ChannelAlpha, out)

	out.RGB = false
	out.DownsampledChroma = true
	out.NonReplicatedChroma = false

	for y := 0; y < h; y += 2 {
		if err := progress.Tick(opDownsample); err != nil {
			return err
		}
		hasBottom := y+1 < h
		for _, c := range [2]planar.Channel{planar.ChannelCb, planar.ChannelCr} {
			src := in.Cursor(c, 0, y)
			dst := out.Cursor(c, 0, y)
			for x := 0; x < w; x += 2 {
				hasRight := x+1 < w
				var v uint8
				switch {
				case hasRight && hasBottom:
					sum := uint16(src.Get()) + uint16(src.Peek(1, 0)) +
						uint16(src.Peek(0, 1)) + uint16(src.Peek(1, 1))
					v = uint8((sum + 2) >> 2)
				case hasRight:
					v = uint8((uint16(src.Get()) + uint16(src.Peek(1, 0)) + 1) >> 1)
				case hasBottom:
					v = uint8((uint16(src.Get()) + uint16(src.Peek(0, 1)) + 1) >> 1)
				default:
					v = src.Get()
				}

				dst.Set(v)
				if hasRight {
					dst.Right()
					dst.Set(v)
					dst.Left()
				}
				if hasBottom {
					dst.Down()
					dst.Set(v)
					if hasRight {
						dst.Right()
						dst.Set(v)
						dst.Left()
					}
					dst.Up()
				}

				src.RightTwo()
				dst.RightTwo()
			}
		}

		copyPassThrough(in, out, y, copyY, copyAlpha)
		if hasBottom {
			copyPassThrough(in, out, y+1, copyY, copyAlpha)
		}
	}
	return nil
}

package chroma

import "github.com/AnyUserName/unblock-cli/internal/planar"

const opUpsample = "magic upsample chroma"

// blockRows is a sliding window over three rows of block values for one
// chroma channel.
type blockRows struct {
	prev, cur, next []uint8
}

func newBlockRows(n int) blockRows {
	buf := make([]uint8, 3*n)
	return blockRows{prev: buf[:n], cur: buf[n : 2*n], next: buf[2*n:]}
}

func (r *blockRows) advance() {
	r.prev, r.cur, r.next = r.cur, r.next, r.prev
}

// loadBlockRow reads the top-left sample of every block on block row by.
func loadBlockRow(img *planar.Image, c planar.Channel, by int, dst []uint8) {
	p := img.Cursor(c, 0, by<<1).Scaled(2)
	for i := range dst {
		dst[i] = p.Get()
		p.Right()
	}
}

// MagicUpsample restores full-resolution Cb and Cr from the top-left sample
// of each 2x2 block using the magic kernel: every pixel takes 9/16 of its
// own block, 3/16 of each edge-adjacent block on its side and 1/16 of the
// diagonal block. Neighbours outside the image are replaced by the pixel's
// own block. Replicated and non-replicated input are both accepted. in and
// out may alias.
func MagicUpsample(in, out *planar.Image, progress planar.Progress) error {
	t, err := load(opUpsample)
	if err != nil {
		return err
	}
	if err := check(opUpsample, in, out, true); err != nil {
		return err
	}

	w, h := in.Width, in.Height
	cw, ch := in.ChromaSize()
	copyY := !in.SameBuffer(planar.ChannelY, out)
	copyAlpha := in.Alpha && !in.SameBuffer(planar.ChannelAlpha, out)

	cb, cr := newBlockRows(cw), newBlockRows(cw)
	loadBlockRow(in, planar.ChannelCb, 0, cb.cur)
	loadBlockRow(in, planar.ChannelCr, 0, cr.cur)

	for by := 0; by < ch; by++ {
		hasNext := by+1 < ch
		if hasNext {
			loadBlockRow(in, planar.ChannelCb, by+1, cb.next)
			loadBlockRow(in, planar.ChannelCr, by+1, cr.next)
		}

		for dy := 0; dy < 2; dy++ {
			y := by<<1 + dy
			if y >= h {
				break
			}
			if err := progress.Tick(opUpsample); err != nil {
				return err
			}

			top := dy == 0
			hasVert := (top && by > 0) || (!top && hasNext)
			for _, pl := range [2]struct {
				channel planar.Channel
				rows    *blockRows
			}{{planar.ChannelCb, &cb}, {planar.ChannelCr, &cr}} {
				vert := pl.rows.next
				if top {
					vert = pl.rows.prev
				}
				cur := pl.rows.cur
				o := out.Cursor(pl.channel, 0, y)
				for x := 0; x < w; x++ {
					bx := x >> 1
					hx := bx + 1
					if x&1 == 0 {
						hx = bx - 1
					}
					hasHorz := hx >= 0 && hx < cw

					a := cur[bx]
					b, c, d := a, a, a
					if hasVert {
						b = vert[bx]
					}
					if hasHorz {
						c = cur[hx]
					}
					if hasVert && hasHorz {
						d = vert[hx]
					}

					o.Set(uint8((t.mult9add8[a] + t.mult3[b] + t.mult3[c] + uint16(d)) >> 4))
					o.Right()
				}
			}

			copyPassThrough(in, out, y, copyY, copyAlpha)
		}

		cb.advance()
		cr.advance()
	}

	out.RGB = false
	out.DownsampledChroma = false
	out.NonReplicatedChroma = false
	return nil
}

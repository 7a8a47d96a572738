package chroma

import "github.com/AnyUserName/unblock-cli/internal/planar"

const opReplicate = "replicate chroma"

// Replicate copies the top-left Cb and Cr sample of each 2x2 block into the
// rest of the block, in place. Images whose chroma is already replicated
// are accepted and come out unchanged.
func Replicate(img *planar.Image, progress planar.Progress) error {
	if _, err := load(opReplicate); err != nil {
		return err
	}
	if err := check(opReplicate, img, img, true); err != nil {
		return err
	}

	w, h := img.Width, img.Height
	for y := 0; y < h; y += 2 {
		if err := progress.Tick(opReplicate); err != nil {
			return err
		}
		hasBottom := y+1 < h
		for _, c := range [2]planar.Channel{planar.ChannelCb, planar.ChannelCr} {
			p := img.Cursor(c, 0, y)
			for x := 0; x < w; x += 2 {
				v := p.Get()
				hasRight := x+1 < w
				if hasRight {
					p.Right()
					p.Set(v)
					p.Left()
				}
				if hasBottom {
					p.Down()
					p.Set(v)
					if hasRight {
						p.Right()
						p.Set(v)
						p.Left()
					}
					p.Up()
				}
				p.RightTwo()
			}
		}
	}

	img.NonReplicatedChroma = false
	return nil
}

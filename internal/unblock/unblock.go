// Package unblock removes 8x8 block artifacts from decoded JPEG images.
//
// Each pass measures the discrepancy across every block boundary and, as a
// reference, across the middle of every block. Comparing the two
// distributions tells how much of each boundary discrepancy is caused by
// blocking rather than by image content; only that excess is removed,
// spread smoothly over the two adjacent blocks. Genuine edges, whose
// discrepancies are as common inside blocks as on their boundaries, are
// left alone.
//
// Color images are processed in YCbCr with chroma held at half resolution,
// where JPEG encoders put their 16x16 chroma blocks.
package unblock

import (
	"fmt"

	"github.com/AnyUserName/unblock-cli/internal/chroma"
	"github.com/AnyUserName/unblock-cli/internal/convert"
	"github.com/AnyUserName/unblock-cli/internal/planar"
)

const opUnblock = "unblock"

// Options controls a Run.
type Options struct {
	// Photographic makes the correction conservative for continuous-tone
	// images: boundary discrepancies that could be sampling noise are kept.
	Photographic bool
	// Cartoon makes the correction aggressive for flat-shaded images.
	// Ignored when Photographic is set.
	Cartoon bool

	// Progress is called once per line of every scan and between stages.
	// Returning false aborts the run.
	Progress planar.Progress

	// Inspect, if set, receives the analysis of each pass once its
	// adjustment tables are built, before the pass corrects the image.
	Inspect func(*Analysis)
}

// scratch is the working memory of one Run.
type scratch struct {
	analysis Analysis

	measureY, measureCb, measureCr lineWindow
	correctY, correctCb, correctCr blockPair
}

func newScratch() (s *scratch, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = planar.NewError(planar.KindAllocation, opUnblock, fmt.Sprint(r))
		}
	}()
	return new(scratch), nil
}

// Unblock runs the filter from in to out with the given flags. in and out
// may be the same image. See Run.
func Unblock(in, out *planar.Image, photographic, cartoon bool, progress planar.Progress) error {
	return Run(in, out, Options{
		Photographic: photographic,
		Cartoon:      cartoon,
		Progress:     progress,
	})
}

// Run deblocks in into out. in and out may be the same image.
//
// The format of out on entry selects the output format: if out.RGB is set
// the result is converted back to RGB; if out.DownsampledChroma is clear
// the chroma is upsampled with the magic kernel, otherwise it is left
// downsampled and replicated. Gray images are filtered on luma only.
func Run(in, out *planar.Image, opts Options) error {
	t, err := load(opUnblock)
	if err != nil {
		return err
	}
	if err := planar.CheckPair(opUnblock, in, out); err != nil {
		return err
	}

	s, err := newScratch()
	if err != nil {
		return err
	}

	progress := opts.Progress
	color := in.Color
	upsample := color && !out.DownsampledChroma
	toRGB := color && out.RGB

	cur := in
	if color {
		if in.RGB {
			if err := convert.RgbToYCbCr(in, out, progress); err != nil {
				return planar.Wrap(opUnblock, err)
			}
			cur = out
		}
		if !cur.DownsampledChroma {
			if err := chroma.Downsample(cur, out, progress); err != nil {
				return planar.Wrap(opUnblock, err)
			}
			cur = out
		}
	}

	if err := s.pass(t, Vertical, cur, out, opts); err != nil {
		return planar.Wrap(opUnblock, err)
	}
	if color {
		// Only the top-left chroma sample of each block is current now.
		out.RGB = false
		out.DownsampledChroma = true
		out.NonReplicatedChroma = true
	}
	if err := s.pass(t, Horizontal, out, out, opts); err != nil {
		return planar.Wrap(opUnblock, err)
	}

	if !color {
		return nil
	}
	if upsample {
		err = chroma.MagicUpsample(out, out, progress)
	} else {
		err = chroma.Replicate(out, progress)
	}
	if err != nil {
		return planar.Wrap(opUnblock, err)
	}
	if toRGB {
		if err := convert.YCbCrToRgb(out, out, progress); err != nil {
			return planar.Wrap(opUnblock, err)
		}
	}
	return nil
}

// pass measures src, builds the adjustment tables and corrects src into
// dst for one orientation.
func (s *scratch) pass(t *tables, o Orientation, src, dst *planar.Image, opts Options) error {
	s.analysis.reset(o, src.Color)

	if err := s.measure(src, opts.Progress); err != nil {
		return err
	}
	s.adjust(t, opts.Photographic, opts.Cartoon)
	if err := opts.Progress.Tick("adjust " + o.String()); err != nil {
		return err
	}
	if opts.Inspect != nil {
		opts.Inspect(&s.analysis)
	}
	return s.correct(src, dst, opts.Progress)
}

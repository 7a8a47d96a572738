package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/AnyUserName/unblock-cli/internal/pipeline"
	"github.com/AnyUserName/unblock-cli/internal/profile"
	"github.com/spf13/cobra"
)

// filterFlags are the filter settings shared by file and batch.
type filterFlags struct {
	profile         string
	photographic    bool
	cartoon         bool
	keepDownsampled bool
	gray            bool
	quality         int
	format          string
}

func (f *filterFlags) register(c *cobra.Command) {
	fl := c.Flags()
	fl.StringVarP(&f.profile, "profile", "p", profile.DefaultName,
		"filter profile ("+strings.Join(profile.Names(), ", ")+")")
	fl.BoolVar(&f.photographic, "photographic", false, "conservative correction for photographs")
	fl.BoolVar(&f.cartoon, "cartoon", false, "aggressive correction for flat-shaded images")
	fl.BoolVar(&f.keepDownsampled, "keep-downsampled", false, "keep chroma at half resolution instead of upsampling")
	fl.BoolVar(&f.gray, "gray", false, "convert to grayscale and filter luma only")
	fl.IntVarP(&f.quality, "quality", "q", 0, "quality 1-100 for lossy output (0 = profile default)")
	fl.StringVarP(&f.format, "format", "f", "", "output format: png, jpeg, webp, tiff, bmp (default from profile)")
}

// resolve loads the profile and applies explicitly set flags on top.
func (f *filterFlags) resolve(c *cobra.Command) profile.Profile {
	if !profile.Known(f.profile) {
		logVerbose("unknown profile %q, using %s settings", f.profile, profile.DefaultName)
	}
	p := profile.Get(f.profile)

	fl := c.Flags()
	if fl.Changed("photographic") {
		p.Photographic = f.photographic
	}
	if fl.Changed("cartoon") {
		p.Cartoon = f.cartoon
		if f.cartoon && !fl.Changed("photographic") {
			p.Photographic = false
		}
	}
	if fl.Changed("keep-downsampled") {
		p.KeepDownsampled = f.keepDownsampled
	}
	if f.quality > 0 {
		p.Quality = f.quality
	}
	if f.format != "" {
		p.Format = f.format
	}
	return p
}

func (f *filterFlags) options(p profile.Profile) pipeline.Options {
	return pipeline.Options{
		Photographic:    p.Photographic,
		Cartoon:         p.Cartoon,
		KeepDownsampled: p.KeepDownsampled,
		Gray:            f.gray,
	}
}

// interruptContext is cancelled on Ctrl-C.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

package pipeline

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/unblock-cli/internal/bridge"
	"github.com/AnyUserName/unblock-cli/internal/encoder"
	"github.com/AnyUserName/unblock-cli/internal/hasher"
	"github.com/AnyUserName/unblock-cli/internal/report"
	"github.com/AnyUserName/unblock-cli/internal/unblock"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Options are the per-image filter settings.
type Options struct {
	Photographic    bool
	Cartoon         bool
	KeepDownsampled bool
	Gray            bool // filter luma only; output is grayscale
}

// Filtered is a deblocked image and what the engine measured on it.
type Filtered struct {
	Image  image.Image
	Color  bool
	Alpha  bool
	Passes []report.PassStats
	Digest string // PlaneDigest of the filtered samples
}

// Open decodes an image file, applying its EXIF orientation.
func Open(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// Filter deblocks img. The engine polls ctx between lines, so cancelling
// it aborts the filter promptly. If dump is non-nil the analysis of both
// passes is written to it as TSV. *image.NRGBA and *image.Gray inputs are
// filtered in place.
func Filter(ctx context.Context, img image.Image, opts Options, dump io.Writer) (*Filtered, error) {
	var frame *bridge.Frame
	if opts.Gray {
		frame = bridge.Gray(img)
	} else {
		frame = bridge.FromImage(img)
	}

	res := &Filtered{Color: frame.Planar.Color, Alpha: frame.Planar.Alpha}
	var dumpErr error

	in := frame.Planar
	out := *in
	out.DownsampledChroma = opts.KeepDownsampled && in.Color

	err := unblock.Run(in, &out, unblock.Options{
		Photographic: opts.Photographic,
		Cartoon:      opts.Cartoon,
		Progress:     func() bool { return ctx.Err() == nil },
		Inspect: func(a *unblock.Analysis) {
			res.Passes = append(res.Passes, report.Pass(a))
			if dump != nil && dumpErr == nil {
				dumpErr = unblock.WriteTSV(dump, a)
			}
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("unblock: %w", ctx.Err())
		}
		return nil, err
	}
	if dumpErr != nil {
		return nil, fmt.Errorf("write dump: %w", dumpErr)
	}

	frame.Planar = &out
	res.Digest = hasher.PlaneDigest(frame.Planar, 16)
	if res.Image, err = frame.Result(); err != nil {
		return nil, err
	}
	return res, nil
}

// processResult holds the result of processing a single source image.
type processResult struct {
	key   string
	entry report.Entry
	err   error
}

// processImage handles a single source image: decode, filter, encode, write.
func processImage(ctx context.Context, src Source, cfg Config, registry *encoder.Registry) processResult {
	result := processResult{key: src.Key}
	start := time.Now()

	img, err := Open(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	var dump io.WriteCloser
	if cfg.DumpDir != "" {
		dumpPath := filepath.Join(cfg.DumpDir, filepath.FromSlash(src.Key)+".tsv.zst")
		if err := os.MkdirAll(filepath.Dir(dumpPath), 0o755); err != nil {
			result.err = fmt.Errorf("create dump dir: %w", err)
			return result
		}
		if dump, err = report.Create(dumpPath); err != nil {
			result.err = fmt.Errorf("create dump %s: %w", src.Key, err)
			return result
		}
	}

	var dumpW io.Writer
	if dump != nil {
		dumpW = dump
	}
	f, err := Filter(ctx, img, cfg.filterOptions(), dumpW)
	if dump != nil {
		if cerr := dump.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close dump: %w", cerr)
		}
	}
	if err != nil {
		result.err = fmt.Errorf("filter %s: %w", src.RelPath, err)
		return result
	}

	enc, err := registry.Resolve(cfg.Profile.Format, f.Alpha)
	if err != nil {
		result.err = err
		return result
	}
	data, err := enc.Encode(f.Image, cfg.Profile.Quality)
	if err != nil {
		result.err = fmt.Errorf("encode %s as %s: %w", src.RelPath, enc.Format(), err)
		return result
	}

	contentHash := hasher.ContentHash(data, 16)
	relPath := src.Key + "." + enc.Extension()
	if cfg.HashNames {
		relPath = fmt.Sprintf("%s.%s.%s", src.Key, contentHash[:8], enc.Extension())
	}
	outPath := filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		result.err = fmt.Errorf("create output dir: %w", err)
		return result
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	b := f.Image.Bounds()
	result.entry = report.Entry{
		Source: report.SourceInfo{
			Path:   src.RelPath,
			Format: src.Format,
			Size:   src.Size,
			Width:  b.Dx(),
			Height: b.Dy(),
			Color:  f.Color,
			Alpha:  f.Alpha,
		},
		Output: report.OutputInfo{
			Format: enc.Format(),
			Size:   int64(len(data)),
			Hash:   contentHash,
			Path:   relPath,
		},
		PixelDigest: f.Digest,
		Passes:      f.Passes,
		ElapsedMS:   time.Since(start).Milliseconds(),
	}
	return result
}

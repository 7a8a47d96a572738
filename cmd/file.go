package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/unblock-cli/internal/encoder"
	"github.com/AnyUserName/unblock-cli/internal/pipeline"
	"github.com/AnyUserName/unblock-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	fileFlags filterFlags
	fileDump  string
)

var fileCmd = &cobra.Command{
	Use:   "file <in> <out>",
	Short: "Deblock a single image",
	Long: `Decodes <in> (jpeg, png, gif, bmp, tiff, webp), removes block artifacts
and writes the result to <out>. The output format follows the extension of
<out> unless --format is given.

--dump writes the discrepancy histograms and adjustment tables of both
passes as TSV; a path ending in .zst is compressed with zstd.`,
	Args: cobra.ExactArgs(2),
	RunE: runFile,
}

func init() {
	fileFlags.register(fileCmd)
	fileCmd.Flags().StringVar(&fileDump, "dump", "", "write the filter analysis as TSV to this path")
	rootCmd.AddCommand(fileCmd)
}

func runFile(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]
	start := time.Now()

	prof := fileFlags.resolve(cmd)
	logVerbose("profile: %s (photographic=%v, cartoon=%v, keep-downsampled=%v)",
		prof.Name, prof.Photographic, prof.Cartoon, prof.KeepDownsampled)

	img, err := pipeline.Open(inPath)
	if err != nil {
		return fmt.Errorf("decode %s: %w", inPath, err)
	}
	b := img.Bounds()
	logVerbose("decoded %s: %dx%d", inPath, b.Dx(), b.Dy())

	var dump io.WriteCloser
	if fileDump != "" {
		if dump, err = report.Create(fileDump); err != nil {
			return fmt.Errorf("create dump: %w", err)
		}
	}
	var dumpW io.Writer
	if dump != nil {
		dumpW = dump
	}

	ctx, cancel := interruptContext()
	defer cancel()

	f, err := pipeline.Filter(ctx, img, fileFlags.options(prof), dumpW)
	if dump != nil {
		if cerr := dump.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close dump: %w", cerr)
		}
	}
	if err != nil {
		return fmt.Errorf("filter %s: %w", inPath, err)
	}
	if dump != nil {
		logVerbose("dump: %s", fileDump)
	}

	enc, err := outputEncoder(outPath, prof.Format, f.Alpha)
	if err != nil {
		return err
	}
	data, err := enc.Encode(f.Image, prof.Quality)
	if err != nil {
		return fmt.Errorf("encode %s: %w", enc.Format(), err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	for _, p := range f.Passes {
		logVerbose("%-10s luma boundaries=%d chroma boundaries=%d mean |U| boundary=%.2f internal=%.2f max adjust=%d",
			p.Orientation, p.LumaBoundaries, p.ChromaBoundaries, p.MeanBoundary, p.MeanInternal, p.MaxAdjust)
	}
	fmt.Printf("  %s → %s (%s, %s, %s)\n",
		inPath, outPath, enc.Format(), formatBytes(int64(len(data))),
		time.Since(start).Round(time.Millisecond))
	return nil
}

// outputEncoder picks the encoder for outPath: --format if given, else the
// extension, else the profile format.
func outputEncoder(outPath, profileFormat string, hasAlpha bool) (encoder.Encoder, error) {
	registry := encoder.NewRegistry()
	if fileFlags.format == "" {
		if enc := registry.Get(filepath.Ext(outPath)); enc != nil {
			if hasAlpha && !enc.Alpha() {
				logVerbose("warn: %s drops the alpha channel", enc.Format())
			}
			return enc, nil
		}
	}
	enc, err := registry.Resolve(profileFormat, hasAlpha)
	if err != nil {
		return nil, err
	}
	if want := registry.Get(profileFormat); want == nil || want.Format() != enc.Format() {
		logVerbose("format %q unavailable for this image, using %s", profileFormat, enc.Format())
	}
	return enc, nil
}

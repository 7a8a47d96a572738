package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/unblock-cli/internal/hasher"
	"github.com/AnyUserName/unblock-cli/internal/report"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <report>",
	Short: "Validate a batch report and check the outputs it lists",
	Long: `Checks the report schema, that every output file exists with the
recorded size and content hash, and that the aggregate stats agree with
the entries.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	path, err := findReport(args[0])
	if err != nil {
		return err
	}
	r, err := report.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	errs := validateReport(r, filepath.Dir(path))
	if len(errs) == 0 {
		fmt.Println("  ✓ Report is valid")
		fmt.Printf("  ✓ %d images, all outputs present and matching\n", r.Stats.TotalImages)
		return nil
	}

	fmt.Printf("  ✗ Report has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateReport(r *report.Report, baseDir string) []string {
	var errs []string

	if r.Version != report.SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}

	keys := make([]string, 0, len(r.Images))
	for k := range r.Images {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenPaths := map[string]string{}
	for _, key := range keys {
		e := r.Images[key]
		if e.Source.Width <= 0 || e.Source.Height <= 0 {
			errs = append(errs, fmt.Sprintf("image %q: invalid source dimensions %dx%d",
				key, e.Source.Width, e.Source.Height))
		}
		if len(e.Passes) != 2 {
			errs = append(errs, fmt.Sprintf("image %q: %d passes, want 2", key, len(e.Passes)))
		}
		for i, p := range e.Passes {
			if p.Orientation != "vertical" && p.Orientation != "horizontal" {
				errs = append(errs, fmt.Sprintf("image %q pass[%d]: unknown orientation %q", key, i, p.Orientation))
			}
			if p.MaxAdjust < 0 || p.MaxAdjust > 255 {
				errs = append(errs, fmt.Sprintf("image %q pass[%d]: max adjust %d out of range", key, i, p.MaxAdjust))
			}
		}

		o := e.Output
		if o.Format == "" {
			errs = append(errs, fmt.Sprintf("image %q: empty output format", key))
		}
		if o.Hash == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing output hash", key))
		}
		if o.Path == "" {
			errs = append(errs, fmt.Sprintf("image %q: missing output path", key))
			continue
		}
		if prev, ok := seenPaths[o.Path]; ok {
			errs = append(errs, fmt.Sprintf("image %q: output path %q also used by %q", key, o.Path, prev))
		}
		seenPaths[o.Path] = key

		f, err := os.Open(filepath.Join(baseDir, filepath.FromSlash(o.Path)))
		if err != nil {
			errs = append(errs, fmt.Sprintf("image %q: file not found: %s", key, o.Path))
			continue
		}
		info, err := f.Stat()
		if err == nil && o.Size > 0 && info.Size() != o.Size {
			errs = append(errs, fmt.Sprintf("image %q: size mismatch: report=%d, disk=%d",
				key, o.Size, info.Size()))
		}
		sum, err := hasher.ContentHashReader(f, len(o.Hash))
		f.Close()
		if err != nil {
			errs = append(errs, fmt.Sprintf("image %q: read %s: %v", key, o.Path, err))
		} else if o.Hash != "" && sum != o.Hash {
			errs = append(errs, fmt.Sprintf("image %q: hash mismatch: report=%s, disk=%s", key, o.Hash, sum))
		}
	}

	// Verify stats consistency.
	var inBytes, outBytes int64
	for _, e := range r.Images {
		inBytes += e.Source.Size
		outBytes += e.Output.Size
	}
	if r.Stats.TotalImages != len(r.Images) {
		errs = append(errs, fmt.Sprintf("stats.total_images mismatch: %d != %d", r.Stats.TotalImages, len(r.Images)))
	}
	if r.Stats.TotalInputBytes != inBytes {
		errs = append(errs, fmt.Sprintf("stats.total_input_bytes mismatch: %d != %d", r.Stats.TotalInputBytes, inBytes))
	}
	if r.Stats.TotalOutputBytes != outBytes {
		errs = append(errs, fmt.Sprintf("stats.total_output_bytes mismatch: %d != %d", r.Stats.TotalOutputBytes, outBytes))
	}

	return errs
}

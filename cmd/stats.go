package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/unblock-cli/internal/report"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_report>",
	Short: "Display statistics for a batch report",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// findReport returns path itself, or the report inside it if path is a
// directory.
func findReport(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range []string{report.DefaultName, report.DefaultName + ".zst"} {
		p := filepath.Join(path, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no %s in %s", report.DefaultName, path)
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := findReport(args[0])
	if err != nil {
		return err
	}
	r, err := report.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	printStats(r)
	return nil
}

func printStats(r *report.Report) {
	fmt.Println()
	fmt.Printf("  Report version: %d\n", r.Version)
	fmt.Printf("  Generated:      %s\n", r.GeneratedAt)
	fmt.Printf("  Profile:        %s\n", r.Profile)
	st := r.Settings
	fmt.Printf("  Settings:       photographic=%v cartoon=%v keep-downsampled=%v gray=%v\n",
		st.Photographic, st.Cartoon, st.KeepDownsampled, st.Gray)
	if r.RunInfo != nil {
		fmt.Printf("  Workers:        %d\n", r.RunInfo.Workers)
		fmt.Printf("  Run time:       %d ms\n", r.RunInfo.ElapsedMS)
	}
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Total images:   %d\n", s.TotalImages)
	if s.Failed > 0 {
		fmt.Printf("  Failed:         %d\n", s.Failed)
	}
	fmt.Printf("  Input size:     %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:    %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Size ratio:     %.1f%% of original\n", ratio)
	}
	fmt.Println()

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, e := range r.Images {
		fs := formatStats[e.Output.Format]
		fs.count++
		fs.bytes += e.Output.Size
		formatStats[e.Output.Format] = fs
	}
	var names []string
	for f := range formatStats {
		names = append(names, f)
	}
	sort.Strings(names)
	fmt.Println("  Format breakdown:")
	for _, f := range names {
		fs := formatStats[f]
		fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
	}
	fmt.Println()

	// Per-pass averages.
	type acc struct {
		n                  int
		boundary, internal float64
		maxAdjust          int
	}
	passes := map[string]*acc{}
	for _, e := range r.Images {
		for _, p := range e.Passes {
			a := passes[p.Orientation]
			if a == nil {
				a = &acc{}
				passes[p.Orientation] = a
			}
			a.n++
			a.boundary += p.MeanBoundary
			a.internal += p.MeanInternal
			if p.MaxAdjust > a.maxAdjust {
				a.maxAdjust = p.MaxAdjust
			}
		}
	}
	fmt.Println("  Pass breakdown (mean luma |U|):")
	for _, o := range []string{"vertical", "horizontal"} {
		a := passes[o]
		if a == nil || a.n == 0 {
			continue
		}
		fmt.Printf("    %-10s  boundary %6.2f  internal %6.2f  max adjust %3d\n",
			o, a.boundary/float64(a.n), a.internal/float64(a.n), a.maxAdjust)
	}
	fmt.Println()

	// Warnings.
	var warnings []string
	for key, e := range r.Images {
		if len(e.Passes) != 2 {
			warnings = append(warnings, fmt.Sprintf("image %q has %d passes", key, len(e.Passes)))
			continue
		}
		if e.Passes[0].LumaBoundaries == 0 && e.Passes[1].LumaBoundaries == 0 {
			warnings = append(warnings, fmt.Sprintf("image %q is too small to have block boundaries", key))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
		fmt.Println()
	}
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/unblock-cli/internal/pipeline"
	"github.com/AnyUserName/unblock-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	batchFlags     filterFlags
	batchOutDir    string
	batchWorkers   int
	batchReport    string
	batchDumpDir   string
	batchHashNames bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Deblock every image in a directory and write a report",
	Long: `Scans the input directory for images (jpg, jpeg, png, gif, bmp, tiff,
webp), deblocks each one on a pool of workers and mirrors the directory
tree under the output directory.

A JSON report with per-image pass statistics, content hashes and pixel
digests is written next to the outputs. A report name ending in .zst is
compressed with zstd.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchFlags.register(batchCmd)
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./unblock_out", "output directory")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	batchCmd.Flags().StringVar(&batchReport, "report", report.DefaultName, "report file name inside the output directory")
	batchCmd.Flags().StringVar(&batchDumpDir, "dump-dir", "", "write per-image analysis dumps (.tsv.zst) here")
	batchCmd.Flags().BoolVar(&batchHashNames, "hash-names", false, "content-addressed output names: <key>.<hash>.<ext>")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	var absDump string
	if batchDumpDir != "" {
		if absDump, err = filepath.Abs(batchDumpDir); err != nil {
			return fmt.Errorf("resolve dump path: %w", err)
		}
	}

	prof := batchFlags.resolve(cmd)

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (photographic=%v, cartoon=%v, format=%s, quality=%d)",
		prof.Name, prof.Photographic, prof.Cartoon, prof.Format, prof.Quality)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx, cancel := interruptContext()
	defer cancel()

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Gray:      batchFlags.gray,
		Workers:   batchWorkers,
		Verbose:   verbose,
		HashNames: batchHashNames,
		DumpDir:   absDump,
	})

	r, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	reportPath := filepath.Join(absOutput, batchReport)
	if err := report.WriteJSON(r, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printBatchReport(r, time.Since(start), reportPath)
	return nil
}

func printBatchReport(r *report.Report, elapsed time.Duration, reportPath string) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║              unblock batch complete              ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Images:      %d\n", s.TotalImages)
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	fmt.Printf("  Pixels:      %.1f MP\n", float64(s.TotalPixels)/1e6)
	fmt.Printf("  Boundaries:  %d luma, %d chroma\n", s.LumaBoundaries, s.ChromaBoundaries)
	fmt.Printf("  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if r.RunInfo != nil {
		fmt.Printf("  Workers:     %d\n", r.RunInfo.Workers)
	}
	fmt.Println()

	// Top 10 most corrected images.
	items := rankByCorrection(r)
	if len(items) > 0 {
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d most blocky (mean boundary |U| → excess over internal):\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %6.2f → %+6.2f\n", truncKey(it.key, 40), it.boundary, it.excess)
		}
		fmt.Println()
	}

	info, err := os.Stat(reportPath)
	if err == nil {
		fmt.Printf("  Report:      %s (%s)\n", filepath.Base(reportPath), formatBytes(info.Size()))
		fmt.Println()
	}
}

type blockiness struct {
	key      string
	boundary float64 // mean luma boundary |U| over both passes
	excess   float64 // boundary minus internal mean
}

func rankByCorrection(r *report.Report) []blockiness {
	var items []blockiness
	for key, e := range r.Images {
		if len(e.Passes) == 0 {
			continue
		}
		var bnd, in float64
		for _, p := range e.Passes {
			bnd += p.MeanBoundary
			in += p.MeanInternal
		}
		n := float64(len(e.Passes))
		items = append(items, blockiness{key, bnd / n, (bnd - in) / n})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].excess != items[j].excess {
			return items[i].excess > items[j].excess
		}
		return items[i].key < items[j].key
	})
	return items
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}

package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/AnyUserName/unblock-cli/internal/unblock"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "unblock",
	Short: "Statistical JPEG deblocking filter",
	Long: `unblock removes the 8x8 block artifacts of heavily compressed JPEG images
without blurring real edges.

Each pass compares how often a discrepancy occurs across block boundaries
with how often it occurs inside blocks, and removes only the excess.
Filtering runs vertically, then horizontally, with chroma at half
resolution.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := unblock.Initialize(); err != nil {
			return fmt.Errorf("initialize tables: %w", err)
		}
		return nil
	},
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[unblock] error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"unblock %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[unblock] "+format+"\n", args...)
	}
}

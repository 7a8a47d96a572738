package pipeline

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/AnyUserName/unblock-cli/internal/encoder"
	"github.com/AnyUserName/unblock-cli/internal/profile"
	"github.com/AnyUserName/unblock-cli/internal/report"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile // resolved, with command line overrides applied
	Gray      bool
	Workers   int
	Verbose   bool
	HashNames bool   // content-addressed output names: <key>.<hash>.<ext>
	DumpDir   string // per-image zstd TSV analysis dumps, if set
}

func (c Config) filterOptions() Options {
	return Options{
		Photographic:    c.Profile.Photographic,
		Cartoon:         c.Profile.Cartoon,
		KeepDownsampled: c.Profile.KeepDownsampled,
		Gray:            c.Gray,
	}
}

// Settings returns the report settings for this configuration.
func (c Config) Settings() report.Settings {
	return report.Settings{
		Photographic:    c.Profile.Photographic,
		Cartoon:         c.Profile.Cartoon,
		KeepDownsampled: c.Profile.KeepDownsampled,
		Gray:            c.Gray,
		Format:          c.Profile.Format,
		Quality:         c.Profile.Quality,
	}
}

// Pipeline filters every image under a directory.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[unblock] "+format+"\n", args...)
	}
}

// Run executes the batch and returns the report. Per-image failures are
// printed to stderr; Run fails only if every image failed or ctx was
// cancelled.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	start := time.Now()
	p.logf("%s", p.registry.String())

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir, p.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	p.logf("found %d images", len(sources))

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if err := ctx.Err(); err != nil {
				results[idx] = processResult{key: s.Key, err: err}
				return
			}
			p.logf("processing: %s", s.Key)

			results[idx] = processImage(ctx, s, p.cfg, p.registry)

			if results[idx].err == nil {
				e := results[idx].entry
				p.logf("done: %s -> %s (%d ms)", s.Key, e.Output.Path, e.ElapsedMS)
			}
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cancelled: %w", err)
	}

	// Step 3: Collect results into the report.
	r := report.New(p.cfg.Profile.Name, p.cfg.Settings())

	var errs []error
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		r.Images[res.key] = res.entry
	}

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[unblock] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[unblock] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	r.RunInfo = &report.RunInfo{
		Workers:   p.cfg.Workers,
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	r.Stats.Failed = len(errs)
	r.ComputeStats()
	return r, nil
}

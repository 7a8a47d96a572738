package report

// Report is the top-level output of a batch run.
type Report struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	Settings    Settings         `json:"settings"`
	RunInfo     *RunInfo         `json:"run_info,omitempty"`
	Images      map[string]Entry `json:"images"`
	Stats       Stats            `json:"stats"`
}

// Settings records the filter and encoder parameters of the run.
type Settings struct {
	Photographic    bool   `json:"photographic"`
	Cartoon         bool   `json:"cartoon"`
	KeepDownsampled bool   `json:"keep_downsampled"`
	Gray            bool   `json:"gray,omitempty"`
	Format          string `json:"format"`
	Quality         int    `json:"quality"`
}

// RunInfo captures run-time parameters for diagnostics.
type RunInfo struct {
	Workers   int   `json:"workers"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

// Entry describes one source image and its filtered output.
type Entry struct {
	Source      SourceInfo  `json:"source"`
	Output      OutputInfo  `json:"output"`
	PixelDigest string      `json:"pixel_digest"` // xxhash64 of the filtered samples
	Passes      []PassStats `json:"passes"`
	ElapsedMS   int64       `json:"elapsed_ms"`
}

// SourceInfo holds metadata about the decoded input.
type SourceInfo struct {
	Path   string `json:"path"` // relative to the input directory
	Format string `json:"format"`
	Size   int64  `json:"size"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  bool   `json:"color"`
	Alpha  bool   `json:"alpha"`
}

// OutputInfo is the encoded result on disk.
type OutputInfo struct {
	Format string `json:"format"`
	Size   int64  `json:"size"`
	Hash   string `json:"hash"` // first 16 hex chars of xxhash64
	Path   string `json:"path"` // relative to the report
}

// PassStats summarizes one filter pass. Means are over |U| of the luma
// histograms; MaxAdjust is the largest luma U correction in the table.
type PassStats struct {
	Orientation      string  `json:"orientation"`
	LumaBoundaries   uint32  `json:"luma_boundaries"`
	ChromaBoundaries uint32  `json:"chroma_boundaries,omitempty"`
	MeanBoundary     float64 `json:"mean_boundary"`
	MeanInternal     float64 `json:"mean_internal"`
	MaxAdjust        int     `json:"max_adjust"`
	AdjustedBuckets  int     `json:"adjusted_buckets"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64  `json:"total_input_bytes"`
	TotalOutputBytes int64  `json:"total_output_bytes"`
	TotalImages      int    `json:"total_images"`
	TotalPixels      int64  `json:"total_pixels"`
	LumaBoundaries   uint64 `json:"luma_boundaries"`
	ChromaBoundaries uint64 `json:"chroma_boundaries"`
	Failed           int    `json:"failed,omitempty"`
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1

// DefaultName is the report file name a batch run writes.
const DefaultName = "unblock.report.json"

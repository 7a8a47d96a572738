package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/AnyUserName/unblock-cli/internal/unblock"
	"github.com/klauspost/compress/zstd"
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// New creates an empty report with defaults.
func New(profileName string, s Settings) *Report {
	return &Report{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Settings:    s,
		Images:      make(map[string]Entry),
	}
}

// ComputeStats recalculates aggregate statistics from entries. Failed is
// kept as set by the caller.
func (r *Report) ComputeStats() {
	s := Stats{Failed: r.Stats.Failed}
	s.TotalImages = len(r.Images)
	for _, e := range r.Images {
		s.TotalInputBytes += e.Source.Size
		s.TotalOutputBytes += e.Output.Size
		s.TotalPixels += int64(e.Source.Width) * int64(e.Source.Height)
		for _, p := range e.Passes {
			s.LumaBoundaries += uint64(p.LumaBoundaries)
			s.ChromaBoundaries += uint64(p.ChromaBoundaries)
		}
	}
	r.Stats = s
}

// Pass summarizes an engine analysis.
func Pass(a *unblock.Analysis) PassStats {
	p := PassStats{
		Orientation:      a.Orientation.String(),
		LumaBoundaries:   a.TotalLuma,
		ChromaBoundaries: a.TotalChroma,
		MeanBoundary:     mean(&a.Y.BoundaryU),
		MeanInternal:     mean(&a.Y.InternalU),
	}
	for _, adj := range a.Y.AdjustU {
		if adj == 0 {
			continue
		}
		p.AdjustedBuckets++
		if int(adj) > p.MaxAdjust {
			p.MaxAdjust = int(adj)
		}
	}
	return p
}

func mean(h *unblock.Histogram) float64 {
	n := h.Sum()
	if n == 0 {
		return 0
	}
	var sum uint64
	for v, c := range h {
		sum += uint64(v) * uint64(c)
	}
	return float64(sum) / float64(n)
}

// Create opens path for writing. Names ending in ".zst" are compressed
// with zstd; closing the returned writer flushes the frame and the file.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &zstdFile{enc: enc, f: f}, nil
}

type zstdFile struct {
	enc *zstd.Encoder
	f   *os.File
}

func (z *zstdFile) Write(p []byte) (int, error) { return z.enc.Write(p) }

func (z *zstdFile) Close() error {
	if err := z.enc.Close(); err != nil {
		z.f.Close()
		return err
	}
	return z.f.Close()
}

// WriteJSON serializes the report to path, zstd-compressed when the name
// ends in ".zst".
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	w, err := Create(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// ReadJSON loads a report, decompressing zstd input transparently.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, zstdMagic) {
		if data, err = decompress(data); err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

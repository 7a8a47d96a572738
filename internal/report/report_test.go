package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/unblock-cli/internal/unblock"
)

func sampleReport() *Report {
	r := New("photo", Settings{Photographic: true, Format: "jpeg", Quality: 95})
	r.RunInfo = &RunInfo{Workers: 4, ElapsedMS: 120}
	r.Images["shots/beach"] = Entry{
		Source: SourceInfo{
			Path: "shots/beach.jpg", Format: "jpeg", Size: 100000,
			Width: 800, Height: 600, Color: true,
		},
		Output: OutputInfo{
			Format: "jpeg", Size: 150000, Hash: "abcd1234abcd1234", Path: "shots/beach.jpg",
		},
		PixelDigest: "0011223344556677",
		Passes: []PassStats{
			{Orientation: "vertical", LumaBoundaries: 59400, ChromaBoundaries: 14700},
			{Orientation: "horizontal", LumaBoundaries: 59200, ChromaBoundaries: 14600},
		},
	}
	return r
}

func checkReport(t *testing.T, r *Report) {
	t.Helper()
	if r.Version != SupportedVersion {
		t.Errorf("version: got %d, want %d", r.Version, SupportedVersion)
	}
	if r.Profile != "photo" || !r.Settings.Photographic {
		t.Errorf("profile/settings: got %q %+v", r.Profile, r.Settings)
	}
	if r.RunInfo == nil || r.RunInfo.Workers != 4 {
		t.Fatalf("run_info: got %+v", r.RunInfo)
	}
	e, ok := r.Images["shots/beach"]
	if !ok {
		t.Fatal("entry shots/beach missing")
	}
	if len(e.Passes) != 2 || e.Passes[1].Orientation != "horizontal" {
		t.Errorf("passes: got %+v", e.Passes)
	}
	if r.Stats.TotalImages != 1 {
		t.Errorf("total_images: got %d, want 1", r.Stats.TotalImages)
	}
	if r.Stats.LumaBoundaries != 118600 {
		t.Errorf("luma_boundaries: got %d, want 118600", r.Stats.LumaBoundaries)
	}
	if r.Stats.TotalPixels != 480000 {
		t.Errorf("total_pixels: got %d, want 480000", r.Stats.TotalPixels)
	}
}

func TestReportRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultName)
	if err := WriteJSON(sampleReport(), path); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Plain JSON on disk.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var raw Report
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	r, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	checkReport(t, r)
}

func TestReportRoundtrip_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultName+".zst")
	if err := WriteJSON(sampleReport(), path); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 4 || data[0] != 0x28 || data[1] != 0xb5 {
		t.Fatalf("file is not zstd: % x", data[:4])
	}

	r, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	checkReport(t, r)
}

func TestReportIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2026-01-01T00:00:00Z",
		"profile": "default",
		"future_field": "ignored",
		"run_info": { "workers": 8, "elapsed_ms": 5, "new_flag": true },
		"images": {},
		"stats": { "total_images": 0, "new_stat": 42 }
	}`
	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if r.RunInfo == nil || r.RunInfo.Workers != 8 {
		t.Error("run_info not parsed correctly")
	}
}

func TestComputeStats_KeepsFailed(t *testing.T) {
	r := sampleReport()
	r.Stats.Failed = 3
	r.ComputeStats()
	if r.Stats.Failed != 3 {
		t.Errorf("failed: got %d, want 3", r.Stats.Failed)
	}
	if r.Stats.TotalOutputBytes != 150000 {
		t.Errorf("total_output_bytes: got %d, want 150000", r.Stats.TotalOutputBytes)
	}
}

func TestPass(t *testing.T) {
	a := &unblock.Analysis{Orientation: unblock.Horizontal, TotalLuma: 10}
	a.Y.BoundaryU[4] = 6
	a.Y.BoundaryU[10] = 4
	a.Y.InternalU[1] = 10
	a.Y.AdjustU[4] = 3
	a.Y.AdjustU[10] = 7

	p := Pass(a)
	if p.Orientation != "horizontal" || p.LumaBoundaries != 10 {
		t.Errorf("header: got %+v", p)
	}
	if p.MeanBoundary != 6.4 {
		t.Errorf("mean boundary: got %v, want 6.4", p.MeanBoundary)
	}
	if p.MeanInternal != 1 {
		t.Errorf("mean internal: got %v, want 1", p.MeanInternal)
	}
	if p.MaxAdjust != 7 || p.AdjustedBuckets != 2 {
		t.Errorf("adjust: got max %d over %d buckets, want 7 over 2", p.MaxAdjust, p.AdjustedBuckets)
	}
}

package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory, slash separated.
	RelPath string
	// Key is RelPath without extension; it names the output and the
	// report entry.
	Key string
	// Format is the normalized source format (jpeg, png, gif, bmp, tiff, webp).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// formats maps recognized extensions to format names.
var formats = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
}

// ScanImages walks inputDir and returns all image sources sorted by key.
// Hidden directories and any directory listed in skip are not entered.
func ScanImages(inputDir string, skip ...string) ([]Source, error) {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = true
		}
	}

	var sources []Source
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != inputDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(path); err == nil && skipped[abs] && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		format, ok := formats[ext]
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		sources = append(sources, Source{
			AbsPath: abs,
			RelPath: rel,
			Key:     rel[:len(rel)-len(ext)],
			Format:  format,
			Size:    info.Size(),
		})
		return nil
	})

	sort.Slice(sources, func(i, j int) bool { return sources[i].Key < sources[j].Key })
	return sources, err
}

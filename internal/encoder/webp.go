package encoder

import (
	"fmt"
	"image"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// WebPEncoder writes lossless WebP by shelling out to cwebp.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	once      sync.Once
	available bool
	cwebpPath string
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) Alpha() bool       { return true }

func (e *WebPEncoder) Available() bool {
	e.once.Do(func() {
		path, err := exec.LookPath("cwebp")
		if err == nil {
			e.available = true
			e.cwebpPath = path
		}
	})
	return e.available
}

// Encode runs cwebp in lossless mode; quality is passed as compression
// effort.
func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}

	id := tempCounter.Add(1)
	dir, err := os.MkdirTemp("", fmt.Sprintf("unblock_webp_%d_*", id))
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	srcPath := dir + string(os.PathSeparator) + "src.png"
	dstPath := dir + string(os.PathSeparator) + "dst.webp"
	if err := imaging.Save(img, srcPath); err != nil {
		return nil, fmt.Errorf("encode temp png: %w", err)
	}

	cmd := exec.Command(e.cwebpPath,
		"-lossless",
		"-exact", // keep RGB under transparent pixels
		"-q", strconv.Itoa(clampQuality(quality, 75)),
		"-m", "6",
		"-mt",
		"-quiet",
		srcPath,
		"-o", dstPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("cwebp: %w: %s", err, string(out))
	}
	return os.ReadFile(dstPath)
}

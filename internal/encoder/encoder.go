package encoder

import (
	"image"
)

// Encoder writes a filtered image in one output format.
type Encoder interface {
	// Format returns the format name ("png", "jpeg", "bmp", "tiff", "webp").
	Format() string

	// Encode converts the image to bytes. quality (1-100) is used by lossy
	// formats and as an effort hint by the others.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// The webp encoder needs cwebp on PATH.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string

	// Alpha reports whether the format keeps an alpha channel.
	Alpha() bool
}

func clampQuality(q, def int) int {
	if q <= 0 || q > 100 {
		return def
	}
	return q
}

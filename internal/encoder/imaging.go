package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// PNGEncoder is the lossless default.
type PNGEncoder struct{}

func (e *PNGEncoder) Format() string    { return "png" }
func (e *PNGEncoder) Extension() string { return "png" }
func (e *PNGEncoder) Available() bool   { return true }
func (e *PNGEncoder) Alpha() bool       { return true }

func (e *PNGEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(512 * 1024)
	err := imaging.Encode(&buf, img, imaging.PNG,
		imaging.PNGCompressionLevel(png.BestCompression))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JPEGEncoder re-encodes the filtered image as JPEG. Quality should stay
// high or the encoder reintroduces the blocking that was just removed.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string    { return "jpeg" }
func (e *JPEGEncoder) Extension() string { return "jpg" }
func (e *JPEGEncoder) Available() bool   { return true }
func (e *JPEGEncoder) Alpha() bool       { return false }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(256 * 1024)
	err := imaging.Encode(&buf, img, imaging.JPEG,
		imaging.JPEGQuality(clampQuality(quality, 95)))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

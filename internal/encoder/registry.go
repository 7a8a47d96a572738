package encoder

import (
	"fmt"
	"strings"
)

// priority is the listing order of known formats.
var priority = []string{"png", "webp", "tiff", "bmp", "jpeg"}

// Registry holds the available encoders by format name.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range []Encoder{
		&PNGEncoder{},
		&JPEGEncoder{},
		&BMPEncoder{},
		&TIFFEncoder{},
		&WebPEncoder{},
	} {
		r.Register(enc)
	}
	return r
}

// Register adds enc if it is available, replacing any encoder of the same
// format.
func (r *Registry) Register(enc Encoder) {
	if enc.Available() {
		r.encoders[enc.Format()] = enc
	}
}

// Get returns an encoder for the given format, or nil if unavailable.
// "jpg" and "tif" are accepted as aliases.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[normalize(format)]
}

// Available returns all available format names.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range priority {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// Resolve picks the encoder for requested. An unavailable format falls
// back to png, and so does a format without alpha support when the image
// has alpha.
func (r *Registry) Resolve(requested string, hasAlpha bool) (Encoder, error) {
	enc := r.Get(requested)
	if enc == nil || (hasAlpha && !enc.Alpha()) {
		enc = r.encoders["png"]
	}
	if enc == nil {
		return nil, fmt.Errorf("no encoder for format %q", requested)
	}
	return enc, nil
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}

func normalize(format string) string {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	switch format {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return format
}

// Package bridge maps decoded Go images onto planar image descriptors and
// back.
package bridge

import (
	"fmt"
	"image"

	"github.com/AnyUserName/unblock-cli/internal/planar"
	"github.com/disintegration/imaging"
)

// nrgbaOffsets places R, G, B and A of an NRGBA pixel on the planar channels.
var nrgbaOffsets = [4]int{0, 1, 2, 3}

// Frame is a planar view of one decoded image.
type Frame struct {
	Planar *planar.Image

	// backing is the Go image that Planar aliases, or nil when the pixels
	// were copied into separate planes.
	backing image.Image
}

// Shared reports whether the frame filters the decoded image in place.
func (f *Frame) Shared() bool { return f.backing != nil }

// Result returns the frame's pixels as a Go image.
func (f *Frame) Result() (image.Image, error) {
	if f.backing != nil {
		return f.backing, nil
	}
	return ToImage(f.Planar)
}

// FromImage returns an RGB frame for src. *image.NRGBA and *image.Gray are
// wrapped without copying, so filtering the frame modifies src. Any other
// image type is normalized with imaging.Clone and copied into planes.
func FromImage(src image.Image) *Frame {
	switch m := src.(type) {
	case *image.NRGBA:
		return &Frame{Planar: wrapNRGBA(m), backing: m}
	case *image.Gray:
		return &Frame{Planar: wrapGray(m), backing: m}
	}
	return &Frame{Planar: copyPlanes(imaging.Clone(src))}
}

// Gray returns a grayscale frame for src. Alpha is discarded.
func Gray(src image.Image) *Frame {
	if g, ok := src.(*image.Gray); ok {
		return &Frame{Planar: wrapGray(g), backing: g}
	}
	n := imaging.Grayscale(src)
	b := n.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := n.Pix[y*n.Stride:]
		dst := g.Pix[y*g.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = row[x*4]
		}
	}
	return &Frame{Planar: wrapGray(g), backing: g}
}

func wrapNRGBA(m *image.NRGBA) *planar.Image {
	b := m.Bounds()
	return &planar.Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Alpha:  !m.Opaque(),
		Color:  true,
		RGB:    true,
		Layout: &planar.Packed{
			Pix:       m.Pix,
			Origin:    m.PixOffset(b.Min.X, b.Min.Y),
			Stride:    m.Stride,
			PixelSize: 4,
			Offsets:   nrgbaOffsets,
		},
	}
}

func wrapGray(g *image.Gray) *planar.Image {
	b := g.Bounds()
	return &planar.Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Layout: &planar.Planes{Y: planar.Plane{
			Pix:    g.Pix,
			Origin: g.PixOffset(b.Min.X, b.Min.Y),
			Stride: g.Stride,
		}},
	}
}

func copyPlanes(m *image.NRGBA) *planar.Image {
	b := m.Bounds()
	alpha := !m.Opaque()
	img := planar.NewColor(b.Dx(), b.Dy(), alpha)
	img.RGB = true
	for y := 0; y < b.Dy(); y++ {
		row := m.Pix[m.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4 : x*4+4]
			img.Set(planar.ChannelY, x, y, p[0])
			img.Set(planar.ChannelCb, x, y, p[1])
			img.Set(planar.ChannelCr, x, y, p[2])
			if alpha {
				img.Set(planar.ChannelAlpha, x, y, p[3])
			}
		}
	}
	return img
}

// ToImage copies a planar image into a new Go image: *image.Gray for
// opaque grayscale, *image.NRGBA otherwise. Color images must hold RGB.
func ToImage(p *planar.Image) (image.Image, error) {
	if p == nil || p.Layout == nil {
		return nil, fmt.Errorf("to image: no pixel data")
	}
	if p.Color && !p.RGB {
		return nil, fmt.Errorf("to image: image holds YCbCr, convert to RGB first")
	}

	if !p.Color && !p.Alpha {
		g := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
		for y := 0; y < p.Height; y++ {
			c := p.Cursor(planar.ChannelY, 0, y)
			row := g.Pix[y*g.Stride:]
			for x := 0; x < p.Width; x++ {
				row[x] = c.Get()
				c.Right()
			}
		}
		return g, nil
	}

	r, gr, bl := planar.ChannelY, planar.ChannelCb, planar.ChannelCr
	if !p.Color {
		gr, bl = planar.ChannelY, planar.ChannelY
	}
	n := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		row := n.Pix[y*n.Stride:]
		for x := 0; x < p.Width; x++ {
			px := row[x*4 : x*4+4]
			px[0] = p.At(r, x, y)
			px[1] = p.At(gr, x, y)
			px[2] = p.At(bl, x, y)
			px[3] = 0xff
			if p.Alpha {
				px[3] = p.At(planar.ChannelAlpha, x, y)
			}
		}
	}
	return n, nil
}

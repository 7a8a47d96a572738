//go:build ignore

// gen_fixtures writes heavily compressed JPEGs with visible block artifacts
// for the E2E smoke test, plus a translucent PNG and a grayscale JPEG.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "photos"), 0o755); err != nil {
		panic(err)
	}

	// Smooth content shows blocking most clearly at low quality.
	save(filepath.Join(dir, "sky.jpg"), gradient(400, 225), 8)
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("photo-%d.jpg", i)
		save(filepath.Join(dir, "photos", name), rings(240, 180, float64(i)*0.04), 10+5*i)
	}
	// Hard edges must survive the filter.
	save(filepath.Join(dir, "cartoon.jpg"), flatShapes(256, 256), 12)
	save(filepath.Join(dir, "gray.jpg"), imaging.Grayscale(rings(128, 128, 0.08)), 10)
	save(filepath.Join(dir, "logo.png"), alphaGradient(100, 100), 0)

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 7 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(40 + x*120/w),
				G: uint8(90 + y*100/h),
				B: 200,
				A: 255,
			})
		}
	}
	return img
}

func rings(w, h int, freq float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			v := 0.5 + 0.5*math.Sin(d*freq*math.Pi)
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(60 + 150*v),
				G: uint8(110 + 80*v),
				B: uint8(160 - 90*v),
				A: 255,
			})
		}
	}
	return img
}

func flatShapes(w, h int) *image.NRGBA {
	img := imaging.New(w, h, color.NRGBA{R: 250, G: 240, B: 200, A: 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-w/3, y-h/3
			switch {
			case dx*dx+dy*dy < (w/5)*(w/5):
				img.SetNRGBA(x, y, color.NRGBA{R: 210, G: 40, B: 40, A: 255})
			case x > w/2 && y > h/2 && x-w/2 > y-h/2:
				img.SetNRGBA(x, y, color.NRGBA{R: 30, G: 90, B: 170, A: 255})
			}
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func save(path string, img image.Image, quality int) {
	var opts []imaging.EncodeOption
	if quality > 0 {
		opts = append(opts, imaging.JPEGQuality(quality))
	}
	if err := imaging.Save(img, path, opts...); err != nil {
		panic(err)
	}
}

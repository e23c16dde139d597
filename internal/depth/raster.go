package depth

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// ErrDecode marks a fatal raster decode failure: without a depth map
// there is no mesh and no scene.
var ErrDecode = errors.New("depth: raster decode failed")

// Raster is a grid of scalar depth values in [0, 1] aligned to the
// source image pixels. It is consumed during mesh construction (plus
// the optional dilation pass) and discarded afterwards.
type Raster struct {
	Width  int
	Height int
	Values []float64
}

// NewRaster allocates a zeroed raster.
func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// At returns the depth at pixel (x, y), clamped to the raster bounds.
func (r *Raster) At(x, y int) float64 {
	if x < 0 {
		x = 0
	}
	if x >= r.Width {
		x = r.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= r.Height {
		y = r.Height - 1
	}
	return r.Values[y*r.Width+x]
}

// Sample returns the depth at UV coordinates using nearest-neighbour
// lookup, UV clamped to [0, 1]. v = 0 is the top row, matching image
// space.
func (r *Raster) Sample(u, v float64) float64 {
	if u < 0 {
		u = 0
	}
	if u > 1 {
		u = 1
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	x := int(u * float64(r.Width-1))
	y := int(v * float64(r.Height-1))
	return r.Values[y*r.Width+x]
}

// FromImage converts a decoded depth image into a raster, optionally
// downscaling so the longest side is maxSize (0 keeps the source size).
// Pixel intensity maps red-channel first: depth maps are grayscale, and
// single-channel sources decode with R=G=B anyway.
func FromImage(img image.Image, maxSize int) *Raster {
	img = scaleDown(img, maxSize)

	bounds := img.Bounds()
	raster := NewRaster(bounds.Dx(), bounds.Dy())

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			raster.Values[i] = float64(r) / 0xffff
			i++
		}
	}
	return raster
}

func scaleDown(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	var dw, dh int
	if w >= h {
		dw = maxSize
		dh = h * maxSize / w
	} else {
		dh = maxSize
		dw = w * maxSize / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// DecodeImage decodes a depth or background image file. WebP is the
// depth map convention ({name}d.webp); JPEG/PNG cover loose assets.
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		img, err := webp.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return img, nil
}

// LoadRaster decodes a depth raster from file.
func LoadRaster(path string, maxSize int) (*Raster, error) {
	img, err := DecodeImage(path)
	if err != nil {
		return nil, err
	}
	return FromImage(img, maxSize), nil
}

// Package imageutil centralizes channel-count coercion and the buffer math
// shared by the texture generators. Every component converts at its boundary
// through ToGray/ToNRGBA instead of sprinkling ad hoc conversions.
package imageutil

import (
	"errors"
	"image"
	"image/color"
	"math/rand"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// ErrFlatImage is returned when a min-max normalization meets a uniform
// buffer. Pipelines that can tolerate it treat the input as already
// normalized; anywhere else it signals an unexpected degenerate input.
var ErrFlatImage = errors.New("imageutil: uniform image has no intensity range")

// ToGray collapses any image to a single channel using the standard
// luminance weights. A *image.Gray input is returned as-is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return dst
}

// ToNRGBA expands any image to three color channels plus opaque alpha.
// Grayscale inputs are replicated across R, G and B; an existing alpha
// channel is discarded.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			c.A = 255
			dst.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return dst
}

// IsGray reports whether the image carries a single channel.
func IsGray(img image.Image) bool {
	_, ok := img.(*image.Gray)
	return ok
}

// GrayFloats copies a grayscale image into a row-major float plane.
func GrayFloats(g *image.Gray) []float64 {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = float64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}
	return out
}

// GrayFromFloats quantizes a float plane to 8 bits, clamping to [0,255].
func GrayFromFloats(w, h int, vals []float64) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range vals {
		dst.Pix[i] = Clamp8(v)
	}
	return dst
}

// Clamp8 rounds v into the 8-bit sample range.
func Clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Normalize rescales vals in place so min maps to lo and max to hi.
// A zero-range input returns ErrFlatImage and leaves vals untouched.
func Normalize(vals []float64, lo, hi float64) error {
	if len(vals) == 0 {
		return ErrFlatImage
	}
	minV, maxV := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV == minV {
		return ErrFlatImage
	}
	scale := (hi - lo) / (maxV - minV)
	for i, v := range vals {
		vals[i] = lo + (v-minV)*scale
	}
	return nil
}

// Invert replaces every sample with its photometric complement.
func Invert(g *image.Gray) *image.Gray {
	dst := image.NewGray(g.Bounds())
	for i, v := range g.Pix {
		dst.Pix[i] = 255 - v
	}
	return dst
}

// AverageIntensity returns the mean luminance of an image in [0,255].
func AverageIntensity(img image.Image) float64 {
	g := ToGray(img)
	if len(g.Pix) == 0 {
		return 0
	}
	var sum float64
	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride : (y-b.Min.Y)*g.Stride+b.Dx()]
		for _, v := range row {
			sum += float64(v)
		}
	}
	return sum / float64(b.Dx()*b.Dy())
}

// ResizeGray scales a single-channel image to the target size with a
// bilinear kernel, staying in one channel the whole way.
func ResizeGray(g *image.Gray, w, h int) *image.Gray {
	if g.Bounds().Dx() == w && g.Bounds().Dy() == h {
		return g
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), g, g.Bounds(), xdraw.Src, nil)
	return dst
}

// Resize scales any image to the target size; single-channel inputs stay
// single-channel, everything else goes through imaging's Lanczos resampler.
func Resize(img image.Image, w, h int) image.Image {
	if g, ok := img.(*image.Gray); ok {
		return ResizeGray(g, w, h)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Crop extracts r from an image, preserving the channel layout.
func Crop(img image.Image, r image.Rectangle) image.Image {
	if g, ok := img.(*image.Gray); ok {
		return CropGray(g, r)
	}
	return imaging.Crop(img, r)
}

// CropGray extracts r from a grayscale image into a fresh buffer.
func CropGray(g *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(g.Bounds())
	dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			dst.SetGray(x, y, g.GrayAt(r.Min.X+x, r.Min.Y+y))
		}
	}
	return dst
}

// RotateQuarter rotates an image by turns*90 degrees counter-clockwise.
func RotateQuarter(img image.Image, turns int) image.Image {
	turns = ((turns % 4) + 4) % 4
	gray := IsGray(img)
	out := img
	switch turns {
	case 1:
		out = imaging.Rotate90(img)
	case 2:
		out = imaging.Rotate180(img)
	case 3:
		out = imaging.Rotate270(img)
	}
	if gray && turns != 0 {
		return ToGray(out)
	}
	return out
}

// RandomQuarterTurn rotates by a random multiple of 90 degrees.
func RandomQuarterTurn(img image.Image, rng *rand.Rand) image.Image {
	return RotateQuarter(img, rng.Intn(4))
}

// GaussianBlurGray blurs a single-channel image with a square kernel of odd
// size ksize. Sigma is derived from the kernel size the way OpenCV does.
func GaussianBlurGray(g *image.Gray, ksize int) *image.Gray {
	if ksize <= 1 {
		return g
	}
	f := gift.New(gift.GaussianBlur(kernelSigma(ksize)))
	dst := image.NewGray(f.Bounds(g.Bounds()))
	f.Draw(dst, g)
	return dst
}

// MedianGray applies a ksize median filter to a single-channel image.
func MedianGray(g *image.Gray, ksize int) *image.Gray {
	f := gift.New(gift.Median(ksize, true))
	dst := image.NewGray(f.Bounds(g.Bounds()))
	f.Draw(dst, g)
	return dst
}

func kernelSigma(ksize int) float32 {
	return float32(0.3*((float64(ksize)-1)*0.5-1) + 0.8)
}

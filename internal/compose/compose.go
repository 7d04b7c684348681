// Package compose merges two equally sized textures with a named blend mode.
// The standard modes run on bild's blend kernels; the remaining modes are
// per-pixel kernels plugged into bild's generic Blend, except FFT which mixes
// the two images in the frequency domain.
package compose

import (
	"fmt"
	"image"
	"math/rand"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/fcolor"

	"github.com/MeKo-Tech/papertexture/internal/fft"
	"github.com/MeKo-Tech/papertexture/internal/imageutil"
)

// Mode names a blend kernel.
type Mode string

const (
	ModeInkToPaper Mode = "ink_to_paper"
	ModeMin        Mode = "min"
	ModeMax        Mode = "max"
	ModeMix        Mode = "mix"
	ModeNormal     Mode = "normal"
	ModeLighten    Mode = "lighten"
	ModeDarken     Mode = "darken"
	ModeScreen     Mode = "screen"
	ModeDodge      Mode = "dodge"
	ModeMultiply   Mode = "multiply"
	ModeDivide     Mode = "divide"
	ModeGrainMerge Mode = "grain_merge"
	ModeOverlay    Mode = "overlay"
	ModeFFT        Mode = "FFT"
)

// Modes lists every supported blend mode.
var Modes = []Mode{
	ModeInkToPaper,
	ModeMin,
	ModeMax,
	ModeMix,
	ModeNormal,
	ModeLighten,
	ModeDarken,
	ModeScreen,
	ModeDodge,
	ModeMultiply,
	ModeDivide,
	ModeGrainMerge,
	ModeOverlay,
	ModeFFT,
}

// RandomMode draws a uniformly distributed blend mode.
func RandomMode(rng *rand.Rand) Mode {
	return Modes[rng.Intn(len(Modes))]
}

// Valid reports whether m names a known blend mode.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// Compose blends top onto bottom. Both textures must share the same
// dimensions; the caller reconciles sizes beforehand. Opacity in (0,1)
// mixes the blended result back toward bottom; 1 returns it unchanged.
// When both inputs are single-channel the result stays single-channel.
func Compose(top, bottom image.Image, mode Mode, opacity float64) (image.Image, error) {
	tb, bb := top.Bounds(), bottom.Bounds()
	if tb.Dx() != bb.Dx() || tb.Dy() != bb.Dy() {
		return nil, fmt.Errorf("compose: texture sizes differ, %dx%d vs %dx%d",
			tb.Dx(), tb.Dy(), bb.Dx(), bb.Dy())
	}
	if opacity < 0 || opacity > 1 {
		return nil, fmt.Errorf("compose: opacity %v outside [0,1]", opacity)
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("compose: unknown blend mode %q", mode)
	}

	grayOut := imageutil.IsGray(top) && imageutil.IsGray(bottom)

	var out image.Image
	if mode == ModeFFT {
		out = spectrumBlend(top, bottom)
	} else {
		fg := imageutil.ToNRGBA(top)
		bg := imageutil.ToNRGBA(bottom)
		switch mode {
		case ModeNormal:
			out = blend.Normal(bg, fg)
		case ModeLighten:
			out = blend.Lighten(bg, fg)
		case ModeDarken:
			out = blend.Darken(bg, fg)
		case ModeScreen:
			out = blend.Screen(bg, fg)
		case ModeDodge:
			out = blend.ColorDodge(bg, fg)
		case ModeMultiply:
			out = blend.Multiply(bg, fg)
		case ModeDivide:
			out = blend.Divide(bg, fg)
		case ModeOverlay:
			out = blend.Overlay(bg, fg)
		case ModeInkToPaper:
			out = blend.Blend(bg, fg, inkToPaper)
		case ModeMin:
			out = blend.Blend(bg, fg, channelMin)
		case ModeMax:
			out = blend.Blend(bg, fg, channelMax)
		case ModeMix:
			out = blend.Blend(bg, fg, channelMean)
		case ModeGrainMerge:
			out = blend.Blend(bg, fg, grainMerge)
		}
	}

	if opacity < 1 {
		out = blend.Opacity(imageutil.ToNRGBA(bottom), imageutil.ToNRGBA(out), opacity)
	}
	if grayOut {
		return imageutil.ToGray(out), nil
	}
	return out, nil
}

// inkToPaper deposits the combined ink of both layers: the complements add
// and saturate, so overlapping dark regions stay dark.
func inkToPaper(bg, fg fcolor.RGBAF64) fcolor.RGBAF64 {
	c := fcolor.RGBAF64{
		R: bg.R + fg.R - 1,
		G: bg.G + fg.G - 1,
		B: bg.B + fg.B - 1,
		A: bg.A,
	}
	c.Clamp()
	return c
}

func channelMin(bg, fg fcolor.RGBAF64) fcolor.RGBAF64 {
	return fcolor.RGBAF64{
		R: minf(bg.R, fg.R),
		G: minf(bg.G, fg.G),
		B: minf(bg.B, fg.B),
		A: bg.A,
	}
}

func channelMax(bg, fg fcolor.RGBAF64) fcolor.RGBAF64 {
	return fcolor.RGBAF64{
		R: maxf(bg.R, fg.R),
		G: maxf(bg.G, fg.G),
		B: maxf(bg.B, fg.B),
		A: bg.A,
	}
}

func channelMean(bg, fg fcolor.RGBAF64) fcolor.RGBAF64 {
	return fcolor.RGBAF64{
		R: (bg.R + fg.R) / 2,
		G: (bg.G + fg.G) / 2,
		B: (bg.B + fg.B) / 2,
		A: bg.A,
	}
}

// grainMerge adds the layers and recenters around mid-gray.
func grainMerge(bg, fg fcolor.RGBAF64) fcolor.RGBAF64 {
	c := fcolor.RGBAF64{
		R: bg.R + fg.R - 0.5,
		G: bg.G + fg.G - 0.5,
		B: bg.B + fg.B - 0.5,
		A: bg.A,
	}
	c.Clamp()
	return c
}

// spectrumBlend averages the two textures' FFT spectra and transforms the
// mean spectrum back to the spatial domain. Both inputs collapse to a single
// channel first; the blend is inherently a luminance operation.
func spectrumBlend(top, bottom image.Image) *image.Gray {
	tg := imageutil.ToGray(top)
	bg := imageutil.ToGray(bottom)
	b := tg.Bounds()
	w, h := b.Dx(), b.Dy()

	plan := fft.NewPlan(w, h)
	topSpec := plan.Forward(imageutil.GrayFloats(tg))
	botSpec := plan.Forward(imageutil.GrayFloats(bg))
	for i := range topSpec {
		topSpec[i] = (topSpec[i] + botSpec[i]) / 2
	}
	vals := plan.Inverse(topSpec)

	out := image.NewGray(image.Rect(0, 0, w, h))
	for i, c := range vals {
		out.Pix[i] = imageutil.Clamp8(real(c))
	}
	return out
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

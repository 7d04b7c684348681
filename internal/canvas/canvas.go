// Package canvas scales generated textures onto the requested output size.
// Scaling happens in two randomized passes so repeated runs do not converge
// on a single fixed enlargement ratio.
package canvas

import (
	"fmt"
	"image"
	"math/rand"

	"github.com/MeKo-Tech/papertexture/internal/imageutil"
)

// Fit rescales texture until it covers at least targetW×targetH on both
// axes. Oversized inputs shrink with up to 20% overshoot above the dominant
// axis ratio; undersized results then grow with up to 150% overshoot, so the
// output is always at least as large as the target and usually larger.
func Fit(texture image.Image, targetW, targetH int, rng *rand.Rand) (image.Image, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("canvas: size must be positive, got %dx%d", targetW, targetH)
	}
	b := texture.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("canvas: empty texture")
	}

	if w > targetW || h > targetH {
		hRatio := float64(targetH) / float64(h)
		wRatio := float64(targetW) / float64(w)
		ratio := hRatio
		if wRatio > ratio {
			ratio = wRatio
		}
		scale := ratio + rng.Float64()*0.2
		if scale > 1 {
			scale = 1
		}
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
		texture = imageutil.Resize(texture, w, h)
	}

	if w < targetW || h < targetH {
		hRatio := float64(targetH) / float64(h)
		wRatio := float64(targetW) / float64(w)
		ratio := hRatio
		if wRatio > ratio {
			ratio = wRatio
		}
		scale := ratio + rng.Float64()*1.5
		w = int(float64(w)*scale + 0.5)
		h = int(float64(h)*scale + 0.5)
		if w < targetW {
			w = targetW
		}
		if h < targetH {
			h = targetH
		}
		texture = imageutil.Resize(texture, w, h)
	}

	return texture, nil
}

// RandomCrop cuts a targetW×targetH window at a random offset. The texture
// must be strictly larger than the target on both axes; anything else falls
// back to an exact resize.
func RandomCrop(texture image.Image, targetW, targetH int, rng *rand.Rand) image.Image {
	b := texture.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= targetW || h <= targetH {
		return imageutil.Resize(texture, targetW, targetH)
	}
	x := rng.Intn(w - targetW)
	y := rng.Intn(h - targetH)
	r := image.Rect(x, y, x+targetW, y+targetH).Add(b.Min)
	return imageutil.Crop(texture, r)
}

// CropExact trims any surplus rows and columns beyond the target size. A
// texture already at or below the target size is returned unchanged.
func CropExact(texture image.Image, targetW, targetH int) image.Image {
	b := texture.Bounds()
	if b.Dx() <= targetW && b.Dy() <= targetH {
		return texture
	}
	w, h := b.Dx(), b.Dy()
	if w > targetW {
		w = targetW
	}
	if h > targetH {
		h = targetH
	}
	return imageutil.Crop(texture, image.Rect(0, 0, w, h).Add(b.Min))
}

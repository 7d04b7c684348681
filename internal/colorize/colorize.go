// Package colorize tints single-channel textures and remaps brightness.
// Hue and saturation are expressed in 8-bit HSV units (hue halved to fit a
// byte, saturation 0..255) so the generator parameterizations carry over
// directly.
package colorize

import (
	"fmt"
	"image"
	"math"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/MeKo-Tech/papertexture/internal/imageutil"
)

// Colorize converts a single-channel texture to three channels by assigning
// one hue and one saturation drawn from the given inclusive windows and
// keeping each pixel's intensity as the HSV value channel.
func Colorize(gray *image.Gray, hueLo, hueHi, satLo, satHi int, rng *rand.Rand) (*image.NRGBA, error) {
	if hueLo > hueHi || satLo > satHi {
		return nil, fmt.Errorf("colorize: empty window hue=[%d,%d] sat=[%d,%d]", hueLo, hueHi, satLo, satHi)
	}
	hue := clampByte(hueLo + rng.Intn(hueHi-hueLo+1))
	sat := clampByte(satLo + rng.Intn(satHi-satLo+1))

	// Hue is stored halved, so full circle is 0..180 in these units.
	// Larger draws wrap around the circle.
	h := math.Mod(float64(hue)*2, 360)
	s := float64(sat) / 255

	b := gray.Bounds()
	w, hgt := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, hgt))

	// One RGB triple per possible intensity; the hue and saturation are
	// constant across the image.
	var lut [256][3]uint8
	for v := 0; v < 256; v++ {
		c := colorful.Hsv(h, s, float64(v)/255)
		r, g, bl := c.RGB255()
		lut[v] = [3]uint8{r, g, bl}
	}

	for y := 0; y < hgt; y++ {
		for x := 0; x < w; x++ {
			rgb := lut[gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y]
			i := out.PixOffset(x, y)
			out.Pix[i] = rgb[0]
			out.Pix[i+1] = rgb[1]
			out.Pix[i+2] = rgb[2]
			out.Pix[i+3] = 255
		}
	}
	return out, nil
}

// Brighten scales every channel by a factor drawn uniformly from [lo,hi],
// clamping to the 8-bit range. Factors below 1 are raised to 1 so the
// adjustment never darkens.
func Brighten(texture image.Image, lo, hi float64, rng *rand.Rand) (image.Image, error) {
	if lo > hi {
		return nil, fmt.Errorf("colorize: empty brightness range [%v,%v]", lo, hi)
	}
	factor := lo + rng.Float64()*(hi-lo)
	if factor < 1 {
		factor = 1
	}
	if factor == 1 {
		return texture, nil
	}

	var lut [256]uint8
	for v := 0; v < 256; v++ {
		lut[v] = imageutil.Clamp8(float64(v) * factor)
	}

	if g, ok := texture.(*image.Gray); ok {
		out := image.NewGray(g.Bounds())
		for i, v := range g.Pix {
			out.Pix[i] = lut[v]
		}
		return out, nil
	}
	src := imageutil.ToNRGBA(texture)
	out := image.NewNRGBA(src.Bounds())
	for i, v := range src.Pix {
		if i%4 == 3 {
			out.Pix[i] = 255
			continue
		}
		out.Pix[i] = lut[v]
	}
	return out, nil
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

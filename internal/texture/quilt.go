package texture

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/gift"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/MeKo-Tech/papertexture/internal/imageutil"
)

// ContrastEnhancer is the post-quilting contrast collaborator.
type ContrastEnhancer interface {
	Enhance(img image.Image) image.Image
}

// StretchContrast rescales each channel to the full 8-bit range.
type StretchContrast struct{}

// Enhance implements ContrastEnhancer.
func (StretchContrast) Enhance(img image.Image) image.Image {
	src := imageutil.ToNRGBA(img)
	b := src.Bounds()
	for ch := 0; ch < 3; ch++ {
		vals := make([]float64, b.Dx()*b.Dy())
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				vals[i] = float64(src.Pix[src.PixOffset(x, y)+ch])
				i++
			}
		}
		if err := imageutil.Normalize(vals, 0, 255); err != nil {
			continue
		}
		i = 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				src.Pix[src.PixOffset(x, y)+ch] = imageutil.Clamp8(vals[i])
				i++
			}
		}
	}
	if imageutil.IsGray(img) {
		return imageutil.ToGray(src)
	}
	return src
}

// patchStats holds the mean hue/saturation/value of a square patch, in the
// 0-180/0-255/0-255 units the acceptance windows are defined over.
type patchStats struct {
	h, s, v float64
}

// Quilt stitches patchCountW×patchCountH tonally-similar patches of src into
// a larger self-similar texture. Adjacent patches overlap by patchSize/5;
// later patches simply paint over the overlap band. The output keeps the
// input's channel layout.
func (g *Generator) Quilt(src image.Image, patchSize, patchCountW, patchCountH int, enhancer ContrastEnhancer) (image.Image, error) {
	if patchSize <= 0 || patchCountW <= 0 || patchCountH <= 0 {
		return nil, fmt.Errorf("quilt parameters must be positive")
	}
	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW <= patchSize || srcH <= patchSize {
		return nil, fmt.Errorf("texture %dx%d is too small for %dpx patches", srcW, srcH, patchSize)
	}

	overlap := patchSize / 5
	outW := patchCountW*patchSize - (patchCountW-1)*overlap
	outH := patchCountH*patchSize - (patchCountH-1)*overlap

	isGray := imageutil.IsGray(src)
	work := imageutil.ToNRGBA(src)
	out := image.NewNRGBA(image.Rect(0, 0, outW, outH))

	// Reference patch: reject near-black and near-white regions so the
	// tonal windows anchor on actual texture.
	var ref patchStats
	for n := 0; n < 10; n++ {
		x := g.rng.Intn(srcW - patchSize)
		y := g.rng.Intn(srcH - patchSize)
		ref = meanHSV(work, x, y, patchSize)
		if ref.v > 10 && ref.v < 245 {
			break
		}
	}
	const window = 10
	hRange := Range{ref.h - window, ref.h + window}
	sRange := Range{ref.s - window, ref.s + window}
	vRange := Range{ref.v - window, ref.v + window}

	for i := 0; i < patchCountH; i++ {
		for j := 0; j < patchCountW; j++ {
			patch := g.findPatch(work, patchSize, hRange, sRange, vRange)
			pasteNRGBA(out, patch, j*(patchSize-overlap), i*(patchSize-overlap))
		}
	}

	f := gift.New(gift.Median(11, true))
	smoothed := image.NewNRGBA(f.Bounds(out.Bounds()))
	f.Draw(smoothed, out)

	var result image.Image = smoothed
	if enhancer != nil {
		result = enhancer.Enhance(smoothed)
	}
	if isGray {
		return imageutil.ToGray(result), nil
	}
	return imageutil.ToNRGBA(result), nil
}

// findPatch samples up to 10 donor locations, accepting the first whose mean
// hue/saturation/value all fall inside the target windows, then gamma
// corrects it toward the window's mid brightness. When every try misses, the
// last sampled patch is used as-is.
func (g *Generator) findPatch(src *image.NRGBA, patchSize int, hRange, sRange, vRange Range) *image.NRGBA {
	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()

	x := g.rng.Intn(srcW - patchSize)
	y := g.rng.Intn(srcH - patchSize)
	for n := 0; n < 10; n++ {
		x = g.rng.Intn(srcW - patchSize)
		y = g.rng.Intn(srcH - patchSize)
		st := meanHSV(src, x, y, patchSize)
		if st.h >= hRange.Min && st.h < hRange.Max &&
			st.s >= sRange.Min && st.s < sRange.Max &&
			st.v >= vRange.Min && st.v < vRange.Max {
			patch := cropNRGBA(src, x, y, patchSize)
			mid := (vRange.Min + vRange.Max) / 2 / 255
			gamma := math.Log(mid*255) / math.Log(st.v)
			applyGamma(patch, gamma)
			return patch
		}
	}
	return cropNRGBA(src, x, y, patchSize)
}

func meanHSV(img *image.NRGBA, x0, y0, size int) patchStats {
	var sumH, sumS, sumV float64
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			px := img.NRGBAAt(x, y)
			c := colorful.Color{R: float64(px.R) / 255, G: float64(px.G) / 255, B: float64(px.B) / 255}
			h, s, v := c.Hsv()
			sumH += h / 2
			sumS += s * 255
			sumV += v * 255
		}
	}
	n := float64(size * size)
	return patchStats{h: sumH / n, s: sumS / n, v: sumV / n}
}

func cropNRGBA(src *image.NRGBA, x0, y0, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dst.SetNRGBA(x, y, src.NRGBAAt(x0+x, y0+y))
		}
	}
	return dst
}

func pasteNRGBA(dst, patch *image.NRGBA, x0, y0 int) {
	b := patch.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if x0+x < dst.Bounds().Dx() && y0+y < dst.Bounds().Dy() {
				dst.SetNRGBA(x0+x, y0+y, patch.NRGBAAt(x, y))
			}
		}
	}
}

func applyGamma(img *image.NRGBA, gamma float64) {
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return
	}
	var lut [256]uint8
	for i := range lut {
		lut[i] = imageutil.Clamp8(math.Pow(float64(i), gamma))
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = lut[img.Pix[i]]
		img.Pix[i+1] = lut[img.Pix[i+1]]
		img.Pix[i+2] = lut[img.Pix[i+2]]
	}
}

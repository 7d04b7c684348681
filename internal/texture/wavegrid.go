package texture

import (
	"image"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/MeKo-Tech/papertexture/internal/fft"
	"github.com/MeKo-Tech/papertexture/internal/imageutil"
)

// Range is a closed interval a parameter is drawn from uniformly.
type Range struct {
	Min, Max float64
}

func (r Range) draw(rng *rand.Rand) float64 {
	return uniformIn(rng, r.Min, r.Max)
}

// IntRange is a closed integer interval.
type IntRange struct {
	Min, Max int
}

func (r IntRange) draw(rng *rand.Rand) int {
	return randIntIn(rng, r.Min, r.Max)
}

// FFTGridConfig parameterizes the frequency-domain wave synthesis. Each wave
// draws amplitude, frequency, phase and a 2-D wave vector independently; a
// wave grid is the sum of one sine and one cosine wave with independent
// parameters.
type FFTGridConfig struct {
	OuterIters IntRange // independent frequency-domain accumulations summed into the output
	InnerIters IntRange // wave grids summed in the spectrum before each inverse transform
	Resolution Range    // spatial scale of the coordinate grids, sampled per outer pass
	Amplitude  Range
	Frequency  Range
	Phase      Range
	WaveVecX   Range
	WaveVecY   Range
}

// generateFFTGrid builds a width×height float plane by accumulating wave
// spectra. Outer-pass sums may exceed 255; callers normalize downstream.
func (g *Generator) generateFFTGrid(width, height int, cfg FFTGridConfig) []float64 {
	out := make([]float64, width*height)
	plan := fft.NewPlan(width, height)

	outer := cfg.OuterIters.draw(g.rng)
	for i := 0; i < outer; i++ {
		res := cfg.Resolution.draw(g.rng)
		xs := make([]float64, width)
		for x := range xs {
			xs[x] = (float64(x) - float64(width)/2) * res
		}
		ys := make([]float64, height)
		for y := range ys {
			ys[y] = (float64(y) - float64(height)/2) * res
		}

		acc := make([]complex128, width*height)
		inner := cfg.InnerIters.draw(g.rng)
		for j := 0; j < inner; j++ {
			grid := g.waveGrid(xs, ys, cfg)
			spec := plan.Shift(plan.Forward(grid))
			for k, c := range spec {
				acc[k] += c
			}
		}

		vals := plan.Inverse(plan.Unshift(acc))
		re := make([]float64, len(vals))
		for k, c := range vals {
			re[k] = real(c)
		}
		if err := imageutil.Normalize(re, 0, 1); err != nil {
			// Uniform spectrum: nothing to contribute this pass.
			continue
		}
		for k, v := range re {
			out[k] += float64(imageutil.Clamp8(v * 255))
		}
	}
	return out
}

// waveGrid samples 2 to 4 wave-parameter pairs; only the final pair's field
// survives, earlier draws advance the random stream without contributing.
func (g *Generator) waveGrid(xs, ys []float64, cfg FFTGridConfig) []float64 {
	iters := randIntIn(g.rng, 2, 4)
	type wave struct {
		a, f, p, kx, ky float64
	}
	var sine, cosine wave
	for i := 0; i < iters; i++ {
		sine = wave{
			a:  cfg.Amplitude.draw(g.rng),
			f:  cfg.Frequency.draw(g.rng),
			p:  cfg.Phase.draw(g.rng),
			kx: cfg.WaveVecX.draw(g.rng),
			ky: cfg.WaveVecY.draw(g.rng),
		}
		cosine = wave{
			a:  cfg.Amplitude.draw(g.rng),
			f:  cfg.Frequency.draw(g.rng),
			p:  cfg.Phase.draw(g.rng),
			kx: cfg.WaveVecX.draw(g.rng),
			ky: cfg.WaveVecY.draw(g.rng),
		}
	}

	grid := make([]float64, len(xs)*len(ys))
	for yi, y := range ys {
		row := grid[yi*len(xs):]
		for xi, x := range xs {
			hs := sine.a * math.Sin(2*math.Pi*(sine.f*(sine.kx*x+sine.ky*y)-sine.p))
			hc := cosine.a * math.Cos(2*math.Pi*(cosine.f*(cosine.kx*x+cosine.ky*y)-cosine.p))
			row[xi] = hs + hc
		}
	}
	return grid
}

// RemoveFrequency suppresses every frequency bin within radius of the
// spectrum center, then inverse-transforms, normalizes the magnitude to
// [0,255] and photometrically inverts. Smooth inputs come out as grain or
// stain shaped masks.
func RemoveFrequency(g *image.Gray, radius int) (*image.Gray, error) {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	plan := fft.NewPlan(w, h)

	spec := plan.Shift(plan.Forward(imageutil.GrayFloats(g)))
	cx, cy := w/2, h/2
	r2 := radius * radius
	for y := 0; y < h; y++ {
		dy := y - cy
		for x := 0; x < w; x++ {
			dx := x - cx
			if dx*dx+dy*dy <= r2 {
				spec[y*w+x] = 0
			}
		}
	}

	vals := plan.Inverse(plan.Unshift(spec))
	mag := make([]float64, len(vals))
	for i, c := range vals {
		mag[i] = cmplx.Abs(c)
	}
	if err := imageutil.Normalize(mag, 0, 255); err != nil {
		return nil, err
	}
	return imageutil.Invert(imageutil.GrayFromFloats(w, h, mag)), nil
}

// normalizeGray min-max rescales a grayscale image to the full 8-bit range.
func normalizeGray(g *image.Gray) (*image.Gray, error) {
	b := g.Bounds()
	vals := imageutil.GrayFloats(g)
	if err := imageutil.Normalize(vals, 0, 255); err != nil {
		return nil, err
	}
	return imageutil.GrayFromFloats(b.Dx(), b.Dy(), vals), nil
}

// roughStains synthesizes a coarse stain mask: several accumulated wave
// spectra at a small working resolution, high-pass filtered and median
// smoothed.
func (g *Generator) roughStains(width, height int) (*image.Gray, error) {
	const size = 200
	cfg := FFTGridConfig{
		OuterIters: IntRange{3, 5},
		InnerIters: IntRange{2, 4},
		Resolution: Range{0.95, 0.95},
		Amplitude:  Range{5, 15},
		Frequency:  Range{0.01, 0.03},
		Phase:      Range{0, 2 * math.Pi},
		WaveVecX:   Range{-1, 1},
		WaveVecY:   Range{-1, 1},
	}
	grid := imageutil.GrayFromFloats(size, size, g.generateFFTGrid(size, size, cfg))
	grid = imageutil.GaussianBlurGray(grid, 3)

	grid, err := RemoveFrequency(grid, randIntIn(g.rng, 25, 35))
	if err != nil {
		return nil, err
	}
	grid = imageutil.MedianGray(grid, 5)
	return imageutil.ResizeGray(grid, width, height), nil
}

// granular synthesizes a light granular mask: a single wave spectrum, two
// high-pass passes with an inversion between them, borders trimmed to drop
// transform edge artifacts.
func (g *Generator) granular(width, height int) (*image.Gray, error) {
	const size = 500
	cfg := FFTGridConfig{
		OuterIters: IntRange{1, 1},
		InnerIters: IntRange{1, 1},
		Resolution: Range{0.95, 0.95},
		Amplitude:  Range{5, 15},
		Frequency:  Range{0.01, 0.02},
		Phase:      Range{0, 2 * math.Pi},
		WaveVecX:   Range{-1, 1},
		WaveVecY:   Range{-1, 1},
	}
	grid := imageutil.GrayFromFloats(size, size, g.generateFFTGrid(size, size, cfg))
	grid = imageutil.GaussianBlurGray(grid, 3)

	grid, err := RemoveFrequency(grid, 10)
	if err != nil {
		return nil, err
	}

	const trim = 50
	grid = imageutil.CropGray(grid, image.Rect(trim, trim, size-trim, size-trim))

	grid, err = normalizeGray(grid)
	if err != nil {
		return nil, err
	}
	grid = imageutil.Invert(grid)

	grid, err = RemoveFrequency(grid, 100)
	if err != nil {
		return nil, err
	}
	grid, err = normalizeGray(grid)
	if err != nil {
		return nil, err
	}
	return imageutil.ResizeGray(grid, width, height), nil
}

// curvyEdge synthesizes a smooth curving edge mask from a low-frequency wave
// spectrum with the broad frequency band removed.
func (g *Generator) curvyEdge(width, height int) (*image.Gray, error) {
	const size = 500
	cfg := FFTGridConfig{
		OuterIters: IntRange{1, 1},
		InnerIters: IntRange{1, 1},
		Resolution: Range{0.95, 0.95},
		Amplitude:  Range{5, 15},
		Frequency:  Range{0.05, 0.1},
		Phase:      Range{0, 2 * math.Pi},
		WaveVecX:   Range{-1, 1},
		WaveVecY:   Range{-1, 1},
	}
	grid := imageutil.GrayFromFloats(size, size, g.generateFFTGrid(size, size, cfg))
	grid = imageutil.GaussianBlurGray(grid, 3)

	grid, err := RemoveFrequency(grid, 100)
	if err != nil {
		return nil, err
	}
	grid, err = normalizeGray(grid)
	if err != nil {
		return nil, err
	}
	grid = imageutil.GaussianBlurGray(grid, 9)
	return imageutil.ResizeGray(grid, width, height), nil
}

// fineStains layers an independent normal-noise texture over the wave
// spectrum before filtering, which breaks the smooth bands into fine specks.
func (g *Generator) fineStains(width, height int) (*image.Gray, error) {
	const size = 500
	cfg := FFTGridConfig{
		OuterIters: IntRange{1, 1},
		InnerIters: IntRange{3, 5},
		Resolution: Range{0.95, 0.95},
		Amplitude:  Range{5, 15},
		Frequency:  Range{0.01, 0.02},
		Phase:      Range{0, 2 * math.Pi},
		WaveVecX:   Range{-1, 1},
		WaveVecY:   Range{-1, 1},
	}
	vals := g.generateFFTGrid(size, size, cfg)
	noise := g.normalNoise(size, size, 255, 1, 2)
	for i, v := range noise.Pix {
		vals[i] += float64(v)
	}
	grid := imageutil.GrayFromFloats(size, size, vals)
	grid = imageutil.GaussianBlurGray(grid, 3)

	grid, err := RemoveFrequency(grid, 10)
	if err != nil {
		return nil, err
	}

	const trim = 50
	grid = imageutil.CropGray(grid, image.Rect(trim, trim, size-trim, size-trim))

	grid, err = normalizeGray(grid)
	if err != nil {
		return nil, err
	}
	grid = imageutil.Invert(grid)

	grid, err = RemoveFrequency(grid, 100)
	if err != nil {
		return nil, err
	}
	grid, err = normalizeGray(grid)
	if err != nil {
		return nil, err
	}
	grid = imageutil.GaussianBlurGray(grid, 3)
	return imageutil.ResizeGray(grid, width, height), nil
}

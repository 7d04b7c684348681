package texture

import (
	"image"

	"github.com/MeKo-Tech/papertexture/internal/imageutil"
)

// brokenEdge renders an interrupted, noisy edge band. Gaussian point clusters
// are thrown around the four edge midpoints of a fixed 400x400 canvas, filled
// with band-limited noise, blurred and contrast-doubled.
func (g *Generator) brokenEdge(width, height int) *image.Gray {
	const size = 400

	centers := [4]image.Point{
		{X: 0, Y: size / 2},
		{X: size / 2, Y: 0},
		{X: size, Y: size / 2},
		{X: size / 2, Y: size},
	}

	clusterCount := randIntIn(g.rng, 300, 500)
	sampleCounts := make([]int, clusterCount)
	for i := range sampleCounts {
		sampleCounts[i] = randIntIn(g.rng, 1080, 1280)
	}
	spread := float64(randIntIn(g.rng, size/4, size/4))

	// Band-limited noise field: keep only draws in the upper intensity band,
	// zero the rest.
	const bandLo, bandHi = 128.0 / 255.0, 255.0 / 255.0
	noise := make([]float64, size*size)
	for i := range noise {
		v := g.rng.Float64()
		if v < bandLo || v > bandHi {
			v = 0
		}
		noise[i] = v * 255
	}

	canvas := image.NewGray(image.Rect(0, 0, size, size))
	for i := range canvas.Pix {
		canvas.Pix[i] = 255
	}

	for _, c := range centers {
		for _, n := range sampleCounts {
			for s := 0; s < n; s++ {
				x := int(float64(c.X) + g.rng.NormFloat64()*spread)
				y := int(float64(c.Y) + g.rng.NormFloat64()*spread)
				// Points hugging the border clip into degenerate streaks.
				if x < 2 || x >= size-2 || y < 2 || y >= size-2 {
					continue
				}
				canvas.Pix[y*size+x] = imageutil.Clamp8(noise[y*size+x])
			}
		}
	}

	ksizes := []int{7, 9, 11, 13}
	canvas = imageutil.GaussianBlurGray(canvas, ksizes[g.rng.Intn(len(ksizes))])

	// Saturating self-add boosts the surviving speckle toward white.
	for i, v := range canvas.Pix {
		if v >= 128 {
			canvas.Pix[i] = 255
		} else {
			canvas.Pix[i] = v * 2
		}
	}

	return imageutil.ResizeGray(canvas, width, height)
}

package texture

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/MeKo-Tech/papertexture/internal/imageutil"
)

// strange renders the per-pixel XOR pattern: sparse bright specks over a dim
// background. Every pixel draws from its own splittable stream, so the
// sequential and parallel strategies produce identical images for a seed.
func (g *Generator) strange(width, height int) image.Image {
	background := uniformIn(g.rng, 0.04, 0.11)
	tRand := uniformIn(g.rng, 0, 100)
	mRandX := uniformIn(g.rng, 0, 100)
	mRandY := uniformIn(g.rng, 0, 100)
	streamSeed := uint64(g.rng.Int63())
	turns := g.rng.Intn(4)

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	render := func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < width; x++ {
				pr := newPixelRand(streamSeed, x, y)
				value := (x + int(tRand*80+mRandX*10)) ^ (y + int(tRand*80+mRandY*10))

				col := 1.0
				if value <= 1 {
					col = background
				}
				if value%2 == 0 && value > 2 {
					col = background
				}
				// Divisor search with one randomized stride per pixel: a
				// pseudo primality filter, not true primality.
				limit := int(math.Floor(math.Sqrt(float64(value))))
				stride := 1 + pr.intn(10)
				for i := 3; i < limit; i += stride {
					if value%i == 0 {
						col = background
						break
					}
				}

				out.SetNRGBA(x, y, color.NRGBA{
					R: imageutil.Clamp8(col / pr.uniform(0.01, 3) * 255),
					G: imageutil.Clamp8(col / pr.uniform(0.01, 3) * 255),
					B: imageutil.Clamp8(col / pr.uniform(0.01, 3) * 255),
					A: 255,
				})
			}
		}
	}

	if g.parallel {
		g.logf("rendering strange texture", "workers", g.pool.Workers())
		g.pool.RenderRows(context.Background(), height, render)
	} else {
		render(0, height)
	}

	return imageutil.RotateQuarter(out, turns)
}

// pixelRand is a splitmix64 stream keyed by pixel coordinates. It gives each
// pixel an independent random sequence without any shared generator state.
type pixelRand struct {
	state uint64
}

func newPixelRand(seed uint64, x, y int) *pixelRand {
	s := seed ^ (uint64(x)*0x9e3779b97f4a7c15 + uint64(y)*0xbf58476d1ce4e5b9)
	return &pixelRand{state: s}
}

func (p *pixelRand) next() uint64 {
	p.state += 0x9e3779b97f4a7c15
	z := p.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func (p *pixelRand) float64() float64 {
	return float64(p.next()>>11) / (1 << 53)
}

func (p *pixelRand) uniform(lo, hi float64) float64 {
	return lo + p.float64()*(hi-lo)
}

func (p *pixelRand) intn(n int) int {
	return int(p.next() % uint64(n))
}

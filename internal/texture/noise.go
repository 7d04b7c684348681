package texture

import (
	"image"

	"github.com/aquilax/go-perlin"

	"github.com/MeKo-Tech/papertexture/internal/imageutil"
)

// normalNoise layers Gaussian noise fields of progressively finer scale onto
// a constant plane. turbulence controls how quickly the coarse fields give
// way to fine ones. Output is remapped to [32,255] so the texture never goes
// fully black.
func (g *Generator) normalNoise(width, height int, value float64, sigma float64, turbulence int) *image.Gray {
	vals := make([]float64, width*height)
	for i := range vals {
		vals[i] = value
	}

	ratio := width
	if height < width {
		ratio = height
	}
	for ratio != 1 {
		nw := width / ratio
		if nw < 1 {
			nw = 1
		}
		nh := height / ratio
		if nh < 1 {
			nh = 1
		}
		field := make([]float64, nw*nh)
		for i := range field {
			field[i] = g.rng.NormFloat64() * sigma
		}
		addResizedField(vals, width, height, field, nw, nh)

		ratio /= turbulence
		if ratio < 1 {
			ratio = 1
		}
	}

	for i, v := range vals {
		if v < 0 {
			vals[i] = 0
		} else if v > 255 {
			vals[i] = 255
		}
	}
	// A constant plane can survive all passes when sigma is tiny; leave it
	// at its midpoint rather than failing.
	if err := imageutil.Normalize(vals, 32, 255); err != nil {
		g.logf("normal noise degenerate, skipping remap")
	}
	return imageutil.GrayFromFloats(width, height, vals)
}

// addResizedField bilinearly upsamples a small noise field onto dst.
// The field may hold negative values, so it cannot round-trip through an
// 8-bit image on its way up.
func addResizedField(dst []float64, dw, dh int, field []float64, fw, fh int) {
	sx := float64(fw) / float64(dw)
	sy := float64(fh) / float64(dh)
	for y := 0; y < dh; y++ {
		fy := (float64(y)+0.5)*sy - 0.5
		y0 := int(fy)
		if y0 < 0 {
			y0 = 0
		}
		y1 := y0 + 1
		if y1 >= fh {
			y1 = fh - 1
		}
		wy := fy - float64(y0)
		if wy < 0 {
			wy = 0
		}
		for x := 0; x < dw; x++ {
			fx := (float64(x)+0.5)*sx - 0.5
			x0 := int(fx)
			if x0 < 0 {
				x0 = 0
			}
			x1 := x0 + 1
			if x1 >= fw {
				x1 = fw - 1
			}
			wx := fx - float64(x0)
			if wx < 0 {
				wx = 0
			}
			top := field[y0*fw+x0]*(1-wx) + field[y0*fw+x1]*wx
			bot := field[y1*fw+x0]*(1-wx) + field[y1*fw+x1]*wx
			dst[y*dw+x] += top*(1-wy) + bot*wy
		}
	}
}

// fibrous renders layered Perlin noise as a soft paper-fiber grain.
func (g *Generator) fibrous(width, height int) *image.Gray {
	p := perlin.NewPerlin(2.0, 2.0, 3, g.rng.Int63())
	scale := float64(width) / 4
	if float64(height)/4 < scale {
		scale = float64(height) / 4
	}
	if scale < 1 {
		scale = 1
	}

	vals := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := p.Noise2D(float64(x)/scale, float64(y)/scale)
			vals[y*width+x] = (n + 1) / 2 * 255
		}
	}
	if err := imageutil.Normalize(vals, 32, 255); err != nil {
		// Perlin output is never flat in practice; keep the raw values.
		g.logf("fibrous noise degenerate, skipping remap")
	}
	return imageutil.GrayFromFloats(width, height, vals)
}

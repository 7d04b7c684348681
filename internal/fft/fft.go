// Package fft provides the 2-D Fourier transforms used by the frequency
// domain texture synthesis. The 2-D transforms are built from gonum's 1-D
// complex FFT by the usual row-column decomposition.
package fft

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan caches the row and column FFT objects for a fixed image size.
type Plan struct {
	w, h   int
	rowFFT *fourier.CmplxFFT
	colFFT *fourier.CmplxFFT
}

// NewPlan creates transform state for w×h images.
func NewPlan(w, h int) *Plan {
	return &Plan{
		w:      w,
		h:      h,
		rowFFT: fourier.NewCmplxFFT(w),
		colFFT: fourier.NewCmplxFFT(h),
	}
}

// Forward computes the 2-D FFT of a real row-major plane.
func (p *Plan) Forward(vals []float64) []complex128 {
	spec := make([]complex128, p.w*p.h)
	for i, v := range vals {
		spec[i] = complex(v, 0)
	}
	p.transform(spec, false)
	return spec
}

// Inverse computes the 2-D inverse FFT in place and returns spec.
// Values are scaled by 1/(w*h) so a Forward/Inverse round trip is identity.
func (p *Plan) Inverse(spec []complex128) []complex128 {
	p.transform(spec, true)
	scale := complex(1/float64(p.w*p.h), 0)
	for i := range spec {
		spec[i] *= scale
	}
	return spec
}

func (p *Plan) transform(spec []complex128, inverse bool) {
	row := make([]complex128, p.w)
	for y := 0; y < p.h; y++ {
		copy(row, spec[y*p.w:(y+1)*p.w])
		row = p.apply1D(p.rowFFT, row, inverse)
		copy(spec[y*p.w:(y+1)*p.w], row)
	}
	col := make([]complex128, p.h)
	for x := 0; x < p.w; x++ {
		for y := 0; y < p.h; y++ {
			col[y] = spec[y*p.w+x]
		}
		col = p.apply1D(p.colFFT, col, inverse)
		for y := 0; y < p.h; y++ {
			spec[y*p.w+x] = col[y]
		}
	}
}

func (p *Plan) apply1D(f *fourier.CmplxFFT, seq []complex128, inverse bool) []complex128 {
	if inverse {
		// gonum's Sequence computes the unscaled inverse transform.
		return f.Sequence(nil, seq)
	}
	return f.Coefficients(nil, seq)
}

// Shift moves the zero-frequency component to the center of the spectrum.
func (p *Plan) Shift(spec []complex128) []complex128 {
	return p.roll(spec, p.w/2, p.h/2)
}

// Unshift undoes Shift.
func (p *Plan) Unshift(spec []complex128) []complex128 {
	return p.roll(spec, p.w-p.w/2, p.h-p.h/2)
}

func (p *Plan) roll(spec []complex128, dx, dy int) []complex128 {
	out := make([]complex128, len(spec))
	for y := 0; y < p.h; y++ {
		ny := (y + dy) % p.h
		for x := 0; x < p.w; x++ {
			nx := (x + dx) % p.w
			out[ny*p.w+nx] = spec[y*p.w+x]
		}
	}
	return out
}

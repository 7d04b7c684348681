// Package worker provides a parallel row-band worker pool for the per-pixel
// texture stages.
package worker

import (
	"context"
	"runtime"
	"sync"
)

// BandFunc renders the half-open row range [y0, y1) of an image. Each band
// writes only its own output rows, so bands never need to synchronize.
type BandFunc func(y0, y1 int)

// Band is a single row range to render.
type Band struct {
	Y0, Y1 int
}

// Config configures the worker pool.
type Config struct {
	Workers int // defaults to GOMAXPROCS when <= 0
}

// Pool fans row bands out across a fixed set of workers.
type Pool struct {
	workers int
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

// Workers reports the configured parallelism.
func (p *Pool) Workers() int { return p.workers }

// RenderRows splits height rows into one band per worker and runs fn on each
// band in parallel. It blocks until every band completes or the context is
// cancelled; bands that were not started when the context fired are skipped.
func (p *Pool) RenderRows(ctx context.Context, height int, fn BandFunc) {
	if height <= 0 {
		return
	}
	bands := p.split(height)
	if len(bands) == 1 {
		fn(bands[0].Y0, bands[0].Y1)
		return
	}

	bandCh := make(chan Band, len(bands))
	for _, b := range bands {
		bandCh <- b
	}
	close(bandCh)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range bandCh {
				select {
				case <-ctx.Done():
					return
				default:
				}
				fn(b.Y0, b.Y1)
			}
		}()
	}
	wg.Wait()
}

// split divides height rows into at most workers near-equal bands.
func (p *Pool) split(height int) []Band {
	n := p.workers
	if n > height {
		n = height
	}
	bands := make([]Band, 0, n)
	step := height / n
	extra := height % n
	y := 0
	for i := 0; i < n; i++ {
		size := step
		if i < extra {
			size++
		}
		bands = append(bands, Band{Y0: y, Y1: y + size})
		y += size
	}
	return bands
}

// Package texture synthesizes grayscale and color paper-texture masks:
// frequency-domain wave synthesis, a per-pixel arithmetic pattern, clustered
// edge noise, layered normal noise and patch quilting.
package texture

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand"

	"github.com/MeKo-Tech/papertexture/internal/worker"
)

// Kind names one of the procedural texture algorithms.
type Kind string

const (
	KindNormal      Kind = "normal"
	KindStrange     Kind = "strange"
	KindRoughStains Kind = "rough_stains"
	KindFineStains  Kind = "fine_stains"
	KindGranular    Kind = "granular"
	KindCurvyEdge   Kind = "curvy_edge"
	KindBrokenEdge  Kind = "broken_edge"
	KindFibrous     Kind = "fibrous"
)

// BaseKinds are the fill textures the factory samples from.
var BaseKinds = []Kind{KindNormal, KindStrange, KindRoughStains, KindFineStains, KindGranular}

// EdgeKinds are the edge masks the factory combines with a base texture.
var EdgeKinds = []Kind{KindCurvyEdge, KindBrokenEdge}

// Kinds lists every supported texture kind.
var Kinds = []Kind{
	KindNormal, KindStrange, KindRoughStains, KindFineStains,
	KindGranular, KindCurvyEdge, KindBrokenEdge, KindFibrous,
}

// Config configures a Generator.
type Config struct {
	Seed     int64
	Rand     *rand.Rand // takes precedence over Seed when set
	Parallel bool       // parallel execution strategy for the per-pixel stage
	Workers  int
	Logger   *slog.Logger
}

// Generator produces texture images. All randomness flows through the
// injected source, so a fixed seed gives reproducible output even on the
// parallel path.
type Generator struct {
	rng      *rand.Rand
	pool     *worker.Pool
	parallel bool
	logger   *slog.Logger
}

// New creates a texture generator.
func New(cfg Config) *Generator {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return &Generator{
		rng:      rng,
		pool:     worker.New(worker.Config{Workers: cfg.Workers}),
		parallel: cfg.Parallel,
		logger:   cfg.Logger,
	}
}

// Rand exposes the generator's random source for callers that need to make
// correlated draws (e.g. the paper factory's kind selection).
func (g *Generator) Rand() *rand.Rand { return g.rng }

// Generate synthesizes a width×height texture of the given kind. All kinds
// return a single-channel image except KindStrange, which is three-channel.
func (g *Generator) Generate(kind Kind, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("texture size must be positive, got %dx%d", width, height)
	}
	switch kind {
	case KindNormal:
		return g.normalNoise(width, height, 255, float64(randIntIn(g.rng, 3, 5)), randIntIn(g.rng, 3, 9)), nil
	case KindStrange:
		return g.strange(width, height), nil
	case KindRoughStains:
		return g.roughStains(width, height)
	case KindFineStains:
		return g.fineStains(width, height)
	case KindGranular:
		return g.granular(width, height)
	case KindCurvyEdge:
		return g.curvyEdge(width, height)
	case KindBrokenEdge:
		return g.brokenEdge(width, height), nil
	case KindFibrous:
		return g.fibrous(width, height), nil
	default:
		return nil, fmt.Errorf("unknown texture kind %q", kind)
	}
}

func (g *Generator) logf(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}

func randIntIn(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

func uniformIn(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

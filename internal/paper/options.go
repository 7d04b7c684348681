package paper

import (
	"math/rand"

	"github.com/MeKo-Tech/papertexture/internal/compose"
)

// BoolOption is a flag that is either fixed or drawn per invocation.
type BoolOption struct {
	random bool
	value  bool
}

// Bool fixes the option to v.
func Bool(v bool) BoolOption { return BoolOption{value: v} }

// RandomBool draws the flag fresh on every invocation.
func RandomBool() BoolOption { return BoolOption{random: true} }

func (o BoolOption) resolve(rng *rand.Rand) bool {
	if o.random {
		return rng.Intn(2) == 1
	}
	return o.value
}

// ModeOption is a blend mode that is either fixed or drawn per invocation.
type ModeOption struct {
	random bool
	mode   compose.Mode
}

// BlendWith fixes the blend mode to m.
func BlendWith(m compose.Mode) ModeOption { return ModeOption{mode: m} }

// RandomBlend draws a blend mode fresh on every invocation.
func RandomBlend() ModeOption { return ModeOption{random: true} }

func (o ModeOption) resolve(rng *rand.Rand) compose.Mode {
	if o.random {
		return compose.RandomMode(rng)
	}
	return o.mode
}

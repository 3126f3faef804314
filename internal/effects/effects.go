// Package effects holds the composable raster transforms of the
// pipeline. Every effect is a pure function: it takes a raster and
// parameters, returns a fresh clamp-cast raster, and never mutates its
// input. That contract is what makes chains composable and lets each
// effect be tested in isolation.
package effects

import (
	"math/rand"

	"github.com/analogworks/filmlab/internal/raster"
	"github.com/analogworks/filmlab/internal/stock"
)

// Kind enumerates the known effects. External recipe strings are parsed
// into a Kind exactly once at the boundary; past that point dispatch is
// closed and exhaustive.
type Kind int

const (
	SkinProtect Kind = iota
	FilmCurve
	HighlightRoll
	ShadowLift
	MicroContrast
	ColorSeparate
	Grain
	BaseTint
	Halation
	ColorBleed
	ChemicalVariance
	VintageLens
	TealOrange
	Bloom
	ColorTemp
)

// Params carries everything an effect may consume. Intensity is the
// 0-1 (occasionally higher) blend factor; Stock, ISO, Temp and Tint are
// chain-level context; Rng feeds the stochastic effects so a seeded run
// is reproducible.
type Params struct {
	Intensity float64
	ISO       float64
	Temp      float64
	Stock     stock.Profile
	Tint      [3]float64
	Rng       *rand.Rand
}

// Func is the shape every effect implements.
type Func func(*raster.Raster, Params) *raster.Raster

var dispatch = map[Kind]Func{
	SkinProtect:      applySkinProtect,
	FilmCurve:        applyFilmCurve,
	HighlightRoll:    applyHighlightRoll,
	ShadowLift:       applyShadowLift,
	MicroContrast:    applyMicroContrast,
	ColorSeparate:    applyColorSeparate,
	Grain:            applyGrain,
	BaseTint:         applyBaseTint,
	Halation:         applyHalation,
	ColorBleed:       applyColorBleed,
	ChemicalVariance: applyChemicalVariance,
	VintageLens:      applyVintageLens,
	TealOrange:       applyTealOrange,
	Bloom:            applyBloom,
	ColorTemp:        applyColorTemp,
}

var names = map[Kind]string{
	SkinProtect:      "skin_protect",
	FilmCurve:        "film_curve",
	HighlightRoll:    "highlight_roll",
	ShadowLift:       "shadow_lift",
	MicroContrast:    "micro_contrast",
	ColorSeparate:    "color_separate",
	Grain:            "grain",
	BaseTint:         "base_tint",
	Halation:         "halation",
	ColorBleed:       "color_bleed",
	ChemicalVariance: "chemical_variance",
	VintageLens:      "vintage_lens",
	TealOrange:       "teal_orange",
	Bloom:            "bloom",
	ColorTemp:        "color_temp",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(names))
	for k, n := range names {
		m[n] = k
	}
	return m
}()

// ParseKind maps an external effect identifier to its Kind. The second
// return is false for unknown names; the skip-with-warning policy for
// those lives with the caller.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

func (k Kind) String() string { return names[k] }

// Names lists every known effect identifier in dispatch-order.
func Names() []string {
	out := make([]string, 0, len(names))
	for k := SkinProtect; k <= ColorTemp; k++ {
		out = append(out, names[k])
	}
	return out
}

// Apply runs one effect. Kind values always come from ParseKind or the
// constants above, so the table lookup cannot miss.
func Apply(k Kind, src *raster.Raster, p Params) *raster.Raster {
	return dispatch[k](src, p)
}

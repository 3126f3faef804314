// Package preset defines the named effect chains and runs them: a
// preset is an ordered effect list with a default stock, color
// temperature and intensity; a recipe is an ad-hoc chain with per-entry
// intensities.
package preset

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Preset is a named, immutable chain definition. Effects are kept as
// external identifiers; they are parsed into effect kinds at run time
// so an unknown name degrades to a skip instead of failing the batch.
type Preset struct {
	Name      string
	Stock     string
	Effects   []string
	Temp      float64
	Intensity float64
	Tint      [3]float64
}

// Step is one entry of an ad-hoc chain.
type Step struct {
	Effect    string  `json:"effect"`
	Intensity float64 `json:"intensity"`
}

// Chain is an ordered list of steps.
type Chain []Step

var presets = map[string]Preset{
	"portrait": {
		Name:      "portrait",
		Stock:     "kodak_portra",
		Effects:   []string{"skin_protect", "film_curve", "highlight_roll", "grain", "base_tint"},
		Temp:      5500,
		Intensity: 0.8,
		Tint:      [3]float64{255, 246, 238},
	},
	"landscape": {
		Name:      "landscape",
		Stock:     "fuji_velvia",
		Effects:   []string{"film_curve", "color_separate", "micro_contrast", "highlight_roll", "grain"},
		Temp:      5600,
		Intensity: 0.9,
		Tint:      [3]float64{250, 252, 248},
	},
	"street": {
		Name:      "street",
		Stock:     "tri_x",
		Effects:   []string{"film_curve", "color_separate", "micro_contrast", "shadow_lift", "grain", "vintage_lens"},
		Temp:      5200,
		Intensity: 1.0,
		Tint:      [3]float64{248, 248, 248},
	},
	"cinematic": {
		Name:      "cinematic",
		Stock:     "cinestill_800t",
		Effects:   []string{"film_curve", "teal_orange", "halation", "color_bleed", "grain"},
		Temp:      3800,
		Intensity: 0.9,
		Tint:      [3]float64{240, 244, 255},
	},
	"vintage": {
		Name:      "vintage",
		Stock:     "kodak_gold",
		Effects:   []string{"film_curve", "base_tint", "vintage_lens", "color_bleed", "chemical_variance", "grain"},
		Temp:      5000,
		Intensity: 0.85,
		Tint:      [3]float64{255, 240, 220},
	},
	"bw_classic": {
		Name:      "bw_classic",
		Stock:     "ilford_hp5",
		Effects:   []string{"color_separate", "film_curve", "micro_contrast", "highlight_roll", "grain"},
		Temp:      5500,
		Intensity: 1.0,
		Tint:      [3]float64{250, 250, 250},
	},
	"golden_hour": {
		Name:      "golden_hour",
		Stock:     "kodak_gold",
		Effects:   []string{"film_curve", "color_temp", "bloom", "highlight_roll", "grain"},
		Temp:      4300,
		Intensity: 0.8,
		Tint:      [3]float64{255, 238, 214},
	},
}

// Lookup returns the named preset.
func Lookup(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset: %s", name)
	}
	return p, nil
}

// Names lists the registered presets, sorted.
func Names() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ParseRecipe decodes an external JSON recipe: an ordered array of
// {"effect": name, "intensity": f} objects. An absent intensity key
// defaults to 1.0; an explicit 0 is kept, so a caller can disable a
// step in place. Unknown effect names are not rejected here; they skip
// at run time per the permissive policy.
func ParseRecipe(data []byte) (Chain, error) {
	var raw []struct {
		Effect    string   `json:"effect"`
		Intensity *float64 `json:"intensity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse recipe: empty chain")
	}
	chain := make(Chain, 0, len(raw))
	for _, entry := range raw {
		step := Step{Effect: entry.Effect, Intensity: 1.0}
		if entry.Intensity != nil {
			step.Intensity = *entry.Intensity
		}
		chain = append(chain, step)
	}
	return chain, nil
}

package preset

import "math/rand"

// Mode selects the random-chain safety rail.
type Mode string

const (
	// ModeProfessional draws narrow intensities from a curated pool, so
	// exploration never produces unusable output by default.
	ModeProfessional Mode = "professional"
	// ModeExperimental draws wide intensities from the full pool.
	ModeExperimental Mode = "experimental"
)

// The numeric bounds are tuning constants, not contract; the two modes
// and their narrow-vs-wide relationship are the contract.
const (
	professionalMin = 0.3
	professionalMax = 0.8
	experimentalMin = 0.5
	experimentalMax = 1.5
)

var professionalPool = []string{
	"film_curve", "highlight_roll", "shadow_lift", "micro_contrast",
	"grain", "base_tint", "color_bleed", "skin_protect",
}

var experimentalPool = []string{
	"skin_protect", "film_curve", "highlight_roll", "shadow_lift",
	"micro_contrast", "color_separate", "grain", "base_tint",
	"halation", "color_bleed", "chemical_variance", "vintage_lens",
	"teal_orange", "bloom", "color_temp",
}

// RandomChain draws 3-6 distinct effects from the mode's pool with
// random intensities inside the mode's range. Order follows the draw.
func RandomChain(mode Mode, rng *rand.Rand) Chain {
	pool, lo, hi := professionalPool, professionalMin, professionalMax
	if mode == ModeExperimental {
		pool, lo, hi = experimentalPool, experimentalMin, experimentalMax
	}

	count := 3 + rng.Intn(4)
	if count > len(pool) {
		count = len(pool)
	}
	picks := rng.Perm(len(pool))[:count]

	chain := make(Chain, 0, count)
	for _, i := range picks {
		chain = append(chain, Step{
			Effect:    pool[i],
			Intensity: lo + rng.Float64()*(hi-lo),
		})
	}
	return chain
}

// Pool exposes the effect pool for a mode, mainly for listing in the
// CLI.
func Pool(mode Mode) []string {
	if mode == ModeExperimental {
		return append([]string(nil), experimentalPool...)
	}
	return append([]string(nil), professionalPool...)
}

// Package stock is the registry of emulated film stocks and the tone
// curve that models their emulsion response.
package stock

import (
	"fmt"
	"math"
	"sort"

	"github.com/analogworks/filmlab/internal/raster"
)

// Profile describes one film stock. Grain is a noise amplitude in 8-bit
// levels at ISO 100; Gamma and Rolloff are strictly positive exponents;
// Lift is the shadow floor in [0,1]; Matrix is a row-major 3x3 color map.
type Profile struct {
	Name    string
	Grain   float64
	Gamma   float64
	Rolloff float64
	Lift    float64
	Matrix  [9]float64
}

var profiles = map[string]Profile{
	"kodak_portra": {
		Name: "kodak_portra", Grain: 5.0, Gamma: 0.92, Rolloff: 1.08, Lift: 0.04,
		Matrix: [9]float64{
			1.02, 0.02, -0.04,
			0.01, 0.99, 0.00,
			-0.02, 0.03, 0.99,
		},
	},
	"kodak_gold": {
		Name: "kodak_gold", Grain: 7.0, Gamma: 0.95, Rolloff: 1.12, Lift: 0.05,
		Matrix: [9]float64{
			1.06, 0.03, -0.05,
			0.02, 1.01, -0.03,
			-0.04, 0.00, 0.96,
		},
	},
	"kodak_ektar": {
		Name: "kodak_ektar", Grain: 3.5, Gamma: 1.05, Rolloff: 1.15, Lift: 0.02,
		Matrix: [9]float64{
			1.08, -0.03, -0.05,
			-0.02, 1.06, -0.04,
			-0.03, -0.02, 1.05,
		},
	},
	"fuji_velvia": {
		Name: "fuji_velvia", Grain: 4.0, Gamma: 1.12, Rolloff: 1.20, Lift: 0.01,
		Matrix: [9]float64{
			1.12, -0.06, -0.06,
			-0.04, 1.10, -0.06,
			-0.05, -0.05, 1.10,
		},
	},
	"fuji_superia": {
		Name: "fuji_superia", Grain: 6.5, Gamma: 0.97, Rolloff: 1.10, Lift: 0.04,
		Matrix: [9]float64{
			1.01, 0.01, -0.02,
			0.00, 1.04, -0.04,
			-0.02, 0.04, 0.98,
		},
	},
	"tri_x": {
		Name: "tri_x", Grain: 11.0, Gamma: 1.10, Rolloff: 1.25, Lift: 0.06,
		Matrix: [9]float64{
			0.299, 0.587, 0.114,
			0.299, 0.587, 0.114,
			0.299, 0.587, 0.114,
		},
	},
	"ilford_hp5": {
		Name: "ilford_hp5", Grain: 9.0, Gamma: 1.02, Rolloff: 1.18, Lift: 0.07,
		Matrix: [9]float64{
			0.299, 0.587, 0.114,
			0.299, 0.587, 0.114,
			0.299, 0.587, 0.114,
		},
	},
	"cinestill_800t": {
		Name: "cinestill_800t", Grain: 8.0, Gamma: 0.90, Rolloff: 1.05, Lift: 0.06,
		Matrix: [9]float64{
			0.98, 0.02, 0.02,
			0.00, 1.00, 0.02,
			0.02, 0.04, 1.04,
		},
	},
}

// Lookup returns the named profile.
func Lookup(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown film stock: %s", name)
	}
	return p, nil
}

// Names lists the registered stocks, sorted.
func Names() []string {
	out := make([]string, 0, len(profiles))
	for name := range profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ApplyFilmCurve runs the two-exponent emulsion curve: lift the shadows
// by Lift*intensity (fading toward white so highlights stay pinned),
// raise to Gamma for the overall tone response, then apply the Rolloff
// exponent for the soft highlight knee. The two exponents are separate
// stages on purpose; a single combined exponent cannot reshape the
// mid-tones and compress the highlights at the same time. The curved
// result is blended with the original by intensity, so 0 is a no-op
// and 1 replaces the tone response entirely.
func ApplyFilmCurve(src *raster.Raster, p Profile, intensity float64) *raster.Raster {
	if intensity <= 0 {
		return src.Clone()
	}
	lift := p.Lift * intensity
	curved := src.Map(func(v float64) float64 {
		x := v / 255.0
		x = x + lift*(1.0-x)
		return CurvePoint(x, p) * 255.0
	})
	return raster.Lerp(src, curved, intensity).ClampCast()
}

// CurvePoint evaluates the gamma-then-rolloff stage of the curve for a
// single normalized value; the shadow lift happens before this stage.
// The rolloff exponent acts on the inverted axis so that Rolloff > 1
// flattens the response approaching 1.0 instead of steepening it.
func CurvePoint(x float64, p Profile) float64 {
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	x = math.Pow(x, p.Gamma)
	return 1.0 - math.Pow(1.0-x, p.Rolloff)
}

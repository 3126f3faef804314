// Package camera resolves camera make/model metadata to an optional
// calibration profile and applies it to a raster before the effect
// chain runs. Not finding a profile is the normal case, not an error.
package camera

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/analogworks/filmlab/internal/raster"
)

// Profile carries the per-body calibration. Every field is optional and
// independently skippable.
type Profile struct {
	ColorMatrix *[9]float64 `yaml:"color_matrix,flow"`
	Saturation  *float64    `yaml:"saturation"`
	Vibrance    *float64    `yaml:"vibrance"`
	BaseTint    *[3]float64 `yaml:"base_tint,flow"`
}

// Vendor groups the profiles for one brand. Default applies when only
// the make could be matched.
type Vendor struct {
	Default *Profile            `yaml:"default"`
	Models  map[string]*Profile `yaml:"models"`
}

// Resolver matches (make, model) pairs against a vendor table.
type Resolver struct {
	vendors map[string]Vendor
}

// NewResolver builds a resolver over an explicit vendor table. Pass
// Builtin() for the compiled-in defaults.
func NewResolver(vendors map[string]Vendor) *Resolver {
	return &Resolver{vendors: vendors}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Resolve finds a profile for the given EXIF make/model strings: exact
// model match within any vendor first, then substring match of the make
// against vendor keys, else nil.
func (rs *Resolver) Resolve(mk, model string) *Profile {
	if rs == nil {
		return nil
	}
	model = normalize(model)
	mk = normalize(mk)

	if model != "" {
		for _, vendor := range rs.vendors {
			if p, ok := vendor.Models[model]; ok {
				return p
			}
		}
	}
	if mk != "" {
		for key, vendor := range rs.vendors {
			if strings.Contains(mk, key) && vendor.Default != nil {
				return vendor.Default
			}
		}
	}
	return nil
}

// Apply runs the calibration: 3x3 matrix, saturation scale (HSV round
// trip), flat vibrance scale, then base tint overlay. Each stage is
// skipped when its field is absent.
func (p *Profile) Apply(src *raster.Raster) *raster.Raster {
	out := src
	if p.ColorMatrix != nil {
		out = out.ApplyMatrix(*p.ColorMatrix)
	}
	if p.Saturation != nil {
		scale := *p.Saturation
		out = out.MapPixel(func(rr, gg, bb float64) (float64, float64, float64) {
			c := colorful.Color{R: rr / 255.0, G: gg / 255.0, B: bb / 255.0}
			h, s, v := c.Hsv()
			s *= scale
			if s > 1 {
				s = 1
			}
			nc := colorful.Hsv(h, s, v)
			return nc.R * 255.0, nc.G * 255.0, nc.B * 255.0
		})
	}
	if p.Vibrance != nil {
		out = out.MulScalar(1.0 + *p.Vibrance)
	}
	if p.BaseTint != nil {
		tint := *p.BaseTint
		const opacity = 0.08
		out = out.MapPixel(func(rr, gg, bb float64) (float64, float64, float64) {
			return rr*(1-opacity) + tint[0]*opacity,
				gg*(1-opacity) + tint[1]*opacity,
				bb*(1-opacity) + tint[2]*opacity
		})
	}
	return out.ClampCast()
}

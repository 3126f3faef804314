package effects

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/analogworks/filmlab/internal/raster"
)

// Skin band in HSV: hue 25.5-63.75 degrees, saturation 51-153 of 255.
const (
	skinHueMin = 25.5
	skinHueMax = 63.75
	skinSatMin = 51.0 / 255.0
	skinSatMax = 153.0 / 255.0
)

// applySkinProtect pre-dampens saturation inside the skin-tone band so
// later color effects move those pixels less. It does not bypass later
// effects; it only softens this stage's starting point.
func applySkinProtect(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	factor := 1.0 - p.Intensity*0.7
	out := src.MapPixel(func(rr, gg, bb float64) (float64, float64, float64) {
		c := colorful.Color{R: rr / 255.0, G: gg / 255.0, B: bb / 255.0}
		h, s, v := c.Hsv()
		if h < skinHueMin || h > skinHueMax || s < skinSatMin || s > skinSatMax {
			return rr, gg, bb
		}
		nc := colorful.Hsv(h, s*factor, v)
		return nc.R * 255.0, nc.G * 255.0, nc.B * 255.0
	})
	return out.ClampCast()
}

// applyBaseTint washes the frame toward the chain's tint color with a
// low fixed opacity scaled by intensity.
func applyBaseTint(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	a := 0.12 * clamp01(p.Intensity)
	tint := p.Tint
	out := src.MapPixel(func(rr, gg, bb float64) (float64, float64, float64) {
		return rr*(1-a) + tint[0]*a,
			gg*(1-a) + tint[1]*a,
			bb*(1-a) + tint[2]*a
	})
	return out.ClampCast()
}

// applyColorTemp shifts the red/blue balance toward the chain's Kelvin
// temperature relative to daylight neutral (6500K).
func applyColorTemp(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 || p.Temp <= 0 {
		return src.Clone()
	}
	warmth := (6500.0 - p.Temp) / 6500.0 * p.Intensity
	out := src.MapPixel(func(rr, gg, bb float64) (float64, float64, float64) {
		return rr * (1.0 + 0.22*warmth), gg, bb * (1.0 - 0.22*warmth)
	})
	return out.ClampCast()
}

// applyTealOrange grades shadows toward teal and highlights toward
// orange, the conventional cinematic split tone.
func applyTealOrange(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	var (
		teal   = [3]float64{18, 128, 128}
		orange = [3]float64{255, 144, 36}
	)
	blend := 0.25 * clamp01(p.Intensity)
	out := src.MapPixel(func(rr, gg, bb float64) (float64, float64, float64) {
		lum := (0.299*rr + 0.587*gg + 0.114*bb) / 255.0
		w := lum * lum * (3.0 - 2.0*lum) // smoothstep
		tr := teal[0]*(1-w) + orange[0]*w
		tg := teal[1]*(1-w) + orange[1]*w
		tb := teal[2]*(1-w) + orange[2]*w
		return rr*(1-blend) + tr*blend,
			gg*(1-blend) + tg*blend,
			bb*(1-blend) + tb*blend
	})
	return out.ClampCast()
}

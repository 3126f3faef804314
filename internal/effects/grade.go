package effects

import (
	"github.com/analogworks/filmlab/internal/raster"
	"github.com/analogworks/filmlab/internal/stock"
)

func applyFilmCurve(src *raster.Raster, p Params) *raster.Raster {
	return stock.ApplyFilmCurve(src, p.Stock, p.Intensity)
}

// applyHighlightRoll compresses values above the knee with a soft
// rational rolloff, approximating film's refusal to blow highlights.
func applyHighlightRoll(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	const knee = 0.72
	out := src.Map(func(v float64) float64 {
		x := v / 255.0
		if x <= knee {
			return v
		}
		over := (x - knee) / (1.0 - knee)
		rolled := knee + (1.0-knee)*over/(1.0+p.Intensity*over)
		return rolled * 255.0
	})
	return out.ClampCast()
}

// applyShadowLift raises the floor of the tone range, stronger in the
// darkest values and fading quadratically toward the mids.
func applyShadowLift(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	lift := 0.14 * p.Intensity
	out := src.Map(func(v float64) float64 {
		x := v / 255.0
		x += lift * (1.0 - x) * (1.0 - x)
		return x * 255.0
	})
	return out.ClampCast()
}

// applyMicroContrast sharpens local structure with a high-pass layer
// (original minus small-radius blur) added back on.
func applyMicroContrast(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	low := src.Blur(2.0)
	high := src.Add(low.MulScalar(-1))
	return src.Add(high.MulScalar(0.6 * p.Intensity)).ClampCast()
}

// applyColorSeparate pushes the channels through the stock's 3x3 color
// matrix, blended by intensity. For mono stocks the matrix collapses
// the channels to luminance, which is the entire point.
func applyColorSeparate(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	mixed := src.ApplyMatrix(p.Stock.Matrix)
	return raster.Lerp(src, mixed, clamp01(p.Intensity)).ClampCast()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

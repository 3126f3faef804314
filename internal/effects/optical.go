package effects

import (
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/analogworks/filmlab/internal/raster"
)

// applyHalation scatters light around overexposed regions. The three
// blur radii stand in for scattering at different emulsion depths; a
// single radius reads as a flat glow. The result is purely additive, so
// no pixel ever gets darker.
func applyHalation(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	mask := src.Luminance().Threshold(180)

	glow := src.Blur(20).MulScalar(0.3)
	glow = glow.Add(src.Blur(40).MulScalar(0.2))
	glow = glow.Add(src.Blur(80).MulScalar(0.1))

	return src.Add(glow.Mul(mask).MulScalar(p.Intensity)).ClampCast()
}

// applyColorBleed blurs each channel at its own radius, blue deepest:
// the bottom emulsion layer records the least sharp image.
func applyColorBleed(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	rp, gp, bp := src.Bandsplit()
	rp = rp.Blur(0.8 * p.Intensity)
	gp = gp.Blur(0.6 * p.Intensity)
	bp = bp.Blur(1.0 * p.Intensity)
	bled := raster.Bandjoin(rp, gp, bp)
	return raster.Lerp(src, bled, clamp01(p.Intensity)).ClampCast()
}

// applyBloom lifts a thresholded copy of the highlights, blurs it wide,
// and screens it back over the frame.
func applyBloom(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	const thresh = 180.0
	bright := src.Blur(1.0).Map(func(v float64) float64 {
		if v < thresh {
			return 0
		}
		return (v - thresh) * 255.0 / (255.0 - thresh)
	})
	radius := float64(minInt(src.Width(), src.Height())) * 0.015
	layer := bright.Blur(radius).MulScalar(clamp01(p.Intensity))

	return raster.Screen(src, layer).ClampCast()
}

// applyVintageLens darkens toward the frame corners with a drawn radial
// mask and softens the whole frame slightly, approximating an uncoated
// vintage lens.
func applyVintageLens(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	w, h := src.Width(), src.Height()
	if w == 0 || h == 0 {
		return src.Clone()
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(color.Black)
	dc.Clear()
	dc.SetColor(color.White)
	dc.DrawEllipse(float64(w)/2, float64(h)/2, float64(w)*0.62, float64(h)*0.62)
	dc.Fill()
	blurRadius := float64(minInt(w, h)) * 0.08
	mask8 := imaging.Blur(dc.Image(), blurRadius)

	// Falloff factor per pixel: 1 at center, 1 - 0.45*intensity at the
	// extreme corners.
	mask := raster.FromImage(mask8).Luminance().MulScalar(1.0 / 255.0)
	falloff := mask.MulScalar(0.45 * p.Intensity).AddScalar(1.0 - 0.45*p.Intensity)

	vignetted := src.Mul(falloff)
	softened := raster.Lerp(vignetted, vignetted.Blur(1.2), 0.3*clamp01(p.Intensity))
	return softened.ClampCast()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package effects

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"

	"github.com/analogworks/filmlab/internal/raster"
)

func rng(p Params) *rand.Rand {
	if p.Rng != nil {
		return p.Rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// applyGrain adds Gaussian film grain. Noise amplitude scales with the
// stock's grain rating and the square root of ISO; a per-pixel strength
// mask makes grain more visible in the shadows, bottoming out at 0.3x
// so highlights never go fully clean. Intensity 0 is pixel-identical to
// the input.
func applyGrain(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	iso := p.ISO
	if iso <= 0 {
		iso = 100
	}
	sigma := p.Stock.Grain * math.Sqrt(iso/100.0) * p.Intensity
	r := rng(p)

	w, h := src.Width(), src.Height()
	noise := raster.New(w, h, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			noise.Set(x, y, 0, r.NormFloat64()*sigma)
		}
	}

	strength := src.Luminance().Map(func(lum float64) float64 {
		return math.Max(1.2-lum/255.0, 0.3) * p.Intensity
	})

	return src.Add(noise.Mul(strength).MulScalar(0.25)).ClampCast()
}

// applyChemicalVariance adds the slow density unevenness of an
// imperfect development bath: random values at a tenth of the
// resolution, upscaled, then blurred wide so only large-scale variation
// survives. Added directly, scaled by intensity.
func applyChemicalVariance(src *raster.Raster, p Params) *raster.Raster {
	if p.Intensity <= 0 {
		return src.Clone()
	}
	w, h := src.Width(), src.Height()
	if w == 0 || h == 0 {
		return src.Clone()
	}
	gw, gh := maxInt(w/10, 1), maxInt(h/10, 1)

	r := rng(p)
	grid := image.NewNRGBA(image.Rect(0, 0, gw, gh))
	for y := 0; y < gh; y++ {
		for x := 0; x < gw; x++ {
			grid.SetNRGBA(x, y, color.NRGBA{
				R: uint8(r.Intn(256)),
				G: uint8(r.Intn(256)),
				B: uint8(r.Intn(256)),
				A: 255,
			})
		}
	}
	up := imaging.Resize(grid, w, h, imaging.Linear)

	variance := raster.FromImage(up).AddScalar(-127.5).Blur(20)
	return src.Add(variance.MulScalar(p.Intensity)).ClampCast()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

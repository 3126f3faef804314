package effects

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/analogworks/filmlab/internal/raster"
	"github.com/analogworks/filmlab/internal/stock"
)

func mustStock(t *testing.T, name string) stock.Profile {
	t.Helper()
	p, err := stock.Lookup(name)
	if err != nil {
		t.Fatalf("stock %s: %v", name, err)
	}
	return p
}

func gradientRaster(w, h int) *raster.Raster {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := uint8((x * 255) / max(w, 1)) //nolint:gosec // test image generation
			g := uint8((y * 255) / max(h, 1)) //nolint:gosec // test image generation
			img.Set(x, y, color.NRGBA{r, g, 128, 255})
		}
	}
	return raster.FromImage(img)
}

func flatRaster(w, h int, c color.NRGBA) *raster.Raster {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return raster.FromImage(img)
}

func pixelsEqual(a, b *raster.Raster) bool {
	if a.Width() != b.Width() || a.Height() != b.Height() || a.Channels() != b.Channels() {
		return false
	}
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			for c := 0; c < a.Channels(); c++ {
				if a.At(x, y, c) != b.At(x, y, c) {
					return false
				}
			}
		}
	}
	return true
}

func TestParseKind(t *testing.T) {
	for _, name := range Names() {
		k, ok := ParseKind(name)
		if !ok {
			t.Errorf("ParseKind(%q) not found", name)
		}
		if k.String() != name {
			t.Errorf("ParseKind(%q).String() = %q", name, k.String())
		}
	}
	if _, ok := ParseKind("develop_in_coffee"); ok {
		t.Error("ParseKind should reject unknown identifiers")
	}
}

func TestAllEffectsStayInByteDomain(t *testing.T) {
	src := gradientRaster(24, 24)
	p := Params{
		Intensity: 1.0,
		ISO:       800,
		Temp:      4000,
		Stock:     mustStock(t, "kodak_portra"),
		Tint:      [3]float64{255, 240, 220},
		Rng:       rand.New(rand.NewSource(3)),
	}
	for _, name := range Names() {
		k, _ := ParseKind(name)
		out := Apply(k, src, p)
		if out.Domain() != raster.DomainByte {
			t.Errorf("%s: output not clamp-cast", name)
			continue
		}
		for y := 0; y < out.Height(); y++ {
			for x := 0; x < out.Width(); x++ {
				for c := 0; c < out.Channels(); c++ {
					v := out.At(x, y, c)
					if v < 0 || v > 255 {
						t.Fatalf("%s: pixel (%d,%d,%d) = %f out of range", name, x, y, c, v)
					}
				}
			}
		}
	}
}

func TestAllEffectsNoopAtZeroIntensity(t *testing.T) {
	src := gradientRaster(16, 16)
	p := Params{
		Intensity: 0,
		Stock:     mustStock(t, "kodak_gold"),
		Rng:       rand.New(rand.NewSource(1)),
	}
	for _, name := range Names() {
		k, _ := ParseKind(name)
		if !pixelsEqual(src, Apply(k, src, p)) {
			t.Errorf("%s: intensity 0 is not a pixel-identical no-op", name)
		}
	}
}

func TestGrainISOMonotone(t *testing.T) {
	src := flatRaster(40, 40, color.NRGBA{128, 128, 128, 255})
	prof := mustStock(t, "kodak_portra")

	stddev := func(iso float64) float64 {
		p := Params{Intensity: 1.0, ISO: iso, Stock: prof, Rng: rand.New(rand.NewSource(7))}
		out := applyGrain(src, p)
		var sum, sumSq float64
		n := 0
		for y := 0; y < 40; y++ {
			for x := 0; x < 40; x++ {
				d := out.At(x, y, 0) - src.At(x, y, 0)
				sum += d
				sumSq += d * d
				n++
			}
		}
		mean := sum / float64(n)
		return math.Sqrt(sumSq/float64(n) - mean*mean)
	}

	s100, s400, s1600 := stddev(100), stddev(400), stddev(1600)
	if !(s100 < s400 && s400 < s1600) {
		t.Errorf("grain stddev not monotone in ISO: %f, %f, %f", s100, s400, s1600)
	}
}

func TestGrainDeterministicWithSeed(t *testing.T) {
	src := gradientRaster(20, 20)
	prof := mustStock(t, "tri_x")
	out1 := applyGrain(src, Params{Intensity: 0.8, ISO: 400, Stock: prof, Rng: rand.New(rand.NewSource(11))})
	out2 := applyGrain(src, Params{Intensity: 0.8, ISO: 400, Stock: prof, Rng: rand.New(rand.NewSource(11))})
	if !pixelsEqual(out1, out2) {
		t.Error("grain with a fixed seed should be byte-identical")
	}
}

func TestHalationNeverDarkens(t *testing.T) {
	// A hot spot over a dark field: the classic halation case.
	src := flatRaster(50, 50, color.NRGBA{20, 20, 20, 255})
	img := src.Image()
	for y := 20; y < 30; y++ {
		for x := 20; x < 30; x++ {
			img.Set(x, y, color.NRGBA{255, 250, 240, 255})
		}
	}
	src = raster.FromImage(img)

	out := applyHalation(src, Params{Intensity: 1.0})
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			for c := 0; c < 3; c++ {
				if out.At(x, y, c) < src.At(x, y, c) {
					t.Fatalf("halation darkened pixel (%d,%d,%d): %f -> %f",
						x, y, c, src.At(x, y, c), out.At(x, y, c))
				}
			}
		}
	}
}

func TestColorBleedPreservesMass(t *testing.T) {
	src := gradientRaster(40, 40)
	out := applyColorBleed(src, Params{Intensity: 1.0})

	for c := 0; c < 3; c++ {
		var before, after float64
		for y := 0; y < 40; y++ {
			for x := 0; x < 40; x++ {
				before += src.At(x, y, c)
				after += out.At(x, y, c)
			}
		}
		if diff := math.Abs(after-before) / before; diff > 0.02 {
			t.Errorf("channel %d: color bleed changed mass by %.2f%%", c, diff*100)
		}
	}
}

func TestSkinProtectDesaturatesSkinBandOnly(t *testing.T) {
	skin := color.NRGBA{210, 160, 110, 255}
	sky := color.NRGBA{50, 90, 200, 255}

	skinOut := applySkinProtect(flatRaster(4, 4, skin), Params{Intensity: 1.0})
	r, g, b := skinOut.At(0, 0, 0), skinOut.At(0, 0, 1), skinOut.At(0, 0, 2)
	spreadBefore := 210.0 - 110.0
	spreadAfter := math.Max(r, math.Max(g, b)) - math.Min(r, math.Min(g, b))
	if spreadAfter >= spreadBefore {
		t.Errorf("skin pixel not desaturated: spread %f -> %f", spreadBefore, spreadAfter)
	}

	skyOut := applySkinProtect(flatRaster(4, 4, sky), Params{Intensity: 1.0})
	if skyOut.At(0, 0, 0) != 50 || skyOut.At(0, 0, 1) != 90 || skyOut.At(0, 0, 2) != 200 {
		t.Error("pixel outside the skin band was modified")
	}
}

func TestSkinProtectLeavesGrayAlone(t *testing.T) {
	src := flatRaster(6, 6, color.NRGBA{128, 128, 128, 255})
	out := applySkinProtect(src, Params{Intensity: 1.0})
	if !pixelsEqual(src, out) {
		t.Error("zero-saturation pixels fall outside the skin band and must not move")
	}
}

func TestColorTempWarmsAndCools(t *testing.T) {
	src := flatRaster(4, 4, color.NRGBA{128, 128, 128, 255})

	warm := applyColorTemp(src, Params{Intensity: 1.0, Temp: 3200})
	if !(warm.At(0, 0, 0) > 128 && warm.At(0, 0, 2) < 128) {
		t.Errorf("3200K should push red up, blue down: got (%f, %f)", warm.At(0, 0, 0), warm.At(0, 0, 2))
	}

	cool := applyColorTemp(src, Params{Intensity: 1.0, Temp: 9000})
	if !(cool.At(0, 0, 0) < 128 && cool.At(0, 0, 2) > 128) {
		t.Errorf("9000K should push blue up, red down: got (%f, %f)", cool.At(0, 0, 0), cool.At(0, 0, 2))
	}
}

func TestHighlightRollCompressesOnlyHighlights(t *testing.T) {
	src := gradientRaster(16, 16)
	out := applyHighlightRoll(src, Params{Intensity: 1.0})
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			for c := 0; c < 3; c++ {
				in, got := src.At(x, y, c), out.At(x, y, c)
				if got > in {
					t.Fatalf("highlight roll raised a value: %f -> %f", in, got)
				}
				if in <= 0.72*255-1 && got != in {
					t.Fatalf("value below the knee moved: %f -> %f", in, got)
				}
			}
		}
	}
}

func TestChemicalVarianceIsLowFrequency(t *testing.T) {
	src := flatRaster(60, 60, color.NRGBA{128, 128, 128, 255})
	out := applyChemicalVariance(src, Params{Intensity: 1.0, Rng: rand.New(rand.NewSource(5))})

	// Neighboring pixels of the variance field must be close: the
	// effect is density drift, not pixel grain.
	var maxStep float64
	for y := 0; y < 60; y++ {
		for x := 1; x < 60; x++ {
			step := math.Abs(out.At(x, y, 0) - out.At(x-1, y, 0))
			if step > maxStep {
				maxStep = step
			}
		}
	}
	if maxStep > 3 {
		t.Errorf("chemical variance has pixel-level jumps (max step %f)", maxStep)
	}
}

// Package raster holds the in-memory image buffer the effect pipeline
// operates on. Values are float64 in a nominal [0,255] range; mid-chain
// math may leave that range, and ClampCast forces a buffer back into the
// 8-bit domain before it is handed to a writer or a downstream effect
// that assumes integer data.
package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Domain records which numeric range a buffer is in.
type Domain int

const (
	// DomainByte means every value is an integer in [0,255].
	DomainByte Domain = iota
	// DomainFloat means values are unclamped floating intermediates.
	DomainFloat
)

// Raster is an immutable pixel buffer. Every operation returns a fresh
// Raster; nothing mutates its receiver once built.
type Raster struct {
	w, h, ch int
	domain   Domain
	pix      []float64
}

// LoadError wraps a failure to decode an input file. No partial Raster
// accompanies it.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// DimensionError reports an operation over rasters of unequal geometry.
// It is a caller contract violation and is raised via panic.
type DimensionError struct {
	Op           string
	W1, H1, C1   int
	W2, H2, C2   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: dimension mismatch %dx%dx%d vs %dx%dx%d",
		e.Op, e.W1, e.H1, e.C1, e.W2, e.H2, e.C2)
}

// New returns a zero-filled raster in the float domain.
func New(w, h, ch int) *Raster {
	return &Raster{w: w, h: h, ch: ch, domain: DomainFloat, pix: make([]float64, w*h*ch)}
}

// Load decodes an image file into a byte-domain RGB raster.
func Load(path string) (*Raster, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return FromImage(img), nil
}

// FromImage converts any image.Image into a byte-domain RGB raster.
func FromImage(img image.Image) *Raster {
	src := imaging.Clone(img)
	b := src.Bounds()
	r := &Raster{w: b.Dx(), h: b.Dy(), ch: 3, domain: DomainByte}
	r.pix = make([]float64, r.w*r.h*3)
	i := 0
	for y := 0; y < r.h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+r.w*4]
		for x := 0; x < r.w; x++ {
			r.pix[i] = float64(row[x*4])
			r.pix[i+1] = float64(row[x*4+1])
			r.pix[i+2] = float64(row[x*4+2])
			i += 3
		}
	}
	return r
}

// Image renders the raster as an 8-bit NRGBA image, clamping on the way
// out. Single-channel rasters render as gray.
func (r *Raster) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.w, r.h))
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			o := y*img.Stride + x*4
			if r.ch == 1 {
				v := clamp255(r.pix[y*r.w+x])
				img.Pix[o], img.Pix[o+1], img.Pix[o+2] = v, v, v
			} else {
				i := (y*r.w + x) * r.ch
				img.Pix[o] = clamp255(r.pix[i])
				img.Pix[o+1] = clamp255(r.pix[i+1])
				img.Pix[o+2] = clamp255(r.pix[i+2])
			}
			img.Pix[o+3] = 255
		}
	}
	return img
}

func clamp255(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

func (r *Raster) Width() int     { return r.w }
func (r *Raster) Height() int    { return r.h }
func (r *Raster) Channels() int  { return r.ch }
func (r *Raster) Domain() Domain { return r.domain }

// At returns the value of channel c at (x, y).
func (r *Raster) At(x, y, c int) float64 {
	return r.pix[(y*r.w+x)*r.ch+c]
}

// Set writes a value into a raster under construction. Effects use it to
// fill fresh buffers; they never call it on an input.
func (r *Raster) Set(x, y, c int, v float64) {
	r.pix[(y*r.w+x)*r.ch+c] = v
}

// Clone returns an independent copy.
func (r *Raster) Clone() *Raster {
	out := &Raster{w: r.w, h: r.h, ch: r.ch, domain: r.domain, pix: make([]float64, len(r.pix))}
	copy(out.pix, r.pix)
	return out
}

// Map applies f to every value.
func (r *Raster) Map(f func(float64) float64) *Raster {
	out := &Raster{w: r.w, h: r.h, ch: r.ch, domain: DomainFloat, pix: make([]float64, len(r.pix))}
	for i, v := range r.pix {
		out.pix[i] = f(v)
	}
	return out
}

// MapPixel applies f to every RGB triple. The raster must have 3 channels.
func (r *Raster) MapPixel(f func(rr, gg, bb float64) (float64, float64, float64)) *Raster {
	if r.ch != 3 {
		panic(&DimensionError{Op: "MapPixel", W1: r.w, H1: r.h, C1: r.ch, W2: r.w, H2: r.h, C2: 3})
	}
	out := &Raster{w: r.w, h: r.h, ch: 3, domain: DomainFloat, pix: make([]float64, len(r.pix))}
	for i := 0; i < len(r.pix); i += 3 {
		out.pix[i], out.pix[i+1], out.pix[i+2] = f(r.pix[i], r.pix[i+1], r.pix[i+2])
	}
	return out
}

func (r *Raster) checkPlane(op string, o *Raster) {
	if r.w != o.w || r.h != o.h {
		panic(&DimensionError{Op: op, W1: r.w, H1: r.h, C1: r.ch, W2: o.w, H2: o.h, C2: o.ch})
	}
}

// Add returns r + o elementwise. A single-channel o is broadcast across
// all channels of r.
func (r *Raster) Add(o *Raster) *Raster {
	r.checkPlane("Add", o)
	return r.combine("Add", o, func(a, b float64) float64 { return a + b })
}

// Mul returns r * o elementwise, broadcasting a single-channel o.
func (r *Raster) Mul(o *Raster) *Raster {
	r.checkPlane("Mul", o)
	return r.combine("Mul", o, func(a, b float64) float64 { return a * b })
}

func (r *Raster) combine(op string, o *Raster, f func(a, b float64) float64) *Raster {
	out := &Raster{w: r.w, h: r.h, ch: r.ch, domain: DomainFloat, pix: make([]float64, len(r.pix))}
	switch {
	case o.ch == r.ch:
		for i, v := range r.pix {
			out.pix[i] = f(v, o.pix[i])
		}
	case o.ch == 1:
		for i, v := range r.pix {
			out.pix[i] = f(v, o.pix[i/r.ch])
		}
	default:
		panic(&DimensionError{Op: op, W1: r.w, H1: r.h, C1: r.ch, W2: o.w, H2: o.h, C2: o.ch})
	}
	return out
}

// AddScalar returns r + s elementwise.
func (r *Raster) AddScalar(s float64) *Raster {
	return r.Map(func(v float64) float64 { return v + s })
}

// MulScalar returns r * s elementwise.
func (r *Raster) MulScalar(s float64) *Raster {
	return r.Map(func(v float64) float64 { return v * s })
}

// Pow raises every value (normalized to [0,1]) to exp, staying in the
// 0-255 scale. Negative intermediates clamp to zero first since they are
// meaningless as exponent bases.
func (r *Raster) Pow(exp float64) *Raster {
	return r.Map(func(v float64) float64 {
		return math.Pow(math.Max(v, 0)/255.0, exp) * 255.0
	})
}

// Luminance reduces an RGB raster to a single Rec.601 luminance plane.
func (r *Raster) Luminance() *Raster {
	if r.ch == 1 {
		return r.Clone()
	}
	out := &Raster{w: r.w, h: r.h, ch: 1, domain: DomainFloat, pix: make([]float64, r.w*r.h)}
	for i := 0; i < r.w*r.h; i++ {
		j := i * r.ch
		out.pix[i] = 0.299*r.pix[j] + 0.587*r.pix[j+1] + 0.114*r.pix[j+2]
	}
	return out
}

// Threshold returns a boolean-as-float mask with the same geometry:
// 1 where the value exceeds v, 0 elsewhere.
func (r *Raster) Threshold(v float64) *Raster {
	return r.Map(func(p float64) float64 {
		if p > v {
			return 1
		}
		return 0
	})
}

// ClampCast forces the raster into the byte domain: values clamped to
// [0,255] and rounded to integers. Idempotent.
func (r *Raster) ClampCast() *Raster {
	out := &Raster{w: r.w, h: r.h, ch: r.ch, domain: DomainByte, pix: make([]float64, len(r.pix))}
	for i, v := range r.pix {
		out.pix[i] = math.Max(0, math.Min(255, math.Round(v)))
	}
	return out
}

// Bandsplit returns the three channel planes of an RGB raster.
func (r *Raster) Bandsplit() (*Raster, *Raster, *Raster) {
	if r.ch != 3 {
		panic(&DimensionError{Op: "Bandsplit", W1: r.w, H1: r.h, C1: r.ch, W2: r.w, H2: r.h, C2: 3})
	}
	planes := [3]*Raster{}
	for c := 0; c < 3; c++ {
		p := &Raster{w: r.w, h: r.h, ch: 1, domain: r.domain, pix: make([]float64, r.w*r.h)}
		for i := 0; i < r.w*r.h; i++ {
			p.pix[i] = r.pix[i*3+c]
		}
		planes[c] = p
	}
	return planes[0], planes[1], planes[2]
}

// Bandjoin interleaves three single-channel planes into an RGB raster.
// Planes of unequal size are a caller contract violation.
func Bandjoin(rp, gp, bp *Raster) *Raster {
	if rp.w != gp.w || rp.h != gp.h || rp.w != bp.w || rp.h != bp.h ||
		rp.ch != 1 || gp.ch != 1 || bp.ch != 1 {
		panic(&DimensionError{Op: "Bandjoin", W1: rp.w, H1: rp.h, C1: rp.ch, W2: gp.w, H2: gp.h, C2: gp.ch})
	}
	out := &Raster{w: rp.w, h: rp.h, ch: 3, domain: DomainFloat, pix: make([]float64, rp.w*rp.h*3)}
	for i := 0; i < rp.w*rp.h; i++ {
		out.pix[i*3] = rp.pix[i]
		out.pix[i*3+1] = gp.pix[i]
		out.pix[i*3+2] = bp.pix[i]
	}
	return out
}

// Screen composites b over a with the screen blend
// (255 - (255-a)*(255-b)/255), the additive-feeling blend used for
// glow layers.
func Screen(a, b *Raster) *Raster {
	a.checkPlane("Screen", b)
	return a.combine("Screen", b, func(x, y float64) float64 {
		return 255.0 - (255.0-x)*(255.0-y)/255.0
	})
}

// Lerp blends a toward b by t: t=0 returns a, t=1 returns b.
func Lerp(a, b *Raster, t float64) *Raster {
	a.checkPlane("Lerp", b)
	return a.combine("Lerp", b, func(x, y float64) float64 { return x*(1-t) + y*t })
}

// ApplyMatrix recombines channels through a row-major 3x3 linear map.
func (r *Raster) ApplyMatrix(m [9]float64) *Raster {
	return r.MapPixel(func(rr, gg, bb float64) (float64, float64, float64) {
		return m[0]*rr + m[1]*gg + m[2]*bb,
			m[3]*rr + m[4]*gg + m[5]*bb,
			m[6]*rr + m[7]*gg + m[8]*bb
	})
}

package raster

import "math"

// Blur returns a separable Gaussian blur of the raster. sigma is in
// pixels; sigma <= 0 returns an unblurred copy. Edges use clamp
// extension so the kernel never loses mass at the border. Large sigmas
// are legal but cost grows linearly with them.
func (r *Raster) Blur(sigma float64) *Raster {
	if sigma <= 0 || r.w == 0 || r.h == 0 {
		return r.Clone()
	}
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	// Horizontal pass into a scratch buffer, vertical pass out.
	tmp := &Raster{w: r.w, h: r.h, ch: r.ch, domain: DomainFloat, pix: make([]float64, len(r.pix))}
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			for c := 0; c < r.ch; c++ {
				sum := 0.0
				for k := -radius; k <= radius; k++ {
					sx := x + k
					if sx < 0 {
						sx = 0
					} else if sx >= r.w {
						sx = r.w - 1
					}
					sum += kernel[k+radius] * r.pix[(y*r.w+sx)*r.ch+c]
				}
				tmp.pix[(y*r.w+x)*r.ch+c] = sum
			}
		}
	}

	out := &Raster{w: r.w, h: r.h, ch: r.ch, domain: DomainFloat, pix: make([]float64, len(r.pix))}
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			for c := 0; c < r.ch; c++ {
				sum := 0.0
				for k := -radius; k <= radius; k++ {
					sy := y + k
					if sy < 0 {
						sy = 0
					} else if sy >= r.h {
						sy = r.h - 1
					}
					sum += kernel[k+radius] * tmp.pix[(sy*r.w+x)*r.ch+c]
				}
				out.pix[(y*r.w+x)*r.ch+c] = sum
			}
		}
	}
	return out
}

func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(sigma * 3.0))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// Package simdops collects the SIMD kernels used by the analysis and
// filtering packages behind one small table of function values.
//
// Keeping the table in one place lets tests swap in scalar reference
// implementations and makes the set of accelerated operations explicit.
package simdops

import (
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// Ops holds the kernels used in hot paths.
type Ops struct {
	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []float64) float64

	// ConvolveValid computes valid convolution of signal with kernel.
	ConvolveValid func(dst, signal, kernel []float64)

	// Sum returns the sum of all elements.
	Sum func(a []float64) float64

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)

	// MulComplex multiplies element-wise: dst[i] = a[i] * b[i]
	MulComplex func(dst, a, b []complex128)
}

var ops64 = Ops{
	DotProductUnsafe: f64.DotProductUnsafe,
	ConvolveValid:    f64.ConvolveValid,
	Sum:              f64.Sum,
	Scale:            f64.Scale,
	MulComplex:       c128.Mul,
}

// Float64Ops returns the shared operations.
func Float64Ops() *Ops {
	return &ops64
}

// Lag returns the lag-l product sum of buf with itself:
// sum of buf[i]*buf[i+l] over every i with i+l < len(buf).
// It returns 0 when l is negative or not shorter than buf.
func (o *Ops) Lag(buf []float64, l int) float64 {
	if l < 0 || l >= len(buf) {
		return 0
	}
	n := len(buf) - l
	return o.DotProductUnsafe(buf[:n], buf[l:l+n])
}

// Info describes the SIMD instruction set selected at startup.
func Info() string {
	return cpu.Info()
}

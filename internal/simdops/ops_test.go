package simdops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const lagTolerance = 1e-9

func naiveLag(buf []float64, l int) float64 {
	var sum float64
	for i := 0; i+l < len(buf); i++ {
		sum += buf[i] * buf[i+l]
	}
	return sum
}

func TestLag_MatchesScalar(t *testing.T) {
	ops := Float64Ops()
	buf := make([]float64, 257)
	for i := range buf {
		buf[i] = float64((i*37)%19) - 9.0
	}

	for _, l := range []int{0, 1, 2, 7, 64, 200, 256} {
		assert.InDelta(t, naiveLag(buf, l), ops.Lag(buf, l), lagTolerance, "lag %d", l)
	}
}

func TestLag_OutOfRange(t *testing.T) {
	ops := Float64Ops()
	buf := []float64{1, 2, 3}

	assert.Zero(t, ops.Lag(buf, 3))
	assert.Zero(t, ops.Lag(buf, 10))
	assert.Zero(t, ops.Lag(buf, -1))
	assert.Zero(t, ops.Lag(nil, 0))
}

func TestOps_MatchScalar(t *testing.T) {
	ops := Float64Ops()
	a := make([]float64, 67)
	for i := range a {
		a[i] = float64((i*13)%11) - 5.0
	}

	var sum float64
	for _, v := range a {
		sum += v
	}
	assert.InDelta(t, sum, ops.Sum(a), lagTolerance)

	scaled := make([]float64, len(a))
	ops.Scale(scaled, a, -0.5)
	for i, v := range a {
		assert.InDelta(t, -0.5*v, scaled[i], lagTolerance, "index %d", i)
	}

	kernel := []float64{0.25, 0.5, 0.25}
	out := make([]float64, len(a)-len(kernel)+1)
	ops.ConvolveValid(out, a, kernel)
	for n := range out {
		want := a[n]*kernel[0] + a[n+1]*kernel[1] + a[n+2]*kernel[2]
		assert.InDelta(t, want, out[n], lagTolerance, "output %d", n)
	}

	x := []complex128{1 + 2i, -3 + 0.5i, 0, 2i, 4 - 1i}
	y := []complex128{0.5 - 1i, 2 + 2i, 7 + 1i, -1i, 1}
	prod := make([]complex128, len(x))
	ops.MulComplex(prod, x, y)
	for i := range x {
		assert.InDelta(t, real(x[i]*y[i]), real(prod[i]), lagTolerance, "index %d", i)
		assert.InDelta(t, imag(x[i]*y[i]), imag(prod[i]), lagTolerance, "index %d", i)
	}
}

// BenchmarkLag measures the cost of a single frame-length lag product.
func BenchmarkLag(b *testing.B) {
	ops := Float64Ops()
	buf := make([]float64, 800)
	for i := range buf {
		buf[i] = float64(i%31) * 0.01
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = ops.Lag(buf, 18)
	}
}

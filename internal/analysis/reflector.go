package analysis

import (
	"errors"
	"fmt"
	"math"
)

const (
	// unvoicedThreshold is the first reflection coefficient above which a
	// frame is treated as noise-like. A large positive k1 means the
	// spectrum tilts upward, which is typical of fricatives.
	unvoicedThreshold = 0.3

	// degenerateFloor is the prediction-error energy, relative to the frame
	// energy, below which a recursion step is considered singular.
	degenerateFloor = 1e-12
)

var (
	// ErrDegenerateInput indicates a frame with zero or negligible energy.
	ErrDegenerateInput = errors.New("degenerate input frame")

	// ErrInvalidOrder indicates a prediction order the frame cannot support.
	ErrInvalidOrder = errors.New("invalid prediction order")
)

// Reflection holds the result of analyzing one frame.
type Reflection struct {
	// K holds the reflection coefficients k1..kN.
	K []float64

	// RMS is the root mean square of the prediction residual.
	RMS float64
}

// Order returns the number of reflection coefficients.
func (r *Reflection) Order() int {
	return len(r.K)
}

// IsUnvoiced reports whether the first reflection coefficient exceeds the
// unvoiced threshold. It is a crude heuristic for callers; nothing in the
// analysis path depends on it.
func (r *Reflection) IsUnvoiced() bool {
	return IsUnvoiced(r.K)
}

// IsUnvoiced is the slice form of [Reflection.IsUnvoiced].
func IsUnvoiced(k []float64) bool {
	return len(k) > 0 && k[0] > unvoicedThreshold
}

// Analyze computes order reflection coefficients and the residual rms of
// frame.
//
// A silent frame still yields a usable result (all coefficients 0, RMS 0)
// together with an error wrapping ErrDegenerateInput, so callers may either
// skip the frame or synthesize silence from it.
func Analyze(frame []float64, order int) (*Reflection, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: order %d must be at least 1", ErrInvalidOrder, order)
	}
	if len(frame) <= order {
		return nil, fmt.Errorf("%w: frame of %d samples cannot support order %d",
			ErrInvalidOrder, len(frame), order)
	}

	r := Correlations(frame, order)
	k, residual := Reflect(r)

	result := &Reflection{
		K:   k,
		RMS: math.Sqrt(math.Max(residual, 0) / float64(len(frame))),
	}

	if !(r[0] > 0) {
		return result, fmt.Errorf("%w: frame energy is zero", ErrDegenerateInput)
	}
	return result, nil
}

// Reflect runs the order-recursive reflection recursion over the
// autocorrelation vector r (length order+1) and returns the reflection
// coefficients and the final prediction-error energy.
//
// The recursion carries two arrays: d holds the running error terms and b
// the terms being built for the next step. Every step reads only the
// previous step's d, taken as a snapshot before any write. A step whose
// error term is negligible gets a zero coefficient and leaves the energy
// unchanged, so silent or perfectly predictable input never produces NaN.
func Reflect(r []float64) (k []float64, residual float64) {
	order := len(r) - 1
	if order < 1 {
		return nil, 0
	}

	k = make([]float64, order)
	b := make([]float64, order+1)
	d := make([]float64, order+1)
	prev := make([]float64, order+1)

	floor := math.Abs(r[0]) * degenerateFloor

	k[0] = safeRatio(-r[1], r[0], floor)
	d[0] = r[1]
	d[1] = r[0] + k[0]*r[1]

	for i := 1; i < order; i++ {
		copy(prev, d)

		y := r[i+1]
		b[0] = y
		for j := range i {
			b[j+1] = prev[j] + k[j]*y
			y += k[j] * prev[j]
			d[j] = b[j]
		}

		k[i] = safeRatio(-y, prev[i], floor)
		d[i+1] = prev[i] + k[i]*y
		d[i] = b[i]
	}

	return k, d[order]
}

// safeRatio returns num/den, or 0 when |den| does not exceed floor.
func safeRatio(num, den, floor float64) float64 {
	if math.Abs(den) <= floor || den == 0 {
		return 0
	}
	return num / den
}

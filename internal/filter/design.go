package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-lpc-speech/internal/simdops"
)

// Filter design limits.
const (
	minTaps = 3
	maxTaps = 8191

	// sincZero is the offset below which the sinc is evaluated at its limit.
	sincZero = 1e-10
)

// ErrInvalidDesign is returned for filter parameters that cannot be realized.
var ErrInvalidDesign = errors.New("invalid filter design")

// DesignLowpass returns a windowed-sinc lowpass kernel of taps coefficients.
// cutoff is a fraction of the sample rate in (0, 0.5). The kernel is
// symmetric, so the filter has linear phase with a delay of (taps-1)/2
// samples, and it is scaled to unity gain at DC. A nil window selects
// Hamming.
func DesignLowpass(taps int, cutoff float64, w Window) ([]float64, error) {
	if taps < minTaps || taps > maxTaps {
		return nil, fmt.Errorf("%w: %d taps (must be %d..%d)", ErrInvalidDesign, taps, minTaps, maxTaps)
	}
	if taps%2 == 0 {
		return nil, fmt.Errorf("%w: %d taps (must be odd)", ErrInvalidDesign, taps)
	}
	if !(cutoff > 0 && cutoff < 0.5) {
		return nil, fmt.Errorf("%w: cutoff %g (must be in (0, 0.5))", ErrInvalidDesign, cutoff)
	}
	if w == nil {
		w = Hamming
	}

	h := make([]float64, taps)
	center := float64(taps-1) / 2
	for n := range h {
		x := float64(n) - center
		if math.Abs(x) < sincZero {
			h[n] = 2 * cutoff
			continue
		}
		h[n] = math.Sin(2*math.Pi*cutoff*x) / (math.Pi * x)
	}
	h = w(h)

	ops := simdops.Float64Ops()
	if sum := ops.Sum(h); math.Abs(sum) > sincZero {
		ops.Scale(h, h, 1/sum)
	}
	return h, nil
}

// Magnitude evaluates |H| of kernel h at frequency f, given as a fraction
// of the sample rate.
func Magnitude(h []float64, f float64) float64 {
	var re, im float64
	w := 2 * math.Pi * f
	for n, c := range h {
		s, co := math.Sincos(w * float64(n))
		re += c * co
		im -= c * s
	}
	return math.Hypot(re, im)
}

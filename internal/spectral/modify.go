package spectral

import (
	"fmt"
	"math"
)

// DefaultMinSeparation is the default minimum gap between adjacent LSP
// angles, about 50 Hz at a 16 kHz sample rate.
const DefaultMinSeparation = 2 * math.Pi * 50 / 16000

// IsOrdered reports whether lsp is strictly increasing with every angle in
// the open interval (0, pi). Ordered angles reconstruct a minimum-phase
// filter.
func IsOrdered(lsp []float64) bool {
	prev := 0.0
	for _, w := range lsp {
		if !(w > prev) {
			return false
		}
		prev = w
	}
	return prev < math.Pi
}

// EnforceSeparation returns a copy of lsp in which every angle is at least
// minSep above its predecessor, the first angle is at least minSep and the
// last is at most pi - minSep. Angles already satisfying the constraints are
// unchanged.
func EnforceSeparation(lsp []float64, minSep float64) ([]float64, error) {
	m := len(lsp)
	if !(minSep > 0) || float64(m+1)*minSep > math.Pi {
		return nil, fmt.Errorf("%w: minimum separation %g for %d angles",
			ErrInvalidCoefficients, minSep, m)
	}

	out := append([]float64(nil), lsp...)
	if m == 0 {
		return out, nil
	}

	// Push up from the bottom, then pull down from the top.
	lower := 0.0
	for i := range out {
		if out[i] < lower+minSep {
			out[i] = lower + minSep
		}
		lower = out[i]
	}
	upper := math.Pi
	for i := m - 1; i >= 0; i-- {
		if out[i] > upper-minSep {
			out[i] = upper - minSep
		}
		upper = out[i]
	}
	return out, nil
}

// WarpLSP scales every angle by factor, moving formants up (factor > 1) or
// down (factor < 1), and then enforces minSep separation so the warped set
// stays ordered.
func WarpLSP(lsp []float64, factor, minSep float64) ([]float64, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: warp factor %g", ErrInvalidCoefficients, factor)
	}
	warped := make([]float64, len(lsp))
	for i, w := range lsp {
		warped[i] = w * factor
	}
	return EnforceSeparation(warped, minSep)
}

// InterpolateLSP blends two LSP sets element by element:
// a*(1-t) + b*t. Convex combinations of ordered sets stay ordered.
func InterpolateLSP(a, b []float64, t float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: order mismatch %d != %d", ErrInvalidCoefficients, len(a), len(b))
	}
	mt := 1 - t
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i]*mt + b[i]*t
	}
	return out, nil
}

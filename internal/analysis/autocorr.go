// Package analysis extracts linear-prediction parameters from a frame of
// samples: lag autocorrelations, reflection (PARCOR) coefficients and the
// residual gain.
package analysis

import (
	"github.com/tphakala/go-lpc-speech/internal/simdops"
)

// Correlation returns the unnormalized autocorrelation of frame at lag.
// Lags at or beyond the frame length yield 0.
func Correlation(frame []float64, lag int) float64 {
	return simdops.Float64Ops().Lag(frame, lag)
}

// Correlations returns the order+1 autocorrelation values of frame for
// lags 0..order. Index 0 holds the total frame energy.
func Correlations(frame []float64, order int) []float64 {
	if order < 0 {
		return nil
	}
	ops := simdops.Float64Ops()
	r := make([]float64, order+1)
	for lag := range r {
		r[lag] = ops.Lag(frame, lag)
	}
	return r
}

// Confidence returns the normalized voicing score r(period)/r(0).
// A silent frame has no defined ratio and scores 0.
func Confidence(frame []float64, period int) float64 {
	energy := Correlation(frame, 0)
	if energy <= 0 {
		return 0
	}
	return Correlation(frame, period) / energy
}

package lpc

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-lpc-speech/internal/analysis"
	"github.com/tphakala/go-lpc-speech/internal/pitch"
	"github.com/tphakala/go-lpc-speech/internal/spectral"
	"github.com/tphakala/go-lpc-speech/internal/synth"
)

// MaxGridPoints is the finest grid the LSP root search retries with.
const MaxGridPoints = spectral.MaxGridPoints

// DefaultMinSeparation is the smallest LSP gap kept by formant warping,
// 50 Hz at 16 kHz, in radians.
const DefaultMinSeparation = spectral.DefaultMinSeparation

// AnalyzeFrame computes order reflection coefficients and the residual RMS
// of a single frame, without pre-emphasis or pitch estimation. A silent
// frame returns zero coefficients together with ErrDegenerateInput.
func AnalyzeFrame(frame []float64, order int) (k []float64, rms float64, err error) {
	r, err := analysis.Analyze(frame, order)
	if r == nil {
		return nil, 0, err
	}
	return r.K, r.RMS, err
}

// IsUnvoiced reports whether the first reflection coefficient marks a
// frame as noise-like.
func IsUnvoiced(k []float64) bool {
	return analysis.IsUnvoiced(k)
}

// FixedPitch returns an estimator that always reports period with full
// confidence. A non-positive period makes every frame unvoiced.
func FixedPitch(period float64) PitchEstimator {
	return pitch.Fixed(period)
}

// ParcorToLPC converts reflection coefficients to a monic LPC vector.
func ParcorToLPC(k []float64) []float64 {
	return spectral.ParcorToLPC(k)
}

// LPCToParcor converts a monic LPC vector back to reflection coefficients.
func LPCToParcor(a []float64) ([]float64, error) {
	return spectral.LPCToParcor(a)
}

// LPCToLSP finds the line spectral pairs of a monic, even-order LPC
// vector with a Chebyshev grid search of gridPoints intervals.
func LPCToLSP(a []float64, gridPoints int) ([]float64, error) {
	return spectral.LPCToLSP(a, gridPoints)
}

// LSPToLPC rebuilds the monic LPC vector from line spectral pairs.
func LSPToLPC(lsp []float64) ([]float64, error) {
	return spectral.LSPToLPC(lsp)
}

// ParcorToLSP converts reflection coefficients to line spectral pairs,
// doubling the grid up to MaxGridPoints when roots are missed.
func ParcorToLSP(k []float64, gridPoints int) ([]float64, error) {
	return spectral.ParcorToLSP(k, gridPoints)
}

// LSPToParcor converts line spectral pairs to reflection coefficients.
func LSPToParcor(lsp []float64) ([]float64, error) {
	return spectral.LSPToParcor(lsp)
}

// Formant is a resonance of an all-pole filter, in Hz.
type Formant = spectral.Formant

// Formants returns the resonances of the filter with reflection
// coefficients k at the given sample rate, lowest first. Only poles with
// radius above 0.9 count; broader resonances are dropped.
func Formants(k []float64, sampleRate float64) ([]Formant, error) {
	return spectral.Formants(k, sampleRate)
}

// IsStable reports whether every reflection coefficient lies in (-1, 1).
func IsStable(k []float64) bool {
	return spectral.IsStable(k)
}

// IsOrdered reports whether lsp is strictly increasing inside (0, pi).
func IsOrdered(lsp []float64) bool {
	return spectral.IsOrdered(lsp)
}

// EnforceSeparation returns a copy of lsp with adjacent angles at least
// minSep apart and kept within [minSep, pi-minSep].
func EnforceSeparation(lsp []float64, minSep float64) ([]float64, error) {
	return spectral.EnforceSeparation(lsp, minSep)
}

// WarpLSP scales every angle by factor and re-establishes separation.
func WarpLSP(lsp []float64, factor, minSep float64) ([]float64, error) {
	return spectral.WarpLSP(lsp, factor, minSep)
}

// InterpolateLSP blends two LSP vectors of the same order.
func InterpolateLSP(a, b []float64, t float64) ([]float64, error) {
	return spectral.InterpolateLSP(a, b, t)
}

// ShiftFormants moves every formant of p by factor, which must be
// positive: 1.1 raises formants by about 10%. The shift happens in the LSP
// domain, so the result is a stable filter of the same order. Period and
// gain are kept. Silent frames are returned unchanged.
func ShiftFormants(p Params, factor float64, gridPoints int) (Params, error) {
	out := p.Clone()
	if p.Gain == 0 && allZero(p.K) {
		return out, nil
	}

	lsp, err := spectral.ParcorToLSP(p.K, gridPoints)
	if err != nil {
		return Params{}, fmt.Errorf("formant shift: %w", err)
	}
	warped, err := spectral.WarpLSP(lsp, factor, spectral.DefaultMinSeparation)
	if err != nil {
		return Params{}, fmt.Errorf("formant shift: %w", err)
	}
	k, err := spectral.LSPToParcor(warped)
	if err != nil {
		return Params{}, fmt.Errorf("formant shift: %w", err)
	}
	out.K = k
	return out, nil
}

// BlendSpectra interpolates two parameter sets with the spectral envelope
// blended in the LSP domain, where any convex combination of ordered
// vectors is again a stable filter. Period and gain follow Lerp. Both
// sets must have the same even order.
func BlendSpectra(a, b Params, t float64, gridPoints int) (Params, error) {
	if len(a.K) != len(b.K) {
		return Params{}, fmt.Errorf("%w: orders %d and %d differ", ErrInvalidCoefficients, len(a.K), len(b.K))
	}

	la, err := spectral.ParcorToLSP(a.K, gridPoints)
	if err != nil {
		return Params{}, fmt.Errorf("blend: %w", err)
	}
	lb, err := spectral.ParcorToLSP(b.K, gridPoints)
	if err != nil {
		return Params{}, fmt.Errorf("blend: %w", err)
	}
	mixed, err := spectral.InterpolateLSP(la, lb, t)
	if err != nil {
		return Params{}, fmt.Errorf("blend: %w", err)
	}
	k, err := spectral.LSPToParcor(mixed)
	if err != nil {
		return Params{}, fmt.Errorf("blend: %w", err)
	}

	out := synth.Lerp(a, b, t)
	out.K = k
	return out, nil
}

// ShiftFrames applies ShiftFormants to every frame. Frames whose filter
// cannot be taken to the LSP domain keep their original coefficients; the
// number of such frames is returned.
func ShiftFrames(frames []Params, factor float64, gridPoints int) (shifted []Params, skipped int, err error) {
	shifted = make([]Params, len(frames))
	for i, p := range frames {
		q, err := ShiftFormants(p, factor, gridPoints)
		switch {
		case err == nil:
			shifted[i] = q
		case errors.Is(err, ErrInsufficientRoots), errors.Is(err, ErrUnstableCoefficients):
			shifted[i] = p.Clone()
			skipped++
		default:
			return nil, 0, err
		}
	}
	return shifted, skipped, nil
}

func allZero(s []float64) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// Package pitch estimates the fundamental period of a speech frame.
package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-lpc-speech/internal/analysis"
	"github.com/tphakala/go-lpc-speech/internal/filter"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Estimator reports the pitch period of a frame in samples together with
// a confidence in [0, 1]. A period of 0 means no estimate.
type Estimator interface {
	Estimate(frame []float64) (period, confidence float64)
}

const (
	// lowpassCutoffHz keeps the first few harmonics, which carry the
	// periodicity, and drops formant detail above them.
	lowpassCutoffHz = 900.0
	lowpassTaps     = 63
	nyquistMargin   = 0.45
)

// ErrInvalidRange is returned for an unusable pitch search range.
var ErrInvalidRange = errors.New("invalid pitch range")

// Autocorrelation picks the lag with the largest autocorrelation of the
// lowpassed frame inside the configured period range and refines it with
// a parabola through the neighbouring lags.
//
// It caches FFT plans and filter buffers, so it is not safe for concurrent
// use.
type Autocorrelation struct {
	minLag, maxLag int
	lowpass        *filter.Lowpass

	fft    *fourier.FFT
	padded []float64
	coeffs []complex128
	acf    []float64
}

var _ Estimator = (*Autocorrelation)(nil)

// FilterConfig shapes the lowpass applied to a frame before its
// autocorrelation is taken. Zero fields select the defaults.
type FilterConfig struct {
	// CutoffHz defaults to 900 Hz, capped below the Nyquist frequency.
	CutoffHz float64

	// Taps is the odd kernel length, 63 by default. Kernels of 400 taps
	// or more are applied by FFT convolution.
	Taps int

	// Attenuation selects a Kaiser window reaching this stopband
	// attenuation in dB. 0 keeps the Hamming window.
	Attenuation float64
}

// NewAutocorrelation returns an estimator searching fundamentals between
// minHz and maxHz at the given sample rate.
func NewAutocorrelation(sampleRate, minHz, maxHz float64) (*Autocorrelation, error) {
	return NewAutocorrelationWithFilter(sampleRate, minHz, maxHz, FilterConfig{})
}

// NewAutocorrelationWithFilter is NewAutocorrelation with a custom
// pre-filter.
func NewAutocorrelationWithFilter(sampleRate, minHz, maxHz float64, fc FilterConfig) (*Autocorrelation, error) {
	if !(sampleRate > 0 && minHz > 0 && maxHz > minHz && maxHz < sampleRate/2) {
		return nil, fmt.Errorf("%w: %g..%g Hz at %g Hz", ErrInvalidRange, minHz, maxHz, sampleRate)
	}

	lp, err := newLowpass(sampleRate, fc)
	if err != nil {
		return nil, err
	}

	return &Autocorrelation{
		minLag:  max(int(math.Floor(sampleRate/maxHz)), 1),
		maxLag:  int(math.Ceil(sampleRate / minHz)),
		lowpass: lp,
	}, nil
}

func newLowpass(sampleRate float64, fc FilterConfig) (*filter.Lowpass, error) {
	cutoff := fc.CutoffHz
	if cutoff == 0 {
		cutoff = lowpassCutoffHz
	}
	cutoff = min(cutoff, nyquistMargin*sampleRate)

	taps := fc.Taps
	if taps == 0 {
		taps = lowpassTaps
	}

	w := filter.Hamming
	switch {
	case !(fc.Attenuation >= 0) || math.IsInf(fc.Attenuation, 1):
		return nil, fmt.Errorf("%w: stopband attenuation %g dB", filter.ErrInvalidDesign, fc.Attenuation)
	case fc.Attenuation > 0:
		w = filter.Kaiser(filter.KaiserBeta(fc.Attenuation))
	}
	return filter.NewWindowedLowpass(cutoff, sampleRate, taps, w)
}

// Range returns the searched lags in samples.
func (a *Autocorrelation) Range() (minLag, maxLag int) {
	return a.minLag, a.maxLag
}

// Estimate implements Estimator. Frames too short to hold two periods of
// the highest pitch, or without energy, yield (0, 0).
func (a *Autocorrelation) Estimate(frame []float64) (period, confidence float64) {
	n := len(frame)
	hi := min(a.maxLag, n-2)
	if hi <= a.minLag {
		return 0, 0
	}

	x := a.lowpass.Apply(frame)
	r := a.autocorrelate(x)
	if r[0] <= 0 {
		return 0, 0
	}

	best := a.minLag + floats.MaxIdx(r[a.minLag:hi+1])
	period = float64(best)
	if best > a.minLag && best < hi {
		period += parabolicOffset(r[best-1], r[best], r[best+1])
	}

	confidence = analysis.Confidence(x, int(math.Round(period)))
	return period, min(max(confidence, 0), 1)
}

// autocorrelate returns the linear autocorrelation of x for lags
// 0..len(x)-1 via the power spectrum.
func (a *Autocorrelation) autocorrelate(x []float64) []float64 {
	n := len(x)
	size := 1
	for size < 2*n {
		size *= 2
	}
	if a.fft == nil || a.fft.Len() != size {
		a.fft = fourier.NewFFT(size)
		a.padded = make([]float64, size)
		a.acf = make([]float64, size)
		a.coeffs = nil
	}

	clear(a.padded)
	copy(a.padded, x)
	a.coeffs = a.fft.Coefficients(a.coeffs, a.padded)
	for i, c := range a.coeffs {
		a.coeffs[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	a.acf = a.fft.Sequence(a.acf, a.coeffs)
	floats.Scale(1/float64(size), a.acf[:n])
	return a.acf[:n]
}

// parabolicOffset returns the vertex offset, in (-0.5, 0.5), of the
// parabola through three equally spaced points around a maximum.
func parabolicOffset(left, center, right float64) float64 {
	den := left - 2*center + right
	if den >= 0 {
		return 0
	}
	d := 0.5 * (left - right) / den
	return min(max(d, -0.5), 0.5)
}

// Fixed always reports the same period with full confidence. It forces a
// monotone pitch during resynthesis.
type Fixed float64

// Estimate implements Estimator.
func (f Fixed) Estimate([]float64) (period, confidence float64) {
	if f <= 0 {
		return 0, 0
	}
	return float64(f), 1
}

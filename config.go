package lpc

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-lpc-speech/internal/analysis"
	"github.com/tphakala/go-lpc-speech/internal/spectral"
)

// Common errors returned by the package. They can be matched with
// errors.Is through any wrapping.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid lpc configuration")

	// ErrDegenerateInput indicates a frame without usable energy.
	ErrDegenerateInput = analysis.ErrDegenerateInput

	// ErrUnstableCoefficients indicates a filter with a reflection
	// coefficient of magnitude one or more.
	ErrUnstableCoefficients = spectral.ErrUnstableCoefficients

	// ErrInsufficientRoots indicates that the LSP root search missed roots.
	ErrInsufficientRoots = spectral.ErrInsufficientRoots

	// ErrOddOrder indicates an LSP conversion on an odd filter order.
	ErrOddOrder = spectral.ErrOddOrder

	// ErrInvalidCoefficients indicates malformed coefficient vectors.
	ErrInvalidCoefficients = spectral.ErrInvalidCoefficients

	// ErrInvalidSampleRate indicates a sample rate that is not a positive
	// finite number.
	ErrInvalidSampleRate = spectral.ErrInvalidSampleRate
)

// PitchEstimator reports the pitch period of a frame in samples and a
// confidence in [0, 1]. A period of 0 means no estimate.
type PitchEstimator interface {
	Estimate(frame []float64) (period, confidence float64)
}

// Config holds analysis configuration.
type Config struct {
	// SampleRate is the rate of the analyzed signal in Hz.
	SampleRate float64

	// Order is the number of reflection coefficients per frame. It must be
	// even so frames can be taken to the LSP domain.
	Order int

	// WindowSize is the analysis window length in samples.
	WindowSize int

	// HopSize is the distance between window starts in samples, at most
	// WindowSize.
	HopSize int

	// PreEmphasis is the first-order pre-emphasis coefficient applied
	// before spectral analysis. 0 disables it.
	PreEmphasis float64

	// GridPoints is the resolution of the LSP root search.
	GridPoints int

	// MinPitchHz and MaxPitchHz bound the pitch search.
	MinPitchHz float64
	MaxPitchHz float64

	// VoicingThreshold is the pitch confidence at or above which a frame
	// counts as voiced.
	VoicingThreshold float64

	// PitchFilterTaps is the odd length of the lowpass applied before
	// pitch estimation. 0 selects 63 taps; from 400 taps on the filter
	// runs by FFT convolution.
	PitchFilterTaps int

	// PitchFilterAttenuation designs that lowpass with a Kaiser window
	// reaching this stopband attenuation in dB. 0 selects Hamming.
	PitchFilterAttenuation float64

	// Seed initializes the synthesis noise register. 0 selects the default.
	Seed uint16

	// Pitch replaces the built-in autocorrelation pitch estimator. With
	// EnableParallel it must be safe for concurrent use.
	Pitch PitchEstimator

	// EnableParallel lets AnalyzeSignal analyze frames on several
	// goroutines. Results are identical to sequential analysis.
	EnableParallel bool
}

// DefaultConfig returns the standard configuration for the given sample
// rate: order 18, 50 ms windows every 25 ms and 0.9375 pre-emphasis.
func DefaultConfig(sampleRate float64) *Config {
	return &Config{
		SampleRate:       sampleRate,
		Order:            DefaultOrder,
		WindowSize:       int(math.Round(sampleRate * defaultWindowSeconds)),
		HopSize:          int(math.Round(sampleRate * defaultHopSeconds)),
		PreEmphasis:      DefaultPreEmphasis,
		GridPoints:       DefaultGridPoints,
		MinPitchHz:       DefaultMinPitchHz,
		MaxPitchHz:       DefaultMaxPitchHz,
		VoicingThreshold: DefaultVoicingThreshold,
		Seed:             DefaultSeed,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !(c.SampleRate > 0) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidConfig)
	}

	if c.Order < minOrder || c.Order > maxOrder {
		return fmt.Errorf("%w: order must be %d-%d", ErrInvalidConfig, minOrder, maxOrder)
	}

	if c.Order%2 != 0 {
		return fmt.Errorf("%w: order must be even, got %d", ErrInvalidConfig, c.Order)
	}

	if c.WindowSize <= c.Order {
		return fmt.Errorf("%w: window of %d samples is too short for order %d", ErrInvalidConfig, c.WindowSize, c.Order)
	}

	if c.HopSize < 1 || c.HopSize > c.WindowSize {
		return fmt.Errorf("%w: hop size must be in [1, %d]", ErrInvalidConfig, c.WindowSize)
	}

	if !(c.PreEmphasis >= 0 && c.PreEmphasis < 1) {
		return fmt.Errorf("%w: pre-emphasis must be in [0, 1)", ErrInvalidConfig)
	}

	if c.GridPoints < minGridPoints || c.GridPoints > spectral.MaxGridPoints {
		return fmt.Errorf("%w: grid points must be %d-%d", ErrInvalidConfig, minGridPoints, spectral.MaxGridPoints)
	}

	if c.Pitch == nil {
		if !(c.MinPitchHz > 0 && c.MaxPitchHz > c.MinPitchHz && c.MaxPitchHz < c.SampleRate/2) {
			return fmt.Errorf("%w: pitch range %g-%g Hz is not usable at %g Hz", ErrInvalidConfig, c.MinPitchHz, c.MaxPitchHz, c.SampleRate)
		}
	}

	if !(c.VoicingThreshold >= 0 && c.VoicingThreshold <= 1) {
		return fmt.Errorf("%w: voicing threshold must be in [0, 1]", ErrInvalidConfig)
	}

	if c.PitchFilterTaps != 0 {
		if c.PitchFilterTaps < minPitchFilterTaps || c.PitchFilterTaps > maxPitchFilterTaps || c.PitchFilterTaps%2 == 0 {
			return fmt.Errorf("%w: pitch filter taps must be odd and %d-%d, got %d",
				ErrInvalidConfig, minPitchFilterTaps, maxPitchFilterTaps, c.PitchFilterTaps)
		}
	}

	if !(c.PitchFilterAttenuation >= 0) || math.IsInf(c.PitchFilterAttenuation, 0) {
		return fmt.Errorf("%w: pitch filter attenuation must be finite and non-negative", ErrInvalidConfig)
	}

	return nil
}

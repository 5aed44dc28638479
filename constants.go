package lpc

// Common speech sample rates.
const (
	// RateTelephony is the narrowband telephone sample rate.
	RateTelephony = 8000

	// RateWideband is the wideband speech sample rate the defaults are tuned for.
	RateWideband = 16000
)

// Analysis defaults.
const (
	DefaultOrder            = 18
	DefaultPreEmphasis      = 0.9375
	DefaultGridPoints       = 1024
	DefaultMinPitchHz       = 60.0
	DefaultMaxPitchHz       = 400.0
	DefaultVoicingThreshold = 0.3
	DefaultSeed             = 1

	// defaultWindowSeconds and defaultHopSeconds give 800 and 400 samples
	// at 16 kHz.
	defaultWindowSeconds = 0.05
	defaultHopSeconds    = 0.025
)

// Configuration limits.
const (
	minOrder      = 2
	maxOrder      = 64
	minGridPoints = 16

	minPitchFilterTaps = 3
	maxPitchFilterTaps = 8191
)

// DefaultSynthScale maps unit-amplitude synthesis output to 16-bit PCM with
// 6 dB of headroom.
const DefaultSynthScale = 16384.0

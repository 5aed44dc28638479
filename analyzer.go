package lpc

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/tphakala/go-lpc-speech/internal/analysis"
	"github.com/tphakala/go-lpc-speech/internal/filter"
	"github.com/tphakala/go-lpc-speech/internal/framer"
	"github.com/tphakala/go-lpc-speech/internal/pitch"
	"golang.org/x/sync/errgroup"
)

// Frame is the analysis result for one window.
type Frame struct {
	Params

	// Start is the stream offset of the window's first sample.
	Start int64

	// Energy is the mean square of the window before pre-emphasis.
	Energy float64

	// Confidence is the pitch estimator's confidence for the window.
	Confidence float64

	// Voiced reports whether Period carries a pitch. A frame is voiced
	// when the pitch confidence reaches the threshold and its first
	// reflection coefficient does not mark it as noise-like.
	Voiced bool
}

// ParamsOf returns the synthesis parameters of frames.
func ParamsOf(frames []Frame) []Params {
	out := make([]Params, len(frames))
	for i := range frames {
		out[i] = frames[i].Params
	}
	return out
}

// frameAnalyzer turns raw windows into frames. It owns a pitch estimator
// and scratch space, so each goroutine needs its own.
type frameAnalyzer struct {
	cfg      *Config
	pitch    PitchEstimator
	pre      *filter.PreEmphasizer
	emphasis []float64
}

func newFrameAnalyzer(cfg *Config) (*frameAnalyzer, error) {
	est := cfg.Pitch
	if est == nil {
		ac, err := pitch.NewAutocorrelationWithFilter(cfg.SampleRate, cfg.MinPitchHz, cfg.MaxPitchHz, pitch.FilterConfig{
			Taps:        cfg.PitchFilterTaps,
			Attenuation: cfg.PitchFilterAttenuation,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		est = ac
	}
	return &frameAnalyzer{
		cfg:      cfg,
		pitch:    est,
		pre:      filter.NewPreEmphasizer(cfg.PreEmphasis),
		emphasis: make([]float64, cfg.WindowSize),
	}, nil
}

// analyze processes one raw window. before is the input sample that
// precedes the window, which seeds the pre-emphasis filter.
func (f *frameAnalyzer) analyze(window []float64, before float64, start int64) (Frame, error) {
	frame := Frame{
		Start:  start,
		Energy: analysis.Correlation(window, 0) / float64(len(window)),
	}

	f.pre.SetPrevious(before)
	emph := f.pre.Process(f.emphasis, window)

	refl, err := analysis.Analyze(emph, f.cfg.Order)
	if errors.Is(err, analysis.ErrDegenerateInput) {
		frame.K = make([]float64, f.cfg.Order)
		return frame, nil
	}
	if err != nil {
		return Frame{}, err
	}
	frame.K = refl.K
	frame.Gain = refl.RMS

	period, confidence := f.pitch.Estimate(window)
	frame.Confidence = confidence
	if period > 0 && confidence >= f.cfg.VoicingThreshold && !refl.IsUnvoiced() {
		frame.Voiced = true
		frame.Period = max(int(math.Round(period)), 1)
	}
	return frame, nil
}

// Analyzer performs streaming LPC analysis. Samples written in chunks of
// any size produce the same frames as one large write.
//
// An Analyzer is not safe for concurrent use.
type Analyzer struct {
	cfg    Config
	framer *framer.Framer
	frames *frameAnalyzer
	before float64
}

// NewAnalyzer validates cfg and returns a streaming analyzer. The
// configuration is copied.
func NewAnalyzer(cfg *Config) (*Analyzer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{cfg: *cfg}
	fr, err := framer.New(a.cfg.WindowSize, a.cfg.HopSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	fa, err := newFrameAnalyzer(&a.cfg)
	if err != nil {
		return nil, err
	}
	a.framer = fr
	a.frames = fa
	return a, nil
}

// Config returns a copy of the analyzer's configuration.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Write appends samples and returns the frames for every window that is
// now complete.
func (a *Analyzer) Write(samples []float64) ([]Frame, error) {
	a.framer.Write(samples)

	var out []Frame
	for {
		start := a.framer.Position()
		window, ok := a.framer.Next()
		if !ok {
			return out, nil
		}
		frame, err := a.frames.analyze(window, a.before, start)
		if err != nil {
			return out, err
		}
		a.before = window[a.cfg.HopSize-1]
		out = append(out, frame)
	}
}

// Flush analyzes the trailing samples that no complete window has covered,
// zero-padded to a full window, and resets the analyzer. It returns nil
// when there is nothing left.
func (a *Analyzer) Flush() ([]Frame, error) {
	start := a.framer.Position()
	window, ok := a.framer.Flush()
	before := a.before
	a.Reset()
	if !ok {
		return nil, nil
	}
	frame, err := a.frames.analyze(window, before, start)
	if err != nil {
		return nil, err
	}
	return []Frame{frame}, nil
}

// Reset discards buffered input and filter state.
func (a *Analyzer) Reset() {
	a.framer.Reset()
	a.before = 0
}

// windowStarts returns the start offsets of the complete windows of an
// n-sample signal and whether a zero-padded tail window follows them.
func windowStarts(n, window, hop int) (starts []int, tail bool) {
	for s := 0; s+window <= n; s += hop {
		starts = append(starts, s)
	}
	if len(starts) == 0 {
		return nil, n > 0
	}
	return starts, n > starts[len(starts)-1]+window
}

// AnalyzeSignal analyzes a complete signal, including the zero-padded
// tail window that Flush would produce. It returns the same frames as
// streaming the signal through an Analyzer.
func AnalyzeSignal(cfg *Config, samples []float64) ([]Frame, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := *cfg
	starts, tail := windowStarts(len(samples), c.WindowSize, c.HopSize)
	if tail {
		next := 0
		if len(starts) > 0 {
			next = starts[len(starts)-1] + c.HopSize
		}
		starts = append(starts, next)
	}
	frames := make([]Frame, len(starts))

	analyzeRange := func(lo, hi int) error {
		fa, err := newFrameAnalyzer(&c)
		if err != nil {
			return err
		}
		window := make([]float64, c.WindowSize)
		for i := lo; i < hi; i++ {
			s := starts[i]
			clear(window)
			copy(window, samples[s:min(s+c.WindowSize, len(samples))])
			var before float64
			if s > 0 {
				before = samples[s-1]
			}
			frames[i], err = fa.analyze(window, before, int64(s))
			if err != nil {
				return err
			}
		}
		return nil
	}

	workers := 1
	if c.EnableParallel {
		workers = min(runtime.GOMAXPROCS(0), len(frames))
	}
	if workers <= 1 {
		if err := analyzeRange(0, len(frames)); err != nil {
			return nil, err
		}
		return frames, nil
	}

	var g errgroup.Group
	chunk := (len(frames) + workers - 1) / workers
	for lo := 0; lo < len(frames); lo += chunk {
		hi := min(lo+chunk, len(frames))
		g.Go(func() error { return analyzeRange(lo, hi) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}

// DeEmphasis undoes pre-emphasis with coefficient a on a synthesized
// signal. a = 0 returns a copy.
func DeEmphasis(samples []float64, a float64) []float64 {
	return filter.DeEmphasis(samples, a)
}

// PreEmphasis applies y[i] = x[i] - a*x[i-1] to a copy of samples.
func PreEmphasis(samples []float64, a float64) []float64 {
	return filter.PreEmphasis(samples, a)
}

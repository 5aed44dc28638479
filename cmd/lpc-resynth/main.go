// Command lpc-resynth analyzes a speech recording and renders it again from
// its LPC parameters, optionally moving the formants or replacing the pitch.
//
// Usage:
//
//	lpc-resynth speech.wav robot.wav
//	lpc-resynth -shift 1.2 -smooth speech.wav higher.wav
//	lpc-resynth -pitch 100 speech.wav monotone.wav
//	lpc-resynth -whisper speech.wav whisper.wav
//	lpc-resynth -pitch-taps 401 -pitch-atten 60 speech.wav out.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	lpc "github.com/tphakala/go-lpc-speech"
	"github.com/tphakala/go-lpc-speech/internal/cli"
	"github.com/tphakala/go-lpc-speech/internal/wavio"
)

const (
	minRequiredArgs = 2

	// defaultPeak leaves 1 dB of headroom after normalization.
	defaultPeak = 0.89
	fullScale   = 32767.0
)

type options struct {
	input      string
	output     string
	order      int
	preemph    float64
	shift      float64
	pitchHz    float64
	pitchTaps  int
	pitchAtten float64
	smooth     bool
	whisper    bool
	peak       float64
	seed       uint
	parallel   bool
	verbose    bool
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		logrus.Fatal(err)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("lpc-resynth", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.IntVar(&opts.order, "order", lpc.DefaultOrder, "Number of reflection coefficients per frame (even)")
	fs.Float64Var(&opts.preemph, "preemph", lpc.DefaultPreEmphasis, "Pre-emphasis coefficient (0 disables)")
	fs.Float64Var(&opts.shift, "shift", 1, "Formant shift factor (>1 raises formants)")
	fs.Float64Var(&opts.pitchHz, "pitch", 0, "Replace the pitch of voiced frames with this frequency in Hz (0 keeps it)")
	fs.IntVar(&opts.pitchTaps, "pitch-taps", 0, "Pitch lowpass length in taps, odd (0 = 63; 400 and up use FFT convolution)")
	fs.Float64Var(&opts.pitchAtten, "pitch-atten", 0, "Pitch lowpass Kaiser stopband attenuation in dB (0 = Hamming window)")
	fs.BoolVar(&opts.smooth, "smooth", false, "Interpolate parameters between frames")
	fs.BoolVar(&opts.whisper, "whisper", false, "Render every frame with noise excitation")
	fs.Float64Var(&opts.peak, "peak", defaultPeak, "Normalize output to this peak level (0 disables)")
	fs.UintVar(&opts.seed, "seed", lpc.DefaultSeed, "Noise generator seed (1-65535)")
	fs.BoolVar(&opts.parallel, "parallel", true, "Analyze frames on all CPUs")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lpc-resynth [options] input.wav output.wav\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < minRequiredArgs {
		fs.Usage()
		return nil, errors.New("missing input or output file")
	}
	opts.input = fs.Arg(0)
	opts.output = fs.Arg(1)
	return opts, opts.validate()
}

func (o *options) validate() error {
	switch {
	case !(o.shift > 0) || math.IsInf(o.shift, 0):
		return fmt.Errorf("shift factor must be positive, got %g", o.shift)
	case !(o.pitchHz >= 0) || math.IsInf(o.pitchHz, 0):
		return fmt.Errorf("pitch must be non-negative, got %g", o.pitchHz)
	case !(o.peak >= 0 && o.peak <= 1):
		return fmt.Errorf("peak must be in [0, 1], got %g", o.peak)
	case o.seed > math.MaxUint16:
		return fmt.Errorf("seed must fit in 16 bits, got %d", o.seed)
	}
	return nil
}

func run(args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	logger := cli.NewLogger(stderr, opts.verbose)

	in, err := wavio.ReadFile(opts.input)
	if err != nil {
		return err
	}

	cfg := lpc.DefaultConfig(float64(in.SampleRate))
	cfg.Order = opts.order
	cfg.PreEmphasis = opts.preemph
	cfg.PitchFilterTaps = opts.pitchTaps
	cfg.PitchFilterAttenuation = opts.pitchAtten
	cfg.Seed = uint16(opts.seed)
	cfg.EnableParallel = opts.parallel

	began := time.Now()
	frames, err := lpc.AnalyzeSignal(cfg, in.Samples)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"input":  opts.input,
		"frames": len(frames),
		"order":  cfg.Order,
	}).Debug("analyzed")

	params, err := modify(lpc.ParamsOf(frames), opts, cfg, logger)
	if err != nil {
		return err
	}

	out := resynthesize(params, cfg, opts.smooth)
	scale := fullScale
	if opts.peak > 0 {
		gain := cli.Normalize(out, opts.peak)
		logger.WithField("gain", gain).Debug("normalized")
	} else if n := cli.Clipped(out, scale); n > 0 {
		logger.WithField("clipped", n).Warn("output exceeds 16-bit range")
	}

	if err := wavio.WriteFile(opts.output, out, in.SampleRate, scale); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"input":    opts.input,
		"output":   opts.output,
		"frames":   len(frames),
		"order":    cfg.Order,
		"duration": time.Since(began).Round(time.Microsecond),
	}).Info("resynthesis complete")
	return nil
}

// modify applies the requested pitch and formant changes to params in
// place and returns the result.
func modify(params []lpc.Params, opts *options, cfg *lpc.Config, logger *logrus.Logger) ([]lpc.Params, error) {
	period := 0
	if opts.pitchHz > 0 {
		period = max(int(math.Round(cfg.SampleRate/opts.pitchHz)), 1)
	}
	for i := range params {
		switch {
		case opts.whisper:
			params[i].Period = 0
		case period > 0 && params[i].Period > 0:
			params[i].Period = period
		}
	}

	if opts.shift == 1 {
		return params, nil
	}
	shifted, skipped, err := lpc.ShiftFrames(params, opts.shift, cfg.GridPoints)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		logger.WithFields(logrus.Fields{
			"skipped": skipped,
			"frames":  len(params),
		}).Warn("some frames kept their original formants")
	}
	return shifted, nil
}

// resynthesize renders params hop by hop and removes the analysis
// pre-emphasis from the result.
func resynthesize(params []lpc.Params, cfg *lpc.Config, smooth bool) []float64 {
	s := lpc.NewSynthesizer(cfg.Order, cfg.Seed)
	return lpc.DeEmphasis(s.RenderFrames(params, cfg.HopSize, smooth), cfg.PreEmphasis)
}

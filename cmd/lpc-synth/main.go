// Command lpc-synth renders a steady sound from a fixed set of reflection
// coefficients.
//
// Usage:
//
//	lpc-synth -coeffs "-0.6,0.45,-0.21,0.12" out.wav
//	lpc-synth -coeffs "-0.6,0.45" -period 0 -seconds 0.5 whisper.wav
//	lpc-synth -coeffs "-0.6,0.45" -period 100 -rate 8000 out.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	lpc "github.com/tphakala/go-lpc-speech"
	"github.com/tphakala/go-lpc-speech/internal/cli"
	"github.com/tphakala/go-lpc-speech/internal/wavio"
)

const (
	defaultPeriod  = 140
	defaultSeconds = 1.0

	minRequiredArgs = 1
	maxSeconds      = 3600
)

type options struct {
	output  string
	coeffs  string
	period  int
	gain    float64
	seconds float64
	rate    int
	scale   float64
	seed    uint
	verbose bool
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		logrus.Fatal(err)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("lpc-synth", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.coeffs, "coeffs", "", "Comma-separated reflection coefficients (required)")
	fs.IntVar(&opts.period, "period", defaultPeriod, "Pitch period in samples (0 = unvoiced noise)")
	fs.Float64Var(&opts.gain, "gain", 1, "Excitation gain")
	fs.Float64Var(&opts.seconds, "seconds", defaultSeconds, "Output duration in seconds")
	fs.IntVar(&opts.rate, "rate", lpc.RateWideband, "Output sample rate in Hz")
	fs.Float64Var(&opts.scale, "scale", lpc.DefaultSynthScale, "Factor mapping synthesizer output to 16-bit PCM")
	fs.UintVar(&opts.seed, "seed", lpc.DefaultSeed, "Noise generator seed (1-65535)")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lpc-synth -coeffs k1,k2,... [options] output.wav\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < minRequiredArgs {
		fs.Usage()
		return nil, errors.New("missing output file")
	}
	opts.output = fs.Arg(0)
	return opts, opts.validate()
}

func (o *options) validate() error {
	switch {
	case o.coeffs == "":
		return errors.New("-coeffs is required")
	case o.period < 0:
		return fmt.Errorf("pitch period must be non-negative, got %d", o.period)
	case o.rate <= 0:
		return fmt.Errorf("sample rate must be positive, got %d", o.rate)
	case !(o.seconds > 0 && o.seconds <= maxSeconds):
		return fmt.Errorf("duration must be in (0, %d] seconds", maxSeconds)
	case !(o.scale > 0) || math.IsInf(o.scale, 0):
		return fmt.Errorf("scale must be positive, got %g", o.scale)
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

	k, err := cli.ParseFloats(opts.coeffs)
	if err != nil {
		return fmt.Errorf("-coeffs: %w", err)
	}
	if !lpc.IsStable(k) {
		logger.WithField("coeffs", k).Warn("coefficients outside (-1, 1); output may diverge")
	}

	params := lpc.Params{K: k, Period: opts.period, Gain: opts.gain}
	out := render(params, int(math.Round(opts.seconds*float64(opts.rate))), uint16(opts.seed))

	logger.WithFields(logrus.Fields{
		"order":   len(k),
		"period":  opts.period,
		"peak":    cli.Peak(out),
		"clipped": cli.Clipped(out, opts.scale),
	}).Debug("rendered")

	if err := wavio.WriteFile(opts.output, out, opts.rate, opts.scale); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"output":  opts.output,
		"samples": len(out),
		"rate":    opts.rate,
	}).Info("synthesis complete")
	return nil
}

func render(p lpc.Params, n int, seed uint16) []float64 {
	s := lpc.NewSynthesizer(len(p.K), seed)
	out := make([]float64, n)
	s.Render(out, &p)
	return out
}

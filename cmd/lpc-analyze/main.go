// Command lpc-analyze prints the reflection coefficients of a speech
// recording, one line per analysis frame.
//
// Usage:
//
//	lpc-analyze speech.wav
//	lpc-analyze -start 0.5 -end 1.2 -order 10 speech.wav
//	lpc-analyze -o frames.txt -v speech.wav
//	lpc-analyze -formants -pitch-taps 401 -pitch-atten 60 speech.wav
//
// Each line holds the frame time in seconds, the bracketed coefficients,
// the residual rms, the pitch period in samples (0 when unvoiced) and the
// pitch confidence. With -formants the line continues with " |" and one
// "frequency:bandwidth" pair in Hz per formant.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lpc "github.com/tphakala/go-lpc-speech"
	"github.com/tphakala/go-lpc-speech/internal/cli"
	"github.com/tphakala/go-lpc-speech/internal/simdops"
	"github.com/tphakala/go-lpc-speech/internal/wavio"
)

const minRequiredArgs = 1

type options struct {
	input      string
	output     string
	order      int
	window     int
	hop        int
	preemph    float64
	start      float64
	end        float64
	pitchTaps  int
	pitchAtten float64
	formants   bool
	parallel   bool
	verbose    bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logrus.Fatal(err)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("lpc-analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.output, "o", "", "Write frames to file instead of stdout")
	fs.IntVar(&opts.order, "order", lpc.DefaultOrder, "Number of reflection coefficients per frame (even)")
	fs.IntVar(&opts.window, "window", 0, "Window size in samples (0 = 50 ms, 800 at 16 kHz)")
	fs.IntVar(&opts.hop, "hop", 0, "Hop size in samples (0 = 25 ms, 400 at 16 kHz)")
	fs.Float64Var(&opts.preemph, "preemph", lpc.DefaultPreEmphasis, "Pre-emphasis coefficient (0 disables)")
	fs.Float64Var(&opts.start, "start", 0, "Start of the analyzed segment in seconds")
	fs.Float64Var(&opts.end, "end", 0, "End of the analyzed segment in seconds (0 = end of file)")
	fs.IntVar(&opts.pitchTaps, "pitch-taps", 0, "Pitch lowpass length in taps, odd (0 = 63; 400 and up use FFT convolution)")
	fs.Float64Var(&opts.pitchAtten, "pitch-atten", 0, "Pitch lowpass Kaiser stopband attenuation in dB (0 = Hamming window)")
	fs.BoolVar(&opts.formants, "formants", false, "Append formant frequencies and bandwidths to each frame")
	fs.BoolVar(&opts.parallel, "parallel", true, "Analyze frames on all CPUs")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lpc-analyze [options] input.wav\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < minRequiredArgs {
		fs.Usage()
		return nil, errors.New("missing input file")
	}
	opts.input = fs.Arg(0)
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) (err error) {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger := cli.NewLogger(stderr, opts.verbose)
	logger.WithField("simd", simdops.Info()).Debug("cpu features")

	in, err := wavio.ReadFile(opts.input)
	if err != nil {
		return err
	}
	samples, err := selectSegment(in, opts.start, opts.end)
	if err != nil {
		return err
	}

	cfg := newConfig(opts, float64(in.SampleRate))
	logger.WithFields(logrus.Fields{
		"input":  opts.input,
		"rate":   in.SampleRate,
		"bits":   in.BitDepth,
		"order":  cfg.Order,
		"window": cfg.WindowSize,
		"hop":    cfg.HopSize,
	}).Debug("analyzing")

	began := time.Now()
	frames, err := lpc.AnalyzeSignal(cfg, samples)
	if err != nil {
		return err
	}
	elapsed := time.Since(began)

	out := stdout
	if opts.output != "" {
		f, cerr := os.Create(opts.output)
		if cerr != nil {
			return fmt.Errorf("failed to create output file: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}
	if err := writeFrames(out, frames, cfg.SampleRate, opts.start, opts.formants); err != nil {
		return err
	}

	voiced := 0
	for i := range frames {
		if frames[i].Voiced {
			voiced++
		}
	}
	logger.WithFields(logrus.Fields{
		"input":    opts.input,
		"frames":   len(frames),
		"voiced":   voiced,
		"order":    cfg.Order,
		"duration": elapsed.Round(time.Microsecond),
	}).Info("analysis complete")
	return nil
}

// selectSegment returns the samples between start and end seconds. An end
// of 0 means the end of the file.
func selectSegment(in *wavio.Audio, start, end float64) ([]float64, error) {
	if start == 0 && end == 0 {
		return in.Samples, nil
	}
	if end == 0 {
		end = in.Duration()
	}
	return in.Clip(start, end)
}

func newConfig(opts *options, sampleRate float64) *lpc.Config {
	cfg := lpc.DefaultConfig(sampleRate)
	cfg.Order = opts.order
	if opts.window > 0 {
		cfg.WindowSize = opts.window
	}
	if opts.hop > 0 {
		cfg.HopSize = opts.hop
	}
	cfg.PreEmphasis = opts.preemph
	cfg.PitchFilterTaps = opts.pitchTaps
	cfg.PitchFilterAttenuation = opts.pitchAtten
	cfg.EnableParallel = opts.parallel
	return cfg
}

func writeFrames(w io.Writer, frames []lpc.Frame, sampleRate, offset float64, formants bool) error {
	bw := bufio.NewWriter(w)
	for i := range frames {
		line := formatFrame(&frames[i], sampleRate, offset)
		if formants {
			f, err := lpc.Formants(frames[i].K, sampleRate)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			line += formatFormants(f)
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return fmt.Errorf("failed to write frames: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write frames: %w", err)
	}
	return nil
}

// formatFrame renders one frame as
// "time [k1, k2, ...] rms period confidence".
func formatFrame(f *lpc.Frame, sampleRate, offset float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.3f [", offset+float64(f.Start)/sampleRate)
	for i, k := range f.K {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%.3f", k)
	}
	fmt.Fprintf(&b, "] %.3f %d %.3f", f.Gain, f.Period, f.Confidence)
	return b.String()
}

// formatFormants renders formants as " | f1:bw1 f2:bw2 ..." in whole Hz.
func formatFormants(formants []lpc.Formant) string {
	var b strings.Builder
	b.WriteString(" |")
	for _, f := range formants {
		fmt.Fprintf(&b, " %.0f:%.0f", f.Frequency, f.Bandwidth)
	}
	return b.String()
}

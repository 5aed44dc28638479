// Command lpc-clip cuts labelled segments out of a recording and joins
// them into one file, for example to collect the vowels of a speaker
// before analysis.
//
// Usage:
//
//	lpc-clip -o vowels.wav speech.wav segments.txt
//
// The segments file holds one "label start end" line per segment with
// times in seconds. Blank lines and lines starting with '#' are ignored;
// lines whose times do not parse are skipped.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tphakala/go-lpc-speech/internal/cli"
	"github.com/tphakala/go-lpc-speech/internal/wavio"
)

const (
	minRequiredArgs = 2

	// pcmScale undoes the normalization of 16-bit input exactly.
	pcmScale = 32768.0
)

type segment struct {
	label      string
	start, end float64
}

type options struct {
	input    string
	segments string
	output   string
	verbose  bool
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		logrus.Fatal(err)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("lpc-clip", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.output, "o", "", "Output WAV file (required)")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lpc-clip -o output.wav input.wav segments.txt\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < minRequiredArgs {
		fs.Usage()
		return nil, errors.New("missing input or segments file")
	}
	if opts.output == "" {
		return nil, errors.New("-o is required")
	}
	opts.input = fs.Arg(0)
	opts.segments = fs.Arg(1)
	return opts, nil
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

	f, err := os.Open(opts.segments)
	if err != nil {
		return fmt.Errorf("failed to open segments file: %w", err)
	}
	segs, skipped, err := parseSegments(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", opts.segments, err)
	}
	if skipped > 0 {
		logger.WithField("skipped", skipped).Warn("ignored malformed segment lines")
	}

	out, err := joinSegments(in, segs, logger)
	if err != nil {
		return err
	}
	if err := wavio.WriteFile(opts.output, out, in.SampleRate, pcmScale); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"input":    opts.input,
		"output":   opts.output,
		"segments": len(segs),
		"duration": float64(len(out)) / float64(in.SampleRate),
	}).Info("clips written")
	return nil
}

// parseSegments reads "label start end" lines and returns the parsed
// segments with the number of lines it could not parse.
func parseSegments(r io.Reader) (segs []segment, skipped int, err error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			skipped++
			continue
		}
		start, err1 := strconv.ParseFloat(fields[1], 64)
		end, err2 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil {
			skipped++
			continue
		}
		segs = append(segs, segment{label: fields[0], start: start, end: end})
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read segments: %w", err)
	}
	return segs, skipped, nil
}

// joinSegments concatenates the samples of every segment in order.
func joinSegments(in *wavio.Audio, segs []segment, logger *logrus.Logger) ([]float64, error) {
	var out []float64
	for _, s := range segs {
		clip, err := in.Clip(s.start, s.end)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", s.label, err)
		}
		logger.WithFields(logrus.Fields{
			"label":   s.label,
			"samples": len(clip),
		}).Debug("segment")
		out = append(out, clip...)
	}
	return out, nil
}

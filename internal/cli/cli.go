// Package cli holds the logging and argument plumbing shared by the
// command-line tools.
package cli

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidList is returned by ParseFloats for malformed input.
var ErrInvalidList = errors.New("invalid number list")

// NewLogger returns a text logger writing to w. verbose enables debug
// output.
func NewLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// ParseFloats parses a comma-separated list such as "0.5, -0.3,0.1".
// Whitespace around items is ignored; empty items are rejected.
func ParseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidList)
	}
	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: item %d %q", ErrInvalidList, i+1, f)
		}
		out[i] = v
	}
	return out, nil
}

// Peak returns the largest absolute value in x, or 0 for an empty slice.
func Peak(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return max(floats.Max(x), -floats.Min(x))
}

// Normalize scales x in place so its peak magnitude equals peak and
// returns the applied gain. Silent input is left untouched with gain 1.
func Normalize(x []float64, peak float64) float64 {
	p := Peak(x)
	if p == 0 {
		return 1
	}
	gain := peak / p
	floats.Scale(gain, x)
	return gain
}

// Clipped counts the samples whose magnitude after scaling by scale
// exceeds the 16-bit range.
func Clipped(x []float64, scale float64) int {
	n := 0
	for _, v := range x {
		if s := math.Abs(v * scale); s > math.MaxInt16 {
			n++
		}
	}
	return n
}

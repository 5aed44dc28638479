// Package wavio reads and writes the mono PCM WAV files handled by the
// command-line tools.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Output format.
const (
	BitDepth16   = 16
	monoChannels = 1
	pcmFormat    = 1

	minInt16 = -32768
	maxInt16 = 32767
)

var (
	// ErrInvalidWAV is returned for streams that are not readable PCM WAV.
	ErrInvalidWAV = errors.New("invalid WAV")

	// ErrInvalidRange is returned by Clip for a segment outside the signal.
	ErrInvalidRange = errors.New("invalid time range")
)

// Audio is a decoded mono signal with samples normalized to [-1, 1).
type Audio struct {
	Samples    []float64
	SampleRate int
	BitDepth   int
}

// Duration returns the signal length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// Clip returns the samples between start and end seconds, rounded to the
// nearest sample. The result aliases a.Samples.
func (a *Audio) Clip(start, end float64) ([]float64, error) {
	i := int(math.Round(start * float64(a.SampleRate)))
	j := int(math.Round(end * float64(a.SampleRate)))
	if i < 0 || j > len(a.Samples) || i > j {
		return nil, fmt.Errorf("%w: %.3fs..%.3fs of %.3fs", ErrInvalidRange, start, end, a.Duration())
	}
	return a.Samples[i:j], nil
}

// Read decodes a PCM WAV stream, averaging all channels to mono.
func Read(r io.ReadSeeker) (*Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}

	format := dec.Format()
	channels := max(format.NumChannels, 1)
	bits := int(dec.BitDepth)
	if bits == 0 {
		bits = buf.SourceBitDepth
	}
	if bits < 8 || bits > 32 {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrInvalidWAV, bits)
	}

	// 8-bit WAV is unsigned; wider depths are signed.
	var offset float64
	if bits == 8 {
		offset = 128
	}
	norm := 1 / (float64(channels) * math.Exp2(float64(bits-1)))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range samples {
		var sum float64
		for _, v := range buf.Data[i*channels : (i+1)*channels] {
			sum += float64(v) - offset
		}
		samples[i] = sum * norm
	}

	return &Audio{Samples: samples, SampleRate: format.SampleRate, BitDepth: bits}, nil
}

// ReadFile opens and decodes the WAV file at path.
func ReadFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	a, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// ToPCM16 scales samples by scale, rounds them and clips the result to
// the 16-bit range.
func ToPCM16(samples []float64, scale float64) []int {
	out := make([]int, len(samples))
	for i, v := range samples {
		s := math.Round(v * scale)
		switch {
		case s > maxInt16:
			out[i] = maxInt16
		case s < minInt16 || math.IsNaN(s):
			out[i] = minInt16
		default:
			out[i] = int(s)
		}
	}
	return out
}

// Write encodes samples as a 16-bit mono PCM WAV stream, scaling them by
// scale before clipping.
func Write(w io.WriteSeeker, samples []float64, sampleRate int, scale float64) error {
	return WritePCM(w, ToPCM16(samples, scale), sampleRate)
}

// WritePCM encodes 16-bit mono sample values.
func WritePCM(w io.WriteSeeker, pcm []int, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	enc := wav.NewEncoder(w, sampleRate, BitDepth16, monoChannels, pcmFormat)
	buf := &audio.IntBuffer{
		Data:           pcm,
		Format:         &audio.Format{NumChannels: monoChannels, SampleRate: sampleRate},
		SourceBitDepth: BitDepth16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to encode samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}

// WriteFile creates path and writes samples to it with Write.
func WriteFile(path string, samples []float64, sampleRate int, scale float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(f, samples, sampleRate, scale); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

package filter

import (
	"fmt"

	"github.com/tphakala/go-lpc-speech/internal/simdops"
)

// Lowpass is a linear-phase FIR lowpass whose output is aligned with its
// input: Apply returns as many samples as it is given, with the group
// delay removed and zeros assumed beyond both ends.
//
// A Lowpass reuses internal buffers and is not safe for concurrent use.
type Lowpass struct {
	kernel []float64
	fft    *fftConvolver
	padded []float64
}

// NewLowpass designs a Hamming-windowed lowpass with the given cutoff and
// odd tap count.
func NewLowpass(cutoffHz, sampleRate float64, taps int) (*Lowpass, error) {
	return NewWindowedLowpass(cutoffHz, sampleRate, taps, Hamming)
}

// NewWindowedLowpass is NewLowpass with a chosen design window. Kernels of
// minKernelForFFT taps or more are applied by FFT convolution.
func NewWindowedLowpass(cutoffHz, sampleRate float64, taps int, w Window) (*Lowpass, error) {
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("%w: sample rate %g", ErrInvalidDesign, sampleRate)
	}
	h, err := DesignLowpass(taps, cutoffHz/sampleRate, w)
	if err != nil {
		return nil, err
	}
	return NewFIR(h)
}

// NewFIR wraps an existing odd-length kernel.
func NewFIR(kernel []float64) (*Lowpass, error) {
	if len(kernel)%2 == 0 {
		return nil, fmt.Errorf("%w: kernel length %d (must be odd)", ErrInvalidDesign, len(kernel))
	}
	l := &Lowpass{kernel: append([]float64(nil), kernel...)}
	if len(kernel) >= minKernelForFFT {
		l.fft = newFFTConvolver(l.kernel)
	}
	return l, nil
}

// Kernel returns the filter coefficients. The slice must not be modified.
func (l *Lowpass) Kernel() []float64 {
	return l.kernel
}

// Delay returns the group delay of the kernel in samples.
func (l *Lowpass) Delay() int {
	return (len(l.kernel) - 1) / 2
}

// Apply filters x into a new slice of the same length.
func (l *Lowpass) Apply(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	need := len(x) + len(l.kernel) - 1
	if cap(l.padded) < need {
		l.padded = make([]float64, need)
	}
	l.padded = l.padded[:need]
	clear(l.padded)
	copy(l.padded[l.Delay():], x)

	out := make([]float64, len(x))
	if l.fft != nil {
		l.fft.convolve(out, l.padded)
	} else {
		simdops.Float64Ops().ConvolveValid(out, l.padded, l.kernel)
	}
	return out
}

package filter

import (
	"github.com/tphakala/go-lpc-speech/internal/simdops"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// minKernelForFFT is the kernel length from which overlap-save beats
	// direct SIMD convolution.
	minKernelForFFT = 400

	minFFTBlockSize = 512
)

// fftConvolver performs overlap-save "valid" convolution for long kernels:
// y[n] = sum_k x[n+k] h[k].
//
// Each block of fftSize input samples yields fftSize-len(h)+1 outputs; the
// first len(h)-1 outputs of the circular convolution are discarded.
type fftConvolver struct {
	fft       *fourier.FFT
	fftSize   int
	blockSize int
	kernelLen int
	scale     float64

	kernelFFT []complex128
	block     []float64
	blockFFT  []complex128
	product   []complex128
	result    []float64
}

func newFFTConvolver(kernel []float64) *fftConvolver {
	n := len(kernel)
	if n == 0 {
		return nil
	}

	size := minFFTBlockSize
	for size < 2*n {
		size *= 2
	}
	fft := fourier.NewFFT(size)

	// Circular convolution flips the kernel; pre-flipping turns it back
	// into the correlation form above.
	padded := make([]float64, size)
	for i := range n {
		padded[i] = kernel[n-1-i]
	}
	bins := size/2 + 1

	return &fftConvolver{
		fft:       fft,
		fftSize:   size,
		blockSize: size - n + 1,
		kernelLen: n,
		scale:     1 / float64(size),
		kernelFFT: fft.Coefficients(nil, padded),
		block:     make([]float64, size),
		blockFFT:  make([]complex128, bins),
		product:   make([]complex128, bins),
		result:    make([]float64, size),
	}
}

// convolve writes len(signal)-kernelLen+1 outputs to dst.
func (c *fftConvolver) convolve(dst, signal []float64) {
	outLen := len(signal) - c.kernelLen + 1
	if outLen <= 0 || len(dst) < outLen {
		return
	}
	overlap := c.kernelLen - 1
	ops := simdops.Float64Ops()

	for out := 0; out < outLen; {
		clear(c.block)
		copy(c.block, signal[out:min(out+c.fftSize, len(signal))])

		c.blockFFT = c.fft.Coefficients(c.blockFFT, c.block)
		ops.MulComplex(c.product, c.blockFFT, c.kernelFFT)
		c.result = c.fft.Sequence(c.result, c.product)
		ops.Scale(c.result, c.result, c.scale)

		valid := min(c.blockSize, outLen-out)
		copy(dst[out:out+valid], c.result[overlap:overlap+valid])
		out += valid
	}
}

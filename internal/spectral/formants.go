package spectral

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// minFormantRadius is the pole radius below which a resonance is too broad
// to count as a formant.
const minFormantRadius = 0.9

// ErrInvalidSampleRate indicates a sample rate that is not a positive
// finite number.
var ErrInvalidSampleRate = errors.New("invalid sample rate")

// Formant is one resonance of an all-pole filter.
type Formant struct {
	// Frequency is the pole angle in Hz.
	Frequency float64

	// Bandwidth is the 3 dB bandwidth in Hz implied by the pole radius.
	Bandwidth float64
}

// Formants locates the resonances of the filter with reflection
// coefficients k. The roots of A(z) are the eigenvalues of its companion
// matrix; every root in the upper half plane with radius above 0.9 yields
// a formant at angle*fs/2pi with bandwidth -2*ln(radius)*fs/2pi. The
// result is sorted by frequency and is empty when no pole qualifies.
func Formants(k []float64, sampleRate float64) ([]Formant, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 1) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidSampleRate, sampleRate)
	}
	for i, v := range k {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: k%d = %g", ErrInvalidCoefficients, i+1, v)
		}
	}
	if len(k) == 0 {
		return nil, nil
	}

	roots, err := polynomialRoots(ParcorToLPC(k))
	if err != nil {
		return nil, err
	}

	scale := sampleRate / (2 * math.Pi)
	var out []Formant
	for _, z := range roots {
		r := math.Hypot(real(z), imag(z))
		if imag(z) <= 0 || r <= minFormantRadius {
			continue
		}
		out = append(out, Formant{
			Frequency: math.Atan2(imag(z), real(z)) * scale,
			Bandwidth: -2 * math.Log(r) * scale,
		})
	}
	slices.SortFunc(out, func(a, b Formant) int {
		return cmp.Compare(a.Frequency, b.Frequency)
	})
	return out, nil
}

// polynomialRoots returns the roots in z of z^N + a[1]z^(N-1) + ... + a[N]
// for monic a, as the eigenvalues of the companion matrix.
func polynomialRoots(a []float64) ([]complex128, error) {
	n := len(a) - 1
	c := mat.NewDense(n, n, nil)
	for j := range n {
		c.Set(0, j, -a[j+1])
	}
	for i := 1; i < n; i++ {
		c.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if !eig.Factorize(c, mat.EigenNone) {
		return nil, fmt.Errorf("%w: companion matrix eigendecomposition did not converge", ErrInvalidCoefficients)
	}
	return eig.Values(nil), nil
}

// Package spectral converts between the three equivalent descriptions of an
// all-pole filter: reflection coefficients (PARCOR), direct-form prediction
// coefficients (LPC) and line spectral pairs (LSP).
//
// All functions are pure and allocate their results, so they may be called
// concurrently for different frames.
//
// Conventions:
//
//	PARCOR: k[0..N-1], each in (-1, 1) for a stable filter
//	LPC:    a[0..N] with a[0] == 1, A(z) = 1 + a[1]z^-1 + ... + a[N]z^-N
//	LSP:    N angles in (0, pi), strictly increasing, alternating between
//	        the roots of the symmetric (P) and antisymmetric (Q) polynomials
package spectral

import (
	"errors"
	"fmt"
	"math"
)

// stabilityMargin is the smallest acceptable 1 - k^2 during step-down.
const stabilityMargin = 1e-12

var (
	// ErrUnstableCoefficients indicates a reflection coefficient at or
	// beyond unit magnitude.
	ErrUnstableCoefficients = errors.New("unstable coefficients")

	// ErrInsufficientRoots indicates the LSP root search found fewer roots
	// than the filter order.
	ErrInsufficientRoots = errors.New("insufficient LSP roots")

	// ErrOddOrder indicates an LSP conversion on an odd filter order.
	ErrOddOrder = errors.New("LSP conversion requires an even order")

	// ErrInvalidCoefficients indicates malformed input such as an empty or
	// non-monic LPC vector.
	ErrInvalidCoefficients = errors.New("invalid coefficients")
)

// ParcorToLPC expands reflection coefficients into monic direct-form
// coefficients by step-up recursion. The result has len(k)+1 entries.
//
// Each order step builds the new array from a full snapshot of the previous
// one, so no entry is read after it has been overwritten.
func ParcorToLPC(k []float64) []float64 {
	m := len(k)
	a := make([]float64, m+1)
	prev := make([]float64, m+1)
	a[0] = 1
	prev[0] = 1

	for i := 1; i <= m; i++ {
		ki := k[i-1]
		a[i] = ki
		for j := 1; j < i; j++ {
			a[j] = prev[j] + ki*prev[i-j]
		}
		copy(prev, a)
	}
	return a
}

// LPCToParcor recovers reflection coefficients from monic direct-form
// coefficients by step-down recursion; it inverts [ParcorToLPC].
//
// It fails with ErrUnstableCoefficients when an intermediate coefficient
// reaches unit magnitude, which means the filter is not minimum phase.
func LPCToParcor(a []float64) ([]float64, error) {
	if err := checkMonic(a); err != nil {
		return nil, err
	}

	m := len(a) - 1
	k := make([]float64, m)
	cur := append([]float64(nil), a...)
	next := make([]float64, m+1)

	for i := m; i >= 1; i-- {
		ki := cur[i]
		den := 1 - ki*ki
		if math.IsNaN(ki) || den <= stabilityMargin {
			return nil, fmt.Errorf("%w: |k%d| = %g", ErrUnstableCoefficients, i, math.Abs(ki))
		}
		k[i-1] = ki

		next[0] = 1
		for j := 1; j < i; j++ {
			next[j] = (cur[j] - ki*cur[i-j]) / den
		}
		cur, next = next, cur
	}
	return k, nil
}

// IsStable reports whether every reflection coefficient lies strictly
// inside (-1, 1).
func IsStable(k []float64) bool {
	for _, v := range k {
		if !(math.Abs(v) < 1) {
			return false
		}
	}
	return true
}

// checkMonic validates an LPC vector.
func checkMonic(a []float64) error {
	if len(a) == 0 {
		return fmt.Errorf("%w: empty LPC vector", ErrInvalidCoefficients)
	}
	if a[0] != 1 {
		return fmt.Errorf("%w: a[0] = %g, want 1", ErrInvalidCoefficients, a[0])
	}
	return nil
}

package spectral

import (
	"fmt"
	"math"
)

const (
	// bisectionSteps is the fixed number of interval halvings applied to
	// every bracketed root.
	bisectionSteps = 4

	// DefaultGridPoints is the root-search resolution used when callers have
	// no better estimate.
	DefaultGridPoints = 1024
)

// LPCToLSP converts monic LPC coefficients of even order N into N line
// spectral pair angles (radians), using the Chebyshev-domain root search of
// Kabal and Ramachandran.
//
// The LPC polynomial is split into the reduced symmetric and antisymmetric
// polynomials P and Q (trivial roots at z = +1 and z = -1 removed). The
// search walks gridPoints angles from 0 to pi evaluating only the active
// polynomial; each sign change is refined with a fixed number of bisection
// steps, recorded, and the search switches to the other polynomial.
//
// It fails with ErrInsufficientRoots when the grid is exhausted before N
// roots are found; retrying with a finer grid often helps.
func LPCToLSP(a []float64, gridPoints int) ([]float64, error) {
	if err := checkMonic(a); err != nil {
		return nil, err
	}
	m := len(a) - 1
	if m == 0 {
		return []float64{}, nil
	}
	if m%2 != 0 {
		return nil, fmt.Errorf("%w: order %d", ErrOddOrder, m)
	}
	if gridPoints < 1 {
		return nil, fmt.Errorf("%w: grid of %d points", ErrInvalidCoefficients, gridPoints)
	}

	p, q := reducedPolynomials(a)
	polys := [2][]float64{p, q}
	active := 0

	lsp := make([]float64, 0, m)
	xPrev := 1.0
	yPrev := chebyshev(xPrev, polys[active])

	for i := 1; i <= gridPoints && len(lsp) < m; i++ {
		xCurr := math.Cos(math.Pi * float64(i) / float64(gridPoints))
		yCurr := chebyshev(xCurr, polys[active])

		if yCurr*yPrev > 0 {
			yPrev = yCurr
			xPrev = xCurr
			continue
		}

		root := bisect(polys[active], xCurr, xPrev)
		lsp = append(lsp, math.Acos(root))

		active ^= 1
		yPrev = chebyshev(xCurr, polys[active])
		xPrev = xCurr
	}

	if len(lsp) < m {
		return nil, fmt.Errorf("%w: found %d of %d at %d grid points",
			ErrInsufficientRoots, len(lsp), m, gridPoints)
	}
	return lsp, nil
}

// reducedPolynomials builds the half-order P and Q polynomials in the
// Chebyshev basis from the LPC coefficients. The last coefficient of each
// is halved to match the evaluation in chebyshev.
func reducedPolynomials(a []float64) (p, q []float64) {
	m := len(a) - 1
	n := m / 2

	p = make([]float64, n+1)
	q = make([]float64, n+1)
	p[0] = 1
	q[0] = 1
	for i := 1; i <= n; i++ {
		p[i] = (a[i] + a[m+1-i]) - p[i-1]
		q[i] = (a[i] - a[m+1-i]) + q[i-1]
	}
	p[n] *= 0.5
	q[n] *= 0.5
	return p, q
}

// chebyshev evaluates the series c at x with the three-term recurrence
// T[k+1](x) = 2x T[k](x) - T[k-1](x), avoiding explicit powers of x.
func chebyshev(x float64, c []float64) float64 {
	n := len(c) - 1
	var d1, d2 float64
	x2 := 2 * x
	for i := range n {
		d1, d2 = x2*d1-d2+c[i], d1
	}
	return x*d1 - d2 + c[n]
}

// bisect refines a sign change of c bracketed by [low, high].
func bisect(c []float64, low, high float64) float64 {
	for range bisectionSteps {
		mid := (low + high) * 0.5
		if chebyshev(mid, c)*chebyshev(low, c) <= 0 {
			high = mid
		} else {
			low = mid
		}
	}
	return (low + high) * 0.5
}

// LSPToLPC reconstructs monic LPC coefficients from an even number of line
// spectral pair angles.
//
// Angles are consumed in pairs: the even-indexed angle contributes the
// factor 1 - 2cos(w)z^-1 + z^-2 to P and the odd-indexed one the same form
// to Q. P is then multiplied by 1 + z^-1, Q by 1 - z^-1, and the two are
// averaged. Every polynomial product writes into a fresh buffer.
func LSPToLPC(lsp []float64) ([]float64, error) {
	m := len(lsp)
	if m%2 != 0 {
		return nil, fmt.Errorf("%w: %d angles", ErrOddOrder, m)
	}

	p := newPolyBuffer(m + 2)
	q := newPolyBuffer(m + 2)

	for i := 0; i < m; i += 2 {
		p.mulQuadratic(-2 * math.Cos(lsp[i]))
		q.mulQuadratic(-2 * math.Cos(lsp[i+1]))
	}
	p.mulLinear(1)
	q.mulLinear(-1)

	a := make([]float64, m+1)
	a[0] = 1
	for i := 1; i <= m; i++ {
		a[i] = 0.5 * (p.cur[i] + q.cur[i])
	}
	return a, nil
}

// polyBuffer multiplies a polynomial in z^-1 by low-order factors using a
// pair of buffers: the old coefficients are only read, the new ones only
// written, then the two are swapped.
type polyBuffer struct {
	cur    []float64
	next   []float64
	degree int
}

func newPolyBuffer(capacity int) *polyBuffer {
	b := &polyBuffer{
		cur:  make([]float64, capacity),
		next: make([]float64, capacity),
	}
	b.cur[0] = 1
	return b
}

// coeff returns the coefficient of z^-j, or 0 outside the polynomial.
func (b *polyBuffer) coeff(j int) float64 {
	if j < 0 || j > b.degree {
		return 0
	}
	return b.cur[j]
}

// mulQuadratic multiplies by 1 + g z^-1 + z^-2.
func (b *polyBuffer) mulQuadratic(g float64) {
	degree := b.degree + 2
	for j := 0; j <= degree; j++ {
		b.next[j] = b.coeff(j) + g*b.coeff(j-1) + b.coeff(j-2)
	}
	b.swap(degree)
}

// mulLinear multiplies by 1 + s z^-1.
func (b *polyBuffer) mulLinear(s float64) {
	degree := b.degree + 1
	for j := 0; j <= degree; j++ {
		b.next[j] = b.coeff(j) + s*b.coeff(j-1)
	}
	b.swap(degree)
}

func (b *polyBuffer) swap(degree int) {
	b.cur, b.next = b.next, b.cur
	b.degree = degree
}

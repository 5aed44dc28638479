package synth

import "math"

// Params describes one synthesis step.
type Params struct {
	// K holds the reflection coefficients, each expected in (-1, 1).
	K []float64

	// Period is the pitch period in samples; 0 means unvoiced.
	Period int

	// Gain scales the excitation before filtering.
	Gain float64
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	p.K = append([]float64(nil), p.K...)
	return p
}

// Lerp blends a toward b: coefficients and gain element-wise as
// a*(1-t) + b*t, the pitch period rounded to the nearest sample.
// Lerp(a, b, 0) equals a and Lerp(a, b, 1) equals b.
//
// Between the endpoints a coefficient missing from the shorter set is
// treated as 0; at t = 0 and t = 1 the result has the order of a and b
// respectively.
func Lerp(a, b Params, t float64) Params {
	var p Params
	LerpInto(&p, a, b, t)
	return p
}

// LerpInto is Lerp writing into dst, reusing the capacity of dst.K.
func LerpInto(dst *Params, a, b Params, t float64) {
	switch t {
	case 0:
		copyInto(dst, a)
		return
	case 1:
		copyInto(dst, b)
		return
	}

	mt := 1 - t
	dst.K = resize(dst.K, max(len(a.K), len(b.K)))
	for i := range dst.K {
		dst.K[i] = at(a.K, i)*mt + at(b.K, i)*t
	}
	dst.Period = int(math.Round(float64(a.Period)*mt + float64(b.Period)*t))
	dst.Gain = a.Gain*mt + b.Gain*t
}

func copyInto(dst *Params, p Params) {
	dst.K = resize(dst.K, len(p.K))
	copy(dst.K, p.K)
	dst.Period = p.Period
	dst.Gain = p.Gain
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}

func at(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// Lattice is an all-pole lattice synthesizer with persistent stage memory.
// The memory carries over between calls, which keeps the output continuous
// across parameter changes; call Reset to start a new stream.
//
// A Lattice is not safe for concurrent use.
type Lattice struct {
	x   []float64
	exc *Excitation
}

// NewLattice returns a lattice for filters of up to order stages, with its
// excitation seeded by seed.
func NewLattice(order int, seed uint16) *Lattice {
	return &Lattice{
		x:   make([]float64, max(order, 0)+1),
		exc: NewExcitation(seed),
	}
}

// Order returns the number of lattice stages.
func (l *Lattice) Order() int {
	return len(l.x) - 1
}

// Excitation returns the lattice's excitation source.
func (l *Lattice) Excitation() *Excitation {
	return l.exc
}

// Reset clears the stage memory and restarts the excitation.
func (l *Lattice) Reset() {
	clear(l.x)
	l.exc.Reset()
}

// Sample produces one output sample from p.
func (l *Lattice) Sample(p *Params) float64 {
	return l.Filter(l.exc.Next(p.Period)*p.Gain, p.K)
}

// Render fills dst with consecutive samples of p.
func (l *Lattice) Render(dst []float64, p *Params) {
	for i := range dst {
		dst[i] = l.Filter(l.exc.Next(p.Period)*p.Gain, p.K)
	}
}

// Filter runs excitation u through the lattice with coefficients k and
// returns the output sample. Stages are processed from the highest index
// down; coefficients beyond the lattice order are ignored.
func (l *Lattice) Filter(u float64, k []float64) float64 {
	n := min(len(k), len(l.x)-1)
	x := l.x
	for i := n - 1; i >= 0; i-- {
		u -= k[i] * x[i]
		x[i+1] = x[i] + k[i]*u
	}
	x[0] = u
	return u
}

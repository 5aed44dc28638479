package filter

// PreEmphasizer applies y[i] = x[i] - a*x[i-1], carrying x[i-1] across
// calls so a stream can be processed in arbitrary chunks.
type PreEmphasizer struct {
	a    float64
	prev float64
}

// NewPreEmphasizer returns a pre-emphasis filter with coefficient a.
// a = 0 passes the signal through unchanged.
func NewPreEmphasizer(a float64) *PreEmphasizer {
	return &PreEmphasizer{a: a}
}

// Process filters x into dst, which may alias x, and returns dst[:len(x)].
func (p *PreEmphasizer) Process(dst, x []float64) []float64 {
	dst = dst[:len(x)]
	for i, v := range x {
		dst[i] = v - p.a*p.prev
		p.prev = v
	}
	return dst
}

// SetPrevious sets the sample treated as x[-1] by the next Process call.
func (p *PreEmphasizer) SetPrevious(x float64) {
	p.prev = x
}

// Reset forgets the previous input sample.
func (p *PreEmphasizer) Reset() {
	p.prev = 0
}

// DeEmphasizer is the inverse of PreEmphasizer: y[i] = x[i] + a*y[i-1].
type DeEmphasizer struct {
	a float64
	y float64
}

// NewDeEmphasizer returns a de-emphasis filter with coefficient a.
func NewDeEmphasizer(a float64) *DeEmphasizer {
	return &DeEmphasizer{a: a}
}

// Process filters x into dst, which may alias x, and returns dst[:len(x)].
func (d *DeEmphasizer) Process(dst, x []float64) []float64 {
	dst = dst[:len(x)]
	for i, v := range x {
		d.y = v + d.a*d.y
		dst[i] = d.y
	}
	return dst
}

// Reset clears the filter memory.
func (d *DeEmphasizer) Reset() {
	d.y = 0
}

// PreEmphasis returns a pre-emphasized copy of x.
func PreEmphasis(x []float64, a float64) []float64 {
	return NewPreEmphasizer(a).Process(make([]float64, len(x)), x)
}

// DeEmphasis returns a de-emphasized copy of x.
func DeEmphasis(x []float64, a float64) []float64 {
	return NewDeEmphasizer(a).Process(make([]float64, len(x)), x)
}

package lpc

import (
	"github.com/tphakala/go-lpc-speech/internal/synth"
)

// Params describes one synthesis step: reflection coefficients K, pitch
// period in samples (0 for unvoiced) and excitation gain.
type Params = synth.Params

// Lerp blends a toward b by t in [0, 1]. Coefficients and gain are
// interpolated linearly and the period is rounded to the nearest sample;
// Lerp(a, b, 0) equals a and Lerp(a, b, 1) equals b.
func Lerp(a, b Params, t float64) Params {
	return synth.Lerp(a, b, t)
}

// Synthesizer renders speech from Params with an all-pole lattice filter.
// Filter memory persists across calls, so parameters can change between
// samples without discontinuities.
//
// A Synthesizer is not safe for concurrent use.
type Synthesizer struct {
	lattice *synth.Lattice
	blend   Params
}

// NewSynthesizer returns a synthesizer for up to order coefficients. seed
// initializes the noise generator; 0 selects the default seed.
func NewSynthesizer(order int, seed uint16) *Synthesizer {
	return &Synthesizer{lattice: synth.NewLattice(order, seed)}
}

// Order returns the number of lattice stages.
func (s *Synthesizer) Order() int {
	return s.lattice.Order()
}

// Sample produces the next output sample.
func (s *Synthesizer) Sample(p *Params) float64 {
	return s.lattice.Sample(p)
}

// Render fills dst with consecutive samples of p.
func (s *Synthesizer) Render(dst []float64, p *Params) {
	s.lattice.Render(dst, p)
}

// RenderFrames renders hop samples per frame. With interpolate set, sample
// i of frame n uses Lerp(frames[n-1], frames[n], i/hop) so parameters glide
// from one frame to the next; the first frame is rendered as is.
func (s *Synthesizer) RenderFrames(frames []Params, hop int, interpolate bool) []float64 {
	if hop <= 0 {
		return nil
	}
	out := make([]float64, len(frames)*hop)
	for n := range frames {
		dst := out[n*hop : (n+1)*hop]
		if !interpolate || n == 0 {
			s.lattice.Render(dst, &frames[n])
			continue
		}
		for i := range dst {
			synth.LerpInto(&s.blend, frames[n-1], frames[n], float64(i)/float64(hop))
			dst[i] = s.lattice.Sample(&s.blend)
		}
	}
	return out
}

// Reset clears the filter memory and restarts the excitation.
func (s *Synthesizer) Reset() {
	s.lattice.Reset()
}

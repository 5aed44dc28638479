// Package synth turns reflection coefficients back into sound: an
// excitation source drives a recursive lattice filter one sample at a time.
//
// Nothing in this package returns errors. Given coefficients with magnitude
// below one the output stays bounded; anything else is the caller's
// responsibility.
package synth

const (
	// Emphasis is the leak of the glottal pulse integrator. It matches the
	// usual pre-emphasis constant so the pulse shape compensates for it.
	Emphasis = 0.9375

	// DefaultSeed is the initial noise register value.
	DefaultSeed uint16 = 1

	// noiseTaps is the Galois feedback mask for x^16 + x^14 + x^13 + x^11 + 1,
	// a maximal-length polynomial (period 65535).
	noiseTaps uint16 = 0xb400
)

// Excitation generates the per-sample driving signal of the lattice.
//
// With a positive pitch period it emits a once-per-period pulse shaped by a
// leaky integrator, approximating differentiated glottal flow. With period
// 0 it emits +1/-1 from a 16-bit linear-feedback shift register.
//
// An Excitation is deterministic for a given seed and must not be shared
// between goroutines.
type Excitation struct {
	y     float64
	phase int
	noise uint16
	seed  uint16
}

// NewExcitation returns an excitation source whose noise register starts at
// seed. A zero seed would lock the register, so it is replaced by
// DefaultSeed.
func NewExcitation(seed uint16) *Excitation {
	e := &Excitation{}
	e.Seed(seed)
	return e
}

// Seed resets the generator and starts the noise register at seed.
func (e *Excitation) Seed(seed uint16) {
	if seed == 0 {
		seed = DefaultSeed
	}
	e.seed = seed
	e.Reset()
}

// Reset returns the generator to its initial state: zero phase, empty
// integrator and the configured seed.
func (e *Excitation) Reset() {
	e.y = 0
	e.phase = 0
	e.noise = e.seed
}

// Phase returns the position within the current pitch period.
func (e *Excitation) Phase() int {
	return e.phase
}

// Next advances the generator by one sample and returns its value.
// period is the pitch period in samples; 0 selects noise.
func (e *Excitation) Next(period int) float64 {
	if period > 0 {
		return e.voiced(period)
	}
	return e.unvoiced()
}

func (e *Excitation) voiced(period int) float64 {
	if e.phase == 0 {
		e.y += 1 / Emphasis
	}
	u := e.y
	e.y *= Emphasis

	e.phase++
	if e.phase >= period {
		e.phase = 0
	}
	return u
}

func (e *Excitation) unvoiced() float64 {
	lsb := e.noise & 1
	e.noise >>= 1
	if lsb != 0 {
		e.noise ^= noiseTaps
	}
	if e.noise&1 != 0 {
		return 1
	}
	return -1
}

// Package filter provides the FIR lowpass and first-order emphasis filters
// used around LPC analysis and resynthesis.
package filter

import (
	"math"

	"gonum.org/v1/gonum/dsp/window"
)

// Window tapers a kernel in place and returns it. The window functions of
// gonum.org/v1/gonum/dsp/window satisfy it directly.
type Window func(seq []float64) []float64

// Hamming is the default design window.
var Hamming Window = window.Hamming

// Bessel I0 approximation from Abramowitz & Stegun 9.8.1 and 9.8.2.
const (
	besselSmallArg = 3.75

	besselI0Coeff1 = 3.5156229
	besselI0Coeff2 = 3.0899424
	besselI0Coeff3 = 1.2067492
	besselI0Coeff4 = 0.2659732
	besselI0Coeff5 = 0.360768e-1
	besselI0Coeff6 = 0.45813e-2

	besselI0Asymp0 = 0.39894228
	besselI0Asymp1 = 0.1328592e-1
	besselI0Asymp2 = 0.225319e-2
	besselI0Asymp3 = -0.157565e-2
	besselI0Asymp4 = 0.916281e-2
	besselI0Asymp5 = -0.2057706e-1
	besselI0Asymp6 = 0.2635537e-1
	besselI0Asymp7 = -0.1647633e-1
	besselI0Asymp8 = 0.392377e-2
)

// Kaiser & Schafer beta formula.
const (
	kaiserAttHigh   = 50.0
	kaiserAttMedium = 21.0
	kaiserHighSlope = 0.1102
	kaiserHighShift = 8.7
	kaiserMidCoeff  = 0.5842
	kaiserMidPower  = 0.4
	kaiserMidSlope  = 0.07886
)

// besselI0 is the modified Bessel function of the first kind, order zero.
func besselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < besselSmallArg {
		t := x / besselSmallArg
		t *= t
		return 1 + t*(besselI0Coeff1+t*(besselI0Coeff2+t*(besselI0Coeff3+
			t*(besselI0Coeff4+t*(besselI0Coeff5+t*besselI0Coeff6)))))
	}

	t := besselSmallArg / ax
	p := besselI0Asymp0 + t*(besselI0Asymp1+t*(besselI0Asymp2+
		t*(besselI0Asymp3+t*(besselI0Asymp4+t*(besselI0Asymp5+
			t*(besselI0Asymp6+t*(besselI0Asymp7+t*besselI0Asymp8)))))))
	return math.Exp(ax) * p / math.Sqrt(ax)
}

// KaiserBeta returns the Kaiser shape parameter that reaches the given
// stopband attenuation in dB.
func KaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserAttHigh:
		return kaiserHighSlope * (attenuation - kaiserHighShift)
	case attenuation >= kaiserAttMedium:
		d := attenuation - kaiserAttMedium
		return kaiserMidCoeff*math.Pow(d, kaiserMidPower) + kaiserMidSlope*d
	default:
		return 0
	}
}

// Kaiser returns a Kaiser window with shape parameter beta.
//
//	w[n] = I0(beta * sqrt(1 - ((n - a)/a)^2)) / I0(beta),  a = (N-1)/2
func Kaiser(beta float64) Window {
	return func(seq []float64) []float64 {
		n := len(seq)
		if n < 2 {
			return seq
		}
		alpha := float64(n-1) / 2
		norm := besselI0(beta)
		for i := range seq {
			x := (float64(i) - alpha) / alpha
			seq[i] *= besselI0(beta*math.Sqrt(max(1-x*x, 0))) / norm
		}
		return seq
	}
}

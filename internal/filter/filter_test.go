package filter

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-lpc-speech/internal/testutil"
	"github.com/tphakala/simd/f64"
)

const (
	testRate    = 16000.0
	testTaps    = 101
	testCutoff  = 0.1
	passbandTol = 0.01
	stopbandMax = 0.01
	fftPathTol  = 1e-9
)

func TestDesignLowpass_UnityDCAndSymmetric(t *testing.T) {
	for _, w := range []Window{nil, Hamming, Kaiser(KaiserBeta(60))} {
		h, err := DesignLowpass(testTaps, testCutoff, w)
		require.NoError(t, err)
		require.Len(t, h, testTaps)

		assert.InDelta(t, 1.0, f64.Sum(h), testutil.DefaultTolerance)
		for i := range h {
			assert.InDelta(t, h[i], h[len(h)-1-i], testutil.DefaultTolerance, "tap %d", i)
		}
	}
}

func TestDesignLowpass_Response(t *testing.T) {
	h, err := DesignLowpass(testTaps, testCutoff, Hamming)
	require.NoError(t, err)

	for _, f := range []float64{0, 0.01, 0.03, 0.05} {
		assert.InDelta(t, 1.0, Magnitude(h, f), passbandTol, "passband f=%g", f)
	}
	for _, f := range []float64{0.2, 0.3, 0.45} {
		assert.Less(t, Magnitude(h, f), stopbandMax, "stopband f=%g", f)
	}
}

func TestDesignLowpass_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		taps   int
		cutoff float64
	}{
		{"too_short", 1, 0.1},
		{"even", 100, 0.1},
		{"too_long", maxTaps + 2, 0.1},
		{"zero_cutoff", 31, 0},
		{"nyquist_cutoff", 31, 0.5},
		{"nan_cutoff", 31, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DesignLowpass(tt.taps, tt.cutoff, nil)
			require.ErrorIs(t, err, ErrInvalidDesign)
		})
	}
}

func TestKaiser(t *testing.T) {
	const beta = 5.0
	w := Kaiser(beta)(ones(9))

	assert.InDelta(t, 1.0, w[4], testutil.DefaultTolerance, "peak at center")
	assert.InDelta(t, 1/besselI0(beta), w[0], 1e-12)
	assert.InDelta(t, w[0], w[8], testutil.DefaultTolerance)
	assert.Equal(t, []float64{3}, Kaiser(beta)([]float64{3}), "single tap is untouched")
}

func TestKaiserBeta(t *testing.T) {
	assert.Zero(t, KaiserBeta(20))
	assert.InDelta(t, 0.1102*(60-8.7), KaiserBeta(60), testutil.DefaultTolerance)
	assert.InDelta(t, 0.5842*math.Pow(9, 0.4)+0.07886*9, KaiserBeta(30), testutil.DefaultTolerance)
}

func TestBesselI0(t *testing.T) {
	tests := []struct {
		x, want, tol float64
	}{
		{0, 1, 1e-15},
		{1, 1.266065848, 1e-7},
		{3.75, 9.118945994, 1e-6},
		{5, 27.23987183, 1e-5},
		{-1, 1.266065848, 1e-7},
	}
	for _, tt := range tests {
		assert.InEpsilon(t, tt.want, besselI0(tt.x), tt.tol+1e-12, "x=%g", tt.x)
	}
}

func TestLowpass_SameLengthAndAligned(t *testing.T) {
	lp, err := NewLowpass(1000, testRate, testTaps)
	require.NoError(t, err)

	x := testutil.Sine(2000, 200, testRate, 1)
	y := lp.Apply(x)
	require.Len(t, y, len(x))

	// A passband tone comes through in phase once the edges are cleared.
	d := lp.Delay()
	for i := d; i < len(x)-d; i++ {
		require.InDelta(t, x[i], y[i], 0.02, "sample %d", i)
	}
}

func TestLowpass_AttenuatesStopband(t *testing.T) {
	lp, err := NewLowpass(1000, testRate, testTaps)
	require.NoError(t, err)

	y := lp.Apply(testutil.Sine(4000, 4000, testRate, 1))
	d := lp.Delay()
	assert.Less(t, testutil.PeakAbs(y[d:len(y)-d]), stopbandMax)
}

func TestLowpass_FFTPathMatchesDirect(t *testing.T) {
	h, err := DesignLowpass(2*minKernelForFFT+1, 0.05, Hamming)
	require.NoError(t, err)

	lp, err := NewFIR(h)
	require.NoError(t, err)
	require.NotNil(t, lp.fft, "long kernel must use overlap-save")

	rng := rand.New(rand.NewPCG(11, 12))
	x := make([]float64, 3000)
	for i := range x {
		x[i] = 2*rng.Float64() - 1
	}
	got := lp.Apply(x)

	padded := make([]float64, len(x)+len(h)-1)
	copy(padded[lp.Delay():], x)
	want := make([]float64, len(x))
	f64.ConvolveValid(want, padded, h)

	testutil.AssertSliceInDelta(t, want, got, fftPathTol)
}

func TestLowpass_ReusesBuffers(t *testing.T) {
	lp, err := NewLowpass(1000, testRate, 31)
	require.NoError(t, err)

	x := testutil.Sine(500, 300, testRate, 1)
	first := lp.Apply(x)
	lp.Apply(testutil.Sine(100, 5000, testRate, 3))
	assert.Equal(t, first, lp.Apply(x))
	assert.Nil(t, lp.Apply(nil))
}

func TestNewWindowedLowpass_KaiserUsesFFT(t *testing.T) {
	lp, err := NewWindowedLowpass(900, testRate, 401, Kaiser(KaiserBeta(60)))
	require.NoError(t, err)
	require.Len(t, lp.Kernel(), 401)
	require.NotNil(t, lp.fft)

	h := lp.Kernel()
	assert.InDelta(t, 1.0, Magnitude(h, 0), passbandTol)
	assert.InDelta(t, 1.0, Magnitude(h, 300/testRate), passbandTol)
	assert.Less(t, Magnitude(h, 4000/testRate), 2e-3)

	x := testutil.Sine(2000, 200, testRate, 1)
	y := lp.Apply(x)
	require.Len(t, y, len(x))
	d := lp.Delay()
	testutil.AssertSliceInDelta(t, x[d:len(x)-d], y[d:len(y)-d], 2*passbandTol)
}

func TestNewLowpass_Invalid(t *testing.T) {
	_, err := NewLowpass(1000, 0, 31)
	require.ErrorIs(t, err, ErrInvalidDesign)

	_, err = NewLowpass(9000, testRate, 31)
	require.ErrorIs(t, err, ErrInvalidDesign)

	_, err = NewWindowedLowpass(900, math.NaN(), 401, Kaiser(8))
	require.ErrorIs(t, err, ErrInvalidDesign)

	_, err = NewFIR([]float64{0.5, 0.5})
	require.ErrorIs(t, err, ErrInvalidDesign)
}

func TestEmphasis_RoundTrip(t *testing.T) {
	x := testutil.Sine(1000, 440, testRate, 0.8)

	y := DeEmphasis(PreEmphasis(x, 0.9375), 0.9375)
	testutil.AssertSliceInDelta(t, x, y, testutil.DefaultTolerance)
}

func TestPreEmphasis_Values(t *testing.T) {
	got := PreEmphasis([]float64{1, 2, 3}, 0.5)
	assert.Equal(t, []float64{1, 1.5, 2}, got)

	assert.Equal(t, []float64{1, 2, 3}, PreEmphasis([]float64{1, 2, 3}, 0))
}

func TestEmphasis_StreamingMatchesOneShot(t *testing.T) {
	x := testutil.Sine(999, 300, testRate, 1)
	want := PreEmphasis(x, 0.9)

	p := NewPreEmphasizer(0.9)
	var got []float64
	for start := 0; start < len(x); start += 97 {
		chunk := x[start:min(start+97, len(x))]
		got = append(got, p.Process(make([]float64, len(chunk)), chunk)...)
	}
	assert.Equal(t, want, got)

	d := NewDeEmphasizer(0.9)
	var back []float64
	for start := 0; start < len(got); start += 50 {
		chunk := got[start:min(start+50, len(got))]
		back = append(back, d.Process(make([]float64, len(chunk)), chunk)...)
	}
	testutil.AssertSliceInDelta(t, x, back, testutil.DefaultTolerance)
}

func TestEmphasis_InPlaceAndReset(t *testing.T) {
	x := []float64{1, 1, 1}
	p := NewPreEmphasizer(0.5)
	p.Process(x, x)
	assert.Equal(t, []float64{1, 0.5, 0.5}, x)

	p.Reset()
	assert.Equal(t, []float64{2}, p.Process(make([]float64, 1), []float64{2}))

	d := NewDeEmphasizer(0.5)
	d.Process(make([]float64, 1), []float64{4})
	d.Reset()
	assert.Equal(t, []float64{1}, d.Process(make([]float64, 1), []float64{1}))
}

func TestPreEmphasizer_SetPrevious(t *testing.T) {
	x := []float64{4, 2, 6}
	p := NewPreEmphasizer(0.5)
	p.SetPrevious(2)
	assert.Equal(t, []float64{3, 0, 5}, p.Process(make([]float64, 3), x))

	// Seeding with the sample before a chunk matches streaming through it.
	whole := PreEmphasis([]float64{2, 4, 2, 6}, 0.5)
	p.SetPrevious(2)
	assert.Equal(t, whole[1:], p.Process(make([]float64, 3), x))
}

func ones(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

func BenchmarkLowpassApply(b *testing.B) {
	lp, err := NewLowpass(900, testRate, testTaps)
	if err != nil {
		b.Fatal(err)
	}
	x := testutil.Sine(800, 200, testRate, 1)

	b.ReportAllocs()
	for b.Loop() {
		_ = lp.Apply(x)
	}
}

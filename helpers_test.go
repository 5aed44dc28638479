package lpc

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testRate  = 16000.0
	testF0    = 125.0
	testNoise = 0.01

	frameTolerance = 1e-9
)

// voicedSignal returns a five-harmonic tone at f0 with a little noise so
// the order-18 analysis stays well conditioned.
func voicedSignal(n int, f0 float64, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	x := make([]float64, n)
	for i := range x {
		for h := 1.0; h <= 5; h++ {
			x[i] += 0.2 * math.Sin(2*math.Pi*f0*h*float64(i)/testRate) / h
		}
		x[i] += testNoise * (2*rng.Float64() - 1)
	}
	return x
}

func noiseSignal(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	x := make([]float64, n)
	for i := range x {
		x[i] = 0.3 * (2*rng.Float64() - 1)
	}
	return x
}

func assertFramesEqual(t *testing.T, want, got []Frame) {
	t.Helper()
	if !assert.Len(t, got, len(want)) {
		return
	}
	for i := range want {
		w, g := want[i], got[i]
		assert.Equal(t, w.Start, g.Start, "frame %d start", i)
		assert.Equal(t, w.Voiced, g.Voiced, "frame %d voicing", i)
		assert.Equal(t, w.Period, g.Period, "frame %d period", i)
		assert.InDelta(t, w.Gain, g.Gain, frameTolerance, "frame %d gain", i)
		assert.InDelta(t, w.Energy, g.Energy, frameTolerance, "frame %d energy", i)
		assert.InDelta(t, w.Confidence, g.Confidence, frameTolerance, "frame %d confidence", i)
		assert.InDeltaSlice(t, w.K, g.K, frameTolerance, "frame %d coefficients", i)
	}
}

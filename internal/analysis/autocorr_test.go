package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-lpc-speech/internal/testutil"
)

func TestCorrelations_SmallFrame(t *testing.T) {
	frame := []float64{1, 2, 3, 4}

	r := Correlations(frame, 3)

	// r[0]=1+4+9+16, r[1]=2+6+12, r[2]=3+8, r[3]=4
	testutil.AssertSliceInDelta(t, []float64{30, 20, 11, 4}, r, testutil.DefaultTolerance)
}

func TestCorrelations_OrderBeyondFrame(t *testing.T) {
	r := Correlations([]float64{1, 1}, 4)

	testutil.AssertSliceInDelta(t, []float64{2, 1, 0, 0, 0}, r, testutil.DefaultTolerance)
}

func TestCorrelations_ZeroFrame(t *testing.T) {
	r := Correlations(make([]float64, 64), 8)

	assert.Len(t, r, 9)
	for i, v := range r {
		assert.Zero(t, v, "r[%d]", i)
	}
}

func TestCorrelations_NegativeOrder(t *testing.T) {
	assert.Nil(t, Correlations([]float64{1, 2}, -1))
}

func TestConfidence(t *testing.T) {
	const period = 40
	frame := make([]float64, 800)
	for i := 0; i < len(frame); i += period {
		frame[i] = 1
	}

	// 20 pulses, 19 of which line up with a partner one period later.
	assert.InDelta(t, 19.0/20.0, Confidence(frame, period), testutil.DefaultTolerance)
	assert.Zero(t, Confidence(frame, period/2))
	assert.InDelta(t, 1.0, Confidence(frame, 0), testutil.DefaultTolerance)
}

func TestConfidence_SilentFrame(t *testing.T) {
	assert.Zero(t, Confidence(make([]float64, 100), 10))
	assert.Zero(t, Confidence(nil, 10))
}

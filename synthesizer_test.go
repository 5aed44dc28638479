package lpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-lpc-speech/internal/pitch"
	"github.com/tphakala/go-lpc-speech/internal/testutil"
)

const (
	testHop         = 100
	blendTolerance  = 1e-9
	resynthPitchTol = 1.5
)

func testFrames() []Params {
	return []Params{
		{K: []float64{-0.8, 0.3, -0.1, 0.05}, Period: 128, Gain: 0.1},
		{K: []float64{-0.7, 0.35, -0.15, 0.02}, Period: 120, Gain: 0.12},
		{K: []float64{0.5, -0.1, 0.05, 0.0}, Period: 0, Gain: 0.05},
	}
}

func TestSynthesizer_RenderFramesWithoutInterpolation(t *testing.T) {
	frames := testFrames()
	got := NewSynthesizer(4, DefaultSeed).RenderFrames(frames, testHop, false)
	require.Len(t, got, len(frames)*testHop)

	ref := NewSynthesizer(4, DefaultSeed)
	want := make([]float64, 0, len(got))
	for i := range frames {
		buf := make([]float64, testHop)
		ref.Render(buf, &frames[i])
		want = append(want, buf...)
	}
	assert.Equal(t, want, got)
}

func TestSynthesizer_InterpolationLeavesFirstFrame(t *testing.T) {
	frames := testFrames()
	plain := NewSynthesizer(4, DefaultSeed).RenderFrames(frames, testHop, false)
	blended := NewSynthesizer(4, DefaultSeed).RenderFrames(frames, testHop, true)

	assert.Equal(t, plain[:testHop], blended[:testHop])
	assert.NotEqual(t, plain[testHop:], blended[testHop:])
	testutil.AssertNoNaNOrInf(t, blended)
}

func TestSynthesizer_InterpolationOfEqualFrames(t *testing.T) {
	p := testFrames()[0]
	frames := []Params{p, p.Clone(), p.Clone()}

	plain := NewSynthesizer(4, DefaultSeed).RenderFrames(frames, testHop, false)
	blended := NewSynthesizer(4, DefaultSeed).RenderFrames(frames, testHop, true)
	testutil.AssertSliceInDelta(t, plain, blended, blendTolerance)
}

func TestSynthesizer_InterpolatedSampleMatchesLerp(t *testing.T) {
	frames := testFrames()[:2]
	got := NewSynthesizer(4, DefaultSeed).RenderFrames(frames, testHop, true)

	ref := NewSynthesizer(4, DefaultSeed)
	ref.Render(make([]float64, testHop), &frames[0])
	for i := range testHop {
		p := Lerp(frames[0], frames[1], float64(i)/testHop)
		require.Equal(t, ref.Sample(&p), got[testHop+i], "sample %d", i)
	}
}

func TestSynthesizer_RenderFramesEdgeCases(t *testing.T) {
	s := NewSynthesizer(4, DefaultSeed)
	assert.Nil(t, s.RenderFrames(testFrames(), 0, true))
	assert.Empty(t, s.RenderFrames(nil, testHop, true))
	assert.Equal(t, 4, s.Order())
}

func TestSynthesizer_Reset(t *testing.T) {
	s := NewSynthesizer(4, 7)
	first := s.RenderFrames(testFrames(), testHop, true)
	s.Reset()
	assert.Equal(t, first, s.RenderFrames(testFrames(), testHop, true))
}

func TestResynthesis_KeepsPitch(t *testing.T) {
	cfg := DefaultConfig(testRate)
	frames, err := AnalyzeSignal(cfg, voicedSignal(16000, testF0, 13))
	require.NoError(t, err)

	s := NewSynthesizer(cfg.Order, cfg.Seed)
	out := DeEmphasis(s.RenderFrames(ParamsOf(frames), cfg.HopSize, true), cfg.PreEmphasis)
	require.Len(t, out, len(frames)*cfg.HopSize)
	testutil.AssertNoNaNOrInf(t, out)
	assert.Greater(t, testutil.PeakAbs(out), 0.0)

	est, err := pitch.NewAutocorrelation(testRate, cfg.MinPitchHz, cfg.MaxPitchHz)
	require.NoError(t, err)
	period, confidence := est.Estimate(out[4000 : 4000+cfg.WindowSize])
	assert.InDelta(t, testRate/testF0, period, resynthPitchTol)
	assert.Greater(t, confidence, cfg.VoicingThreshold)
}

func TestParamsOf(t *testing.T) {
	frames := []Frame{
		{Params: Params{K: []float64{0.1}, Period: 3, Gain: 2}, Voiced: true},
		{Params: Params{K: []float64{0.2}}},
	}
	got := ParamsOf(frames)
	require.Len(t, got, 2)
	assert.Equal(t, frames[0].Params, got[0])
	assert.Equal(t, frames[1].Params, got[1])
}

func BenchmarkRenderFrames(b *testing.B) {
	frames := testFrames()
	s := NewSynthesizer(4, DefaultSeed)

	b.ReportAllocs()
	for b.Loop() {
		_ = s.RenderFrames(frames, testHop, true)
	}
}

// Package lpc provides linear-predictive speech analysis and resynthesis in
// pure Go.
//
// A frame of speech is reduced to a handful of reflection (PARCOR)
// coefficients, a residual gain and a pitch period. Those parameters can be
// converted to direct-form prediction coefficients (LPC) or line spectral
// pairs (LSP), modified safely in the LSP domain, interpolated, and turned
// back into a speech-like waveform by an all-pole lattice filter driven by a
// glottal pulse train or noise.
//
// # Features
//
//   - Levinson-Durbin analysis with SIMD lag correlations via github.com/tphakala/simd
//   - Exact PARCOR/LPC conversion and Chebyshev-grid LSP root search
//   - Formant shifting and spectral blending in the LSP domain
//   - Autocorrelation pitch tracking with FFT correlation (gonum)
//   - Streaming analysis with overlapping windows and stateful pre-emphasis
//   - Lattice synthesis with per-sample parameter interpolation
//
// # Quick Start
//
// Analyze a 16 kHz signal and render it back:
//
//	cfg := lpc.DefaultConfig(16000)
//	frames, err := lpc.AnalyzeSignal(cfg, samples)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s := lpc.NewSynthesizer(cfg.Order, cfg.Seed)
//	out := s.RenderFrames(lpc.ParamsOf(frames), cfg.HopSize, true)
//	out = lpc.DeEmphasis(out, cfg.PreEmphasis)
//
// For a live stream, feed chunks of any length to an [Analyzer]:
//
//	a, err := lpc.NewAnalyzer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for chunk := range chunks {
//	    frames, err := a.Write(chunk)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    handle(frames)
//	}
//	last, _ := a.Flush()
//
// # Representations
//
// Reflection coefficients k[0..p-1] describe a stable filter exactly when
// every |k[i]| < 1. LPC vectors are monic, a[0] = 1, for
// A(z) = 1 + a[1]z^-1 + ... + a[p]z^-p. LSP vectors hold p angles in
// radians, strictly increasing inside (0, pi); they exist for even orders
// only.
//
// # Concurrency
//
// Analyzer and Synthesizer carry state and are not safe for concurrent
// use. The conversion functions are pure. [AnalyzeSignal] splits the work
// across goroutines when [Config.EnableParallel] is set.
package lpc

package spectral

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-lpc-speech/internal/testutil"
)

const (
	// Test tolerances
	roundTripTolerance = 1e-6
	lspLPCTolerance    = 1e-3
	lspParcorTolerance = 2e-3
	flatLSPTolerance   = 1e-3

	// Grid sizes
	testGrid       = 1024
	testCoarseGrid = 8
)

// referenceParcor is a stable 10th-order reflection vector.
var referenceParcor = []float64{-0.6, 0.45, -0.21, 0.12, -0.05, 0.18, -0.1, 0.02, -0.08, 0.04}

func randomParcor(rng *rand.Rand, order int, bound float64) []float64 {
	k := make([]float64, order)
	for i := range k {
		k[i] = (2*rng.Float64() - 1) * bound
	}
	return k
}

func TestParcorToLPC_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		k    []float64
		want []float64
	}{
		{"empty", nil, []float64{1}},
		{"order_1", []float64{0.5}, []float64{1, 0.5}},
		// a1 = k1 + k2*k1, a2 = k2
		{"order_2", []float64{0.5, -0.3}, []float64{1, 0.5 - 0.15, -0.3}},
		// a1 = a1' + k3*a2', a2 = a2' + k3*a1', a3 = k3
		{"order_3", []float64{0.5, -0.3, 0.2}, []float64{1, 0.35 + 0.2*-0.3, -0.3 + 0.2*0.35, 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertSliceInDelta(t, tt.want, ParcorToLPC(tt.k), testutil.DefaultTolerance)
		})
	}
}

func TestParcorLPC_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for order := 1; order <= 18; order++ {
		for range 20 {
			k := randomParcor(rng, order, 0.95)

			got, err := LPCToParcor(ParcorToLPC(k))
			require.NoError(t, err, "order %d", order)
			testutil.AssertSliceInDelta(t, k, got, roundTripTolerance)
		}
	}
}

func TestLPCToParcor_Unstable(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
	}{
		{"unit_last_coefficient", []float64{1, 0, 1}},
		{"beyond_unit", []float64{1, 2.5}},
		{"unstable_inner_stage", ParcorToLPC([]float64{1.2, 0.1})},
		{"nan", []float64{1, math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := LPCToParcor(tt.a)
			require.ErrorIs(t, err, ErrUnstableCoefficients)
			assert.Nil(t, k)
		})
	}
}

func TestLPCToParcor_InvalidInput(t *testing.T) {
	_, err := LPCToParcor(nil)
	require.ErrorIs(t, err, ErrInvalidCoefficients)

	_, err = LPCToParcor([]float64{2, 0.1})
	require.ErrorIs(t, err, ErrInvalidCoefficients)

	k, err := LPCToParcor([]float64{1})
	require.NoError(t, err)
	assert.Empty(t, k)
}

func TestIsStable(t *testing.T) {
	assert.True(t, IsStable(referenceParcor))
	assert.True(t, IsStable(nil))
	assert.False(t, IsStable([]float64{0.2, -1}))
	assert.False(t, IsStable([]float64{1.01}))
	assert.False(t, IsStable([]float64{math.NaN()}))
}

func TestLSP_ReferenceRoundTrip(t *testing.T) {
	lpc := ParcorToLPC(referenceParcor)

	lsp, err := LPCToLSP(lpc, testGrid)
	require.NoError(t, err)
	require.Len(t, lsp, len(referenceParcor), "must find every root")

	reconstructed, err := LSPToLPC(lsp)
	require.NoError(t, err)
	testutil.AssertSliceInDelta(t, lpc, reconstructed, lspLPCTolerance)

	k, err := LSPToParcor(lsp)
	require.NoError(t, err)
	testutil.AssertSliceInDelta(t, referenceParcor, k, lspParcorTolerance)
}

func TestLPCToLSP_FlatFilter(t *testing.T) {
	// A(z) = 1 gives P = 1 + z^-3 and Q = 1 - z^-3; without the trivial
	// roots the angles are pi/3 and 2pi/3.
	lsp, err := LPCToLSP([]float64{1, 0, 0}, testGrid)
	require.NoError(t, err)

	testutil.AssertSliceInDelta(t, []float64{math.Pi / 3, 2 * math.Pi / 3}, lsp, flatLSPTolerance)
}

func TestLPCToLSP_OrderedAndBounded(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	covered := 0

	for range 200 {
		order := 2 * (1 + rng.IntN(9))
		k := randomParcor(rng, order, 0.5)

		lsp, err := LPCToLSP(ParcorToLPC(k), testGrid)
		if errors.Is(err, ErrInsufficientRoots) {
			continue
		}
		require.NoError(t, err)
		covered++

		require.Len(t, lsp, order)
		testutil.AssertStrictlyIncreasing(t, lsp)
		assert.Greater(t, lsp[0], 0.0)
		assert.Less(t, lsp[order-1], math.Pi)
		assert.True(t, IsOrdered(lsp))
	}

	assert.Greater(t, covered, 150, "most moderate filters resolve at the default grid")
}

func TestLPCToLSP_InsufficientRoots(t *testing.T) {
	lsp, err := LPCToLSP(ParcorToLPC(referenceParcor), testCoarseGrid)
	require.ErrorIs(t, err, ErrInsufficientRoots)
	assert.Nil(t, lsp, "a short sequence must never be returned")
}

func TestLPCToLSP_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		a       []float64
		grid    int
		wantErr error
	}{
		{"odd_order", ParcorToLPC([]float64{0.1, 0.2, 0.3}), testGrid, ErrOddOrder},
		{"non_monic", []float64{0.5, 0.1, 0.1}, testGrid, ErrInvalidCoefficients},
		{"empty", nil, testGrid, ErrInvalidCoefficients},
		{"zero_grid", []float64{1, 0, 0}, 0, ErrInvalidCoefficients},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LPCToLSP(tt.a, tt.grid)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLPCToLSP_OrderZero(t *testing.T) {
	lsp, err := LPCToLSP([]float64{1}, testGrid)
	require.NoError(t, err)
	assert.Empty(t, lsp)

	a, err := LSPToLPC(nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, a)
}

func TestLSPToLPC_OddLength(t *testing.T) {
	a, err := LSPToLPC([]float64{0.5, 1.0, 1.5})
	require.ErrorIs(t, err, ErrOddOrder)
	assert.Nil(t, a)
}

func TestLSPToLPC_DoesNotModifyInput(t *testing.T) {
	lsp := []float64{0.3, 0.9, 1.4, 2.2}
	orig := append([]float64(nil), lsp...)

	_, err := LSPToLPC(lsp)
	require.NoError(t, err)
	assert.Equal(t, orig, lsp)
}

func TestParcorToLSP_RetriesOnFinerGrid(t *testing.T) {
	lsp, err := ParcorToLSP(referenceParcor, testCoarseGrid)
	require.NoError(t, err)
	assert.Len(t, lsp, len(referenceParcor))
	testutil.AssertStrictlyIncreasing(t, lsp)
}

func TestParcorToLSP_InvalidGridNotRetried(t *testing.T) {
	_, err := ParcorToLSP(referenceParcor, 0)
	require.ErrorIs(t, err, ErrInvalidCoefficients)
}

func BenchmarkLPCToLSP(b *testing.B) {
	lpc := ParcorToLPC(referenceParcor)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = LPCToLSP(lpc, testGrid)
	}
}

func BenchmarkLSPToLPC(b *testing.B) {
	lsp, err := LPCToLSP(ParcorToLPC(referenceParcor), testGrid)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		_, _ = LSPToLPC(lsp)
	}
}

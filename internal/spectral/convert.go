package spectral

import (
	"errors"
)

// MaxGridPoints bounds the grid refinement in [ParcorToLSP].
const MaxGridPoints = 16384

// ParcorToLSP converts reflection coefficients to LSP angles. When the root
// search at gridPoints misses roots it is retried on a doubled grid, up to
// MaxGridPoints, before ErrInsufficientRoots is returned.
func ParcorToLSP(k []float64, gridPoints int) ([]float64, error) {
	a := ParcorToLPC(k)
	for {
		lsp, err := LPCToLSP(a, gridPoints)
		if err == nil || !errors.Is(err, ErrInsufficientRoots) || gridPoints >= MaxGridPoints {
			return lsp, err
		}
		gridPoints *= 2
	}
}

// LSPToParcor converts LSP angles back to reflection coefficients.
func LSPToParcor(lsp []float64) ([]float64, error) {
	a, err := LSPToLPC(lsp)
	if err != nil {
		return nil, err
	}
	return LPCToParcor(a)
}

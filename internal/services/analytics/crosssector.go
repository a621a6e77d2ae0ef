package analytics

import (
	"math"

	"SectorPulse/internal/domain/models"
)

// PearsonCorrelation computes the Pearson correlation coefficient of two
// series over their paired prefix. Fewer than 2 paired points or a
// numerically zero variance yields a neutral 0.0, not an error.
func PearsonCorrelation(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < 2 {
		return 0.0
	}

	meanA, meanB := 0.0, 0.0
	for i := 0; i < n; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	denom := math.Sqrt(varA * varB)
	if denom < 1e-15 {
		return 0.0
	}
	return cov / denom
}

// ComputeCorrelationMatrix builds the pairwise correlation matrix across the
// given return series, right-aligned to their shortest common length. The
// matrix is symmetric with a unit diagonal. If fewer than 2 aligned points
// exist the off-diagonal entries stay at the neutral 0.0.
func ComputeCorrelationMatrix(symbols []string, returns [][]float64) models.CorrelationMatrix {
	n := len(symbols)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	minLen := MinLen(returns)
	if minLen < 2 {
		for i := 0; i < n; i++ {
			matrix[i][i] = 1.0
		}
		return models.CorrelationMatrix{Symbols: symbols, Matrix: matrix}
	}

	aligned := RightAlignAll(returns, minLen)
	for i := 0; i < n; i++ {
		matrix[i][i] = 1.0
		for j := i + 1; j < n; j++ {
			corr := PearsonCorrelation(aligned[i], aligned[j])
			matrix[i][j] = corr
			matrix[j][i] = corr
		}
	}

	return models.CorrelationMatrix{Symbols: symbols, Matrix: matrix}
}

// AverageCrossCorrelation is the mean of the strict upper triangle, 0.0 for
// fewer than 2 symbols.
func AverageCrossCorrelation(m models.CorrelationMatrix) float64 {
	n := len(m.Symbols)
	if n < 2 {
		return 0.0
	}
	sum := 0.0
	count := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += m.Matrix[i][j]
			count++
		}
	}
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

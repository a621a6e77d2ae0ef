package analytics

import (
	"math"
	"testing"

	"SectorPulse/internal/domain/models"
)

func TestPearsonPerfectPositive(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 4, 6, 8, 10}
	if corr := PearsonCorrelation(a, b); math.Abs(corr-1.0) > 1e-10 {
		t.Fatalf("expected 1.0, got %v", corr)
	}
}

func TestPearsonPerfectNegative(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{10, 8, 6, 4, 2}
	if corr := PearsonCorrelation(a, b); math.Abs(corr+1.0) > 1e-10 {
		t.Fatalf("expected -1.0, got %v", corr)
	}
}

func TestPearsonDegenerateInputs(t *testing.T) {
	if corr := PearsonCorrelation([]float64{1}, []float64{2}); corr != 0.0 {
		t.Fatalf("single point should yield 0.0, got %v", corr)
	}
	if corr := PearsonCorrelation([]float64{3, 3, 3}, []float64{1, 2, 3}); corr != 0.0 {
		t.Fatalf("zero variance should yield 0.0, got %v", corr)
	}
}

func TestCorrelationMatrixDiagonalAndSymmetry(t *testing.T) {
	symbols := []string{"XLK", "XLF", "XLE"}
	returns := [][]float64{
		{0.01, -0.02, 0.03, 0.01, -0.01},
		{0.02, -0.01, 0.02, 0.015, -0.005},
		{-0.01, 0.03, -0.02, 0.005, 0.01},
	}
	cm := ComputeCorrelationMatrix(symbols, returns)
	for i := 0; i < 3; i++ {
		if cm.Matrix[i][i] != 1.0 {
			t.Fatalf("diagonal[%d] = %v, want 1.0", i, cm.Matrix[i][i])
		}
		for j := 0; j < 3; j++ {
			if cm.Matrix[i][j] != cm.Matrix[j][i] {
				t.Fatalf("matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}
}

func TestCorrelationMatrixUnequalLengths(t *testing.T) {
	// The longer series must be right-aligned: only its trailing 4 points
	// pair with the shorter series, producing a perfect correlation.
	symbols := []string{"A", "B"}
	returns := [][]float64{
		{9.0, -4.0, 1.0, 2.0, 3.0, 4.0},
		{2.0, 4.0, 6.0, 8.0},
	}
	cm := ComputeCorrelationMatrix(symbols, returns)
	if math.Abs(cm.Matrix[0][1]-1.0) > 1e-10 {
		t.Fatalf("expected trailing-aligned corr 1.0, got %v", cm.Matrix[0][1])
	}
}

func TestCorrelationMatrixInsufficientData(t *testing.T) {
	cm := ComputeCorrelationMatrix([]string{"A", "B"}, [][]float64{{0.01}, {0.02}})
	if cm.Matrix[0][1] != 0.0 || cm.Matrix[1][0] != 0.0 {
		t.Fatalf("expected neutral off-diagonals, got %v", cm.Matrix)
	}
	if cm.Matrix[0][0] != 1.0 {
		t.Fatalf("diagonal should stay 1.0, got %v", cm.Matrix[0][0])
	}
}

func TestAverageCrossCorrelation(t *testing.T) {
	cm := models.CorrelationMatrix{
		Symbols: []string{"A", "B", "C"},
		Matrix: [][]float64{
			{1.0, 0.8, 0.6},
			{0.8, 1.0, 0.7},
			{0.6, 0.7, 1.0},
		},
	}
	want := (0.8 + 0.6 + 0.7) / 3.0
	if avg := AverageCrossCorrelation(cm); math.Abs(avg-want) > 1e-10 {
		t.Fatalf("expected %v, got %v", want, avg)
	}
}

func TestAverageCrossCorrelationSingleSymbol(t *testing.T) {
	cm := models.CorrelationMatrix{Symbols: []string{"A"}, Matrix: [][]float64{{1.0}}}
	if avg := AverageCrossCorrelation(cm); avg != 0.0 {
		t.Fatalf("expected 0.0 for single symbol, got %v", avg)
	}
}

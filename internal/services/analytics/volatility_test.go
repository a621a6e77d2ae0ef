package analytics

import (
	"math"
	"testing"
)

func sampleReturns() []float64 {
	return []float64{
		0.01, -0.005, 0.008, -0.012, 0.003, 0.007, -0.002, 0.015, -0.01, 0.006,
		0.002, -0.008, 0.011, -0.004, 0.009, -0.001, 0.005, -0.007, 0.013, -0.003,
		0.004, -0.006, 0.01, -0.009, 0.002,
	}
}

func TestRollingVolatilityLength(t *testing.T) {
	returns := sampleReturns()
	vol := RollingVolatility(returns, 5)
	if len(vol) != len(returns)-5+1 {
		t.Fatalf("expected length %d, got %d", len(returns)-5+1, len(vol))
	}
}

func TestRollingVolatilityNonNegative(t *testing.T) {
	vol := RollingVolatility(sampleReturns(), 5)
	for i, v := range vol {
		if v < 0 {
			t.Fatalf("volatility[%d] = %v, want >= 0", i, v)
		}
	}
}

func TestRollingVolatilityInsufficientData(t *testing.T) {
	if vol := RollingVolatility([]float64{0.01, 0.02}, 5); len(vol) != 0 {
		t.Fatalf("expected empty result for short input, got %d values", len(vol))
	}
	if vol := RollingVolatility(sampleReturns(), 1); len(vol) != 0 {
		t.Fatalf("expected empty result for window < 2, got %d values", len(vol))
	}
}

func TestRollingVolatilityConstantSeries(t *testing.T) {
	returns := []float64{0.01, 0.01, 0.01, 0.01, 0.01, 0.01}
	vol := RollingVolatility(returns, 3)
	for i, v := range vol {
		if v != 0 {
			t.Fatalf("constant returns should have zero volatility at %d, got %v", i, v)
		}
	}
}

func TestParkinsonVolatility(t *testing.T) {
	highs := []float64{101.0, 102.0, 100.5, 103.0, 101.5, 104.0, 102.0}
	lows := []float64{99.0, 100.0, 98.5, 101.0, 99.5, 102.0, 100.0}
	vol := ParkinsonVolatility(highs, lows, 3)
	if len(vol) != 5 {
		t.Fatalf("expected 5 values, got %d", len(vol))
	}
	for i, v := range vol {
		if v <= 0 {
			t.Fatalf("parkinson[%d] = %v, want > 0", i, v)
		}
	}
}

func TestParkinsonVolatilityRejectsMismatch(t *testing.T) {
	if vol := ParkinsonVolatility([]float64{1, 2, 3}, []float64{1, 2}, 2); vol != nil {
		t.Fatalf("expected nil for mismatched lengths, got %v", vol)
	}
}

func TestParkinsonVolatilitySkipsNonPositiveBounds(t *testing.T) {
	highs := []float64{101.0, 0.0, 102.0}
	lows := []float64{99.0, -1.0, 100.0}
	vol := ParkinsonVolatility(highs, lows, 3)
	if len(vol) != 1 {
		t.Fatalf("expected 1 value, got %d", len(vol))
	}
	if math.IsNaN(vol[0]) || math.IsInf(vol[0], 0) {
		t.Fatalf("bad bar leaked a non-finite value: %v", vol[0])
	}
}

func TestVolatilityRatioTrailingAlignment(t *testing.T) {
	short := []float64{0.15, 0.20, 0.18, 0.22}
	long := []float64{0.16, 0.19}
	ratio := VolatilityRatio(short, long)
	if len(ratio) != 2 {
		t.Fatalf("expected 2 values, got %d", len(ratio))
	}
	if math.Abs(ratio[0]-0.18/0.16) > 1e-10 {
		t.Fatalf("ratio[0] = %v, want %v", ratio[0], 0.18/0.16)
	}
	if math.Abs(ratio[1]-0.22/0.19) > 1e-10 {
		t.Fatalf("ratio[1] = %v, want %v", ratio[1], 0.22/0.19)
	}
}

func TestVolatilityRatioZeroDenominator(t *testing.T) {
	ratio := VolatilityRatio([]float64{0.2, 0.3}, []float64{0.0, 0.15})
	if ratio[0] != 1.0 {
		t.Fatalf("near-zero denominator should yield 1.0, got %v", ratio[0])
	}
}

func TestComputeSectorVolatilityTrimsToLongWindow(t *testing.T) {
	returns := sampleReturns()
	highs := make([]float64, len(returns))
	lows := make([]float64, len(returns))
	for i := range returns {
		highs[i] = 101.0
		lows[i] = 99.0
	}
	m := ComputeSectorVolatility("XLK", returns, highs, lows, 5, 10)

	wantLong := len(returns) - 10 + 1
	if len(m.LongVol) != wantLong {
		t.Fatalf("long vol length = %d, want %d", len(m.LongVol), wantLong)
	}
	if len(m.ShortVol) != wantLong || len(m.ParkinsonVol) != wantLong || len(m.VolRatio) != wantLong {
		t.Fatalf("all series must be trimmed to %d: short=%d park=%d ratio=%d",
			wantLong, len(m.ShortVol), len(m.ParkinsonVol), len(m.VolRatio))
	}

	// Trimming must anchor to the trailing end: the last short-window value
	// survives the trim untouched.
	full := RollingVolatility(returns, 5)
	if m.ShortVol[len(m.ShortVol)-1] != full[len(full)-1] {
		t.Fatalf("trim dropped the trailing end")
	}
}

package analytics

import (
	"math"

	"SectorPulse/internal/domain/models"
)

// TradingDaysPerYear is the annualization basis for daily series.
const TradingDaysPerYear = 252.0

// RollingVolatility computes annualized rolling volatility: the
// Bessel-corrected sample standard deviation of each length-window
// sub-sequence, scaled by sqrt(252). The result has length
// len(returns)-window+1. Degenerate input (fewer returns than the window,
// or window < 2) yields an empty slice, never an error.
func RollingVolatility(returns []float64, window int) []float64 {
	if len(returns) < window || window < 2 {
		return nil
	}
	out := make([]float64, 0, len(returns)-window+1)
	ann := math.Sqrt(TradingDaysPerYear)
	for i := 0; i+window <= len(returns); i++ {
		w := returns[i : i+window]
		mean := 0.0
		for _, r := range w {
			mean += r
		}
		mean /= float64(window)
		variance := 0.0
		for _, r := range w {
			d := r - mean
			variance += d * d
		}
		variance /= float64(window - 1)
		out = append(out, math.Sqrt(variance)*ann)
	}
	return out
}

// ParkinsonVolatility computes the annualized Parkinson range estimator over
// a rolling window: mean of ln(high/low)^2 per window, scaled by
// 1/(4 ln 2), square-rooted and annualized. Bars with a non-positive bound
// contribute 0. Requires len(highs) == len(lows) >= window and window >= 1.
func ParkinsonVolatility(highs, lows []float64, window int) []float64 {
	if len(highs) != len(lows) || len(highs) < window || window < 1 {
		return nil
	}
	hlLogSq := make([]float64, len(highs))
	for i := range highs {
		if highs[i] <= 0 || lows[i] <= 0 {
			continue
		}
		l := math.Log(highs[i] / lows[i])
		hlLogSq[i] = l * l
	}

	factor := 1.0 / (4.0 * math.Ln2)
	ann := math.Sqrt(TradingDaysPerYear)
	out := make([]float64, 0, len(hlLogSq)-window+1)
	for i := 0; i+window <= len(hlLogSq); i++ {
		avg := 0.0
		for _, v := range hlLogSq[i : i+window] {
			avg += v
		}
		avg /= float64(window)
		out = append(out, math.Sqrt(factor*avg)*ann)
	}
	return out
}

// VolatilityRatio divides short-window by long-window volatility after
// aligning both series at their trailing ends. Near-zero denominators
// resolve to a neutral 1.0 instead of propagating Inf.
func VolatilityRatio(shortVol, longVol []float64) []float64 {
	n := len(shortVol)
	if len(longVol) < n {
		n = len(longVol)
	}
	s := RightAlign(shortVol, n)
	l := RightAlign(longVol, n)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.Abs(l[i]) > 1e-10 {
			out[i] = s[i] / l[i]
		} else {
			out[i] = 1.0
		}
	}
	return out
}

// ComputeSectorVolatility derives the full volatility metrics for one
// sector. All series are trimmed to the length of the long-window series by
// dropping leading elements, so everything ends on the same date.
func ComputeSectorVolatility(symbol string, logReturns, highs, lows []float64, shortWindow, longWindow int) models.VolatilityMetrics {
	shortVol := RollingVolatility(logReturns, shortWindow)
	longVol := RollingVolatility(logReturns, longWindow)
	parkVol := ParkinsonVolatility(highs, lows, shortWindow)
	ratio := VolatilityRatio(shortVol, longVol)

	n := len(longVol)
	return models.VolatilityMetrics{
		Symbol:       symbol,
		ShortVol:     RightAlign(shortVol, n),
		LongVol:      longVol,
		ParkinsonVol: RightAlign(parkVol, n),
		VolRatio:     ratio,
	}
}

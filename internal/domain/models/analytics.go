package models

import "time"

// VolatilityMetrics holds the derived volatility series for one sector.
// All four series are trimmed to the length of the long-window series,
// anchored to the trailing (most recent) end.
type VolatilityMetrics struct {
	Symbol       string    `json:"symbol"`
	ShortVol     []float64 `json:"short_vol"`
	LongVol      []float64 `json:"long_vol"`
	ParkinsonVol []float64 `json:"parkinson_vol"`
	VolRatio     []float64 `json:"vol_ratio"`
}

// CorrelationMatrix is a symmetric pairwise correlation matrix with a unit
// diagonal, built from return series trimmed to a common trailing length.
type CorrelationMatrix struct {
	Symbols []string    `json:"symbols"`
	Matrix  [][]float64 `json:"matrix"`
}

// BondSpread carries the term spread and curve slope for one curve
// observation that had both a 2Y and a 10Y rate.
type BondSpread struct {
	Date        time.Time `json:"date"`
	Spread10Y2Y float64   `json:"spread_10y_2y"`
	CurveSlope  float64   `json:"curve_slope"`
}

// CurvePoint is one (maturity label, rate) pair of an extracted yield curve.
type CurvePoint struct {
	Maturity string  `json:"maturity"`
	Rate     float64 `json:"rate"`
}

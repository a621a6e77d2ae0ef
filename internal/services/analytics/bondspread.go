package analytics

import (
	"time"

	"SectorPulse/internal/domain/models"
)

// ComputeTermSpreads derives the 10Y-2Y term spread and the 30Y-3M curve
// slope per observation. Observations missing either the 2Y or the 10Y rate
// are dropped entirely, never zero-filled. The 30Y falls back to the 10Y
// and the 3M falls back to the 2Y when the outer tenor is missing.
func ComputeTermSpreads(points []models.YieldCurvePoint) []models.BondSpread {
	out := make([]models.BondSpread, 0, len(points))
	for _, p := range points {
		if p.Year10 == nil || p.Year2 == nil {
			continue
		}
		y10 := *p.Year10
		y2 := *p.Year2
		y30 := y10
		if p.Year30 != nil {
			y30 = *p.Year30
		}
		m3 := y2
		if p.Month3 != nil {
			m3 = *p.Month3
		}
		out = append(out, models.BondSpread{
			Date:        p.Date,
			Spread10Y2Y: y10 - y2,
			CurveSlope:  y30 - m3,
		})
	}
	return out
}

// DetectInversions returns the dates where the curve inverted (10Y < 2Y).
// Observations missing either tenor are skipped.
func DetectInversions(points []models.YieldCurvePoint) []time.Time {
	var out []time.Time
	for _, p := range points {
		if p.Year10 == nil || p.Year2 == nil {
			continue
		}
		if *p.Year10 < *p.Year2 {
			out = append(out, p.Date)
		}
	}
	return out
}

// YieldCurveForDate extracts one observation as ordered (maturity, rate)
// pairs in increasing-tenor order, omitting unavailable tenors. The order
// is the canonical presentation order and must be preserved exactly.
func YieldCurveForDate(p models.YieldCurvePoint) []models.CurvePoint {
	tenors := []struct {
		label string
		rate  *float64
	}{
		{"1M", p.Month1},
		{"2M", p.Month2},
		{"3M", p.Month3},
		{"6M", p.Month6},
		{"1Y", p.Year1},
		{"2Y", p.Year2},
		{"3Y", p.Year3},
		{"5Y", p.Year5},
		{"7Y", p.Year7},
		{"10Y", p.Year10},
		{"20Y", p.Year20},
		{"30Y", p.Year30},
	}

	curve := make([]models.CurvePoint, 0, len(tenors))
	for _, t := range tenors {
		if t.rate == nil {
			continue
		}
		curve = append(curve, models.CurvePoint{Maturity: t.label, Rate: *t.rate})
	}
	return curve
}

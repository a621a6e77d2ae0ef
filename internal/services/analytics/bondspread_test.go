package analytics

import (
	"math"
	"testing"
	"time"

	"SectorPulse/internal/domain/models"
)

func ptr(v float64) *float64 { return &v }

func makeCurve(date string, y2, y10, y30, m3 float64) models.YieldCurvePoint {
	d, _ := time.Parse("2006-01-02", date)
	return models.YieldCurvePoint{
		Date:   d,
		Month3: ptr(m3),
		Year2:  ptr(y2),
		Year10: ptr(y10),
		Year30: ptr(y30),
	}
}

func TestComputeTermSpreads(t *testing.T) {
	points := []models.YieldCurvePoint{
		makeCurve("2025-01-01", 3.5, 4.2, 4.8, 3.6),
		makeCurve("2025-01-02", 3.4, 4.1, 4.7, 3.5),
	}
	spreads := ComputeTermSpreads(points)
	if len(spreads) != 2 {
		t.Fatalf("expected 2 spreads, got %d", len(spreads))
	}
	if math.Abs(spreads[0].Spread10Y2Y-0.7) > 1e-10 {
		t.Fatalf("spread = %v, want 0.7", spreads[0].Spread10Y2Y)
	}
	if math.Abs(spreads[0].CurveSlope-1.2) > 1e-10 {
		t.Fatalf("slope = %v, want 1.2", spreads[0].CurveSlope)
	}
}

func TestComputeTermSpreadsDropsIncomplete(t *testing.T) {
	d, _ := time.Parse("2006-01-02", "2025-01-03")
	points := []models.YieldCurvePoint{
		{Date: d, Year10: ptr(4.2)}, // no 2Y: dropped, not zero-filled
		makeCurve("2025-01-04", 3.5, 4.2, 4.8, 3.6),
	}
	spreads := ComputeTermSpreads(points)
	if len(spreads) != 1 {
		t.Fatalf("expected the incomplete observation to be dropped, got %d spreads", len(spreads))
	}
}

func TestComputeTermSpreadsFallbacks(t *testing.T) {
	// 30Y falls back to 10Y and 3M falls back to 2Y.
	d, _ := time.Parse("2006-01-02", "2025-01-05")
	p := models.YieldCurvePoint{Date: d, Year2: ptr(3.5), Year10: ptr(4.2)}
	spreads := ComputeTermSpreads([]models.YieldCurvePoint{p})
	if len(spreads) != 1 {
		t.Fatalf("expected 1 spread, got %d", len(spreads))
	}
	if math.Abs(spreads[0].CurveSlope-0.7) > 1e-10 {
		t.Fatalf("fallback slope = %v, want 10Y-2Y = 0.7", spreads[0].CurveSlope)
	}
}

func TestDetectInversions(t *testing.T) {
	points := []models.YieldCurvePoint{
		makeCurve("2025-01-01", 4.5, 4.2, 4.8, 3.6), // inverted
		makeCurve("2025-01-02", 3.4, 4.1, 4.7, 3.5), // normal
	}
	inversions := DetectInversions(points)
	if len(inversions) != 1 {
		t.Fatalf("expected exactly 1 inversion, got %d", len(inversions))
	}
	if !inversions[0].Equal(points[0].Date) {
		t.Fatalf("wrong inversion date: %v", inversions[0])
	}
}

func TestYieldCurveForDateOrder(t *testing.T) {
	p := makeCurve("2025-01-01", 3.5, 4.2, 4.8, 3.6)
	p.Month1 = ptr(3.7)
	curve := YieldCurveForDate(p)
	want := []string{"1M", "3M", "2Y", "10Y", "30Y"}
	if len(curve) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(curve))
	}
	for i, label := range want {
		if curve[i].Maturity != label {
			t.Fatalf("curve[%d] = %s, want %s", i, curve[i].Maturity, label)
		}
	}
}

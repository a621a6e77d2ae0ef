package usecase

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"SectorPulse/internal/domain/models"
	xlogger "SectorPulse/pkg/logger"
)

// fakeSource serves deterministic synthetic market data.
type fakeSource struct {
	barCount int
	delay    time.Duration
}

func (f *fakeSource) DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := float64(len(symbol))
	bars := make([]models.Bar, f.barCount)
	price := 100.0 + seed
	for i := range bars {
		price *= 1 + 0.01*math.Sin(float64(i)+seed)
		bars[i] = models.Bar{
			Date:   base.AddDate(0, 0, i),
			Open:   price * 0.995,
			High:   price * 1.01,
			Low:    price * 0.99,
			Close:  price,
			Volume: 1e6,
		}
	}
	return bars, nil
}

func (f *fakeSource) TreasuryCurves(ctx context.Context, from, to time.Time) ([]models.YieldCurvePoint, error) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]models.YieldCurvePoint, f.barCount)
	for i := range points {
		y2 := 4.5 + 0.01*float64(i)
		y10 := 4.0 + 0.02*float64(i)
		y30 := y10 + 0.2
		points[i] = models.YieldCurvePoint{
			Date:   base.AddDate(0, 0, i),
			Year2:  ptrF(y2),
			Year10: ptrF(y10),
			Year30: ptrF(y30),
		}
	}
	return points, nil
}

func ptrF(v float64) *float64 { return &v }

// downSource fails every fetch, simulating a data-source outage.
type downSource struct{}

func (downSource) DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error) {
	return nil, fmt.Errorf("source unavailable")
}

func (downSource) TreasuryCurves(ctx context.Context, from, to time.Time) ([]models.YieldCurvePoint, error) {
	return nil, fmt.Errorf("source unavailable")
}

// fakeStore keeps bars and curves in memory, keyed by symbol.
type fakeStore struct {
	bars   map[string][]models.Bar
	curves []models.YieldCurvePoint
}

func newFakeStore() *fakeStore {
	return &fakeStore{bars: make(map[string][]models.Bar)}
}

func (f *fakeStore) Init(ctx context.Context) error { return nil }

func (f *fakeStore) StoreBars(ctx context.Context, symbol string, bars []models.Bar) error {
	f.bars[symbol] = bars
	return nil
}

func (f *fakeStore) QueryBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error) {
	return f.bars[symbol], nil
}

func (f *fakeStore) StoreCurves(ctx context.Context, points []models.YieldCurvePoint) error {
	f.curves = points
	return nil
}

func (f *fakeStore) QueryCurves(ctx context.Context, from, to time.Time) ([]models.YieldCurvePoint, error) {
	return f.curves, nil
}

func (f *fakeStore) Health(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordDatasetBuilt(int)        {}
func (nopMetrics) RecordEpochLoss(float64)       {}
func (nopMetrics) RecordRunOutcome(string)       {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLatency(string, float64) {}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testAnalysisService(t *testing.T, barCount int) *AnalysisService {
	t.Helper()
	cfg := AnalysisConfig{
		Sectors: []Instrument{
			{Symbol: "XLK", Name: "Technology"},
			{Symbol: "XLF", Name: "Financials"},
			{Symbol: "XLE", Name: "Energy"},
		},
		Benchmark:      "SPY",
		LookbackDays:   barCount,
		ShortVolWindow: 3,
		LongVolWindow:  5,
	}
	return NewAnalysisService(cfg, &fakeSource{barCount: barCount}, nil, nopMetrics{}, testLogger(t))
}

func TestRefreshLoadsUniverse(t *testing.T) {
	svc := testAnalysisService(t, 30)

	data, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(data.Sectors) != 3 {
		t.Fatalf("expected 3 sector series, got %d", len(data.Sectors))
	}
	if data.Benchmark == nil || data.Benchmark.Symbol != "SPY" {
		t.Fatal("expected benchmark series")
	}
	if len(data.Treasury) != 30 {
		t.Fatalf("expected 30 curve days, got %d", len(data.Treasury))
	}
	for _, s := range data.Sectors {
		if len(s.Bars) != 30 {
			t.Fatalf("sector %s: expected 30 bars, got %d", s.Symbol, len(s.Bars))
		}
	}
}

func TestRefreshFallsBackToStoredHistory(t *testing.T) {
	cfg := AnalysisConfig{
		Sectors: []Instrument{
			{Symbol: "XLK", Name: "Technology"},
			{Symbol: "XLF", Name: "Financials"},
			{Symbol: "XLE", Name: "Energy"},
		},
		Benchmark:      "SPY",
		LookbackDays:   30,
		ShortVolWindow: 3,
		LongVolWindow:  5,
	}
	store := newFakeStore()

	// First pass against a healthy source seeds the store.
	healthy := NewAnalysisService(cfg, &fakeSource{barCount: 30}, store, nopMetrics{}, testLogger(t))
	if _, err := healthy.Refresh(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	// Second service sees only the outage and the seeded store.
	svc := NewAnalysisService(cfg, downSource{}, store, nopMetrics{}, testLogger(t))
	data, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("expected stored-history fallback, got %v", err)
	}
	if len(data.Sectors) != 3 {
		t.Fatalf("expected 3 sector series from the store, got %d", len(data.Sectors))
	}
	for _, s := range data.Sectors {
		if len(s.Bars) != 30 {
			t.Fatalf("sector %s: expected 30 stored bars, got %d", s.Symbol, len(s.Bars))
		}
	}
	if data.Benchmark == nil || len(data.Benchmark.Bars) != 30 {
		t.Fatal("expected benchmark series from the store")
	}
	if len(data.Treasury) != 30 {
		t.Fatalf("expected 30 stored curve days, got %d", len(data.Treasury))
	}
}

func TestRefreshFailsWithoutStoreDuringOutage(t *testing.T) {
	cfg := AnalysisConfig{
		Sectors:      []Instrument{{Symbol: "XLK", Name: "Technology"}},
		LookbackDays: 30,
	}
	svc := NewAnalysisService(cfg, downSource{}, nil, nopMetrics{}, testLogger(t))
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh to fail with no store to fall back on")
	}
}

func TestSectorVolatilityMetrics(t *testing.T) {
	svc := testAnalysisService(t, 30)

	metrics, err := svc.SectorVolatility(context.Background())
	if err != nil {
		t.Fatalf("SectorVolatility: %v", err)
	}
	if len(metrics) != 3 {
		t.Fatalf("expected metrics for 3 sectors, got %d", len(metrics))
	}
	for _, m := range metrics {
		if len(m.ShortVol) == 0 || len(m.ShortVol) != len(m.LongVol) {
			t.Fatalf("%s: misaligned vol series (%d vs %d)", m.Symbol, len(m.ShortVol), len(m.LongVol))
		}
		for _, v := range m.ShortVol {
			if v < 0 || math.IsNaN(v) {
				t.Fatalf("%s: invalid volatility %v", m.Symbol, v)
			}
		}
	}
}

func TestCorrelationMatrixShape(t *testing.T) {
	svc := testAnalysisService(t, 30)

	cm, err := svc.CorrelationMatrix(context.Background())
	if err != nil {
		t.Fatalf("CorrelationMatrix: %v", err)
	}
	n := len(cm.Symbols)
	if n != 3 || len(cm.Matrix) != n {
		t.Fatalf("unexpected matrix shape: %d symbols, %d rows", n, len(cm.Matrix))
	}
	for i := 0; i < n; i++ {
		if math.Abs(cm.Matrix[i][i]-1.0) > 1e-12 {
			t.Fatalf("diagonal [%d][%d] = %v, want 1.0", i, i, cm.Matrix[i][i])
		}
		for j := 0; j < n; j++ {
			if math.Abs(cm.Matrix[i][j]-cm.Matrix[j][i]) > 1e-12 {
				t.Fatalf("matrix not symmetric at [%d][%d]", i, j)
			}
		}
	}
}

func TestBondSpreadsComputed(t *testing.T) {
	svc := testAnalysisService(t, 30)

	spreads, err := svc.BondSpreads(context.Background())
	if err != nil {
		t.Fatalf("BondSpreads: %v", err)
	}
	if len(spreads) != 30 {
		t.Fatalf("expected 30 spread observations, got %d", len(spreads))
	}
	// y10 - y2 = -0.5 + 0.01*i for the synthetic curve
	first := spreads[0]
	if math.Abs(first.Spread10Y2Y-(-0.5)) > 1e-9 {
		t.Fatalf("unexpected first spread %v", first.Spread10Y2Y)
	}
}

func TestInversionsDetected(t *testing.T) {
	svc := testAnalysisService(t, 30)

	inversions, err := svc.Inversions(context.Background())
	if err != nil {
		t.Fatalf("Inversions: %v", err)
	}
	// The synthetic curve has y10 - y2 = -0.5 + 0.01*i, still negative at
	// i=29, so every day is inverted.
	if len(inversions) != 30 {
		t.Fatalf("expected 30 inverted days, got %d", len(inversions))
	}
}

func TestCurveForDateLatest(t *testing.T) {
	svc := testAnalysisService(t, 30)

	points, date, err := svc.CurveForDate(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("CurveForDate: %v", err)
	}
	want := time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)
	if !date.Equal(want) {
		t.Fatalf("expected latest curve date %v, got %v", want, date)
	}
	if len(points) == 0 {
		t.Fatal("expected curve points")
	}
}

func TestCurveForDateMissing(t *testing.T) {
	svc := testAnalysisService(t, 30)

	if _, _, err := svc.CurveForDate(context.Background(), time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Fatal("expected error for date outside history")
	}
}

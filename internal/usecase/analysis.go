package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SectorPulse/internal/domain/models"
	drepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/services/analytics"
	xlogger "SectorPulse/pkg/logger"
)

// Instrument names one tracked symbol.
type Instrument struct {
	Symbol string
	Name   string
}

// AnalysisConfig holds the analysis universe and window settings.
type AnalysisConfig struct {
	Sectors        []Instrument
	Benchmark      string
	LookbackDays   int
	ShortVolWindow int
	LongVolWindow  int
}

// AnalysisService loads market data and serves the derived analytics. One
// loaded MarketData bundle backs all reads until the next Refresh.
type AnalysisService struct {
	cfg     AnalysisConfig
	source  drepo.MarketSource
	store   drepo.BarStore // optional
	metrics drepo.Metrics
	log     *xlogger.Logger

	mu   sync.RWMutex
	data *models.MarketData
}

// NewAnalysisService creates an AnalysisService. store may be nil.
func NewAnalysisService(cfg AnalysisConfig, source drepo.MarketSource, store drepo.BarStore, metrics drepo.Metrics, log *xlogger.Logger) *AnalysisService {
	return &AnalysisService{cfg: cfg, source: source, store: store, metrics: metrics, log: log}
}

// Refresh fetches all sector series, the benchmark, and the treasury curve
// history, replacing the in-memory bundle. Sector fetches fan out
// concurrently; a single failed sector fails the whole pass so analytics
// never run on a partial universe.
func (s *AnalysisService) Refresh(ctx context.Context) (*models.MarketData, error) {
	start := time.Now()
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -s.cfg.LookbackDays)

	series := make([]models.InstrumentSeries, len(s.cfg.Sectors))
	errs := make([]error, len(s.cfg.Sectors))

	var wg sync.WaitGroup
	for i, inst := range s.cfg.Sectors {
		wg.Add(1)
		go func(i int, inst Instrument) {
			defer wg.Done()
			bars, err := s.loadBars(ctx, inst.Symbol, from, now)
			if err != nil {
				errs[i] = fmt.Errorf("fetch %s: %w", inst.Symbol, err)
				return
			}
			series[i] = models.InstrumentSeries{Symbol: inst.Symbol, Name: inst.Name, Bars: bars}
		}(i, inst)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			s.metrics.RecordError("fetch")
			return nil, err
		}
	}

	var benchmark *models.InstrumentSeries
	if s.cfg.Benchmark != "" {
		bars, err := s.loadBars(ctx, s.cfg.Benchmark, from, now)
		if err != nil {
			s.metrics.RecordError("fetch")
			return nil, fmt.Errorf("fetch benchmark %s: %w", s.cfg.Benchmark, err)
		}
		benchmark = &models.InstrumentSeries{Symbol: s.cfg.Benchmark, Name: s.cfg.Benchmark, Bars: bars}
	}

	treasury, err := s.loadCurves(ctx, from, now)
	if err != nil {
		s.metrics.RecordError("fetch")
		return nil, fmt.Errorf("fetch treasury curves: %w", err)
	}

	data := &models.MarketData{Sectors: series, Benchmark: benchmark, Treasury: treasury}

	s.persist(ctx, data)

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	s.metrics.RecordLatency("refresh", time.Since(start).Seconds())
	s.log.Info("market data refreshed",
		xlogger.Int("sectors", len(series)),
		xlogger.Int("curve_days", len(treasury)),
		xlogger.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}

// maxStoredBars bounds a stored-history read; at one bar per day this covers
// far more than any configured lookback.
const maxStoredBars = 10000

// loadBars fetches a symbol's daily history from the market source. When the
// fetch fails and a bar store is configured, previously persisted bars serve
// as the fallback so a source outage does not empty the universe.
func (s *AnalysisService) loadBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	bars, err := s.source.DailyBars(ctx, symbol, s.cfg.LookbackDays)
	if err == nil {
		return bars, nil
	}
	if s.store == nil {
		return nil, err
	}
	stored, qerr := s.store.QueryBars(ctx, symbol, from, to, maxStoredBars)
	if qerr != nil || len(stored) == 0 {
		return nil, err
	}
	s.log.Warn("serving stored bars after fetch failure",
		xlogger.String("symbol", symbol),
		xlogger.Int("bars", len(stored)),
		xlogger.Error(err),
	)
	return stored, nil
}

// loadCurves fetches the treasury curve history, falling back to stored
// observations the same way loadBars does.
func (s *AnalysisService) loadCurves(ctx context.Context, from, to time.Time) ([]models.YieldCurvePoint, error) {
	points, err := s.source.TreasuryCurves(ctx, from, to)
	if err == nil {
		return points, nil
	}
	if s.store == nil {
		return nil, err
	}
	stored, qerr := s.store.QueryCurves(ctx, from, to)
	if qerr != nil || len(stored) == 0 {
		return nil, err
	}
	s.log.Warn("serving stored curves after fetch failure",
		xlogger.Int("curve_days", len(stored)),
		xlogger.Error(err),
	)
	return stored, nil
}

// persist writes the fetched bundle to the bar store when one is configured.
// Storage failures are logged, not fatal; the in-memory bundle is the source
// of truth for the current process.
func (s *AnalysisService) persist(ctx context.Context, data *models.MarketData) {
	if s.store == nil {
		return
	}
	for _, series := range data.Sectors {
		if err := s.store.StoreBars(ctx, series.Symbol, series.Bars); err != nil {
			s.log.Warn("store bars failed", xlogger.String("symbol", series.Symbol), xlogger.Error(err))
			s.metrics.RecordError("store")
		}
	}
	if data.Benchmark != nil {
		if err := s.store.StoreBars(ctx, data.Benchmark.Symbol, data.Benchmark.Bars); err != nil {
			s.log.Warn("store benchmark failed", xlogger.Error(err))
			s.metrics.RecordError("store")
		}
	}
	if err := s.store.StoreCurves(ctx, data.Treasury); err != nil {
		s.log.Warn("store curves failed", xlogger.Error(err))
		s.metrics.RecordError("store")
	}
}

// Data returns the current bundle, refreshing on first use.
func (s *AnalysisService) Data(ctx context.Context) (*models.MarketData, error) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()
	if data != nil {
		return data, nil
	}
	return s.Refresh(ctx)
}

// SectorVolatility computes volatility metrics for every tracked sector.
func (s *AnalysisService) SectorVolatility(ctx context.Context) ([]models.VolatilityMetrics, error) {
	data, err := s.Data(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.VolatilityMetrics, 0, len(data.Sectors))
	for i := range data.Sectors {
		series := &data.Sectors[i]
		out = append(out, analytics.ComputeSectorVolatility(
			series.Symbol,
			series.LogReturns(),
			series.Highs(),
			series.Lows(),
			s.cfg.ShortVolWindow,
			s.cfg.LongVolWindow,
		))
	}
	return out, nil
}

// CorrelationMatrix computes the pairwise sector return correlation matrix
// over the overlapping trailing window.
func (s *AnalysisService) CorrelationMatrix(ctx context.Context) (models.CorrelationMatrix, error) {
	data, err := s.Data(ctx)
	if err != nil {
		return models.CorrelationMatrix{}, err
	}

	returns := make([][]float64, len(data.Sectors))
	for i := range data.Sectors {
		returns[i] = data.Sectors[i].LogReturns()
	}
	aligned := analytics.RightAlignAll(returns, analytics.MinLen(returns))
	return analytics.ComputeCorrelationMatrix(data.SectorSymbols(), aligned), nil
}

// BondSpreads computes the 10Y-2Y term spread series.
func (s *AnalysisService) BondSpreads(ctx context.Context) ([]models.BondSpread, error) {
	data, err := s.Data(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.ComputeTermSpreads(data.Treasury), nil
}

// Inversions lists the dates where the 10Y yield sat below the 2Y yield.
func (s *AnalysisService) Inversions(ctx context.Context) ([]time.Time, error) {
	data, err := s.Data(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.DetectInversions(data.Treasury), nil
}

// CurveForDate returns the yield curve snapshot for the given date, or the
// most recent snapshot when date is zero.
func (s *AnalysisService) CurveForDate(ctx context.Context, date time.Time) ([]models.CurvePoint, time.Time, error) {
	data, err := s.Data(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(data.Treasury) == 0 {
		return nil, time.Time{}, fmt.Errorf("no treasury curve data loaded")
	}

	if date.IsZero() {
		p := data.Treasury[len(data.Treasury)-1]
		return analytics.YieldCurveForDate(p), p.Date, nil
	}

	y, m, d := date.UTC().Date()
	for _, p := range data.Treasury {
		py, pm, pd := p.Date.UTC().Date()
		if py == y && pm == m && pd == d {
			return analytics.YieldCurveForDate(p), p.Date, nil
		}
	}
	return nil, time.Time{}, fmt.Errorf("no curve observation for %s", date.Format("2006-01-02"))
}

package fmp

import (
	"context"
	"fmt"
	"sort"
	"time"

	"SectorPulse/internal/domain/models"
	drepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/service/ratelimit"
	xhttp "SectorPulse/pkg/http"
	xlogger "SectorPulse/pkg/logger"
	"SectorPulse/pkg/util"
)

// Config holds Financial Modeling Prep client configuration.
type Config struct {
	APIKey        string
	BaseURL       string        // v3 endpoints (historical prices)
	StableURL     string        // stable endpoints (treasury rates)
	CacheMaxAge   time.Duration // reuse cached payloads younger than this
	RequestBurst  float64       // token bucket capacity
	RequestPerSec float64       // token bucket refill rate
}

// Client implements a MarketSource backed by the FMP HTTP API. Responses are
// cached as JSON snapshots so repeated refreshes within the cache window do
// not hit the API.
type Client struct {
	cfg       Config
	http      *xhttp.Client
	snapshots drepo.Snapshots
	limiter   *ratelimit.Limiter
	log       *xlogger.Logger
}

// New creates a new FMP MarketSource.
func New(cfg Config, httpClient *xhttp.Client, snapshots drepo.Snapshots, log *xlogger.Logger) drepo.MarketSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://financialmodelingprep.com/api/v3"
	}
	if cfg.StableURL == "" {
		cfg.StableURL = "https://financialmodelingprep.com/stable"
	}
	if cfg.RequestBurst <= 0 {
		cfg.RequestBurst = 5
	}
	if cfg.RequestPerSec <= 0 {
		cfg.RequestPerSec = 4 // free tier allows ~250 calls/min
	}
	return &Client{cfg: cfg, http: httpClient, snapshots: snapshots, limiter: ratelimit.New(), log: log}
}

type fmpHistoricalBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type fmpHistoricalResponse struct {
	Symbol     string             `json:"symbol"`
	Historical []fmpHistoricalBar `json:"historical"`
}

// DailyBars fetches ascending daily OHLCV bars for a symbol.
func (c *Client) DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error) {
	cacheKey := fmt.Sprintf("fmp_bars_%s", symbol)

	var cached []models.Bar
	if c.cachedFresh(ctx, cacheKey, &cached) {
		c.log.Debug("fmp: using cached bars", xlogger.String("symbol", symbol))
		return cached, nil
	}

	if err := c.limiter.Wait(ctx, "fmp", c.cfg.RequestBurst, c.cfg.RequestPerSec); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -lookbackDays)

	var resp fmpHistoricalResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/historical-price-full/%s", c.cfg.BaseURL, symbol),
		QueryParams: map[string][]string{
			"from":   {util.FormatDate(from)},
			"to":     {util.FormatDate(now)},
			"apikey": {c.cfg.APIKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fmp bars %s: %w", symbol, err)
	}

	bars := make([]models.Bar, 0, len(resp.Historical))
	for _, h := range resp.Historical {
		date, ok := util.ParseTime(h.Date)
		if !ok {
			continue
		}
		bars = append(bars, models.Bar{
			Date:   util.DayFloor(date),
			Open:   h.Open,
			High:   h.High,
			Low:    h.Low,
			Close:  h.Close,
			Volume: h.Volume,
		})
	}
	// The API returns newest first; the pipeline wants ascending dates.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	c.saveSnapshot(ctx, cacheKey, bars)
	c.log.Info("fmp: fetched bars",
		xlogger.String("symbol", symbol),
		xlogger.Int("count", len(bars)),
	)
	return bars, nil
}

type fmpTreasuryRate struct {
	Date   string   `json:"date"`
	Month1 *float64 `json:"month1"`
	Month2 *float64 `json:"month2"`
	Month3 *float64 `json:"month3"`
	Month6 *float64 `json:"month6"`
	Year1  *float64 `json:"year1"`
	Year2  *float64 `json:"year2"`
	Year3  *float64 `json:"year3"`
	Year5  *float64 `json:"year5"`
	Year7  *float64 `json:"year7"`
	Year10 *float64 `json:"year10"`
	Year20 *float64 `json:"year20"`
	Year30 *float64 `json:"year30"`
}

// TreasuryCurves fetches ascending daily treasury yield curve snapshots.
// Missing tenors stay nil rather than being coerced to zero.
func (c *Client) TreasuryCurves(ctx context.Context, from, to time.Time) ([]models.YieldCurvePoint, error) {
	const cacheKey = "fmp_treasury_rates"

	var cached []models.YieldCurvePoint
	if c.cachedFresh(ctx, cacheKey, &cached) {
		c.log.Debug("fmp: using cached treasury rates")
		return cached, nil
	}

	if err := c.limiter.Wait(ctx, "fmp", c.cfg.RequestBurst, c.cfg.RequestPerSec); err != nil {
		return nil, err
	}

	var rates []fmpTreasuryRate
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/treasury-rates", c.cfg.StableURL),
		QueryParams: map[string][]string{
			"from":   {util.FormatDate(from)},
			"to":     {util.FormatDate(to)},
			"apikey": {c.cfg.APIKey},
		},
	}, &rates)
	if err != nil {
		return nil, fmt.Errorf("fmp treasury rates: %w", err)
	}

	points := make([]models.YieldCurvePoint, 0, len(rates))
	for _, r := range rates {
		date, ok := util.ParseTime(r.Date)
		if !ok {
			continue
		}
		points = append(points, models.YieldCurvePoint{
			Date:   util.DayFloor(date),
			Month1: r.Month1,
			Month2: r.Month2,
			Month3: r.Month3,
			Month6: r.Month6,
			Year1:  r.Year1,
			Year2:  r.Year2,
			Year3:  r.Year3,
			Year5:  r.Year5,
			Year7:  r.Year7,
			Year10: r.Year10,
			Year20: r.Year20,
			Year30: r.Year30,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	c.saveSnapshot(ctx, cacheKey, points)
	c.log.Info("fmp: fetched treasury rates", xlogger.Int("count", len(points)))
	return points, nil
}

func (c *Client) cachedFresh(ctx context.Context, key string, dest any) bool {
	if c.snapshots == nil || c.cfg.CacheMaxAge <= 0 {
		return false
	}
	if !c.snapshots.Fresh(ctx, key, c.cfg.CacheMaxAge) {
		return false
	}
	found, err := c.snapshots.LoadJSON(ctx, key, dest)
	return err == nil && found
}

func (c *Client) saveSnapshot(ctx context.Context, key string, v any) {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.SaveJSON(ctx, key, v); err != nil {
		c.log.Warn("fmp: cache save failed", xlogger.String("key", key), xlogger.Error(err))
	}
}

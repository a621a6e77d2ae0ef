package repository

import (
	"context"
	"time"

	"SectorPulse/internal/domain/models"
)

// MarketSource supplies daily bar series and treasury yield curves. The core
// treats any supplied series as authoritative and does not re-validate
// freshness.
type MarketSource interface {
	DailyBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error)
	TreasuryCurves(ctx context.Context, from, to time.Time) ([]models.YieldCurvePoint, error)
}

// BarStore persists daily bars and curve observations.
type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBars(ctx context.Context, symbol string, bars []models.Bar) error
	QueryBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error)
	StoreCurves(ctx context.Context, points []models.YieldCurvePoint) error
	QueryCurves(ctx context.Context, from, to time.Time) ([]models.YieldCurvePoint, error)
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits training progress and final forecasts to an event stream.
type Publisher interface {
	PublishEpoch(ctx context.Context, epoch int, loss float64) error
	PublishForecasts(ctx context.Context, preds []models.Prediction) error
	Close() error
}

// Snapshots is an opaque key -> JSON blob store with a max-age freshness
// predicate. Absence of a backend means always-fresh recompute.
type Snapshots interface {
	SaveJSON(ctx context.Context, key string, v any) error
	LoadJSON(ctx context.Context, key string, dest any) (bool, error)
	Fresh(ctx context.Context, key string, maxAge time.Duration) bool
}

// Metrics records operational metrics for the pipeline.
type Metrics interface {
	RecordDatasetBuilt(samples int)
	RecordEpochLoss(loss float64)
	RecordRunOutcome(outcome string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

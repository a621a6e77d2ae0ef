package models

import (
	"encoding/json"
	"math"
	"time"
)

// Sample is one training example: a lookback window of feature rows and the
// forward-volatility scalar it should predict. Immutable once constructed.
type Sample struct {
	Features [][]float64
	Target   float64
}

// Dataset is an ordered sequence of samples, read-only after construction.
// Samples are in increasing window-start order; the builder never shuffles,
// so a consumer can split chronologically.
type Dataset struct {
	Samples []Sample
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Samples) }

// TrainingState enumerates the orchestrator state machine.
type TrainingState int

const (
	StateIdle TrainingState = iota
	StateTraining
	StateComplete
	StateError
)

// String implements fmt.Stringer.
func (s TrainingState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTraining:
		return "training"
	case StateComplete:
		return "complete"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// TrainingStatus is the observer-visible state of a training run.
// Epoch counts are monotonically non-decreasing within one run; no
// transition leaves Complete or Error except an explicit reset to Idle.
type TrainingStatus struct {
	State       TrainingState `json:"state"`
	Epoch       int           `json:"epoch"`
	TotalEpochs int           `json:"total_epochs"`
	Loss        float64       `json:"loss"`
	FinalLoss   float64       `json:"final_loss"`
	Message     string        `json:"message,omitempty"`
}

// MarshalJSON renders non-finite losses as null. Before the first epoch
// finishes the loss is NaN, which encoding/json refuses; the status must
// stay encodable in every state.
func (s TrainingStatus) MarshalJSON() ([]byte, error) {
	finite := func(v float64) *float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	}
	return json.Marshal(struct {
		State       TrainingState `json:"state"`
		Epoch       int           `json:"epoch"`
		TotalEpochs int           `json:"total_epochs"`
		Loss        *float64      `json:"loss"`
		FinalLoss   *float64      `json:"final_loss"`
		Message     string        `json:"message,omitempty"`
	}{s.State, s.Epoch, s.TotalEpochs, finite(s.Loss), finite(s.FinalLoss), s.Message})
}

// Prediction pairs a tracked symbol with its forecast value. The current
// model has a single output, so one scalar is broadcast to every symbol.
type Prediction struct {
	Symbol   string  `json:"symbol"`
	Forecast float64 `json:"forecast"`
}

// FeatureFlags selects which feature groups are populated at dataset-build
// time. Disabled groups keep their slots (zero-filled) so the row width
// never changes.
type FeatureFlags struct {
	SectorVolatility    bool `json:"sector_volatility"`
	SectorReturns       bool `json:"sector_returns"`
	CrossCorrelation    bool `json:"cross_correlation"`
	BondSpreads         bool `json:"bond_spreads"`
	BenchmarkVolatility bool `json:"benchmark_volatility"`
}

// DefaultFeatureFlags enables every feature group.
func DefaultFeatureFlags() FeatureFlags {
	return FeatureFlags{
		SectorVolatility:    true,
		SectorReturns:       true,
		CrossCorrelation:    true,
		BondSpreads:         true,
		BenchmarkVolatility: true,
	}
}

// ForecastEvent is the outbound message published per epoch and per final
// forecast.
type ForecastEvent struct {
	Type      string    `json:"type"` // "epoch" or "forecast"
	Epoch     int       `json:"epoch,omitempty"`
	Loss      float64   `json:"loss,omitempty"`
	Symbol    string    `json:"symbol,omitempty"`
	Forecast  float64   `json:"forecast,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

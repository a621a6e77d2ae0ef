package models

// StartTrainingRequest starts one training run. Omitted epochs fall back to
// the configured default; flags, when present, override the persisted
// feature-flag settings for this run only.
type StartTrainingRequest struct {
	Epochs int           `json:"epochs" validate:"omitempty,gte=1,lte=10000"`
	Flags  *FeatureFlags `json:"flags,omitempty"`
}

// VolatilityRequest optionally narrows volatility metrics to one sector.
type VolatilityRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"omitempty,min=1,max=10"`
}

// CurveRequest selects the yield curve for a date (RFC3339 or YYYY-MM-DD);
// empty means the most recent observation.
type CurveRequest struct {
	Date string `query:"date" json:"date"`
}

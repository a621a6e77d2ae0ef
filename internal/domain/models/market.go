package models

import (
	"math"
	"time"
)

// Bar represents one daily OHLCV observation. Bars are immutable once
// fetched and sequences are ordered ascending by date.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// InstrumentSeries holds the full daily history for one instrument.
type InstrumentSeries struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Bars   []Bar  `json:"bars"`
}

// LogReturns computes log returns r_t = ln(C_t / C_{t-1}).
// Returns a slice of length len(bars)-1, or nil if insufficient data.
// Non-positive closes contribute a 0 return rather than NaN.
func (s *InstrumentSeries) LogReturns() []float64 {
	if len(s.Bars) < 2 {
		return nil
	}
	out := make([]float64, 0, len(s.Bars)-1)
	for i := 1; i < len(s.Bars); i++ {
		prev := s.Bars[i-1].Close
		cur := s.Bars[i].Close
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// Highs returns the high prices in bar order.
func (s *InstrumentSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low prices in bar order.
func (s *InstrumentSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// YieldCurvePoint is one daily snapshot of the treasury yield curve.
// A nil tenor means the rate was not reported for that date; it must stay
// "unavailable" and never be coerced to zero.
type YieldCurvePoint struct {
	Date   time.Time `json:"date"`
	Month1 *float64  `json:"month1,omitempty"`
	Month2 *float64  `json:"month2,omitempty"`
	Month3 *float64  `json:"month3,omitempty"`
	Month6 *float64  `json:"month6,omitempty"`
	Year1  *float64  `json:"year1,omitempty"`
	Year2  *float64  `json:"year2,omitempty"`
	Year3  *float64  `json:"year3,omitempty"`
	Year5  *float64  `json:"year5,omitempty"`
	Year7  *float64  `json:"year7,omitempty"`
	Year10 *float64  `json:"year10,omitempty"`
	Year20 *float64  `json:"year20,omitempty"`
	Year30 *float64  `json:"year30,omitempty"`
}

// MarketData bundles the inputs of one analysis pass: sector series, an
// optional benchmark series, and the treasury curve history.
type MarketData struct {
	Sectors   []InstrumentSeries
	Benchmark *InstrumentSeries
	Treasury  []YieldCurvePoint
}

// SectorSymbols returns the sector symbols in their fixed pass order.
func (m *MarketData) SectorSymbols() []string {
	out := make([]string, len(m.Sectors))
	for i := range m.Sectors {
		out[i] = m.Sectors[i].Symbol
	}
	return out
}

package forecast

import (
	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/services/analytics"
)

// BuilderConfig controls dataset construction.
type BuilderConfig struct {
	Lookback       int // input window rows per sample
	Forward        int // horizon averaged into the target
	ShortVolWindow int
	LongVolWindow  int
	SectorBasis    int
	Flags          models.FeatureFlags
}

// BuildDataset fuses per-sector returns and volatilities, the average
// cross-sector correlation, bond-curve scalars, and the benchmark
// volatility into fixed-width sliding-window samples.
//
// Insufficient history at any step yields an empty dataset, never an
// error; callers treat an empty dataset as a first-class "not enough
// data" signal.
func BuildDataset(data *models.MarketData, cfg BuilderConfig) (models.Dataset, Schema) {
	schema := NewSchema(data.SectorSymbols(), cfg.SectorBasis)
	basis := schema.SectorBasis

	nSectors := len(data.Sectors)
	if nSectors == 0 {
		return models.Dataset{}, schema
	}

	sectorReturns := make([][]float64, nSectors)
	for i := range data.Sectors {
		sectorReturns[i] = data.Sectors[i].LogReturns()
	}

	minLen := analytics.MinLen(sectorReturns)
	if minLen < cfg.Lookback+cfg.Forward+cfg.LongVolWindow {
		return models.Dataset{}, schema
	}
	alignedReturns := analytics.RightAlignAll(sectorReturns, minLen)

	sectorVols := make([][]float64, nSectors)
	for i, r := range alignedReturns {
		sectorVols[i] = analytics.RollingVolatility(r, cfg.ShortVolWindow)
	}
	volLen := analytics.MinLen(sectorVols)
	if volLen < cfg.Lookback+cfg.Forward {
		return models.Dataset{}, schema
	}

	// One scalar correlation over the whole aligned period, reused for
	// every window.
	avgCorr := 0.0
	if cfg.Flags.CrossCorrelation {
		cm := analytics.ComputeCorrelationMatrix(data.SectorSymbols(), alignedReturns)
		avgCorr = analytics.AverageCrossCorrelation(cm)
	}

	spreadVals := make([]float64, volLen)
	slopeVals := make([]float64, volLen)
	if cfg.Flags.BondSpreads {
		spreads := analytics.ComputeTermSpreads(data.Treasury)
		fillTrailing(spreadVals, spreads, func(s models.BondSpread) float64 { return s.Spread10Y2Y })
		fillTrailing(slopeVals, spreads, func(s models.BondSpread) float64 { return s.CurveSlope })
	}

	benchVals := make([]float64, volLen)
	if cfg.Flags.BenchmarkVolatility && data.Benchmark != nil {
		bv := analytics.RollingVolatility(data.Benchmark.LogReturns(), cfg.ShortVolWindow)
		aligned := analytics.RightAlign(bv, volLen)
		copy(benchVals[volLen-len(aligned):], aligned)
	}

	alignedVols := analytics.RightAlignAll(sectorVols, volLen)
	alignedRets := analytics.RightAlignAll(alignedReturns, volLen)

	width := schema.Width()
	var samples []models.Sample
	for start := 0; start < volLen-cfg.Forward-cfg.Lookback; start++ {
		end := start + cfg.Lookback

		rows := make([][]float64, 0, cfg.Lookback)
		for t := start; t < end; t++ {
			row := make([]float64, 0, width)
			for i := 0; i < basis; i++ {
				if cfg.Flags.SectorVolatility && i < nSectors {
					row = append(row, alignedVols[i][t])
				} else {
					row = append(row, 0.0)
				}
			}
			for i := 0; i < basis; i++ {
				if cfg.Flags.SectorReturns && i < nSectors {
					row = append(row, alignedRets[i][t])
				} else {
					row = append(row, 0.0)
				}
			}
			row = append(row, avgCorr)
			row = append(row, spreadVals[t])
			row = append(row, slopeVals[t])
			row = append(row, benchVals[t])
			if err := schema.ValidateRow(row); err != nil {
				return models.Dataset{}, schema
			}
			rows = append(rows, row)
		}

		samples = append(samples, models.Sample{
			Features: rows,
			Target:   forwardTarget(alignedVols, end, cfg.Forward, volLen),
		})
	}

	return models.Dataset{Samples: samples}, schema
}

// fillTrailing right-aligns the mapped spread values into dst, zero-filling
// the uncovered leading portion.
func fillTrailing(dst []float64, spreads []models.BondSpread, get func(models.BondSpread) float64) {
	vals := make([]float64, len(spreads))
	for i, s := range spreads {
		vals[i] = get(s)
	}
	aligned := analytics.RightAlign(vals, len(dst))
	copy(dst[len(dst)-len(aligned):], aligned)
}

// forwardTarget is the mean volatility across every sector over the forward
// horizon [end, end+forward), clipped to the available length. No values
// at all yields 0.0.
func forwardTarget(vols [][]float64, end, forward, volLen int) float64 {
	targetEnd := end + forward
	if targetEnd > volLen {
		targetEnd = volLen
	}
	sum := 0.0
	count := 0
	for _, sv := range vols {
		for t := end; t < targetEnd && t < len(sv); t++ {
			sum += sv[t]
			count++
		}
	}
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

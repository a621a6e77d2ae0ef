package usecase

import (
	"testing"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/services/forecast"
)

func testTrainerConfig() forecast.TrainerConfig {
	return forecast.TrainerConfig{
		Epochs:         3,
		BatchSize:      2,
		TrainFraction:  0.8,
		HiddenSize:     4,
		LearningRate:   0.01,
		Lookback:       4,
		Forward:        2,
		ShortVolWindow: 3,
		LongVolWindow:  4,
		SectorBasis:    3,
		Seed:           7,
	}
}

func testRunner(t *testing.T, source *fakeSource) *TrainingRunner {
	t.Helper()
	cfg := AnalysisConfig{
		Sectors: []Instrument{
			{Symbol: "XLK", Name: "Technology"},
			{Symbol: "XLF", Name: "Financials"},
			{Symbol: "XLE", Name: "Energy"},
		},
		Benchmark:      "SPY",
		LookbackDays:   source.barCount,
		ShortVolWindow: 3,
		LongVolWindow:  4,
	}
	analysis := NewAnalysisService(cfg, source, nil, nopMetrics{}, testLogger(t))
	return NewTrainingRunner(testTrainerConfig(), analysis, nopMetrics{}, nil, nil, testLogger(t))
}

func waitForTerminal(t *testing.T, r *TrainingRunner) models.TrainingStatus {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		st := r.Status()
		if st.State == models.StateComplete || st.State == models.StateError {
			return st
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("training did not reach a terminal state in time")
	return models.TrainingStatus{}
}

func TestTrainingRunCompletes(t *testing.T) {
	r := testRunner(t, &fakeSource{barCount: 60})

	if err := r.Start(0, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}

	st := waitForTerminal(t, r)
	if st.State != models.StateComplete {
		t.Fatalf("expected complete, got %v (%s)", st.State, st.Message)
	}
	if st.Epoch != 3 || st.TotalEpochs != 3 {
		t.Fatalf("unexpected epoch counters: %d/%d", st.Epoch, st.TotalEpochs)
	}
	if len(r.Losses()) != 3 {
		t.Fatalf("expected 3 recorded losses, got %d", len(r.Losses()))
	}
	preds := r.Predictions()
	if len(preds) != 3 {
		t.Fatalf("expected predictions for 3 sectors, got %d", len(preds))
	}
	for _, p := range preds[1:] {
		if p.Forecast != preds[0].Forecast {
			t.Fatal("expected single forecast broadcast to all sectors")
		}
	}
}

func TestTrainingFailsOnShortHistory(t *testing.T) {
	r := testRunner(t, &fakeSource{barCount: 6})

	if err := r.Start(0, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}

	st := waitForTerminal(t, r)
	if st.State != models.StateError {
		t.Fatalf("expected error state, got %v", st.State)
	}
	if st.Message == "" {
		t.Fatal("expected failure message")
	}
}

func TestStartWhileRunningFails(t *testing.T) {
	r := testRunner(t, &fakeSource{barCount: 60, delay: 300 * time.Millisecond})

	if err := r.Start(0, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Start(0, nil); err == nil {
		t.Fatal("expected second Start to fail while running")
	}

	waitForTerminal(t, r)
}

func TestResetReturnsIdle(t *testing.T) {
	r := testRunner(t, &fakeSource{barCount: 60})

	if err := r.Start(0, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitForTerminal(t, r)

	r.Reset()
	if st := r.Status(); st.State != models.StateIdle {
		t.Fatalf("expected idle after reset, got %v", st.State)
	}
	if len(r.Losses()) != 0 {
		t.Fatal("expected cleared loss history after reset")
	}
}

func TestSetFlags(t *testing.T) {
	r := testRunner(t, &fakeSource{barCount: 60})

	flags := models.DefaultFeatureFlags()
	flags.BondSpreads = false
	r.SetFlags(flags)

	got := r.Flags()
	if got.BondSpreads {
		t.Fatal("expected bond spreads disabled")
	}
	if !got.SectorVolatility {
		t.Fatal("expected other groups untouched")
	}
}

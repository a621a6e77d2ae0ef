package usecase

import (
	"context"
	"fmt"
	"sync"

	"SectorPulse/internal/domain/models"
	drepo "SectorPulse/internal/domain/repository"
	"SectorPulse/internal/services/forecast"
	xlogger "SectorPulse/pkg/logger"
)

// featureFlagsKey is the snapshot key feature selections persist under.
const featureFlagsKey = "nn_feature_flags"

// TrainingRunner owns the lifecycle of training runs: at most one run at a
// time, cooperative cancellation, and persisted feature flags. Observers
// read through the Progress snapshot and never touch the run goroutine.
type TrainingRunner struct {
	cfg       forecast.TrainerConfig
	analysis  *AnalysisService
	metrics   drepo.Metrics
	publisher drepo.Publisher // optional
	snapshots drepo.Snapshots // optional
	log       *xlogger.Logger

	mu       sync.Mutex
	progress *forecast.Progress
	cancel   context.CancelFunc
	running  bool
	flags    models.FeatureFlags
}

// NewTrainingRunner creates a runner. Persisted feature flags are restored
// when a snapshot store is available; otherwise all groups start enabled.
func NewTrainingRunner(cfg forecast.TrainerConfig, analysis *AnalysisService, metrics drepo.Metrics, publisher drepo.Publisher, snapshots drepo.Snapshots, log *xlogger.Logger) *TrainingRunner {
	r := &TrainingRunner{
		cfg:       cfg,
		analysis:  analysis,
		metrics:   metrics,
		publisher: publisher,
		snapshots: snapshots,
		log:       log,
		progress:  forecast.NewProgress(),
		flags:     models.DefaultFeatureFlags(),
	}

	if snapshots != nil {
		var saved models.FeatureFlags
		if found, err := snapshots.LoadJSON(context.Background(), featureFlagsKey, &saved); err == nil && found {
			r.flags = saved
		}
	}
	return r
}

// Start launches a training run on its own goroutine. Returns an error if a
// run is already in flight. epochs <= 0 keeps the configured default; flags
// nil keeps the persisted selection.
func (r *TrainingRunner) Start(epochs int, flags *models.FeatureFlags) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("training already in progress")
	}

	cfg := r.cfg
	if epochs > 0 {
		cfg.Epochs = epochs
	}
	// A request-scoped flag override applies to this run only; the
	// persisted selection changes through SetFlags.
	runFlags := r.flags
	if flags != nil {
		runFlags = *flags
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.running = true
	progress := forecast.NewProgress()
	r.progress = progress

	trainer := forecast.NewTrainer(cfg, r.log, r.metrics, r.publisher)
	go func() {
		defer func() {
			cancel()
			r.mu.Lock()
			r.running = false
			r.mu.Unlock()
		}()

		data, err := r.analysis.Data(runCtx)
		if err != nil {
			progress.Fail(fmt.Sprintf("load market data: %v", err))
			r.metrics.RecordRunOutcome("error")
			r.log.Error("training aborted", xlogger.Error(err))
			return
		}
		trainer.Run(runCtx, data, runFlags, progress)
	}()

	r.log.Info("training run started", xlogger.Int("epochs", cfg.Epochs))
	return nil
}

// Reset cancels any in-flight run and returns the runner to Idle.
func (r *TrainingRunner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.progress = forecast.NewProgress()
	r.log.Info("training state reset")
}

// Status returns the current run status.
func (r *TrainingRunner) Status() models.TrainingStatus {
	return r.snapshot().Status
}

// Losses returns the per-epoch loss history of the current run.
func (r *TrainingRunner) Losses() []float64 {
	return r.snapshot().Losses
}

// Predictions returns the forecasts of the last completed run.
func (r *TrainingRunner) Predictions() []models.Prediction {
	return r.snapshot().Predictions
}

// Flags returns the active feature selection.
func (r *TrainingRunner) Flags() models.FeatureFlags {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flags
}

// SetFlags replaces the feature selection and persists it. The new selection
// applies from the next run; an in-flight run keeps its own.
func (r *TrainingRunner) SetFlags(flags models.FeatureFlags) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags = flags
	r.persistFlags()
}

func (r *TrainingRunner) snapshot() forecast.Snapshot {
	r.mu.Lock()
	progress := r.progress
	r.mu.Unlock()
	return progress.Snapshot()
}

func (r *TrainingRunner) persistFlags() {
	if r.snapshots == nil {
		return
	}
	if err := r.snapshots.SaveJSON(context.Background(), featureFlagsKey, r.flags); err != nil {
		r.log.Warn("persist feature flags failed", xlogger.Error(err))
	}
}

// Shutdown cancels any in-flight run.
func (r *TrainingRunner) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

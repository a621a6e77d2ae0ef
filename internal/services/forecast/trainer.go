package forecast

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/internal/domain/repository"
	xlogger "SectorPulse/pkg/logger"
)

// Snapshot is one immutable view of a training run: status, the loss
// history so far, and the latest predictions. The whole snapshot is
// replaced atomically per update, so a reader can never observe a status
// that disagrees with its loss history.
type Snapshot struct {
	Status      models.TrainingStatus
	Losses      []float64
	Predictions []models.Prediction
}

// Progress is the shared cell between the training worker (sole writer
// during a run) and its observers. Epoch counts across successive
// snapshots are monotonically non-decreasing.
type Progress struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewProgress starts in the Idle state.
func NewProgress() *Progress {
	return &Progress{snap: Snapshot{Status: models.TrainingStatus{State: models.StateIdle}}}
}

// Snapshot returns a copy safe to read without further locking.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := p.snap
	out.Losses = append([]float64(nil), p.snap.Losses...)
	out.Predictions = append([]models.Prediction(nil), p.snap.Predictions...)
	return out
}

// Fail records a terminal error state, clearing nothing else. Used both by
// the trainer and by callers whose run dies before the trainer starts.
func (p *Progress) Fail(msg string) {
	p.publish(func(s *Snapshot) {
		s.Status = models.TrainingStatus{State: models.StateError, Message: msg}
	})
}

// Reset returns the cell to Idle and clears run history.
func (p *Progress) Reset() {
	p.publish(func(s *Snapshot) {
		*s = Snapshot{Status: models.TrainingStatus{State: models.StateIdle}}
	})
}

func (p *Progress) publish(mutate func(*Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	next := p.snap
	next.Losses = append([]float64(nil), p.snap.Losses...)
	next.Predictions = append([]models.Prediction(nil), p.snap.Predictions...)
	mutate(&next)
	p.snap = next
}

// TrainerConfig holds the hyperparameters of one run.
type TrainerConfig struct {
	Epochs         int
	BatchSize      int
	TrainFraction  float64
	HiddenSize     int
	LearningRate   float64
	Lookback       int
	Forward        int
	ShortVolWindow int
	LongVolWindow  int
	SectorBasis    int
	Seed           int64
}

// Trainer drives the epoch loop against the regressor and publishes
// progress through a Progress cell. It never blocks the caller that
// started the run; communication happens only through the shared state.
type Trainer struct {
	cfg       TrainerConfig
	log       *xlogger.Logger
	metrics   repository.Metrics
	publisher repository.Publisher // optional
}

// NewTrainer creates a trainer. publisher may be nil.
func NewTrainer(cfg TrainerConfig, log *xlogger.Logger, metrics repository.Metrics, publisher repository.Publisher) *Trainer {
	if cfg.TrainFraction <= 0 || cfg.TrainFraction >= 1 {
		cfg.TrainFraction = 0.8
	}
	return &Trainer{cfg: cfg, log: log, metrics: metrics, publisher: publisher}
}

// Run executes one full training run: dataset build, chronological split,
// epoch loop, inference on the most recent window, terminal state. Designed
// to run on a dedicated goroutine; ctx is checked once per epoch boundary
// for cooperative cancellation.
func (t *Trainer) Run(ctx context.Context, data *models.MarketData, flags models.FeatureFlags, progress *Progress) {
	start := time.Now()

	progress.publish(func(s *Snapshot) {
		s.Status = models.TrainingStatus{
			State:       models.StateTraining,
			Epoch:       0,
			TotalEpochs: t.cfg.Epochs,
			Loss:        math.NaN(),
		}
		s.Losses = nil
		s.Predictions = nil
	})

	dataset, schema := BuildDataset(data, BuilderConfig{
		Lookback:       t.cfg.Lookback,
		Forward:        t.cfg.Forward,
		ShortVolWindow: t.cfg.ShortVolWindow,
		LongVolWindow:  t.cfg.LongVolWindow,
		SectorBasis:    t.cfg.SectorBasis,
		Flags:          flags,
	})
	if dataset.Len() == 0 {
		t.fail(progress, "not enough data to build training dataset; load more market history")
		return
	}
	t.metrics.RecordDatasetBuilt(dataset.Len())

	// Chronological split: leading portion trains, trailing portion is
	// held out. Shuffling below only reorders training batches, never
	// which windows belong to which side.
	trainSize := int(float64(dataset.Len()) * t.cfg.TrainFraction)
	if trainSize < t.cfg.BatchSize || dataset.Len()-trainSize < 1 {
		t.fail(progress, fmt.Sprintf("dataset too small (%d samples); need more data", dataset.Len()))
		return
	}
	trainSamples := dataset.Samples[:trainSize]

	model := NewRegressor(t.cfg.Lookback, schema.Width(), t.cfg.HiddenSize, t.cfg.LearningRate, t.cfg.Seed)
	rng := rand.New(rand.NewSource(t.cfg.Seed))

	t.log.Info("training started",
		xlogger.Int("samples", dataset.Len()),
		xlogger.Int("train", trainSize),
		xlogger.Int("epochs", t.cfg.Epochs),
		xlogger.Int("width", schema.Width()),
	)

	bestLoss := math.Inf(1)
	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			t.fail(progress, "training canceled")
			return
		default:
		}

		avgLoss := t.runEpoch(model, trainSamples, rng)
		if avgLoss < bestLoss {
			bestLoss = avgLoss
		}
		t.metrics.RecordEpochLoss(avgLoss)

		// Each epoch's status and loss land in one atomic snapshot,
		// visible before the next epoch begins.
		progress.publish(func(s *Snapshot) {
			s.Losses = append(s.Losses, avgLoss)
			s.Status = models.TrainingStatus{
				State:       models.StateTraining,
				Epoch:       epoch + 1,
				TotalEpochs: t.cfg.Epochs,
				Loss:        avgLoss,
			}
		})
		if t.publisher != nil {
			if err := t.publisher.PublishEpoch(ctx, epoch+1, avgLoss); err != nil {
				t.log.Warn("epoch publish failed", xlogger.Error(err))
			}
		}
	}

	model.SetTraining(false)
	preds := t.forecast(model, data, &dataset)
	progress.publish(func(s *Snapshot) {
		s.Predictions = preds
		s.Status = models.TrainingStatus{
			State:       models.StateComplete,
			Epoch:       t.cfg.Epochs,
			TotalEpochs: t.cfg.Epochs,
			Loss:        bestLoss,
			FinalLoss:   bestLoss,
		}
	})
	if t.publisher != nil {
		if err := t.publisher.PublishForecasts(ctx, preds); err != nil {
			t.log.Warn("forecast publish failed", xlogger.Error(err))
		}
	}

	t.metrics.RecordRunOutcome("complete")
	t.metrics.RecordLatency("training_run", time.Since(start).Seconds())
	t.log.Info("training complete",
		xlogger.Any("final_loss", bestLoss),
		xlogger.Duration("elapsed", time.Since(start)),
	)
}

// runEpoch iterates the training portion in shuffled mini-batches and
// returns the epoch's average batch loss.
func (t *Trainer) runEpoch(model Model, samples []models.Sample, rng *rand.Rand) float64 {
	idx := rng.Perm(len(samples))

	epochLoss := 0.0
	batches := 0
	for off := 0; off < len(idx); off += t.cfg.BatchSize {
		end := off + t.cfg.BatchSize
		if end > len(idx) {
			end = len(idx)
		}
		batch := make([][][]float64, 0, end-off)
		targets := make([]float64, 0, end-off)
		for _, i := range idx[off:end] {
			batch = append(batch, samples[i].Features)
			targets = append(targets, samples[i].Target)
		}
		epochLoss += model.Update(batch, targets)
		batches++
	}
	if batches == 0 {
		return math.NaN()
	}
	return epochLoss / float64(batches)
}

// forecast runs inference on the most recent window and broadcasts the
// single scalar output to every tracked sector symbol.
func (t *Trainer) forecast(model Model, data *models.MarketData, dataset *models.Dataset) []models.Prediction {
	last := dataset.Samples[dataset.Len()-1]
	out := model.Forward([][][]float64{last.Features})
	value := 0.0
	if len(out) > 0 {
		value = out[0]
	}

	preds := make([]models.Prediction, 0, len(data.Sectors))
	for _, s := range data.Sectors {
		preds = append(preds, models.Prediction{Symbol: s.Symbol, Forecast: value})
	}
	return preds
}

func (t *Trainer) fail(progress *Progress, msg string) {
	progress.Fail(msg)
	t.metrics.RecordRunOutcome("error")
	t.metrics.RecordError("training")
	t.log.Error("training failed", xlogger.String("reason", msg))
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	datasetSamples prometheus.Gauge
	epochLoss      prometheus.Gauge
	runsTotal      *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		datasetSamples: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sectorpulse_dataset_samples",
				Help: "Number of samples in the most recently built training dataset",
			},
		),
		epochLoss: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sectorpulse_epoch_loss",
				Help: "Average training loss of the most recent epoch",
			},
		),
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorpulse_training_runs_total",
				Help: "Total number of training runs by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sectorpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordDatasetBuilt records the sample count of a freshly built dataset.
func (r *Recorder) RecordDatasetBuilt(samples int) {
	r.datasetSamples.Set(float64(samples))
}

// RecordEpochLoss records the average loss of a completed epoch.
func (r *Recorder) RecordEpochLoss(loss float64) {
	r.epochLoss.Set(loss)
}

// RecordRunOutcome records a finished training run by outcome.
func (r *Recorder) RecordRunOutcome(outcome string) {
	r.runsTotal.WithLabelValues(outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

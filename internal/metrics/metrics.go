// Package metrics records workshop and backup activity as Prometheus
// metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mesh-intelligence/partsbin/pkg/types"
)

const namespace = "partsbin"

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeInUse    = "in_use"
)

// Recorder implements workshop.MetricsRecorder on a Prometheus registry.
type Recorder struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	records    *prometheus.GaugeVec
	backups    *prometheus.CounterVec
	backupSize *prometheus.GaugeVec
}

// NewRecorder registers the partsbin collectors with reg. A nil reg uses
// a fresh private registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Recorder{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Collection operations by collection, operation and outcome.",
		}, []string{"collection", "op", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time spent in collection operations, including persistence.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"collection", "op"}),
		records: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records currently held per collection.",
		}, []string{"collection"}),
		backups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backup_operations_total",
			Help:      "Backup exports and imports by outcome.",
		}, []string{"op", "outcome"}),
		backupSize: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backup_size_bytes",
			Help:      "Size of the most recent backup document.",
		}, []string{"op"}),
	}
}

// ObserveOperation counts one operation and records its duration.
func (r *Recorder) ObserveOperation(collection, op string, err error, elapsed time.Duration) {
	r.operations.WithLabelValues(collection, op, Outcome(err)).Inc()
	r.duration.WithLabelValues(collection, op).Observe(elapsed.Seconds())
}

// SetRecords sets the record gauge for collection.
func (r *Recorder) SetRecords(collection string, n int) {
	r.records.WithLabelValues(collection).Set(float64(n))
}

// ObserveBackup counts one export or import. size is recorded only on
// success.
func (r *Recorder) ObserveBackup(op string, err error, size int) {
	r.backups.WithLabelValues(op, Outcome(err)).Inc()
	if err == nil {
		r.backupSize.WithLabelValues(op).Set(float64(size))
	}
}

// Outcome maps an operation error to a bounded label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, types.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, types.ErrInUse):
		return OutcomeInUse
	case errors.Is(err, types.ErrValidationFailed),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidCategory),
		errors.Is(err, types.ErrInvalidQuantity),
		errors.Is(err, types.ErrInvalidPrice),
		errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, types.ErrInvalidPriority),
		errors.Is(err, types.ErrInvalidURL),
		errors.Is(err, types.ErrDuplicateName),
		errors.Is(err, types.ErrInvalidTheme),
		errors.Is(err, types.ErrInvalidSettings),
		errors.Is(err, types.ErrInvalidID):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

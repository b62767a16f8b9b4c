// Package metrics exposes Prometheus instruments for imports and archive packaging.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomePartial  = "partial"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Archive kind label values.
const (
	KindControl    = "control"
	KindSubmission = "submission"
)

type Metrics struct {
	ImportsTotal     *prometheus.CounterVec
	ImportRowsTotal  *prometheus.CounterVec
	ArchivesTotal    *prometheus.CounterVec
	ArchiveDuration  *prometheus.HistogramVec
	PackagingsActive prometheus.Gauge
}

// New registers the instruments on reg. Tests pass a fresh
// prometheus.NewRegistry so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ImportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "autoenroll_imports_total",
			Help: "Total number of payroll imports by source and outcome",
		}, []string{"source", "outcome"}),
		ImportRowsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "autoenroll_import_rows_total",
			Help: "Rows seen by payroll imports, by result kind (accepted, error, warning)",
		}, []string{"source", "kind"}),
		ArchivesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "autoenroll_archives_total",
			Help: "Total number of archive packaging attempts by kind and outcome",
		}, []string{"kind", "outcome"}),
		ArchiveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "autoenroll_archive_duration_seconds",
			Help:    "Time spent writing archives",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		PackagingsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "autoenroll_packagings_active",
			Help: "Current number of archive packaging operations in progress",
		}),
	}
}

// ObserveImport records one import call. accepted, errs and warnings are
// the counts from the import result.
func (m *Metrics) ObserveImport(source string, accepted, errs, warnings int) {
	outcome := OutcomeSuccess
	switch {
	case errs > 0 && accepted == 0:
		outcome = OutcomeFailure
	case errs > 0:
		outcome = OutcomePartial
	}
	m.ImportsTotal.WithLabelValues(source, outcome).Inc()
	m.ImportRowsTotal.WithLabelValues(source, "accepted").Add(float64(accepted))
	m.ImportRowsTotal.WithLabelValues(source, "error").Add(float64(errs))
	m.ImportRowsTotal.WithLabelValues(source, "warning").Add(float64(warnings))
}

// ObserveImportRejected records an import refused before mapping, such as
// an unknown source or an oversized upload.
func (m *Metrics) ObserveImportRejected(source string) {
	m.ImportsTotal.WithLabelValues(source, OutcomeRejected).Inc()
}

// ObserveArchive records one packaging attempt and how long it took.
func (m *Metrics) ObserveArchive(kind string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.ArchivesTotal.WithLabelValues(kind, outcome).Inc()
	m.ArchiveDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (m *Metrics) SetPackagingsActive(n int) {
	m.PackagingsActive.Set(float64(n))
}

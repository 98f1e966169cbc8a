package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records dataset preparation and metric computation health.
type PipelineMetrics struct {
	loadDuration *prometheus.HistogramVec
	rowsLoaded   *prometheus.GaugeVec
	groupFailure *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	loadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dataset_load_duration_seconds",
		Help:    "Duration of dataset load and preparation stages in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	rowsLoaded := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dataset_rows_loaded",
		Help: "Row count per loaded dataset.",
	}, []string{"dataset"})
	groupFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "metric_group_failures",
		Help: "Metric groups that failed and were excluded from a summary.",
	}, []string{"group"})
	reg.MustRegister(loadDuration, rowsLoaded, groupFailure)
	return &PipelineMetrics{
		loadDuration: loadDuration,
		rowsLoaded:   rowsLoaded,
		groupFailure: groupFailure,
	}
}

// ObserveLoadDuration records the duration of a named pipeline stage.
func (p *PipelineMetrics) ObserveLoadDuration(stage string, duration time.Duration) {
	if p == nil || p.loadDuration == nil {
		return
	}
	p.loadDuration.WithLabelValues(normalizeLabel(stage)).Observe(duration.Seconds())
}

// SetRowsLoaded records the row count for the named dataset.
func (p *PipelineMetrics) SetRowsLoaded(dataset string, rows int) {
	if p == nil || p.rowsLoaded == nil {
		return
	}
	p.rowsLoaded.WithLabelValues(normalizeLabel(dataset)).Set(float64(rows))
}

// IncGroupFailure counts a metric group excluded from a summary.
func (p *PipelineMetrics) IncGroupFailure(group string) {
	if p == nil || p.groupFailure == nil {
		return
	}
	p.groupFailure.WithLabelValues(normalizeLabel(group)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

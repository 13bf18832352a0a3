// Package metrics tracks per-run counters and fetch timings for the scraper.
//
// Metrics live in a private Prometheus registry rather than the global one so each run
// (and each test) starts from zero. Since the tool is a batch job with no HTTP listener,
// results are read back with Snapshot or written in the textfile exposition format for
// node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "espn_lines"

// Failure reasons used for the extraction failure counter
const (
	ReasonNetwork    = "network"
	ReasonHTTPStatus = "http_status"
	ReasonLayout     = "layout"
	ReasonParse      = "parse"
	ReasonOther      = "other"
)

// Recorder records run metrics. A nil *Recorder discards everything.
type Recorder struct {
	registry *prometheus.Registry

	listed        *prometheus.CounterVec
	extracted     *prometheus.CounterVec
	failed        *prometheus.CounterVec
	rowsAppended  *prometheus.CounterVec
	sinkFailures  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

// New creates a Recorder with its own registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		listed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_listed_total",
			Help:      "Game identifiers found on schedule pages.",
		}, []string{"league"}),
		extracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_extracted_total",
			Help:      "Game pages successfully extracted into records.",
		}, []string{"league"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extraction_failures_total",
			Help:      "Game pages that produced no record, by reason.",
		}, []string{"reason"}),
		rowsAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_appended_total",
			Help:      "Rows handed to the sink.",
		}, []string{"sink"}),
		sinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_failures_total",
			Help:      "Append calls rejected by the sink.",
		}, []string{"sink"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Page fetch latency.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"page"}),
	}

	r.registry.MustRegister(r.listed, r.extracted, r.failed, r.rowsAppended, r.sinkFailures, r.fetchDuration)
	return r
}

// Registry exposes the underlying registry, mainly for tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveFetch records how long a page fetch took. page is "schedule" or "game".
func (r *Recorder) ObserveFetch(page string, d time.Duration) {
	if r == nil {
		return
	}
	r.fetchDuration.WithLabelValues(page).Observe(d.Seconds())
}

// GamesListed adds n identifiers found for league
func (r *Recorder) GamesListed(league string, n int) {
	if r == nil {
		return
	}
	r.listed.WithLabelValues(league).Add(float64(n))
}

// GameExtracted counts one successful extraction
func (r *Recorder) GameExtracted(league string) {
	if r == nil {
		return
	}
	r.extracted.WithLabelValues(league).Inc()
}

// ExtractFailed counts one failed extraction
func (r *Recorder) ExtractFailed(reason string) {
	if r == nil {
		return
	}
	r.failed.WithLabelValues(reason).Inc()
}

// RowsAppended adds n rows accepted by sink
func (r *Recorder) RowsAppended(sink string, n int) {
	if r == nil {
		return
	}
	r.rowsAppended.WithLabelValues(sink).Add(float64(n))
}

// SinkFailed counts one rejected append
func (r *Recorder) SinkFailed(sink string) {
	if r == nil {
		return
	}
	r.sinkFailures.WithLabelValues(sink).Inc()
}

// Snapshot returns every counter summed across its labels, keyed by metric name.
// Histograms contribute their sample count under "<name>_count".
func (r *Recorder) Snapshot() (map[string]float64, error) {
	snapshot := make(map[string]float64)
	if r == nil {
		return snapshot, nil
	}

	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				snapshot[mf.GetName()] += c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				snapshot[mf.GetName()+"_count"] += float64(h.GetSampleCount())
			}
		}
	}

	return snapshot, nil
}

// WriteTextfile writes the registry in text exposition format to path
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

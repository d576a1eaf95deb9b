// Package metrics records per-run counters and writes them in the Prometheus
// text exposition format next to the other artifacts of an investigation.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "handlescope"

const (
	// OutcomeFound labels probes that produced a record.
	OutcomeFound = "found"
	// OutcomeAbsent labels probes classified as absent without failure.
	OutcomeAbsent = "absent"
	// OutcomeFailed labels probes that produced a failure record.
	OutcomeFailed = "failed"
)

// Recorder owns one registry per run, so concurrent runs never share counters.
// A nil *Recorder discards every observation.
type Recorder struct {
	registry *prometheus.Registry

	probesTotal      *prometheus.CounterVec
	probeFailures    *prometheus.CounterVec
	probeSeconds     prometheus.Histogram
	adapterRecords   *prometheus.CounterVec
	adapterSeconds   *prometheus.GaugeVec
	adapterErrors    *prometheus.CounterVec
	mergedRecords    prometheus.Gauge
	mergedDuplicates prometheus.Gauge
	screenshotsTotal *prometheus.CounterVec
	scanSeconds      prometheus.Gauge
}

// New creates a recorder with all collectors registered
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		probesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "probes_total",
				Help:      "Platform probes completed, partitioned by outcome.",
			},
			[]string{"outcome"},
		),
		probeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "probe_failures_total",
				Help:      "Probe failures, partitioned by reason.",
			},
			[]string{"reason"},
		),
		probeSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "probe_seconds",
				Help:      "Probe latency in seconds, including rate-limit waits.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 10, 15},
			},
		),
		adapterRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "adapter_records_total",
				Help:      "Records emitted by external tools.",
			},
			[]string{"tool"},
		),
		adapterSeconds: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "adapter_seconds",
				Help:      "Wall clock spent running each external tool.",
			},
			[]string{"tool"},
		),
		adapterErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "adapter_errors_total",
				Help:      "External tool runs that ended in an error.",
			},
			[]string{"tool"},
		),
		mergedRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "merged_records",
			Help:      "Distinct records after deduplication.",
		}),
		mergedDuplicates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "merged_duplicates",
			Help:      "Records folded into an existing record during merge.",
		}),
		screenshotsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "screenshots_total",
				Help:      "Screenshot attempts, partitioned by result.",
			},
			[]string{"result"},
		),
		scanSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_seconds",
			Help:      "Total run duration in seconds.",
		}),
	}

	r.registry.MustRegister(
		r.probesTotal,
		r.probeFailures,
		r.probeSeconds,
		r.adapterRecords,
		r.adapterSeconds,
		r.adapterErrors,
		r.mergedRecords,
		r.mergedDuplicates,
		r.screenshotsTotal,
		r.scanSeconds,
	)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveProbe records one probe outcome. reason is only used for failures.
func (r *Recorder) ObserveProbe(outcome, reason string, d time.Duration) {
	if r == nil {
		return
	}
	r.probesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeFailed && reason != "" {
		r.probeFailures.WithLabelValues(reason).Inc()
	}
	r.probeSeconds.Observe(nonNegative(d).Seconds())
}

// ObserveAdapter records the result of one external tool run
func (r *Recorder) ObserveAdapter(tool string, records int, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.adapterRecords.WithLabelValues(tool).Add(float64(records))
	r.adapterSeconds.WithLabelValues(tool).Set(nonNegative(d).Seconds())
	if err != nil {
		r.adapterErrors.WithLabelValues(tool).Inc()
	}
}

// ObserveMerge records the size of the merged set
func (r *Recorder) ObserveMerge(records, duplicates int) {
	if r == nil {
		return
	}
	r.mergedRecords.Set(float64(records))
	r.mergedDuplicates.Set(float64(duplicates))
}

// ObserveScreenshot records one capture attempt
func (r *Recorder) ObserveScreenshot(ok bool) {
	if r == nil {
		return
	}
	result := "captured"
	if !ok {
		result = "failed"
	}
	r.screenshotsTotal.WithLabelValues(result).Inc()
}

// ObserveScan records the total run duration
func (r *Recorder) ObserveScan(d time.Duration) {
	if r == nil {
		return
	}
	r.scanSeconds.Set(nonNegative(d).Seconds())
}

// WriteTextfile writes every metric to path in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

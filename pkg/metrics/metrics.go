// Package metrics records report outcomes as Prometheus gauges and writes
// them for a node-exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/raudyagdel/veracli/pkg/finding"
)

const namespace = "veracli"

// Report labels.
const (
	ReportLicense       = "license"
	ReportVulnerability = "vulnerability"
)

// Recorder holds the gauges of one run in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	vulnerabilities *prometheus.GaugeVec
	skippedRows     prometheus.Gauge
	licenses        *prometheus.GaugeVec
	duration        *prometheus.GaugeVec
	lastSuccess     *prometheus.GaugeVec
	scanDuration    prometheus.Gauge
	scanExitCode    prometheus.Gauge
}

// NewRecorder creates a Recorder with every metric registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		// Custom registry so the default process collectors stay out of
		// the textfile.
		registry: prometheus.NewRegistry(),

		vulnerabilities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vulnerabilities",
			Help:      "Vulnerabilities in the last scan by severity.",
		}, []string{"severity"}),
		skippedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_rows_skipped",
			Help:      "Scan table rows that could not be mapped to a record.",
		}),
		licenses: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "licenses",
			Help:      "Component licenses in the last report by risk level.",
		}, []string{"risk"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_duration_seconds",
			Help:      "Time spent producing the last report.",
		}, []string{"report"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_last_success_timestamp_seconds",
			Help:      "Unix time the last report was written.",
		}, []string{"report"}),
		scanDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall time of the last external scan.",
		}),
		scanExitCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_exit_code",
			Help:      "Exit status of the last external scan.",
		}),
	}

	r.registry.MustRegister(
		r.vulnerabilities,
		r.skippedRows,
		r.licenses,
		r.duration,
		r.lastSuccess,
		r.scanDuration,
		r.scanExitCode,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveVulnerabilities records a parsed table. Every known severity is
// written, including zero counts.
func (r *Recorder) ObserveVulnerabilities(table *finding.VulnerabilityTable) {
	for _, s := range finding.KnownSeverities {
		r.vulnerabilities.WithLabelValues(string(s)).Set(float64(table.Tally.Get(s)))
	}
	r.skippedRows.Set(float64(table.Skipped))
}

// ObserveLicenses records license counts keyed by risk level name.
func (r *Recorder) ObserveLicenses(counts map[string]int) {
	for risk, n := range counts {
		r.licenses.WithLabelValues(risk).Set(float64(n))
	}
}

// ObserveScan records the external scan outcome.
func (r *Recorder) ObserveScan(d time.Duration, exitCode int) {
	r.scanDuration.Set(d.Seconds())
	r.scanExitCode.Set(float64(exitCode))
}

// ObserveReport records a written report.
func (r *Recorder) ObserveReport(report string, d time.Duration, at time.Time) {
	r.duration.WithLabelValues(report).Set(d.Seconds())
	r.lastSuccess.WithLabelValues(report).Set(float64(at.Unix()))
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is written atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

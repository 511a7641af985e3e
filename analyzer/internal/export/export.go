package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/obsidianstack/sensorscan/pkg/types"
)

// Metric names written to the textfile.
const (
	MetricAnomalyEvents    = "sensorscan_anomaly_events"
	MetricReadingsAnalyzed = "sensorscan_readings_analyzed"
	MetricLastRun          = "sensorscan_last_run_timestamp_seconds"
)

// Metrics holds the collectors for one report.
type Metrics struct {
	registry *prometheus.Registry
	events   *prometheus.GaugeVec
	readings prometheus.Gauge
	lastRun  prometheus.Gauge
}

// NewMetrics returns collectors registered on a fresh private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricAnomalyEvents,
			Help: "Anomaly events counted in the last analyzed run, by kind.",
		}, []string{"kind"}),
		readings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricReadingsAnalyzed,
			Help: "Number of readings in the last analyzed run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricLastRun,
			Help: "Unix time the last analysis finished.",
		}),
	}
	m.registry.MustRegister(m.events, m.readings, m.lastRun)
	return m
}

// Set records rep and the run time.
func (m *Metrics) Set(rep *types.Report, now time.Time) {
	for _, kind := range types.Kinds {
		m.events.WithLabelValues(kind).Set(float64(rep.Count(kind)))
	}
	m.readings.Set(float64(rep.Readings))
	m.lastRun.Set(float64(now.UnixNano()) / 1e9)
}

// WriteTo encodes the gathered metrics in the text exposition format.
func (m *Metrics) WriteTo(w io.Writer) (int64, error) {
	mfs, err := m.registry.Gather()
	if err != nil {
		return 0, fmt.Errorf("export: gather: %w", err)
	}
	var total int64
	for _, mf := range mfs {
		n, err := expfmt.MetricFamilyToText(w, mf)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("export: encode %s: %w", mf.GetName(), err)
		}
	}
	return total, nil
}

// Write renders rep to a textfile at path, replacing any previous file.
func Write(path string, rep *types.Report, now time.Time) error {
	m := NewMetrics()
	m.Set(rep, now)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("export: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := m.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("export: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export: rename: %w", err)
	}
	return nil
}

// Read parses the textfile at path and returns the anomaly counts by kind.
func Read(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: open: %w", err)
	}
	defer f.Close()

	mfs, err := parseMetrics(f)
	if err != nil {
		return nil, err
	}
	mf, ok := mfs[MetricAnomalyEvents]
	if !ok {
		return nil, fmt.Errorf("export: %s not found in %s", MetricAnomalyEvents, path)
	}
	out := make(map[string]float64, len(types.Kinds))
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "kind" {
				out[lp.GetValue()] += valueOf(m)
			}
		}
	}
	return out, nil
}

// parseMetrics decodes a Prometheus text exposition from r into metric families.
func parseMetrics(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return nil, fmt.Errorf("export: parse prometheus text: %w", err)
	}
	return mfs, nil
}

// valueOf returns the counter, gauge, or untyped value of m.
func valueOf(m *dto.Metric) float64 {
	switch {
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	}
	return 0
}

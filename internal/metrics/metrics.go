// Package metrics collects run measurements as Prometheus metrics and
// writes them in the node-exporter textfile format.
package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pdfscan"

// ErrNoPath is returned by WriteFile when no path is given.
var ErrNoPath = errors.New("metrics file path is empty")

// Collector holds the metrics of a single run on a private registry.
// The zero value is not usable; use New.
type Collector struct {
	registry *prometheus.Registry

	files    *prometheus.CounterVec
	pages    *prometheus.CounterVec
	matches  *prometheus.CounterVec
	duration prometheus.Gauge
}

// New creates a Collector with all metrics registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Documents analyzed, by outcome.",
		}, []string{"status"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Pages read, by text acquisition method.",
		}, []string{"method"}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Keyword matches found, by keyword.",
		}, []string{"keyword"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last analysis run.",
		}),
	}
	c.registry.MustRegister(c.files, c.pages, c.matches, c.duration)
	return c
}

// FileProcessed counts a document by status.
func (c *Collector) FileProcessed(status string) {
	c.files.WithLabelValues(status).Inc()
}

// PageExtracted counts a page by acquisition method.
func (c *Collector) PageExtracted(method string) {
	c.pages.WithLabelValues(method).Inc()
}

// MatchFound counts a match for keyword. Invalid UTF-8 in the keyword is
// replaced, since label values must be valid UTF-8.
func (c *Collector) MatchFound(keyword string) {
	c.matches.WithLabelValues(strings.ToValidUTF8(keyword, "\uFFFD")).Inc()
}

// RunFinished records the run duration.
func (c *Collector) RunFinished(elapsed time.Duration) {
	c.duration.Set(elapsed.Seconds())
}

// Registry returns the registry the metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteFile writes every metric to path in the textfile collector format.
// The file is replaced atomically; missing parent directories are created.
func (c *Collector) WriteFile(path string) error {
	if path == "" {
		return ErrNoPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}

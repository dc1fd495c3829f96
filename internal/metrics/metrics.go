// Package metrics exposes gradebook counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	CellsWritten  *prometheus.CounterVec // by source: single|fill|paste
	PasteSkipped  prometheus.Counter
	SnapshotSaves *prometheus.CounterVec // by result: ok|error

	gatherer prometheus.Gatherer
}

// New registers the gradebook collectors on reg. A nil reg uses a fresh
// registry, which keeps tests independent of the global one.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		CellsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gradebook",
			Name:      "cells_written_total",
			Help:      "Score cells written, by edit source.",
		}, []string{"source"}),
		PasteSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gradebook",
			Name:      "paste_lines_skipped_total",
			Help:      "Pasted lines that were not numeric or fell outside the row list.",
		}),
		SnapshotSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gradebook",
			Name:      "snapshot_saves_total",
			Help:      "Snapshot saves, by result.",
		}, []string{"result"}),
		gatherer: reg,
	}
	reg.MustRegister(m.CellsWritten, m.PasteSkipped, m.SnapshotSaves)
	return m
}

func (m *Metrics) Written(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CellsWritten.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) Skipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.PasteSkipped.Add(float64(n))
}

func (m *Metrics) Saved(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SnapshotSaves.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Package metrics provides optional Prometheus instrumentation for encoding
// and validation.
//
// A nil *Collector is valid and records nothing, so packages can call it
// unconditionally.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the structmeta counters.
type Collector struct {
	EncodedBytesTotal     *prometheus.CounterVec
	EncodeErrorsTotal     *prometheus.CounterVec
	ValidationIssuesTotal *prometheus.CounterVec
	ValidationRunsTotal   prometheus.Counter
}

// NewCollector creates the counters and registers them with reg. A nil reg
// creates unregistered counters.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		EncodedBytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "structmeta_encoded_bytes_total",
				Help: "Total number of bytes written to property buffers",
			},
			[]string{"element_type", "component_type"},
		),
		EncodeErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "structmeta_encode_errors_total",
				Help: "Total number of rejected property value assignments",
			},
			[]string{"reason"},
		),
		ValidationIssuesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "structmeta_validation_issues_total",
				Help: "Total number of validation issues found",
			},
			[]string{"kind", "severity"},
		),
		ValidationRunsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "structmeta_validation_runs_total",
				Help: "Total number of validation passes",
			},
		),
	}
}

// RecordEncoded adds n encoded bytes for the given type labels.
func (c *Collector) RecordEncoded(elementType, componentType string, n int) {
	if c == nil {
		return
	}
	c.EncodedBytesTotal.WithLabelValues(elementType, componentType).Add(float64(n))
}

// RecordEncodeError counts a rejected assignment.
func (c *Collector) RecordEncodeError(reason string) {
	if c == nil {
		return
	}
	c.EncodeErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordValidationIssue counts one validation issue.
func (c *Collector) RecordValidationIssue(kind, severity string) {
	if c == nil {
		return
	}
	c.ValidationIssuesTotal.WithLabelValues(kind, severity).Inc()
}

// RecordValidationRun counts one validation pass.
func (c *Collector) RecordValidationRun() {
	if c == nil {
		return
	}
	c.ValidationRunsTotal.Inc()
}

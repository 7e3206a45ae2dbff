package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "aer_digest_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	invocationsTotal *prometheus.CounterVec
	invocationErrors *prometheus.CounterVec

	stageTotal   *prometheus.CounterVec
	stageLatency *prometheus.HistogramVec
)

// Init registers the digest metrics with the default registry.
func Init() {
	registerOnce.Do(func() {
		invocationsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invocations_total",
				Help: "Total pipeline invocations by dataset and terminal status",
			},
			[]string{"dataset", "status"},
		)
		invocationErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invocation_errors_total",
				Help: "Total failed invocations by dataset",
			},
			[]string{"dataset"},
		)

		stageTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "stage_total",
				Help: "Total pipeline stage executions by stage and result",
			},
			[]string{"stage", "result"},
		)
		stageLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "stage_latency_seconds",
				Help:    "Pipeline stage latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage", "result"},
		)

		prometheus.MustRegister(
			invocationsTotal,
			invocationErrors,
			stageTotal,
			stageLatency,
		)
	})
}

// IncInvocation records a completed invocation with its terminal status.
func IncInvocation(dataset, status string) {
	if invocationsTotal != nil {
		invocationsTotal.WithLabelValues(dataset, status).Inc()
	}
}

// IncInvocationError records a failed invocation.
func IncInvocationError(dataset string) {
	if invocationErrors != nil {
		invocationErrors.WithLabelValues(dataset).Inc()
	}
}

// ObserveStage records one pipeline stage execution.
func ObserveStage(stage string, err error, duration time.Duration) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if stageTotal != nil {
		stageTotal.WithLabelValues(stage, result).Inc()
	}
	if stageLatency != nil {
		stageLatency.WithLabelValues(stage, result).Observe(duration.Seconds())
	}
}

// Stage labels used by the pipeline.
const (
	StageFetch     = "fetch"
	StageStore     = "store"
	StageSummarize = "summarize"
	StageNotify    = "notify"
	StageDelete    = "delete"
)

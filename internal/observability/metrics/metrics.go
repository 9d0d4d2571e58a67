package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "solar_insights_"

	resultSuccess = "success"
	resultError   = "error"
	resultPartial = "partial"
)

var (
	registerOnce sync.Once

	decodeTotal    *prometheus.CounterVec
	decodeLatency  *prometheus.HistogramVec
	recordsSkipped *prometheus.CounterVec
	rateMismatches prometheus.Counter

	pipelineRuns    *prometheus.CounterVec
	pipelineLatency *prometheus.HistogramVec

	planDetections *prometheus.CounterVec

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec

	runStoreTotal   *prometheus.CounterVec
	runStoreLatency *prometheus.HistogramVec
)

// Init registers observability metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		decodeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "decode_total",
				Help: "Total payload decode operations by dataset and result",
			},
			[]string{"dataset", "result"},
		)
		decodeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "decode_latency_seconds",
				Help:    "Payload decode latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"dataset", "result"},
		)
		recordsSkipped = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_skipped_total",
				Help: "Total usage records dropped during decoding by reason",
			},
			[]string{"reason"},
		)
		rateMismatches = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "rate_split_mismatches_total",
				Help: "Total records whose rate splits did not cover their consumption",
			},
		)

		pipelineRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "pipeline_runs_total",
				Help: "Total analytics pipeline runs by result",
			},
			[]string{"result"},
		)
		pipelineLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "pipeline_latency_seconds",
				Help:    "Analytics pipeline latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		planDetections = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "plan_detections_total",
				Help: "Total plan detections by detected plan type",
			},
			[]string{"plan"},
		)

		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total usage report export operations by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Usage report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		runStoreTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "run_store_total",
				Help: "Total persisted run results by result",
			},
			[]string{"result"},
		)
		runStoreLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_store_latency_seconds",
				Help:    "Run result persistence latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			decodeTotal,
			decodeLatency,
			recordsSkipped,
			rateMismatches,
			pipelineRuns,
			pipelineLatency,
			planDetections,
			reportExportTotal,
			reportExportLatency,
			runStoreTotal,
			runStoreLatency,
		)
	})
}

// ObserveDecode records a payload decode duration and result.
func ObserveDecode(dataset, result string, duration time.Duration) {
	if dataset == "" {
		dataset = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if decodeTotal != nil {
		decodeTotal.WithLabelValues(dataset, result).Inc()
	}
	if decodeLatency != nil {
		decodeLatency.WithLabelValues(dataset, result).Observe(duration.Seconds())
	}
}

// AddRecordsSkipped increments the skipped-record counter by count.
func AddRecordsSkipped(reason string, count int) {
	if count <= 0 {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	if recordsSkipped != nil {
		recordsSkipped.WithLabelValues(reason).Add(float64(count))
	}
}

// AddRateMismatches increments the rate-split mismatch counter by count.
func AddRateMismatches(count int) {
	if count <= 0 {
		return
	}
	if rateMismatches != nil {
		rateMismatches.Add(float64(count))
	}
}

// ObservePipelineRun records pipeline duration and result.
func ObservePipelineRun(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if pipelineRuns != nil {
		pipelineRuns.WithLabelValues(result).Inc()
	}
	if pipelineLatency != nil {
		pipelineLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncPlanDetection increments the detection counter for a plan type.
func IncPlanDetection(plan string) {
	if plan == "" {
		plan = "unknown"
	}
	if planDetections != nil {
		planDetections.WithLabelValues(plan).Inc()
	}
}

// ObserveReportExport records report export latency and result.
func ObserveReportExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveRunStore records run persistence latency and result.
func ObserveRunStore(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if runStoreTotal != nil {
		runStoreTotal.WithLabelValues(result).Inc()
	}
	if runStoreLatency != nil {
		runStoreLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultPartial = resultPartial
)

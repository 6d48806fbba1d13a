package bridge

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/compose-network/bmcp/metrics"
)

// Metrics holds encode and decode pipeline metrics
type Metrics struct {
	EncodedTotal     *prometheus.CounterVec
	DecodedTotal     *prometheus.CounterVec
	ErrorsTotal      *prometheus.CounterVec
	PayloadSizeBytes *prometheus.HistogramVec
	ScannedOutputs   prometheus.Counter
	BatchSize        prometheus.Histogram
	InflightDecodes  prometheus.Gauge
}

// NewMetrics creates bridge metrics on the process registry
func NewMetrics() *Metrics {
	return newMetrics(metrics.NewComponentRegistry("bridge", ""))
}

// NewMetricsWith creates bridge metrics on reg
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	return newMetrics(metrics.NewComponentRegistryWith(reg, "bridge", ""))
}

func newMetrics(reg *metrics.ComponentRegistry) *Metrics {
	return &Metrics{
		EncodedTotal: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "encoded_total",
			Help: "Payloads encoded by format",
		}, []string{"format"}),

		DecodedTotal: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "decoded_total",
			Help: "Payloads decoded and validated by format",
		}, []string{"format"}),

		ErrorsTotal: reg.NewCounterVec(prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Pipeline failures by operation and kind",
		}, []string{"operation", "kind"}),

		PayloadSizeBytes: reg.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "payload_size_bytes",
			Help:    "Size of encoded or decoded payloads",
			Buckets: metrics.SizeBuckets,
		}, []string{"format"}),

		ScannedOutputs: reg.NewCounter(prometheus.CounterOpts{
			Name: "scanned_outputs_total",
			Help: "OP_RETURN outputs inspected by transaction scans",
		}),

		BatchSize: reg.NewHistogram(prometheus.HistogramOpts{
			Name:    "decode_batch_size",
			Help:    "Scripts per batch decode",
			Buckets: metrics.CountBuckets,
		}),

		InflightDecodes: reg.NewGauge(prometheus.GaugeOpts{
			Name: "inflight_decodes",
			Help: "Batch decodes currently running",
		}),
	}
}

func (m *Metrics) recordEncoded(format Format, size int) {
	if m == nil {
		return
	}
	m.EncodedTotal.WithLabelValues(string(format)).Inc()
	m.PayloadSizeBytes.WithLabelValues(string(format)).Observe(float64(size))
}

func (m *Metrics) recordDecoded(format Format, size int) {
	if m == nil {
		return
	}
	m.DecodedTotal.WithLabelValues(string(format)).Inc()
	m.PayloadSizeBytes.WithLabelValues(string(format)).Observe(float64(size))
}

func (m *Metrics) recordError(operation, kind string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(operation, kind).Inc()
}

func (m *Metrics) recordBatch(n int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(n))
}

func (m *Metrics) inflight(delta float64) {
	if m == nil {
		return
	}
	m.InflightDecodes.Add(delta)
}

func (m *Metrics) recordScanned(n int) {
	if m == nil {
		return
	}
	m.ScannedOutputs.Add(float64(n))
}

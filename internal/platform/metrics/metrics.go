package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "scheduler_"

// Metrics は配置スケジューラの Prometheus メトリクスをまとめます。
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	ConflictsTotal    *prometheus.CounterVec
}

// New はメトリクスを生成し reg に登録します。reg が nil の場合はデフォルトレジストリを利用します。
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "operations_total",
				Help: "Total scheduler operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "operation_duration_seconds",
				Help:    "Scheduler operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		ConflictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "conflicts_total",
				Help: "Rejected assignments by conflicting subject",
			},
			[]string{"subject"},
		),
	}

	reg.MustRegister(m.OperationsTotal, m.OperationDuration, m.ConflictsTotal)
	return m
}

// ObserveOperation は操作の結果と所要時間を記録します。
func (m *Metrics) ObserveOperation(operation, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, result).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveConflict は重複検出による拒否を記録します。
func (m *Metrics) ObserveConflict(subject string) {
	if m == nil {
		return
	}
	m.ConflictsTotal.WithLabelValues(subject).Inc()
}

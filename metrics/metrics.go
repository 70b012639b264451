package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa os contadores Prometheus do serviço.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationErrors   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	PaymentsTotal     *prometheus.CounterVec
}

// New cria e registra as métricas no registrador padrão.
func New() *Metrics {
	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pedacin_operations_total",
				Help: "Total de operações do ledger processadas",
			},
			[]string{"operation"},
		),
		OperationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pedacin_operation_errors_total",
				Help: "Total de operações do ledger rejeitadas",
			},
			[]string{"operation"},
		),
		OperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pedacin_operation_duration_seconds",
				Help:    "Duração do processamento das operações do ledger",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pedacin_payments_total",
				Help: "Total de pagamentos por tipo e status",
			},
			[]string{"kind", "status"},
		),
	}
}

// Observe registra uma operação concluída e sua duração em segundos.
func (m *Metrics) Observe(operation string, seconds float64, err error) {
	m.OperationsTotal.WithLabelValues(operation).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		m.OperationErrors.WithLabelValues(operation).Inc()
	}
}

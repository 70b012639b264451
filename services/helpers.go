package services

import (
	"time"

	"github.com/ferreirogomes/pedacin/metrics"
)

// observe devolve o finalizador de métricas de uma operação; os serviços o
// chamam em defer com o erro final da operação.
func observe(m *metrics.Metrics, op string, start time.Time) func(err error) {
	return func(err error) {
		if m == nil {
			return
		}
		m.Observe(op, time.Since(start).Seconds(), err)
	}
}

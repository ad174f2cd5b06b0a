// Package metrics expone contadores Prometheus del estoque y de HTTP en un registro propio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/ecosystem-api/internal/application/inventory"
)

var _ inventory.Metrics = (*Metrics)(nil)

const namespace = "ecosystem"

// Metrics agrupa el registro y los colectores de la aplicación.
type Metrics struct {
	registry     *prometheus.Registry
	batches      *prometheus.CounterVec
	lines        *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New crea un registro nuevo con colectores de Go y del proceso.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "estoque",
			Name:      "batches_total",
			Help:      "Lotes de movimientos confirmados.",
		}, []string{"tipo"}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "estoque",
			Name:      "movements_total",
			Help:      "Movimientos anexados al ledger.",
		}, []string{"tipo"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "estoque",
			Name:      "batch_rejections_total",
			Help:      "Lotes rechazados por motivo.",
		}, []string{"tipo", "reason"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.batches, m.lines, m.rejections, m.httpDuration,
	)
	return m
}

// BatchCommitted cuenta un lote confirmado y sus líneas.
func (m *Metrics) BatchCommitted(tipo string, lines int) {
	m.batches.WithLabelValues(tipo).Inc()
	m.lines.WithLabelValues(tipo).Add(float64(lines))
}

// BatchRejected cuenta un lote rechazado.
func (m *Metrics) BatchRejected(tipo, reason string) {
	m.rejections.WithLabelValues(tipo, reason).Inc()
}

// ObserveHTTP registra la duración de una petición. route es el patrón, no la URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler expone el registro en formato de texto Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

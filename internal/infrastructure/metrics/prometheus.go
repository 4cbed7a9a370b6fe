// Package metrics expone contadores Prometheus del servicio de marcaciones.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/marcaciones-api/internal/application/attendance"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
)

var _ attendance.Metrics = (*Prometheus)(nil)

// Prometheus implementa attendance.Metrics con un registry propio (no el global).
type Prometheus struct {
	registry      *prometheus.Registry
	recorded      *prometheus.CounterVec
	verifications *prometheus.CounterVec
	notifyFailed  prometheus.Counter
	rateLimited   prometheus.Counter
}

// NewPrometheus registra los contadores y los colectores de proceso y runtime.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		recorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marcaciones_registradas_total",
			Help: "Marcaciones persistidas por tipo.",
		}, []string{"tipo"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "verificaciones_total",
			Help: "Verificaciones públicas por resultado.",
		}, []string{"resultado"}),
		notifyFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notificaciones_fallidas_total",
			Help: "Comprobantes que no se pudieron enviar.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "verificaciones_limitadas_total",
			Help: "Solicitudes de verificación rechazadas por límite de tasa.",
		}),
	}
	reg.MustRegister(
		p.recorded, p.verifications, p.notifyFailed, p.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prometheus) EventRecorded(kind entity.EventKind) {
	p.recorded.WithLabelValues(string(kind)).Inc()
}

func (p *Prometheus) Verified(valid bool) {
	result := "invalido"
	if valid {
		result = "valido"
	}
	p.verifications.WithLabelValues(result).Inc()
}

func (p *Prometheus) NotificationFailed() {
	p.notifyFailed.Inc()
}

// RateLimited cuenta una verificación rechazada por el limitador.
func (p *Prometheus) RateLimited() {
	p.rateLimited.Inc()
}

// Handler devuelve el endpoint de exposición del registry.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry expone el registry para tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

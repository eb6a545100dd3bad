// Package metrics contadores Prometheus del flujo de pagos.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/wingman-crm/internal/application/ports"
)

var _ ports.WebhookMetrics = (*Prometheus)(nil)

// Prometheus implementa ports.WebhookMetrics sobre un registry propio.
type Prometheus struct {
	registry     *prometheus.Registry
	webhooks     *prometheus.CounterVec
	commissions  prometheus.Counter
	paymentLinks *prometheus.CounterVec
}

// New registra los contadores y los collectors de proceso y runtime.
func New(namespace string) *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_processed_total",
			Help:      "Webhooks de la pasarela por evento y resultado.",
		}, []string{"event", "result"}),
		commissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commissions_caused_total",
			Help:      "Comisiones causadas por pagos aprobados.",
		}),
		paymentLinks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_links_total",
			Help:      "Links de pago solicitados por resultado.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		p.webhooks, p.commissions, p.paymentLinks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prometheus) WebhookProcessed(event, result string) {
	if event == "" {
		event = "unknown"
	}
	p.webhooks.WithLabelValues(event, result).Inc()
}

func (p *Prometheus) CommissionCaused() { p.commissions.Inc() }

func (p *Prometheus) PaymentLinkIssued(result string) { p.paymentLinks.WithLabelValues(result).Inc() }

// Handler expone el registry en formato de texto de Prometheus.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry registry usado, para tests.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

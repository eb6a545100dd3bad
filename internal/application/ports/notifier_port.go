package ports

import "context"

// Mailer envío de correos (SMTP o log).
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// WebhookMetrics métricas del procesamiento de webhooks y pagos.
type WebhookMetrics interface {
	WebhookProcessed(event, result string)
	CommissionCaused()
	PaymentLinkIssued(result string)
}

// NopMetrics implementación vacía de WebhookMetrics.
type NopMetrics struct{}

func (NopMetrics) WebhookProcessed(string, string) {}
func (NopMetrics) CommissionCaused()               {}
func (NopMetrics) PaymentLinkIssued(string)        {}

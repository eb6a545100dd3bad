package ports

import (
	"context"
	"fmt"
)

// PaymentLinkRequest datos para crear un link de pago alojado por la pasarela.
type PaymentLinkRequest struct {
	Name          string
	Description   string
	AmountInCents int64
	Currency      string
	RedirectURL   string
	Metadata      map[string]string
	CustomerEmail string
	CustomerName  string
}

// PaymentLink respuesta de la pasarela.
type PaymentLink struct {
	ID          string
	CheckoutURL string
}

// PaymentGateway puerto de salida hacia la pasarela de pagos (Wompi).
type PaymentGateway interface {
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error)
}

// ProviderError respuesta no exitosa de un proveedor externo; Body es el cuerpo tal cual llegó.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       []byte
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Provider, e.StatusCode, string(e.Body))
}

// WebhookVerifier valida la firma de un callback sobre el cuerpo crudo.
type WebhookVerifier interface {
	Verify(body []byte, signature string) bool
}

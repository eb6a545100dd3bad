// Package wompi adaptador REST de la pasarela de pagos Wompi (links de pago y firma de eventos).
package wompi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/wingman-crm/internal/application/ports"
)

// Verificar en tiempo de compilación que Client implementa PaymentGateway.
var _ ports.PaymentGateway = (*Client)(nil)

const providerName = "wompi"

// Client usa la API REST de Wompi con net/http; no hay SDK oficial en Go.
type Client struct {
	apiURL      string
	checkoutURL string
	privateKey  string
	httpClient  *http.Client
}

// NewClient construye el adaptador. timeout acota la llamada de red; el caso de uso impone además
// un context.WithTimeout.
func NewClient(apiURL, checkoutURL, privateKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		apiURL:      apiURL,
		checkoutURL: checkoutURL,
		privateKey:  privateKey,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// ── Estructuras del protocolo /payment_links ──────────────────────────────────

type paymentLinkRequest struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	SingleUse       bool              `json:"single_use"`
	CollectShipping bool              `json:"collect_shipping"`
	Currency        string            `json:"currency"`
	AmountInCents   int64             `json:"amount_in_cents"`
	RedirectURL     string            `json:"redirect_url,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CustomerData    *customerData     `json:"customer_data,omitempty"`
}

type customerData struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

type paymentLinkResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// CreatePaymentLink crea un link de pago reutilizable. Una respuesta no 2xx devuelve
// *ports.ProviderError con el cuerpo tal cual lo envió Wompi.
func (c *Client) CreatePaymentLink(ctx context.Context, in ports.PaymentLinkRequest) (*ports.PaymentLink, error) {
	if c.privateKey == "" {
		return nil, fmt.Errorf("wompi: WOMPI_PRIVATE_KEY no configurado")
	}
	payload := paymentLinkRequest{
		Name:          in.Name,
		Description:   in.Description,
		Currency:      in.Currency,
		AmountInCents: in.AmountInCents,
		RedirectURL:   in.RedirectURL,
		Metadata:      in.Metadata,
	}
	if payload.Currency == "" {
		payload.Currency = "COP"
	}
	if in.CustomerEmail != "" {
		payload.CustomerData = &customerData{Email: in.CustomerEmail, FullName: in.CustomerName}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("wompi: serializar request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/payment_links", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("wompi: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.privateKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("wompi: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("wompi: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("wompi: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ports.ProviderError{Provider: providerName, StatusCode: resp.StatusCode, Body: rawBody}
	}

	var out paymentLinkResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return nil, fmt.Errorf("wompi: deserializar respuesta: %w", err)
	}
	if out.Data.ID == "" {
		return nil, fmt.Errorf("wompi: respuesta sin data.id")
	}
	return &ports.PaymentLink{
		ID:          out.Data.ID,
		CheckoutURL: c.checkoutURL + "/" + out.Data.ID,
	}, nil
}

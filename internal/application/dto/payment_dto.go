package dto

// CreatePaymentLinkRequest entrada de POST /api/comercial/payment-links.
// Amount en pesos colombianos; 0 = valor de suscripción por defecto.
type CreatePaymentLinkRequest struct {
	LeadID       string `json:"lead_id" validate:"required"`
	BarName      string `json:"bar_name" validate:"required,max=200"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactName  string `json:"contact_name" validate:"omitempty,max=200"`
	Amount       int64  `json:"amount" validate:"omitempty,min=1000"`
}

// PaymentLinkResponse salida con el link de checkout.
type PaymentLinkResponse struct {
	Success     bool   `json:"success"`
	PaymentLink string `json:"payment_link"`
	PaymentID   string `json:"payment_id"`
	Message     string `json:"message"`
}

// WompiEvent cuerpo de un webhook de Wompi.
type WompiEvent struct {
	Event string         `json:"event"`
	Data  WompiEventData `json:"data"`
}

// WompiEventData datos de la transacción o link del evento.
type WompiEventData struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	AmountInCents int64          `json:"amount_in_cents"`
	Reference     string         `json:"reference"`
	Metadata      map[string]any `json:"metadata"`
}

// MetadataString lee una clave string de la metadata (vacío si no existe o no es string).
func (d WompiEventData) MetadataString(key string) string {
	if d.Metadata == nil {
		return ""
	}
	s, _ := d.Metadata[key].(string)
	return s
}

// WebhookAck respuesta al proveedor.
type WebhookAck struct {
	Status string `json:"status"`
}

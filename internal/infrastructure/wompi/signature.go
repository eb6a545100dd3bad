package wompi

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/jhoicas/wingman-crm/internal/application/ports"
)

var _ ports.WebhookVerifier = (*Verifier)(nil)

// Verifier valida el header x-signature: hex(sha256(body || secreto de eventos)).
type Verifier struct {
	secret []byte
}

// NewVerifier construye el verificador. Con secreto vacío toda firma es inválida.
func NewVerifier(eventsSecret string) *Verifier {
	return &Verifier{secret: []byte(eventsSecret)}
}

// Sign calcula la firma esperada para body.
func (v *Verifier) Sign(body []byte) string {
	h := sha256.New()
	h.Write(body)
	h.Write(v.secret)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify compara en tiempo constante; acepta el prefijo opcional "sha256=".
func (v *Verifier) Verify(body []byte, signature string) bool {
	if len(v.secret) == 0 {
		return false
	}
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	got, err := hex.DecodeString(strings.ToLower(signature))
	if err != nil || len(got) != sha256.Size {
		return false
	}
	h := sha256.New()
	h.Write(body)
	h.Write(v.secret)
	return subtle.ConstantTimeCompare(got, h.Sum(nil)) == 1
}

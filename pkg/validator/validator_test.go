package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wingman-crm/pkg/validator"
)

type sample struct {
	LeadID string `json:"lead_id" validate:"required,uuid"`
	Email  string `json:"email" validate:"omitempty,email"`
	Metodo string `json:"metodo" validate:"required,oneof=evento estandar"`
}

func TestStruct_MensajesUsanNombreJSON(t *testing.T) {
	v := validator.New()
	err := v.Struct(sample{Email: "no-email", Metodo: "otro"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead_id es obligatorio")
	assert.Contains(t, err.Error(), "email debe ser un email válido")
	assert.Contains(t, err.Error(), "metodo debe ser uno de: evento estandar")
}

func TestStruct_Valido(t *testing.T) {
	v := validator.New()
	assert.NoError(t, v.Struct(sample{LeadID: "6f1c3a52-9d7e-4c1b-8a2f-3e4d5c6b7a81", Metodo: "evento"}))
}

package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/wingman-crm/pkg/phone"
)

func TestNormalizeE164(t *testing.T) {
	assert.Equal(t, "+573001234567", phone.NormalizeE164("300 123 4567"))
	assert.Equal(t, "+573001234567", phone.NormalizeE164("+57 300-123-4567"))
	assert.Equal(t, "", phone.NormalizeE164("  "))
	assert.Equal(t, "no-es-telefono", phone.NormalizeE164(" no-es-telefono "))
}

package leads

import (
	"strings"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
)

const noteTimeLayout = "2006-01-02 15:04"

// RenderNoteLog arma la bitácora legible del lead: nota de registro seguida de una línea por entrada del historial.
func RenderNoteLog(nota string, history []*entity.LeadHistory) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(nota))
	for _, h := range history {
		if h.Tipo == entity.HistoryRegistro {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[")
		b.WriteString(h.CreatedAt.UTC().Format(noteTimeLayout))
		b.WriteString("] ")
		b.WriteString(h.Descripcion)
	}
	return b.String()
}

package dto

import "github.com/jhoicas/wingman-crm/internal/domain/entity"

// NewBarResponse convierte la entidad a DTO.
func NewBarResponse(b *entity.Bar) BarResponse {
	return BarResponse{
		ID:               b.ID,
		Name:             b.Name,
		NIT:              b.NIT,
		Address:          b.Address,
		Ciudad:           b.Ciudad,
		CapacidadOficial: b.CapacidadOficial,
		ContactoNombre:   b.ContactoNombre,
		ContactoTelefono: b.ContactoTelefono,
		ContactoEmail:    b.ContactoEmail,
		AccountStatus:    b.AccountStatus,
		MotivoRechazo:    b.MotivoRechazo,
		CreatedAt:        b.CreatedAt,
	}
}

// NewLeadResponse convierte el detalle del lead a DTO (sin nota renderizada).
func NewLeadResponse(l *entity.LeadDetail) LeadResponse {
	return LeadResponse{
		ID:               l.ID,
		BarID:            l.BarID,
		BarName:          l.BarName,
		BarAddress:       l.BarAddress,
		OwnerID:          l.OwnerID,
		OwnerNombre:      l.OwnerNombre,
		Source:           l.Source,
		NombreContacto:   l.NombreContacto,
		EmailContacto:    l.EmailContacto,
		TelefonoContacto: l.TelefonoContacto,
		Ciudad:           l.Ciudad,
		Score:            l.Score,
		Etapa:            l.Etapa.String(),
		Grupo:            string(l.Etapa.Group()),
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// NewEventResponse convierte la entidad a DTO.
func NewEventResponse(e *entity.Event) EventResponse {
	return EventResponse{
		ID:            e.ID,
		BarID:         e.BarID,
		ComercialID:   e.ComercialID,
		LeadID:        e.LeadID,
		Titulo:        e.Titulo,
		Fecha:         e.Fecha,
		CapacidadMeta: e.CapacidadMeta,
		Ubicacion:     e.Ubicacion,
		Descripcion:   e.Descripcion,
		Estado:        e.Estado,
		CreatedAt:     e.CreatedAt,
	}
}

// NewCommissionResponse convierte la entidad a DTO.
func NewCommissionResponse(c *entity.Commission) CommissionResponse {
	return CommissionResponse{
		ID:             c.ID,
		LeadID:         c.LeadID,
		Tipo:           c.Tipo,
		Monto:          c.Monto,
		MontoNeto:      c.MontoNeto,
		Concepto:       c.Concepto,
		Estado:         c.Estado,
		FechaCausacion: c.FechaCausacion,
		TransaccionID:  c.TransaccionID,
	}
}

// NewLeadHistoryResponse convierte la entrada del historial a DTO.
func NewLeadHistoryResponse(h *entity.LeadHistory) LeadHistoryResponse {
	return LeadHistoryResponse{
		ID:            h.ID,
		Tipo:          h.Tipo,
		EtapaAnterior: h.EtapaAnterior,
		EtapaNueva:    h.EtapaNueva,
		Descripcion:   h.Descripcion,
		Actor:         h.Actor,
		Metadata:      h.Metadata,
		CreatedAt:     h.CreatedAt,
	}
}

// NewComercialResponse convierte la entidad a DTO.
func NewComercialResponse(c *entity.Comercial) ComercialResponse {
	return ComercialResponse{
		ID:       c.ID,
		UserID:   c.UserID,
		Nombre:   c.Nombre,
		Email:    c.Email,
		Telefono: c.Telefono,
		Ciudad:   c.Ciudad,
		Activo:   c.Activo,
	}
}

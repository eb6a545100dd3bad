package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
)

// SeedComercial inserta un comercial activo con su rol COMERCIAL.
func (db *DB) SeedComercial(nombre, email string) entity.Comercial {
	now := time.Now()
	c := entity.Comercial{
		ID:        uuid.New().String(),
		UserID:    uuid.New().String(),
		Nombre:    nombre,
		Email:     email,
		Activo:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.d.comerciales[c.ID] = c
	role := entity.CRMRole{
		ID:          uuid.New().String(),
		UserID:      c.UserID,
		ComercialID: c.ID,
		Role:        entity.RoleComercial,
		Activo:      true,
		CreatedAt:   now,
	}
	db.d.roles[role.ID] = role
	return c
}

// SeedLead inserta un bar y su lead en la etapa indicada, a nombre del comercial.
func (db *DB) SeedLead(ownerID, barName string, etapa pipeline.Stage) (entity.Bar, entity.Lead) {
	now := time.Now()
	bar := entity.Bar{
		ID:            uuid.New().String(),
		Name:          barName,
		Address:       "Calle 85 #12-30",
		Ciudad:        "Bogotá",
		AccountStatus: entity.BarStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	lead := entity.Lead{
		ID:             uuid.New().String(),
		BarID:          bar.ID,
		OwnerID:        ownerID,
		Source:         entity.LeadSourceWebform,
		NombreContacto: "Contacto " + barName,
		EmailContacto:  "contacto@bar.co",
		Ciudad:         "Bogotá",
		Score:          75,
		Etapa:          etapa,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.d.bars[bar.ID] = bar
	db.d.leads[lead.ID] = lead
	return bar, lead
}

// SeedCommission inserta una comisión tal cual.
func (db *DB) SeedCommission(c entity.Commission) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.d.commissions[c.ID] = c
}

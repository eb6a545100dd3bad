package registration

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

// BarApprovalUseCase aprobación de bares registrados (admin).
type BarApprovalUseCase struct {
	bars repository.BarRepository
}

// NewBarApprovalUseCase construye el caso de uso.
func NewBarApprovalUseCase(bars repository.BarRepository) *BarApprovalUseCase {
	return &BarApprovalUseCase{bars: bars}
}

// List lista bares por estado (por defecto pendientes de verificación).
func (uc *BarApprovalUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]dto.BarResponse, error) {
	page.DefaultPage()
	if status == "" {
		status = entity.BarStatusPending
	}
	bars, err := uc.bars.ListByStatus(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BarResponse, 0, len(bars))
	for _, b := range bars {
		out = append(out, dto.NewBarResponse(b))
	}
	return out, nil
}

// UpdateStatus aprueba o rechaza un bar pendiente. El rechazo exige motivo.
func (uc *BarApprovalUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateBarStatusRequest) (*dto.BarResponse, error) {
	motivo := strings.TrimSpace(in.Motivo)
	if in.AccountStatus == entity.BarStatusRejected && motivo == "" {
		return nil, fmt.Errorf("%w: motivo es obligatorio al rechazar", domain.ErrInvalidInput)
	}
	bar, err := uc.bars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bar == nil {
		return nil, domain.ErrNotFound
	}
	if bar.AccountStatus != entity.BarStatusPending {
		return nil, fmt.Errorf("%w: el bar ya está %s", domain.ErrConflict, bar.AccountStatus)
	}
	if err := uc.bars.UpdateStatus(ctx, id, in.AccountStatus, motivo); err != nil {
		return nil, err
	}
	bar.AccountStatus = in.AccountStatus
	bar.MotivoRechazo = motivo
	out := dto.NewBarResponse(bar)
	return &out, nil
}

package analytics

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/commission"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

// CommissionUseCase consultas de comisiones del comercial y avance del ciclo de vida (admin).
type CommissionUseCase struct {
	commissions repository.CommissionRepository
}

// NewCommissionUseCase construye el caso de uso.
func NewCommissionUseCase(commissions repository.CommissionRepository) *CommissionUseCase {
	return &CommissionUseCase{commissions: commissions}
}

func (uc *CommissionUseCase) list(ctx context.Context, p ports.Principal, estado string) ([]*entity.Commission, error) {
	if p.ComercialID == "" {
		return nil, domain.ErrComercialNotFound
	}
	return uc.commissions.ListByComercial(ctx, p.ComercialID, estado)
}

// List comisiones del comercial, opcionalmente filtradas por estado.
func (uc *CommissionUseCase) List(ctx context.Context, p ports.Principal, estado string) ([]dto.CommissionResponse, error) {
	rows, err := uc.list(ctx, p, estado)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CommissionResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, dto.NewCommissionResponse(c))
	}
	return out, nil
}

// Payouts agrupa las comisiones por mes de causación, del más reciente al más antiguo.
func (uc *CommissionUseCase) Payouts(ctx context.Context, p ports.Principal) ([]dto.PayoutResponse, error) {
	rows, err := uc.list(ctx, p, "")
	if err != nil {
		return nil, err
	}
	type bucket struct {
		month    time.Time
		count    int
		gross    decimal.Decimal
		net      decimal.Decimal
		statuses []string
	}
	buckets := make(map[string]*bucket)
	for _, c := range rows {
		period := c.FechaCausacion.Format("2006-01")
		b, ok := buckets[period]
		if !ok {
			b = &bucket{month: time.Date(c.FechaCausacion.Year(), c.FechaCausacion.Month(), 1, 0, 0, 0, 0, time.UTC)}
			buckets[period] = b
		}
		b.count++
		b.gross = b.gross.Add(c.Monto)
		b.net = b.net.Add(c.MontoNeto)
		b.statuses = append(b.statuses, c.Estado)
	}

	out := make([]dto.PayoutResponse, 0, len(buckets))
	for period, b := range buckets {
		out = append(out, dto.PayoutResponse{
			Period:     period,
			Label:      MonthLabel(b.month),
			Count:      b.count,
			TotalBruto: b.gross,
			TotalNeto:  b.net,
			Estado:     commission.PayoutStatus(b.statuses),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period > out[j].Period })
	return out, nil
}

var exportHeader = []string{"id", "fecha_causacion", "tipo", "concepto", "monto", "monto_neto", "estado", "transaccion_id"}

// ExportCSV escribe las comisiones del comercial en CSV.
func (uc *CommissionUseCase) ExportCSV(ctx context.Context, p ports.Principal, estado string, w io.Writer) error {
	rows, err := uc.list(ctx, p, estado)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, c := range rows {
		rec := []string{
			c.ID,
			c.FechaCausacion.Format("2006-01-02"),
			c.Tipo,
			c.Concepto,
			c.Monto.StringFixed(2),
			c.MontoNeto.StringFixed(2),
			c.Estado,
			c.TransaccionID,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// UpdateStatus avanza un paso el ciclo CAUSADA → VALIDADA → POR_PAGAR → PAGADA.
func (uc *CommissionUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateCommissionStatusRequest) (*dto.CommissionResponse, error) {
	c, err := uc.commissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := commission.ValidateTransition(c.Estado, in.Estado); err != nil {
		return nil, err
	}
	if err := uc.commissions.UpdateStatus(ctx, id, in.Estado); err != nil {
		return nil, fmt.Errorf("actualizar comisión: %w", err)
	}
	c.Estado = in.Estado
	out := dto.NewCommissionResponse(c)
	return &out, nil
}

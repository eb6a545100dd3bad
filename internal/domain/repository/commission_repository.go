package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
)

// MonthlyAmount total de comisión neta de un mes (YYYY-MM).
type MonthlyAmount struct {
	Period string
	Net    decimal.Decimal
}

// CommissionRepository puerto de persistencia para comisiones.
type CommissionRepository interface {
	// Create devuelve domain.ErrDuplicate si la transacción ya causó una comisión.
	Create(ctx context.Context, c *entity.Commission) error
	GetByID(ctx context.Context, id string) (*entity.Commission, error)
	UpdateStatus(ctx context.Context, id, estado string) error
	// ListByComercial estado vacío = todos; orden por fecha de causación descendente.
	ListByComercial(ctx context.Context, comercialID, estado string) ([]*entity.Commission, error)
	// SumNet suma monto_neto de comisiones causadas en [from, to) con los estados dados (vacío = todos).
	SumNet(ctx context.Context, comercialID string, from, to time.Time, estados []string) (decimal.Decimal, error)
	MonthlyNet(ctx context.Context, comercialID string, from time.Time) ([]MonthlyAmount, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

var _ repository.CommissionRepository = (*CommissionRepo)(nil)

const commissionColumns = `id, comercial_id, COALESCE(lead_id::text, ''), tipo, monto, monto_neto, concepto, estado,
	fecha_causacion, COALESCE(transaccion_id, ''), created_at, updated_at`

// CommissionRepo implementación de CommissionRepository (usable con pool o tx).
type CommissionRepo struct {
	q Querier
}

// NewCommissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommissionRepository(q Querier) *CommissionRepo {
	return &CommissionRepo{q: q}
}

// Create persiste la comisión; transaccion_id repetido devuelve domain.ErrDuplicate.
func (r *CommissionRepo) Create(ctx context.Context, c *entity.Commission) error {
	query := `
		INSERT INTO comision (id, comercial_id, lead_id, tipo, monto, monto_neto, concepto, estado,
			fecha_causacion, transaccion_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ComercialID, nullIfEmpty(c.LeadID), c.Tipo, c.Monto, c.MontoNeto, c.Concepto, c.Estado,
		c.FechaCausacion, nullIfEmpty(c.TransaccionID), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert comision: %w", err)
	}
	return nil
}

// GetByID obtiene una comisión por ID.
func (r *CommissionRepo) GetByID(ctx context.Context, id string) (*entity.Commission, error) {
	c, err := scanCommission(r.q.QueryRow(ctx, `SELECT `+commissionColumns+` FROM comision WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comision: %w", err)
	}
	return c, nil
}

// UpdateStatus cambia el estado de la comisión.
func (r *CommissionRepo) UpdateStatus(ctx context.Context, id, estado string) error {
	tag, err := r.q.Exec(ctx, `UPDATE comision SET estado = $2, updated_at = now() WHERE id = $1`, id, estado)
	if err != nil {
		return fmt.Errorf("update comision: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByComercial lista comisiones del comercial, más recientes primero.
func (r *CommissionRepo) ListByComercial(ctx context.Context, comercialID, estado string) ([]*entity.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM comision
		WHERE comercial_id = $1 AND ($2 = '' OR estado = $2)
		ORDER BY fecha_causacion DESC`
	rows, err := r.q.Query(ctx, query, comercialID, estado)
	if err != nil {
		return nil, fmt.Errorf("list comisiones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comision: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// SumNet suma monto_neto en [from, to).
func (r *CommissionRepo) SumNet(ctx context.Context, comercialID string, from, to time.Time, estados []string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(monto_neto), 0) FROM comision
		WHERE comercial_id = $1 AND fecha_causacion >= $2 AND fecha_causacion < $3
			AND ($4::text[] IS NULL OR estado = ANY($4))`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, comercialID, from, to, stringsOf(estados)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum comisiones: %w", err)
	}
	return total, nil
}

// MonthlyNet agrupa monto_neto por mes de causación desde from.
func (r *CommissionRepo) MonthlyNet(ctx context.Context, comercialID string, from time.Time) ([]repository.MonthlyAmount, error) {
	query := `
		SELECT to_char(date_trunc('month', fecha_causacion), 'YYYY-MM'), SUM(monto_neto)
		FROM comision
		WHERE comercial_id = $1 AND fecha_causacion >= $2
		GROUP BY 1 ORDER BY 1`
	rows, err := r.q.Query(ctx, query, comercialID, from)
	if err != nil {
		return nil, fmt.Errorf("monthly comisiones: %w", err)
	}
	defer rows.Close()
	var out []repository.MonthlyAmount
	for rows.Next() {
		var m repository.MonthlyAmount
		if err := rows.Scan(&m.Period, &m.Net); err != nil {
			return nil, fmt.Errorf("scan monthly: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanCommission(row pgx.Row) (*entity.Commission, error) {
	var c entity.Commission
	err := row.Scan(&c.ID, &c.ComercialID, &c.LeadID, &c.Tipo, &c.Monto, &c.MontoNeto, &c.Concepto, &c.Estado,
		&c.FechaCausacion, &c.TransaccionID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

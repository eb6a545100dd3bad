package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
	"github.com/jhoicas/wingman-crm/pkg/nit"
)

var (
	_ repository.BarRepository          = barRepo{}
	_ repository.LeadRepository         = leadRepo{}
	_ repository.EventRepository        = eventRepo{}
	_ repository.CommissionRepository   = commissionRepo{}
	_ repository.ComercialRepository    = comercialRepo{}
	_ repository.RoleRepository         = roleRepo{}
	_ repository.LeadHistoryRepository  = historyRepo{}
	_ repository.WebhookEventRepository = webhookRepo{}
	_ repository.NotificationRepository = notificationRepo{}
)

// ── Bars ──────────────────────────────────────────────────────────────────────

type barRepo struct{ db *DB }

func (r barRepo) Create(_ context.Context, b *entity.Bar) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("bars.create"); err != nil {
		return err
	}
	if _, ok := r.db.d.bars[b.ID]; ok {
		return domain.ErrDuplicate
	}
	if base := nit.Base(b.NIT); base != "" {
		for _, existing := range r.db.d.bars {
			if nit.Base(existing.NIT) == base {
				return domain.ErrDuplicateNIT
			}
		}
	}
	r.db.d.bars[b.ID] = *b
	return nil
}

func (r barRepo) GetByID(_ context.Context, id string) (*entity.Bar, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("bars.get"); err != nil {
		return nil, err
	}
	b, ok := r.db.d.bars[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r barRepo) FindByNITBase(_ context.Context, base string) (*entity.Bar, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("bars.find_nit"); err != nil {
		return nil, err
	}
	for _, b := range r.db.d.bars {
		if b.NIT != "" && nit.Base(b.NIT) == base {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

func (r barRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*entity.Bar, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.Bar
	for _, b := range r.db.d.bars {
		if status == "" || b.AccountStatus == status {
			out := b
			list = append(list, &out)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return page(list, limit, offset), nil
}

func (r barRepo) UpdateStatus(_ context.Context, id, status, motivo string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.d.bars[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.AccountStatus = status
	b.MotivoRechazo = motivo
	b.UpdatedAt = time.Now()
	r.db.d.bars[id] = b
	return nil
}

// ── Leads ─────────────────────────────────────────────────────────────────────

type leadRepo struct{ db *DB }

func (r leadRepo) Create(_ context.Context, l *entity.Lead) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("leads.create"); err != nil {
		return err
	}
	for _, existing := range r.db.d.leads {
		if existing.ID == l.ID || existing.BarID == l.BarID {
			return domain.ErrDuplicate
		}
	}
	r.db.d.leads[l.ID] = *l
	return nil
}

// detail debe llamarse con mu tomado.
func (r leadRepo) detail(l entity.Lead) *entity.LeadDetail {
	out := &entity.LeadDetail{Lead: l}
	if b, ok := r.db.d.bars[l.BarID]; ok {
		out.BarName = b.Name
		out.BarAddress = b.Address
	}
	if c, ok := r.db.d.comerciales[l.OwnerID]; ok {
		out.OwnerNombre = c.Nombre
		out.OwnerEmail = c.Email
	}
	return out
}

func (r leadRepo) GetDetail(_ context.Context, id string) (*entity.LeadDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("leads.get"); err != nil {
		return nil, err
	}
	l, ok := r.db.d.leads[id]
	if !ok {
		return nil, nil
	}
	return r.detail(l), nil
}

func (r leadRepo) GetForUpdate(ctx context.Context, id string) (*entity.LeadDetail, error) {
	return r.GetDetail(ctx, id)
}

func (r leadRepo) UpdateStage(_ context.Context, id string, etapa pipeline.Stage, score int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("leads.update_stage"); err != nil {
		return err
	}
	l, ok := r.db.d.leads[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Etapa = etapa
	l.Score = score
	l.UpdatedAt = time.Now()
	r.db.d.leads[id] = l
	return nil
}

func (r leadRepo) List(_ context.Context, f repository.LeadFilter) ([]*entity.LeadDetail, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.LeadDetail
	for _, l := range r.db.d.leads {
		if f.OwnerID != "" && l.OwnerID != f.OwnerID {
			continue
		}
		if f.Etapa != "" && l.Etapa != f.Etapa {
			continue
		}
		list = append(list, r.detail(l))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r leadRepo) CountByOwner(_ context.Context, ownerID string, stages []pipeline.Stage) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n := 0
	for _, l := range r.db.d.leads {
		if l.OwnerID != ownerID {
			continue
		}
		if len(stages) > 0 && !containsStage(stages, l.Etapa) {
			continue
		}
		n++
	}
	return n, nil
}

// ── Eventos ───────────────────────────────────────────────────────────────────

type eventRepo struct{ db *DB }

func (r eventRepo) Create(_ context.Context, e *entity.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("events.create"); err != nil {
		return err
	}
	r.db.d.events[e.ID] = *e
	return nil
}

func (r eventRepo) GetByID(_ context.Context, id string) (*entity.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.d.events[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r eventRepo) UpdateStatus(_ context.Context, id, estado string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.d.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Estado = estado
	e.UpdatedAt = time.Now()
	r.db.d.events[id] = e
	return nil
}

func (r eventRepo) ListByComercial(_ context.Context, comercialID string, from *time.Time, limit int) ([]*entity.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.Event
	for _, e := range r.db.d.events {
		if e.ComercialID != comercialID {
			continue
		}
		if from != nil && (e.Fecha.Before(*from) ||
			(e.Estado != entity.EventStatusProgramado && e.Estado != entity.EventStatusEnCurso)) {
			continue
		}
		out := e
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if from != nil {
			return list[i].Fecha.Before(list[j].Fecha)
		}
		return list[i].Fecha.After(list[j].Fecha)
	})
	return page(list, limit, 0), nil
}

// ── Comisiones ────────────────────────────────────────────────────────────────

type commissionRepo struct{ db *DB }

func (r commissionRepo) Create(_ context.Context, c *entity.Commission) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("commissions.create"); err != nil {
		return err
	}
	for _, existing := range r.db.d.commissions {
		if existing.ID == c.ID || (c.TransaccionID != "" && existing.TransaccionID == c.TransaccionID) {
			return domain.ErrDuplicate
		}
	}
	r.db.d.commissions[c.ID] = *c
	return nil
}

func (r commissionRepo) GetByID(_ context.Context, id string) (*entity.Commission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.d.commissions[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r commissionRepo) UpdateStatus(_ context.Context, id, estado string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.d.commissions[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Estado = estado
	c.UpdatedAt = time.Now()
	r.db.d.commissions[id] = c
	return nil
}

func (r commissionRepo) ListByComercial(_ context.Context, comercialID, estado string) ([]*entity.Commission, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.Commission
	for _, c := range r.db.d.commissions {
		if c.ComercialID == comercialID && (estado == "" || c.Estado == estado) {
			out := c
			list = append(list, &out)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].FechaCausacion.After(list[j].FechaCausacion) })
	return list, nil
}

func (r commissionRepo) SumNet(_ context.Context, comercialID string, from, to time.Time, estados []string) (decimal.Decimal, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("commissions.sum"); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range r.db.d.commissions {
		if c.ComercialID != comercialID || c.FechaCausacion.Before(from) || !c.FechaCausacion.Before(to) {
			continue
		}
		if len(estados) > 0 && !containsString(estados, c.Estado) {
			continue
		}
		total = total.Add(c.MontoNeto)
	}
	return total, nil
}

func (r commissionRepo) MonthlyNet(_ context.Context, comercialID string, from time.Time) ([]repository.MonthlyAmount, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	byPeriod := map[string]decimal.Decimal{}
	for _, c := range r.db.d.commissions {
		if c.ComercialID != comercialID || c.FechaCausacion.Before(from) {
			continue
		}
		p := c.FechaCausacion.Format("2006-01")
		byPeriod[p] = byPeriod[p].Add(c.MontoNeto)
	}
	out := make([]repository.MonthlyAmount, 0, len(byPeriod))
	for p, net := range byPeriod {
		out = append(out, repository.MonthlyAmount{Period: p, Net: net})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

// ── Comerciales y roles ───────────────────────────────────────────────────────

type comercialRepo struct{ db *DB }

func (r comercialRepo) Create(_ context.Context, c *entity.Comercial) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("comerciales.create"); err != nil {
		return err
	}
	for _, existing := range r.db.d.comerciales {
		if strings.EqualFold(existing.Email, c.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.db.d.comerciales[c.ID] = *c
	return nil
}

func (r comercialRepo) GetByID(_ context.Context, id string) (*entity.Comercial, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.d.comerciales[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r comercialRepo) GetByEmail(_ context.Context, email string) (*entity.Comercial, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.d.comerciales {
		if strings.EqualFold(c.Email, email) {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

type roleRepo struct{ db *DB }

func (r roleRepo) Create(_ context.Context, role *entity.CRMRole) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("roles.create"); err != nil {
		return err
	}
	r.db.d.roles[role.ID] = *role
	return nil
}

func (r roleRepo) GetActiveByUserID(_ context.Context, userID string) (*entity.CRMRole, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var best *entity.CRMRole
	for _, role := range r.db.d.roles {
		if role.UserID != userID || !role.Activo {
			continue
		}
		candidate := role
		switch {
		case best == nil:
			best = &candidate
		case candidate.Role == entity.RoleAdmin && best.Role != entity.RoleAdmin:
			best = &candidate
		case candidate.Role == best.Role && candidate.CreatedAt.After(best.CreatedAt):
			best = &candidate
		}
	}
	return best, nil
}

// ── Historial ─────────────────────────────────────────────────────────────────

type historyRepo struct{ db *DB }

func (r historyRepo) Append(_ context.Context, h *entity.LeadHistory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("history.append"); err != nil {
		return err
	}
	r.db.d.history = append(r.db.d.history, *h)
	return nil
}

func (r historyRepo) ListByLead(_ context.Context, leadID string) ([]*entity.LeadHistory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.LeadHistory
	for _, h := range r.db.d.history {
		if h.LeadID == leadID {
			out := h
			list = append(list, &out)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// ── Webhooks ──────────────────────────────────────────────────────────────────

type webhookRepo struct{ db *DB }

func webhookKey(ev *entity.WebhookEvent) string {
	return strings.Join([]string{ev.Provider, ev.EventType, ev.ProviderEventID, ev.Status}, "|")
}

func (r webhookRepo) Record(_ context.Context, ev *entity.WebhookEvent) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("webhooks.record"); err != nil {
		return false, err
	}
	key := webhookKey(ev)
	for id, existing := range r.db.d.webhooks {
		if webhookKey(&existing) != key {
			continue
		}
		if existing.ProcessedAt != nil {
			return false, nil
		}
		existing.Payload = ev.Payload
		existing.ReceivedAt = ev.ReceivedAt
		r.db.d.webhooks[id] = existing
		ev.ID = id
		return true, nil
	}
	r.db.d.webhooks[ev.ID] = *ev
	return true, nil
}

func (r webhookRepo) MarkProcessed(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ev, ok := r.db.d.webhooks[id]
	if !ok {
		return nil
	}
	now := time.Now()
	ev.ProcessedAt = &now
	ev.ProcessingError = ""
	r.db.d.webhooks[id] = ev
	return nil
}

func (r webhookRepo) MarkFailed(_ context.Context, id, processingError string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ev, ok := r.db.d.webhooks[id]
	if !ok || ev.ProcessedAt != nil {
		return nil
	}
	ev.ProcessingError = processingError
	r.db.d.webhooks[id] = ev
	return nil
}

// ── Outbox ────────────────────────────────────────────────────────────────────

type notificationRepo struct{ db *DB }

func (r notificationRepo) Enqueue(_ context.Context, n *entity.Notification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.check("notifications.enqueue"); err != nil {
		return err
	}
	r.db.d.seq++
	r.db.d.order[n.ID] = r.db.d.seq
	r.db.d.notifications[n.ID] = *n
	return nil
}

func (r notificationRepo) ClaimPending(_ context.Context, limit, maxAttempts int) ([]*entity.Notification, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var list []*entity.Notification
	for _, n := range r.db.d.notifications {
		if n.ProcessedAt == nil && n.Attempts < maxAttempts {
			out := n
			list = append(list, &out)
		}
	}
	sort.Slice(list, func(i, j int) bool { return r.db.d.order[list[i].ID] < r.db.d.order[list[j].ID] })
	return page(list, limit, 0), nil
}

func (r notificationRepo) MarkSent(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.d.notifications[id]
	if !ok {
		return nil
	}
	now := time.Now()
	n.ProcessedAt = &now
	r.db.d.notifications[id] = n
	return nil
}

func (r notificationRepo) MarkFailed(_ context.Context, id, lastError string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	n, ok := r.db.d.notifications[id]
	if !ok {
		return nil
	}
	n.Attempts++
	n.LastError = lastError
	r.db.d.notifications[id] = n
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func containsStage(list []pipeline.Stage, s pipeline.Stage) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Package memory implementa los repositorios y el TxRunner en memoria, con rollback por snapshot.
// Reproduce las restricciones únicas del esquema PostgreSQL; se usa en tests y demos locales.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

var _ ports.TxRunner = (*DB)(nil)

type data struct {
	bars          map[string]entity.Bar
	leads         map[string]entity.Lead
	events        map[string]entity.Event
	commissions   map[string]entity.Commission
	comerciales   map[string]entity.Comercial
	roles         map[string]entity.CRMRole
	history       []entity.LeadHistory
	webhooks      map[string]entity.WebhookEvent
	notifications map[string]entity.Notification
	order         map[string]int // orden de inserción de notificaciones
	seq           int
}

func newData() *data {
	return &data{
		bars:          map[string]entity.Bar{},
		leads:         map[string]entity.Lead{},
		events:        map[string]entity.Event{},
		commissions:   map[string]entity.Commission{},
		comerciales:   map[string]entity.Comercial{},
		roles:         map[string]entity.CRMRole{},
		webhooks:      map[string]entity.WebhookEvent{},
		notifications: map[string]entity.Notification{},
		order:         map[string]int{},
	}
}

func (d *data) clone() *data {
	c := &data{
		bars:          make(map[string]entity.Bar, len(d.bars)),
		leads:         make(map[string]entity.Lead, len(d.leads)),
		events:        make(map[string]entity.Event, len(d.events)),
		commissions:   make(map[string]entity.Commission, len(d.commissions)),
		comerciales:   make(map[string]entity.Comercial, len(d.comerciales)),
		roles:         make(map[string]entity.CRMRole, len(d.roles)),
		history:       append([]entity.LeadHistory(nil), d.history...),
		webhooks:      make(map[string]entity.WebhookEvent, len(d.webhooks)),
		notifications: make(map[string]entity.Notification, len(d.notifications)),
		order:         make(map[string]int, len(d.order)),
		seq:           d.seq,
	}
	for k, v := range d.bars {
		c.bars[k] = v
	}
	for k, v := range d.leads {
		c.leads[k] = v
	}
	for k, v := range d.events {
		c.events[k] = v
	}
	for k, v := range d.commissions {
		c.commissions[k] = v
	}
	for k, v := range d.comerciales {
		c.comerciales[k] = v
	}
	for k, v := range d.roles {
		c.roles[k] = v
	}
	for k, v := range d.webhooks {
		c.webhooks[k] = v
	}
	for k, v := range d.notifications {
		c.notifications[k] = v
	}
	for k, v := range d.order {
		c.order[k] = v
	}
	return c
}

// DB base de datos en memoria. Las transacciones se serializan.
type DB struct {
	txMu sync.Mutex
	mu   sync.Mutex
	d    *data
	// fail errores inyectados por operación ("events.create", "commissions.create", ...).
	fail map[string]error
}

// New crea una base vacía.
func New() *DB {
	return &DB{d: newData(), fail: map[string]error{}}
}

// FailOn hace que la operación op devuelva err hasta que se llame a ClearFailures.
func (db *DB) FailOn(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.fail[op] = err
}

// ClearFailures elimina los errores inyectados.
func (db *DB) ClearFailures() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.fail = map[string]error{}
}

// check debe llamarse con mu tomado.
func (db *DB) check(op string) error {
	if err, ok := db.fail[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Store devuelve los repositorios fuera de transacción.
func (db *DB) Store() repository.Store {
	return repository.Store{
		Bars:          barRepo{db},
		Leads:         leadRepo{db},
		Events:        eventRepo{db},
		Commissions:   commissionRepo{db},
		Comerciales:   comercialRepo{db},
		Roles:         roleRepo{db},
		History:       historyRepo{db},
		Webhooks:      webhookRepo{db},
		Notifications: notificationRepo{db},
	}
}

// Run ejecuta fn con los mismos repositorios; si fn falla restaura el estado previo.
func (db *DB) Run(ctx context.Context, fn func(store repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.mu.Lock()
	snapshot := db.d.clone()
	db.mu.Unlock()

	if err := fn(db.Store()); err != nil {
		db.mu.Lock()
		db.d = snapshot
		db.mu.Unlock()
		return err
	}
	return nil
}

// ── Accesos de lectura para aserciones en tests ───────────────────────────────

// Leads devuelve una copia de todos los leads.
func (db *DB) Leads() []entity.Lead {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]entity.Lead, 0, len(db.d.leads))
	for _, l := range db.d.leads {
		out = append(out, l)
	}
	return out
}

// Commissions devuelve una copia de todas las comisiones.
func (db *DB) Commissions() []entity.Commission {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]entity.Commission, 0, len(db.d.commissions))
	for _, c := range db.d.commissions {
		out = append(out, c)
	}
	return out
}

// Events devuelve una copia de todos los eventos.
func (db *DB) Events() []entity.Event {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]entity.Event, 0, len(db.d.events))
	for _, e := range db.d.events {
		out = append(out, e)
	}
	return out
}

// Bars devuelve una copia de todos los bares.
func (db *DB) Bars() []entity.Bar {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]entity.Bar, 0, len(db.d.bars))
	for _, b := range db.d.bars {
		out = append(out, b)
	}
	return out
}

// WebhookEvents devuelve una copia de los eventos de webhook registrados.
func (db *DB) WebhookEvents() []entity.WebhookEvent {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]entity.WebhookEvent, 0, len(db.d.webhooks))
	for _, w := range db.d.webhooks {
		out = append(out, w)
	}
	return out
}

// Notifications devuelve una copia del outbox.
func (db *DB) Notifications() []entity.Notification {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]entity.Notification, 0, len(db.d.notifications))
	for _, n := range db.d.notifications {
		out = append(out, n)
	}
	return out
}

// History devuelve una copia del historial de todos los leads.
func (db *DB) History() []entity.LeadHistory {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]entity.LeadHistory(nil), db.d.history...)
}

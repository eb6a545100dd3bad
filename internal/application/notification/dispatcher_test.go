package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wingman-crm/internal/application/notification"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/memory"
	"github.com/jhoicas/wingman-crm/pkg/logger"
)

// fakeMailer registra los envíos; falla para los destinatarios en failFor.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[to] {
		return errors.New("smtp: 550 mailbox unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

func enqueue(t *testing.T, db *memory.DB, id, to string) {
	t.Helper()
	require.NoError(t, db.Store().Notifications.Enqueue(context.Background(), &entity.Notification{
		ID:           id,
		Tipo:         entity.NotificationComisionCausada,
		Destinatario: to,
		Asunto:       "Nueva comisión causada",
		Cuerpo:       "Se causó una comisión de $15.000",
		CreatedAt:    time.Now(),
	}))
}

func findNotification(db *memory.DB, id string) entity.Notification {
	for _, n := range db.Notifications() {
		if n.ID == id {
			return n
		}
	}
	return entity.Notification{}
}

func TestProcessBatch_EnviaYMarca(t *testing.T) {
	db := memory.New()
	enqueue(t, db, "n1", "carlos@wingman.co")
	enqueue(t, db, "n2", "lucia@wingman.co")
	mailer := &fakeMailer{}
	d := notification.NewDispatcher(db, mailer, notification.Config{}, logger.Nop())

	sent, err := d.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"carlos@wingman.co", "lucia@wingman.co"}, mailer.sent)
	assert.NotNil(t, findNotification(db, "n1").ProcessedAt)

	sent, err = d.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent, "los enviados no se reenvían")
}

func TestProcessBatch_FalloIncrementaIntentos(t *testing.T) {
	db := memory.New()
	enqueue(t, db, "n1", "rebota@wingman.co")
	enqueue(t, db, "n2", "carlos@wingman.co")
	mailer := &fakeMailer{failFor: map[string]bool{"rebota@wingman.co": true}}
	d := notification.NewDispatcher(db, mailer, notification.Config{MaxAttempts: 2}, logger.Nop())

	sent, err := d.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	n := findNotification(db, "n1")
	assert.Nil(t, n.ProcessedAt)
	assert.Equal(t, 1, n.Attempts)
	assert.Contains(t, n.LastError, "550")

	_, err = d.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, findNotification(db, "n1").Attempts)

	// Con MaxAttempts agotado el mensaje deja de reclamarse
	_, err = d.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, findNotification(db, "n1").Attempts)
	assert.Equal(t, []string{"carlos@wingman.co"}, mailer.sent)
}

func TestProcessBatch_RespetaTamanoDeLote(t *testing.T) {
	db := memory.New()
	enqueue(t, db, "n1", "a@wingman.co")
	enqueue(t, db, "n2", "b@wingman.co")
	enqueue(t, db, "n3", "c@wingman.co")
	mailer := &fakeMailer{}
	d := notification.NewDispatcher(db, mailer, notification.Config{BatchSize: 2}, logger.Nop())

	sent, err := d.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"a@wingman.co", "b@wingman.co"}, mailer.sent)
}

func TestRun_TerminaAlCancelar(t *testing.T) {
	db := memory.New()
	enqueue(t, db, "n1", "carlos@wingman.co")
	mailer := &fakeMailer{}
	d := notification.NewDispatcher(db, mailer, notification.Config{PollInterval: 10 * time.Millisecond}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool {
		return findNotification(db, "n1").ProcessedAt != nil
	}, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}
}

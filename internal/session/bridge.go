package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luthfiadilal/pos/internal/domain"
	"github.com/luthfiadilal/pos/pkg/logger"
)

var ErrNoDraft = errors.New("no draft order staged")

// Bridge links the table map to checkout. A dine-in checkout starts from a
// draft order staged for a table; once the order is accepted by the order
// service the draft becomes an active session holding the remote order number.
type Bridge struct {
	store SessionStore
	log   *logger.Logger

	mu       sync.RWMutex
	draft    *domain.TableDraftOrder
	sessions map[string]domain.ActiveTableSession
}

func NewBridge(ctx context.Context, store SessionStore, log *logger.Logger) (*Bridge, error) {
	persisted, err := store.LoadSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load table sessions: %w", err)
	}

	sessions := make(map[string]domain.ActiveTableSession, len(persisted))
	for _, sess := range persisted {
		sessions[sess.Table.TableCode] = sess
	}

	if len(sessions) > 0 {
		log.Info("sessions_restored", "restored active table sessions", "count", len(sessions))
	}

	return &Bridge{
		store:    store,
		log:      log,
		sessions: sessions,
	}, nil
}

// StartDraft stages a table plus guest info for the next checkout. A table
// that already holds an active session cannot take a second order.
func (b *Bridge) StartDraft(table domain.TableRef, guests domain.GuestInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, occupied := b.sessions[table.TableCode]; occupied {
		return ErrDuplicateTableSession
	}

	b.draft = &domain.TableDraftOrder{
		Table:  table,
		Guests: guests,
	}
	return nil
}

// Draft returns the staged draft, if any.
func (b *Bridge) Draft() (domain.TableDraftOrder, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.draft == nil {
		return domain.TableDraftOrder{}, false
	}
	return *b.draft, true
}

func (b *Bridge) ClearDraft() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draft = nil
}

// PromoteDraft converts the staged draft into an active session carrying the
// order number returned by the order service. The draft is consumed.
func (b *Bridge) PromoteDraft(ctx context.Context, remoteOrderID string) (domain.ActiveTableSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.draft == nil {
		return domain.ActiveTableSession{}, ErrNoDraft
	}

	sess := domain.ActiveTableSession{
		Table:         b.draft.Table,
		Guests:        b.draft.Guests,
		RemoteOrderID: remoteOrderID,
		StartedAt:     time.Now(),
	}

	if err := b.store.SaveSession(ctx, sess); err != nil {
		return domain.ActiveTableSession{}, fmt.Errorf("persist table session: %w", err)
	}

	b.sessions[sess.Table.TableCode] = sess
	b.draft = nil
	return sess, nil
}

// EndSession releases a table after its bill is settled.
func (b *Bridge) EndSession(ctx context.Context, tableCode string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.sessions[tableCode]; !exists {
		return ErrSessionNotFound
	}

	if err := b.store.DeleteSession(ctx, tableCode); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("delete table session: %w", err)
	}

	delete(b.sessions, tableCode)
	return nil
}

func (b *Bridge) SessionFor(tableCode string) (domain.ActiveTableSession, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sess, ok := b.sessions[tableCode]
	return sess, ok
}

func (b *Bridge) ActiveSessions() []domain.ActiveTableSession {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sessions := make([]domain.ActiveTableSession, 0, len(b.sessions))
	for _, sess := range b.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

// ResetAll drops every session and any draft. Used at end of business day.
func (b *Bridge) ResetAll(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear table sessions: %w", err)
	}

	b.sessions = make(map[string]domain.ActiveTableSession)
	b.draft = nil
	return nil
}

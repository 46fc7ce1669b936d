package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthfiadilal/pos/internal/domain"
	"github.com/luthfiadilal/pos/pkg/logger"
)

func newTestBridge(t *testing.T) *Bridge {
	t.Helper()
	b, err := NewBridge(context.Background(), NewMemoryStore(), logger.New("session-test"))
	require.NoError(t, err)
	return b
}

var (
	tableT03 = domain.TableRef{TableCode: "T03", FloorCode: "F1"}
	guests3  = domain.GuestInfo{Name: "Sari", Men: 1, Women: 2, Total: 3}
)

func TestStartDraft_ThenPromote(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()

	require.NoError(t, b.StartDraft(tableT03, guests3))

	draft, ok := b.Draft()
	require.True(t, ok)
	assert.Equal(t, tableT03, draft.Table)
	assert.Equal(t, guests3, draft.Guests)

	sess, err := b.PromoteDraft(ctx, "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1001", sess.RemoteOrderID)
	assert.Equal(t, tableT03, sess.Table)

	// draft is consumed
	_, ok = b.Draft()
	assert.False(t, ok)

	active, found := b.SessionFor("T03")
	require.True(t, found)
	assert.Equal(t, "ORD-1001", active.RemoteOrderID)
}

func TestStartDraft_OccupiedTable(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()

	require.NoError(t, b.StartDraft(tableT03, guests3))
	_, err := b.PromoteDraft(ctx, "ORD-1001")
	require.NoError(t, err)

	err = b.StartDraft(tableT03, domain.GuestInfo{Name: "Andi", Total: 2})
	assert.ErrorIs(t, err, ErrDuplicateTableSession)
}

func TestStartDraft_ReplacesPreviousDraft(t *testing.T) {
	b := newTestBridge(t)

	require.NoError(t, b.StartDraft(tableT03, guests3))
	other := domain.TableRef{TableCode: "T04", FloorCode: "F1"}
	require.NoError(t, b.StartDraft(other, guests3))

	draft, ok := b.Draft()
	require.True(t, ok)
	assert.Equal(t, "T04", draft.Table.TableCode)
}

func TestPromoteDraft_WithoutDraft(t *testing.T) {
	b := newTestBridge(t)

	_, err := b.PromoteDraft(context.Background(), "ORD-1001")
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestClearDraft(t *testing.T) {
	b := newTestBridge(t)

	require.NoError(t, b.StartDraft(tableT03, guests3))
	b.ClearDraft()

	_, ok := b.Draft()
	assert.False(t, ok)
}

func TestEndSession(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()

	require.NoError(t, b.StartDraft(tableT03, guests3))
	_, err := b.PromoteDraft(ctx, "ORD-1001")
	require.NoError(t, err)

	require.NoError(t, b.EndSession(ctx, "T03"))

	_, found := b.SessionFor("T03")
	assert.False(t, found)

	// table is free again
	assert.NoError(t, b.StartDraft(tableT03, guests3))
}

func TestEndSession_Unknown(t *testing.T) {
	b := newTestBridge(t)

	err := b.EndSession(context.Background(), "T99")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestNewBridge_RestoresPersistedSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	persisted := domain.ActiveTableSession{
		Table:         domain.TableRef{TableCode: "T08", FloorCode: "F2"},
		Guests:        domain.GuestInfo{Name: "Rina", Total: 4},
		RemoteOrderID: "ORD-2002",
		StartedAt:     time.Now(),
	}
	require.NoError(t, store.SaveSession(ctx, persisted))

	b, err := NewBridge(ctx, store, logger.New("session-test"))
	require.NoError(t, err)

	sess, found := b.SessionFor("T08")
	require.True(t, found)
	assert.Equal(t, "ORD-2002", sess.RemoteOrderID)

	err = b.StartDraft(domain.TableRef{TableCode: "T08", FloorCode: "F2"}, guests3)
	assert.ErrorIs(t, err, ErrDuplicateTableSession)
}

func TestResetAll(t *testing.T) {
	b := newTestBridge(t)
	ctx := context.Background()

	require.NoError(t, b.StartDraft(tableT03, guests3))
	_, err := b.PromoteDraft(ctx, "ORD-1001")
	require.NoError(t, err)
	require.NoError(t, b.StartDraft(domain.TableRef{TableCode: "T04"}, guests3))

	require.NoError(t, b.ResetAll(ctx))

	assert.Empty(t, b.ActiveSessions())
	_, ok := b.Draft()
	assert.False(t, ok)
}

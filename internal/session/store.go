package session

import (
	"context"
	"errors"

	"github.com/luthfiadilal/pos/internal/domain"
)

var (
	ErrSessionNotFound       = errors.New("no active session for table")
	ErrDuplicateTableSession = errors.New("table already has an active session")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// SessionStore persists active table sessions so a restart of the terminal
// does not lose which tables are mid-order.
type SessionStore interface {
	LoadSessions(ctx context.Context) ([]domain.ActiveTableSession, error)
	SaveSession(ctx context.Context, s domain.ActiveTableSession) error
	DeleteSession(ctx context.Context, tableCode string) error
	Clear(ctx context.Context) error
	Close() error
}

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/lib/pq"

	"github.com/luthfiadilal/pos/internal/domain"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(cred *Credentials) (*PostgresStore, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(s.db, &postgres.Config{
		MigrationsTable: "pos_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (s *PostgresStore) LoadSessions(ctx context.Context) ([]domain.ActiveTableSession, error) {
	query := `SELECT tbl_cd, floor_cd, guest_name, men_cnt, women_cnt, guests_cnt, pos_order_no, started_at
	          FROM table_sessions ORDER BY started_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query table sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ActiveTableSession
	for rows.Next() {
		var sess domain.ActiveTableSession
		if err := rows.Scan(
			&sess.Table.TableCode,
			&sess.Table.FloorCode,
			&sess.Guests.Name,
			&sess.Guests.Men,
			&sess.Guests.Women,
			&sess.Guests.Total,
			&sess.RemoteOrderID,
			&sess.StartedAt,
		); err != nil {
			return nil, fmt.Errorf("scan table session row: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

func (s *PostgresStore) SaveSession(ctx context.Context, sess domain.ActiveTableSession) error {
	query := `INSERT INTO table_sessions (tbl_cd, floor_cd, guest_name, men_cnt, women_cnt, guests_cnt, pos_order_no, started_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, insertErr := s.db.ExecContext(ctx, query,
		sess.Table.TableCode,
		sess.Table.FloorCode,
		sess.Guests.Name,
		sess.Guests.Men,
		sess.Guests.Women,
		sess.Guests.Total,
		sess.RemoteOrderID,
		sess.StartedAt)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateTableSession
		}
		return fmt.Errorf("insert table session: %w", insertErr)
	}
	return nil
}

func (s *PostgresStore) DeleteSession(ctx context.Context, tableCode string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM table_sessions WHERE tbl_cd = $1`, tableCode)
	if err != nil {
		return fmt.Errorf("delete table session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete table session: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM table_sessions`); err != nil {
		return fmt.Errorf("clear table sessions: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

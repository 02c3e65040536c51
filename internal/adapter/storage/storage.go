package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

type sqldb interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
}

type SQLDB struct {
	*sql.DB
	driver string
}

// NewSQLDB opens a postgres (pgx) or sqlite database and waits for it to
// answer a ping.
func NewSQLDB(ctx context.Context, driver, dsn string) (SQLDB, error) {
	const op = "NewSQLDB"
	log := slog.With("op", op)

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverPostgres:
		var connConfig *pgx.ConnConfig
		connConfig, err = pgx.ParseConfig(dsn)
		if err != nil {
			return SQLDB{}, fmt.Errorf("%s: %w", op, err)
		}
		db, err = sql.Open("pgx", stdlib.RegisterConnConfig(connConfig))
	case DriverSQLite:
		db, err = sql.Open("sqlite", dsn)
		if err == nil {
			// one writer at a time
			db.SetMaxOpenConns(1)
		}
	default:
		return SQLDB{}, fmt.Errorf("%s: %q: %w", op, driver, ErrUnknownDriver)
	}
	if err != nil {
		return SQLDB{}, fmt.Errorf("%s: %w", op, err)
	}

	s := SQLDB{db, driver}
	if err := s.ping(ctx); err != nil {
		_ = db.Close()
		return SQLDB{}, fmt.Errorf("%s: database is unavailable: %w", op, err)
	}
	log.Info("database is available", "driver", driver)
	return s, nil
}

func (s SQLDB) Driver() string {
	return s.driver
}

func (s SQLDB) ping(ctx context.Context) error {
	return retryPing(ctx, s.PingContext)
}

func (s SQLDB) Close() {
	const op = "SQLDB.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")

	if err := s.DB.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}

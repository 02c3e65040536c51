package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
)

var _ port.CartSlots = (*SQLSlots)(nil)

type dialect struct {
	get    string
	put    string
	delete string
}

var dialects = map[string]dialect{
	DriverPostgres: {
		get: `SELECT payload FROM cart_slots WHERE slot_key = $1;`,
		put: `
			INSERT INTO cart_slots (slot_key, payload, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (slot_key) DO UPDATE SET
				payload = EXCLUDED.payload,
				updated_at = EXCLUDED.updated_at;`,
		delete: `DELETE FROM cart_slots WHERE slot_key = $1;`,
	},
	DriverSQLite: {
		get: `SELECT payload FROM cart_slots WHERE slot_key = ?;`,
		put: `
			INSERT INTO cart_slots (slot_key, payload, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (slot_key) DO UPDATE SET
				payload = excluded.payload,
				updated_at = excluded.updated_at;`,
		delete: `DELETE FROM cart_slots WHERE slot_key = ?;`,
	},
}

// SQLSlots stores slots in the cart_slots table.
type SQLSlots struct {
	sqldb   sqldb
	dialect dialect
}

func NewSQLSlots(db sqldb, driver string) (SQLSlots, error) {
	const op = "NewSQLSlots"

	d, ok := dialects[driver]
	if !ok {
		return SQLSlots{}, fmt.Errorf("%s: %q: %w", op, driver, ErrUnknownDriver)
	}
	return SQLSlots{db, d}, nil
}

func (s SQLSlots) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "SQLSlots.Get"

	var payload string
	err := s.sqldb.QueryRowContext(ctx, s.dialect.get, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, port.ErrSlotNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return []byte(payload), nil
}

func (s SQLSlots) Put(ctx context.Context, key string, value []byte) error {
	const op = "SQLSlots.Put"

	_, err := s.sqldb.ExecContext(ctx, s.dialect.put, key, string(value))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s SQLSlots) Delete(ctx context.Context, key string) error {
	const op = "SQLSlots.Delete"

	_, err := s.sqldb.ExecContext(ctx, s.dialect.delete, key)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func retryPing(ctx context.Context, ping func(context.Context) error) error {
	return retry.Do(ctx, pingRetryConfig(), func() error {
		return ping(ctx)
	})
}

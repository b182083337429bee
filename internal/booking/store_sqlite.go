// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	// sqlite3 registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/taibuivan/uzevently/internal/platform/dberr"
)

// SQLiteStore persists bookings in a local SQLite file for single-node
// deployments. Days are stored in ISO form.
type SQLiteStore struct {
	db      *sqlx.DB
	builder squirrel.StatementBuilderType
}

// sqliteRow is the scan target of the bookings table.
type sqliteRow struct {
	Kind      string    `db:"kind"`
	TargetID  int       `db:"target_id"`
	Day       string    `db:"day"`
	CreatedAt time.Time `db:"created_at"`
}

// OpenSQLiteStore opens (creating if needed) the database at path and
// applies the schema. ":memory:" is accepted for tests.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// Single writer; also keeps ":memory:" on one shared connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &SQLiteStore{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Close releases the database handle.
func (store *SQLiteStore) Close() error {
	return store.db.Close()
}

// Ping verifies the database is reachable.
func (store *SQLiteStore) Ping(ctx context.Context) error {
	return store.db.PingContext(ctx)
}

// Exists implements [Store].
func (store *SQLiteStore) Exists(ctx context.Context, slot Slot) (bool, error) {
	query, args, err := store.builder.
		Select("COUNT(1)").
		From("bookings").
		Where(squirrel.Eq{"kind": string(slot.Kind), "target_id": slot.TargetID, "day": slot.Day.ISO()}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("sqlite_booking_exists_build_failed: %w", err)
	}

	var count int
	if err := store.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("sqlite_booking_exists_failed: %w", err)
	}

	return count > 0, nil
}

// Insert implements [Store].
func (store *SQLiteStore) Insert(ctx context.Context, record Record) error {
	query, args, err := store.builder.
		Insert("bookings").
		Columns("kind", "target_id", "day", "created_at").
		Values(string(record.Kind), record.TargetID, record.Day.ISO(), record.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("sqlite_booking_insert_build_failed: %w", err)
	}

	if _, err := store.db.ExecContext(ctx, query, args...); err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrAlreadyBooked
		}
		return fmt.Errorf("sqlite_booking_insert_failed: %w", err)
	}

	return nil
}

// List implements [Store].
func (store *SQLiteStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	builder := store.builder.
		Select("kind", "target_id", "day", "created_at").
		From("bookings").
		OrderBy("day", "kind", "target_id")

	if filter.Kind != "" {
		builder = builder.Where(squirrel.Eq{"kind": string(filter.Kind)})
	}
	if filter.TargetID != 0 {
		builder = builder.Where(squirrel.Eq{"target_id": filter.TargetID})
	}
	if !filter.Day.IsZero() {
		builder = builder.Where(squirrel.Eq{"day": filter.Day.ISO()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite_booking_list_build_failed: %w", err)
	}

	var rows []sqliteRow
	if err := store.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite_booking_list_failed: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		day, err := ParseDay(row.Day)
		if err != nil {
			return nil, fmt.Errorf("sqlite_booking_day_corrupted: %w", err)
		}
		records = append(records, Record{
			Slot:      Slot{Kind: Kind(row.Kind), TargetID: row.TargetID, Day: day},
			CreatedAt: row.CreatedAt,
		})
	}

	return records, nil
}

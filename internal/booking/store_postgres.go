// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/uzevently/internal/platform/dberr"
)

// PostgresStore persists bookings in PostgreSQL. The primary key on
// (kind, target_id, day) enforces one record per slot.
type PostgresStore struct {
	pool    *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

// NewPostgresStore creates a new PostgreSQL implementation of [Store].
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

/*
Exists checks whether a booking row exists for slot.

Parameters:
  - context: context.Context
  - slot: Slot

Returns:
  - bool: True when the slot is taken
  - error: Database connectivity errors
*/
func (repository *PostgresStore) Exists(context context.Context, slot Slot) (bool, error) {
	query, args, err := repository.builder.
		Select("1").
		From("bookings").
		Where(squirrel.Eq{"kind": string(slot.Kind), "target_id": slot.TargetID, "day": slot.Day.Time()}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("postgres_booking_exists_build_failed: %w", err)
	}

	var one int
	if err := repository.pool.QueryRow(context, query, args...).Scan(&one); err != nil {
		if dberr.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("postgres_booking_exists_failed: %w", err)
	}

	return true, nil
}

/*
Insert persists a new booking row.

Parameters:
  - context: context.Context
  - record: Record

Returns:
  - error: ErrAlreadyBooked on a primary key violation, or database errors
*/
func (repository *PostgresStore) Insert(context context.Context, record Record) error {
	query, args, err := repository.builder.
		Insert("bookings").
		Columns("kind", "target_id", "day", "created_at").
		Values(string(record.Kind), record.TargetID, record.Day.Time(), record.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres_booking_insert_build_failed: %w", err)
	}

	if _, err := repository.pool.Exec(context, query, args...); err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrAlreadyBooked
		}
		return fmt.Errorf("postgres_booking_insert_failed: %w", err)
	}

	return nil
}

/*
List retrieves booking rows matching filter, ordered by day.

Parameters:
  - context: context.Context
  - filter: Filter

Returns:
  - []Record
  - error: Database errors
*/
func (repository *PostgresStore) List(context context.Context, filter Filter) ([]Record, error) {
	builder := repository.builder.
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
		builder = builder.Where(squirrel.Eq{"day": filter.Day.Time()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres_booking_list_build_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres_booking_list_failed: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			kind      string
			record    Record
			day       time.Time
			createdAt time.Time
		)
		if err := rows.Scan(&kind, &record.TargetID, &day, &createdAt); err != nil {
			return nil, fmt.Errorf("postgres_booking_scan_failed: %w", err)
		}
		record.Kind = Kind(kind)
		record.Day = DayOf(day)
		record.CreatedAt = createdAt
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_booking_rows_failed: %w", err)
	}

	return records, nil
}

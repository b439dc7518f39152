package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const slotTable = "progress_slots"

// migrate creates the slot table. Uses raw DDL because the table is a plain
// key/value cell with no ent schema behind it.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS progress_slots (
		slot_key   TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create slot table: %w", err)
	}
	return nil
}

// SQLiteSlot stores one value per key in the progress_slots table.
type SQLiteSlot struct {
	db  *sql.DB
	key string
}

// Key returns the storage key of the slot.
func (s *SQLiteSlot) Key() string {
	return s.key
}

func (s *SQLiteSlot) Load(ctx context.Context) ([]byte, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("payload").
		From(entsql.Table(slotTable)).
		Where(entsql.EQ("slot_key", s.key)).
		Query()

	var payload []byte
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmptySlot
		}
		return nil, fmt.Errorf("load slot %q: %w", s.key, err)
	}
	return payload, nil
}

func (s *SQLiteSlot) Save(ctx context.Context, data []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(slotTable).
		Columns("slot_key", "payload", "updated_at").
		Values(s.key, data, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("slot_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save slot %q: %w", s.key, err)
	}
	return nil
}

func (s *SQLiteSlot) Clear(ctx context.Context) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(slotTable).
		Where(entsql.EQ("slot_key", s.key)).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear slot %q: %w", s.key, err)
	}
	return nil
}

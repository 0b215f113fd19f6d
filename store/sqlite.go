package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"
)

// sqliteMemoryDSN opens a private in-memory database. It only lives as long
// as its connection, so the pool is pinned to a single connection.
const sqliteMemoryDSN = ":memory:"

// SqliteStore keeps the collection in an in-memory SQLite database.
//
// Tables:
//
//	records(id, data)  id INTEGER PRIMARY KEY AUTOINCREMENT
//
// AUTOINCREMENT guarantees ids are never reused, even after the row with
// the highest id is deleted.
type SqliteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

func NewSqliteStore() (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", sqliteMemoryDSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		data TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, "SELECT id, data FROM records ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]Record, 0)
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", id, err)
		}
		result = append(result, toRecord(id, fields))
	}
	return result, rows.Err()
}

func (s *SqliteStore) Get(ctx context.Context, id int64) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, err := s.load(ctx, s.db.QueryRowContext, id)
	if err != nil {
		return nil, err
	}
	return toRecord(id, fields), nil
}

func (s *SqliteStore) Create(ctx context.Context, fields map[string]any) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clean := withoutID(fields)
	b, err := json.Marshal(clean)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, "INSERT INTO records (data) VALUES (?)", string(b))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return toRecord(id, clean), nil
}

func (s *SqliteStore) Replace(ctx context.Context, id int64, fields map[string]any) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clean := withoutID(fields)
	if err := s.update(ctx, s.db.ExecContext, id, clean); err != nil {
		return nil, err
	}
	return toRecord(id, clean), nil
}

func (s *SqliteStore) Patch(ctx context.Context, id int64, fields map[string]any) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := s.load(ctx, tx.QueryRowContext, id)
	if err != nil {
		return nil, err
	}
	maps.Copy(existing, withoutID(fields))
	if err := s.update(ctx, tx.ExecContext, id, existing); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return toRecord(id, existing), nil
}

func (s *SqliteStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SqliteStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n)
	return n, err
}

type queryRowFunc func(ctx context.Context, query string, args ...any) *sql.Row

type execFunc func(ctx context.Context, query string, args ...any) (sql.Result, error)

func (s *SqliteStore) load(ctx context.Context, query queryRowFunc, id int64) (map[string]any, error) {
	var raw string
	err := query(ctx, "SELECT data FROM records WHERE id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeFields(raw)
}

func (s *SqliteStore) update(ctx context.Context, exec execFunc, id int64, fields map[string]any) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	res, err := exec(ctx, "UPDATE records SET data = ? WHERE id = ?", string(b), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeFields(raw string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = make(map[string]any)
	}
	return fields, nil
}

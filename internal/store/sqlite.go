package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SqliteStore implements Store on SQLite (modernc.org/sqlite driver,
// CGO-free). The record is a single row keyed by a fixed id so Set is an
// upsert. Use ":memory:" for an in-memory database in tests.

type SqliteStore struct {
	db *sql.DB
}

func NewSqliteStore(path string) (*SqliteStore, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("empty sqlite path")
	}
	d, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	// busy timeout helps with short concurrent locks
	_, _ = d.Exec("PRAGMA busy_timeout=3000;")
	s := &SqliteStore{db: d}
	if err := s.ensureSchema(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqliteStore) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS emulator_status(
		id INTEGER PRIMARY KEY CHECK (id = 1),
		record TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`)
	return err
}

func (s *SqliteStore) Get() (*Record, error) {
	var raw string
	err := s.db.QueryRow(`SELECT record FROM emulator_status WHERE id = 1;`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, ErrNoRecord
	}
	return &rec, nil
}

func (s *SqliteStore) Set(rec *Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO emulator_status(id, record, updated_at) VALUES(1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			record=excluded.record,
			updated_at=excluded.updated_at;`,
		string(b), time.Now().UTC())
	return err
}

func (s *SqliteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM emulator_status WHERE id = 1;`)
	return err
}

func (s *SqliteStore) Close() error { return s.db.Close() }

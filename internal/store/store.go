package store

import (
	"errors"
	"time"
)

// Record describes the emulator server instance currently under supervision.
// It is written when the server is started and is the source of truth for
// "a server is believed to be running"; actual liveness must still be
// verified with a probe. At most one record exists at a time.

type Record struct {
	PID       int       `json:"pid"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	ProjectID string    `json:"project_id"`
	Debug     bool      `json:"debug"`
	DebugPort int       `json:"debug_port,omitempty"`
	Inspect   bool      `json:"inspect"`
	LogFile   string    `json:"log_file"`
	StartedAt time.Time `json:"started_at"`
}

// ErrNoRecord is returned by Get when no record has been persisted.
var ErrNoRecord = errors.New("no status record")

// Store persists the single Record across CLI invocations.
// Set overwrites any existing record; Clear is a no-op when none exists.
// Concurrent invocations race on the record (last writer wins); this is an
// accepted limitation of the file-resident state, not something the store
// tries to fix.

type Store interface {
	Get() (*Record, error)
	Set(*Record) error
	Clear() error
	Close() error
}

package store

import "fmt"

// Config selects the status store backend.
// Type "file" (default) keeps the record as a JSON file with atomic
// replacement; "sqlite" keeps it in a single-row SQLite table.
type Config struct {
	Type string `json:"type" mapstructure:"type"`
	Path string `json:"path" mapstructure:"path"`
}

// New builds a Store from config.
func New(cfg Config) (Store, error) {
	switch cfg.Type {
	case "", "file":
		return NewFileStore(cfg.Path)
	case "sqlite":
		return NewSqliteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

// Package recorder writes the after-action journal of a match to a
// pluggable backend. The journal is never read back by the engine.
package recorder

import (
	"fmt"

	"github.com/hexfront/engine/internal/journal"
	"github.com/hexfront/engine/internal/recorder/influx"
	"github.com/hexfront/engine/internal/recorder/memory"
	"github.com/hexfront/engine/internal/recorder/sqlstore"
)

// Backend is the interface all journal backends must satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	StartGame(g journal.Game) error
	RecordEvent(e journal.Event) error
	RecordCommand(c journal.Command) error
}

// Config selects and configures a backend.
type Config struct {
	// Type is one of none, memory, sqlite, postgres or influx.
	Type   string          `json:"type" mapstructure:"type"`
	Memory memory.Config   `json:"memory" mapstructure:"memory"`
	SQL    sqlstore.Config `json:"sql" mapstructure:"sql"`
	Influx influx.Config   `json:"influx" mapstructure:"influx"`
}

// New creates a backend based on configuration. Init is left to the caller.
func New(cfg Config) (Backend, error) {
	switch cfg.Type {
	case "", "none":
		return Nop{}, nil
	case "memory":
		return memory.New(cfg.Memory), nil
	case "sqlite", "postgres":
		sqlCfg := cfg.SQL
		sqlCfg.Driver = cfg.Type
		return sqlstore.New(sqlstore.Dependencies{Config: sqlCfg}), nil
	case "influx":
		return influx.New(cfg.Influx), nil
	default:
		return nil, fmt.Errorf("unknown recorder type: %s", cfg.Type)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Init() error                         { return nil }
func (Nop) Close() error                        { return nil }
func (Nop) StartGame(journal.Game) error        { return nil }
func (Nop) RecordEvent(journal.Event) error     { return nil }
func (Nop) RecordCommand(journal.Command) error { return nil }

var (
	_ Backend = Nop{}
	_ Backend = (*memory.Backend)(nil)
	_ Backend = (*sqlstore.Backend)(nil)
	_ Backend = (*influx.Backend)(nil)
)

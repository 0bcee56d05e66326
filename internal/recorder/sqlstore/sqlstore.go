// Package sqlstore writes the journal to SQLite or PostgreSQL through GORM.
// Records are queued and written in batches.
package sqlstore

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/hexfront/engine/internal/journal"
	"github.com/hexfront/engine/internal/queue"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultBatchSize = 500

// Config holds the database settings.
type Config struct {
	// Driver is sqlite or postgres.
	Driver string `json:"driver" mapstructure:"driver"`
	// DSN is a file path for sqlite (empty for in-memory) or a connection
	// string for postgres.
	DSN       string `json:"dsn" mapstructure:"dsn" env:"HEXFRONT_RECORDER_DSN"`
	BatchSize int    `json:"batchSize" mapstructure:"batchSize"`
}

// Dependencies holds all dependencies for the backend. A nil DB is opened
// from Config on Init.
type Dependencies struct {
	DB     *gorm.DB
	Config Config
}

// GameRow is one recorded match.
type GameRow struct {
	Session   string `gorm:"primaryKey;size:36"`
	MapName   string `gorm:"size:64"`
	Players   int
	GameType  string `gorm:"size:16"`
	StartedAt time.Time
}

func (GameRow) TableName() string { return "games" }

// EventRow is one applied event.
type EventRow struct {
	ID      uint   `gorm:"primaryKey"`
	Session string `gorm:"size:36;index"`
	Seq     int
	Turn    int
	Player  int
	Kind    string `gorm:"size:32;index"`
	Payload datatypes.JSON
	At      time.Time
}

func (EventRow) TableName() string { return "journal_events" }

// CommandRow is one submitted command.
type CommandRow struct {
	ID      uint   `gorm:"primaryKey"`
	Session string `gorm:"size:36;index"`
	Seq     int
	Turn    int
	Player  int
	Kind    string `gorm:"size:32"`
	Payload datatypes.JSON
	Error   string
	At      time.Time
}

func (CommandRow) TableName() string { return "journal_commands" }

// Models lists every table of the journal schema.
var Models = []any{&GameRow{}, &EventRow{}, &CommandRow{}}

// Backend implements the recorder backend on top of GORM.
type Backend struct {
	deps     Dependencies
	ownsDB   bool
	events   *queue.Queue[EventRow]
	commands *queue.Queue[CommandRow]
}

func New(deps Dependencies) *Backend {
	if deps.Config.BatchSize <= 0 {
		deps.Config.BatchSize = defaultBatchSize
	}
	return &Backend{
		deps:     deps,
		events:   queue.New[EventRow](),
		commands: queue.New[CommandRow](),
	}
}

// Open connects to the database named by cfg.
func Open(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        cfg.BatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}
	switch cfg.Driver {
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		return gorm.Open(sqlite.Open(dsn), gormCfg)
	case "postgres":
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gormCfg)
	}
	return nil, fmt.Errorf("unknown sql driver: %q", cfg.Driver)
}

// Init connects if needed and migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		db, err := Open(b.deps.Config)
		if err != nil {
			return fmt.Errorf("failed to connect to %s: %w", b.deps.Config.Driver, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		b.deps.DB = db
		b.ownsDB = true
	}
	if err := b.deps.DB.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// DB is the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Close flushes pending records. A connection opened by Init is closed too.
func (b *Backend) Close() error {
	if b.deps.DB == nil {
		return nil
	}
	if err := b.Flush(); err != nil {
		return err
	}
	if !b.ownsDB {
		return nil
	}
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

func (b *Backend) StartGame(g journal.Game) error {
	row := GameRow{
		Session:   g.Session.String(),
		MapName:   g.MapName,
		Players:   g.Players,
		GameType:  g.GameType.String(),
		StartedAt: g.StartedAt,
	}
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	return nil
}

func (b *Backend) RecordEvent(e journal.Event) error {
	b.events.Push(EventRow{
		Session: e.Session.String(),
		Seq:     e.Seq,
		Turn:    e.Turn,
		Player:  int(e.Player),
		Kind:    e.Kind,
		Payload: datatypes.JSON(e.Payload),
		At:      e.At,
	})
	return b.flushIfFull()
}

func (b *Backend) RecordCommand(c journal.Command) error {
	b.commands.Push(CommandRow{
		Session: c.Session.String(),
		Seq:     c.Seq,
		Turn:    c.Turn,
		Player:  int(c.Player),
		Kind:    c.Kind,
		Payload: datatypes.JSON(c.Payload),
		Error:   c.Error,
		At:      c.At,
	})
	return b.flushIfFull()
}

func (b *Backend) flushIfFull() error {
	if b.events.Len()+b.commands.Len() < b.deps.Config.BatchSize {
		return nil
	}
	return b.Flush()
}

// Flush writes every queued record.
func (b *Backend) Flush() error {
	if events := b.events.Drain(); len(events) > 0 {
		if err := b.deps.DB.CreateInBatches(&events, b.deps.Config.BatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert events: %w", err)
		}
	}
	if commands := b.commands.Drain(); len(commands) > 0 {
		if err := b.deps.DB.CreateInBatches(&commands, b.deps.Config.BatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert commands: %w", err)
		}
	}
	return nil
}

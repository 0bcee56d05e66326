// Package memory keeps the journal in memory and exports it as JSON when
// the backend is closed.
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hexfront/engine/internal/journal"
)

// Config holds the export settings. An empty OutputDir disables the export.
type Config struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// Export is the root JSON structure of an exported journal.
type Export struct {
	Game     journal.Game      `json:"game"`
	Events   []journal.Event   `json:"events"`
	Commands []journal.Command `json:"commands"`
}

// Backend stores journal records in memory.
type Backend struct {
	cfg      Config
	game     *journal.Game
	events   []journal.Event
	commands []journal.Command

	exportedPath string
	mu           sync.RWMutex
}

func New(cfg Config) *Backend {
	return &Backend{cfg: cfg}
}

func (b *Backend) Init() error {
	return nil
}

// Close exports the journal if an output directory is configured.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cfg.OutputDir == "" || b.game == nil {
		return nil
	}
	return b.exportJSON()
}

// StartGame begins a new journal and drops the previous one.
func (b *Backend) StartGame(g journal.Game) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.game = &g
	b.events = nil
	b.commands = nil
	return nil
}

func (b *Backend) RecordEvent(e journal.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.game == nil {
		return fmt.Errorf("no game started")
	}
	b.events = append(b.events, e)
	return nil
}

func (b *Backend) RecordCommand(c journal.Command) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.game == nil {
		return fmt.Errorf("no game started")
	}
	b.commands = append(b.commands, c)
	return nil
}

// Events returns a copy of the recorded events.
func (b *Backend) Events() []journal.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]journal.Event(nil), b.events...)
}

// Commands returns a copy of the recorded commands.
func (b *Backend) Commands() []journal.Command {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]journal.Command(nil), b.commands...)
}

// ExportedPath is the file written by the last Close, if any.
func (b *Backend) ExportedPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exportedPath
}

func (b *Backend) buildExport() Export {
	return Export{
		Game:     *b.game,
		Events:   b.events,
		Commands: b.commands,
	}
}

// WriteJSON writes the journal to w.
func (b *Backend) WriteJSON(w io.Writer) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.game == nil {
		return fmt.Errorf("no game started")
	}
	return json.NewEncoder(w).Encode(b.buildExport())
}

func (b *Backend) exportJSON() error {
	filename := fmt.Sprintf("%s_%s.json", b.game.MapName, b.game.StartedAt.Format("20060102_150405"))
	if b.cfg.CompressOutput {
		filename += ".gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}

	if err := json.NewEncoder(w).Encode(b.buildExport()); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	b.exportedPath = outputPath
	return nil
}

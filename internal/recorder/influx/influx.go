// Package influx writes the journal to InfluxDB as points, one per record.
package influx

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hexfront/engine/internal/journal"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Config holds the InfluxDB connection settings.
type Config struct {
	URL    string `json:"url" mapstructure:"url"`
	Token  string `json:"token" mapstructure:"token" env:"HEXFRONT_INFLUX_TOKEN"`
	Org    string `json:"org" mapstructure:"org"`
	Bucket string `json:"bucket" mapstructure:"bucket"`
}

const (
	measurementGame    = "game"
	measurementEvent   = "journal_event"
	measurementCommand = "journal_command"
)

// Backend writes points through the non-blocking write API.
type Backend struct {
	cfg    Config
	client influxdb2.Client
	writer influxdb2_api.WriteAPI
}

func New(cfg Config) *Backend {
	return &Backend{cfg: cfg}
}

// Init connects and checks that the server is up.
func (b *Backend) Init() error {
	b.client = influxdb2.NewClientWithOptions(
		b.cfg.URL,
		b.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	running, err := b.client.Ping(ctx)
	if err != nil || !running {
		b.client.Close()
		b.client = nil
		if err == nil {
			return fmt.Errorf("influxdb at %s is not ready", b.cfg.URL)
		}
		return fmt.Errorf("failed to reach influxdb at %s: %w", b.cfg.URL, err)
	}

	b.writer = b.client.WriteAPI(b.cfg.Org, b.cfg.Bucket)
	return nil
}

// Close flushes pending points and disconnects.
func (b *Backend) Close() error {
	if b.client == nil {
		return nil
	}
	b.writer.Flush()
	b.client.Close()
	return nil
}

func (b *Backend) StartGame(g journal.Game) error {
	b.writer.WritePoint(GamePoint(g))
	return nil
}

func (b *Backend) RecordEvent(e journal.Event) error {
	b.writer.WritePoint(EventPoint(e))
	return nil
}

func (b *Backend) RecordCommand(c journal.Command) error {
	b.writer.WritePoint(CommandPoint(c))
	return nil
}

// GamePoint describes the start of a session.
func GamePoint(g journal.Game) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		measurementGame,
		map[string]string{
			"session":  g.Session.String(),
			"map":      g.MapName,
			"gameType": g.GameType.String(),
		},
		map[string]interface{}{
			"players": g.Players,
		},
		g.StartedAt,
	)
}

// EventPoint converts one event record.
func EventPoint(e journal.Event) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		measurementEvent,
		map[string]string{
			"session": e.Session.String(),
			"kind":    e.Kind,
			"player":  strconv.Itoa(int(e.Player)),
		},
		map[string]interface{}{
			"seq":     e.Seq,
			"turn":    e.Turn,
			"payload": string(e.Payload),
		},
		e.At,
	)
}

// CommandPoint converts one command record.
func CommandPoint(c journal.Command) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		measurementCommand,
		map[string]string{
			"session":  c.Session.String(),
			"kind":     c.Kind,
			"player":   strconv.Itoa(int(c.Player)),
			"accepted": strconv.FormatBool(c.Accepted()),
		},
		map[string]interface{}{
			"seq":     c.Seq,
			"turn":    c.Turn,
			"payload": string(c.Payload),
			"error":   c.Error,
		},
		c.At,
	)
}

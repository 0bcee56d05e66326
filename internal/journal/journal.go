// Package journal defines the after-action records written by recorder
// backends: one Game per match, then every applied event and every command
// outcome in order.
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hexfront/engine/internal/command"
	"github.com/hexfront/engine/internal/event"
	"github.com/hexfront/engine/internal/model"
)

// Game opens a session.
type Game struct {
	Session   uuid.UUID      `json:"session"`
	MapName   string         `json:"mapName"`
	Players   int            `json:"players"`
	GameType  model.GameType `json:"gameType"`
	StartedAt time.Time      `json:"startedAt"`
}

// Event is one authoritative event as it was applied.
type Event struct {
	Session uuid.UUID       `json:"session"`
	Seq     int             `json:"seq"`
	Turn    int             `json:"turn"`
	Player  model.PlayerID  `json:"player"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

// Command is one command submitted to the engine. Error is empty when the
// command was accepted.
type Command struct {
	Session uuid.UUID       `json:"session"`
	Seq     int             `json:"seq"`
	Turn    int             `json:"turn"`
	Player  model.PlayerID  `json:"player"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
	Error   string          `json:"error,omitempty"`
	At      time.Time       `json:"at"`
}

// Accepted reports whether the engine executed the command.
func (c Command) Accepted() bool {
	return c.Error == ""
}

// Sequencer numbers the records of one session.
type Sequencer struct {
	session uuid.UUID
	seq     int
	now     func() time.Time
}

// NewSequencer starts a session with a fresh random id.
func NewSequencer() *Sequencer {
	return &Sequencer{session: uuid.New(), now: time.Now}
}

func (s *Sequencer) Session() uuid.UUID {
	return s.session
}

func (s *Sequencer) Game(mapName string, players int, gameType model.GameType) Game {
	return Game{
		Session:   s.session,
		MapName:   mapName,
		Players:   players,
		GameType:  gameType,
		StartedAt: s.now().UTC(),
	}
}

func (s *Sequencer) next() int {
	s.seq++
	return s.seq
}

// Event wraps ev into the next record.
func (s *Sequencer) Event(turn int, player model.PlayerID, ev event.Event) (Event, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Event{}, fmt.Errorf("encoding %s event: %w", ev.Kind(), err)
	}
	return Event{
		Session: s.session,
		Seq:     s.next(),
		Turn:    turn,
		Player:  player,
		Kind:    ev.Kind(),
		Payload: payload,
		At:      s.now().UTC(),
	}, nil
}

// Command wraps cmd and its outcome into the next record.
func (s *Sequencer) Command(turn int, player model.PlayerID, cmd command.Command, outcome error) (Command, error) {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return Command{}, fmt.Errorf("encoding %s command: %w", cmd.Kind(), err)
	}
	rec := Command{
		Session: s.session,
		Seq:     s.next(),
		Turn:    turn,
		Player:  player,
		Kind:    cmd.Kind(),
		Payload: payload,
		At:      s.now().UTC(),
	}
	if outcome != nil {
		rec.Error = outcome.Error()
	}
	return rec, nil
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/hexfront/engine/internal/ai"
	"github.com/hexfront/engine/internal/command"
	"github.com/hexfront/engine/internal/engine"
	"github.com/hexfront/engine/internal/model"
)

// maxTurnCommands bounds one bot's turn.
const maxTurnCommands = 1000

// match drives every player the Core doesn't run itself.
type match struct {
	core *engine.Core
	bots map[model.PlayerID]*ai.Player
	log  *slog.Logger
}

func newMatch(core *engine.Core, rng ai.Rand, log *slog.Logger) *match {
	m := &match{
		core: core,
		bots: map[model.PlayerID]*ai.Player{},
		log:  log,
	}
	opts := core.Options()
	st := core.State()
	for i := range st.PlayersCount() {
		id := model.PlayerID(i)
		if opts.GameType == model.SingleVsAI && id == 1 {
			continue
		}
		m.bots[id] = ai.New(core.Rules(), core.Layout(), st.PlayersCount(), id, rng)
	}
	return m
}

func (m *match) sync() {
	for id, b := range m.bots {
		for {
			ev, ok := m.core.EventFor(id)
			if !ok {
				break
			}
			b.Sync(ev)
		}
	}
}

// playTurn lets the player to move act until it ends its turn. In a
// SingleVsAI match the Core plays the AI's turn inside the closing EndTurn,
// so the turn counter is watched as well.
func (m *match) playTurn() error {
	player, turn := m.core.PlayerID(), m.core.Turn()
	b, ok := m.bots[player]
	if !ok {
		return fmt.Errorf("no bot for player %d", player)
	}
	for n := 0; m.core.PlayerID() == player && m.core.Turn() == turn; n++ {
		m.sync()
		cmd := b.Command()
		if n >= maxTurnCommands {
			cmd = command.EndTurn{}
		}
		if err := m.core.DoCommand(cmd); err != nil {
			m.log.Warn("bot command rejected, ending its turn", "command", cmd.Kind(), "error", err)
			if err := m.core.DoCommand(command.EndTurn{}); err != nil {
				return fmt.Errorf("end turn rejected: %w", err)
			}
		}
	}
	return nil
}

// run plays until turns full rounds are over.
func (m *match) run(turns int) error {
	for m.core.Turn() <= turns {
		if err := m.playTurn(); err != nil {
			return err
		}
	}
	m.sync()
	return nil
}

// scores lists the victory points of every player.
func (m *match) scores() []int {
	st := m.core.State()
	out := make([]int, st.PlayersCount())
	for i := range out {
		out[i] = st.Score(model.PlayerID(i))
	}
	return out
}

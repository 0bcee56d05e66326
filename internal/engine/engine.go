// Package engine runs a match. Core turns validated commands into events,
// applies them to the authoritative world and hands every player the part of
// each event it is allowed to see.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/hexfront/engine/internal/ai"
	"github.com/hexfront/engine/internal/arena"
	"github.com/hexfront/engine/internal/check"
	"github.com/hexfront/engine/internal/combat"
	"github.com/hexfront/engine/internal/command"
	"github.com/hexfront/engine/internal/dispatcher"
	"github.com/hexfront/engine/internal/event"
	"github.com/hexfront/engine/internal/filter"
	"github.com/hexfront/engine/internal/fow"
	"github.com/hexfront/engine/internal/journal"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/queue"
	"github.com/hexfront/engine/internal/rules"
	"github.com/hexfront/engine/internal/scenario"
	"github.com/hexfront/engine/internal/state"
	"go.opentelemetry.io/otel/metric"
)

// maxAICommands bounds one AI turn.
const maxAICommands = 1000

// AI is a computer player fed with its filtered event stream.
type AI interface {
	Sync(ev event.Event)
	Command() command.Command
}

// AIFactory builds the computer player for a match.
type AIFactory func(c *rules.Catalog, layout model.Layout, players int, player model.PlayerID) AI

// Recorder receives the match journal.
type Recorder interface {
	StartGame(g journal.Game) error
	RecordEvent(e journal.Event) error
	RecordCommand(c journal.Command) error
}

type nopRecorder struct{}

func (nopRecorder) StartGame(journal.Game) error        { return nil }
func (nopRecorder) RecordEvent(journal.Event) error     { return nil }
func (nopRecorder) RecordCommand(journal.Command) error { return nil }

type playerInfo struct {
	id      model.PlayerID
	fow     *fow.Fow
	events  *queue.Queue[event.Event]
	visible filter.UnitSet
}

// Core owns the authoritative world of one match.
type Core struct {
	rules     *rules.Catalog
	options   model.Options
	layout    model.Layout
	state     *state.Full
	players   []*playerInfo
	current   model.PlayerID
	turn      int
	resolver  *combat.Resolver
	rng       combat.Rand
	combatCfg combat.Config

	unitIDs   arena.Allocator[model.UnitID]
	objectIDs arena.Allocator[model.ObjectID]

	dispatcher *dispatcher.Dispatcher
	log        *slog.Logger
	cmdLog     dispatcher.Logger
	recorder   Recorder
	seq        *journal.Sequencer

	aiFactory AIFactory
	ai        AI
	aiPlayer  model.PlayerID
	pumping   bool

	gauge metric.Registration
}

// Option configures a Core.
type Option func(*Core)

// WithRand sets the dice. Defaults to a randomly seeded PCG.
func WithRand(rng combat.Rand) Option {
	return func(c *Core) {
		c.rng = rng
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Core) {
		c.log = l
	}
}

// WithCommandLogger sets the logger of the command dispatcher. Defaults to
// the Core logger.
func WithCommandLogger(l dispatcher.Logger) Option {
	return func(c *Core) {
		c.cmdLog = l
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Core) {
		c.recorder = r
	}
}

func WithCombatConfig(cfg combat.Config) Option {
	return func(c *Core) {
		c.combatCfg = cfg
	}
}

// WithAI replaces the built-in computer player of SingleVsAI matches.
func WithAI(f AIFactory) Option {
	return func(c *Core) {
		c.aiFactory = f
	}
}

// New starts a match on the map named by opts.
func New(c *rules.Catalog, opts model.Options, loader scenario.Loader, options ...Option) (*Core, error) {
	if opts.PlayersCount == 0 {
		opts.PlayersCount = 2
	}
	if opts.PlayersCount < 2 {
		return nil, fmt.Errorf("a match needs at least two players, got %d", opts.PlayersCount)
	}
	layout, err := loader.Load(opts.MapName)
	if err != nil {
		return nil, fmt.Errorf("failed to load map %q: %w", opts.MapName, err)
	}

	core := &Core{
		rules:     c,
		options:   opts,
		layout:    layout,
		turn:      1,
		combatCfg: combat.DefaultConfig(),
		log:       slog.Default(),
		recorder:  nopRecorder{},
		seq:       journal.NewSequencer(),
		aiPlayer:  model.NoPlayer,
	}
	for _, opt := range options {
		opt(core)
	}
	if core.rng == nil {
		core.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if core.cmdLog == nil {
		core.cmdLog = core.log
	}
	if core.aiFactory == nil {
		core.aiFactory = func(c *rules.Catalog, layout model.Layout, players int, player model.PlayerID) AI {
			return ai.New(c, layout, players, player, core.rng)
		}
	}

	core.state = state.NewFull(c, layout, opts.PlayersCount)
	for o := range core.state.Objects() {
		core.objectIDs.Observe(o.ID)
	}
	core.resolver = combat.NewResolver(c, core.rng, core.combatCfg)
	for i := range opts.PlayersCount {
		id := model.PlayerID(i)
		core.players = append(core.players, &playerInfo{
			id:      id,
			fow:     fow.New(c, core.state, id),
			events:  queue.New[event.Event](),
			visible: filter.UnitSet{},
		})
	}
	if opts.GameType == model.SingleVsAI {
		core.aiPlayer = 1
		core.ai = core.aiFactory(c, layout, opts.PlayersCount, core.aiPlayer)
	}

	if err := core.registerHandlers(); err != nil {
		return nil, err
	}
	if err := core.registerMetrics(); err != nil {
		return nil, err
	}
	game := core.seq.Game(opts.MapName, opts.PlayersCount, opts.GameType)
	if err := core.recorder.StartGame(game); err != nil {
		return nil, fmt.Errorf("failed to start journal: %w", err)
	}

	core.log.Info("match started",
		"session", core.seq.Session().String(),
		"map", opts.MapName,
		"players", opts.PlayersCount,
		"gameType", opts.GameType.String())
	return core, nil
}

// Close releases the metric callbacks.
func (c *Core) Close() error {
	if c.gauge == nil {
		return nil
	}
	return c.gauge.Unregister()
}

func (c *Core) Rules() *rules.Catalog {
	return c.rules
}

// State is the authoritative world. Callers must not keep it across
// commands.
func (c *Core) State() state.GameState {
	return c.state
}

// PlayerID is the player to move.
func (c *Core) PlayerID() model.PlayerID {
	return c.current
}

// Turn counts full rounds, starting at 1.
func (c *Core) Turn() int {
	return c.turn
}

// Layout is the map the match is played on.
func (c *Core) Layout() model.Layout {
	return c.layout
}

func (c *Core) Options() model.Options {
	return c.options
}

// LogAttrs describes the match position for log records.
func (c *Core) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Int("turn", c.turn),
		slog.Int("player", int(c.current)),
	}
}

// Event pops the next event of the player to move.
func (c *Core) Event() (event.Event, bool) {
	return c.EventFor(c.current)
}

// EventFor pops the next event of any player.
func (c *Core) EventFor(player model.PlayerID) (event.Event, bool) {
	return c.info(player).events.TryPop()
}

func (c *Core) info(player model.PlayerID) *playerInfo {
	if player < 0 || int(player) >= len(c.players) {
		panic(fmt.Sprintf("engine: no player %d", player))
	}
	return c.players[player]
}

// Check reports why the player to move may not issue cmd, or nil. Enemy
// units the player can't see don't exist for the check.
func (c *Core) Check(cmd command.Command) error {
	view := fow.NewView(c.state, c.players[c.current].fow)
	return check.Command(c.rules, c.current, view, cmd)
}

// DoCommand executes cmd for the player to move. A rejected command returns
// an error wrapping one of the check errors and leaves the world unchanged.
// When the turn passes to the computer player, it plays its whole turn
// before DoCommand returns.
func (c *Core) DoCommand(cmd command.Command) error {
	if err := c.execute(cmd); err != nil {
		return err
	}
	c.pumpAI()
	return nil
}

func (c *Core) execute(cmd command.Command) error {
	turn, player := c.turn, c.current
	err := c.dispatcher.Dispatch(cmd)
	c.recordCommand(turn, player, cmd, err)
	if err != nil {
		return fmt.Errorf("%s command rejected: %w", cmd.Kind(), err)
	}
	return nil
}

// pumpAI lets the computer player move until it hands the turn back.
func (c *Core) pumpAI() {
	if c.ai == nil || c.pumping {
		return
	}
	c.pumping = true
	defer func() { c.pumping = false }()

	for n := 0; c.current == c.aiPlayer; n++ {
		for {
			ev, ok := c.EventFor(c.aiPlayer)
			if !ok {
				break
			}
			c.ai.Sync(ev)
		}
		cmd := c.ai.Command()
		if n >= maxAICommands {
			c.log.Warn("ai turn is too long, ending it", "commands", n)
			cmd = command.EndTurn{}
		}
		if err := c.execute(cmd); err != nil {
			c.log.Warn("ai command rejected, ending its turn", "command", cmd.Kind(), "error", err)
			if err := c.execute(command.EndTurn{}); err != nil {
				panic(fmt.Sprintf("engine: end turn rejected: %v", err))
			}
		}
	}
}

// apply is the only write path into the world: the event is applied,
// journaled and delivered to every player.
func (c *Core) apply(ev event.Event) {
	c.state.ApplyEvent(ev)
	c.recordEvent(ev)
	for _, p := range c.players {
		c.deliver(p, ev)
	}
	if _, ok := ev.(event.SectorOwnerChanged); !ok {
		c.updateSectors()
	}
}

func (c *Core) deliver(p *playerInfo, ev event.Event) {
	events, active := filter.Events(c.state, p.fow, p.id, ev)
	for _, fe := range events {
		p.fow.Apply(c.state, fe)
	}
	p.events.Push(events...)
	visible := filter.VisibleEnemies(c.state, p.fow, p.id)
	p.events.Push(filter.PassiveShowHide(c.state, active, p.visible, visible)...)
	p.visible = visible
}

func (c *Core) updateSectors() {
	var changes []event.Event
	for s := range c.state.Sectors() {
		if owner := SectorOwner(c.rules, c.state, s); owner != s.Owner {
			changes = append(changes, event.SectorOwnerChanged{SectorID: s.ID, NewOwner: owner})
		}
	}
	for _, ev := range changes {
		c.apply(ev)
	}
}

// SectorOwner is the one player whose live ground units stand on every tile
// of s, or NoPlayer.
func SectorOwner(cat *rules.Catalog, st state.GameState, s *model.Sector) model.PlayerID {
	owner := model.NoPlayer
	for _, pos := range s.Positions {
		occupied := false
		for u := range st.UnitsAt(pos) {
			if !u.IsAlive || cat.UnitType(u.Type).IsAir {
				continue
			}
			if owner != model.NoPlayer && u.Player != owner {
				return model.NoPlayer
			}
			owner = u.Player
			occupied = true
		}
		if !occupied {
			return model.NoPlayer
		}
	}
	return owner
}

func (c *Core) recordEvent(ev event.Event) {
	rec, err := c.seq.Event(c.turn, c.current, ev)
	if err == nil {
		err = c.recorder.RecordEvent(rec)
	}
	if err != nil {
		c.log.Error("failed to record event", "event", ev.Kind(), "error", err)
	}
}

func (c *Core) recordCommand(turn int, player model.PlayerID, cmd command.Command, outcome error) {
	rec, err := c.seq.Command(turn, player, cmd, outcome)
	if err == nil {
		err = c.recorder.RecordCommand(rec)
	}
	if err != nil {
		c.log.Error("failed to record command", "command", cmd.Kind(), "error", err)
	}
}

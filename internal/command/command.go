// Package command defines the closed set of player intents accepted by the
// engine.
package command

import (
	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/rules"
)

// Command is implemented only by the types of this package.
type Command interface {
	Kind() string
	isCommand()
}

const (
	KindEndTurn             = "end_turn"
	KindCreateUnit          = "create_unit"
	KindMove                = "move"
	KindAttack              = "attack"
	KindLoadUnit            = "load_unit"
	KindUnloadUnit          = "unload_unit"
	KindAttach              = "attach"
	KindDetach              = "detach"
	KindSetReactionFireMode = "set_reaction_fire_mode"
	KindSmoke               = "smoke"
)

// Kinds lists every command kind.
var Kinds = []string{
	KindEndTurn,
	KindCreateUnit,
	KindMove,
	KindAttack,
	KindLoadUnit,
	KindUnloadUnit,
	KindAttach,
	KindDetach,
	KindSetReactionFireMode,
	KindSmoke,
}

type EndTurn struct{}

// CreateUnit buys a unit of Type at Pos, which must be in one of the
// player's reinforcement sectors.
type CreateUnit struct {
	Pos  model.ExactPos   `json:"pos"`
	Type rules.UnitTypeID `json:"type"`
}

// Move walks a unit along Path. Path starts at the unit's current position.
type Move struct {
	UnitID model.UnitID     `json:"unitId"`
	Path   []model.ExactPos `json:"path"`
	Mode   model.MoveMode   `json:"mode"`
}

type Attack struct {
	AttackerID model.UnitID `json:"attackerId"`
	DefenderID model.UnitID `json:"defenderId"`
}

type LoadUnit struct {
	TransporterID model.UnitID `json:"transporterId"`
	PassengerID   model.UnitID `json:"passengerId"`
}

type UnloadUnit struct {
	TransporterID model.UnitID   `json:"transporterId"`
	PassengerID   model.UnitID   `json:"passengerId"`
	Pos           model.ExactPos `json:"pos"`
}

type Attach struct {
	TransporterID  model.UnitID `json:"transporterId"`
	AttachedUnitID model.UnitID `json:"attachedUnitId"`
}

type Detach struct {
	TransporterID model.UnitID   `json:"transporterId"`
	Pos           model.ExactPos `json:"pos"`
}

type SetReactionFireMode struct {
	UnitID model.UnitID           `json:"unitId"`
	Mode   model.ReactionFireMode `json:"mode"`
}

// Smoke orders a unit with a smoke-capable weapon to lay smoke at Pos.
type Smoke struct {
	UnitID model.UnitID `json:"unitId"`
	Pos    hex.MapPos   `json:"pos"`
}

func (EndTurn) Kind() string             { return KindEndTurn }
func (CreateUnit) Kind() string          { return KindCreateUnit }
func (Move) Kind() string                { return KindMove }
func (Attack) Kind() string              { return KindAttack }
func (LoadUnit) Kind() string            { return KindLoadUnit }
func (UnloadUnit) Kind() string          { return KindUnloadUnit }
func (Attach) Kind() string              { return KindAttach }
func (Detach) Kind() string              { return KindDetach }
func (SetReactionFireMode) Kind() string { return KindSetReactionFireMode }
func (Smoke) Kind() string               { return KindSmoke }

func (EndTurn) isCommand()             {}
func (CreateUnit) isCommand()          {}
func (Move) isCommand()                {}
func (Attack) isCommand()              {}
func (LoadUnit) isCommand()            {}
func (UnloadUnit) isCommand()          {}
func (Attach) isCommand()              {}
func (Detach) isCommand()              {}
func (SetReactionFireMode) isCommand() {}
func (Smoke) isCommand()               {}

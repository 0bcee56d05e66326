// Package event defines the closed set of events produced by the engine.
// Every state change of the authoritative world is one of these events, and
// each player's view of the game is a filtered stream of them.
package event

import (
	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
)

// Event is implemented only by the types of this package.
type Event interface {
	Kind() string
	isEvent()
}

const (
	KindMove                = "move"
	KindEndTurn             = "end_turn"
	KindCreateUnit          = "create_unit"
	KindAttackUnit          = "attack_unit"
	KindReveal              = "reveal"
	KindShowUnit            = "show_unit"
	KindHideUnit            = "hide_unit"
	KindLoadUnit            = "load_unit"
	KindUnloadUnit          = "unload_unit"
	KindAttach              = "attach"
	KindDetach              = "detach"
	KindSetReactionFireMode = "set_reaction_fire_mode"
	KindSectorOwnerChanged  = "sector_owner_changed"
	KindVictoryPoint        = "victory_point"
	KindSmoke               = "smoke"
	KindRemoveSmoke         = "remove_smoke"
)

// Move is one step of a unit to an adjacent tile.
type Move struct {
	UnitID model.UnitID   `json:"unitId"`
	From   model.ExactPos `json:"from"`
	To     model.ExactPos `json:"to"`
	Mode   model.MoveMode `json:"mode"`
	Cost   int            `json:"cost"`
}

// EndTurn passes control from OldID to NewID.
type EndTurn struct {
	OldID model.PlayerID `json:"oldId"`
	NewID model.PlayerID `json:"newId"`
}

// CreateUnit adds a freshly bought unit.
type CreateUnit struct {
	Unit model.Unit `json:"unit"`
}

// AttackUnit is one resolved attack. AttackerID is zero when the attacker is
// hidden from the receiver.
type AttackUnit struct {
	AttackerID       model.UnitID   `json:"attackerId,omitempty"`
	DefenderID       model.UnitID   `json:"defenderId"`
	Mode             model.FireMode `json:"mode"`
	Killed           int            `json:"killed"`
	Suppression      int            `json:"suppression"`
	RemoveMovePoints bool           `json:"removeMovePoints"`
	IsAmbush         bool           `json:"isAmbush"`
	IsIndirect       bool           `json:"isIndirect"`
	LeaveWrecks      bool           `json:"leaveWrecks"`
	TargetPos        model.ExactPos `json:"targetPos"`
}

// Reveal marks that a moving unit bumped into a hidden unit.
type Reveal struct {
	Unit model.Unit `json:"unit"`
}

// ShowUnit makes an enemy unit appear in a player's view.
type ShowUnit struct {
	Unit model.Unit `json:"unit"`
}

// HideUnit removes an enemy unit from a player's view.
type HideUnit struct {
	UnitID model.UnitID `json:"unitId"`
}

// LoadUnit puts a passenger into a transporter. TransporterID is zero when
// the transporter is hidden from the receiver.
type LoadUnit struct {
	TransporterID model.UnitID   `json:"transporterId,omitempty"`
	PassengerID   model.UnitID   `json:"passengerId"`
	From          model.ExactPos `json:"from"`
	To            model.ExactPos `json:"to"`
}

// UnloadUnit drops a passenger next to its transporter.
type UnloadUnit struct {
	Unit          model.Unit     `json:"unit"`
	TransporterID model.UnitID   `json:"transporterId,omitempty"`
	From          model.ExactPos `json:"from"`
	To            model.ExactPos `json:"to"`
}

// Attach hooks a towable unit to a transporter standing next to it.
type Attach struct {
	TransporterID  model.UnitID   `json:"transporterId"`
	AttachedUnitID model.UnitID   `json:"attachedUnitId"`
	From           model.ExactPos `json:"from"`
	To             model.ExactPos `json:"to"`
}

// Detach releases the towed unit and moves the transporter to To.
type Detach struct {
	TransporterID model.UnitID   `json:"transporterId"`
	From          model.ExactPos `json:"from"`
	To            model.ExactPos `json:"to"`
}

type SetReactionFireMode struct {
	UnitID model.UnitID           `json:"unitId"`
	Mode   model.ReactionFireMode `json:"mode"`
}

type SectorOwnerChanged struct {
	SectorID model.SectorID `json:"sectorId"`
	NewOwner model.PlayerID `json:"newOwner"`
}

// VictoryPoint awards Count points to Player for holding the sector centred
// at Pos.
type VictoryPoint struct {
	Player model.PlayerID `json:"player"`
	Pos    hex.MapPos     `json:"pos"`
	Count  int            `json:"count"`
}

// Smoke lays a smoke cloud. UnitID is zero for the extra clouds and when
// the shooter is hidden from the receiver.
type Smoke struct {
	ID     model.ObjectID `json:"id"`
	Pos    hex.MapPos     `json:"pos"`
	UnitID model.UnitID   `json:"unitId,omitempty"`
}

type RemoveSmoke struct {
	ID model.ObjectID `json:"id"`
}

func (Move) Kind() string                { return KindMove }
func (EndTurn) Kind() string             { return KindEndTurn }
func (CreateUnit) Kind() string          { return KindCreateUnit }
func (AttackUnit) Kind() string          { return KindAttackUnit }
func (Reveal) Kind() string              { return KindReveal }
func (ShowUnit) Kind() string            { return KindShowUnit }
func (HideUnit) Kind() string            { return KindHideUnit }
func (LoadUnit) Kind() string            { return KindLoadUnit }
func (UnloadUnit) Kind() string          { return KindUnloadUnit }
func (Attach) Kind() string              { return KindAttach }
func (Detach) Kind() string              { return KindDetach }
func (SetReactionFireMode) Kind() string { return KindSetReactionFireMode }
func (SectorOwnerChanged) Kind() string  { return KindSectorOwnerChanged }
func (VictoryPoint) Kind() string        { return KindVictoryPoint }
func (Smoke) Kind() string               { return KindSmoke }
func (RemoveSmoke) Kind() string         { return KindRemoveSmoke }

func (Move) isEvent()                {}
func (EndTurn) isEvent()             {}
func (CreateUnit) isEvent()          {}
func (AttackUnit) isEvent()          {}
func (Reveal) isEvent()              {}
func (ShowUnit) isEvent()            {}
func (HideUnit) isEvent()            {}
func (LoadUnit) isEvent()            {}
func (UnloadUnit) isEvent()          {}
func (Attach) isEvent()              {}
func (Detach) isEvent()              {}
func (SetReactionFireMode) isEvent() {}
func (SectorOwnerChanged) isEvent()  {}
func (VictoryPoint) isEvent()        {}
func (Smoke) isEvent()               {}
func (RemoveSmoke) isEvent()         {}

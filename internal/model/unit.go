package model

import (
	"fmt"
	"strings"

	"github.com/hexfront/engine/internal/rules"
)

// ReactionFireMode controls whether a unit shoots during the enemy's turn.
type ReactionFireMode uint8

const (
	Normal ReactionFireMode = iota
	HoldFire
)

func (m ReactionFireMode) String() string {
	if m == HoldFire {
		return "HoldFire"
	}
	return "Normal"
}

// FireMode distinguishes an ordered attack from reaction fire.
type FireMode uint8

const (
	Active FireMode = iota
	Reactive
)

func (m FireMode) String() string {
	if m == Reactive {
		return "Reactive"
	}
	return "Active"
}

// MoveMode changes the cost of a move.
type MoveMode uint8

const (
	Fast MoveMode = iota
	Hunt
)

func (m MoveMode) String() string {
	if m == Hunt {
		return "Hunt"
	}
	return "Fast"
}

// Unit is a single unit in the world. Point fields are only meaningful when
// Detailed is set; redacted copies of enemy units leave them zero.
type Unit struct {
	ID                   UnitID           `json:"id"`
	Player               PlayerID         `json:"player"`
	Type                 rules.UnitTypeID `json:"type"`
	Pos                  ExactPos         `json:"pos"`
	IsAlive              bool             `json:"isAlive"`
	Count                int              `json:"count"`
	Morale               int              `json:"morale"`
	Detailed             bool             `json:"detailed"`
	MovePoints           int              `json:"movePoints,omitempty"`
	AttackPoints         int              `json:"attackPoints,omitempty"`
	ReactiveAttackPoints int              `json:"reactiveAttackPoints,omitempty"`
	PassengerID          UnitID           `json:"passengerId,omitempty"`
	AttachedUnitID       UnitID           `json:"attachedUnitId,omitempty"`
	ReactionFireMode     ReactionFireMode `json:"reactionFireMode"`
	IsLoaded             bool             `json:"isLoaded,omitempty"`
	IsAttached           bool             `json:"isAttached,omitempty"`
}

// IsCarried reports whether the unit rides with a transporter.
func (u *Unit) IsCarried() bool {
	return u.IsLoaded || u.IsAttached
}

func (u *Unit) String() string {
	return fmt.Sprintf("unit %d (player %d, type %d) at %s", u.ID, u.Player, u.Type, u.Pos)
}

// GameType selects who controls the second player.
type GameType uint8

const (
	Hotseat GameType = iota
	SingleVsAI
)

func (g GameType) String() string {
	if g == SingleVsAI {
		return "SingleVsAI"
	}
	return "Hotseat"
}

// ParseGameType accepts "hotseat" or "single_vs_ai" in any case.
func ParseGameType(s string) (GameType, error) {
	switch strings.ToLower(s) {
	case "hotseat":
		return Hotseat, nil
	case "single_vs_ai", "singlevsai":
		return SingleVsAI, nil
	}
	return Hotseat, fmt.Errorf("unknown game type: %s", s)
}

// Options configure a new game.
type Options struct {
	MapName      string
	PlayersCount int
	GameType     GameType
}

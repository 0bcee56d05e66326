// Package check validates commands against a world without changing it.
package check

import "errors"

// Rule violations. A rejected command returns exactly one of these.
var (
	ErrTileIsOccupied                  = errors.New("tile is occupied")
	ErrCanNotCommandEnemyUnits         = errors.New("can not command enemy units")
	ErrNotInReinforcementSector        = errors.New("not in reinforcement sector")
	ErrNotEnoughMovePoints             = errors.New("not enough move points")
	ErrNotEnoughAttackPoints           = errors.New("not enough attack points")
	ErrNotEnoughReactiveAttackPoints   = errors.New("not enough reactive attack points")
	ErrNotEnoughReinforcementPoints    = errors.New("not enough reinforcement points")
	ErrBadMorale                       = errors.New("can not attack when suppressed")
	ErrOutOfRange                      = errors.New("out of range")
	ErrTooClose                        = errors.New("too close")
	ErrNoLos                           = errors.New("no line of sight")
	ErrBadTransporterClass             = errors.New("bad transporter class")
	ErrBadPassengerClass               = errors.New("bad passenger class")
	ErrTransporterIsNotEmpty           = errors.New("transporter is not empty")
	ErrTransporterIsEmpty              = errors.New("transporter is empty")
	ErrTransporterIsTooFarAway         = errors.New("transporter is too far away")
	ErrPassengerHasNotEnoughMovePoints = errors.New("passenger has not enough move points")
	ErrUnloadDistanceIsTooBig          = errors.New("unload position is too far away")
	ErrDestinationTileIsNotEmpty       = errors.New("destination tile is not empty")
	ErrBadUnitID                       = errors.New("bad unit id")
	ErrBadTransporterID                = errors.New("bad transporter id")
	ErrBadPassengerID                  = errors.New("bad passenger id")
	ErrBadAttackerID                   = errors.New("bad attacker id")
	ErrBadDefenderID                   = errors.New("bad defender id")
	ErrBadPath                         = errors.New("bad path")
	ErrBadUnitType                     = errors.New("bad unit type")
	ErrUnitIsDead                      = errors.New("unit is dead")
	ErrBadAttachedUnitID               = errors.New("bad attached unit id")
	ErrBadAttachedUnitClass            = errors.New("bad attached unit class")
	ErrAttachedUnitIsTooFarAway        = errors.New("attached unit is too far away")
	ErrTransporterIsNotAttached        = errors.New("transporter has nothing attached")
	ErrTransporterIsAttached           = errors.New("transporter already tows a unit")
	ErrUnitIsCarried                   = errors.New("unit is loaded or attached")
	ErrOffMap                          = errors.New("position is outside the map")
)

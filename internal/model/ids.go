// Package model holds the plain data types shared by the rules, state and
// engine packages: ids, positions, units, terrain and sectors.
package model

// PlayerID identifies a player. Players are numbered from zero.
type PlayerID int32

// NoPlayer marks an object or sector that nobody owns.
const NoPlayer PlayerID = -1

// UnitID identifies a unit. Zero means "no unit".
type UnitID int32

// ObjectID identifies a map object. Zero means "no object".
type ObjectID int32

// SectorID identifies a capturable sector.
type SectorID int32

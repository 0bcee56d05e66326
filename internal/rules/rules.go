// Package rules is the static catalog of unit and weapon types. The catalog
// is read-only once loaded and is shared by every component of the engine.
package rules

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/viper"
)

// UnitTypeID indexes a unit type in its catalog.
type UnitTypeID int32

// WeaponTypeID indexes a weapon type in its catalog.
type WeaponTypeID int32

// WeaponType describes a unit's armament.
type WeaponType struct {
	Name           string `mapstructure:"name"`
	Damage         int    `mapstructure:"damage"`
	AP             int    `mapstructure:"ap"`
	Accuracy       int    `mapstructure:"accuracy"`
	MaxDistance    int    `mapstructure:"max_distance"`
	MinDistance    int    `mapstructure:"min_distance"`
	MaxAirDistance *int   `mapstructure:"max_air_distance"`
	IsIndirect     bool   `mapstructure:"is_indirect"`
	ReactionFire   bool   `mapstructure:"reaction_fire"`
	Smoke          *int   `mapstructure:"smoke"`
}

// AirRange returns the range against air targets, if the weapon can shoot
// at them at all.
func (w *WeaponType) AirRange() (int, bool) {
	if w.MaxAirDistance == nil {
		return 0, false
	}
	return *w.MaxAirDistance, true
}

// SmokeClouds returns how many extra smoke clouds the weapon lays around
// its target, if it can lay smoke.
func (w *WeaponType) SmokeClouds() (int, bool) {
	if w.Smoke == nil {
		return 0, false
	}
	return *w.Smoke, true
}

// UnitType describes one kind of unit.
type UnitType struct {
	Name                 string `mapstructure:"name"`
	Size                 int    `mapstructure:"size"`
	Count                int    `mapstructure:"count"`
	Armor                int    `mapstructure:"armor"`
	Toughness            int    `mapstructure:"toughness"`
	WeaponSkill          int    `mapstructure:"weapon_skill"`
	WeaponName           string `mapstructure:"weapon"`
	MovePoints           int    `mapstructure:"move_points"`
	AttackPoints         int    `mapstructure:"attack_points"`
	ReactiveAttackPoints int    `mapstructure:"reactive_attack_points"`
	LosRange             int    `mapstructure:"los_range"`
	CoverLosRange        int    `mapstructure:"cover_los_range"`
	IsTransporter        bool   `mapstructure:"is_transporter"`
	IsBig                bool   `mapstructure:"is_big"`
	IsAir                bool   `mapstructure:"is_air"`
	IsInfantry           bool   `mapstructure:"is_infantry"`
	CanBeTowed           bool   `mapstructure:"can_be_towed"`
	Cost                 int    `mapstructure:"cost"`

	// Weapon is resolved from WeaponName when the catalog is loaded.
	Weapon WeaponTypeID `mapstructure:"-"`
}

// Catalog holds every unit and weapon type. Pointers returned by its
// accessors refer to catalog storage and must not be modified.
type Catalog struct {
	units       []UnitType
	weapons     []WeaponType
	unitIndex   map[string]UnitTypeID
	weaponIndex map[string]WeaponTypeID
}

type catalogDocument struct {
	Weapons []WeaponType `mapstructure:"weapons"`
	Units   []UnitType   `mapstructure:"units"`
}

//go:embed data/catalog.v1.json
var builtinCatalogJSON []byte

var builtinCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Load(bytes.NewReader(builtinCatalogJSON))
})

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := builtinCatalog()
	if err != nil {
		panic(fmt.Sprintf("rules: built-in catalog is broken: %v", err))
	}
	return c
}

// Load decodes a JSON catalog with "weapons" and "units" lists.
func Load(r io.Reader) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}
	var doc catalogDocument
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("error decoding catalog: %w", err)
	}
	return newCatalog(doc)
}

func newCatalog(doc catalogDocument) (*Catalog, error) {
	if len(doc.Units) == 0 {
		return nil, fmt.Errorf("catalog has no unit types")
	}
	c := &Catalog{
		units:       doc.Units,
		weapons:     doc.Weapons,
		unitIndex:   make(map[string]UnitTypeID, len(doc.Units)),
		weaponIndex: make(map[string]WeaponTypeID, len(doc.Weapons)),
	}
	for i, w := range c.weapons {
		if _, ok := c.weaponIndex[w.Name]; ok {
			return nil, fmt.Errorf("duplicate weapon type %q", w.Name)
		}
		c.weaponIndex[w.Name] = WeaponTypeID(i)
	}
	for i := range c.units {
		u := &c.units[i]
		if _, ok := c.unitIndex[u.Name]; ok {
			return nil, fmt.Errorf("duplicate unit type %q", u.Name)
		}
		weapon, ok := c.weaponIndex[u.WeaponName]
		if !ok {
			return nil, fmt.Errorf("unit type %q: unknown weapon type %q", u.Name, u.WeaponName)
		}
		if u.Count < 1 {
			return nil, fmt.Errorf("unit type %q: count must be positive", u.Name)
		}
		u.Weapon = weapon
		c.unitIndex[u.Name] = UnitTypeID(i)
	}
	return c, nil
}

// UnitType returns the unit type for id. It panics on an unknown id.
func (c *Catalog) UnitType(id UnitTypeID) *UnitType {
	if !c.HasUnitType(id) {
		panic(fmt.Sprintf("rules: unknown unit type id %d", id))
	}
	return &c.units[id]
}

// HasUnitType reports whether id names a unit type.
func (c *Catalog) HasUnitType(id UnitTypeID) bool {
	return id >= 0 && int(id) < len(c.units)
}

// WeaponType returns the weapon type for id. It panics on an unknown id.
func (c *Catalog) WeaponType(id WeaponTypeID) *WeaponType {
	if id < 0 || int(id) >= len(c.weapons) {
		panic(fmt.Sprintf("rules: unknown weapon type id %d", id))
	}
	return &c.weapons[id]
}

// UnitWeapon is a shortcut for the weapon carried by a unit type.
func (c *Catalog) UnitWeapon(id UnitTypeID) *WeaponType {
	return c.WeaponType(c.UnitType(id).Weapon)
}

// UnitTypeID looks a unit type up by name. It panics on an unknown name.
func (c *Catalog) UnitTypeID(name string) UnitTypeID {
	id, ok := c.unitIndex[name]
	if !ok {
		panic(fmt.Sprintf("rules: unknown unit type %q", name))
	}
	return id
}

// WeaponTypeID looks a weapon type up by name. It panics on an unknown name.
func (c *Catalog) WeaponTypeID(name string) WeaponTypeID {
	id, ok := c.weaponIndex[name]
	if !ok {
		panic(fmt.Sprintf("rules: unknown weapon type %q", name))
	}
	return id
}

// UnitTypes returns every unit type id in catalog order.
func (c *Catalog) UnitTypes() []UnitTypeID {
	ids := make([]UnitTypeID, len(c.units))
	for i := range c.units {
		ids[i] = UnitTypeID(i)
	}
	return ids
}

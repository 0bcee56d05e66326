// Package scenario loads map layouts: terrain, static objects and sectors.
package scenario

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/hexfront/engine/internal/hex"
	"github.com/hexfront/engine/internal/model"
	"github.com/spf13/viper"
)

// ErrUnknownMap is returned for a map name the loader doesn't have.
var ErrUnknownMap = errors.New("unknown map")

// Loader returns the initial layout of a named map.
type Loader interface {
	Load(name string) (model.Layout, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(name string) (model.Layout, error)

func (f LoaderFunc) Load(name string) (model.Layout, error) {
	return f(name)
}

type tileDoc struct {
	X int `mapstructure:"x"`
	Y int `mapstructure:"y"`
}

func (t tileDoc) pos() hex.MapPos {
	return hex.MapPos{X: t.X, Y: t.Y}
}

type terrainDoc struct {
	X    int    `mapstructure:"x"`
	Y    int    `mapstructure:"y"`
	Kind string `mapstructure:"kind"`
}

type buildingDoc struct {
	X     int `mapstructure:"x"`
	Y     int `mapstructure:"y"`
	Count int `mapstructure:"count"`
}

type roadDoc struct {
	Path []tileDoc `mapstructure:"path"`
}

type reinforcementDoc struct {
	X     int            `mapstructure:"x"`
	Y     int            `mapstructure:"y"`
	Owner model.PlayerID `mapstructure:"owner"`
}

type sectorDoc struct {
	Tiles []tileDoc `mapstructure:"tiles"`
}

type mapDoc struct {
	Name                 string             `mapstructure:"name"`
	Width                int                `mapstructure:"width"`
	Height               int                `mapstructure:"height"`
	Terrain              []terrainDoc       `mapstructure:"terrain"`
	Buildings            []buildingDoc      `mapstructure:"buildings"`
	BigBuildings         []tileDoc          `mapstructure:"big_buildings"`
	Roads                []roadDoc          `mapstructure:"roads"`
	ReinforcementSectors []reinforcementDoc `mapstructure:"reinforcement_sectors"`
	Sectors              []sectorDoc        `mapstructure:"sectors"`
}

type document struct {
	Maps []mapDoc `mapstructure:"maps"`
}

// Catalog is a set of maps decoded from a JSON document.
type Catalog struct {
	maps map[string]mapDoc
}

//go:embed data/maps.v1.json
var builtinMapsJSON []byte

var builtinCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Decode(bytes.NewReader(builtinMapsJSON))
})

// Builtin returns the maps shipped with the engine.
func Builtin() *Catalog {
	c, err := builtinCatalog()
	if err != nil {
		panic(fmt.Sprintf("scenario: built-in maps are broken: %v", err))
	}
	return c
}

// Decode reads a JSON map document and builds every map in it once to
// validate it.
func Decode(r io.Reader) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading maps: %w", err)
	}
	var doc document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("error decoding maps: %w", err)
	}
	c := &Catalog{maps: make(map[string]mapDoc, len(doc.Maps))}
	for _, m := range doc.Maps {
		if _, ok := c.maps[m.Name]; ok {
			return nil, fmt.Errorf("duplicate map %q", m.Name)
		}
		if _, err := build(m); err != nil {
			return nil, fmt.Errorf("map %q: %w", m.Name, err)
		}
		c.maps[m.Name] = m
	}
	return c, nil
}

// Names lists the maps in the catalog.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.maps))
	for name := range c.maps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load builds a fresh layout. Callers own the result.
func (c *Catalog) Load(name string) (model.Layout, error) {
	m, ok := c.maps[name]
	if !ok {
		return model.Layout{}, fmt.Errorf("%w: %q", ErrUnknownMap, name)
	}
	return build(m)
}

var terrainKinds = map[string]model.Terrain{
	"plain": model.Plain,
	"trees": model.Trees,
	"city":  model.City,
	"water": model.Water,
}

type builder struct {
	terrain *hex.Grid[model.Terrain]
	objects []model.Object
}

func (b *builder) inBoard(pos hex.MapPos) error {
	if !b.terrain.InBoard(pos) {
		return fmt.Errorf("position %s is outside the map", pos)
	}
	return nil
}

func (b *builder) add(class model.ObjectClass, pos model.ExactPos, owner model.PlayerID) {
	b.objects = append(b.objects, model.Object{
		ID:    model.ObjectID(len(b.objects) + 1),
		Class: class,
		Pos:   pos,
		Owner: owner,
	})
}

// freeBuildingSlot picks the first index slot of pos not taken by another
// object. Tiles holding a whole-tile or road object get no more buildings.
func (b *builder) freeBuildingSlot(pos hex.MapPos) (model.SlotID, bool) {
	var used [model.MaxSlots]bool
	for _, o := range b.objects {
		if !o.Pos.Covers(pos) {
			continue
		}
		if o.Pos.Slot.Kind != model.SlotIndex {
			return model.SlotID{}, false
		}
		used[o.Pos.Slot.Index] = true
	}
	slots := model.MaxSlots
	if b.terrain.At(pos) == model.Water {
		slots = 1
	}
	for i := range slots {
		if !used[i] {
			return model.Slot(i), true
		}
	}
	return model.SlotID{}, false
}

func build(m mapDoc) (model.Layout, error) {
	if m.Width <= 0 || m.Height <= 0 {
		return model.Layout{}, fmt.Errorf("bad map size %dx%d", m.Width, m.Height)
	}
	b := &builder{terrain: hex.NewGrid[model.Terrain](hex.Size{W: m.Width, H: m.Height})}
	for _, t := range m.Terrain {
		pos := hex.MapPos{X: t.X, Y: t.Y}
		if err := b.inBoard(pos); err != nil {
			return model.Layout{}, err
		}
		kind, ok := terrainKinds[t.Kind]
		if !ok {
			return model.Layout{}, fmt.Errorf("unknown terrain %q at %s", t.Kind, pos)
		}
		b.terrain.Set(pos, kind)
	}
	for _, bd := range m.Buildings {
		pos := hex.MapPos{X: bd.X, Y: bd.Y}
		if err := b.inBoard(pos); err != nil {
			return model.Layout{}, err
		}
		b.terrain.Set(pos, model.City)
		for range bd.Count {
			slot, ok := b.freeBuildingSlot(pos)
			if !ok {
				return model.Layout{}, fmt.Errorf("no room for a building at %s", pos)
			}
			b.add(model.Building, model.At(pos, slot), model.NoPlayer)
		}
	}
	for _, t := range m.BigBuildings {
		pos := t.pos()
		if err := b.inBoard(pos); err != nil {
			return model.Layout{}, err
		}
		b.terrain.Set(pos, model.City)
		b.add(model.Building, model.At(pos, model.WholeTile()), model.NoPlayer)
	}
	for _, road := range m.Roads {
		for i := 1; i < len(road.Path); i++ {
			from, to := road.Path[i-1].pos(), road.Path[i].pos()
			if err := b.inBoard(from); err != nil {
				return model.Layout{}, err
			}
			if err := b.inBoard(to); err != nil {
				return model.Layout{}, err
			}
			if hex.Distance(from, to) != 1 {
				return model.Layout{}, fmt.Errorf("road jumps from %s to %s", from, to)
			}
			b.add(model.Road, model.At(from, model.TwoTiles(hex.DirFromTo(from, to))), model.NoPlayer)
		}
	}
	for _, rs := range m.ReinforcementSectors {
		pos := hex.MapPos{X: rs.X, Y: rs.Y}
		if err := b.inBoard(pos); err != nil {
			return model.Layout{}, err
		}
		b.add(model.ReinforcementSector, model.At(pos, model.WholeTile()), rs.Owner)
	}
	layout := model.Layout{Terrain: b.terrain, Objects: b.objects}
	for i, sd := range m.Sectors {
		if len(sd.Tiles) == 0 {
			return model.Layout{}, fmt.Errorf("sector %d has no tiles", i)
		}
		sector := model.Sector{ID: model.SectorID(i), Owner: model.NoPlayer}
		for _, t := range sd.Tiles {
			if err := b.inBoard(t.pos()); err != nil {
				return model.Layout{}, err
			}
			sector.Positions = append(sector.Positions, t.pos())
		}
		if !sector.Contains(sector.Center()) {
			return model.Layout{}, fmt.Errorf("sector %d center %s lies outside of it", i, sector.Center())
		}
		layout.Sectors = append(layout.Sectors, sector)
	}
	return layout, nil
}

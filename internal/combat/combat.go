// Package combat resolves attacks: hit chance, casualties, suppression and
// ambushes. Dice rolls come from an injected source so results can be
// replayed.
package combat

import (
	"github.com/hexfront/engine/internal/check"
	"github.com/hexfront/engine/internal/event"
	"github.com/hexfront/engine/internal/fow"
	"github.com/hexfront/engine/internal/model"
	"github.com/hexfront/engine/internal/rules"
	"github.com/hexfront/engine/internal/state"
)

// Rand is the random source. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Config holds the tunable constants.
type Config struct {
	// AmbushChance is the percent chance that a hidden attacker stays hidden.
	AmbushChance int `json:"ambushChance" mapstructure:"ambushChance"`
	// PerKillSuppression is added to suppression for every casualty.
	PerKillSuppression int `json:"perKillSuppression" mapstructure:"perKillSuppression"`
}

func DefaultConfig() Config {
	return Config{
		AmbushChance:       70,
		PerKillSuppression: 20,
	}
}

// Resolver turns checked attacks into AttackUnit events.
type Resolver struct {
	rules *rules.Catalog
	rng   Rand
	cfg   Config
}

func NewResolver(c *rules.Catalog, rng Rand, cfg Config) *Resolver {
	return &Resolver{rules: c, rng: rng, cfg: cfg}
}

func (r *Resolver) Config() Config {
	return r.cfg
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// CoverBonus is the to-hit penalty an infantry defender gets from its
// terrain.
func CoverBonus(c *rules.Catalog, st state.GameState, defender *model.Unit) int {
	if !c.UnitType(defender.Type).IsInfantry {
		return 0
	}
	switch st.Map().At(defender.Pos.MapPos) {
	case model.Trees:
		return 2
	case model.City:
		return 3
	}
	return 0
}

// HitChance is the percent chance that one shot from attacker causes a
// casualty. It is the product of the to-hit, to-pierce and to-wound scores,
// each on a 0..10 scale.
func HitChance(c *rules.Catalog, st state.GameState, attacker, defender *model.Unit) int {
	attackerType := c.UnitType(attacker.Type)
	defenderType := c.UnitType(defender.Type)
	weapon := c.WeaponType(attackerType.Weapon)
	hit := clamp(-7-CoverBonus(c, st, defender)+defenderType.Size+weapon.Accuracy+attackerType.WeaponSkill, 0, 10)
	pierce := clamp(10-defenderType.Armor+weapon.AP, 0, 10)
	wound := clamp(5-defenderType.Toughness+weapon.Damage, 0, 10)
	return clamp(hit*pierce*wound/10, 0, 100)
}

// Killed rolls the casualties of one shot.
func (r *Resolver) Killed(st state.GameState, attacker, defender *model.Unit) int {
	chance := HitChance(r.rules, st, attacker, defender)
	if r.rng.IntN(100) >= chance {
		return 0
	}
	if r.rules.UnitType(defender.Type).IsInfantry {
		return clamp(1+r.rng.IntN(4), 1, defender.Count)
	}
	return 1
}

// Attack validates the attack and rolls it. defenderFog is the fog of the
// defender's owner; an attacker it does not see may stay hidden.
func (r *Resolver) Attack(
	st state.GameState,
	defenderFog *fow.Fow,
	attacker, defender *model.Unit,
	mode model.FireMode,
) (event.AttackUnit, error) {
	if err := check.Attack(r.rules, st, attacker, defender, mode); err != nil {
		return event.AttackUnit{}, err
	}
	attackerType := r.rules.UnitType(attacker.Type)
	defenderType := r.rules.UnitType(defender.Type)
	weapon := r.rules.WeaponType(attackerType.Weapon)
	chance := HitChance(r.rules, st, attacker, defender)
	killed := min(defender.Count, r.Killed(st, attacker, defender))
	isAmbush := !defenderFog.IsVisible(attacker) && 1+r.rng.IntN(99) <= r.cfg.AmbushChance
	return event.AttackUnit{
		AttackerID:  attacker.ID,
		DefenderID:  defender.ID,
		Mode:        mode,
		Killed:      killed,
		Suppression: chance/2 + r.cfg.PerKillSuppression*killed,
		IsAmbush:    isAmbush,
		IsIndirect:  weapon.IsIndirect,
		LeaveWrecks: !defenderType.IsInfantry && !defenderType.IsAir,
		TargetPos:   defender.Pos,
	}, nil
}

// CanReact reports whether reactor may take a reaction shot at target.
// reactorFog is the fog of the reactor's owner.
func CanReact(c *rules.Catalog, st state.GameState, reactorFog *fow.Fow, reactor, target *model.Unit) bool {
	if reactor.Player == target.Player || reactor.IsCarried() {
		return false
	}
	if reactor.ReactionFireMode == model.HoldFire {
		return false
	}
	if !reactorFog.IsVisible(target) {
		return false
	}
	return check.Attack(c, st, reactor, target, model.Reactive) == nil
}

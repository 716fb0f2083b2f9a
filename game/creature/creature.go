package creature

import (
	"math/rand"

	"github.com/pokechain/arena/catalog"
)

// Status is the single active condition on a creature. Conditions are
// mutually exclusive; a statused creature cannot receive a second one.
type Status string

const (
	StatusNone      Status = ""
	StatusPoison    Status = "poison"
	StatusBurn      Status = "burn"
	StatusParalysis Status = "paralysis"
	StatusSleep     Status = "sleep"
	StatusFreeze    Status = "freeze"
)

// Move is one of a creature's four move slots.
type Move struct {
	Name          string `json:"name"`
	Power         int    `json:"power"` // 0 = non-damaging status move
	Accuracy      int    `json:"accuracy"`
	Type          string `json:"type"`
	DamageClass   string `json:"damage_class"` // "physical" | "special" | "status"
	MaxPP         int    `json:"max_pp"`
	PP            int    `json:"pp"`
	Ailment       Status `json:"ailment,omitempty"`
	AilmentChance int    `json:"ailment_chance,omitempty"`
	Effect        string `json:"effect,omitempty"`
	Padding       bool   `json:"padding,omitempty"` // slot holds the default filler, not a learned move
}

// IsPhysical reports whether the move hits the Attack/Defense pair.
func (m *Move) IsPhysical() bool { return m.DamageClass != "special" }

// MoveSlots is the fixed move-list size; creatures never carry fewer
// (the default move pads short catalog learnsets).
const MoveSlots = 4

// DefaultMove pads creatures whose catalog learnset yields fewer than
// four usable moves.
var DefaultMove = Move{
	Name:        "tackle",
	Power:       40,
	Accuracy:    100,
	Type:        "normal",
	DamageClass: "physical",
	MaxPP:       35,
	PP:          35,
	Effect:      "Deals damage",
}

// Creature is one combatant: owned team member, storage resident, or
// battle opponent. IVs never change after creation; EVs may grow.
type Creature struct {
	ID        int64 // DB row id; 0 for transient opponents
	SpeciesID int
	Name      string
	Types     []string
	Base      [6]int
	IVs       [6]int
	EVs       [6]int
	Level     int
	XP        int
	HP        int // current, 0 = fainted
	Status    Status
	Moves     []Move          // always exactly MoveSlots entries
	Learned   map[string]bool // move names ever learned, duplicates are never re-offered
}

// NewFromTemplate builds a creature from a catalog species record.
// iv fills all six IV slots; EVs start at zero. HP starts full.
func NewFromTemplate(sp *catalog.Species, moves []*catalog.MoveTemplate, level, iv int) *Creature {
	c := &Creature{
		SpeciesID: sp.ID,
		Name:      sp.Name,
		Types:     append([]string(nil), sp.Types...),
		Base:      sp.BaseStats,
		Level:     level,
		Learned:   make(map[string]bool),
	}
	for i := range c.IVs {
		c.IVs[i] = iv
	}
	for _, mt := range moves {
		if mt == nil || len(c.Moves) >= MoveSlots {
			continue
		}
		c.Moves = append(c.Moves, MoveFromTemplate(mt))
		c.Learned[mt.Name] = true
	}
	PadMoves(c)
	c.HP = c.MaxHP()
	return c
}

// MoveFromTemplate converts a catalog record into a move slot at full PP.
func MoveFromTemplate(mt *catalog.MoveTemplate) Move {
	return Move{
		Name:          mt.Name,
		Power:         mt.Power,
		Accuracy:      mt.Accuracy,
		Type:          mt.Type,
		DamageClass:   mt.DamageClass,
		MaxPP:         mt.PP,
		PP:            mt.PP,
		Ailment:       Status(mt.Ailment),
		AilmentChance: mt.AilmentChance,
		Effect:        mt.Effect,
	}
}

// PadMoves tops the move list up to exactly MoveSlots entries with the
// default move. Creation-time padding is what keeps the zero-move
// invariant violation out of the battle loop.
func PadMoves(c *Creature) {
	for len(c.Moves) < MoveSlots {
		mv := DefaultMove
		mv.Padding = true
		c.Moves = append(c.Moves, mv)
	}
	c.Moves = c.Moves[:MoveSlots]
}

// RandomIVs fills IVs uniformly in [0,31] from the given source.
func RandomIVs(rng *rand.Rand) [6]int {
	var ivs [6]int
	for i := range ivs {
		ivs[i] = rng.Intn(32)
	}
	return ivs
}

// Stat resolves the level-scaled value of one stat.
func (c *Creature) Stat(s Stat) int {
	if s == StatHP {
		return HPAt(c.Base[s], c.Level, c.IVs[s], c.EVs[s])
	}
	return StatAt(c.Base[s], c.Level, c.IVs[s], c.EVs[s])
}

// MaxHP is the level-scaled HP ceiling; current HP never exceeds it.
func (c *Creature) MaxHP() int { return c.Stat(StatHP) }

// IsFainted reports whether the creature is out of action until revived.
func (c *Creature) IsFainted() bool { return c.HP <= 0 }

// TakeDamage reduces HP, clamping at zero.
func (c *Creature) TakeDamage(n int) {
	c.HP -= n
	if c.HP < 0 {
		c.HP = 0
	}
}

// Heal restores HP up to max.
func (c *Creature) Heal(n int) {
	c.HP += n
	if max := c.MaxHP(); c.HP > max {
		c.HP = max
	}
}

// HealFull restores HP to max. Status is untouched.
func (c *Creature) HealFull() { c.HP = c.MaxHP() }

// Restore resets HP, PP, and status, as done before a battle starts.
func (c *Creature) Restore() {
	c.HealFull()
	c.Status = StatusNone
	for i := range c.Moves {
		c.Moves[i].PP = c.Moves[i].MaxPP
	}
}

// HasUsableMove reports whether any slot still has PP.
func (c *Creature) HasUsableMove() bool {
	for i := range c.Moves {
		if c.Moves[i].PP > 0 {
			return true
		}
	}
	return false
}

// HasType reports whether the creature carries the given elemental type.
func (c *Creature) HasType(t string) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// Evolve replaces species identity and base stats while preserving
// level, XP, IVs, EVs, moves, and learned history. HP is restored to
// the new maximum.
func (c *Creature) Evolve(next *catalog.Species) {
	c.SpeciesID = next.ID
	c.Name = next.Name
	c.Types = append([]string(nil), next.Types...)
	c.Base = next.BaseStats
	c.HealFull()
}

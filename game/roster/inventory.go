package roster

import (
	"errors"

	"github.com/pokechain/arena/game/creature"
	"github.com/pokechain/arena/model"
)

var (
	ErrOutOfStock      = errors.New("roster: item not in inventory")
	ErrUnknownItem     = errors.New("roster: unknown item kind")
	ErrTargetFull      = errors.New("roster: target is already at full HP")
	ErrTargetFainted   = errors.New("roster: fainted creatures need a revival item")
	ErrTargetNotDown   = errors.New("roster: revival only works on a fainted creature")
	ErrNotActiveTarget = errors.New("roster: healing items only target the active creature")
	ErrCaptureUseless  = errors.New("roster: capture devices have no effect on trainer-owned creatures")
)

// Healing amounts per item kind.
const (
	HealSmallHP = 20
	HealLargeHP = 50
)

// ItemPrices is the shop catalog, in coins.
var ItemPrices = map[string]int64{
	model.ItemHealSmall: 30,
	model.ItemHealLarge: 70,
	model.ItemRevival:   150,
	model.ItemCapture:   50,
}

// Inventory is a profile's consumable stacks. It implements the battle
// session's item store.
type Inventory struct {
	items map[string]int
	used  int // lifetime consumption, feeds the daily quest metric
}

func NewInventory() *Inventory {
	return &Inventory{items: map[string]int{}}
}

// NewInventoryFrom seeds stacks from persisted counts.
func NewInventoryFrom(counts map[string]int) *Inventory {
	inv := NewInventory()
	for kind, qty := range counts {
		if qty > 0 {
			inv.items[kind] = qty
		}
	}
	return inv
}

func (inv *Inventory) Count(kind string) int { return inv.items[kind] }

// Items returns a copy of the current stacks.
func (inv *Inventory) Items() map[string]int {
	out := make(map[string]int, len(inv.items))
	for k, v := range inv.items {
		out[k] = v
	}
	return out
}

// Used reports how many consumables have been spent this session.
func (inv *Inventory) Used() int { return inv.used }

// Add credits qty units of kind.
func (inv *Inventory) Add(kind string, qty int) {
	if qty > 0 {
		inv.items[kind] += qty
	}
}

// UseOn consumes one unit of kind against the target. Healing items
// demand the active, living, not-full target; revival demands a fainted
// one. Rejections consume nothing.
func (inv *Inventory) UseOn(kind string, target *creature.Creature, active bool) error {
	if inv.items[kind] <= 0 {
		return ErrOutOfStock
	}
	switch kind {
	case model.ItemHealSmall, model.ItemHealLarge:
		if !active {
			return ErrNotActiveTarget
		}
		if target.IsFainted() {
			return ErrTargetFainted
		}
		if target.HP >= target.MaxHP() {
			return ErrTargetFull
		}
		amount := HealSmallHP
		if kind == model.ItemHealLarge {
			amount = HealLargeHP
		}
		target.Heal(amount)
	case model.ItemRevival:
		if !target.IsFainted() {
			return ErrTargetNotDown
		}
		target.Status = creature.StatusNone
		target.HP = target.MaxHP() / 2
	case model.ItemCapture:
		return ErrCaptureUseless
	default:
		return ErrUnknownItem
	}
	inv.items[kind]--
	inv.used++
	return nil
}

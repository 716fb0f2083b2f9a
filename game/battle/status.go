package battle

import (
	"math/rand"

	"github.com/pokechain/arena/game/creature"
)

// StatusTick is the result of resolving a lingering condition before a
// combatant acts.
type StatusTick struct {
	Status   creature.Status // condition that was active going in
	SkipTurn bool
	Fainted  bool
	Damage   int  // chip damage dealt by the condition
	Cleared  bool // condition wore off this turn
}

// ApplyStatusPreTurn resolves the creature's active condition before it
// acts. Poison and burn chip HP without skipping; paralysis, sleep, and
// freeze may skip the turn; sleep and freeze can clear on their own.
func ApplyStatusPreTurn(c *creature.Creature, rng *rand.Rand) StatusTick {
	tick := StatusTick{Status: c.Status}

	switch c.Status {
	case creature.StatusPoison:
		tick.Damage = chip(c.MaxHP() / 8)
		c.TakeDamage(tick.Damage)
	case creature.StatusBurn:
		tick.Damage = chip(c.MaxHP() / 16)
		c.TakeDamage(tick.Damage)
	case creature.StatusParalysis:
		if rng.Intn(100) < 25 {
			tick.SkipTurn = true
		}
	case creature.StatusSleep:
		if rng.Intn(100) < 50 {
			c.Status = creature.StatusNone
			tick.Cleared = true
		} else {
			tick.SkipTurn = true
		}
	case creature.StatusFreeze:
		if rng.Intn(100) < 20 {
			c.Status = creature.StatusNone
			tick.Cleared = true
		} else {
			tick.SkipTurn = true
		}
	}

	tick.Fainted = c.IsFainted()
	return tick
}

func chip(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

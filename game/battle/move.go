package battle

import (
	"math"
	"math/rand"

	"github.com/pokechain/arena/game/creature"
)

// Critical hits land with probability 1/16 at a 1.5× multiplier.
const (
	critDenominator = 16
	critMultiplier  = 1.5
	stabMultiplier  = 1.5
)

// MoveResult is the outcome of resolving one action.
type MoveResult struct {
	Damage          int
	Critical        bool
	Effectiveness   float64
	Missed          bool
	InflictedStatus creature.Status
}

// ResolveMove computes the full result of attacker using mv against
// defender and applies damage and status to the defender. PP deduction
// happens at move-selection time, before this call; a miss therefore
// still costs PP and the turn. Callers must not invoke this for a
// fainted attacker.
func ResolveMove(attacker, defender *creature.Creature, mv *creature.Move, rng *rand.Rand) MoveResult {
	res := MoveResult{Effectiveness: 1}

	// Non-damaging moves never miss; they go straight to status
	// application below.
	if mv.Power > 0 {
		accuracy := mv.Accuracy
		if accuracy <= 0 {
			accuracy = 100
		}
		if rng.Intn(100) >= accuracy {
			res.Missed = true
			return res
		}
		var atkStat, defStat int
		if mv.IsPhysical() {
			atkStat = attacker.Stat(creature.StatAttack)
			defStat = defender.Stat(creature.StatDefense)
		} else {
			atkStat = attacker.Stat(creature.StatSpAttack)
			defStat = defender.Stat(creature.StatSpDefense)
		}

		// (2L/5+2)*P*A/D/50 with the level term kept fractional:
		// multiplying through by 5 folds everything into one floor.
		base := float64((2*attacker.Level+10)*mv.Power*atkStat/defStat/250 + 2)

		if attacker.HasType(mv.Type) {
			base *= stabMultiplier
		}

		res.Effectiveness = Effectiveness(mv.Type, defender.Types)
		base *= res.Effectiveness

		if rng.Intn(critDenominator) == 0 {
			res.Critical = true
			base *= critMultiplier
		}

		// 85-100% variance.
		base *= 0.85 + rng.Float64()*0.15

		damage := int(math.Floor(base))
		if res.Effectiveness > 0 && damage < 1 {
			damage = 1 // a connecting hit always deals at least 1
		}
		if res.Effectiveness == 0 {
			damage = 0
		}
		res.Damage = damage
		defender.TakeDamage(damage)
	}

	// Secondary status. An immune defender (effectiveness 0) is never
	// statused; an already-statused defender keeps its condition.
	if mv.Ailment != creature.StatusNone &&
		res.Effectiveness > 0 &&
		defender.Status == creature.StatusNone &&
		!defender.IsFainted() {
		if rng.Intn(100) < mv.AilmentChance {
			defender.Status = mv.Ailment
			res.InflictedStatus = mv.Ailment
		}
	}

	return res
}

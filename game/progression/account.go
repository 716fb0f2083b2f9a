package progression

import (
	"errors"

	"github.com/pokechain/arena/model"
)

var ErrInsufficientCoins = errors.New("progression: insufficient coins")

// Coin economy. The win bonus scales with opponents defeated so longer
// gauntlet runs pay out more.
const (
	StartingCoins    = 500
	WinBaseReward    = 50
	PerOpponentBonus = 10
	TrainerXPWin     = 20
	TrainerXPLoss    = 5
)

// TrainerRequiredXP is the trainer XP needed to advance past the given
// trainer level.
func TrainerRequiredXP(level int) int { return 100 * level }

// BattleOutcome summarizes what a finished battle changed on the
// account.
type BattleOutcome struct {
	Result        string `json:"result"`
	CoinsAwarded  int64  `json:"coins_awarded"`
	TrainerXP     int    `json:"trainer_xp"`
	TrainerLevels int    `json:"trainer_levels"`
}

// ApplyBattleOutcome folds one battle result into the account counters.
// Fled battles touch nothing.
func ApplyBattleOutcome(p *model.Progression, result string, defeated int) BattleOutcome {
	out := BattleOutcome{Result: result}
	switch result {
	case model.BattleResultWin:
		p.Wins++
		out.CoinsAwarded = int64(WinBaseReward + PerOpponentBonus*defeated)
		out.TrainerXP = TrainerXPWin
	case model.BattleResultLoss:
		p.Losses++
		out.TrainerXP = TrainerXPLoss
	default:
		return out
	}
	p.Coins += out.CoinsAwarded
	out.TrainerLevels = addTrainerXP(p, out.TrainerXP)
	return out
}

func addTrainerXP(p *model.Progression, amount int) int {
	p.TrainerXP += amount
	levels := 0
	for p.TrainerXP >= TrainerRequiredXP(p.TrainerLevel) {
		p.TrainerXP -= TrainerRequiredXP(p.TrainerLevel)
		p.TrainerLevel++
		levels++
	}
	return levels
}

// SpendCoins deducts from the balance, rejecting overdrafts.
func SpendCoins(p *model.Progression, amount int64) error {
	if amount > p.Coins {
		return ErrInsufficientCoins
	}
	p.Coins -= amount
	return nil
}

// AwardCoins credits the balance.
func AwardCoins(p *model.Progression, amount int64) { p.Coins += amount }

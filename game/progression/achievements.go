package progression

import "github.com/pokechain/arena/model"

// Achievement codes.
const (
	AchFirstWin       = "first_win"
	AchCollector      = "collector_5"
	AchVeteran        = "veteran_10"
	AchFirstPurchase  = "first_purchase"
	AchLegendaryOwner = "legendary_owner"
)

// achievementBonus is the one-time coin grant per unlock.
var achievementBonus = map[string]int64{
	AchFirstWin:       100,
	AchCollector:      250,
	AchVeteran:        500,
	AchFirstPurchase:  150,
	AchLegendaryOwner: 1000,
}

// AchievementNames maps codes to display names.
var AchievementNames = map[string]string{
	AchFirstWin:       "First Victory",
	AchCollector:      "Collector",
	AchVeteran:        "Veteran Trainer",
	AchFirstPurchase:  "Market Debut",
	AchLegendaryOwner: "Legendary Owner",
}

// RosterFacts is the roster-derived input to achievement evaluation.
type RosterFacts struct {
	DistinctSpecies int
	OwnsLegendary   bool
	Purchases       int
}

// Unlock is one newly granted achievement.
type Unlock struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Bonus int64  `json:"bonus"`
}

// EvaluateAchievements checks every condition against the current
// state and returns the unlocks not in the already-held set. It is a
// pure function; the caller persists the unlocks and applies the coin
// bonuses. Repeated evaluation never re-awards a held code.
func EvaluateAchievements(p *model.Progression, facts RosterFacts, held map[string]bool) []Unlock {
	conds := []struct {
		code string
		met  bool
	}{
		{AchFirstWin, p.Wins >= 1},
		{AchCollector, facts.DistinctSpecies >= 5},
		{AchVeteran, p.Wins >= 10},
		{AchFirstPurchase, facts.Purchases >= 1},
		{AchLegendaryOwner, facts.OwnsLegendary},
	}
	var out []Unlock
	for _, c := range conds {
		if !c.met || held[c.code] {
			continue
		}
		out = append(out, Unlock{
			Code:  c.code,
			Name:  AchievementNames[c.code],
			Bonus: achievementBonus[c.code],
		})
	}
	return out
}

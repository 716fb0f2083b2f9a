package progression

import (
	"encoding/json"
	"time"

	"github.com/pokechain/arena/model"
)

// Quest metrics that battle and shop flows report against.
const (
	MetricBattlesWon        = "battles_won"
	MetricOpponentsDefeated = "opponents_defeated"
	MetricItemsUsed         = "items_used"
)

// QuestDef is one daily quest template. The set resets every day.
type QuestDef struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Metric string `json:"metric"`
	Target int    `json:"target"`
	Reward int64  `json:"reward"`
}

// DailyQuests is the fixed daily roster.
var DailyQuests = []QuestDef{
	{Code: "daily_win_3", Name: "Win 3 battles", Metric: MetricBattlesWon, Target: 3, Reward: 50},
	{Code: "daily_defeat_5", Name: "Defeat 5 opponents", Metric: MetricOpponentsDefeated, Target: 5, Reward: 75},
	{Code: "daily_items_2", Name: "Use 2 items", Metric: MetricItemsUsed, Target: 2, Reward: 30},
}

// QuestView is the client-facing status of one daily quest.
type QuestView struct {
	QuestDef
	Progress int  `json:"progress"`
	Done     bool `json:"done"`
}

// QuestComplete is a quest finished by the latest progress report.
type QuestComplete struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Reward int64  `json:"reward"`
}

func questDay(now time.Time) string { return now.UTC().Format("2006-01-02") }

// loadQuestProgress decodes the stored progress map, dropping it when
// the stored day is stale.
func loadQuestProgress(p *model.Progression, now time.Time) map[string]int {
	progress := map[string]int{}
	if p.DailyQuestDay == questDay(now) && len(p.DailyQuests) > 0 {
		_ = json.Unmarshal(p.DailyQuests, &progress)
	}
	return progress
}

func storeQuestProgress(p *model.Progression, progress map[string]int, now time.Time) {
	raw, _ := json.Marshal(progress)
	p.DailyQuests = raw
	p.DailyQuestDay = questDay(now)
}

// RecordQuestProgress adds n to every quest tracking the metric and
// returns the quests that just completed. Completion rewards are
// credited to the balance here; a quest never pays twice.
func RecordQuestProgress(p *model.Progression, metric string, n int, now time.Time) []QuestComplete {
	if n <= 0 {
		return nil
	}
	progress := loadQuestProgress(p, now)
	var done []QuestComplete
	for _, q := range DailyQuests {
		if q.Metric != metric {
			continue
		}
		prev := progress[q.Code]
		if prev >= q.Target {
			continue
		}
		progress[q.Code] = prev + n
		if progress[q.Code] >= q.Target {
			progress[q.Code] = q.Target
			p.Coins += q.Reward
			done = append(done, QuestComplete{Code: q.Code, Name: q.Name, Reward: q.Reward})
		}
	}
	storeQuestProgress(p, progress, now)
	return done
}

// QuestStatus reports today's quest board.
func QuestStatus(p *model.Progression, now time.Time) []QuestView {
	progress := loadQuestProgress(p, now)
	out := make([]QuestView, 0, len(DailyQuests))
	for _, q := range DailyQuests {
		out = append(out, QuestView{
			QuestDef: q,
			Progress: progress[q.Code],
			Done:     progress[q.Code] >= q.Target,
		})
	}
	return out
}

// ResetStaleQuests clears quest progress when the day has rolled over.
// The scheduler calls this on its daily tick; lazy resets in the load
// path cover profiles it misses.
func ResetStaleQuests(p *model.Progression, now time.Time) bool {
	if p.DailyQuestDay == questDay(now) {
		return false
	}
	storeQuestProgress(p, map[string]int{}, now)
	return true
}

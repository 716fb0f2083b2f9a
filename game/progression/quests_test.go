package progression

import (
	"testing"
	"time"

	"github.com/pokechain/arena/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func TestRecordQuestProgress_Completes(t *testing.T) {
	p := &model.Progression{}

	done := RecordQuestProgress(p, MetricBattlesWon, 1, questNow)
	assert.Empty(t, done)

	done = RecordQuestProgress(p, MetricBattlesWon, 2, questNow)
	require.Len(t, done, 1)
	assert.Equal(t, "daily_win_3", done[0].Code)
	assert.Equal(t, int64(50), p.Coins)
}

func TestRecordQuestProgress_NeverPaysTwice(t *testing.T) {
	p := &model.Progression{}

	RecordQuestProgress(p, MetricBattlesWon, 5, questNow)
	assert.Equal(t, int64(50), p.Coins)

	done := RecordQuestProgress(p, MetricBattlesWon, 5, questNow)
	assert.Empty(t, done)
	assert.Equal(t, int64(50), p.Coins)
}

func TestRecordQuestProgress_CapsAtTarget(t *testing.T) {
	p := &model.Progression{}

	RecordQuestProgress(p, MetricOpponentsDefeated, 99, questNow)

	for _, q := range QuestStatus(p, questNow) {
		if q.Code == "daily_defeat_5" {
			assert.Equal(t, 5, q.Progress)
			assert.True(t, q.Done)
		}
	}
}

func TestQuestProgress_DayRollover(t *testing.T) {
	p := &model.Progression{}
	RecordQuestProgress(p, MetricItemsUsed, 1, questNow)

	tomorrow := questNow.Add(24 * time.Hour)
	for _, q := range QuestStatus(p, tomorrow) {
		assert.Zero(t, q.Progress, "yesterday's progress must not carry over")
	}
}

func TestResetStaleQuests(t *testing.T) {
	p := &model.Progression{}
	RecordQuestProgress(p, MetricItemsUsed, 1, questNow)

	assert.False(t, ResetStaleQuests(p, questNow), "same day is not stale")

	tomorrow := questNow.Add(24 * time.Hour)
	assert.True(t, ResetStaleQuests(p, tomorrow))
	assert.Equal(t, "2025-06-11", p.DailyQuestDay)

	for _, q := range QuestStatus(p, tomorrow) {
		assert.Zero(t, q.Progress)
	}
}

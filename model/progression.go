package model

import (
	"time"

	"gorm.io/datatypes"
)

// Progression holds the account-level counters for one profile. Rows are
// mutated only through the progression engine, never ad hoc.
type Progression struct {
	ProfileID      int64          `gorm:"primaryKey" json:"profile_id"`
	Wins           int            `gorm:"default:0" json:"wins"`
	Losses         int            `gorm:"default:0" json:"losses"`
	Coins          int64          `gorm:"default:0" json:"coins"`
	TrainerLevel   int            `gorm:"default:1" json:"trainer_level"`
	TrainerXP      int            `gorm:"default:0" json:"trainer_xp"`
	FreeReviveUsed bool           `gorm:"default:false" json:"free_revive_used"`
	Purchases      int            `gorm:"default:0" json:"purchases"`
	DailyQuests    datatypes.JSON `json:"daily_quests"`                   // map quest code → progress for the current day
	DailyQuestDay  string         `gorm:"size:10" json:"daily_quest_day"` // YYYY-MM-DD the records belong to
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// Achievement marks a one-time unlock for a profile.
type Achievement struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID  int64     `gorm:"uniqueIndex:idx_profile_achievement,priority:1;not null" json:"profile_id"`
	Code       string    `gorm:"uniqueIndex:idx_profile_achievement,priority:2;size:32;not null" json:"code"`
	UnlockedAt time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

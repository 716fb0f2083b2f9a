package model

import (
	"time"

	"gorm.io/datatypes"
)

// Creature is the persisted form of one owned creature. Runtime battle
// state lives in game/creature; this row is what snapshots read/write.
// IVs are fixed at creation, EVs are mutable, both stored as 6-element
// JSON arrays in stat order HP/Atk/Def/SpAtk/SpDef/Spd.
type Creature struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID int64          `gorm:"index:idx_profile_creature;not null" json:"profile_id"`
	SpeciesID int            `gorm:"not null" json:"species_id"`
	Name      string         `gorm:"size:32;not null" json:"name"`
	Level     int            `gorm:"default:1" json:"level"`
	XP        int            `gorm:"default:0" json:"xp"`
	CurrentHP int            `gorm:"not null" json:"current_hp"`
	BaseHP    int            `gorm:"not null" json:"base_hp"`
	BaseAtk   int            `gorm:"not null" json:"base_atk"`
	BaseDef   int            `gorm:"not null" json:"base_def"`
	BaseSpAtk int            `gorm:"not null" json:"base_sp_atk"`
	BaseSpDef int            `gorm:"not null" json:"base_sp_def"`
	BaseSpd   int            `gorm:"not null" json:"base_spd"`
	IVs       datatypes.JSON `json:"ivs"`
	EVs       datatypes.JSON `json:"evs"`
	Types     datatypes.JSON `json:"types"`                       // 1-2 elemental type names
	Status    string         `gorm:"size:16" json:"status"`       // "" = no condition
	Moves     datatypes.JSON `json:"moves"`                       // exactly 4 move states
	Learned   datatypes.JSON `json:"learned"`                     // move names ever learned
	TeamSlot  int            `gorm:"default:-1" json:"team_slot"` // 0-5 = team, -1 = storage
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

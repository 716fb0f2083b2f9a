package model

import "time"

// Battle results as persisted in history rows.
const (
	BattleResultWin  = "win"
	BattleResultLoss = "loss"
	BattleResultFled = "fled"
)

// BattleRecord is one entry of a profile's battle history.
type BattleRecord struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID         int64     `gorm:"index:idx_profile_battle;not null" json:"profile_id"`
	Result            string    `gorm:"size:8;not null" json:"result"`
	OpponentsDefeated int       `gorm:"default:0" json:"opponents_defeated"`
	Rounds            int       `gorm:"default:0" json:"rounds"`
	ReceiptID         string    `gorm:"size:36" json:"receipt_id"` // ledger receipt, "" if submission failed
	CreatedAt         time.Time `gorm:"index:idx_battle_created;autoCreateTime" json:"created_at"`
}

package model

import "time"

// Consumable item kinds. Capture devices are sold but have no effect
// against opposing-trainer creatures.
const (
	ItemHealSmall = "healing-small"
	ItemHealLarge = "healing-large"
	ItemRevival   = "revival"
	ItemCapture   = "capture"
)

// InventoryItem is one consumable stack for a profile.
type InventoryItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID int64     `gorm:"uniqueIndex:idx_profile_item,priority:1;not null" json:"profile_id"`
	Kind      string    `gorm:"uniqueIndex:idx_profile_item,priority:2;size:16;not null" json:"kind"`
	Qty       int       `gorm:"default:0" json:"qty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

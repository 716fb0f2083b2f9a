package model

import "time"

// Profile binds an opaque external identity (wallet-style address) to a
// trainer. A profile with no row here is new and must complete the
// naming step before owning anything.
type Profile struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Identity    string     `gorm:"uniqueIndex;size:64;not null" json:"identity"`
	TrainerName string     `gorm:"uniqueIndex;size:32;not null" json:"trainer_name"`
	PinHash     string     `gorm:"size:64" json:"-"` // optional bcrypt-protected PIN
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastSeenAt  *time.Time `json:"last_seen_at"`
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

// LedgerReceipt records one best-effort ledger submission. Local
// progression is the source of truth; these rows only track what was
// reported and whether the collaborator accepted it.
type LedgerReceipt struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ReceiptID string         `gorm:"uniqueIndex;size:36;not null" json:"receipt_id"`
	ProfileID int64          `gorm:"index:idx_profile_receipt" json:"profile_id"`
	Action    string         `gorm:"size:32;not null" json:"action"`
	Payload   datatypes.JSON `json:"payload"`
	Accepted  bool           `gorm:"default:false" json:"accepted"`
	Error     string         `gorm:"type:text" json:"error"`
	CreatedAt time.Time      `gorm:"index:idx_receipt_created;autoCreateTime:milli" json:"created_at"`
}

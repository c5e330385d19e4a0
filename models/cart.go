package models

import "time"

// CartItem is one pending purchase line. A row only exists while its
// quantity is positive; absence means zero.
type CartItem struct {
	Username string    `gorm:"primaryKey" json:"username"`
	ItemID   uint      `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	Quantity int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

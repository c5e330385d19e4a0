package models

// InventoryItem is one sellable product. Prices are stored in cents and
// stock can never go below zero.
type InventoryItem struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	PriceCents int64  `gorm:"not null" json:"price_cents"`
	Stock      int    `gorm:"not null;check:stock >= 0" json:"stock"`
	CategoryID uint   `gorm:"index" json:"category_id"`
}

func (InventoryItem) TableName() string { return "inventory" }

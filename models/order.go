package models

import "time"

// Order ids are scoped per username: dense, increasing from 0. Payment and
// shipping fields are snapshots taken at checkout time.
type Order struct {
	Username        string    `gorm:"primaryKey" json:"username"`
	OrderID         uint      `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	OrderDate       time.Time `json:"order_date"`
	PaymentInfo     string    `json:"payment_info"`
	ShippingAddress string    `json:"shipping_address"`

	Items []OrderItem `gorm:"foreignKey:Username,OrderID;references:Username,OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem freezes quantity and unit price as they were at checkout. Later
// inventory or price edits never touch these rows.
type OrderItem struct {
	Username   string `gorm:"primaryKey" json:"username"`
	OrderID    uint   `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	LineNum    int    `gorm:"primaryKey;autoIncrement:false" json:"line_num"`
	ItemID     uint   `gorm:"not null" json:"item_id"`
	Quantity   int    `gorm:"not null" json:"quantity"`
	PriceCents int64  `gorm:"not null" json:"price_cents"`
}

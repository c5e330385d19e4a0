package models

import "time"

// User is keyed by username. Cart rows and orders hang off the account and
// are removed with it.
type User struct {
	Username        string `gorm:"primaryKey" json:"username"`
	PasswordHash    string `gorm:"not null" json:"-"`
	PaymentInfo     string `json:"payment_info"`
	ShippingAddress string `json:"shipping_address"`

	CartItems []CartItem `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE" json:"cart_items,omitempty"`
	Orders    []Order    `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE" json:"orders,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

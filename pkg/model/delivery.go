package model

import "time"

// Delivery is one drop-off of a tiffin to a customer, optionally with a
// proof-of-delivery photo reference.
type Delivery struct {
	ID           string     `gorm:"column:id;primaryKey"`
	OwnerID      string     `gorm:"column:owner_id;not null;index"`
	CustomerID   string     `gorm:"column:customer_id;index"`
	OrderID      string     `gorm:"column:order_id;index"`
	DeliveryDate *time.Time `gorm:"column:delivery_date"`
	Delivered    bool       `gorm:"column:delivered;default:false"`
	PhotoURL     string     `gorm:"column:photo_url"`
	Notes        string     `gorm:"column:notes"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Delivery) TableName() string {
	return "deliveries"
}

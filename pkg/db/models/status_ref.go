package models

import "github.com/angelmondragon/laundry-backend/pkg/enums"

// StatusRef is the seeded lookup row for an order status.
type StatusRef struct {
	ID   enums.OrderStatus `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name string            `gorm:"column:nama_status;not null"`
}

func (StatusRef) TableName() string { return "status_ref" }

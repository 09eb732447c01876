package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem holds the service selection of an order.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"column:permintaan_id;type:uuid;not null"`
	Product   string    `gorm:"column:produk_layanan"`
	Service   string    `gorm:"column:jenis_layanan"`
	Fragrance string    `gorm:"column:parfum"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is keyed by phone number and remembers the last intake details.
type Customer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PhoneNumber  string    `gorm:"column:nomor_hp;not null;uniqueIndex"`
	LastName     string    `gorm:"column:nama_terakhir"`
	LastAddress  string    `gorm:"column:alamat_terakhir"`
	LastMapsLink *string   `gorm:"column:google_maps_terakhir"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string { return "customers" }

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

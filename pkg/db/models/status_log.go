package models

import (
	"time"

	"github.com/angelmondragon/laundry-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusLog is an append-only record of a status change.
type StatusLog struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:permintaan_id;type:uuid;not null"`
	StatusID  enums.OrderStatus `gorm:"column:status_id_baru;not null"`
	ChangedBy *uuid.UUID        `gorm:"column:changed_by;type:uuid"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`

	Actor  *User      `gorm:"foreignKey:ChangedBy"`
	Status *StatusRef `gorm:"foreignKey:StatusID"`
}

func (StatusLog) TableName() string { return "status_logs" }

func (l *StatusLog) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

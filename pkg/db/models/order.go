package models

import (
	"time"

	"github.com/angelmondragon/laundry-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is one pickup or delivery task (table permintaan).
type Order struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	StatusID      enums.OrderStatus `gorm:"column:status_id;not null"`
	TicketNumber  string            `gorm:"column:nomor_tiket;not null"`
	Kind          enums.TaskKind    `gorm:"column:jenis_tugas;not null"`
	Address       string            `gorm:"column:alamat_jalan;not null"`
	MapsLink      *string           `gorm:"column:google_maps_link"`
	OrderedAt     time.Time         `gorm:"column:waktu_order;not null"`
	PickupAt      *time.Time        `gorm:"column:waktu_penjemputan"`
	AssignedAt    *time.Time        `gorm:"column:waktu_assigned"`
	CourierDoneAt *time.Time        `gorm:"column:waktu_kurir_selesai"`
	CompletedAt   *time.Time        `gorm:"column:waktu_selesai"`
	Notes         *string           `gorm:"column:catatan_khusus"`
	ReceiptNumber *string           `gorm:"column:nomor_nota"`
	CourierID     *uuid.UUID        `gorm:"column:courier_id;type:uuid"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	Courier  *User       `gorm:"foreignKey:CourierID"`
	Status   *StatusRef  `gorm:"foreignKey:StatusID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "permintaan" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// HasReceipt reports whether a non-blank receipt number is stored.
func (o *Order) HasReceipt() bool {
	return o.ReceiptNumber != nil && *o.ReceiptNumber != ""
}

// AssignedTo reports whether the order is held by the given courier.
func (o *Order) AssignedTo(courierID uuid.UUID) bool {
	return o.CourierID != nil && *o.CourierID == courierID
}

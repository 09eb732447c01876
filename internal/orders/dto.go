package orders

import (
	"time"

	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	"github.com/google/uuid"
)

// OrderDTO is the order row with its joined display fields.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	TicketNumber  string            `json:"nomor_tiket"`
	Kind          enums.TaskKind    `json:"jenis_tugas"`
	Address       string            `json:"alamat_jalan"`
	MapsLink      *string           `json:"google_maps_link"`
	OrderedAt     time.Time         `json:"waktu_order"`
	PickupAt      *time.Time        `json:"waktu_penjemputan"`
	AssignedAt    *time.Time        `json:"waktu_assigned"`
	CourierDoneAt *time.Time        `json:"waktu_kurir_selesai"`
	CompletedAt   *time.Time        `json:"waktu_selesai"`
	StatusID      enums.OrderStatus `json:"status_id"`
	Notes         *string           `json:"catatan_khusus"`
	ReceiptNumber *string           `json:"nomor_nota"`
	CourierID     *uuid.UUID        `json:"courier_id"`
	CustomerID    uuid.UUID         `json:"customer_id"`

	Customer *CustomerRef `json:"customers"`
	Courier  *CourierRef  `json:"auth_users"`
	Status   *StatusDTO   `json:"status_ref"`
	Items    []ItemDTO    `json:"order_items"`
}

type CustomerRef struct {
	ID           uuid.UUID `json:"id"`
	NomorHP      string    `json:"nomor_hp"`
	NamaTerakhir string    `json:"nama_terakhir"`
}

type CourierRef struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

type StatusDTO struct {
	ID   enums.OrderStatus `json:"id"`
	Name string            `json:"nama_status"`
}

type ItemDTO struct {
	ID        uuid.UUID `json:"id"`
	Product   string    `json:"produk_layanan"`
	Service   string    `json:"jenis_layanan"`
	Fragrance string    `json:"parfum"`
}

// StatusLogDTO is one audit entry with the actor and status label.
type StatusLogDTO struct {
	ID        uuid.UUID         `json:"id"`
	StatusID  enums.OrderStatus `json:"status_id_baru"`
	CreatedAt time.Time         `json:"created_at"`
	ChangedBy *uuid.UUID        `json:"changed_by"`
	Actor     *LogActor         `json:"auth_users"`
	Status    *LogStatus        `json:"status_ref"`
}

type LogActor struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type LogStatus struct {
	Name string `json:"nama_status"`
}

// CreateOrderInput is one intake submission; each entry of Kinds becomes an order.
type CreateOrderInput struct {
	Name          string
	Phone         string
	Address       string
	MapsLink      string
	Kinds         []string
	PickupAt      *time.Time
	Product       string
	ProductManual string
	Service       string
	Fragrance     string
	Notes         string
}

type CreatedOrder struct {
	ID           uuid.UUID      `json:"id"`
	TicketNumber string         `json:"nomor_tiket"`
	Kind         enums.TaskKind `json:"jenis_tugas"`
}

type CreateOrderResult struct {
	Message string         `json:"message"`
	Orders  []CreatedOrder `json:"orders"`
}

// UpdateOrderInput is the admin edit form. Blank strings leave a field as is;
// a zero StatusID means no status was requested.
type UpdateOrderInput struct {
	OrderID       uuid.UUID
	CustomerID    uuid.UUID
	Name          string
	Phone         string
	Address       string
	MapsLink      string
	Product       string
	Service       string
	Fragrance     string
	StatusID      enums.OrderStatus
	CourierID     *uuid.UUID
	ReceiptNumber string
	PickupAt      *time.Time
	ActorID       uuid.UUID
	ActorRole     enums.UserRole
}

// TransitionInput asks for a status change. When Action is empty it is
// resolved from RequestedStatus and the order's current status.
type TransitionInput struct {
	OrderID         uuid.UUID
	Action          Action
	RequestedStatus enums.OrderStatus
	CourierID       *uuid.UUID
	ReceiptNumber   string
	ActorID         uuid.UUID
	ActorRole       enums.UserRole
}

type CourierStats struct {
	TodayTasks     int64 `json:"todayTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	TotalTasks     int64 `json:"totalTasks"`
}

type CourierTasks struct {
	Tasks []OrderDTO   `json:"tasks"`
	Stats CourierStats `json:"stats"`
}

// ReportDay counts a courier's finished tasks on one local calendar day.
type ReportDay struct {
	Date   string `json:"date"`
	Jemput int    `json:"jemput"`
	Antar  int    `json:"antar"`
	Total  int    `json:"total"`
}

type AssignmentGroup struct {
	CourierID    string     `json:"courierId"`
	CourierName  string     `json:"courierName"`
	CourierEmail *string    `json:"courierEmail"`
	Orders       []OrderDTO `json:"orders"`
	OrderCount   int        `json:"orderCount"`
}

type AssignmentQueue struct {
	Groups      []AssignmentGroup `json:"groups"`
	TotalOrders int               `json:"totalOrders"`
}

// FromModel maps an order and whichever relations were preloaded.
func FromModel(o models.Order) OrderDTO {
	dto := OrderDTO{
		ID:            o.ID,
		TicketNumber:  o.TicketNumber,
		Kind:          o.Kind,
		Address:       o.Address,
		MapsLink:      o.MapsLink,
		OrderedAt:     o.OrderedAt,
		PickupAt:      o.PickupAt,
		AssignedAt:    o.AssignedAt,
		CourierDoneAt: o.CourierDoneAt,
		CompletedAt:   o.CompletedAt,
		StatusID:      o.StatusID,
		Notes:         o.Notes,
		ReceiptNumber: o.ReceiptNumber,
		CourierID:     o.CourierID,
		CustomerID:    o.CustomerID,
		Items:         make([]ItemDTO, 0, len(o.Items)),
	}
	if o.Customer != nil {
		dto.Customer = &CustomerRef{
			ID:           o.Customer.ID,
			NomorHP:      o.Customer.PhoneNumber,
			NamaTerakhir: o.Customer.LastName,
		}
	}
	if o.Courier != nil {
		dto.Courier = &CourierRef{ID: o.Courier.ID, FullName: o.Courier.FullName, Email: o.Courier.Email}
	}
	if o.Status != nil {
		dto.Status = &StatusDTO{ID: o.Status.ID, Name: o.Status.Name}
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ID:        item.ID,
			Product:   item.Product,
			Service:   item.Service,
			Fragrance: item.Fragrance,
		})
	}
	return dto
}

func fromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}

func logFromModel(l models.StatusLog) StatusLogDTO {
	dto := StatusLogDTO{
		ID:        l.ID,
		StatusID:  l.StatusID,
		CreatedAt: l.CreatedAt,
		ChangedBy: l.ChangedBy,
	}
	if l.Actor != nil {
		dto.Actor = &LogActor{FullName: l.Actor.FullName, Email: l.Actor.Email}
	}
	if l.Status != nil {
		dto.Status = &LogStatus{Name: l.Status.Name}
	}
	return dto
}

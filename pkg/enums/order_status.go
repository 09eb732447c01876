package enums

import "fmt"

// OrderStatus mirrors the status_ref lookup table.
type OrderStatus int

const (
	OrderStatusNew        OrderStatus = 1
	OrderStatusAssigned   OrderStatus = 2
	OrderStatusPickedUp   OrderStatus = 3
	OrderStatusProcessing OrderStatus = 4
	OrderStatusDelivered  OrderStatus = 5
	OrderStatusCompleted  OrderStatus = 6
	OrderStatusCancelled  OrderStatus = 7
)

var validOrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusAssigned,
	OrderStatusPickedUp,
	OrderStatusProcessing,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var orderStatusNames = map[OrderStatus]string{
	OrderStatusNew:        "Baru",
	OrderStatusAssigned:   "Ditugaskan",
	OrderStatusPickedUp:   "Sudah Jemput",
	OrderStatusProcessing: "Diproses",
	OrderStatusDelivered:  "Sudah Antar",
	OrderStatusCompleted:  "Selesai",
	OrderStatusCancelled:  "Batal",
}

// OrderStatuses returns every status in id order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}

// Int returns the numeric status id.
func (s OrderStatus) Int() int {
	return int(s)
}

// Name returns the display label stored in status_ref.nama_status.
func (s OrderStatus) Name() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status-%d", int(s))
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusNames[s]
	return ok
}

// IsCourierDone reports whether the courier finished the task and it awaits confirmation.
func (s OrderStatus) IsCourierDone() bool {
	return s == OrderStatusPickedUp || s == OrderStatusDelivered
}

// IsTerminal reports whether no further transition can leave the status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// ParseOrderStatus converts a raw status id into an OrderStatus.
func ParseOrderStatus(value int) (OrderStatus, error) {
	status := OrderStatus(value)
	if !status.IsValid() {
		return 0, fmt.Errorf("invalid order status %d", value)
	}
	return status, nil
}

package enums

import (
	"fmt"
	"strings"
)

// TaskKind is the jenis_tugas of an order: a pickup or a delivery.
type TaskKind string

const (
	TaskKindPickup   TaskKind = "JEMPUT"
	TaskKindDelivery TaskKind = "ANTAR"
)

var validTaskKinds = []TaskKind{
	TaskKindPickup,
	TaskKindDelivery,
}

// String implements fmt.Stringer.
func (k TaskKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known TaskKind.
func (k TaskKind) IsValid() bool {
	for _, candidate := range validTaskKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// TicketPrefix is the leading letter of nomor_tiket.
func (k TaskKind) TicketPrefix() string {
	if k == TaskKindDelivery {
		return "A"
	}
	return "J"
}

// CourierDoneStatus is the status a courier moves the task to when finished.
func (k TaskKind) CourierDoneStatus() OrderStatus {
	if k == TaskKindDelivery {
		return OrderStatusDelivered
	}
	return OrderStatusPickedUp
}

// ParseTaskKind accepts the kind in any letter case.
func ParseTaskKind(value string) (TaskKind, error) {
	normalized := TaskKind(strings.ToUpper(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid task kind %q", value)
}

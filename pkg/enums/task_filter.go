package enums

import (
	"fmt"
	"strings"
)

// CourierTaskFilter narrows the courier's own task list.
type CourierTaskFilter string

const (
	CourierTaskFilterPending   CourierTaskFilter = "pending"
	CourierTaskFilterCompleted CourierTaskFilter = "completed"
	CourierTaskFilterAll       CourierTaskFilter = "all"
)

// Statuses returns the statuses matched by the filter; nil means no restriction.
func (f CourierTaskFilter) Statuses() []OrderStatus {
	switch f {
	case CourierTaskFilterPending:
		return []OrderStatus{OrderStatusAssigned}
	case CourierTaskFilterCompleted:
		return []OrderStatus{OrderStatusPickedUp, OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled}
	}
	return nil
}

// ParseCourierTaskFilter defaults to all tasks.
func ParseCourierTaskFilter(value string) (CourierTaskFilter, error) {
	switch CourierTaskFilter(strings.ToLower(strings.TrimSpace(value))) {
	case "", CourierTaskFilterAll:
		return CourierTaskFilterAll, nil
	case CourierTaskFilterPending:
		return CourierTaskFilterPending, nil
	case CourierTaskFilterCompleted:
		return CourierTaskFilterCompleted, nil
	}
	return "", fmt.Errorf("invalid task filter %q", value)
}

// AdminTaskView selects one tab of the admin task board.
type AdminTaskView string

const (
	AdminTaskViewAll                  AdminTaskView = ""
	AdminTaskViewAssigned             AdminTaskView = "assigned"
	AdminTaskViewAwaitingConfirmation AdminTaskView = "awaiting_confirmation"
	AdminTaskViewCompleted            AdminTaskView = "completed"
)

// Statuses returns the statuses shown in the view; nil means every status.
func (v AdminTaskView) Statuses() []OrderStatus {
	switch v {
	case AdminTaskViewAssigned:
		return []OrderStatus{OrderStatusAssigned}
	case AdminTaskViewAwaitingConfirmation:
		return []OrderStatus{OrderStatusPickedUp, OrderStatusDelivered}
	case AdminTaskViewCompleted:
		return []OrderStatus{OrderStatusCompleted}
	}
	return nil
}

// ParseAdminTaskView accepts an empty value as the unfiltered board.
func ParseAdminTaskView(value string) (AdminTaskView, error) {
	switch v := AdminTaskView(strings.ToLower(strings.TrimSpace(value))); v {
	case AdminTaskViewAll, AdminTaskViewAssigned, AdminTaskViewAwaitingConfirmation, AdminTaskViewCompleted:
		return v, nil
	}
	return "", fmt.Errorf("invalid task view %q", value)
}

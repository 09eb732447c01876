package orders

import (
	"strings"
	"time"

	"github.com/angelmondragon/laundry-backend/internal/users"
	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/google/uuid"
)

// Action names one edge family of the order state machine.
type Action string

const (
	ActionAssign      Action = "assign"
	ActionReassign    Action = "reassign"
	ActionCourierDone Action = "courier_done"
	ActionConfirm     Action = "confirm"
	ActionRevert      Action = "revert"
	ActionCancel      Action = "cancel"
)

type rule struct {
	from   []enums.OrderStatus
	roles  []enums.UserRole
	target func(order *models.Order) enums.OrderStatus
	apply  func(order *models.Order, req transitionRequest, now time.Time) (map[string]any, error)
}

var (
	adminRoles          = []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleSuperAdmin}
	courierAndAdminRole = []enums.UserRole{enums.UserRoleCourier, enums.UserRoleAdmin, enums.UserRoleSuperAdmin}
)

func fixed(status enums.OrderStatus) func(*models.Order) enums.OrderStatus {
	return func(*models.Order) enums.OrderStatus { return status }
}

// transitionTable is the only place where transition legality lives.
var transitionTable = map[Action]rule{
	ActionAssign: {
		from:   []enums.OrderStatus{enums.OrderStatusNew},
		roles:  adminRoles,
		target: fixed(enums.OrderStatusAssigned),
		apply:  applyAssign,
	},
	ActionReassign: {
		from:   []enums.OrderStatus{enums.OrderStatusAssigned},
		roles:  adminRoles,
		target: fixed(enums.OrderStatusAssigned),
		apply:  applyReassign,
	},
	ActionCourierDone: {
		from:  []enums.OrderStatus{enums.OrderStatusAssigned},
		roles: courierAndAdminRole,
		target: func(order *models.Order) enums.OrderStatus {
			return order.Kind.CourierDoneStatus()
		},
		apply: func(_ *models.Order, _ transitionRequest, now time.Time) (map[string]any, error) {
			return map[string]any{"waktu_kurir_selesai": now}, nil
		},
	},
	ActionConfirm: {
		from:   []enums.OrderStatus{enums.OrderStatusPickedUp, enums.OrderStatusDelivered},
		roles:  adminRoles,
		target: fixed(enums.OrderStatusCompleted),
		apply:  applyConfirm,
	},
	ActionRevert: {
		from:   []enums.OrderStatus{enums.OrderStatusPickedUp, enums.OrderStatusDelivered},
		roles:  adminRoles,
		target: fixed(enums.OrderStatusAssigned),
		apply:  applyRevert,
	},
	ActionCancel: {
		from: []enums.OrderStatus{
			enums.OrderStatusNew,
			enums.OrderStatusAssigned,
			enums.OrderStatusPickedUp,
			enums.OrderStatusProcessing,
			enums.OrderStatusDelivered,
		},
		roles:  adminRoles,
		target: fixed(enums.OrderStatusCancelled),
		apply: func(*models.Order, transitionRequest, time.Time) (map[string]any, error) {
			return map[string]any{}, nil
		},
	},
}

// transitionRequest is a transition with the acting user and, when a courier
// id was supplied, the loaded courier account.
type transitionRequest struct {
	Action    Action
	Requested enums.OrderStatus
	Courier   *models.User
	Receipt   string
	ActorID   uuid.UUID
	ActorRole enums.UserRole
}

type transitionPlan struct {
	Action  Action
	From    enums.OrderStatus
	Next    enums.OrderStatus
	Updates map[string]any
}

// StatusChanged reports whether the plan writes a new status and so needs a log entry.
func (p transitionPlan) StatusChanged() bool {
	return p.From != p.Next
}

// ResolveAction maps a requested status id onto an action given the
// order's current status.
func ResolveAction(current, requested enums.OrderStatus, hasCourier bool) (Action, error) {
	switch requested {
	case enums.OrderStatusAssigned:
		switch {
		case current == enums.OrderStatusNew:
			return ActionAssign, nil
		case current.IsCourierDone():
			return ActionRevert, nil
		case current == enums.OrderStatusAssigned:
			if hasCourier {
				return ActionReassign, nil
			}
			return "", pkgerrors.New(pkgerrors.CodeStateConflict, "order is already assigned")
		default:
			return ActionAssign, nil
		}
	case enums.OrderStatusPickedUp, enums.OrderStatusDelivered:
		return ActionCourierDone, nil
	case enums.OrderStatusCompleted:
		return ActionConfirm, nil
	case enums.OrderStatusCancelled:
		return ActionCancel, nil
	}
	return "", pkgerrors.Newf(pkgerrors.CodeValidation, "status_id %d cannot be requested", requested.Int())
}

// planTransition checks req against the table and returns the column
// updates to apply. It does not touch storage.
func planTransition(order *models.Order, req transitionRequest, now time.Time) (transitionPlan, error) {
	r, ok := transitionTable[req.Action]
	if !ok {
		return transitionPlan{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown action %q", req.Action)
	}
	if !containsRole(r.roles, req.ActorRole) {
		return transitionPlan{}, pkgerrors.New(pkgerrors.CodeForbidden, "role may not perform this action")
	}
	if req.ActorRole == enums.UserRoleCourier && !order.AssignedTo(req.ActorID) {
		return transitionPlan{}, pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to you")
	}

	next := r.target(order)
	if req.Requested != 0 && req.Requested != next {
		return transitionPlan{}, pkgerrors.Newf(pkgerrors.CodeValidation,
			"status %d does not match a %s task", req.Requested.Int(), order.Kind)
	}
	if next == order.StatusID && req.Action != ActionReassign {
		return transitionPlan{}, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"order is already %s", order.StatusID.Name())
	}
	if !containsStatus(r.from, order.StatusID) {
		return transitionPlan{}, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"cannot %s an order in status %s", req.Action, order.StatusID.Name())
	}

	updates, err := r.apply(order, req, now)
	if err != nil {
		return transitionPlan{}, err
	}
	updates["status_id"] = next
	updates["updated_at"] = now

	return transitionPlan{Action: req.Action, From: order.StatusID, Next: next, Updates: updates}, nil
}

func applyAssign(order *models.Order, req transitionRequest, now time.Time) (map[string]any, error) {
	if err := requireCourier(req.Courier); err != nil {
		return nil, err
	}
	updates := map[string]any{
		"courier_id":     req.Courier.ID,
		"waktu_assigned": now,
	}
	if receipt := strings.TrimSpace(req.Receipt); receipt != "" && order.Kind == enums.TaskKindDelivery {
		updates["nomor_nota"] = receipt
	}
	return updates, nil
}

func applyReassign(order *models.Order, req transitionRequest, now time.Time) (map[string]any, error) {
	if err := requireCourier(req.Courier); err != nil {
		return nil, err
	}
	if order.AssignedTo(req.Courier.ID) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already assigned to this courier")
	}
	return map[string]any{
		"courier_id":     req.Courier.ID,
		"waktu_assigned": now,
	}, nil
}

func applyConfirm(order *models.Order, req transitionRequest, now time.Time) (map[string]any, error) {
	receipt := strings.TrimSpace(req.Receipt)
	if order.Kind == enums.TaskKindPickup && receipt == "" && !order.HasReceipt() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nomor_nota is required to confirm a pickup")
	}
	updates := map[string]any{"waktu_selesai": now}
	if receipt != "" {
		updates["nomor_nota"] = receipt
	}
	return updates, nil
}

// applyRevert sends the task back to the queue; a supplied courier takes it over.
func applyRevert(order *models.Order, req transitionRequest, now time.Time) (map[string]any, error) {
	updates := map[string]any{"waktu_kurir_selesai": nil}
	if req.Courier != nil {
		if err := requireCourier(req.Courier); err != nil {
			return nil, err
		}
		if !order.AssignedTo(req.Courier.ID) {
			updates["courier_id"] = req.Courier.ID
			updates["waktu_assigned"] = now
		}
	}
	return updates, nil
}

func requireCourier(courier *models.User) error {
	if courier == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "courier_id is required")
	}
	if !users.IsActiveCourier(courier) {
		return pkgerrors.New(pkgerrors.CodeValidation, "courier must be an active kurir")
	}
	return nil
}

func containsRole(roles []enums.UserRole, role enums.UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func containsStatus(statuses []enums.OrderStatus, status enums.OrderStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer for log fields and metric labels.
func (a Action) String() string {
	if a == "" {
		return "unknown"
	}
	return string(a)
}

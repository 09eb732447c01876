package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/laundry-backend/internal/customers"
	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
	"github.com/angelmondragon/laundry-backend/pkg/metrics"
	"github.com/angelmondragon/laundry-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	createdMessage   = "Pesanan berhasil dibuat"
	otherProductName = "lainnya"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the order workflow: intake, admin edits, status
// transitions and the dashboard read paths.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	Update(ctx context.Context, input UpdateOrderInput) (*OrderDTO, error)
	Transition(ctx context.Context, input TransitionInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	CourierOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
	AssignmentQueue(ctx context.Context, unassignedOnly bool) (*AssignmentQueue, error)
	AdminTasks(ctx context.Context, query AdminTaskQuery) ([]OrderDTO, error)
	CourierTasks(ctx context.Context, courierID uuid.UUID, filter enums.CourierTaskFilter) (*CourierTasks, error)
	CourierReport(ctx context.Context, courierID uuid.UUID, window types.DateRange) ([]ReportDay, error)
	Logs(ctx context.Context, orderID uuid.UUID) ([]StatusLogDTO, error)
	Statuses(ctx context.Context) ([]StatusDTO, error)
}

type ServiceParams struct {
	Repo      Repository
	Tx        txRunner
	Customers CustomerWriter
	Couriers  CourierLookup
	Metrics   *metrics.OrderMetrics
	Logger    *logger.Logger
	Location  *time.Location
	Clock     func() time.Time
	// TicketDigits returns an integer in [0, n) for ticket numbers.
	TicketDigits func(n int) int
}

type service struct {
	repo      Repository
	tx        txRunner
	customers CustomerWriter
	couriers  CourierLookup
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
	loc       *time.Location
	now       func() time.Time
	digits    digitSource
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer writer required")
	}
	if params.Couriers == nil {
		return nil, fmt.Errorf("courier lookup required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		customers: params.Customers,
		couriers:  params.Couriers,
		metrics:   params.Metrics,
		logg:      params.Logger,
		loc:       loc,
		now:       now,
		digits:    params.TicketDigits,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	kinds, err := validateIntake(input)
	if err != nil {
		return nil, err
	}

	product := strings.TrimSpace(input.Product)
	if strings.EqualFold(product, otherProductName) && strings.TrimSpace(input.ProductManual) != "" {
		product = strings.TrimSpace(input.ProductManual)
	}
	notes := BuildNotes(product, input.Service, input.Fragrance, input.Notes)
	mapsLink := optionalString(input.MapsLink)
	now := s.now().UTC()

	created := make([]CreatedOrder, 0, len(kinds))
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		customer, err := s.customers.Upsert(ctx, tx, customers.IntakeDetails{
			Phone:    input.Phone,
			Name:     input.Name,
			Address:  input.Address,
			MapsLink: mapsLink,
		})
		if err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		items := make([]models.OrderItem, 0, len(kinds))
		for _, kind := range kinds {
			order := &models.Order{
				CustomerID:   customer.ID,
				StatusID:     enums.OrderStatusNew,
				TicketNumber: BuildTicketNumber(kind, input.Name, s.digits),
				Kind:         kind,
				Address:      strings.TrimSpace(input.Address),
				MapsLink:     mapsLink,
				OrderedAt:    now,
				PickupAt:     input.PickupAt,
				Notes:        &notes,
			}
			if err := repo.CreateOrder(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
			}
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				Product:   product,
				Service:   strings.TrimSpace(input.Service),
				Fragrance: strings.TrimSpace(input.Fragrance),
			})
			created = append(created, CreatedOrder{ID: order.ID, TicketNumber: order.TicketNumber, Kind: kind})
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, order := range created {
		s.metrics.IncCreated(order.Kind.String())
	}
	return &CreateOrderResult{Message: createdMessage, Orders: created}, nil
}

func validateIntake(input CreateOrderInput) ([]enums.TaskKind, error) {
	if strings.TrimSpace(input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nomorHP is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "alamat is required")
	}
	if len(input.Kinds) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "permintaan must list at least one task")
	}

	seen := make(map[enums.TaskKind]struct{}, len(input.Kinds))
	kinds := make([]enums.TaskKind, 0, len(input.Kinds))
	for _, raw := range input.Kinds {
		kind, err := enums.ParseTaskKind(raw)
		if err != nil {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "permintaan %q must be jemput or antar", raw)
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func (s *service) Update(ctx context.Context, input UpdateOrderInput) (*OrderDTO, error) {
	if input.OrderID == uuid.Nil || input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId and customerId are required")
	}
	if !input.ActorRole.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may edit orders")
	}
	courier, err := s.loadCourier(ctx, input.CourierID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	var (
		plan      transitionPlan
		attempted Action
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := findOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if order.CustomerID != input.CustomerID {
			return pkgerrors.New(pkgerrors.CodeValidation, "customerId does not match the order")
		}
		if err := s.customers.Rename(ctx, tx, input.CustomerID, input.Name, input.Phone); err != nil {
			return err
		}

		if fields := editFields(input); len(fields) > 0 {
			fields["updated_at"] = now
			if _, err := repo.UpdateOrder(ctx, order.ID, fields); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
			}
		}
		if err := repo.UpdateItems(ctx, order.ID, itemFields(input)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order item")
		}

		req, ok, err := editTransition(order, input, courier)
		if err != nil || !ok {
			return err
		}
		attempted = req.Action
		plan, err = s.applyTransition(ctx, repo, order, req, now)
		return err
	})
	if attempted != "" {
		s.recordTransition(attempted, err)
	}
	if err != nil {
		return nil, err
	}
	if attempted != "" && plan.StatusChanged() {
		s.writeStatusLog(ctx, input.OrderID, plan.Next, input.ActorID)
	}
	return s.Get(ctx, input.OrderID)
}

func editFields(input UpdateOrderInput) map[string]any {
	fields := map[string]any{}
	if v := strings.TrimSpace(input.Address); v != "" {
		fields["alamat_jalan"] = v
	}
	if v := strings.TrimSpace(input.MapsLink); v != "" {
		fields["google_maps_link"] = v
	}
	if v := strings.TrimSpace(input.ReceiptNumber); v != "" {
		fields["nomor_nota"] = v
	}
	if input.PickupAt != nil {
		fields["waktu_penjemputan"] = input.PickupAt.UTC()
	}
	return fields
}

func carriesCourier(action Action) bool {
	return action == ActionAssign || action == ActionReassign || action == ActionRevert
}

func itemFields(input UpdateOrderInput) map[string]any {
	fields := map[string]any{}
	if v := strings.TrimSpace(input.Product); v != "" {
		fields["produk_layanan"] = v
	}
	if v := strings.TrimSpace(input.Service); v != "" {
		fields["jenis_layanan"] = v
	}
	if v := strings.TrimSpace(input.Fragrance); v != "" {
		fields["parfum"] = v
	}
	return fields
}

// editTransition derives the status change an admin edit asks for, if any.
// Echoing the current status is not a request; changing only the courier is
// an assignment while the order is new or assigned.
func editTransition(order *models.Order, input UpdateOrderInput, courier *models.User) (transitionRequest, bool, error) {
	requested := input.StatusID
	courierChanged := input.CourierID != nil && !order.AssignedTo(*input.CourierID)
	if requested == 0 || requested == order.StatusID {
		if !courierChanged {
			return transitionRequest{}, false, nil
		}
		if order.StatusID != enums.OrderStatusNew && order.StatusID != enums.OrderStatusAssigned {
			return transitionRequest{}, false, pkgerrors.New(pkgerrors.CodeStateConflict,
				"courier can only change while the order is new or assigned")
		}
		requested = enums.OrderStatusAssigned
	}

	action, err := ResolveAction(order.StatusID, requested, input.CourierID != nil)
	if err != nil {
		return transitionRequest{}, false, err
	}
	if courierChanged && !carriesCourier(action) {
		return transitionRequest{}, false, pkgerrors.New(pkgerrors.CodeValidation,
			"courierId can only change together with an assignment or revert")
	}
	return transitionRequest{
		Action:    action,
		Requested: requested,
		Courier:   courier,
		Receipt:   input.ReceiptNumber,
		ActorID:   input.ActorID,
		ActorRole: input.ActorRole,
	}, true, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*OrderDTO, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	courier, err := s.loadCourier(ctx, input.CourierID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	action := input.Action
	var plan transitionPlan
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := findOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if action == "" {
			action, err = ResolveAction(order.StatusID, input.RequestedStatus, input.CourierID != nil)
			if err != nil {
				return err
			}
		}
		plan, err = s.applyTransition(ctx, repo, order, transitionRequest{
			Action:    action,
			Requested: input.RequestedStatus,
			Courier:   courier,
			Receipt:   input.ReceiptNumber,
			ActorID:   input.ActorID,
			ActorRole: input.ActorRole,
		}, now)
		return err
	})
	s.recordTransition(action, err)
	if err != nil {
		return nil, err
	}
	if plan.StatusChanged() {
		s.writeStatusLog(ctx, input.OrderID, plan.Next, input.ActorID)
	}
	return s.Get(ctx, input.OrderID)
}

func (s *service) applyTransition(ctx context.Context, repo Repository, order *models.Order, req transitionRequest, now time.Time) (transitionPlan, error) {
	plan, err := planTransition(order, req, now)
	if err != nil {
		return transitionPlan{}, err
	}
	affected, err := repo.UpdateStatusCAS(ctx, order.ID, order.StatusID, plan.Updates)
	if err != nil {
		return transitionPlan{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if affected == 0 {
		return transitionPlan{}, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently, reload and retry")
	}
	return plan, nil
}

func (s *service) loadCourier(ctx context.Context, id *uuid.UUID) (*models.User, error) {
	if id == nil {
		return nil, nil
	}
	courier, err := s.couriers.FindByID(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load courier")
	}
	return courier, nil
}

func (s *service) recordTransition(action Action, err error) {
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
		switch {
		case pkgerrors.IsCode(err, pkgerrors.CodeValidation),
			pkgerrors.IsCode(err, pkgerrors.CodeForbidden),
			pkgerrors.IsCode(err, pkgerrors.CodeNotFound),
			pkgerrors.IsCode(err, pkgerrors.CodeConflict),
			pkgerrors.IsCode(err, pkgerrors.CodeStateConflict):
			result = metrics.ResultRejected
		}
	}
	s.metrics.IncTransition(action.String(), result)
}

// writeStatusLog appends the audit entry after the status change committed.
// A failure is logged and counted, never returned.
func (s *service) writeStatusLog(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actorID uuid.UUID) {
	entry := &models.StatusLog{OrderID: orderID, StatusID: status, CreatedAt: s.now().UTC()}
	if actorID != uuid.Nil {
		actor := actorID
		entry.ChangedBy = &actor
	}
	if err := s.repo.CreateStatusLog(context.WithoutCancel(ctx), entry); err != nil {
		logCtx := s.logg.WithOrderID(ctx, orderID.String())
		logCtx = s.logg.WithField(logCtx, "status_id", status.Int())
		s.logg.Error(logCtx, "orders.status_log_failed", err)
		s.metrics.IncStatusLogFailure()
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, mapFindError(err)
	}
	dto := FromModel(*order)
	return &dto, nil
}

func (s *service) CourierOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	order, err := findOrder(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return order.CourierID, nil
}

func (s *service) AssignmentQueue(ctx context.Context, unassignedOnly bool) (*AssignmentQueue, error) {
	rows, err := s.repo.ListQueue(ctx, unassignedOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	queue := groupByCourier(rows)
	return &queue, nil
}

func (s *service) AdminTasks(ctx context.Context, query AdminTaskQuery) ([]OrderDTO, error) {
	if !query.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be JEMPUT or ANTAR")
	}
	rows, err := s.repo.ListAdminTasks(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tasks")
	}
	return fromModels(rows), nil
}

func (s *service) CourierTasks(ctx context.Context, courierID uuid.UUID, filter enums.CourierTaskFilter) (*CourierTasks, error) {
	if courierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "courier identity missing")
	}
	rows, err := s.repo.ListCourierTasks(ctx, courierID, filter.Statuses())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list courier tasks")
	}
	stats, err := s.repo.CourierTaskStats(ctx, courierID, types.StartOfDay(s.now(), s.loc))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count courier tasks")
	}
	return &CourierTasks{Tasks: fromModels(rows), Stats: stats}, nil
}

func (s *service) CourierReport(ctx context.Context, courierID uuid.UUID, window types.DateRange) ([]ReportDay, error) {
	if courierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "courier identity missing")
	}
	rows, err := s.repo.ListCourierCompletions(ctx, courierID, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list courier report")
	}
	return groupByDay(rows, s.loc), nil
}

// groupByDay counts finished tasks per local date of waktu_kurir_selesai,
// newest date first.
func groupByDay(rows []models.Order, loc *time.Location) []ReportDay {
	byDate := map[string]*ReportDay{}
	for _, row := range rows {
		if row.CourierDoneAt == nil {
			continue
		}
		date := row.CourierDoneAt.In(loc).Format(types.DateLayout)
		day, ok := byDate[date]
		if !ok {
			day = &ReportDay{Date: date}
			byDate[date] = day
		}
		switch row.Kind {
		case enums.TaskKindPickup:
			day.Jemput++
		case enums.TaskKindDelivery:
			day.Antar++
		}
		day.Total++
	}

	out := make([]ReportDay, 0, len(byDate))
	for _, day := range byDate {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

func (s *service) Logs(ctx context.Context, orderID uuid.UUID) ([]StatusLogDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	}
	rows, err := s.repo.ListStatusLogs(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list status logs")
	}
	out := make([]StatusLogDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, logFromModel(row))
	}
	return out, nil
}

func (s *service) Statuses(ctx context.Context) ([]StatusDTO, error) {
	rows, err := s.repo.ListStatuses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list statuses")
	}
	out := make([]StatusDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, StatusDTO{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

func findOrder(ctx context.Context, repo Repository, id uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapFindError(err)
	}
	return order, nil
}

func mapFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

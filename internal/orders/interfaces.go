package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/laundry-backend/internal/customers"
	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	"github.com/angelmondragon/laundry-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence for orders, their items and status logs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	UpdateStatusCAS(ctx context.Context, id uuid.UUID, expected enums.OrderStatus, updates map[string]any) (int64, error)
	UpdateItems(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	CreateStatusLog(ctx context.Context, entry *models.StatusLog) error
	ListStatusLogs(ctx context.Context, orderID uuid.UUID) ([]models.StatusLog, error)
	ListStatuses(ctx context.Context) ([]models.StatusRef, error)
	ListAdminTasks(ctx context.Context, query AdminTaskQuery) ([]models.Order, error)
	ListCourierTasks(ctx context.Context, courierID uuid.UUID, statuses []enums.OrderStatus) ([]models.Order, error)
	CourierTaskStats(ctx context.Context, courierID uuid.UUID, since time.Time) (CourierStats, error)
	ListCourierCompletions(ctx context.Context, courierID uuid.UUID, window types.DateRange) ([]models.Order, error)
	ListQueue(ctx context.Context, unassignedOnly bool) ([]models.Order, error)
	ListStuck(ctx context.Context, query StuckQuery) ([]models.Order, error)
	ListOrderedWithin(ctx context.Context, window types.DateRange) ([]models.Order, error)
}

// CustomerWriter is the customer side of intake and admin edits, run on the
// caller's transaction.
type CustomerWriter interface {
	Upsert(ctx context.Context, tx *gorm.DB, details customers.IntakeDetails) (*models.Customer, error)
	Rename(ctx context.Context, tx *gorm.DB, id uuid.UUID, name, phone string) error
}

// CourierLookup loads the account named by a courier id.
type CourierLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AdminTaskQuery selects assigned orders of one kind for the admin board.
type AdminTaskQuery struct {
	Kind     enums.TaskKind
	Statuses []enums.OrderStatus
	Window   types.DateRange
}

// StuckClock names the timestamp a stuck order is measured from.
type StuckClock string

const (
	StuckSinceOrdered     StuckClock = "waktu_order"
	StuckSinceAssigned    StuckClock = "waktu_assigned"
	StuckSinceCourierDone StuckClock = "waktu_kurir_selesai"
)

// StuckQuery finds orders still in Statuses whose Clock is before Before.
type StuckQuery struct {
	Statuses []enums.OrderStatus
	Clock    StuckClock
	Before   time.Time
}

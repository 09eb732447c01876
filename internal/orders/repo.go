package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	"github.com/angelmondragon/laundry-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository returns a Repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Customer", "Courier", "Status", "Items").Create(order).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.withRelations(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	return res.RowsAffected, res.Error
}

// UpdateStatusCAS applies updates only while the row still holds the
// expected status. Zero affected rows means another writer moved it first.
func (r *repository) UpdateStatusCAS(ctx context.Context, id uuid.UUID, expected enums.OrderStatus, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status_id = ?", id, expected).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) UpdateItems(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("permintaan_id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) CreateStatusLog(ctx context.Context, entry *models.StatusLog) error {
	return r.db.WithContext(ctx).Omit("Actor", "Status").Create(entry).Error
}

func (r *repository) ListStatusLogs(ctx context.Context, orderID uuid.UUID) ([]models.StatusLog, error) {
	var logs []models.StatusLog
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Preload("Status").
		Where("permintaan_id = ?", orderID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

func (r *repository) ListStatuses(ctx context.Context) ([]models.StatusRef, error) {
	var rows []models.StatusRef
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) ListAdminTasks(ctx context.Context, query AdminTaskQuery) ([]models.Order, error) {
	q := r.withRelations(ctx).
		Where("jenis_tugas = ?", query.Kind).
		Where("courier_id IS NOT NULL")
	if len(query.Statuses) > 0 {
		q = q.Where("status_id IN ?", query.Statuses)
	}
	q = applyWindow(q, "waktu_order", query.Window)

	var orders []models.Order
	err := q.Order("waktu_order DESC").Find(&orders).Error
	return orders, err
}

func (r *repository) ListCourierTasks(ctx context.Context, courierID uuid.UUID, statuses []enums.OrderStatus) ([]models.Order, error) {
	q := r.withRelations(ctx).Where("courier_id = ?", courierID)
	if len(statuses) > 0 {
		q = q.Where("status_id IN ?", statuses)
	}
	var orders []models.Order
	err := q.Order("waktu_order DESC").Find(&orders).Error
	return orders, err
}

// CourierTaskStats counts over all of the courier's orders, independent of
// the list filter.
func (r *repository) CourierTaskStats(ctx context.Context, courierID uuid.UUID, since time.Time) (CourierStats, error) {
	var row struct {
		Total     int64
		Today     int64
		Pending   int64
		Completed int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN waktu_order >= ? THEN 1 ELSE 0 END), 0) AS today,
			COALESCE(SUM(CASE WHEN status_id < ? THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status_id >= ? THEN 1 ELSE 0 END), 0) AS completed`,
			since.UTC(), enums.OrderStatusCompleted, enums.OrderStatusCompleted).
		Where("courier_id = ?", courierID).
		Scan(&row).Error
	if err != nil {
		return CourierStats{}, err
	}
	return CourierStats{
		TodayTasks:     row.Today,
		PendingTasks:   row.Pending,
		CompletedTasks: row.Completed,
		TotalTasks:     row.Total,
	}, nil
}

// ListCourierCompletions returns the courier's finished tasks (status 3 to 6)
// whose courier-done time falls in window.
func (r *repository) ListCourierCompletions(ctx context.Context, courierID uuid.UUID, window types.DateRange) ([]models.Order, error) {
	q := r.db.WithContext(ctx).
		Where("courier_id = ?", courierID).
		Where("status_id BETWEEN ? AND ?", enums.OrderStatusPickedUp, enums.OrderStatusCompleted).
		Where("waktu_kurir_selesai IS NOT NULL")
	q = applyWindow(q, "waktu_kurir_selesai", window)

	var orders []models.Order
	err := q.Order("waktu_kurir_selesai DESC").Find(&orders).Error
	return orders, err
}

func (r *repository) ListQueue(ctx context.Context, unassignedOnly bool) ([]models.Order, error) {
	q := r.withRelations(ctx)
	if unassignedOnly {
		q = q.Where("courier_id IS NULL OR status_id = ?", enums.OrderStatusNew)
	}
	var orders []models.Order
	err := q.Order("waktu_order DESC").Find(&orders).Error
	return orders, err
}

func (r *repository) ListStuck(ctx context.Context, query StuckQuery) ([]models.Order, error) {
	switch query.Clock {
	case StuckSinceOrdered, StuckSinceAssigned, StuckSinceCourierDone:
	default:
		return nil, fmt.Errorf("unsupported stuck clock %q", query.Clock)
	}
	column := string(query.Clock)

	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("status_id IN ?", query.Statuses).
		Where(column+" IS NOT NULL AND "+column+" < ?", query.Before.UTC()).
		Order(column + " ASC").
		Find(&orders).Error
	return orders, err
}

// ListOrderedWithin feeds the reports: every order placed in window with
// its relations, newest first.
func (r *repository) ListOrderedWithin(ctx context.Context, window types.DateRange) ([]models.Order, error) {
	var orders []models.Order
	err := applyWindow(r.withRelations(ctx), "waktu_order", window).
		Order("waktu_order DESC").
		Find(&orders).Error
	return orders, err
}

func (r *repository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Courier").
		Preload("Status").
		Preload("Items")
}

func applyWindow(q *gorm.DB, column string, window types.DateRange) *gorm.DB {
	if window.From != nil {
		q = q.Where(column+" >= ?", window.From.UTC())
	}
	if window.To != nil {
		q = q.Where(column+" < ?", window.To.UTC())
	}
	return q
}

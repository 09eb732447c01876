package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/laundry-backend/internal/orders"
	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
	"github.com/angelmondragon/laundry-backend/pkg/metrics"
	"go.uber.org/multierr"
)

const StaleOrdersJobName = "stale-orders"

type stuckOrderReader interface {
	ListStuck(ctx context.Context, query orders.StuckQuery) ([]models.Order, error)
}

// StaleOrdersJobParams sets one threshold per bucket; a zero threshold
// disables that bucket.
type StaleOrdersJobParams struct {
	Logger        *logger.Logger
	Orders        stuckOrderReader
	Metrics       *metrics.OrderMetrics
	NewAfter      time.Duration
	AssignedAfter time.Duration
	ConfirmAfter  time.Duration
	Clock         func() time.Time
}

type staleBucket struct {
	name     string
	statuses []enums.OrderStatus
	clock    orders.StuckClock
	after    time.Duration
}

type staleOrdersJob struct {
	logg    *logger.Logger
	orders  stuckOrderReader
	metrics *metrics.OrderMetrics
	buckets []staleBucket
	now     func() time.Time
}

func NewStaleOrdersJob(params StaleOrdersJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders reader required")
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &staleOrdersJob{
		logg:    params.Logger,
		orders:  params.Orders,
		metrics: params.Metrics,
		now:     now,
		buckets: []staleBucket{
			{
				name:     "new",
				statuses: []enums.OrderStatus{enums.OrderStatusNew},
				clock:    orders.StuckSinceOrdered,
				after:    params.NewAfter,
			},
			{
				name:     "assigned",
				statuses: []enums.OrderStatus{enums.OrderStatusAssigned},
				clock:    orders.StuckSinceAssigned,
				after:    params.AssignedAfter,
			},
			{
				name:     "awaiting_confirmation",
				statuses: []enums.OrderStatus{enums.OrderStatusPickedUp, enums.OrderStatusDelivered},
				clock:    orders.StuckSinceCourierDone,
				after:    params.ConfirmAfter,
			},
		},
	}, nil
}

func (j *staleOrdersJob) Name() string { return StaleOrdersJobName }

func (j *staleOrdersJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var errs error
	for _, bucket := range j.buckets {
		if bucket.after <= 0 {
			continue
		}
		stuck, err := j.orders.ListStuck(ctx, orders.StuckQuery{
			Statuses: bucket.statuses,
			Clock:    bucket.clock,
			Before:   now.Add(-bucket.after),
		})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("bucket %s: %w", bucket.name, err))
			continue
		}
		j.metrics.SetStale(bucket.name, len(stuck))
		for i := range stuck {
			j.warn(ctx, bucket, &stuck[i], now)
		}
	}
	return errs
}

func (j *staleOrdersJob) warn(ctx context.Context, bucket staleBucket, order *models.Order, now time.Time) {
	since := stuckSince(order, bucket.clock)
	fields := map[string]any{
		"bucket":      bucket.name,
		"nomor_tiket": order.TicketNumber,
		"jenis_tugas": string(order.Kind),
		"status":      order.StatusID.Name(),
	}
	if since != nil {
		fields["since"] = since.UTC().Format(time.RFC3339)
		fields["age_minutes"] = int(now.Sub(*since).Minutes())
	}
	logCtx := j.logg.WithOrderID(ctx, order.ID.String())
	j.logg.Warn(j.logg.WithFields(logCtx, fields), "orders.stale")
}

func stuckSince(order *models.Order, clock orders.StuckClock) *time.Time {
	switch clock {
	case orders.StuckSinceOrdered:
		return &order.OrderedAt
	case orders.StuckSinceAssigned:
		return order.AssignedAt
	case orders.StuckSinceCourierDone:
		return order.CourierDoneAt
	}
	return nil
}

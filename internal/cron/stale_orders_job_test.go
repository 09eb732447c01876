package cron

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/laundry-backend/internal/orders"
	"github.com/angelmondragon/laundry-backend/pkg/db/dbtest"
	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
	"github.com/angelmondragon/laundry-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubStuckReader struct {
	listFn func(context.Context, orders.StuckQuery) ([]models.Order, error)
}

func (s stubStuckReader) ListStuck(ctx context.Context, q orders.StuckQuery) ([]models.Order, error) {
	return s.listFn(ctx, q)
}

func staleGauge(t *testing.T, reg *prometheus.Registry, bucket string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "laundry_orders_stale" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "bucket" && label.GetValue() == bucket {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("stale gauge for %s not found", bucket)
	return 0
}

func seedOrder(t *testing.T, gdb *gorm.DB, customer *models.Customer, ticket string, status enums.OrderStatus, orderedAt time.Time, assignedAt, doneAt *time.Time) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.Order{
		CustomerID:    customer.ID,
		StatusID:      status,
		TicketNumber:  ticket,
		Kind:          enums.TaskKindPickup,
		Address:       "Jl. Melati 3",
		OrderedAt:     orderedAt,
		AssignedAt:    assignedAt,
		CourierDoneAt: doneAt,
	}).Error)
}

func TestStaleOrdersJobFlagsEachBucket(t *testing.T) {
	gdb := dbtest.OpenDB(t)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	customer := &models.Customer{PhoneNumber: "0812", LastName: "Sari"}
	require.NoError(t, gdb.Create(customer).Error)

	old := now.Add(-5 * time.Hour)
	recent := now.Add(-30 * time.Minute)
	dayAgo := now.Add(-30 * time.Hour)
	seedOrder(t, gdb, customer, "J SAR 1001", enums.OrderStatusNew, old, nil, nil)
	seedOrder(t, gdb, customer, "J SAR 1002", enums.OrderStatusNew, recent, nil, nil)
	seedOrder(t, gdb, customer, "J SAR 1003", enums.OrderStatusAssigned, dayAgo, &recent, nil)
	seedOrder(t, gdb, customer, "J SAR 1004", enums.OrderStatusPickedUp, dayAgo, &dayAgo, &dayAgo)
	seedOrder(t, gdb, customer, "A SAR 1005", enums.OrderStatusDelivered, dayAgo, &dayAgo, &dayAgo)
	seedOrder(t, gdb, customer, "A SAR 1006", enums.OrderStatusCompleted, dayAgo, &dayAgo, &dayAgo)

	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	job, err := NewStaleOrdersJob(StaleOrdersJobParams{
		Logger:        logger.New(logger.Options{Output: &logs}),
		Orders:        orders.NewRepository(gdb),
		Metrics:       metrics.NewOrderMetrics(reg),
		NewAfter:      2 * time.Hour,
		AssignedAfter: 12 * time.Hour,
		ConfirmAfter:  24 * time.Hour,
		Clock:         func() time.Time { return now },
	})
	require.NoError(t, err)
	require.Equal(t, StaleOrdersJobName, job.Name())

	require.NoError(t, job.Run(context.Background()))
	require.Equal(t, 1.0, staleGauge(t, reg, "new"))
	require.Equal(t, 0.0, staleGauge(t, reg, "assigned"))
	require.Equal(t, 2.0, staleGauge(t, reg, "awaiting_confirmation"))

	out := logs.String()
	require.Equal(t, 3, strings.Count(out, `"message":"orders.stale"`))
	require.Contains(t, out, "J SAR 1001")
	require.Contains(t, out, "A SAR 1005")
	require.NotContains(t, out, "J SAR 1002")
}

func TestStaleOrdersJobCombinesBucketErrors(t *testing.T) {
	var seen []orders.StuckClock
	job, err := NewStaleOrdersJob(StaleOrdersJobParams{
		Logger: logger.New(logger.Options{Output: &bytes.Buffer{}}),
		Orders: stubStuckReader{listFn: func(_ context.Context, q orders.StuckQuery) ([]models.Order, error) {
			seen = append(seen, q.Clock)
			if q.Clock == orders.StuckSinceOrdered {
				return nil, errors.New("db down")
			}
			return nil, nil
		}},
		NewAfter:     time.Hour,
		ConfirmAfter: time.Hour,
	})
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "bucket new: db down")
	require.Equal(t, []orders.StuckClock{orders.StuckSinceOrdered, orders.StuckSinceCourierDone}, seen)
}

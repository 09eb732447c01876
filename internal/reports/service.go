package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/laundry-backend/internal/orders"
	"github.com/angelmondragon/laundry-backend/pkg/db/models"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/angelmondragon/laundry-backend/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	unassignedName = "Belum Ditugaskan"
	missing        = "-"
)

type orderSource interface {
	ListOrderedWithin(ctx context.Context, window types.DateRange) ([]models.Order, error)
}

// Service folds the orders placed in a date window into one report shape.
type Service interface {
	Build(ctx context.Context, kind enums.ReportType, window types.DateRange) (any, error)
	Recap(ctx context.Context, window types.DateRange) ([]RecapRow, error)
	SLA(ctx context.Context, window types.DateRange) (*SLAReport, error)
	Tickets(ctx context.Context, window types.DateRange) ([]orders.OrderDTO, error)
}

// RecapRow counts one courier's processed tasks.
type RecapRow struct {
	Name   string `json:"name"`
	Antar  int    `json:"antar"`
	Jemput int    `json:"jemput"`
	Total  int    `json:"total"`
}

// SLARow times one order: assignment to courier-done, then courier-done to
// confirmation. Raw diffs are whole minutes, null when a timestamp is missing.
type SLARow struct {
	TicketNumber     string `json:"nomor_tiket"`
	TicketDate       string `json:"tanggal_tiket"`
	ReceiptNumber    string `json:"nomor_nota"`
	AssignedDate     string `json:"tanggal_assign"`
	CourierDoneDate  string `json:"tanggal_diselesaikan_kurir"`
	AssignToDone     string `json:"selisih_assign_selesai"`
	ReceiptInputDate string `json:"tanggal_input_nota"`
	DoneToInput      string `json:"selisih_selesai_input"`
	RawAssignToDone  *int64 `json:"raw_diff_1"`
	RawDoneToInput   *int64 `json:"raw_diff_2"`
}

type SLASummary struct {
	Orders          int          `json:"orders"`
	AvgAssignToDone *json.Number `json:"avg_selisih_assign_selesai"`
	AvgDoneToInput  *json.Number `json:"avg_selisih_selesai_input"`
}

type SLAReport struct {
	Rows    []SLARow   `json:"rows"`
	Summary SLASummary `json:"summary"`
}

type service struct {
	source orderSource
}

func NewService(source orderSource) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("order source required")
	}
	return &service{source: source}, nil
}

func (s *service) Build(ctx context.Context, kind enums.ReportType, window types.DateRange) (any, error) {
	switch kind {
	case enums.ReportTypeRecap:
		return s.Recap(ctx, window)
	case enums.ReportTypeSLA:
		return s.SLA(ctx, window)
	case enums.ReportTypeTickets, "":
		return s.Tickets(ctx, window)
	}
	return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown report type %q", kind)
}

func (s *service) load(ctx context.Context, window types.DateRange) ([]models.Order, error) {
	rows, err := s.source.ListOrderedWithin(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load report orders")
	}
	return rows, nil
}

func (s *service) Recap(ctx context.Context, window types.DateRange) ([]RecapRow, error) {
	rows, err := s.load(ctx, window)
	if err != nil {
		return nil, err
	}
	return recap(rows), nil
}

func (s *service) SLA(ctx context.Context, window types.DateRange) (*SLAReport, error) {
	rows, err := s.load(ctx, window)
	if err != nil {
		return nil, err
	}
	report := sla(rows)
	return &report, nil
}

func (s *service) Tickets(ctx context.Context, window types.DateRange) ([]orders.OrderDTO, error) {
	rows, err := s.load(ctx, window)
	if err != nil {
		return nil, err
	}
	out := make([]orders.OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, orders.FromModel(row))
	}
	return out, nil
}

// recap groups by courier display name in first-seen order. Only orders the
// courier has finished (status 3 and up, cancelled excluded) are counted.
func recap(rows []models.Order) []RecapRow {
	index := map[string]int{}
	out := []RecapRow{}
	for _, row := range rows {
		name := unassignedName
		if row.Courier != nil && row.Courier.DisplayName() != "" {
			name = row.Courier.DisplayName()
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, RecapRow{Name: name})
		}
		if row.StatusID < enums.OrderStatusPickedUp || row.StatusID == enums.OrderStatusCancelled {
			continue
		}
		switch row.Kind {
		case enums.TaskKindDelivery:
			out[i].Antar++
		case enums.TaskKindPickup:
			out[i].Jemput++
		}
		out[i].Total++
	}
	return out
}

func sla(rows []models.Order) SLAReport {
	report := SLAReport{Rows: make([]SLARow, 0, len(rows))}
	var first, second []decimal.Decimal
	for _, row := range rows {
		assignToDone := minutesBetween(row.AssignedAt, row.CourierDoneAt)
		doneToInput := minutesBetween(row.CourierDoneAt, row.CompletedAt)
		if assignToDone != nil {
			first = append(first, decimal.NewFromInt(*assignToDone))
		}
		if doneToInput != nil {
			second = append(second, decimal.NewFromInt(*doneToInput))
		}

		receipt := missing
		if row.HasReceipt() {
			receipt = *row.ReceiptNumber
		}
		report.Rows = append(report.Rows, SLARow{
			TicketNumber:     row.TicketNumber,
			TicketDate:       row.OrderedAt.Format(time.RFC3339),
			ReceiptNumber:    receipt,
			AssignedDate:     formatTime(row.AssignedAt),
			CourierDoneDate:  formatTime(row.CourierDoneAt),
			AssignToDone:     FormatMinutes(assignToDone),
			ReceiptInputDate: formatTime(row.CompletedAt),
			DoneToInput:      FormatMinutes(doneToInput),
			RawAssignToDone:  assignToDone,
			RawDoneToInput:   doneToInput,
		})
	}
	report.Summary = SLASummary{
		Orders:          len(rows),
		AvgAssignToDone: average(first),
		AvgDoneToInput:  average(second),
	}
	return report
}

// minutesBetween returns the rounded whole minutes from start to end.
func minutesBetween(start, end *time.Time) *int64 {
	if start == nil || end == nil {
		return nil
	}
	minutes := end.Sub(*start).Round(time.Minute) / time.Minute
	v := int64(minutes)
	return &v
}

// FormatMinutes renders minutes as "Xh Ym", or "-" when absent.
func FormatMinutes(minutes *int64) string {
	if minutes == nil {
		return missing
	}
	m := *minutes
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%dh %dm", sign, m/60, m%60)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return missing
	}
	return t.Format(time.RFC3339)
}

func average(values []decimal.Decimal) *json.Number {
	if len(values) == 0 {
		return nil
	}
	avg := decimal.Avg(values[0], values[1:]...)
	n := json.Number(avg.StringFixed(2))
	return &n
}

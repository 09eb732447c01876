package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/laundry-backend/internal/address"
	"github.com/angelmondragon/laundry-backend/internal/customers"
	"github.com/angelmondragon/laundry-backend/internal/orders"
	"github.com/angelmondragon/laundry-backend/internal/promo"
	"github.com/angelmondragon/laundry-backend/internal/reports"
	"github.com/angelmondragon/laundry-backend/pkg/config"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	"github.com/angelmondragon/laundry-backend/pkg/pagination"
	"github.com/angelmondragon/laundry-backend/pkg/types"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	rec := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": ok, "redis": ok}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-Laundry-Env") != "dev" {
		t.Fatalf("missing env header")
	}

	rec = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": ok, "redis": down}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "refused") {
		t.Fatalf("dependency error text leaked: %s", rec.Body.String())
	}
}

type stubReports struct {
	build func(ctx context.Context, kind enums.ReportType, window types.DateRange) (any, error)
}

func (s stubReports) Build(ctx context.Context, kind enums.ReportType, window types.DateRange) (any, error) {
	return s.build(ctx, kind, window)
}

func (s stubReports) Recap(ctx context.Context, window types.DateRange) ([]reports.RecapRow, error) {
	return nil, nil
}

func (s stubReports) SLA(ctx context.Context, window types.DateRange) (*reports.SLAReport, error) {
	return nil, nil
}

func (s stubReports) Tickets(ctx context.Context, window types.DateRange) ([]orders.OrderDTO, error) {
	return nil, nil
}

func TestReportsParsesTypeAndRange(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	var gotKind enums.ReportType
	var gotWindow types.DateRange
	svc := stubReports{build: func(ctx context.Context, kind enums.ReportType, window types.DateRange) (any, error) {
		gotKind, gotWindow = kind, window
		return []reports.RecapRow{{Name: "Andi", Antar: 1, Total: 1}}, nil
	}}

	rec := httptest.NewRecorder()
	Reports(svc, loc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports?type=rekap&startDate=2025-01-01&endDate=2025-01-01", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if gotKind != enums.ReportTypeRecap {
		t.Fatalf("unexpected kind %s", gotKind)
	}
	if gotWindow.To == nil || gotWindow.To.Sub(*gotWindow.From) != 24*time.Hour {
		t.Fatalf("end day should be included in full: %+v", gotWindow)
	}

	rec = httptest.NewRecorder()
	Reports(svc, loc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	if rec.Code != http.StatusOK || gotKind != enums.ReportTypeTickets {
		t.Fatalf("expected tickets default, got %d %s", rec.Code, gotKind)
	}

	rec = httptest.NewRecorder()
	Reports(svc, loc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports?type=excel", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

type stubPromo struct {
	update func(ctx context.Context, input promo.UpdateInput) (*promo.SettingsDTO, error)
}

func (s stubPromo) Get(ctx context.Context) (*promo.SettingsDTO, error) {
	return &promo.SettingsDTO{PromoText: "Diskon 10%", IsActive: true}, nil
}

func (s stubPromo) Update(ctx context.Context, input promo.UpdateInput) (*promo.SettingsDTO, error) {
	return s.update(ctx, input)
}

func TestPromoUpdate(t *testing.T) {
	var got promo.UpdateInput
	svc := stubPromo{update: func(ctx context.Context, input promo.UpdateInput) (*promo.SettingsDTO, error) {
		got = input
		return &promo.SettingsDTO{PromoText: *input.PromoText}, nil
	}}

	rec := httptest.NewRecorder()
	PromoUpdate(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/promo", strings.NewReader(`{"promo_text":"Gratis antar"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got.PromoText == nil || *got.PromoText != "Gratis antar" || got.IsActive != nil {
		t.Fatalf("unexpected input %+v", got)
	}

	rec = httptest.NewRecorder()
	PromoGet(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/promo", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Diskon 10%") {
		t.Fatalf("unexpected promo response %d %s", rec.Code, rec.Body.String())
	}
}

type stubAddress struct{}

func (stubAddress) Suggest(ctx context.Context, req address.SuggestRequest) ([]address.Suggestion, error) {
	return []address.Suggestion{{PlaceID: "p1", Description: req.Query}}, nil
}

func (stubAddress) Resolve(ctx context.Context, req address.ResolveRequest) (*address.ResolvedAddress, error) {
	return &address.ResolvedAddress{Alamat: "Jl. Asia Afrika", GoogleMapsLink: "https://maps.example/" + req.PlaceID}, nil
}

func TestAddressEndpoints(t *testing.T) {
	rec := httptest.NewRecorder()
	AddressSuggest(stubAddress{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/address/suggest?query=asia", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"suggestions"`) {
		t.Fatalf("unexpected suggest response %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	AddressResolve(stubAddress{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/address/resolve", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without place_id, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	AddressSuggest(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/address/suggest?query=asia", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when unconfigured, got %d", rec.Code)
	}
}

type stubCustomers struct {
	list func(ctx context.Context, params pagination.Params) (pagination.Page[customers.CustomerDTO], error)
}

func (s stubCustomers) List(ctx context.Context, params pagination.Params) (pagination.Page[customers.CustomerDTO], error) {
	return s.list(ctx, params)
}

func (s stubCustomers) Update(ctx context.Context, input customers.UpdateCustomerInput) (*customers.CustomerDTO, error) {
	return &customers.CustomerDTO{ID: input.ID, NamaTerakhir: input.Name}, nil
}

func (s stubCustomers) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func TestCustomersListParams(t *testing.T) {
	var got pagination.Params
	svc := stubCustomers{list: func(ctx context.Context, params pagination.Params) (pagination.Page[customers.CustomerDTO], error) {
		got = params
		return pagination.Page[customers.CustomerDTO]{Items: []customers.CustomerDTO{}}, nil
	}}

	rec := httptest.NewRecorder()
	CustomersList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/customers?limit=10&cursor=abc", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got.Limit != 10 || got.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", got)
	}

	rec = httptest.NewRecorder()
	CustomersList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/customers?limit=1000", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized limit, got %d", rec.Code)
	}
}

func TestCustomerUpdateMapsFields(t *testing.T) {
	id := uuid.New()
	rec := httptest.NewRecorder()
	body := `{"id":"` + id.String() + `","nama_terakhir":"Sari"}`
	CustomerUpdate(stubCustomers{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/customers", strings.NewReader(body)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Sari") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

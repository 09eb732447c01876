package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/laundry-backend/api/validators"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type stubCourierLookup struct {
	couriers map[uuid.UUID]*uuid.UUID
}

func (s stubCourierLookup) CourierOf(_ context.Context, id uuid.UUID) (*uuid.UUID, error) {
	courier, ok := s.couriers[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return courier, nil
}

func requestAs(method, target, body string, userID uuid.UUID, role enums.UserRole) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(WithActor(req.Context(), userID, role))
}

func TestAuthorizeRoles(t *testing.T) {
	handler := Authorize(Policy{Roles: SuperAdminRoles}, nil)(http.HandlerFunc(okHandler))

	cases := []struct {
		role enums.UserRole
		want int
	}{
		{enums.UserRoleSuperAdmin, http.StatusOK},
		{enums.UserRoleAdmin, http.StatusForbidden},
		{enums.UserRoleCourier, http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestAs(http.MethodGet, "/api/reports", "", uuid.New(), tc.role))
		if rec.Code != tc.want {
			t.Fatalf("role %s: expected %d got %d", tc.role, tc.want, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor, got %d", rec.Code)
	}
}

func TestCourierOwnershipFromBody(t *testing.T) {
	courier := uuid.New()
	other := uuid.New()
	mine := uuid.New()
	theirs := uuid.New()
	unassigned := uuid.New()
	lookup := stubCourierLookup{couriers: map[uuid.UUID]*uuid.UUID{mine: &courier, theirs: &other, unassigned: nil}}

	var seenBody string
	handler := Authorize(Policy{
		Roles:      CourierRoles,
		Owner:      CourierOwnsOrder(lookup),
		OwnerRoles: CourierRoles,
	}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seenBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name string
		body string
		want int
	}{
		{"own order", `{"id":"` + mine.String() + `","status_id":3}`, http.StatusOK},
		{"someone else's order", `{"id":"` + theirs.String() + `","status_id":3}`, http.StatusForbidden},
		{"unassigned order", `{"id":"` + unassigned.String() + `","status_id":3}`, http.StatusForbidden},
		{"unknown order", `{"id":"` + uuid.NewString() + `","status_id":3}`, http.StatusNotFound},
		{"missing id", `{"status_id":3}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		seenBody = ""
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestAs(http.MethodPut, "/api/kurir/tasks", tc.body, courier, enums.UserRoleCourier))
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, rec.Code)
		}
		if tc.want == http.StatusOK && seenBody != tc.body {
			t.Fatalf("%s: body not restored, handler saw %q", tc.name, seenBody)
		}
	}
}

func TestOwnershipSkippedForAdminsAndReadsRouteParam(t *testing.T) {
	courier := uuid.New()
	order := uuid.New()
	lookup := stubCourierLookup{couriers: map[uuid.UUID]*uuid.UUID{order: &courier}}
	policy := Policy{
		Roles:      []enums.UserRole{enums.UserRoleCourier, enums.UserRoleAdmin},
		Owner:      CourierOwnsOrder(lookup),
		OwnerRoles: CourierRoles,
	}

	router := chi.NewRouter()
	router.With(Authorize(policy, nil)).Get("/api/orders/{orderId}/logs", okHandler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/api/orders/"+order.String()+"/logs", "", courier, enums.UserRoleCourier))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected owner to pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/api/orders/"+order.String()+"/logs", "", uuid.New(), enums.UserRoleCourier))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected stranger courier rejected, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodGet, "/api/orders/"+uuid.NewString()+"/logs", "", uuid.New(), enums.UserRoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected admin to bypass ownership, got %d", rec.Code)
	}
}

func TestCourierOwnershipRejectsOversizedBody(t *testing.T) {
	courier := uuid.New()
	orderID := uuid.New()
	lookup := stubCourierLookup{couriers: map[uuid.UUID]*uuid.UUID{orderID: &courier}}
	handler := Authorize(Policy{
		Roles:      CourierRoles,
		Owner:      CourierOwnsOrder(lookup),
		OwnerRoles: CourierRoles,
	}, nil)(http.HandlerFunc(okHandler))

	body := `{"id":"` + orderID.String() + `","pad":"` + strings.Repeat("x", validators.MaxBodyBytes) + `"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(http.MethodPut, "/api/kurir/tasks", body, courier, enums.UserRoleCourier))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an oversized body, got %d", rec.Code)
	}
}

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/angelmondragon/laundry-backend/api/responses"
	"github.com/angelmondragon/laundry-backend/api/validators"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OwnerCheck returns nil when actorID may act on the resource addressed by r.
type OwnerCheck func(r *http.Request, actorID uuid.UUID) error

// Policy lists the roles admitted to a route. Owner, when set, is applied
// to actors whose role is in OwnerRoles.
type Policy struct {
	Roles      []enums.UserRole
	Owner      OwnerCheck
	OwnerRoles []enums.UserRole
}

var (
	AdminRoles      = []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleSuperAdmin}
	SuperAdminRoles = []enums.UserRole{enums.UserRoleSuperAdmin}
	CourierRoles    = []enums.UserRole{enums.UserRoleCourier}
)

// Authorize enforces p; it must run after Auth.
func Authorize(p Policy, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID, role, ok := ActorFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			if len(p.Roles) > 0 && !slices.Contains(p.Roles, role) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted"))
				return
			}
			if p.Owner != nil && slices.Contains(p.OwnerRoles, role) {
				if err := p.Owner(r, actorID); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type courierLookup interface {
	CourierOf(ctx context.Context, orderID uuid.UUID) (*uuid.UUID, error)
}

// CourierOwnsOrder checks that the order named by the route param or the
// JSON body "id" is assigned to the acting courier. The body is restored for
// the handler.
func CourierOwnsOrder(orders courierLookup) OwnerCheck {
	return func(r *http.Request, actorID uuid.UUID) error {
		orderID, err := peekOrderID(r)
		if err != nil {
			return err
		}
		courierID, err := orders.CourierOf(r.Context(), orderID)
		if err != nil {
			return err
		}
		if courierID == nil || *courierID != actorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to you")
		}
		return nil
	}
}

func peekOrderID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "orderId")
	if raw == "" && r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, validators.MaxBodyBytes+1))
		if err != nil {
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body")
		}
		if len(body) > validators.MaxBodyBytes {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "request body too large")
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var payload struct {
			ID      string `json:"id"`
			OrderID string `json:"orderId"`
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid json body")
			}
		}
		raw = payload.ID
		if raw == "" {
			raw = payload.OrderID
		}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is invalid")
	}
	return id, nil
}

package orders

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/laundry-backend/api/middleware"
	"github.com/angelmondragon/laundry-backend/api/responses"
	"github.com/angelmondragon/laundry-backend/api/validators"
	internalorders "github.com/angelmondragon/laundry-backend/internal/orders"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
	"github.com/angelmondragon/laundry-backend/pkg/types"
)

type taskUpdatePayload struct {
	ID        uuid.UUID          `json:"id" validate:"required"`
	StatusID  int                `json:"status_id" validate:"required"`
	CourierID types.OptionalUUID `json:"courier_id"`
	NomorNota string             `json:"nomor_nota" validate:"max=64"`
}

type courierTaskPayload struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	StatusID int       `json:"status_id" validate:"required"`
}

// AdminTasks lists assigned orders of one task kind, optionally narrowed to a
// board tab and a local date range on waktu_order.
func AdminTasks(svc internalorders.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		query := r.URL.Query()
		if query.Get("type") == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "type is required").WithDetails(map[string]any{"field": "type"}))
			return
		}
		kind, err := enums.ParseTaskKind(query.Get("type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "type must be JEMPUT or ANTAR"))
			return
		}
		view, err := enums.ParseAdminTaskView(query.Get("status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "status must be assigned, awaiting_confirmation or completed"))
			return
		}
		window, err := types.ParseDateRange(query.Get("startDate"), query.Get("endDate"), loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error()))
			return
		}

		tasks, err := svc.AdminTasks(r.Context(), internalorders.AdminTaskQuery{
			Kind:     kind,
			Statuses: view.Statuses(),
			Window:   window,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tasks)
	}
}

// AdminTaskUpdate moves a task to the requested status on behalf of an admin.
func AdminTaskUpdate(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		actorID, role, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body taskUpdatePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(body.StatusID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "status_id is invalid"))
			return
		}

		ctx := logg.WithOrderID(r.Context(), body.ID.String())
		order, err := svc.Transition(ctx, internalorders.TransitionInput{
			OrderID:         body.ID,
			RequestedStatus: status,
			CourierID:       body.CourierID.Value,
			ReceiptNumber:   body.NomorNota,
			ActorID:         actorID,
			ActorRole:       role,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// CourierTasks returns the caller's own tasks with the dashboard counters.
func CourierTasks(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		actorID, _, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter, err := enums.ParseCourierTaskFilter(r.URL.Query().Get("status"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "status must be pending, completed or all"))
			return
		}

		tasks, err := svc.CourierTasks(r.Context(), actorID, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tasks)
	}
}

// CourierTaskUpdate marks the caller's task as picked up or delivered.
// Ownership was already checked by the authorization policy.
func CourierTaskUpdate(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		actorID, role, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body courierTaskPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(body.StatusID)
		if err != nil || !status.IsCourierDone() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "status_id must be 3 or 5"))
			return
		}

		ctx := logg.WithOrderID(r.Context(), body.ID.String())
		order, err := svc.Transition(ctx, internalorders.TransitionInput{
			OrderID:         body.ID,
			Action:          internalorders.ActionCourierDone,
			RequestedStatus: status,
			ActorID:         actorID,
			ActorRole:       role,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// CourierReport recaps the caller's finished tasks per local day.
func CourierReport(svc internalorders.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		actorID, _, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query := r.URL.Query()
		window, err := types.ParseDateRange(query.Get("startDate"), query.Get("endDate"), loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error()))
			return
		}

		days, err := svc.CourierReport(r.Context(), actorID, window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, days)
	}
}

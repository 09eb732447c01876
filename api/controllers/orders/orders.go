package orders

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
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

// localDateTimeLayout is what an HTML datetime-local input submits.
const localDateTimeLayout = "2006-01-02T15:04"

type intakePayload struct {
	Nama                string   `json:"nama" validate:"max=120"`
	NomorHP             string   `json:"nomorHP" validate:"required,max=32"`
	Alamat              string   `json:"alamat" validate:"required,max=500"`
	GoogleMapsLink      string   `json:"googleMapsLink" validate:"max=2048"`
	Permintaan          []string `json:"permintaan" validate:"required,min=1,dive,required"`
	WaktuPenjemputan    string   `json:"waktuPenjemputan"`
	ProdukLayanan       string   `json:"produkLayanan" validate:"max=120"`
	ProdukLayananManual string   `json:"produkLayananManual" validate:"max=120"`
	JenisLayanan        string   `json:"jenisLayanan" validate:"max=120"`
	Parfum              string   `json:"parfum" validate:"max=120"`
	Catatan             string   `json:"catatan" validate:"max=1000"`
}

type updatePayload struct {
	OrderID          uuid.UUID          `json:"orderId" validate:"required"`
	CustomerID       uuid.UUID          `json:"customerId" validate:"required"`
	Nama             string             `json:"nama" validate:"max=120"`
	Phone            string             `json:"phone" validate:"max=32"`
	Alamat           string             `json:"alamat" validate:"max=500"`
	MapsLink         string             `json:"mapsLink" validate:"max=2048"`
	Produk           string             `json:"produk" validate:"max=120"`
	Layanan          string             `json:"layanan" validate:"max=120"`
	Parfum           string             `json:"parfum" validate:"max=120"`
	StatusID         *int               `json:"statusId"`
	CourierID        types.OptionalUUID `json:"courierId"`
	NomorNota        string             `json:"nomorNota" validate:"max=64"`
	WaktuPenjemputan string             `json:"waktuPenjemputan"`
}

type confirmPayload struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	NomorNota string    `json:"nomor_nota" validate:"max=64"`
}

// Create handles the public intake form and the admin "add order" dialog.
func Create(svc internalorders.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var body intakePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pickupAt, err := parseOptionalTime(body.WaktuPenjemputan, "waktuPenjemputan", loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), internalorders.CreateOrderInput{
			Name:          validators.SanitizeString(body.Nama, 120),
			Phone:         validators.SanitizeString(body.NomorHP, 32),
			Address:       validators.SanitizeString(body.Alamat, 500),
			MapsLink:      strings.TrimSpace(body.GoogleMapsLink),
			Kinds:         body.Permintaan,
			PickupAt:      pickupAt,
			Product:       body.ProdukLayanan,
			ProductManual: body.ProdukLayananManual,
			Service:       body.JenisLayanan,
			Fragrance:     body.Parfum,
			Notes:         body.Catatan,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		for _, created := range result.Orders {
			ctx := logg.WithOrderID(r.Context(), created.ID.String())
			ctx = logg.WithFields(ctx, map[string]any{"nomor_tiket": created.TicketNumber, "jenis_tugas": created.Kind})
			logg.Info(ctx, "orders.created")
		}
		responses.WriteCreated(w, result)
	}
}

// Update applies the admin edit form, routing any status or courier change
// through the transition table.
func Update(svc internalorders.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
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

		var body updatePayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := optionalStatus(body.StatusID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pickupAt, err := parseOptionalTime(body.WaktuPenjemputan, "waktuPenjemputan", loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithOrderID(r.Context(), body.OrderID.String())
		order, err := svc.Update(ctx, internalorders.UpdateOrderInput{
			OrderID:       body.OrderID,
			CustomerID:    body.CustomerID,
			Name:          body.Nama,
			Phone:         body.Phone,
			Address:       body.Alamat,
			MapsLink:      body.MapsLink,
			Product:       body.Produk,
			Service:       body.Layanan,
			Fragrance:     body.Parfum,
			StatusID:      status,
			CourierID:     body.CourierID.Value,
			ReceiptNumber: body.NomorNota,
			PickupAt:      pickupAt,
			ActorID:       actorID,
			ActorRole:     role,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Confirm closes a task the courier finished, recording the receipt number.
func Confirm(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body confirmPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithOrderID(r.Context(), body.ID.String())
		order, err := svc.Transition(ctx, internalorders.TransitionInput{
			OrderID:         body.ID,
			Action:          internalorders.ActionConfirm,
			RequestedStatus: enums.OrderStatusCompleted,
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

// AssignmentQueue groups open orders by courier for the assignment board.
func AssignmentQueue(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		unassigned, err := validators.ParseQueryBool(r, "unassigned", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		queue, err := svc.AssignmentQueue(r.Context(), unassigned)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, queue)
	}
}

// Logs returns the status history of the order named by the {orderId} path
// segment or, on the legacy route, the orderId query parameter.
func Logs(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		raw := chi.URLParam(r, "orderId")
		if raw == "" {
			raw = r.URL.Query().Get("orderId")
		}
		orderID, err := validators.RequireUUID(raw, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithOrderID(r.Context(), orderID.String())
		logs, err := svc.Logs(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, logs)
	}
}

func optionalStatus(raw *int) (enums.OrderStatus, error) {
	if raw == nil || *raw == 0 {
		return 0, nil
	}
	status, err := enums.ParseOrderStatus(*raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "statusId is invalid")
	}
	return status, nil
}

// parseOptionalTime accepts RFC3339 or a zone-less datetime-local value read
// in loc. Blank means not provided.
func parseOptionalTime(raw, field string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		utc := t.UTC()
		return &utc, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(localDateTimeLayout, raw, loc)
	if err != nil {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be an RFC3339 timestamp", field)
	}
	utc := t.UTC()
	return &utc, nil
}

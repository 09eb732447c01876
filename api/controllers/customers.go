package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/laundry-backend/api/responses"
	"github.com/angelmondragon/laundry-backend/api/validators"
	"github.com/angelmondragon/laundry-backend/internal/customers"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
	"github.com/angelmondragon/laundry-backend/pkg/pagination"
	"github.com/google/uuid"
)

type customerAdmin interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[customers.CustomerDTO], error)
	Update(ctx context.Context, input customers.UpdateCustomerInput) (*customers.CustomerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type updateCustomerPayload struct {
	ID                 uuid.UUID `json:"id" validate:"required"`
	NamaTerakhir       string    `json:"nama_terakhir" validate:"max=120"`
	NomorHP            string    `json:"nomor_hp" validate:"max=32"`
	AlamatTerakhir     string    `json:"alamat_terakhir" validate:"max=500"`
	GoogleMapsTerakhir string    `json:"google_maps_terakhir" validate:"max=2048"`
}

// CustomersList pages customers newest first.
func CustomersList(svc customerAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func CustomerUpdate(svc customerAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		var body updateCustomerPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Update(r.Context(), customers.UpdateCustomerInput{
			ID:       body.ID,
			Name:     body.NamaTerakhir,
			Phone:    body.NomorHP,
			Address:  body.AlamatTerakhir,
			MapsLink: body.GoogleMapsTerakhir,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

func CustomerDelete(svc customerAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		id, err := validators.RequireUUID(r.URL.Query().Get("id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

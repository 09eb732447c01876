package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/laundry-backend/api/responses"
	"github.com/angelmondragon/laundry-backend/api/validators"
	"github.com/angelmondragon/laundry-backend/internal/address"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
)

type resolveAddressPayload struct {
	PlaceID string `json:"place_id" validate:"required"`
}

// AddressSuggest returns autocomplete suggestions for the intake form.
func AddressSuggest(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "address lookup is not configured"))
			return
		}

		query := r.URL.Query()
		resp, err := svc.Suggest(ctx, address.SuggestRequest{
			Query:    strings.TrimSpace(query.Get("query")),
			Country:  strings.TrimSpace(query.Get("country")),
			Language: strings.TrimSpace(query.Get("language")),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"suggestions": resp})
	}
}

// AddressResolve turns a place id into the alamat and maps link pair.
func AddressResolve(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "address lookup is not configured"))
			return
		}

		var payload resolveAddressPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		addr, err := svc.Resolve(ctx, address.ResolveRequest{PlaceID: payload.PlaceID})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, addr)
	}
}

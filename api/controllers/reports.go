package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/laundry-backend/api/responses"
	"github.com/angelmondragon/laundry-backend/internal/reports"
	"github.com/angelmondragon/laundry-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/laundry-backend/pkg/errors"
	"github.com/angelmondragon/laundry-backend/pkg/logger"
	"github.com/angelmondragon/laundry-backend/pkg/types"
)

// Reports serves the rekap, sla and tickets views over orders created in the
// requested local date range.
func Reports(svc reports.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		query := r.URL.Query()
		kind, err := enums.ParseReportType(query.Get("type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "type must be rekap, sla or tickets"))
			return
		}
		window, err := types.ParseDateRange(query.Get("startDate"), query.Get("endDate"), loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error()))
			return
		}

		ctx := logg.WithField(r.Context(), "report_type", kind.String())
		report, err := svc.Build(ctx, kind, window)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

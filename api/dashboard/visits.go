package dashboard

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/services"
	"poolcare_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

func (drm *DashboardRoutesManager) ListSchedules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	customerID := caller(r)
	opts := services.ScheduleListOptions{
		CustomerID: &customerID,
		Status:     tables.ScheduleStatus(query.Get("status")),
	}

	var err error
	if opts.Page, opts.PageSize, err = handling.ParsePage(r); err == nil {
		if opts.From, err = handling.OptionalTime(query, "from"); err == nil {
			opts.To, err = handling.OptionalTime(query, "to")
		}
	}
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid query parameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}

	result, err := drm.scheduleService.List(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch schedule", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (drm *DashboardRoutesManager) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid visit id"), gecho.Send())
		return
	}

	customerID := caller(r)
	schedule, err := drm.scheduleService.Get(r.Context(), id, &customerID)
	if err != nil {
		handling.RespondError(err, "Failed to fetch visit", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(schedule), gecho.Send())
}

func (drm *DashboardRoutesManager) ListJobs(w http.ResponseWriter, r *http.Request) {
	customerID := caller(r)
	opts := services.JobListOptions{
		CustomerID: &customerID,
		Status:     tables.JobStatus(r.URL.Query().Get("status")),
	}

	var err error
	if opts.Page, opts.PageSize, err = handling.ParsePage(r); err == nil {
		opts.ScheduleID, err = handling.OptionalUUID(r.URL.Query(), "schedule_id")
	}
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Invalid query parameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}

	result, err := drm.jobService.List(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch jobs", drm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

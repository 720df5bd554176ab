package admin

import (
	"net/http"
	"poolcare_server/handling"
	"poolcare_server/lib"
	"poolcare_server/services"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListSchedules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := services.ScheduleListOptions{Status: tables.ScheduleStatus(query.Get("status"))}

	var err error
	if opts.Page, opts.PageSize, err = handling.ParsePage(r); err != nil {
		badQuery(w, err)
		return
	}
	if opts.CustomerID, err = handling.OptionalUUID(query, "customer_id"); err != nil {
		badQuery(w, err)
		return
	}
	if opts.From, err = handling.OptionalTime(query, "from"); err != nil {
		badQuery(w, err)
		return
	}
	if opts.To, err = handling.OptionalTime(query, "to"); err != nil {
		badQuery(w, err)
		return
	}

	result, err := ar.scheduleService.List(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch schedule", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (ar *AdminRoutesManager) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "visit")
		return
	}

	schedule, err := ar.scheduleService.Get(r.Context(), id, nil)
	if err != nil {
		handling.RespondError(err, "Failed to fetch visit", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(schedule), gecho.Send())
}

func (ar *AdminRoutesManager) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ScheduleRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	schedule, err := ar.scheduleService.Create(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "Failed to save visit", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Visit scheduled"), gecho.WithData(schedule), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "visit")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.SchedulePatch](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	schedule, err := ar.scheduleService.Update(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Failed to save visit", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Visit updated"), gecho.WithData(schedule), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "visit")
		return
	}

	if err := ar.scheduleService.Delete(r.Context(), id); err != nil {
		handling.RespondError(err, "Failed to delete visit", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Visit deleted"), gecho.Send())
}

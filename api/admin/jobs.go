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

func (ar *AdminRoutesManager) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := services.JobListOptions{Status: tables.JobStatus(query.Get("status"))}

	var err error
	if opts.Page, opts.PageSize, err = handling.ParsePage(r); err != nil {
		badQuery(w, err)
		return
	}
	if opts.CustomerID, err = handling.OptionalUUID(query, "customer_id"); err != nil {
		badQuery(w, err)
		return
	}
	if opts.ScheduleID, err = handling.OptionalUUID(query, "schedule_id"); err != nil {
		badQuery(w, err)
		return
	}

	result, err := ar.jobService.List(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch jobs", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(result), gecho.Send())
}

func (ar *AdminRoutesManager) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "job")
		return
	}

	job, err := ar.jobService.Get(r.Context(), id)
	if err != nil {
		handling.RespondError(err, "Failed to fetch job", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(job), gecho.Send())
}

func (ar *AdminRoutesManager) CreateJob(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.JobRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	job, err := ar.jobService.Create(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "Failed to save job", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Job created"), gecho.WithData(job), gecho.Send())
}

// UpdateJobStatus moves a job along pending -> in_progress -> completed, or
// cancels it. Other moves answer 409.
func (ar *AdminRoutesManager) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "job")
		return
	}
	body, err := lib.ExtractAndValidateBody[structs.JobStatusRequest](r)
	if err != nil {
		handling.RespondBodyError(err, ar.logger, w)
		return
	}

	job, err := ar.jobService.Transition(r.Context(), id, body.Status)
	if err != nil {
		handling.RespondError(err, "Failed to save job", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(job), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		badID(w, "job")
		return
	}

	if err := ar.jobService.Delete(r.Context(), id); err != nil {
		handling.RespondError(err, "Failed to delete job", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Job deleted"), gecho.Send())
}

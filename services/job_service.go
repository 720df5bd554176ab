package services

import (
	"context"
	"fmt"
	"poolcare_server/database"
	"poolcare_server/lib"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// jobTransitions lists the statuses each status may move to. Completed and
// cancelled jobs are final.
var jobTransitions = map[tables.JobStatus][]tables.JobStatus{
	tables.JobStatusPending:    {tables.JobStatusInProgress, tables.JobStatusCancelled},
	tables.JobStatusInProgress: {tables.JobStatusCompleted, tables.JobStatusCancelled},
}

// CanTransition reports whether a job may move from one status to another.
func CanTransition(from, to tables.JobStatus) bool {
	for _, s := range jobTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func jobIsOpen(s tables.JobStatus) bool {
	return s == tables.JobStatusPending || s == tables.JobStatusInProgress
}

type JobListOptions struct {
	CustomerID *uuid.UUID
	ScheduleID *uuid.UUID
	Status     tables.JobStatus
	Page       int
	PageSize   int
}

type JobService struct {
	logger    *gecho.Logger
	db        *database.DB
	schedules *ScheduleService
}

func NewJobService(logger *gecho.Logger, db *database.DB, schedules *ScheduleService) *JobService {
	return &JobService{logger: logger, db: db, schedules: schedules}
}

func (js *JobService) List(ctx context.Context, opts JobListOptions) (*database.PaginationResult[tables.Job], error) {
	query := database.Query[tables.Job](js.db)
	if opts.CustomerID != nil {
		query = query.Where("customer_id", *opts.CustomerID)
	}
	if opts.ScheduleID != nil {
		query = query.Where("schedule_id", *opts.ScheduleID)
	}
	if opts.Status != "" {
		query = query.Where("status", opts.Status)
	}
	query = query.OrderBy("created_at", database.DESC).OrderBy("id", database.ASC)

	result, err := database.Paginate(ctx, query, opts.Page, opts.PageSize)
	if err != nil {
		js.logger.Error("Failed to fetch jobs", gecho.Field("error", err))
		return nil, err
	}
	return result, nil
}

func (js *JobService) Get(ctx context.Context, id uuid.UUID) (*tables.Job, error) {
	job, err := database.FindByID[tables.Job](ctx, js.db, id)
	if err != nil {
		js.logger.Error("Failed to fetch job", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if job == nil {
		return nil, lib.ErrNotFound
	}
	return job, nil
}

// Create adds a job. A job attached to a visit must belong to the visit's
// customer.
func (js *JobService) Create(ctx context.Context, req *structs.JobRequest) (*tables.Job, error) {
	if req.ScheduleId != nil {
		schedule, err := js.schedules.Get(ctx, *req.ScheduleId, nil)
		if err != nil {
			return nil, err
		}
		if schedule.CustomerId != req.CustomerId {
			return nil, fmt.Errorf("visit belongs to another customer: %w", lib.ErrInvalidState)
		}
	}

	job, err := database.Create(ctx, js.db, &tables.Job{
		ScheduleId:  req.ScheduleId,
		CustomerId:  req.CustomerId,
		ServiceId:   req.ServiceId,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      tables.JobStatusPending,
	})
	if err != nil {
		js.logger.Error("Failed to create job", gecho.Field("error", err), gecho.Field("customer_id", req.CustomerId))
		return nil, lib.MapPgError(err)
	}
	return job, nil
}

// Transition moves a job to a new status under a row lock and stamps the
// start and completion times. When the last open job of a visit closes and
// at least one was completed, the visit is marked completed.
func (js *JobService) Transition(ctx context.Context, id uuid.UUID, to tables.JobStatus) (*tables.Job, error) {
	var job *tables.Job

	err := js.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		current, err := database.Query[tables.Job](tx).Where("id", id).ForUpdate().First(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			return lib.ErrNotFound
		}
		if !CanTransition(current.Status, to) {
			return fmt.Errorf("%s to %s: %w", current.Status, to, lib.ErrInvalidState)
		}

		now := time.Now()
		updates := map[string]any{"status": to}
		switch to {
		case tables.JobStatusInProgress:
			updates["started_at"] = now
		case tables.JobStatusCompleted:
			updates["completed_at"] = now
		}

		job, err = database.UpdateByID[tables.Job](ctx, tx, id, updates)
		return err
	})
	if err != nil {
		if !lib.IsNotFound(err) {
			js.logger.Warn("Job transition rejected", gecho.Field("error", err), gecho.Field("id", id), gecho.Field("to", to))
		}
		return nil, err
	}

	if job.ScheduleId != nil && !jobIsOpen(job.Status) {
		js.closeVisit(ctx, *job.ScheduleId)
	}
	return job, nil
}

func (js *JobService) closeVisit(ctx context.Context, scheduleID uuid.UUID) {
	jobs, err := database.Query[tables.Job](js.db).Where("schedule_id", scheduleID).All(ctx)
	if err != nil {
		js.logger.Warn("Failed to load visit jobs", gecho.Field("error", err), gecho.Field("schedule_id", scheduleID))
		return
	}

	completed := false
	for _, j := range jobs {
		if jobIsOpen(j.Status) {
			return
		}
		completed = completed || j.Status == tables.JobStatusCompleted
	}
	if !completed {
		return
	}

	if err := js.schedules.SetStatus(ctx, scheduleID, tables.ScheduleStatusCompleted); err != nil {
		js.logger.Warn("Failed to complete visit", gecho.Field("error", err), gecho.Field("schedule_id", scheduleID))
	}
}

func (js *JobService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := database.DeleteByID[tables.Job](ctx, js.db, id)
	if err != nil {
		js.logger.Error("Failed to delete job", gecho.Field("error", err), gecho.Field("id", id))
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}

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

// ScheduleListOptions filters visit listings. CustomerID scopes the listing
// to one customer and is always set for customer sessions.
type ScheduleListOptions struct {
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Status     tables.ScheduleStatus
	Page       int
	PageSize   int
}

// ScheduleService manages service visits. Every write fires the schedules
// trigger, which is how connected dashboards learn about changes.
type ScheduleService struct {
	logger    *gecho.Logger
	db        *database.DB
	offerings *OfferingService
}

func NewScheduleService(logger *gecho.Logger, db *database.DB, offerings *OfferingService) *ScheduleService {
	return &ScheduleService{logger: logger, db: db, offerings: offerings}
}

func oldestFirst(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.created_at ASC")
}

func (ss *ScheduleService) List(ctx context.Context, opts ScheduleListOptions) (*database.PaginationResult[tables.Schedule], error) {
	query := database.Query[tables.Schedule](ss.db).Relation("Service")
	if opts.CustomerID != nil {
		query = query.Where("sc.customer_id", *opts.CustomerID)
	}
	if opts.From != nil {
		query = query.WhereOp("sc.scheduled_at", ">=", *opts.From)
	}
	if opts.To != nil {
		query = query.WhereOp("sc.scheduled_at", "<", *opts.To)
	}
	if opts.Status != "" {
		query = query.Where("sc.status", opts.Status)
	}
	query = query.OrderBy("sc.scheduled_at", database.ASC).OrderBy("sc.id", database.ASC)

	result, err := database.Paginate(ctx, query, opts.Page, opts.PageSize)
	if err != nil {
		ss.logger.Error("Failed to fetch schedules", gecho.Field("error", err))
		return nil, err
	}
	return result, nil
}

// Get returns a visit with its service and jobs. With a customer id, visits
// of other customers are reported as not found.
func (ss *ScheduleService) Get(ctx context.Context, id uuid.UUID, customerID *uuid.UUID) (*tables.Schedule, error) {
	query := database.Query[tables.Schedule](ss.db).
		Relation("Service").
		Relation("Jobs", oldestFirst).
		Where("sc.id", id)
	if customerID != nil {
		query = query.Where("sc.customer_id", *customerID)
	}

	schedule, err := query.First(ctx)
	if err != nil {
		ss.logger.Error("Failed to fetch schedule", gecho.Field("error", err), gecho.Field("id", id))
		return nil, err
	}
	if schedule == nil {
		return nil, lib.ErrNotFound
	}
	return schedule, nil
}

// checkRefs verifies the customer exists and owns the address.
func (ss *ScheduleService) checkRefs(ctx context.Context, customerID uuid.UUID, addressID *uuid.UUID) error {
	exists, err := database.Query[tables.User](ss.db).Where("id", customerID).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("customer: %w", lib.ErrNotFound)
	}

	if addressID != nil {
		owned, err := database.Query[tables.Address](ss.db).
			Where("id", *addressID).
			Where("user_id", customerID).
			Exists(ctx)
		if err != nil {
			return err
		}
		if !owned {
			return fmt.Errorf("address: %w", lib.ErrNotFound)
		}
	}
	return nil
}

func (ss *ScheduleService) Create(ctx context.Context, req *structs.ScheduleRequest) (*tables.Schedule, error) {
	if err := ss.checkRefs(ctx, req.CustomerId, req.AddressId); err != nil {
		return nil, err
	}

	duration := req.DurationMinutes
	if req.ServiceId != nil {
		service, err := ss.offerings.Get(ctx, *req.ServiceId, false)
		if err != nil {
			return nil, err
		}
		if duration == 0 {
			duration = service.DurationMinutes
		}
	}
	if duration == 0 {
		duration = defaultServiceDuration
	}

	status := req.Status
	if status == "" {
		status = tables.ScheduleStatusScheduled
	}

	schedule, err := database.Create(ctx, ss.db, &tables.Schedule{
		CustomerId:      req.CustomerId,
		AddressId:       req.AddressId,
		ServiceId:       req.ServiceId,
		ScheduledAt:     req.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Status:          status,
		Technician:      strings.TrimSpace(req.Technician),
		Notes:           req.Notes,
	})
	if err != nil {
		ss.logger.Error("Failed to create schedule", gecho.Field("error", err), gecho.Field("customer_id", req.CustomerId))
		return nil, lib.MapPgError(err)
	}

	ss.logger.Info("Visit scheduled",
		gecho.Field("id", schedule.Id),
		gecho.Field("customer_id", schedule.CustomerId),
		gecho.Field("scheduled_at", schedule.ScheduledAt))
	return schedule, nil
}

func (ss *ScheduleService) Update(ctx context.Context, id uuid.UUID, patch *structs.SchedulePatch) (*tables.Schedule, error) {
	current, err := ss.Get(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.AddressId != nil {
		if err := ss.checkRefs(ctx, current.CustomerId, patch.AddressId); err != nil {
			return nil, err
		}
		updates["address_id"] = *patch.AddressId
	}
	if patch.ServiceId != nil {
		if _, err := ss.offerings.Get(ctx, *patch.ServiceId, false); err != nil {
			return nil, err
		}
		updates["service_id"] = *patch.ServiceId
	}
	if patch.ScheduledAt != nil {
		updates["scheduled_at"] = patch.ScheduledAt.UTC()
	}
	if patch.DurationMinutes != nil {
		updates["duration_minutes"] = *patch.DurationMinutes
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Technician != nil {
		updates["technician"] = strings.TrimSpace(*patch.Technician)
	}
	if patch.Notes != nil {
		updates["notes"] = *patch.Notes
	}
	if len(updates) == 0 {
		return current, nil
	}

	schedule, err := database.UpdateByID[tables.Schedule](ctx, ss.db, id, updates)
	if err != nil {
		ss.logger.Error("Failed to update schedule", gecho.Field("error", err), gecho.Field("id", id))
		return nil, lib.MapPgError(err)
	}
	if schedule == nil {
		return nil, lib.ErrNotFound
	}
	return schedule, nil
}

// SetStatus is used by jobs when the last open job of a visit is closed.
func (ss *ScheduleService) SetStatus(ctx context.Context, id uuid.UUID, status tables.ScheduleStatus) error {
	schedule, err := database.UpdateByID[tables.Schedule](ctx, ss.db, id, map[string]any{"status": status})
	if err != nil {
		ss.logger.Error("Failed to update schedule status", gecho.Field("error", err), gecho.Field("id", id))
		return err
	}
	if schedule == nil {
		return lib.ErrNotFound
	}
	return nil
}

// Delete removes a visit. Jobs and invoices keep their rows with the link
// cleared.
func (ss *ScheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := database.DeleteByID[tables.Schedule](ctx, ss.db, id)
	if err != nil {
		ss.logger.Error("Failed to delete schedule", gecho.Field("error", err), gecho.Field("id", id))
		return lib.MapPgError(err)
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}

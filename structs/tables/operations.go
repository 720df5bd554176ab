package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusConfirmed ScheduleStatus = "confirmed"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// Schedule is a planned service visit at a customer's pool.
type Schedule struct {
	bun.BaseModel   `bun:"table:schedules,alias:sc"`
	Id              uuid.UUID      `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	CustomerId      uuid.UUID      `bun:"customer_id,type:uuid,notnull" json:"customer_id"`
	AddressId       *uuid.UUID     `bun:"address_id,type:uuid" json:"address_id,omitempty"`
	ServiceId       *uuid.UUID     `bun:"service_id,type:uuid" json:"service_id,omitempty"`
	ScheduledAt     time.Time      `bun:"scheduled_at,notnull" json:"scheduled_at"`
	DurationMinutes int            `bun:"duration_minutes,notnull,default:60" json:"duration_minutes"`
	Status          ScheduleStatus `bun:"status,notnull,default:'scheduled'" json:"status"`
	Technician      string         `bun:"technician" json:"technician,omitempty"`
	Notes           string         `bun:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time      `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt       time.Time      `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Service         *Service       `bun:"rel:belongs-to,join:service_id=id" json:"service,omitempty"`
	Jobs            []Job          `bun:"rel:has-many,join:id=schedule_id" json:"jobs,omitempty"`
}

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Job is a unit of work performed for a customer, usually during a scheduled visit.
type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`
	Id            uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ScheduleId    *uuid.UUID `bun:"schedule_id,type:uuid" json:"schedule_id,omitempty"`
	CustomerId    uuid.UUID  `bun:"customer_id,type:uuid,notnull" json:"customer_id"`
	ServiceId     *uuid.UUID `bun:"service_id,type:uuid" json:"service_id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Status        JobStatus  `bun:"status,notnull,default:'pending'" json:"status"`
	StartedAt     *time.Time `bun:"started_at,nullzero" json:"started_at,omitempty"`
	CompletedAt   *time.Time `bun:"completed_at,nullzero" json:"completed_at,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}

package maintenanceservice

import (
	"time"

	"github.com/google/uuid"
)

type PlanReq struct {
	Title       string    `json:"title" validate:"required"`
	Task        string    `json:"task,omitempty"`
	Frequency   string    `json:"frequency" validate:"required,oneof=daily weekly monthly yearly"`
	Interval    int       `json:"interval" validate:"required,min=1"`
	NextRunDate time.Time `json:"next_run_date" validate:"required"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
}

type UpdatePlanReq struct {
	ID          uuid.UUID  `json:"id" validate:"required"`
	Title       string     `json:"title,omitempty"`
	Task        string     `json:"task,omitempty"`
	Frequency   string     `json:"frequency,omitempty" validate:"omitempty,oneof=daily weekly monthly yearly"`
	Interval    int        `json:"interval,omitempty" validate:"omitempty,min=1"`
	NextRunDate *time.Time `json:"next_run_date,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
}

type PlanRes struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Task        *string   `json:"task,omitempty" db:"task"`
	Frequency   string    `json:"frequency" db:"frequency"`
	Interval    int       `json:"interval" db:"recur_interval"`
	NextRunDate time.Time `json:"next_run_date" db:"next_run_date"`
	CategoryID  uuid.UUID `json:"category_id" db:"category_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// planAsset is the slice of an asset row the scheduler needs to open a
// work order against it.
type planAsset struct {
	ID      uuid.UUID `db:"id"`
	Status  string    `db:"status"`
	Version int       `db:"version"`
}

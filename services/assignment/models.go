package assignmentservice

import (
	"time"

	"github.com/google/uuid"
)

type CheckOutReq struct {
	AssetID uuid.UUID `json:"asset_id" validate:"required"`
	UserID  uuid.UUID `json:"user_id" validate:"required"`
}

type CheckInReq struct {
	AssignmentID uuid.UUID `json:"assignment_id" validate:"required"`
	Outcome      string    `json:"outcome" validate:"required,oneof=functional damaged"`
}

type AssignmentRes struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	AssetID       uuid.UUID  `json:"asset_id" db:"asset_id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	AssignedBy    *uuid.UUID `json:"assigned_by,omitempty" db:"assigned_by"`
	AssignedAt    time.Time  `json:"assigned_at" db:"assigned_at"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty" db:"returned_at"`
	ReturnOutcome *string    `json:"return_outcome,omitempty" db:"return_outcome"`
}

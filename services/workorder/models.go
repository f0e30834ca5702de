package workorderservice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateWorkOrderReq struct {
	AssetID     uuid.UUID `json:"asset_id" validate:"required"`
	Description string    `json:"description" validate:"required"`
}

type AssignWorkOrderReq struct {
	WorkOrderID  uuid.UUID `json:"work_order_id" validate:"required"`
	TechnicianID uuid.UUID `json:"technician_id" validate:"required"`
}

type AdvanceWorkOrderReq struct {
	WorkOrderID uuid.UUID `json:"work_order_id" validate:"required"`
	Status      string    `json:"status" validate:"required,oneof=in_progress awaiting_part resolved"`
	Comment     string    `json:"comment,omitempty"`
}

type AddCostReq struct {
	WorkOrderID uuid.UUID       `json:"work_order_id" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
}

type WorkOrderRes struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	AssetID      uuid.UUID  `json:"asset_id" db:"asset_id"`
	Description  string     `json:"description" db:"description"`
	Status       string     `json:"status" db:"status"`
	ReportedBy   uuid.UUID  `json:"reported_by" db:"reported_by"`
	TechnicianID *uuid.UUID `json:"technician_id,omitempty" db:"technician_id"`
	Version      int        `json:"version" db:"version"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

type WorkOrderCommentRes struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type MaintenanceCostRes struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	CreatedBy   *uuid.UUID      `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type WorkOrderDetailRes struct {
	WorkOrderRes
	Comments  []WorkOrderCommentRes `json:"comments"`
	Costs     []MaintenanceCostRes  `json:"costs"`
	InvoiceID *uuid.UUID            `json:"invoice_id,omitempty"`
}

type WorkOrderFilter struct {
	AssetID    *uuid.UUID
	Status     []string
	Technician *uuid.UUID
	Reporter   *uuid.UUID
	Limit      int
	Offset     int
}

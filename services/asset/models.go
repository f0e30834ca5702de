package assetservice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssetReq struct {
	Code         string          `json:"code" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Model        string          `json:"model,omitempty"`
	SerialNo     string          `json:"serial_no,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	PurchaseDate *time.Time      `json:"purchase_date,omitempty"`
	Vendor       string          `json:"vendor,omitempty"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	LocationID   *uuid.UUID      `json:"location_id,omitempty"`
}

type UpdateAssetReq struct {
	ID           uuid.UUID  `json:"id" validate:"required"`
	Name         string     `json:"name,omitempty"`
	Model        string     `json:"model,omitempty"`
	SerialNo     string     `json:"serial_no,omitempty"`
	Vendor       string     `json:"vendor,omitempty"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
}

type AssetRes struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Code         string          `json:"code" db:"code"`
	Name         string          `json:"name" db:"name"`
	Model        *string         `json:"model,omitempty" db:"model"`
	SerialNo     *string         `json:"serial_no,omitempty" db:"serial_no"`
	Cost         decimal.Decimal `json:"cost" db:"cost"`
	PurchaseDate *time.Time      `json:"purchase_date,omitempty" db:"purchase_date"`
	Vendor       *string         `json:"vendor,omitempty" db:"vendor"`
	Status       string          `json:"status" db:"status"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty" db:"category_id"`
	LocationID   *uuid.UUID      `json:"location_id,omitempty" db:"location_id"`
	Version      int             `json:"version" db:"version"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// AssetTimelineEvent is one row of the merged assignment / work-order history.
type AssetTimelineEvent struct {
	EventType string     `json:"event_type" db:"event_type"`
	StartTime time.Time  `json:"start_time" db:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty" db:"end_time"`
	Details   string     `json:"details,omitempty" db:"details"`
	AssetID   uuid.UUID  `json:"asset_id" db:"asset_id"`
}

type AssetFilter struct {
	IsSearchText bool
	SearchText   string
	Status       []string
	CategoryID   []string
	LocationID   []string
	Limit        int
	Offset       int
}

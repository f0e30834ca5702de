package catalogservice

import (
	"time"

	"github.com/google/uuid"
)

type CategoryReq struct {
	Name string `json:"name" validate:"required"`
}

type LocationReq struct {
	Name string `json:"name" validate:"required"`
}

type RenameReq struct {
	ID   uuid.UUID `json:"id" validate:"required"`
	Name string    `json:"name" validate:"required"`
}

type CategoryRes struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type LocationRes struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

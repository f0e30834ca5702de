package models

import "github.com/pkg/errors"

// Domain errors surfaced to handlers; repositories and services wrap
// them with context, handlers match with errors.Is to pick a status code.
var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidState        = errors.New("transition not allowed from current state")
	ErrForbidden           = errors.New("actor not permitted for this operation")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrConcurrencyConflict = errors.New("record was modified concurrently, retry with fresh state")

	ErrAssetNotAvailable = errors.New("asset is not available")
	ErrNoOpenAssignment  = errors.New("asset has no open assignment")
	ErrAssetRetired      = errors.New("asset is retired")
	ErrAssetInUse        = errors.New("asset has an open assignment or work order")

	ErrNotResolved     = errors.New("work order is not resolved")
	ErrAlreadyInvoiced = errors.New("work order already has an invoice")
	ErrNoCosts         = errors.New("work order has no recorded costs")

	ErrCategoryInUse = errors.New("category is referenced by existing assets")
	ErrLocationInUse = errors.New("location is referenced by existing assets")
)

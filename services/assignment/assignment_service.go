package assignmentservice

import (
	"activos/models"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AssetStore is the slice of the asset registry this service needs: the
// guarded status read/write pair. Asset status is only ever written
// through SetStatusTx.
type AssetStore interface {
	GetStatusTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID) (models.AssetStatus, int, error)
	SetStatusTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID, to models.AssetStatus, version int) error
}

type AssignmentService interface {
	CheckOut(ctx context.Context, assetID, userID, actorID uuid.UUID) (uuid.UUID, error)
	CheckIn(ctx context.Context, assignmentID uuid.UUID, outcome models.ReturnOutcome) (uuid.UUID, error)
	ListByAsset(ctx context.Context, assetID uuid.UUID) ([]AssignmentRes, error)
}

type assignmentService struct {
	repo   AssignmentRepository
	assets AssetStore
}

func NewAssignmentService(repo AssignmentRepository, assets AssetStore) AssignmentService {
	return &assignmentService{repo: repo, assets: assets}
}

// CheckOut opens an assignment and moves the asset to assigned as one
// transaction; a partial write of either side never survives.
func (s *assignmentService) CheckOut(ctx context.Context, assetID, userID, actorID uuid.UUID) (assignmentID uuid.UUID, err error) {
	tx, err := s.repo.BeginTxx(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	status, version, err := s.assets.GetStatusTx(ctx, tx, assetID)
	if err != nil {
		return uuid.Nil, err
	}
	if status != models.AssetAvailable {
		return uuid.Nil, fmt.Errorf("asset %s is %s: %w", assetID, status, models.ErrAssetNotAvailable)
	}

	assignmentID, err = s.repo.CreateAssignmentTx(ctx, tx, assetID, userID, actorID)
	if err != nil {
		return uuid.Nil, err
	}

	if err = s.assets.SetStatusTx(ctx, tx, assetID, models.AssetAssigned, version); err != nil {
		return uuid.Nil, err
	}
	return assignmentID, nil
}

// CheckIn closes the assignment and derives the new asset status from the
// return outcome: damaged sends the asset straight to maintenance.
// Returns the asset id for the caller's audit trail.
func (s *assignmentService) CheckIn(ctx context.Context, assignmentID uuid.UUID, outcome models.ReturnOutcome) (assetID uuid.UUID, err error) {
	tx, err := s.repo.BeginTxx(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	assignment, err := s.repo.GetAssignmentTx(ctx, tx, assignmentID)
	if err != nil {
		return uuid.Nil, err
	}
	if assignment.ReturnedAt != nil {
		return uuid.Nil, models.ErrNoOpenAssignment
	}

	if err = s.repo.CloseAssignmentTx(ctx, tx, assignmentID, outcome); err != nil {
		return uuid.Nil, err
	}

	_, version, err := s.assets.GetStatusTx(ctx, tx, assignment.AssetID)
	if err != nil {
		return uuid.Nil, err
	}

	target := models.AssetAvailable
	if outcome == models.ReturnDamaged {
		target = models.AssetInMaintenance
	}
	if err = s.assets.SetStatusTx(ctx, tx, assignment.AssetID, target, version); err != nil {
		return uuid.Nil, err
	}
	return assignment.AssetID, nil
}

func (s *assignmentService) ListByAsset(ctx context.Context, assetID uuid.UUID) ([]AssignmentRes, error) {
	return s.repo.ListAssignmentsByAsset(ctx, assetID)
}

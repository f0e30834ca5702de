package assetservice

import (
	"activos/models"
	"context"
	"fmt"

	"github.com/google/uuid"
)

type AssetService interface {
	CreateAsset(ctx context.Context, req AssetReq, createdBy uuid.UUID) (uuid.UUID, error)
	UpdateAsset(ctx context.Context, req UpdateAssetReq) error
	RetireAsset(ctx context.Context, assetID uuid.UUID) error
	GetAsset(ctx context.Context, assetID uuid.UUID) (AssetRes, error)
	GetAllAssetsWithFilters(ctx context.Context, filter AssetFilter) ([]AssetRes, error)
	GetAssetTimeline(ctx context.Context, assetID uuid.UUID) ([]AssetTimelineEvent, error)
}

type assetService struct {
	repo AssetRepository
}

func NewAssetService(repo AssetRepository) AssetService {
	return &assetService{repo: repo}
}

func (s *assetService) CreateAsset(ctx context.Context, req AssetReq, createdBy uuid.UUID) (uuid.UUID, error) {
	if req.Cost.IsNegative() {
		return uuid.Nil, fmt.Errorf("asset cost: %w", models.ErrInvalidAmount)
	}
	return s.repo.CreateAsset(ctx, req, createdBy)
}

func (s *assetService) UpdateAsset(ctx context.Context, req UpdateAssetReq) error {
	return s.repo.UpdateAssetInfo(ctx, req)
}

// RetireAsset moves an asset to retired, which is terminal. An asset that
// is checked out or has unfinished work orders cannot be retired.
func (s *assetService) RetireAsset(ctx context.Context, assetID uuid.UUID) (err error) {
	tx, err := s.repo.BeginTxx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
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

	status, version, err := s.repo.GetStatusTx(ctx, tx, assetID)
	if err != nil {
		return err
	}
	if status == models.AssetRetired {
		return nil
	}

	openAssignments, err := s.repo.CountOpenAssignmentsTx(ctx, tx, assetID)
	if err != nil {
		return err
	}
	openOrders, err := s.repo.CountOpenWorkOrdersTx(ctx, tx, assetID)
	if err != nil {
		return err
	}
	if openAssignments > 0 || openOrders > 0 {
		return models.ErrAssetInUse
	}

	return s.repo.SetStatusTx(ctx, tx, assetID, models.AssetRetired, version)
}

func (s *assetService) GetAsset(ctx context.Context, assetID uuid.UUID) (AssetRes, error) {
	return s.repo.GetAssetByID(ctx, assetID)
}

func (s *assetService) GetAllAssetsWithFilters(ctx context.Context, filter AssetFilter) ([]AssetRes, error) {
	return s.repo.SearchAssetsWithFilter(ctx, filter)
}

func (s *assetService) GetAssetTimeline(ctx context.Context, assetID uuid.UUID) ([]AssetTimelineEvent, error) {
	return s.repo.GetAssetTimeline(ctx, assetID)
}

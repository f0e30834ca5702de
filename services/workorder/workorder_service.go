package workorderservice

import (
	"activos/models"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AssetStore is the guarded status read/write pair from the asset
// registry; work orders never touch asset rows any other way.
type AssetStore interface {
	GetStatusTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID) (models.AssetStatus, int, error)
	SetStatusTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID, to models.AssetStatus, version int) error
}

type WorkOrderService interface {
	Create(ctx context.Context, req CreateWorkOrderReq, reporterID uuid.UUID) (uuid.UUID, error)
	Assign(ctx context.Context, workOrderID, technicianID uuid.UUID) error
	Advance(ctx context.Context, req AdvanceWorkOrderReq, actorID uuid.UUID, actorRoles []string) error
	AddCost(ctx context.Context, req AddCostReq, actorID uuid.UUID, actorRoles []string) (uuid.UUID, error)
	List(ctx context.Context, filter WorkOrderFilter) ([]WorkOrderRes, error)
	GetDetail(ctx context.Context, workOrderID uuid.UUID) (WorkOrderDetailRes, error)
}

type workOrderService struct {
	repo   WorkOrderRepository
	assets AssetStore
}

func NewWorkOrderService(repo WorkOrderRepository, assets AssetStore) WorkOrderService {
	return &workOrderService{repo: repo, assets: assets}
}

// Create opens a ticket against an asset. Retired assets cannot generate
// new tickets; an asset with open tickets can — concurrent orders per
// asset are allowed and reconciled on resolve.
func (s *workOrderService) Create(ctx context.Context, req CreateWorkOrderReq, reporterID uuid.UUID) (workOrderID uuid.UUID, err error) {
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

	status, version, err := s.assets.GetStatusTx(ctx, tx, req.AssetID)
	if err != nil {
		return uuid.Nil, err
	}
	if status == models.AssetRetired {
		return uuid.Nil, fmt.Errorf("asset %s: %w", req.AssetID, models.ErrAssetRetired)
	}

	workOrderID, err = s.repo.CreateWorkOrderTx(ctx, tx, req.AssetID, req.Description, reporterID)
	if err != nil {
		return uuid.Nil, err
	}

	if status == models.AssetAvailable {
		if err = s.assets.SetStatusTx(ctx, tx, req.AssetID, models.AssetInMaintenance, version); err != nil {
			return uuid.Nil, err
		}
	}
	return workOrderID, nil
}

func (s *workOrderService) Assign(ctx context.Context, workOrderID, technicianID uuid.UUID) (err error) {
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

	order, err := s.repo.GetWorkOrderTx(ctx, tx, workOrderID)
	if err != nil {
		return err
	}
	if models.WorkOrderStatus(order.Status) != models.WorkOrderOpen {
		return fmt.Errorf("work order is %s, not open: %w", order.Status, models.ErrInvalidState)
	}

	return s.repo.AssignTechnicianTx(ctx, tx, workOrderID, technicianID, order.Version)
}

// Advance moves an order to in_progress, awaiting_part or resolved. Only
// the bound technician or an administrator may do so. On resolved, the
// asset becomes available again only when no other unresolved order
// references it.
func (s *workOrderService) Advance(ctx context.Context, req AdvanceWorkOrderReq, actorID uuid.UUID, actorRoles []string) (err error) {
	target := models.WorkOrderStatus(req.Status)
	switch target {
	case models.WorkOrderInProgress, models.WorkOrderAwaitingPart, models.WorkOrderResolved:
	default:
		return fmt.Errorf("target state %s: %w", req.Status, models.ErrInvalidState)
	}

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

	order, err := s.repo.GetWorkOrderTx(ctx, tx, req.WorkOrderID)
	if err != nil {
		return err
	}
	if err = s.checkActor(order, actorID, actorRoles); err != nil {
		return err
	}

	switch models.WorkOrderStatus(order.Status) {
	case models.WorkOrderResolved, models.WorkOrderClosed:
		return fmt.Errorf("work order already %s: %w", order.Status, models.ErrInvalidState)
	}

	if req.Comment != "" {
		if err = s.repo.AddCommentTx(ctx, tx, order.ID, actorID, req.Comment); err != nil {
			return err
		}
	}

	if err = s.repo.SetStatusTx(ctx, tx, order.ID, target, order.Version); err != nil {
		return err
	}

	if target != models.WorkOrderResolved {
		return nil
	}

	remaining, err := s.repo.CountOtherUnresolvedTx(ctx, tx, order.AssetID, order.ID)
	if err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}

	assetStatus, assetVersion, err := s.assets.GetStatusTx(ctx, tx, order.AssetID)
	if err != nil {
		return err
	}
	if assetStatus == models.AssetInMaintenance {
		if err = s.assets.SetStatusTx(ctx, tx, order.AssetID, models.AssetAvailable, assetVersion); err != nil {
			return err
		}
	}
	return nil
}

func (s *workOrderService) AddCost(ctx context.Context, req AddCostReq, actorID uuid.UUID, actorRoles []string) (costID uuid.UUID, err error) {
	if !req.Amount.IsPositive() {
		return uuid.Nil, fmt.Errorf("cost amount %s: %w", req.Amount, models.ErrInvalidAmount)
	}

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

	order, err := s.repo.GetWorkOrderTx(ctx, tx, req.WorkOrderID)
	if err != nil {
		return uuid.Nil, err
	}
	if err = s.checkActor(order, actorID, actorRoles); err != nil {
		return uuid.Nil, err
	}

	return s.repo.AddCostTx(ctx, tx, order.ID, req.Description, req.Amount, actorID)
}

func (s *workOrderService) List(ctx context.Context, filter WorkOrderFilter) ([]WorkOrderRes, error) {
	return s.repo.ListWithFilters(ctx, filter)
}

func (s *workOrderService) GetDetail(ctx context.Context, workOrderID uuid.UUID) (WorkOrderDetailRes, error) {
	return s.repo.GetWorkOrderDetail(ctx, workOrderID)
}

func (s *workOrderService) checkActor(order WorkOrderRes, actorID uuid.UUID, actorRoles []string) error {
	if models.HasRole(actorRoles, models.AdministratorRole) {
		return nil
	}
	if order.TechnicianID != nil && *order.TechnicianID == actorID {
		return nil
	}
	return fmt.Errorf("actor %s is not the assigned technician: %w", actorID, models.ErrForbidden)
}

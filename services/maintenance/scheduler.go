package maintenanceservice

import (
	"activos/models"
	"activos/providers"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// AssetStore is the asset registry's guarded status pair; the scheduler
// flips available assets to in_maintenance through it like any other caller.
type AssetStore interface {
	SetStatusTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID, to models.AssetStatus, version int) error
}

// WorkOrderCreator opens tickets inside the scheduler's transaction.
type WorkOrderCreator interface {
	CreateWorkOrderTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID, description string, reportedBy uuid.UUID) (uuid.UUID, error)
}

// Scheduler is the preventive-maintenance loop: one goroutine, one firing
// at a time, all state in the database so nothing survives in memory
// between firings.
type Scheduler struct {
	plans      PlanRepository
	assets     AssetStore
	workOrders WorkOrderCreator
	logger     providers.ZapLoggerProvider
	interval   time.Duration
	now        func() time.Time
}

func NewScheduler(plans PlanRepository, assets AssetStore, workOrders WorkOrderCreator, logger providers.ZapLoggerProvider, interval time.Duration) *Scheduler {
	return &Scheduler{
		plans:      plans,
		assets:     assets,
		workOrders: workOrders,
		logger:     logger,
		interval:   interval,
		now:        time.Now,
	}
}

// Run fires immediately, then once per interval until ctx is cancelled.
// The inter-firing wait is interruptible.
func (s *Scheduler) Run(ctx context.Context) {
	log := s.logger.GetLogger()
	log.Info("preventive maintenance scheduler started", zap.Duration("interval", s.interval))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("preventive maintenance scheduler stopped")
			return
		case <-timer.C:
			s.RunOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// RunOnce processes every due plan. A plan that fails is logged and
// skipped; the remaining plans still run.
func (s *Scheduler) RunOnce(ctx context.Context) {
	log := s.logger.GetLogger()
	today := s.today()

	duePlans, err := s.plans.ListDuePlans(ctx, today)
	if err != nil {
		log.Error("failed to load due maintenance plans", zap.Error(err))
		return
	}

	for _, plan := range duePlans {
		if ctx.Err() != nil {
			return
		}
		created, err := s.runPlan(ctx, plan)
		if err != nil {
			log.Error("maintenance plan firing failed",
				zap.String("plan_id", plan.ID.String()),
				zap.String("title", plan.Title),
				zap.Error(err))
			continue
		}
		log.Info("maintenance plan fired",
			zap.String("plan_id", plan.ID.String()),
			zap.String("title", plan.Title),
			zap.Int("work_orders_created", created))
	}
}

// runPlan creates the plan's work orders and advances its next run date
// as one transaction, so a failure leaves neither side half-applied.
func (s *Scheduler) runPlan(ctx context.Context, plan PlanRes) (created int, err error) {
	tx, err := s.plans.BeginTxx(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
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

	assets, err := s.plans.ListPlanAssetsTx(ctx, tx, plan.CategoryID)
	if err != nil {
		return 0, err
	}

	description := "Preventive maintenance: " + plan.Title
	for _, asset := range assets {
		if _, err = s.workOrders.CreateWorkOrderTx(ctx, tx, asset.ID, description, models.SystemUserID); err != nil {
			return 0, err
		}
		if models.AssetStatus(asset.Status) == models.AssetAvailable {
			if err = s.assets.SetStatusTx(ctx, tx, asset.ID, models.AssetInMaintenance, asset.Version); err != nil {
				return 0, err
			}
		}
		created++
	}

	next := NextRunDate(plan.NextRunDate, models.PlanFrequency(plan.Frequency), plan.Interval)
	if err = s.plans.AdvanceNextRunTx(ctx, tx, plan.ID, plan.NextRunDate, next); err != nil {
		return 0, err
	}
	return created, nil
}

func (s *Scheduler) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// NextRunDate advances a plan date by exactly one recurrence step. A plan
// that is several periods overdue still moves a single step; there is no
// catch-up backfilling.
func NextRunDate(current time.Time, frequency models.PlanFrequency, interval int) time.Time {
	switch frequency {
	case models.FrequencyDaily:
		return current.AddDate(0, 0, interval)
	case models.FrequencyWeekly:
		return current.AddDate(0, 0, 7*interval)
	case models.FrequencyMonthly:
		return current.AddDate(0, interval, 0)
	case models.FrequencyYearly:
		return current.AddDate(interval, 0, 0)
	default:
		return current
	}
}

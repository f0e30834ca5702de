package maintenanceservice

import (
	"activos/models"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PlanRepository interface {
	CreatePlan(ctx context.Context, req PlanReq) (uuid.UUID, error)
	UpdatePlan(ctx context.Context, req UpdatePlanReq) error
	DeletePlan(ctx context.Context, planID uuid.UUID) error
	ListPlans(ctx context.Context) ([]PlanRes, error)
	ListDuePlans(ctx context.Context, today time.Time) ([]PlanRes, error)
	ListPlanAssetsTx(ctx context.Context, tx *sqlx.Tx, categoryID uuid.UUID) ([]planAsset, error)
	AdvanceNextRunTx(ctx context.Context, tx *sqlx.Tx, planID uuid.UUID, from, to time.Time) error
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
}

type PostgresPlanRepository struct {
	DB *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) PlanRepository {
	return &PostgresPlanRepository{DB: db}
}

func (r *PostgresPlanRepository) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return r.DB.BeginTxx(ctx, nil)
}

func (r *PostgresPlanRepository) CreatePlan(ctx context.Context, req PlanReq) (uuid.UUID, error) {
	var planID uuid.UUID
	err := r.DB.GetContext(ctx, &planID, `
		INSERT INTO maintenance_plans (title, task, frequency, recur_interval, next_run_date, category_id)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		RETURNING id
	`, req.Title, req.Task, req.Frequency, req.Interval, req.NextRunDate, req.CategoryID)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to insert maintenance plan")
	}
	return planID, nil
}

func (r *PostgresPlanRepository) UpdatePlan(ctx context.Context, req UpdatePlanReq) error {
	query := `UPDATE maintenance_plans SET `
	args := []interface{}{}
	argPos := 1

	if req.Title != "" {
		query += fmt.Sprintf("title = $%d, ", argPos)
		args = append(args, req.Title)
		argPos++
	}
	if req.Task != "" {
		query += fmt.Sprintf("task = $%d, ", argPos)
		args = append(args, req.Task)
		argPos++
	}
	if req.Frequency != "" {
		query += fmt.Sprintf("frequency = $%d, ", argPos)
		args = append(args, req.Frequency)
		argPos++
	}
	if req.Interval > 0 {
		query += fmt.Sprintf("recur_interval = $%d, ", argPos)
		args = append(args, req.Interval)
		argPos++
	}
	if req.NextRunDate != nil {
		query += fmt.Sprintf("next_run_date = $%d, ", argPos)
		args = append(args, req.NextRunDate)
		argPos++
	}
	if req.CategoryID != nil {
		query += fmt.Sprintf("category_id = $%d, ", argPos)
		args = append(args, req.CategoryID)
		argPos++
	}
	if len(args) == 0 {
		return nil
	}

	query = strings.TrimSuffix(query, ", ")
	query += fmt.Sprintf(" WHERE id = $%d AND archived_at IS NULL", argPos)
	args = append(args, req.ID)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to update maintenance plan")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresPlanRepository) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE maintenance_plans SET archived_at = now() WHERE id = $1 AND archived_at IS NULL
	`, planID)
	if err != nil {
		return errors.Wrap(err, "failed to delete maintenance plan")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresPlanRepository) ListPlans(ctx context.Context) ([]PlanRes, error) {
	plans := make([]PlanRes, 0)
	err := r.DB.SelectContext(ctx, &plans, `
		SELECT id, title, task, frequency, recur_interval, next_run_date, category_id, created_at
		FROM maintenance_plans
		WHERE archived_at IS NULL
		ORDER BY next_run_date ASC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list maintenance plans")
	}
	return plans, nil
}

func (r *PostgresPlanRepository) ListDuePlans(ctx context.Context, today time.Time) ([]PlanRes, error) {
	plans := make([]PlanRes, 0)
	err := r.DB.SelectContext(ctx, &plans, `
		SELECT id, title, task, frequency, recur_interval, next_run_date, category_id, created_at
		FROM maintenance_plans
		WHERE archived_at IS NULL AND next_run_date <= $1
		ORDER BY next_run_date ASC
	`, today)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list due maintenance plans")
	}
	return plans, nil
}

// ListPlanAssetsTx returns the non-retired assets of the plan's category;
// retired assets are filtered here, not re-checked at creation time.
func (r *PostgresPlanRepository) ListPlanAssetsTx(ctx context.Context, tx *sqlx.Tx, categoryID uuid.UUID) ([]planAsset, error) {
	assets := make([]planAsset, 0)
	err := tx.SelectContext(ctx, &assets, `
		SELECT id, status, version FROM assets
		WHERE category_id = $1 AND status != 'retired' AND archived_at IS NULL
	`, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assets for plan")
	}
	return assets, nil
}

// AdvanceNextRunTx moves the plan forward by exactly the step the caller
// computed; the from predicate keeps a racing firing from advancing twice.
func (r *PostgresPlanRepository) AdvanceNextRunTx(ctx context.Context, tx *sqlx.Tx, planID uuid.UUID, from, to time.Time) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE maintenance_plans SET next_run_date = $1
		WHERE id = $2 AND next_run_date = $3 AND archived_at IS NULL
	`, to, planID, from)
	if err != nil {
		return errors.Wrap(err, "failed to advance plan date")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrConcurrencyConflict
	}
	return nil
}

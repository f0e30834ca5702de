package workorderservice

import (
	"activos/models"
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type WorkOrderRepository interface {
	CreateWorkOrderTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID, description string, reportedBy uuid.UUID) (uuid.UUID, error)
	GetWorkOrderTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID) (WorkOrderRes, error)
	AssignTechnicianTx(ctx context.Context, tx *sqlx.Tx, workOrderID, technicianID uuid.UUID, version int) error
	SetStatusTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID, to models.WorkOrderStatus, version int) error
	AddCommentTx(ctx context.Context, tx *sqlx.Tx, workOrderID, authorID uuid.UUID, body string) error
	AddCostTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID, description string, amount decimal.Decimal, createdBy uuid.UUID) (uuid.UUID, error)
	CountOtherUnresolvedTx(ctx context.Context, tx *sqlx.Tx, assetID, excludeID uuid.UUID) (int, error)
	ListWithFilters(ctx context.Context, filter WorkOrderFilter) ([]WorkOrderRes, error)
	GetWorkOrderDetail(ctx context.Context, workOrderID uuid.UUID) (WorkOrderDetailRes, error)
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
}

type PostgresWorkOrderRepository struct {
	DB *sqlx.DB
}

func NewWorkOrderRepository(db *sqlx.DB) WorkOrderRepository {
	return &PostgresWorkOrderRepository{DB: db}
}

func (r *PostgresWorkOrderRepository) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return r.DB.BeginTxx(ctx, nil)
}

func (r *PostgresWorkOrderRepository) CreateWorkOrderTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID, description string, reportedBy uuid.UUID) (uuid.UUID, error) {
	var workOrderID uuid.UUID
	err := tx.GetContext(ctx, &workOrderID, `
		INSERT INTO work_orders (asset_id, description, reported_by)
		VALUES ($1, $2, $3)
		RETURNING id
	`, assetID, description, reportedBy)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to insert work order")
	}
	return workOrderID, nil
}

func (r *PostgresWorkOrderRepository) GetWorkOrderTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID) (WorkOrderRes, error) {
	var order WorkOrderRes
	err := tx.GetContext(ctx, &order, `
		SELECT id, asset_id, description, status, reported_by, technician_id, version, created_at
		FROM work_orders
		WHERE id = $1
	`, workOrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return order, models.ErrNotFound
		}
		return order, errors.Wrap(err, "failed to fetch work order")
	}
	return order, nil
}

func (r *PostgresWorkOrderRepository) AssignTechnicianTx(ctx context.Context, tx *sqlx.Tx, workOrderID, technicianID uuid.UUID, version int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE work_orders SET technician_id = $1, status = 'assigned', version = version + 1
		WHERE id = $2 AND version = $3
	`, technicianID, workOrderID, version)
	if err != nil {
		return errors.Wrap(err, "failed to assign technician")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrConcurrencyConflict
	}
	return nil
}

func (r *PostgresWorkOrderRepository) SetStatusTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID, to models.WorkOrderStatus, version int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE work_orders SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3
	`, to, workOrderID, version)
	if err != nil {
		return errors.Wrap(err, "failed to update work order status")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrConcurrencyConflict
	}
	return nil
}

func (r *PostgresWorkOrderRepository) AddCommentTx(ctx context.Context, tx *sqlx.Tx, workOrderID, authorID uuid.UUID, body string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO work_order_comments (work_order_id, author_id, body)
		VALUES ($1, $2, $3)
	`, workOrderID, authorID, body)
	if err != nil {
		return errors.Wrap(err, "failed to append comment")
	}
	return nil
}

func (r *PostgresWorkOrderRepository) AddCostTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID, description string, amount decimal.Decimal, createdBy uuid.UUID) (uuid.UUID, error) {
	var costID uuid.UUID
	err := tx.GetContext(ctx, &costID, `
		INSERT INTO maintenance_costs (work_order_id, description, amount, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, workOrderID, description, amount, createdBy)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to insert maintenance cost")
	}
	return costID, nil
}

// CountOtherUnresolvedTx backs the "last order wins" rule on resolve.
func (r *PostgresWorkOrderRepository) CountOtherUnresolvedTx(ctx context.Context, tx *sqlx.Tx, assetID, excludeID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, `
		SELECT count(*) FROM work_orders
		WHERE asset_id = $1 AND id != $2 AND status NOT IN ('resolved', 'closed')
	`, assetID, excludeID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count unresolved work orders")
	}
	return count, nil
}

func (r *PostgresWorkOrderRepository) ListWithFilters(ctx context.Context, filter WorkOrderFilter) ([]WorkOrderRes, error) {
	args := []interface{}{
		filter.AssetID,
		pq.Array(filter.Status),
		filter.Technician,
		filter.Reporter,
		filter.Limit,
		filter.Offset,
	}

	query := `
		SELECT id, asset_id, description, status, reported_by, technician_id, version, created_at
		FROM work_orders
		WHERE ($1::uuid IS NULL OR asset_id = $1)
		AND ($2::text[] IS NULL OR status::text = ANY($2))
		AND ($3::uuid IS NULL OR technician_id = $3)
		AND ($4::uuid IS NULL OR reported_by = $4)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`

	orders := make([]WorkOrderRes, 0)
	err := r.DB.SelectContext(ctx, &orders, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch work orders")
	}
	return orders, nil
}

func (r *PostgresWorkOrderRepository) GetWorkOrderDetail(ctx context.Context, workOrderID uuid.UUID) (detail WorkOrderDetailRes, err error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return detail, errors.Wrap(err, "failed to begin transaction")
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

	err = tx.GetContext(ctx, &detail.WorkOrderRes, `
		SELECT id, asset_id, description, status, reported_by, technician_id, version, created_at
		FROM work_orders
		WHERE id = $1
	`, workOrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return detail, models.ErrNotFound
		}
		return detail, errors.Wrap(err, "failed to fetch work order")
	}

	detail.Comments = make([]WorkOrderCommentRes, 0)
	err = tx.SelectContext(ctx, &detail.Comments, `
		SELECT id, author_id, body, created_at
		FROM work_order_comments
		WHERE work_order_id = $1
		ORDER BY created_at ASC
	`, workOrderID)
	if err != nil {
		return detail, errors.Wrap(err, "failed to fetch work order comments")
	}

	detail.Costs = make([]MaintenanceCostRes, 0)
	err = tx.SelectContext(ctx, &detail.Costs, `
		SELECT id, description, amount, created_by, created_at
		FROM maintenance_costs
		WHERE work_order_id = $1
		ORDER BY created_at ASC
	`, workOrderID)
	if err != nil {
		return detail, errors.Wrap(err, "failed to fetch maintenance costs")
	}

	var invoiceID uuid.UUID
	err = tx.GetContext(ctx, &invoiceID, `
		SELECT id FROM invoices WHERE work_order_id = $1
	`, workOrderID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return detail, errors.Wrap(err, "failed to fetch invoice reference")
		}
		err = nil
	} else {
		detail.InvoiceID = &invoiceID
	}

	return detail, nil
}

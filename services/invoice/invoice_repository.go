package invoiceservice

import (
	"context"
	"database/sql"

	"activos/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type InvoiceRepository interface {
	GetWorkOrderStatusTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID) (models.WorkOrderStatus, error)
	HasInvoiceTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID) (bool, error)
	SumCostsTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID) (decimal.Decimal, int, error)
	CreateInvoiceTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID, total decimal.Decimal) (uuid.UUID, error)
	GetInvoiceTx(ctx context.Context, tx *sqlx.Tx, invoiceID uuid.UUID) (InvoiceRes, error)
	MarkPaidTx(ctx context.Context, tx *sqlx.Tx, invoiceID uuid.UUID, method, externalID string, version int) error
	GetInvoiceByID(ctx context.Context, invoiceID uuid.UUID) (InvoiceRes, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]InvoiceRes, error)
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
}

type PostgresInvoiceRepository struct {
	DB *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) InvoiceRepository {
	return &PostgresInvoiceRepository{DB: db}
}

func (r *PostgresInvoiceRepository) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return r.DB.BeginTxx(ctx, nil)
}

func (r *PostgresInvoiceRepository) GetWorkOrderStatusTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID) (models.WorkOrderStatus, error) {
	var status models.WorkOrderStatus
	err := tx.GetContext(ctx, &status, `
		SELECT status
		FROM work_orders
		WHERE id = $1`, workOrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.ErrNotFound
		}
		return "", errors.Wrap(err, "failed to get work order status")
	}
	return status, nil
}

func (r *PostgresInvoiceRepository) HasInvoiceTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID) (bool, error) {
	var count int
	err := tx.GetContext(ctx, &count, `
		SELECT count(*)
		FROM invoices
		WHERE work_order_id = $1`, workOrderID)
	if err != nil {
		return false, errors.Wrap(err, "failed to check existing invoice")
	}
	return count > 0, nil
}

func (r *PostgresInvoiceRepository) SumCostsTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID) (decimal.Decimal, int, error) {
	var row struct {
		Total decimal.Decimal `db:"total"`
		Count int             `db:"count"`
	}
	err := tx.GetContext(ctx, &row, `
		SELECT COALESCE(sum(amount), 0) AS total, count(*) AS count
		FROM maintenance_costs
		WHERE work_order_id = $1`, workOrderID)
	if err != nil {
		return decimal.Zero, 0, errors.Wrap(err, "failed to sum maintenance costs")
	}
	return row.Total, row.Count, nil
}

func (r *PostgresInvoiceRepository) CreateInvoiceTx(ctx context.Context, tx *sqlx.Tx, workOrderID uuid.UUID, total decimal.Decimal) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.GetContext(ctx, &id, `
		INSERT INTO invoices (work_order_id, total_amount, status)
		VALUES ($1, $2, 'pending_payment')
		RETURNING id`, workOrderID, total)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to create invoice")
	}
	return id, nil
}

func (r *PostgresInvoiceRepository) GetInvoiceTx(ctx context.Context, tx *sqlx.Tx, invoiceID uuid.UUID) (InvoiceRes, error) {
	var inv InvoiceRes
	err := tx.GetContext(ctx, &inv, `
		SELECT id, work_order_id, issued_at, total_amount, status, payment_method, external_payment_id, version
		FROM invoices
		WHERE id = $1`, invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return InvoiceRes{}, models.ErrNotFound
		}
		return InvoiceRes{}, errors.Wrap(err, "failed to get invoice")
	}
	return inv, nil
}

func (r *PostgresInvoiceRepository) MarkPaidTx(ctx context.Context, tx *sqlx.Tx, invoiceID uuid.UUID, method, externalID string, version int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE invoices
		SET status = 'paid',
		    payment_method = $1,
		    external_payment_id = $2,
		    version = version + 1
		WHERE id = $3 AND version = $4`, method, externalID, invoiceID, version)
	if err != nil {
		return errors.Wrap(err, "failed to mark invoice paid")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return models.ErrConcurrencyConflict
	}
	return nil
}

func (r *PostgresInvoiceRepository) GetInvoiceByID(ctx context.Context, invoiceID uuid.UUID) (InvoiceRes, error) {
	var inv InvoiceRes
	err := r.DB.GetContext(ctx, &inv, `
		SELECT id, work_order_id, issued_at, total_amount, status, payment_method, external_payment_id, version
		FROM invoices
		WHERE id = $1`, invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return InvoiceRes{}, models.ErrNotFound
		}
		return InvoiceRes{}, errors.Wrap(err, "failed to get invoice")
	}
	return inv, nil
}

func (r *PostgresInvoiceRepository) ListInvoices(ctx context.Context, limit, offset int) ([]InvoiceRes, error) {
	invoices := []InvoiceRes{}
	err := r.DB.SelectContext(ctx, &invoices, `
		SELECT id, work_order_id, issued_at, total_amount, status, payment_method, external_payment_id, version
		FROM invoices
		ORDER BY issued_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list invoices")
	}
	return invoices, nil
}

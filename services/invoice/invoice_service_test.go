package invoiceservice

import (
	"context"
	"testing"
	"time"

	"activos/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockService(t *testing.T) (InvoiceService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewInvoiceService(NewInvoiceRepository(sqlx.NewDb(db, "postgres"))), mock
}

func TestGenerateInvoice(t *testing.T) {
	ctx := context.Background()
	workOrderID := uuid.New()
	invoiceID := uuid.New()

	tests := []struct {
		name        string
		mockSetup   func(mock sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "snapshots the cost total of a resolved order",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status\s+FROM work_orders`).
					WithArgs(workOrderID).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("resolved"))
				mock.ExpectQuery(`SELECT count\(\*\)\s+FROM invoices`).
					WithArgs(workOrderID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(`SELECT COALESCE\(sum\(amount\), 0\) AS total, count\(\*\) AS count`).
					WithArgs(workOrderID).
					WillReturnRows(sqlmock.NewRows([]string{"total", "count"}).AddRow("169.99", 2))
				mock.ExpectQuery(`INSERT INTO invoices`).
					WithArgs(workOrderID, decimal.RequireFromString("169.99")).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(invoiceID))
				mock.ExpectCommit()
			},
		},
		{
			name: "rejects an unresolved order",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status\s+FROM work_orders`).
					WithArgs(workOrderID).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("in_progress"))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrNotResolved,
		},
		{
			name: "rejects a second invoice for the same order",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status\s+FROM work_orders`).
					WithArgs(workOrderID).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("resolved"))
				mock.ExpectQuery(`SELECT count\(\*\)\s+FROM invoices`).
					WithArgs(workOrderID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrAlreadyInvoiced,
		},
		{
			name: "rejects an order with no recorded costs",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status\s+FROM work_orders`).
					WithArgs(workOrderID).
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("resolved"))
				mock.ExpectQuery(`SELECT count\(\*\)\s+FROM invoices`).
					WithArgs(workOrderID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(`SELECT COALESCE\(sum\(amount\), 0\) AS total, count\(\*\) AS count`).
					WithArgs(workOrderID).
					WillReturnRows(sqlmock.NewRows([]string{"total", "count"}).AddRow("0", 0))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrNoCosts,
		},
		{
			name: "unknown work order",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status\s+FROM work_orders`).
					WithArgs(workOrderID).
					WillReturnRows(sqlmock.NewRows([]string{"status"}))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, mock := newMockService(t)
			tc.mockSetup(mock)

			gotID, err := service.GenerateInvoice(ctx, workOrderID)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, invoiceID, gotID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMarkPaid(t *testing.T) {
	ctx := context.Background()
	workOrderID := uuid.New()
	invoiceID := uuid.New()

	invoiceRow := func(status string, version int) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "work_order_id", "issued_at", "total_amount", "status", "payment_method", "external_payment_id", "version"}).
			AddRow(invoiceID, workOrderID, time.Now(), "169.99", status, nil, nil, version)
	}

	t.Run("records a payment", func(t *testing.T) {
		service, mock := newMockService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, work_order_id, issued_at, total_amount, status`).
			WithArgs(invoiceID).
			WillReturnRows(invoiceRow("pending_payment", 1))
		mock.ExpectExec(`UPDATE invoices\s+SET status = 'paid'`).
			WithArgs("card", "txn_8841", invoiceID, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := service.MarkPaid(ctx, invoiceID, "card", "txn_8841")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("marking twice is a no-op", func(t *testing.T) {
		service, mock := newMockService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, work_order_id, issued_at, total_amount, status`).
			WithArgs(invoiceID).
			WillReturnRows(invoiceRow("paid", 2))
		mock.ExpectCommit()

		err := service.MarkPaid(ctx, invoiceID, "card", "txn_8841")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent payment loses the version race", func(t *testing.T) {
		service, mock := newMockService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, work_order_id, issued_at, total_amount, status`).
			WithArgs(invoiceID).
			WillReturnRows(invoiceRow("pending_payment", 1))
		mock.ExpectExec(`UPDATE invoices\s+SET status = 'paid'`).
			WithArgs("card", "txn_8841", invoiceID, 1).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := service.MarkPaid(ctx, invoiceID, "card", "txn_8841")
		assert.ErrorIs(t, err, models.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown invoice", func(t *testing.T) {
		service, mock := newMockService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, work_order_id, issued_at, total_amount, status`).
			WithArgs(invoiceID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := service.MarkPaid(ctx, invoiceID, "card", "txn_8841")
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

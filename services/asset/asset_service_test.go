package assetservice

import (
	"context"
	"testing"

	"activos/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (AssetRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAssetRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestCreateAssetRejectsNegativeCost(t *testing.T) {
	repo, mock := newMockRepo(t)
	service := NewAssetService(repo)

	_, err := service.CreateAsset(context.Background(), AssetReq{
		Code: "LT-001",
		Name: "ThinkPad",
		Cost: decimal.NewFromInt(-5),
	}, uuid.New())

	assert.ErrorIs(t, err, models.ErrInvalidAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetireAsset(t *testing.T) {
	ctx := context.Background()
	assetID := uuid.New()

	tests := []struct {
		name        string
		mockSetup   func(mock sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "retires an idle asset",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status, version FROM assets WHERE id = \$1`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"status", "version"}).AddRow("available", 3))
				mock.ExpectQuery(`SELECT count\(\*\) FROM assignments`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(`SELECT count\(\*\) FROM work_orders`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectExec(`UPDATE assets SET status = \$1, version = version \+ 1`).
					WithArgs(models.AssetRetired, assetID, 3).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "retiring twice is a no-op",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status, version FROM assets WHERE id = \$1`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"status", "version"}).AddRow("retired", 5))
				mock.ExpectCommit()
			},
		},
		{
			name: "blocked while checked out",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status, version FROM assets WHERE id = \$1`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"status", "version"}).AddRow("assigned", 2))
				mock.ExpectQuery(`SELECT count\(\*\) FROM assignments`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
				mock.ExpectQuery(`SELECT count\(\*\) FROM work_orders`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrAssetInUse,
		},
		{
			name: "blocked while a work order is unfinished",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status, version FROM assets WHERE id = \$1`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"status", "version"}).AddRow("in_maintenance", 4))
				mock.ExpectQuery(`SELECT count\(\*\) FROM assignments`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectQuery(`SELECT count\(\*\) FROM work_orders`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrAssetInUse,
		},
		{
			name: "unknown asset",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status, version FROM assets WHERE id = \$1`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"status", "version"}))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			tc.mockSetup(mock)

			service := NewAssetService(repo)
			err := service.RetireAsset(ctx, assetID)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSetStatusTxStaleVersion(t *testing.T) {
	repo, mock := newMockRepo(t)
	assetID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE assets SET status = \$1, version = version \+ 1`).
		WithArgs(models.AssetAssigned, assetID, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := repo.BeginTxx(context.Background())
	require.NoError(t, err)

	err = repo.SetStatusTx(context.Background(), tx, assetID, models.AssetAssigned, 7)
	assert.ErrorIs(t, err, models.ErrConcurrencyConflict)
}

package assignmentservice

import (
	"context"
	"testing"
	"time"

	"activos/models"
	assetservice "activos/services/asset"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockService(t *testing.T) (AssignmentService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewAssignmentService(NewAssignmentRepository(sqlxDB), assetservice.NewAssetRepository(sqlxDB)), mock
}

func TestCheckOut(t *testing.T) {
	ctx := context.Background()
	assetID := uuid.New()
	userID := uuid.New()
	actorID := uuid.New()
	assignmentID := uuid.New()

	tests := []struct {
		name        string
		mockSetup   func(mock sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name: "checks out an available asset",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status, version FROM assets WHERE id = \$1`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"status", "version"}).AddRow("available", 1))
				mock.ExpectQuery(`INSERT INTO assignments`).
					WithArgs(assetID, userID, actorID).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(assignmentID))
				mock.ExpectExec(`UPDATE assets SET status = \$1, version = version \+ 1`).
					WithArgs(models.AssetAssigned, assetID, 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "rejects an already assigned asset",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status, version FROM assets WHERE id = \$1`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"status", "version"}).AddRow("assigned", 2))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrAssetNotAvailable,
		},
		{
			name: "rejects an asset in maintenance",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status, version FROM assets WHERE id = \$1`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"status", "version"}).AddRow("in_maintenance", 2))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrAssetNotAvailable,
		},
		{
			name: "concurrent checkout loses the version race",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT status, version FROM assets WHERE id = \$1`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"status", "version"}).AddRow("available", 1))
				mock.ExpectQuery(`INSERT INTO assignments`).
					WithArgs(assetID, userID, actorID).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(assignmentID))
				mock.ExpectExec(`UPDATE assets SET status = \$1, version = version \+ 1`).
					WithArgs(models.AssetAssigned, assetID, 1).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrConcurrencyConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, mock := newMockService(t)
			tc.mockSetup(mock)

			gotID, err := service.CheckOut(ctx, assetID, userID, actorID)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, assignmentID, gotID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCheckIn(t *testing.T) {
	ctx := context.Background()
	assetID := uuid.New()
	userID := uuid.New()
	actorID := uuid.New()
	assignmentID := uuid.New()
	assignedAt := time.Now().Add(-24 * time.Hour)

	openAssignmentRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "asset_id", "user_id", "assigned_by", "assigned_at", "returned_at", "return_outcome"}).
			AddRow(assignmentID, assetID, userID, actorID, assignedAt, nil, nil)
	}

	tests := []struct {
		name        string
		outcome     models.ReturnOutcome
		mockSetup   func(mock sqlmock.Sqlmock)
		expectedErr error
	}{
		{
			name:    "functional return frees the asset",
			outcome: models.ReturnFunctional,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT id, asset_id, user_id, assigned_by, assigned_at, returned_at, return_outcome`).
					WithArgs(assignmentID).
					WillReturnRows(openAssignmentRows())
				mock.ExpectExec(`UPDATE assignments SET returned_at = now\(\), return_outcome = \$1`).
					WithArgs(models.ReturnFunctional, assignmentID).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT status, version FROM assets WHERE id = \$1`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"status", "version"}).AddRow("assigned", 2))
				mock.ExpectExec(`UPDATE assets SET status = \$1, version = version \+ 1`).
					WithArgs(models.AssetAvailable, assetID, 2).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:    "damaged return sends the asset to maintenance",
			outcome: models.ReturnDamaged,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT id, asset_id, user_id, assigned_by, assigned_at, returned_at, return_outcome`).
					WithArgs(assignmentID).
					WillReturnRows(openAssignmentRows())
				mock.ExpectExec(`UPDATE assignments SET returned_at = now\(\), return_outcome = \$1`).
					WithArgs(models.ReturnDamaged, assignmentID).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT status, version FROM assets WHERE id = \$1`).
					WithArgs(assetID).
					WillReturnRows(sqlmock.NewRows([]string{"status", "version"}).AddRow("assigned", 2))
				mock.ExpectExec(`UPDATE assets SET status = \$1, version = version \+ 1`).
					WithArgs(models.AssetInMaintenance, assetID, 2).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name:    "rejects a second check-in",
			outcome: models.ReturnFunctional,
			mockSetup: func(mock sqlmock.Sqlmock) {
				returned := time.Now()
				outcome := "functional"
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT id, asset_id, user_id, assigned_by, assigned_at, returned_at, return_outcome`).
					WithArgs(assignmentID).
					WillReturnRows(sqlmock.NewRows([]string{"id", "asset_id", "user_id", "assigned_by", "assigned_at", "returned_at", "return_outcome"}).
						AddRow(assignmentID, assetID, userID, actorID, assignedAt, returned, outcome))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrNoOpenAssignment,
		},
		{
			name:    "unknown assignment",
			outcome: models.ReturnFunctional,
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT id, asset_id, user_id, assigned_by, assigned_at, returned_at, return_outcome`).
					WithArgs(assignmentID).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
				mock.ExpectRollback()
			},
			expectedErr: models.ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, mock := newMockService(t)
			tc.mockSetup(mock)

			gotAssetID, err := service.CheckIn(ctx, assignmentID, tc.outcome)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, assetID, gotAssetID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

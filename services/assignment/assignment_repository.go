package assignmentservice

import (
	"activos/models"
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type AssignmentRepository interface {
	CreateAssignmentTx(ctx context.Context, tx *sqlx.Tx, assetID, userID, assignedBy uuid.UUID) (uuid.UUID, error)
	GetAssignmentTx(ctx context.Context, tx *sqlx.Tx, assignmentID uuid.UUID) (AssignmentRes, error)
	CloseAssignmentTx(ctx context.Context, tx *sqlx.Tx, assignmentID uuid.UUID, outcome models.ReturnOutcome) error
	ListAssignmentsByAsset(ctx context.Context, assetID uuid.UUID) ([]AssignmentRes, error)
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
}

type PostgresAssignmentRepository struct {
	DB *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) AssignmentRepository {
	return &PostgresAssignmentRepository{DB: db}
}

func (r *PostgresAssignmentRepository) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return r.DB.BeginTxx(ctx, nil)
}

func (r *PostgresAssignmentRepository) CreateAssignmentTx(ctx context.Context, tx *sqlx.Tx, assetID, userID, assignedBy uuid.UUID) (uuid.UUID, error) {
	var assignmentID uuid.UUID
	err := tx.GetContext(ctx, &assignmentID, `
		INSERT INTO assignments (asset_id, user_id, assigned_by)
		VALUES ($1, $2, $3)
		RETURNING id
	`, assetID, userID, assignedBy)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to insert assignment")
	}
	return assignmentID, nil
}

func (r *PostgresAssignmentRepository) GetAssignmentTx(ctx context.Context, tx *sqlx.Tx, assignmentID uuid.UUID) (AssignmentRes, error) {
	var assignment AssignmentRes
	err := tx.GetContext(ctx, &assignment, `
		SELECT id, asset_id, user_id, assigned_by, assigned_at, returned_at, return_outcome
		FROM assignments
		WHERE id = $1
	`, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return assignment, models.ErrNotFound
		}
		return assignment, errors.Wrap(err, "failed to fetch assignment")
	}
	return assignment, nil
}

func (r *PostgresAssignmentRepository) CloseAssignmentTx(ctx context.Context, tx *sqlx.Tx, assignmentID uuid.UUID, outcome models.ReturnOutcome) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE assignments SET returned_at = now(), return_outcome = $1
		WHERE id = $2 AND returned_at IS NULL
	`, outcome, assignmentID)
	if err != nil {
		return errors.Wrap(err, "failed to close assignment")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrNoOpenAssignment
	}
	return nil
}

func (r *PostgresAssignmentRepository) ListAssignmentsByAsset(ctx context.Context, assetID uuid.UUID) ([]AssignmentRes, error) {
	assignments := make([]AssignmentRes, 0)
	err := r.DB.SelectContext(ctx, &assignments, `
		SELECT id, asset_id, user_id, assigned_by, assigned_at, returned_at, return_outcome
		FROM assignments
		WHERE asset_id = $1
		ORDER BY assigned_at DESC
	`, assetID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assignments")
	}
	return assignments, nil
}

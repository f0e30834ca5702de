package assetservice

import (
	"activos/models"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

type AssetRepository interface {
	CreateAsset(ctx context.Context, req AssetReq, createdBy uuid.UUID) (uuid.UUID, error)
	UpdateAssetInfo(ctx context.Context, req UpdateAssetReq) error
	GetAssetByID(ctx context.Context, assetID uuid.UUID) (AssetRes, error)
	GetStatusTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID) (models.AssetStatus, int, error)
	SetStatusTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID, to models.AssetStatus, version int) error
	CountOpenAssignmentsTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID) (int, error)
	CountOpenWorkOrdersTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID) (int, error)
	SearchAssetsWithFilter(ctx context.Context, filter AssetFilter) ([]AssetRes, error)
	GetAssetTimeline(ctx context.Context, assetID uuid.UUID) ([]AssetTimelineEvent, error)
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
}

type PostgresAssetRepository struct {
	DB *sqlx.DB
}

func NewAssetRepository(db *sqlx.DB) AssetRepository {
	return &PostgresAssetRepository{DB: db}
}

func (r *PostgresAssetRepository) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return r.DB.BeginTxx(ctx, nil)
}

func (r *PostgresAssetRepository) CreateAsset(ctx context.Context, req AssetReq, createdBy uuid.UUID) (uuid.UUID, error) {
	var assetID uuid.UUID
	err := r.DB.GetContext(ctx, &assetID, `
		INSERT INTO assets (code, name, model, serial_no, cost, purchase_date, vendor, category_id, location_id, created_by)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, $9, $10)
		RETURNING id
	`, req.Code, req.Name, req.Model, req.SerialNo, req.Cost, req.PurchaseDate, req.Vendor,
		req.CategoryID, req.LocationID, createdBy)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to insert asset")
	}
	return assetID, nil
}

// UpdateAssetInfo patches identity fields only; status never moves here.
func (r *PostgresAssetRepository) UpdateAssetInfo(ctx context.Context, req UpdateAssetReq) error {
	query := `UPDATE assets SET `
	args := []interface{}{}
	argPos := 1

	if req.Name != "" {
		query += fmt.Sprintf("name = $%d, ", argPos)
		args = append(args, req.Name)
		argPos++
	}
	if req.Model != "" {
		query += fmt.Sprintf("model = $%d, ", argPos)
		args = append(args, req.Model)
		argPos++
	}
	if req.SerialNo != "" {
		query += fmt.Sprintf("serial_no = $%d, ", argPos)
		args = append(args, req.SerialNo)
		argPos++
	}
	if req.Vendor != "" {
		query += fmt.Sprintf("vendor = $%d, ", argPos)
		args = append(args, req.Vendor)
		argPos++
	}
	if req.PurchaseDate != nil {
		query += fmt.Sprintf("purchase_date = $%d, ", argPos)
		args = append(args, req.PurchaseDate)
		argPos++
	}
	if req.CategoryID != nil {
		query += fmt.Sprintf("category_id = $%d, ", argPos)
		args = append(args, req.CategoryID)
		argPos++
	}
	if req.LocationID != nil {
		query += fmt.Sprintf("location_id = $%d, ", argPos)
		args = append(args, req.LocationID)
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
		return errors.Wrap(err, "failed to update asset")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresAssetRepository) GetAssetByID(ctx context.Context, assetID uuid.UUID) (AssetRes, error) {
	var asset AssetRes
	err := r.DB.GetContext(ctx, &asset, `
		SELECT id, code, name, model, serial_no, cost, purchase_date, vendor, status, category_id, location_id, version, created_at
		FROM assets
		WHERE id = $1 AND archived_at IS NULL
	`, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return asset, models.ErrNotFound
		}
		return asset, errors.Wrap(err, "failed to fetch asset")
	}
	return asset, nil
}

type statusRow struct {
	Status  models.AssetStatus `db:"status"`
	Version int                `db:"version"`
}

func (r *PostgresAssetRepository) GetStatusTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID) (models.AssetStatus, int, error) {
	var row statusRow
	err := tx.GetContext(ctx, &row, `
		SELECT status, version FROM assets WHERE id = $1 AND archived_at IS NULL
	`, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, models.ErrNotFound
		}
		return "", 0, errors.Wrap(err, "failed to fetch asset status")
	}
	return row.Status, row.Version, nil
}

// SetStatusTx is the single mutation point for asset status. The version
// predicate turns a stale write into ErrConcurrencyConflict instead of a
// silent overwrite.
func (r *PostgresAssetRepository) SetStatusTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID, to models.AssetStatus, version int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE assets SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3 AND archived_at IS NULL
	`, to, assetID, version)
	if err != nil {
		return errors.Wrap(err, "failed to update asset status")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrConcurrencyConflict
	}
	return nil
}

func (r *PostgresAssetRepository) CountOpenAssignmentsTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, `
		SELECT count(*) FROM assignments WHERE asset_id = $1 AND returned_at IS NULL
	`, assetID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count open assignments")
	}
	return count, nil
}

func (r *PostgresAssetRepository) CountOpenWorkOrdersTx(ctx context.Context, tx *sqlx.Tx, assetID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, `
		SELECT count(*) FROM work_orders
		WHERE asset_id = $1 AND status NOT IN ('resolved', 'closed')
	`, assetID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count open work orders")
	}
	return count, nil
}

func (r *PostgresAssetRepository) SearchAssetsWithFilter(ctx context.Context, filter AssetFilter) ([]AssetRes, error) {
	args := []interface{}{
		!filter.IsSearchText,
		filter.SearchText,
		pq.Array(filter.Status),
		pq.Array(filter.CategoryID),
		pq.Array(filter.LocationID),
		filter.Limit,
		filter.Offset,
	}

	query := `
		SELECT id, code, name, model, serial_no, cost, purchase_date, vendor, status, category_id, location_id, version, created_at
		FROM assets
		WHERE archived_at IS NULL
		AND (
			$1 OR (
				code ILIKE $2 OR
				name ILIKE $2 OR
				model ILIKE $2 OR
				serial_no ILIKE $2
			)
		)
		AND ($3::text[] IS NULL OR status::text = ANY($3))
		AND ($4::text[] IS NULL OR category_id::text = ANY($4))
		AND ($5::text[] IS NULL OR location_id::text = ANY($5))
		ORDER BY created_at DESC
		LIMIT $6 OFFSET $7
	`

	assets := make([]AssetRes, 0)
	err := r.DB.SelectContext(ctx, &assets, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch assets")
	}
	return assets, nil
}

func (r *PostgresAssetRepository) GetAssetTimeline(ctx context.Context, assetID uuid.UUID) ([]AssetTimelineEvent, error) {
	timeline := []AssetTimelineEvent{}

	query := `
		SELECT
			'assigned' AS event_type,
			assigned_at AS start_time,
			returned_at AS end_time,
			COALESCE('returned ' || return_outcome, 'currently assigned') AS details,
			asset_id
		FROM assignments
		WHERE asset_id = $1

		UNION ALL

		SELECT
			'work_order' AS event_type,
			created_at AS start_time,
			NULL AS end_time,
			description || ' (' || status || ')' AS details,
			asset_id
		FROM work_orders
		WHERE asset_id = $1

		ORDER BY start_time ASC
	`

	err := r.DB.SelectContext(ctx, &timeline, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset timeline: %w", err)
	}
	return timeline, nil
}

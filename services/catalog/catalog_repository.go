package catalogservice

import (
	"activos/models"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type CatalogRepository interface {
	CreateCategory(ctx context.Context, name string) (uuid.UUID, error)
	RenameCategory(ctx context.Context, id uuid.UUID, name string) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]CategoryRes, error)

	CreateLocation(ctx context.Context, name string) (uuid.UUID, error)
	RenameLocation(ctx context.Context, id uuid.UUID, name string) error
	DeleteLocation(ctx context.Context, id uuid.UUID) error
	ListLocations(ctx context.Context) ([]LocationRes, error)
}

type PostgresCatalogRepository struct {
	DB *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) CatalogRepository {
	return &PostgresCatalogRepository{DB: db}
}

func (r *PostgresCatalogRepository) CreateCategory(ctx context.Context, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.DB.GetContext(ctx, &id, `
		INSERT INTO categories (name) VALUES ($1) RETURNING id
	`, name)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to insert category")
	}
	return id, nil
}

func (r *PostgresCatalogRepository) RenameCategory(ctx context.Context, id uuid.UUID, name string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE categories SET name = $1 WHERE id = $2 AND archived_at IS NULL
	`, name, id)
	if err != nil {
		return errors.Wrap(err, "failed to rename category")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteCategory refuses to archive a category while live assets reference it.
func (r *PostgresCatalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
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

	var inUse int
	err = tx.GetContext(ctx, &inUse, `
		SELECT count(*) FROM assets WHERE category_id = $1 AND archived_at IS NULL
	`, id)
	if err != nil {
		return errors.Wrap(err, "failed to check category references")
	}
	if inUse > 0 {
		return models.ErrCategoryInUse
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE categories SET archived_at = now() WHERE id = $1 AND archived_at IS NULL
	`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete category")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresCatalogRepository) ListCategories(ctx context.Context) ([]CategoryRes, error) {
	categories := make([]CategoryRes, 0)
	err := r.DB.SelectContext(ctx, &categories, `
		SELECT id, name, created_at FROM categories
		WHERE archived_at IS NULL ORDER BY name
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	return categories, nil
}

func (r *PostgresCatalogRepository) CreateLocation(ctx context.Context, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.DB.GetContext(ctx, &id, `
		INSERT INTO locations (name) VALUES ($1) RETURNING id
	`, name)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to insert location")
	}
	return id, nil
}

func (r *PostgresCatalogRepository) RenameLocation(ctx context.Context, id uuid.UUID, name string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE locations SET name = $1 WHERE id = $2 AND archived_at IS NULL
	`, name, id)
	if err != nil {
		return errors.Wrap(err, "failed to rename location")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresCatalogRepository) DeleteLocation(ctx context.Context, id uuid.UUID) (err error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
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

	var inUse int
	err = tx.GetContext(ctx, &inUse, `
		SELECT count(*) FROM assets WHERE location_id = $1 AND archived_at IS NULL
	`, id)
	if err != nil {
		return errors.Wrap(err, "failed to check location references")
	}
	if inUse > 0 {
		return models.ErrLocationInUse
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE locations SET archived_at = now() WHERE id = $1 AND archived_at IS NULL
	`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete location")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresCatalogRepository) ListLocations(ctx context.Context) ([]LocationRes, error) {
	locations := make([]LocationRes, 0)
	err := r.DB.SelectContext(ctx, &locations, `
		SELECT id, name, created_at FROM locations
		WHERE archived_at IS NULL ORDER BY name
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list locations")
	}
	return locations, nil
}

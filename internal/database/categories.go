package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
)

// SeedCategories inserts any catalog categories that are not stored yet
func (db *DB) SeedCategories(ctx context.Context, categories []model.Category) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range categories {
		_, err := tx.NamedExecContext(ctx,
			`INSERT OR IGNORE INTO categories (id, name, reference_value, unit, type)
			 VALUES (:id, :name, :reference_value, :unit, :type)`, c)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListCategories returns all stored categories in id order
func (db *DB) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := db.SelectContext(ctx, &categories,
		"SELECT id, name, reference_value, unit, type FROM categories ORDER BY id")
	return categories, err
}

// GetCategory returns a single category by id
func (db *DB) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	err := db.GetContext(ctx, &c,
		"SELECT id, name, reference_value, unit, type FROM categories WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

package db

import (
	"context"

	"eventhub/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateCategory(category models.Category) error {
	_, err := d.Bun.NewInsert().Model(&category).Exec(context.Background())
	return err
}

func (d *DB) GetAllCategories() ([]models.Category, error) {
	var categories []models.Category
	err := d.Bun.NewSelect().
		Model(&categories).
		Order("name ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryByName matches the name case-insensitively.
func (d *DB) GetCategoryByName(name string) (*models.Category, error) {
	var category models.Category
	err := d.Bun.NewSelect().
		Model(&category).
		Where("LOWER(name) = LOWER(?)", name).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &category, nil
}

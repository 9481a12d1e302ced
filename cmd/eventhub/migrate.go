package main

import (
	"context"

	"eventhub/internal/models"

	"github.com/uptrace/bun"
)

// bootstrapSchema creates the tables straight from the models and seeds
// the default categories. Dev fallback for checkouts without the SQL
// migration files; production schemas go through the migrations runner.
func bootstrapSchema(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Category)(nil),
		(*models.Event)(nil),
		(*models.Order)(nil),
	}

	for _, table := range tables {
		if _, err := db.NewCreateTable().
			Model(table).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	seed := []models.Category{
		{ID: "0a2b3c4d-0001-4000-8000-000000000001", Name: "Music"},
		{ID: "0a2b3c4d-0001-4000-8000-000000000002", Name: "Tech"},
		{ID: "0a2b3c4d-0001-4000-8000-000000000003", Name: "Sports"},
		{ID: "0a2b3c4d-0001-4000-8000-000000000004", Name: "Arts"},
		{ID: "0a2b3c4d-0001-4000-8000-000000000005", Name: "Food"},
	}

	_, err := db.NewInsert().
		Model(&seed).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	return err
}

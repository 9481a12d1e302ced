package db

import (
	"context"
	"database/sql"

	"eventhub/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateUser(user models.User) error {
	_, err := d.Bun.NewInsert().Model(&user).Exec(context.Background())
	return err
}

func (d *DB) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DB) GetUserByAuthID(authID string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("auth_id = ?", authID).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DB) UpdateUser(user models.User) error {
	_, err := d.Bun.NewUpdate().
		Model(&user).
		Column("username", "first_name", "last_name", "photo").
		Where("id = ?", user.ID).
		Exec(context.Background())
	return err
}

// DeleteUserCascade removes a user together with every row that points
// back at them: their own orders, the orders placed on events they
// organize, and those events. Runs in one transaction.
func (d *DB) DeleteUserCascade(id string) error {
	ctx := context.Background()
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.Order)(nil)).
			Where("buyer_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		organized := tx.NewSelect().
			Model((*models.Event)(nil)).
			Column("id").
			Where("organizer_id = ?", id)

		if _, err := tx.NewDelete().
			Model((*models.Order)(nil)).
			Where("event_id IN (?)", organized).
			Exec(ctx); err != nil {
			return err
		}

		if _, err := tx.NewDelete().
			Model((*models.Event)(nil)).
			Where("organizer_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewDelete().
			Model((*models.User)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
}

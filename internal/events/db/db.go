package db

import (
	"context"
	"database/sql"
	"strings"

	"eventhub/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateEvent(event models.Event) error {
	_, err := d.Bun.NewInsert().Model(&event).Exec(context.Background())
	return err
}

// GetEventByID resolves the organizer and category rows along with the
// event.
func (d *DB) GetEventByID(id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Relation("Category").
		Relation("Organizer").
		Where("event.id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEvent writes the editable columns, scoped to the organizer.
// Returns the number of rows touched so the caller can distinguish
// "not yours" from success.
func (d *DB) UpdateEvent(event models.Event) (int64, error) {
	res, err := d.Bun.NewUpdate().
		Model(&event).
		Column("title", "description", "location", "image_url", "start_at",
			"end_at", "price_cents", "is_free", "url", "category_id").
		Where("id = ?", event.ID).
		Where("organizer_id = ?", event.OrganizerID).
		Exec(context.Background())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteEvent removes the event and the orders referencing it, scoped to
// the organizer. Runs in one transaction.
func (d *DB) DeleteEvent(id, organizerID string) (int64, error) {
	var deleted int64
	ctx := context.Background()
	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		owned := tx.NewSelect().
			Model((*models.Event)(nil)).
			Column("id").
			Where("id = ?", id).
			Where("organizer_id = ?", organizerID)

		if _, err := tx.NewDelete().
			Model((*models.Order)(nil)).
			Where("event_id IN (?)", owned).
			Exec(ctx); err != nil {
			return err
		}

		res, err := tx.NewDelete().
			Model((*models.Event)(nil)).
			Where("id = ?", id).
			Where("organizer_id = ?", organizerID).
			Exec(ctx)
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}

// ListEvents returns a page of events plus the unpaginated match count.
// Search is a case-insensitive title substring; categoryID is optional.
func (d *DB) ListEvents(search, categoryID string, limit, offset int) ([]models.Event, int, error) {
	events := []models.Event{}
	q := d.Bun.NewSelect().
		Model(&events).
		Relation("Category").
		Relation("Organizer")

	if search != "" {
		q = q.Where("LOWER(event.title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if categoryID != "" {
		q = q.Where("event.category_id = ?", categoryID)
	}

	count, err := q.
		Order("event.created_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(context.Background())
	if err != nil {
		return nil, 0, err
	}
	return events, count, nil
}

func (d *DB) ListEventsByOrganizer(organizerID string, limit, offset int) ([]models.Event, int, error) {
	events := []models.Event{}
	count, err := d.Bun.NewSelect().
		Model(&events).
		Relation("Category").
		Relation("Organizer").
		Where("event.organizer_id = ?", organizerID).
		Order("event.created_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(context.Background())
	if err != nil {
		return nil, 0, err
	}
	return events, count, nil
}

// ListRelatedEvents returns other events in the same category.
func (d *DB) ListRelatedEvents(categoryID, excludeEventID string, limit, offset int) ([]models.Event, int, error) {
	events := []models.Event{}
	count, err := d.Bun.NewSelect().
		Model(&events).
		Relation("Category").
		Relation("Organizer").
		Where("event.category_id = ?", categoryID).
		Where("event.id != ?", excludeEventID).
		Order("event.created_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(context.Background())
	if err != nil {
		return nil, 0, err
	}
	return events, count, nil
}

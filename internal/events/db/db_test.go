package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventhub/internal/events/db"
	"eventhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	for _, model := range []interface{}{
		(*models.User)(nil),
		(*models.Category)(nil),
		(*models.Event)(nil),
		(*models.Order)(nil),
	} {
		_, err = bunDB.NewCreateTable().Model(model).Exec(context.Background())
		if err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func seedOrganizer(t *testing.T, bunDB *bun.DB) string {
	organizer := models.User{
		ID:        uuid.New().String(),
		AuthID:    "auth|" + uuid.New().String(),
		Email:     uuid.New().String() + "@example.com",
		Username:  "organizer",
		FirstName: "Olive",
		LastName:  "Organizer",
		CreatedAt: time.Now(),
	}
	_, err := bunDB.NewInsert().Model(&organizer).Exec(context.Background())
	assert.NoError(t, err)
	return organizer.ID
}

func seedCategory(t *testing.T, bunDB *bun.DB, name string) string {
	category := models.Category{ID: uuid.New().String(), Name: name}
	_, err := bunDB.NewInsert().Model(&category).Exec(context.Background())
	assert.NoError(t, err)
	return category.ID
}

func TestCreateAndGetEvent(t *testing.T) {
	eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	organizerID := seedOrganizer(t, bunDB)
	categoryID := seedCategory(t, bunDB, "Music")

	eventID := uuid.New().String()
	err := eventDB.CreateEvent(models.Event{
		ID:          eventID,
		Title:       "Jazz Night",
		Description: "An evening of live jazz",
		Location:    "Blue Note",
		StartAt:     time.Now().Add(24 * time.Hour),
		EndAt:       time.Now().Add(27 * time.Hour),
		PriceCents:  2500,
		CategoryID:  categoryID,
		OrganizerID: organizerID,
		CreatedAt:   time.Now(),
	})
	assert.NoError(t, err)

	// Test case: Get resolves category and organizer relations
	event, err := eventDB.GetEventByID(eventID)
	assert.NoError(t, err)
	assert.NotNil(t, event)
	assert.Equal(t, "Jazz Night", event.Title)
	assert.NotNil(t, event.Category)
	assert.Equal(t, "Music", event.Category.Name)
	assert.NotNil(t, event.Organizer)
	assert.Equal(t, "Olive Organizer", event.Organizer.FullName())

	// Test case: Get non-existent event
	event, err = eventDB.GetEventByID("non-existent")
	assert.Error(t, err)
	assert.Nil(t, event)
}

func TestUpdateEventOrganizerScoped(t *testing.T) {
	eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	organizerID := seedOrganizer(t, bunDB)
	categoryID := seedCategory(t, bunDB, "Tech")

	eventID := uuid.New().String()
	event := models.Event{
		ID:          eventID,
		Title:       "Go Meetup",
		StartAt:     time.Now().Add(24 * time.Hour),
		EndAt:       time.Now().Add(26 * time.Hour),
		CategoryID:  categoryID,
		OrganizerID: organizerID,
		CreatedAt:   time.Now(),
	}
	assert.NoError(t, eventDB.CreateEvent(event))

	// Test case: Owner update succeeds
	event.Title = "Go Meetup (Rescheduled)"
	event.PriceCents = 500
	rows, err := eventDB.UpdateEvent(event)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	updated, err := eventDB.GetEventByID(eventID)
	assert.NoError(t, err)
	assert.Equal(t, "Go Meetup (Rescheduled)", updated.Title)
	assert.Equal(t, int64(500), updated.PriceCents)

	// Test case: Update from a different organizer touches nothing
	event.OrganizerID = "someone-else"
	event.Title = "Hijacked"
	rows, err = eventDB.UpdateEvent(event)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	unchanged, err := eventDB.GetEventByID(eventID)
	assert.NoError(t, err)
	assert.Equal(t, "Go Meetup (Rescheduled)", unchanged.Title)
}

func TestDeleteEventRemovesOrders(t *testing.T) {
	eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()
	ctx := context.Background()

	organizerID := seedOrganizer(t, bunDB)
	categoryID := seedCategory(t, bunDB, "Sports")

	eventID := uuid.New().String()
	assert.NoError(t, eventDB.CreateEvent(models.Event{
		ID:          eventID,
		Title:       "City Marathon",
		StartAt:     time.Now().Add(48 * time.Hour),
		EndAt:       time.Now().Add(54 * time.Hour),
		CategoryID:  categoryID,
		OrganizerID: organizerID,
		CreatedAt:   time.Now(),
	}))

	order := models.Order{
		ID: uuid.New().String(), StripeID: "cs_del", EventID: eventID,
		BuyerID: organizerID, AmountCents: 3000, CreatedAt: time.Now(),
	}
	_, err := bunDB.NewInsert().Model(&order).Exec(ctx)
	assert.NoError(t, err)

	// Test case: Delete from a different organizer is a no-op
	deleted, err := eventDB.DeleteEvent(eventID, "someone-else")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	orderCount, err := bunDB.NewSelect().Model((*models.Order)(nil)).Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, orderCount)

	// Test case: Owner delete removes the event and its orders
	deleted, err = eventDB.DeleteEvent(eventID, organizerID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	orderCount, err = bunDB.NewSelect().Model((*models.Order)(nil)).Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, orderCount)

	_, err = eventDB.GetEventByID(eventID)
	assert.Error(t, err)
}

func TestListEvents(t *testing.T) {
	eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	organizerID := seedOrganizer(t, bunDB)
	musicID := seedCategory(t, bunDB, "Music")
	techID := seedCategory(t, bunDB, "Tech")

	base := time.Now()
	fixtures := []models.Event{
		{ID: uuid.New().String(), Title: "Jazz Night", CategoryID: musicID, CreatedAt: base.Add(1 * time.Minute)},
		{ID: uuid.New().String(), Title: "Rock Festival", CategoryID: musicID, CreatedAt: base.Add(2 * time.Minute)},
		{ID: uuid.New().String(), Title: "Go Conference", CategoryID: techID, CreatedAt: base.Add(3 * time.Minute)},
	}
	for i := range fixtures {
		fixtures[i].StartAt = base.Add(24 * time.Hour)
		fixtures[i].EndAt = base.Add(26 * time.Hour)
		fixtures[i].OrganizerID = organizerID
		assert.NoError(t, eventDB.CreateEvent(fixtures[i]))
	}

	// Test case: No filters returns everything, newest first
	events, count, err := eventDB.ListEvents("", "", 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, "Go Conference", events[0].Title)
	assert.Equal(t, "Jazz Night", events[2].Title)

	// Test case: Case-insensitive title search
	events, count, err = eventDB.ListEvents("jazz", "", 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "Jazz Night", events[0].Title)

	// Test case: Category filter
	events, count, err = eventDB.ListEvents("", musicID, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	// Test case: Pagination keeps the full count
	events, count, err = eventDB.ListEvents("", "", 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, len(events))
	assert.Equal(t, "Jazz Night", events[0].Title)
}

func TestListEventsByOrganizerAndRelated(t *testing.T) {
	eventDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	organizerID := seedOrganizer(t, bunDB)
	otherID := seedOrganizer(t, bunDB)
	musicID := seedCategory(t, bunDB, "Music")

	base := time.Now()
	mine := models.Event{
		ID: uuid.New().String(), Title: "My Show", StartAt: base, EndAt: base.Add(time.Hour),
		CategoryID: musicID, OrganizerID: organizerID, CreatedAt: base,
	}
	sibling := models.Event{
		ID: uuid.New().String(), Title: "Sibling Show", StartAt: base, EndAt: base.Add(time.Hour),
		CategoryID: musicID, OrganizerID: otherID, CreatedAt: base.Add(time.Minute),
	}
	assert.NoError(t, eventDB.CreateEvent(mine))
	assert.NoError(t, eventDB.CreateEvent(sibling))

	// Test case: Only the organizer's own events come back
	events, count, err := eventDB.ListEventsByOrganizer(organizerID, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "My Show", events[0].Title)

	// Test case: Related excludes the event itself
	related, count, err := eventDB.ListRelatedEvents(musicID, mine.ID, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "Sibling Show", related[0].Title)
}

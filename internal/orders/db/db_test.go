package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventhub/internal/models"
	"eventhub/internal/orders/db"

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

type fixtures struct {
	eventID     string
	organizerID string
	aliceID     string
	bobID       string
}

func seedEventWithBuyers(t *testing.T, bunDB *bun.DB) fixtures {
	ctx := context.Background()

	users := []models.User{
		{ID: uuid.New().String(), AuthID: "auth|org", Email: "org@example.com", Username: "org", FirstName: "Olive", LastName: "Organizer", CreatedAt: time.Now()},
		{ID: uuid.New().String(), AuthID: "auth|alice", Email: "alice@example.com", Username: "alice", FirstName: "Alice", LastName: "Smith", CreatedAt: time.Now()},
		{ID: uuid.New().String(), AuthID: "auth|bob", Email: "bob@example.com", Username: "bob", FirstName: "Bob", LastName: "Jones", CreatedAt: time.Now()},
	}
	_, err := bunDB.NewInsert().Model(&users).Exec(ctx)
	assert.NoError(t, err)

	category := models.Category{ID: uuid.New().String(), Name: "Music"}
	_, err = bunDB.NewInsert().Model(&category).Exec(ctx)
	assert.NoError(t, err)

	event := models.Event{
		ID: uuid.New().String(), Title: "Jazz Night",
		StartAt: time.Now().Add(24 * time.Hour), EndAt: time.Now().Add(27 * time.Hour),
		CategoryID: category.ID, OrganizerID: users[0].ID, CreatedAt: time.Now(),
	}
	_, err = bunDB.NewInsert().Model(&event).Exec(ctx)
	assert.NoError(t, err)

	return fixtures{
		eventID:     event.ID,
		organizerID: users[0].ID,
		aliceID:     users[1].ID,
		bobID:       users[2].ID,
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	f := seedEventWithBuyers(t, bunDB)

	orderID := uuid.New().String()
	err := orderDB.CreateOrder(models.Order{
		ID:          orderID,
		StripeID:    "cs_test_123",
		EventID:     f.eventID,
		BuyerID:     f.aliceID,
		AmountCents: 2500,
		CreatedAt:   time.Now(),
	})
	assert.NoError(t, err)

	// Test case: Get by ID resolves event and buyer
	order, err := orderDB.GetOrderByID(orderID)
	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, int64(2500), order.AmountCents)
	assert.NotNil(t, order.Event)
	assert.Equal(t, "Jazz Night", order.Event.Title)
	assert.NotNil(t, order.Buyer)
	assert.Equal(t, "Alice Smith", order.Buyer.FullName())

	// Test case: Lookup by Stripe session ID
	order, err = orderDB.GetOrderByStripeID("cs_test_123")
	assert.NoError(t, err)
	assert.Equal(t, orderID, order.ID)

	// Test case: Unknown Stripe session
	order, err = orderDB.GetOrderByStripeID("cs_unknown")
	assert.Error(t, err)
	assert.Nil(t, order)
}

func TestListOrdersByEvent(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	f := seedEventWithBuyers(t, bunDB)

	base := time.Now()
	orders := []models.Order{
		{ID: uuid.New().String(), StripeID: "cs_a", EventID: f.eventID, BuyerID: f.aliceID, AmountCents: 2500, CreatedAt: base},
		{ID: uuid.New().String(), StripeID: "cs_b", EventID: f.eventID, BuyerID: f.bobID, AmountCents: 2500, CreatedAt: base.Add(time.Minute)},
	}
	for _, o := range orders {
		assert.NoError(t, orderDB.CreateOrder(o))
	}

	// Test case: All orders for the event, newest first, with joined fields
	items, err := orderDB.ListOrdersByEvent(f.eventID, "")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, "Bob Jones", items[0].Buyer)
	assert.Equal(t, "Jazz Night", items[0].EventTitle)
	assert.Equal(t, "Alice Smith", items[1].Buyer)

	// Test case: Case-insensitive buyer search across the full name
	items, err = orderDB.ListOrdersByEvent(f.eventID, "alice sm")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, "Alice Smith", items[0].Buyer)

	// Test case: No match
	items, err = orderDB.ListOrdersByEvent(f.eventID, "charlie")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(items))
}

func TestListOrdersByBuyer(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	f := seedEventWithBuyers(t, bunDB)

	base := time.Now()
	for i, stripeID := range []string{"cs_1", "cs_2", "cs_3"} {
		assert.NoError(t, orderDB.CreateOrder(models.Order{
			ID:          uuid.New().String(),
			StripeID:    stripeID,
			EventID:     f.eventID,
			BuyerID:     f.aliceID,
			AmountCents: 1000,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// Another buyer's order must not leak in
	assert.NoError(t, orderDB.CreateOrder(models.Order{
		ID: uuid.New().String(), StripeID: "cs_bob", EventID: f.eventID,
		BuyerID: f.bobID, AmountCents: 1000, CreatedAt: base,
	}))

	// Test case: First page, newest first, full count preserved
	orders, count, err := orderDB.ListOrdersByBuyer(f.aliceID, 2, 0)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 2, len(orders))
	assert.Equal(t, "cs_3", orders[0].StripeID)
	assert.NotNil(t, orders[0].Event)
	assert.Equal(t, "Jazz Night", orders[0].Event.Title)
	assert.NotNil(t, orders[0].Event.Organizer)

	// Test case: Second page
	orders, count, err = orderDB.ListOrdersByBuyer(f.aliceID, 2, 2)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, len(orders))
	assert.Equal(t, "cs_1", orders[0].StripeID)
}

func TestHasOrder(t *testing.T) {
	orderDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	f := seedEventWithBuyers(t, bunDB)

	assert.NoError(t, orderDB.CreateOrder(models.Order{
		ID: uuid.New().String(), StripeID: "cs_has", EventID: f.eventID,
		BuyerID: f.aliceID, AmountCents: 2500, CreatedAt: time.Now(),
	}))

	has, err := orderDB.HasOrder(f.eventID, f.aliceID)
	assert.NoError(t, err)
	assert.True(t, has)

	has, err = orderDB.HasOrder(f.eventID, f.bobID)
	assert.NoError(t, err)
	assert.False(t, has)
}

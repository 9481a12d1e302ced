package db

import (
	"context"
	"strings"

	"eventhub/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateOrder(order models.Order) error {
	_, err := d.Bun.NewInsert().Model(&order).Exec(context.Background())
	return err
}

func (d *DB) GetOrderByID(id string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Relation("Event").
		Relation("Buyer").
		Where("\"order\".id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByStripeID makes webhook delivery idempotent: redelivered
// sessions find the order that was already recorded.
func (d *DB) GetOrderByStripeID(stripeID string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("stripe_id = ?", stripeID).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByEvent flattens orders with the event title and buyer name
// joined in, optionally filtered by a case-insensitive buyer-name
// substring.
func (d *DB) ListOrdersByEvent(eventID, buyerSearch string) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	q := d.Bun.NewSelect().
		Table("orders").
		ColumnExpr("orders.id AS id").
		ColumnExpr("orders.amount_cents AS amount_cents").
		ColumnExpr("orders.created_at AS created_at").
		ColumnExpr("events.title AS event_title").
		ColumnExpr("users.first_name || ' ' || users.last_name AS buyer").
		Join("JOIN events ON events.id = orders.event_id").
		Join("JOIN users ON users.id = orders.buyer_id").
		Where("orders.event_id = ?", eventID)

	if buyerSearch != "" {
		q = q.Where("LOWER(users.first_name || ' ' || users.last_name) LIKE ?",
			"%"+strings.ToLower(buyerSearch)+"%")
	}

	err := q.
		OrderExpr("orders.created_at DESC").
		Scan(context.Background(), &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListOrdersByBuyer returns a page of the buyer's orders, newest first,
// with the event and its organizer resolved.
func (d *DB) ListOrdersByBuyer(buyerID string, limit, offset int) ([]models.Order, int, error) {
	orders := []models.Order{}
	count, err := d.Bun.NewSelect().
		Model(&orders).
		Relation("Event").
		Relation("Event.Organizer").
		Where("\"order\".buyer_id = ?", buyerID).
		OrderExpr("\"order\".created_at DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(context.Background())
	if err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

// HasOrder reports whether the buyer already holds a ticket for the
// event.
func (d *DB) HasOrder(eventID, buyerID string) (bool, error) {
	count, err := d.Bun.NewSelect().
		Model((*models.Order)(nil)).
		Where("event_id = ?", eventID).
		Where("buyer_id = ?", buyerID).
		Count(context.Background())
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

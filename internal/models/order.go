package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID          string    `bun:"id,pk" json:"id"`
	StripeID    string    `bun:"stripe_id,unique,notnull" json:"stripe_id"`
	EventID     string    `bun:"event_id,notnull" json:"event_id"`
	BuyerID     string    `bun:"buyer_id,notnull" json:"buyer_id"`
	AmountCents int64     `bun:"amount_cents,notnull" json:"amount_cents"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id" json:"event,omitempty"`
	Buyer *User  `bun:"rel:belongs-to,join:buyer_id=id" json:"buyer,omitempty"`
}

// OrderItem is the flattened row returned by the orders-by-event search,
// one line per ticket with the buyer name already joined in.
type OrderItem struct {
	ID          string    `bun:"id" json:"id"`
	AmountCents int64     `bun:"amount_cents" json:"amount_cents"`
	CreatedAt   time.Time `bun:"created_at" json:"created_at"`
	EventTitle  string    `bun:"event_title" json:"event_title"`
	Buyer       string    `bun:"buyer" json:"buyer"`
}

type OrderPage struct {
	Data       []Order `json:"data"`
	TotalPages int     `json:"total_pages"`
}

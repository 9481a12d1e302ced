package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string    `bun:"id,pk" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description,nullzero" json:"description,omitempty"`
	Location    string    `bun:"location,nullzero" json:"location,omitempty"`
	ImageURL    string    `bun:"image_url,nullzero" json:"image_url,omitempty"`
	StartAt     time.Time `bun:"start_at,notnull" json:"start_at"`
	EndAt       time.Time `bun:"end_at,notnull" json:"end_at"`
	PriceCents  int64     `bun:"price_cents,notnull,default:0" json:"price_cents"`
	IsFree      bool      `bun:"is_free,notnull,default:false" json:"is_free"`
	URL         string    `bun:"url,nullzero" json:"url,omitempty"`
	CategoryID  string    `bun:"category_id,notnull" json:"category_id"`
	OrganizerID string    `bun:"organizer_id,notnull" json:"organizer_id"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`

	Category  *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Organizer *User     `bun:"rel:belongs-to,join:organizer_id=id" json:"organizer,omitempty"`
}

type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	PriceCents  int64     `json:"price_cents"`
	IsFree      bool      `json:"is_free"`
	URL         string    `json:"url,omitempty"`
	CategoryID  string    `json:"category_id"`
}

type UpdateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	PriceCents  int64     `json:"price_cents"`
	IsFree      bool      `json:"is_free"`
	URL         string    `json:"url,omitempty"`
	CategoryID  string    `json:"category_id"`
}

// EventQuery carries the list filters parsed from the request query string.
// Category is a name, resolved to an id before the query runs.
type EventQuery struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

type EventPage struct {
	Data       []Event `json:"data"`
	TotalPages int     `json:"total_pages"`
}

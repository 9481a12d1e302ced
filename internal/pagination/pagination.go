package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 6
	MaxLimit     = 100
)

// Params is a parsed page/limit pair. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// FromQuery reads "page" and "limit" from a query string, falling back to
// page 1 and defaultLimit. Values below 1 are clamped, limit is capped at
// MaxLimit.
func FromQuery(q url.Values, defaultLimit int) Params {
	if defaultLimit < 1 {
		defaultLimit = DefaultLimit
	}

	p := Params{Page: 1, Limit: defaultLimit}

	if raw := q.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			p.Page = page
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			p.Limit = limit
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	return p
}

// Offset converts the 1-based page into a row offset.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(count/limit). Zero rows means zero pages.
func TotalPages(count, limit int) int {
	if limit < 1 || count < 1 {
		return 0
	}
	return (count + limit - 1) / limit
}

package utils

import (
	"net/url"
)

// MergeQueryParam sets key=value in a raw query string, preserving the
// other parameters. Applying it twice with the same pair is a no-op.
func MergeQueryParam(rawQuery, key, value string) string {
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		q = url.Values{}
	}
	q.Set(key, value)
	return q.Encode()
}

// RemoveQueryParams deletes the given keys from a raw query string.
// Removing keys that are absent leaves the query unchanged.
func RemoveQueryParams(rawQuery string, keys ...string) string {
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	for _, key := range keys {
		q.Del(key)
	}
	return q.Encode()
}

// Package store defines the table-scoped client the sync job persists through
// and its two implementations: a PostgREST HTTP client and a gorm client.
package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Filter restricts a statement to rows whose Column equals Value.
type Filter struct {
	Column string
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Client is the store contract: select, delete and insert scoped to a table.
//
// Select decodes the matching rows, restricted to columns, into dest which must
// be a pointer to a slice. Delete and Insert return the number of affected rows.
// Close releases whatever Open acquired.
type Client interface {
	Select(ctx context.Context, table string, columns []string, dest any, filters ...Filter) error
	Delete(ctx context.Context, table string, filters ...Filter) (int, error)
	Insert(ctx context.Context, table string, rows any) (int, error)
	Close() error
}

// Open picks an implementation from the URL scheme: http(s) talks to a
// PostgREST endpoint, postgres(ql) connects directly through gorm.
func Open(rawURL, key string, timeout time.Duration) (Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewRESTClient(rawURL, key, timeout), nil
	case "postgres", "postgresql":
		return OpenGorm(rawURL, key)
	default:
		return nil, fmt.Errorf("unsupported store url scheme %q", u.Scheme)
	}
}

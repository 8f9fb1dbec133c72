package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"
)

const restPath = "/rest/v1"

// RESTClient talks to a PostgREST endpoint such as the one Supabase exposes.
type RESTClient struct {
	pg *postgrest.Client
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient authenticates every request with key as both the apikey and
// the bearer token. timeout bounds the wait for response headers.
func NewRESTClient(baseURL, key string, timeout time.Duration) *RESTClient {
	pg := postgrest.NewClient(strings.TrimRight(baseURL, "/")+restPath, "", map[string]string{
		"apikey":        key,
		"Authorization": "Bearer " + key,
	})
	if pg.ClientError == nil && timeout > 0 {
		rt := http.DefaultTransport.(*http.Transport).Clone()
		rt.ResponseHeaderTimeout = timeout
		pg.Transport.Parent = rt
	}
	return &RESTClient{pg: pg}
}

func (c *RESTClient) Select(ctx context.Context, table string, columns []string, dest any, filters ...Filter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q := eq(c.pg.From(table).Select(strings.Join(columns, ","), "", false), filters)
	if _, err := q.ExecuteTo(dest); err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

// Delete asks for the deleted rows back and counts them. A successful
// response without a body fails to decode; IsEmptyBody reports that case.
func (c *RESTClient) Delete(ctx context.Context, table string, filters ...Filter) (int, error) {
	if len(filters) == 0 {
		return 0, ErrMissingFilter
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var deleted []json.RawMessage
	if _, err := eq(c.pg.From(table).Delete("representation", ""), filters).ExecuteTo(&deleted); err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	return len(deleted), nil
}

func (c *RESTClient) Insert(ctx context.Context, table string, rows any) (int, error) {
	// postgrest-go keeps a marshal failure on the shared client, so rows are
	// encoded here first.
	payload, err := json.Marshal(rows)
	if err != nil {
		return 0, fmt.Errorf("encode rows: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var inserted []json.RawMessage
	q := c.pg.From(table).Insert(json.RawMessage(payload), false, "", "representation", "")
	if _, err := q.ExecuteTo(&inserted); err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	return len(inserted), nil
}

// Close is a no-op; the REST client holds no connections of its own.
func (c *RESTClient) Close() error {
	return nil
}

func eq(q *postgrest.FilterBuilder, filters []Filter) *postgrest.FilterBuilder {
	for _, f := range filters {
		q = q.Eq(f.Column, fmt.Sprint(f.Value))
	}
	return q
}

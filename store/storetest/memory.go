// Package storetest provides an in-memory store.Client for tests.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/viktsys/tefassync/store"
)

// Memory keeps rows as JSON objects per table, the shape a REST store sees.
// Err fields make the next call of that kind fail; counters record every call.
type Memory struct {
	mu     sync.Mutex
	tables map[string][]map[string]any

	SelectErr error
	DeleteErr error
	InsertErr error

	Selects int
	Deletes int
	Inserts int
	Closes  int

	// LastInsert holds the payload of the most recent insert call.
	LastInsert []map[string]any
}

var _ store.Client = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{tables: map[string][]map[string]any{}}
}

// Seed appends rows to a table without counting as an insert call.
func (m *Memory) Seed(table string, rows any) {
	objs, err := toObjects(rows)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], objs...)
}

// Rows returns the stored rows of a table matching filters.
func (m *Memory) Rows(table string, filters ...store.Filter) []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.match(table, filters)
}

// Calls is the total number of store calls made.
func (m *Memory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Selects + m.Deletes + m.Inserts
}

func (m *Memory) Select(_ context.Context, table string, columns []string, dest any, filters ...store.Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Selects++
	if m.SelectErr != nil {
		return m.SelectErr
	}

	matched := m.match(table, filters)
	out := make([]map[string]any, 0, len(matched))
	for _, row := range matched {
		if len(columns) == 0 {
			out = append(out, row)
			continue
		}
		projected := make(map[string]any, len(columns))
		for _, c := range columns {
			projected[c] = row[c]
		}
		out = append(out, projected)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}

func (m *Memory) Delete(_ context.Context, table string, filters ...store.Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	if len(filters) == 0 {
		return 0, store.ErrMissingFilter
	}

	var kept []map[string]any
	deleted := 0
	for _, row := range m.tables[table] {
		if matches(row, filters) {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	m.tables[table] = kept

	// Rows are removed before the configured error is returned, like a
	// server that applied the delete but sent back an unusable response.
	if m.DeleteErr != nil {
		return 0, m.DeleteErr
	}
	return deleted, nil
}

func (m *Memory) Insert(_ context.Context, table string, rows any) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inserts++
	if m.InsertErr != nil {
		return 0, m.InsertErr
	}

	objs, err := toObjects(rows)
	if err != nil {
		return 0, err
	}
	m.LastInsert = objs
	m.tables[table] = append(m.tables[table], objs...)
	return len(objs), nil
}

// Close only counts; the tables stay readable afterwards.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closes++
	return nil
}

func (m *Memory) match(table string, filters []store.Filter) []map[string]any {
	var out []map[string]any
	for _, row := range m.tables[table] {
		if matches(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row map[string]any, filters []store.Filter) bool {
	for _, f := range filters {
		if fmt.Sprint(row[f.Column]) != fmt.Sprint(f.Value) {
			return false
		}
	}
	return true
}

func toObjects(rows any) ([]map[string]any, error) {
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	var objs []map[string]any
	if err := json.Unmarshal(b, &objs); err != nil {
		return nil, fmt.Errorf("rows must encode to a JSON array of objects: %w", err)
	}
	return objs, nil
}

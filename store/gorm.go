package store

import (
	"context"
	"fmt"

	"github.com/viktsys/tefassync/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormClient runs the store contract as SQL through gorm.
type GormClient struct {
	db *gorm.DB
}

var _ Client = (*GormClient)(nil)

func NewGormClient(db *gorm.DB) *GormClient {
	return &GormClient{db: db}
}

// OpenGorm connects to Postgres, using key as the password when the URL has none.
func OpenGorm(dsn, key string) (*GormClient, error) {
	db, err := database.Open(dsn, key)
	if err != nil {
		return nil, err
	}
	return NewGormClient(db), nil
}

func (c *GormClient) Select(ctx context.Context, table string, columns []string, dest any, filters ...Filter) error {
	tx := where(c.db.WithContext(ctx).Table(table), filters)
	if len(columns) > 0 {
		tx = tx.Select(columns)
	}
	if err := tx.Find(dest).Error; err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return nil
}

func (c *GormClient) Delete(ctx context.Context, table string, filters ...Filter) (int, error) {
	if len(filters) == 0 {
		return 0, ErrMissingFilter
	}

	res := where(c.db.WithContext(ctx).Table(table), filters).Delete(map[string]any{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete %s: %w", table, res.Error)
	}
	return int(res.RowsAffected), nil
}

// Insert writes rows, a slice of row structs, in one statement.
func (c *GormClient) Insert(ctx context.Context, table string, rows any) (int, error) {
	res := c.db.WithContext(ctx).Table(table).Create(rows)
	if res.Error != nil {
		return 0, fmt.Errorf("insert %s: %w", table, res.Error)
	}
	return int(res.RowsAffected), nil
}

// Close closes the underlying connection pool.
func (c *GormClient) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func where(tx *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}
	return tx
}

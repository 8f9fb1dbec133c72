package database

import (
	"fmt"

	"gorm.io/gorm"
)

// OptimizeIndexes creates the composite indexes the delete-then-insert cycle relies on.
func OptimizeIndexes(db *gorm.DB) error {
	// Daily delete and per-fund history reads both filter on date first
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_price_history_date_fund
		ON price_history (date, fund_id)
	`).Error; err != nil {
		return fmt.Errorf("failed to create price_history index: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_prices_date_code
		ON prices (date, code)
	`).Error; err != nil {
		return fmt.Errorf("failed to create prices index: %w", err)
	}

	return nil
}

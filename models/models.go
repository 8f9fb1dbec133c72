package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO 8601 calendar date layout used for every date column.
const DateLayout = "2006-01-02"

// Prices go over the wire as JSON numbers, not quoted strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// PriceRecord is one fund price observation as returned by the source
type PriceRecord struct {
	Date  string          `json:"date"`
	Code  string          `json:"code"`
	Price decimal.Decimal `json:"price"`
}

// Validate checks the fixed field set right after the source call.
func (r PriceRecord) Validate() error {
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	if r.Code == "" {
		return fmt.Errorf("empty fund code for date %s", r.Date)
	}
	return nil
}

// Fund is a row of the funds reference table
type Fund struct {
	ID   int64  `gorm:"column:id" json:"id"`
	Code string `gorm:"column:code" json:"code"`
}

// FundReference maps fund codes to internal fund identifiers.
type FundReference map[string]int64

// NewFundReference builds the lookup from reference rows, rejecting rows that
// do not carry both a code and a positive id.
func NewFundReference(funds []Fund) (FundReference, error) {
	ref := make(FundReference, len(funds))
	for _, f := range funds {
		if f.Code == "" || f.ID <= 0 {
			return nil, fmt.Errorf("malformed fund row: code=%q id=%d", f.Code, f.ID)
		}
		ref[f.Code] = f.ID
	}
	return ref, nil
}

// FundPriceRow is a persisted row keyed by the resolved fund id
type FundPriceRow struct {
	Date   string          `gorm:"column:date" json:"date"`
	FundID int64           `gorm:"column:fund_id" json:"fund_id"`
	Price  decimal.Decimal `gorm:"column:price" json:"price"`
}

// CodePriceRow is a persisted row keyed by the raw fund code
type CodePriceRow struct {
	Date  string          `gorm:"column:date" json:"date"`
	Code  string          `gorm:"column:code" json:"code"`
	Price decimal.Decimal `gorm:"column:price" json:"price"`
}

// DateRow is the projection used to count rows already stored for a date
type DateRow struct {
	Date string `gorm:"column:date" json:"date"`
}

// FundEntity is the schema of the funds table
type FundEntity struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:20;uniqueIndex:uidx_funds_code;not null" json:"code"`
	Title     string    `gorm:"size:255" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func (FundEntity) TableName() string { return "funds" }

// PriceHistory is the schema of the fund-id keyed price table
type PriceHistory struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	Date   string          `gorm:"size:10;index:idx_price_history_date;not null" json:"date"`
	FundID int64           `gorm:"index:idx_price_history_fund;not null" json:"fund_id"`
	Price  decimal.Decimal `gorm:"type:numeric(20,6)" json:"price"`
}

func (PriceHistory) TableName() string { return "price_history" }

// Price is the schema of the code keyed price table
type Price struct {
	ID    uint            `gorm:"primaryKey" json:"id"`
	Date  string          `gorm:"size:10;index:idx_prices_date;not null" json:"date"`
	Code  string          `gorm:"size:20;index:idx_prices_code;not null" json:"code"`
	Price decimal.Decimal `gorm:"type:numeric(20,6)" json:"price"`
}

func (Price) TableName() string { return "prices" }

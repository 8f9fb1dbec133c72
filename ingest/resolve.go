package ingest

import (
	"github.com/viktsys/tefassync/models"
	"go.uber.org/zap"
)

// ResolveFundIDs swaps each record's code for its fund id. Records whose code
// is not in ref are logged at warn level and dropped; that is expected for
// funds not yet registered and is not an error.
func ResolveFundIDs(records []models.PriceRecord, ref models.FundReference, log *zap.Logger) []models.FundPriceRow {
	rows := make([]models.FundPriceRow, 0, len(records))
	for _, r := range records {
		id, ok := ref[r.Code]
		if !ok {
			log.Warn("Cannot find fund code in reference table", zap.String("code", r.Code), zap.String("date", r.Date))
			continue
		}
		rows = append(rows, models.FundPriceRow{
			Date:   r.Date,
			FundID: id,
			Price:  r.Price,
		})
	}
	return rows
}

// CodeRows keeps records keyed by their raw fund code.
func CodeRows(records []models.PriceRecord) []models.CodePriceRow {
	rows := make([]models.CodePriceRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.CodePriceRow{
			Date:  r.Date,
			Code:  r.Code,
			Price: r.Price,
		})
	}
	return rows
}

package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/viktsys/tefassync/config"
	"github.com/viktsys/tefassync/models"
	"github.com/viktsys/tefassync/store"
	"go.uber.org/zap"
)

// Source returns the price rows published for a date (YYYY-MM-DD).
type Source interface {
	Fetch(ctx context.Context, date string) ([]models.PriceRecord, error)
}

// StoreOpener returns an authenticated store client for the configuration.
type StoreOpener func(cfg config.Config) (store.Client, error)

// OpenStore is the StoreOpener used outside tests.
func OpenStore(cfg config.Config) (store.Client, error) {
	return store.Open(cfg.StoreURL, cfg.StoreKey, cfg.HTTPTimeout)
}

type Job struct {
	cfg    config.Config
	source Source
	open   StoreOpener
	log    *zap.Logger
	now    func() time.Time
}

func NewJob(cfg config.Config, source Source, open StoreOpener, log *zap.Logger) *Job {
	return &Job{
		cfg:    cfg,
		source: source,
		open:   open,
		log:    log,
		now:    time.Now,
	}
}

// Handler is the scheduled-function entry point. The trigger payload and the
// invocation context are not used.
func (j *Job) Handler(ctx context.Context, _ json.RawMessage, _ any) error {
	return j.Run(ctx)
}

// Run replaces today's rows in the target table with freshly fetched prices.
//
// The delete and the insert are separate, non-transactional calls. If the
// process dies or the insert fails after the delete, the date has no rows
// until the next run writes them again.
//
// An empty batch is not inserted: when the source returns nothing, or no
// record resolves to a fund id, today's existing rows are still deleted and
// Run returns nil after logging a warning.
func (j *Job) Run(ctx context.Context) error {
	today := j.now().Format(models.DateLayout)
	log := j.log.With(zap.String("date", today), zap.String("table", j.cfg.TargetTable))

	if err := j.cfg.Validate(); err != nil {
		return &ConfigurationError{Err: err}
	}

	client, err := j.open(j.cfg)
	if err != nil {
		return &StoreError{Op: "open store", Err: err}
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn("Failed to close store client", zap.Error(err))
		}
	}()

	records, err := j.fetch(ctx, today)
	if err != nil {
		return err
	}
	log.Info("Fetched price records", zap.Int("count", len(records)))

	var rows any
	var rowCount int
	if j.cfg.ResolveFundIDs {
		ref, err := j.loadFunds(ctx, client)
		if err != nil {
			return err
		}
		resolved := ResolveFundIDs(records, ref, log)
		rows, rowCount = &resolved, len(resolved)
	} else {
		coded := CodeRows(records)
		rows, rowCount = &coded, len(coded)
	}

	var existing []models.DateRow
	if err := client.Select(ctx, j.cfg.TargetTable, []string{"date"}, &existing, store.Eq("date", today)); err != nil {
		return &StoreError{Op: "select existing rows", Err: err}
	}
	log.Info("Found existing records", zap.Int("count", len(existing)))

	if len(existing) > 0 {
		log.Info("Deleting existing records")
		if _, err := client.Delete(ctx, j.cfg.TargetTable, store.Eq("date", today)); err != nil {
			// Some store deployments answer a successful delete with an empty
			// body, which the client cannot parse as the deleted rows. The
			// delete itself went through, so only that case is ignored.
			if !store.IsEmptyBody(err) {
				return &DeletionError{Table: j.cfg.TargetTable, Date: today, Err: err}
			}
			log.Debug("Delete returned an empty body, treating as success")
		}
	}

	if rowCount == 0 {
		log.Warn("No records to insert")
		return nil
	}

	log.Info("Inserting new records", zap.Int("count", rowCount))
	if _, err := client.Insert(ctx, j.cfg.TargetTable, rows); err != nil {
		return &InsertionError{Table: j.cfg.TargetTable, Rows: rowCount, Err: err}
	}

	return nil
}

func (j *Job) fetch(ctx context.Context, date string) ([]models.PriceRecord, error) {
	records, err := j.source.Fetch(ctx, date)
	if err != nil {
		return nil, &SourceFetchError{Date: date, Err: err}
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, &SourceFetchError{Date: date, Err: err}
		}
	}
	return records, nil
}

func (j *Job) loadFunds(ctx context.Context, client store.Client) (models.FundReference, error) {
	var funds []models.Fund
	if err := client.Select(ctx, j.cfg.FundsTable, []string{"code", "id"}, &funds); err != nil {
		return nil, &StoreError{Op: "load fund reference", Err: err}
	}
	ref, err := models.NewFundReference(funds)
	if err != nil {
		return nil, &StoreError{Op: "load fund reference", Err: err}
	}
	return ref, nil
}

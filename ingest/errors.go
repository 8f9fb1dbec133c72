package ingest

// ConfigurationError means required settings are missing or invalid. It is
// raised before any network call.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Err.Error() }
func (e *ConfigurationError) Unwrap() error { return e.Err }

// SourceFetchError means the price source failed or returned malformed rows.
type SourceFetchError struct {
	Date string
	Err  error
}

func (e *SourceFetchError) Error() string {
	return "fetch prices for " + e.Date + ": " + e.Err.Error()
}
func (e *SourceFetchError) Unwrap() error { return e.Err }

// StoreError covers opening the store and the select calls.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// DeletionError means existing rows for the date could not be deleted.
type DeletionError struct {
	Table string
	Date  string
	Err   error
}

func (e *DeletionError) Error() string {
	return "delete " + e.Table + " rows for " + e.Date + ": " + e.Err.Error()
}
func (e *DeletionError) Unwrap() error { return e.Err }

// InsertionError means the new rows could not be inserted.
type InsertionError struct {
	Table string
	Rows  int
	Err   error
}

func (e *InsertionError) Error() string {
	return "insert into " + e.Table + ": " + e.Err.Error()
}
func (e *InsertionError) Unwrap() error { return e.Err }

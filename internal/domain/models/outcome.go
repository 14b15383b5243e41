package models

// RowErrorKind classifies a row-level import failure.
type RowErrorKind string

const (
	RowInvalidDate    RowErrorKind = "invalid_date"
	RowWorkerNotFound RowErrorKind = "worker_not_found"
	RowNegativeWeight RowErrorKind = "negative_weight"
	RowWriteFailed    RowErrorKind = "write_failed"
)

// RowError reports a spreadsheet row (1-based, as shown by spreadsheet editors) that was not imported.
type RowError struct {
	Row     int          `json:"row"`
	Kind    RowErrorKind `json:"kind"`
	Message string       `json:"message"`
}

// UpsertedRecord pairs a committed ledger record with its key.
type UpsertedRecord struct {
	Key    string       `json:"key"`
	Row    int          `json:"row"`
	Record LedgerRecord `json:"record"`
}

// ImportOutcome is the result of one import run. Skipped counts blank rows,
// Invalid counts rows rejected before any write and Failed counts rows whose
// write was refused by the store.
type ImportOutcome struct {
	RunID     string           `json:"run_id"`
	Upserted  []UpsertedRecord `json:"upserted"`
	Errors    []RowError       `json:"errors"`
	Inserted  int              `json:"inserted"`
	Updated   int              `json:"updated"`
	Skipped   int              `json:"skipped"`
	Invalid   int              `json:"invalid"`
	Failed    int              `json:"failed"`
	Committed bool             `json:"committed"`
}

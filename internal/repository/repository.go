// Package repository holds what the storage backends share.
package repository

import "errors"

// ErrNotFound is returned when a record addressed by key does not exist.
var ErrNotFound = errors.New("record not found")

// Collection names, shared by MongoDB and the in-memory store for change notifications.
const (
	CollectionLedger  = "fileting_yield_records"
	CollectionStaff   = "staff"
	CollectionSamples = "scaling_tests"
	CollectionReports = "monthly_yield_reports"
)

package importer

import (
	"errors"
	"fmt"

	"github.com/moradafish/dashboard/internal/service/header"
)

var (
	// ErrUnreadableFile aborts an import before any write: the bytes could not be parsed.
	ErrUnreadableFile = errors.New("unreadable spreadsheet")
	// ErrManualMappingRequired pauses an import until the caller picks the identity columns.
	ErrManualMappingRequired = errors.New("manual column mapping required")
	// ErrSessionNotFound is returned for unknown or expired pending imports.
	ErrSessionNotFound = errors.New("pending import not found")
	// ErrIncompleteMapping rejects a manual mapping without date or worker
	// columns, or with a column outside the sheet.
	ErrIncompleteMapping = errors.New("mapping must assign date and worker to columns of the sheet")
	// ErrSheetsUnavailable is returned when Google Sheets import is not configured.
	ErrSheetsUnavailable = errors.New("google sheets import is not configured")
)

// MappingRequiredError carries the pending session a caller must confirm.
type MappingRequiredError struct {
	SessionID string
	Source    string
	Header    header.Result
}

func (e *MappingRequiredError) Error() string {
	return fmt.Sprintf("%s: %s (session %s)", ErrManualMappingRequired, e.Source, e.SessionID)
}

// Unwrap lets errors.Is match ErrManualMappingRequired.
func (e *MappingRequiredError) Unwrap() error {
	return ErrManualMappingRequired
}

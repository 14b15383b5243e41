package models

import "time"

// DateLayout is the calendar-date layout used for ledger dates and keys.
const DateLayout = "2006-01-02"

// LedgerRecord captures one worker's fileting output for one calendar day.
type LedgerRecord struct {
	Key                     string   `bson:"_id" json:"key"`
	Date                    string   `bson:"date" json:"date"`
	WorkerID                string   `bson:"worker_id" json:"worker_id"`
	WorkerName              string   `bson:"worker_name" json:"worker_name"`
	RawInputKg              float64  `bson:"raw_input_kg" json:"raw_input_kg"`
	RawOutputKg             float64  `bson:"raw_output_kg" json:"raw_output_kg"`
	CorrectionKg            float64  `bson:"correction_kg" json:"correction_kg"`
	ApprovalOverridePercent *float64 `bson:"approval_override_percent,omitempty" json:"approval_override_percent,omitempty"`
}

// LedgerKey builds the composite identity of a ledger record.
func LedgerKey(date, workerID string) string {
	return date + "_" + workerID
}

// FormatDate renders a calendar date as used by ledger records.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Month identifies a calendar month, e.g. "2025-08".
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth reads a YYYY-MM value.
func ParseMonth(value string) (Month, error) {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return Month{}, err
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String renders the month as YYYY-MM.
func (m Month) String() string {
	return m.First().Format("2006-01")
}

// First returns the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns the last day of the month.
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

// Range returns the inclusive date bounds of the month as ledger dates.
func (m Month) Range() (string, string) {
	return FormatDate(m.First()), FormatDate(m.Last())
}

// Previous returns the month before m.
func (m Month) Previous() Month {
	return MonthOf(m.First().AddDate(0, -1, 0))
}

package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/moradafish/dashboard/internal/domain/models"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var genericDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006.01.02",
	"02.01.2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// CellToCalendarDate resolves a cell into a calendar date (UTC midnight).
// The boolean is false when the cell holds nothing that reads as a date.
func CellToCalendarDate(c models.Cell) (time.Time, bool) {
	switch c.Kind {
	case models.CellDate:
		if c.Time.IsZero() {
			return time.Time{}, false
		}
		return dateOnly(c.Time), true
	case models.CellNumber:
		return SerialToDate(c.Num)
	case models.CellString:
		return ParseDate(c.Str)
	default:
		return time.Time{}, false
	}
}

// SerialToDate converts a spreadsheet date serial (1900 date system) into a date.
func SerialToDate(serial float64) (time.Time, bool) {
	if serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return dateOnly(t), true
}

// ParseDate reads YYYY-MM-DD, D/M/Y or D-M-Y (two-digit years are 20xx), then a
// handful of generic layouts.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if isoDatePattern.MatchString(s) {
		if t, err := time.Parse(models.DateLayout, s); err == nil {
			return t, true
		}
	}

	if t, ok := parseDayMonthYear(s); ok {
		return t, true
	}

	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), true
		}
	}
	return time.Time{}, false
}

func parseDayMonthYear(s string) (time.Time, bool) {
	parts := strings.Split(strings.ReplaceAll(s, "-", "/"), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if len(strings.TrimSpace(parts[2])) == 2 {
		year += 2000
	}
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

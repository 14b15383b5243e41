// Package normalize converts the loosely formatted values found in plant spreadsheets
// (comma decimals, percent signs, mixed date representations, accented free text)
// into canonical numbers, calendar dates and comparison keys.
package normalize

package ledger

import (
	"bytes"
	"encoding/json"

	"github.com/moradafish/dashboard/internal/normalize"
)

// Amount is a weight or percentage as typed by a user. JSON numbers and
// locale-formatted strings ("1.234,5") are both accepted.
type Amount string

// UnmarshalJSON accepts a JSON string, number or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

// Blank reports whether nothing was typed.
func (a Amount) Blank() bool {
	return len(bytes.TrimSpace([]byte(a))) == 0
}

// Value parses the amount; blank input is zero.
func (a Amount) Value() float64 {
	return normalize.ParseLocaleNumber(string(a))
}

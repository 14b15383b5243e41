package models

// Field is a semantic column of a fileting-yield spreadsheet.
type Field int

const (
	FieldDate Field = iota
	FieldWorker
	FieldRawInput
	FieldRawOutput
	FieldCorrection
	FieldApprovalOverride
)

// Fields lists every semantic field in mapping order.
var Fields = []Field{FieldDate, FieldWorker, FieldRawInput, FieldRawOutput, FieldCorrection, FieldApprovalOverride}

var fieldNames = map[Field]string{
	FieldDate:             "date",
	FieldWorker:           "worker",
	FieldRawInput:         "raw_input",
	FieldRawOutput:        "raw_output",
	FieldCorrection:       "correction",
	FieldApprovalOverride: "approval_override",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// Absent marks a field with no column.
const Absent = -1

// ColumnMapping assigns a column index to each semantic field, Absent when unmapped.
type ColumnMapping struct {
	Date             int `json:"date"`
	Worker           int `json:"worker"`
	RawInput         int `json:"raw_input"`
	RawOutput        int `json:"raw_output"`
	Correction       int `json:"correction"`
	ApprovalOverride int `json:"approval_override"`
}

// EmptyMapping returns a mapping with every field absent.
func EmptyMapping() ColumnMapping {
	return ColumnMapping{Absent, Absent, Absent, Absent, Absent, Absent}
}

// Get returns the column assigned to f.
func (m ColumnMapping) Get(f Field) int {
	switch f {
	case FieldDate:
		return m.Date
	case FieldWorker:
		return m.Worker
	case FieldRawInput:
		return m.RawInput
	case FieldRawOutput:
		return m.RawOutput
	case FieldCorrection:
		return m.Correction
	case FieldApprovalOverride:
		return m.ApprovalOverride
	}
	return Absent
}

// Set assigns column idx to f.
func (m *ColumnMapping) Set(f Field, idx int) {
	switch f {
	case FieldDate:
		m.Date = idx
	case FieldWorker:
		m.Worker = idx
	case FieldRawInput:
		m.RawInput = idx
	case FieldRawOutput:
		m.RawOutput = idx
	case FieldCorrection:
		m.Correction = idx
	case FieldApprovalOverride:
		m.ApprovalOverride = idx
	}
}

// Complete reports whether the identity columns (date and worker) are mapped.
func (m ColumnMapping) Complete() bool {
	return m.Date != Absent && m.Worker != Absent
}

// Within reports whether every mapped column lies in [0, width).
func (m ColumnMapping) Within(width int) bool {
	for _, f := range Fields {
		idx := m.Get(f)
		if idx == Absent {
			continue
		}
		if idx < 0 || idx >= width {
			return false
		}
	}
	return true
}

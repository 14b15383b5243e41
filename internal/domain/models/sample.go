package models

// ScalingSample is one descaling test: a fish lot weighed before and after scale removal.
type ScalingSample struct {
	ID              string   `bson:"_id" json:"id"`
	Date            string   `bson:"date" json:"date"`
	Supplier        string   `bson:"supplier" json:"supplier"`
	WithScalesKg    float64  `bson:"with_scales_kg" json:"with_scales_kg"`
	WithoutScalesKg float64  `bson:"without_scales_kg" json:"without_scales_kg"`
	ApprovalPercent *float64 `bson:"approval_percent,omitempty" json:"approval_percent,omitempty"`
}

// DailyApproval is the mean approval ratio of all samples taken on one date.
type DailyApproval struct {
	Date      string  `json:"date"`
	MeanRatio float64 `json:"mean_ratio"`
	Samples   int     `json:"samples"`
}

// ApprovalMap indexes daily approvals by ledger date.
type ApprovalMap map[string]DailyApproval

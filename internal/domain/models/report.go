package models

import "time"

// MonthlyReport represents the aggregated fileting yield of one month stored in MongoDB.
type MonthlyReport struct {
	Month          string    `bson:"month" json:"month"`
	Records        int       `bson:"records" json:"records"`
	Workers        int       `bson:"workers" json:"workers"`
	AdjustedInput  float64   `bson:"adjusted_input_kg" json:"adjusted_input_kg"`
	AdjustedOutput float64   `bson:"adjusted_output_kg" json:"adjusted_output_kg"`
	YieldPercent   float64   `bson:"yield_percent" json:"yield_percent"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

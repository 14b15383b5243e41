package yield

import (
	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/normalize"
)

// SampleRatio returns the approval ratio measured by one descaling test: the
// recorded percentage when present, otherwise weight without scales over
// weight with scales.
func SampleRatio(s models.ScalingSample) (float64, bool) {
	if s.ApprovalPercent != nil {
		if ratio := normalize.RatioFromPercent(*s.ApprovalPercent); ratio > 0 {
			return ratio, true
		}
	}
	if s.WithScalesKg > 0 && s.WithoutScalesKg > 0 {
		return s.WithoutScalesKg / s.WithScalesKg, true
	}
	return 0, false
}

// DailyApprovals averages the sample ratios of each date. Samples without a
// date or a usable ratio are ignored.
func DailyApprovals(samples []models.ScalingSample) models.ApprovalMap {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, s := range samples {
		if s.Date == "" {
			continue
		}
		ratio, ok := SampleRatio(s)
		if !ok {
			continue
		}
		sums[s.Date] += ratio
		counts[s.Date]++
	}

	out := make(models.ApprovalMap, len(sums))
	for date, sum := range sums {
		out[date] = models.DailyApproval{
			Date:      date,
			MeanRatio: sum / float64(counts[date]),
			Samples:   counts[date],
		}
	}
	return out
}

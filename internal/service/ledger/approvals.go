package ledger

import (
	"sort"

	"github.com/moradafish/dashboard/internal/domain/models"
)

func sortedApprovals(m models.ApprovalMap) []models.DailyApproval {
	out := make([]models.DailyApproval, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

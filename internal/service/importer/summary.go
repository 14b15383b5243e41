package importer

import (
	"fmt"
	"strings"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/normalize"
)

// PickSheet returns the index of the fileting-yield sheet: the first name
// containing both "rend" and "filet", else 0.
func PickSheet(names []string) int {
	for i, name := range names {
		folded := normalize.Text(name)
		if strings.Contains(folded, "rend") && strings.Contains(folded, "filet") {
			return i
		}
	}
	return 0
}

// Summary renders the user-facing message of an import run. A committed run
// lists at most maxErrors row errors; a run that saved nothing lists them all.
func Summary(outcome models.ImportOutcome, maxErrors int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d inserted, %d updated, %d skipped, %d invalid", outcome.Inserted, outcome.Updated, outcome.Skipped, outcome.Invalid)
	if outcome.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", outcome.Failed)
	}
	if !outcome.Committed && len(outcome.Errors) > 0 {
		b.WriteString(". Nothing was saved")
	}

	shown := outcome.Errors
	if outcome.Committed && maxErrors > 0 && len(shown) > maxErrors {
		shown = shown[:maxErrors]
	}
	for _, e := range shown {
		b.WriteString("\n")
		b.WriteString(e.Message)
	}
	if hidden := len(outcome.Errors) - len(shown); hidden > 0 {
		fmt.Fprintf(&b, "\n... and %d more", hidden)
	}
	return b.String()
}

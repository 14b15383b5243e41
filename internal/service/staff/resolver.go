package staff

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/normalize"
)

// DefaultTolerance is the largest edit distance accepted for an approximate match.
const DefaultTolerance = 4

// minContainmentRunes keeps one- and two-letter fragments from matching every name.
const minContainmentRunes = 3

var (
	roleNoise     = regexp.MustCompile(`^(?:filetadora?|operadora? de filet(?:agem)?|filetagem|filetora?|file)(?:\s*[:\-]+\s*|\s+)`)
	parenthetical = regexp.MustCompile(`\((.*?)\)`)
	operadorFilet = regexp.MustCompile(`operadora? de filet`)
)

// Resolver maps free-text worker cells onto staff members. It holds no state
// beyond its tolerance, so resolution depends only on the input and the index.
type Resolver struct {
	tolerance int
}

// NewResolver builds a resolver. A negative tolerance selects DefaultTolerance.
func NewResolver(tolerance int) *Resolver {
	if tolerance < 0 {
		tolerance = DefaultTolerance
	}
	return &Resolver{tolerance: tolerance}
}

// Tolerance returns the configured edit-distance threshold.
func (r *Resolver) Tolerance() int {
	return r.tolerance
}

// Resolve tries, in order: exact normalized name, badge code or nickname,
// containment, and bounded edit distance.
func (r *Resolver) Resolve(raw string, idx *Index) (models.StaffMember, bool) {
	if idx.Len() == 0 {
		return models.StaffMember{}, false
	}

	s := normalize.Text(raw)
	s = roleNoise.ReplaceAllString(s, "")

	var badges []string
	for _, m := range parenthetical.FindAllStringSubmatch(s, -1) {
		badges = append(badges, m[1])
	}
	s = strings.Join(strings.Fields(parenthetical.ReplaceAllString(s, " ")), " ")
	badges = append(badges, s)

	if s != "" {
		if m, ok := idx.byName[s]; ok {
			return m, true
		}
	}

	for _, b := range badges {
		if m, ok := idx.byBadge[canonicalBadge(b)]; ok {
			return m, true
		}
	}

	if s == "" {
		return models.StaffMember{}, false
	}

	if m, ok := idx.byNickname[s]; ok {
		return m, true
	}

	if m, ok := containment(s, idx); ok {
		return m, true
	}

	return r.closest(s, idx)
}

// containment prefers the longest registry name that contains or is contained
// in s; ties keep registry order.
func containment(s string, idx *Index) (models.StaffMember, bool) {
	if utf8.RuneCountInString(s) < minContainmentRunes {
		return models.StaffMember{}, false
	}

	var (
		best    models.StaffMember
		bestLen = -1
	)
	for _, e := range idx.entries {
		if e.key == "" {
			continue
		}
		if !strings.Contains(s, e.key) && !strings.Contains(e.key, s) {
			continue
		}
		if l := utf8.RuneCountInString(e.key); l > bestLen {
			best, bestLen = e.member, l
		}
	}
	return best, bestLen >= 0
}

func (r *Resolver) closest(s string, idx *Index) (models.StaffMember, bool) {
	var (
		best     models.StaffMember
		bestDist = -1
	)
	for _, e := range idx.entries {
		if e.key == "" {
			continue
		}
		d := levenshtein.ComputeDistance(s, e.key)
		if bestDist < 0 || d < bestDist {
			best, bestDist = e.member, d
		}
	}

	if bestDist < 0 || bestDist > r.tolerance {
		return models.StaffMember{}, false
	}
	return best, true
}

package staff

import (
	"sort"
	"strings"

	"github.com/moradafish/dashboard/internal/domain/models"
	"github.com/moradafish/dashboard/internal/normalize"
)

// Index is an immutable lookup structure over one snapshot of the staff registry.
type Index struct {
	byID       map[string]models.StaffMember
	byName     map[string]models.StaffMember
	byBadge    map[string]models.StaffMember
	byNickname map[string]models.StaffMember
	entries    []entry
}

type entry struct {
	member models.StaffMember
	key    string
}

// BuildIndex indexes members by normalized name, badge code and nickname. The
// first member wins when two share a key. Registry order is preserved for
// approximate matching.
func BuildIndex(members []models.StaffMember) *Index {
	idx := &Index{
		byID:       make(map[string]models.StaffMember, len(members)),
		byName:     make(map[string]models.StaffMember, len(members)),
		byBadge:    make(map[string]models.StaffMember),
		byNickname: make(map[string]models.StaffMember),
		entries:    make([]entry, 0, len(members)),
	}

	for _, m := range members {
		key := normalize.Text(m.Name)
		idx.entries = append(idx.entries, entry{member: m, key: key})

		putFirst(idx.byID, m.ID, m)
		putFirst(idx.byName, key, m)
		putFirst(idx.byBadge, canonicalBadge(m.BadgeCode), m)
		putFirst(idx.byNickname, normalize.Text(m.Nickname), m)
	}

	return idx
}

func putFirst(m map[string]models.StaffMember, key string, member models.StaffMember) {
	if key == "" {
		return
	}
	if _, exists := m[key]; !exists {
		m[key] = member
	}
}

func canonicalBadge(code string) string {
	return strings.TrimLeft(strings.TrimSpace(code), "0")
}

// Len returns the number of indexed members.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// ByID returns the member with the given id.
func (i *Index) ByID(id string) (models.StaffMember, bool) {
	if i == nil {
		return models.StaffMember{}, false
	}
	m, ok := i.byID[id]
	return m, ok
}

// Members returns the indexed members in registry order.
func (i *Index) Members() []models.StaffMember {
	if i == nil {
		return nil
	}
	out := make([]models.StaffMember, len(i.entries))
	for n, e := range i.entries {
		out[n] = e.member
	}
	return out
}

// Option is a selectable worker for manual entry forms.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Filetadores lists the members whose role looks like a fileting role. When no
// role matches, every member is listed.
func Filetadores(idx *Index) []Option {
	members := idx.Members()

	var selected []models.StaffMember
	for _, m := range members {
		if isFiletingRole(m.Role) {
			selected = append(selected, m)
		}
	}
	if len(selected) == 0 {
		selected = members
	}

	options := make([]Option, 0, len(selected))
	for _, m := range selected {
		label := m.Name
		if badge := canonicalBadge(m.BadgeCode); badge != "" {
			label = m.Name + " (" + badge + ")"
		}
		options = append(options, Option{ID: m.ID, Label: label})
	}

	sort.SliceStable(options, func(a, b int) bool {
		return normalize.Text(options[a].Label) < normalize.Text(options[b].Label)
	})
	return options
}

func isFiletingRole(role string) bool {
	r := normalize.Text(role)
	return strings.Contains(r, "filetador") ||
		strings.Contains(r, "filetag") ||
		operadorFilet.MatchString(r) ||
		strings.Contains(r, "file")
}

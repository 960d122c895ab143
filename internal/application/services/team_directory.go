package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/taskmaster/dashboard/internal/domain/entities"
)

// TeamDirectory is the read-only list of team members
type TeamDirectory struct {
	mu      sync.RWMutex
	members []entities.TeamMember
	byID    map[string]int
}

// NewTeamDirectory creates a directory holding a copy of members
func NewTeamDirectory(members []entities.TeamMember) *TeamDirectory {
	d := &TeamDirectory{}
	d.Load(members)
	return d
}

// Load swaps the directory content
func (d *TeamDirectory) Load(members []entities.TeamMember) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.members = make([]entities.TeamMember, 0, len(members))
	d.byID = make(map[string]int, len(members))
	for _, m := range members {
		if _, dup := d.byID[m.ID]; dup {
			continue
		}
		d.byID[m.ID] = len(d.members)
		d.members = append(d.members, m.Clone())
	}
}

// List returns every member in directory order
func (d *TeamDirectory) List() []entities.TeamMember {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]entities.TeamMember, len(d.members))
	for i, m := range d.members {
		out[i] = m.Clone()
	}
	return out
}

// Get returns one member
func (d *TeamDirectory) Get(id string) (entities.TeamMember, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	pos, ok := d.byID[id]
	if !ok {
		return entities.TeamMember{}, entities.NewNotFoundError("team member", id)
	}
	return d.members[pos].Clone(), nil
}

// Member implements ports.MemberLookup
func (d *TeamDirectory) Member(ctx context.Context, id string) (entities.TeamMember, error) {
	return d.Get(id)
}

// Search matches query against name, role and department. An empty
// department or "all" does not restrict the result.
func (d *TeamDirectory) Search(query, department string) []entities.TeamMember {
	query = strings.ToLower(strings.TrimSpace(query))
	department = strings.ToLower(strings.TrimSpace(department))

	var out []entities.TeamMember
	for _, m := range d.List() {
		if department != "" && department != "all" && strings.ToLower(m.Department) != department {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(m.Name), query) &&
			!strings.Contains(strings.ToLower(m.Role), query) &&
			!strings.Contains(strings.ToLower(m.Department), query) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Departments returns "all" followed by the distinct lowercase departments
// in alphabetical order.
func (d *TeamDirectory) Departments() []string {
	d.mu.RLock()
	seen := make(map[string]struct{})
	for _, m := range d.members {
		seen[strings.ToLower(m.Department)] = struct{}{}
	}
	d.mu.RUnlock()

	depts := make([]string, 0, len(seen))
	for dept := range seen {
		if dept == "" {
			continue
		}
		depts = append(depts, dept)
	}
	sort.Strings(depts)
	return append([]string{"all"}, depts...)
}

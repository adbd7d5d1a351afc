package analyzer

import (
	"sort"

	"github.com/viant/buildprune/inspector/info"
)

// Reason explains why an artifact is outdated
type Reason string

const (
	// ReasonOrphaned artifact has no source anymore
	ReasonOrphaned Reason = "orphaned"
	// ReasonStale artifact is older than its source
	ReasonStale Reason = "stale"
	// ReasonTransitive artifact's source imports an outdated unit
	ReasonTransitive Reason = "transitive"
)

// Entry represents one outdated artifact
type Entry struct {
	Unit   info.UnitName
	Path   string
	Reason Reason
	Via    info.UnitName // Imported outdated unit, set for transitive entries
}

// Plan represents the final outdated artifact set, sorted by unit name
type Plan struct {
	Entries []*Entry
}

// Len returns number of outdated artifacts
func (p *Plan) Len() int {
	return len(p.Entries)
}

// IsEmpty returns true if every artifact is up to date
func (p *Plan) IsEmpty() bool {
	return len(p.Entries) == 0
}

// Lookup returns the entry for a unit
func (p *Plan) Lookup(unit info.UnitName) *Entry {
	idx := sort.Search(len(p.Entries), func(i int) bool { return p.Entries[i].Unit >= unit })
	if idx < len(p.Entries) && p.Entries[idx].Unit == unit {
		return p.Entries[idx]
	}
	return nil
}

// Units returns outdated unit names
func (p *Plan) Units() []info.UnitName {
	result := make([]info.UnitName, 0, len(p.Entries))
	for _, entry := range p.Entries {
		result = append(result, entry.Unit)
	}
	return result
}

// Paths returns outdated artifact paths
func (p *Plan) Paths() []string {
	result := make([]string, 0, len(p.Entries))
	for _, entry := range p.Entries {
		result = append(result, entry.Path)
	}
	return result
}

func newPlan(entries map[info.UnitName]*Entry) *Plan {
	plan := &Plan{Entries: make([]*Entry, 0, len(entries))}
	for _, entry := range entries {
		plan.Entries = append(plan.Entries, entry)
	}
	sort.Slice(plan.Entries, func(i, j int) bool { return plan.Entries[i].Unit < plan.Entries[j].Unit })
	return plan
}

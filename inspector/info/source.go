package info

import "time"

// Source represents a source file descriptor: its unit name and in-project dependencies
type Source struct {
	Unit         UnitName
	Path         string
	ModTime      time.Time
	Dependencies []UnitName // In file order, duplicates allowed
	Digest       uint64     // Content hash
}

// DependsOn returns the first dependency, in declaration order, that is a member of units
func (s *Source) DependsOn(units UnitSet) (UnitName, bool) {
	for _, dependency := range s.Dependencies {
		if units.Has(dependency) {
			return dependency, true
		}
	}
	return "", false
}

package info

import "strings"

// NestedSeparator separates an outer unit from its nested units in compiled artifact names (Outer$Inner)
const NestedSeparator = "$"

// UnitName identifies a compilable unit by its fully qualified name, e.g. org.example.Foo
type UnitName string

// Qualify builds a unit name from a namespace and a file stem; an empty namespace yields the bare stem
func Qualify(namespace, stem string) UnitName {
	if namespace == "" {
		return UnitName(stem)
	}
	return UnitName(namespace + "." + stem)
}

// Outer returns the enclosing unit name, truncated at the first separator occurrence
func (u UnitName) Outer(separator string) UnitName {
	if separator == "" {
		return u
	}
	if idx := strings.Index(string(u), separator); idx != -1 {
		return u[:idx]
	}
	return u
}

// IsNested returns true if the unit name addresses a nested unit
func (u UnitName) IsNested(separator string) bool {
	return separator != "" && strings.Contains(string(u), separator)
}

func (u UnitName) String() string {
	return string(u)
}

// UnitSet represents a set of unit names
type UnitSet map[UnitName]bool

// Add adds units to the set
func (s UnitSet) Add(units ...UnitName) {
	for _, unit := range units {
		s[unit] = true
	}
}

// Has returns true if the set contains unit
func (s UnitSet) Has(unit UnitName) bool {
	return s[unit]
}

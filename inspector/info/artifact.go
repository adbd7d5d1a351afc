package info

import "time"

// Artifact represents a compiled artifact descriptor
type Artifact struct {
	Unit    UnitName // Unit name, nested names are kept (Outer$Inner)
	Path    string   // Local path of the artifact file itself
	ModTime time.Time
}

// Outer returns the unit name of the source the artifact was compiled from
func (a *Artifact) Outer(separator string) UnitName {
	return a.Unit.Outer(separator)
}

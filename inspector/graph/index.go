package graph

import (
	"sort"

	"github.com/viant/buildprune/inspector/info"
)

// Collision describes two descriptors that resolved to the same unit name; the current one replaced the previous one
type Collision struct {
	Unit      info.UnitName
	Previous  string // Path of the replaced descriptor
	Current   string // Path of the retained descriptor
	Identical bool   // Whether both sources have the same content
}

// SourceIndex maps unit names to source descriptors in scan order
type SourceIndex struct {
	sources map[info.UnitName]*info.Source
	units   []info.UnitName
}

// NewSourceIndex creates an empty source index
func NewSourceIndex() *SourceIndex {
	return &SourceIndex{sources: map[info.UnitName]*info.Source{}}
}

// Put adds a source descriptor; a later descriptor for the same unit replaces the earlier one and is reported as a collision
func (i *SourceIndex) Put(source *info.Source) *Collision {
	previous, ok := i.sources[source.Unit]
	i.sources[source.Unit] = source
	if !ok {
		i.units = nil
		return nil
	}
	return &Collision{
		Unit:      source.Unit,
		Previous:  previous.Path,
		Current:   source.Path,
		Identical: previous.Digest == source.Digest,
	}
}

// Get returns the source descriptor for a unit
func (i *SourceIndex) Get(unit info.UnitName) (*info.Source, bool) {
	source, ok := i.sources[unit]
	return source, ok
}

// Len returns number of indexed units
func (i *SourceIndex) Len() int {
	return len(i.sources)
}

// Units returns sorted unit names
func (i *SourceIndex) Units() []info.UnitName {
	if i.units == nil {
		i.units = sortedUnits(i.sources)
	}
	return i.units
}

// ArtifactIndex maps unit names to artifact descriptors in scan order
type ArtifactIndex struct {
	artifacts map[info.UnitName]*info.Artifact
	units     []info.UnitName
}

// NewArtifactIndex creates an empty artifact index
func NewArtifactIndex() *ArtifactIndex {
	return &ArtifactIndex{artifacts: map[info.UnitName]*info.Artifact{}}
}

// Put adds an artifact descriptor, last one wins
func (i *ArtifactIndex) Put(artifact *info.Artifact) *Collision {
	previous, ok := i.artifacts[artifact.Unit]
	i.artifacts[artifact.Unit] = artifact
	if !ok {
		i.units = nil
		return nil
	}
	return &Collision{Unit: artifact.Unit, Previous: previous.Path, Current: artifact.Path}
}

// Get returns the artifact descriptor for a unit
func (i *ArtifactIndex) Get(unit info.UnitName) (*info.Artifact, bool) {
	artifact, ok := i.artifacts[unit]
	return artifact, ok
}

// Len returns number of indexed units
func (i *ArtifactIndex) Len() int {
	return len(i.artifacts)
}

// Units returns sorted unit names
func (i *ArtifactIndex) Units() []info.UnitName {
	if i.units == nil {
		i.units = sortedUnits(i.artifacts)
	}
	return i.units
}

// ByOuter groups artifact unit names by their outer unit, each group sorted
func (i *ArtifactIndex) ByOuter(separator string) map[info.UnitName][]info.UnitName {
	result := make(map[info.UnitName][]info.UnitName)
	for _, unit := range i.Units() {
		outer := unit.Outer(separator)
		result[outer] = append(result[outer], unit)
	}
	return result
}

func sortedUnits[T any](m map[info.UnitName]T) []info.UnitName {
	units := make([]info.UnitName, 0, len(m))
	for unit := range m {
		units = append(units, unit)
	}
	sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })
	return units
}

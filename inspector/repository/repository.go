package repository

import "path/filepath"

// Project type names
const (
	TypeMaven  = "maven"
	TypeGradle = "gradle"
)

// Project represents information about a detected JVM project
type Project struct {
	RootPath string // Absolute path to the project root directory
	Type     string // maven or gradle
	Name     string // artifactId or rootProject.name
	GroupID  string // groupId or group, used as the default namespace prefix
}

// Layout describes where a build keeps sources and compiled artifacts
type Layout struct {
	SourceRoots   []string
	ArtifactRoots []string
	Sentinels     []string
}

// Layout returns the conventional layout of the project build tool, with roots resolved against RootPath
func (p *Project) Layout() *Layout {
	layout := &Layout{
		SourceRoots: []string{"src/main/java", "src/test/java"},
	}
	switch p.Type {
	case TypeGradle:
		layout.ArtifactRoots = []string{"build/classes/java/main", "build/classes/java/test"}
		layout.Sentinels = []string{"main", "test"}
	default:
		layout.ArtifactRoots = []string{"target/classes", "target/test-classes"}
		layout.Sentinels = []string{"classes", "test-classes"}
	}
	layout.SourceRoots = p.resolve(layout.SourceRoots)
	layout.ArtifactRoots = p.resolve(layout.ArtifactRoots)
	return layout
}

// Namespace returns the in-project import prefix derived from the group id
func (p *Project) Namespace() string {
	if p.GroupID == "" {
		return ""
	}
	return p.GroupID + "."
}

func (p *Project) resolve(paths []string) []string {
	result := make([]string, 0, len(paths))
	for _, candidate := range paths {
		result = append(result, filepath.Join(p.RootPath, filepath.FromSlash(candidate)))
	}
	return result
}

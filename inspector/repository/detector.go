package repository

import (
	"context"
	"github.com/viant/afs"
	"os"
	"path/filepath"
	"regexp"
)

var (
	artifactIDExpr  = regexp.MustCompile(`<artifactId>\s*([^<\s]+)\s*</artifactId>`)
	groupIDExpr     = regexp.MustCompile(`<groupId>\s*([^<\s]+)\s*</groupId>`)
	gradleNameExpr  = regexp.MustCompile(`(?:rootProject|project)\.name\s*=\s*['"]([^'"]+)['"]`)
	gradleGroupExpr = regexp.MustCompile(`(?m)^\s*group\s*=\s*['"]([^'"]+)['"]`)
	// blocks whose ids do not describe the project itself
	pomForeignBlocks = []*regexp.Regexp{
		regexp.MustCompile(`(?s)<parent>.*?</parent>`),
		regexp.MustCompile(`(?s)<dependencyManagement>.*?</dependencyManagement>`),
		regexp.MustCompile(`(?s)<dependencies>.*?</dependencies>`),
		regexp.MustCompile(`(?s)<build>.*?</build>`),
		regexp.MustCompile(`(?s)<profiles>.*?</profiles>`),
	}
	parentBlockExpr = regexp.MustCompile(`(?s)<parent>.*?</parent>`)
)

// Detector identifies JVM project root folders
type Detector struct {
	fs      afs.Service
	markers []string
}

// New creates a new project detector instance
func New() *Detector {
	return &Detector{
		fs: afs.New(),
		markers: []string{
			"pom.xml",          // Maven
			"build.gradle",     // Gradle
			"build.gradle.kts", // Gradle Kotlin DSL
		},
	}
}

// DetectProject identifies the project root for the given path and returns project info, or os.ErrNotExist if no marker was found
func (d *Detector) DetectProject(ctx context.Context, location string) (*Project, error) {
	absPath, err := filepath.Abs(location)
	if err != nil {
		return nil, err
	}
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, marker := d.findProjectRoot(startDir)
	if rootPath == "" {
		return nil, os.ErrNotExist
	}
	project := &Project{RootPath: rootPath, Name: filepath.Base(rootPath)}
	content, err := d.fs.DownloadWithURL(ctx, filepath.Join(rootPath, marker))
	if err != nil {
		return nil, err
	}
	switch marker {
	case "pom.xml":
		project.Type = TypeMaven
		if name := extractMavenArtifactID(content); name != "" {
			project.Name = name
		}
		project.GroupID = extractMavenGroupID(content)
	default:
		project.Type = TypeGradle
		if matches := gradleNameExpr.FindSubmatch(content); len(matches) == 2 {
			project.Name = string(matches[1])
		}
		if matches := gradleGroupExpr.FindSubmatch(content); len(matches) == 2 {
			project.GroupID = string(matches[1])
		}
	}
	return project, nil
}

// findProjectRoot searches up from the start directory for project markers
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, marker
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// We've reached the filesystem root with no match
			break
		}
		dir = parent
	}
	return "", ""
}

func projectSection(pom []byte) []byte {
	for _, block := range pomForeignBlocks {
		pom = block.ReplaceAll(pom, nil)
	}
	return pom
}

func extractMavenArtifactID(pom []byte) string {
	if matches := artifactIDExpr.FindSubmatch(projectSection(pom)); len(matches) == 2 {
		return string(matches[1])
	}
	return ""
}

// extractMavenGroupID returns the project group id, falling back to the group id inherited from the parent
func extractMavenGroupID(pom []byte) string {
	if matches := groupIDExpr.FindSubmatch(projectSection(pom)); len(matches) == 2 {
		return string(matches[1])
	}
	if parent := parentBlockExpr.Find(pom); parent != nil {
		if matches := groupIDExpr.FindSubmatch(parent); len(matches) == 2 {
			return string(matches[1])
		}
	}
	return ""
}

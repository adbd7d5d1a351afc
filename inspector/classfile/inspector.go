package classfile

import (
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/viant/buildprune/inspector/info"
)

// Inspector derives artifact descriptors from compiled artifact paths
type Inspector struct {
	sentinels map[string]bool
}

// NewInspector creates a new artifact Inspector; config sentinels mark artifact root directories
func NewInspector(config *info.Config) *Inspector {
	if config == nil {
		config = info.DefaultConfig()
	}
	sentinels := make(map[string]bool, len(config.Sentinels))
	for _, name := range config.Sentinels {
		sentinels[name] = true
	}
	return &Inspector{sentinels: sentinels}
}

// InspectFile builds the descriptor of a scanned artifact file.
// A file with a known scan root is named from its root relative path, otherwise from the upward sentinel walk.
func (i *Inspector) InspectFile(file *info.File) (*info.Artifact, error) {
	var unit info.UnitName
	var err error
	if file.Root != "" && file.Relative != "" {
		unit, err = i.RelativeUnitName(file.Root, file.Relative)
	} else {
		unit, err = i.UnitName(file.Path)
	}
	if err != nil {
		return nil, err
	}
	return &info.Artifact{Unit: unit, Path: file.Path, ModTime: file.ModTime}, nil
}

// RelativeUnitName builds the unit name of a file under a scanned artifact root.
// When the root itself is a sentinel every relative directory belongs to the name, so packages named
// like a sentinel (e.g. com.acme.test under a Gradle "test" root) keep their prefix.
// Otherwise the name starts below the top-most sentinel directory of the relative path.
func (i *Inspector) RelativeUnitName(root, relative string) (info.UnitName, error) {
	var dirs []string
	if dir := path.Dir(relative); dir != "." {
		dirs = strings.Split(dir, "/")
	}
	if !i.sentinels[filepath.Base(root)] {
		idx := slices.IndexFunc(dirs, func(dir string) bool { return i.sentinels[dir] })
		if idx == -1 {
			return "", info.NewConfigError("sentinels", "no artifact root marker in "+filepath.Join(root, filepath.FromSlash(relative)), nil)
		}
		dirs = dirs[idx+1:]
	}
	name := info.Stem(relative)
	if len(dirs) > 0 {
		name = strings.Join(dirs, ".") + "." + name
	}
	return info.UnitName(name), nil
}

// UnitName reconstructs the unit name by prepending parent directory names until a sentinel directory is reached
func (i *Inspector) UnitName(filePath string) (info.UnitName, error) {
	name := info.Stem(filePath)
	dir := filepath.Dir(filepath.Clean(filePath))
	for {
		dirName := filepath.Base(dir)
		if i.sentinels[dirName] {
			return info.UnitName(name), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", info.NewConfigError("sentinels", "no artifact root marker above "+filePath, nil)
		}
		name = dirName + "." + name
		dir = parent
	}
}

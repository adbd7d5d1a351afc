package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/muhammadmuzzammil1998/jsonc"
	"github.com/viant/afs"
	"github.com/viant/buildprune/analyzer"
	"github.com/viant/buildprune/inspector/info"
	"github.com/viant/buildprune/inspector/repository"
	"gopkg.in/yaml.v3"
)

// None explicitly clears the namespace prefix (every import is in-project) or the nested unit separator (no nesting)
const None = "none"

// Tree describes one kind of scanned file tree
type Tree struct {
	Roots     []string `json:"roots,omitempty" yaml:"roots,omitempty"`
	Extension string   `json:"extension,omitempty" yaml:"extension,omitempty"`
	Exclude   []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// Config represents buildprune run configuration
type Config struct {
	Sources        Tree     `json:"sources,omitempty" yaml:"sources,omitempty"`
	Artifacts      Tree     `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
	Sentinels      []string `json:"sentinels,omitempty" yaml:"sentinels,omitempty"`
	Namespace      string   `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Separator      string   `json:"separator,omitempty" yaml:"separator,omitempty"`
	PackageKeyword string   `json:"packageKeyword,omitempty" yaml:"packageKeyword,omitempty"`
	ImportKeyword  string   `json:"importKeyword,omitempty" yaml:"importKeyword,omitempty"`
	Parser         string   `json:"parser,omitempty" yaml:"parser,omitempty"`
	Propagation    string   `json:"propagation,omitempty" yaml:"propagation,omitempty"`
	DryRun         bool     `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
}

// Load reads a YAML (.yaml, .yml) or JSONC (.json, .jsonc) configuration file and validates it against the schema
func Load(ctx context.Context, location string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, location)
	if err != nil {
		return nil, info.NewConfigError("config", location, err)
	}
	document, err := toJSON(location, data)
	if err != nil {
		return nil, info.NewConfigError("config", location, err)
	}
	if err = Validate(document); err != nil {
		return nil, info.NewConfigError("config", location, err)
	}
	cfg := &Config{}
	if err = json.Unmarshal(document, cfg); err != nil {
		return nil, info.NewConfigError("config", location, err)
	}
	return cfg, nil
}

func toJSON(location string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".json", ".jsonc":
		return jsonc.ToJSON(data), nil
	case ".yaml", ".yml":
		var document interface{}
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		if document == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(document)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(location))
	}
}

// Merge overrides configuration with non zero values of override
func (c *Config) Merge(override *Config) {
	if override == nil {
		return
	}
	mergeTree(&c.Sources, &override.Sources)
	mergeTree(&c.Artifacts, &override.Artifacts)
	if len(override.Sentinels) > 0 {
		c.Sentinels = override.Sentinels
	}
	overrideString(&c.Namespace, override.Namespace)
	overrideString(&c.Separator, override.Separator)
	overrideString(&c.PackageKeyword, override.PackageKeyword)
	overrideString(&c.ImportKeyword, override.ImportKeyword)
	overrideString(&c.Parser, override.Parser)
	overrideString(&c.Propagation, override.Propagation)
	if override.DryRun {
		c.DryRun = true
	}
}

func mergeTree(dest, override *Tree) {
	if len(override.Roots) > 0 {
		dest.Roots = override.Roots
	}
	if len(override.Exclude) > 0 {
		dest.Exclude = override.Exclude
	}
	overrideString(&dest.Extension, override.Extension)
}

func overrideString(dest *string, value string) {
	if value != "" {
		*dest = value
	}
}

// Resolve fills unset values from the project detected at baseDir (Maven layout when none is found),
// makes roots absolute and checks enumerated values
func (c *Config) Resolve(ctx context.Context, baseDir string) error {
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return info.NewConfigError("project", baseDir, err)
	}
	project, err := repository.New().DetectProject(ctx, baseDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return info.NewConfigError("project", baseDir, err)
		}
		project = &repository.Project{RootPath: baseDir, Type: repository.TypeMaven, Name: filepath.Base(baseDir)}
	}
	layout := project.Layout()
	fs := afs.New()
	if len(c.Sources.Roots) == 0 {
		c.Sources.Roots = existing(ctx, fs, layout.SourceRoots)
	}
	if len(c.Artifacts.Roots) == 0 {
		c.Artifacts.Roots = existing(ctx, fs, layout.ArtifactRoots)
	}
	if len(c.Sentinels) == 0 {
		c.Sentinels = layout.Sentinels
	}
	if c.Namespace == "" {
		c.Namespace = project.Namespace()
	}
	defaults := info.DefaultConfig()
	overrideEmpty(&c.Sources.Extension, ".java")
	overrideEmpty(&c.Artifacts.Extension, ".class")
	overrideEmpty(&c.Separator, defaults.Separator)
	overrideEmpty(&c.PackageKeyword, defaults.PackageKeyword)
	overrideEmpty(&c.ImportKeyword, defaults.ImportKeyword)
	overrideEmpty(&c.Parser, string(defaults.Parser))
	overrideEmpty(&c.Propagation, string(analyzer.PropagationSingle))

	c.Sources.Roots = absolute(baseDir, c.Sources.Roots)
	c.Artifacts.Roots = absolute(baseDir, c.Artifacts.Roots)
	clearNone(&c.Namespace)
	clearNone(&c.Separator)

	switch info.Parser(c.Parser) {
	case info.ParserRegex, info.ParserTreeSitter:
	default:
		return info.NewConfigError("parser", fmt.Sprintf("unsupported value %q", c.Parser), nil)
	}
	switch analyzer.Propagation(c.Propagation) {
	case analyzer.PropagationSingle, analyzer.PropagationFixpoint:
	default:
		return info.NewConfigError("propagation", fmt.Sprintf("unsupported value %q", c.Propagation), nil)
	}
	for _, sentinel := range c.Sentinels {
		if sentinel == "" || strings.ContainsAny(sentinel, `/\`) {
			return info.NewConfigError("sentinels", fmt.Sprintf("%q is not a directory name", sentinel), nil)
		}
	}
	return nil
}

// existing keeps the layout roots present on disk; when none is present all are kept so that the scan reports them
func existing(ctx context.Context, fs afs.Service, roots []string) []string {
	var result []string
	for _, root := range roots {
		if ok, _ := fs.Exists(ctx, root); ok {
			result = append(result, root)
		}
	}
	if len(result) == 0 {
		return roots
	}
	return result
}

func clearNone(dest *string) {
	if *dest == None {
		*dest = ""
	}
}

func overrideEmpty(dest *string, value string) {
	if *dest == "" {
		*dest = value
	}
}

func absolute(baseDir string, roots []string) []string {
	result := make([]string, 0, len(roots))
	for _, root := range roots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(baseDir, filepath.FromSlash(root))
		}
		result = append(result, filepath.Clean(root))
	}
	return result
}

// InspectorConfig returns descriptor extraction settings
func (c *Config) InspectorConfig() *info.Config {
	return &info.Config{
		Namespace:      c.Namespace,
		PackageKeyword: c.PackageKeyword,
		ImportKeyword:  c.ImportKeyword,
		Separator:      c.Separator,
		Sentinels:      c.Sentinels,
		Parser:         info.Parser(c.Parser),
	}
}

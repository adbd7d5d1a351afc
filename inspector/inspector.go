package inspector

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/buildprune/inspector/classfile"
	"github.com/viant/buildprune/inspector/info"
	"github.com/viant/buildprune/inspector/java"
)

// SourceInspector extracts source descriptors
type SourceInspector interface {
	// InspectFile reads a source file and builds its descriptor
	InspectFile(ctx context.Context, file *info.File) (*info.Source, error)

	// InspectSource builds a descriptor from source code; stem is the file name without extension
	InspectSource(ctx context.Context, src []byte, stem string) (*info.Source, error)
}

// ArtifactInspector extracts compiled artifact descriptors
type ArtifactInspector interface {
	InspectFile(file *info.File) (*info.Artifact, error)
}

// Factory creates inspectors for the configured source and artifact extensions
type Factory struct {
	config *info.Config
	fs     afs.Service
}

// NewFactory creates a new inspector factory with the given config
func NewFactory(config *info.Config, fs afs.Service) *Factory {
	if config == nil {
		config = info.DefaultConfig()
	}
	return &Factory{config: config, fs: fs}
}

// SourceInspector returns a source inspector for the extension; the tree-sitter parser only understands Java
func (f *Factory) SourceInspector(extension string) (SourceInspector, error) {
	if f.config.Parser == info.ParserTreeSitter && strings.ToLower(extension) != ".java" {
		return nil, info.NewConfigError("parser", fmt.Sprintf("%s does not support %s files", f.config.Parser, extension), nil)
	}
	return java.NewInspector(f.config, f.fs), nil
}

// ArtifactInspector returns an artifact inspector; artifact names are derived from paths only
func (f *Factory) ArtifactInspector() ArtifactInspector {
	return classfile.NewInspector(f.config)
}

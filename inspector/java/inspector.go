package java

import (
	"context"
	"fmt"
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/viant/afs"
	"github.com/viant/buildprune/inspector/graph"
	"github.com/viant/buildprune/inspector/info"
)

// Inspector extracts source descriptors (unit name and in-project imports) from Java source files
type Inspector struct {
	config      *info.Config
	fs          afs.Service
	declaration *regexp.Regexp
	imports     *regexp.Regexp
}

// NewInspector creates a new Java Inspector with the provided configuration
func NewInspector(config *info.Config, fs afs.Service) *Inspector {
	if config == nil {
		config = info.DefaultConfig()
	}
	if fs == nil {
		fs = afs.New()
	}
	return &Inspector{
		config:      config,
		fs:          fs,
		declaration: declarationExpr(config.PackageKeyword),
		imports:     importExpr(config.ImportKeyword, config.Namespace),
	}
}

// InspectFile reads a scanned source file and builds its descriptor
func (i *Inspector) InspectFile(ctx context.Context, file *info.File) (*info.Source, error) {
	src, err := i.fs.DownloadWithURL(ctx, file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", file.Path, err)
	}
	source, err := i.InspectSource(ctx, src, file.Stem())
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", file.Path, err)
	}
	source.Path = file.Path
	source.ModTime = file.ModTime
	return source, nil
}

// InspectSource parses Java source code; stem is the file name without extension
func (i *Inspector) InspectSource(ctx context.Context, src []byte, stem string) (*info.Source, error) {
	var namespace string
	var dependencies []info.UnitName
	switch i.config.Parser {
	case info.ParserTreeSitter:
		var err error
		if namespace, dependencies, err = i.parseTree(ctx, src); err != nil {
			return nil, err
		}
	default:
		namespace, dependencies = i.parseText(src)
	}
	return &info.Source{
		Unit:         info.Qualify(namespace, stem),
		Dependencies: dependencies,
		Digest:       graph.Digest(src),
	}, nil
}

// parseText matches the first namespace declaration and every in-project import line
func (i *Inspector) parseText(src []byte) (string, []info.UnitName) {
	var namespace string
	if matches := i.declaration.FindSubmatch(src); len(matches) == 2 {
		namespace = string(matches[1])
	}
	var dependencies []info.UnitName
	for _, matches := range i.imports.FindAllSubmatch(src, -1) {
		dependencies = append(dependencies, info.UnitName(matches[1]))
	}
	return namespace, dependencies
}

// parseTree collects the package and import declarations of the syntax tree
func (i *Inspector) parseTree(ctx context.Context, src []byte) (string, []info.UnitName, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return "", nil, err
	}
	rootNode := tree.RootNode()

	var namespace string
	var dependencies []info.UnitName
	for j := uint32(0); j < rootNode.NamedChildCount(); j++ {
		childNode := rootNode.NamedChild(int(j))
		switch childNode.Type() {
		case "package_declaration":
			if namespace == "" {
				namespace = parsePackageDeclaration(childNode, src)
			}
		case "import_declaration":
			imported, ok := parseImportDeclaration(childNode, src)
			if ok && hasNamespace(imported, i.config.Namespace) {
				dependencies = append(dependencies, info.UnitName(imported))
			}
		}
	}
	return namespace, dependencies, nil
}

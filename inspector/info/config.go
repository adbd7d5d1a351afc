package info

// Parser names a source declaration parser
type Parser string

const (
	// ParserRegex matches declarations line by line
	ParserRegex Parser = "regex"
	// ParserTreeSitter matches declarations on the tree-sitter syntax tree
	ParserTreeSitter Parser = "treesitter"
)

// Config represents descriptor extraction settings
type Config struct {
	Namespace      string   // In-project import prefix, e.g. "org.example."; empty accepts any import
	PackageKeyword string   // Namespace declaration keyword
	ImportKeyword  string   // Dependency declaration keyword
	Separator      string   // Nested unit separator
	Sentinels      []string // Artifact root marker directory names
	Parser         Parser
}

func DefaultConfig() *Config {
	return &Config{
		PackageKeyword: "package",
		ImportKeyword:  "import",
		Separator:      NestedSeparator,
		Sentinels:      []string{"classes", "test-classes"},
		Parser:         ParserRegex,
	}
}

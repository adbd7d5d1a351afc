package java

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// declarationExpr matches "<keyword> a.b.c;" and captures the dotted name
func declarationExpr(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(keyword) + `[ \t]+([\w.$]+)[ \t]*;`)
}

// importExpr matches "<keyword> <namespace>X;", static and wildcard imports never match
func importExpr(keyword, namespace string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(keyword) + `[ \t]+(` + regexp.QuoteMeta(namespace) + `[\w.$]*)[ \t]*;`)
}

func hasNamespace(name, namespace string) bool {
	return strings.HasPrefix(name, namespace)
}

// parsePackageDeclaration extracts the package name from a Java package declaration
func parsePackageDeclaration(node *sitter.Node, source []byte) string {
	if node.Type() != "package_declaration" {
		return ""
	}
	for j := 0; j < int(node.NamedChildCount()); j++ {
		child := node.NamedChild(j)
		switch child.Type() {
		case "scoped_identifier", "identifier":
			return child.Content(source)
		}
	}
	return ""
}

// parseImportDeclaration extracts a single type import; static and on-demand (wildcard) imports are skipped
func parseImportDeclaration(node *sitter.Node, source []byte) (string, bool) {
	if node.Type() != "import_declaration" {
		return "", false
	}
	var name string
	for j := 0; j < int(node.ChildCount()); j++ {
		child := node.Child(j)
		switch child.Type() {
		case "static", "asterisk":
			return "", false
		case "scoped_identifier", "identifier":
			name = child.Content(source)
		}
	}
	return name, name != ""
}

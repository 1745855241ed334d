package parser

import (
	"go/ast"
	"regexp"
	"sort"
	"strings"
)

// wellKnownImports resolves qualifiers of packages generated code commonly
// references even when the scanned file spells them without an alias the
// path heuristic can recover.
var wellKnownImports = map[string]string{
	"uuid": "github.com/google/uuid",
	"echo": "github.com/labstack/echo/v4",
}

var (
	qualifierRegex   = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\.`)
	versionElemRegex = regexp.MustCompile(`^v[0-9]+$`)
)

// importTable maps the package qualifiers usable in one source file to their
// import paths. Aliased imports use the alias; plain imports fall back to
// the last path element, skipping version suffixes like /v4.
func importTable(file *ast.File) map[string]string {
	table := make(map[string]string)
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		var alias string
		if imp.Name != nil {
			alias = imp.Name.Name
		} else {
			elems := strings.Split(path, "/")
			alias = elems[len(elems)-1]
			if versionElemRegex.MatchString(alias) && len(elems) > 1 {
				alias = elems[len(elems)-2]
			}
		}
		if alias == "_" || alias == "." {
			continue
		}
		table[alias] = path
	}
	return table
}

// resolveQualifiers finds the package qualifiers in a type or expression
// string and resolves them against the file's imports. Unresolvable
// qualifiers are dropped; the scanned source would not compile if they were
// real packages.
func resolveQualifiers(expr string, table map[string]string) []string {
	if expr == "" || !strings.Contains(expr, ".") {
		return nil
	}

	seen := make(map[string]bool)
	var paths []string
	for _, match := range qualifierRegex.FindAllStringSubmatch(expr, -1) {
		qualifier := match[1]
		path, ok := table[qualifier]
		if !ok {
			path, ok = wellKnownImports[qualifier]
		}
		if !ok || seen[path] {
			continue
		}
		seen[path] = true
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

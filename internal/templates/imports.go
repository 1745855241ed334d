package templates

import (
	"sort"
	"strings"
)

// ImportSet accumulates the imports a generated file needs and renders them
// as a grouped import block, stdlib first.
type ImportSet struct {
	paths map[string]bool
}

func NewImportSet() *ImportSet {
	return &ImportSet{paths: make(map[string]bool)}
}

func (s *ImportSet) Add(path string) {
	s.paths[path] = true
}

// Render produces the import declaration, or "" when nothing is imported.
func (s *ImportSet) Render() string {
	if len(s.paths) == 0 {
		return ""
	}

	var stdlib, external []string
	for path := range s.paths {
		if strings.Contains(strings.SplitN(path, "/", 2)[0], ".") {
			external = append(external, path)
		} else {
			stdlib = append(stdlib, path)
		}
	}
	sort.Strings(stdlib)
	sort.Strings(external)

	var b strings.Builder
	b.WriteString("import (\n")
	for _, path := range stdlib {
		b.WriteString("\t\"" + path + "\"\n")
	}
	if len(stdlib) > 0 && len(external) > 0 {
		b.WriteString("\n")
	}
	for _, path := range external {
		b.WriteString("\t\"" + path + "\"\n")
	}
	b.WriteString(")\n")
	return b.String()
}

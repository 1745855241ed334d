package registry

import (
	"fmt"
	"sync"

	"github.com/loomgen/loom/internal/models"
	"github.com/loomgen/loom/pkg/loom"
)

// ParserRegistry resolves parameter types to the parse call emitted in
// generated adapters. It is seeded with the built-in parsers from pkg/loom
// and extended with loom::parser registrations found during scanning.
type ParserRegistry struct {
	parsers map[string]models.ParserSpec
	mu      sync.RWMutex
}

// NewParserRegistry creates a registry pre-seeded with the built-in parsers.
func NewParserRegistry() *ParserRegistry {
	r := &ParserRegistry{parsers: make(map[string]models.ParserSpec)}
	for _, builtin := range loom.BuiltinParsers {
		r.parsers[builtin.TypeName] = models.ParserSpec{
			TypeName:     builtin.TypeName,
			FunctionName: builtin.FunctionName,
			PackagePath:  builtin.PackagePath,
		}
	}
	return r
}

// Register adds a custom parser. A second registration for the same type is
// an error carrying both source positions.
func (r *ParserRegistry) Register(spec models.ParserSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.parsers[spec.TypeName]; exists {
		where := "built-in"
		if existing.File != "" {
			where = fmt.Sprintf("%s:%d", existing.File, existing.Line)
		}
		return models.NewParamClassificationError(spec.File, spec.Line,
			fmt.Sprintf("parser for %s already registered (%s)", spec.TypeName, where))
	}
	r.parsers[spec.TypeName] = spec
	return nil
}

// Lookup retrieves the parser for a type, resolving aliases like UUID.
func (r *ParserRegistry) Lookup(typeName string) (models.ParserSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if spec, exists := r.parsers[typeName]; exists {
		return spec, true
	}
	if resolved := loom.ResolveTypeAlias(typeName); resolved != typeName {
		if spec, exists := r.parsers[resolved]; exists {
			return spec, true
		}
	}
	return models.ParserSpec{}, false
}

// CallExpr renders the qualified call target for a type's parser: built-in
// parsers go through the loom package, custom ones are package-local.
func (r *ParserRegistry) CallExpr(typeName string) (string, bool) {
	spec, ok := r.Lookup(typeName)
	if !ok {
		return "", false
	}
	if spec.PackagePath == "builtin" {
		return "loom." + spec.FunctionName, true
	}
	return spec.FunctionName, true
}

// Has reports whether a parser exists for the type.
func (r *ParserRegistry) Has(typeName string) bool {
	_, ok := r.Lookup(typeName)
	return ok
}

package loom

import (
	"fmt"
	"regexp"
	"strings"
)

// Loom paths carry typed parameters in the form /users/{id:int}. Echo wants
// /users/:id; the type part drives parser selection in generated adapters.

var (
	paramRegex    = regexp.MustCompile(`\{([^:}]+):([^}]+)\}`)
	anyBraceRegex = regexp.MustCompile(`\{[^}]*\}`)
)

// PathToEcho converts a loom path to echo syntax: /users/{id:int} -> /users/:id
func PathToEcho(path string) string {
	return paramRegex.ReplaceAllString(path, `:$1`)
}

// PathParameters extracts parameter names and types from a loom path in
// declaration order.
func PathParameters(path string) ([]string, map[string]string) {
	types := make(map[string]string)
	var names []string
	for _, match := range paramRegex.FindAllStringSubmatch(path, -1) {
		names = append(names, match[1])
		types[match[1]] = match[2]
	}
	return names, types
}

// ValidatePath checks that every brace pair in a loom path uses the
// {name:type} form.
func ValidatePath(path string) error {
	if strings.Count(path, "{") != strings.Count(path, "}") {
		return fmt.Errorf("mismatched braces in path: %s", path)
	}
	all := anyBraceRegex.FindAllString(path, -1)
	valid := paramRegex.FindAllString(path, -1)
	if len(all) != len(valid) {
		return fmt.Errorf("invalid parameter syntax in path: %s (use {name:type})", path)
	}
	return nil
}

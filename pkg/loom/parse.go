package loom

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ParserMetadata describes a typed value parser usable for path and query
// extraction in generated adapters.
type ParserMetadata struct {
	TypeName     string
	FunctionName string
	PackagePath  string // "builtin" for the parsers below
	FileName     string
	Line         int
}

// BuiltinParsers contains metadata for every built-in parser
var BuiltinParsers = map[string]ParserMetadata{
	"int": {
		TypeName:     "int",
		FunctionName: "ParseInt",
		PackagePath:  "builtin",
	},
	"int64": {
		TypeName:     "int64",
		FunctionName: "ParseInt64",
		PackagePath:  "builtin",
	},
	"string": {
		TypeName:     "string",
		FunctionName: "ParseString",
		PackagePath:  "builtin",
	},
	"bool": {
		TypeName:     "bool",
		FunctionName: "ParseBool",
		PackagePath:  "builtin",
	},
	"float64": {
		TypeName:     "float64",
		FunctionName: "ParseFloat64",
		PackagePath:  "builtin",
	},
	"float32": {
		TypeName:     "float32",
		FunctionName: "ParseFloat32",
		PackagePath:  "builtin",
	},
	"uuid.UUID": {
		TypeName:     "uuid.UUID",
		FunctionName: "ParseUUID",
		PackagePath:  "builtin",
	},
}

// ParserAliases maps convenient aliases to their full type names
var ParserAliases = map[string]string{
	"UUID":   "uuid.UUID",
	"float":  "float64",
	"double": "float64",
}

// ParseInt parses a raw parameter value to int
func ParseInt(c echo.Context, raw string) (int, error) {
	return strconv.Atoi(raw)
}

// ParseInt64 parses a raw parameter value to int64
func ParseInt64(c echo.Context, raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// ParseString returns the raw parameter value as-is
func ParseString(c echo.Context, raw string) (string, error) {
	return raw, nil
}

// ParseBool parses a raw parameter value to bool
func ParseBool(c echo.Context, raw string) (bool, error) {
	return strconv.ParseBool(raw)
}

// ParseFloat64 parses a raw parameter value to float64
func ParseFloat64(c echo.Context, raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}

// ParseFloat32 parses a raw parameter value to float32
func ParseFloat32(c echo.Context, raw string) (float32, error) {
	val, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, err
	}
	return float32(val), nil
}

// ParseUUID parses a raw parameter value to uuid.UUID
func ParseUUID(c echo.Context, raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

// ResolveTypeAlias resolves a type alias to its actual type name
func ResolveTypeAlias(typeName string) string {
	if actual, ok := ParserAliases[typeName]; ok {
		return actual
	}
	return typeName
}

// GetBuiltinParser returns a built-in parser by type name, resolving aliases
func GetBuiltinParser(typeName string) (ParserMetadata, bool) {
	parser, ok := BuiltinParsers[ResolveTypeAlias(typeName)]
	return parser, ok
}

// IsBuiltinType reports whether a type has a built-in parser
func IsBuiltinType(typeName string) bool {
	_, ok := BuiltinParsers[ResolveTypeAlias(typeName)]
	return ok
}

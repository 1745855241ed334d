package annotations

// Bucket indices for the route rule set (loom::route and loom::raw).
const (
	RouteBucketMethod = iota
	RouteBucketPath
	RouteBucketMiddleware
	RouteBucketBody
)

// Bucket indices for the method-shorthand rule set (loom::get etc.).
const (
	ShorthandBucketPath = iota
	ShorthandBucketMiddleware
	ShorthandBucketBody
)

// Bucket indices for the controller rule set.
const (
	ControllerBucketPrefix = iota
	ControllerBucketMiddleware
)

// Bucket indices for the route-builder rule set (loom::routes).
const (
	RoutesBucketGrouped = iota
)

// Bucket indices for the parser rule set (loom::parser).
const (
	ParserBucketType = iota
)

// routeRules: METHOD /seg /seg... -Middleware=... -Body=...
// The path slot is variadic so multi-segment paths can be written as separate
// tokens; it is skippable because the path defaults to the handler's name.
var routeRules = []ParsingRule{
	{},                                     // method
	{Variadic: true, Skippable: true},      // path segments
	{Label: "Middleware", Skippable: true}, // middleware list
	{Label: "Body", Skippable: true},       // body-handling policy
}

// shorthandRules: /seg... -Middleware=... -Body=... (method implied by kind)
var shorthandRules = []ParsingRule{
	{Variadic: true, Skippable: true},
	{Label: "Middleware", Skippable: true},
	{Label: "Body", Skippable: true},
}

// controllerRules: -Prefix=/api -Middleware=...
var controllerRules = []ParsingRule{
	{Label: "Prefix", Skippable: true},
	{Label: "Middleware", Skippable: true},
}

// routesRules: -Grouped[=expr]
var routesRules = []ParsingRule{
	{Label: "Grouped", Skippable: true},
}

// parserRules: TypeName
var parserRules = []ParsingRule{
	{}, // handled type name
}

// RuleSet returns the declarative argument rules for an annotation kind.
// Param annotations have no rule set: their name is positional and the
// remaining labeled arguments form the marker set read by the classifier,
// accepting the markers in any order.
func RuleSet(kind Kind) []ParsingRule {
	switch kind {
	case RouteKind, RawKind:
		return routeRules
	case GetKind, PostKind, PutKind, DeleteKind, PatchKind:
		return shorthandRules
	case ControllerKind:
		return controllerRules
	case RoutesKind:
		return routesRules
	case ParserKind:
		return parserRules
	default:
		return nil
	}
}

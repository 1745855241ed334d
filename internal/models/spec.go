package models

import "strings"

// ParameterPlan fully determines the extraction statement and forwarding
// expression emitted for one handler parameter. Built once during
// classification and never mutated afterwards.
type ParameterPlan struct {
	Source       ParameterSource
	Optional     bool   // pointer-typed parameter: best-effort extraction
	DefaultExpr  string // fallback expression; "" = none
	DeclaredType string // type as written in the handler signature
	BindingName  string // identifier bound by the extraction statement
	CallLabel    string // -As rename; "" when the declared name is used
	Position     int    // position in the handler signature

	// TypeImports are the import paths behind package qualifiers in the
	// declared type, resolved from the handler's source file; the generated
	// file needs them whenever it writes the type out. DefaultImports are
	// the same for the default expression.
	TypeImports    []string
	DefaultImports []string
}

// ValueType returns the non-pointer element type of the parameter.
func (p ParameterPlan) ValueType() string {
	if p.Optional {
		return strings.TrimPrefix(p.DeclaredType, "*")
	}
	return p.DeclaredType
}

// BoundName is the externally visible name used for key defaulting: the
// CallLabel when given, else the binding name.
func (p ParameterPlan) BoundName() string {
	if p.CallLabel != "" {
		return p.CallLabel
	}
	return p.BindingName
}

// ReturnShape is the declared return signature of a handler.
type ReturnShape int

const (
	ReturnError ReturnShape = iota // error
	ReturnDataError                // (T, error)
	ReturnResponseError            // (*loom.Response, error)
)

// BuildState tracks an endpoint's progress through spec construction.
type BuildState int

const (
	StateUnparsed BuildState = iota
	StateRulesMatched
	StateParametersClassified
	StateAdapterSynthesized
	StateFailed
)

// EndpointSpec describes one annotated handler. Created once per handler and
// consumed exactly once by the assembler.
type EndpointSpec struct {
	AdapterName  string
	Method       string
	PathSegments []string
	Middleware   []string
	BodyPolicy   string // "collect" (default) or "stream"
	Params       []ParameterPlan
	Return       ReturnShape
	ReturnType   string // data type for ReturnDataError
	HandlerName  string
	Controller   string
	IsRawRequest bool   // handler takes the request value itself
	RawParamName string // parameter name of the raw request value
	State        BuildState
	File         string
	Line         int
}

// Path joins the endpoint's path segments into the registered path.
func (e *EndpointSpec) Path() string {
	if len(e.PathSegments) == 0 {
		return "/"
	}
	return strings.Join(e.PathSegments, "")
}

// GroupingFlag is a boolean resolved either at generation time (Known) or by
// a conditional in the generated code (Deferred).
type GroupingFlag struct {
	Known bool
	Value bool   // meaningful when Known
	Expr  string // meaningful when !Known
}

// KnownGrouping builds a generation-time-resolved flag.
func KnownGrouping(v bool) GroupingFlag {
	return GroupingFlag{Known: true, Value: v}
}

// DeferredGrouping builds a flag resolved by generated runtime code.
func DeferredGrouping(expr string) GroupingFlag {
	return GroupingFlag{Expr: expr}
}

// RouteBuilderSpec describes one custom route-builder passthrough.
type RouteBuilderSpec struct {
	Name      string
	ParamName string
	Grouping  GroupingFlag
	CanThrow  bool // builder returns error
	File      string
	Line      int
}

// ControllerSpec is the per-aggregate generation unit. Endpoint diagnostics
// are collected alongside the successful specs so one malformed handler never
// blocks its siblings.
type ControllerSpec struct {
	Name             string
	GlobalPrefix     string
	GlobalMiddleware []string
	Endpoints        []EndpointSpec // declared order, synthesized adapters
	RawEndpoints     []EndpointSpec // declared order, custom-request handlers
	Builders         []RouteBuilderSpec
	Diagnostics      []*GeneratorError
	File             string
	Line             int
}

// HasGlobalGrouping reports whether a grouped-routes value must be derived
// for this controller.
func (c *ControllerSpec) HasGlobalGrouping() bool {
	return c.GlobalPrefix != "" || len(c.GlobalMiddleware) > 0
}

// ParserSpec describes a loom::parser registration: a package function
// converting a raw request value into a typed parameter.
type ParserSpec struct {
	TypeName     string
	FunctionName string
	PackagePath  string
	File         string
	Line         int
}

// PackageSpec aggregates everything found in one scanned package.
type PackageSpec struct {
	PackageName string
	PackagePath string
	ImportPath  string // full module-qualified import path; "" when unresolved
	Controllers []ControllerSpec
	Parsers     []ParserSpec
	Diagnostics []*GeneratorError
}

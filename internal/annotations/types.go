package annotations

import "fmt"

// Kind represents the kind of loom annotation
type Kind int

const (
	ControllerKind Kind = iota
	RouteKind
	GetKind
	PostKind
	PutKind
	DeleteKind
	PatchKind
	RawKind
	RoutesKind
	ParamKind
	ParserKind
)

// String returns the string representation of the annotation kind
func (k Kind) String() string {
	switch k {
	case ControllerKind:
		return "controller"
	case RouteKind:
		return "route"
	case GetKind:
		return "get"
	case PostKind:
		return "post"
	case PutKind:
		return "put"
	case DeleteKind:
		return "delete"
	case PatchKind:
		return "patch"
	case RawKind:
		return "raw"
	case RoutesKind:
		return "routes"
	case ParamKind:
		return "param"
	case ParserKind:
		return "parser"
	default:
		return "unknown"
	}
}

// ParseKind converts a string to a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "controller":
		return ControllerKind, nil
	case "route":
		return RouteKind, nil
	case "get":
		return GetKind, nil
	case "post":
		return PostKind, nil
	case "put":
		return PutKind, nil
	case "delete":
		return DeleteKind, nil
	case "patch":
		return PatchKind, nil
	case "raw":
		return RawKind, nil
	case "routes":
		return RoutesKind, nil
	case "param":
		return ParamKind, nil
	case "parser":
		return ParserKind, nil
	default:
		return 0, fmt.Errorf("unknown annotation kind: %s", s)
	}
}

// IsRouteProducing reports whether annotations of this kind register a route
// (or a batch of routes) when attached to a member function.
func (k Kind) IsRouteProducing() bool {
	switch k {
	case RouteKind, GetKind, PostKind, PutKind, DeleteKind, PatchKind, RawKind, RoutesKind:
		return true
	default:
		return false
	}
}

// ImpliedMethod returns the HTTP method implied by a method-shorthand kind,
// or "" when the kind carries the method as an argument.
func (k Kind) ImpliedMethod() string {
	switch k {
	case GetKind:
		return "GET"
	case PostKind:
		return "POST"
	case PutKind:
		return "PUT"
	case DeleteKind:
		return "DELETE"
	case PatchKind:
		return "PATCH"
	default:
		return ""
	}
}

// SourceLocation identifies where an annotation appears in source code
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Argument is one call argument of an annotation line. Labeled arguments come
// from -Name or -Name=value flags; unlabeled arguments are bare tokens.
type Argument struct {
	Label string // "" for unlabeled arguments
	Value string // "" for value-less flags
}

// ParsedAnnotation is one fully matched annotation line.
type ParsedAnnotation struct {
	Kind     Kind
	Args     []Argument   // flat argument list in source order
	Buckets  [][]Argument // one bucket per rule of the kind's rule set
	Location SourceLocation
	Raw      string
}

// Bucket returns the arguments matched to the rule at index i.
func (p *ParsedAnnotation) Bucket(i int) []Argument {
	if i < 0 || i >= len(p.Buckets) {
		return nil
	}
	return p.Buckets[i]
}

// First returns the value of the first argument in bucket i, or def when the
// bucket is empty.
func (p *ParsedAnnotation) First(i int, def string) string {
	b := p.Bucket(i)
	if len(b) == 0 {
		return def
	}
	return b[0].Value
}

// Values returns the values of every argument in bucket i.
func (p *ParsedAnnotation) Values(i int) []string {
	b := p.Bucket(i)
	values := make([]string, 0, len(b))
	for _, arg := range b {
		values = append(values, arg.Value)
	}
	return values
}

// Has reports whether bucket i matched at least one argument.
func (p *ParsedAnnotation) Has(i int) bool {
	return len(p.Bucket(i)) > 0
}

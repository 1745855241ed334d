package parser

import (
	"fmt"
	"go/ast"
	"sort"
	"strings"

	"github.com/loomgen/loom/internal/annotations"
	"github.com/loomgen/loom/internal/models"
	"github.com/loomgen/loom/pkg/loom"
)

var httpMethods = map[string]bool{
	"GET":     true,
	"POST":    true,
	"PUT":     true,
	"DELETE":  true,
	"PATCH":   true,
	"HEAD":    true,
	"OPTIONS": true,
}

// buildEndpoint turns one annotated controller method into an endpoint spec.
// Every failure is a diagnostic tied to this method; the caller keeps
// processing the controller's other members.
func (p *Parser) buildEndpoint(ctrl *models.ControllerSpec, fn *ast.FuncDecl, route *annotations.ParsedAnnotation, paramMarkers map[string]*annotations.ParsedAnnotation, imports map[string]string) (*models.EndpointSpec, *models.GeneratorError) {
	loc := route.Location
	name := fn.Name.Name

	spec := &models.EndpointSpec{
		AdapterName: "wrap" + ctrl.Name + name,
		HandlerName: name,
		Controller:  ctrl.Name,
		State:       models.StateRulesMatched,
		File:        loc.File,
		Line:        loc.Line,
	}

	var segments []string
	switch route.Kind {
	case annotations.RouteKind, annotations.RawKind:
		method := strings.ToUpper(route.First(annotations.RouteBucketMethod, ""))
		if !httpMethods[method] {
			return nil, models.NewArgumentShapeError(loc.File, loc.Line,
				fmt.Sprintf("handler %s: unknown HTTP method %q", name, method), nil)
		}
		spec.Method = method
		segments = route.Values(annotations.RouteBucketPath)
		spec.Middleware = splitList(route.Values(annotations.RouteBucketMiddleware))
		spec.BodyPolicy = route.First(annotations.RouteBucketBody, "collect")
	default:
		spec.Method = route.Kind.ImpliedMethod()
		segments = route.Values(annotations.ShorthandBucketPath)
		spec.Middleware = splitList(route.Values(annotations.ShorthandBucketMiddleware))
		spec.BodyPolicy = route.First(annotations.ShorthandBucketBody, "collect")
	}

	if spec.BodyPolicy != "collect" && spec.BodyPolicy != "stream" {
		return nil, models.NewArgumentShapeError(loc.File, loc.Line,
			fmt.Sprintf("handler %s: -Body must be collect or stream, got %q", name, spec.BodyPolicy), nil)
	}

	if len(segments) == 0 {
		// A route with no path segments registers under the handler's own
		// name.
		segments = []string{"/" + name}
	}
	for _, seg := range segments {
		if !strings.HasPrefix(seg, "/") {
			return nil, models.NewArgumentShapeError(loc.File, loc.Line,
				fmt.Sprintf("handler %s: path segment %q must start with '/'", name, seg), nil)
		}
	}
	spec.PathSegments = segments
	if err := loom.ValidatePath(spec.Path()); err != nil {
		return nil, models.NewArgumentShapeError(loc.File, loc.Line,
			fmt.Sprintf("handler %s: %v", name, err), nil)
	}

	shape, returnType, cerr := returnShape(fn, loc)
	if cerr != nil {
		return nil, cerr
	}
	spec.Return = shape
	spec.ReturnType = returnType

	params := collectParams(fn)

	if route.Kind == annotations.RawKind {
		if len(params) != 1 || params[0].Type != "echo.Context" {
			return nil, models.NewStructuralContractError(loc.File, loc.Line,
				fmt.Sprintf("handler %s: raw handlers take exactly one echo.Context parameter", name),
				fmt.Sprintf("func (c *%s) %s(ctx echo.Context) error", ctrl.Name, name))
		}
		spec.IsRawRequest = true
		spec.RawParamName = params[0].Name
		spec.State = models.StateParametersClassified
		return spec, nil
	}

	for _, param := range params {
		var markers []annotations.Argument
		markerLoc := loc
		if ann, ok := paramMarkers[param.Name]; ok {
			markers = ann.Markers()
			markerLoc = ann.Location
			delete(paramMarkers, param.Name)
		}

		if param.Type == "context.Context" {
			return nil, models.NewStructuralContractError(loc.File, loc.Line,
				fmt.Sprintf("handler %s: unexpected context parameter %q", name, param.Name))
		}
		// A bare echo.Context parameter means the author wanted a raw
		// handler; with a -Request marker it is a legitimate projection.
		if param.Type == "echo.Context" && len(markers) == 0 {
			return nil, models.NewStructuralContractError(loc.File, loc.Line,
				fmt.Sprintf("handler %s: declared route handlers do not receive echo.Context", name),
				fmt.Sprintf("annotate %s with loom::raw to handle the request directly", name))
		}
		plan, cerr := ClassifyParameter(param, markers, markerLoc)
		if cerr != nil {
			return nil, cerr
		}
		plan.TypeImports = resolveQualifiers(plan.DeclaredType, imports)
		plan.DefaultImports = resolveQualifiers(plan.DefaultExpr, imports)
		spec.Params = append(spec.Params, plan)
	}

	if len(paramMarkers) > 0 {
		leftover := make([]string, 0, len(paramMarkers))
		for pname := range paramMarkers {
			leftover = append(leftover, pname)
		}
		sort.Strings(leftover)
		ann := paramMarkers[leftover[0]]
		return nil, models.NewParamClassificationError(ann.Location.File, ann.Location.Line,
			fmt.Sprintf("handler %s has no parameter named %q", name, leftover[0]))
	}

	spec.State = models.StateParametersClassified
	return spec, nil
}

// buildRouteBuilder turns a loom::routes method into a builder passthrough.
func (p *Parser) buildRouteBuilder(ctrl *models.ControllerSpec, fn *ast.FuncDecl, route *annotations.ParsedAnnotation) (*models.RouteBuilderSpec, *models.GeneratorError) {
	loc := route.Location
	name := fn.Name.Name

	params := collectParams(fn)
	for _, param := range params {
		if param.Type == "context.Context" {
			return nil, models.NewStructuralContractError(loc.File, loc.Line,
				fmt.Sprintf("route builder %s: unexpected context parameter %q", name, param.Name))
		}
	}
	if len(params) != 1 || params[0].Type != "*echo.Group" {
		return nil, models.NewStructuralContractError(loc.File, loc.Line,
			fmt.Sprintf("route builder %s must take exactly one *echo.Group parameter", name),
			fmt.Sprintf("func (c *%s) %s(g *echo.Group)", ctrl.Name, name))
	}

	spec := &models.RouteBuilderSpec{
		Name:      name,
		ParamName: params[0].Name,
		Grouping:  models.KnownGrouping(false),
		File:      loc.File,
		Line:      loc.Line,
	}

	switch results := fn.Type.Results; {
	case results == nil || len(results.List) == 0:
	case len(results.List) == 1 && exprString(results.List[0].Type) == "error":
		spec.CanThrow = true
	default:
		return nil, models.NewStructuralContractError(loc.File, loc.Line,
			fmt.Sprintf("route builder %s may return nothing or a single error", name))
	}

	if route.Has(annotations.RoutesBucketGrouped) {
		switch value := route.First(annotations.RoutesBucketGrouped, ""); value {
		case "", "true":
			spec.Grouping = models.KnownGrouping(true)
		case "false":
			spec.Grouping = models.KnownGrouping(false)
		default:
			spec.Grouping = models.DeferredGrouping(value)
		}
	}

	return spec, nil
}

// returnShape validates a handler result list against the three accepted
// signatures: error, (T, error), (*loom.Response, error).
func returnShape(fn *ast.FuncDecl, loc annotations.SourceLocation) (models.ReturnShape, string, *models.GeneratorError) {
	name := fn.Name.Name
	results := fn.Type.Results
	if results == nil || len(results.List) == 0 {
		return 0, "", models.NewStructuralContractError(loc.File, loc.Line,
			fmt.Sprintf("handler %s must return error as its final result", name),
			fmt.Sprintf("func ... %s(...) error", name))
	}

	types := make([]string, 0, 2)
	for _, field := range results.List {
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			types = append(types, exprString(field.Type))
		}
	}

	if types[len(types)-1] != "error" {
		return 0, "", models.NewStructuralContractError(loc.File, loc.Line,
			fmt.Sprintf("handler %s must return error as its final result", name))
	}

	switch len(types) {
	case 1:
		return models.ReturnError, "", nil
	case 2:
		if types[0] == "*loom.Response" {
			return models.ReturnResponseError, "", nil
		}
		return models.ReturnDataError, types[0], nil
	default:
		return 0, "", models.NewStructuralContractError(loc.File, loc.Line,
			fmt.Sprintf("handler %s returns too many values; use error, (T, error) or (*loom.Response, error)", name))
	}
}

// collectParams flattens a method's parameter list, expanding grouped names
// like (a, b int) into one entry per name.
func collectParams(fn *ast.FuncDecl) []funcParam {
	var params []funcParam
	if fn.Type.Params == nil {
		return params
	}
	pos := 0
	for _, field := range fn.Type.Params.List {
		typ := exprString(field.Type)
		if len(field.Names) == 0 {
			params = append(params, funcParam{Name: "_", Type: typ, Position: pos})
			pos++
			continue
		}
		for _, ident := range field.Names {
			params = append(params, funcParam{Name: ident.Name, Type: typ, Position: pos})
			pos++
		}
	}
	return params
}

// exprString renders a type expression the way it appears in source.
func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + exprString(t.Elt)
		}
		return "[...]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.Ellipsis:
		return "..." + exprString(t.Elt)
	default:
		return fmt.Sprintf("%T", expr)
	}
}

func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

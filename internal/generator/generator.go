package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loomgen/loom/internal/models"
	"github.com/loomgen/loom/internal/registry"
	"github.com/loomgen/loom/internal/templates"
	"github.com/loomgen/loom/pkg/loom"
)

// GeneratedFileName is the single file emitted per package.
const GeneratedFileName = "loom_routes.go"

var httpMethodConsts = map[string]string{
	"GET":     "http.MethodGet",
	"POST":    "http.MethodPost",
	"PUT":     "http.MethodPut",
	"DELETE":  "http.MethodDelete",
	"PATCH":   "http.MethodPatch",
	"HEAD":    "http.MethodHead",
	"OPTIONS": "http.MethodOptions",
}

// Generator assembles per-package route files from scanned controller specs.
type Generator struct {
	loomImport string
	module     string
	moduleRoot string
}

// NewGenerator creates a generator emitting imports against the given module
// path for the loom runtime.
func NewGenerator() *Generator {
	return &Generator{loomImport: "github.com/loomgen/loom/pkg/loom"}
}

// SetModule tells the generator which module the scanned packages belong to.
// The module path and root let each generated file record the full import
// path of its package.
func (g *Generator) SetModule(module, rootDir string) {
	g.module = module
	g.moduleRoot = rootDir
}

// importPathFor computes the module-qualified import path of a package
// directory. The empty string means the directory falls outside the module.
func (g *Generator) importPathFor(dir string) string {
	if g.module == "" || g.moduleRoot == "" {
		return ""
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	root, err := filepath.Abs(g.moduleRoot)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	if rel == "." {
		return g.module
	}
	return g.module + "/" + filepath.ToSlash(rel)
}

// GenerateFile renders the complete generated file for one package. A
// diagnostic on one controller or endpoint never blocks the rest; the
// returned diagnostics accumulate everything that was skipped. The empty
// string means the package has nothing to generate.
func (g *Generator) GenerateFile(spec *models.PackageSpec) (string, []*models.GeneratorError) {
	var diags []*models.GeneratorError
	diags = append(diags, spec.Diagnostics...)

	parsers := registry.NewParserRegistry()
	for _, ps := range spec.Parsers {
		if err := parsers.Register(ps); err != nil {
			if gerr, ok := err.(*models.GeneratorError); ok {
				diags = append(diags, gerr)
			} else {
				diags = append(diags, &models.GeneratorError{Kind: models.ErrorKindGeneration, Message: err.Error()})
			}
		}
	}

	imports := templates.NewImportSet()
	var body strings.Builder

	generated := 0
	for i := range spec.Controllers {
		ctrl := &spec.Controllers[i]
		diags = append(diags, ctrl.Diagnostics...)

		code, cdiags := g.generateController(spec, ctrl, parsers, imports)
		diags = append(diags, cdiags...)
		if code == "" {
			continue
		}
		body.WriteString(code)
		generated++
	}

	if generated == 0 {
		return "", diags
	}

	var file strings.Builder
	file.WriteString("// Code generated by loom. DO NOT EDIT.\n\n")
	fmt.Fprintf(&file, "package %s\n\n", spec.PackageName)
	if block := imports.Render(); block != "" {
		file.WriteString(block)
		file.WriteString("\n")
	}
	file.WriteString(body.String())
	return file.String(), diags
}

// generateController emits the adapters and the registration function for
// one controller. Registration order is fixed: group declaration, declared
// endpoints, raw endpoints, route builders.
func (g *Generator) generateController(pkg *models.PackageSpec, ctrl *models.ControllerSpec, parsers *registry.ParserRegistry, imports *templates.ImportSet) (string, []*models.GeneratorError) {
	var diags []*models.GeneratorError

	var adapters strings.Builder
	var good, goodRaw []*models.EndpointSpec

	emit := func(endpoints []models.EndpointSpec, sink *[]*models.EndpointSpec) {
		for i := range endpoints {
			ep := &endpoints[i]
			code, cerr := templates.AdapterFunc(ep, parsers, imports)
			if cerr != nil {
				ep.State = models.StateFailed
				diags = append(diags, cerr)
				continue
			}
			adapters.WriteString(code)
			adapters.WriteString("\n")
			*sink = append(*sink, ep)
		}
	}
	emit(ctrl.Endpoints, &good)
	emit(ctrl.RawEndpoints, &goodRaw)

	if len(good)+len(goodRaw)+len(ctrl.Builders) == 0 {
		return "", diags
	}

	imports.Add("github.com/labstack/echo/v4")
	if len(good)+len(goodRaw) > 0 {
		imports.Add("net/http")
		imports.Add(g.loomImport)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Register%sRoutes wires every annotated route of %s into e.\n", ctrl.Name, ctrl.Name)
	fmt.Fprintf(&b, "func Register%sRoutes(e *echo.Echo, ctrl *%s) error {\n", ctrl.Name, ctrl.Name)
	b.WriteString("\troot := e.Group(\"\")\n")

	grouped := ctrl.HasGlobalGrouping()
	if grouped && g.needsGroupedVar(ctrl, len(good)+len(goodRaw)) {
		if len(ctrl.GlobalMiddleware) > 0 {
			imports.Add(g.loomImport)
			fmt.Fprintf(&b, "\tglobalMW, err := loom.ResolveMiddlewares(%s)\n", quoteList(ctrl.GlobalMiddleware))
			b.WriteString("\tif err != nil {\n\t\treturn err\n\t}\n")
			fmt.Fprintf(&b, "\tgrouped := root.Group(%q, globalMW...)\n", ctrl.GlobalPrefix)
		} else {
			fmt.Fprintf(&b, "\tgrouped := root.Group(%q)\n", ctrl.GlobalPrefix)
		}
	}

	target := "root"
	if grouped {
		target = "grouped"
	}
	for _, ep := range good {
		g.writeRegistration(&b, pkg, ctrl, ep, target)
	}
	for _, ep := range goodRaw {
		g.writeRegistration(&b, pkg, ctrl, ep, target)
	}

	for i := range ctrl.Builders {
		g.writeBuilderCall(&b, &ctrl.Builders[i], grouped)
	}

	b.WriteString("\treturn nil\n")
	b.WriteString("}\n\n")

	return adapters.String() + b.String(), diags
}

// needsGroupedVar reports whether the grouped sub-group is referenced by any
// emitted code, so the generated file never declares an unused variable.
func (g *Generator) needsGroupedVar(ctrl *models.ControllerSpec, endpoints int) bool {
	if endpoints > 0 {
		return true
	}
	for _, builder := range ctrl.Builders {
		if !builder.Grouping.Known || builder.Grouping.Value {
			return true
		}
	}
	return false
}

// writeRegistration emits the route mount plus its registry record.
func (g *Generator) writeRegistration(b *strings.Builder, pkg *models.PackageSpec, ctrl *models.ControllerSpec, ep *models.EndpointSpec, target string) {
	path := ep.Path()
	echoPath := loom.PathToEcho(path)
	methodConst, ok := httpMethodConsts[ep.Method]
	if !ok {
		methodConst = fmt.Sprintf("%q", ep.Method)
	}

	handlerVar := lowerFirst(ep.HandlerName) + "Handler"
	fmt.Fprintf(b, "\n\t%s := %s(ctrl)\n", handlerVar, ep.AdapterName)

	mwArg := ""
	if len(ep.Middleware) > 0 {
		mwVar := lowerFirst(ep.HandlerName) + "MW"
		fmt.Fprintf(b, "\t%s, err := loom.ResolveMiddlewares(%s)\n", mwVar, quoteList(ep.Middleware))
		b.WriteString("\tif err != nil {\n\t\treturn err\n\t}\n")
		mwArg = ", " + mwVar + "..."
	}

	fmt.Fprintf(b, "\t%s.Add(%s, %q, %s%s)\n", target, methodConst, echoPath, handlerVar, mwArg)

	b.WriteString("\tloom.DefaultRouteRegistry.RegisterRoute(loom.RouteInfo{\n")
	fmt.Fprintf(b, "\t\tMethod:         %s,\n", methodConst)
	fmt.Fprintf(b, "\t\tPath:           %q,\n", path)
	fmt.Fprintf(b, "\t\tEchoPath:       %q,\n", echoPath)
	fmt.Fprintf(b, "\t\tHandlerName:    %q,\n", ep.HandlerName)
	fmt.Fprintf(b, "\t\tControllerName: %q,\n", ctrl.Name)
	fmt.Fprintf(b, "\t\tPackageName:    %q,\n", pkg.PackageName)
	if pkg.ImportPath != "" {
		fmt.Fprintf(b, "\t\tPackagePath:    %q,\n", pkg.ImportPath)
	}
	if len(ep.Middleware) > 0 {
		fmt.Fprintf(b, "\t\tMiddlewares:    []string{%s},\n", quoteList(ep.Middleware))
	}
	if names, types := loom.PathParameters(path); len(names) > 0 {
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%q: %q", name, types[name]))
		}
		fmt.Fprintf(b, "\t\tParameterTypes: map[string]string{%s},\n", strings.Join(parts, ", "))
	}
	fmt.Fprintf(b, "\t\tHandler:        %s,\n", handlerVar)
	b.WriteString("\t})\n")
}

// writeBuilderCall hands a group to a loom::routes builder. A deferred
// grouping flag becomes a runtime conditional between the grouped and root
// groups.
func (g *Generator) writeBuilderCall(b *strings.Builder, builder *models.RouteBuilderSpec, hasGrouped bool) {
	call := func(indent, group string) {
		if builder.CanThrow {
			fmt.Fprintf(b, "%sif err := ctrl.%s(%s); err != nil {\n", indent, builder.Name, group)
			fmt.Fprintf(b, "%s\treturn err\n", indent)
			fmt.Fprintf(b, "%s}\n", indent)
		} else {
			fmt.Fprintf(b, "%sctrl.%s(%s)\n", indent, builder.Name, group)
		}
	}

	b.WriteString("\n")
	switch {
	case !hasGrouped:
		// Without a controller prefix there is only the root group.
		call("\t", "root")
	case !builder.Grouping.Known:
		fmt.Fprintf(b, "\tif %s {\n", builder.Grouping.Expr)
		call("\t\t", "grouped")
		b.WriteString("\t} else {\n")
		call("\t\t", "root")
		b.WriteString("\t}\n")
	case builder.Grouping.Value:
		call("\t", "grouped")
	default:
		call("\t", "root")
	}
}

// WriteFile renders the package's generated file and writes it next to the
// scanned sources. When the package has nothing to generate, a stale
// generated file from an earlier run is removed instead. The bool reports
// whether a file was written.
func (g *Generator) WriteFile(dir string, spec *models.PackageSpec) (bool, []*models.GeneratorError, error) {
	spec.ImportPath = g.importPathFor(dir)
	content, diags := g.GenerateFile(spec)
	path := filepath.Join(dir, GeneratedFileName)

	if content == "" {
		if err := CleanFile(dir); err != nil {
			return false, diags, err
		}
		return false, diags, nil
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, diags, &models.GeneratorError{
			Kind:    models.ErrorKindFileSystem,
			File:    path,
			Message: fmt.Sprintf("failed to write generated file: %v", err),
			Cause:   err,
		}
	}
	return true, diags, nil
}

// CleanFile removes the generated file from a package directory if present.
func CleanFile(dir string) error {
	path := filepath.Join(dir, GeneratedFileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &models.GeneratorError{
			Kind:    models.ErrorKindFileSystem,
			File:    path,
			Message: fmt.Sprintf("failed to remove generated file: %v", err),
			Cause:   err,
		}
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func quoteList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, fmt.Sprintf("%q", item))
	}
	return strings.Join(quoted, ", ")
}

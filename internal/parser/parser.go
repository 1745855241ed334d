package parser

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"sort"

	"github.com/loomgen/loom/internal/annotations"
	"github.com/loomgen/loom/internal/models"
)

// Parser scans Go source for loom annotations and assembles them into
// per-package generation specs. One Parser may scan many packages; the
// token.FileSet is shared so positions stay stable across files.
type Parser struct {
	fileSet *token.FileSet
}

// NewParser creates an annotation scanner.
func NewParser() *Parser {
	return &Parser{fileSet: token.NewFileSet()}
}

// ParseSource scans a single source string. Used by tests and by callers
// that already hold file contents.
func (p *Parser) ParseSource(filename, source string) (*models.PackageSpec, error) {
	file, err := goparser.ParseFile(p.fileSet, filename, source, goparser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	spec := &models.PackageSpec{
		PackageName: file.Name.Name,
		PackagePath: "./",
	}
	p.process(spec, map[string]*ast.File{filename: file})
	return spec, nil
}

// ParseDirectory scans every .go file of the package in the given directory.
func (p *Parser) ParseDirectory(path string) (*models.PackageSpec, error) {
	pkgs, err := goparser.ParseDir(p.fileSet, path, nil, goparser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directory %s: %w", path, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages found in %s", path)
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found in %s", path)
	}

	for name, pkg := range pkgs {
		spec := &models.PackageSpec{
			PackageName: name,
			PackagePath: path,
		}
		p.process(spec, pkg.Files)
		return spec, nil
	}
	return nil, fmt.Errorf("no Go packages found in %s", path)
}

// process runs two passes over the package files: the first collects
// controllers and parser registrations, the second attaches member methods
// to their controllers. Files are visited in name order so generation output
// is deterministic.
func (p *Parser) process(spec *models.PackageSpec, files map[string]*ast.File) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	controllers := make(map[string]*models.ControllerSpec)
	var ordered []*models.ControllerSpec

	for _, name := range names {
		ordered = p.collectDeclarations(spec, files[name], controllers, ordered)
	}
	for _, name := range names {
		p.collectMembers(spec, files[name], controllers)
	}

	for _, ctrl := range ordered {
		spec.Controllers = append(spec.Controllers, *ctrl)
	}
}

func (p *Parser) collectDeclarations(spec *models.PackageSpec, file *ast.File, controllers map[string]*models.ControllerSpec, ordered []*models.ControllerSpec) []*models.ControllerSpec {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, s := range d.Specs {
				ts, ok := s.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := d.Doc
				if ts.Doc != nil {
					doc = ts.Doc
				}
				ordered = p.collectType(spec, ts, doc, controllers, ordered)
			}
		case *ast.FuncDecl:
			if d.Recv != nil {
				continue
			}
			p.collectFunction(spec, d)
		}
	}
	return ordered
}

func (p *Parser) collectType(spec *models.PackageSpec, ts *ast.TypeSpec, doc *ast.CommentGroup, controllers map[string]*models.ControllerSpec, ordered []*models.ControllerSpec) []*models.ControllerSpec {
	anns, diags := p.parseDoc(doc)
	spec.Diagnostics = append(spec.Diagnostics, diags...)

	for _, ann := range anns {
		switch ann.Kind {
		case annotations.ControllerKind:
			if _, ok := ts.Type.(*ast.StructType); !ok {
				spec.Diagnostics = append(spec.Diagnostics, models.NewAttachmentTargetError(
					ann.Location.File, ann.Location.Line,
					fmt.Sprintf("loom::controller must annotate a struct type, %s is not one", ts.Name.Name)))
				continue
			}
			ctrl := &models.ControllerSpec{
				Name:             ts.Name.Name,
				GlobalPrefix:     ann.First(annotations.ControllerBucketPrefix, ""),
				GlobalMiddleware: splitList(ann.Values(annotations.ControllerBucketMiddleware)),
				File:             ann.Location.File,
				Line:             ann.Location.Line,
			}
			controllers[ctrl.Name] = ctrl
			ordered = append(ordered, ctrl)
		default:
			spec.Diagnostics = append(spec.Diagnostics, models.NewAttachmentTargetError(
				ann.Location.File, ann.Location.Line,
				fmt.Sprintf("loom::%s cannot annotate a type declaration", ann.Kind)))
		}
	}
	return ordered
}

// collectFunction handles free functions, which may only carry loom::parser.
func (p *Parser) collectFunction(spec *models.PackageSpec, fn *ast.FuncDecl) {
	anns, diags := p.parseDoc(fn.Doc)
	spec.Diagnostics = append(spec.Diagnostics, diags...)

	for _, ann := range anns {
		if ann.Kind != annotations.ParserKind {
			spec.Diagnostics = append(spec.Diagnostics, models.NewAttachmentTargetError(
				ann.Location.File, ann.Location.Line,
				fmt.Sprintf("loom::%s cannot annotate a package-level function", ann.Kind)))
			continue
		}

		typeName := ann.First(annotations.ParserBucketType, "")
		if err := validateParserSignature(fn, typeName, ann.Location); err != nil {
			spec.Diagnostics = append(spec.Diagnostics, err)
			continue
		}
		spec.Parsers = append(spec.Parsers, models.ParserSpec{
			TypeName:     typeName,
			FunctionName: fn.Name.Name,
			PackagePath:  spec.PackagePath,
			File:         ann.Location.File,
			Line:         ann.Location.Line,
		})
	}
}

func (p *Parser) collectMembers(spec *models.PackageSpec, file *ast.File, controllers map[string]*models.ControllerSpec) {
	imports := importTable(file)
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil {
			continue
		}

		anns, diags := p.parseDoc(fn.Doc)
		if len(anns) == 0 && len(diags) == 0 {
			continue
		}

		recv := receiverName(fn)
		ctrl, known := controllers[recv]
		if !known {
			spec.Diagnostics = append(spec.Diagnostics, diags...)
			for _, ann := range anns {
				spec.Diagnostics = append(spec.Diagnostics, models.NewAttachmentTargetError(
					ann.Location.File, ann.Location.Line,
					fmt.Sprintf("loom::%s on method %s: receiver type %s is not a loom controller", ann.Kind, fn.Name.Name, recv)))
			}
			continue
		}
		ctrl.Diagnostics = append(ctrl.Diagnostics, diags...)

		var route *annotations.ParsedAnnotation
		paramMarkers := make(map[string]*annotations.ParsedAnnotation)
		bad := false
		for _, ann := range anns {
			switch {
			case ann.Kind.IsRouteProducing():
				if route != nil {
					ctrl.Diagnostics = append(ctrl.Diagnostics, models.NewStructuralContractError(
						ann.Location.File, ann.Location.Line,
						fmt.Sprintf("handler %s carries more than one route annotation", fn.Name.Name)))
					bad = true
					continue
				}
				route = ann
			case ann.Kind == annotations.ParamKind:
				pname := ann.ParamName()
				if _, dup := paramMarkers[pname]; dup {
					ctrl.Diagnostics = append(ctrl.Diagnostics, models.NewParamClassificationError(
						ann.Location.File, ann.Location.Line,
						fmt.Sprintf("handler %s: duplicate loom::param for %q", fn.Name.Name, pname)))
					bad = true
					continue
				}
				paramMarkers[pname] = ann
			default:
				ctrl.Diagnostics = append(ctrl.Diagnostics, models.NewAttachmentTargetError(
					ann.Location.File, ann.Location.Line,
					fmt.Sprintf("loom::%s cannot annotate a controller method", ann.Kind)))
				bad = true
			}
		}
		if bad || route == nil {
			if route == nil && len(paramMarkers) > 0 && !bad {
				first := anns[0]
				ctrl.Diagnostics = append(ctrl.Diagnostics, models.NewAttachmentTargetError(
					first.Location.File, first.Location.Line,
					fmt.Sprintf("handler %s has loom::param annotations but no route annotation", fn.Name.Name)))
			}
			continue
		}

		if route.Kind == annotations.RoutesKind {
			builder, cerr := p.buildRouteBuilder(ctrl, fn, route)
			if cerr != nil {
				ctrl.Diagnostics = append(ctrl.Diagnostics, cerr)
				continue
			}
			ctrl.Builders = append(ctrl.Builders, *builder)
			continue
		}

		endpoint, cerr := p.buildEndpoint(ctrl, fn, route, paramMarkers, imports)
		if cerr != nil {
			ctrl.Diagnostics = append(ctrl.Diagnostics, cerr)
			continue
		}
		if endpoint.IsRawRequest {
			ctrl.RawEndpoints = append(ctrl.RawEndpoints, *endpoint)
		} else {
			ctrl.Endpoints = append(ctrl.Endpoints, *endpoint)
		}
	}
}

// parseDoc extracts every annotation from a doc comment block. Malformed
// lines become diagnostics instead of aborting the block.
func (p *Parser) parseDoc(doc *ast.CommentGroup) ([]*annotations.ParsedAnnotation, []*models.GeneratorError) {
	if doc == nil {
		return nil, nil
	}

	var (
		anns  []*annotations.ParsedAnnotation
		diags []*models.GeneratorError
	)
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		pos := p.fileSet.Position(comment.Pos())
		loc := annotations.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}
		ann, err := annotations.ParseComment(comment.Text, loc)
		if err != nil {
			diags = append(diags, models.NewArgumentShapeError(loc.File, loc.Line, err.Error(), err))
			continue
		}
		anns = append(anns, ann)
	}
	return anns, diags
}

// validateParserSignature checks a loom::parser function against the parser
// contract: func(c echo.Context, raw string) (T, error) with T matching the
// declared type name.
func validateParserSignature(fn *ast.FuncDecl, typeName string, loc annotations.SourceLocation) *models.GeneratorError {
	name := fn.Name.Name
	if typeName == "" {
		return models.NewArgumentShapeError(loc.File, loc.Line,
			fmt.Sprintf("parser %s: loom::parser requires a type name", name), nil)
	}

	suggestion := fmt.Sprintf("func %s(c echo.Context, raw string) (%s, error)", name, typeName)

	params := fn.Type.Params
	if params == nil || len(params.List) != 2 ||
		len(params.List[0].Names) > 1 || len(params.List[1].Names) > 1 ||
		exprString(params.List[0].Type) != "echo.Context" ||
		exprString(params.List[1].Type) != "string" {
		return models.NewStructuralContractError(loc.File, loc.Line,
			fmt.Sprintf("parser %s must take (echo.Context, string)", name), suggestion)
	}

	results := fn.Type.Results
	if results == nil || len(results.List) != 2 ||
		exprString(results.List[1].Type) != "error" {
		return models.NewStructuralContractError(loc.File, loc.Line,
			fmt.Sprintf("parser %s must return (%s, error)", name, typeName), suggestion)
	}
	if got := exprString(results.List[0].Type); got != typeName {
		return models.NewStructuralContractError(loc.File, loc.Line,
			fmt.Sprintf("parser %s returns %s but is registered for %s", name, got, typeName), suggestion)
	}
	return nil
}

func receiverName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	switch t := fn.Recv.List[0].Type.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return ident.Name
		}
	}
	return ""
}

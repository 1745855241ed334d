package templates

import (
	"fmt"
	"strings"

	"github.com/loomgen/loom/internal/models"
	"github.com/loomgen/loom/pkg/loom"
)

// AdapterFunc emits the wrapper turning one classified endpoint into an
// echo.HandlerFunc. The wrapper extracts every parameter, forwards them in
// declaration order and maps the handler's return shape onto the response.
func AdapterFunc(spec *models.EndpointSpec, parsers ParserLookup, imports *ImportSet) (string, *models.GeneratorError) {
	var body strings.Builder
	errDeclared := false
	args := make([]string, 0, len(spec.Params))

	if spec.IsRawRequest {
		args = append(args, "c")
	} else {
		if cerr := checkPathTypes(spec); cerr != nil {
			return "", cerr
		}
		for _, plan := range spec.Params {
			ext, cerr := ExtractionStatement(plan, spec.BodyPolicy, parsers)
			if cerr != nil {
				cerr.File = spec.File
				cerr.Line = spec.Line
				return "", cerr
			}
			body.WriteString(ext.Code)
			errDeclared = errDeclared || ext.DeclaresErr
			if ext.NeedsJSON {
				imports.Add("encoding/json")
			}
			for _, path := range ext.Imports {
				imports.Add(path)
			}
			args = append(args, plan.BindingName)
		}
	}

	call := fmt.Sprintf("handler.%s(%s)", spec.HandlerName, strings.Join(args, ", "))
	if spec.IsRawRequest && spec.Return == models.ReturnError {
		// Raw handlers write the response themselves.
		fmt.Fprintf(&body, "\t\treturn %s\n", call)
	} else {
		writeResponse(&body, spec.Return, call, errDeclared)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// %s adapts %s.%s to an echo handler.\n", spec.AdapterName, spec.Controller, spec.HandlerName)
	fmt.Fprintf(&b, "func %s(handler *%s) echo.HandlerFunc {\n", spec.AdapterName, spec.Controller)
	b.WriteString("\treturn func(c echo.Context) error {\n")
	b.WriteString(body.String())
	b.WriteString("\t}\n")
	b.WriteString("}\n")

	spec.State = models.StateAdapterSynthesized
	return b.String(), nil
}

// writeResponse emits the handler call and response mapping for one of the
// three accepted return shapes.
func writeResponse(b *strings.Builder, shape models.ReturnShape, call string, errDeclared bool) {
	switch shape {
	case models.ReturnError:
		if errDeclared {
			fmt.Fprintf(b, "\t\terr = %s\n", call)
			b.WriteString("\t\tif err != nil {\n")
		} else {
			fmt.Fprintf(b, "\t\tif err := %s; err != nil {\n", call)
		}
		b.WriteString("\t\t\treturn err\n")
		b.WriteString("\t\t}\n")
		b.WriteString("\t\treturn c.NoContent(http.StatusNoContent)\n")

	case models.ReturnDataError:
		fmt.Fprintf(b, "\t\tresult, err := %s\n", call)
		b.WriteString("\t\tif err != nil {\n")
		b.WriteString("\t\t\treturn err\n")
		b.WriteString("\t\t}\n")
		b.WriteString("\t\treturn c.JSON(http.StatusOK, result)\n")

	case models.ReturnResponseError:
		fmt.Fprintf(b, "\t\tresult, err := %s\n", call)
		b.WriteString("\t\tif err != nil {\n")
		b.WriteString("\t\t\treturn err\n")
		b.WriteString("\t\t}\n")
		b.WriteString("\t\tif result == nil {\n")
		b.WriteString("\t\t\treturn c.NoContent(http.StatusNoContent)\n")
		b.WriteString("\t\t}\n")
		b.WriteString("\t\tif result.Body == nil {\n")
		b.WriteString("\t\t\treturn c.NoContent(result.StatusCode)\n")
		b.WriteString("\t\t}\n")
		b.WriteString("\t\treturn c.JSON(result.StatusCode, result.Body)\n")
	}
}

// checkPathTypes cross-checks path-declared parameter types against the
// handler signature: /books/{id:int} must line up with an int parameter
// bound to the id key.
func checkPathTypes(spec *models.EndpointSpec) *models.GeneratorError {
	_, declared := loom.PathParameters(spec.Path())
	if len(declared) == 0 {
		return nil
	}

	for _, plan := range spec.Params {
		if plan.Source.Kind != models.SourcePath {
			continue
		}
		pathType, ok := declared[plan.Source.Key]
		if !ok {
			continue
		}
		want := loom.ResolveTypeAlias(pathType)
		got := loom.ResolveTypeAlias(plan.ValueType())
		if want != got {
			return &models.GeneratorError{
				Kind: models.ErrorKindGeneration,
				File: spec.File,
				Line: spec.Line,
				Message: fmt.Sprintf("handler %s: path declares %s as %s but the parameter is %s",
					spec.HandlerName, plan.Source.Key, pathType, plan.ValueType()),
			}
		}
	}
	return nil
}

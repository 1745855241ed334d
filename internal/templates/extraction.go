package templates

import (
	"fmt"
	"strings"

	"github.com/loomgen/loom/internal/models"
)

// ParserLookup resolves a value type to the parse call emitted for it.
type ParserLookup interface {
	CallExpr(typeName string) (string, bool)
}

// extraction is one emitted binding statement. DeclaresErr is true when the
// statement introduces err in the adapter scope, which decides between := and
// = at the handler call site. Imports lists the packages the emitted code
// references, e.g. the package of a qualified parameter type.
type extraction struct {
	Code        string
	DeclaresErr bool
	NeedsJSON   bool
	Imports     []string
}

// ExtractionStatement emits the binding code for one classified parameter.
// The emitted shape follows the required/optional/default matrix: required
// bindings fail the request with 400 (401 for auth), optional bindings fall
// back to nil, defaulted bindings fall back to the default expression.
func ExtractionStatement(plan models.ParameterPlan, bodyPolicy string, parsers ParserLookup) (extraction, *models.GeneratorError) {
	switch plan.Source.Kind {
	case models.SourcePath:
		return scalarExtraction(plan, fmt.Sprintf("c.Param(%q)", plan.Source.Key), false, parsers)
	case models.SourceQuery:
		return scalarExtraction(plan, fmt.Sprintf("c.QueryParam(%q)", plan.Source.Key), true, parsers)
	case models.SourceBody:
		return bindExtraction(plan, bodyPolicy)
	case models.SourceQueryContent:
		return queryContentExtraction(plan), nil
	case models.SourceAuth:
		return authExtraction(plan), nil
	case models.SourceRequestField, models.SourceRawRequest:
		return projectionExtraction(plan), nil
	default:
		return extraction{}, &models.GeneratorError{
			Kind:    models.ErrorKindGeneration,
			Message: fmt.Sprintf("parameter %s has unknown source kind", plan.BindingName),
		}
	}
}

// scalarExtraction covers path and query parameters, which share the
// parse-from-raw-string shape. Query parameters additionally get a presence
// check when required, since an absent query key is indistinguishable from an
// empty value at the echo API.
func scalarExtraction(plan models.ParameterPlan, accessor string, isQuery bool, parsers ParserLookup) (extraction, *models.GeneratorError) {
	name := plan.BindingName
	valueType := plan.ValueType()
	parseCall, ok := parsers.CallExpr(valueType)
	if !ok {
		return extraction{}, &models.GeneratorError{
			Kind:    models.ErrorKindGeneration,
			Message: fmt.Sprintf("no parser registered for type %s (parameter %s)", valueType, name),
			Suggestions: []string{
				fmt.Sprintf("add a loom::parser %s function to the package", valueType),
			},
		}
	}

	var b strings.Builder
	switch {
	case plan.DefaultExpr != "":
		assign := name + " = v"
		if plan.Optional {
			assign = name + " = &v"
		}
		fmt.Fprintf(&b, "\t\t%s := %s\n", name, plan.DefaultExpr)
		fmt.Fprintf(&b, "\t\tif raw := %s; raw != \"\" {\n", accessor)
		fmt.Fprintf(&b, "\t\t\tif v, err := %s(c, raw); err == nil {\n", parseCall)
		fmt.Fprintf(&b, "\t\t\t\t%s\n", assign)
		b.WriteString("\t\t\t}\n")
		b.WriteString("\t\t}\n")
		return extraction{Code: b.String(), Imports: plan.DefaultImports}, nil

	case plan.Optional:
		fmt.Fprintf(&b, "\t\tvar %s *%s\n", name, valueType)
		fmt.Fprintf(&b, "\t\tif raw := %s; raw != \"\" {\n", accessor)
		fmt.Fprintf(&b, "\t\t\tif v, err := %s(c, raw); err == nil {\n", parseCall)
		fmt.Fprintf(&b, "\t\t\t\t%s = &v\n", name)
		b.WriteString("\t\t\t}\n")
		b.WriteString("\t\t}\n")
		return extraction{Code: b.String(), Imports: plan.TypeImports}, nil

	default:
		if isQuery {
			fmt.Fprintf(&b, "\t\tif %s == \"\" {\n", accessor)
			fmt.Fprintf(&b, "\t\t\treturn echo.NewHTTPError(http.StatusBadRequest, \"missing query parameter %s\")\n", plan.Source.Key)
			b.WriteString("\t\t}\n")
		}
		fmt.Fprintf(&b, "\t\t%s, err := %s(c, %s)\n", name, parseCall, accessor)
		b.WriteString("\t\tif err != nil {\n")
		fmt.Fprintf(&b, "\t\t\treturn echo.NewHTTPError(http.StatusBadRequest, \"invalid parameter %s: \"+err.Error())\n", plan.Source.Key)
		b.WriteString("\t\t}\n")
		return extraction{Code: b.String(), DeclaresErr: true}, nil
	}
}

// bindExtraction decodes the request body. The collect policy goes through
// echo's content-type aware binder; the stream policy decodes JSON straight
// off the request body without buffering.
func bindExtraction(plan models.ParameterPlan, bodyPolicy string) (extraction, *models.GeneratorError) {
	name := plan.BindingName
	valueType := plan.ValueType()

	decode := func(target string) string {
		if bodyPolicy == "stream" {
			return fmt.Sprintf("json.NewDecoder(c.Request().Body).Decode(%s)", target)
		}
		return fmt.Sprintf("c.Bind(%s)", target)
	}
	needsJSON := bodyPolicy == "stream"

	var b strings.Builder
	switch {
	case plan.DefaultExpr != "" || plan.Optional:
		// Best-effort decode: a missing or malformed body leaves the
		// fallback value in place.
		if plan.DefaultExpr != "" {
			fmt.Fprintf(&b, "\t\t%s := %s\n", name, plan.DefaultExpr)
		} else {
			fmt.Fprintf(&b, "\t\tvar %s *%s\n", name, valueType)
		}
		assign := name + " = decoded"
		if plan.Optional {
			assign = name + " = &decoded"
		}
		b.WriteString("\t\t{\n")
		fmt.Fprintf(&b, "\t\t\tvar decoded %s\n", valueType)
		fmt.Fprintf(&b, "\t\t\tif err := %s; err == nil {\n", decode("&decoded"))
		fmt.Fprintf(&b, "\t\t\t\t%s\n", assign)
		b.WriteString("\t\t\t}\n")
		b.WriteString("\t\t}\n")
		return extraction{Code: b.String(), NeedsJSON: needsJSON, Imports: mergeImports(plan)}, nil

	default:
		fmt.Fprintf(&b, "\t\tvar %s %s\n", name, valueType)
		fmt.Fprintf(&b, "\t\tif err := %s; err != nil {\n", decode("&"+name))
		b.WriteString("\t\t\treturn echo.NewHTTPError(http.StatusBadRequest, \"invalid request body: \"+err.Error())\n")
		b.WriteString("\t\t}\n")
		return extraction{Code: b.String(), NeedsJSON: needsJSON, Imports: plan.TypeImports}, nil
	}
}

// mergeImports combines a plan's type and default-expression imports, for
// emissions writing both out.
func mergeImports(plan models.ParameterPlan) []string {
	if len(plan.DefaultImports) == 0 {
		return plan.TypeImports
	}
	merged := append([]string{}, plan.TypeImports...)
	merged = append(merged, plan.DefaultImports...)
	return merged
}

// queryContentExtraction binds the whole query string onto a struct.
func queryContentExtraction(plan models.ParameterPlan) extraction {
	name := plan.BindingName
	valueType := plan.ValueType()

	var b strings.Builder
	switch {
	case plan.DefaultExpr != "" || plan.Optional:
		if plan.DefaultExpr != "" {
			fmt.Fprintf(&b, "\t\t%s := %s\n", name, plan.DefaultExpr)
		} else {
			fmt.Fprintf(&b, "\t\tvar %s *%s\n", name, valueType)
		}
		assign := name + " = decoded"
		if plan.Optional {
			assign = name + " = &decoded"
		}
		b.WriteString("\t\t{\n")
		fmt.Fprintf(&b, "\t\t\tvar decoded %s\n", valueType)
		b.WriteString("\t\t\tif err := (&echo.DefaultBinder{}).BindQueryParams(c, &decoded); err == nil {\n")
		fmt.Fprintf(&b, "\t\t\t\t%s\n", assign)
		b.WriteString("\t\t\t}\n")
		b.WriteString("\t\t}\n")

	default:
		fmt.Fprintf(&b, "\t\tvar %s %s\n", name, valueType)
		fmt.Fprintf(&b, "\t\tif err := (&echo.DefaultBinder{}).BindQueryParams(c, &%s); err != nil {\n", name)
		b.WriteString("\t\t\treturn echo.NewHTTPError(http.StatusBadRequest, \"invalid query parameters: \"+err.Error())\n")
		b.WriteString("\t\t}\n")
	}
	return extraction{Code: b.String(), Imports: mergeImports(plan)}
}

// authExtraction pulls the authenticated principal off the request context.
// Required auth answers 401 when no principal is stored.
func authExtraction(plan models.ParameterPlan) extraction {
	name := plan.BindingName
	valueType := plan.ValueType()

	var b strings.Builder
	switch {
	case plan.DefaultExpr != "":
		fmt.Fprintf(&b, "\t\t%s := %s\n", name, plan.DefaultExpr)
		fmt.Fprintf(&b, "\t\tif principal, ok := loom.AuthGet[%s](c); ok {\n", valueType)
		assign := name + " = principal"
		if plan.Optional {
			assign = name + " = &principal"
		}
		fmt.Fprintf(&b, "\t\t\t%s\n", assign)
		b.WriteString("\t\t}\n")
		return extraction{Code: b.String(), Imports: mergeImports(plan)}

	case plan.Optional:
		fmt.Fprintf(&b, "\t\tvar %s *%s\n", name, valueType)
		fmt.Fprintf(&b, "\t\tif principal, ok := loom.AuthGet[%s](c); ok {\n", valueType)
		fmt.Fprintf(&b, "\t\t\t%s = &principal\n", name)
		b.WriteString("\t\t}\n")
		return extraction{Code: b.String(), Imports: plan.TypeImports}

	default:
		fmt.Fprintf(&b, "\t\t%s, err := loom.AuthRequire[%s](c)\n", name, valueType)
		b.WriteString("\t\tif err != nil {\n")
		b.WriteString("\t\t\treturn err\n")
		b.WriteString("\t\t}\n")
		return extraction{Code: b.String(), DeclaresErr: true, Imports: plan.TypeImports}
	}
}

// projectionExtraction binds a field of the request context, or the context
// itself. These bindings always succeed, so optionality and defaults do not
// apply.
func projectionExtraction(plan models.ParameterPlan) extraction {
	target := "c"
	if plan.Source.KeyPath != "" {
		target = "c." + plan.Source.KeyPath
	}
	return extraction{Code: fmt.Sprintf("\t\t%s := %s\n", plan.BindingName, target)}
}

package parser

import (
	"fmt"

	"github.com/loomgen/loom/internal/annotations"
	"github.com/loomgen/loom/internal/models"
)

// funcParam is one parameter of a handler signature as seen by the scanner.
type funcParam struct {
	Name     string
	Type     string
	Position int
}

// ClassifyParameter resolves a handler parameter and its attached markers
// into a binding plan. Classification is total: every marker combination
// either yields a plan or a diagnostic, never a partial result. A parameter
// with no source marker binds to the path parameter of the same name.
func ClassifyParameter(param funcParam, markers []annotations.Argument, loc annotations.SourceLocation) (models.ParameterPlan, *models.GeneratorError) {
	plan := models.ParameterPlan{
		DeclaredType: param.Type,
		BindingName:  param.Name,
		Position:     param.Position,
	}
	if len(param.Type) > 0 && param.Type[0] == '*' {
		plan.Optional = true
	}

	var (
		sourceSeen  int
		sourceKind  models.SourceKind
		sourceValue string
	)
	for _, marker := range markers {
		if kind, ok := models.MarkerFlag(marker.Label); ok {
			sourceSeen++
			sourceKind = kind
			sourceValue = marker.Value
			continue
		}
		switch marker.Label {
		case "Default":
			if marker.Value == "" {
				return plan, models.NewParamClassificationError(loc.File, loc.Line,
					fmt.Sprintf("parameter %q: -Default requires an expression", param.Name))
			}
			plan.DefaultExpr = marker.Value
		case "As":
			if marker.Value == "" {
				return plan, models.NewParamClassificationError(loc.File, loc.Line,
					fmt.Sprintf("parameter %q: -As requires a name", param.Name))
			}
			plan.CallLabel = marker.Value
		default:
			return plan, models.NewParamClassificationError(loc.File, loc.Line,
				fmt.Sprintf("parameter %q: unknown marker -%s", param.Name, marker.Label))
		}
	}

	if sourceSeen > 1 {
		return plan, models.NewParamClassificationError(loc.File, loc.Line,
			fmt.Sprintf("parameter %q carries multiple request-parameter-type declarations", param.Name))
	}

	if sourceSeen == 0 {
		plan.Source = models.ParameterSource{Kind: models.SourcePath, Key: plan.BoundName()}
		return plan, nil
	}

	switch sourceKind {
	case models.SourcePath, models.SourceQuery:
		key := sourceValue
		if key == "" {
			key = plan.BoundName()
		}
		plan.Source = models.ParameterSource{Kind: sourceKind, Key: key}
	case models.SourceRequestField:
		if sourceValue == "" {
			return plan, models.NewParamClassificationError(loc.File, loc.Line,
				fmt.Sprintf("parameter %q: -Field requires a projection path", param.Name))
		}
		plan.Source = models.ParameterSource{Kind: sourceKind, KeyPath: sourceValue}
	case models.SourceRawRequest:
		plan.Source = models.ParameterSource{Kind: sourceKind, KeyPath: sourceValue}
	default:
		// Body, QueryContent and Auth carry no key.
		plan.Source = models.ParameterSource{Kind: sourceKind}
	}

	return plan, nil
}

package annotations

import (
	"fmt"
	"strings"
)

// Prefix is the comment marker introducing a loom annotation.
const Prefix = "loom::"

// IsAnnotation reports whether a comment line carries a loom annotation.
func IsAnnotation(comment string) bool {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(comment), "//"))
	return strings.HasPrefix(text, Prefix)
}

// ParseComment parses one comment line into a matched annotation. The
// returned error is a *MatchError when the arguments fail the kind's rule
// set, so callers can surface the offending rule index.
func ParseComment(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	text := strings.TrimSpace(comment)
	if !strings.HasPrefix(text, "//") {
		return nil, fmt.Errorf("annotation must start with '//'")
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, "//"))

	if !strings.HasPrefix(text, Prefix) {
		return nil, fmt.Errorf("annotation must carry the '%s' prefix", Prefix)
	}
	text = strings.TrimPrefix(text, Prefix)

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty annotation")
	}

	kind, err := ParseKind(fields[0])
	if err != nil {
		return nil, err
	}

	rest := strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
	args, err := LexArguments(rest)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedAnnotation{
		Kind:     kind,
		Args:     args,
		Location: location,
		Raw:      comment,
	}

	// Param annotations are not rule-matched: the classifier consumes their
	// labeled arguments as an unordered marker set.
	if kind == ParamKind {
		if len(args) == 0 || args[0].Label != "" {
			return nil, fmt.Errorf("param annotation requires the parameter name as its first argument")
		}
		return parsed, nil
	}

	buckets, err := MatchArguments(RuleSet(kind), args)
	if err != nil {
		return nil, err
	}
	parsed.Buckets = buckets
	return parsed, nil
}

// ParamName returns the target parameter name of a param annotation.
func (p *ParsedAnnotation) ParamName() string {
	if p.Kind != ParamKind || len(p.Args) == 0 {
		return ""
	}
	return p.Args[0].Value
}

// Markers returns the labeled arguments of a param annotation.
func (p *ParsedAnnotation) Markers() []Argument {
	if p.Kind != ParamKind || len(p.Args) == 0 {
		return nil
	}
	markers := make([]Argument, 0, len(p.Args)-1)
	for _, arg := range p.Args[1:] {
		if arg.Label != "" {
			markers = append(markers, arg)
		}
	}
	return markers
}

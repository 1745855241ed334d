package annotations

import "fmt"

// ParsingRule describes one expected argument slot of an annotation kind.
// Rules are immutable and built once per kind (see rules.go).
type ParsingRule struct {
	Label     string // "" matches unlabeled arguments
	Variadic  bool   // consumes trailing unlabeled arguments into the same bucket
	Skippable bool   // absence is not an error
}

func (r ParsingRule) describe() string {
	if r.Label == "" {
		return "positional argument"
	}
	return fmt.Sprintf("-%s", r.Label)
}

// MatchError reports a failed match between an argument list and a rule set.
type MatchError struct {
	RuleIndex int    // index of the unmatched rule, or -1 for extra arguments
	Rule      string // human-readable slot description
	Message   string
}

func (e *MatchError) Error() string {
	if e.RuleIndex >= 0 {
		return fmt.Sprintf("argument %d (%s): %s", e.RuleIndex, e.Rule, e.Message)
	}
	return e.Message
}

// MatchArguments assigns a flat ordered argument list to the given rules,
// producing exactly one bucket per rule. Arguments are consumed left to
// right in a single pass: a rule matches when the argument at the cursor
// carries the rule's label (both empty for unlabeled slots); a variadic rule
// then keeps consuming unlabeled arguments until a labeled argument or the
// end of the list. A required rule with no matching argument at the cursor
// fails; leftover arguments after the last rule fail.
func MatchArguments(rules []ParsingRule, args []Argument) ([][]Argument, error) {
	buckets := make([][]Argument, len(rules))
	cursor := 0

	for i, rule := range rules {
		if cursor < len(args) && args[cursor].Label == rule.Label {
			buckets[i] = append(buckets[i], args[cursor])
			cursor++
			if rule.Variadic {
				for cursor < len(args) && args[cursor].Label == "" {
					buckets[i] = append(buckets[i], args[cursor])
					cursor++
				}
			}
			continue
		}
		if !rule.Skippable {
			if cursor < len(args) {
				return nil, &MatchError{
					RuleIndex: i,
					Rule:      rule.describe(),
					Message:   fmt.Sprintf("expected %s, got %s", rule.describe(), describeArg(args[cursor])),
				}
			}
			return nil, &MatchError{
				RuleIndex: i,
				Rule:      rule.describe(),
				Message:   fmt.Sprintf("missing required %s", rule.describe()),
			}
		}
	}

	if cursor < len(args) {
		return nil, &MatchError{
			RuleIndex: -1,
			Message:   fmt.Sprintf("extra arguments starting at %s", describeArg(args[cursor])),
		}
	}

	return buckets, nil
}

func describeArg(a Argument) string {
	if a.Label != "" {
		return fmt.Sprintf("-%s", a.Label)
	}
	return fmt.Sprintf("'%s'", a.Value)
}

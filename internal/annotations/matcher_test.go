package annotations

import (
	"errors"
	"reflect"
	"testing"
)

func TestMatchArgumentsBuckets(t *testing.T) {
	tests := []struct {
		name  string
		rules []ParsingRule
		args  []Argument
		want  [][]Argument
	}{
		{
			name:  "single required positional",
			rules: []ParsingRule{{}},
			args:  []Argument{{Value: "GET"}},
			want:  [][]Argument{{{Value: "GET"}}},
		},
		{
			name:  "variadic consumes trailing unlabeled",
			rules: []ParsingRule{{}, {Variadic: true, Skippable: true}},
			args:  []Argument{{Value: "GET"}, {Value: "/users"}, {Value: "/{id:int}"}},
			want: [][]Argument{
				{{Value: "GET"}},
				{{Value: "/users"}, {Value: "/{id:int}"}},
			},
		},
		{
			name:  "variadic stops at labeled argument",
			rules: []ParsingRule{{Variadic: true, Skippable: true}, {Label: "Middleware", Skippable: true}},
			args:  []Argument{{Value: "/users"}, {Label: "Middleware", Value: "Auth"}},
			want: [][]Argument{
				{{Value: "/users"}},
				{{Label: "Middleware", Value: "Auth"}},
			},
		},
		{
			name:  "trailing skippable rules yield empty buckets",
			rules: []ParsingRule{{}, {Label: "Middleware", Skippable: true}, {Label: "Body", Skippable: true}},
			args:  []Argument{{Value: "GET"}},
			want:  [][]Argument{{{Value: "GET"}}, nil, nil},
		},
		{
			name:  "empty rules empty args",
			rules: nil,
			args:  nil,
			want:  [][]Argument{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchArguments(tt.rules, tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buckets = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMatchArgumentsErrors(t *testing.T) {
	tests := []struct {
		name      string
		rules     []ParsingRule
		args      []Argument
		ruleIndex int
	}{
		{
			name:      "missing required positional",
			rules:     []ParsingRule{{}},
			args:      nil,
			ruleIndex: 0,
		},
		{
			name:      "label mismatch on required rule",
			rules:     []ParsingRule{{Label: "Body"}},
			args:      []Argument{{Label: "Middleware", Value: "Auth"}},
			ruleIndex: 0,
		},
		{
			name:      "second required rule unmatched",
			rules:     []ParsingRule{{}, {Label: "Body"}},
			args:      []Argument{{Value: "GET"}},
			ruleIndex: 1,
		},
		{
			name:      "extra arguments",
			rules:     []ParsingRule{{}},
			args:      []Argument{{Value: "GET"}, {Value: "/users"}},
			ruleIndex: -1,
		},
		{
			name:      "empty rules with arguments",
			rules:     nil,
			args:      []Argument{{Value: "GET"}},
			ruleIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MatchArguments(tt.rules, tt.args)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var matchErr *MatchError
			if !errors.As(err, &matchErr) {
				t.Fatalf("expected *MatchError, got %T", err)
			}
			if matchErr.RuleIndex != tt.ruleIndex {
				t.Errorf("RuleIndex = %d, want %d", matchErr.RuleIndex, tt.ruleIndex)
			}
		})
	}
}

// A successful match must reconstruct the original argument list when the
// buckets are concatenated in rule order.
func TestMatchArgumentsReconstruction(t *testing.T) {
	rules := []ParsingRule{
		{},
		{Variadic: true, Skippable: true},
		{Label: "Middleware", Skippable: true},
		{Label: "Body", Skippable: true},
	}
	args := []Argument{
		{Value: "POST"},
		{Value: "/books"},
		{Value: "/{id:int}"},
		{Label: "Middleware", Value: "Auth,Logging"},
		{Label: "Body", Value: "stream"},
	}

	buckets, err := MatchArguments(rules, args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var flat []Argument
	for _, bucket := range buckets {
		flat = append(flat, bucket...)
	}
	if !reflect.DeepEqual(flat, args) {
		t.Errorf("concatenated buckets = %#v, want original args %#v", flat, args)
	}
}

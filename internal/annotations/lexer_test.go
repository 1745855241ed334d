package annotations

import (
	"reflect"
	"testing"
)

func TestLexArguments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Argument
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "bare tokens",
			input: "GET /users/{id:int}",
			want: []Argument{
				{Value: "GET"},
				{Value: "/users/{id:int}"},
			},
		},
		{
			name:  "flag with value",
			input: "-Middleware=Auth,Logging",
			want:  []Argument{{Label: "Middleware", Value: "Auth,Logging"}},
		},
		{
			name:  "value-less flag",
			input: "-Grouped",
			want:  []Argument{{Label: "Grouped"}},
		},
		{
			name:  "flag with expression value",
			input: "-Grouped=cfg.UseGlobal",
			want:  []Argument{{Label: "Grouped", Value: "cfg.UseGlobal"}},
		},
		{
			name:  "quoted value with spaces",
			input: `-Default="hello world"`,
			want:  []Argument{{Label: "Default", Value: "hello world"}},
		},
		{
			name:  "negative default value",
			input: "-Default=-1",
			want:  []Argument{{Label: "Default", Value: "-1"}},
		},
		{
			name:  "mixed bare and labeled",
			input: "POST /books -Middleware=Auth -Body=stream",
			want: []Argument{
				{Value: "POST"},
				{Value: "/books"},
				{Label: "Middleware", Value: "Auth"},
				{Label: "Body", Value: "stream"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LexArguments(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LexArguments(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

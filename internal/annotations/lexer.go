package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The argument portion of an annotation line is lexed with participle. A line
// like
//
//	GET /users/{id:int} -Middleware=Auth,Logging -Body=stream
//
// becomes the flat argument list
//
//	{"", "GET"} {"", "/users/{id:int}"} {"Middleware", "Auth,Logging"} {"Body", "stream"}

var argLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Flag", Pattern: `-[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Equals", Pattern: `=`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Path", Pattern: `/[^\s]*`},
	{Name: "Atom", Pattern: `[^\s=]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type argListAST struct {
	Items []argAST `parser:"@@*"`
}

type argAST struct {
	Flag *flagAST `parser:"@@"`
	Bare *string  `parser:"| (@String | @Path | @Atom)"`
}

type flagAST struct {
	Name  string  `parser:"@Flag"`
	Value *string `parser:"(Equals (@String | @Path | @Atom))?"`
}

var argParser = participle.MustBuild[argListAST](
	participle.Lexer(argLexer),
	participle.Elide("Whitespace"),
)

// LexArguments tokenizes the argument portion of an annotation line into the
// flat (label, value) list consumed by the matcher.
func LexArguments(input string) ([]Argument, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	ast, err := argParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("malformed annotation arguments: %w", err)
	}

	args := make([]Argument, 0, len(ast.Items))
	for _, item := range ast.Items {
		switch {
		case item.Flag != nil:
			arg := Argument{Label: strings.TrimPrefix(item.Flag.Name, "-")}
			if item.Flag.Value != nil {
				arg.Value = unquote(*item.Flag.Value)
			}
			args = append(args, arg)
		case item.Bare != nil:
			args = append(args, Argument{Value: unquote(*item.Bare)})
		}
	}
	return args, nil
}

// unquote strips one layer of surrounding double quotes and unescapes \".
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `\"`, `"`)
	}
	return s
}

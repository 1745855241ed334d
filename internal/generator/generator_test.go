package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomgen/loom/internal/models"
	"github.com/loomgen/loom/internal/parser"
)

func generate(t *testing.T, source string) (string, []*models.GeneratorError) {
	t.Helper()
	spec, err := parser.NewParser().ParseSource("books.go", source)
	require.NoError(t, err)
	return NewGenerator().GenerateFile(spec)
}

const groupedSource = `package books

// loom::controller -Prefix=/api -Middleware=Logger
type BooksController struct{}

// loom::get /books/{id:int}
func (c *BooksController) GetBook(id int) (Book, error) { return Book{}, nil }

// loom::delete /books/{id:int} -Middleware=Admin
func (c *BooksController) DeleteBook(id int) error { return nil }

// loom::raw GET /export
func (c *BooksController) Export(ctx echo.Context) error { return nil }

// loom::routes -Grouped
func (c *BooksController) LegacyRoutes(g *echo.Group) error { return nil }
`

func TestGenerateFileGrouped(t *testing.T) {
	content, diags := generate(t, groupedSource)
	assert.Empty(t, diags)
	require.NotEmpty(t, content)

	assert.True(t, strings.HasPrefix(content, "// Code generated by loom. DO NOT EDIT.\n"))
	assert.Contains(t, content, "package books\n")
	assert.Contains(t, content, "func RegisterBooksControllerRoutes(e *echo.Echo, ctrl *BooksController) error {")

	// Fixed emission order: group declaration, declared endpoints, raw
	// endpoints, builders.
	order := []string{
		`root := e.Group("")`,
		`globalMW, err := loom.ResolveMiddlewares("Logger")`,
		`grouped := root.Group("/api", globalMW...)`,
		`grouped.Add(http.MethodGet, "/books/:id", getBookHandler)`,
		`deleteBookMW, err := loom.ResolveMiddlewares("Admin")`,
		`grouped.Add(http.MethodDelete, "/books/:id", deleteBookHandler, deleteBookMW...)`,
		`grouped.Add(http.MethodGet, "/export", exportHandler)`,
		`if err := ctrl.LegacyRoutes(grouped); err != nil {`,
		"return nil",
	}
	last := -1
	for _, needle := range order {
		idx := strings.Index(content, needle)
		require.GreaterOrEqual(t, idx, 0, "missing %q", needle)
		assert.Greater(t, idx, last, "%q out of order", needle)
		last = idx
	}

	assert.Contains(t, content, `ParameterTypes: map[string]string{"id": "int"},`)
	assert.Contains(t, content, `Middlewares:    []string{"Admin"},`)
}

func TestGenerateFileDeterministic(t *testing.T) {
	first, _ := generate(t, groupedSource)
	second, _ := generate(t, groupedSource)
	assert.Equal(t, first, second)
}

func TestGenerateFileUngrouped(t *testing.T) {
	source := `package books

// loom::controller
type BooksController struct{}

// loom::get /books
func (c *BooksController) List() ([]Book, error) { return nil, nil }
`
	content, diags := generate(t, source)
	assert.Empty(t, diags)
	assert.Contains(t, content, `root.Add(http.MethodGet, "/books", listHandler)`)
	assert.NotContains(t, content, "grouped")
}

func TestGenerateFileDeferredGrouping(t *testing.T) {
	source := `package books

// loom::controller -Prefix=/api
type BooksController struct{}

// loom::routes -Grouped=ctrl.UseLegacy
func (c *BooksController) LegacyRoutes(g *echo.Group) {}
`
	content, diags := generate(t, source)
	assert.Empty(t, diags)
	assert.Contains(t, content, "if ctrl.UseLegacy {\n\t\tctrl.LegacyRoutes(grouped)\n\t} else {\n\t\tctrl.LegacyRoutes(root)\n\t}")
}

func TestGenerateFileCustomParser(t *testing.T) {
	source := `package books

// loom::controller
type BooksController struct{}

// loom::parser ISBN
func ParseISBN(c echo.Context, raw string) (ISBN, error) { return ISBN(raw), nil }

// loom::get /books/{code:ISBN}
func (c *BooksController) ByISBN(code ISBN) (Book, error) { return Book{}, nil }
`
	content, diags := generate(t, source)
	assert.Empty(t, diags)
	// Custom parsers are package-local, not qualified through loom.
	assert.Contains(t, content, `code, err := ParseISBN(c, c.Param("code"))`)
}

func TestGenerateFileSiblingIsolation(t *testing.T) {
	source := `package books

// loom::controller
type BooksController struct{}

// loom::get /bad/{id:int}
func (c *BooksController) Bad(id Widget) error { return nil }

// loom::get /good
func (c *BooksController) Good() error { return nil }
`
	content, diags := generate(t, source)

	require.Len(t, diags, 1)
	assert.Equal(t, models.ErrorKindGeneration, diags[0].Kind)

	// The healthy sibling still makes it into the file.
	assert.Contains(t, content, "wrapBooksControllerGood")
	assert.NotContains(t, content, "wrapBooksControllerBad")
}

func TestGenerateFileEmptyPackage(t *testing.T) {
	content, diags := generate(t, "package books\n\ntype Plain struct{}\n")
	assert.Empty(t, content)
	assert.Empty(t, diags)
}

func TestGenerateFileUserPackageImports(t *testing.T) {
	source := `package books

import (
	"github.com/google/uuid"

	"example.com/demo/models"
)

// loom::controller
type BooksController struct{}

// loom::post /books
// loom::param book -Body
// loom::param owner -Query
func (c *BooksController) CreateBook(book models.Book, owner *uuid.UUID) error { return nil }
`
	content, diags := generate(t, source)
	assert.Empty(t, diags)
	require.NotEmpty(t, content)

	assert.Contains(t, content, "var book models.Book")
	assert.Contains(t, content, "var owner *uuid.UUID")

	// Every package the adapter declarations reference shows up in the
	// generated import block.
	header := content[:strings.Index(content, "func ")]
	assert.Contains(t, header, `"example.com/demo/models"`)
	assert.Contains(t, header, `"github.com/google/uuid"`)
}

func TestWriteFilePackagePath(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "internal", "books")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	spec, err := parser.NewParser().ParseSource("books.go", groupedSource)
	require.NoError(t, err)

	gen := NewGenerator()
	gen.SetModule("example.com/demo", root)

	written, diags, werr := gen.WriteFile(dir, spec)
	require.NoError(t, werr)
	assert.True(t, written)
	assert.Empty(t, diags)

	data, rerr := os.ReadFile(filepath.Join(dir, GeneratedFileName))
	require.NoError(t, rerr)
	assert.Contains(t, string(data), `PackagePath:    "example.com/demo/internal/books",`)
}

func TestWriteAndCleanFile(t *testing.T) {
	dir := t.TempDir()
	spec, err := parser.NewParser().ParseSource("books.go", groupedSource)
	require.NoError(t, err)

	written, diags, werr := NewGenerator().WriteFile(dir, spec)
	require.NoError(t, werr)
	assert.True(t, written)
	assert.Empty(t, diags)

	path := filepath.Join(dir, GeneratedFileName)
	data, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	assert.Contains(t, string(data), "RegisterBooksControllerRoutes")

	require.NoError(t, CleanFile(dir))
	_, rerr = os.Stat(path)
	assert.True(t, os.IsNotExist(rerr))

	// Cleaning an already-clean directory is not an error.
	require.NoError(t, CleanFile(dir))
}

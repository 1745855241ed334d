package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomgen/loom/internal/models"
	"github.com/loomgen/loom/internal/registry"
)

func TestAdapterFuncDataEndpoint(t *testing.T) {
	spec := &models.EndpointSpec{
		AdapterName:  "wrapBooksControllerGetBook",
		Method:       "GET",
		PathSegments: []string{"/books/{id:int}"},
		BodyPolicy:   "collect",
		Params: []models.ParameterPlan{{
			Source:       models.ParameterSource{Kind: models.SourcePath, Key: "id"},
			DeclaredType: "int",
			BindingName:  "id",
		}},
		Return:      models.ReturnDataError,
		ReturnType:  "Book",
		HandlerName: "GetBook",
		Controller:  "BooksController",
		State:       models.StateParametersClassified,
	}

	imports := NewImportSet()
	code, cerr := AdapterFunc(spec, registry.NewParserRegistry(), imports)
	require.Nil(t, cerr)
	assert.Equal(t, models.StateAdapterSynthesized, spec.State)

	assert.Contains(t, code, "func wrapBooksControllerGetBook(handler *BooksController) echo.HandlerFunc {")
	assert.Contains(t, code, "return func(c echo.Context) error {")
	assert.Contains(t, code, `id, err := loom.ParseInt(c, c.Param("id"))`)
	assert.Contains(t, code, "result, err := handler.GetBook(id)")
	assert.Contains(t, code, "return c.JSON(http.StatusOK, result)")
}

func TestAdapterFuncForwardingOrder(t *testing.T) {
	spec := &models.EndpointSpec{
		AdapterName:  "wrapBooksControllerSearch",
		Method:       "GET",
		PathSegments: []string{"/search"},
		BodyPolicy:   "collect",
		Params: []models.ParameterPlan{
			{
				Source:       models.ParameterSource{Kind: models.SourceQuery, Key: "q"},
				DeclaredType: "string",
				BindingName:  "q",
				Position:     0,
			},
			{
				Source:       models.ParameterSource{Kind: models.SourceQuery, Key: "limit"},
				DeclaredType: "int",
				DefaultExpr:  "20",
				BindingName:  "limit",
				Position:     1,
			},
		},
		Return:      models.ReturnDataError,
		ReturnType:  "[]Book",
		HandlerName: "Search",
		Controller:  "BooksController",
	}

	code, cerr := AdapterFunc(spec, registry.NewParserRegistry(), NewImportSet())
	require.Nil(t, cerr)
	assert.Contains(t, code, "handler.Search(q, limit)")

	// Extractions appear in declaration order.
	qIdx := strings.Index(code, `c.QueryParam("q")`)
	limitIdx := strings.Index(code, `c.QueryParam("limit")`)
	assert.Less(t, qIdx, limitIdx)
}

func TestAdapterFuncErrorShape(t *testing.T) {
	spec := &models.EndpointSpec{
		AdapterName:  "wrapBooksControllerDelete",
		Method:       "DELETE",
		PathSegments: []string{"/books/{id:int}"},
		BodyPolicy:   "collect",
		Params: []models.ParameterPlan{{
			Source:       models.ParameterSource{Kind: models.SourcePath, Key: "id"},
			DeclaredType: "int",
			BindingName:  "id",
		}},
		Return:      models.ReturnError,
		HandlerName: "Delete",
		Controller:  "BooksController",
	}

	code, cerr := AdapterFunc(spec, registry.NewParserRegistry(), NewImportSet())
	require.Nil(t, cerr)
	// The extraction declared err, so the call reuses it.
	assert.Contains(t, code, "err = handler.Delete(id)")
	assert.Contains(t, code, "return c.NoContent(http.StatusNoContent)")
}

func TestAdapterFuncResponseShape(t *testing.T) {
	spec := &models.EndpointSpec{
		AdapterName:  "wrapBooksControllerCreate",
		Method:       "POST",
		PathSegments: []string{"/books"},
		BodyPolicy:   "collect",
		Params: []models.ParameterPlan{{
			Source:       models.ParameterSource{Kind: models.SourceBody},
			DeclaredType: "Book",
			BindingName:  "book",
		}},
		Return:      models.ReturnResponseError,
		HandlerName: "Create",
		Controller:  "BooksController",
	}

	code, cerr := AdapterFunc(spec, registry.NewParserRegistry(), NewImportSet())
	require.Nil(t, cerr)
	assert.Contains(t, code, "result, err := handler.Create(book)")
	assert.Contains(t, code, "return c.NoContent(result.StatusCode)")
	assert.Contains(t, code, "return c.JSON(result.StatusCode, result.Body)")
}

func TestAdapterFuncRawPassthrough(t *testing.T) {
	spec := &models.EndpointSpec{
		AdapterName:  "wrapBooksControllerExport",
		Method:       "GET",
		PathSegments: []string{"/export"},
		Return:       models.ReturnError,
		HandlerName:  "Export",
		Controller:   "BooksController",
		IsRawRequest: true,
		RawParamName: "ctx",
	}

	code, cerr := AdapterFunc(spec, registry.NewParserRegistry(), NewImportSet())
	require.Nil(t, cerr)
	assert.Contains(t, code, "return handler.Export(c)")
	// Raw handlers own the response; no epilogue is emitted.
	assert.NotContains(t, code, "NoContent")
}

func TestAdapterFuncStreamBodyImports(t *testing.T) {
	spec := &models.EndpointSpec{
		AdapterName:  "wrapBooksControllerIngest",
		Method:       "POST",
		PathSegments: []string{"/ingest"},
		BodyPolicy:   "stream",
		Params: []models.ParameterPlan{{
			Source:       models.ParameterSource{Kind: models.SourceBody},
			DeclaredType: "Batch",
			BindingName:  "batch",
		}},
		Return:      models.ReturnError,
		HandlerName: "Ingest",
		Controller:  "BooksController",
	}

	imports := NewImportSet()
	_, cerr := AdapterFunc(spec, registry.NewParserRegistry(), imports)
	require.Nil(t, cerr)
	assert.Contains(t, imports.Render(), `"encoding/json"`)
}

func TestAdapterFuncUserPackageImports(t *testing.T) {
	spec := &models.EndpointSpec{
		AdapterName:  "wrapBooksControllerCreateBook",
		Method:       "POST",
		PathSegments: []string{"/books"},
		BodyPolicy:   "collect",
		Params: []models.ParameterPlan{
			{
				Source:       models.ParameterSource{Kind: models.SourceBody},
				DeclaredType: "models.Book",
				BindingName:  "book",
				TypeImports:  []string{"example.com/demo/models"},
			},
			{
				Source:       models.ParameterSource{Kind: models.SourceQuery, Key: "owner"},
				Optional:     true,
				DeclaredType: "*uuid.UUID",
				BindingName:  "owner",
				TypeImports:  []string{"github.com/google/uuid"},
			},
		},
		Return:      models.ReturnError,
		HandlerName: "CreateBook",
		Controller:  "BooksController",
	}

	imports := NewImportSet()
	code, cerr := AdapterFunc(spec, registry.NewParserRegistry(), imports)
	require.Nil(t, cerr)
	assert.Contains(t, code, "var book models.Book")
	assert.Contains(t, code, "var owner *uuid.UUID")

	// The import block must cover every package the emitted declarations
	// reference.
	block := imports.Render()
	assert.Contains(t, block, `"example.com/demo/models"`)
	assert.Contains(t, block, `"github.com/google/uuid"`)
}

func TestAdapterFuncPathTypeMismatch(t *testing.T) {
	spec := &models.EndpointSpec{
		AdapterName:  "wrapBooksControllerGetBook",
		Method:       "GET",
		PathSegments: []string{"/books/{id:int}"},
		BodyPolicy:   "collect",
		Params: []models.ParameterPlan{{
			Source:       models.ParameterSource{Kind: models.SourcePath, Key: "id"},
			DeclaredType: "string",
			BindingName:  "id",
		}},
		Return:      models.ReturnError,
		HandlerName: "GetBook",
		Controller:  "BooksController",
		File:        "books.go",
		Line:        8,
	}

	_, cerr := AdapterFunc(spec, registry.NewParserRegistry(), NewImportSet())
	require.NotNil(t, cerr)
	assert.Equal(t, models.ErrorKindGeneration, cerr.Kind)
	assert.Contains(t, cerr.Message, "path declares id as int")
}

func TestImportSetRender(t *testing.T) {
	s := NewImportSet()
	s.Add("net/http")
	s.Add("github.com/labstack/echo/v4")
	s.Add("encoding/json")

	rendered := s.Render()
	jsonIdx := strings.Index(rendered, `"encoding/json"`)
	httpIdx := strings.Index(rendered, `"net/http"`)
	echoIdx := strings.Index(rendered, `"github.com/labstack/echo/v4"`)
	assert.Less(t, jsonIdx, httpIdx)
	assert.Less(t, httpIdx, echoIdx)

	assert.Equal(t, "", NewImportSet().Render())
}

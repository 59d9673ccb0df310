package httpvalidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasgate/internal/testutil"
	"github.com/erraggy/oasgate/parser"
)

func petStoreRoute(t *testing.T, url string) (*parser.Document, *RouteDefinition) {
	t.Helper()
	parsed := testutil.ParseFixture(t, testutil.PetStoreFixture)
	idx, err := NewPathIndex(parsed.Document.BasePath, parsed.Document.Paths)
	require.NoError(t, err)
	route, ok := idx.Match(url)
	require.True(t, ok)
	return parsed.Document, route
}

// =============================================================================
// ResolveRequestSchema Tests
// =============================================================================

func TestResolveRequestSchema(t *testing.T) {
	t.Run("parameter reference", func(t *testing.T) {
		doc, route := petStoreRoute(t, "/v2/pet")
		sr := NewSchemaResolver(doc, false, false)

		s, err := sr.ResolveRequestSchema(route, "post")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, parser.KindRef, s.Kind)
		assert.Equal(t, "#/definitions/Pet", s.Ref)
	})

	t.Run("inline body parameter", func(t *testing.T) {
		doc, route := petStoreRoute(t, "/v2/pet/1")
		sr := NewSchemaResolver(doc, false, false)

		s, err := sr.ResolveRequestSchema(route, "PUT")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "#/definitions/Pet", s.Ref)
	})

	t.Run("operation without body", func(t *testing.T) {
		doc, route := petStoreRoute(t, "/v2/pet/1")
		sr := NewSchemaResolver(doc, true, true)

		s, err := sr.ResolveRequestSchema(route, "get")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("undeclared method", func(t *testing.T) {
		doc, route := petStoreRoute(t, "/v2/pet")
		sr := NewSchemaResolver(doc, true, true)

		s, err := sr.ResolveRequestSchema(route, "delete")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("nil route", func(t *testing.T) {
		doc, _ := petStoreRoute(t, "/v2/pet")
		s, err := NewSchemaResolver(doc, true, true).ResolveRequestSchema(nil, "post")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("path-level body parameter applies", func(t *testing.T) {
		parsed := testutil.ParseString(t, `
swagger: "2.0"
info: {title: t, version: "1"}
paths:
  /items:
    parameters:
      - {name: body, in: body, schema: {type: array}}
    post:
      responses: {"200": {description: ok}}
    put:
      parameters:
        - {name: body, in: body, schema: {type: object}}
      responses: {"200": {description: ok}}
`)
		idx, err := NewPathIndex("", parsed.Document.Paths)
		require.NoError(t, err)
		route, ok := idx.Match("/items")
		require.True(t, ok)
		sr := NewSchemaResolver(parsed.Document, false, false)

		s, err := sr.ResolveRequestSchema(route, "post")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, parser.KindArray, s.Kind)

		s, err = sr.ResolveRequestSchema(route, "put")
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, parser.KindObject, s.Kind, "operation parameter overrides path parameter")
	})
}

// =============================================================================
// ResolveResponseSchema Tests
// =============================================================================

func TestResolveResponseSchema(t *testing.T) {
	doc, route := petStoreRoute(t, "/v2/pet")
	sr := NewSchemaResolver(doc, false, false)

	t.Run("status 0 means 200", func(t *testing.T) {
		s, err := sr.ResolveResponseSchema(route, "get", 0)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, parser.KindArray, s.Kind)
	})

	t.Run("response reference", func(t *testing.T) {
		s, err := sr.ResolveResponseSchema(route, "post", 400)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "#/definitions/Error", s.Ref)
	})

	t.Run("undeclared status", func(t *testing.T) {
		s, err := sr.ResolveResponseSchema(route, "post", 201)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("response without schema", func(t *testing.T) {
		_, petRoute := petStoreRoute(t, "/v2/pet/1")
		s, err := sr.ResolveResponseSchema(petRoute, "get", 404)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("undeclared method", func(t *testing.T) {
		s, err := sr.ResolveResponseSchema(route, "patch", 200)
		require.NoError(t, err)
		assert.Nil(t, s)
	})
}

func TestResolverDecoration(t *testing.T) {
	t.Run("merges definitions", func(t *testing.T) {
		doc, route := petStoreRoute(t, "/v2/pet")
		s, err := NewSchemaResolver(doc, false, true).ResolveRequestSchema(route, "post")
		require.NoError(t, err)
		require.NotNil(t, s)

		require.Len(t, s.AllOf, 1)
		assert.Equal(t, "#/definitions/Pet", s.AllOf[0].Ref)
		assert.Contains(t, s.Definitions, "Pet")
		assert.Contains(t, s.Definitions, "Tag")
		assert.Contains(t, s.Definitions, "Error")
	})

	t.Run("decorates nullable properties of merged definitions", func(t *testing.T) {
		doc, route := petStoreRoute(t, "/v2/pet")
		s, err := NewSchemaResolver(doc, true, true).ResolveRequestSchema(route, "post")
		require.NoError(t, err)

		age := s.Definitions["Pet"].Properties["age"]
		require.NotNil(t, age)
		assert.Equal(t, parser.KindUnion, age.Kind)
		assert.Equal(t, parser.CombinatorAnyOf, age.Combinator)
	})

	t.Run("never modifies the document", func(t *testing.T) {
		doc, route := petStoreRoute(t, "/v2/pet")
		sr := NewSchemaResolver(doc, true, true)

		first, err := sr.ResolveRequestSchema(route, "post")
		require.NoError(t, err)
		second, err := sr.ResolveRequestSchema(route, "post")
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		assert.Equal(t, first.Value(), second.Value())
		assert.True(t, doc.Definitions["Pet"].Properties["age"].Nullable)
		assert.Empty(t, doc.Definitions["Pet"].Definitions)
	})
}

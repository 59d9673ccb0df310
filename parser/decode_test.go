package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSchema(t *testing.T, yamlSchema string) *Schema {
	t.Helper()
	doc := "swagger: \"2.0\"\ndefinitions:\n  S:\n" + indent(yamlSchema, "    ")
	result, err := New().ParseBytes([]byte(doc))
	require.NoError(t, err)
	require.Contains(t, result.Document.Definitions, "S")
	return result.Document.Definitions["S"]
}

func indent(s, prefix string) string {
	out := ""
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out += prefix + s[start:i+1]
			start = i + 1
		}
	}
	if start < len(s) {
		out += prefix + s[start:] + "\n"
	}
	return out
}

func TestDecodeSchemaKinds(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		kind  Kind
		types []string
	}{
		{"object", "type: object", KindObject, nil},
		{"array", "type: array\nitems: {type: string}", KindArray, nil},
		{"string", "type: string", KindString, nil},
		{"number", "type: number", KindNumber, nil},
		{"integer", "type: integer", KindInteger, nil},
		{"boolean", "type: boolean", KindBoolean, nil},
		{"null", "type: \"null\"", KindNull, nil},
		{"ref", "$ref: '#/definitions/Pet'\ntype: object", KindRef, nil},
		{"union", "anyOf: [{type: string}, {type: integer}]", KindUnion, nil},
		{"untyped", "minLength: 2", KindAny, nil},
		{"type list", "type: [string, \"null\"]", KindAny, []string{"string", "null"}},
		{"file", "type: file", KindAny, []string{"file"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parseSchema(t, tt.yaml)
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.types, s.Types)
		})
	}
}

func TestDecodeSchemaStructure(t *testing.T) {
	s := parseSchema(t, `type: object
required: [name]
additionalProperties: false
properties:
  name:
    type: string
    minLength: 1
  age:
    type: integer
    x-nullable: true
  tags:
    type: array
    items:
      $ref: '#/definitions/Tag'
  extra:
    type: object
    additionalProperties:
      type: string
allOf:
  - $ref: '#/definitions/Base'
oneOf:
  - required: [a]
anyOf:
  - required: [b]
not:
  type: string
definitions:
  Local:
    type: boolean
x-vendor: keep`)

	assert.Equal(t, KindObject, s.Kind)
	assert.Equal(t, []any{"name"}, s.Keywords["required"])
	assert.Equal(t, false, s.Keywords["additionalProperties"])
	assert.Nil(t, s.AdditionalProperties)
	assert.Equal(t, "keep", s.Keywords["x-vendor"])

	require.Len(t, s.Properties, 4)
	assert.Equal(t, 1, s.Properties["name"].Keywords["minLength"])
	assert.True(t, s.Properties["age"].Nullable)
	assert.Equal(t, KindRef, s.Properties["tags"].Items.Kind)
	assert.Equal(t, "#/definitions/Tag", s.Properties["tags"].Items.Ref)
	assert.Equal(t, KindString, s.Properties["extra"].AdditionalProperties.Kind)

	require.Len(t, s.AllOf, 1)
	assert.Equal(t, CombinatorOneOf, s.Combinator)
	require.Len(t, s.Variants, 1)
	assert.Contains(t, s.Keywords, "anyOf", "second combinator is kept unmodelled")
	assert.Equal(t, KindString, s.Not.Kind)
	assert.Equal(t, KindBoolean, s.Definitions["Local"].Kind)
}

func TestDecodeTupleItemsKeptAsKeyword(t *testing.T) {
	s := parseSchema(t, "type: array\nitems:\n  - type: string\n  - type: integer\n")
	assert.Nil(t, s.Items)
	assert.Len(t, s.Keywords["items"], 2)
}

func TestDecodeAliases(t *testing.T) {
	doc := `swagger: "2.0"
definitions:
  Name: &name
    type: string
    maxLength: 10
  Person:
    type: object
    properties:
      first: *name
      last: *name
`
	result, err := New().ParseBytes([]byte(doc))
	require.NoError(t, err)
	person := result.Document.Definitions["Person"]
	assert.Equal(t, KindString, person.Properties["first"].Kind)
	assert.Equal(t, 10, person.Properties["last"].Keywords["maxLength"])
}

func TestDecodeOperations(t *testing.T) {
	result, err := New().Parse("../testdata/petstore.yaml")
	require.NoError(t, err)
	doc := result.Document

	item := doc.PathItem("/pet/{petId}")
	require.NotNil(t, item)
	assert.Equal(t, []string{"get", "put"}, item.Methods())
	require.Len(t, item.Parameters, 1)
	assert.Equal(t, "petId", item.Parameters[0].Name)
	assert.True(t, item.Parameters[0].Required)

	op := item.Operation("GET")
	require.NotNil(t, op)
	assert.Equal(t, "getPetById", op.OperationID)
	assert.Contains(t, op.Responses, "200")
	assert.Contains(t, op.Responses, "404")
	assert.Nil(t, op.Responses["404"].Schema)

	post := doc.PathItem("/pet").Operation("post")
	require.Len(t, post.Parameters, 1)
	assert.Equal(t, "#/parameters/PetBody", post.Parameters[0].Ref)
	assert.Equal(t, "#/responses/BadRequest", post.Responses["400"].Ref)
}

func TestDecodeSkipsExtensions(t *testing.T) {
	doc := `swagger: "2.0"
paths:
  x-internal: {anything: true}
  /a:
    x-owner: team
    summary: ignored
    get:
      responses:
        x-note: ignored
        "200": {description: ok}
`
	result, err := New().ParseBytes([]byte(doc))
	require.NoError(t, err)
	require.Len(t, result.Document.Paths, 1)
	op := result.Document.Paths[0].Operation("get")
	assert.Len(t, op.Responses, 1)
}

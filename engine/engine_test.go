package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasgate/oaserrors"
	"github.com/erraggy/oasgate/parser"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func petSchema() *parser.Schema {
	return &parser.Schema{
		Kind:     parser.KindObject,
		Keywords: map[string]any{"required": []any{"name", "photoUrls"}},
		Properties: map[string]*parser.Schema{
			"id":   {Kind: parser.KindInteger, Keywords: map[string]any{"format": "int64"}},
			"name": {Kind: parser.KindString, Keywords: map[string]any{"minLength": 1}},
			"photoUrls": {
				Kind:  parser.KindArray,
				Items: &parser.Schema{Kind: parser.KindString, Keywords: map[string]any{"format": "url"}},
			},
			"tags": {Kind: parser.KindArray, Items: parser.NewRef("#/definitions/Tag")},
		},
		Definitions: map[string]*parser.Schema{
			"Tag": {
				Kind:       parser.KindObject,
				Properties: map[string]*parser.Schema{"name": {Kind: parser.KindString}},
			},
		},
	}
}

func TestValidateValid(t *testing.T) {
	eng := New(Options{})
	res, err := eng.Validate(petSchema(), decode(t, `{"id": 1, "name": "Rex", "photoUrls": ["https://cats.example.com/1"], "tags": [{"name": "good"}]}`))
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	eng := New(Options{})
	res, err := eng.Validate(petSchema(), decode(t, `{"name": "", "photoUrls": ["not a url", "https://ok.example.com"], "tags": [{"name": 5}]}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)

	byPath := map[string]string{}
	for _, fe := range res.Errors {
		byPath[fe.Path] = fe.Message
	}
	require.Len(t, res.Errors, 3, "errors: %+v", res.Errors)
	assert.Contains(t, byPath["$.name"], "minLength")
	assert.Contains(t, byPath["$.photoUrls[0]"], "url")
	assert.Contains(t, byPath["$.tags[0].name"], "want string")
}

func TestValidateMissingRequired(t *testing.T) {
	res, err := New(Options{}).Validate(petSchema(), decode(t, `{"name": "hello"}`))
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "$", res.Errors[0].Path)
	assert.Contains(t, res.Errors[0].Message, "photoUrls")
}

func TestValidateNilSchema(t *testing.T) {
	res, err := New(Options{}).Validate(nil, "anything")
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidateCompileFailure(t *testing.T) {
	broken := &parser.Schema{Kind: parser.KindObject, Properties: map[string]*parser.Schema{
		"x": parser.NewRef("#/definitions/Missing"),
	}}
	_, err := New(Options{}).Validate(broken, decode(t, `{"x": 1}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrEngine))

	var engErr *oaserrors.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, "compile", engErr.Operation)
}

func TestValidateNullableUnion(t *testing.T) {
	s := &parser.Schema{Kind: parser.KindObject, Properties: map[string]*parser.Schema{
		"age": parser.NewUnion(parser.CombinatorAnyOf,
			&parser.Schema{Kind: parser.KindInteger},
			&parser.Schema{Kind: parser.KindNull},
		),
	}}
	eng := New(Options{})

	res, err := eng.Validate(s, decode(t, `{"age": null}`))
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = eng.Validate(s, decode(t, `{"age": "old"}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	for _, fe := range res.Errors {
		assert.Equal(t, "$.age", fe.Path)
	}
}

func TestFormatAssertionToggle(t *testing.T) {
	s := &parser.Schema{Kind: parser.KindString, Keywords: map[string]any{"format": "int32"}}

	res, err := New(Options{}).Validate(s, "12a")
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = New(Options{DisableFormatAssertion: true}).Validate(s, "12a")
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestFormatAssertionDisabledNested(t *testing.T) {
	s := &parser.Schema{Kind: parser.KindObject, Properties: map[string]*parser.Schema{
		"format":  {Kind: parser.KindString, Keywords: map[string]any{"format": "int32"}},
		"pattern": {Kind: parser.KindString, Keywords: map[string]any{"format": "regex"}},
		"tags": {Kind: parser.KindArray, Items: parser.NewUnion(parser.CombinatorOneOf,
			&parser.Schema{Kind: parser.KindString, Keywords: map[string]any{"format": "date-time"}},
		)},
	}}
	value := decode(t, `{"format": "x", "pattern": "(", "tags": ["yesterday"]}`)

	res, err := New(Options{}).Validate(s, value)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.GreaterOrEqual(t, len(res.Errors), 3)

	res, err = New(Options{DisableFormatAssertion: true}).Validate(s, value)
	require.NoError(t, err)
	assert.True(t, res.Valid, "%v", res.Errors)
	assert.Equal(t, "regex", s.Properties["pattern"].Keywords["format"], "schema left untouched")
}

func TestCustomFormatOverridesDefault(t *testing.T) {
	s := &parser.Schema{Kind: parser.KindString, Keywords: map[string]any{"format": "url"}}
	eng := New(Options{Formats: []*jsonschema.Format{{
		Name:     "url",
		Validate: func(any) error { return errors.New("never") },
	}}})

	res, err := eng.Validate(s, "https://example.com")
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestValidateDoesNotMutateSchema(t *testing.T) {
	s := petSchema()
	before := s.Value()
	_, err := New(Options{}).Validate(s, decode(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, before, s.Value())
}

func TestInstancePath(t *testing.T) {
	root := decode(t, `{"items": [{"name": "a"}], "grid": [[1, 2]]}`)
	assert.Equal(t, "$", instancePath(root, nil))
	assert.Equal(t, "$.items[0].name", instancePath(root, []string{"items", "0", "name"}))
	assert.Equal(t, "$.grid[0][1]", instancePath(root, []string{"grid", "0", "1"}))
	assert.Equal(t, "$.missing.deeper", instancePath(root, []string{"missing", "deeper"}))
}

package httpvalidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasgate/parser"
)

func nullableString() *parser.Schema {
	return &parser.Schema{Kind: parser.KindString, Nullable: true}
}

func TestWithNullable(t *testing.T) {
	t.Run("wraps nullable property", func(t *testing.T) {
		s := &parser.Schema{
			Kind: parser.KindObject,
			Properties: map[string]*parser.Schema{
				"nick": nullableString(),
				"name": {Kind: parser.KindString},
			},
		}
		withNullable(s)

		nick := s.Properties["nick"]
		assert.Equal(t, parser.KindUnion, nick.Kind)
		require.Len(t, nick.Variants, 2)
		assert.Equal(t, parser.KindString, nick.Variants[0].Kind)
		assert.False(t, nick.Variants[0].Nullable)
		assert.Equal(t, parser.KindNull, nick.Variants[1].Kind)
		assert.Equal(t, parser.KindString, s.Properties["name"].Kind)
	})

	t.Run("recurses into nested objects and items", func(t *testing.T) {
		s := &parser.Schema{
			Kind: parser.KindObject,
			Properties: map[string]*parser.Schema{
				"owner": {
					Kind:       parser.KindObject,
					Properties: map[string]*parser.Schema{"nick": nullableString()},
				},
				"tags": {
					Kind: parser.KindArray,
					Items: &parser.Schema{
						Kind:       parser.KindObject,
						Properties: map[string]*parser.Schema{"label": nullableString()},
					},
				},
			},
		}
		withNullable(s)

		assert.Equal(t, parser.KindUnion, s.Properties["owner"].Properties["nick"].Kind)
		assert.Equal(t, parser.KindUnion, s.Properties["tags"].Items.Properties["label"].Kind)
	})

	t.Run("recurses into union variants and not", func(t *testing.T) {
		s := &parser.Schema{
			Kind: parser.KindObject,
			Properties: map[string]*parser.Schema{
				"meta": parser.NewUnion(parser.CombinatorOneOf, &parser.Schema{
					Kind:       parser.KindObject,
					Properties: map[string]*parser.Schema{"note": nullableString()},
				}),
			},
			Not: &parser.Schema{
				Kind:       parser.KindObject,
				Properties: map[string]*parser.Schema{"nick": nullableString()},
			},
		}
		withNullable(s)

		note := s.Properties["meta"].Variants[0].Properties["note"]
		assert.Equal(t, parser.KindUnion, note.Kind)
		assert.Equal(t, parser.CombinatorAnyOf, note.Combinator)
		assert.Equal(t, parser.KindUnion, s.Not.Properties["nick"].Kind)
	})

	t.Run("idempotent", func(t *testing.T) {
		s := &parser.Schema{
			Kind: parser.KindObject,
			Properties: map[string]*parser.Schema{
				"nick":  nullableString(),
				"owner": {Kind: parser.KindObject, Properties: map[string]*parser.Schema{"tag": nullableString()}, Nullable: true},
			},
		}
		withNullable(s)
		once := s.Value()
		withNullable(s)
		assert.Equal(t, once, s.Value())
	})

	t.Run("root is not wrapped", func(t *testing.T) {
		s := nullableString()
		withNullable(s)
		assert.Equal(t, parser.KindString, s.Kind)
	})
}

func TestWithDefinitions(t *testing.T) {
	defs := map[string]*parser.Schema{
		"Pet": {Kind: parser.KindObject},
		"Tag": {Kind: parser.KindObject},
	}

	t.Run("wraps bare reference", func(t *testing.T) {
		s := withDefinitions(parser.NewRef("#/definitions/Pet"), defs)
		require.Len(t, s.AllOf, 1)
		assert.Equal(t, parser.KindRef, s.AllOf[0].Kind)
		assert.Len(t, s.Definitions, 2)

		v := s.Value()
		assert.NotContains(t, v, "$ref")
		assert.Contains(t, v, "definitions")
	})

	t.Run("fragment definitions win", func(t *testing.T) {
		local := &parser.Schema{Kind: parser.KindString}
		s := &parser.Schema{
			Kind:        parser.KindObject,
			Definitions: map[string]*parser.Schema{"Pet": local},
		}
		s = withDefinitions(s, defs)
		assert.Same(t, local, s.Definitions["Pet"])
		assert.Contains(t, s.Definitions, "Tag")
	})

	t.Run("copies document definitions", func(t *testing.T) {
		s := withDefinitions(&parser.Schema{Kind: parser.KindObject}, defs)
		assert.NotSame(t, defs["Pet"], s.Definitions["Pet"])
	})

	t.Run("idempotent", func(t *testing.T) {
		s := withDefinitions(parser.NewRef("#/definitions/Pet"), defs)
		once := s.Value()
		s = withDefinitions(s, defs)
		assert.Equal(t, once, s.Value())
	})

	t.Run("no definitions", func(t *testing.T) {
		ref := parser.NewRef("#/definitions/Pet")
		assert.Same(t, ref, withDefinitions(ref, nil))
	})
}

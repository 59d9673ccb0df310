package httpvalidator

import "github.com/erraggy/oasgate/parser"

// withDefinitions makes s self-contained: the document definitions are
// copied into the fragment's own definitions, entries already present in the
// fragment winning. A bare "$ref" root is wrapped in allOf so that its
// definitions sibling is not ignored by draft-4 "$ref" semantics.
//
// s must be a private copy. Applying it twice has no further effect.
func withDefinitions(s *parser.Schema, defs map[string]*parser.Schema) *parser.Schema {
	if len(defs) == 0 {
		return s
	}
	if s.Kind == parser.KindRef {
		s = &parser.Schema{AllOf: []*parser.Schema{s}}
	}
	if s.Definitions == nil {
		s.Definitions = make(map[string]*parser.Schema, len(defs))
	}
	for name, def := range defs {
		if _, ok := s.Definitions[name]; !ok {
			s.Definitions[name] = def.Copy()
		}
	}
	return s
}

// withNullable replaces every property marked "x-nullable: true" with
// {"anyOf": [property, {"type": "null"}]}. Every sub-schema is visited.
// The wrapped property loses its mark, so a second pass leaves the tree
// unchanged.
//
// s must be a private copy.
func withNullable(s *parser.Schema) {
	if s == nil {
		return
	}
	for name, prop := range s.Properties {
		if prop == nil {
			continue
		}
		withNullable(prop)
		if prop.Nullable {
			s.Properties[name] = nullableOf(prop)
		}
	}
	withNullable(s.Items)
	withNullable(s.AdditionalProperties)
	withNullable(s.Not)
	for _, member := range s.AllOf {
		withNullable(member)
	}
	for _, variant := range s.Variants {
		withNullable(variant)
	}
	for _, def := range s.Definitions {
		withNullable(def)
	}
}

func nullableOf(s *parser.Schema) *parser.Schema {
	s.Nullable = false
	return parser.NewUnion(parser.CombinatorAnyOf, s, &parser.Schema{Kind: parser.KindNull})
}

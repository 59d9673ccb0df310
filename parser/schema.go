package parser

import "maps"

// Kind tags the variant of a Schema node.
type Kind int

const (
	// KindAny is a schema without a single type constraint (no "type", or a
	// list of types, or a type this package does not model).
	KindAny Kind = iota
	// KindObject is "type": "object".
	KindObject
	// KindArray is "type": "array".
	KindArray
	// KindString is "type": "string".
	KindString
	// KindNumber is "type": "number".
	KindNumber
	// KindInteger is "type": "integer".
	KindInteger
	// KindBoolean is "type": "boolean".
	KindBoolean
	// KindNull is "type": "null".
	KindNull
	// KindRef is a "$ref" node. Sibling keywords do not participate in validation.
	KindRef
	// KindUnion is an untyped node whose constraint is its Variants.
	KindUnion
)

var kindNames = map[Kind]string{
	KindAny:     "any",
	KindObject:  "object",
	KindArray:   "array",
	KindString:  "string",
	KindNumber:  "number",
	KindInteger: "integer",
	KindBoolean: "boolean",
	KindNull:    "null",
	KindRef:     "ref",
	KindUnion:   "union",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsType reports whether the kind corresponds to a JSON Schema "type" value.
func (k Kind) IsType() bool {
	return k >= KindObject && k <= KindNull
}

// kindFromType maps a JSON Schema type name to its Kind.
func kindFromType(name string) (Kind, bool) {
	switch name {
	case "object":
		return KindObject, true
	case "array":
		return KindArray, true
	case "string":
		return KindString, true
	case "number":
		return KindNumber, true
	case "integer":
		return KindInteger, true
	case "boolean":
		return KindBoolean, true
	case "null":
		return KindNull, true
	}
	return KindAny, false
}

// Combinator names the keyword that joins a union's variants.
type Combinator string

// Combinator values.
const (
	CombinatorAnyOf Combinator = "anyOf"
	CombinatorOneOf Combinator = "oneOf"
)

// Schema is one node of a parsed Swagger 2.0 schema.
//
// Keywords that carry sub-schemas the validator needs to walk are modelled
// as fields; every other keyword (constraints such as "required", "enum",
// "minLength", "format", vendor extensions) is kept verbatim in Keywords.
//
// A Schema reachable from a Document is shared by every request and must be
// treated as read-only. Transformations work on a Copy.
type Schema struct {
	// Kind is the node's variant tag.
	Kind Kind
	// Ref is the "$ref" target for KindRef nodes.
	Ref string
	// Types holds the raw "type" value when it is a list or an unmodelled
	// name (e.g. "file"). Empty whenever Kind carries the type.
	Types []string

	Properties           map[string]*Schema
	AdditionalProperties *Schema
	Items                *Schema
	AllOf                []*Schema
	Not                  *Schema

	// Combinator and Variants hold "anyOf" or "oneOf". A node with variants
	// and no type is KindUnion.
	Combinator Combinator
	Variants   []*Schema

	// Definitions are schema-local reusable fragments ("definitions").
	Definitions map[string]*Schema

	// Nullable is the "x-nullable" vendor extension.
	Nullable bool

	// Keywords holds every other keyword, unmodified.
	Keywords map[string]any
}

// NewRef returns a reference node.
func NewRef(ref string) *Schema {
	return &Schema{Kind: KindRef, Ref: ref}
}

// NewUnion returns an untyped union of the given variants.
func NewUnion(c Combinator, variants ...*Schema) *Schema {
	return &Schema{Kind: KindUnion, Combinator: c, Variants: variants}
}

// Copy returns a deep copy of the node tree. Keyword values are shared, they
// are never modified in place.
func (s *Schema) Copy() *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{
		Kind:                 s.Kind,
		Ref:                  s.Ref,
		Combinator:           s.Combinator,
		Nullable:             s.Nullable,
		AdditionalProperties: s.AdditionalProperties.Copy(),
		Items:                s.Items.Copy(),
		Not:                  s.Not.Copy(),
		AllOf:                copySchemas(s.AllOf),
		Variants:             copySchemas(s.Variants),
		Properties:           copySchemaMap(s.Properties),
		Definitions:          copySchemaMap(s.Definitions),
	}
	if s.Types != nil {
		out.Types = append([]string(nil), s.Types...)
	}
	if s.Keywords != nil {
		out.Keywords = maps.Clone(s.Keywords)
	}
	return out
}

func copySchemas(in []*Schema) []*Schema {
	if in == nil {
		return nil
	}
	out := make([]*Schema, len(in))
	for i, s := range in {
		out[i] = s.Copy()
	}
	return out
}

func copySchemaMap(in map[string]*Schema) map[string]*Schema {
	if in == nil {
		return nil
	}
	out := make(map[string]*Schema, len(in))
	for k, s := range in {
		out[k] = s.Copy()
	}
	return out
}

// Value renders the node as a generic JSON value (maps, slices, scalars)
// suitable for a JSON Schema engine.
func (s *Schema) Value() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(s.Keywords)+4)
	maps.Copy(out, s.Keywords)

	switch {
	case s.Kind == KindRef:
		out["$ref"] = s.Ref
	case s.Kind.IsType():
		out["type"] = s.Kind.String()
	case len(s.Types) == 1:
		out["type"] = s.Types[0]
	case len(s.Types) > 1:
		types := make([]any, len(s.Types))
		for i, t := range s.Types {
			types[i] = t
		}
		out["type"] = types
	}

	if s.Properties != nil {
		out["properties"] = schemaMapValue(s.Properties)
	}
	if s.AdditionalProperties != nil {
		out["additionalProperties"] = s.AdditionalProperties.Value()
	}
	if s.Items != nil {
		out["items"] = s.Items.Value()
	}
	if len(s.AllOf) > 0 {
		out["allOf"] = schemasValue(s.AllOf)
	}
	if s.Not != nil {
		out["not"] = s.Not.Value()
	}
	if len(s.Variants) > 0 {
		c := s.Combinator
		if c == "" {
			c = CombinatorAnyOf
		}
		out[string(c)] = schemasValue(s.Variants)
	}
	if s.Definitions != nil {
		out["definitions"] = schemaMapValue(s.Definitions)
	}
	if s.Nullable {
		out["x-nullable"] = true
	}
	return out
}

func schemasValue(in []*Schema) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s.Value()
	}
	return out
}

func schemaMapValue(in map[string]*Schema) map[string]any {
	out := make(map[string]any, len(in))
	for k, s := range in {
		out[k] = s.Value()
	}
	return out
}

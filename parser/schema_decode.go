package parser

import (
	"go.yaml.in/yaml/v4"
)

func (d *decoder) schemaMap(n *yaml.Node, where string) (map[string]*Schema, error) {
	out := make(map[string]*Schema)
	err := d.eachPair(n, where, func(name string, value *yaml.Node) error {
		s, err := d.schema(value, where+"."+name)
		out[name] = s
		return err
	})
	return out, err
}

func (d *decoder) schemaList(n *yaml.Node, where string) ([]*Schema, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "%s must be a sequence", where)
	}
	out := make([]*Schema, 0, len(n.Content))
	for _, item := range n.Content {
		s, err := d.schema(item, where)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// schema decodes one schema node. Keywords outside the modelled set are
// decoded into generic values and kept in Keywords.
func (d *decoder) schema(n *yaml.Node, where string) (*Schema, error) {
	s := &Schema{}
	var typeNode *yaml.Node
	err := d.eachPair(n, where, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case "$ref":
			s.Ref, err = d.scalar(value, where+".$ref")
		case "type":
			typeNode = value
		case "properties":
			s.Properties, err = d.schemaMap(value, where+".properties")
		case "additionalProperties":
			if value.Kind == yaml.MappingNode {
				s.AdditionalProperties, err = d.schema(value, where+".additionalProperties")
			} else {
				err = d.keyword(s, key, value)
			}
		case "items":
			if value.Kind == yaml.MappingNode {
				s.Items, err = d.schema(value, where+".items")
			} else {
				err = d.keyword(s, key, value)
			}
		case "allOf":
			s.AllOf, err = d.schemaList(value, where+".allOf")
		case "anyOf", "oneOf":
			if s.Combinator != "" {
				d.warnf(value, "%s: both anyOf and oneOf are set, %s is kept unmodelled", where, key)
				return d.keyword(s, key, value)
			}
			s.Combinator = Combinator(key)
			s.Variants, err = d.schemaList(value, where+"."+key)
		case "not":
			s.Not, err = d.schema(value, where+".not")
		case "definitions":
			s.Definitions, err = d.schemaMap(value, where+".definitions")
		case "x-nullable":
			s.Nullable, err = d.boolean(value, where+".x-nullable")
		default:
			err = d.keyword(s, key, value)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	switch {
	case s.Ref != "":
		s.Kind = KindRef
	case typeNode != nil:
		if err := d.schemaType(s, typeNode, where); err != nil {
			return nil, err
		}
	case len(s.Variants) > 0:
		s.Kind = KindUnion
	}
	return s, nil
}

func (d *decoder) schemaType(s *Schema, n *yaml.Node, where string) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if k, ok := kindFromType(n.Value); ok {
			s.Kind = k
			return nil
		}
		s.Types = []string{n.Value}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			name, err := d.scalar(resolve(item), where+".type")
			if err != nil {
				return err
			}
			s.Types = append(s.Types, name)
		}
	default:
		return d.errorf(n, "%s.type must be a string or a list of strings", where)
	}
	return nil
}

func (d *decoder) keyword(s *Schema, key string, n *yaml.Node) error {
	var v any
	if err := n.Decode(&v); err != nil {
		return d.errorf(n, "keyword %q: %v", key, err)
	}
	if s.Keywords == nil {
		s.Keywords = make(map[string]any)
	}
	s.Keywords[key] = v
	return nil
}

package parser

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasgate/internal/httputil"
	"github.com/erraggy/oasgate/oaserrors"
)

// decoder turns a yaml.Node tree into a Document. Working on nodes rather
// than maps keeps the declaration order of "paths".
type decoder struct {
	source   string
	warnings []string
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	err := &oaserrors.ParseError{Source: d.source, Message: fmt.Sprintf(format, args...)}
	if n != nil {
		err.Line = n.Line
		err.Column = n.Column
	}
	return err
}

func (d *decoder) warnf(n *yaml.Node, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if n != nil && n.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", n.Line, msg)
	}
	d.warnings = append(d.warnings, msg)
}

// resolve unwraps document and alias nodes.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

// eachPair calls fn for every key/value pair of a mapping node, in order.
func (d *decoder) eachPair(n *yaml.Node, what string, fn func(key string, value *yaml.Node) error) error {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return d.errorf(n, "%s must be a mapping", what)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, resolve(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) scalar(n *yaml.Node, what string) (string, error) {
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", d.errorf(n, "%s must be a scalar", what)
	}
	return n.Value, nil
}

func (d *decoder) boolean(n *yaml.Node, what string) (bool, error) {
	s, err := d.scalar(n, what)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, d.errorf(n, "%s must be a boolean", what)
	}
	return b, nil
}

func (d *decoder) document(root *yaml.Node) (*Document, error) {
	doc := &Document{}
	err := d.eachPair(root, "document root", func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case "swagger":
			doc.Swagger, err = d.scalar(value, "swagger")
		case "info":
			err = d.info(value, &doc.Info)
		case "basePath":
			doc.BasePath, err = d.scalar(value, "basePath")
		case "paths":
			doc.Paths, err = d.paths(value)
		case "definitions":
			doc.Definitions, err = d.schemaMap(value, "definitions")
		case "parameters":
			doc.Parameters = make(map[string]*Parameter)
			err = d.eachPair(value, "parameters", func(name string, pn *yaml.Node) error {
				p, perr := d.parameter(pn, "parameters."+name)
				doc.Parameters[name] = p
				return perr
			})
		case "responses":
			doc.Responses = make(map[string]*Response)
			err = d.eachPair(value, "responses", func(name string, rn *yaml.Node) error {
				r, rerr := d.response(rn, "responses."+name)
				doc.Responses[name] = r
				return rerr
			})
		case "openapi":
			d.warnf(value, "openapi %q documents are not supported; only Swagger 2.0 paths are read", value.Value)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if doc.Swagger != "" && doc.Swagger != "2.0" {
		d.warnf(nil, "unexpected swagger version %q", doc.Swagger)
	}
	return doc, nil
}

func (d *decoder) info(n *yaml.Node, info *Info) error {
	return d.eachPair(n, "info", func(key string, value *yaml.Node) error {
		switch key {
		case "title":
			info.Title = value.Value
		case "version":
			info.Version = value.Value
		}
		return nil
	})
}

func (d *decoder) paths(n *yaml.Node) ([]*PathItem, error) {
	var items []*PathItem
	err := d.eachPair(n, "paths", func(template string, value *yaml.Node) error {
		if strings.HasPrefix(template, "x-") {
			return nil
		}
		item, err := d.pathItem(template, value)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (d *decoder) pathItem(template string, n *yaml.Node) (*PathItem, error) {
	item := &PathItem{Template: template, Operations: make(map[string]*Operation)}
	err := d.eachPair(n, "paths."+template, func(key string, value *yaml.Node) error {
		switch key {
		case "parameters":
			params, err := d.parameters(value, "paths."+template+".parameters")
			item.Parameters = params
			return err
		case "$ref":
			d.warnf(value, "paths.%s: path item references are not followed", template)
			return nil
		}
		method := strings.ToLower(key)
		if !httputil.IsMethod(method) {
			return nil
		}
		op, err := d.operation(method, value, "paths."+template+"."+method)
		if err != nil {
			return err
		}
		item.Operations[method] = op
		return nil
	})
	return item, err
}

func (d *decoder) operation(method string, n *yaml.Node, where string) (*Operation, error) {
	op := &Operation{Method: method}
	err := d.eachPair(n, where, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case "operationId":
			op.OperationID, err = d.scalar(value, where+".operationId")
		case "parameters":
			op.Parameters, err = d.parameters(value, where+".parameters")
		case "responses":
			op.Responses = make(map[string]*Response)
			err = d.eachPair(value, where+".responses", func(code string, rn *yaml.Node) error {
				if strings.HasPrefix(code, "x-") {
					return nil
				}
				if !httputil.ValidateStatusCode(code) {
					d.warnf(rn, "%s.responses: %q is not a valid status code", where, code)
				}
				r, rerr := d.response(rn, where+".responses."+code)
				op.Responses[code] = r
				return rerr
			})
		}
		return err
	})
	return op, err
}

func (d *decoder) parameters(n *yaml.Node, where string) ([]*Parameter, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "%s must be a sequence", where)
	}
	params := make([]*Parameter, 0, len(n.Content))
	for i, pn := range n.Content {
		p, err := d.parameter(resolve(pn), fmt.Sprintf("%s[%d]", where, i))
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func (d *decoder) parameter(n *yaml.Node, where string) (*Parameter, error) {
	p := &Parameter{}
	err := d.eachPair(n, where, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case "$ref":
			p.Ref, err = d.scalar(value, where+".$ref")
		case "name":
			p.Name, err = d.scalar(value, where+".name")
		case "in":
			p.In, err = d.scalar(value, where+".in")
		case "required":
			p.Required, err = d.boolean(value, where+".required")
		case "schema":
			p.Schema, err = d.schema(value, where+".schema")
		}
		return err
	})
	return p, err
}

func (d *decoder) response(n *yaml.Node, where string) (*Response, error) {
	r := &Response{}
	err := d.eachPair(n, where, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case "$ref":
			r.Ref, err = d.scalar(value, where+".$ref")
		case "description":
			r.Description = value.Value
		case "schema":
			r.Schema, err = d.schema(value, where+".schema")
		}
		return err
	})
	return r, err
}

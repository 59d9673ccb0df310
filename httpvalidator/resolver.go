package httpvalidator

import (
	"net/http"
	"strconv"

	"github.com/erraggy/oasgate/parser"
)

// SchemaResolver picks the request or response schema of an operation and
// prepares it for the engine. Every call returns a fresh copy; the
// document's schemas are never modified.
type SchemaResolver struct {
	doc              *parser.Document
	allowNullable    bool
	mergeDefinitions bool
}

// NewSchemaResolver creates a SchemaResolver over doc.
func NewSchemaResolver(doc *parser.Document, allowNullable, mergeDefinitions bool) *SchemaResolver {
	return &SchemaResolver{
		doc:              doc,
		allowNullable:    allowNullable,
		mergeDefinitions: mergeDefinitions,
	}
}

// ResolveRequestSchema returns the schema of the first "in: body" parameter
// of the route's operation for method. Path-level parameters apply unless
// the operation declares one with the same location and name.
//
// A nil schema with a nil error means there is nothing to validate. An error
// is returned only for parameter references that cannot be resolved.
func (sr *SchemaResolver) ResolveRequestSchema(route *RouteDefinition, method string) (*parser.Schema, error) {
	if route == nil {
		return nil, nil
	}
	op := route.Operation(method)
	if op == nil {
		return nil, nil
	}
	params, err := sr.parameters(route.PathItem, op)
	if err != nil {
		return nil, err
	}
	for _, p := range params {
		if p.In == "body" {
			return sr.prepare(p.Schema), nil
		}
	}
	return nil, nil
}

// ResolveResponseSchema returns the schema declared for status by the
// route's operation for method. Status 0 is treated as 200. Only an exact
// status code entry is used.
func (sr *SchemaResolver) ResolveResponseSchema(route *RouteDefinition, method string, status int) (*parser.Schema, error) {
	if route == nil {
		return nil, nil
	}
	op := route.Operation(method)
	if op == nil {
		return nil, nil
	}
	if status == 0 {
		status = http.StatusOK
	}
	resp, ok := op.Responses[strconv.Itoa(status)]
	if !ok {
		return nil, nil
	}
	resp, err := sr.doc.ResolveResponse(resp)
	if err != nil {
		return nil, err
	}
	return sr.prepare(resp.Schema), nil
}

// parameters returns the operation's parameters followed by the path-level
// parameters it does not override, all references resolved.
func (sr *SchemaResolver) parameters(item *parser.PathItem, op *parser.Operation) ([]*parser.Parameter, error) {
	seen := make(map[string]bool, len(op.Parameters))
	out := make([]*parser.Parameter, 0, len(op.Parameters)+len(item.Parameters))
	for _, p := range op.Parameters {
		rp, err := sr.doc.ResolveParameter(p)
		if err != nil {
			return nil, err
		}
		seen[rp.In+":"+rp.Name] = true
		out = append(out, rp)
	}
	for _, p := range item.Parameters {
		rp, err := sr.doc.ResolveParameter(p)
		if err != nil {
			return nil, err
		}
		if !seen[rp.In+":"+rp.Name] {
			out = append(out, rp)
		}
	}
	return out, nil
}

func (sr *SchemaResolver) prepare(s *parser.Schema) *parser.Schema {
	if s == nil {
		return nil
	}
	s = s.Copy()
	if sr.mergeDefinitions {
		s = withDefinitions(s, sr.doc.Definitions)
	}
	if sr.allowNullable {
		withNullable(s)
	}
	return s
}

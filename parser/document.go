package parser

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/erraggy/oasgate/internal/httputil"
	"github.com/erraggy/oasgate/oaserrors"
)

// maxRefHops bounds chains of "$ref" between top-level parameters or responses.
const maxRefHops = 16

// Info is the subset of the "info" object oasgate reports.
type Info struct {
	Title   string
	Version string
}

// Document is a parsed Swagger 2.0 API description.
//
// Paths keeps the declaration order of the source document, which is the
// order in which routes are matched.
type Document struct {
	Swagger  string
	Info     Info
	BasePath string
	Paths    []*PathItem

	Definitions map[string]*Schema
	Parameters  map[string]*Parameter
	Responses   map[string]*Response
}

// PathItem holds the operations declared for one path template.
type PathItem struct {
	Template   string
	Operations map[string]*Operation
	Parameters []*Parameter
}

// Operation is a method-specific entry of a PathItem.
type Operation struct {
	Method      string
	OperationID string
	Parameters  []*Parameter
	// Responses is keyed by the status code as written in the document ("200", "default").
	Responses map[string]*Response
}

// Parameter is a Swagger 2.0 parameter object, or a reference to one.
type Parameter struct {
	Ref      string
	Name     string
	In       string
	Required bool
	Schema   *Schema
}

// Response is a Swagger 2.0 response object, or a reference to one.
type Response struct {
	Ref         string
	Description string
	Schema      *Schema
}

// PathItem returns the item declared for template, or nil.
func (d *Document) PathItem(template string) *PathItem {
	for _, item := range d.Paths {
		if item.Template == template {
			return item
		}
	}
	return nil
}

// Operation returns the operation for method (case-insensitive), or nil.
func (p *PathItem) Operation(method string) *Operation {
	if p == nil || p.Operations == nil {
		return nil
	}
	return p.Operations[strings.ToLower(method)]
}

// Methods returns the declared methods in canonical order.
func (p *PathItem) Methods() []string {
	methods := make([]string, 0, len(p.Operations))
	for _, m := range httputil.Methods {
		if _, ok := p.Operations[m]; ok {
			methods = append(methods, m)
		}
	}
	return methods
}

// ResolveParameter follows "#/parameters/<name>" references.
// A parameter without Ref is returned unchanged.
func (d *Document) ResolveParameter(p *Parameter) (*Parameter, error) {
	for hops := 0; p != nil && p.Ref != ""; hops++ {
		if hops == maxRefHops {
			return nil, &oaserrors.ReferenceError{Ref: p.Ref, Message: "too many reference hops"}
		}
		name, ok := strings.CutPrefix(p.Ref, "#/parameters/")
		if !ok {
			return nil, &oaserrors.ReferenceError{Ref: p.Ref, Message: "only local #/parameters references are supported"}
		}
		target, found := d.Parameters[unescapePointer(name)]
		if !found {
			return nil, &oaserrors.ReferenceError{Ref: p.Ref, Message: "parameter not defined"}
		}
		p = target
	}
	return p, nil
}

// ResolveResponse follows "#/responses/<name>" references.
// A response without Ref is returned unchanged.
func (d *Document) ResolveResponse(r *Response) (*Response, error) {
	for hops := 0; r != nil && r.Ref != ""; hops++ {
		if hops == maxRefHops {
			return nil, &oaserrors.ReferenceError{Ref: r.Ref, Message: "too many reference hops"}
		}
		name, ok := strings.CutPrefix(r.Ref, "#/responses/")
		if !ok {
			return nil, &oaserrors.ReferenceError{Ref: r.Ref, Message: "only local #/responses references are supported"}
		}
		target, found := d.Responses[unescapePointer(name)]
		if !found {
			return nil, &oaserrors.ReferenceError{Ref: r.Ref, Message: "response not defined"}
		}
		r = target
	}
	return r, nil
}

// CheckReferences resolves every parameter and response reference reachable
// from Paths and reports the ones that cannot be resolved.
func (d *Document) CheckReferences() []error {
	var errs []error
	for _, item := range d.Paths {
		for i, p := range item.Parameters {
			if _, err := d.ResolveParameter(p); err != nil {
				errs = append(errs, withLocation(err, fmt.Sprintf("paths.%s.parameters[%d]", item.Template, i)))
			}
		}
		for _, method := range item.Methods() {
			op := item.Operations[method]
			for i, p := range op.Parameters {
				if _, err := d.ResolveParameter(p); err != nil {
					errs = append(errs, withLocation(err, fmt.Sprintf("paths.%s.%s.parameters[%d]", item.Template, method, i)))
				}
			}
			for _, code := range slices.Sorted(maps.Keys(op.Responses)) {
				if _, err := d.ResolveResponse(op.Responses[code]); err != nil {
					errs = append(errs, withLocation(err, fmt.Sprintf("paths.%s.%s.responses.%s", item.Template, method, code)))
				}
			}
		}
	}
	return errs
}

func withLocation(err error, location string) error {
	if refErr, ok := err.(*oaserrors.ReferenceError); ok {
		refErr.Location = location
	}
	return err
}

// unescapePointer decodes a JSON Pointer reference token.
func unescapePointer(token string) string {
	if !strings.Contains(token, "~") {
		return token
	}
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
}

package httpvalidator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/erraggy/oasgate/oaserrors"
	"github.com/erraggy/oasgate/parser"
)

// RouteDefinition is one declared path template compiled for matching,
// together with the operations declared for it.
type RouteDefinition struct {
	// Template is the path template as declared (e.g. "/pet/{petId}").
	Template string
	// PathItem holds the template's operations and path-level parameters.
	PathItem *parser.PathItem

	regex      *regexp.Regexp
	paramNames []string
}

// Pattern returns the regular expression the template compiled to.
func (r *RouteDefinition) Pattern() string {
	return r.regex.String()
}

// ParamNames returns the placeholder names in order of appearance.
func (r *RouteDefinition) ParamNames() []string {
	return r.paramNames
}

// Operation returns the operation declared for method, or nil.
func (r *RouteDefinition) Operation(method string) *parser.Operation {
	return r.PathItem.Operation(method)
}

// MatchPath reports whether path (with basePath already removed) matches
// the template.
func (r *RouteDefinition) MatchPath(path string) bool {
	return r.regex.MatchString(path)
}

// compileTemplate converts "/pet/{petId}" into an anchored, case-insensitive
// pattern that accepts one optional trailing slash.
func compileTemplate(template string) (*regexp.Regexp, []string, error) {
	if template == "" {
		return nil, nil, fmt.Errorf("path template cannot be empty")
	}

	var regexBuf strings.Builder
	regexBuf.WriteString("(?i)^")

	body := template
	if len(body) > 1 {
		body = strings.TrimSuffix(body, "/")
	}

	var paramNames []string
	i := 0
	for i < len(body) {
		switch body[i] {
		case '{':
			end := strings.IndexByte(body[i:], '}')
			if end == -1 {
				return nil, nil, fmt.Errorf("unclosed path parameter at position %d", i)
			}
			name := body[i+1 : i+end]
			if name == "" {
				return nil, nil, fmt.Errorf("empty path parameter at position %d", i)
			}
			for _, existing := range paramNames {
				if existing == name {
					return nil, nil, fmt.Errorf("duplicate path parameter %q", name)
				}
			}
			paramNames = append(paramNames, name)
			regexBuf.WriteString("([^/]+?)")
			i += end + 1
		case '}':
			return nil, nil, fmt.Errorf("unmatched '}' at position %d", i)
		default:
			regexBuf.WriteString(regexp.QuoteMeta(body[i : i+1]))
			i++
		}
	}
	if body != "/" {
		regexBuf.WriteString("/?")
	}
	regexBuf.WriteString("$")

	regex, err := regexp.Compile(regexBuf.String())
	if err != nil {
		return nil, nil, err
	}
	return regex, paramNames, nil
}

// PathIndex is the ordered set of routes declared by a document. It is
// built once and only read afterwards.
type PathIndex struct {
	basePath string
	routes   []*RouteDefinition
}

// NewPathIndex compiles every path item, keeping declaration order.
// A malformed template is reported as a *oaserrors.ConfigError.
func NewPathIndex(basePath string, items []*parser.PathItem) (*PathIndex, error) {
	idx := &PathIndex{
		basePath: normalizeBasePath(basePath),
		routes:   make([]*RouteDefinition, 0, len(items)),
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		regex, names, err := compileTemplate(item.Template)
		if err != nil {
			return nil, &oaserrors.ConfigError{
				Option:  "paths",
				Value:   item.Template,
				Message: "invalid path template",
				Cause:   err,
			}
		}
		idx.routes = append(idx.routes, &RouteDefinition{
			Template:   item.Template,
			PathItem:   item,
			regex:      regex,
			paramNames: names,
		})
	}
	return idx, nil
}

// normalizeBasePath drops a trailing slash. "" and "/" both mean no prefix.
func normalizeBasePath(basePath string) string {
	return strings.TrimRight(basePath, "/")
}

// Match finds the first declared route matching rawURL, which may be a bare
// path, a path with a query string, or an absolute URL. The basePath prefix
// is removed first when rawURL begins with it. No match is reported as
// (nil, false).
func (pi *PathIndex) Match(rawURL string) (*RouteDefinition, bool) {
	path := pi.stripBasePath(requestPath(rawURL))
	for _, route := range pi.routes {
		if route.regex.MatchString(path) {
			return route, true
		}
	}
	return nil, false
}

// Routes returns the routes in declaration order.
func (pi *PathIndex) Routes() []*RouteDefinition {
	return pi.routes
}

// BasePath returns the normalized basePath ("" when none).
func (pi *PathIndex) BasePath() string {
	return pi.basePath
}

func (pi *PathIndex) stripBasePath(path string) string {
	if pi.basePath == "" || !strings.HasPrefix(path, pi.basePath) {
		return path
	}
	path = strings.TrimPrefix(path, pi.basePath)
	if path == "" {
		return "/"
	}
	return path
}

// requestPath returns the escaped path component of rawURL. An origin-form
// path ("/a/b?q") is taken verbatim up to its query or fragment, so a
// leading "//" is never read as an authority.
func requestPath(rawURL string) string {
	if !strings.HasPrefix(rawURL, "/") {
		if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" {
			if p := u.EscapedPath(); p != "" {
				return p
			}
			return "/"
		}
	}
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

package match

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

var (
	// ErrInvalidPattern indicates a path pattern that cannot be compiled.
	ErrInvalidPattern = errors.New("path pattern is invalid")
)

const (
	// Wildcard matches any HTTP method when used as the method in a Criteria.
	Wildcard = "*"

	paramPrefix    = ':'
	wildcardPrefix = '*'
)

// segment is one compiled element of a path pattern.
type segment struct {
	literal string
	param   string
	splat   bool
}

// Pattern is a compiled path pattern.
type Pattern struct {
	raw      string
	segments []segment
}

// Compile parses a path pattern. Patterns must start with a slash;
// parameter and wildcard segments must be named, and a wildcard may only
// appear as the final segment. A wildcard matches one or more trailing
// segments, never zero.
func Compile(raw string) (*Pattern, error) {
	if raw == "" || raw[0] != '/' {
		return nil, fmt.Errorf("%w: %q must start with '/'", ErrInvalidPattern, raw)
	}

	parts := strings.Split(strings.TrimPrefix(raw, "/"), "/")
	segments := make([]segment, 0, len(parts))
	for i, part := range parts {
		switch {
		case len(part) > 0 && part[0] == paramPrefix:
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: %q has an unnamed parameter", ErrInvalidPattern, raw)
			}
			segments = append(segments, segment{param: name})
		case len(part) > 0 && part[0] == wildcardPrefix:
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: %q has an unnamed wildcard", ErrInvalidPattern, raw)
			}
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: wildcard in %q must be the final segment", ErrInvalidPattern, raw)
			}
			segments = append(segments, segment{param: name, splat: true})
		default:
			segments = append(segments, segment{literal: part})
		}
	}

	return &Pattern{raw: raw, segments: segments}, nil
}

// String returns the original pattern text.
func (p *Pattern) String() string { return p.raw }

// Match tests a request path against the pattern and returns captured
// parameters on success.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")

	var params map[string]string
	for i, seg := range p.segments {
		if seg.splat {
			// A wildcard needs something to capture, as in gin.
			if i >= len(parts) || parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.param] = strings.Join(parts[i:], "/")
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		if seg.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.param] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}

	if len(parts) != len(p.segments) {
		return nil, false
	}
	return params, true
}

// Criteria describes everything a request must satisfy to hit a stub.
type Criteria struct {
	// Method is the HTTP method, or Wildcard for any method.
	Method string

	// Path is the compiled path pattern.
	Path *Pattern

	// Query lists query parameters the request must carry. Each listed
	// value must be present; extra request parameters are ignored.
	Query url.Values

	// Header lists headers the request must carry. Matching is
	// case-insensitive on names, exact on values.
	Header http.Header
}

// Key returns the identity of the criteria. Two stubs with equal keys
// address the same method/pattern/requirements combination.
func (c Criteria) Key() string {
	var b strings.Builder
	b.WriteString(c.Method)
	b.WriteByte(' ')
	b.WriteString(c.Path.String())
	if len(c.Query) > 0 {
		b.WriteByte('?')
		b.WriteString(c.Query.Encode())
	}
	for _, name := range sortedNames(c.Header) {
		b.WriteByte('|')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strings.Join(c.Header[name], ","))
	}
	return b.String()
}

// Matches reports whether the request identified by method, path, query,
// and header satisfies the criteria, returning captured path parameters.
func (c Criteria) Matches(method, path string, query url.Values, header http.Header) (map[string]string, bool) {
	if c.Method != Wildcard && !strings.EqualFold(c.Method, method) {
		return nil, false
	}

	params, ok := c.Path.Match(path)
	if !ok {
		return nil, false
	}

	for name, want := range c.Query {
		if !containsAll(query[name], want) {
			return nil, false
		}
	}
	for name, want := range c.Header {
		if !containsAll(header.Values(name), want) {
			return nil, false
		}
	}

	return params, true
}

// containsAll reports whether every wanted value appears in got.
func containsAll(got, want []string) bool {
	for _, w := range want {
		found := false
		for _, g := range got {
			if g == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// sortedNames returns canonical header names in stable order.
func sortedNames(h http.Header) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

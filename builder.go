package standin

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/standin-project/standin/match"
	"github.com/standin-project/standin/response"
)

// StubBuilder configures a stub for a specific method and path pattern.
// Narrowing calls (MatchQuery, MatchHeader, Validate, Delay) may be
// chained in any order; a terminal call (Respond, RespondWith, Fail)
// performs the registration.
type StubBuilder struct {
	reg      *Registry
	method   string
	pattern  string
	query    url.Values
	header   http.Header
	validate func(*Request) error
	delay    time.Duration
}

// On starts configuration of a stub for a method and path pattern. Use
// match.Wildcard as the method to match any method.
func (reg *Registry) On(method, pattern string) *StubBuilder {
	return &StubBuilder{
		reg:     reg,
		method:  strings.ToUpper(method),
		pattern: pattern,
	}
}

// MatchQuery requires a query parameter value for the stub to match.
func (b *StubBuilder) MatchQuery(key, value string) *StubBuilder {
	if b.query == nil {
		b.query = make(url.Values)
	}
	b.query.Add(key, value)
	return b
}

// MatchHeader requires a header value for the stub to match.
func (b *StubBuilder) MatchHeader(key, value string) *StubBuilder {
	if b.header == nil {
		b.header = make(http.Header)
	}
	b.header.Add(key, value)
	return b
}

// Validate attaches a request validator. A validation failure surfaces
// as an error from Resolve, wrapped in ErrValidation.
func (b *StubBuilder) Validate(fn func(*Request) error) *StubBuilder {
	b.validate = fn
	return b
}

// Delay makes the stub wait before responding, simulating latency.
func (b *StubBuilder) Delay(d time.Duration) *StubBuilder {
	b.delay = d
	return b
}

// Respond registers the stub with a fixed response.
func (b *StubBuilder) Respond(resp *response.Response) error {
	return b.RespondWith(func(*Request) (*response.Response, error) {
		return resp, nil
	})
}

// RespondJSON registers the stub with a JSON-encoded response.
func (b *StubBuilder) RespondJSON(v any, opts ...response.Option) error {
	resp, err := response.JSON(v, opts...)
	if err != nil {
		return err
	}
	return b.Respond(resp)
}

// RespondWith registers the stub with a resolver invoked per request.
func (b *StubBuilder) RespondWith(resolver Resolver) error {
	if resolver == nil {
		return ErrNilResolver
	}

	compiled, err := match.Compile(b.pattern)
	if err != nil {
		return fmt.Errorf("failed to compile pattern: %w", err)
	}

	final := resolver
	if b.delay > 0 {
		delay := b.delay
		final = func(req *Request) (*response.Response, error) {
			time.Sleep(delay)
			return resolver(req)
		}
	}

	return b.reg.register(&stub{
		criteria: match.Criteria{
			Method: b.method,
			Path:   compiled,
			Query:  b.query,
			Header: b.header,
		},
		resolver: final,
		validate: b.validate,
	})
}

// Fail registers the stub to fail the request with err, or ErrStubFailed
// when err is nil. The failure is network-level: callers observe an
// aborted request, not a status code.
func (b *StubBuilder) Fail(err error) error {
	if err == nil {
		err = ErrStubFailed
	}
	return b.RespondWith(func(*Request) (*response.Response, error) {
		return nil, err
	})
}

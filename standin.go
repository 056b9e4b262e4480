/*
Package standin provides the stub registry at the heart of the library.

A Registry associates request criteria (method, path pattern, optional
query and header requirements) with resolvers that produce synthetic
responses. Registrations are made directly with Handle or fluently with
On; re-registering an identical method/pattern/requirements combination
replaces the earlier stub, otherwise stubs are consulted in registration
order and the first match wins.

Every resolved request is recorded, so tests can verify traffic with
Requests and per-stub hit counts with Stubs. A Registry is an
http.Handler, which makes it directly mountable on an httptest.Server;
for client-side interception see the transport package.
*/
package standin

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/standin-project/standin/match"
	"github.com/standin-project/standin/response"
	"github.com/standin-project/standin/state"
)

// Request captures a single intercepted request.
type Request struct {
	// Method is the HTTP method used.
	Method string

	// URL is the requested URL.
	URL *url.URL

	// Header holds the request headers.
	Header http.Header

	// Body contains the request payload, if any.
	Body []byte

	// PathParams holds values captured by :name and *name pattern
	// segments. Populated only on the request passed to a resolver.
	PathParams map[string]string
}

// NewRequest builds a Request from an *http.Request, consuming its body.
func NewRequest(r *http.Request) (*Request, error) {
	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		r.Body.Close()
		body = b
	}

	return &Request{
		Method: r.Method,
		URL:    r.URL,
		Header: r.Header,
		Body:   body,
	}, nil
}

// Resolver produces the response for a matched request.
type Resolver func(*Request) (*response.Response, error)

// Config provides configuration options for Registry creation.
type Config struct {
	// Logger receives debug records for matches and misses. Nil keeps the
	// registry silent.
	Logger *slog.Logger

	// Fallback, when set, is served for requests no stub matches instead
	// of returning ErrNoStub.
	Fallback *response.Response

	// State is the key-value store exposed to resolvers via State. Nil
	// gets an empty in-memory store.
	State state.Store
}

// stub pairs match criteria with the resolver that serves it.
type stub struct {
	criteria match.Criteria
	key      string
	resolver Resolver
	validate func(*Request) error
	hits     int
}

// Registry holds stub registrations and recorded traffic. Safe for
// concurrent use.
type Registry struct {
	mu       sync.Mutex
	stubs    []*stub
	requests []Request
	fallback *response.Response
	state    state.Store
	log      *slog.Logger
}

// StubInfo summarizes one registration for inspection.
type StubInfo struct {
	// Method is the registered HTTP method.
	Method string

	// Pattern is the registered path pattern.
	Pattern string

	// Hits counts requests the stub has served.
	Hits int
}

// New creates a Registry.
func New(config Config) (*Registry, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store := config.State
	if store == nil {
		s, err := state.New(state.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create state store: %w", err)
		}
		store = s
	}

	return &Registry{
		fallback: config.Fallback,
		state:    store,
		log:      logger,
	}, nil
}

// State returns the registry's key-value store. Resolvers use it to
// keep data across requests, so a POST stub can create what a later GET
// stub returns.
func (reg *Registry) State() state.Store {
	return reg.state
}

// Handle registers a resolver for a method and path pattern.
func (reg *Registry) Handle(method, pattern string, resolver Resolver) error {
	return reg.On(method, pattern).RespondWith(resolver)
}

// register validates and stores a stub, replacing any existing stub with
// identical criteria.
func (reg *Registry) register(s *stub) error {
	if s.criteria.Method == "" {
		return ErrInvalidMethod
	}
	if s.resolver == nil {
		return ErrNilResolver
	}
	s.key = s.criteria.Key()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	for i, existing := range reg.stubs {
		if existing.key == s.key {
			reg.stubs[i] = s
			reg.log.Debug("stub replaced", "method", s.criteria.Method, "pattern", s.criteria.Path.String())
			return nil
		}
	}
	reg.stubs = append(reg.stubs, s)
	reg.log.Debug("stub registered", "method", s.criteria.Method, "pattern", s.criteria.Path.String())
	return nil
}

// Resolve records the request and runs it against the registered stubs.
// Unmatched requests get the configured fallback or ErrNoStub. A stub
// built as a network error, a failing validator, or a resolver error all
// surface as errors, never as responses.
func (reg *Registry) Resolve(req *Request) (*response.Response, error) {
	reg.mu.Lock()
	reg.requests = append(reg.requests, *req)

	var matched *stub
	var params map[string]string
	for _, s := range reg.stubs {
		if p, ok := s.criteria.Matches(req.Method, req.URL.Path, req.URL.Query(), req.Header); ok {
			matched = s
			params = p
			matched.hits++
			break
		}
	}
	reg.mu.Unlock()

	if matched == nil {
		if reg.fallback != nil {
			reg.log.Debug("request served by fallback", "method", req.Method, "path", req.URL.Path)
			return reg.fallback, nil
		}
		reg.log.Debug("request unmatched", "method", req.Method, "path", req.URL.Path)
		return nil, fmt.Errorf("%w: %s %s", ErrNoStub, req.Method, req.URL.Path)
	}

	req.PathParams = params
	reg.log.Debug("request matched", "method", req.Method, "path", req.URL.Path, "pattern", matched.criteria.Path.String())

	if matched.validate != nil {
		if err := matched.validate(req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	resp, err := matched.resolver(req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return response.Empty(), nil
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp, nil
}

// ServeHTTP resolves the request against the registry. Unmatched
// requests produce 404, validation failures 500, and any other stub
// failure (network errors included) aborts the connection without a
// status line.
func (reg *Registry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := NewRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp, err := reg.Resolve(req)
	switch {
	case err == nil:
		if werr := resp.Write(w); werr != nil {
			reg.log.Error("failed to write stub response", "error", werr)
		}
	case errors.Is(err, ErrNoStub):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		panic(http.ErrAbortHandler)
	}
}

// Requests returns a copy of all recorded requests.
func (reg *Registry) Requests() []Request {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	out := make([]Request, len(reg.requests))
	copy(out, reg.requests)
	return out
}

// Stubs lists the current registrations with their hit counts.
func (reg *Registry) Stubs() []StubInfo {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	out := make([]StubInfo, 0, len(reg.stubs))
	for _, s := range reg.stubs {
		out = append(out, StubInfo{
			Method:  s.criteria.Method,
			Pattern: s.criteria.Path.String(),
			Hits:    s.hits,
		})
	}
	return out
}

// Reset clears recorded requests and stub hit counts, keeping the stubs.
func (reg *Registry) Reset() {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.requests = nil
	for _, s := range reg.stubs {
		s.hits = 0
	}
}

// Clear removes every registered stub and all recordings.
func (reg *Registry) Clear() {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.stubs = nil
	reg.requests = nil
}

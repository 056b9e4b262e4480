package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	standin "github.com/standin-project/standin"
	"github.com/standin-project/standin/faker"
	"github.com/standin-project/standin/response"
)

var (
	// ErrUnsupportedFormat indicates a manifest file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported manifest format")

	// ErrNilRegistry is returned when Apply is given no registry.
	ErrNilRegistry = errors.New("registry cannot be nil")
)

// Stub is one declarative stub definition.
type Stub struct {
	// Method is the HTTP method to match.
	Method string

	// Path is the path pattern to match.
	Path string

	// Status is the response status code. Zero means 200.
	Status int

	// Headers holds response headers.
	Headers map[string]string

	// Body is the response payload. Strings are served as text/plain,
	// everything else is JSON-encoded. Nil means an empty body.
	Body any

	// Query lists query parameters the request must carry.
	Query map[string]string

	// MatchHeaders lists headers the request must carry.
	MatchHeaders map[string]string

	// NetworkError makes the stub fail at the network level instead of
	// responding.
	NetworkError bool

	// Delay postpones the response, simulating latency.
	Delay time.Duration
}

// hclManifest is the top-level structure of an HCL manifest file.
type hclManifest struct {
	Stubs []hclStub `hcl:"stub,block"`
}

// hclStub mirrors one stub block.
type hclStub struct {
	Method       string            `hcl:"method,label"`
	Path         string            `hcl:"path,label"`
	Status       int               `hcl:"status,optional"`
	Headers      map[string]string `hcl:"headers,optional"`
	Body         hcl.Expression    `hcl:"body,optional"`
	Query        map[string]string `hcl:"query,optional"`
	MatchHeaders map[string]string `hcl:"match_headers,optional"`
	NetworkError bool              `hcl:"network_error,optional"`
	DelayMS      int               `hcl:"delay_ms,optional"`
}

// jsonStub mirrors one entry of a JSON manifest array.
type jsonStub struct {
	Method       string            `json:"method"`
	Path         string            `json:"path"`
	Status       int               `json:"status"`
	Headers      map[string]string `json:"headers"`
	Body         any               `json:"body"`
	Query        map[string]string `json:"query"`
	MatchHeaders map[string]string `json:"match_headers"`
	NetworkError bool              `json:"network_error"`
	DelayMS      int               `json:"delay_ms"`
}

// Load reads stub definitions from a manifest file or from every .hcl
// and .json file under a directory.
func Load(path string) ([]Stub, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat manifest path: %w", err)
	}

	if !info.IsDir() {
		return loadFile(path)
	}

	var stubs []Stub
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".hcl", ".json":
			loaded, err := loadFile(p)
			if err != nil {
				return err
			}
			stubs = append(stubs, loaded...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stubs, nil
}

// loadFile dispatches on the file extension.
func loadFile(path string) ([]Stub, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return loadHCL(path)
	case ".json":
		return loadJSON(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// loadHCL parses stub blocks from an HCL manifest file.
func loadHCL(path string) ([]Stub, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, diags)
	}

	var parsed hclManifest
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, diags)
	}

	stubs := make([]Stub, 0, len(parsed.Stubs))
	for _, h := range parsed.Stubs {
		body, err := bodyFromExpression(h.Body)
		if err != nil {
			return nil, fmt.Errorf("invalid body in %s: %w", path, err)
		}
		stubs = append(stubs, Stub{
			Method:       h.Method,
			Path:         h.Path,
			Status:       h.Status,
			Headers:      h.Headers,
			Body:         body,
			Query:        h.Query,
			MatchHeaders: h.MatchHeaders,
			NetworkError: h.NetworkError,
			Delay:        time.Duration(h.DelayMS) * time.Millisecond,
		})
	}
	return stubs, nil
}

// bodyFromExpression evaluates an HCL body expression and converts the
// result into plain Go data by routing it through its JSON
// representation.
func bodyFromExpression(expr hcl.Expression) (any, error) {
	if expr == nil {
		return nil, nil
	}

	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		return nil, nil
	}

	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, err
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// loadJSON parses a JSON manifest array.
func loadJSON(path string) ([]Stub, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var parsed []jsonStub
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}

	stubs := make([]Stub, 0, len(parsed))
	for _, j := range parsed {
		stubs = append(stubs, Stub{
			Method:       j.Method,
			Path:         j.Path,
			Status:       j.Status,
			Headers:      j.Headers,
			Body:         j.Body,
			Query:        j.Query,
			MatchHeaders: j.MatchHeaders,
			NetworkError: j.NetworkError,
			Delay:        time.Duration(j.DelayMS) * time.Millisecond,
		})
	}
	return stubs, nil
}

// Apply registers stubs on the registry. When exp is non-nil, body
// placeholders are expanded on every request.
func Apply(reg *standin.Registry, stubs []Stub, exp *faker.Expander) error {
	if reg == nil {
		return ErrNilRegistry
	}

	for _, s := range stubs {
		builder := reg.On(s.Method, s.Path)
		for k, v := range s.Query {
			builder.MatchQuery(k, v)
		}
		for k, v := range s.MatchHeaders {
			builder.MatchHeader(k, v)
		}
		if s.Delay > 0 {
			builder.Delay(s.Delay)
		}

		if s.NetworkError {
			if err := builder.Respond(response.NetworkError("")); err != nil {
				return fmt.Errorf("failed to register stub %s %s: %w", s.Method, s.Path, err)
			}
			continue
		}

		if err := builder.RespondWith(resolver(s, exp)); err != nil {
			return fmt.Errorf("failed to register stub %s %s: %w", s.Method, s.Path, err)
		}
	}
	return nil
}

// resolver builds the per-request resolver for one stub definition.
func resolver(s Stub, exp *faker.Expander) standin.Resolver {
	opts := make([]response.Option, 0, len(s.Headers)+1)
	if s.Status != 0 {
		opts = append(opts, response.WithStatus(s.Status))
	}
	for k, v := range s.Headers {
		opts = append(opts, response.WithHeader(k, v))
	}

	return func(*standin.Request) (*response.Response, error) {
		body := s.Body
		if exp != nil {
			body = exp.Expand(body)
		}

		switch b := body.(type) {
		case nil:
			return response.Empty(opts...), nil
		case string:
			return response.Text(b, opts...), nil
		default:
			return response.JSON(b, opts...)
		}
	}
}

package transport

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	standin "github.com/standin-project/standin"
)

var (
	// ErrNilRegistry is returned when no registry is provided.
	ErrNilRegistry = errors.New("registry cannot be nil")
)

// Mode controls what happens to requests no stub matches.
type Mode int

const (
	// ModeFail rejects unmatched requests with the registry's ErrNoStub.
	ModeFail Mode = iota

	// ModePassthrough forwards unmatched requests to the base transport.
	ModePassthrough
)

// Config provides configuration options for Transport creation.
type Config struct {
	// Registry resolves intercepted requests.
	Registry *standin.Registry

	// Mode selects the unmatched-request behavior. Defaults to ModeFail.
	Mode Mode

	// Base is the transport used for passthrough. Defaults to
	// http.DefaultTransport.
	Base http.RoundTripper
}

// Transport resolves requests against a stub registry instead of the
// network.
type Transport struct {
	registry *standin.Registry
	mode     Mode
	base     http.RoundTripper
}

// Compile-time check: Transport is a drop-in RoundTripper.
var _ http.RoundTripper = (*Transport)(nil)

// New creates a Transport.
func New(config Config) (*Transport, error) {
	if config.Registry == nil {
		return nil, ErrNilRegistry
	}

	base := config.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return &Transport{
		registry: config.Registry,
		mode:     config.Mode,
		base:     base,
	}, nil
}

// Client returns an *http.Client that routes through the transport.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// RoundTrip resolves the request against the registry. Stub failures and
// network-error stubs are returned as errors; unmatched requests either
// fail or fall through to the base transport depending on the mode.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	captured, err := standin.NewRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := t.registry.Resolve(captured)
	if err != nil {
		if errors.Is(err, standin.ErrNoStub) && t.mode == ModePassthrough {
			if captured.Body != nil {
				// Restore the consumed body before handing off.
				req.Body = io.NopCloser(bytes.NewReader(captured.Body))
			}
			return t.base.RoundTrip(req)
		}
		return nil, err
	}

	return resp.HTTP(req)
}

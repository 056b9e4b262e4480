package response

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	pb "google.golang.org/protobuf/proto"
)

var (
	// ErrNetwork marks a response that represents a network-level failure
	// instead of an HTTP status. Check with errors.Is.
	ErrNetwork = errors.New("network error")

	// ErrMarshalBody wraps failures while encoding a structured body.
	ErrMarshalBody = errors.New("failed to marshal response body")
)

// Response is a synthetic HTTP response returned by a stub.
//
// Body holds the payload for all constructors except Stream, which sets
// Reader instead. A streamed response is single-use: once emitted, the
// reader is drained and the response cannot be served again.
type Response struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int

	// StatusText is the reason phrase. Empty means http.StatusText(StatusCode).
	StatusText string

	// Header holds the headers to include in the response.
	Header http.Header

	// Body is the raw payload.
	Body []byte

	// Reader streams the payload when the body is not known up front.
	Reader io.Reader

	// Err, when set, marks the response as a network-level failure.
	Err error
}

// Option mutates a Response during construction.
type Option func(*Response)

// WithStatus sets the HTTP status code.
func WithStatus(code int) Option {
	return func(r *Response) { r.StatusCode = code }
}

// WithStatusText sets the reason phrase.
func WithStatusText(text string) Option {
	return func(r *Response) { r.StatusText = text }
}

// WithHeader adds a header value.
func WithHeader(key, value string) Option {
	return func(r *Response) { r.Header.Add(key, value) }
}

// WithHeaders merges a full header set into the response.
func WithHeaders(h http.Header) Option {
	return func(r *Response) {
		for k, values := range h {
			for _, v := range values {
				r.Header.Add(k, v)
			}
		}
	}
}

// newResponse applies options over a 200 baseline and fills header
// defaults afterwards so caller-provided headers take precedence.
func newResponse(body []byte, contentType string, opts []Option) *Response {
	r := &Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       body,
	}
	for _, opt := range opts {
		opt(r)
	}
	if contentType != "" && r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", contentType)
	}
	if r.Header.Get("Content-Length") == "" {
		r.Header.Set("Content-Length", strconv.Itoa(len(body)))
	}
	return r
}

// Empty creates a response with no body. The default status is 200; pair
// with WithStatus for codes such as 204 or 404.
func Empty(opts ...Option) *Response {
	return newResponse(nil, "", opts)
}

// Text creates a plain-text response.
func Text(body string, opts ...Option) *Response {
	return newResponse([]byte(body), "text/plain; charset=utf-8", opts)
}

// Bytes creates a binary response. An empty contentType defaults to
// application/octet-stream.
func Bytes(body []byte, contentType string, opts ...Option) *Response {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return newResponse(body, contentType, opts)
}

// JSON creates a response by JSON-encoding v.
func JSON(v any, opts ...Option) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshalBody, err)
	}
	return newResponse(body, "application/json", opts), nil
}

// XML creates a response by XML-encoding v.
func XML(v any, opts ...Option) (*Response, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshalBody, err)
	}
	return newResponse(body, "application/xml", opts), nil
}

// Proto creates a response by protobuf-encoding m.
func Proto(m pb.Message, opts ...Option) (*Response, error) {
	body, err := pb.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshalBody, err)
	}
	return newResponse(body, "application/x-protobuf", opts), nil
}

// Stream creates a response whose body is read from r at emit time.
// No Content-Length header is set since the size is unknown.
func Stream(reader io.Reader, contentType string, opts ...Option) *Response {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	r := &Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Reader:     reader,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

// NetworkError creates a response representing a request that failed at
// the network level. It carries no status code; transports return the
// wrapped error and server mode aborts the connection.
func NetworkError(message string) *Response {
	if message == "" {
		return &Response{Err: ErrNetwork}
	}
	return &Response{Err: fmt.Errorf("%w: %s", ErrNetwork, message)}
}

// status returns the reason phrase, defaulting to the standard text.
func (r *Response) status() string {
	if r.StatusText != "" {
		return r.StatusText
	}
	return http.StatusText(r.StatusCode)
}

// body returns a reader over the payload and the length when known.
func (r *Response) body() (io.Reader, int64) {
	if r.Reader != nil {
		return r.Reader, -1
	}
	return bytes.NewReader(r.Body), int64(len(r.Body))
}

// HTTP converts the response into an *http.Response attributed to req.
// A network-error response returns the failure instead.
func (r *Response) HTTP(req *http.Request) (*http.Response, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	reader, length := r.body()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", r.StatusCode, r.status()),
		StatusCode:    r.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        r.Header.Clone(),
		Body:          io.NopCloser(reader),
		ContentLength: length,
		Request:       req,
	}, nil
}

// Write renders the response onto w. A network-error response panics
// with http.ErrAbortHandler so the server drops the connection without
// sending a status line.
func (r *Response) Write(w http.ResponseWriter) error {
	if r.Err != nil {
		panic(http.ErrAbortHandler)
	}

	for k, values := range r.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(r.StatusCode)

	reader, _ := r.body()
	if _, err := io.Copy(w, reader); err != nil {
		return fmt.Errorf("failed to write response body: %w", err)
	}
	return nil
}

/*
Package response constructs synthetic HTTP responses for stubbed requests.

Constructors cover the common body kinds (Text, JSON, XML, Bytes, Proto,
Stream, Empty) and keep the Content-Type and Content-Length headers
consistent with the body they carry. Functional options adjust the status
code, status text, and headers; an explicit header set through an option
always wins over a constructor default.

NetworkError builds a response that represents a network-level failure
rather than an HTTP status. When such a response reaches a client-side
transport the request errors out; in server mode the connection is
aborted, so the caller never observes a status code.

A response can be emitted two ways: HTTP converts it into an
*http.Response for RoundTripper-based interception, and Write renders it
onto an http.ResponseWriter.
*/
package response

/*
Package transport intercepts client-side HTTP traffic and answers it
from a stub registry.

Transport implements http.RoundTripper. Requests are resolved against
the configured Registry without touching the network; a stub registered
as a network error causes RoundTrip to return that error, so callers
observe an aborted request rather than a status code.

Unmatched requests follow the configured mode: ModeFail (the default)
returns the registry's ErrNoStub, while ModePassthrough forwards the
request to a real transport. Passthrough keeps integration tests honest
when only part of an API surface is stubbed.

Typical usage injects Client() into the component under test:

	reg, _ := standin.New(standin.Config{})
	reg.On("GET", "/users/:id").RespondJSON(map[string]string{"id": "42"})

	tr, _ := transport.New(transport.Config{Registry: reg})
	resp, err := tr.Client().Get("https://api.example.com/users/42")
*/
package transport

package standin

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/standin-project/standin/response"
)

func BenchmarkResolve(b *testing.B) {
	reg, err := New(Config{})
	if err != nil {
		b.Fatalf("failed to create registry: %v", err)
	}

	// A realistic registry: several literal stubs ahead of the one that
	// matches, plus a parameterized route.
	for i := 0; i < 8; i++ {
		if err := reg.On("GET", fmt.Sprintf("/static/%d", i)).Respond(response.Text("ok")); err != nil {
			b.Fatalf("failed to register stub: %v", err)
		}
	}
	if err := reg.On("GET", "/users/:id").RespondJSON(map[string]string{"status": "ok"}); err != nil {
		b.Fatalf("failed to register stub: %v", err)
	}

	u, err := url.Parse("/users/42")
	if err != nil {
		b.Fatalf("failed to parse url: %v", err)
	}
	req := &Request{Method: "GET", URL: u, Header: make(http.Header)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reg.Resolve(req); err != nil {
			b.Fatalf("Resolve returned error: %v", err)
		}
	}
}

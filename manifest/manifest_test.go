package manifest

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	standin "github.com/standin-project/standin"
	"github.com/standin-project/standin/faker"
	"github.com/standin-project/standin/response"
)

const hclManifestText = `
stub "GET" "/users/:id" {
  status = 200
  headers = {
    "X-Source" = "manifest"
  }
  body = {
    id   = "@uuid"
    name = "fixed"
  }
}

stub "GET" "/flaky" {
  network_error = true
}

stub "DELETE" "/users/:id" {
  status   = 204
  delay_ms = 5
}
`

const jsonManifestText = `[
  {
    "method": "GET",
    "path": "/greeting",
    "status": 200,
    "body": "hello",
    "query": {"lang": "en"}
  }
]`

// write creates a manifest file under dir and returns its path.
func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest file: %v", err)
	}
	return path
}

// get builds a GET request for the given raw URL.
func get(t *testing.T, rawurl string) *standin.Request {
	t.Helper()
	u, err := url.Parse(rawurl)
	if err != nil {
		t.Fatalf("failed to parse url: %v", err)
	}
	return &standin.Request{Method: "GET", URL: u, Header: make(http.Header)}
}

func TestLoadHCL(t *testing.T) {
	path := write(t, t.TempDir(), "stubs.hcl", hclManifestText)

	stubs, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(stubs) != 3 {
		t.Fatalf("expected 3 stubs, got %d", len(stubs))
	}

	first := stubs[0]
	if first.Method != "GET" || first.Path != "/users/:id" {
		t.Errorf("unexpected labels %s %s", first.Method, first.Path)
	}
	if diff := cmp.Diff(map[string]string{"X-Source": "manifest"}, first.Headers); diff != "" {
		t.Errorf("unexpected headers (-want +got):\n%s", diff)
	}
	body, ok := first.Body.(map[string]any)
	if !ok {
		t.Fatalf("expected object body, got %T", first.Body)
	}
	if body["name"] != "fixed" || body["id"] != "@uuid" {
		t.Errorf("unexpected body %v", body)
	}

	if !stubs[1].NetworkError {
		t.Error("expected network_error stub")
	}
	if stubs[2].Delay != 5*time.Millisecond {
		t.Errorf("expected 5ms delay, got %v", stubs[2].Delay)
	}
}

func TestLoadJSON(t *testing.T) {
	path := write(t, t.TempDir(), "stubs.json", jsonManifestText)

	stubs, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(stubs) != 1 {
		t.Fatalf("expected 1 stub, got %d", len(stubs))
	}
	if stubs[0].Body != "hello" {
		t.Errorf("unexpected body %v", stubs[0].Body)
	}
	if diff := cmp.Diff(map[string]string{"lang": "en"}, stubs[0].Query); diff != "" {
		t.Errorf("unexpected query (-want +got):\n%s", diff)
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.hcl", hclManifestText)
	write(t, dir, "b.json", jsonManifestText)
	write(t, dir, "notes.txt", "ignored")

	stubs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(stubs) != 4 {
		t.Errorf("expected 4 stubs from directory, got %d", len(stubs))
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("Missing Path", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.hcl")); err == nil {
			t.Fatal("expected error for missing path")
		}
	})

	t.Run("Unsupported Extension", func(t *testing.T) {
		path := write(t, t.TempDir(), "stubs.yaml", "")
		if _, err := Load(path); !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
		}
	})

	t.Run("Malformed HCL", func(t *testing.T) {
		path := write(t, t.TempDir(), "bad.hcl", `stub "GET" {`)
		if _, err := Load(path); err == nil {
			t.Fatal("expected error for malformed manifest")
		}
	})
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "stubs.hcl", hclManifestText)
	write(t, dir, "stubs.json", jsonManifestText)

	stubs, err := Load(dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	reg, err := standin.New(standin.Config{})
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	if err := Apply(reg, stubs, faker.New(3)); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	t.Run("Expanded JSON Body", func(t *testing.T) {
		resp, err := reg.Resolve(get(t, "/users/7"))
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if got := resp.Header.Get("X-Source"); got != "manifest" {
			t.Errorf("expected manifest header, got %q", got)
		}
		body := string(resp.Body)
		if body == "" || body == `{"id":"@uuid","name":"fixed"}` {
			t.Errorf("expected expanded body, got %q", body)
		}
	})

	t.Run("Network Error Stub", func(t *testing.T) {
		_, err := reg.Resolve(get(t, "/flaky"))
		if !errors.Is(err, response.ErrNetwork) {
			t.Fatalf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("Text Body With Query", func(t *testing.T) {
		resp, err := reg.Resolve(get(t, "/greeting?lang=en"))
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if string(resp.Body) != "hello" {
			t.Errorf("unexpected body %q", string(resp.Body))
		}
		if got := resp.Header.Get("Content-Type"); got != "text/plain; charset=utf-8" {
			t.Errorf("expected text content type, got %q", got)
		}

		if _, err := reg.Resolve(get(t, "/greeting")); !errors.Is(err, standin.ErrNoStub) {
			t.Fatalf("expected ErrNoStub without query, got %v", err)
		}
	})

	t.Run("Nil Registry", func(t *testing.T) {
		if err := Apply(nil, stubs, nil); !errors.Is(err, ErrNilRegistry) {
			t.Fatalf("expected ErrNilRegistry, got %v", err)
		}
	})
}

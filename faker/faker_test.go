package faker

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpandString(t *testing.T) {
	exp := New(11)

	testCases := []struct {
		name  string
		input string
		check func(t *testing.T, got any)
	}{
		{
			name:  "Email",
			input: "@email",
			check: func(t *testing.T, got any) {
				s, ok := got.(string)
				if !ok || !strings.Contains(s, "@") {
					t.Errorf("expected an email address, got %v", got)
				}
			},
		},
		{
			name:  "UUID",
			input: "@uuid",
			check: func(t *testing.T, got any) {
				s, ok := got.(string)
				if !ok || len(s) != 36 {
					t.Errorf("expected a uuid, got %v", got)
				}
			},
		},
		{
			name:  "Bool",
			input: "@bool",
			check: func(t *testing.T, got any) {
				if _, ok := got.(bool); !ok {
					t.Errorf("expected a bool, got %T", got)
				}
			},
		},
		{
			name:  "RandInt Digits",
			input: "@randInt:4",
			check: func(t *testing.T, got any) {
				n, ok := got.(int64)
				if !ok || n < 1000 || n > 9999 {
					t.Errorf("expected a 4-digit integer, got %v", got)
				}
			},
		},
		{
			name:  "RandString Length",
			input: "@randString:16",
			check: func(t *testing.T, got any) {
				s, ok := got.(string)
				if !ok || len(s) != 16 {
					t.Errorf("expected a 16-character string, got %v", got)
				}
			},
		},
		{
			name:  "Date Format",
			input: "@date",
			check: func(t *testing.T, got any) {
				s, ok := got.(string)
				if !ok || len(s) != 10 || s[4] != '-' || s[7] != '-' {
					t.Errorf("expected YYYY-MM-DD, got %v", got)
				}
			},
		},
		{
			name:  "Plain String Passthrough",
			input: "not a placeholder",
			check: func(t *testing.T, got any) {
				if got != "not a placeholder" {
					t.Errorf("expected passthrough, got %v", got)
				}
			},
		},
		{
			name:  "Unknown Directive Passthrough",
			input: "@handle",
			check: func(t *testing.T, got any) {
				if got != "@handle" {
					t.Errorf("expected passthrough, got %v", got)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, exp.Expand(tc.input))
		})
	}
}

func TestExpandStructure(t *testing.T) {
	exp := New(7)

	input := map[string]any{
		"id":    "@uuid",
		"count": 3,
		"tags":  []any{"@word", "fixed"},
		"owner": map[string]any{"email": "@email"},
	}

	got, ok := exp.Expand(input).(map[string]any)
	if !ok {
		t.Fatalf("expected a map, got %T", exp.Expand(input))
	}

	if got["count"] != 3 {
		t.Errorf("expected non-string values untouched, got %v", got["count"])
	}
	if got["id"] == "@uuid" {
		t.Error("expected id placeholder to be expanded")
	}
	tags, ok := got["tags"].([]any)
	if !ok || len(tags) != 2 || tags[1] != "fixed" {
		t.Errorf("unexpected tags %v", got["tags"])
	}
	owner, ok := got["owner"].(map[string]any)
	if !ok || owner["email"] == "@email" {
		t.Errorf("expected nested expansion, got %v", got["owner"])
	}

	// Input must not be mutated.
	if input["id"] != "@uuid" {
		t.Error("expected input map to be left untouched")
	}
}

func TestExpandDeterminism(t *testing.T) {
	input := map[string]any{"id": "@uuid", "name": "@name", "n": "@randInt:6"}

	a := New(42).Expand(input)
	b := New(42).Expand(input)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("expected identical output for identical seeds (-a +b):\n%s", diff)
	}
}

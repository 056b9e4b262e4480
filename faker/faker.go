package faker

import (
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

const randStringCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Expander generates values for @directive placeholders.
type Expander struct {
	fake *gofakeit.Faker
}

// New creates an Expander seeded for deterministic output. A zero seed
// produces a different sequence per process.
func New(seed int64) *Expander {
	return &Expander{fake: gofakeit.New(seed)}
}

// Expand walks v and replaces placeholder strings with generated values.
// Maps and slices are copied, never mutated in place.
func (e *Expander) Expand(v any) any {
	switch value := v.(type) {
	case string:
		return e.expandString(value)
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = e.Expand(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = e.Expand(item)
		}
		return out
	default:
		return v
	}
}

// expandString resolves a single placeholder. Strings that are not
// placeholders are returned unchanged.
func (e *Expander) expandString(s string) any {
	if !strings.HasPrefix(s, "@") {
		return s
	}

	directive, args, _ := strings.Cut(s, ":")
	switch directive {
	case "@email":
		return e.fake.Email()
	case "@name":
		return e.fake.Name()
	case "@word":
		return e.fake.Word()
	case "@sentence":
		return e.fake.Sentence(5)
	case "@uuid":
		return e.fake.UUID()
	case "@bool":
		return e.fake.Bool()
	case "@float":
		return e.fake.Float64Range(0, 1000)
	case "@timestamp":
		return time.Now().Unix()
	case "@date":
		return e.fake.Date().Format("2006-01-02")
	case "@datetime":
		return e.fake.Date().Format("2006-01-02 15:04:05")
	case "@randInt":
		return e.randInt(args)
	case "@randString":
		return e.randString(args)
	default:
		// Unknown directives pass through so literal @-strings survive.
		return s
	}
}

// randInt returns a random integer, constrained to args digits when an
// argument is given.
func (e *Expander) randInt(args string) int64 {
	digits, err := strconv.Atoi(args)
	if err != nil || digits < 1 {
		return e.fake.Int64()
	}

	low := 1
	for i := 1; i < digits; i++ {
		low *= 10
	}
	return int64(e.fake.IntRange(low, low*10-1))
}

// randString returns a random alphanumeric string of args characters,
// defaulting to ten.
func (e *Expander) randString(args string) string {
	length := 10
	if n, err := strconv.Atoi(args); err == nil && n > 0 {
		length = n
	}

	b := make([]byte, length)
	for i := range b {
		b[i] = randStringCharset[e.fake.IntRange(0, len(randStringCharset)-1)]
	}
	return string(b)
}

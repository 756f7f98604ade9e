package config

import "github.com/meetcute/meetcute-setup/internal/envstore"

// Result is the outcome of Validate. Missing always lists every offending key
// so callers can report them all at once.
type Result struct {
	Valid   bool
	Missing []string
}

// Validate checks that every key in required is present in m with a
// non-empty value. Missing keys are returned in the order of required.
func Validate(m *envstore.Map, required []string) Result {
	missing := make([]string, 0)
	for _, k := range required {
		if v, ok := m.Get(k); !ok || v == "" {
			missing = append(missing, k)
		}
	}
	return Result{Valid: len(missing) == 0, Missing: missing}
}

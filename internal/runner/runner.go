// Package runner invokes the schema-migration and data-seeding steps as
// black boxes: synchronous, blocking, output captured, success derived from
// the exit status.
package runner

import (
	"context"
	"strings"
)

// Result is the outcome of one run.
type Result struct {
	Success bool
	Stdout  string
	Stderr  string
}

// Output returns stdout followed by stderr, trimmed.
func (r Result) Output() string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(r.Stdout); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(r.Stderr); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

// CommandRunner is one external step. Implementations must not return
// before the step has finished.
type CommandRunner interface {
	Run(ctx context.Context) Result
}

// Func adapts a function to CommandRunner.
type Func func(ctx context.Context) Result

func (f Func) Run(ctx context.Context) Result { return f(ctx) }

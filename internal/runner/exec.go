package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ExecRunner runs a subprocess such as "npx sequelize-cli db:migrate".
type ExecRunner struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
}

// NewExecRunner builds an ExecRunner from argv. An empty argv yields a
// runner that always fails.
func NewExecRunner(argv []string, dir string, env ...string) *ExecRunner {
	r := &ExecRunner{Dir: dir, Env: env}
	if len(argv) > 0 {
		r.Name = argv[0]
		r.Args = append([]string(nil), argv[1:]...)
	}
	return r
}

func (r *ExecRunner) String() string {
	return strings.TrimSpace(r.Name + " " + strings.Join(r.Args, " "))
}

// Run starts the process and waits for it. A process that cannot be started
// (binary not found, bad directory) is reported as a failed Result with the
// start error in Stderr.
func (r *ExecRunner) Run(ctx context.Context) Result {
	if r.Name == "" {
		return Result{Stderr: "no command configured"}
	}

	cmd := exec.CommandContext(ctx, r.Name, r.Args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Success: err == nil, Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		res.Stderr = strings.TrimRight(res.Stderr, "\n")
		if res.Stderr != "" {
			res.Stderr += "\n"
		}
		res.Stderr += fmt.Sprintf("%s: %v", r, err)
	}
	return res
}

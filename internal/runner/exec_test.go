package runner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func TestExecRunner_Success(t *testing.T) {
	requireShell(t)
	r := NewExecRunner([]string{"sh", "-c", "echo migrated; echo note 1>&2"}, "")

	res := r.Run(context.Background())

	require.True(t, res.Success)
	require.Equal(t, "migrated\n", res.Stdout)
	require.Equal(t, "note\n", res.Stderr)
	require.Equal(t, "migrated\nnote", res.Output())
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	requireShell(t)
	r := NewExecRunner([]string{"sh", "-c", "echo partial; echo boom 1>&2; exit 3"}, "")

	res := r.Run(context.Background())

	require.False(t, res.Success)
	require.Equal(t, "partial\n", res.Stdout)
	require.True(t, strings.HasPrefix(res.Stderr, "boom\n"), res.Stderr)
	require.Contains(t, res.Stderr, "exit status 3")
}

func TestExecRunner_WorkingDirAndEnv(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("here"), 0o600))

	r := NewExecRunner([]string{"sh", "-c", `cat marker; printf "%s" "$SEED_MODE"`}, dir, "SEED_MODE=demo")
	res := r.Run(context.Background())

	require.True(t, res.Success, res.Output())
	require.Equal(t, "heredemo", res.Stdout)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := NewExecRunner([]string{"definitely-not-a-real-binary-4711"}, "")

	res := r.Run(context.Background())

	require.False(t, res.Success)
	require.Contains(t, res.Stderr, "definitely-not-a-real-binary-4711")
}

func TestExecRunner_EmptyCommand(t *testing.T) {
	res := NewExecRunner(nil, "").Run(context.Background())
	require.False(t, res.Success)
	require.Equal(t, "no command configured", res.Stderr)
}

func TestExecRunner_String(t *testing.T) {
	r := NewExecRunner([]string{"npx", "sequelize-cli", "db:migrate"}, "")
	require.Equal(t, "npx sequelize-cli db:migrate", r.String())
}

func TestResult_Output(t *testing.T) {
	require.Equal(t, "", Result{}.Output())
	require.Equal(t, "err", Result{Stderr: "err\n"}.Output())
	require.Equal(t, "out", Result{Stdout: " out "}.Output())
}

func TestFunc(t *testing.T) {
	var r CommandRunner = Func(func(context.Context) Result { return Result{Success: true} })
	require.True(t, r.Run(context.Background()).Success)
}

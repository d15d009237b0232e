package cmake

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// ToolResolver locates an executable by name on the environment's search
// path. It exists as a seam so tests can substitute a fake resolver instead
// of depending on a cmake installation.
type ToolResolver interface {
	Resolve(name string) (string, error)
}

// Runner executes one external command and reports its exit status.
// A non-nil error means the command could not be run at all; a non-zero
// status means it ran and failed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (int, error)
}

// PathResolver resolves executables via the process's PATH.
type PathResolver struct{}

// Resolve implements ToolResolver using exec.LookPath.
func (PathResolver) Resolve(name string) (string, error) {
	return exec.LookPath(name)
}

// ExecRunner runs commands with os/exec, inheriting the parent's
// stdout and stderr so tool output reaches the caller's terminal.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}

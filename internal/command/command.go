// Package command runs the external programs docstruct delegates to.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner runs an external program.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExitError reports a program that ran and exited with a non-zero status.
type ExitError struct {
	Name   string
	Status int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Name, e.Status)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Name, e.Status, e.Stderr)
}

// Status returns the exit status carried by err, or -1 when err does not
// come from a program that exited.
func Status(err error) int {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Status
	}
	return -1
}

// Exec runs programs with os/exec.
type Exec struct {
	Logger *slog.Logger
}

// Run starts name with args and waits for it. The context kills the program
// when it is cancelled. Standard error is kept for the error message.
func (e Exec) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if e.Logger != nil {
		e.Logger.Debug("running command", "name", name, "args", args)
	}
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", name, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Name: name, Status: exitErr.ExitCode(), Stderr: strings.TrimSpace(stderr.String())}
	}
	return fmt.Errorf("%s: %w", name, err)
}

// Call is one recorded invocation of a Recorder.
type Call struct {
	Name string
	Args []string
}

// Recorder is a Runner that records invocations and runs a hook instead of
// a program.
type Recorder struct {
	Calls []Call
	Hook  func(name string, args []string) error
}

// Run records the call and runs the hook.
func (r *Recorder) Run(_ context.Context, name string, args ...string) error {
	r.Calls = append(r.Calls, Call{Name: name, Args: append([]string(nil), args...)})
	if r.Hook == nil {
		return nil
	}
	return r.Hook(name, args)
}

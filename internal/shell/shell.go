// Package shell runs the external programs legalpub delegates to: the document
// converter, scp and ssh.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Command is a program invocation. Args are passed without shell interpretation.
type Command struct {
	Name string
	Args []string
	Dir  string
}

// String renders the command for logs and dry runs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ExitError is returned when a command ran but exited non-zero.
type ExitError struct {
	Command  Command
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Command.Name, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands on the local host.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts cmd, waits for it and captures stdout and stderr. A non-zero exit
// returns the Result together with an *ExitError.
func (ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Name == "" {
		return Result{ExitCode: -1}, errors.New("command name is required")
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &ExitError{Command: cmd, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	res.ExitCode = -1
	return res, fmt.Errorf("run %s: %w", cmd.Name, err)
}

// DryRunner prints commands instead of running them.
type DryRunner struct {
	mu  sync.Mutex
	out io.Writer
}

// NewDryRunner returns a Runner that writes each command line to out.
func NewDryRunner(out io.Writer) *DryRunner {
	return &DryRunner{out: out}
}

// Run writes cmd to the output and reports success.
func (d *DryRunner) Run(_ context.Context, cmd Command) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.out != nil {
		fmt.Fprintf(d.out, "[dry-run] %s\n", cmd)
	}
	return Result{}, nil
}

package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestCommandString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{Command{Name: "pandoc"}, "pandoc"},
		{Command{Name: "scp", Args: []string{"a.html", "user@host:/srv"}}, "scp a.html user@host:/srv"},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestExecRunnerCapturesOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	res, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err 1>&2"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "out" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "err" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	res, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo boom 1>&2; exit 3"},
	})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	if exitErr.ExitCode != 3 || res.ExitCode != 3 {
		t.Errorf("ExitCode = %d/%d, want 3", exitErr.ExitCode, res.ExitCode)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q should include stderr", err)
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), Command{Name: "definitely-not-a-real-binary-xyz"})
	if err == nil {
		t.Fatal("Run() expected error")
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		t.Errorf("missing binary should not be an ExitError")
	}
}

func TestExecRunnerRequiresName(t *testing.T) {
	if _, err := NewExecRunner().Run(context.Background(), Command{}); err == nil {
		t.Error("Run() with empty name should fail")
	}
}

func TestDryRunnerPrints(t *testing.T) {
	var buf bytes.Buffer
	r := NewDryRunner(&buf)
	if _, err := r.Run(context.Background(), Command{Name: "ssh", Args: []string{"host", "ls"}}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := buf.String(); got != "[dry-run] ssh host ls\n" {
		t.Errorf("output = %q", got)
	}
}

package remote

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/torosent/legalpub/internal/shell"
)

type fakeRunner struct {
	cmds    []shell.Command
	results map[string]shell.Result
	errs    map[string]error
}

func (f *fakeRunner) Run(_ context.Context, cmd shell.Command) (shell.Result, error) {
	f.cmds = append(f.cmds, cmd)
	return f.results[cmd.Name], f.errs[cmd.Name]
}

var testTarget = Target{
	SSHUser:     "deploy@docs.example.com",
	Destination: "/srv/ipfs/export",
	Container:   "ipfs-node",
	StorePath:   "/export",
}

func TestCopy(t *testing.T) {
	runner := &fakeRunner{}
	c := NewClient(runner, testTarget, nil, nil)
	if err := c.Copy(context.Background(), "/work/esop-edited.html"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	want := []shell.Command{{
		Name: "scp",
		Args: []string{"/work/esop-edited.html", "deploy@docs.example.com:/srv/ipfs/export"},
	}}
	if diff := cmp.Diff(want, runner.cmds); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestAddParsesIdentifier(t *testing.T) {
	runner := &fakeRunner{results: map[string]shell.Result{
		"ssh": {Stdout: " 12.3 KiB / 12.3 KiB  100.00%\nadded QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG esop-edited.html\n"},
	}}
	c := NewClient(runner, testTarget, nil, nil)
	cid, err := c.Add(context.Background(), "esop-edited.html")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if cid != "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG" {
		t.Errorf("cid = %q", cid)
	}
	want := []shell.Command{{
		Name: "ssh",
		Args: []string{
			"deploy@docs.example.com",
			"docker", "exec", "-i", "ipfs-node",
			"ipfs", "add", "/export/esop-edited.html",
		},
	}}
	if diff := cmp.Diff(want, runner.cmds); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestAddFailureWrapsCommandName(t *testing.T) {
	exitErr := &shell.ExitError{Command: shell.Command{Name: "ssh"}, ExitCode: 255, Stderr: "connection refused"}
	runner := &fakeRunner{errs: map[string]error{"ssh": exitErr}}
	_, err := NewClient(runner, testTarget, nil, nil).Add(context.Background(), "esop-edited.html")
	if !errors.Is(err, exitErr) {
		t.Fatalf("error = %v, want wrapped ExitError", err)
	}
	if !strings.HasPrefix(err.Error(), "ssh: ") {
		t.Errorf("error = %q", err)
	}
}

func TestParseAddOutput(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"single", "added QmA a.html", "QmA"},
		{"last wins", "added QmA a.html\nadded QmB a.html\n", "QmB"},
		{"no added line", "Error: file does not exist", ""},
		{"empty", "", ""},
		{"bare word", "added", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAddOutput(tt.out); got != tt.want {
				t.Errorf("ParseAddOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

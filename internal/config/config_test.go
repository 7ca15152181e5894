package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/torosent/legalpub/internal/config"
)

func newPublishFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("publish", pflag.ContinueOnError)
	config.RegisterPublishFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return fs
}

func TestLoadPublishDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.NewLoader().LoadPublish(newPublishFlags(t, "--dir", dir))
	if err != nil {
		t.Fatalf("LoadPublish() error = %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("Dir = %q, want %q", cfg.Dir, dir)
	}
	if cfg.TagsFile != config.DefaultTagsFile {
		t.Errorf("TagsFile = %q, want %q", cfg.TagsFile, config.DefaultTagsFile)
	}
	if cfg.StorePath != config.DefaultStorePath {
		t.Errorf("StorePath = %q, want %q", cfg.StorePath, config.DefaultStorePath)
	}
	if cfg.Output != config.OutputText {
		t.Errorf("Output = %q, want text", cfg.Output)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty when no config.json exists", cfg.ConfigFile)
	}
}

func TestLoadPublishReadsDefaultConfigInDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{
		"files": ["esop", "employee-agreement"],
		"ssh-user": "deploy@docs.example.com",
		"destination": "/srv/ipfs/export",
		"docker": "ipfs-node"
	}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.NewLoader().LoadPublish(newPublishFlags(t, "--dir", dir))
	if err != nil {
		t.Fatalf("LoadPublish() error = %v", err)
	}
	if diff := cmp.Diff([]string{"esop", "employee-agreement"}, cfg.Files); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
	if cfg.SSHUser != "deploy@docs.example.com" {
		t.Errorf("SSHUser = %q", cfg.SSHUser)
	}
	if cfg.Destination != "/srv/ipfs/export" {
		t.Errorf("Destination = %q", cfg.Destination)
	}
	if cfg.Container != "ipfs-node" {
		t.Errorf("Container = %q", cfg.Container)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadPublishYAMLWithFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publish.yaml")
	if err := os.WriteFile(path, []byte(`
files:
  - esop
ssh_user: old@host
destination: /old
docker: ipfs
store-path: /data
output: json
strict: true
`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fs := newPublishFlags(t,
		"--config", path,
		"--ssh-user", "new@host",
		"--file", "a", "--file", "b",
		"--output", "YAML",
		"--dry-run",
	)
	cfg, err := config.NewLoader().LoadPublish(fs)
	if err != nil {
		t.Fatalf("LoadPublish() error = %v", err)
	}
	if cfg.SSHUser != "new@host" {
		t.Errorf("SSHUser = %q, want flag override", cfg.SSHUser)
	}
	if diff := cmp.Diff([]string{"a", "b"}, cfg.Files); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
	if cfg.Destination != "/old" {
		t.Errorf("Destination = %q, want file value", cfg.Destination)
	}
	if cfg.StorePath != "/data" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.Output != config.OutputYAML {
		t.Errorf("Output = %q, want yaml", cfg.Output)
	}
	if !cfg.Strict || !cfg.DryRun {
		t.Errorf("Strict=%v DryRun=%v, want both true", cfg.Strict, cfg.DryRun)
	}
}

func TestLoadPublishExplicitMissingConfig(t *testing.T) {
	fs := newPublishFlags(t, "--config", filepath.Join(t.TempDir(), "missing.json"))
	if _, err := config.NewLoader().LoadPublish(fs); err == nil {
		t.Fatal("LoadPublish() expected error for missing explicit config")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := config.Config{
		Files:       []string{"esop"},
		SSHUser:     "u@h",
		Destination: "/srv",
		Container:   "ipfs",
		TagsFile:    "ipfs_tags.json",
		StorePath:   "/export",
		Output:      config.OutputText,
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"no files", func(c *config.Config) { c.Files = nil }, "files is required"},
		{"blank file", func(c *config.Config) { c.Files = []string{" "} }, "files[0]"},
		{"no ssh user", func(c *config.Config) { c.SSHUser = "" }, "ssh-user is required"},
		{"no destination", func(c *config.Config) { c.Destination = "" }, "destination is required"},
		{"no container", func(c *config.Config) { c.Container = "" }, "docker container is required"},
		{"relative store path", func(c *config.Config) { c.StorePath = "export" }, "store-path"},
		{"bad output", func(c *config.Config) { c.Output = "xml" }, "output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
			var verr config.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error type = %T, want ValidationError", err)
			}
		})
	}
}

func TestValidationErrorIssuesIsCopy(t *testing.T) {
	err := config.Config{}.Validate()
	var verr config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T", err)
	}
	issues := verr.Issues()
	if len(issues) < 4 {
		t.Fatalf("Issues() = %v, want several", issues)
	}
	issues[0] = "changed"
	if verr.Issues()[0] == "changed" {
		t.Error("Issues() should return a copy")
	}
}

func TestGlobalFlags(t *testing.T) {
	fs := pflag.NewFlagSet("root", pflag.ContinueOnError)
	config.RegisterGlobalFlags(fs)
	if err := fs.Parse([]string{"-v", "--log-format", "JSON", "--tracing-endpoint", "localhost:4317", "--tracing-sample-rate", "0.5"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	g, err := config.NewLoader().LoadGlobal(fs)
	if err != nil {
		t.Fatalf("LoadGlobal() error = %v", err)
	}
	if !g.Log.Verbose || g.Log.Format != "json" {
		t.Errorf("Log = %+v", g.Log)
	}
	if !g.Tracing.Enabled() || g.Tracing.SampleRate != 0.5 || g.Tracing.Protocol != "grpc" {
		t.Errorf("Tracing = %+v", g.Tracing)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestGlobalValidate(t *testing.T) {
	tests := []struct {
		name string
		g    config.Global
		ok   bool
	}{
		{"defaults", config.Global{Tracing: config.TracingConfig{SampleRate: 1}}, true},
		{"bad log format", config.Global{Log: config.LogConfig{Format: "xml"}}, false},
		{"bad protocol", config.Global{Tracing: config.TracingConfig{Protocol: "udp"}}, false},
		{"bad sample rate", config.Global{Tracing: config.TracingConfig{SampleRate: 2}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() error = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

package config

import (
	"fmt"
	"strings"
)

// OutputFormat selects how the publish report is rendered.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

const (
	DefaultConfigFile = "config.json"
	DefaultTagsFile   = "ipfs_tags.json"
	DefaultStorePath  = "/export"
	DefaultConverter  = "pandoc"
	DefaultFromFormat = "docx"
)

// Config drives the publish workflow: edit each HTML file, copy it to the
// remote host and add it to the content-addressed store inside a container.
type Config struct {
	Files       []string     `mapstructure:"files"`
	SSHUser     string       `mapstructure:"ssh-user"`
	Destination string       `mapstructure:"destination"`
	Container   string       `mapstructure:"docker"`
	TagsFile    string       `mapstructure:"tags"`
	Dir         string       `mapstructure:"dir"`
	StorePath   string       `mapstructure:"store-path"`
	DryRun      bool         `mapstructure:"dry-run"`
	Strict      bool         `mapstructure:"strict"`
	Output      OutputFormat `mapstructure:"output"`
	ConfigFile  string       `mapstructure:"-"`
}

// ConvertConfig drives the document-to-HTML conversion.
type ConvertConfig struct {
	Dir        string `mapstructure:"dir"`
	Converter  string `mapstructure:"converter"`
	From       string `mapstructure:"from"`
	ConfigFile string `mapstructure:"-"`
	// Values holds placeholder arguments keyed by their flag name.
	Values map[string]string `mapstructure:"values"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Verbose bool   `mapstructure:"verbose"`
	Format  string `mapstructure:"format"` // "console" or "json"
}

// TracingConfig configures optional OpenTelemetry export.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Insecure    bool    `mapstructure:"insecure"`
}

// Enabled reports whether an exporter endpoint was configured.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != ""
}

// Global holds settings shared by every subcommand.
type Global struct {
	Log     LogConfig
	Tracing TracingConfig
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if len(c.Files) == 0 {
		issues = append(issues, "files is required (at least one file base name)")
	}
	for idx, name := range c.Files {
		if strings.TrimSpace(name) == "" {
			issues = append(issues, fmt.Sprintf("files[%d]: name cannot be empty", idx))
		}
	}
	if strings.TrimSpace(c.SSHUser) == "" {
		issues = append(issues, "ssh-user is required")
	}
	if strings.TrimSpace(c.Destination) == "" {
		issues = append(issues, "destination is required")
	}
	if strings.TrimSpace(c.Container) == "" {
		issues = append(issues, "docker container is required")
	}
	if strings.TrimSpace(c.TagsFile) == "" {
		issues = append(issues, "tags file is required")
	}
	if !strings.HasPrefix(c.StorePath, "/") {
		issues = append(issues, "store-path must be an absolute path inside the container")
	}
	issues = append(issues, validateOutputFormat(c.Output)...)

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func (c ConvertConfig) Validate() error {
	var issues []string
	if strings.TrimSpace(c.Converter) == "" {
		issues = append(issues, "converter is required")
	}
	if strings.TrimSpace(c.From) == "" {
		issues = append(issues, "from format is required")
	}
	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func (g Global) Validate() error {
	var issues []string
	switch g.Log.Format {
	case "", "console", "json":
	default:
		issues = append(issues, fmt.Sprintf("log format %q is not supported", g.Log.Format))
	}
	issues = append(issues, validateTracingConfig(g.Tracing)...)
	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateOutputFormat(format OutputFormat) []string {
	switch format {
	case "", OutputText, OutputJSON, OutputYAML:
		return nil
	default:
		return []string{fmt.Sprintf("output format %q is not supported (text, json or yaml)", format)}
	}
}

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	switch strings.ToLower(t.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing protocol %q is not supported", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1.0 {
		issues = append(issues, "tracing sample rate must be between 0.0 and 1.0")
	}
	return issues
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// RegisterGlobalFlags registers logging and tracing flags shared by all subcommands.
func RegisterGlobalFlags(flags *pflag.FlagSet) {
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.String("log-format", "console", "Log encoding: 'console' or 'json'")

	flags.String("tracing-endpoint", "", "OTLP endpoint for traces (defaults to OTEL_EXPORTER_OTLP_ENDPOINT)")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.String("tracing-service-name", "", "Service name reported with traces")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of runs to trace (0.0-1.0)")
	flags.Bool("tracing-insecure", false, "Disable TLS for the OTLP exporter")
}

// RegisterPublishFlags registers the publish workflow flags.
func RegisterPublishFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to publish configuration file (JSON or YAML, default config.json in --dir)")
	flags.String("tags", "", "Path to the tag dictionary JSON (default ipfs_tags.json)")
	flags.String("dir", ".", "Directory holding the HTML files")
	flags.StringSlice("file", nil, "HTML file base name to publish (repeatable, overrides config files)")
	flags.String("ssh-user", "", "Remote user@host for scp and ssh")
	flags.String("destination", "", "Remote directory the edited file is copied to")
	flags.String("container", "", "Container running the content-addressed store daemon")
	flags.String("store-path", DefaultStorePath, "Directory inside the container where copied files appear")
	flags.Bool("dry-run", false, "Print remote commands instead of running them")
	flags.Bool("strict", false, "Exit non-zero when any file fails")
	flags.StringP("output", "o", string(OutputText), "Report format: 'text', 'json' or 'yaml'")
}

// RegisterConvertFlags registers one string flag per required placeholder plus
// the converter settings.
func RegisterConvertFlags(flags *pflag.FlagSet, placeholders []string) {
	flags.String("config", "", "Optional file with converter settings and placeholder values")
	flags.String("dir", ".", "Directory holding the source document")
	flags.String("converter", DefaultConverter, "Converter executable")
	flags.String("from", DefaultFromFormat, "Source document format passed to the converter")
	for _, name := range placeholders {
		flags.String(name, "", fmt.Sprintf("Value for the %s placeholder", name))
	}
}

func applyGlobalFlagOverrides(g *Global, fs *pflag.FlagSet) error {
	if fs.Changed("verbose") {
		val, err := fs.GetBool("verbose")
		if err != nil {
			return err
		}
		g.Log.Verbose = val
	}
	if fs.Changed("log-format") {
		val, err := fs.GetString("log-format")
		if err != nil {
			return err
		}
		g.Log.Format = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		g.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		g.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("tracing-service-name") {
		val, err := fs.GetString("tracing-service-name")
		if err != nil {
			return err
		}
		g.Tracing.ServiceName = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		g.Tracing.SampleRate = val
	}
	if fs.Changed("tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		g.Tracing.Insecure = val
	}
	return nil
}

// applyPublishFlagOverrides applies command-line flag values to the config,
// overriding values from the config file.
func applyPublishFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("tags") {
		val, err := fs.GetString("tags")
		if err != nil {
			return err
		}
		cfg.TagsFile = strings.TrimSpace(val)
	}
	if fs.Changed("file") {
		val, err := fs.GetStringSlice("file")
		if err != nil {
			return err
		}
		cfg.Files = val
	}
	if fs.Changed("ssh-user") {
		val, err := fs.GetString("ssh-user")
		if err != nil {
			return err
		}
		cfg.SSHUser = strings.TrimSpace(val)
	}
	if fs.Changed("destination") {
		val, err := fs.GetString("destination")
		if err != nil {
			return err
		}
		cfg.Destination = strings.TrimSpace(val)
	}
	if fs.Changed("container") {
		val, err := fs.GetString("container")
		if err != nil {
			return err
		}
		cfg.Container = strings.TrimSpace(val)
	}
	if fs.Changed("store-path") {
		val, err := fs.GetString("store-path")
		if err != nil {
			return err
		}
		cfg.StorePath = strings.TrimSpace(val)
	}
	if fs.Changed("dry-run") {
		val, err := fs.GetBool("dry-run")
		if err != nil {
			return err
		}
		cfg.DryRun = val
	}
	if fs.Changed("strict") {
		val, err := fs.GetBool("strict")
		if err != nil {
			return err
		}
		cfg.Strict = val
	}
	if fs.Changed("output") {
		val, err := fs.GetString("output")
		if err != nil {
			return err
		}
		cfg.Output = OutputFormat(strings.ToLower(strings.TrimSpace(val)))
	}
	return nil
}

func applyConvertFlagOverrides(cfg *ConvertConfig, fs *pflag.FlagSet, placeholders []string) error {
	if fs.Changed("converter") {
		val, err := fs.GetString("converter")
		if err != nil {
			return err
		}
		cfg.Converter = strings.TrimSpace(val)
	}
	if fs.Changed("from") {
		val, err := fs.GetString("from")
		if err != nil {
			return err
		}
		cfg.From = strings.TrimSpace(val)
	}
	for _, name := range placeholders {
		if !fs.Changed(name) {
			continue
		}
		val, err := fs.GetString(name)
		if err != nil {
			return err
		}
		cfg.Values[name] = val
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadGlobal reads the logging and tracing settings from flags.
func (Loader) LoadGlobal(flagSet *pflag.FlagSet) (Global, error) {
	g := Global{
		Log:     LogConfig{Format: "console"},
		Tracing: TracingConfig{Protocol: "grpc", SampleRate: 1.0},
	}
	if err := applyGlobalFlagOverrides(&g, flagSet); err != nil {
		return Global{}, err
	}
	return g, nil
}

// LoadPublish merges the publish configuration file with flag overrides.
// Without --config, config.json inside --dir is read when it exists.
func (Loader) LoadPublish(flagSet *pflag.FlagSet) (*Config, error) {
	dir := flagValue(flagSet, "dir")
	if dir == "" {
		dir = "."
	}
	configPath := flagValue(flagSet, "config")
	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(dir, DefaultConfigFile)
	}

	settings, found, err := readSettings(configPath, explicit)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Dir:       dir,
		TagsFile:  DefaultTagsFile,
		StorePath: DefaultStorePath,
		Output:    OutputText,
	}
	if found {
		cfg.ConfigFile = configPath
	}

	if err := applyPublishSettings(cfg, settings); err != nil {
		return nil, err
	}
	if flagSet.Changed("dir") {
		cfg.Dir = dir
	}
	if err := applyPublishFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.Files = trimAll(cfg.Files)
	return cfg, nil
}

// LoadConvert merges the optional converter configuration file with flag
// overrides. Placeholder values given as flags win over file values.
func (Loader) LoadConvert(flagSet *pflag.FlagSet, placeholders []string) (*ConvertConfig, error) {
	dir := flagValue(flagSet, "dir")
	if dir == "" {
		dir = "."
	}
	configPath := flagValue(flagSet, "config")

	settings, found, err := readSettings(configPath, configPath != "")
	if err != nil {
		return nil, err
	}

	cfg := &ConvertConfig{
		Dir:       dir,
		Converter: DefaultConverter,
		From:      DefaultFromFormat,
		Values:    map[string]string{},
	}
	if found {
		cfg.ConfigFile = configPath
	}

	if err := applyConvertSettings(cfg, settings); err != nil {
		return nil, err
	}
	if flagSet.Changed("dir") {
		cfg.Dir = dir
	}
	if err := applyConvertFlagOverrides(cfg, flagSet, placeholders); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readSettings loads path with viper. A missing file is an error only when the
// path was given explicitly.
func readSettings(path string, explicit bool) (map[string]interface{}, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("config file: %w", err)
	}

	cfgViper := viper.New()
	cfgViper.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		cfgViper.SetConfigType("json")
	}
	if err := cfgViper.ReadInConfig(); err != nil {
		return nil, false, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfgViper.AllSettings(), true, nil
}

// applyPublishSettings applies settings from a config file to the Config struct.
func applyPublishSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "files"); ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("files: %w", err)
		}
		cfg.Files = val
	}

	if raw, ok := lookupSetting(settings, "ssh-user", "ssh_user", "sshuser"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("ssh-user: %w", err)
		}
		cfg.SSHUser = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "destination"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("destination: %w", err)
		}
		cfg.Destination = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "docker", "container"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("docker: %w", err)
		}
		cfg.Container = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "tags", "tags-file", "tags_file"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("tags: %w", err)
		}
		if val = strings.TrimSpace(val); val != "" {
			cfg.TagsFile = val
		}
	}

	if raw, ok := lookupSetting(settings, "dir"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("dir: %w", err)
		}
		if val = strings.TrimSpace(val); val != "" {
			cfg.Dir = val
		}
	}

	if raw, ok := lookupSetting(settings, "store-path", "store_path", "storepath"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("store-path: %w", err)
		}
		if val = strings.TrimSpace(val); val != "" {
			cfg.StorePath = val
		}
	}

	if raw, ok := lookupSetting(settings, "dry-run", "dry_run", "dryrun"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("dry-run: %w", err)
		}
		cfg.DryRun = val
	}

	if raw, ok := lookupSetting(settings, "strict"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("strict: %w", err)
		}
		cfg.Strict = val
	}

	if raw, ok := lookupSetting(settings, "output"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("output: %w", err)
		}
		if val = strings.ToLower(strings.TrimSpace(val)); val != "" {
			cfg.Output = OutputFormat(val)
		}
	}

	return nil
}

func applyConvertSettings(cfg *ConvertConfig, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "converter"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("converter: %w", err)
		}
		cfg.Converter = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "from"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("from: %w", err)
		}
		cfg.From = strings.TrimSpace(val)
	}

	if raw, ok := lookupSetting(settings, "dir"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("dir: %w", err)
		}
		if val = strings.TrimSpace(val); val != "" {
			cfg.Dir = val
		}
	}

	if raw, ok := lookupSetting(settings, "values"); ok {
		vals, err := asStringMap(raw)
		if err != nil {
			return fmt.Errorf("values: %w", err)
		}
		for k, v := range vals {
			cfg.Values[strings.TrimSpace(k)] = v
		}
	}

	return nil
}

func flagValue(flagSet *pflag.FlagSet, name string) string {
	f := flagSet.Lookup(name)
	if f == nil {
		return ""
	}
	return strings.TrimSpace(f.Value.String())
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

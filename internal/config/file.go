package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file. Pointer fields distinguish
// "absent" from zero values so the file only touches what it sets.
type fileConfig struct {
	NoGrow    *bool             `yaml:"no_grow"`
	KeepGoing *bool             `yaml:"keep_going"`
	Color     *string           `yaml:"color"`
	LogFile   *string           `yaml:"log_file"`
	Tools     map[string]string `yaml:"tools"`
}

// DefaultConfigPath returns the conventional config file location, or ""
// when the user config dir cannot be determined.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shrinkray", "config.yaml")
}

// LoadFile overlays config-file values onto o. Values are skipped for any
// flag the user passed explicitly, as reported by changed. An explicitly
// configured file must exist; the default location is optional.
func (o *Options) LoadFile(changed func(name string) bool) error {
	path := o.ConfigFile
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	if fc.NoGrow != nil && !changed("no-grow") {
		o.NoGrow = *fc.NoGrow
	}
	if fc.KeepGoing != nil && !changed("fail-fast") {
		o.KeepGoing = *fc.KeepGoing
	}
	if fc.Color != nil && !changed("color") {
		o.ColorMode = ColorMode(*fc.Color)
	}
	if fc.LogFile != nil && !changed("log-file") {
		o.LogFile = *fc.LogFile
	}
	if len(fc.Tools) > 0 {
		o.Tools = fc.Tools
	}
	return nil
}

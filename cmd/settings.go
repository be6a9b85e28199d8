package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Settings holds the values of every flag that a settings file may supply.
type Settings struct {
	LogLevel    string
	DBPath      string
	MetricsFile string
	Trace       string
	Validate    bool
	StripNoOps  bool
	Debounce    time.Duration
}

// FileSettings is the TOML form of Settings. Durations are strings and
// booleans are pointers so an absent key can be told from false.
type FileSettings struct {
	Log         string `toml:"log"`
	DB          string `toml:"db"`
	MetricsFile string `toml:"metrics_file"`
	Trace       string `toml:"trace"`
	Validate    *bool  `toml:"validate"`
	StripNoOps  *bool  `toml:"strip_noops"`
	Debounce    string `toml:"debounce"`
}

// LoadFileSettings reads and parses a TOML settings file.
func LoadFileSettings(path string) (FileSettings, error) {
	var fs FileSettings
	b, err := os.ReadFile(path)
	if err != nil {
		return fs, err
	}
	if err := toml.Unmarshal(b, &fs); err != nil {
		return fs, fmt.Errorf("parsing %s: %w", path, err)
	}
	return fs, nil
}

// DefaultSettingsPath returns ~/.stepgen/config.toml, or "" when the home
// directory cannot be determined.
func DefaultSettingsPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".stepgen", "config.toml")
	}
	return ""
}

// ApplyFileSettings copies values from fs into s, skipping every flag named
// in changed. Empty values in fs leave s alone.
func ApplyFileSettings(s *Settings, fs FileSettings, changed map[string]bool) error {
	setString := func(flag, v string, dst *string) {
		if v != "" && !changed[flag] {
			*dst = v
		}
	}
	setBool := func(flag string, v *bool, dst *bool) {
		if v != nil && !changed[flag] {
			*dst = *v
		}
	}

	setString("log", fs.Log, &s.LogLevel)
	setString("db", fs.DB, &s.DBPath)
	setString("metrics-file", fs.MetricsFile, &s.MetricsFile)
	setString("trace", fs.Trace, &s.Trace)
	setBool("validate", fs.Validate, &s.Validate)
	setBool("strip-noops", fs.StripNoOps, &s.StripNoOps)

	if fs.Debounce != "" && !changed["debounce"] {
		d, err := time.ParseDuration(fs.Debounce)
		if err != nil {
			return fmt.Errorf("debounce: %w", err)
		}
		s.Debounce = d
	}
	return nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

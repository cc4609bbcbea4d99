// Package config loads the optional lox configuration file.
//
// The file is YAML. Unknown keys are rejected so that typos surface as
// errors instead of being silently ignored.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/you-not-fish/lox/internal/interp"
)

// EnvVar names the environment variable that may point at a config file.
const EnvVar = "LOX_CONFIG"

// Config is the parsed configuration.
type Config struct {
	Path string `yaml:"-"` // file the config was loaded from; "" for defaults

	REPL    REPL    `yaml:"repl"`
	Log     Log     `yaml:"log"`
	Runtime Runtime `yaml:"runtime"`
}

// REPL configures the interactive prompt.
type REPL struct {
	Prompt       string `yaml:"prompt"`
	Continuation string `yaml:"continuation"`
	HistoryFile  string `yaml:"history_file"`
	Echo         bool   `yaml:"echo"`
}

// Log configures diagnostic logging.
type Log struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// Runtime selects evaluator semantics.
type Runtime struct {
	Equality string `yaml:"equality"`  // numbers or structural
	NilReads string `yaml:"nil_reads"` // error or uninitialized
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		REPL: REPL{
			Prompt:       "> ",
			Continuation: ". ",
			HistoryFile:  ".lox_history",
			Echo:         true,
		},
		Log: Log{Level: "info"},
		Runtime: Runtime{
			Equality: "numbers",
			NilReads: "error",
		},
	}
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Find returns the config file to use. An explicit path wins, then
// $LOX_CONFIG, then $XDG_CONFIG_HOME/lox/config.yaml if it exists.
// It returns "" when there is nothing to load.
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvVar); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	p := filepath.Join(dir, "lox", "config.yaml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// Load reads the config at path over the defaults. An empty path yields
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	conf, err := Decode(f)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = path
			return nil, verr
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	conf.Path = path
	return conf, nil
}

// Decode reads YAML from r over the defaults and validates the result.
// Empty input yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	conf := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(conf); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	var errs ValidationError
	if _, err := c.LogLevel(); err != nil {
		errs.Issues = append(errs.Issues, err.Error())
	}
	if _, err := c.Equality(); err != nil {
		errs.Issues = append(errs.Issues, err.Error())
	}
	if _, err := c.NilReads(); err != nil {
		errs.Issues = append(errs.Issues, err.Error())
	}
	if c.REPL.Prompt == "" {
		errs.Issues = append(errs.Issues, "repl.prompt must not be empty")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level: unknown level %q", c.Log.Level)
}

// Equality returns the configured equality semantics.
func (c *Config) Equality() (interp.Equality, error) {
	switch c.Runtime.Equality {
	case "", "numbers":
		return interp.EqualNumbers, nil
	case "structural":
		return interp.EqualStructural, nil
	}
	return 0, fmt.Errorf("runtime.equality: want numbers or structural, got %q", c.Runtime.Equality)
}

// NilReads returns the configured nil-read semantics.
func (c *Config) NilReads() (interp.NilReads, error) {
	switch c.Runtime.NilReads {
	case "", "error":
		return interp.NilReadsError, nil
	case "uninitialized":
		return interp.NilReadsUninitialized, nil
	}
	return 0, fmt.Errorf("runtime.nil_reads: want error or uninitialized, got %q", c.Runtime.NilReads)
}

// HistoryPath returns the REPL history file. Relative names are taken
// relative to the user's home directory.
func (c *Config) HistoryPath() string {
	p := c.REPL.HistoryFile
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p)
}

package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlfrag/pkg/consts"
	"github.com/pseudomuto/sqlfrag/pkg/dialect"
	"github.com/pseudomuto/sqlfrag/pkg/query"
	"gopkg.in/yaml.v3"
)

// Config represents the project configuration read from sqlfrag.yaml.
//
// A nil *Config is valid and behaves like a configuration with every field
// defaulted.
type Config struct {
	// Dialect names the SQL dialect used for identifier quoting and
	// placeholders (mysql, postgres, sqlite, clickhouse or an alias).
	Dialect string `yaml:"dialect"`

	// Strict makes commands fail when the formatter records errors. When
	// disabled, the errors are logged as warnings and the SQL is still
	// emitted. Defaults to true.
	Strict *bool `yaml:"strict,omitempty"`

	// LogLevel is the slog level name: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// LoadConfig parses a project configuration from the provided io.Reader.
//
// Missing fields are filled with defaults, and the dialect and log level are
// validated.
//
// Example:
//
//	cfg, err := config.LoadConfig(strings.NewReader("dialect: postgres\n"))
//	if err != nil {
//		panic(err)
//	}
//
//	client, err := cfg.NewClient()
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal sqlfrag config")
	}

	if cfg.Dialect == "" {
		cfg.Dialect = consts.DefaultDialect
	}
	if cfg.Strict == nil {
		strict := true
		cfg.Strict = &strict
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = consts.DefaultLogLevel
	}

	if _, err := dialect.New(cfg.Dialect); err != nil {
		return nil, errors.Wrap(err, "invalid sqlfrag config")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, errors.Wrap(err, "invalid sqlfrag config")
	}

	return &cfg, nil
}

// LoadConfigFile loads a project configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// GetDialect resolves the configured dialect.
func (c *Config) GetDialect() (dialect.Dialect, error) {
	if c == nil {
		return dialect.New(consts.DefaultDialect)
	}

	return dialect.New(c.Dialect)
}

// NewClient returns a query client for the configured dialect.
func (c *Config) NewClient() (*query.Client, error) {
	d, err := c.GetDialect()
	if err != nil {
		return nil, err
	}

	return query.NewClient(d), nil
}

// IsStrict reports whether formatter errors should fail a command.
func (c *Config) IsStrict() bool {
	if c == nil || c.Strict == nil {
		return true
	}

	return *c.Strict
}

// Level returns the configured log level, or slog.LevelInfo.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if c == nil || level.UnmarshalText([]byte(c.LogLevel)) != nil {
		return slog.LevelInfo
	}

	return level
}

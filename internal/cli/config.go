package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/graf/pkg/errors"
)

// Annotation ID schemes accepted by the "ids" config key.
const (
	IDsSequential = "sequential"
	IDsUUID       = "uuid"
)

// Config holds settings read from the config file. Command-line flags take
// precedence over it.
type Config struct {
	// Header is a document header (.hdr) used to resolve dependencies.
	Header string `toml:"header" yaml:"header"`

	// IDs selects how missing annotation IDs are generated:
	// "sequential" (a1, a2, ...) or "uuid".
	IDs string `toml:"ids" yaml:"ids"`

	// Indent is the number of spaces per nesting level in rendered XML.
	// Unset means the renderer's default.
	Indent *int `toml:"indent" yaml:"indent"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{IDs: IDsSequential}
}

// LoadConfig reads a TOML or YAML config file, chosen by extension
// (.yaml/.yml are YAML, anything else is TOML).
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", filepath.Base(path))
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", filepath.Base(path))
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.Header != "" && !filepath.IsAbs(cfg.Header) {
		cfg.Header = filepath.Join(filepath.Dir(path), cfg.Header)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	switch c.IDs {
	case "", IDsSequential, IDsUUID:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "ids must be %q or %q, got %q", IDsSequential, IDsUUID, c.IDs)
	}
	if c.Indent != nil && (*c.Indent < 0 || *c.Indent > 16) {
		return errors.New(errors.ErrCodeInvalidConfig, "indent must be between 0 and 16, got %d", *c.Indent)
	}
	return nil
}

func indentString(n int) string {
	return strings.Repeat(" ", n)
}

// Package config handles tactics.toml tool configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/tactics-script/codec"
	"github.com/wippyai/tactics-script/errors"
	"github.com/wippyai/tactics-script/script"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "tactics.toml"

// Config represents a tactics.toml file.
type Config struct {
	Encoding Encoding `toml:"encoding"`
	Export   Export   `toml:"export"`
	Rebuild  Rebuild  `toml:"rebuild"`
	Input    Input    `toml:"input"`
	Log      Log      `toml:"log"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Encoding names the codecs used to read and write string pools.
type Encoding struct {
	Read  string `toml:"read"`
	Write string `toml:"write"`
}

// Export configures translation file output.
type Export struct {
	Mode string `toml:"mode"`
}

// Rebuild configures where rebuilt scripts are written.
type Rebuild struct {
	OutputDir string `toml:"output_dir"`
}

// Input selects which files a directory run processes.
type Input struct {
	Pattern     string   `toml:"pattern"`
	Unsupported []string `toml:"unsupported"`
}

// Log configures the CLI logger.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Encoding: Encoding{Read: codec.DefaultName, Write: codec.DefaultName},
		Export:   Export{Mode: script.ExportMessages.String()},
		Rebuild:  Rebuild{OutputDir: "rebuild"},
		Input: Input{
			Pattern:     "*.bin",
			Unsupported: append([]string(nil), script.DefaultUnsupported...),
		},
		Log: Log{Level: "info", Format: "console"},
	}
}

// Load parses the configuration file at path. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseConfig, path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			File(path).
			Cause(err).
			Detail("parse error").
			Build()
	}
	c.Path = path

	if err := c.Validate(); err != nil {
		return nil, errors.WithFile(errors.PhaseConfig, err, path)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a tactics.toml file and loads
// it. The defaults are returned when there is none.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, errors.IO(errors.PhaseConfig, startDir, err)
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks that every name in the configuration resolves.
func (c *Config) Validate() error {
	if _, _, err := c.Codecs(); err != nil {
		return err
	}
	if _, err := c.ExportMode(); err != nil {
		return err
	}
	if _, err := filepath.Match(c.Input.Pattern, ""); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.Input.Pattern).
			Cause(err).
			Detail("bad input pattern %q", c.Input.Pattern).
			Build()
	}
	if c.Rebuild.OutputDir == "" {
		return errors.InvalidInput(errors.PhaseConfig, "rebuild output_dir is empty")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.Log.Level).
			Cause(err).
			Detail("bad log level %q", c.Log.Level).
			Build()
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}
	return nil
}

// Codecs resolves the read and write encodings.
func (c *Config) Codecs() (read, write *codec.Codec, err error) {
	if read, err = codec.Lookup(c.Encoding.Read); err != nil {
		return nil, nil, err
	}
	if write, err = codec.Lookup(c.Encoding.Write); err != nil {
		return nil, nil, err
	}
	return read, write, nil
}

// ExportMode parses the configured export mode.
func (c *Config) ExportMode() (script.ExportMode, error) {
	return script.ParseExportMode(c.Export.Mode)
}

// ScriptOptions returns the options used to open scripts.
func (c *Config) ScriptOptions() (script.Options, error) {
	read, _, err := c.Codecs()
	if err != nil {
		return script.Options{}, err
	}
	return script.Options{Input: read, Unsupported: c.Input.Unsupported}, nil
}

// NewLogger builds the CLI logger from the [log] section.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.Log.Level).
			Cause(err).
			Detail("bad log level %q", c.Log.Level).
			Build()
	}

	var zc zap.Config
	if c.Log.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableCaller = true

	l, err := zc.Build()
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).Cause(err).Detail("build logger").Build()
	}
	return l, nil
}

// Package config handles smalireflect.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/chazu/smalireflect/host"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "smalireflect.toml"

// Config represents a smalireflect.toml configuration.
type Config struct {
	Log     Log     `toml:"log"`
	Reflect Reflect `toml:"reflect"`
	Journal Journal `toml:"journal"`

	// Dir is the directory containing the smalireflect.toml file (set at load time).
	Dir string `toml:"-"`
}

// Log configures the commonlog backend.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Reflect configures which host classes the bridge may use.
type Reflect struct {
	SafeClasses   []string `toml:"safe-classes"`
	UnsafeClasses []string `toml:"unsafe-classes"`
}

// Journal configures the failure journal.
type Journal struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no smalireflect.toml exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Reflect.UnsafeClasses == nil {
		c.Reflect.UnsafeClasses = []string{"java.lang.Runtime", "java.lang.System", "java.lang.Thread"}
	}
}

// Load parses a smalireflect.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	c.applyDefaults()
	return &c, nil
}

// FindAndLoad walks up from startDir to find a smalireflect.toml file and
// loads it. Without one it returns Default().
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Policy returns the class policy for the host registry.
func (c *Config) Policy() host.Policy {
	return host.Policy{
		Safe:   append([]string(nil), c.Reflect.SafeClasses...),
		Unsafe: append([]string(nil), c.Reflect.UnsafeClasses...),
	}
}

// JournalPath returns the absolute journal path, or "" when the journal is
// disabled.
func (c *Config) JournalPath() string {
	return c.resolve(c.Journal.Path)
}

// LogPath returns the absolute log file path, or "" for stderr.
func (c *Config) LogPath() string {
	return c.resolve(c.Log.File)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// ConfigureLogging applies the log section to commonlog. A commonlog backend
// must be linked in, e.g. by importing github.com/tliron/commonlog/simple.
func (c *Config) ConfigureLogging() {
	if p := c.LogPath(); p != "" {
		commonlog.Configure(c.Log.Verbosity, &p)
		return
	}
	commonlog.Configure(c.Log.Verbosity, nil)
}

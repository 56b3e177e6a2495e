// Package config handles the binfetch registry file: which tools are managed,
// their pinned state, and where binaries get installed.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/adamancini/binfetch/internal/backup"
)

// repoPattern validates the owner/name form of a GitHub repository.
var repoPattern = regexp.MustCompile(`^[^/]+/[^/]+$`)

// Tool is one registered binary.
type Tool struct {
	Name         string `toml:"name" json:"name" yaml:"name"`
	Repo         string `toml:"repo" json:"repo" yaml:"repo"`
	BinaryName   string `toml:"binary_name,omitempty" json:"binary_name,omitempty" yaml:"binary_name,omitempty"`
	AssetPattern string `toml:"asset_pattern,omitempty" json:"asset_pattern,omitempty" yaml:"asset_pattern,omitempty"`
	Version      string `toml:"version,omitempty" json:"version,omitempty" yaml:"version,omitempty"`
}

// Binary returns the name of the file to extract and install. Defaults to the
// tool name when no override is set.
func (t Tool) Binary() string {
	if t.BinaryName != "" {
		return t.BinaryName
	}
	return t.Name
}

// Settings holds host-wide configuration.
type Settings struct {
	InstallDir string `toml:"install_dir" json:"install_dir" yaml:"install_dir"`
}

// Config is the persisted registry: settings plus the list of managed tools.
type Config struct {
	Settings Settings `toml:"settings"`
	Tools    []Tool   `toml:"tools,omitempty"`

	path string
}

// DuplicateToolError is returned when adding a tool whose name is taken.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q already exists", e.Name)
}

// UnknownToolError is returned when a named tool is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tool %q is not registered", e.Name)
}

// Path resolves the registry file location: an explicit path if given, then
// the BINFETCH_CONFIG environment variable, then
// $XDG_CONFIG_HOME/binfetch/config.toml (with ~/.config as the XDG default).
func Path(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv("BINFETCH_CONFIG"); env != "" {
		return env, nil
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "binfetch", "config.toml"), nil
}

// Default returns a fresh registry that would be written to path.
func Default(path string) *Config {
	return &Config{
		Settings: Settings{InstallDir: "~/.local/bin"},
		path:     path,
	}
}

// Load reads the registry at path. A missing file yields the default
// registry, so first runs need no setup step.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(path), nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.path = path
	if cfg.Settings.InstallDir == "" {
		cfg.Settings.InstallDir = "~/.local/bin"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool)
	for _, t := range c.Tools {
		if t.Name == "" {
			return fmt.Errorf("tool with empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate tool name %q", t.Name)
		}
		seen[t.Name] = true
		if !repoPattern.MatchString(t.Repo) {
			return fmt.Errorf("tool %q: repo %q is not owner/name", t.Name, t.Repo)
		}
	}
	return nil
}

// Save writes the registry back to disk, snapshotting the previous file into
// the backup directory first.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no path")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(c.path); err == nil {
		if err := backup.Snapshot(c.path); err != nil {
			return fmt.Errorf("failed to snapshot config: %w", err)
		}
	}

	content, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(c.path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", c.path, err)
	}
	return nil
}

// InstallDir returns the install directory with tilde and environment
// variables expanded.
func (c *Config) InstallDir() string {
	return ExpandPath(c.Settings.InstallDir)
}

// Get returns the named tool.
func (c *Config) Get(name string) (Tool, bool) {
	for _, t := range c.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// Add registers a new tool and persists the registry. The name must be
// unused.
func (c *Config) Add(t Tool) error {
	if _, ok := c.Get(t.Name); ok {
		return &DuplicateToolError{Name: t.Name}
	}
	if !repoPattern.MatchString(t.Repo) {
		return fmt.Errorf("repo %q is not owner/name", t.Repo)
	}
	c.Tools = append(c.Tools, t)
	return c.Save()
}

// Put replaces an existing tool entry (matched by name) and persists the
// registry.
func (c *Config) Put(t Tool) error {
	for i := range c.Tools {
		if c.Tools[i].Name == t.Name {
			c.Tools[i] = t
			return c.Save()
		}
	}
	return &UnknownToolError{Name: t.Name}
}

// Remove drops the named tool and persists the registry.
func (c *Config) Remove(name string) error {
	for i := range c.Tools {
		if c.Tools[i].Name == name {
			c.Tools = append(c.Tools[:i], c.Tools[i+1:]...)
			return c.Save()
		}
	}
	return &UnknownToolError{Name: name}
}

// List returns all registered tools sorted by name.
func (c *Config) List() []Tool {
	out := append([]Tool(nil), c.Tools...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

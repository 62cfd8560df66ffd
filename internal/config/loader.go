package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// FileName is the configuration file looked for in each search directory.
	FileName = "pantry.toml"

	// AppDir is the directory PantryMind uses under the XDG config and data homes.
	AppDir = "pantrymind"
)

// LoadError reports a configuration file that exists but cannot be used.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading config from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load builds the configuration in three layers: defaults, the first
// pantry.toml found, then .env and PANTRY_* variables. With an explicit path
// only that file is read. Otherwise the search order is
// $XDG_CONFIG_HOME/pantrymind, then the working directory; when neither has
// a file and createDefault is set, the defaults are written to the first
// location that accepts them.
//
// It returns the file the configuration came from, or "" when the defaults
// could not be written anywhere.
func Load(explicitPath string, createDefault bool) (*Config, string, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, "", err
	}

	cfg, path, err := readConfig(explicitPath, createDefault)
	if err != nil {
		return nil, "", err
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, "", &LoadError{Path: path, Err: err}
	}
	return cfg, path, nil
}

func readConfig(explicitPath string, createDefault bool) (*Config, string, error) {
	if explicitPath != "" {
		cfg, err := decodeFile(explicitPath)
		if err != nil {
			return nil, "", &LoadError{Path: explicitPath, Err: err}
		}
		return cfg, explicitPath, nil
	}

	candidates := searchPaths()
	for _, path := range candidates {
		if !fileExists(path) {
			continue
		}
		cfg, err := decodeFile(path)
		if err != nil {
			return nil, "", &LoadError{Path: path, Err: err}
		}
		return cfg, path, nil
	}

	if !createDefault {
		return nil, "", errors.New("no configuration file found; searched: " + strings.Join(candidates, ", "))
	}

	cfg := Default()
	for _, path := range candidates {
		if err := Save(cfg, path); err == nil {
			return cfg, path, nil
		}
	}
	return cfg, "", nil
}

// decodeFile overlays a TOML file on the defaults and validates the result.
func decodeFile(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	header := `# PantryMind configuration
#
# Values can be overridden with PANTRY_* environment variables or a .env file.

`
	if _, err := f.WriteString(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}
	return nil
}

// ConfigPath returns the file Load would read, or the file it would create.
func ConfigPath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	candidates := searchPaths()
	for _, path := range candidates {
		if fileExists(path) {
			return path
		}
	}
	return candidates[0]
}

// searchPaths lists the config file locations in lookup order.
func searchPaths() []string {
	var paths []string
	if dir := xdgHome("XDG_CONFIG_HOME", ".config"); dir != "" {
		paths = append(paths, filepath.Join(dir, AppDir, FileName))
	}
	return append(paths, filepath.Join(".", FileName))
}

// xdgHome returns $env, else ~/fallback, else "".
func xdgHome(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Paths are the files a configuration resolves to on this machine.
type Paths struct {
	Database string
	Backups  string // next to the database
	LogFile  string // empty when logging goes to stderr
}

// ResolvePaths places the configured files and creates their directories. A
// relative database path lives under $XDG_DATA_HOME/pantrymind (or
// ~/.local/share/pantrymind), falling back to the working directory. The
// log file is taken as given.
func ResolvePaths(cfg *Config) (Paths, error) {
	var p Paths

	p.Database = cfg.Database.Path
	if !filepath.IsAbs(p.Database) {
		if data := xdgHome("XDG_DATA_HOME", filepath.Join(".local", "share")); data != "" {
			dir := filepath.Join(data, AppDir)
			if err := os.MkdirAll(dir, 0750); err == nil {
				p.Database = filepath.Join(dir, p.Database)
			}
		}
	}
	if err := mkdirFor(p.Database); err != nil {
		return Paths{}, fmt.Errorf("creating database directory: %w", err)
	}

	p.Backups = filepath.Join(filepath.Dir(p.Database), "backups")
	if err := os.MkdirAll(p.Backups, 0750); err != nil {
		return Paths{}, fmt.Errorf("creating backup directory: %w", err)
	}

	p.LogFile = cfg.Logging.File
	if p.LogFile != "" {
		if err := mkdirFor(p.LogFile); err != nil {
			return Paths{}, fmt.Errorf("creating log directory: %w", err)
		}
	}

	return p, nil
}

func mkdirFor(file string) error {
	dir := filepath.Dir(file)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0750)
}

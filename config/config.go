// Package config loads the runtime configuration: a YAML file with
// defaults for every field, plus SIGNPRESS_* environment overrides
// for the settings that differ between machines.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"signpress/document"
	"signpress/ingest"
	"signpress/label"
)

// Store drivers.
const (
	DriverMemory    = "memory"
	DriverSQLite    = "sqlite"
	DriverFirestore = "firestore"
)

// Duration parses YAML scalars like "2s" or "500ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Cleaner configures the name-cleaning collaborator. The API key is
// never stored in the file; APIKeyEnv names the variable holding it.
type Cleaner struct {
	Model     string   `yaml:"model"`
	APIKeyEnv string   `yaml:"api_key_env"`
	Attempts  int      `yaml:"attempts"`
	Backoff   Duration `yaml:"backoff"`
	Timeout   Duration `yaml:"timeout"`
	// Disabled skips the collaborator entirely; every name goes
	// through the deterministic fallback.
	Disabled bool `yaml:"disabled"`
}

// APIKey resolves the collaborator credential from the environment.
func (c Cleaner) APIKey() string { return os.Getenv(c.APIKeyEnv) }

// StoreConfig selects and parameterizes the state store backend.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	// Path is the database file for the sqlite driver.
	Path string `yaml:"path"`
	// Project and Collection locate the firestore driver's data.
	Project    string `yaml:"project"`
	Collection string `yaml:"collection"`
	// Attempts and Backoff bound the retry on state I/O for the
	// sqlite and firestore drivers.
	Attempts int      `yaml:"attempts"`
	Backoff  Duration `yaml:"backoff"`
}

// Config is the full runtime configuration.
type Config struct {
	Label label.Config        `yaml:"label"`
	Page  document.PageConfig `yaml:"page"`
	// PageSize is a shorthand for page.width/page.height: "a4",
	// "letter" or "WxH" in mm, e.g. "210x297".
	PageSize string `yaml:"page_size"`
	Cleaner Cleaner             `yaml:"cleaner"`
	Store   StoreConfig         `yaml:"store"`
	Columns ingest.Mapping      `yaml:"columns"`

	// FontsDir holds Heebo-{Regular,Bold,ExtraBold}.ttf; empty means
	// the built-in faces.
	FontsDir string `yaml:"fonts_dir"`
	Workers  int    `yaml:"workers"`

	EmitOriginal    bool `yaml:"emit_original"`
	EmitNamesReport bool `yaml:"emit_names_report"`
}

// Default returns the stock configuration: in-memory state, the
// collaborator enabled against GEMINI_API_KEY, and the standard label
// and page designs.
func Default() Config {
	return Config{
		Label: label.DefaultConfig(),
		Page:  document.DefaultPageConfig(),
		Cleaner: Cleaner{
			Model:     "gemini-flash-latest",
			APIKeyEnv: "GEMINI_API_KEY",
			Attempts:  2,
			Backoff:   Duration(2 * time.Second),
			Timeout:   Duration(60 * time.Second),
		},
		Store: StoreConfig{
			Driver:     DriverMemory,
			Path:       "signpress.db",
			Collection: "products",
			Attempts:   3,
			Backoff:    Duration(200 * time.Millisecond),
		},
		Columns: ingest.DefaultMapping(),
		Workers: 4,
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path loads defaults and environment
// only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if cfg.PageSize != "" {
		w, h, err := parsePageSize(cfg.PageSize)
		if err != nil {
			return Config{}, err
		}
		cfg.Page.Width, cfg.Page.Height = w, h
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parsePageSize(s string) (w, h float64, err error) {
	switch strings.ToLower(s) {
	case "a4":
		return 210, 297, nil
	case "letter":
		return 215.9, 279.4, nil
	}
	parts := strings.SplitN(s, "x", 2)
	if len(parts) == 2 {
		w, errW := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		h, errH := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errW == nil && errH == nil && w > 0 && h > 0 {
			return w, h, nil
		}
	}
	return 0, 0, fmt.Errorf("config: bad page_size %q, want a4, letter or WxH in mm", s)
}

// applyEnv layers SIGNPRESS_* variables over the file values.
func (c *Config) applyEnv() {
	setString(&c.Store.Driver, "SIGNPRESS_STORE_DRIVER")
	setString(&c.Store.Path, "SIGNPRESS_STORE_PATH")
	setString(&c.Store.Project, "SIGNPRESS_STORE_PROJECT")
	setString(&c.Store.Collection, "SIGNPRESS_STORE_COLLECTION")
	setString(&c.Cleaner.Model, "SIGNPRESS_CLEANER_MODEL")
	setString(&c.FontsDir, "SIGNPRESS_FONTS_DIR")
	if v, ok := os.LookupEnv("SIGNPRESS_WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if v, ok := os.LookupEnv("SIGNPRESS_CLEANER_DISABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cleaner.Disabled = b
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate rejects values no backend can act on.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite, DriverFirestore:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == DriverFirestore && c.Store.Project == "" {
		return fmt.Errorf("config: the firestore driver needs store.project")
	}
	if c.Store.Attempts < 1 {
		return fmt.Errorf("config: store.attempts must be at least 1")
	}
	if c.Cleaner.Attempts < 1 {
		return fmt.Errorf("config: cleaner.attempts must be at least 1")
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1")
	}
	return nil
}

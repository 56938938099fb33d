package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Version    int              `toml:"version"`
	Navigation NavigationConfig `toml:"navigation"`
	Selectors  Selectors        `toml:"selectors"`
	Highlight  Highlight        `toml:"highlight"`
	Keys       Keys             `toml:"keys"`
	Catalog    CatalogConfig    `toml:"catalog"`
	Logging    LoggingConfig    `toml:"logging"`
	Metrics    MetricsConfig    `toml:"metrics"`
}

// NavigationConfig tunes the directional selector and startup polling
type NavigationConfig struct {
	NoiseMargin     float64 `toml:"noise_margin"`
	CrossAxisWeight float64 `toml:"cross_axis_weight"`
	ReadyAttempts   int     `toml:"ready_attempts"`
	ReadyIntervalMs int     `toml:"ready_interval_ms"`
	MaxDrain        int     `toml:"max_drain"` // cap on task-queue drain iterations
}

// ReadyInterval returns the polling interval as a duration
func (n NavigationConfig) ReadyInterval() time.Duration {
	return time.Duration(n.ReadyIntervalMs) * time.Millisecond
}

// Selectors are the CSS selectors that define element roles
type Selectors struct {
	Tile        string `toml:"tile"`
	Overlay     string `toml:"overlay"`
	Interactive string `toml:"interactive"`
	Close       string `toml:"close"`
	TextEntry   string `toml:"text_entry"`
}

// Highlight names the classes the engine applies
type Highlight struct {
	Class          string `toml:"class"`
	FocusableClass string `toml:"focusable_class"`
}

// Keys maps key names to navigation commands
type Keys struct {
	Up       []string `toml:"up"`
	Down     []string `toml:"down"`
	Left     []string `toml:"left"`
	Right    []string `toml:"right"`
	Activate []string `toml:"activate"`
	Back     []string `toml:"back"`
}

// CatalogConfig controls the catalog page layout
type CatalogConfig struct {
	File           string  `toml:"file"`
	Columns        int     `toml:"columns"`
	TileWidth      float64 `toml:"tile_width"`
	TileHeight     float64 `toml:"tile_height"`
	Gap            float64 `toml:"gap"`
	ViewportHeight float64 `toml:"viewport_height"`
	Watch          bool    `toml:"watch"`
}

// LoggingConfig controls the log file
type LoggingConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig controls the prometheus endpoint; empty Addr disables it
type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service backed by the user config dir
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return &configService{
		filePath: filepath.Join(configDir, "tvnav", "config.toml"),
	}
}

// NewConfigServiceAt creates a config service for a fixed file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// Load loads the configuration, falling back to defaults if the file is missing
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the values the engine relies on
func Validate(cfg *Config) error {
	nav := cfg.Navigation
	switch {
	case nav.NoiseMargin < 0:
		return fmt.Errorf("%w: navigation.noise_margin must not be negative", ErrInvalid)
	case nav.CrossAxisWeight <= 1:
		return fmt.Errorf("%w: navigation.cross_axis_weight must be greater than 1", ErrInvalid)
	case nav.ReadyAttempts < 1:
		return fmt.Errorf("%w: navigation.ready_attempts must be at least 1", ErrInvalid)
	case nav.ReadyIntervalMs < 0:
		return fmt.Errorf("%w: navigation.ready_interval_ms must not be negative", ErrInvalid)
	case nav.MaxDrain < 1:
		return fmt.Errorf("%w: navigation.max_drain must be at least 1", ErrInvalid)
	}

	sel := map[string]string{
		"tile":        cfg.Selectors.Tile,
		"overlay":     cfg.Selectors.Overlay,
		"interactive": cfg.Selectors.Interactive,
		"close":       cfg.Selectors.Close,
		"text_entry":  cfg.Selectors.TextEntry,
	}
	for name, v := range sel {
		if v == "" {
			return fmt.Errorf("%w: selectors.%s is empty", ErrInvalid, name)
		}
	}

	keys := map[string][]string{
		"up":       cfg.Keys.Up,
		"down":     cfg.Keys.Down,
		"left":     cfg.Keys.Left,
		"right":    cfg.Keys.Right,
		"activate": cfg.Keys.Activate,
		"back":     cfg.Keys.Back,
	}
	for name, v := range keys {
		if len(v) == 0 {
			return fmt.Errorf("%w: keys.%s has no bindings", ErrInvalid, name)
		}
	}

	if cfg.Highlight.Class == "" {
		return fmt.Errorf("%w: highlight.class is empty", ErrInvalid)
	}
	if cfg.Catalog.Columns < 1 {
		return fmt.Errorf("%w: catalog.columns must be at least 1", ErrInvalid)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Navigation: NavigationConfig{
			NoiseMargin:     4,
			CrossAxisWeight: 2,
			ReadyAttempts:   50,
			ReadyIntervalMs: 100,
			MaxDrain:        64,
		},
		Selectors: Selectors{
			Tile:        ".tile, [data-nav=tile]",
			Overlay:     ".overlay.open, dialog[open]",
			Interactive: "a[href], button, input, select, textarea, [data-activatable], [role=button]",
			Close:       ".overlay-close, [data-overlay-close]",
			TextEntry:   "input:not([type]), input[type=text], input[type=search], textarea, select, [contenteditable]",
		},
		Highlight: Highlight{
			Class:          "tv-focused",
			FocusableClass: "tv-focusable",
		},
		Keys: DefaultKeys(),
		Catalog: CatalogConfig{
			File:           "titles.toml",
			Columns:        5,
			TileWidth:      180,
			TileHeight:     120,
			Gap:            20,
			ViewportHeight: 720,
			Watch:          true,
		},
		Logging: LoggingConfig{
			File:  "tvnav.log",
			Level: "info",
		},
	}
}

// DefaultKeys returns the key map for keyboards and common TV remotes
func DefaultKeys() Keys {
	return Keys{
		Up:       []string{"ArrowUp", "Up"},
		Down:     []string{"ArrowDown", "Down"},
		Left:     []string{"ArrowLeft", "Left"},
		Right:    []string{"ArrowRight", "Right"},
		Activate: []string{"Enter", " ", "NumpadEnter", "Select"},
		Back:     []string{"Backspace", "Escape", "GoBack", "BrowserBack", "XF86Back"},
	}
}

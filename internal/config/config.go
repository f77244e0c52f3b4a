// Package config provides Viper-based configuration loading for wtii.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// AppName names the configuration and cache directories.
const AppName = "wtii"

// Open5eConfig holds monster search settings.
type Open5eConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PartyConfig locates the default party file.
type PartyConfig struct {
	File string `mapstructure:"file"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File receives the log; the terminal belongs to the interface.
	File string `mapstructure:"file"`
}

// GeminiConfig enables narration. An empty APIKey disables it.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// KeyBindings maps each roster command to a single key.
type KeyBindings struct {
	NewEncounter   string `mapstructure:"new_encounter"`
	SetInitiative  string `mapstructure:"set_initiative"`
	Quit           string `mapstructure:"quit"`
	UnselectAll    string `mapstructure:"unselect_all"`
	MoveDown       string `mapstructure:"move_down"`
	MoveUp         string `mapstructure:"move_up"`
	PeekDown       string `mapstructure:"peek_down"`
	PeekUp         string `mapstructure:"peek_up"`
	LowerHealth    string `mapstructure:"lower_health"`
	IncreaseHealth string `mapstructure:"increase_health"`
	Search         string `mapstructure:"search"`
	InsertPlayer   string `mapstructure:"insert_player"`
	Delete         string `mapstructure:"delete"`
	SetDescription string `mapstructure:"set_description"`
	Duplicate      string `mapstructure:"duplicate"`
	Narrate        string `mapstructure:"narrate"`
	SaveParty      string `mapstructure:"save_party"`
}

// DefaultKeyBindings returns the stock bindings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		NewEncounter:   "e",
		SetInitiative:  "i",
		Quit:           "q",
		UnselectAll:    "u",
		MoveDown:       "j",
		MoveUp:         "k",
		PeekDown:       "J",
		PeekUp:         "K",
		LowerHealth:    "h",
		IncreaseHealth: "l",
		Search:         "s",
		InsertPlayer:   "c",
		Delete:         "D",
		SetDescription: "d",
		Duplicate:      "x",
		Narrate:        "g",
		SaveParty:      "W",
	}
}

// named lists the bindings with their config names, in declaration order.
func (k KeyBindings) named() [][2]string {
	return [][2]string{
		{"new_encounter", k.NewEncounter},
		{"set_initiative", k.SetInitiative},
		{"quit", k.Quit},
		{"unselect_all", k.UnselectAll},
		{"move_down", k.MoveDown},
		{"move_up", k.MoveUp},
		{"peek_down", k.PeekDown},
		{"peek_up", k.PeekUp},
		{"lower_health", k.LowerHealth},
		{"increase_health", k.IncreaseHealth},
		{"search", k.Search},
		{"insert_player", k.InsertPlayer},
		{"delete", k.Delete},
		{"set_description", k.SetDescription},
		{"duplicate", k.Duplicate},
		{"narrate", k.Narrate},
		{"save_party", k.SaveParty},
	}
}

// Config is the top-level application configuration.
type Config struct {
	Open5e  Open5eConfig  `mapstructure:"open5e"`
	Party   PartyConfig   `mapstructure:"party"`
	Logging LoggingConfig `mapstructure:"logging"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	Keys    KeyBindings   `mapstructure:"keys"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateOpen5e(c.Open5e); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Party.File == "" {
		errs = append(errs, "party.file must not be empty")
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Gemini.Model == "" {
		errs = append(errs, "gemini.model must not be empty")
	}
	if err := validateKeys(c.Keys); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateOpen5e(o Open5eConfig) error {
	var errs []string
	u, err := url.Parse(o.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("open5e.base_url must be an absolute URL, got %q", o.BaseURL))
	}
	if o.Timeout < 0 {
		errs = append(errs, "open5e.timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.File == "" {
		return errors.New("logging.file must not be empty")
	}
	return nil
}

func validateKeys(k KeyBindings) error {
	var errs []string
	seen := map[string]string{}
	for _, b := range k.named() {
		name, key := b[0], b[1]
		if utf8.RuneCountInString(key) != 1 {
			errs = append(errs, fmt.Sprintf("keys.%s must be a single character, got %q", name, key))
			continue
		}
		if other, dup := seen[key]; dup {
			errs = append(errs, fmt.Sprintf("keys.%s and keys.%s are both bound to %q", other, name, key))
			continue
		}
		seen[key] = name
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Dir returns the directory holding the config and party files.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, AppName)
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func cacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, AppName)
}

// Load reads configuration from path, applies environment variable overrides,
// and validates the result. An empty path reads DefaultPath if it exists.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WTII")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini.api_key", "WTII_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("binding gemini.api_key: %w", err)
	}

	optional := path == ""
	if optional {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !(optional && isNotFound(err)) {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("open5e.base_url", "https://api.open5e.com")
	v.SetDefault("open5e.timeout", "10s")

	v.SetDefault("party.file", filepath.Join(Dir(), "party.yaml"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", filepath.Join(cacheDir(), "wtii.log"))

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	for _, b := range DefaultKeyBindings().named() {
		v.SetDefault("keys."+b[0], b[1])
	}
}

// Narration reports whether a Gemini key is configured.
func (c Config) Narration() bool {
	return c.Gemini.APIKey != ""
}

// KeyNames lists every configurable key binding name.
func KeyNames() []string {
	var names []string
	for _, b := range DefaultKeyBindings().named() {
		names = append(names, b[0])
	}
	return slices.Clip(names)
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	domainconfig "github.com/eykd/prosemark-sub000/domain/config"
	"github.com/eykd/prosemark-sub000/pkg/utils"
)

// DefaultConfigFile is looked up in the project directory when
// PROSEMARK_CONFIG is not set
const DefaultConfigFile = ".prosemark.yml"

// Config holds all application configuration
type Config struct {
	Environment string `yaml:"environment" validate:"required,oneof=development test staging production"`
	LogLevel    string `yaml:"log_level" validate:"required,oneof=debug info warn error"`

	// Project layout
	ProjectDir string `yaml:"project_dir" validate:"required,dir"`
	BinderFile string `yaml:"binder_file" validate:"required"`

	// Outline grammar
	Outline OutlineConfig `yaml:"outline"`

	// binder-check behaviour
	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce" validate:"min=0"`
	Rewrite       bool          `yaml:"rewrite"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-"`
}

// OutlineConfig mirrors the domain grammar settings in file form
type OutlineConfig struct {
	Profile           string `yaml:"profile" validate:"omitempty,oneof=default strict"`
	IndentWidth       int    `yaml:"indent_width" validate:"min=1,max=8"`
	LinkExtension     string `yaml:"link_extension" validate:"required"`
	AllowPlaceholders bool   `yaml:"allow_placeholders"`
	MaxTitleLength    int    `yaml:"max_title_length" validate:"min=1"`
}

// LoadConfig loads configuration from defaults, an optional YAML file and
// environment variables, in that order of priority
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()
	cfg.LoadedFrom = []string{"defaults"}

	if dir := os.Getenv("PROSEMARK_PROJECT_DIR"); dir != "" {
		cfg.ProjectDir = dir
	}

	path, explicit := os.Getenv("PROSEMARK_CONFIG"), true
	if path == "" {
		path, explicit = filepath.Join(cfg.ProjectDir, DefaultConfigFile), false
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else {
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	cfg.loadEnvironmentVariables()
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	d := domainconfig.DefaultDomainConfig()
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		ProjectDir:  ".",
		BinderFile:  "_binder.md",
		Outline: OutlineConfig{
			Profile:           "default",
			IndentWidth:       d.IndentWidth,
			LinkExtension:     d.LinkExtension,
			AllowPlaceholders: d.AllowPlaceholderLinks,
			MaxTitleLength:    d.MaxTitleLength,
		},
		WatchDebounce: 100 * time.Millisecond,
	}
}

// loadFile overlays the YAML file at path. A profile named in the file
// resets the outline settings to that preset before the file's own
// outline keys apply.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var probe struct {
		Outline struct {
			Profile string `yaml:"profile"`
		} `yaml:"outline"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if probe.Outline.Profile != "" {
		c.applyProfile(probe.Outline.Profile)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyProfile(profile string) {
	d := domainconfig.LoadDomainConfig(profile)
	c.Outline = OutlineConfig{
		Profile:           profile,
		IndentWidth:       d.IndentWidth,
		LinkExtension:     d.LinkExtension,
		AllowPlaceholders: d.AllowPlaceholderLinks,
		MaxTitleLength:    d.MaxTitleLength,
	}
}

// loadEnvironmentVariables overlays environment variables on the configuration
func (c *Config) loadEnvironmentVariables() {
	if val := os.Getenv("ENVIRONMENT"); val != "" {
		c.Environment = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = strings.ToLower(val)
	}

	// Project layout
	if val := os.Getenv("PROSEMARK_PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("PROSEMARK_BINDER_FILE"); val != "" {
		c.BinderFile = val
	}

	// Outline grammar
	if val := os.Getenv("PROSEMARK_PROFILE"); val != "" {
		c.applyProfile(val)
	}
	if val := os.Getenv("PROSEMARK_INDENT_WIDTH"); val != "" {
		c.Outline.IndentWidth = getInt(val, c.Outline.IndentWidth)
	}
	if val := os.Getenv("PROSEMARK_LINK_EXTENSION"); val != "" {
		c.Outline.LinkExtension = val
	}

	// Behaviour
	if val := os.Getenv("PROSEMARK_WATCH"); val != "" {
		c.Watch = parseBool(val)
	}
	if val := os.Getenv("PROSEMARK_REWRITE"); val != "" {
		c.Rewrite = parseBool(val)
	}
	if val := os.Getenv("ENABLE_METRICS"); val != "" {
		c.EnableMetrics = parseBool(val)
	}
}

// Validate checks the configuration and the outline grammar it describes
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}
	return c.Domain().Validate()
}

// Domain returns the outline grammar settings
func (c *Config) Domain() *domainconfig.DomainConfig {
	return &domainconfig.DomainConfig{
		IndentWidth:           c.Outline.IndentWidth,
		LinkExtension:         c.Outline.LinkExtension,
		AllowPlaceholderLinks: c.Outline.AllowPlaceholders,
		MaxTitleLength:        c.Outline.MaxTitleLength,
	}
}

// BinderPath returns the location of the binder file
func (c *Config) BinderPath() string {
	if filepath.IsAbs(c.BinderFile) {
		return c.BinderFile
	}
	return filepath.Join(c.ProjectDir, c.BinderFile)
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseBool(value string) bool {
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes"
}

func getInt(value string, defaultValue int) int {
	if intVal, err := strconv.Atoi(value); err == nil {
		return intVal
	}
	return defaultValue
}
